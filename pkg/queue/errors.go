package queue

import "errors"

var (
	// ErrDispatcherRequired is returned when a processor is constructed
	// without a dispatcher.
	ErrDispatcherRequired = errors.New("queue.errors.dispatcher_required")

	// ErrConnRequired is returned when a consumer is constructed without
	// its broker connection.
	ErrConnRequired = errors.New("queue.errors.conn_required")

	// ErrSubjectRequired is returned when a consumer is constructed
	// without a subject or channel to consume from.
	ErrSubjectRequired = errors.New("queue.errors.subject_required")
)
