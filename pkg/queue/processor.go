package queue

import (
	"context"
	"encoding/json"
	"log/slog"

	"github.com/google/uuid"

	"github.com/bizmarket/notify/pkg/logger"
	"github.com/bizmarket/notify/pkg/notification"
	"github.com/bizmarket/notify/pkg/retry"
)

// Dispatcher is the downstream the consumers feed. Satisfied by
// *dispatch.Dispatcher.
type Dispatcher interface {
	Dispatch(ctx context.Context, req notification.Request) (uuid.UUID, error)
}

// Processor turns one raw queue payload into a dispatched notification.
// Both queue sources share it, so decode, validation, and retry behavior
// are identical regardless of which broker the payload arrived on.
//
// Malformed payloads are dropped with a logged reason and never retried;
// retries are reserved for transient transport failures during dispatch.
type Processor struct {
	dispatcher Dispatcher
	log        *slog.Logger
	retryOpts  []retry.Option
}

// ProcessorOption configures a Processor.
type ProcessorOption func(*Processor)

// WithLogger sets the logger for drop and failure reporting.
func WithLogger(log *slog.Logger) ProcessorOption {
	return func(p *Processor) {
		if log != nil {
			p.log = log
		}
	}
}

// WithRetryOptions sets the backoff policy applied around each dispatch.
func WithRetryOptions(opts ...retry.Option) ProcessorOption {
	return func(p *Processor) {
		p.retryOpts = opts
	}
}

// NewProcessor creates a processor feeding the given dispatcher.
func NewProcessor(dispatcher Dispatcher, opts ...ProcessorOption) (*Processor, error) {
	if dispatcher == nil {
		return nil, ErrDispatcherRequired
	}

	p := &Processor{
		dispatcher: dispatcher,
		log:        slog.Default(),
	}
	for _, opt := range opts {
		opt(p)
	}
	return p, nil
}

// Process handles one serialized notification request from the named queue
// source. It returns nil for dropped payloads; an error means delivery
// failed after retries were exhausted.
func (p *Processor) Process(ctx context.Context, source string, payload []byte) error {
	var req notification.Request
	if err := json.Unmarshal(payload, &req); err != nil {
		p.log.WarnContext(ctx, "dropping malformed queue payload",
			logger.Queue(source),
			logger.Error(err),
		)
		return nil
	}

	if err := req.Validate(); err != nil {
		p.log.WarnContext(ctx, "dropping invalid notification request",
			logger.Queue(source),
			logger.Error(err),
		)
		return nil
	}

	var taskID uuid.UUID
	err := retry.Run(ctx, func(ctx context.Context) error {
		id, err := p.dispatcher.Dispatch(ctx, req)
		if err == nil {
			taskID = id
		}
		return err
	}, p.retryOpts...)
	if err != nil {
		p.log.ErrorContext(ctx, "notification delivery failed",
			logger.Queue(source),
			logger.Error(err),
		)
		return err
	}

	p.log.InfoContext(ctx, "queued notification dispatched",
		logger.Queue(source),
		logger.TaskID(taskID.String()),
	)
	return nil
}
