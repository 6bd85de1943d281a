package queue

import (
	"context"
	"errors"
	"fmt"

	"github.com/nats-io/nats.go"
)

// Consumer pulls serialized notification requests from one queue source.
// Each consumer runs in its own goroutine; a stall in one source never
// blocks another.
type Consumer interface {
	// Name identifies the source in logs.
	Name() string

	// Run consumes until the context is canceled. It returns nil on
	// graceful shutdown.
	Run(ctx context.Context) error
}

// NATSConsumer consumes notification payloads from a NATS subject.
type NATSConsumer struct {
	conn      *nats.Conn
	subject   string
	processor *Processor
}

// NewNATSConsumer creates a consumer on the given subject.
func NewNATSConsumer(conn *nats.Conn, subject string, processor *Processor) (*NATSConsumer, error) {
	if conn == nil {
		return nil, ErrConnRequired
	}
	if subject == "" {
		return nil, ErrSubjectRequired
	}
	if processor == nil {
		return nil, ErrDispatcherRequired
	}
	return &NATSConsumer{conn: conn, subject: subject, processor: processor}, nil
}

func (c *NATSConsumer) Name() string {
	return "nats:" + c.subject
}

// Run subscribes and processes messages until the context is canceled.
// Processing failures are logged by the processor and do not stop the loop;
// the queue's at-least-once delivery is the redelivery mechanism, not this
// consumer.
func (c *NATSConsumer) Run(ctx context.Context) error {
	msgs := make(chan *nats.Msg, 64)
	sub, err := c.conn.ChanSubscribe(c.subject, msgs)
	if err != nil {
		return fmt.Errorf("failed to subscribe to %s: %w", c.subject, err)
	}
	defer func() { _ = sub.Unsubscribe() }()

	for {
		select {
		case <-ctx.Done():
			return nil
		case msg, ok := <-msgs:
			if !ok {
				if ctx.Err() != nil {
					return nil
				}
				return errors.New("nats subscription closed unexpectedly")
			}
			_ = c.processor.Process(ctx, c.Name(), msg.Data)
		}
	}
}
