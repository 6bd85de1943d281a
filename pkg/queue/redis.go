package queue

import (
	"context"
	"errors"

	"github.com/redis/go-redis/v9"
)

// RedisPubSubConsumer consumes notification payloads from a Redis pub/sub
// channel. The payload schema is identical to the NATS subject's; publishers
// pick whichever broker they are closer to.
type RedisPubSubConsumer struct {
	client    redis.UniversalClient
	channel   string
	processor *Processor
}

// NewRedisPubSubConsumer creates a consumer on the given pub/sub channel.
func NewRedisPubSubConsumer(client redis.UniversalClient, channel string, processor *Processor) (*RedisPubSubConsumer, error) {
	if client == nil {
		return nil, ErrConnRequired
	}
	if channel == "" {
		return nil, ErrSubjectRequired
	}
	if processor == nil {
		return nil, ErrDispatcherRequired
	}
	return &RedisPubSubConsumer{client: client, channel: channel, processor: processor}, nil
}

func (c *RedisPubSubConsumer) Name() string {
	return "redis:" + c.channel
}

// Run subscribes and processes messages until the context is canceled.
func (c *RedisPubSubConsumer) Run(ctx context.Context) error {
	pubsub := c.client.Subscribe(ctx, c.channel)
	defer func() { _ = pubsub.Close() }()

	// Confirm the subscription before consuming so a bad connection
	// surfaces as a startup error instead of a silent dead loop.
	if _, err := pubsub.Receive(ctx); err != nil {
		return err
	}

	msgs := pubsub.Channel()
	for {
		select {
		case <-ctx.Done():
			return nil
		case msg, ok := <-msgs:
			if !ok {
				if ctx.Err() != nil {
					return nil
				}
				return errors.New("redis pub/sub channel closed unexpectedly")
			}
			_ = c.processor.Process(ctx, c.Name(), []byte(msg.Payload))
		}
	}
}
