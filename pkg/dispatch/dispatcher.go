package dispatch

import (
	"context"
	"log/slog"

	"github.com/google/uuid"

	"github.com/bizmarket/notify/pkg/async"
	"github.com/bizmarket/notify/pkg/logger"
	"github.com/bizmarket/notify/pkg/notification"
)

// Dispatcher fans one notification request out to every requested channel.
//
// Validation happens before any delivery is attempted: a request that fails
// validation produces zero transport calls. Channels are then delivered
// concurrently and independently; one channel failing never prevents the
// others from being attempted. The returned error joins one
// *ChannelDeliveryError per failed channel.
type Dispatcher struct {
	registry *Registry
	log      *slog.Logger
}

// Option configures the Dispatcher.
type Option func(*Dispatcher)

// WithLogger sets the logger used for per-channel delivery outcomes.
func WithLogger(log *slog.Logger) Option {
	return func(d *Dispatcher) {
		if log != nil {
			d.log = log
		}
	}
}

// NewDispatcher creates a dispatcher over the given registry.
func NewDispatcher(registry *Registry, opts ...Option) *Dispatcher {
	d := &Dispatcher{
		registry: registry,
		log:      slog.Default(),
	}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

// Dispatch validates the request and delivers it over every requested
// channel. It returns a task ID identifying this dispatch; the ID is valid
// even when some channels failed, so callers can correlate partial results.
func (d *Dispatcher) Dispatch(ctx context.Context, req notification.Request) (uuid.UUID, error) {
	if err := req.Validate(); err != nil {
		return uuid.Nil, err
	}

	// Registration is part of validation: an unregistered channel fails the
	// whole dispatch before any send is attempted.
	channels := req.ChannelSet()
	services := make([]ChannelService, 0, len(channels))
	for _, ch := range channels {
		svc, err := d.registry.Service(ch)
		if err != nil {
			return uuid.Nil, &ChannelDeliveryError{Channel: ch, Err: err}
		}
		services = append(services, svc)
	}

	taskID := uuid.New()

	futures := make([]*async.Future[notification.Channel], 0, len(services))
	for _, svc := range services {
		futures = append(futures, async.Async(ctx, svc, func(ctx context.Context, svc ChannelService) (notification.Channel, error) {
			if err := svc.Send(ctx, req); err != nil {
				return svc.Channel(), &ChannelDeliveryError{Channel: svc.Channel(), Err: err}
			}
			return svc.Channel(), nil
		}))
	}

	_, err := async.WaitAllSettled(futures...)
	if err != nil {
		d.log.ErrorContext(ctx, "notification dispatch completed with failures",
			logger.TaskID(taskID.String()),
			logger.Error(err),
		)
		return taskID, err
	}

	d.log.InfoContext(ctx, "notification dispatched",
		logger.TaskID(taskID.String()),
		slog.Int("channels", len(channels)),
	)
	return taskID, nil
}
