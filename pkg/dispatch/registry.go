package dispatch

import (
	"fmt"

	"github.com/bizmarket/notify/pkg/notification"
)

// Registry maps channels to their services. It is built once at startup;
// the set of deliverable channels is an explicit construction-time decision,
// not something discovered at dispatch time.
type Registry struct {
	services map[notification.Channel]ChannelService
}

// NewRegistry builds a registry from the given services. Registering two
// services for the same channel is a programming error and panics.
func NewRegistry(services ...ChannelService) *Registry {
	r := &Registry{services: make(map[notification.Channel]ChannelService, len(services))}
	for _, svc := range services {
		ch := svc.Channel()
		if _, exists := r.services[ch]; exists {
			panic(fmt.Sprintf("dispatch: duplicate service for channel %s", ch))
		}
		r.services[ch] = svc
	}
	return r
}

// Service returns the service registered for the channel.
func (r *Registry) Service(ch notification.Channel) (ChannelService, error) {
	svc, ok := r.services[ch]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrChannelNotRegistered, ch)
	}
	return svc, nil
}

// Channels returns the channels with a registered service.
func (r *Registry) Channels() []notification.Channel {
	channels := make([]notification.Channel, 0, len(r.services))
	for ch := range r.services {
		channels = append(channels, ch)
	}
	return channels
}
