// Package dispatch routes notifications to their delivery channels.
//
// A Registry maps each channel to a ChannelService, built once at startup
// from the transports the process is configured with. The Dispatcher
// validates the request up front, fans it out to every requested channel
// concurrently, and reports per-channel failures through
// *ChannelDeliveryError values joined into one error.
//
// Channel services are single-attempt by design. Retry policy lives in the
// retry package and is applied by the queue consumers around the whole
// dispatch, keeping backoff behavior in one place instead of five.
//
// Usage:
//
//	registry := dispatch.NewRegistry(
//		dispatch.NewEmailService(emailSender),
//		dispatch.NewSMSService(smsSender),
//	)
//	dispatcher := dispatch.NewDispatcher(registry, dispatch.WithLogger(log))
//
//	taskID, err := dispatcher.Dispatch(ctx, req)
package dispatch
