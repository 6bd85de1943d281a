// Package queue consumes serialized notification requests from external
// brokers and replays them through the dispatcher.
//
// Two sources are supported, carrying an identical JSON payload: a NATS
// subject and a Redis pub/sub channel. Each Consumer runs independently;
// one source stalling never blocks the other. All sources share one
// Processor, which owns the ingestion policy: malformed or invalid payloads
// are dropped with a logged reason, valid ones are dispatched with
// exponential-backoff retries around transient transport failures.
//
// Usage:
//
//	processor, err := queue.NewProcessor(dispatcher,
//		queue.WithLogger(log),
//		queue.WithRetryOptions(retry.WithMaxAttempts(cfg.MaxAttempts)),
//	)
//
//	natsConsumer, err := queue.NewNATSConsumer(nc, cfg.NATSSubject, processor)
//	g.Go(func() error { return natsConsumer.Run(ctx) })
package queue
