package queue

import "time"

// Config holds queue consumer configuration.
// Both sources carry the same JSON payload; either can be disabled by
// leaving its connection setting empty.
type Config struct {
	NATSURL      string        `env:"NATS_URL" envDefault:"nats://localhost:4222"`
	NATSSubject  string        `env:"NATS_SUBJECT" envDefault:"notifications.dispatch"`
	RedisChannel string        `env:"REDIS_PUBSUB_CHANNEL" envDefault:"notifications"`
	MaxAttempts  int           `env:"QUEUE_MAX_ATTEMPTS" envDefault:"3"`
	BaseDelay    time.Duration `env:"QUEUE_BASE_DELAY" envDefault:"100ms"`
}
