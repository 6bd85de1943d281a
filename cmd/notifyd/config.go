package main

import "time"

// appConfig holds service-level settings; per-package settings live in each
// package's own Config struct and are loaded separately.
type appConfig struct {
	Env         string `env:"APP_ENV" envDefault:"development"`
	ServiceName string `env:"SERVICE_NAME" envDefault:"notifyd"`

	// Channels enabled in this deployment. Credentials are only required
	// for the channels listed here.
	Channels []string `env:"NOTIFY_CHANNELS" envDefault:"email,inapp" envSeparator:","`

	// InboxStorage selects where in-app notifications persist: "memory"
	// or "mongo". Memory is for development only and is an explicit
	// choice, never a silent fallback.
	InboxStorage string `env:"INBOX_STORAGE" envDefault:"memory"`
}

type rateLimitConfig struct {
	Limit     int           `env:"RATE_LIMIT" envDefault:"60"`
	Window    time.Duration `env:"RATE_LIMIT_WINDOW" envDefault:"1m"`
	Algorithm string        `env:"RATE_LIMIT_ALGORITHM" envDefault:"sliding_window"`
}
