// Package httpserver wraps net/http with graceful shutdown, environment
// driven timeouts, and probe handlers.
//
// Run blocks until the context is canceled or an interrupt/TERM signal is
// received, then drains in-flight requests within the configured shutdown
// timeout. Construction goes through New with functional options, or
// NewFromConfig for the env-tagged Config the service loads at startup.
//
// Usage:
//
//	srv := httpserver.NewFromConfig(cfg, httpserver.WithLogger(log))
//
//	r := chi.NewRouter()
//	r.Get("/health", httpserver.HealthCheckHandler(ctx, log, redisCheck, mongoCheck))
//
//	if err := srv.Run(ctx, r); err != nil {
//		log.Error("server exited", logger.Error(err))
//	}
package httpserver
