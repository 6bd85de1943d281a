package main

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/bizmarket/notify/pkg/httpserver"
	"github.com/bizmarket/notify/pkg/ratelimit"
)

func newRouter(ctx context.Context, handlers *api, limiter ratelimit.Limiter, log *slog.Logger, checks []func(context.Context) error) http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)

	r.Get("/health", httpserver.HealthCheckHandler(ctx, log, checks...))

	// Caller identity for rate limiting, in priority order: authenticated
	// user, API key, client IP.
	keyFunc := ratelimit.FirstOf(
		ratelimit.ByHeader("X-User-ID"),
		ratelimit.ByAPIKeyHash(),
		ratelimit.ByClientIP(),
	)

	r.Route("/notifications", func(r chi.Router) {
		r.Use(ratelimit.Middleware(limiter, keyFunc))
		r.Post("/", handlers.createNotification)
	})

	r.Route("/inbox", func(r chi.Router) {
		r.Get("/", handlers.listInbox)
		r.Get("/unread_count", handlers.unreadCount)
		r.Post("/read", handlers.markRead)
	})

	return r
}
