package ratelimit_test

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bizmarket/notify/pkg/ratelimit"
)

func TestMiddleware(t *testing.T) {
	t.Parallel()

	newHandler := func() http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusOK)
		})
	}

	t.Run("sets rate limit headers on allowed requests", func(t *testing.T) {
		t.Parallel()

		store := ratelimit.NewMemoryStore()
		t.Cleanup(func() { _ = store.Close() })

		limiter, err := ratelimit.NewFixedWindow(store, 5, time.Minute)
		require.NoError(t, err)

		mw := ratelimit.Middleware(limiter, ratelimit.ByHeader("X-User-ID"))
		srv := mw(newHandler())

		req := httptest.NewRequest(http.MethodPost, "/notifications", nil)
		req.Header.Set("X-User-ID", "user:100")
		rec := httptest.NewRecorder()

		srv.ServeHTTP(rec, req)

		assert.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, "5", rec.Header().Get("X-RateLimit-Limit"))
		assert.Equal(t, "4", rec.Header().Get("X-RateLimit-Remaining"))
		assert.NotEmpty(t, rec.Header().Get("X-RateLimit-Reset"))
		assert.Empty(t, rec.Header().Get("Retry-After"))
	})

	t.Run("rejects with 429 and Retry-After when over limit", func(t *testing.T) {
		t.Parallel()

		store := ratelimit.NewMemoryStore()
		t.Cleanup(func() { _ = store.Close() })

		limiter, err := ratelimit.NewFixedWindow(store, 1, time.Minute)
		require.NoError(t, err)

		mw := ratelimit.Middleware(limiter, ratelimit.ByHeader("X-User-ID"))
		srv := mw(newHandler())

		for ri := 0; ri < 2; ri++ {
			req := httptest.NewRequest(http.MethodPost, "/notifications", nil)
			req.Header.Set("X-User-ID", "user:200")
			rec := httptest.NewRecorder()
			srv.ServeHTTP(rec, req)

			if rec.Code == http.StatusTooManyRequests {
				assert.NotEmpty(t, rec.Header().Get("Retry-After"))
				assert.Equal(t, "0", rec.Header().Get("X-RateLimit-Remaining"))
				return
			}
		}
		t.Fatal("second request should have been rejected")
	})

	t.Run("requests without an identifier pass through", func(t *testing.T) {
		t.Parallel()

		store := ratelimit.NewMemoryStore()
		t.Cleanup(func() { _ = store.Close() })

		limiter, err := ratelimit.NewFixedWindow(store, 1, time.Minute)
		require.NoError(t, err)

		mw := ratelimit.Middleware(limiter, ratelimit.ByHeader("X-User-ID"))
		srv := mw(newHandler())

		for ri := 0; ri < 3; ri++ {
			req := httptest.NewRequest(http.MethodPost, "/notifications", nil)
			rec := httptest.NewRecorder()
			srv.ServeHTTP(rec, req)
			assert.Equal(t, http.StatusOK, rec.Code)
			assert.Empty(t, rec.Header().Get("X-RateLimit-Limit"))
		}
	})
}

func TestKeyFuncs(t *testing.T) {
	t.Parallel()

	t.Run("FirstOf respects priority order", func(t *testing.T) {
		t.Parallel()

		keyFunc := ratelimit.FirstOf(
			ratelimit.ByHeader("X-User-ID"),
			ratelimit.ByAPIKeyHash(),
			ratelimit.ByClientIP(),
		)

		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.Header.Set("X-User-ID", "user:1")
		req.Header.Set("Authorization", "Bearer secret-token")
		assert.Equal(t, "user:1", keyFunc(req))

		req = httptest.NewRequest(http.MethodGet, "/", nil)
		req.Header.Set("Authorization", "Bearer secret-token")
		key := keyFunc(req)
		assert.True(t, len(key) > 0)
		assert.Contains(t, key, "apikey:")
		assert.NotContains(t, key, "secret-token", "raw credentials must never become storage keys")

		req = httptest.NewRequest(http.MethodGet, "/", nil)
		req.RemoteAddr = "203.0.113.9:54321"
		assert.Equal(t, "ip:203.0.113.9", keyFunc(req))
	})

	t.Run("forwarded-for wins over remote addr", func(t *testing.T) {
		t.Parallel()

		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.RemoteAddr = "10.0.0.1:1111"
		req.Header.Set("X-Forwarded-For", "198.51.100.7, 10.0.0.1")
		assert.Equal(t, "ip:198.51.100.7", ratelimit.ByClientIP()(req))
	})

	t.Run("over-long keys are hashed", func(t *testing.T) {
		t.Parallel()

		long := make([]byte, 200)
		for i := range long {
			long[i] = 'a'
		}

		keyFunc := ratelimit.FirstOf(ratelimit.ByHeader("X-User-ID"))
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.Header.Set("X-User-ID", string(long))

		key := keyFunc(req)
		assert.Len(t, key, 32)
	})
}
