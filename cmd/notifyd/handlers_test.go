package main

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bizmarket/notify/pkg/dispatch"
	"github.com/bizmarket/notify/pkg/inbox"
	"github.com/bizmarket/notify/pkg/notification"
	"github.com/bizmarket/notify/pkg/ratelimit"
)

type stubChannelService struct {
	channel notification.Channel
	err     error
}

func (s *stubChannelService) Channel() notification.Channel { return s.channel }

func (s *stubChannelService) Send(ctx context.Context, req notification.Request) error {
	return s.err
}

type testEnv struct {
	router http.Handler
	inbox  inbox.Storage
}

func newTestEnv(t *testing.T, limit int, services ...dispatch.ChannelService) *testEnv {
	t.Helper()

	log := slog.New(slog.NewTextHandler(io.Discard, nil))
	store := inbox.NewMemoryStorage()

	dispatcher := dispatch.NewDispatcher(dispatch.NewRegistry(services...), dispatch.WithLogger(log))

	rlStore := ratelimit.NewMemoryStore()
	t.Cleanup(func() { _ = rlStore.Close() })
	limiter, err := ratelimit.New(rlStore, limit, time.Minute, ratelimit.AlgorithmSlidingWindow)
	require.NoError(t, err)

	handlers := &api{dispatcher: dispatcher, inbox: store, log: log}
	router := newRouter(context.Background(), handlers, limiter, log, nil)

	return &testEnv{router: router, inbox: store}
}

func (e *testEnv) do(t *testing.T, method, path, userID, body string) *httptest.ResponseRecorder {
	t.Helper()
	var reader io.Reader
	if body != "" {
		reader = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, path, reader)
	if userID != "" {
		req.Header.Set("X-User-ID", userID)
	}
	rec := httptest.NewRecorder()
	e.router.ServeHTTP(rec, req)
	return rec
}

func TestCreateNotification(t *testing.T) {
	t.Parallel()

	t.Run("queues a valid request", func(t *testing.T) {
		t.Parallel()

		env := newTestEnv(t, 100, &stubChannelService{channel: notification.ChannelEmail})
		rec := env.do(t, http.MethodPost, "/notifications", "user-1",
			`{"channels":["email"],"recipient_email":"buyer@example.com","message":"hi"}`)

		require.Equal(t, http.StatusAccepted, rec.Code)

		var resp struct {
			Status string `json:"status"`
			TaskID string `json:"task_id"`
		}
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
		assert.Equal(t, "queued", resp.Status)
		assert.NotEmpty(t, resp.TaskID)

		assert.Equal(t, "100", rec.Header().Get("X-RateLimit-Limit"))
		assert.NotEmpty(t, rec.Header().Get("X-RateLimit-Remaining"))
	})

	t.Run("malformed JSON", func(t *testing.T) {
		t.Parallel()

		env := newTestEnv(t, 100, &stubChannelService{channel: notification.ChannelEmail})
		rec := env.do(t, http.MethodPost, "/notifications", "user-1", `{not json`)
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("validation failure names the missing field", func(t *testing.T) {
		t.Parallel()

		env := newTestEnv(t, 100,
			&stubChannelService{channel: notification.ChannelEmail},
			&stubChannelService{channel: notification.ChannelSMS},
		)
		rec := env.do(t, http.MethodPost, "/notifications", "user-1",
			`{"channels":["email","sms"],"recipient_email":"buyer@example.com","message":"hi"}`)

		require.Equal(t, http.StatusUnprocessableEntity, rec.Code)

		var resp struct {
			Error   string `json:"error"`
			Field   string `json:"field"`
			Channel string `json:"channel"`
		}
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
		assert.Equal(t, "recipient_phone", resp.Field)
		assert.Equal(t, "sms", resp.Channel)
	})

	t.Run("delivery failure names the channel", func(t *testing.T) {
		t.Parallel()

		env := newTestEnv(t, 100,
			&stubChannelService{channel: notification.ChannelEmail, err: errors.New("smtp refused")},
		)
		rec := env.do(t, http.MethodPost, "/notifications", "user-1",
			`{"channels":["email"],"recipient_email":"buyer@example.com","message":"hi"}`)

		require.Equal(t, http.StatusBadGateway, rec.Code)

		var resp struct {
			Channel string `json:"channel"`
			TaskID  string `json:"task_id"`
		}
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
		assert.Equal(t, "email", resp.Channel)
		assert.NotEmpty(t, resp.TaskID, "task ID is reported even for failed dispatches")
	})

	t.Run("unavailable channel is rejected", func(t *testing.T) {
		t.Parallel()

		env := newTestEnv(t, 100, &stubChannelService{channel: notification.ChannelEmail})
		rec := env.do(t, http.MethodPost, "/notifications", "user-1",
			`{"channels":["email","sms"],"recipient_email":"buyer@example.com","recipient_phone":"+919876543210","message":"hi"}`)

		require.Equal(t, http.StatusUnprocessableEntity, rec.Code)

		var resp struct {
			Error   string `json:"error"`
			Channel string `json:"channel"`
		}
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
		assert.Equal(t, "channel not available", resp.Error)
		assert.Equal(t, "sms", resp.Channel)
	})

	t.Run("rate limit rejects with 429 and Retry-After", func(t *testing.T) {
		t.Parallel()

		env := newTestEnv(t, 2, &stubChannelService{channel: notification.ChannelEmail})
		body := `{"channels":["email"],"recipient_email":"buyer@example.com","message":"hi"}`

		for ri := 0; ri < 2; ri++ {
			rec := env.do(t, http.MethodPost, "/notifications", "user-throttled", body)
			require.Equal(t, http.StatusAccepted, rec.Code)
		}

		rec := env.do(t, http.MethodPost, "/notifications", "user-throttled", body)
		require.Equal(t, http.StatusTooManyRequests, rec.Code)
		assert.Equal(t, "0", rec.Header().Get("X-RateLimit-Remaining"))
		assert.NotEmpty(t, rec.Header().Get("Retry-After"))
	})
}

func TestInboxEndpoints(t *testing.T) {
	t.Parallel()

	seed := func(t *testing.T, env *testEnv, ids ...string) {
		t.Helper()
		for _, id := range ids {
			require.NoError(t, env.inbox.Create(context.Background(), inbox.Notification{
				ID:      id,
				UserID:  "user-1",
				Message: "message " + id,
			}))
		}
	}

	t.Run("requires the user header", func(t *testing.T) {
		t.Parallel()

		env := newTestEnv(t, 100)
		assert.Equal(t, http.StatusBadRequest, env.do(t, http.MethodGet, "/inbox", "", "").Code)
		assert.Equal(t, http.StatusBadRequest, env.do(t, http.MethodGet, "/inbox/unread_count", "", "").Code)
	})

	t.Run("lists notifications", func(t *testing.T) {
		t.Parallel()

		env := newTestEnv(t, 100)
		seed(t, env, "n1", "n2")

		rec := env.do(t, http.MethodGet, "/inbox", "user-1", "")
		require.Equal(t, http.StatusOK, rec.Code)

		var resp struct {
			Notifications []inbox.Notification `json:"notifications"`
		}
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
		assert.Len(t, resp.Notifications, 2)
	})

	t.Run("mark read drops the unread count", func(t *testing.T) {
		t.Parallel()

		env := newTestEnv(t, 100)
		seed(t, env, "n1", "n2")

		rec := env.do(t, http.MethodPost, "/inbox/read", "user-1", `{"ids":["n1"]}`)
		require.Equal(t, http.StatusOK, rec.Code)

		rec = env.do(t, http.MethodGet, "/inbox/unread_count", "user-1", "")
		require.Equal(t, http.StatusOK, rec.Code)

		var resp struct {
			Unread int `json:"unread"`
		}
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
		assert.Equal(t, 1, resp.Unread)
	})

	t.Run("mark read requires ids", func(t *testing.T) {
		t.Parallel()

		env := newTestEnv(t, 100)
		rec := env.do(t, http.MethodPost, "/inbox/read", "user-1", `{"ids":[]}`)
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})
}
