package main

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/bizmarket/notify/pkg/dispatch"
	"github.com/bizmarket/notify/pkg/inbox"
	"github.com/bizmarket/notify/pkg/logger"
	"github.com/bizmarket/notify/pkg/notification"
)

type api struct {
	dispatcher *dispatch.Dispatcher
	inbox      inbox.Storage
	log        *slog.Logger
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// createNotification accepts a NotificationRequest and dispatches it across
// the requested channels. 202 on success, 422 for validation failures, 502
// when a channel's delivery failed.
func (a *api) createNotification(w http.ResponseWriter, r *http.Request) {
	var req notification.Request
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]any{"error": "malformed JSON body"})
		return
	}

	taskID, err := a.dispatcher.Dispatch(r.Context(), req)
	if err != nil {
		var verr *notification.ValidationError
		if errors.As(err, &verr) {
			writeJSON(w, http.StatusUnprocessableEntity, map[string]any{
				"error":   verr.Reason,
				"field":   verr.Field,
				"channel": verr.Channel,
			})
			return
		}

		var merr *dispatch.MissingRecipientError
		if errors.As(err, &merr) {
			writeJSON(w, http.StatusUnprocessableEntity, map[string]any{
				"error":   merr.Error(),
				"field":   merr.Field,
				"channel": merr.Channel,
			})
			return
		}

		var derr *dispatch.ChannelDeliveryError
		if errors.As(err, &derr) && errors.Is(err, dispatch.ErrChannelNotRegistered) {
			writeJSON(w, http.StatusUnprocessableEntity, map[string]any{
				"error":   "channel not available",
				"channel": derr.Channel,
			})
			return
		}
		if errors.As(err, &derr) {
			a.log.ErrorContext(r.Context(), "notification delivery failed",
				logger.TaskID(taskID.String()),
				logger.Error(err),
			)
			writeJSON(w, http.StatusBadGateway, map[string]any{
				"error":   "delivery failed",
				"channel": derr.Channel,
				"task_id": taskID,
			})
			return
		}

		a.log.ErrorContext(r.Context(), "notification dispatch failed", logger.Error(err))
		writeJSON(w, http.StatusInternalServerError, map[string]any{"error": "internal error"})
		return
	}

	writeJSON(w, http.StatusAccepted, map[string]any{
		"status":  "queued",
		"task_id": taskID,
	})
}

// userID resolves the caller from the X-User-ID header the edge proxy sets
// after authentication.
func userID(r *http.Request) string {
	return r.Header.Get("X-User-ID")
}

func (a *api) listInbox(w http.ResponseWriter, r *http.Request) {
	uid := userID(r)
	if uid == "" {
		writeJSON(w, http.StatusBadRequest, map[string]any{"error": "X-User-ID header is required"})
		return
	}

	opts := inbox.ListOptions{
		OnlyUnread: r.URL.Query().Get("unread") == "true",
	}
	if v := r.URL.Query().Get("limit"); v != "" {
		opts.Limit, _ = strconv.Atoi(v)
	}
	if v := r.URL.Query().Get("offset"); v != "" {
		opts.Offset, _ = strconv.Atoi(v)
	}

	notifications, err := a.inbox.List(r.Context(), uid, opts)
	if err != nil {
		a.log.ErrorContext(r.Context(), "failed to list inbox", logger.UserID(uid), logger.Error(err))
		writeJSON(w, http.StatusInternalServerError, map[string]any{"error": "internal error"})
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{"notifications": notifications})
}

func (a *api) unreadCount(w http.ResponseWriter, r *http.Request) {
	uid := userID(r)
	if uid == "" {
		writeJSON(w, http.StatusBadRequest, map[string]any{"error": "X-User-ID header is required"})
		return
	}

	count, err := a.inbox.CountUnread(r.Context(), uid)
	if err != nil {
		a.log.ErrorContext(r.Context(), "failed to count unread", logger.UserID(uid), logger.Error(err))
		writeJSON(w, http.StatusInternalServerError, map[string]any{"error": "internal error"})
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{"unread": count})
}

func (a *api) markRead(w http.ResponseWriter, r *http.Request) {
	uid := userID(r)
	if uid == "" {
		writeJSON(w, http.StatusBadRequest, map[string]any{"error": "X-User-ID header is required"})
		return
	}

	var body struct {
		IDs []string `json:"ids"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil || len(body.IDs) == 0 {
		writeJSON(w, http.StatusBadRequest, map[string]any{"error": "ids list is required"})
		return
	}

	if err := a.inbox.MarkRead(r.Context(), uid, body.IDs...); err != nil {
		a.log.ErrorContext(r.Context(), "failed to mark read", logger.UserID(uid), logger.Error(err))
		writeJSON(w, http.StatusInternalServerError, map[string]any{"error": "internal error"})
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{"status": "ok"})
}
