package logger

import (
	"log/slog"
	"strconv"
)

// Group creates a slog group attribute from the provided attributes.
func Group(name string, attrs ...slog.Attr) slog.Attr {
	return slog.Attr{Key: name, Value: slog.GroupValue(attrs...)}
}

// Errors groups multiple non-nil errors under the key "errors".
// If all errors are nil, it returns an empty Attr.
func Errors(errs ...error) slog.Attr {
	as := make([]slog.Attr, 0, len(errs))
	for i, err := range errs {
		if err != nil {
			as = append(as, slog.Any(strconv.Itoa(i), err))
		}
	}
	if len(as) == 0 {
		return slog.Attr{}
	}
	return slog.Attr{Key: "errors", Value: slog.GroupValue(as...)}
}

// Error creates an attribute for a single error under the key "error".
// If err is nil, it returns an empty Attr.
func Error(err error) slog.Attr {
	if err == nil {
		return slog.Attr{}
	}
	return slog.Any("error", err)
}

// UserID records the user identifier under the key "user_id".
// If id is nil, it returns an empty Attr.
func UserID(id any) slog.Attr {
	if id == nil {
		return slog.Attr{}
	}
	return slog.Any("user_id", id)
}

// TaskID records the dispatch task identifier under the key "task_id".
// If id is nil, it returns an empty Attr.
func TaskID(id any) slog.Attr {
	if id == nil {
		return slog.Attr{}
	}
	return slog.Any("task_id", id)
}

// Channel records a notification channel name under the key "channel".
func Channel(channel string) slog.Attr {
	return slog.String("channel", channel)
}

// Queue records a queue or subject name under the key "queue".
func Queue(queue string) slog.Attr {
	return slog.String("queue", queue)
}

// Key records a rate-limit key under the key "key".
func Key(key string) slog.Attr {
	return slog.String("key", key)
}

// Algorithm records a rate-limit algorithm name under the key "algorithm".
func Algorithm(algorithm string) slog.Attr {
	return slog.String("algorithm", algorithm)
}

// Attempt records a retry attempt number under the key "attempt".
func Attempt(attempt int) slog.Attr {
	return slog.Int("attempt", attempt)
}

// RequestID records the request identifier under the key "request_id".
// If id is nil, it returns an empty Attr.
func RequestID(id any) slog.Attr {
	if id == nil {
		return slog.Attr{}
	}
	return slog.Any("request_id", id)
}

// Component records a component name under the key "component".
func Component(name string) slog.Attr {
	return slog.String("component", name)
}
