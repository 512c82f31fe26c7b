package logger

import (
	"log/slog"
	"time"
)

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

// RequestID records the request identifier under the key "request_id".
// If id is nil, it returns an empty Attr.
func RequestID(id any) slog.Attr {
	if id == nil {
		return slog.Attr{}
	}
	return slog.Any("request_id", id)
}

func Component(name string) slog.Attr {
	return slog.String("component", name)
}

func Action(name string) slog.Attr {
	return slog.String("action", name)
}

// Resource groups a resource type and id under "resource".
func Resource(kind, id string) slog.Attr {
	return slog.Group("resource", slog.String("type", kind), slog.String("id", id))
}

func Duration(d time.Duration) slog.Attr {
	return slog.Duration("duration", d)
}

// Count records a cardinality under key.
func Count(key string, n int) slog.Attr {
	return slog.Int(key, n)
}
