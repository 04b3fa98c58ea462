package logger

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5/middleware"
)

type ContextKey string

const (
	LoggerKey ContextKey = "logger"
)

// FromContext returns the request logger, falling back to slog.Default.
func FromContext(ctx context.Context) *slog.Logger {
	if logger, ok := ctx.Value(LoggerKey).(*slog.Logger); ok {
		return logger
	}
	return slog.Default()
}

func WithLogger(ctx context.Context, logger *slog.Logger) context.Context {
	return context.WithValue(ctx, LoggerKey, logger)
}

func WithRequestID(ctx context.Context, requestID string) context.Context {
	logger := FromContext(ctx)
	return WithLogger(ctx, logger.With("request_id", requestID))
}

func WithUserID(ctx context.Context, userID string) context.Context {
	logger := FromContext(ctx)
	return WithLogger(ctx, logger.With("user_id", userID))
}

// Middleware puts base, tagged with chi's request id, into every request context.
// It must run after middleware.RequestID.
func Middleware(base *slog.Logger) func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		hfn := func(w http.ResponseWriter, r *http.Request) {
			ctx := WithLogger(r.Context(), base)
			if reqID := middleware.GetReqID(ctx); reqID != "" {
				ctx = WithRequestID(ctx, reqID)
			}
			next.ServeHTTP(w, r.WithContext(ctx))
		}
		return http.HandlerFunc(hfn)
	}
}
