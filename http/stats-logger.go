package http

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"sync"
	"time"

	"github.com/go-chi/chi/v5"
)

type endpointStats struct {
	count     int
	errors    int
	totalTime time.Duration
	maxTime   time.Duration
}

// statsLogger aggregates request latency per route pattern and logs the
// averages every flushInterval.
type statsLogger struct {
	logger        *slog.Logger
	stats         map[string]*endpointStats
	mu            sync.Mutex
	flushInterval time.Duration
}

func newStatsLogger(logger *slog.Logger, flushInterval time.Duration) *statsLogger {
	return &statsLogger{
		logger:        logger,
		stats:         make(map[string]*endpointStats),
		flushInterval: flushInterval,
	}
}

func (sl *statsLogger) run(ctx context.Context) {
	ticker := time.NewTicker(sl.flushInterval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			sl.flush()
			return
		case <-ticker.C:
			sl.flush()
		}
	}
}

func (sl *statsLogger) flush() {
	sl.mu.Lock()
	defer sl.mu.Unlock()

	for endpoint, stats := range sl.stats {
		if stats.count == 0 {
			continue
		}
		avgTimeMs := float64(stats.totalTime.Microseconds()) / float64(stats.count) / 1000.0
		sl.logger.Info("endpoint stats",
			"endpoint", endpoint,
			"count", stats.count,
			"errors", stats.errors,
			"avg_time_ms", fmt.Sprintf("%.2f", avgTimeMs),
			"max_time_ms", fmt.Sprintf("%.2f", float64(stats.maxTime.Microseconds())/1000.0),
			"period", sl.flushInterval,
		)
	}
	clear(sl.stats)
}

func (sl *statsLogger) snapshot(endpoint string) endpointStats {
	sl.mu.Lock()
	defer sl.mu.Unlock()
	if s, ok := sl.stats[endpoint]; ok {
		return *s
	}
	return endpointStats{}
}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(code int) {
	r.status = code
	r.ResponseWriter.WriteHeader(code)
}

func (sl *statsLogger) middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}

		next.ServeHTTP(rec, r)

		duration := time.Since(start)

		// route patterns keep the key space bounded; raw paths carry ids
		pattern := r.URL.Path
		if rctx := chi.RouteContext(r.Context()); rctx != nil && rctx.RoutePattern() != "" {
			pattern = rctx.RoutePattern()
		}
		endpoint := r.Method + " " + pattern

		sl.mu.Lock()
		s, exists := sl.stats[endpoint]
		if !exists {
			s = &endpointStats{}
			sl.stats[endpoint] = s
		}
		s.count++
		s.totalTime += duration
		s.maxTime = max(s.maxTime, duration)
		if rec.status >= http.StatusInternalServerError {
			s.errors++
		}
		sl.mu.Unlock()
	})
}
