package http

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/go-chi/httplog/v2"
	"github.com/snbtku/backend/httpjson"
	"github.com/snbtku/backend/logger"
	"github.com/snbtku/backend/user/auth"
)

// RouteRegistrar is implemented by every module's http handler.
type RouteRegistrar interface {
	RegisterRoutes(r chi.Router)
}

type Options struct {
	Env         string
	Version     string
	CorsOrigins []string
	JwtKey      []byte
	Logger      *slog.Logger
}

type HttpServer struct {
	router *chi.Mux
	stats  *statsLogger
}

func NewHttpServer(opts Options, handlers ...RouteRegistrar) *HttpServer {
	router := chi.NewRouter()

	base := opts.Logger
	if base == nil {
		base = slog.Default()
	}

	level := slog.LevelInfo
	if opts.Env == "dev" {
		level = slog.LevelDebug
	}
	accessLogger := httplog.NewLogger("snbtku", httplog.Options{
		LogLevel:         level,
		JSON:             opts.Env != "dev",
		Concise:          true,
		RequestHeaders:   opts.Env == "dev",
		MessageFieldName: "message",
		QuietDownRoutes:  []string{"/health"},
		QuietDownPeriod:  time.Minute,
		Tags: map[string]string{
			"version": opts.Version,
			"env":     opts.Env,
		},
	})

	stats := newStatsLogger(base, 30*time.Second)

	router.Use(middleware.RequestID)
	router.Use(middleware.RealIP)
	router.Use(logger.Middleware(base))
	router.Use(httplog.RequestLogger(accessLogger))
	router.Use(middleware.Recoverer)
	router.Use(cors.Handler(cors.Options{
		AllowedOrigins:   opts.CorsOrigins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "X-Request-Id"},
		ExposedHeaders:   []string{"Link"},
		AllowCredentials: true,
		MaxAge:           3000,
	}))
	router.Use(stats.middleware)
	router.Use(auth.GetJwtAuthMiddleware(opts.JwtKey))

	router.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		httpjson.WriteSuccessJson(w, map[string]string{"version": opts.Version})
	})
	for _, h := range handlers {
		h.RegisterRoutes(router)
	}
	router.NotFound(func(w http.ResponseWriter, r *http.Request) {
		httpjson.WriteErrorJson(w, "Halaman tidak ditemukan", http.StatusNotFound, "not_found")
	})

	return &HttpServer{router: router, stats: stats}
}

func (s *HttpServer) Handler() http.Handler {
	return s.router
}

// Start serves until ctx is cancelled and then drains in-flight requests.
func (s *HttpServer) Start(ctx context.Context, address string) error {
	srv := &http.Server{
		Addr:              address,
		Handler:           s.router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go s.stats.run(ctx)

	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), 15*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return err
	}
	if err := <-errCh; err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}
