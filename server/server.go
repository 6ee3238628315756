// Package server exposes the catalog and cache registry over HTTP.
package server

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"

	cache "github.com/kibblescan/sitecache"
	"github.com/kibblescan/sitecache/catalog"
)

// Server wires the HTTP API, the optional /metrics endpoint and the
// periodic cache cleanup job.
type Server struct {
	cfg             Config
	log             *zap.Logger
	registry        *cache.Registry
	catalog         *catalog.Catalog
	metrics         http.Handler
	cleanupSchedule string
}

// Option customizes a Server.
type Option func(*Server)

func WithLogger(l *zap.Logger) Option {
	return func(s *Server) {
		if l != nil {
			s.log = l
		}
	}
}

// WithMetricsHandler mounts h on /metrics.
func WithMetricsHandler(h http.Handler) Option {
	return func(s *Server) { s.metrics = h }
}

// WithCleanupSchedule sets the cron spec of the CleanupAll job. Empty disables it.
func WithCleanupSchedule(spec string) Option {
	return func(s *Server) { s.cleanupSchedule = spec }
}

func New(cfg Config, registry *cache.Registry, cat *catalog.Catalog, opts ...Option) *Server {
	s := &Server{
		cfg:      cfg,
		log:      zap.NewNop(),
		registry: registry,
		catalog:  cat,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// StartCleanup schedules registry.CleanupAll. The returned stop function
// waits for a running cleanup to finish.
func (s *Server) StartCleanup() (stop func(), err error) {
	if s.cleanupSchedule == "" {
		return func() {}, nil
	}

	c := cron.New(cron.WithChain(cron.Recover(cronLogger{s.log.Sugar()})))
	if _, err := c.AddFunc(s.cleanupSchedule, s.cleanup); err != nil {
		return nil, err
	}
	c.Start()

	s.log.Info("cache cleanup scheduled", zap.String("schedule", s.cleanupSchedule))
	return func() { <-c.Stop().Done() }, nil
}

func (s *Server) cleanup() {
	start := time.Now()
	s.registry.CleanupAll()

	fields := []zap.Field{zap.Duration("took", time.Since(start))}
	for name, st := range s.registry.StatsAll() {
		fields = append(fields, zap.Int(name, st.Size))
	}
	s.log.Debug("cache cleanup finished", fields...)
}

// Run serves until ctx is cancelled, then shuts down gracefully.
func (s *Server) Run(ctx context.Context) error {
	stopCleanup, err := s.StartCleanup()
	if err != nil {
		return err
	}
	defer stopCleanup()

	srv := &http.Server{
		Addr:         s.cfg.Addr,
		Handler:      s.Handler(),
		ReadTimeout:  s.cfg.ReadTimeout,
		WriteTimeout: s.cfg.WriteTimeout,
	}

	errCh := make(chan error, 1)
	go func() { errCh <- srv.ListenAndServe() }()
	s.log.Info("http server started", zap.String("addr", s.cfg.Addr))

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), s.cfg.ShutdownTimeout)
	defer cancel()

	s.log.Info("http server shutting down")
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return err
	}
	if err := <-errCh; err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

// cronLogger adapts zap to cron.Logger.
type cronLogger struct {
	l *zap.SugaredLogger
}

func (c cronLogger) Info(msg string, keysAndValues ...interface{}) {
	c.l.Debugw(msg, keysAndValues...)
}

func (c cronLogger) Error(err error, msg string, keysAndValues ...interface{}) {
	c.l.Errorw(msg, append(keysAndValues, "error", err)...)
}
