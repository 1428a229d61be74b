package web

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"
)

// ListenConfig holds configuration for the HTTP server
type ListenConfig struct {
	Addr            string
	ReadTimeout     time.Duration
	WriteTimeout    time.Duration
	ShutdownTimeout time.Duration
}

// DefaultListenConfig returns defaults suitable for long-lived SSE streams
func DefaultListenConfig() ListenConfig {
	return ListenConfig{
		Addr:            ":8080",
		ReadTimeout:     15 * time.Second,
		WriteTimeout:    0, // SSE streams stay open; heartbeats keep proxies alive
		ShutdownTimeout: 10 * time.Second,
	}
}

// Listener wraps http.Server with graceful shutdown
type Listener struct {
	server *http.Server
	logger *slog.Logger
	config ListenConfig
}

// NewListener creates a Listener serving handler
func NewListener(handler http.Handler, config ListenConfig, logger *slog.Logger) *Listener {
	return &Listener{
		server: &http.Server{
			Addr:         config.Addr,
			Handler:      handler,
			ReadTimeout:  config.ReadTimeout,
			WriteTimeout: config.WriteTimeout,
		},
		logger: logger,
		config: config,
	}
}

// Run serves until ctx is cancelled, then shuts down gracefully
func (l *Listener) Run(ctx context.Context) error {
	errCh := make(chan error, 1)
	go func() {
		l.logger.Info("starting HTTP server", slog.String("addr", l.server.Addr))
		if err := l.server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- fmt.Errorf("server error: %w", err)
			return
		}
		errCh <- nil
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	l.logger.Info("shutting down HTTP server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), l.config.ShutdownTimeout)
	defer cancel()
	if err := l.server.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown error: %w", err)
	}
	l.logger.Info("HTTP server stopped")
	return nil
}
