package web

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"time"
)

// DefaultShutdownTimeout bounds how long in-flight requests may finish.
const DefaultShutdownTimeout = 10 * time.Second

// ListenConfig configures Listen.
type ListenConfig struct {
	Address         string
	Handler         http.Handler
	Logger          *slog.Logger
	ShutdownTimeout time.Duration
	// Ready, when set, receives the bound address once the listener is up.
	Ready func(net.Addr)
}

// Listen serves cfg.Handler until ctx is cancelled, then shuts down
// gracefully.
func Listen(ctx context.Context, cfg ListenConfig) error {
	listener, err := net.Listen("tcp", cfg.Address)
	if err != nil {
		return fmt.Errorf("failed to listen on %s: %w", cfg.Address, err)
	}
	timeout := cfg.ShutdownTimeout
	if timeout <= 0 {
		timeout = DefaultShutdownTimeout
	}

	server := &http.Server{
		Handler:           cfg.Handler,
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       30 * time.Second,
		WriteTimeout:      60 * time.Second,
		IdleTimeout:       120 * time.Second,
		ErrorLog:          slog.NewLogLogger(cfg.Logger.Handler(), slog.LevelWarn),
	}

	cfg.Logger.Info("http server listening", "address", listener.Addr().String())
	if cfg.Ready != nil {
		cfg.Ready(listener.Addr())
	}

	serveDone := make(chan error, 1)
	go func() {
		if err := server.Serve(listener); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serveDone <- err
		}
		close(serveDone)
	}()

	select {
	case <-ctx.Done():
		cfg.Logger.Info("http server shutting down")
	case err := <-serveDone:
		return err
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("failed to shut down http server: %w", err)
	}
	cfg.Logger.Info("http server stopped")
	return nil
}
