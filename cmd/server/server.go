package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/fitcoach/routinecoach/internal/httpapi"
)

const defaultTimeout = 2 * time.Second

// configureAndStartServer configures and starts the HTTP server,
// registering app's three endpoints on a fresh mux.
func configureAndStartServer(ctx context.Context, logger *slog.Logger, addr string, app *httpapi.Application) error {
	var err error
	shutdownComplete := make(chan struct{})

	mux := http.NewServeMux()
	app.Routes(mux)

	idleTimeout := 2 * time.Minute //nolint:mnd // clients may keep connections open for a long time.
	srv := &http.Server{
		ErrorLog:          slog.NewLogLogger(logger.Handler(), slog.LevelError),
		Handler:           mux,
		IdleTimeout:       idleTimeout,
		ReadTimeout:       defaultTimeout,
		WriteTimeout:      defaultTimeout,
		ReadHeaderTimeout: time.Second,
		MaxHeaderBytes:    1 << 20, //nolint:mnd // 1 MB
	}
	go func() {
		sigint := make(chan os.Signal, 1)

		signal.Notify(sigint, os.Interrupt)
		signal.Notify(sigint, syscall.SIGTERM)

		var shutdownReason string
		select {
		case <-sigint:
			shutdownReason = "signal"
		case <-ctx.Done():
			shutdownReason = "context"
		}

		// Create a new context for logging since the original might be cancelled.
		logCtx := context.Background()
		logger.LogAttrs(logCtx, slog.LevelInfo, "shutting down server", slog.String("reason", shutdownReason))

		var shutdownContext context.Context
		var cancel context.CancelFunc
		shutdownContext, cancel = context.WithTimeout(context.Background(), defaultTimeout)
		defer cancel()
		if shutdownErr := srv.Shutdown(shutdownContext); shutdownErr != nil {
			shutdownErr = fmt.Errorf("shutdown server: %w", shutdownErr)
			logger.LogAttrs(logCtx, slog.LevelError, "error shutting down server", slog.Any("error", shutdownErr))
		}

		close(shutdownComplete)
	}()

	var listener net.Listener
	listenCfg := net.ListenConfig{
		Control:   nil,
		KeepAlive: idleTimeout,
		KeepAliveConfig: net.KeepAliveConfig{
			Enable:   true,
			Idle:     idleTimeout,
			Interval: 0,
			Count:    0,
		},
	}
	if listener, err = listenCfg.Listen(ctx, "tcp", addr); err != nil {
		return fmt.Errorf("TCP listen: %w", err)
	}
	logger.LogAttrs(ctx, slog.LevelInfo, "starting server", slog.String("addr", listener.Addr().String()))
	if err = srv.Serve(listener); !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("server serve: %w", err)
	}
	<-shutdownComplete

	return nil
}
