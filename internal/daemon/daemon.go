// Package daemon assembles and runs the server: single-instance lock,
// database, classifier, realtime rooms, and the HTTP surface.
package daemon

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"time"

	"github.com/gofrs/flock"

	"courses/internal/api"
	"courses/internal/auth"
	"courses/internal/classify"
	"courses/internal/config"
	"courses/internal/gateway"
	"courses/internal/items"
	"courses/internal/room"
	"courses/internal/services/llm"
	"courses/internal/store"
)

// Daemon owns every long-lived component of a running server.
type Daemon struct {
	cfg    *config.Config
	logger *slog.Logger
	lock   *flock.Flock
	store  *store.Store

	listener net.Listener
	server   *http.Server
}

// New prepares a Daemon: acquires the instance lock, opens the database,
// and wires the handler stack. Call Run to serve and Close to release
// everything.
func New(cfg *config.Config, logger *slog.Logger) (*Daemon, error) {
	if cfg == nil {
		return nil, errors.New("nil config")
	}
	if logger == nil {
		logger = slog.Default()
	}
	if err := cfg.EnsureDirectories(); err != nil {
		return nil, err
	}

	lock := flock.New(cfg.LockPath())
	locked, err := lock.TryLock()
	if err != nil {
		return nil, fmt.Errorf("acquire lock: %w", err)
	}
	if !locked {
		return nil, errors.New("another instance is already running")
	}

	st, err := store.Open(cfg)
	if err != nil {
		lock.Unlock()
		return nil, err
	}

	var model classify.Completer
	client := llm.NewClient(llm.Config{
		APIKey:  cfg.Classifier.APIKey,
		BaseURL: cfg.Classifier.BaseURL,
		Model:   cfg.Classifier.Model,
	})
	if client.Available() {
		model = client
	} else {
		logger.Warn("classifier model not configured; keyword rules only")
	}

	assignTimeout := time.Duration(cfg.Classifier.AssignTimeoutSeconds) * time.Second
	importTimeout := time.Duration(cfg.Classifier.ImportTimeoutSeconds) * time.Second
	assigner := classify.NewAssigner(st, model, logger, assignTimeout)
	importer := classify.NewImporter(st, model, logger, importTimeout)
	svc := items.NewService(st, assigner, logger)
	registry := room.NewRegistry(svc, logger)
	authorizer := auth.NewAuthorizer(st, cfg.Auth.Required)

	mux := http.NewServeMux()
	api.NewServer(registry, svc, importer, authorizer, st, logger).Register(mux)
	gateway.New(registry, authorizer, st, logger).Register(mux)

	return &Daemon{
		cfg:    cfg,
		logger: logger,
		lock:   lock,
		store:  st,
		server: &http.Server{
			Handler:           mux,
			ReadHeaderTimeout: 5 * time.Second,
			IdleTimeout:       60 * time.Second,
		},
	}, nil
}

// Run serves until ctx is canceled, then shuts down gracefully.
func (d *Daemon) Run(ctx context.Context) error {
	listener, err := net.Listen("tcp", d.cfg.Server.Bind)
	if err != nil {
		return fmt.Errorf("listen on %s: %w", d.cfg.Server.Bind, err)
	}
	d.listener = listener
	d.logger.Info("server listening",
		slog.String("address", listener.Addr().String()),
		slog.String("database", d.store.Path()))

	errc := make(chan error, 1)
	go func() {
		if err := d.server.Serve(listener); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errc <- err
			return
		}
		errc <- nil
	}()

	select {
	case err := <-errc:
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := d.server.Shutdown(shutdownCtx); err != nil {
		d.logger.Warn("forced shutdown", slog.Any("error", err))
		d.server.Close()
	}
	return <-errc
}

// Addr reports the bound address once Run has started listening.
func (d *Daemon) Addr() string {
	if d.listener == nil {
		return ""
	}
	return d.listener.Addr().String()
}

// Close releases the database and the instance lock.
func (d *Daemon) Close() error {
	var first error
	if d.store != nil {
		if err := d.store.Close(); err != nil {
			first = err
		}
	}
	if d.lock != nil {
		if err := d.lock.Unlock(); err != nil && first == nil {
			first = err
		}
	}
	return first
}
