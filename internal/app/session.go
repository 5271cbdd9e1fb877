package app

import (
	"context"

	"go.trai.ch/offline/internal/adapters/fallback"
	"go.trai.ch/offline/internal/adapters/network"
	"go.trai.ch/offline/internal/core/domain"
	"go.trai.ch/offline/internal/core/ports"
	"go.trai.ch/offline/internal/engine/host"
	"go.trai.ch/offline/internal/worker"
	"go.trai.ch/zerr"
)

// session is one opened cache storage and the registration driving workers
// over it.
type session struct {
	app     *App
	storage ports.CacheStorage
	reg     *host.Registration
}

func (a *App) openSession(ctx context.Context, cfg *domain.Config) (*session, error) {
	storage, err := a.opener.Open(ctx, cfg.Storage)
	if err != nil {
		return nil, zerr.Wrap(err, "failed to open cache storage")
	}
	return &session{
		app:     a,
		storage: storage,
		reg:     host.NewRegistration(a.logger, a.tracer),
	}, nil
}

// newWorker builds the worker for cfg's generation.
func (s *session) newWorker(cfg *domain.Config) (*worker.Worker, error) {
	provider, err := fallback.Load(cfg.Fallback)
	if err != nil {
		return nil, zerr.Wrap(err, "failed to load offline page")
	}
	return worker.New(cfg, worker.Deps{
		Storage:   s.storage,
		Network:   network.NewClient(cfg.Scope, cfg.Upstream, cfg.FetchTimeout),
		Fallback:  provider,
		Lifecycle: s.reg,
		Clients:   s.app.clients,
		Notifier:  s.app.notifier,
		Tracer:    s.app.tracer,
		Logger:    s.app.logger,
	}), nil
}

// close waits for background cache writes and closes the storage.
func (s *session) close() {
	s.reg.Wait()
	if err := s.storage.Close(); err != nil {
		s.app.logger.Error(zerr.Wrap(err, "failed to close cache storage"))
	}
}
