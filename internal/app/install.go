package app

import (
	"context"
	"fmt"

	"go.trai.ch/offline/internal/core/domain"
	"go.trai.ch/offline/internal/worker"
	"go.trai.ch/zerr"
)

// Install primes the configured storage: the worker installs its generation
// and activates, evicting every other bucket.
func (a *App) Install(ctx context.Context) error {
	cfg, err := a.loadConfig()
	if err != nil {
		return err
	}
	if cfg.Storage.Driver == domain.StorageMemory {
		a.logger.Warn("memory storage is discarded when install exits")
	}

	s, err := a.openSession(ctx, cfg)
	if err != nil {
		return err
	}
	defer s.close()

	w, err := s.newWorker(cfg)
	if err != nil {
		return err
	}
	if err := s.reg.Register(ctx, w); err != nil {
		return zerr.Wrap(err, "install failed")
	}
	s.reg.Wait()

	cache, err := s.storage.Open(ctx, cfg.Generation.String())
	if err != nil {
		return err
	}
	keys, err := cache.Keys(ctx)
	if err != nil {
		return err
	}
	_, _ = fmt.Fprintf(a.stdout, "installed %s: %d of %d assets cached\n", cfg.Generation, len(keys), len(cfg.Manifest))
	return nil
}

// Prune runs activation alone: every bucket other than the configured
// generation is deleted, nothing is fetched.
func (a *App) Prune(ctx context.Context) error {
	cfg, err := a.loadConfig()
	if err != nil {
		return err
	}

	storage, err := a.opener.Open(ctx, cfg.Storage)
	if err != nil {
		return zerr.Wrap(err, "failed to open cache storage")
	}
	defer func() {
		_ = storage.Close()
	}()

	before, err := storage.Keys(ctx)
	if err != nil {
		return err
	}

	w := worker.New(cfg, worker.Deps{
		Storage:   storage,
		Lifecycle: detached{},
		Tracer:    a.tracer,
		Logger:    a.logger,
	})
	if err := w.Activate(ctx); err != nil {
		return zerr.Wrap(err, "prune failed")
	}

	after, err := storage.Keys(ctx)
	if err != nil {
		return err
	}
	_, _ = fmt.Fprintf(a.stdout, "pruned %d stale buckets, kept %s\n", len(before)-len(after), cfg.Generation)
	return nil
}

// detached is the lifecycle of a worker run outside a gateway: there are no
// pages to claim.
type detached struct{}

func (detached) SkipWaiting(context.Context, domain.Generation) error { return nil }

func (detached) Claim(context.Context, domain.Generation) error { return nil }
