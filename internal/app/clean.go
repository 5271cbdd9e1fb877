package app

import (
	"context"
	"errors"
	"fmt"
	"os"

	"go.trai.ch/offline/internal/core/domain"
	"go.trai.ch/zerr"
)

// Clean removes the configured cache storage from disk. It refuses while a
// gateway answers on the control socket.
func (a *App) Clean(ctx context.Context) error {
	cfg, err := a.loadConfig()
	if err != nil {
		return err
	}

	if client, err := a.dialer.Dial(ctx, cfg.ControlSocket); err == nil {
		_, statusErr := client.Status(ctx)
		_ = client.Close()
		if statusErr == nil {
			return zerr.With(domain.ErrGatewayRunning, "socket", cfg.ControlSocket)
		}
	}

	if cfg.Storage.Driver == domain.StorageMemory {
		a.logger.Info("memory storage has nothing to clean")
		return nil
	}

	paths := []string{cfg.Storage.Path}
	if cfg.Storage.Driver == domain.StorageSQLite {
		paths = append(paths, cfg.Storage.Path+"-wal", cfg.Storage.Path+"-shm")
	}

	var errs error
	for _, path := range paths {
		if _, err := os.Stat(path); errors.Is(err, os.ErrNotExist) {
			continue
		}
		if err := os.RemoveAll(path); err != nil {
			errs = errors.Join(errs, zerr.With(zerr.Wrap(err, "failed to remove cache storage"), "path", path))
			continue
		}
		a.logger.Info(fmt.Sprintf("removed %s", path))
	}
	return errs
}
