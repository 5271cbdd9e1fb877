package cachestorage_test

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.trai.ch/offline/internal/adapters/cachestorage"
	"go.trai.ch/offline/internal/adapters/cachestorage/disk"
	"go.trai.ch/offline/internal/adapters/cachestorage/memory"
	"go.trai.ch/offline/internal/adapters/cachestorage/sqlite"
	"go.trai.ch/offline/internal/core/domain"
	"go.trai.ch/offline/internal/core/ports/mocks"
	"go.uber.org/mock/gomock"
)

func TestOpener_Open(t *testing.T) {
	dir := t.TempDir()
	opener := cachestorage.NewOpener(mocks.NewMockLogger(gomock.NewController(t)))
	ctx := context.Background()

	t.Run("memory", func(t *testing.T) {
		s, err := opener.Open(ctx, domain.StorageConfig{Driver: domain.StorageMemory})
		require.NoError(t, err)
		defer func() { _ = s.Close() }()
		assert.IsType(t, &memory.Storage{}, s)
	})

	t.Run("disk", func(t *testing.T) {
		s, err := opener.Open(ctx, domain.StorageConfig{Driver: domain.StorageDisk, Path: filepath.Join(dir, "cache")})
		require.NoError(t, err)
		defer func() { _ = s.Close() }()
		require.IsType(t, &disk.Storage{}, s)
		assert.Equal(t, filepath.Join(dir, "cache"), s.(*disk.Storage).Root())
	})

	t.Run("sqlite", func(t *testing.T) {
		s, err := opener.Open(ctx, domain.StorageConfig{Driver: domain.StorageSQLite, Path: filepath.Join(dir, "cache.db")})
		require.NoError(t, err)
		defer func() { _ = s.Close() }()
		assert.IsType(t, &sqlite.Storage{}, s)
		assert.FileExists(t, filepath.Join(dir, "cache.db"))
	})

	t.Run("unknown driver", func(t *testing.T) {
		_, err := opener.Open(ctx, domain.StorageConfig{Driver: "redis"})
		require.Error(t, err)
		assert.ErrorContains(t, err, domain.ErrInvalidStorageDriver.Error())
	})
}

func TestOpener_MemoryStoragesAreIndependent(t *testing.T) {
	opener := cachestorage.NewOpener(mocks.NewMockLogger(gomock.NewController(t)))
	ctx := context.Background()

	a, err := opener.Open(ctx, domain.StorageConfig{Driver: domain.StorageMemory})
	require.NoError(t, err)
	_, err = a.Open(ctx, "v1")
	require.NoError(t, err)

	b, err := opener.Open(ctx, domain.StorageConfig{Driver: domain.StorageMemory})
	require.NoError(t, err)
	keys, err := b.Keys(ctx)
	require.NoError(t, err)
	assert.Empty(t, keys)
}
