package domain

import "path/filepath"

const (
	// OfflineDirName is the name of the internal state directory.
	OfflineDirName = ".offline"

	// CacheDirName is the name of the disk cache storage directory.
	CacheDirName = "cache"

	// SQLiteFileName is the name of the sqlite cache storage database.
	SQLiteFileName = "cache.db"

	// ControlSocketName is the name of the control socket of a running gateway.
	ControlSocketName = "control.sock"

	// PIDFileName is the name of the pid file of a running gateway.
	PIDFileName = "gateway.pid"

	// ConfigFileYAML is the name of the YAML configuration file.
	ConfigFileYAML = "offline.yaml"

	// ConfigFileTOML is the name of the TOML configuration file.
	ConfigFileTOML = "offline.toml"

	// DirPerm is the default permission for directories (rwxr-x---).
	DirPerm = 0o750

	// FilePerm is the default permission for files (rw-r--r--).
	FilePerm = 0o644

	// PrivateFilePerm is the default permission for private files (rw-------).
	PrivateFilePerm = 0o600

	// SocketPerm is the permission of the control socket (rw-------).
	SocketPerm = 0o600
)

// DefaultDiskCachePath returns the default path for disk cache storage.
// It joins .offline and cache.
func DefaultDiskCachePath() string {
	return filepath.Join(OfflineDirName, CacheDirName)
}

// DefaultSQLitePath returns the default path for the sqlite cache database.
// It joins .offline and cache.db.
func DefaultSQLitePath() string {
	return filepath.Join(OfflineDirName, SQLiteFileName)
}

// DefaultControlSocketPath returns the default path of the control socket.
// It joins .offline and control.sock.
func DefaultControlSocketPath() string {
	return filepath.Join(OfflineDirName, ControlSocketName)
}
