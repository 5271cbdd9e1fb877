package domain

import (
	"net/url"
	"time"
)

// StorageDriver selects the cache storage backend.
type StorageDriver string

const (
	// StorageMemory keeps buckets in process memory.
	StorageMemory StorageDriver = "memory"
	// StorageDisk keeps one directory per bucket.
	StorageDisk StorageDriver = "disk"
	// StorageSQLite keeps buckets in a sqlite database.
	StorageSQLite StorageDriver = "sqlite"
)

// Config is the validated gateway configuration.
type Config struct {
	// Path is the file the configuration was read from, empty for defaults.
	Path string

	Generation    Generation
	Scope         *url.URL
	Upstream      *url.URL
	Listen        string
	Manifest      Manifest
	InstallPolicy InstallPolicy
	// InstallConcurrency bounds parallel asset fetches during install.
	InstallConcurrency int
	// FetchTimeout bounds a single network fetch. Zero means no timeout.
	FetchTimeout time.Duration

	Storage      StorageConfig
	Fallback     FallbackConfig
	Exclude      ExcludeConfig
	Notification NotificationConfig

	ControlSocket string
}

// StorageConfig selects and locates cache storage.
type StorageConfig struct {
	Driver StorageDriver
	Path   string
}

// FallbackConfig locates the offline document.
type FallbackConfig struct {
	// Path is an .html or .md file. Empty uses the embedded page.
	Path string
	// Locales maps a BCP 47 tag to an .html or .md file.
	Locales map[string]string
	// CachedPath is a manifest asset served instead of the document when cached.
	CachedPath string
}

// ExcludeConfig lists requests the worker never intercepts.
type ExcludeConfig struct {
	// Hosts are hostname substrings.
	Hosts []string
	// Paths are path substrings.
	Paths []string
}

// NotificationConfig shapes notifications raised from push events.
type NotificationConfig struct {
	Title       string
	DefaultBody string
	Icon        string
	Badge       string
	StartURL    string
}

// DefaultExcludedHosts are analytics hosts the worker never intercepts.
var DefaultExcludedHosts = []string{"vercel-insights.com", "analytics"}

// DefaultExcludedPaths are dynamic paths the worker never intercepts.
var DefaultExcludedPaths = []string{"/api/"}

const (
	// DefaultGeneration is used when configuration does not name one.
	DefaultGeneration Generation = "impostor-game-v1.2.0"
	// DefaultListen is the gateway listen address.
	DefaultListen = "127.0.0.1:8080"
	// DefaultInstallConcurrency bounds parallel install fetches.
	DefaultInstallConcurrency = 4
	// DefaultNotificationTitle is the notification title.
	DefaultNotificationTitle = "Impostor"
	// DefaultNotificationBody is used when a push carries no payload.
	DefaultNotificationBody = "Nueva partida disponible"
	// DefaultNotificationIcon is the notification and action icon.
	DefaultNotificationIcon = "/icons/icon-192.png"
	// DefaultNotificationBadge is the monochrome notification badge.
	DefaultNotificationBadge = "/icons/icon-96.png"
	// DefaultStartURL is opened when a notification is explored.
	DefaultStartURL = "/"
	// DefaultUpstream is the origin the gateway proxies to.
	DefaultUpstream = "http://127.0.0.1:3000"
)
