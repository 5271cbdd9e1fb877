package config

// File is the on-disk shape of offline.yaml and offline.toml.
type File struct {
	Generation   string          `yaml:"generation"   toml:"generation"`
	Scope        string          `yaml:"scope"        toml:"scope"`
	Upstream     string          `yaml:"upstream"     toml:"upstream"`
	Listen       string          `yaml:"listen"       toml:"listen"`
	Manifest     []string        `yaml:"manifest"     toml:"manifest"`
	Install      InstallDTO      `yaml:"install"      toml:"install"`
	Storage      StorageDTO      `yaml:"storage"      toml:"storage"`
	Fallback     FallbackDTO     `yaml:"fallback"     toml:"fallback"`
	Exclude      ExcludeDTO      `yaml:"exclude"      toml:"exclude"`
	Notification NotificationDTO `yaml:"notification" toml:"notification"`
	Control      ControlDTO      `yaml:"control"      toml:"control"`
}

// InstallDTO configures the install phase.
type InstallDTO struct {
	Policy      string `yaml:"policy"      toml:"policy"`
	Concurrency int    `yaml:"concurrency" toml:"concurrency"`
	Timeout     string `yaml:"timeout"     toml:"timeout"`
}

// StorageDTO selects the cache storage driver.
type StorageDTO struct {
	Driver string `yaml:"driver" toml:"driver"`
	Path   string `yaml:"path"   toml:"path"`
}

// FallbackDTO locates the offline document.
type FallbackDTO struct {
	Path       string            `yaml:"path"        toml:"path"`
	Locales    map[string]string `yaml:"locales"     toml:"locales"`
	CachedPath string            `yaml:"cached_path" toml:"cached_path"`
}

// ExcludeDTO lists requests the worker never intercepts. A missing list
// keeps the defaults; an empty list disables them.
type ExcludeDTO struct {
	Hosts []string `yaml:"hosts" toml:"hosts"`
	Paths []string `yaml:"paths" toml:"paths"`
}

// NotificationDTO shapes push notifications.
type NotificationDTO struct {
	Title       string `yaml:"title"        toml:"title"`
	DefaultBody string `yaml:"default_body" toml:"default_body"`
	Icon        string `yaml:"icon"         toml:"icon"`
	Badge       string `yaml:"badge"        toml:"badge"`
	StartURL    string `yaml:"start_url"    toml:"start_url"`
}

// ControlDTO locates the control socket.
type ControlDTO struct {
	Socket string `yaml:"socket" toml:"socket"`
}

// Overrides are the environment variables applied on top of the file.
type Overrides struct {
	Generation    string `env:"OFFLINE_GENERATION"`
	Scope         string `env:"OFFLINE_SCOPE"`
	Upstream      string `env:"OFFLINE_UPSTREAM"`
	Listen        string `env:"OFFLINE_LISTEN"`
	StorageDriver string `env:"OFFLINE_STORAGE_DRIVER"`
	StoragePath   string `env:"OFFLINE_STORAGE_PATH"`
	InstallPolicy string `env:"OFFLINE_INSTALL_POLICY"`
}
