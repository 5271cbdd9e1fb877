// Package config provides the configuration loader for the offline gateway.
package config

import (
	"bytes"
	"fmt"
	"maps"
	"net"
	"net/url"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/caarlos0/env/v11"
	"go.trai.ch/offline/internal/core/domain"
	"go.trai.ch/offline/internal/core/ports"
	"go.trai.ch/zerr"
	"gopkg.in/yaml.v3"
)

var _ ports.ConfigLoader = (*Loader)(nil)

// Loader implements ports.ConfigLoader using offline.yaml or offline.toml
// with environment overrides on top.
type Loader struct {
	Logger ports.Logger

	environment map[string]string
}

// NewLoader creates a new Loader with the given logger.
func NewLoader(logger ports.Logger) *Loader {
	return &Loader{Logger: logger}
}

// WithEnvironment replaces the process environment used for overrides.
func (l *Loader) WithEnvironment(environment map[string]string) *Loader {
	l.environment = environment
	return l
}

// Load discovers the configuration file from cwd upwards. Without a file the
// defaults are used, with relative paths resolved against cwd.
func (l *Loader) Load(cwd string) (*domain.Config, error) {
	path, ok := findConfiguration(cwd)
	if !ok {
		return l.build(&File{}, cwd, "")
	}
	return l.LoadFile(path)
}

// LoadFile reads the configuration from an explicit path. Relative paths in
// the file are resolved against the file's directory.
func (l *Loader) LoadFile(path string) (*domain.Config, error) {
	absPath, err := filepath.Abs(path)
	if err != nil {
		return nil, zerr.With(zerr.Wrap(err, domain.ErrConfigReadFailed.Error()), "path", path)
	}

	var file File
	if err := l.readAndUnmarshal(absPath, &file); err != nil {
		return nil, zerr.With(err, "path", absPath)
	}

	return l.build(&file, filepath.Dir(absPath), absPath)
}

// DiscoverPath walks up from cwd and returns the configuration file path.
func (l *Loader) DiscoverPath(cwd string) (string, error) {
	path, ok := findConfiguration(cwd)
	if !ok {
		return "", zerr.With(domain.ErrConfigNotFound, "cwd", cwd)
	}
	return path, nil
}

func findConfiguration(cwd string) (string, bool) {
	currentDir := cwd
	for {
		for _, name := range []string{domain.ConfigFileYAML, domain.ConfigFileTOML} {
			candidate := filepath.Join(currentDir, name)
			if info, err := os.Stat(candidate); err == nil && !info.IsDir() {
				return candidate, true
			}
		}

		parentDir := filepath.Dir(currentDir)
		if parentDir == currentDir {
			// Reached root
			return "", false
		}
		currentDir = parentDir
	}
}

func (l *Loader) readAndUnmarshal(configPath string, target *File) error {
	// #nosec G304 -- configPath is chosen by the user
	data, err := os.ReadFile(configPath)
	if err != nil {
		return zerr.Wrap(err, domain.ErrConfigReadFailed.Error())
	}

	switch strings.ToLower(filepath.Ext(configPath)) {
	case ".toml":
		md, err := toml.NewDecoder(bytes.NewReader(data)).Decode(target)
		if err != nil {
			return zerr.Wrap(err, domain.ErrConfigParseFailed.Error())
		}
		for _, key := range md.Undecoded() {
			l.Logger.Warn(fmt.Sprintf("unknown key %q in %s has no effect", key.String(), filepath.Base(configPath)))
		}
	default:
		if err := yaml.Unmarshal(data, target); err != nil {
			return zerr.Wrap(err, domain.ErrConfigParseFailed.Error())
		}
	}
	return nil
}

// applyOverrides copies every set OFFLINE_* variable onto file.
func (l *Loader) applyOverrides(file *File) error {
	var o Overrides
	if err := env.ParseWithOptions(&o, env.Options{Environment: l.environment}); err != nil {
		return zerr.Wrap(err, domain.ErrConfigEnvFailed.Error())
	}

	override := func(dst *string, value string) {
		if value != "" {
			*dst = value
		}
	}
	override(&file.Generation, o.Generation)
	override(&file.Scope, o.Scope)
	override(&file.Upstream, o.Upstream)
	override(&file.Listen, o.Listen)
	override(&file.Storage.Driver, o.StorageDriver)
	override(&file.Storage.Path, o.StoragePath)
	override(&file.Install.Policy, o.InstallPolicy)
	return nil
}

func (l *Loader) build(file *File, baseDir, path string) (*domain.Config, error) {
	if err := l.applyOverrides(file); err != nil {
		return nil, err
	}

	cfg := &domain.Config{
		Path:       path,
		Generation: domain.Generation(orDefault(file.Generation, domain.DefaultGeneration.String())),
		Listen:     orDefault(file.Listen, domain.DefaultListen),
	}
	if err := cfg.Generation.Validate(); err != nil {
		return nil, err
	}

	upstream, err := parseOrigin(orDefault(file.Upstream, domain.DefaultUpstream), domain.ErrInvalidUpstream)
	if err != nil {
		return nil, err
	}
	cfg.Upstream = upstream

	scope, err := parseOrigin(orDefault(file.Scope, listenOrigin(cfg.Listen)), domain.ErrInvalidScope)
	if err != nil {
		return nil, err
	}
	cfg.Scope = scope

	locators := file.Manifest
	if locators == nil {
		locators = domain.DefaultManifest
	}
	if cfg.Manifest, err = domain.ParseManifest(scope, locators); err != nil {
		return nil, err
	}

	if err := buildInstall(cfg, file.Install); err != nil {
		return nil, err
	}

	if cfg.Storage, err = buildStorage(file.Storage, baseDir); err != nil {
		return nil, err
	}

	cfg.Fallback = domain.FallbackConfig{
		Path:       resolvePath(baseDir, file.Fallback.Path),
		CachedPath: file.Fallback.CachedPath,
	}
	if len(file.Fallback.Locales) > 0 {
		cfg.Fallback.Locales = make(map[string]string, len(file.Fallback.Locales))
		for _, tag := range slices.Sorted(maps.Keys(file.Fallback.Locales)) {
			cfg.Fallback.Locales[tag] = resolvePath(baseDir, file.Fallback.Locales[tag])
		}
	}

	cfg.Exclude = domain.ExcludeConfig{
		Hosts: orDefaultList(file.Exclude.Hosts, domain.DefaultExcludedHosts),
		Paths: orDefaultList(file.Exclude.Paths, domain.DefaultExcludedPaths),
	}

	cfg.Notification = domain.NotificationConfig{
		Title:       orDefault(file.Notification.Title, domain.DefaultNotificationTitle),
		DefaultBody: orDefault(file.Notification.DefaultBody, domain.DefaultNotificationBody),
		Icon:        orDefault(file.Notification.Icon, domain.DefaultNotificationIcon),
		Badge:       orDefault(file.Notification.Badge, domain.DefaultNotificationBadge),
		StartURL:    orDefault(file.Notification.StartURL, domain.DefaultStartURL),
	}

	cfg.ControlSocket = resolvePath(baseDir, orDefault(file.Control.Socket, domain.DefaultControlSocketPath()))

	return cfg, nil
}

func buildInstall(cfg *domain.Config, dto InstallDTO) error {
	policy, err := domain.ParseInstallPolicy(dto.Policy)
	if err != nil {
		return err
	}
	cfg.InstallPolicy = policy

	switch {
	case dto.Concurrency < 0:
		return zerr.With(domain.ErrConfigParseFailed, "install.concurrency", dto.Concurrency)
	case dto.Concurrency == 0:
		cfg.InstallConcurrency = domain.DefaultInstallConcurrency
	default:
		cfg.InstallConcurrency = dto.Concurrency
	}

	if dto.Timeout != "" {
		timeout, err := time.ParseDuration(dto.Timeout)
		if err != nil {
			return zerr.With(zerr.Wrap(err, domain.ErrConfigParseFailed.Error()), "install.timeout", dto.Timeout)
		}
		if timeout < 0 {
			return zerr.With(domain.ErrConfigParseFailed, "install.timeout", dto.Timeout)
		}
		cfg.FetchTimeout = timeout
	}
	return nil
}

func buildStorage(dto StorageDTO, baseDir string) (domain.StorageConfig, error) {
	driver := domain.StorageDriver(orDefault(dto.Driver, string(domain.StorageDisk)))

	var defaultPath string
	switch driver {
	case domain.StorageMemory:
	case domain.StorageDisk:
		defaultPath = domain.DefaultDiskCachePath()
	case domain.StorageSQLite:
		defaultPath = domain.DefaultSQLitePath()
	default:
		return domain.StorageConfig{}, zerr.With(domain.ErrInvalidStorageDriver, "driver", dto.Driver)
	}

	path := ""
	if driver != domain.StorageMemory {
		path = resolvePath(baseDir, orDefault(dto.Path, defaultPath))
	}
	return domain.StorageConfig{Driver: driver, Path: path}, nil
}

// parseOrigin accepts an absolute http(s) URL. Query and fragment are dropped.
func parseOrigin(raw string, sentinel error) (*url.URL, error) {
	u, err := url.Parse(strings.TrimSpace(raw))
	if err != nil {
		return nil, zerr.With(zerr.Wrap(err, sentinel.Error()), "url", raw)
	}
	if (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return nil, zerr.With(sentinel, "url", raw)
	}
	u.RawQuery = ""
	u.Fragment = ""
	if u.Path == "" {
		u.Path = "/"
	}
	return u, nil
}

// listenOrigin is the origin pages use to reach a gateway bound to listen.
func listenOrigin(listen string) string {
	host, port, err := net.SplitHostPort(listen)
	if err != nil {
		return "http://" + listen
	}
	if host == "" || host == "0.0.0.0" || host == "::" {
		host = "localhost"
	}
	return "http://" + net.JoinHostPort(host, port)
}

func resolvePath(baseDir, p string) string {
	if p == "" {
		return ""
	}
	if filepath.IsAbs(p) {
		return filepath.Clean(p)
	}
	return filepath.Join(baseDir, p)
}

func orDefault(value, def string) string {
	if strings.TrimSpace(value) == "" {
		return def
	}
	return value
}

// orDefaultList keeps def when list is unset. An explicitly empty list
// disables the defaults.
func orDefaultList(list, def []string) []string {
	if list == nil {
		return slices.Clone(def)
	}
	return slices.Clone(list)
}
