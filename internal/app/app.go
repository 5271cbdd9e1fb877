// Package app implements the application layer for offline.
package app

import (
	"io"
	"os"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"go.trai.ch/offline/internal/adapters/clients"
	"go.trai.ch/offline/internal/adapters/watcher"
	"go.trai.ch/offline/internal/core/domain"
	"go.trai.ch/offline/internal/core/ports"
	"go.trai.ch/zerr"
)

// ServiceName identifies the gateway in traces.
const ServiceName = "offline"

// App represents the main application logic.
type App struct {
	configLoader ports.ConfigLoader
	opener       ports.StorageOpener
	clients      *clients.Clients
	notifier     ports.Notifier
	watcher      ports.Watcher
	dialer       ports.ControlDialer
	tracer       ports.Tracer
	logger       ports.Logger

	stdout     io.Writer
	configPath string
	debounce   time.Duration
	teaOptions []tea.ProgramOption
	onListen   func(addr string)
}

// New creates a new App instance.
func New(
	loader ports.ConfigLoader,
	opener ports.StorageOpener,
	cl *clients.Clients,
	notifier ports.Notifier,
	w ports.Watcher,
	dialer ports.ControlDialer,
	tracer ports.Tracer,
	log ports.Logger,
) *App {
	return &App{
		configLoader: loader,
		opener:       opener,
		clients:      cl,
		notifier:     notifier,
		watcher:      w,
		dialer:       dialer,
		tracer:       tracer,
		logger:       log,
		stdout:       os.Stdout,
		debounce:     watcher.DefaultDebounceWindow,
	}
}

// WithOutput sets the writer command results are printed to.
func (a *App) WithOutput(w io.Writer) *App {
	a.stdout = w
	return a
}

// WithTeaOptions adds bubbletea program options to the App.
// This is primarily used for testing to disable input/output.
func (a *App) WithTeaOptions(opts ...tea.ProgramOption) *App {
	a.teaOptions = append(a.teaOptions, opts...)
	return a
}

// WithDebounce sets the quiet period before a configuration change is reloaded.
func (a *App) WithDebounce(window time.Duration) *App {
	a.debounce = window
	return a
}

// OnListen registers fn to be called with the gateway address once it
// accepts connections.
func (a *App) OnListen(fn func(addr string)) *App {
	a.onListen = fn
	return a
}

// Settings are the options shared by every command.
type Settings struct {
	ConfigPath string
	LogFormat  string
}

// Configure applies the global settings.
func (a *App) Configure(s Settings) error {
	a.configPath = s.ConfigPath

	l, ok := a.logger.(interface{ SetJSON(enable bool) })
	switch s.LogFormat {
	case "", "auto":
	case "text":
		if ok {
			l.SetJSON(false)
		}
	case "json":
		if ok {
			l.SetJSON(true)
		}
	default:
		return zerr.With(domain.ErrInvalidLogFormat, "format", s.LogFormat)
	}
	return nil
}

func (a *App) loadConfig() (*domain.Config, error) {
	if a.configPath != "" {
		cfg, err := a.configLoader.LoadFile(a.configPath)
		if err != nil {
			return nil, zerr.Wrap(err, "failed to load configuration")
		}
		return cfg, nil
	}

	cwd, err := os.Getwd()
	if err != nil {
		return nil, zerr.Wrap(err, "failed to get working directory")
	}
	cfg, err := a.configLoader.Load(cwd)
	if err != nil {
		return nil, zerr.Wrap(err, "failed to load configuration")
	}
	return cfg, nil
}
