package app

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"os"
	"sync"
	"time"

	"go.trai.ch/offline/internal/adapters/control"
	"go.trai.ch/offline/internal/adapters/gateway"
	"go.trai.ch/offline/internal/adapters/telemetry"
	"go.trai.ch/offline/internal/adapters/watcher"
	"go.trai.ch/offline/internal/build"
	"go.trai.ch/offline/internal/core/domain"
	"go.trai.ch/offline/internal/core/ports"
	"go.trai.ch/offline/internal/engine/host"
	"go.trai.ch/zerr"
	"golang.org/x/sync/errgroup"
)

const (
	readHeaderTimeout = 10 * time.Second
	shutdownTimeout   = 5 * time.Second
)

// ServeOptions configuration for the Serve method.
type ServeOptions struct {
	Watch     bool
	NoBrowser bool
}

// Serve registers the configured worker and runs the gateway and its
// control socket until ctx is canceled or a Shutdown request arrives.
//
//nolint:cyclop // orchestration function
func (a *App) Serve(ctx context.Context, opts ServeOptions) error {
	// 1. Load the configuration
	cfg, err := a.loadConfig()
	if err != nil {
		return err
	}

	// 2. Initialize Telemetry
	shutdownTelemetry, err := telemetry.Setup(ctx, ServiceName, build.Version)
	if err != nil {
		a.logger.Warn(fmt.Sprintf("tracing disabled: %v", err))
	}
	defer func() {
		_ = shutdownTelemetry(context.WithoutCancel(ctx))
	}()

	if opts.NoBrowser {
		a.clients.WithBrowser(false)
	}

	// 3. Open storage and register the worker
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
		a.logger.Error(err)
		a.logger.Warn("serving without a controlling worker, requests go straight upstream")
	}

	// 4. Start listening
	ln, err := (&net.ListenConfig{}).Listen(ctx, "tcp", cfg.Listen)
	if err != nil {
		return zerr.With(zerr.Wrap(err, "failed to listen"), "listen", cfg.Listen)
	}

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	handler := &controlHandler{
		reg:     s.reg,
		cfg:     cfg,
		listen:  ln.Addr().String(),
		started: time.Now(),
		cancel:  cancel,
	}
	server := &http.Server{
		Handler:           gateway.New(s.reg, cfg.Scope, cfg.Upstream, a.logger, a.tracer),
		ReadHeaderTimeout: readHeaderTimeout,
	}

	// 5. Run gateway, control socket and watcher concurrently
	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		if err := server.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return zerr.Wrap(err, "gateway failed")
		}
		return nil
	})

	g.Go(func() error {
		<-gctx.Done()
		shutdownCtx, done := context.WithTimeout(context.WithoutCancel(gctx), shutdownTimeout)
		defer done()
		return server.Shutdown(shutdownCtx)
	})

	g.Go(func() error {
		return control.NewServer(handler, cfg.ControlSocket).Serve(gctx)
	})

	if opts.Watch {
		g.Go(func() error {
			return a.watch(gctx, cfg, s)
		})
	}

	a.logger.Info(fmt.Sprintf("serving %s on http://%s, upstream %s", cfg.Scope, ln.Addr(), cfg.Upstream))
	if a.onListen != nil {
		a.onListen(ln.Addr().String())
	}

	if err := g.Wait(); err != nil && !errors.Is(err, context.Canceled) {
		return err
	}
	a.logger.Info("gateway stopped")
	return nil
}

// watch reinstalls the worker whenever the configuration file announces a
// new generation.
func (a *App) watch(ctx context.Context, cfg *domain.Config, s *session) error {
	if cfg.Path == "" {
		a.logger.Warn("no configuration file to watch")
		<-ctx.Done()
		return nil
	}

	if err := a.watcher.Start(ctx, cfg.Path); err != nil {
		return zerr.Wrap(err, "failed to watch configuration")
	}
	defer func() {
		_ = a.watcher.Stop()
	}()

	r := &reloader{app: a, session: s, path: cfg.Path, current: cfg}
	debouncer := watcher.NewDebouncer(a.debounce, func([]string) {
		r.reload(ctx)
	})
	defer debouncer.Stop()

	a.logger.Info("watching " + cfg.Path)
	for event := range a.watcher.Events() {
		debouncer.Add(event.Path)
	}
	return nil
}

type reloader struct {
	app     *App
	session *session
	path    string

	mu      sync.Mutex
	current *domain.Config
}

// reload installs and activates the new generation. The gateway origin
// settings only take effect after a restart.
func (r *reloader) reload(ctx context.Context) {
	r.mu.Lock()
	defer r.mu.Unlock()

	log := r.app.logger
	cfg, err := r.app.configLoader.LoadFile(r.path)
	if err != nil {
		log.Error(zerr.Wrap(err, "configuration reload failed"))
		return
	}
	if cfg.Listen != r.current.Listen ||
		cfg.Scope.String() != r.current.Scope.String() ||
		cfg.Upstream.String() != r.current.Upstream.String() {
		log.Warn("listen, scope and upstream changes need a restart")
	}
	if cfg.Generation == r.current.Generation {
		log.Info(fmt.Sprintf("configuration changed, still %s", cfg.Generation))
		return
	}

	w, err := r.session.newWorker(cfg)
	if err != nil {
		log.Error(err)
		return
	}
	if err := r.session.reg.Register(ctx, w); err != nil {
		log.Error(zerr.Wrap(err, "update failed"))
		return
	}
	if err := r.session.reg.SkipWaiting(ctx, cfg.Generation); err != nil {
		log.Error(zerr.Wrap(err, "update failed"))
		return
	}
	r.current = cfg
}

// controlHandler answers the control socket of a running gateway.
type controlHandler struct {
	reg     *host.Registration
	cfg     *domain.Config
	listen  string
	started time.Time
	cancel  context.CancelFunc
}

var _ ports.ControlHandler = (*controlHandler)(nil)

func (h *controlHandler) PostMessage(ctx context.Context, msg domain.Message) (map[string]any, error) {
	reply := &host.Reply{}
	if err := h.reg.Message(ctx, msg, reply); err != nil {
		return nil, err
	}
	data, ok := reply.Data()
	if !ok {
		return nil, nil
	}
	return data, nil
}

func (h *controlHandler) Status(_ context.Context) (*domain.GatewayStatus, error) {
	return &domain.GatewayStatus{
		PID:          os.Getpid(),
		Listen:       h.listen,
		Scope:        h.cfg.Scope.String(),
		Storage:      h.cfg.Storage.Driver,
		Uptime:       time.Since(h.started).Truncate(time.Second),
		Registration: h.reg.Status(),
	}, nil
}

func (h *controlHandler) Shutdown(_ context.Context) error {
	h.cancel()
	return nil
}
