// Package worker implements the offline cache manager: the handlers a host
// drives through install, activate, fetch, message, push and notification clicks.
package worker

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"net/url"
	"strconv"
	"sync"
	"sync/atomic"
	"time"

	"go.trai.ch/offline/internal/core/domain"
	"go.trai.ch/offline/internal/core/ports"
	"go.trai.ch/zerr"
	"golang.org/x/sync/errgroup"
)

var _ ports.Worker = (*Worker)(nil)

// Deps are the ports a worker talks to.
type Deps struct {
	Storage   ports.CacheStorage
	Network   ports.Network
	Fallback  ports.FallbackProvider
	Lifecycle ports.Lifecycle
	Clients   ports.Clients
	Notifier  ports.Notifier
	Tracer    ports.Tracer
	Logger    ports.Logger
}

// Worker owns one cache generation.
type Worker struct {
	generation   domain.Generation
	scope        *url.URL
	manifest     domain.Manifest
	policy       domain.InstallPolicy
	concurrency  int
	cachedPath   string
	notification domain.NotificationConfig
	filter       *Filter

	deps Deps

	writes  sync.WaitGroup
	pushSeq atomic.Uint64
	now     func() time.Time
}

// New creates a worker for the generation and manifest of cfg.
func New(cfg *domain.Config, deps Deps) *Worker {
	concurrency := cfg.InstallConcurrency
	if concurrency <= 0 {
		concurrency = domain.DefaultInstallConcurrency
	}
	policy := cfg.InstallPolicy
	if policy == "" {
		policy = domain.InstallBestEffort
	}

	return &Worker{
		generation:   cfg.Generation,
		scope:        cfg.Scope,
		manifest:     cfg.Manifest,
		policy:       policy,
		concurrency:  concurrency,
		cachedPath:   cfg.Fallback.CachedPath,
		notification: cfg.Notification,
		filter:       NewFilter(cfg.Scope, cfg.Exclude),
		deps:         deps,
		now:          time.Now,
	}
}

// WithClock replaces the clock used to stamp notifications.
func (w *Worker) WithClock(now func() time.Time) *Worker {
	w.now = now
	return w
}

// Generation returns the cache generation the worker owns.
func (w *Worker) Generation() domain.Generation {
	return w.generation
}

type installResult struct {
	req  *domain.Request
	resp *domain.Response
	err  error
}

// Install opens the worker's bucket and stores every manifest asset in it.
// Under the best-effort policy failed assets are logged and skipped. Under
// the atomic policy nothing is stored unless every asset was fetched.
func (w *Worker) Install(ctx context.Context) (err error) {
	ctx, span := w.deps.Tracer.Start(ctx, "worker.install")
	defer func() {
		if err != nil {
			span.RecordError(err)
		}
		span.End()
	}()
	span.SetAttribute("generation", w.generation.String())
	span.SetAttribute("policy", string(w.policy))
	span.SetAttribute("assets", len(w.manifest))

	w.deps.Logger.Info(fmt.Sprintf("installing %s (%d assets)", w.generation, len(w.manifest)))

	cache, err := w.deps.Storage.Open(ctx, w.generation.String())
	if err != nil {
		return zerr.With(zerr.Wrap(err, domain.ErrInstallFailed.Error()), "generation", w.generation.String())
	}

	results, err := w.fetchManifest(ctx)
	if err != nil {
		return zerr.With(zerr.Wrap(err, domain.ErrInstallFailed.Error()), "generation", w.generation.String())
	}

	stored := 0
	for _, r := range results {
		if r.err != nil {
			w.deps.Logger.Warn(fmt.Sprintf("skipping %s: %v", r.req.URL, r.err))
			continue
		}
		if putErr := cache.Put(ctx, r.req, r.resp); putErr != nil {
			putErr = zerr.With(putErr, "url", r.req.URL.String())
			if w.policy == domain.InstallAtomic {
				return zerr.With(zerr.Wrap(putErr, domain.ErrInstallFailed.Error()), "generation", w.generation.String())
			}
			w.deps.Logger.Warn(fmt.Sprintf("skipping %s: %v", r.req.URL, putErr))
			continue
		}
		stored++
	}
	span.SetAttribute("stored", stored)

	w.deps.Logger.Info(fmt.Sprintf("installed %s (%d/%d assets cached)", w.generation, stored, len(w.manifest)))

	if err := w.deps.Lifecycle.SkipWaiting(ctx, w.generation); err != nil {
		return zerr.Wrap(err, "skip waiting failed")
	}
	return nil
}

// fetchManifest fetches every asset with bounded concurrency. Results keep
// manifest order. Under the atomic policy the first failure cancels the rest
// and is returned.
func (w *Worker) fetchManifest(ctx context.Context) ([]installResult, error) {
	results := make([]installResult, len(w.manifest))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(w.concurrency)

	for i, asset := range w.manifest {
		req := w.assetRequest(asset)
		results[i].req = req

		g.Go(func() error {
			resp, err := w.fetchAsset(gctx, req)
			results[i].resp = resp
			results[i].err = err
			if err != nil && w.policy == domain.InstallAtomic {
				return err
			}
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return results, nil
}

func (w *Worker) assetRequest(asset domain.Asset) *domain.Request {
	req := domain.NewRequest(asset.URL)
	req.Mode = domain.ModeSameOrigin
	if asset.External {
		req.Mode = domain.ModeCORS
	}
	return req
}

func (w *Worker) fetchAsset(ctx context.Context, req *domain.Request) (*domain.Response, error) {
	resp, err := w.deps.Network.Fetch(ctx, req)
	if err != nil {
		return nil, zerr.With(zerr.Wrap(err, domain.ErrAssetFetchFailed.Error()), "url", req.URL.String())
	}
	if !resp.OK() {
		return nil, zerr.With(zerr.With(domain.ErrAssetNotOK, "url", req.URL.String()), "status", resp.Status)
	}
	return resp, nil
}

// Activate deletes every bucket except the worker's own generation, then
// claims open pages. Clients are not claimed unless every stale bucket is gone.
func (w *Worker) Activate(ctx context.Context) (err error) {
	ctx, span := w.deps.Tracer.Start(ctx, "worker.activate")
	defer func() {
		if err != nil {
			span.RecordError(err)
		}
		span.End()
	}()
	span.SetAttribute("generation", w.generation.String())

	w.deps.Logger.Info(fmt.Sprintf("activating %s", w.generation))

	names, err := w.deps.Storage.Keys(ctx)
	if err != nil {
		return zerr.Wrap(err, domain.ErrActivateFailed.Error())
	}

	var errs error
	evicted := 0
	for _, name := range names {
		if name == w.generation.String() {
			continue
		}
		if _, delErr := w.deps.Storage.Delete(ctx, name); delErr != nil {
			errs = errors.Join(errs, zerr.With(delErr, "bucket", name))
			continue
		}
		evicted++
		w.deps.Logger.Info(fmt.Sprintf("evicted stale cache %s", name))
	}
	span.SetAttribute("evicted", evicted)

	if errs != nil {
		return zerr.Wrap(errs, domain.ErrActivateFailed.Error())
	}

	if err := w.deps.Lifecycle.Claim(ctx, w.generation); err != nil {
		return zerr.Wrap(err, "claim clients failed")
	}

	w.deps.Logger.Info(fmt.Sprintf("activated %s", w.generation))
	return nil
}

// Fetch answers req cache-first. It returns nil, nil for requests it does
// not intercept.
func (w *Worker) Fetch(ctx context.Context, req *domain.Request) (result *domain.FetchResult, err error) {
	if !w.filter.Intercepts(req) {
		return nil, nil
	}

	ctx, span := w.deps.Tracer.Start(ctx, "worker.fetch")
	defer func() {
		if err != nil {
			span.RecordError(err)
		}
		if result != nil {
			span.SetAttribute("source", string(result.Source))
		}
		span.End()
	}()
	span.SetAttribute("url", req.URL.String())
	span.SetAttribute("destination", string(req.Destination))

	cache, err := w.deps.Storage.Open(ctx, w.generation.String())
	if err != nil {
		return nil, zerr.With(err, "url", req.URL.String())
	}

	cached, err := cache.Match(ctx, req)
	if err != nil {
		return nil, zerr.With(err, "url", req.URL.String())
	}
	if cached != nil {
		return &domain.FetchResult{Response: cached, Source: domain.SourceCache}, nil
	}

	resp, netErr := w.deps.Network.Fetch(ctx, req)
	if netErr != nil {
		return w.offline(ctx, cache, req, netErr)
	}

	if resp.Cacheable() {
		w.storeInBackground(ctx, cache, req, resp)
	}
	return &domain.FetchResult{Response: resp, Source: domain.SourceNetwork}, nil
}

// offline handles a failed network fetch. Navigations get the offline
// document, everything else gets the network error back.
func (w *Worker) offline(
	ctx context.Context,
	cache ports.Cache,
	req *domain.Request,
	netErr error,
) (*domain.FetchResult, error) {
	netErr = zerr.With(zerr.Wrap(netErr, domain.ErrNetworkFailed.Error()), "url", req.URL.String())
	if !req.IsNavigation() {
		return nil, netErr
	}

	w.deps.Logger.Warn(fmt.Sprintf("serving offline page for %s", req.URL))

	if resp := w.cachedFallback(ctx, cache); resp != nil {
		return &domain.FetchResult{Response: resp, Source: domain.SourceFallback}, nil
	}

	doc, err := w.deps.Fallback.Document(ctx, req)
	if err != nil {
		return nil, errors.Join(netErr, err)
	}
	return &domain.FetchResult{Response: doc, Source: domain.SourceFallback}, nil
}

func (w *Worker) cachedFallback(ctx context.Context, cache ports.Cache) *domain.Response {
	if w.cachedPath == "" {
		return nil
	}
	ref, err := url.Parse(w.cachedPath)
	if err != nil {
		return nil
	}
	resp, err := cache.Match(ctx, domain.NewRequest(w.scope.ResolveReference(ref)))
	if err != nil {
		w.deps.Logger.Warn(fmt.Sprintf("cached offline page unavailable: %v", err))
		return nil
	}
	return resp
}

// storeInBackground writes a copy of resp without holding up the caller.
// Failures end up in the log and on the span.
func (w *Worker) storeInBackground(ctx context.Context, cache ports.Cache, req *domain.Request, resp *domain.Response) {
	clone := resp.Clone()
	key := *req
	ctx = context.WithoutCancel(ctx)

	w.writes.Go(func() {
		ctx, span := w.deps.Tracer.Start(ctx, "worker.cache_put")
		defer span.End()
		span.SetAttribute("url", key.URL.String())

		if err := cache.Put(ctx, &key, clone); err != nil {
			span.RecordError(err)
			w.deps.Logger.Error(zerr.With(zerr.Wrap(err, "background cache write failed"), "url", key.URL.String()))
		}
	})
}

// Wait blocks until every background cache write has finished.
func (w *Worker) Wait() {
	w.writes.Wait()
}

// Message handles a page message. Unknown types are ignored.
func (w *Worker) Message(ctx context.Context, msg domain.Message, port ports.MessagePort) error {
	switch msg.Type {
	case domain.MessageSkipWaiting:
		return w.deps.Lifecycle.SkipWaiting(ctx, w.generation)
	case domain.MessageGetVersion:
		if port == nil {
			w.deps.Logger.Warn("GET_VERSION without a reply port")
			return nil
		}
		return port.PostMessage(domain.VersionReply(w.generation))
	default:
		return nil
	}
}

// Push shows a notification carrying payload as its body.
func (w *Worker) Push(ctx context.Context, payload []byte) error {
	body := w.notification.DefaultBody
	if text := bytes.TrimSpace(payload); len(text) > 0 {
		body = string(text)
	}

	icon := w.notification.Icon
	n := domain.Notification{
		Tag:     "push-" + strconv.FormatUint(w.pushSeq.Add(1), 10),
		Title:   w.notification.Title,
		Body:    body,
		Icon:    icon,
		Badge:   w.notification.Badge,
		Vibrate: []int{100, 50, 100},
		Data: domain.NotificationData{
			DateOfArrival: w.now(),
			PrimaryKey:    "2",
		},
		Actions: []domain.NotificationAction{
			{Action: domain.ActionExplore, Title: "Jugar", Icon: icon},
			{Action: domain.ActionClose, Title: "Cerrar", Icon: icon},
		},
	}

	return w.deps.Notifier.Show(ctx, n)
}

// NotificationClick closes the notification and opens the game for the
// explore action.
func (w *Worker) NotificationClick(ctx context.Context, click domain.NotificationClick) error {
	if err := w.deps.Notifier.Close(ctx, click.Tag); err != nil {
		w.deps.Logger.Warn(fmt.Sprintf("close notification %q: %v", click.Tag, err))
	}

	if click.Action != domain.ActionExplore {
		return nil
	}

	start := w.notification.StartURL
	if start == "" {
		start = "/"
	}
	ref, err := url.Parse(start)
	if err != nil {
		return zerr.With(zerr.Wrap(err, "invalid start url"), "start_url", start)
	}
	return w.deps.Clients.OpenWindow(ctx, w.scope.ResolveReference(ref).String())
}
