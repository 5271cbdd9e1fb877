package worker_test

import (
	"context"
	"errors"
	"net/http"
	"net/url"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.trai.ch/offline/internal/adapters/cachestorage/memory"
	"go.trai.ch/offline/internal/core/domain"
	"go.trai.ch/offline/internal/core/ports"
	"go.trai.ch/offline/internal/core/ports/mocks"
	"go.trai.ch/offline/internal/worker"
	"go.uber.org/mock/gomock"
)

const scope = "http://game.test"

type fixture struct {
	ctrl      *gomock.Controller
	storage   *memory.Storage
	network   *mocks.MockNetwork
	lifecycle *mocks.MockLifecycle
	fallback  *mocks.MockFallbackProvider
	notifier  *mocks.MockNotifier
	clients   *mocks.MockClients
	logger    *mocks.MockLogger
	tracer    *mocks.MockTracer
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	ctrl := gomock.NewController(t)

	span := mocks.NewMockSpan(ctrl)
	span.EXPECT().End().AnyTimes()
	span.EXPECT().RecordError(gomock.Any()).AnyTimes()
	span.EXPECT().SetAttribute(gomock.Any(), gomock.Any()).AnyTimes()

	tracer := mocks.NewMockTracer(ctrl)
	tracer.EXPECT().Start(gomock.Any(), gomock.Any()).DoAndReturn(
		func(ctx context.Context, _ string) (context.Context, ports.Span) {
			return ctx, span
		},
	).AnyTimes()

	return &fixture{
		ctrl:      ctrl,
		storage:   memory.NewStorage(),
		network:   mocks.NewMockNetwork(ctrl),
		lifecycle: mocks.NewMockLifecycle(ctrl),
		fallback:  mocks.NewMockFallbackProvider(ctrl),
		notifier:  mocks.NewMockNotifier(ctrl),
		clients:   mocks.NewMockClients(ctrl),
		logger:    mocks.NewMockLogger(ctrl),
		tracer:    tracer,
	}
}

func (f *fixture) quietLogger() {
	f.logger.EXPECT().Info(gomock.Any()).AnyTimes()
	f.logger.EXPECT().Warn(gomock.Any()).AnyTimes()
}

func (f *fixture) config(t *testing.T, gen domain.Generation, locators []string) *domain.Config {
	t.Helper()
	u, err := url.Parse(scope)
	require.NoError(t, err)
	manifest, err := domain.ParseManifest(u, locators)
	require.NoError(t, err)

	return &domain.Config{
		Generation:    gen,
		Scope:         u,
		Manifest:      manifest,
		InstallPolicy: domain.InstallBestEffort,
		Exclude: domain.ExcludeConfig{
			Hosts: domain.DefaultExcludedHosts,
			Paths: domain.DefaultExcludedPaths,
		},
		Notification: domain.NotificationConfig{
			Title:       domain.DefaultNotificationTitle,
			DefaultBody: domain.DefaultNotificationBody,
			Icon:        "/icons/icon-192.png",
			Badge:       "/icons/icon-96.png",
			StartURL:    "/",
		},
	}
}

func (f *fixture) worker(cfg *domain.Config) *worker.Worker {
	return worker.New(cfg, worker.Deps{
		Storage:   f.storage,
		Network:   f.network,
		Fallback:  f.fallback,
		Lifecycle: f.lifecycle,
		Clients:   f.clients,
		Notifier:  f.notifier,
		Tracer:    f.tracer,
		Logger:    f.logger,
	})
}

// serve makes the network mock answer from a fixed path to body table.
// Unknown paths get a 404.
func (f *fixture) serve(routes map[string]string) {
	f.network.EXPECT().Fetch(gomock.Any(), gomock.Any()).DoAndReturn(
		func(_ context.Context, req *domain.Request) (*domain.Response, error) {
			body, ok := routes[req.URL.Path]
			if !ok {
				return &domain.Response{Status: http.StatusNotFound, Type: domain.ResponseBasic, URL: req.URL}, nil
			}
			return &domain.Response{
				Status: http.StatusOK,
				Header: http.Header{"Content-Type": []string{"text/html"}},
				Body:   []byte(body),
				Type:   domain.ResponseBasic,
				URL:    req.URL,
			}, nil
		},
	).AnyTimes()
}

func (f *fixture) offline() {
	f.network.EXPECT().Fetch(gomock.Any(), gomock.Any()).
		Return(nil, errors.New("dial tcp: connection refused")).AnyTimes()
}

func get(t *testing.T, raw string) *domain.Request {
	t.Helper()
	u, err := url.Parse(raw)
	require.NoError(t, err)
	return domain.NewRequest(u)
}

func navigate(t *testing.T, raw string) *domain.Request {
	t.Helper()
	req := get(t, raw)
	req.Destination = domain.DestinationDocument
	req.Mode = domain.ModeNavigate
	return req
}

func bucketKeys(t *testing.T, s ports.CacheStorage, name string) []string {
	t.Helper()
	c, err := s.Open(context.Background(), name)
	require.NoError(t, err)
	keys, err := c.Keys(context.Background())
	require.NoError(t, err)
	return keys
}

func TestWorker_Install_CachesEveryAsset(t *testing.T) {
	f := newFixture(t)
	f.quietLogger()
	f.serve(map[string]string{"/a.html": "A", "/icons/i.png": "I"})
	f.lifecycle.EXPECT().SkipWaiting(gomock.Any(), domain.Generation("v1")).Return(nil).Times(2)

	w := f.worker(f.config(t, "v1", []string{"/a.html", "/icons/i.png"}))
	ctx := context.Background()

	require.NoError(t, w.Install(ctx))
	require.NoError(t, w.Install(ctx))

	keys := bucketKeys(t, f.storage, "v1")
	assert.ElementsMatch(t, []string{
		"GET http://game.test/a.html",
		"GET http://game.test/icons/i.png",
	}, keys)

	for _, raw := range []string{scope + "/a.html", scope + "/icons/i.png"} {
		resp, err := f.storage.Match(ctx, get(t, raw))
		require.NoError(t, err)
		assert.NotNil(t, resp, raw)
	}
}

func TestWorker_Install_BestEffortSkipsFailures(t *testing.T) {
	f := newFixture(t)
	f.logger.EXPECT().Info(gomock.Any()).AnyTimes()
	f.logger.EXPECT().Warn(gomock.Any()).Times(2)
	f.network.EXPECT().Fetch(gomock.Any(), gomock.Any()).DoAndReturn(
		func(_ context.Context, req *domain.Request) (*domain.Response, error) {
			switch req.URL.Host {
			case "cdn.vercel-insights.com":
				return nil, errors.New("no such host")
			}
			if req.URL.Path == "/missing.png" {
				return &domain.Response{Status: http.StatusNotFound, Type: domain.ResponseBasic}, nil
			}
			return &domain.Response{Status: http.StatusOK, Body: []byte("ok"), Type: domain.ResponseBasic}, nil
		},
	).Times(3)
	f.lifecycle.EXPECT().SkipWaiting(gomock.Any(), domain.Generation("v1")).Return(nil)

	w := f.worker(f.config(t, "v1", []string{
		"/",
		"/missing.png",
		"https://cdn.vercel-insights.com/v1/script.debug.js",
	}))

	require.NoError(t, w.Install(context.Background()))
	assert.Equal(t, []string{"GET http://game.test/"}, bucketKeys(t, f.storage, "v1"))
}

func TestWorker_Install_AtomicFailsWithoutWriting(t *testing.T) {
	f := newFixture(t)
	f.quietLogger()
	f.network.EXPECT().Fetch(gomock.Any(), gomock.Any()).DoAndReturn(
		func(_ context.Context, req *domain.Request) (*domain.Response, error) {
			if req.URL.Path == "/missing.png" {
				return &domain.Response{Status: http.StatusNotFound, Type: domain.ResponseBasic}, nil
			}
			return &domain.Response{Status: http.StatusOK, Type: domain.ResponseBasic}, nil
		},
	).AnyTimes()
	f.lifecycle.EXPECT().SkipWaiting(gomock.Any(), gomock.Any()).Times(0)

	cfg := f.config(t, "v1", []string{"/", "/missing.png", "/manifest.json"})
	cfg.InstallPolicy = domain.InstallAtomic
	w := f.worker(cfg)

	err := w.Install(context.Background())
	require.Error(t, err)
	assert.ErrorContains(t, err, domain.ErrInstallFailed.Error())
	assert.Empty(t, bucketKeys(t, f.storage, "v1"))
}

func TestWorker_Activate_EvictsStaleBuckets(t *testing.T) {
	f := newFixture(t)
	f.quietLogger()
	ctx := context.Background()
	for _, name := range []string{"v1", "v2", "G"} {
		_, err := f.storage.Open(ctx, name)
		require.NoError(t, err)
	}
	f.lifecycle.EXPECT().Claim(gomock.Any(), domain.Generation("G")).Return(nil)

	w := f.worker(f.config(t, "G", []string{"/"}))
	require.NoError(t, w.Activate(ctx))

	keys, err := f.storage.Keys(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"G"}, keys)
}

func TestWorker_Activate_DoesNotClaimWhenEvictionFails(t *testing.T) {
	f := newFixture(t)
	f.quietLogger()

	storage := mocks.NewMockCacheStorage(f.ctrl)
	storage.EXPECT().Keys(gomock.Any()).Return([]string{"v1", "v2", "v3"}, nil)
	storage.EXPECT().Delete(gomock.Any(), "v1").Return(false, errors.New("disk full"))
	storage.EXPECT().Delete(gomock.Any(), "v2").Return(true, nil)
	f.lifecycle.EXPECT().Claim(gomock.Any(), gomock.Any()).Times(0)

	cfg := f.config(t, "v3", []string{"/"})
	w := worker.New(cfg, worker.Deps{
		Storage:   storage,
		Lifecycle: f.lifecycle,
		Tracer:    f.tracer,
		Logger:    f.logger,
	})

	err := w.Activate(context.Background())
	require.Error(t, err)
	assert.ErrorContains(t, err, domain.ErrActivateFailed.Error())
	assert.ErrorContains(t, err, "disk full")
}

func TestWorker_Fetch_CacheFirst(t *testing.T) {
	f := newFixture(t)
	f.quietLogger()
	f.network.EXPECT().Fetch(gomock.Any(), gomock.Any()).Times(0)
	ctx := context.Background()

	stored := &domain.Response{
		Status: http.StatusOK,
		Header: http.Header{"Content-Type": []string{"image/png"}},
		Body:   []byte{0x89, 'P', 'N', 'G', 0x00, 0xff},
		Type:   domain.ResponseBasic,
	}
	c, err := f.storage.Open(ctx, "v1")
	require.NoError(t, err)
	require.NoError(t, c.Put(ctx, get(t, scope+"/icons/i.png"), stored))

	w := f.worker(f.config(t, "v1", []string{"/"}))
	result, err := w.Fetch(ctx, get(t, scope+"/icons/i.png"))
	require.NoError(t, err)
	require.NotNil(t, result)

	assert.Equal(t, domain.SourceCache, result.Source)
	assert.Equal(t, stored.Body, result.Response.Body)
	assert.Equal(t, stored.Header, result.Response.Header)
	assert.Equal(t, stored.Status, result.Response.Status)
}

func TestWorker_Fetch_IgnoresOtherGenerations(t *testing.T) {
	f := newFixture(t)
	f.quietLogger()
	f.serve(map[string]string{"/a.html": "fresh"})
	ctx := context.Background()

	old, err := f.storage.Open(ctx, "v1")
	require.NoError(t, err)
	require.NoError(t, old.Put(ctx, get(t, scope+"/a.html"), &domain.Response{Status: 200, Body: []byte("stale")}))

	w := f.worker(f.config(t, "v2", []string{"/"}))
	result, err := w.Fetch(ctx, get(t, scope+"/a.html"))
	require.NoError(t, err)
	w.Wait()

	assert.Equal(t, domain.SourceNetwork, result.Source)
	assert.Equal(t, []byte("fresh"), result.Response.Body)
}

func TestWorker_Fetch_StoresCacheableResponses(t *testing.T) {
	tests := []struct {
		name   string
		status int
		typ    domain.ResponseType
		stored bool
	}{
		{name: "basic 200", status: http.StatusOK, typ: domain.ResponseBasic, stored: true},
		{name: "basic 404", status: http.StatusNotFound, typ: domain.ResponseBasic, stored: false},
		{name: "basic 204", status: http.StatusNoContent, typ: domain.ResponseBasic, stored: false},
		{name: "cors 200", status: http.StatusOK, typ: domain.ResponseCORS, stored: false},
		{name: "opaque 200", status: http.StatusOK, typ: domain.ResponseOpaque, stored: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture(t)
			f.quietLogger()
			f.network.EXPECT().Fetch(gomock.Any(), gomock.Any()).Return(&domain.Response{
				Status: tt.status,
				Body:   []byte("body"),
				Type:   tt.typ,
			}, nil)

			w := f.worker(f.config(t, "v1", []string{"/"}))
			result, err := w.Fetch(context.Background(), get(t, scope+"/page"))
			require.NoError(t, err)
			w.Wait()

			assert.Equal(t, domain.SourceNetwork, result.Source)
			assert.Equal(t, tt.status, result.Response.Status)

			keys := bucketKeys(t, f.storage, "v1")
			if tt.stored {
				assert.Equal(t, []string{"GET http://game.test/page"}, keys)
			} else {
				assert.Empty(t, keys)
			}
		})
	}
}

func TestWorker_Fetch_BackgroundWriteFailureIsLogged(t *testing.T) {
	f := newFixture(t)
	f.logger.EXPECT().Error(gomock.Any()).Times(1)

	cache := mocks.NewMockCache(f.ctrl)
	cache.EXPECT().Match(gomock.Any(), gomock.Any()).Return(nil, nil)
	cache.EXPECT().Put(gomock.Any(), gomock.Any(), gomock.Any()).Return(errors.New("read-only file system"))

	storage := mocks.NewMockCacheStorage(f.ctrl)
	storage.EXPECT().Open(gomock.Any(), "v1").Return(cache, nil)

	f.network.EXPECT().Fetch(gomock.Any(), gomock.Any()).Return(&domain.Response{
		Status: http.StatusOK,
		Body:   []byte("body"),
		Type:   domain.ResponseBasic,
	}, nil)

	w := worker.New(f.config(t, "v1", []string{"/"}), worker.Deps{
		Storage: storage,
		Network: f.network,
		Tracer:  f.tracer,
		Logger:  f.logger,
	})

	result, err := w.Fetch(context.Background(), get(t, scope+"/page"))
	require.NoError(t, err)
	assert.Equal(t, []byte("body"), result.Response.Body)
	w.Wait()
}

func TestWorker_Fetch_OfflineNavigationGetsFallback(t *testing.T) {
	f := newFixture(t)
	f.quietLogger()
	f.offline()
	f.fallback.EXPECT().Document(gomock.Any(), gomock.Any()).Return(&domain.Response{
		Status: http.StatusOK,
		Header: http.Header{"Content-Type": []string{"text/html; charset=utf-8"}},
		Body:   []byte("<h1>IMPOSTOR</h1><p>No hay conexión a internet</p>"),
		Type:   domain.ResponseBasic,
	}, nil)

	w := f.worker(f.config(t, "v1", []string{"/"}))
	result, err := w.Fetch(context.Background(), navigate(t, scope+"/juego/Impostor.html"))
	require.NoError(t, err)
	require.NotNil(t, result)

	assert.Equal(t, domain.SourceFallback, result.Source)
	assert.Equal(t, http.StatusOK, result.Response.Status)
	assert.Contains(t, result.Response.Header.Get("Content-Type"), "text/html")
	assert.Contains(t, string(result.Response.Body), "No hay conexión a internet")
}

func TestWorker_Fetch_OfflineNavigationPrefersCachedPage(t *testing.T) {
	f := newFixture(t)
	f.quietLogger()
	f.offline()
	f.fallback.EXPECT().Document(gomock.Any(), gomock.Any()).Times(0)
	ctx := context.Background()

	c, err := f.storage.Open(ctx, "v1")
	require.NoError(t, err)
	require.NoError(t, c.Put(ctx, get(t, scope+"/"), &domain.Response{Status: 200, Body: []byte("home")}))

	cfg := f.config(t, "v1", []string{"/"})
	cfg.Fallback.CachedPath = "/"
	w := f.worker(cfg)

	result, err := w.Fetch(ctx, navigate(t, scope+"/juego/"))
	require.NoError(t, err)
	assert.Equal(t, domain.SourceFallback, result.Source)
	assert.Equal(t, []byte("home"), result.Response.Body)
}

func TestWorker_Fetch_OfflineSubresourcePropagates(t *testing.T) {
	f := newFixture(t)
	f.quietLogger()
	f.offline()
	f.fallback.EXPECT().Document(gomock.Any(), gomock.Any()).Times(0)

	w := f.worker(f.config(t, "v1", []string{"/"}))
	req := get(t, scope+"/icons/icon-512.png")
	req.Destination = domain.DestinationImage

	result, err := w.Fetch(context.Background(), req)
	require.Error(t, err)
	assert.Nil(t, result)
	assert.ErrorContains(t, err, domain.ErrNetworkFailed.Error())
	assert.ErrorContains(t, err, "connection refused")
}

func TestWorker_Fetch_Declines(t *testing.T) {
	tests := []struct {
		name  string
		build func(t *testing.T) *domain.Request
	}{
		{
			name: "post",
			build: func(t *testing.T) *domain.Request {
				req := get(t, scope+"/a.html")
				req.Method = http.MethodPost
				return req
			},
		},
		{
			name:  "cross origin",
			build: func(t *testing.T) *domain.Request { return get(t, "https://cdn.example.com/lib.js") },
		},
		{
			name:  "analytics script",
			build: func(t *testing.T) *domain.Request { return get(t, "https://cdn.vercel-insights.com/v1/script.debug.js") },
		},
		{
			name:  "api path",
			build: func(t *testing.T) *domain.Request { return get(t, scope+"/api/rooms") },
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture(t)
			f.network.EXPECT().Fetch(gomock.Any(), gomock.Any()).Times(0)

			w := f.worker(f.config(t, "v1", []string{"/"}))
			result, err := w.Fetch(context.Background(), tt.build(t))
			require.NoError(t, err)
			assert.Nil(t, result)
		})
	}
}

func TestWorker_Message(t *testing.T) {
	t.Run("GET_VERSION replies with the generation", func(t *testing.T) {
		f := newFixture(t)
		port := mocks.NewMockMessagePort(f.ctrl)
		port.EXPECT().PostMessage(map[string]any{"version": "impostor-game-v1.2.0"}).Return(nil)

		w := f.worker(f.config(t, "impostor-game-v1.2.0", []string{"/"}))
		msg := domain.NewMessage(map[string]any{"type": "GET_VERSION"})
		require.NoError(t, w.Message(context.Background(), msg, port))
	})

	t.Run("SKIP_WAITING asks the host", func(t *testing.T) {
		f := newFixture(t)
		f.lifecycle.EXPECT().SkipWaiting(gomock.Any(), domain.Generation("v2")).Return(nil)

		w := f.worker(f.config(t, "v2", []string{"/"}))
		msg := domain.NewMessage(map[string]any{"type": "SKIP_WAITING"})
		require.NoError(t, w.Message(context.Background(), msg, nil))
	})

	t.Run("unknown and malformed messages are ignored", func(t *testing.T) {
		f := newFixture(t)
		port := mocks.NewMockMessagePort(f.ctrl)
		port.EXPECT().PostMessage(gomock.Any()).Times(0)
		f.lifecycle.EXPECT().SkipWaiting(gomock.Any(), gomock.Any()).Times(0)

		w := f.worker(f.config(t, "v1", []string{"/"}))
		for _, data := range []map[string]any{
			{"type": "RELOAD"},
			{"type": 42},
			{},
		} {
			require.NoError(t, w.Message(context.Background(), domain.NewMessage(data), port))
		}
	})
}

func TestWorker_Push(t *testing.T) {
	at := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)

	tests := []struct {
		name    string
		payload []byte
		body    string
	}{
		{name: "with payload", payload: []byte("Tu turno"), body: "Tu turno"},
		{name: "without payload", payload: nil, body: domain.DefaultNotificationBody},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture(t)
			var shown domain.Notification
			f.notifier.EXPECT().Show(gomock.Any(), gomock.Any()).DoAndReturn(
				func(_ context.Context, n domain.Notification) error {
					shown = n
					return nil
				},
			)

			w := f.worker(f.config(t, "v1", []string{"/"})).WithClock(func() time.Time { return at })
			require.NoError(t, w.Push(context.Background(), tt.payload))

			assert.Equal(t, "Impostor", shown.Title)
			assert.Equal(t, tt.body, shown.Body)
			assert.Equal(t, "/icons/icon-192.png", shown.Icon)
			assert.Equal(t, "/icons/icon-96.png", shown.Badge)
			assert.Equal(t, []int{100, 50, 100}, shown.Vibrate)
			assert.Equal(t, at, shown.Data.DateOfArrival)
			assert.Equal(t, "2", shown.Data.PrimaryKey)
			assert.NotEmpty(t, shown.Tag)
			require.Len(t, shown.Actions, 2)
			assert.Equal(t, domain.ActionExplore, shown.Actions[0].Action)
			assert.Equal(t, "Jugar", shown.Actions[0].Title)
			assert.Equal(t, domain.ActionClose, shown.Actions[1].Action)
			assert.Equal(t, "Cerrar", shown.Actions[1].Title)
		})
	}
}

func TestWorker_NotificationClick(t *testing.T) {
	t.Run("explore opens the game", func(t *testing.T) {
		f := newFixture(t)
		f.notifier.EXPECT().Close(gomock.Any(), "push-1").Return(nil)
		f.clients.EXPECT().OpenWindow(gomock.Any(), "http://game.test/").Return(nil)

		w := f.worker(f.config(t, "v1", []string{"/"}))
		click := domain.NotificationClick{Tag: "push-1", Action: domain.ActionExplore}
		require.NoError(t, w.NotificationClick(context.Background(), click))
	})

	t.Run("other actions only close", func(t *testing.T) {
		f := newFixture(t)
		f.notifier.EXPECT().Close(gomock.Any(), "push-1").Return(nil)
		f.clients.EXPECT().OpenWindow(gomock.Any(), gomock.Any()).Times(0)

		w := f.worker(f.config(t, "v1", []string{"/"}))
		click := domain.NotificationClick{Tag: "push-1", Action: domain.ActionClose}
		require.NoError(t, w.NotificationClick(context.Background(), click))
	})
}

func TestWorker_UpgradeScenario(t *testing.T) {
	f := newFixture(t)
	f.quietLogger()
	f.lifecycle.EXPECT().SkipWaiting(gomock.Any(), gomock.Any()).Return(nil).AnyTimes()
	f.lifecycle.EXPECT().Claim(gomock.Any(), gomock.Any()).Return(nil).AnyTimes()
	ctx := context.Background()
	manifest := []string{"/a.html", "/icons/i.png"}

	f.serve(map[string]string{"/a.html": "A1", "/icons/i.png": "I1"})
	v1 := f.worker(f.config(t, "v1", manifest))
	require.NoError(t, v1.Install(ctx))
	require.NoError(t, v1.Activate(ctx))
	assert.Len(t, bucketKeys(t, f.storage, "v1"), 2)

	// Same fixture, new routes: the second generation sees the new content.
	f.network = mocks.NewMockNetwork(f.ctrl)
	f.serve(map[string]string{"/a.html": "A2", "/icons/i.png": "I2"})
	v2 := f.worker(f.config(t, "v2", manifest))
	require.NoError(t, v2.Install(ctx))
	require.NoError(t, v2.Activate(ctx))

	names, err := f.storage.Keys(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"v2"}, names)
	assert.ElementsMatch(t, []string{
		"GET http://game.test/a.html",
		"GET http://game.test/icons/i.png",
	}, bucketKeys(t, f.storage, "v2"))

	result, err := v2.Fetch(ctx, get(t, scope+"/a.html"))
	require.NoError(t, err)
	assert.Equal(t, domain.SourceCache, result.Source)
	assert.Equal(t, []byte("A2"), result.Response.Body)
}
