package gateway_test

import (
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.trai.ch/offline/internal/adapters/gateway"
	"go.trai.ch/offline/internal/adapters/telemetry"
	"go.trai.ch/offline/internal/core/domain"
	"go.trai.ch/offline/internal/core/ports"
	"go.trai.ch/offline/internal/core/ports/mocks"
	"go.uber.org/mock/gomock"
)

type fakeRegistration struct {
	controller ports.Worker
	messageFn  func(ctx context.Context, msg domain.Message, port ports.MessagePort) error
	pushFn     func(ctx context.Context, payload []byte) error
	clickFn    func(ctx context.Context, click domain.NotificationClick) error
}

func (f *fakeRegistration) Controller() ports.Worker { return f.controller }

func (f *fakeRegistration) Message(ctx context.Context, msg domain.Message, port ports.MessagePort) error {
	return f.messageFn(ctx, msg, port)
}

func (f *fakeRegistration) Push(ctx context.Context, payload []byte) error {
	return f.pushFn(ctx, payload)
}

func (f *fakeRegistration) NotificationClick(ctx context.Context, click domain.NotificationClick) error {
	return f.clickFn(ctx, click)
}

type fixture struct {
	reg      *fakeRegistration
	logger   *mocks.MockLogger
	worker   *mocks.MockWorker
	upstream *httptest.Server
	server   *httptest.Server
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	ctrl := gomock.NewController(t)

	upstream := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/plain")
		_, _ = io.WriteString(w, "upstream "+r.URL.Path)
	}))
	t.Cleanup(upstream.Close)

	f := &fixture{
		reg:      &fakeRegistration{},
		logger:   mocks.NewMockLogger(ctrl),
		worker:   mocks.NewMockWorker(ctrl),
		upstream: upstream,
	}

	scope, err := url.Parse("http://game.test/")
	require.NoError(t, err)
	upstreamURL, err := url.Parse(upstream.URL)
	require.NoError(t, err)

	gw := gateway.New(f.reg, scope, upstreamURL, f.logger, telemetry.NewNoOpTracer())
	f.server = httptest.NewServer(gw)
	t.Cleanup(f.server.Close)
	return f
}

func (f *fixture) do(t *testing.T, method, path string, body io.Reader, header http.Header) (*http.Response, string) {
	t.Helper()
	req, err := http.NewRequestWithContext(context.Background(), method, f.server.URL+path, body)
	require.NoError(t, err)
	for k, vs := range header {
		req.Header[k] = vs
	}
	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	defer func() { _ = resp.Body.Close() }()
	data, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	return resp, string(data)
}

func TestGateway_NoControllerProxiesUpstream(t *testing.T) {
	f := newFixture(t)

	resp, body := f.do(t, http.MethodGet, "/juego/Impostor.html", nil, nil)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "upstream /juego/Impostor.html", body)
	assert.Equal(t, gateway.CacheBypass, resp.Header.Get(gateway.CacheHeader))
}

func TestGateway_ServesWorkerResponse(t *testing.T) {
	f := newFixture(t)
	f.reg.controller = f.worker

	var got *domain.Request
	f.worker.EXPECT().Fetch(gomock.Any(), gomock.Any()).DoAndReturn(
		func(_ context.Context, req *domain.Request) (*domain.FetchResult, error) {
			got = req
			return &domain.FetchResult{
				Source: domain.SourceCache,
				Response: &domain.Response{
					Status: http.StatusOK,
					Header: http.Header{
						"Content-Type":      []string{"text/html"},
						"Transfer-Encoding": []string{"chunked"},
					},
					Body: []byte("<h1>Impostor</h1>"),
				},
			}, nil
		},
	)

	resp, body := f.do(t, http.MethodGet, "/juego/Impostor.html?room=7", nil, http.Header{
		"Sec-Fetch-Dest": []string{"document"},
		"Sec-Fetch-Mode": []string{"navigate"},
	})

	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "<h1>Impostor</h1>", body)
	assert.Equal(t, "hit", resp.Header.Get(gateway.CacheHeader))
	assert.Equal(t, "text/html", resp.Header.Get("Content-Type"))
	assert.Equal(t, int64(len(body)), resp.ContentLength)

	require.NotNil(t, got)
	assert.Equal(t, http.MethodGet, got.Method)
	assert.Equal(t, "http://game.test/juego/Impostor.html?room=7", got.URL.String())
	assert.Equal(t, domain.DestinationDocument, got.Destination)
	assert.Equal(t, domain.ModeNavigate, got.Mode)
}

func TestGateway_HeadHasNoBody(t *testing.T) {
	f := newFixture(t)
	f.reg.controller = f.worker
	f.worker.EXPECT().Fetch(gomock.Any(), gomock.Any()).Return(&domain.FetchResult{
		Source:   domain.SourceNetwork,
		Response: &domain.Response{Status: http.StatusOK, Body: []byte("body")},
	}, nil)

	resp, body := f.do(t, http.MethodHead, "/", nil, nil)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Empty(t, body)
	assert.Equal(t, "miss", resp.Header.Get(gateway.CacheHeader))
}

func TestGateway_DeclinedRequestIsProxied(t *testing.T) {
	f := newFixture(t)
	f.reg.controller = f.worker
	f.worker.EXPECT().Fetch(gomock.Any(), gomock.Any()).Return(nil, nil)

	resp, body := f.do(t, http.MethodPost, "/api/rooms", strings.NewReader("{}"), nil)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "upstream /api/rooms", body)
	assert.Equal(t, gateway.CacheBypass, resp.Header.Get(gateway.CacheHeader))
}

func TestGateway_WorkerErrorIsBadGateway(t *testing.T) {
	f := newFixture(t)
	f.reg.controller = f.worker
	f.worker.EXPECT().Fetch(gomock.Any(), gomock.Any()).Return(nil, domain.ErrNetworkFailed)
	f.logger.EXPECT().Error(gomock.Any())

	resp, _ := f.do(t, http.MethodGet, "/icons/icon-16.png", nil, nil)
	assert.Equal(t, http.StatusBadGateway, resp.StatusCode)
}

func TestGateway_UpstreamDownIsBadGateway(t *testing.T) {
	f := newFixture(t)
	f.upstream.Close()
	f.logger.EXPECT().Warn(gomock.Any())

	resp, _ := f.do(t, http.MethodGet, "/", nil, nil)
	assert.Equal(t, http.StatusBadGateway, resp.StatusCode)
}

func TestGateway_Message(t *testing.T) {
	tests := []struct {
		name       string
		body       string
		messageFn  func(context.Context, domain.Message, ports.MessagePort) error
		wantStatus int
		wantBody   string
	}{
		{
			name: "reply",
			body: `{"type":"GET_VERSION"}`,
			messageFn: func(_ context.Context, msg domain.Message, port ports.MessagePort) error {
				if msg.Type != domain.MessageGetVersion {
					return errors.New("unexpected message")
				}
				return port.PostMessage(map[string]any{"version": "impostor-game-v1.2.0"})
			},
			wantStatus: http.StatusOK,
			wantBody:   `{"version":"impostor-game-v1.2.0"}` + "\n",
		},
		{
			name:       "no reply",
			body:       `{"type":"SKIP_WAITING"}`,
			messageFn:  func(context.Context, domain.Message, ports.MessagePort) error { return nil },
			wantStatus: http.StatusNoContent,
		},
		{
			name:       "malformed",
			body:       `not json`,
			wantStatus: http.StatusBadRequest,
		},
		{
			name: "no worker",
			body: `{"type":"GET_VERSION"}`,
			messageFn: func(context.Context, domain.Message, ports.MessagePort) error {
				return domain.ErrNoActiveWorker
			},
			wantStatus: http.StatusServiceUnavailable,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture(t)
			f.reg.messageFn = tt.messageFn

			resp, body := f.do(t, http.MethodPost, gateway.PathPrefix+"message", strings.NewReader(tt.body), nil)
			assert.Equal(t, tt.wantStatus, resp.StatusCode)
			if tt.wantBody != "" {
				assert.Equal(t, tt.wantBody, body)
				assert.Equal(t, "application/json", resp.Header.Get("Content-Type"))
			}
		})
	}
}

func TestGateway_Push(t *testing.T) {
	f := newFixture(t)
	var payload []byte
	f.reg.pushFn = func(_ context.Context, p []byte) error {
		payload = p
		return nil
	}

	resp, _ := f.do(t, http.MethodPost, gateway.PathPrefix+"push", strings.NewReader("Ronda nueva"), nil)
	assert.Equal(t, http.StatusNoContent, resp.StatusCode)
	assert.Equal(t, []byte("Ronda nueva"), payload)
}

func TestGateway_PushFailure(t *testing.T) {
	f := newFixture(t)
	f.reg.pushFn = func(context.Context, []byte) error { return errors.New("no terminal") }
	f.logger.EXPECT().Error(gomock.Any())

	resp, _ := f.do(t, http.MethodPost, gateway.PathPrefix+"push", nil, nil)
	assert.Equal(t, http.StatusInternalServerError, resp.StatusCode)
}

func TestGateway_NotificationClick(t *testing.T) {
	f := newFixture(t)
	var got domain.NotificationClick
	f.reg.clickFn = func(_ context.Context, click domain.NotificationClick) error {
		got = click
		return nil
	}

	resp, _ := f.do(t, http.MethodPost, gateway.PathPrefix+"notificationclick?tag=push-1&action=explore", nil, nil)
	assert.Equal(t, http.StatusNoContent, resp.StatusCode)
	assert.Equal(t, domain.NotificationClick{Tag: "push-1", Action: domain.ActionExplore}, got)
}
