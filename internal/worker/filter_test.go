package worker_test

import (
	"net/http"
	"net/url"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.trai.ch/offline/internal/core/domain"
	"go.trai.ch/offline/internal/worker"
)

func TestFilter_Intercepts(t *testing.T) {
	exclude := domain.ExcludeConfig{
		Hosts: domain.DefaultExcludedHosts,
		Paths: domain.DefaultExcludedPaths,
	}

	tests := []struct {
		name   string
		scope  string
		method string
		url    string
		want   bool
	}{
		{name: "same origin get", scope: "http://game.test", method: http.MethodGet, url: "http://game.test/juego/Impostor.html", want: true},
		{name: "empty method means get", scope: "http://game.test", url: "http://game.test/", want: true},
		{name: "default port", scope: "https://game.test", method: http.MethodGet, url: "https://game.test:443/", want: true},
		{name: "head", scope: "http://game.test", method: http.MethodHead, url: "http://game.test/", want: false},
		{name: "post", scope: "http://game.test", method: http.MethodPost, url: "http://game.test/", want: false},
		{name: "other scheme", scope: "http://game.test", method: http.MethodGet, url: "https://game.test/", want: false},
		{name: "other port", scope: "http://game.test", method: http.MethodGet, url: "http://game.test:8081/", want: false},
		{name: "api path", scope: "http://game.test", method: http.MethodGet, url: "http://game.test/v2/api/rooms", want: false},
		{name: "analytics host", scope: "http://analytics.game.test", method: http.MethodGet, url: "http://analytics.game.test/", want: false},
		{name: "insights host", scope: "https://cdn.vercel-insights.com", method: http.MethodGet, url: "https://cdn.vercel-insights.com/v1/script.js", want: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			scope, err := url.Parse(tt.scope)
			require.NoError(t, err)
			u, err := url.Parse(tt.url)
			require.NoError(t, err)

			f := worker.NewFilter(scope, exclude)
			req := &domain.Request{Method: tt.method, URL: u}
			assert.Equal(t, tt.want, f.Intercepts(req))
		})
	}
}

func TestFilter_NilRequest(t *testing.T) {
	scope, err := url.Parse("http://game.test")
	require.NoError(t, err)
	assert.False(t, worker.NewFilter(scope, domain.ExcludeConfig{}).Intercepts(nil))
}
