package domain_test

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"go.trai.ch/offline/internal/core/domain"
)

func TestRequest_CacheKey(t *testing.T) {
	req := domain.NewRequest(mustURL(t, "http://game.test/juego/Impostor.html?round=2#lobby"))
	assert.Equal(t, "GET http://game.test/juego/Impostor.html?round=2", req.CacheKey())

	req.Method = "head"
	assert.Equal(t, "HEAD http://game.test/juego/Impostor.html?round=2", req.CacheKey())

	assert.Equal(t, "GET ", domain.CacheKey("", nil))
}

func TestParseCacheKey(t *testing.T) {
	method, rawURL := domain.ParseCacheKey("GET http://game.test/")
	assert.Equal(t, http.MethodGet, method)
	assert.Equal(t, "http://game.test/", rawURL)

	method, rawURL = domain.ParseCacheKey("http://game.test/")
	assert.Equal(t, http.MethodGet, method)
	assert.Equal(t, "http://game.test/", rawURL)
}

func TestDestinationFromHeader(t *testing.T) {
	tests := []struct {
		name     string
		header   map[string]string
		wantDest domain.Destination
		wantMode domain.RequestMode
	}{
		{"fetch metadata document", map[string]string{"Sec-Fetch-Dest": "document", "Sec-Fetch-Mode": "navigate"}, domain.DestinationDocument, domain.ModeNavigate},
		{"iframe", map[string]string{"Sec-Fetch-Dest": "iframe"}, domain.DestinationDocument, domain.ModeNavigate},
		{"script", map[string]string{"Sec-Fetch-Dest": "script", "Sec-Fetch-Mode": "no-cors"}, domain.DestinationScript, domain.ModeNoCORS},
		{"image", map[string]string{"Sec-Fetch-Dest": "image", "Sec-Fetch-Mode": "no-cors"}, domain.DestinationImage, domain.ModeNoCORS},
		{"manifest", map[string]string{"Sec-Fetch-Dest": "manifest", "Sec-Fetch-Mode": "cors"}, domain.DestinationManifest, domain.ModeCORS},
		{"fetch api", map[string]string{"Sec-Fetch-Dest": "empty", "Sec-Fetch-Mode": "cors", "Accept": "text/html"}, domain.DestinationEmpty, domain.ModeCORS},
		{"mode only", map[string]string{"Sec-Fetch-Mode": "navigate"}, domain.DestinationDocument, domain.ModeNavigate},
		{"accept fallback", map[string]string{"Accept": "text/html,application/xhtml+xml"}, domain.DestinationDocument, domain.ModeNavigate},
		{"nothing", map[string]string{"Accept": "*/*"}, domain.DestinationEmpty, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := make(http.Header)
			for k, v := range tt.header {
				h.Set(k, v)
			}
			dest, mode := domain.DestinationFromHeader(h)
			assert.Equal(t, tt.wantDest, dest)
			assert.Equal(t, tt.wantMode, mode)
		})
	}
}

func TestResponse_Predicates(t *testing.T) {
	var nilResp *domain.Response
	assert.False(t, nilResp.OK())
	assert.False(t, nilResp.Cacheable())
	assert.Nil(t, nilResp.Clone())

	assert.True(t, (&domain.Response{Status: 204}).OK())
	assert.False(t, (&domain.Response{Status: 304}).OK())

	assert.True(t, (&domain.Response{Status: 200, Type: domain.ResponseBasic}).Cacheable())
	assert.False(t, (&domain.Response{Status: 200, Type: domain.ResponseCORS}).Cacheable())
	assert.False(t, (&domain.Response{Status: 206, Type: domain.ResponseBasic}).Cacheable())
}

func TestResponse_CloneIsDeep(t *testing.T) {
	orig := &domain.Response{
		Status: 200,
		Header: http.Header{"Content-Type": []string{"text/html"}},
		Body:   []byte("<h1>Impostor</h1>"),
		URL:    mustURL(t, "http://game.test/"),
	}

	c := orig.Clone()
	c.Header.Set("Content-Type", "text/plain")
	c.Body[0] = 'X'
	c.URL.Path = "/juego"

	assert.Equal(t, "text/html", orig.Header.Get("Content-Type"))
	assert.Equal(t, "<h1>Impostor</h1>", string(orig.Body))
	assert.Equal(t, "/", orig.URL.Path)
	assert.NotNil(t, (&domain.Response{}).Clone().Header)
}
