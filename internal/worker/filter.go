package worker

import (
	"net/http"
	"net/url"
	"strings"

	"go.trai.ch/offline/internal/core/domain"
)

// Filter decides which requests the worker intercepts.
type Filter struct {
	scope *url.URL
	hosts []string
	paths []string
}

// NewFilter builds a filter for requests under scope.
func NewFilter(scope *url.URL, exclude domain.ExcludeConfig) *Filter {
	f := &Filter{scope: scope}
	for _, h := range exclude.Hosts {
		if h = strings.ToLower(strings.TrimSpace(h)); h != "" {
			f.hosts = append(f.hosts, h)
		}
	}
	for _, p := range exclude.Paths {
		if p = strings.TrimSpace(p); p != "" {
			f.paths = append(f.paths, p)
		}
	}
	return f
}

// Intercepts reports whether req is handled by the worker. Everything else
// goes to the network untouched.
func (f *Filter) Intercepts(req *domain.Request) bool {
	if req == nil || req.URL == nil {
		return false
	}
	if req.Method != "" && req.Method != http.MethodGet {
		return false
	}
	if !domain.SameOrigin(f.scope, req.URL) {
		return false
	}

	host := strings.ToLower(req.URL.Hostname())
	for _, h := range f.hosts {
		if strings.Contains(host, h) {
			return false
		}
	}
	for _, p := range f.paths {
		if strings.Contains(req.URL.Path, p) {
			return false
		}
	}
	return true
}
