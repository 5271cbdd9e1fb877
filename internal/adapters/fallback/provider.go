// Package fallback provides the offline document served to navigations when
// both the cache and the network fail.
package fallback

import (
	"bytes"
	"context"
	_ "embed"
	"net/http"
	"net/url"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/gomarkdown/markdown"
	mdhtml "github.com/gomarkdown/markdown/html"
	"github.com/gomarkdown/markdown/parser"
	"go.trai.ch/offline/internal/core/domain"
	"go.trai.ch/offline/internal/core/ports"
	"go.trai.ch/zerr"
	"golang.org/x/text/language"
)

var _ ports.FallbackProvider = (*Provider)(nil)

//go:embed default.html
var defaultPage []byte

// DefaultLanguage is the language of the embedded page.
var DefaultLanguage = language.Spanish

// ContentType is the content type of every offline document.
const ContentType = "text/html; charset=utf-8"

type page struct {
	tag  language.Tag
	body []byte
}

// Provider serves the offline document, picking a localized variant from
// the request's Accept-Language.
type Provider struct {
	pages   []page
	matcher language.Matcher
}

// New returns a provider serving only the embedded page.
func New() *Provider {
	return newProvider([]page{{tag: DefaultLanguage, body: defaultPage}})
}

// Load builds a provider from configuration. An empty path keeps the
// embedded page as the default document.
func Load(cfg domain.FallbackConfig) (*Provider, error) {
	pages := []page{{tag: DefaultLanguage, body: defaultPage}}

	if cfg.Path != "" {
		body, err := loadPage(cfg.Path)
		if err != nil {
			return nil, err
		}
		pages[0] = page{tag: language.Und, body: body}
	}

	tags := make([]string, 0, len(cfg.Locales))
	for tag := range cfg.Locales {
		tags = append(tags, tag)
	}
	sort.Strings(tags)

	for _, raw := range tags {
		tag, err := language.Parse(raw)
		if err != nil {
			return nil, zerr.With(zerr.Wrap(err, domain.ErrFallbackUnavailable.Error()), "locale", raw)
		}
		body, err := loadPage(cfg.Locales[raw])
		if err != nil {
			return nil, zerr.With(err, "locale", raw)
		}
		pages = append(pages, page{tag: tag, body: body})
	}

	return newProvider(pages), nil
}

func newProvider(pages []page) *Provider {
	tags := make([]language.Tag, len(pages))
	for i, p := range pages {
		tags[i] = p.tag
	}
	return &Provider{pages: pages, matcher: language.NewMatcher(tags)}
}

// Document returns the offline page for req.
func (p *Provider) Document(_ context.Context, req *domain.Request) (*domain.Response, error) {
	body := p.pick(req)
	if len(body) == 0 {
		return nil, domain.ErrFallbackUnavailable
	}

	var u *url.URL
	if req != nil && req.URL != nil {
		clone := *req.URL
		u = &clone
	}

	return &domain.Response{
		Status:     http.StatusOK,
		StatusText: http.StatusText(http.StatusOK),
		Header: http.Header{
			"Content-Type":  []string{ContentType},
			"Cache-Control": []string{"no-store"},
		},
		Body: bytes.Clone(body),
		Type: domain.ResponseBasic,
		URL:  u,
	}, nil
}

func (p *Provider) pick(req *domain.Request) []byte {
	if len(p.pages) == 1 || req == nil || req.Header == nil {
		return p.pages[0].body
	}
	accept := req.Header.Get("Accept-Language")
	if accept == "" {
		return p.pages[0].body
	}
	prefs, _, err := language.ParseAcceptLanguage(accept)
	if err != nil || len(prefs) == 0 {
		return p.pages[0].body
	}
	_, idx, conf := p.matcher.Match(prefs...)
	if conf == language.No {
		return p.pages[0].body
	}
	return p.pages[idx].body
}

func loadPage(path string) ([]byte, error) {
	// #nosec G304 -- path comes from the gateway configuration
	src, err := os.ReadFile(path)
	if err != nil {
		return nil, zerr.With(zerr.Wrap(err, domain.ErrFallbackUnavailable.Error()), "path", path)
	}

	body, err := Render(path, src)
	if err != nil {
		return nil, zerr.With(err, "path", path)
	}
	if err := CheckSelfContained(body); err != nil {
		return nil, zerr.With(err, "path", path)
	}
	return body, nil
}

// Render turns a page source into HTML. Markdown sources (.md) are rendered
// into a complete document; anything else is used verbatim.
func Render(path string, src []byte) ([]byte, error) {
	ext := strings.ToLower(filepath.Ext(path))
	if ext != ".md" && ext != ".markdown" {
		return src, nil
	}

	p := parser.NewWithExtensions(parser.CommonExtensions)
	r := mdhtml.NewRenderer(mdhtml.RendererOptions{
		Flags: mdhtml.CommonFlags | mdhtml.CompletePage,
		Title: markdownTitle(src),
	})
	return markdown.ToHTML(src, p, r), nil
}

// markdownTitle returns the text of the first level one heading.
func markdownTitle(src []byte) string {
	for line := range strings.Lines(string(src)) {
		if title, ok := strings.CutPrefix(strings.TrimSpace(line), "# "); ok {
			return strings.TrimSpace(title)
		}
	}
	return ""
}

// resourceSelector matches elements that make the browser load something.
const resourceSelector = "script[src], img[src], iframe[src], source[src], video[src], audio[src], " +
	"embed[src], track[src], input[src], object[data], link[href], img[srcset], source[srcset]"

// CheckSelfContained reports an error when the page loads anything from
// another origin. Same-origin paths and data: URIs are allowed.
func CheckSelfContained(body []byte) error {
	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(body))
	if err != nil {
		return zerr.Wrap(err, domain.ErrFallbackUnavailable.Error())
	}

	var external []string
	doc.Find(resourceSelector).Each(func(_ int, s *goquery.Selection) {
		for _, attr := range []string{"src", "href", "data"} {
			if v, ok := s.Attr(attr); ok && isExternal(v) {
				external = append(external, v)
			}
		}
		if v, ok := s.Attr("srcset"); ok {
			for candidate := range strings.SplitSeq(v, ",") {
				fields := strings.Fields(candidate)
				if len(fields) > 0 && isExternal(fields[0]) {
					external = append(external, fields[0])
				}
			}
		}
	})
	doc.Find("style").Each(func(_ int, s *goquery.Selection) {
		css := strings.ToLower(s.Text())
		for _, marker := range []string{"url(http:", "url(https:", "url(//", "url('http", "url(\"http", "url('//", "url(\"//", "@import"} {
			if strings.Contains(css, marker) {
				external = append(external, marker)
			}
		}
	})

	if len(external) > 0 {
		return zerr.With(domain.ErrFallbackNotSelfContained, "references", strings.Join(external, ", "))
	}
	return nil
}

func isExternal(ref string) bool {
	ref = strings.TrimSpace(ref)
	if strings.HasPrefix(ref, "//") {
		return true
	}
	u, err := url.Parse(ref)
	if err != nil {
		return true
	}
	if !u.IsAbs() {
		return false
	}
	return u.Scheme != "data"
}
