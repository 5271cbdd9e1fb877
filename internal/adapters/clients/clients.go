// Package clients opens application windows for the worker.
package clients

import (
	"context"

	"github.com/pkg/browser"
	"go.trai.ch/offline/internal/core/ports"
	"go.trai.ch/zerr"
)

var _ ports.Clients = (*Clients)(nil)

// Clients opens windows in the system browser. With the browser disabled the
// URL is only logged.
type Clients struct {
	logger  ports.Logger
	browser bool
	open    func(url string) error
}

// New creates Clients using the system browser.
func New(logger ports.Logger) *Clients {
	return &Clients{logger: logger, browser: true, open: browser.OpenURL}
}

// WithBrowser enables or disables the system browser.
func (c *Clients) WithBrowser(enabled bool) *Clients {
	c.browser = enabled
	return c
}

// WithOpener replaces the function used to open a URL.
func (c *Clients) WithOpener(open func(url string) error) *Clients {
	c.open = open
	return c
}

// OpenWindow opens url.
func (c *Clients) OpenWindow(_ context.Context, url string) error {
	if !c.browser {
		c.logger.Info("open " + url)
		return nil
	}
	if err := c.open(url); err != nil {
		return zerr.With(zerr.Wrap(err, "failed to open window"), "url", url)
	}
	c.logger.Info("opened " + url)
	return nil
}
