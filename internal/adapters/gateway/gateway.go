// Package gateway serves the game through the controlling worker and
// forwards everything the worker declines to the upstream origin.
package gateway

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/http/httputil"
	"net/url"
	"strconv"

	"go.trai.ch/offline/internal/core/domain"
	"go.trai.ch/offline/internal/core/ports"
	"go.trai.ch/offline/internal/engine/host"
	"go.trai.ch/zerr"
)

const (
	// CacheHeader reports how the gateway answered a request.
	CacheHeader = "X-Offline-Cache"
	// CacheBypass marks responses the worker did not intercept.
	CacheBypass = "bypass"

	// PathPrefix is where the page to worker channel is mounted.
	PathPrefix = "/__offline/"

	maxPayloadBytes = 1 << 20
)

// hopHeaders are connection-specific and never copied from a stored response.
var hopHeaders = []string{
	"Connection",
	"Keep-Alive",
	"Proxy-Connection",
	"Transfer-Encoding",
	"Upgrade",
	"Trailer",
	"Te",
}

// Registration is the view of the worker registration the gateway needs.
type Registration interface {
	Controller() ports.Worker
	Message(ctx context.Context, msg domain.Message, port ports.MessagePort) error
	Push(ctx context.Context, payload []byte) error
	NotificationClick(ctx context.Context, click domain.NotificationClick) error
}

// Gateway is the http.Handler in front of the game.
type Gateway struct {
	reg    Registration
	scope  *url.URL
	proxy  *httputil.ReverseProxy
	logger ports.Logger
	tracer ports.Tracer
	mux    *http.ServeMux
}

// New creates a gateway serving scope and proxying to upstream.
func New(reg Registration, scope, upstream *url.URL, logger ports.Logger, tracer ports.Tracer) *Gateway {
	g := &Gateway{
		reg:    reg,
		scope:  scope,
		logger: logger,
		tracer: tracer,
		mux:    http.NewServeMux(),
	}

	g.proxy = &httputil.ReverseProxy{
		Rewrite: func(pr *httputil.ProxyRequest) {
			pr.SetURL(upstream)
			pr.SetXForwarded()
		},
		ModifyResponse: func(resp *http.Response) error {
			resp.Header.Set(CacheHeader, CacheBypass)
			return nil
		},
		ErrorHandler: func(w http.ResponseWriter, r *http.Request, err error) {
			g.logger.Warn(fmt.Sprintf("upstream unavailable for %s: %v", r.URL.Path, err))
			http.Error(w, http.StatusText(http.StatusBadGateway), http.StatusBadGateway)
		},
	}

	g.mux.HandleFunc("POST "+PathPrefix+"message", g.handleMessage)
	g.mux.HandleFunc("POST "+PathPrefix+"push", g.handlePush)
	g.mux.HandleFunc("POST "+PathPrefix+"notificationclick", g.handleNotificationClick)
	g.mux.HandleFunc("/", g.handleFetch)
	return g
}

// ServeHTTP implements http.Handler.
func (g *Gateway) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	g.mux.ServeHTTP(w, r)
}

func (g *Gateway) handleFetch(w http.ResponseWriter, r *http.Request) {
	worker := g.reg.Controller()
	if worker == nil {
		g.proxy.ServeHTTP(w, r)
		return
	}

	ctx, span := g.tracer.Start(r.Context(), "gateway.fetch")
	defer span.End()

	req := g.toRequest(r)
	span.SetAttribute("method", req.Method)
	span.SetAttribute("url", req.URL.String())

	result, err := worker.Fetch(ctx, req)
	if err != nil {
		span.RecordError(err)
		g.logger.Error(err)
		http.Error(w, http.StatusText(http.StatusBadGateway), http.StatusBadGateway)
		return
	}
	if result == nil {
		span.SetAttribute("source", CacheBypass)
		g.proxy.ServeHTTP(w, r)
		return
	}

	span.SetAttribute("source", string(result.Source))
	writeResponse(w, r, result)
}

// toRequest describes r as the page sees it: relative to the scope origin.
// Absolute-form requests keep their own origin.
func (g *Gateway) toRequest(r *http.Request) *domain.Request {
	u := r.URL
	if !u.IsAbs() {
		u = g.scope.ResolveReference(&url.URL{
			Path:     r.URL.Path,
			RawPath:  r.URL.RawPath,
			RawQuery: r.URL.RawQuery,
		})
	}

	dest, mode := domain.DestinationFromHeader(r.Header)
	return &domain.Request{
		Method:      r.Method,
		URL:         u,
		Destination: dest,
		Mode:        mode,
		Header:      r.Header.Clone(),
	}
}

func writeResponse(w http.ResponseWriter, r *http.Request, result *domain.FetchResult) {
	resp := result.Response
	h := w.Header()
	for k, vs := range resp.Header {
		h[k] = append([]string(nil), vs...)
	}
	for _, k := range hopHeaders {
		h.Del(k)
	}
	h.Set("Content-Length", strconv.Itoa(len(resp.Body)))
	h.Set(CacheHeader, string(result.Source))

	status := resp.Status
	if status == 0 {
		status = http.StatusOK
	}
	w.WriteHeader(status)
	if r.Method != http.MethodHead {
		_, _ = w.Write(resp.Body)
	}
}

func (g *Gateway) handleMessage(w http.ResponseWriter, r *http.Request) {
	payload, err := io.ReadAll(io.LimitReader(r.Body, maxPayloadBytes))
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	msg, err := domain.DecodeMessage(payload)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	reply := &host.Reply{}
	if err := g.reg.Message(r.Context(), msg, reply); err != nil {
		g.writeError(w, err)
		return
	}

	data, ok := reply.Data()
	if !ok {
		w.WriteHeader(http.StatusNoContent)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(data); err != nil {
		g.logger.Error(zerr.Wrap(err, "failed to write message reply"))
	}
}

func (g *Gateway) handlePush(w http.ResponseWriter, r *http.Request) {
	payload, err := io.ReadAll(io.LimitReader(r.Body, maxPayloadBytes))
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	if err := g.reg.Push(r.Context(), payload); err != nil {
		g.writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (g *Gateway) handleNotificationClick(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	click := domain.NotificationClick{Tag: q.Get("tag"), Action: q.Get("action")}
	if err := g.reg.NotificationClick(r.Context(), click); err != nil {
		g.writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (g *Gateway) writeError(w http.ResponseWriter, err error) {
	if errors.Is(err, domain.ErrNoActiveWorker) {
		http.Error(w, err.Error(), http.StatusServiceUnavailable)
		return
	}
	g.logger.Error(err)
	http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
}
