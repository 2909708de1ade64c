package client

import (
	"bytes"
	"io"
	"net/http"
	"path"
	"strconv"
	"strings"
	"time"

	"golang.org/x/exp/slog"

	"starbook/internal/domain/webcache"
)

// requestClass is the resource classification a request resolves to.
// Evaluated in priority order: auth beats api beats image beats static
// beats navigation.
type requestClass int

const (
	classAuth requestClass = iota
	classAPI
	classImage
	classStatic
	classPage
)

// publicAPIRoutes are the read endpoints whose responses may be cached
// into the api tier and which fall back to an empty-list placeholder
// while offline. Everything else under /api gets the generic offline
// error body.
var publicAPIRoutes = []string{
	"/api/celebrities",
	"/api/services",
	"/api/testimonials",
	"/api/availability",
}

var imageExtensions = map[string]bool{
	".png":  true,
	".jpg":  true,
	".jpeg": true,
	".gif":  true,
	".webp": true,
	".svg":  true,
	".ico":  true,
	".avif": true,
}

var staticExtensions = map[string]bool{
	".js":    true,
	".mjs":   true,
	".css":   true,
	".map":   true,
	".woff":  true,
	".woff2": true,
	".ttf":   true,
	".otf":   true,
}

// ProxyTransport intercepts every outbound request the application
// issues and applies a per-resource-type caching strategy, so the
// application always receives some response for resource types that
// support a synthesized fallback. It never changes request semantics,
// only response sourcing.
type ProxyTransport struct {
	base    http.RoundTripper
	storage Storage
	monitor *Monitor
	log     *slog.Logger
	now     func() time.Time
}

func NewProxyTransport(base http.RoundTripper, storage Storage, monitor *Monitor, log *slog.Logger) *ProxyTransport {
	if base == nil {
		base = http.DefaultTransport
	}
	return &ProxyTransport{
		base:    base,
		storage: storage,
		monitor: monitor,
		log:     log.With(slog.String("component", "proxy")),
		now:     time.Now,
	}
}

func (p *ProxyTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	switch classify(req) {
	case classAuth:
		// Auth responses must never be cached or synthesized.
		return p.base.RoundTrip(req)
	case classAPI:
		if isMutating(req.Method) {
			return p.passthroughWrite(req)
		}
		return p.networkFirstAPI(req)
	case classImage:
		return p.cacheFirstImage(req)
	case classStatic:
		return p.cacheFirstStatic(req)
	default:
		if isMutating(req.Method) {
			return p.passthroughWrite(req)
		}
		return p.networkFirstPage(req)
	}
}

func classify(req *http.Request) requestClass {
	reqPath := req.URL.Path

	if reqPath == "/api/auth" || strings.HasPrefix(reqPath, "/api/auth/") {
		return classAuth
	}
	if reqPath == "/api" || strings.HasPrefix(reqPath, "/api/") {
		return classAPI
	}

	ext := strings.ToLower(path.Ext(reqPath))
	if imageExtensions[ext] {
		return classImage
	}
	if staticExtensions[ext] {
		return classStatic
	}
	return classPage
}

func isMutating(method string) bool {
	switch method {
	case http.MethodPost, http.MethodPut, http.MethodPatch, http.MethodDelete:
		return true
	}
	return false
}

func isPublicAPIRoute(reqPath string) bool {
	for _, route := range publicAPIRoutes {
		if reqPath == route || strings.HasPrefix(reqPath, route+"/") {
			return true
		}
	}
	return false
}

// passthroughWrite forwards a mutating call untouched. A network
// failure here is the one error the proxy must not swallow: it is the
// signal that makes the caller enqueue the action for later replay.
func (p *ProxyTransport) passthroughWrite(req *http.Request) (*http.Response, error) {
	resp, err := p.attempt(req)
	if err != nil {
		p.log.Debug("write failed, propagating to caller",
			"method", req.Method,
			"path", req.URL.Path,
			"error", err,
		)
		return nil, err
	}
	return resp, nil
}

// networkFirstAPI: network, then cache, then synthesized placeholder.
func (p *ProxyTransport) networkFirstAPI(req *http.Request) (*http.Response, error) {
	resp, err := p.attempt(req)
	if err == nil {
		if req.Method == http.MethodGet && resp.StatusCode < 300 && isPublicAPIRoute(req.URL.Path) {
			p.cacheResponse(webcache.TierAPI, req, resp)
		}
		return resp, nil
	}

	if cached := p.fromCache(webcache.TierAPI, req); cached != nil {
		return cached, nil
	}

	if isPublicAPIRoute(req.URL.Path) {
		return synthesizeListResponse(req), nil
	}
	return synthesizeErrorResponse(req), nil
}

// cacheFirstImage: image tier, then network with capped admission, then
// a placeholder graphic. Never an error.
func (p *ProxyTransport) cacheFirstImage(req *http.Request) (*http.Response, error) {
	if cached := p.fromCache(webcache.TierImage, req); cached != nil {
		return cached, nil
	}

	resp, err := p.attempt(req)
	if err == nil {
		if resp.StatusCode < 300 {
			p.cacheResponse(webcache.TierImage, req, resp)
			p.enforceImageCap()
		}
		return resp, nil
	}

	return synthesizeImageResponse(req), nil
}

// cacheFirstStatic: static tier, write-through on miss. Build assets
// have no runtime fallback; a miss with no network is a build problem,
// not one the proxy papers over.
func (p *ProxyTransport) cacheFirstStatic(req *http.Request) (*http.Response, error) {
	if cached := p.fromCache(webcache.TierStatic, req); cached != nil {
		return cached, nil
	}

	resp, err := p.attempt(req)
	if err != nil {
		return nil, err
	}
	if resp.StatusCode < 300 {
		p.cacheResponse(webcache.TierStatic, req, resp)
	}
	return resp, nil
}

// networkFirstPage: network, then dynamic tier, then the offline page.
func (p *ProxyTransport) networkFirstPage(req *http.Request) (*http.Response, error) {
	resp, err := p.attempt(req)
	if err == nil {
		if req.Method == http.MethodGet && resp.StatusCode < 300 {
			p.cacheResponse(webcache.TierDynamic, req, resp)
		}
		return resp, nil
	}

	if cached := p.fromCache(webcache.TierDynamic, req); cached != nil {
		return cached, nil
	}

	return synthesizePageResponse(req), nil
}

// attempt runs the base transport and feeds the outcome to the
// connectivity monitor, which sees real traffic before any probe does.
func (p *ProxyTransport) attempt(req *http.Request) (*http.Response, error) {
	resp, err := p.base.RoundTrip(req)
	if p.monitor != nil {
		p.monitor.SetOnline(err == nil)
	}
	return resp, err
}

// cacheResponse stores a copy of the response body. Cache writes are
// advisory: a failure is logged and swallowed, the caller still gets
// the live response.
func (p *ProxyTransport) cacheResponse(tier webcache.Tier, req *http.Request, resp *http.Response) {
	body, err := drainBody(resp)
	if err != nil {
		p.log.Warn("failed to read response body for caching", "tier", tier, "error", err)
		return
	}

	entry := &webcache.Entry{
		Tier:        tier,
		Key:         webcache.CacheKey(req.Method, req.URL),
		Body:        body,
		ContentType: resp.Header.Get("Content-Type"),
		StatusCode:  resp.StatusCode,
		StoredAt:    p.now(),
	}

	if err := p.storage.PutCacheEntry(entry); err != nil {
		p.log.Warn("cache write failed",
			"tier", tier,
			"key", entry.Key,
			"error", err,
		)
	}
}

func (p *ProxyTransport) fromCache(tier webcache.Tier, req *http.Request) *http.Response {
	entry, err := p.storage.GetCacheEntry(tier, webcache.CacheKey(req.Method, req.URL))
	if err != nil {
		return nil
	}

	header := make(http.Header)
	if entry.ContentType != "" {
		header.Set("Content-Type", entry.ContentType)
	}
	header.Set("Content-Length", strconv.Itoa(len(entry.Body)))
	header.Set("X-Served-From-Cache", "true")
	header.Set("X-Cache-Stored-At", entry.StoredAt.UTC().Format(time.RFC3339))

	status := entry.StatusCode
	if status == 0 {
		status = http.StatusOK
	}

	return &http.Response{
		Status:        http.StatusText(status),
		StatusCode:    status,
		Proto:         "HTTP/1.1",
		ProtoMajor:    1,
		ProtoMinor:    1,
		Header:        header,
		Body:          io.NopCloser(bytes.NewReader(entry.Body)),
		ContentLength: int64(len(entry.Body)),
		Request:       req,
	}
}

func (p *ProxyTransport) enforceImageCap() {
	evicted, err := p.storage.EvictOldest(webcache.TierImage, webcache.ImageTierCap)
	if err != nil {
		p.log.Warn("image tier eviction failed", "error", err)
		return
	}
	if evicted > 0 {
		p.log.Debug("evicted image cache entries", "count", evicted)
	}
}

// SweepDynamic removes dynamic-tier entries older than the page age
// policy and re-enforces the image cap. Best effort.
func (p *ProxyTransport) SweepDynamic() {
	cutoff := p.now().Add(-webcache.DynamicMaxAge)
	deleted, err := p.storage.DeleteCacheOlderThan(webcache.TierDynamic, cutoff)
	if err != nil {
		p.log.Warn("dynamic tier sweep failed", "error", err)
	} else if deleted > 0 {
		p.log.Debug("swept stale page cache entries", "count", deleted)
	}
	p.enforceImageCap()
}

// drainBody reads and restores a response body so it can both be cached
// and returned to the caller.
func drainBody(resp *http.Response) ([]byte, error) {
	if resp.Body == nil {
		return nil, nil
	}
	body, err := io.ReadAll(resp.Body)
	resp.Body.Close()
	if err != nil {
		return nil, err
	}
	resp.Body = io.NopCloser(bytes.NewReader(body))
	return body, nil
}
