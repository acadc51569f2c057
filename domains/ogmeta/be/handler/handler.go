package handler

import (
	"context"
	"errors"
	"net/http"
	"path"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/zenGate-Global/rastro-saas/domains/ogmeta/be/service"
	platformlogging "github.com/zenGate-Global/rastro-saas/platform/go/logging"
	"github.com/zenGate-Global/rastro-saas/platform/go/staticfs"
)

const indexFile = "index.html"

var contentTypes = map[string]string{
	".html":        "text/html; charset=utf-8",
	".htm":         "text/html; charset=utf-8",
	".js":          "application/javascript",
	".mjs":         "application/javascript",
	".css":         "text/css",
	".json":        "application/json",
	".map":         "application/json",
	".webmanifest": "application/manifest+json",
	".xml":         "application/xml",
	".txt":         "text/plain; charset=utf-8",
	".png":         "image/png",
	".jpg":         "image/jpeg",
	".jpeg":        "image/jpeg",
	".gif":         "image/gif",
	".svg":         "image/svg+xml",
	".ico":         "image/x-icon",
	".webp":        "image/webp",
	".woff":        "font/woff",
	".woff2":       "font/woff2",
	".ttf":         "font/ttf",
}

// ContentType maps a file name to its response content type.
func ContentType(name string) string {
	if ct, ok := contentTypes[strings.ToLower(path.Ext(name))]; ok {
		return ct
	}
	return "application/octet-stream"
}

// Config tunes the handler.
type Config struct {
	Defaults     service.Defaults
	FetchTimeout time.Duration
}

// Handler serves the web bundle and rewrites the page head for crawlers.
type Handler struct {
	files   staticfs.FS
	fetcher service.Fetcher
	cfg     Config
	logger  *zap.Logger
}

// New constructs a Handler. fetcher may be nil, in which case crawlers get defaults.
func New(files staticfs.FS, fetcher service.Fetcher, cfg Config, logger *zap.Logger) *Handler {
	if files == nil {
		panic("static files are required")
	}
	if logger == nil {
		panic("logger is required")
	}
	return &Handler{files: files, fetcher: fetcher, cfg: cfg, logger: logger}
}

// ServeHTTP implements http.Handler.
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if service.IsCrawler(r.UserAgent()) {
		if slug, ok := service.SlugFromPath(r.URL.Path); ok {
			h.serveCrawler(w, r, slug)
			return
		}
	}
	h.serveStatic(w, r)
}

func (h *Handler) serveCrawler(w http.ResponseWriter, r *http.Request, slug string) {
	logger := platformlogging.FromRequest(r, h.logger).With(zap.String("tenant_slug", slug))
	meta := h.fetchMeta(r.Context(), logger, slug)

	page, err := h.files.ReadFile(r.Context(), indexFile)
	if err != nil {
		h.fail(w, logger, err)
		return
	}

	resolved := service.Resolve(meta, h.cfg.Defaults, service.Origin(r))
	body := service.InjectMeta(string(page), resolved)

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte(body))
}

func (h *Handler) fetchMeta(ctx context.Context, logger *zap.Logger, slug string) service.TenantMeta {
	if h.fetcher == nil {
		return service.TenantMeta{}
	}
	if h.cfg.FetchTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, h.cfg.FetchTimeout)
		defer cancel()
	}

	meta, err := h.fetcher.FetchOGMeta(ctx, slug)
	switch {
	case err == nil:
		return meta
	case errors.Is(err, service.ErrNotFound):
		logger.Debug("no og metadata for slug")
	default:
		logger.Warn("og metadata unavailable; using defaults", zap.Error(err))
	}
	return service.TenantMeta{}
}

func (h *Handler) serveStatic(w http.ResponseWriter, r *http.Request) {
	logger := platformlogging.FromRequest(r, h.logger)
	name := staticfs.CleanName(r.URL.Path)

	data, err := h.files.ReadFile(r.Context(), name)
	if errors.Is(err, staticfs.ErrNotFound) || errors.Is(err, staticfs.ErrIsDirectory) {
		name = indexFile
		data, err = h.files.ReadFile(r.Context(), name)
	}
	if err != nil {
		h.fail(w, logger, err)
		return
	}

	w.Header().Set("Content-Type", ContentType(name))
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(data)
}

func (h *Handler) fail(w http.ResponseWriter, logger *zap.Logger, err error) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	if errors.Is(err, staticfs.ErrNotFound) || errors.Is(err, staticfs.ErrIsDirectory) {
		w.WriteHeader(http.StatusNotFound)
		_, _ = w.Write([]byte("Not found"))
		return
	}
	logger.Error("static read failed", zap.Error(err))
	w.WriteHeader(http.StatusInternalServerError)
	_, _ = w.Write([]byte("Internal server error"))
}
