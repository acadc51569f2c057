package handler

import (
	"context"
	"encoding/json"
	"net/http"

	"go.uber.org/zap"

	"github.com/zenGate-Global/rastro-saas/domains/branding/be/service"
)

// PlatformBranding is the subset of service.Composer used by the handler.
type PlatformBranding interface {
	LoadPlatform(ctx context.Context) service.Config
}

// Handler serves platform branding.
type Handler struct {
	composer PlatformBranding
	logger   *zap.Logger
}

// New constructs a Handler instance.
func New(composer PlatformBranding, logger *zap.Logger) *Handler {
	if composer == nil {
		panic("branding composer is required")
	}
	if logger == nil {
		panic("logger is required")
	}
	return &Handler{composer: composer, logger: logger}
}

// PlatformBrandingGet implements GET /platform/branding. It always answers 200.
func (h *Handler) PlatformBrandingGet(w http.ResponseWriter, r *http.Request) {
	cfg := h.composer.LoadPlatform(r.Context())
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	if err := json.NewEncoder(w).Encode(cfg); err != nil {
		h.logger.Debug("write platform branding", zap.Error(err))
	}
}
