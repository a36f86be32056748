package adaptor

import (
	"context"
	"net/http"
	"time"

	"salon-booking/pkg/utils"

	"go.uber.org/zap"
)

type HealthHandler struct {
	ready func(context.Context) error
	log   *zap.Logger
}

func NewHealthHandler(ready func(context.Context) error, log *zap.Logger) *HealthHandler {
	return &HealthHandler{
		ready: ready,
		log:   log.With(zap.String("handler", "health")),
	}
}

// Live handles GET /health
func (h *HealthHandler) Live(w http.ResponseWriter, r *http.Request) {
	utils.ResponseSuccess(w, "OK", nil)
}

// Ready handles GET /readyz
func (h *HealthHandler) Ready(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
	defer cancel()

	if h.ready != nil {
		if err := h.ready(ctx); err != nil {
			h.log.Warn("Readiness check failed", zap.Error(err))
			utils.ResponseServiceUnavailable(w, "Not ready")
			return
		}
	}

	utils.ResponseSuccess(w, "Ready", nil)
}
