package wire

import (
	"salon-booking/internal/adaptor"
	"salon-booking/internal/data/repository"
	"salon-booking/pkg/middleware"
	"salon-booking/pkg/utils"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

func wireReservation(
	r chi.Router,
	reservationHandler *adaptor.ReservationHandler,
	repo *repository.Repository,
	config *utils.Config,
	log *zap.Logger,
) {
	limiter := middleware.NewRateLimiter(config.RateLimit.RPS, config.RateLimit.Burst)

	// ==================== PUBLIC ROUTES ====================
	r.Route("/api/public/tenants/{tenantID}", func(r chi.Router) {
		// GET /api/public/tenants/{tenantID} - business profile and price list
		r.Get("/", reservationHandler.GetTenant)

		// GET /api/public/tenants/{tenantID}/availability?date= - slot grid for a date
		r.Get("/availability", reservationHandler.GetAvailability)

		// POST /api/public/tenants/{tenantID}/reservations - hold a slot
		r.With(middleware.RateLimit(limiter, log)).Post("/reservations", reservationHandler.Reserve)
	})
}
