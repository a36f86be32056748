package wire

import (
	"salon-booking/internal/adaptor"
	"salon-booking/internal/data/repository"
	"salon-booking/pkg/middleware"
	"salon-booking/pkg/utils"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

func wireAdminBooking(
	r chi.Router,
	adminHandler *adaptor.AdminBookingHandler,
	repo *repository.Repository,
	config *utils.Config,
	log *zap.Logger,
) {
	// ==================== ADMIN ROUTES ====================
	// Every route acts on the tenant owned by the session's account.
	r.Route("/api/admin/bookings", func(r chi.Router) {
		r.Use(middleware.AuthSession(repo.Session, log))
		r.Use(middleware.TenantOwner(repo.Tenant, log))

		// GET /api/admin/bookings - sweep, then list with totals
		r.Get("/", adminHandler.ListBookings)

		// PUT /api/admin/bookings/{id}/paid - confirm deposit received
		r.Put("/{id}/paid", adminHandler.MarkPaid)

		// PUT /api/admin/bookings/{id}/cancel - free the slot
		r.Put("/{id}/cancel", adminHandler.Cancel)

		// DELETE /api/admin/bookings/{id} - remove from history
		r.Delete("/{id}", adminHandler.Delete)
	})
}
