package adaptor

import (
	"net/http"

	"salon-booking/internal/dto/request"
	"salon-booking/internal/usecase"
	"salon-booking/pkg/utils"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

type AdminBookingHandler struct {
	service usecase.AdminBookingService
	log     *zap.Logger
}

func NewAdminBookingHandler(service usecase.AdminBookingService, log *zap.Logger) *AdminBookingHandler {
	return &AdminBookingHandler{
		service: service,
		log:     log.With(zap.String("handler", "admin_booking")),
	}
}

// ListBookings handles GET /api/admin/bookings
func (h *AdminBookingHandler) ListBookings(w http.ResponseWriter, r *http.Request) {
	tenantID, ok := utils.GetTenantIDFromContext(r.Context())
	if !ok {
		utils.ResponseUnauthorized(w, "Authentication required")
		return
	}

	query := r.URL.Query()
	req := &request.BookingListRequest{
		PaginatedRequest: request.PaginatedRequest{
			Page:    utils.ParseInt(query.Get("page"), 1),
			PerPage: utils.ParseInt(query.Get("per_page"), 20),
		},
		Period: query.Get("period"),
		Year:   utils.ParseInt(query.Get("year"), 0),
		Month:  utils.ParseInt(query.Get("month"), 0),
		Status: query.Get("status"),
	}

	if validationErrors := utils.ValidateStruct(req); len(validationErrors) > 0 {
		utils.ResponseBadRequest(w, "Validation failed", validationErrors)
		return
	}

	bookings, err := h.service.ListBookings(r.Context(), tenantID, req)
	if err != nil {
		handleServiceError(h.log, w, err, "list bookings")
		return
	}

	utils.ResponseSuccess(w, "success", bookings)
}

// MarkPaid handles PUT /api/admin/bookings/{id}/paid
func (h *AdminBookingHandler) MarkPaid(w http.ResponseWriter, r *http.Request) {
	tenantID, ok := utils.GetTenantIDFromContext(r.Context())
	if !ok {
		utils.ResponseUnauthorized(w, "Authentication required")
		return
	}

	if err := h.service.MarkPaid(r.Context(), tenantID, chi.URLParam(r, "id")); err != nil {
		handleServiceError(h.log, w, err, "mark paid")
		return
	}

	utils.ResponseSuccess(w, "Booking marked as paid", nil)
}

// Cancel handles PUT /api/admin/bookings/{id}/cancel
func (h *AdminBookingHandler) Cancel(w http.ResponseWriter, r *http.Request) {
	tenantID, ok := utils.GetTenantIDFromContext(r.Context())
	if !ok {
		utils.ResponseUnauthorized(w, "Authentication required")
		return
	}

	if err := h.service.Cancel(r.Context(), tenantID, chi.URLParam(r, "id")); err != nil {
		handleServiceError(h.log, w, err, "cancel booking")
		return
	}

	utils.ResponseSuccess(w, "Booking canceled", nil)
}

// Delete handles DELETE /api/admin/bookings/{id}
func (h *AdminBookingHandler) Delete(w http.ResponseWriter, r *http.Request) {
	tenantID, ok := utils.GetTenantIDFromContext(r.Context())
	if !ok {
		utils.ResponseUnauthorized(w, "Authentication required")
		return
	}

	if err := h.service.DeleteBooking(r.Context(), tenantID, chi.URLParam(r, "id")); err != nil {
		handleServiceError(h.log, w, err, "delete booking")
		return
	}

	utils.ResponseSuccess(w, "Booking deleted", nil)
}
