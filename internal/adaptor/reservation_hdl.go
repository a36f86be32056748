package adaptor

import (
	"encoding/json"
	"net/http"

	"salon-booking/internal/dto/request"
	"salon-booking/internal/usecase"
	"salon-booking/pkg/utils"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

// SessionHeader carries the customer's browser session id.
const SessionHeader = "X-Session-ID"

type ReservationHandler struct {
	service usecase.ReservationService
	log     *zap.Logger
}

func NewReservationHandler(service usecase.ReservationService, log *zap.Logger) *ReservationHandler {
	return &ReservationHandler{
		service: service,
		log:     log.With(zap.String("handler", "reservation")),
	}
}

// GetTenant handles GET /api/public/tenants/{tenantID}
func (h *ReservationHandler) GetTenant(w http.ResponseWriter, r *http.Request) {
	profile, err := h.service.GetTenantProfile(r.Context(), chi.URLParam(r, "tenantID"))
	if err != nil {
		handleServiceError(h.log, w, err, "get tenant")
		return
	}

	utils.ResponseSuccess(w, "success", profile)
}

// GetAvailability handles GET /api/public/tenants/{tenantID}/availability?date=YYYY-MM-DD
func (h *ReservationHandler) GetAvailability(w http.ResponseWriter, r *http.Request) {
	req := &request.AvailabilityRequest{Date: r.URL.Query().Get("date")}

	if validationErrors := utils.ValidateStruct(req); len(validationErrors) > 0 {
		utils.ResponseBadRequest(w, "Validation failed", validationErrors)
		return
	}

	availability, err := h.service.GetAvailability(r.Context(), chi.URLParam(r, "tenantID"), req)
	if err != nil {
		handleServiceError(h.log, w, err, "get availability")
		return
	}

	utils.ResponseSuccess(w, "success", availability)
}

// Reserve handles POST /api/public/tenants/{tenantID}/reservations
func (h *ReservationHandler) Reserve(w http.ResponseWriter, r *http.Request) {
	var req request.ReservationRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.ResponseBadRequest(w, "Invalid request body", nil)
		return
	}

	if validationErrors := utils.ValidateStruct(req); len(validationErrors) > 0 {
		utils.ResponseBadRequest(w, "Validation failed", validationErrors)
		return
	}

	booking, err := h.service.Reserve(r.Context(), chi.URLParam(r, "tenantID"), r.Header.Get(SessionHeader), &req)
	if err != nil {
		handleServiceError(h.log, w, err, "reserve")
		return
	}

	utils.ResponseCreated(w, "Reservation received, awaiting deposit confirmation", booking)
}
