package adaptor

import (
	"context"

	"salon-booking/internal/usecase"

	"go.uber.org/zap"
)

type Handler struct {
	Auth         *AuthHandler
	Reservation  *ReservationHandler
	AdminBooking *AdminBookingHandler
	Health       *HealthHandler
}

func NewHandler(service *usecase.Service, ready func(context.Context) error, log *zap.Logger) *Handler {
	return &Handler{
		Auth:         NewAuthHandler(service.Auth, log),
		Reservation:  NewReservationHandler(service.Reservation, log),
		AdminBooking: NewAdminBookingHandler(service.AdminBooking, log),
		Health:       NewHealthHandler(ready, log),
	}
}
