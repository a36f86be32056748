package usecase

import (
	"salon-booking/internal/data/repository"
	"salon-booking/internal/reservation"
	"salon-booking/pkg/utils"

	"go.uber.org/zap"
)

type Service struct {
	Auth         AuthService
	Reservation  ReservationService
	AdminBooking AdminBookingService
}

func NewService(
	repo *repository.Repository,
	cal *reservation.Calendar,
	submissions reservation.SubmissionStore,
	config *utils.Config,
	log *zap.Logger,
) *Service {
	hold := reservation.NewHoldPolicy(config.Booking.HoldExpirationMinutes)

	return &Service{
		Auth:         NewAuthService(repo, config, log),
		Reservation:  NewReservationService(repo, cal, hold, reservation.NewGuard(submissions), log),
		AdminBooking: NewAdminBookingService(repo, cal, hold, log),
	}
}
