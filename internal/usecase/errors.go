package usecase

import (
	"errors"

	"salon-booking/internal/reservation"
)

var (
	ErrInvalidInput        = errors.New("invalid input")
	ErrSlotTaken           = errors.New("slot taken")
	ErrTenantUnavailable   = errors.New("tenant unavailable")
	ErrTenantNotFound      = errors.New("tenant not found")
	ErrBookingNotFound     = errors.New("booking not found")
	ErrUnauthorized        = errors.New("unauthorized")
	ErrDuplicateSubmission = errors.New("duplicate submission")
	ErrInvalidTransition   = reservation.ErrInvalidTransition
	ErrStorageUnavailable  = errors.New("storage unavailable")
)
