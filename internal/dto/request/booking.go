package request

import "github.com/shopspring/decimal"

type AvailabilityRequest struct {
	Date string `json:"date" validate:"required,datetime=2006-01-02"`
}

// ReservationRequest is a customer's booking submission. Deposit is optional; when
// present it must match the tenant's deposit policy.
type ReservationRequest struct {
	CustomerName string           `json:"customer_name" validate:"required,max=120"`
	Date         string           `json:"date" validate:"required,datetime=2006-01-02"`
	Slot         string           `json:"slot" validate:"required,datetime=15:04"`
	Services     []string         `json:"services" validate:"required,min=1,dive,max=120"`
	Deposit      *decimal.Decimal `json:"deposit,omitempty"`
}

type BookingListRequest struct {
	PaginatedRequest
	Period string `json:"period" validate:"omitempty,oneof=all month year"`
	Year   int    `json:"year" validate:"omitempty,min=2000,max=2100"`
	Month  int    `json:"month" validate:"omitempty,min=1,max=12"`
	Status string `json:"status" validate:"omitempty,oneof=pending paid completed canceled"`
}
