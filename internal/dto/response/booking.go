package response

import (
	"sort"
	"time"

	"salon-booking/internal/data/entity"
	"salon-booking/internal/reservation"

	"github.com/shopspring/decimal"
)

type ServicePrice struct {
	Name  string `json:"name"`
	Price string `json:"price"`
}

type DepositResponse struct {
	Enabled bool   `json:"enabled"`
	Amount  string `json:"amount"`
}

type TenantProfileResponse struct {
	ID            string          `json:"id"`
	Name          string          `json:"name"`
	ContactHandle string          `json:"contact_handle"`
	Services      []ServicePrice  `json:"services"`
	Deposit       DepositResponse `json:"deposit"`
	CanOperate    bool            `json:"can_operate"`
}

type AvailabilityResponse struct {
	TenantID string                  `json:"tenant_id"`
	Date     string                  `json:"date"`
	Weekday  int                     `json:"weekday"`
	Slots    []reservation.SlotState `json:"slots"`
}

type ReservationResponse struct {
	BookingID    string             `json:"booking_id"`
	Status       reservation.Status `json:"status"`
	CustomerName string             `json:"customer_name"`
	Date         string             `json:"date"`
	Slot         string             `json:"slot"`
	Services     string             `json:"services"`
	Total        string             `json:"total"`
	Deposit      string             `json:"deposit"`
	CreatedAt    time.Time          `json:"created_at"`
}

type AdminBookingResponse struct {
	ID           string             `json:"id"`
	CustomerName string             `json:"customer_name"`
	Date         string             `json:"date"`
	Slot         string             `json:"slot"`
	Services     string             `json:"services"`
	Price        string             `json:"price"`
	Deposit      string             `json:"deposit"`
	Status       reservation.Status `json:"status"`
	StatusLabel  string             `json:"status_label"`
	CreatedAt    *time.Time         `json:"created_at"`
}

type BookingSummary struct {
	Count         int    `json:"count"`
	ServicesTotal string `json:"services_total"`
	DepositsTotal string `json:"deposits_total"`
}

type BookingListResponse struct {
	PaginatedResponse[AdminBookingResponse]
	Summary   BookingSummary `json:"summary"`
	Completed int64          `json:"completed"`
}

// Money renders an amount with two decimal places.
func Money(d decimal.Decimal) string {
	return d.StringFixed(2)
}

func TenantToProfile(t *entity.Tenant, today time.Time) TenantProfileResponse {
	names := make([]string, 0, len(t.Services))
	for name := range t.Services {
		names = append(names, name)
	}
	sort.Strings(names)

	services := make([]ServicePrice, len(names))
	for i, name := range names {
		services[i] = ServicePrice{Name: name, Price: Money(t.Services[name])}
	}

	return TenantProfileResponse{
		ID:            t.ID.String(),
		Name:          t.Name,
		ContactHandle: t.ContactHandle,
		Services:      services,
		Deposit: DepositResponse{
			Enabled: t.Deposit.Enabled,
			Amount:  Money(t.Deposit.Deposit()),
		},
		CanOperate: t.CanOperate(today),
	}
}

func BookingToAdminResponse(b *entity.Booking, catalog reservation.Catalog) AdminBookingResponse {
	return AdminBookingResponse{
		ID:           b.ID.String(),
		CustomerName: b.CustomerName,
		Date:         reservation.FormatDate(b.Date),
		Slot:         b.Slot,
		Services:     b.Services,
		Price:        Money(catalog.TotalForText(b.Services)),
		Deposit:      Money(b.Deposit),
		Status:       b.Status,
		StatusLabel:  b.Status.Label(),
		CreatedAt:    b.CreatedAt,
	}
}
