package entity

import (
	"time"

	"salon-booking/internal/reservation"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Booking is one reservation. CreatedAt is nil for rows whose creation instant was
// never recorded.
type Booking struct {
	ID           uuid.UUID          `db:"id"`
	TenantID     uuid.UUID          `db:"tenant_id"`
	CustomerName string             `db:"customer_name"`
	Date         time.Time          `db:"booking_date"`
	Slot         string             `db:"slot"`
	Services     string             `db:"services"`
	Deposit      decimal.Decimal    `db:"deposit"`
	Status       reservation.Status `db:"status"`
	CreatedAt    *time.Time         `db:"created_at"`
	UpdatedAt    time.Time          `db:"updated_at"`
}

// Occupant projects the booking onto the fields the occupancy rule reads.
func (b *Booking) Occupant() reservation.Occupant {
	o := reservation.Occupant{Slot: b.Slot, Status: b.Status}
	if b.CreatedAt != nil {
		o.CreatedAt = *b.CreatedAt
	}
	return o
}

// BookingFilter narrows the administrative listing. Zero values mean no filter.
type BookingFilter struct {
	From   *time.Time
	To     *time.Time
	Status *reservation.Status
}
