package entity

import (
	"strings"
	"time"

	"salon-booking/internal/reservation"

	"github.com/google/uuid"
)

const (
	BillingActive   = "active"
	BillingTrial    = "trial"
	BillingPastDue  = "past_due"
	BillingCanceled = "canceled"
)

type Tenant struct {
	Base
	OwnerUserID   uuid.UUID                 `db:"owner_user_id"`
	Name          string                    `db:"name"`
	ContactHandle string                    `db:"contact_handle"`
	Deposit       reservation.DepositPolicy `db:"-"`
	WorkingHours  reservation.WorkingHours  `db:"working_hours"`
	Services      reservation.Catalog       `db:"services"`
	IsActive      bool                      `db:"is_active"`
	BillingStatus string                    `db:"billing_status"`
	PaidUntil     *time.Time                `db:"paid_until"`
}

// CanOperate is the billing gate consumed by the reservation flow. A tenant operates
// while active, in good billing standing and paid through today. An empty billing
// status counts as good standing.
func (t *Tenant) CanOperate(today time.Time) bool {
	if t == nil || !t.IsActive {
		return false
	}

	switch strings.ToLower(strings.TrimSpace(t.BillingStatus)) {
	case "", BillingActive, BillingTrial:
	default:
		return false
	}

	if t.PaidUntil == nil {
		return false
	}
	y, m, d := t.PaidUntil.Date()
	paidUntil := time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
	return !paidUntil.Before(today)
}
