package usecase

import (
	"context"
	"errors"
	"sort"
	"sync"
	"time"

	"salon-booking/internal/data/entity"
	"salon-booking/internal/data/repository"
	"salon-booking/internal/reservation"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type fakeTenantRepo struct {
	tenants map[uuid.UUID]*entity.Tenant
	err     error
}

func (f *fakeTenantRepo) Create(_ context.Context, t *entity.Tenant) error {
	f.tenants[t.ID] = t
	return nil
}

func (f *fakeTenantRepo) FindByID(_ context.Context, id uuid.UUID) (*entity.Tenant, error) {
	if f.err != nil {
		return nil, f.err
	}
	return f.tenants[id], nil
}

func (f *fakeTenantRepo) FindByOwner(_ context.Context, userID uuid.UUID) (*entity.Tenant, error) {
	for _, t := range f.tenants {
		if t.OwnerUserID == userID {
			return t, nil
		}
	}
	return nil, nil
}

// fakeBookingRepo serializes writers with one mutex, standing in for the slot claim
// row lock.
type fakeBookingRepo struct {
	mu       sync.Mutex
	bookings map[uuid.UUID]*entity.Booking
	listErr  error
}

func newFakeBookingRepo() *fakeBookingRepo {
	return &fakeBookingRepo{bookings: make(map[uuid.UUID]*entity.Booking)}
}

func (f *fakeBookingRepo) Reserve(_ context.Context, b *entity.Booking, policy reservation.HoldPolicy, now time.Time) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	if policy.SlotOccupied(f.slotOccupantsLocked(b.TenantID, b.Date, b.Slot, uuid.Nil), b.Slot, now) {
		return repository.ErrSlotTaken
	}
	cp := *b
	f.bookings[b.ID] = &cp
	return nil
}

func (f *fakeBookingRepo) ListOccupants(_ context.Context, tenantID uuid.UUID, date time.Time) ([]reservation.Occupant, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.listErr != nil {
		return nil, f.listErr
	}
	var out []reservation.Occupant
	for _, b := range f.bookings {
		if b.TenantID == tenantID && b.Date.Equal(date) {
			out = append(out, b.Occupant())
		}
	}
	return out, nil
}

func (f *fakeBookingRepo) List(_ context.Context, tenantID uuid.UUID, filter entity.BookingFilter) ([]*entity.Booking, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.listErr != nil {
		return nil, f.listErr
	}
	var out []*entity.Booking
	for _, b := range f.bookings {
		if b.TenantID != tenantID {
			continue
		}
		if filter.From != nil && b.Date.Before(*filter.From) {
			continue
		}
		if filter.To != nil && b.Date.After(*filter.To) {
			continue
		}
		if filter.Status != nil && b.Status != *filter.Status {
			continue
		}
		cp := *b
		out = append(out, &cp)
	}
	sort.Slice(out, func(i, j int) bool {
		if !out[i].Date.Equal(out[j].Date) {
			return out[i].Date.Before(out[j].Date)
		}
		return out[i].Slot < out[j].Slot
	})
	return out, nil
}

func (f *fakeBookingRepo) FindByID(_ context.Context, tenantID, id uuid.UUID) (*entity.Booking, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	b, ok := f.bookings[id]
	if !ok || b.TenantID != tenantID {
		return nil, nil
	}
	cp := *b
	return &cp, nil
}

func (f *fakeBookingRepo) UpdateStatus(_ context.Context, tenantID, id uuid.UUID, from, to reservation.Status) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	b, ok := f.bookings[id]
	if !ok || b.TenantID != tenantID {
		return repository.ErrNotFound
	}
	if b.Status != from {
		return repository.ErrStatusConflict
	}
	b.Status = to
	return nil
}

func (f *fakeBookingRepo) MarkPaid(_ context.Context, tenantID, id uuid.UUID, policy reservation.HoldPolicy, now time.Time) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	b, ok := f.bookings[id]
	if !ok || b.TenantID != tenantID {
		return repository.ErrNotFound
	}
	if b.Status != reservation.StatusPending {
		return repository.ErrStatusConflict
	}
	if policy.SlotOccupied(f.slotOccupantsLocked(tenantID, b.Date, b.Slot, id), b.Slot, now) {
		return repository.ErrSlotTaken
	}
	b.Status = reservation.StatusPaid
	return nil
}

func (f *fakeBookingRepo) CompleteDue(_ context.Context, tenantID uuid.UUID, ids []uuid.UUID) (int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	var n int64
	for _, id := range ids {
		if b, ok := f.bookings[id]; ok && b.TenantID == tenantID && b.Status == reservation.StatusPaid {
			b.Status = reservation.StatusCompleted
			n++
		}
	}
	return n, nil
}

func (f *fakeBookingRepo) Delete(_ context.Context, tenantID, id uuid.UUID) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	b, ok := f.bookings[id]
	if !ok || b.TenantID != tenantID {
		return repository.ErrNotFound
	}
	delete(f.bookings, id)
	return nil
}

func (f *fakeBookingRepo) slotOccupantsLocked(tenantID uuid.UUID, date time.Time, slot string, exclude uuid.UUID) []reservation.Occupant {
	var out []reservation.Occupant
	for _, b := range f.bookings {
		if b.ID != exclude && b.TenantID == tenantID && b.Date.Equal(date) && b.Slot == slot {
			out = append(out, b.Occupant())
		}
	}
	return out
}

func (f *fakeBookingRepo) count() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.bookings)
}

func (f *fakeBookingRepo) status(id uuid.UUID) reservation.Status {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.bookings[id].Status
}

// seed stores a booking directly, bypassing occupancy checks.
func (f *fakeBookingRepo) seed(b *entity.Booking) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.bookings[b.ID] = b
}

var errStorageDown = errors.New("connection refused")

var brt = time.FixedZone("BRT", -3*60*60)

// Friday 2026-10-16 12:00 local.
var fridayNoon = time.Date(2026, time.October, 16, 15, 0, 0, 0, time.UTC)

var (
	friday   = time.Date(2026, time.October, 16, 0, 0, 0, 0, time.UTC)
	saturday = time.Date(2026, time.October, 17, 0, 0, 0, 0, time.UTC)
)

func newTestTenant() *entity.Tenant {
	paidUntil := time.Date(2027, time.January, 1, 0, 0, 0, 0, time.UTC)
	return &entity.Tenant{
		Base:        entity.Base{ID: uuid.New()},
		OwnerUserID: uuid.New(),
		Name:        "Studio Ana",
		Deposit:     reservation.DepositPolicy{Enabled: true, Amount: decimal.RequireFromString("20.00")},
		WorkingHours: reservation.WorkingHours{
			time.Friday:   {"09:00", "18:00"},
			time.Saturday: {"10:30", "14:00", "18:00"},
		},
		Services: reservation.Catalog{
			"Pedicure": decimal.RequireFromString("50"),
			"Manicure": decimal.RequireFromString("35"),
		},
		IsActive:      true,
		BillingStatus: entity.BillingActive,
		PaidUntil:     &paidUntil,
	}
}

type testEnv struct {
	tenant   *entity.Tenant
	tenants  *fakeTenantRepo
	bookings *fakeBookingRepo
	cal      *reservation.Calendar
	repo     *repository.Repository
}

func newTestEnv(now time.Time) *testEnv {
	tenant := newTestTenant()
	env := &testEnv{
		tenant:   tenant,
		tenants:  &fakeTenantRepo{tenants: map[uuid.UUID]*entity.Tenant{tenant.ID: tenant}},
		bookings: newFakeBookingRepo(),
		cal:      reservation.NewCalendar(reservation.FixedClock{At: now}, brt),
	}
	env.repo = &repository.Repository{Tenant: env.tenants, Booking: env.bookings}
	return env
}
