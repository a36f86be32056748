package repository

import (
	"context"
	"errors"
	"os"
	"sync"
	"testing"
	"time"

	"salon-booking/internal/data/entity"
	"salon-booking/internal/reservation"
	"salon-booking/pkg/database"
	"salon-booking/pkg/utils"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

func TestReserveConcurrency(t *testing.T) {
	ctx := context.Background()
	repo := setupTestRepository(t, ctx)
	tenant := seedTenant(t, ctx, repo)

	date := time.Date(2031, time.March, 15, 0, 0, 0, 0, time.UTC)
	now := time.Now().UTC()
	policy := reservation.NewHoldPolicy(60)

	const attempts = 8
	var wg sync.WaitGroup
	results := make(chan error, attempts)
	for i := 0; i < attempts; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			results <- repo.Booking.Reserve(ctx, newBooking(tenant.ID, date, "10:30", now), policy, now)
		}()
	}
	wg.Wait()
	close(results)

	var ok, taken int
	for err := range results {
		switch {
		case err == nil:
			ok++
		case errors.Is(err, ErrSlotTaken):
			taken++
		default:
			t.Fatalf("unexpected reserve error: %v", err)
		}
	}
	if ok != 1 || taken != attempts-1 {
		t.Fatalf("expected 1 success and %d slot_taken, got %d and %d", attempts-1, ok, taken)
	}

	occupants, err := repo.Booking.ListOccupants(ctx, tenant.ID, date)
	if err != nil {
		t.Fatalf("list occupants: %v", err)
	}
	if len(occupants) != 1 {
		t.Fatalf("expected exactly one booking row, got %d", len(occupants))
	}
}

func TestReserveAfterCancelAndExpiry(t *testing.T) {
	ctx := context.Background()
	repo := setupTestRepository(t, ctx)
	tenant := seedTenant(t, ctx, repo)

	date := time.Date(2031, time.March, 15, 0, 0, 0, 0, time.UTC)
	now := time.Now().UTC()
	policy := reservation.NewHoldPolicy(60)

	first := newBooking(tenant.ID, date, "14:00", now)
	if err := repo.Booking.Reserve(ctx, first, policy, now); err != nil {
		t.Fatalf("reserve: %v", err)
	}
	if err := repo.Booking.UpdateStatus(ctx, tenant.ID, first.ID, reservation.StatusPending, reservation.StatusCanceled); err != nil {
		t.Fatalf("cancel: %v", err)
	}
	second := newBooking(tenant.ID, date, "14:00", now)
	if err := repo.Booking.Reserve(ctx, second, policy, now); err != nil {
		t.Fatalf("reserve after cancel: %v", err)
	}

	later := now.Add(61 * time.Minute)
	third := newBooking(tenant.ID, date, "14:00", later)
	if err := repo.Booking.Reserve(ctx, third, policy, later); err != nil {
		t.Fatalf("reserve after hold expiry: %v", err)
	}

	// the expired hold can no longer be confirmed while the newer hold is live
	if err := repo.Booking.MarkPaid(ctx, tenant.ID, second.ID, policy, later); !errors.Is(err, ErrSlotTaken) {
		t.Fatalf("mark paid on displaced hold: got %v, want ErrSlotTaken", err)
	}
	if err := repo.Booking.MarkPaid(ctx, tenant.ID, third.ID, policy, later); err != nil {
		t.Fatalf("mark paid: %v", err)
	}
	if err := repo.Booking.MarkPaid(ctx, tenant.ID, third.ID, policy, later); !errors.Is(err, ErrStatusConflict) {
		t.Fatalf("second mark paid: got %v, want ErrStatusConflict", err)
	}
}

func TestCrossTenantIsolation(t *testing.T) {
	ctx := context.Background()
	repo := setupTestRepository(t, ctx)
	tenantA := seedTenant(t, ctx, repo)
	tenantB := seedTenant(t, ctx, repo)

	date := time.Date(2031, time.March, 15, 0, 0, 0, 0, time.UTC)
	now := time.Now().UTC()
	booking := newBooking(tenantB.ID, date, "18:00", now)
	if err := repo.Booking.Reserve(ctx, booking, reservation.NewHoldPolicy(60), now); err != nil {
		t.Fatalf("reserve: %v", err)
	}

	found, err := repo.Booking.FindByID(ctx, tenantA.ID, booking.ID)
	if err != nil {
		t.Fatalf("find: %v", err)
	}
	if found != nil {
		t.Fatal("tenant A can read tenant B's booking")
	}
	if err := repo.Booking.UpdateStatus(ctx, tenantA.ID, booking.ID, reservation.StatusPending, reservation.StatusCanceled); !errors.Is(err, ErrNotFound) {
		t.Fatalf("cross tenant update: got %v, want ErrNotFound", err)
	}
	if err := repo.Booking.Delete(ctx, tenantA.ID, booking.ID); !errors.Is(err, ErrNotFound) {
		t.Fatalf("cross tenant delete: got %v, want ErrNotFound", err)
	}

	still, err := repo.Booking.FindByID(ctx, tenantB.ID, booking.ID)
	if err != nil || still == nil {
		t.Fatalf("booking should be intact: %v", err)
	}
	if still.Status != reservation.StatusPending {
		t.Fatalf("booking status changed to %s", still.Status)
	}
}

func setupTestRepository(t *testing.T, ctx context.Context) *Repository {
	t.Helper()

	dsn := os.Getenv("TEST_DATABASE_URL")
	if dsn == "" {
		t.Skip("TEST_DATABASE_URL not set")
	}

	db, err := database.Open(ctx, dsn, 20)
	if err != nil {
		t.Fatalf("open database: %v", err)
	}
	t.Cleanup(db.Close)

	if err := database.Migrate(ctx, db, zap.NewNop()); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	return NewRepository(db, zap.NewNop())
}

func seedTenant(t *testing.T, ctx context.Context, repo *Repository) *entity.Tenant {
	t.Helper()

	now := time.Now().UTC()
	hash, err := utils.HashPassword("studio-owner")
	if err != nil {
		t.Fatalf("hash password: %v", err)
	}
	user := &entity.User{
		Base:         entity.Base{ID: uuid.New(), CreatedAt: now, UpdatedAt: now},
		Email:        uuid.NewString() + "@example.com",
		PasswordHash: hash,
		IsActive:     true,
	}
	if err := repo.User.Create(ctx, user); err != nil {
		t.Fatalf("seed user: %v", err)
	}

	paidUntil := now.AddDate(1, 0, 0)
	tenant := &entity.Tenant{
		Base:        entity.Base{ID: uuid.New(), CreatedAt: now, UpdatedAt: now},
		OwnerUserID: user.ID,
		Name:        "Studio",
		Deposit:     reservation.DepositPolicy{Enabled: true, Amount: decimal.RequireFromString("20.00")},
		WorkingHours: reservation.WorkingHours{
			time.Saturday: {"10:30", "14:00", "18:00"},
		},
		Services:      reservation.Catalog{"Pedicure": decimal.RequireFromString("50")},
		IsActive:      true,
		BillingStatus: entity.BillingActive,
		PaidUntil:     &paidUntil,
	}
	if err := repo.Tenant.Create(ctx, tenant); err != nil {
		t.Fatalf("seed tenant: %v", err)
	}
	return tenant
}

func newBooking(tenantID uuid.UUID, date time.Time, slot string, now time.Time) *entity.Booking {
	return &entity.Booking{
		ID:           uuid.New(),
		TenantID:     tenantID,
		CustomerName: "Ana",
		Date:         date,
		Slot:         slot,
		Services:     "Pedicure",
		Deposit:      decimal.RequireFromString("20.00"),
		Status:       reservation.StatusPending,
		CreatedAt:    &now,
		UpdatedAt:    now,
	}
}
