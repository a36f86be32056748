package usecase

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"salon-booking/internal/data/entity"
	"salon-booking/internal/dto/request"
	"salon-booking/internal/reservation"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

func newReservationService(env *testEnv) ReservationService {
	store := reservation.NewMemorySubmissionStore(30*time.Minute, reservation.FixedClock{At: fridayNoon})
	return NewReservationService(
		env.repo,
		env.cal,
		reservation.NewHoldPolicy(60),
		reservation.NewGuard(store),
		zap.NewNop(),
	)
}

func depositOf(s string) *decimal.Decimal {
	d := decimal.RequireFromString(s)
	return &d
}

func occupiedSlots(states []reservation.SlotState) map[string]bool {
	out := make(map[string]bool, len(states))
	for _, st := range states {
		out[st.Slot] = st.Occupied
	}
	return out
}

func TestReserveThenSlotTaken(t *testing.T) {
	ctx := context.Background()
	env := newTestEnv(fridayNoon)
	svc := newReservationService(env)
	tenantID := env.tenant.ID.String()

	avail, err := svc.GetAvailability(ctx, tenantID, &request.AvailabilityRequest{Date: "2026-10-17"})
	if err != nil {
		t.Fatalf("GetAvailability: %v", err)
	}
	if len(avail.Slots) != 3 {
		t.Fatalf("got %d slots, want 3", len(avail.Slots))
	}
	for _, st := range avail.Slots {
		if st.Occupied {
			t.Errorf("slot %s occupied before any booking", st.Slot)
		}
	}

	resp, err := svc.Reserve(ctx, tenantID, "session-ana", &request.ReservationRequest{
		CustomerName: "Ana",
		Date:         "2026-10-17",
		Slot:         "10:30",
		Services:     []string{"Pedicure"},
		Deposit:      depositOf("20"),
	})
	if err != nil {
		t.Fatalf("Reserve: %v", err)
	}
	if resp.Status != reservation.StatusPending {
		t.Errorf("status = %s, want pending", resp.Status)
	}
	if resp.Deposit != "20.00" || resp.Total != "50.00" {
		t.Errorf("deposit/total = %s/%s, want 20.00/50.00", resp.Deposit, resp.Total)
	}
	if resp.Services != "Pedicure" {
		t.Errorf("services = %q", resp.Services)
	}

	avail, err = svc.GetAvailability(ctx, tenantID, &request.AvailabilityRequest{Date: "2026-10-17"})
	if err != nil {
		t.Fatalf("GetAvailability: %v", err)
	}
	got := occupiedSlots(avail.Slots)
	if !got["10:30"] || got["14:00"] || got["18:00"] {
		t.Errorf("occupancy after reserve = %v", got)
	}

	_, err = svc.Reserve(ctx, tenantID, "session-bia", &request.ReservationRequest{
		CustomerName: "Bia",
		Date:         "2026-10-17",
		Slot:         "10:30",
		Services:     []string{"Manicure"},
	})
	if !errors.Is(err, ErrSlotTaken) {
		t.Fatalf("second reserve err = %v, want ErrSlotTaken", err)
	}
	if n := env.bookings.count(); n != 1 {
		t.Errorf("stored %d bookings, want 1", n)
	}
}

func TestReserveConcurrentSameSlot(t *testing.T) {
	ctx := context.Background()
	env := newTestEnv(fridayNoon)
	svc := newReservationService(env)

	const workers = 12
	var (
		wg      sync.WaitGroup
		mu      sync.Mutex
		success int
		taken   int
	)
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, err := svc.Reserve(ctx, env.tenant.ID.String(), uuid.NewString(), &request.ReservationRequest{
				CustomerName: "Customer " + string(rune('A'+i)),
				Date:         "2026-10-17",
				Slot:         "14:00",
				Services:     []string{"Manicure"},
			})
			mu.Lock()
			defer mu.Unlock()
			switch {
			case err == nil:
				success++
			case errors.Is(err, ErrSlotTaken):
				taken++
			default:
				t.Errorf("unexpected error: %v", err)
			}
		}(i)
	}
	wg.Wait()

	if success != 1 || taken != workers-1 {
		t.Fatalf("success=%d taken=%d, want 1 and %d", success, taken, workers-1)
	}
}

func TestReserveDuplicateSubmission(t *testing.T) {
	ctx := context.Background()
	env := newTestEnv(fridayNoon)
	svc := newReservationService(env)
	tenantID := env.tenant.ID.String()

	req := &request.ReservationRequest{
		CustomerName: "Ana",
		Date:         "2026-10-17",
		Slot:         "10:30",
		Services:     []string{"Pedicure", "Manicure"},
	}
	if _, err := svc.Reserve(ctx, tenantID, "session-1", req); err != nil {
		t.Fatalf("first Reserve: %v", err)
	}

	resend := *req
	resend.CustomerName = "  ana "
	if _, err := svc.Reserve(ctx, tenantID, "session-1", &resend); !errors.Is(err, ErrDuplicateSubmission) {
		t.Fatalf("resend err = %v, want ErrDuplicateSubmission", err)
	}
	if n := env.bookings.count(); n != 1 {
		t.Fatalf("stored %d bookings, want 1", n)
	}

	other := *req
	other.Slot = "14:00"
	if _, err := svc.Reserve(ctx, tenantID, "session-1", &other); err != nil {
		t.Fatalf("different slot in same session: %v", err)
	}
}

func TestReserveRejectsInvalidInput(t *testing.T) {
	tests := []struct {
		name    string
		session string
		req     request.ReservationRequest
	}{
		{
			name:    "missing session",
			session: " ",
			req:     request.ReservationRequest{CustomerName: "Ana", Date: "2026-10-17", Slot: "10:30", Services: []string{"Pedicure"}},
		},
		{
			name:    "blank name",
			session: "s",
			req:     request.ReservationRequest{CustomerName: "   ", Date: "2026-10-17", Slot: "10:30", Services: []string{"Pedicure"}},
		},
		{
			name:    "past date",
			session: "s",
			req:     request.ReservationRequest{CustomerName: "Ana", Date: "2026-10-15", Slot: "10:30", Services: []string{"Pedicure"}},
		},
		{
			name:    "slot not offered",
			session: "s",
			req:     request.ReservationRequest{CustomerName: "Ana", Date: "2026-10-17", Slot: "11:00", Services: []string{"Pedicure"}},
		},
		{
			name:    "closed weekday",
			session: "s",
			req:     request.ReservationRequest{CustomerName: "Ana", Date: "2026-10-18", Slot: "10:30", Services: []string{"Pedicure"}},
		},
		{
			name:    "slot already started today",
			session: "s",
			req:     request.ReservationRequest{CustomerName: "Ana", Date: "2026-10-16", Slot: "09:00", Services: []string{"Pedicure"}},
		},
		{
			name:    "blank services",
			session: "s",
			req:     request.ReservationRequest{CustomerName: "Ana", Date: "2026-10-17", Slot: "10:30", Services: []string{" "}},
		},
		{
			name:    "no services",
			session: "s",
			req:     request.ReservationRequest{CustomerName: "Ana", Date: "2026-10-17", Slot: "10:30"},
		},
		{
			name:    "deposit mismatch",
			session: "s",
			req:     request.ReservationRequest{CustomerName: "Ana", Date: "2026-10-17", Slot: "10:30", Services: []string{"Pedicure"}, Deposit: depositOf("10")},
		},
		{
			name:    "malformed date",
			session: "s",
			req:     request.ReservationRequest{CustomerName: "Ana", Date: "17/10/2026", Slot: "10:30", Services: []string{"Pedicure"}},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			env := newTestEnv(fridayNoon)
			svc := newReservationService(env)

			_, err := svc.Reserve(context.Background(), env.tenant.ID.String(), tt.session, &tt.req)
			if !errors.Is(err, ErrInvalidInput) {
				t.Fatalf("err = %v, want ErrInvalidInput", err)
			}
			if n := env.bookings.count(); n != 0 {
				t.Errorf("stored %d bookings, want 0", n)
			}
		})
	}
}

func TestReserveLaterSlotToday(t *testing.T) {
	env := newTestEnv(fridayNoon)
	svc := newReservationService(env)

	resp, err := svc.Reserve(context.Background(), env.tenant.ID.String(), "s", &request.ReservationRequest{
		CustomerName: "Ana",
		Date:         "2026-10-16",
		Slot:         "18:00",
		Services:     []string{"Unlisted treatment"},
	})
	if err != nil {
		t.Fatalf("Reserve: %v", err)
	}
	if resp.Total != "0.00" {
		t.Errorf("total = %s, want 0.00 for unknown service", resp.Total)
	}
}

func TestReserveTenantGate(t *testing.T) {
	yesterday := friday.AddDate(0, 0, -1)

	tests := []struct {
		name   string
		mutate func(*entity.Tenant)
	}{
		{name: "inactive", mutate: func(t *entity.Tenant) { t.IsActive = false }},
		{name: "past due", mutate: func(t *entity.Tenant) { t.BillingStatus = entity.BillingPastDue }},
		{name: "paid until yesterday", mutate: func(t *entity.Tenant) { t.PaidUntil = &yesterday }},
		{name: "never paid", mutate: func(t *entity.Tenant) { t.PaidUntil = nil }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			env := newTestEnv(fridayNoon)
			tt.mutate(env.tenant)
			svc := newReservationService(env)
			tenantID := env.tenant.ID.String()

			_, err := svc.Reserve(context.Background(), tenantID, "s", &request.ReservationRequest{
				CustomerName: "Ana",
				Date:         "2026-10-17",
				Slot:         "10:30",
				Services:     []string{"Pedicure"},
			})
			if !errors.Is(err, ErrTenantUnavailable) {
				t.Errorf("Reserve err = %v, want ErrTenantUnavailable", err)
			}

			_, err = svc.GetAvailability(context.Background(), tenantID, &request.AvailabilityRequest{Date: "2026-10-17"})
			if !errors.Is(err, ErrTenantUnavailable) {
				t.Errorf("GetAvailability err = %v, want ErrTenantUnavailable", err)
			}
		})
	}
}

func TestReserveUnknownTenant(t *testing.T) {
	env := newTestEnv(fridayNoon)
	svc := newReservationService(env)
	req := &request.ReservationRequest{CustomerName: "Ana", Date: "2026-10-17", Slot: "10:30", Services: []string{"Pedicure"}}

	for _, id := range []string{uuid.NewString(), "not-a-uuid"} {
		if _, err := svc.Reserve(context.Background(), id, "s", req); !errors.Is(err, ErrTenantNotFound) {
			t.Errorf("Reserve(%q) err = %v, want ErrTenantNotFound", id, err)
		}
	}
}

func TestReserveAfterHoldExpires(t *testing.T) {
	tests := []struct {
		name    string
		age     time.Duration
		wantErr error
	}{
		{name: "hold at limit", age: 60 * time.Minute, wantErr: ErrSlotTaken},
		{name: "hold expired", age: 61 * time.Minute, wantErr: nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			env := newTestEnv(fridayNoon)
			created := fridayNoon.Add(-tt.age)
			env.bookings.seed(&entity.Booking{
				ID:           uuid.New(),
				TenantID:     env.tenant.ID,
				CustomerName: "Earlier",
				Date:         saturday,
				Slot:         "10:30",
				Services:     "Pedicure",
				Status:       reservation.StatusPending,
				CreatedAt:    &created,
			})
			svc := newReservationService(env)

			_, err := svc.Reserve(context.Background(), env.tenant.ID.String(), "s", &request.ReservationRequest{
				CustomerName: "Ana",
				Date:         "2026-10-17",
				Slot:         "10:30",
				Services:     []string{"Pedicure"},
			})
			if !errors.Is(err, tt.wantErr) {
				t.Fatalf("err = %v, want %v", err, tt.wantErr)
			}
		})
	}
}

func TestGetAvailability(t *testing.T) {
	tests := []struct {
		name string
		date string
		want map[string]bool
	}{
		{name: "today hides started slots", date: "2026-10-16", want: map[string]bool{"09:00": true, "18:00": false}},
		{name: "past date fully occupied", date: "2026-10-10", want: map[string]bool{"10:30": true, "14:00": true, "18:00": true}},
		{name: "closed day", date: "2026-10-18", want: map[string]bool{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			env := newTestEnv(fridayNoon)
			svc := newReservationService(env)

			resp, err := svc.GetAvailability(context.Background(), env.tenant.ID.String(), &request.AvailabilityRequest{Date: tt.date})
			if err != nil {
				t.Fatalf("GetAvailability: %v", err)
			}
			got := occupiedSlots(resp.Slots)
			if len(got) != len(tt.want) {
				t.Fatalf("got %v, want %v", got, tt.want)
			}
			for slot, occupied := range tt.want {
				if got[slot] != occupied {
					t.Errorf("slot %s occupied = %v, want %v", slot, got[slot], occupied)
				}
			}
		})
	}
}

func TestGetAvailabilityStorageFailure(t *testing.T) {
	env := newTestEnv(fridayNoon)
	env.bookings.listErr = errStorageDown
	svc := newReservationService(env)

	resp, err := svc.GetAvailability(context.Background(), env.tenant.ID.String(), &request.AvailabilityRequest{Date: "2026-10-17"})
	if err != nil {
		t.Fatalf("GetAvailability: %v", err)
	}
	for _, st := range resp.Slots {
		if !st.Occupied {
			t.Errorf("slot %s reported free while storage is down", st.Slot)
		}
	}
}

func TestGetTenantProfile(t *testing.T) {
	env := newTestEnv(fridayNoon)
	svc := newReservationService(env)

	profile, err := svc.GetTenantProfile(context.Background(), env.tenant.ID.String())
	if err != nil {
		t.Fatalf("GetTenantProfile: %v", err)
	}
	if !profile.CanOperate {
		t.Error("CanOperate = false, want true")
	}
	if profile.Deposit.Amount != "20.00" {
		t.Errorf("deposit = %s, want 20.00", profile.Deposit.Amount)
	}
	if len(profile.Services) != 2 || profile.Services[0].Name != "Manicure" || profile.Services[1].Price != "50.00" {
		t.Errorf("services = %+v", profile.Services)
	}
}
