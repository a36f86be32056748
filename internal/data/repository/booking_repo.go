package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"salon-booking/internal/data/entity"
	"salon-booking/internal/reservation"
	"salon-booking/pkg/database"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.uber.org/zap"
)

// BookingRepository is tenant scoped: every method takes the owning tenant and runs
// under that tenant's row-level security scope.
type BookingRepository interface {
	// Reserve inserts booking as pending only if no booking occupies its slot under
	// policy at now. It returns ErrSlotTaken otherwise.
	Reserve(ctx context.Context, booking *entity.Booking, policy reservation.HoldPolicy, now time.Time) error
	ListOccupants(ctx context.Context, tenantID uuid.UUID, date time.Time) ([]reservation.Occupant, error)
	List(ctx context.Context, tenantID uuid.UUID, filter entity.BookingFilter) ([]*entity.Booking, error)
	FindByID(ctx context.Context, tenantID, id uuid.UUID) (*entity.Booking, error)
	UpdateStatus(ctx context.Context, tenantID, id uuid.UUID, from, to reservation.Status) error
	MarkPaid(ctx context.Context, tenantID, id uuid.UUID, policy reservation.HoldPolicy, now time.Time) error
	CompleteDue(ctx context.Context, tenantID uuid.UUID, ids []uuid.UUID) (int64, error)
	Delete(ctx context.Context, tenantID, id uuid.UUID) error
}

type bookingRepository struct {
	db  database.PgxIface
	log *zap.Logger
}

func NewBookingRepository(db database.PgxIface, log *zap.Logger) BookingRepository {
	return &bookingRepository{
		db:  db,
		log: log.With(zap.String("repository", "booking")),
	}
}

var tracer = otel.Tracer("salon-booking/repository")

const bookingColumns = `
	id, tenant_id, customer_name, booking_date, slot, services, deposit::text,
	status, created_at, updated_at`

func (r *bookingRepository) Reserve(ctx context.Context, booking *entity.Booking, policy reservation.HoldPolicy, now time.Time) error {
	ctx, span := tracer.Start(ctx, "booking.Reserve")
	defer span.End()
	span.SetAttributes(
		attribute.String("tenant.id", booking.TenantID.String()),
		attribute.String("booking.date", reservation.FormatDate(booking.Date)),
		attribute.String("booking.slot", booking.Slot),
	)

	err := database.WithTenant(ctx, r.db, booking.TenantID, func(tx pgx.Tx) error {
		if err := claimSlot(ctx, tx, booking.TenantID, booking.Date, booking.Slot); err != nil {
			return err
		}

		occupants, err := slotOccupants(ctx, tx, booking.TenantID, booking.Date, booking.Slot, uuid.Nil)
		if err != nil {
			return err
		}
		if policy.SlotOccupied(occupants, booking.Slot, now) {
			return ErrSlotTaken
		}

		_, err = tx.Exec(ctx, `
			INSERT INTO bookings (id, tenant_id, customer_name, booking_date, slot, services,
			                      deposit, status, created_at, updated_at)
			VALUES ($1, $2, $3, $4, $5, $6, $7::numeric, $8, $9, $10)
		`,
			booking.ID,
			booking.TenantID,
			booking.CustomerName,
			booking.Date,
			booking.Slot,
			booking.Services,
			booking.Deposit.String(),
			booking.Status.String(),
			booking.CreatedAt,
			booking.UpdatedAt,
		)
		if IsUniqueViolation(err) {
			return ErrSlotTaken
		}
		return err
	})

	if errors.Is(err, ErrSlotTaken) {
		span.SetAttributes(attribute.Bool("booking.slot_taken", true))
		return ErrSlotTaken
	}
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "reserve failed")
		r.log.Error("Failed to reserve slot",
			zap.Error(err),
			zap.String("tenant_id", booking.TenantID.String()),
			zap.String("date", reservation.FormatDate(booking.Date)),
			zap.String("slot", booking.Slot),
		)
		return fmt.Errorf("reserve slot %s %s: %w", reservation.FormatDate(booking.Date), booking.Slot, err)
	}

	return nil
}

func (r *bookingRepository) ListOccupants(ctx context.Context, tenantID uuid.UUID, date time.Time) ([]reservation.Occupant, error) {
	var occupants []reservation.Occupant

	err := database.WithTenant(ctx, r.db, tenantID, func(tx pgx.Tx) error {
		rows, err := tx.Query(ctx, `
			SELECT slot, status, created_at
			FROM bookings
			WHERE tenant_id = $1 AND booking_date = $2
		`, tenantID, date)
		if err != nil {
			return err
		}
		occupants, err = scanOccupants(rows)
		return err
	})
	if err != nil {
		r.log.Error("Failed to list occupants",
			zap.Error(err),
			zap.String("tenant_id", tenantID.String()),
			zap.String("date", reservation.FormatDate(date)),
		)
		return nil, fmt.Errorf("list occupants %s: %w", reservation.FormatDate(date), err)
	}

	return occupants, nil
}

func (r *bookingRepository) List(ctx context.Context, tenantID uuid.UUID, filter entity.BookingFilter) ([]*entity.Booking, error) {
	query := `SELECT` + bookingColumns + `
		FROM bookings
		WHERE tenant_id = $1
		  AND ($2::date IS NULL OR booking_date >= $2)
		  AND ($3::date IS NULL OR booking_date <= $3)
		ORDER BY booking_date, slot, created_at
	`

	var bookings []*entity.Booking
	err := database.WithTenant(ctx, r.db, tenantID, func(tx pgx.Tx) error {
		rows, err := tx.Query(ctx, query, tenantID, filter.From, filter.To)
		if err != nil {
			return err
		}
		defer rows.Close()

		for rows.Next() {
			booking, err := scanBooking(rows)
			if err != nil {
				return err
			}
			// Status decoding is tolerant, so the filter runs on decoded values.
			if filter.Status != nil && booking.Status != *filter.Status {
				continue
			}
			bookings = append(bookings, booking)
		}
		return rows.Err()
	})
	if err != nil {
		r.log.Error("Failed to list bookings",
			zap.Error(err),
			zap.String("tenant_id", tenantID.String()),
		)
		return nil, fmt.Errorf("list bookings: %w", err)
	}

	return bookings, nil
}

func (r *bookingRepository) FindByID(ctx context.Context, tenantID, id uuid.UUID) (*entity.Booking, error) {
	query := `SELECT` + bookingColumns + ` FROM bookings WHERE tenant_id = $1 AND id = $2`

	var booking *entity.Booking
	err := database.WithTenant(ctx, r.db, tenantID, func(tx pgx.Tx) error {
		var err error
		booking, err = scanBooking(tx.QueryRow(ctx, query, tenantID, id))
		return err
	})
	if isNoRows(err) {
		return nil, nil
	}
	if err != nil {
		r.log.Error("Failed to find booking by ID",
			zap.Error(err),
			zap.String("booking_id", id.String()),
		)
		return nil, fmt.Errorf("find booking by ID %s: %w", id, err)
	}

	return booking, nil
}

// UpdateStatus moves a booking from one status to another. The write only applies
// while the stored status still equals from.
func (r *bookingRepository) UpdateStatus(ctx context.Context, tenantID, id uuid.UUID, from, to reservation.Status) error {
	err := database.WithTenant(ctx, r.db, tenantID, func(tx pgx.Tx) error {
		tag, err := tx.Exec(ctx, `
			UPDATE bookings
			SET status = $4, updated_at = NOW()
			WHERE tenant_id = $1 AND id = $2 AND status = $3
		`, tenantID, id, from.String(), to.String())
		if err != nil {
			return err
		}
		if tag.RowsAffected() == 0 {
			return missingOrConflict(ctx, tx, tenantID, id)
		}
		return nil
	})
	if errors.Is(err, ErrNotFound) || errors.Is(err, ErrStatusConflict) {
		return err
	}
	if err != nil {
		r.log.Error("Failed to update booking status",
			zap.Error(err),
			zap.String("booking_id", id.String()),
			zap.Stringer("to", to),
		)
		return fmt.Errorf("update booking status %s: %w", id, err)
	}

	return nil
}

// MarkPaid confirms a pending booking. It takes the slot claim so a payment cannot
// commit a booking whose slot another booking occupies.
func (r *bookingRepository) MarkPaid(ctx context.Context, tenantID, id uuid.UUID, policy reservation.HoldPolicy, now time.Time) error {
	ctx, span := tracer.Start(ctx, "booking.MarkPaid")
	defer span.End()
	span.SetAttributes(attribute.String("booking.id", id.String()))

	err := database.WithTenant(ctx, r.db, tenantID, func(tx pgx.Tx) error {
		var (
			date   time.Time
			slot   string
			status string
		)
		err := tx.QueryRow(ctx, `
			SELECT booking_date, slot, status
			FROM bookings
			WHERE tenant_id = $1 AND id = $2
			FOR UPDATE
		`, tenantID, id).Scan(&date, &slot, &status)
		if isNoRows(err) {
			return ErrNotFound
		}
		if err != nil {
			return err
		}
		if reservation.ParseStatus(status) != reservation.StatusPending {
			return ErrStatusConflict
		}

		if err := claimSlot(ctx, tx, tenantID, date, slot); err != nil {
			return err
		}
		others, err := slotOccupants(ctx, tx, tenantID, date, slot, id)
		if err != nil {
			return err
		}
		if policy.SlotOccupied(others, slot, now) {
			return ErrSlotTaken
		}

		_, err = tx.Exec(ctx, `
			UPDATE bookings
			SET status = $3, updated_at = NOW()
			WHERE tenant_id = $1 AND id = $2
		`, tenantID, id, reservation.StatusPaid.String())
		if IsUniqueViolation(err) {
			return ErrSlotTaken
		}
		return err
	})

	switch {
	case errors.Is(err, ErrNotFound), errors.Is(err, ErrStatusConflict), errors.Is(err, ErrSlotTaken):
		return err
	case err != nil:
		span.RecordError(err)
		span.SetStatus(codes.Error, "mark paid failed")
		r.log.Error("Failed to mark booking paid",
			zap.Error(err),
			zap.String("booking_id", id.String()),
		)
		return fmt.Errorf("mark booking paid %s: %w", id, err)
	}

	return nil
}

// CompleteDue moves the given bookings from paid to completed. Rows that are no
// longer paid are left alone.
func (r *bookingRepository) CompleteDue(ctx context.Context, tenantID uuid.UUID, ids []uuid.UUID) (int64, error) {
	if len(ids) == 0 {
		return 0, nil
	}

	var completed int64
	err := database.WithTenant(ctx, r.db, tenantID, func(tx pgx.Tx) error {
		tag, err := tx.Exec(ctx, `
			UPDATE bookings
			SET status = $3, updated_at = NOW()
			WHERE tenant_id = $1 AND id = ANY($2) AND status = $4
		`, tenantID, ids, reservation.StatusCompleted.String(), reservation.StatusPaid.String())
		if err != nil {
			return err
		}
		completed = tag.RowsAffected()
		return nil
	})
	if err != nil {
		r.log.Error("Failed to complete due bookings",
			zap.Error(err),
			zap.String("tenant_id", tenantID.String()),
			zap.Int("candidates", len(ids)),
		)
		return 0, fmt.Errorf("complete due bookings: %w", err)
	}

	return completed, nil
}

func (r *bookingRepository) Delete(ctx context.Context, tenantID, id uuid.UUID) error {
	err := database.WithTenant(ctx, r.db, tenantID, func(tx pgx.Tx) error {
		tag, err := tx.Exec(ctx, `DELETE FROM bookings WHERE tenant_id = $1 AND id = $2`, tenantID, id)
		if err != nil {
			return err
		}
		if tag.RowsAffected() == 0 {
			return ErrNotFound
		}
		return nil
	})
	if errors.Is(err, ErrNotFound) {
		return err
	}
	if err != nil {
		r.log.Error("Failed to delete booking",
			zap.Error(err),
			zap.String("booking_id", id.String()),
		)
		return fmt.Errorf("delete booking %s: %w", id, err)
	}

	return nil
}

// claimSlot upserts the (tenant, date, slot) claim row. The upsert holds the row
// lock until the transaction ends, serializing every writer of that slot.
func claimSlot(ctx context.Context, tx pgx.Tx, tenantID uuid.UUID, date time.Time, slot string) error {
	_, err := tx.Exec(ctx, `
		INSERT INTO slot_claims (tenant_id, booking_date, slot, claimed_at)
		VALUES ($1, $2, $3, NOW())
		ON CONFLICT (tenant_id, booking_date, slot)
		DO UPDATE SET claimed_at = EXCLUDED.claimed_at
	`, tenantID, date, slot)
	if err != nil {
		return fmt.Errorf("claim slot %s %s: %w", reservation.FormatDate(date), slot, err)
	}
	return nil
}

func slotOccupants(ctx context.Context, tx pgx.Tx, tenantID uuid.UUID, date time.Time, slot string, exclude uuid.UUID) ([]reservation.Occupant, error) {
	rows, err := tx.Query(ctx, `
		SELECT slot, status, created_at
		FROM bookings
		WHERE tenant_id = $1 AND booking_date = $2 AND slot = $3 AND id <> $4
	`, tenantID, date, slot, exclude)
	if err != nil {
		return nil, err
	}
	return scanOccupants(rows)
}

func scanOccupants(rows pgx.Rows) ([]reservation.Occupant, error) {
	defer rows.Close()

	var occupants []reservation.Occupant
	for rows.Next() {
		var (
			o         reservation.Occupant
			status    string
			createdAt *time.Time
		)
		if err := rows.Scan(&o.Slot, &status, &createdAt); err != nil {
			return nil, err
		}
		o.Status = reservation.ParseStatus(status)
		if createdAt != nil {
			o.CreatedAt = *createdAt
		}
		occupants = append(occupants, o)
	}
	return occupants, rows.Err()
}

func scanBooking(row pgx.Row) (*entity.Booking, error) {
	var (
		booking entity.Booking
		deposit string
		status  string
	)
	err := row.Scan(
		&booking.ID,
		&booking.TenantID,
		&booking.CustomerName,
		&booking.Date,
		&booking.Slot,
		&booking.Services,
		&deposit,
		&status,
		&booking.CreatedAt,
		&booking.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	if booking.Deposit, err = decimal.NewFromString(deposit); err != nil {
		return nil, fmt.Errorf("decode deposit %q: %w", deposit, err)
	}
	booking.Status = reservation.ParseStatus(status)
	return &booking, nil
}

func missingOrConflict(ctx context.Context, tx pgx.Tx, tenantID, id uuid.UUID) error {
	var exists bool
	err := tx.QueryRow(ctx,
		`SELECT EXISTS (SELECT 1 FROM bookings WHERE tenant_id = $1 AND id = $2)`,
		tenantID, id,
	).Scan(&exists)
	if err != nil {
		return err
	}
	if !exists {
		return ErrNotFound
	}
	return ErrStatusConflict
}
