package usecase

import (
	"context"
	"errors"
	"fmt"
	"time"

	"salon-booking/internal/data/entity"
	"salon-booking/internal/data/repository"
	"salon-booking/internal/dto/request"
	"salon-booking/internal/dto/response"
	"salon-booking/internal/reservation"
	"salon-booking/pkg/utils"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

const (
	PeriodAll   = "all"
	PeriodMonth = "month"
	PeriodYear  = "year"
)

type AdminBookingService interface {
	// ListBookings runs the completion sweep and then lists the tenant's bookings.
	ListBookings(ctx context.Context, tenantID uuid.UUID, req *request.BookingListRequest) (*response.BookingListResponse, error)
	// SweepCompleted moves paid bookings whose appointment has passed to completed.
	SweepCompleted(ctx context.Context, tenantID uuid.UUID) (int64, error)
	MarkPaid(ctx context.Context, tenantID uuid.UUID, bookingID string) error
	Cancel(ctx context.Context, tenantID uuid.UUID, bookingID string) error
	UpdateStatus(ctx context.Context, tenantID uuid.UUID, bookingID string, target reservation.Status) error
	DeleteBooking(ctx context.Context, tenantID uuid.UUID, bookingID string) error
}

type adminBookingService struct {
	repo *repository.Repository
	cal  *reservation.Calendar
	hold reservation.HoldPolicy
	log  *zap.Logger
}

func NewAdminBookingService(
	repo *repository.Repository,
	cal *reservation.Calendar,
	hold reservation.HoldPolicy,
	log *zap.Logger,
) AdminBookingService {
	return &adminBookingService{
		repo: repo,
		cal:  cal,
		hold: hold,
		log:  log.With(zap.String("service", "admin_booking")),
	}
}

func (s *adminBookingService) ListBookings(ctx context.Context, tenantID uuid.UUID, req *request.BookingListRequest) (*response.BookingListResponse, error) {
	if errs := utils.ValidateStruct(req); len(errs) > 0 {
		return nil, fmt.Errorf("%w: %s", ErrInvalidInput, utils.FormatValidationErrors(errs))
	}

	filter, err := s.buildFilter(req)
	if err != nil {
		return nil, err
	}

	tenant, err := s.repo.Tenant.FindByID(ctx, tenantID)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrStorageUnavailable, err)
	}
	if tenant == nil {
		return nil, ErrTenantNotFound
	}

	completed, err := s.SweepCompleted(ctx, tenantID)
	if err != nil {
		s.log.Warn("Completion sweep failed", zap.Error(err), zap.String("tenant_id", tenantID.String()))
	}

	bookings, err := s.repo.Booking.List(ctx, tenantID, filter)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrStorageUnavailable, err)
	}

	items := make([]response.AdminBookingResponse, len(bookings))
	servicesTotal := decimal.Zero
	depositsTotal := decimal.Zero
	for i, b := range bookings {
		items[i] = response.BookingToAdminResponse(b, tenant.Services)
		servicesTotal = servicesTotal.Add(tenant.Services.TotalForText(b.Services))
		depositsTotal = depositsTotal.Add(b.Deposit)
	}

	page, perPage := req.PageNumber(), req.Limit()
	paginated := response.NewPaginatedResponse(response.Page(items, page, perPage), page, perPage, int64(len(items)))

	return &response.BookingListResponse{
		PaginatedResponse: *paginated,
		Summary: response.BookingSummary{
			Count:         len(items),
			ServicesTotal: response.Money(servicesTotal),
			DepositsTotal: response.Money(depositsTotal),
		},
		Completed: completed,
	}, nil
}

func (s *adminBookingService) buildFilter(req *request.BookingListRequest) (entity.BookingFilter, error) {
	var filter entity.BookingFilter

	if req.Status != "" {
		status, ok := reservation.LookupStatus(req.Status)
		if !ok {
			return filter, fmt.Errorf("%w: unknown status %q", ErrInvalidInput, req.Status)
		}
		filter.Status = &status
	}

	today := s.cal.Today()
	year := req.Year
	if year == 0 {
		year = today.Year()
	}

	switch req.Period {
	case "", PeriodAll:
	case PeriodMonth:
		month := time.Month(req.Month)
		if month == 0 {
			month = today.Month()
		}
		from := time.Date(year, month, 1, 0, 0, 0, 0, time.UTC)
		to := from.AddDate(0, 1, -1)
		filter.From, filter.To = &from, &to
	case PeriodYear:
		from := time.Date(year, time.January, 1, 0, 0, 0, 0, time.UTC)
		to := time.Date(year, time.December, 31, 0, 0, 0, 0, time.UTC)
		filter.From, filter.To = &from, &to
	default:
		return filter, fmt.Errorf("%w: unknown period %q", ErrInvalidInput, req.Period)
	}

	return filter, nil
}

func (s *adminBookingService) SweepCompleted(ctx context.Context, tenantID uuid.UUID) (int64, error) {
	paid := reservation.StatusPaid
	bookings, err := s.repo.Booking.List(ctx, tenantID, entity.BookingFilter{Status: &paid})
	if err != nil {
		return 0, fmt.Errorf("list paid bookings: %w", err)
	}

	var due []uuid.UUID
	for _, b := range bookings {
		if reservation.DueForCompletion(s.cal, b.Status, b.Date, b.Slot) {
			due = append(due, b.ID)
		}
	}
	if len(due) == 0 {
		return 0, nil
	}

	completed, err := s.repo.Booking.CompleteDue(ctx, tenantID, due)
	if err != nil {
		return 0, fmt.Errorf("complete due bookings: %w", err)
	}

	s.log.Info("Completed past bookings",
		zap.String("tenant_id", tenantID.String()),
		zap.Int64("completed", completed),
	)
	return completed, nil
}

func (s *adminBookingService) MarkPaid(ctx context.Context, tenantID uuid.UUID, bookingID string) error {
	return s.UpdateStatus(ctx, tenantID, bookingID, reservation.StatusPaid)
}

func (s *adminBookingService) Cancel(ctx context.Context, tenantID uuid.UUID, bookingID string) error {
	return s.UpdateStatus(ctx, tenantID, bookingID, reservation.StatusCanceled)
}

func (s *adminBookingService) UpdateStatus(ctx context.Context, tenantID uuid.UUID, bookingID string, target reservation.Status) error {
	action, ok := reservation.ActionFor(target)
	if !ok {
		return fmt.Errorf("%w: status %s cannot be set by an administrator", ErrInvalidInput, target)
	}

	booking, err := s.findBooking(ctx, tenantID, bookingID)
	if err != nil {
		return err
	}

	if _, err := reservation.Apply(action, booking.Status); err != nil {
		s.log.Info("Rejected status transition",
			zap.String("booking_id", bookingID),
			zap.Stringer("from", booking.Status),
			zap.Stringer("action", action),
		)
		return err
	}

	if action == reservation.ActionMarkPaid {
		err = s.repo.Booking.MarkPaid(ctx, tenantID, booking.ID, s.hold, s.cal.Now())
	} else {
		err = s.repo.Booking.UpdateStatus(ctx, tenantID, booking.ID, booking.Status, target)
	}

	switch {
	case err == nil:
	case errors.Is(err, repository.ErrNotFound):
		return ErrBookingNotFound
	case errors.Is(err, repository.ErrStatusConflict):
		return fmt.Errorf("%w: booking status changed concurrently", ErrInvalidTransition)
	case errors.Is(err, repository.ErrSlotTaken):
		return ErrSlotTaken
	default:
		return fmt.Errorf("%w: %v", ErrStorageUnavailable, err)
	}

	s.log.Info("Booking status updated",
		zap.String("booking_id", bookingID),
		zap.String("tenant_id", tenantID.String()),
		zap.Stringer("from", booking.Status),
		zap.Stringer("to", target),
	)
	return nil
}

func (s *adminBookingService) DeleteBooking(ctx context.Context, tenantID uuid.UUID, bookingID string) error {
	id, err := uuid.Parse(bookingID)
	if err != nil {
		return ErrBookingNotFound
	}

	err = s.repo.Booking.Delete(ctx, tenantID, id)
	if errors.Is(err, repository.ErrNotFound) {
		return ErrBookingNotFound
	}
	if err != nil {
		return fmt.Errorf("%w: %v", ErrStorageUnavailable, err)
	}

	s.log.Info("Booking deleted",
		zap.String("booking_id", bookingID),
		zap.String("tenant_id", tenantID.String()),
	)
	return nil
}

// findBooking looks a booking up inside the tenant. Ids of other tenants are
// indistinguishable from unknown ids.
func (s *adminBookingService) findBooking(ctx context.Context, tenantID uuid.UUID, bookingID string) (*entity.Booking, error) {
	id, err := uuid.Parse(bookingID)
	if err != nil {
		return nil, ErrBookingNotFound
	}

	booking, err := s.repo.Booking.FindByID(ctx, tenantID, id)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrStorageUnavailable, err)
	}
	if booking == nil {
		return nil, ErrBookingNotFound
	}
	return booking, nil
}
