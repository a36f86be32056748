package usecase

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"salon-booking/internal/data/entity"
	"salon-booking/internal/data/repository"
	"salon-booking/internal/dto/request"
	"salon-booking/internal/dto/response"
	"salon-booking/internal/reservation"
	"salon-booking/pkg/utils"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

type ReservationService interface {
	GetTenantProfile(ctx context.Context, tenantID string) (*response.TenantProfileResponse, error)
	// GetAvailability never fails on occupancy read errors; every slot is then
	// reported occupied.
	GetAvailability(ctx context.Context, tenantID string, req *request.AvailabilityRequest) (*response.AvailabilityResponse, error)
	Reserve(ctx context.Context, tenantID, sessionID string, req *request.ReservationRequest) (*response.ReservationResponse, error)
}

type reservationService struct {
	repo  *repository.Repository
	cal   *reservation.Calendar
	hold  reservation.HoldPolicy
	guard *reservation.Guard
	log   *zap.Logger
}

func NewReservationService(
	repo *repository.Repository,
	cal *reservation.Calendar,
	hold reservation.HoldPolicy,
	guard *reservation.Guard,
	log *zap.Logger,
) ReservationService {
	return &reservationService{
		repo:  repo,
		cal:   cal,
		hold:  hold,
		guard: guard,
		log:   log.With(zap.String("service", "reservation")),
	}
}

func (s *reservationService) GetTenantProfile(ctx context.Context, tenantID string) (*response.TenantProfileResponse, error) {
	tenant, err := s.findTenant(ctx, tenantID)
	if err != nil {
		return nil, err
	}

	profile := response.TenantToProfile(tenant, s.cal.Today())
	return &profile, nil
}

func (s *reservationService) GetAvailability(ctx context.Context, tenantID string, req *request.AvailabilityRequest) (*response.AvailabilityResponse, error) {
	if errs := utils.ValidateStruct(req); len(errs) > 0 {
		return nil, fmt.Errorf("%w: %s", ErrInvalidInput, utils.FormatValidationErrors(errs))
	}

	tenant, err := s.findTenant(ctx, tenantID)
	if err != nil {
		return nil, err
	}
	if !tenant.CanOperate(s.cal.Today()) {
		return nil, ErrTenantUnavailable
	}

	date, err := reservation.ParseDate(req.Date)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}

	candidates := tenant.WorkingHours.SlotsFor(date)
	resp := &response.AvailabilityResponse{
		TenantID: tenant.ID.String(),
		Date:     reservation.FormatDate(date),
		Weekday:  int(date.Weekday()),
		Slots:    s.slotStates(ctx, tenant.ID, date, candidates),
	}
	return resp, nil
}

func (s *reservationService) slotStates(ctx context.Context, tenantID uuid.UUID, date time.Time, candidates []string) []reservation.SlotState {
	if len(candidates) == 0 {
		return []reservation.SlotState{}
	}
	if date.Before(s.cal.Today()) {
		return reservation.AllOccupied(candidates)
	}

	occupants, err := s.repo.Booking.ListOccupants(ctx, tenantID, date)
	if err != nil {
		s.log.Warn("Occupancy unavailable, reporting all slots occupied",
			zap.Error(err),
			zap.String("tenant_id", tenantID.String()),
			zap.String("date", reservation.FormatDate(date)),
		)
		return reservation.AllOccupied(candidates)
	}

	now := s.cal.Now()
	occupied := s.hold.OccupiedSlots(occupants, now)
	for _, slot := range candidates {
		if at, err := s.cal.SlotInstant(date, slot); err == nil && at.Before(now) {
			occupied[slot] = true
		}
	}
	return reservation.Availability(candidates, occupied)
}

func (s *reservationService) Reserve(ctx context.Context, tenantID, sessionID string, req *request.ReservationRequest) (*response.ReservationResponse, error) {
	if errs := utils.ValidateStruct(req); len(errs) > 0 {
		s.log.Warn("Reservation validation failed", zap.Any("errors", errs))
		return nil, fmt.Errorf("%w: %s", ErrInvalidInput, utils.FormatValidationErrors(errs))
	}
	sessionID = strings.TrimSpace(sessionID)
	if sessionID == "" {
		return nil, fmt.Errorf("%w: customer session is required", ErrInvalidInput)
	}

	tenant, err := s.findTenant(ctx, tenantID)
	if err != nil {
		return nil, err
	}
	today := s.cal.Today()
	if !tenant.CanOperate(today) {
		s.log.Info("Reservation refused by tenant gate", zap.String("tenant_id", tenant.ID.String()))
		return nil, ErrTenantUnavailable
	}

	name := strings.TrimSpace(req.CustomerName)
	if name == "" {
		return nil, fmt.Errorf("%w: customer name is required", ErrInvalidInput)
	}

	date, err := reservation.ParseDate(req.Date)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}
	if date.Before(today) {
		return nil, fmt.Errorf("%w: date %s is in the past", ErrInvalidInput, req.Date)
	}

	slot, err := reservation.CanonicalSlot(strings.TrimSpace(req.Slot))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}
	if !tenant.WorkingHours.Offers(date, slot) {
		return nil, fmt.Errorf("%w: slot %s is not offered on %s", ErrInvalidInput, slot, date.Weekday())
	}
	now := s.cal.Now()
	if at, _ := s.cal.SlotInstant(date, slot); at.Before(now) {
		return nil, fmt.Errorf("%w: slot %s %s has already started", ErrInvalidInput, req.Date, slot)
	}

	services := reservation.NormalizeServices(req.Services)
	if len(services) == 0 {
		return nil, fmt.Errorf("%w: at least one service is required", ErrInvalidInput)
	}

	deposit := tenant.Deposit.Deposit()
	if req.Deposit != nil && !req.Deposit.Equal(deposit) {
		return nil, fmt.Errorf("%w: deposit must be %s", ErrInvalidInput, response.Money(deposit))
	}

	submission, err := s.guard.Begin(ctx, sessionID, reservation.SubmissionKey(name, date, slot, services))
	switch {
	case errors.Is(err, reservation.ErrDuplicateSubmission), errors.Is(err, reservation.ErrSubmissionInFlight):
		s.log.Info("Duplicate reservation suppressed",
			zap.String("tenant_id", tenant.ID.String()),
			zap.Error(err),
		)
		return nil, fmt.Errorf("%w: %v", ErrDuplicateSubmission, err)
	case err != nil:
		// storage uniqueness still holds without the guard
		s.log.Warn("Submission guard unavailable", zap.Error(err))
	}

	booking := &entity.Booking{
		ID:           uuid.New(),
		TenantID:     tenant.ID,
		CustomerName: name,
		Date:         date,
		Slot:         slot,
		Services:     reservation.ServicesText(services),
		Deposit:      deposit,
		Status:       reservation.StatusPending,
		CreatedAt:    &now,
		UpdatedAt:    now,
	}

	if err := s.repo.Booking.Reserve(ctx, booking, s.hold, now); err != nil {
		if submission != nil {
			if abortErr := submission.Abort(ctx); abortErr != nil {
				s.log.Warn("Failed to release submission", zap.Error(abortErr))
			}
		}
		if errors.Is(err, repository.ErrSlotTaken) {
			s.log.Info("Slot taken at commit",
				zap.String("tenant_id", tenant.ID.String()),
				zap.String("date", req.Date),
				zap.String("slot", slot),
			)
			return nil, ErrSlotTaken
		}
		return nil, fmt.Errorf("%w: %v", ErrStorageUnavailable, err)
	}

	if submission != nil {
		if err := submission.Commit(ctx); err != nil {
			s.log.Warn("Failed to record submission", zap.Error(err))
		}
	}

	s.log.Info("Booking reserved",
		zap.String("booking_id", booking.ID.String()),
		zap.String("tenant_id", tenant.ID.String()),
		zap.String("date", req.Date),
		zap.String("slot", slot),
	)

	return &response.ReservationResponse{
		BookingID:    booking.ID.String(),
		Status:       booking.Status,
		CustomerName: booking.CustomerName,
		Date:         reservation.FormatDate(booking.Date),
		Slot:         booking.Slot,
		Services:     booking.Services,
		Total:        response.Money(tenant.Services.Total(services)),
		Deposit:      response.Money(booking.Deposit),
		CreatedAt:    now,
	}, nil
}

func (s *reservationService) findTenant(ctx context.Context, tenantID string) (*entity.Tenant, error) {
	id, err := uuid.Parse(tenantID)
	if err != nil {
		return nil, ErrTenantNotFound
	}

	tenant, err := s.repo.Tenant.FindByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrStorageUnavailable, err)
	}
	if tenant == nil {
		return nil, ErrTenantNotFound
	}
	return tenant, nil
}
