package adaptor

import (
	"errors"
	"net/http"

	"salon-booking/internal/usecase"
	"salon-booking/pkg/utils"

	"go.uber.org/zap"
)

// handleServiceError maps typed service errors to responses. Storage failures are
// reported as retryable without detail.
func handleServiceError(log *zap.Logger, w http.ResponseWriter, err error, operation string) {
	switch {
	case errors.Is(err, usecase.ErrInvalidInput):
		log.Warn(operation+" failed - invalid input", zap.Error(err))
		utils.ResponseBadRequest(w, err.Error(), nil)

	case errors.Is(err, usecase.ErrSlotTaken):
		log.Info(operation+" failed - slot taken", zap.Error(err))
		utils.ResponseConflict(w, utils.CodeSlotTaken, "This slot was just taken, please pick another one")

	case errors.Is(err, usecase.ErrDuplicateSubmission):
		log.Info(operation+" failed - duplicate submission", zap.Error(err))
		utils.ResponseConflict(w, utils.CodeDuplicateSubmission, "This reservation was already submitted")

	case errors.Is(err, usecase.ErrInvalidTransition):
		log.Warn(operation+" failed - invalid transition", zap.Error(err))
		utils.ResponseConflict(w, utils.CodeInvalidTransition, err.Error())

	case errors.Is(err, usecase.ErrTenantUnavailable):
		log.Info(operation+" failed - tenant unavailable", zap.Error(err))
		utils.ResponseForbidden(w, "This business is not taking reservations right now")

	case errors.Is(err, usecase.ErrTenantNotFound):
		utils.ResponseNotFound(w, "Business not found")

	case errors.Is(err, usecase.ErrBookingNotFound):
		log.Warn(operation+" failed - not found", zap.Error(err))
		utils.ResponseNotFound(w, "Booking not found")

	case errors.Is(err, usecase.ErrUnauthorized):
		log.Warn(operation+" failed - unauthorized", zap.Error(err))
		utils.ResponseUnauthorized(w, "Invalid credentials")

	case errors.Is(err, usecase.ErrStorageUnavailable):
		log.Error(operation+" failed - storage unavailable", zap.Error(err))
		utils.ResponseServiceUnavailable(w, "Service temporarily unavailable, please retry")

	default:
		log.Error(operation+" failed", zap.Error(err))
		utils.ResponseInternalError(w, "Internal server error")
	}
}
