package utils

import (
	"encoding/json"
	"net/http"
)

type Response struct {
	Status  bool   `json:"status"`
	Code    string `json:"code,omitempty"`
	Message string `json:"message"`
	Data    any    `json:"data,omitempty"`
	Errors  any    `json:"errors,omitempty"`
}

// Machine readable error codes carried in the envelope.
const (
	CodeInvalidInput        = "invalid_input"
	CodeSlotTaken           = "slot_taken"
	CodeDuplicateSubmission = "duplicate_submission"
	CodeInvalidTransition   = "invalid_transition"
	CodeTenantUnavailable   = "tenant_unavailable"
	CodeNotFound            = "not_found"
	CodeUnauthorized        = "unauthorized"
	CodeRateLimited         = "rate_limited"
	CodeStorageUnavailable  = "storage_unavailable"
	CodeInternal            = "internal_error"
)

func ResponseJSON(w http.ResponseWriter, code int, status bool, message string, data, errors any) {
	writeJSON(w, code, Response{
		Status:  status,
		Message: message,
		Data:    data,
		Errors:  errors,
	})
}

// ResponseError writes a failure envelope carrying errCode.
func ResponseError(w http.ResponseWriter, code int, errCode, message string, errors any) {
	writeJSON(w, code, Response{
		Status:  false,
		Code:    errCode,
		Message: message,
		Errors:  errors,
	})
}

func writeJSON(w http.ResponseWriter, code int, resp Response) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	json.NewEncoder(w).Encode(resp)
}

func ResponseSuccess(w http.ResponseWriter, message string, data any) {
	ResponseJSON(w, http.StatusOK, true, message, data, nil)
}

func ResponseCreated(w http.ResponseWriter, message string, data any) {
	ResponseJSON(w, http.StatusCreated, true, message, data, nil)
}

func ResponseBadRequest(w http.ResponseWriter, message string, errors any) {
	ResponseError(w, http.StatusBadRequest, CodeInvalidInput, message, errors)
}

func ResponseUnauthorized(w http.ResponseWriter, message string) {
	ResponseError(w, http.StatusUnauthorized, CodeUnauthorized, message, nil)
}

func ResponseForbidden(w http.ResponseWriter, message string) {
	ResponseError(w, http.StatusForbidden, CodeTenantUnavailable, message, nil)
}

func ResponseNotFound(w http.ResponseWriter, message string) {
	ResponseError(w, http.StatusNotFound, CodeNotFound, message, nil)
}

func ResponseConflict(w http.ResponseWriter, errCode, message string) {
	ResponseError(w, http.StatusConflict, errCode, message, nil)
}

func ResponseTooManyRequests(w http.ResponseWriter, message string) {
	ResponseError(w, http.StatusTooManyRequests, CodeRateLimited, message, nil)
}

func ResponseServiceUnavailable(w http.ResponseWriter, message string) {
	ResponseError(w, http.StatusServiceUnavailable, CodeStorageUnavailable, message, nil)
}

func ResponseInternalError(w http.ResponseWriter, message string) {
	ResponseError(w, http.StatusInternalServerError, CodeInternal, message, nil)
}
