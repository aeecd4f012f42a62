package api

import (
	"context"
	"errors"
	"net/http"

	"github.com/VladislavFirsov/staffplan/contracts"
)

// ErrorCode represents an API error code.
type ErrorCode string

// Error codes for API responses.
const (
	CodeInvalidInput     ErrorCode = "invalid_input"
	CodeValidationFailed ErrorCode = "validation_failed"
	CodeDependencyCycle  ErrorCode = "dependency_cycle"
	CodeInfeasible       ErrorCode = "infeasible"
	CodeCancelled        ErrorCode = "cancelled"
	CodeTimeout          ErrorCode = "timeout"
	CodeInternalError    ErrorCode = "internal_error"
)

// HTTPError represents an error with an associated HTTP status code.
type HTTPError struct {
	StatusCode int
	Code       ErrorCode
	Err        error
}

func (e *HTTPError) Error() string {
	return e.Err.Error()
}

func (e *HTTPError) Unwrap() error {
	return e.Err
}

// MapError maps a domain error to an HTTPError.
func MapError(err error) *HTTPError {
	if err == nil {
		return nil
	}

	switch {
	case errors.Is(err, contracts.ErrValidation):
		return &HTTPError{http.StatusBadRequest, CodeValidationFailed, err}

	case errors.Is(err, contracts.ErrInvalidInput):
		return &HTTPError{http.StatusBadRequest, CodeInvalidInput, err}

	case errors.Is(err, contracts.ErrCycle):
		return &HTTPError{http.StatusUnprocessableEntity, CodeDependencyCycle, err}

	case errors.Is(err, contracts.ErrInfeasible):
		return &HTTPError{http.StatusUnprocessableEntity, CodeInfeasible, err}

	case errors.Is(err, context.Canceled):
		// 499: nginx convention for "client closed request"
		return &HTTPError{499, CodeCancelled, err}

	case errors.Is(err, context.DeadlineExceeded):
		return &HTTPError{http.StatusGatewayTimeout, CodeTimeout, err}

	default:
		return &HTTPError{http.StatusInternalServerError, CodeInternalError, err}
	}
}

// ErrorToDTO converts err to an ErrorDTO, naming the offending input when the
// error carries it.
func ErrorToDTO(err error) *ErrorDTO {
	httpErr := MapError(err)
	if httpErr == nil {
		return nil
	}
	dto := &ErrorDTO{
		Code:    string(httpErr.Code),
		Message: err.Error(),
	}

	var verr *contracts.ValidationError
	var cerr *contracts.CycleError
	var ierr *contracts.InfeasibleError
	switch {
	case errors.As(err, &verr):
		dto.Field, dto.ID = verr.Field, verr.ID
	case errors.As(err, &cerr):
		dto.ID = string(cerr.TaskID)
	case errors.As(err, &ierr):
		dto.ID = string(ierr.TaskID)
	}
	return dto
}

// WriteError writes an error response to the HTTP response writer.
func WriteError(w http.ResponseWriter, err error) {
	httpErr := MapError(err)
	if httpErr == nil {
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(httpErr.StatusCode)
	writeJSON(w, ErrorToDTO(err))
}
