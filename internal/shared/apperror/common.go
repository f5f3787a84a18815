package apperror

import (
	"fmt"
	"net/http"
)

var (
	ErrNotFound = New(
		CodeNotFound,
		"Resource not found",
		http.StatusNotFound,
	)

	ErrForbidden = New(
		CodeForbidden,
		"You do not have permission to access this resource",
		http.StatusForbidden,
	)

	ErrInternal = New(
		CodeInternalError,
		"An unexpected error occurred",
		http.StatusInternalServerError,
	)

	ErrUnauthorized = New(
		CodeUnauthorized,
		"Authentication is required",
		http.StatusUnauthorized,
	)

	ErrInvalidInput = New(
		CodeInvalidInput,
		"The provided input is invalid",
		http.StatusBadRequest,
	)

	// Duplicate unique fields surface as 400, not 409, matching the
	// public API contract.
	ErrConflict = New(
		CodeConflict,
		"The resource conflicts with an existing record",
		http.StatusBadRequest,
	)
)

// Validation builds an INVALID_INPUT error with a caller-supplied message.
func Validation(message string) *AppError {
	return New(CodeInvalidInput, message, http.StatusBadRequest)
}

// Validationf is Validation with fmt-style formatting.
func Validationf(format string, args ...any) *AppError {
	return Validation(fmt.Sprintf(format, args...))
}

// Unprocessable builds a 422 for business-rule violations on otherwise
// well-formed input (password policy, confirm mismatch).
func Unprocessable(message string) *AppError {
	return New(CodeUnprocessable, message, http.StatusUnprocessableEntity)
}

// NotFoundFor builds a NOT_FOUND error naming the entity.
func NotFoundFor(entity string) *AppError {
	return New(CodeNotFound, fmt.Sprintf("No %s found with given filters", entity), http.StatusNotFound)
}

// RequiredField builds the standard message for a missing field.
func RequiredField(field string) *AppError {
	return Validation(fmt.Sprintf("%s is required", field))
}

// InvalidField builds the standard message for a malformed field.
func InvalidField(field string) *AppError {
	return Validation(fmt.Sprintf("%s is invalid", field))
}
