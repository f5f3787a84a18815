package companyerrors

import (
	"net/http"

	"github.com/regtech-horizon/regtech-backend/internal/shared/apperror"
)

var (
	ErrCompanyNotFound = apperror.New(
		apperror.CodeNotFound,
		"No Company found with given filters",
		http.StatusNotFound,
	)

	// Duplicate active email reads as 400, same as every other unique
	// violation surfaced by the API.
	ErrCompanyEmailTaken = apperror.New(
		apperror.CodeConflict,
		"A company with this email already exists",
		http.StatusBadRequest,
	)

	ErrInvalidCompanyCredentials = apperror.New(
		apperror.CodeUnauthorized,
		"Invalid company credentials",
		http.StatusUnauthorized,
	)

	ErrNotCompanyOwner = apperror.New(
		apperror.CodeForbidden,
		"Only the company owner can perform this action",
		http.StatusForbidden,
	)

	ErrNoCompanyPassword = apperror.New(
		apperror.CodeInvalidInput,
		"This company has no login credential configured",
		http.StatusBadRequest,
	)
)
