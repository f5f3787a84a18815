package autherrors

import (
	"net/http"

	"github.com/regtech-horizon/regtech-backend/internal/shared/apperror"
)

var (
	// One message for unknown email and wrong password, so responses never
	// confirm whether an address is registered.
	ErrInvalidCredentials = apperror.New(
		apperror.CodeUnauthorized,
		"Invalid user credentials",
		http.StatusUnauthorized,
	)

	ErrMissingToken = apperror.New(
		apperror.CodeUnauthorized,
		"Authentication token not found",
		http.StatusUnauthorized,
	)

	ErrInvalidToken = apperror.New(
		apperror.CodeUnauthorized,
		"Invalid authentication token",
		http.StatusUnauthorized,
	)

	ErrTokenExpired = apperror.New(
		apperror.CodeUnauthorized,
		"Authentication token has expired",
		http.StatusUnauthorized,
	)

	ErrInvalidRefreshToken = apperror.New(
		apperror.CodeUnauthorized,
		"Invalid refresh token",
		http.StatusUnauthorized,
	)

	ErrUserGone = apperror.New(
		apperror.CodeUnauthorized,
		"Account no longer exists",
		http.StatusUnauthorized,
	)

	ErrSuperadminOnly = apperror.New(
		apperror.CodeForbidden,
		"This action requires administrator privileges",
		http.StatusForbidden,
	)

	ErrEmailAlreadyRegistered = apperror.New(
		apperror.CodeConflict,
		"A user with this email already exists",
		http.StatusBadRequest,
	)

	ErrUnreachableEmailDomain = apperror.New(
		apperror.CodeInvalidInput,
		"Email domain cannot receive mail",
		http.StatusBadRequest,
	)

	ErrTokenGenerationFailed = apperror.New(
		apperror.CodeInternalError,
		"Could not generate authentication token",
		http.StatusInternalServerError,
	)
)
