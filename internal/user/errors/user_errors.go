package usererrors

import (
	"net/http"

	"github.com/regtech-horizon/regtech-backend/internal/shared/apperror"
)

var (
	ErrUserNotFound = apperror.New(
		apperror.CodeNotFound,
		"User not found",
		http.StatusNotFound,
	)

	ErrEmailAlreadyRegistered = apperror.New(
		apperror.CodeConflict,
		"A user with this email already exists",
		http.StatusBadRequest,
	)

	ErrEmailImmutable = apperror.New(
		apperror.CodeInvalidInput,
		"Email address cannot be changed",
		http.StatusBadRequest,
	)

	ErrUserInactive = apperror.New(
		apperror.CodeForbidden,
		"User account is inactive",
		http.StatusForbidden,
	)
)
