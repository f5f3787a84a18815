package subscriptionerrors

import (
	"net/http"

	"github.com/regtech-horizon/regtech-backend/internal/shared/apperror"
)

var (
	ErrNoSubscription = apperror.New(
		apperror.CodeNotFound,
		"No subscription found",
		http.StatusNotFound,
	)

	ErrAlreadyCancelled = apperror.New(
		apperror.CodeInvalidState,
		"Subscription already cancelled",
		http.StatusBadRequest,
	)

	ErrNotCancelled = apperror.New(
		apperror.CodeInvalidState,
		"Only cancelled subscriptions can be reactivated",
		http.StatusBadRequest,
	)

	ErrInvalidWebhookSignature = apperror.New(
		apperror.CodeForbidden,
		"Invalid webhook signature",
		http.StatusForbidden,
	)

	ErrGatewayVerification = apperror.New(
		apperror.CodeUnprocessable,
		"Transaction could not be verified with the payment gateway",
		http.StatusUnprocessableEntity,
	)
)
