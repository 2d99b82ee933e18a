package service

import (
	"context"
	"errors"

	"connectrpc.com/connect"
	"github.com/shopspring/decimal"

	"github.com/mmynk/gopayurself/internal/apperr"
	"github.com/mmynk/gopayurself/internal/auth"
	"github.com/mmynk/gopayurself/internal/middleware"
	"github.com/mmynk/gopayurself/internal/money"
)

// toConnectError maps domain errors to Connect codes. Anything unrecognized
// is an internal error.
func toConnectError(err error) error {
	if err == nil {
		return nil
	}

	var connectErr *connect.Error
	if errors.As(err, &connectErr) {
		return connectErr
	}

	var (
		validation    *apperr.ValidationError
		authorization *apperr.AuthorizationError
		notFound      *apperr.NotFoundError
		integrity     *apperr.DataIntegrityError
	)
	switch {
	case errors.As(err, &validation):
		return connect.NewError(connect.CodeInvalidArgument, err)
	case errors.As(err, &authorization):
		return connect.NewError(connect.CodePermissionDenied, err)
	case errors.As(err, &notFound):
		return connect.NewError(connect.CodeNotFound, err)
	case errors.As(err, &integrity):
		return connect.NewError(connect.CodeInternal, err)
	case errors.Is(err, auth.ErrEmailExists):
		return connect.NewError(connect.CodeAlreadyExists, err)
	case errors.Is(err, auth.ErrWeakPassword), errors.Is(err, auth.ErrInvalidEmail):
		return connect.NewError(connect.CodeInvalidArgument, err)
	case errors.Is(err, auth.ErrInvalidCredentials):
		return connect.NewError(connect.CodeUnauthenticated, err)
	case errors.Is(err, context.Canceled):
		return connect.NewError(connect.CodeCanceled, err)
	case errors.Is(err, context.DeadlineExceeded):
		return connect.NewError(connect.CodeDeadlineExceeded, err)
	default:
		return connect.NewError(connect.CodeInternal, err)
	}
}

// callerID returns the authenticated user or an Unauthenticated error.
func callerID(ctx context.Context) (string, error) {
	userID := middleware.GetUserID(ctx)
	if userID == "" {
		return "", connect.NewError(connect.CodeUnauthenticated, auth.ErrMissingToken)
	}
	return userID, nil
}

func requireField(name, value string) error {
	if value == "" {
		return apperr.Validation(apperr.MissingField, "%s is required", name)
	}
	return nil
}

// toCents converts a wire amount, reporting out-of-range values as InvalidAmount.
func toCents(field string, d decimal.Decimal) (money.Cents, error) {
	c, err := money.FromDecimal(d)
	if err != nil {
		return 0, apperr.Validation(apperr.InvalidAmount, "%s: %v", field, err)
	}
	return c, nil
}
