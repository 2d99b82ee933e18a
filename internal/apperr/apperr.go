// Package apperr defines the error taxonomy shared by the ledger, the balance
// engine and the RPC layer.
package apperr

import (
	"errors"
	"fmt"
)

// Reason narrows down why a validation or authorization check failed.
type Reason string

const (
	// Validation reasons.
	InvalidAmount         Reason = "invalid_amount"
	EmptyParticipants     Reason = "empty_participants"
	NonMember             Reason = "non_member"
	NonPositiveSettlement Reason = "non_positive_settlement"
	SelfSettlement        Reason = "self_settlement"
	DuplicateParticipant  Reason = "duplicate_participant"
	SplitMismatch         Reason = "split_mismatch"
	OwnerRemoval          Reason = "owner_removal"
	LastMember            Reason = "last_member"
	OutstandingBalance    Reason = "outstanding_balance"
	AlreadyMember         Reason = "already_member"
	MissingField          Reason = "missing_field"
	InvalidKind           Reason = "invalid_kind"
	ConflictingSplit      Reason = "conflicting_split"

	// Authorization reasons.
	NotPayer  Reason = "not_payer"
	NotOwner  Reason = "not_owner"
	NotMember Reason = "not_member"
)

// ValidationError is a user-correctable input problem.
type ValidationError struct {
	Reason Reason
	Detail string
}

func (e *ValidationError) Error() string {
	if e.Detail == "" {
		return fmt.Sprintf("validation failed: %s", e.Reason)
	}
	return fmt.Sprintf("validation failed: %s: %s", e.Reason, e.Detail)
}

// AuthorizationError means the caller may not perform the operation.
type AuthorizationError struct {
	Reason Reason
	Detail string
}

func (e *AuthorizationError) Error() string {
	if e.Detail == "" {
		return fmt.Sprintf("permission denied: %s", e.Reason)
	}
	return fmt.Sprintf("permission denied: %s: %s", e.Reason, e.Detail)
}

// NotFoundError reports a missing group, expense or user.
type NotFoundError struct {
	Resource string
	ID       string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s not found: %s", e.Resource, e.ID)
}

// DataIntegrityError reports a stored record the balance engine refuses to fold.
type DataIntegrityError struct {
	ExpenseID string
	Detail    string
}

func (e *DataIntegrityError) Error() string {
	return fmt.Sprintf("data integrity violation in expense %s: %s", e.ExpenseID, e.Detail)
}

// Validation builds a ValidationError.
func Validation(reason Reason, format string, args ...any) error {
	return &ValidationError{Reason: reason, Detail: fmt.Sprintf(format, args...)}
}

// Forbidden builds an AuthorizationError.
func Forbidden(reason Reason, format string, args ...any) error {
	return &AuthorizationError{Reason: reason, Detail: fmt.Sprintf(format, args...)}
}

// NotFound builds a NotFoundError.
func NotFound(resource, id string) error {
	return &NotFoundError{Resource: resource, ID: id}
}

// ReasonOf returns the reason carried by a validation or authorization error,
// or the empty reason.
func ReasonOf(err error) Reason {
	var ve *ValidationError
	if errors.As(err, &ve) {
		return ve.Reason
	}
	var ae *AuthorizationError
	if errors.As(err, &ae) {
		return ae.Reason
	}
	return ""
}

// IsNotFound reports whether err is, or wraps, a NotFoundError.
func IsNotFound(err error) bool {
	var nf *NotFoundError
	return errors.As(err, &nf)
}
