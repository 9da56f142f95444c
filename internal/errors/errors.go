package errors

import (
	stderrors "errors"
	"fmt"
)

type ValidationDetail struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

type ValidationError struct {
	Message string
	Details []ValidationDetail
}

func (e *ValidationError) Error() string {
	return e.Message
}

func NewValidationError(message string, details ...ValidationDetail) *ValidationError {
	return &ValidationError{
		Message: message,
		Details: details,
	}
}

func IsValidationError(err error) (*ValidationError, bool) {
	var ve *ValidationError
	if stderrors.As(err, &ve) {
		return ve, true
	}
	return nil, false
}

type NotFoundError struct {
	Message string
}

func (e *NotFoundError) Error() string {
	return e.Message
}

func NewNotFoundError(message string) *NotFoundError {
	return &NotFoundError{Message: message}
}

func IsNotFoundError(err error) (*NotFoundError, bool) {
	var nfe *NotFoundError
	if stderrors.As(err, &nfe) {
		return nfe, true
	}
	return nil, false
}

// CodeDuplicateID is the conflict code for a create whose id is already taken.
const CodeDuplicateID = "DUPLICATE_ID"

// IsDuplicateID reports whether err rejected a create because the id exists.
func IsDuplicateID(err error) bool {
	ce, ok := IsConflictError(err)
	return ok && ce.Code == CodeDuplicateID
}

// ConflictError reports a write rejected because of the current state of the
// ledger: an overbooked item or a transition not allowed from the current status.
type ConflictError struct {
	Code    string
	Message string
	IDs     []string
}

func (e *ConflictError) Error() string {
	return e.Message
}

func NewConflictError(code, message string, ids ...string) *ConflictError {
	return &ConflictError{
		Code:    code,
		Message: message,
		IDs:     ids,
	}
}

func IsConflictError(err error) (*ConflictError, bool) {
	var ce *ConflictError
	if stderrors.As(err, &ce) {
		return ce, true
	}
	return nil, false
}

type ForbiddenError struct {
	Message string
}

func (e *ForbiddenError) Error() string {
	return e.Message
}

func NewForbiddenError(message string) *ForbiddenError {
	return &ForbiddenError{Message: message}
}

func IsForbiddenError(err error) (*ForbiddenError, bool) {
	var fe *ForbiddenError
	if stderrors.As(err, &fe) {
		return fe, true
	}
	return nil, false
}

// PreconditionError blocks an operation until the operator fixes something,
// e.g. a pickup attempted on an unsigned contract.
type PreconditionError struct {
	Code    string
	Message string
}

func (e *PreconditionError) Error() string {
	return e.Message
}

func NewPreconditionError(code, message string) *PreconditionError {
	return &PreconditionError{
		Code:    code,
		Message: message,
	}
}

func IsPreconditionError(err error) (*PreconditionError, bool) {
	var pe *PreconditionError
	if stderrors.As(err, &pe) {
		return pe, true
	}
	return nil, false
}

type DeadlockError struct {
	Message string
}

func (e *DeadlockError) Error() string {
	return e.Message
}

func NewDeadlockError(message string) *DeadlockError {
	return &DeadlockError{Message: message}
}

func IsDeadlockError(err error) (*DeadlockError, bool) {
	var de *DeadlockError
	if stderrors.As(err, &de) {
		return de, true
	}
	return nil, false
}

type InternalError struct {
	Message string
	Cause   error
}

func (e *InternalError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Cause)
	}
	return e.Message
}

func (e *InternalError) Unwrap() error {
	return e.Cause
}

func NewInternalError(message string, cause error) *InternalError {
	return &InternalError{
		Message: message,
		Cause:   cause,
	}
}
