package errors

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNotFoundError_Creation(t *testing.T) {
	message := "contract not found"
	err := NewNotFoundError(message)

	assert.NotNil(t, err)
	assert.Equal(t, message, err.Message)
	assert.Equal(t, message, err.Error())
}

func TestNotFoundError_IsNotFoundError(t *testing.T) {
	err := NewNotFoundError("test not found")

	notFoundErr, ok := IsNotFoundError(err)
	assert.True(t, ok)
	assert.NotNil(t, notFoundErr)
	assert.Equal(t, "test not found", notFoundErr.Message)
}

func TestNotFoundError_IsNotFoundError_WithOtherError(t *testing.T) {
	err := errors.New("some other error")

	notFoundErr, ok := IsNotFoundError(err)
	assert.False(t, ok)
	assert.Nil(t, notFoundErr)
}

func TestNotFoundError_Wrapped(t *testing.T) {
	err := fmt.Errorf("loading item: %w", NewNotFoundError("item x not found"))

	nfe, ok := IsNotFoundError(err)
	assert.True(t, ok)
	assert.Equal(t, "item x not found", nfe.Message)
}

func TestValidationError_Creation(t *testing.T) {
	message := "validation failed"
	details := []ValidationDetail{
		{Field: "startDate", Message: "required field"},
		{Field: "items", Message: "must not be empty"},
	}

	err := NewValidationError(message, details...)

	assert.NotNil(t, err)
	assert.Equal(t, message, err.Message)
	assert.Equal(t, message, err.Error())
	assert.Len(t, err.Details, 2)
}

func TestConflictError_CarriesCodeAndIDs(t *testing.T) {
	err := NewConflictError("ITEM_UNAVAILABLE", "items unavailable", "a", "b")

	ce, ok := IsConflictError(err)
	assert.True(t, ok)
	assert.Equal(t, "ITEM_UNAVAILABLE", ce.Code)
	assert.Equal(t, []string{"a", "b"}, ce.IDs)
	assert.Equal(t, "items unavailable", err.Error())
}

func TestIsDuplicateID(t *testing.T) {
	dup := NewConflictError(CodeDuplicateID, "notification n1 already exists", "n1")

	assert.True(t, IsDuplicateID(dup))
	assert.True(t, IsDuplicateID(fmt.Errorf("persisting: %w", dup)))
	assert.False(t, IsDuplicateID(NewConflictError("ITEM_UNAVAILABLE", "taken")))
	assert.False(t, IsDuplicateID(errors.New("boom")))
	assert.False(t, IsDuplicateID(nil))
}

func TestPreconditionError_Distinguishable(t *testing.T) {
	var err error = NewPreconditionError("SIGNATURE_REQUIRED", "contract must be signed")

	pe, ok := IsPreconditionError(err)
	assert.True(t, ok)
	assert.Equal(t, "SIGNATURE_REQUIRED", pe.Code)

	_, isConflict := IsConflictError(err)
	assert.False(t, isConflict)
	_, isValidation := IsValidationError(err)
	assert.False(t, isValidation)
}

func TestForbiddenAndDeadlock(t *testing.T) {
	_, ok := IsForbiddenError(NewForbiddenError("role"))
	assert.True(t, ok)

	_, ok = IsDeadlockError(NewDeadlockError("max retries exceeded"))
	assert.True(t, ok)
}

func TestInternalError_Creation(t *testing.T) {
	cause := errors.New("database error")
	err := NewInternalError("failed to persist contract", cause)

	assert.NotNil(t, err)
	assert.Equal(t, "failed to persist contract", err.Message)
	assert.Equal(t, cause, err.Cause)
	assert.Contains(t, err.Error(), "failed to persist contract")
	assert.Contains(t, err.Error(), "database error")
}

func TestInternalError_Unwrap(t *testing.T) {
	cause := errors.New("underlying error")
	err := NewInternalError("wrapper", cause)

	assert.Equal(t, cause, err.Unwrap())
	assert.True(t, errors.Is(err, cause))
}

func TestInternalError_NilCause(t *testing.T) {
	err := NewInternalError("no cause", nil)

	assert.Equal(t, "no cause", err.Error())
	assert.Nil(t, err.Unwrap())
}
