package errors

import (
	"errors"
	"net/http"
	"testing"

	"github.com/go-playground/validator/v10"
	"github.com/stretchr/testify/assert"
)

func TestFromErrorWrapsUnknown(t *testing.T) {
	err := FromError(errors.New("connection refused"))
	assert.Equal(t, ErrInternal.Code, err.Code)
	assert.Equal(t, http.StatusInternalServerError, err.Status)
	assert.EqualError(t, err, "internal server error: connection refused")
}

func TestCloneMatchesSentinel(t *testing.T) {
	err := Clone(ErrNotFound, "leave application not found")
	assert.True(t, errors.Is(err, ErrNotFound))
	assert.False(t, errors.Is(err, ErrValidation))
	assert.Equal(t, "resource not found", ErrNotFound.Message)
}

func TestValidationNamesField(t *testing.T) {
	type payload struct {
		Status string `validate:"required,oneof=Approved Rejected"`
	}
	v := validator.New()

	err := Validation(v.Struct(payload{}), "invalid payload")
	assert.Equal(t, "Status is required", err.Message)

	err = Validation(v.Struct(payload{Status: "Maybe"}), "invalid payload")
	assert.Equal(t, "Status must be one of: Approved, Rejected", err.Message)
	assert.True(t, errors.Is(err, ErrValidation))
}

func TestValidationFallback(t *testing.T) {
	err := Validation(errors.New("boom"), "invalid payload")
	assert.Equal(t, "invalid payload", err.Message)
	assert.Equal(t, http.StatusBadRequest, err.Status)
}
