package error

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestErrorCode(t *testing.T) {
	testCases := []struct {
		name     string
		err      error
		expected int
	}{
		{"Missing field sentinel", ErrMissingField, CodeMissingField},
		{"Missing field struct", NewMissingFieldError("donorName"), CodeMissingField},
		{"Below minimum struct", NewBelowMinimumError("hkd", 500, 1000, "HK$10.00"), CodeBelowMinimum},
		{"Unsupported currency", ErrUnsupportedCurrency, CodeUnsupportedCurrency},
		{"Invalid amount", ErrInvalidAmount, CodeInvalidRequest},
		{"Not found", ErrDonationNotFound, CodeDonationNotFound},
		{"Gateway struct", NewGatewayError("session creation", "card declined", 402, nil), CodeGateway},
		{"Persistence struct", NewPersistenceError("insert", "don-1", errors.New("boom")), CodePersistence},
		{"Wrapped validation error", fmt.Errorf("invalid donation: %w", ErrBelowMinimum), CodeBelowMinimum},
		{"Unknown error", errors.New("something else"), CodeInternalServer},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.expected, ErrorCode(tc.err))
		})
	}
}

func TestMissingFieldError(t *testing.T) {
	err := NewMissingFieldError("donorEmail")

	assert.ErrorIs(t, err, ErrMissingField)
	assert.Contains(t, err.Error(), "donorEmail")

	var mfe *MissingFieldError
	assert.ErrorAs(t, err, &mfe)
	assert.Equal(t, "donorEmail", mfe.Field)
	assert.Equal(t, CodeMissingField, mfe.LogFields()["error_code"])
}

func TestBelowMinimumError(t *testing.T) {
	err := NewBelowMinimumError("usd", 100, 200, "US$2.00")

	assert.ErrorIs(t, err, ErrBelowMinimum)
	assert.Contains(t, err.Error(), "US$2.00")

	var bme *BelowMinimumError
	assert.ErrorAs(t, err, &bme)
	assert.Equal(t, int64(200), bme.Minimum)
	assert.Equal(t, int64(100), bme.Amount)
}

func TestGatewayError(t *testing.T) {
	underlying := errors.New("connection refused")
	err := NewGatewayError("customer lookup", "request failed", 0, underlying)

	assert.ErrorIs(t, err, ErrGateway)
	assert.ErrorIs(t, err, underlying)
	assert.Contains(t, err.Error(), "customer lookup")

	withStatus := NewGatewayError("session creation", "invalid currency", 400, nil)
	assert.Contains(t, withStatus.Error(), "status 400")
}

func TestPersistenceError(t *testing.T) {
	underlying := errors.New("duplicate key")
	err := NewPersistenceError("insert", "don-42", underlying)

	assert.ErrorIs(t, err, ErrPersistence)
	assert.ErrorIs(t, err, underlying)
	assert.Contains(t, err.Error(), "don-42")
}

func TestErrorPredicates(t *testing.T) {
	assert.True(t, IsValidationError(NewMissingFieldError("amount")))
	assert.True(t, IsValidationError(NewBelowMinimumError("hkd", 1, 1000, "HK$10.00")))
	assert.True(t, IsValidationError(ErrUnsupportedCurrency))
	assert.False(t, IsValidationError(ErrDonationNotFound))

	assert.True(t, IsGatewayError(NewGatewayError("session creation", "boom", 500, nil)))
	assert.False(t, IsGatewayError(ErrPersistence))

	assert.True(t, IsPersistenceError(NewPersistenceError("settle", "", errors.New("x"))))
	assert.True(t, IsPersistenceError(ErrDatabaseConnection))

	assert.True(t, IsNotFoundError(ErrDonationNotFound))
	assert.False(t, IsNotFoundError(ErrGateway))
}
