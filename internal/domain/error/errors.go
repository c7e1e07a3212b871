package error

import (
	"errors"
	"fmt"
)

// Error codes for standardized API responses
const (
	// 4xxx - Client errors
	CodeMissingField        = 4001
	CodeBelowMinimum        = 4002
	CodeUnsupportedCurrency = 4003
	CodeInvalidRequest      = 4004
	CodeDonationNotFound    = 4040

	// 5xxx - Server errors
	CodeInternalServer = 5000
	CodePersistence    = 5001
	CodeGateway        = 5020
)

// Base error types
var (
	// ErrMissingField is returned when a required donation field is absent
	ErrMissingField = errors.New("required field is missing")

	// ErrBelowMinimum is returned when the donation amount is below the currency minimum
	ErrBelowMinimum = errors.New("amount is below the minimum donation")

	// ErrUnsupportedCurrency is returned when the currency is not in the supported set
	ErrUnsupportedCurrency = errors.New("unsupported currency")

	// ErrInvalidAmount is returned when the amount is zero or negative
	ErrInvalidAmount = errors.New("amount must be a positive number of minor units")

	// ErrDonationNotFound is returned when the requested donation doesn't exist
	ErrDonationNotFound = errors.New("donation not found")

	// ErrDuplicateSessionRef is returned when a checkout session is already linked to another donation
	ErrDuplicateSessionRef = errors.New("checkout session already attached to a donation")

	// ErrPersistence is returned when the ledger store fails
	ErrPersistence = errors.New("ledger persistence error")

	// ErrGateway is returned when the payment processor rejects or fails a call
	ErrGateway = errors.New("payment gateway error")

	// ErrInvalidRequest is returned when the request format is invalid
	ErrInvalidRequest = errors.New("invalid request")

	// ErrInternalServer is returned for unexpected server-side errors
	ErrInternalServer = errors.New("internal server error")

	// ErrDatabaseConnection is returned when there's a problem connecting to the database
	ErrDatabaseConnection = errors.New("database connection error")
)

// ErrorCode returns standardized error codes for known errors
func ErrorCode(err error) int {
	switch {
	case errors.Is(err, ErrMissingField):
		return CodeMissingField
	case errors.Is(err, ErrBelowMinimum):
		return CodeBelowMinimum
	case errors.Is(err, ErrUnsupportedCurrency):
		return CodeUnsupportedCurrency
	case errors.Is(err, ErrInvalidAmount):
		return CodeInvalidRequest
	case errors.Is(err, ErrInvalidRequest):
		return CodeInvalidRequest
	case errors.Is(err, ErrDonationNotFound):
		return CodeDonationNotFound
	case errors.Is(err, ErrGateway):
		return CodeGateway
	case errors.Is(err, ErrPersistence), errors.Is(err, ErrDatabaseConnection):
		return CodePersistence
	default:
		return CodeInternalServer
	}
}

// MissingFieldError reports which required donation field was absent
type MissingFieldError struct {
	Field string
}

// Error implements the error interface
func (e *MissingFieldError) Error() string {
	return fmt.Sprintf("required field is missing: %s", e.Field)
}

// Is checks if the target error is an ErrMissingField
func (e *MissingFieldError) Is(target error) bool {
	return target == ErrMissingField
}

// LogFields returns a map of fields for structured logging
func (e *MissingFieldError) LogFields() map[string]any {
	return map[string]any{
		"error_type": "missing_field",
		"field":      e.Field,
		"error_code": CodeMissingField,
	}
}

// NewMissingFieldError creates a new missing field error
func NewMissingFieldError(field string) error {
	return &MissingFieldError{Field: field}
}

// BelowMinimumError reports a donation amount under the currency minimum
type BelowMinimumError struct {
	Currency string
	Amount   int64 // requested amount in minor units
	Minimum  int64 // required minimum in minor units
	Display  string
}

// Error implements the error interface
func (e *BelowMinimumError) Error() string {
	return fmt.Sprintf("minimum donation is %s: got %d %s minor units", e.Display, e.Amount, e.Currency)
}

// Is checks if the target error is an ErrBelowMinimum
func (e *BelowMinimumError) Is(target error) bool {
	return target == ErrBelowMinimum
}

// LogFields returns a map of fields for structured logging
func (e *BelowMinimumError) LogFields() map[string]any {
	return map[string]any{
		"error_type": "below_minimum",
		"currency":   e.Currency,
		"amount":     e.Amount,
		"minimum":    e.Minimum,
		"error_code": CodeBelowMinimum,
	}
}

// NewBelowMinimumError creates a new below-minimum error with a human-readable minimum
func NewBelowMinimumError(currency string, amount, minimum int64, display string) error {
	return &BelowMinimumError{
		Currency: currency,
		Amount:   amount,
		Minimum:  minimum,
		Display:  display,
	}
}

// GatewayError represents a failure reported by the payment processor
type GatewayError struct {
	Op         string // which gateway call failed
	Message    string // the processor's message
	StatusCode int    // HTTP status from the processor, 0 when the call never completed
	Err        error
}

// Error implements the error interface
func (e *GatewayError) Error() string {
	if e.StatusCode != 0 {
		return fmt.Sprintf("payment gateway %s failed (status %d): %s", e.Op, e.StatusCode, e.Message)
	}
	return fmt.Sprintf("payment gateway %s failed: %s", e.Op, e.Message)
}

// Is checks if the target error is an ErrGateway
func (e *GatewayError) Is(target error) bool {
	return target == ErrGateway
}

// Unwrap returns the underlying error
func (e *GatewayError) Unwrap() error {
	return e.Err
}

// LogFields returns a map of fields for structured logging
func (e *GatewayError) LogFields() map[string]any {
	fields := map[string]any{
		"error_type":  "gateway_error",
		"operation":   e.Op,
		"message":     e.Message,
		"status_code": e.StatusCode,
		"error_code":  CodeGateway,
	}
	if e.Err != nil {
		fields["error"] = e.Err.Error()
	}
	return fields
}

// NewGatewayError creates a new gateway error
func NewGatewayError(op, message string, statusCode int, err error) error {
	return &GatewayError{
		Op:         op,
		Message:    message,
		StatusCode: statusCode,
		Err:        err,
	}
}

// PersistenceError represents a ledger store failure with operation context
type PersistenceError struct {
	Op         string
	DonationID string
	Err        error
}

// Error implements the error interface
func (e *PersistenceError) Error() string {
	if e.DonationID != "" {
		return fmt.Sprintf("ledger %s failed for donation %s: %v", e.Op, e.DonationID, e.Err)
	}
	return fmt.Sprintf("ledger %s failed: %v", e.Op, e.Err)
}

// Is checks if the target error is an ErrPersistence
func (e *PersistenceError) Is(target error) bool {
	return target == ErrPersistence
}

// Unwrap returns the underlying error
func (e *PersistenceError) Unwrap() error {
	return e.Err
}

// LogFields returns a map of fields for structured logging
func (e *PersistenceError) LogFields() map[string]any {
	return map[string]any{
		"error_type":  "persistence_error",
		"operation":   e.Op,
		"donation_id": e.DonationID,
		"error":       e.Err.Error(),
		"error_code":  CodePersistence,
	}
}

// NewPersistenceError creates a new persistence error
func NewPersistenceError(op, donationID string, err error) error {
	return &PersistenceError{
		Op:         op,
		DonationID: donationID,
		Err:        err,
	}
}

// IsValidationError checks if the error is a client input fault
func IsValidationError(err error) bool {
	return errors.Is(err, ErrMissingField) ||
		errors.Is(err, ErrBelowMinimum) ||
		errors.Is(err, ErrUnsupportedCurrency) ||
		errors.Is(err, ErrInvalidAmount)
}

// IsGatewayError checks if the error came from the payment processor
func IsGatewayError(err error) bool {
	return errors.Is(err, ErrGateway)
}

// IsPersistenceError checks if the error came from the ledger store
func IsPersistenceError(err error) bool {
	return errors.Is(err, ErrPersistence) || errors.Is(err, ErrDatabaseConnection)
}

// IsNotFoundError checks if the error is a "not found" type of error
func IsNotFoundError(err error) bool {
	return errors.Is(err, ErrDonationNotFound)
}
