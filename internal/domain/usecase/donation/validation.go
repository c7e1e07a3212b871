package donation

import (
	"strings"

	"github.com/donkey-king-kong/CTGHackathon-25-Team11-sub001/internal/domain/entity"
	errs "github.com/donkey-king-kong/CTGHackathon-25-Team11-sub001/internal/domain/error"
)

// CreateDonationRequest is the input for opening a new donation
type CreateDonationRequest struct {
	DonorName  string
	DonorEmail string
	Amount     int64  // minor currency units
	Currency   string // optional, defaults to entity.DefaultCurrency
	Message    string // optional
}

// Validator checks donation requests before anything is persisted.
// Pure and deterministic; safe to call repeatedly.
type Validator struct{}

// NewValidator creates a new Validator
func NewValidator() *Validator {
	return &Validator{}
}

// Normalize trims donor fields and resolves the currency default.
// Called before Validate so the minimum table sees the final currency.
func (v *Validator) Normalize(req CreateDonationRequest) CreateDonationRequest {
	req.DonorName = strings.TrimSpace(req.DonorName)
	req.DonorEmail = strings.TrimSpace(req.DonorEmail)
	req.Currency = entity.NormalizeCurrency(req.Currency)
	req.Message = strings.TrimSpace(req.Message)
	return req
}

// Validate checks request shape and the currency-specific minimum amount
func (v *Validator) Validate(req CreateDonationRequest) error {
	if req.DonorName == "" {
		return errs.NewMissingFieldError("donorName")
	}
	if req.DonorEmail == "" {
		return errs.NewMissingFieldError("donorEmail")
	}
	if req.Amount == 0 {
		return errs.NewMissingFieldError("amount")
	}
	if req.Amount < 0 {
		return errs.ErrInvalidAmount
	}

	minimum, ok := entity.MinimumFor(req.Currency)
	if !ok {
		return errs.ErrUnsupportedCurrency
	}
	if req.Amount < minimum {
		return errs.NewBelowMinimumError(
			req.Currency,
			req.Amount,
			minimum,
			entity.FormatAmount(req.Currency, minimum),
		)
	}

	return nil
}
