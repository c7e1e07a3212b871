package donation

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	errs "github.com/donkey-king-kong/CTGHackathon-25-Team11-sub001/internal/domain/error"
)

func validRequest() CreateDonationRequest {
	return CreateDonationRequest{
		DonorName:  "Jane Chan",
		DonorEmail: "jane@example.com",
		Amount:     1000,
		Currency:   "hkd",
	}
}

func TestNormalize(t *testing.T) {
	v := NewValidator()

	req := v.Normalize(CreateDonationRequest{
		DonorName:  "  Jane Chan  ",
		DonorEmail: " jane@example.com ",
		Amount:     1000,
		Currency:   "",
		Message:    "  keep going  ",
	})

	assert.Equal(t, "Jane Chan", req.DonorName)
	assert.Equal(t, "jane@example.com", req.DonorEmail)
	assert.Equal(t, "hkd", req.Currency)
	assert.Equal(t, "keep going", req.Message)
}

func TestNormalizeUppercaseCurrency(t *testing.T) {
	v := NewValidator()

	req := v.Normalize(CreateDonationRequest{Currency: " USD "})

	assert.Equal(t, "usd", req.Currency)
}

func TestValidateMissingFields(t *testing.T) {
	v := NewValidator()

	testCases := []struct {
		name   string
		mutate func(*CreateDonationRequest)
		field  string
	}{
		{"Missing donor name", func(r *CreateDonationRequest) { r.DonorName = "" }, "donorName"},
		{"Missing donor email", func(r *CreateDonationRequest) { r.DonorEmail = "" }, "donorEmail"},
		{"Missing amount", func(r *CreateDonationRequest) { r.Amount = 0 }, "amount"},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			req := validRequest()
			tc.mutate(&req)

			err := v.Validate(req)

			require.Error(t, err)
			assert.ErrorIs(t, err, errs.ErrMissingField)

			var mfe *errs.MissingFieldError
			require.ErrorAs(t, err, &mfe)
			assert.Equal(t, tc.field, mfe.Field)
		})
	}
}

func TestValidateNegativeAmount(t *testing.T) {
	v := NewValidator()
	req := validRequest()
	req.Amount = -500

	err := v.Validate(req)

	assert.ErrorIs(t, err, errs.ErrInvalidAmount)
}

func TestValidateUnsupportedCurrency(t *testing.T) {
	v := NewValidator()
	req := validRequest()
	req.Currency = "eur"
	req.Amount = 100000

	err := v.Validate(req)

	assert.ErrorIs(t, err, errs.ErrUnsupportedCurrency)
}

func TestValidateMinimums(t *testing.T) {
	v := NewValidator()

	testCases := []struct {
		name     string
		currency string
		amount   int64
		wantErr  bool
	}{
		{"HKD below minimum", "hkd", 999, true},
		{"HKD at minimum", "hkd", 1000, false},
		{"HKD above minimum", "hkd", 250000, false},
		{"USD below minimum", "usd", 199, true},
		{"USD at minimum", "usd", 200, false},
		{"USD above minimum", "usd", 5000, false},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			req := validRequest()
			req.Currency = tc.currency
			req.Amount = tc.amount

			err := v.Validate(req)

			if tc.wantErr {
				require.Error(t, err)
				assert.ErrorIs(t, err, errs.ErrBelowMinimum)

				var bme *errs.BelowMinimumError
				require.ErrorAs(t, err, &bme)
				assert.Equal(t, tc.currency, bme.Currency)
				assert.Equal(t, tc.amount, bme.Amount)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestValidateBelowMinimumDisplay(t *testing.T) {
	v := NewValidator()
	req := validRequest()
	req.Currency = "hkd"
	req.Amount = 100

	err := v.Validate(req)

	require.Error(t, err)
	var bme *errs.BelowMinimumError
	require.ErrorAs(t, err, &bme)
	assert.Equal(t, "HK$10.00", bme.Display)
}

func TestValidateDefaultCurrencyAppliedByNormalize(t *testing.T) {
	v := NewValidator()
	req := v.Normalize(CreateDonationRequest{
		DonorName:  "Jane Chan",
		DonorEmail: "jane@example.com",
		Amount:     1000,
	})

	assert.NoError(t, v.Validate(req))
	assert.Equal(t, "hkd", req.Currency)
}
