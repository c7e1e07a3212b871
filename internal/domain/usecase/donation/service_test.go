package donation

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/donkey-king-kong/CTGHackathon-25-Team11-sub001/internal/domain/entity"
	errs "github.com/donkey-king-kong/CTGHackathon-25-Team11-sub001/internal/domain/error"
	"github.com/donkey-king-kong/CTGHackathon-25-Team11-sub001/internal/domain/port/payment"
	mcore "github.com/donkey-king-kong/CTGHackathon-25-Team11-sub001/mocks/port/core"
	mpay "github.com/donkey-king-kong/CTGHackathon-25-Team11-sub001/mocks/port/payment"
	mpers "github.com/donkey-king-kong/CTGHackathon-25-Team11-sub001/mocks/port/persistence"
)

func newTestService(repo *mpers.MockDonationRepository, gateway *mpay.MockGateway) *Service {
	timeProvider := new(mcore.MockTimeProvider)
	timeProvider.On("Now").Return(time.Date(2025, 9, 1, 12, 0, 0, 0, time.UTC)).Maybe()
	timeProvider.On("WithTimeout", mock.Anything, mock.AnythingOfType("time.Duration")).
		Return(context.Background(), context.CancelFunc(func() {})).Maybe()

	logger := new(mcore.MockLogger)
	logger.On("Debug", mock.Anything, mock.Anything).Maybe()
	logger.On("Info", mock.Anything, mock.Anything).Maybe()
	logger.On("Warn", mock.Anything, mock.Anything).Maybe()
	logger.On("Error", mock.Anything, mock.Anything).Maybe()

	return NewService(repo, gateway, timeProvider, logger, Config{
		PublicBaseURL:  "https://donate.example.org",
		GatewayTimeout: time.Second,
	})
}

func TestCreateDonationNewCustomer(t *testing.T) {
	repo := new(mpers.MockDonationRepository)
	gateway := new(mpay.MockGateway)
	svc := newTestService(repo, gateway)

	var inserted *entity.DonationRecord
	repo.On("Insert", mock.Anything, mock.AnythingOfType("*entity.DonationRecord")).
		Run(func(args mock.Arguments) {
			inserted = args.Get(1).(*entity.DonationRecord)
		}).
		Return(nil)

	gateway.On("FindCustomerByEmail", mock.Anything, "jane@example.com").Return(nil, nil)

	var params payment.SessionParams
	gateway.On("CreateCheckoutSession", mock.Anything, mock.AnythingOfType("payment.SessionParams")).
		Run(func(args mock.Arguments) {
			params = args.Get(1).(payment.SessionParams)
		}).
		Return(&payment.CheckoutSession{
			ID:  "cs_test_123",
			URL: "https://checkout.example.com/cs_test_123",
		}, nil)

	repo.On("AttachSessionRef", mock.Anything, mock.AnythingOfType("string"), "cs_test_123").Return(nil)

	result, err := svc.CreateDonation(context.Background(), CreateDonationRequest{
		DonorName:  "Jane Chan",
		DonorEmail: "jane@example.com",
		Amount:     2500,
		Currency:   "hkd",
	}, "")

	require.NoError(t, err)
	require.NotNil(t, result)
	require.NotNil(t, inserted)

	assert.Equal(t, "https://checkout.example.com/cs_test_123", result.URL)
	assert.Equal(t, inserted.ID, result.DonationID)
	assert.Equal(t, int64(3), result.LivesImpacted)

	assert.Equal(t, entity.StatusPending, inserted.Status)
	assert.Equal(t, int64(2500), inserted.Amount)

	assert.Equal(t, int64(2500), params.Amount)
	assert.Equal(t, "hkd", params.Currency)
	assert.Empty(t, params.CustomerID)
	assert.Equal(t, "jane@example.com", params.CustomerEmail)
	assert.Equal(t, inserted.ID, params.Metadata[payment.MetadataDonationID])
	assert.Equal(t, "Jane Chan", params.Metadata[payment.MetadataDonorName])
	assert.Equal(t, "3", params.Metadata[payment.MetadataLivesImpacted])
	assert.Equal(t, "https://donate.example.org/donation/success?session_id={CHECKOUT_SESSION_ID}", params.SuccessURL)
	assert.Equal(t, "https://donate.example.org/donation/cancelled", params.CancelURL)

	repo.AssertExpectations(t)
	gateway.AssertExpectations(t)
}

func TestCreateDonationExistingCustomer(t *testing.T) {
	repo := new(mpers.MockDonationRepository)
	gateway := new(mpay.MockGateway)
	svc := newTestService(repo, gateway)

	repo.On("Insert", mock.Anything, mock.Anything).Return(nil)
	repo.On("AttachSessionRef", mock.Anything, mock.Anything, mock.Anything).Return(nil)

	gateway.On("FindCustomerByEmail", mock.Anything, "repeat@example.com").
		Return(&payment.Customer{ID: "cus_42", Email: "repeat@example.com"}, nil)

	var params payment.SessionParams
	gateway.On("CreateCheckoutSession", mock.Anything, mock.Anything).
		Run(func(args mock.Arguments) {
			params = args.Get(1).(payment.SessionParams)
		}).
		Return(&payment.CheckoutSession{ID: "cs_1", URL: "https://checkout.example.com/cs_1"}, nil)

	_, err := svc.CreateDonation(context.Background(), CreateDonationRequest{
		DonorName:  "Repeat Donor",
		DonorEmail: "repeat@example.com",
		Amount:     1000,
	}, "")

	require.NoError(t, err)
	assert.Equal(t, "cus_42", params.CustomerID)
	assert.Empty(t, params.CustomerEmail)
}

func TestCreateDonationOriginOverridesBaseURL(t *testing.T) {
	repo := new(mpers.MockDonationRepository)
	gateway := new(mpay.MockGateway)
	svc := newTestService(repo, gateway)

	repo.On("Insert", mock.Anything, mock.Anything).Return(nil)
	repo.On("AttachSessionRef", mock.Anything, mock.Anything, mock.Anything).Return(nil)
	gateway.On("FindCustomerByEmail", mock.Anything, mock.Anything).Return(nil, nil)

	var params payment.SessionParams
	gateway.On("CreateCheckoutSession", mock.Anything, mock.Anything).
		Run(func(args mock.Arguments) {
			params = args.Get(1).(payment.SessionParams)
		}).
		Return(&payment.CheckoutSession{ID: "cs_1", URL: "u"}, nil)

	_, err := svc.CreateDonation(context.Background(), CreateDonationRequest{
		DonorName:  "Jane Chan",
		DonorEmail: "jane@example.com",
		Amount:     1000,
	}, "https://reach.example.hk")

	require.NoError(t, err)
	assert.Equal(t, "https://reach.example.hk/donation/success?session_id={CHECKOUT_SESSION_ID}", params.SuccessURL)
	assert.Equal(t, "https://reach.example.hk/donation/cancelled", params.CancelURL)
}

func TestCreateDonationValidationFailureTouchesNothing(t *testing.T) {
	repo := new(mpers.MockDonationRepository)
	gateway := new(mpay.MockGateway)
	svc := newTestService(repo, gateway)

	result, err := svc.CreateDonation(context.Background(), CreateDonationRequest{
		DonorName:  "Jane Chan",
		DonorEmail: "jane@example.com",
		Amount:     500,
		Currency:   "hkd",
	}, "")

	require.Error(t, err)
	assert.Nil(t, result)
	assert.ErrorIs(t, err, errs.ErrBelowMinimum)

	repo.AssertNotCalled(t, "Insert", mock.Anything, mock.Anything)
	gateway.AssertNotCalled(t, "FindCustomerByEmail", mock.Anything, mock.Anything)
	gateway.AssertNotCalled(t, "CreateCheckoutSession", mock.Anything, mock.Anything)
}

func TestCreateDonationInsertFailureSkipsGateway(t *testing.T) {
	repo := new(mpers.MockDonationRepository)
	gateway := new(mpay.MockGateway)
	svc := newTestService(repo, gateway)

	repo.On("Insert", mock.Anything, mock.Anything).
		Return(errs.NewPersistenceError("insert", "", assert.AnError))

	result, err := svc.CreateDonation(context.Background(), CreateDonationRequest{
		DonorName:  "Jane Chan",
		DonorEmail: "jane@example.com",
		Amount:     1000,
	}, "")

	require.Error(t, err)
	assert.Nil(t, result)
	assert.ErrorIs(t, err, errs.ErrPersistence)

	gateway.AssertNotCalled(t, "FindCustomerByEmail", mock.Anything, mock.Anything)
	gateway.AssertNotCalled(t, "CreateCheckoutSession", mock.Anything, mock.Anything)
}

func TestCreateDonationGatewayFailureLeavesRowPending(t *testing.T) {
	repo := new(mpers.MockDonationRepository)
	gateway := new(mpay.MockGateway)
	svc := newTestService(repo, gateway)

	repo.On("Insert", mock.Anything, mock.Anything).Return(nil)
	gateway.On("FindCustomerByEmail", mock.Anything, mock.Anything).Return(nil, nil)
	gateway.On("CreateCheckoutSession", mock.Anything, mock.Anything).
		Return(nil, errs.NewGatewayError("session creation", "processor unavailable", 503, nil))

	result, err := svc.CreateDonation(context.Background(), CreateDonationRequest{
		DonorName:  "Jane Chan",
		DonorEmail: "jane@example.com",
		Amount:     1000,
	}, "")

	require.Error(t, err)
	assert.Nil(t, result)
	assert.ErrorIs(t, err, errs.ErrGateway)

	// No compensating delete and no session ref on the pending row
	repo.AssertNotCalled(t, "AttachSessionRef", mock.Anything, mock.Anything, mock.Anything)
	gateway.AssertNumberOfCalls(t, "CreateCheckoutSession", 1)
}

func TestCreateDonationCustomerLookupRetriesOnce(t *testing.T) {
	repo := new(mpers.MockDonationRepository)
	gateway := new(mpay.MockGateway)
	svc := newTestService(repo, gateway)

	repo.On("Insert", mock.Anything, mock.Anything).Return(nil)
	repo.On("AttachSessionRef", mock.Anything, mock.Anything, mock.Anything).Return(nil)

	gateway.On("FindCustomerByEmail", mock.Anything, mock.Anything).
		Return(nil, errs.NewGatewayError("customer lookup", "timeout", 0, nil)).Once()
	gateway.On("FindCustomerByEmail", mock.Anything, mock.Anything).
		Return(&payment.Customer{ID: "cus_7"}, nil).Once()
	gateway.On("CreateCheckoutSession", mock.Anything, mock.Anything).
		Return(&payment.CheckoutSession{ID: "cs_1", URL: "u"}, nil)

	_, err := svc.CreateDonation(context.Background(), CreateDonationRequest{
		DonorName:  "Jane Chan",
		DonorEmail: "jane@example.com",
		Amount:     1000,
	}, "")

	require.NoError(t, err)
	gateway.AssertNumberOfCalls(t, "FindCustomerByEmail", 2)
}

func TestCreateDonationCustomerLookupGivesUpAfterTwoAttempts(t *testing.T) {
	repo := new(mpers.MockDonationRepository)
	gateway := new(mpay.MockGateway)
	svc := newTestService(repo, gateway)

	repo.On("Insert", mock.Anything, mock.Anything).Return(nil)
	gateway.On("FindCustomerByEmail", mock.Anything, mock.Anything).
		Return(nil, errs.NewGatewayError("customer lookup", "timeout", 0, nil))

	_, err := svc.CreateDonation(context.Background(), CreateDonationRequest{
		DonorName:  "Jane Chan",
		DonorEmail: "jane@example.com",
		Amount:     1000,
	}, "")

	require.Error(t, err)
	assert.ErrorIs(t, err, errs.ErrGateway)
	gateway.AssertNumberOfCalls(t, "FindCustomerByEmail", 2)
	gateway.AssertNotCalled(t, "CreateCheckoutSession", mock.Anything, mock.Anything)
}

func TestCreateDonationAttachFailureStillSucceeds(t *testing.T) {
	repo := new(mpers.MockDonationRepository)
	gateway := new(mpay.MockGateway)
	svc := newTestService(repo, gateway)

	repo.On("Insert", mock.Anything, mock.Anything).Return(nil)
	repo.On("AttachSessionRef", mock.Anything, mock.Anything, mock.Anything).
		Return(errs.NewPersistenceError("attach_session_ref", "", assert.AnError))

	gateway.On("FindCustomerByEmail", mock.Anything, mock.Anything).Return(nil, nil)
	gateway.On("CreateCheckoutSession", mock.Anything, mock.Anything).
		Return(&payment.CheckoutSession{ID: "cs_1", URL: "https://checkout.example.com/cs_1"}, nil)

	result, err := svc.CreateDonation(context.Background(), CreateDonationRequest{
		DonorName:  "Jane Chan",
		DonorEmail: "jane@example.com",
		Amount:     1000,
	}, "")

	require.NoError(t, err)
	require.NotNil(t, result)
	assert.Equal(t, "https://checkout.example.com/cs_1", result.URL)
}

func TestSessionDescription(t *testing.T) {
	assert.Equal(t, "Donation - supporting 1 child's English learning", sessionDescription(1))
	assert.Equal(t, "Donation - supporting 5 children's English learning", sessionDescription(5))
}
