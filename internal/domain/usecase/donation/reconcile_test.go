package donation

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/donkey-king-kong/CTGHackathon-25-Team11-sub001/internal/domain/entity"
	errs "github.com/donkey-king-kong/CTGHackathon-25-Team11-sub001/internal/domain/error"
	"github.com/donkey-king-kong/CTGHackathon-25-Team11-sub001/internal/domain/port/payment"
	mpay "github.com/donkey-king-kong/CTGHackathon-25-Team11-sub001/mocks/port/payment"
	mpers "github.com/donkey-king-kong/CTGHackathon-25-Team11-sub001/mocks/port/persistence"
)

func pendingRecord(id, sessionRef string) *entity.DonationRecord {
	return &entity.DonationRecord{
		ID:            id,
		DonorName:     "Jane Chan",
		DonorEmail:    "jane@example.com",
		Amount:        1000,
		Currency:      "hkd",
		Status:        entity.StatusPending,
		LivesImpacted: 1,
		SessionRef:    sessionRef,
	}
}

func TestReconcileSucceededSettlesRecord(t *testing.T) {
	repo := new(mpers.MockDonationRepository)
	gateway := new(mpay.MockGateway)
	svc := newTestService(repo, gateway)

	settled := pendingRecord("don-1", "cs_1")
	settled.Status = entity.StatusSettled

	repo.On("GetBySessionRef", mock.Anything, "cs_1").Return(pendingRecord("don-1", "cs_1"), nil)
	repo.On("Settle", mock.Anything, "don-1", entity.StatusSettled).Return(nil)
	repo.On("GetByID", mock.Anything, "don-1").Return(settled, nil)

	record, err := svc.Reconcile(context.Background(), "cs_1", OutcomeSucceeded)

	require.NoError(t, err)
	assert.Equal(t, entity.StatusSettled, record.Status)
	repo.AssertExpectations(t)
}

func TestReconcileCancelledFailsRecord(t *testing.T) {
	repo := new(mpers.MockDonationRepository)
	gateway := new(mpay.MockGateway)
	svc := newTestService(repo, gateway)

	failed := pendingRecord("don-1", "cs_1")
	failed.Status = entity.StatusFailed

	repo.On("GetBySessionRef", mock.Anything, "cs_1").Return(pendingRecord("don-1", "cs_1"), nil)
	repo.On("Settle", mock.Anything, "don-1", entity.StatusFailed).Return(nil)
	repo.On("GetByID", mock.Anything, "don-1").Return(failed, nil)

	record, err := svc.Reconcile(context.Background(), "cs_1", OutcomeCancelled)

	require.NoError(t, err)
	assert.Equal(t, entity.StatusFailed, record.Status)
}

func TestReconcileDuplicateDeliveryIsNoOp(t *testing.T) {
	repo := new(mpers.MockDonationRepository)
	gateway := new(mpay.MockGateway)
	svc := newTestService(repo, gateway)

	terminal := pendingRecord("don-1", "cs_1")
	terminal.Status = entity.StatusSettled

	repo.On("GetBySessionRef", mock.Anything, "cs_1").Return(terminal, nil)

	record, err := svc.Reconcile(context.Background(), "cs_1", OutcomeSucceeded)

	require.NoError(t, err)
	assert.Equal(t, entity.StatusSettled, record.Status)
	repo.AssertNotCalled(t, "Settle", mock.Anything, mock.Anything, mock.Anything)
}

func TestReconcileRecoversLinkFromSessionMetadata(t *testing.T) {
	repo := new(mpers.MockDonationRepository)
	gateway := new(mpay.MockGateway)
	svc := newTestService(repo, gateway)

	settled := pendingRecord("don-9", "cs_9")
	settled.Status = entity.StatusSettled

	repo.On("GetBySessionRef", mock.Anything, "cs_9").Return(nil, errs.ErrDonationNotFound)
	gateway.On("GetCheckoutSession", mock.Anything, "cs_9").Return(&payment.CheckoutSession{
		ID: "cs_9",
		Metadata: map[string]string{
			payment.MetadataDonationID: "don-9",
		},
	}, nil)
	repo.On("GetByID", mock.Anything, "don-9").Return(pendingRecord("don-9", ""), nil).Once()
	repo.On("AttachSessionRef", mock.Anything, "don-9", "cs_9").Return(nil)
	repo.On("Settle", mock.Anything, "don-9", entity.StatusSettled).Return(nil)
	repo.On("GetByID", mock.Anything, "don-9").Return(settled, nil).Once()

	record, err := svc.Reconcile(context.Background(), "cs_9", OutcomeSucceeded)

	require.NoError(t, err)
	assert.Equal(t, entity.StatusSettled, record.Status)
	repo.AssertExpectations(t)
	gateway.AssertExpectations(t)
}

func TestReconcileRecoveryWithoutMetadataFails(t *testing.T) {
	repo := new(mpers.MockDonationRepository)
	gateway := new(mpay.MockGateway)
	svc := newTestService(repo, gateway)

	repo.On("GetBySessionRef", mock.Anything, "cs_9").Return(nil, errs.ErrDonationNotFound)
	gateway.On("GetCheckoutSession", mock.Anything, "cs_9").Return(&payment.CheckoutSession{
		ID:       "cs_9",
		Metadata: map[string]string{},
	}, nil)

	record, err := svc.Reconcile(context.Background(), "cs_9", OutcomeSucceeded)

	require.Error(t, err)
	assert.Nil(t, record)
	assert.ErrorIs(t, err, errs.ErrDonationNotFound)
	repo.AssertNotCalled(t, "Settle", mock.Anything, mock.Anything, mock.Anything)
}

func TestReconcileRequiresSessionRef(t *testing.T) {
	svc := newTestService(new(mpers.MockDonationRepository), new(mpay.MockGateway))

	record, err := svc.Reconcile(context.Background(), "", OutcomeSucceeded)

	require.Error(t, err)
	assert.Nil(t, record)
	assert.ErrorIs(t, err, errs.ErrInvalidRequest)
}

func TestReconcileRejectsUnknownOutcome(t *testing.T) {
	svc := newTestService(new(mpers.MockDonationRepository), new(mpay.MockGateway))

	record, err := svc.Reconcile(context.Background(), "cs_1", Outcome("refunded"))

	require.Error(t, err)
	assert.Nil(t, record)
	assert.ErrorIs(t, err, errs.ErrInvalidRequest)
}

func TestGetDonation(t *testing.T) {
	repo := new(mpers.MockDonationRepository)
	svc := newTestService(repo, new(mpay.MockGateway))

	repo.On("GetByID", mock.Anything, "don-1").Return(pendingRecord("don-1", ""), nil)

	record, err := svc.GetDonation(context.Background(), "don-1")

	require.NoError(t, err)
	assert.Equal(t, "don-1", record.ID)

	_, err = svc.GetDonation(context.Background(), "")
	assert.ErrorIs(t, err, errs.ErrInvalidRequest)
}

func TestListDonationsClampsLimit(t *testing.T) {
	repo := new(mpers.MockDonationRepository)
	svc := newTestService(repo, new(mpay.MockGateway))

	repo.On("ListByStatus", mock.Anything, entity.StatusSettled, 50).
		Return([]*entity.DonationRecord{}, nil)

	_, err := svc.ListDonations(context.Background(), entity.StatusSettled, 0)
	require.NoError(t, err)

	_, err = svc.ListDonations(context.Background(), entity.StatusSettled, 500)
	require.NoError(t, err)

	repo.AssertNumberOfCalls(t, "ListByStatus", 2)
}
