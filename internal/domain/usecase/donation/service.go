package donation

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/donkey-king-kong/CTGHackathon-25-Team11-sub001/internal/domain/entity"
	coreport "github.com/donkey-king-kong/CTGHackathon-25-Team11-sub001/internal/domain/port/core"
	"github.com/donkey-king-kong/CTGHackathon-25-Team11-sub001/internal/domain/port/payment"
	"github.com/donkey-king-kong/CTGHackathon-25-Team11-sub001/internal/domain/port/persistence"
)

// Redirect paths appended to the donor's origin. The success path carries
// the checkout session id back so the client can trigger reconciliation;
// the cancel path is static.
const (
	successRedirectPath = "/donation/success?session_id={CHECKOUT_SESSION_ID}"
	cancelRedirectPath  = "/donation/cancelled"
)

// Config carries orchestrator settings
type Config struct {
	// PublicBaseURL is the redirect origin used when the request carries none
	PublicBaseURL string
	// GatewayTimeout bounds each payment-processor call
	GatewayTimeout time.Duration
}

// CreateDonationResult is returned to the caller on success so it can
// redirect the donor and render the impact figure.
type CreateDonationResult struct {
	URL           string
	DonationID    string
	LivesImpacted int64
}

// Service sequences the donation intake pipeline: validate, insert the
// pending ledger row, open the external checkout session, attach the
// session reference. It also owns the reconciliation entry point.
type Service struct {
	repo         persistence.DonationRepository
	gateway      payment.Gateway
	validator    *Validator
	timeProvider coreport.TimeProvider
	logger       coreport.Logger
	cfg          Config
}

// NewService creates a new donation service
func NewService(
	repo persistence.DonationRepository,
	gateway payment.Gateway,
	timeProvider coreport.TimeProvider,
	logger coreport.Logger,
	cfg Config,
) *Service {
	if cfg.GatewayTimeout <= 0 {
		cfg.GatewayTimeout = 15 * time.Second
	}
	return &Service{
		repo:         repo,
		gateway:      gateway,
		validator:    NewValidator(),
		timeProvider: timeProvider,
		logger:       logger,
		cfg:          cfg,
	}
}

// CreateDonation runs the intake sequence in strict order. Nothing is
// persisted before validation passes and no checkout session is opened
// before the ledger row exists. A gateway failure after the insert leaves
// the row pending without a session; that row is not rolled back.
func (s *Service) CreateDonation(
	ctx context.Context,
	req CreateDonationRequest,
	origin string,
) (*CreateDonationResult, error) {
	req = s.validator.Normalize(req)
	if err := s.validator.Validate(req); err != nil {
		return nil, err
	}

	record := entity.NewDonationRecord(
		req.DonorName,
		req.DonorEmail,
		req.Amount,
		req.Currency,
		req.Message,
		s.timeProvider,
	)

	if err := s.repo.Insert(ctx, record); err != nil {
		s.logger.Error("Failed to insert donation record", map[string]any{
			"donation_id": record.ID,
			"error":       err.Error(),
		})
		return nil, err
	}

	session, err := s.openCheckoutSession(ctx, record, origin)
	if err != nil {
		// The pending row stays behind without a session reference. That is
		// an operational cleanup concern, not something we compensate here.
		s.logger.Error("Failed to open checkout session", map[string]any{
			"donation_id": record.ID,
			"error":       err.Error(),
		})
		return nil, err
	}

	if err := s.repo.AttachSessionRef(ctx, record.ID, session.ID); err != nil {
		// Best-effort: the session exists and the donor must still be
		// redirected. Reconciliation can recover the link from the
		// session's metadata.
		s.logger.Error("Failed to attach session reference", map[string]any{
			"donation_id": record.ID,
			"session_ref": session.ID,
			"error":       err.Error(),
		})
	}

	s.logger.Info("Donation created", map[string]any{
		"donation_id":    record.ID,
		"amount":         record.Amount,
		"currency":       record.Currency,
		"lives_impacted": record.LivesImpacted,
		"session_ref":    session.ID,
	})

	return &CreateDonationResult{
		URL:           session.URL,
		DonationID:    record.ID,
		LivesImpacted: record.LivesImpacted,
	}, nil
}

// openCheckoutSession looks up an existing customer for the donor's email
// and opens a hosted session scoped to the ledger row
func (s *Service) openCheckoutSession(
	ctx context.Context,
	record *entity.DonationRecord,
	origin string,
) (*payment.CheckoutSession, error) {
	customer, err := s.findCustomer(ctx, record.DonorEmail)
	if err != nil {
		return nil, err
	}

	params := payment.SessionParams{
		Amount:      record.Amount,
		Currency:    record.Currency,
		Description: sessionDescription(record.LivesImpacted),
		SuccessURL:  s.redirectBase(origin) + successRedirectPath,
		CancelURL:   s.redirectBase(origin) + cancelRedirectPath,
		Metadata: map[string]string{
			payment.MetadataDonationID:    record.ID,
			payment.MetadataDonorName:     record.DonorName,
			payment.MetadataLivesImpacted: strconv.FormatInt(record.LivesImpacted, 10),
		},
	}
	if customer != nil {
		params.CustomerID = customer.ID
	} else {
		params.CustomerEmail = record.DonorEmail
	}

	tctx, cancel := s.timeProvider.WithTimeout(ctx, s.cfg.GatewayTimeout)
	defer cancel()

	// Session creation is never retried: a duplicate call would open a
	// second external session for the same ledger row.
	return s.gateway.CreateCheckoutSession(tctx, params)
}

// findCustomer performs the lookup with one retry. The lookup is
// idempotent, so a single retry on failure is safe; the first match wins
// when the processor returns more than one.
func (s *Service) findCustomer(ctx context.Context, email string) (*payment.Customer, error) {
	var customer *payment.Customer
	var err error
	for attempt := 0; attempt < 2; attempt++ {
		tctx, cancel := s.timeProvider.WithTimeout(ctx, s.cfg.GatewayTimeout)
		customer, err = s.gateway.FindCustomerByEmail(tctx, email)
		cancel()
		if err == nil {
			return customer, nil
		}
		s.logger.Warn("Customer lookup failed", map[string]any{
			"attempt": attempt + 1,
			"error":   err.Error(),
		})
	}
	return nil, err
}

// redirectBase prefers the requester's origin so redirects land back on
// the page the donor came from
func (s *Service) redirectBase(origin string) string {
	if origin != "" {
		return origin
	}
	return s.cfg.PublicBaseURL
}

// sessionDescription builds the donor-facing line on the hosted payment
// page, with the concrete impact figure
func sessionDescription(livesImpacted int64) string {
	if livesImpacted == 1 {
		return "Donation - supporting 1 child's English learning"
	}
	return fmt.Sprintf("Donation - supporting %d children's English learning", livesImpacted)
}
