package donation

import (
	"context"
	"fmt"

	"github.com/donkey-king-kong/CTGHackathon-25-Team11-sub001/internal/domain/entity"
	errs "github.com/donkey-king-kong/CTGHackathon-25-Team11-sub001/internal/domain/error"
	"github.com/donkey-king-kong/CTGHackathon-25-Team11-sub001/internal/domain/port/payment"
)

// Outcome is the externally reported result of a checkout session
type Outcome string

// Session outcomes delivered by redirect or webhook
const (
	OutcomeSucceeded Outcome = "succeeded"
	OutcomeCancelled Outcome = "cancelled"
)

// terminalStatus maps a session outcome to the ledger status it settles to
func terminalStatus(outcome Outcome) (entity.DonationStatus, error) {
	switch outcome {
	case OutcomeSucceeded:
		return entity.StatusSettled, nil
	case OutcomeCancelled:
		return entity.StatusFailed, nil
	default:
		return "", fmt.Errorf("%w: unknown outcome %q", errs.ErrInvalidRequest, outcome)
	}
}

// Reconcile flips the ledger row for a checkout session to its terminal
// status. Duplicate delivery is absorbed: a row that is already terminal
// is returned unchanged with no error. When the session reference never
// made it onto the row (AttachSessionRef is best-effort), the link is
// recovered from the session's metadata before settling.
func (s *Service) Reconcile(ctx context.Context, sessionRef string, outcome Outcome) (*entity.DonationRecord, error) {
	if sessionRef == "" {
		return nil, fmt.Errorf("%w: session reference is required", errs.ErrInvalidRequest)
	}

	status, err := terminalStatus(outcome)
	if err != nil {
		return nil, err
	}

	record, err := s.repo.GetBySessionRef(ctx, sessionRef)
	if errs.IsNotFoundError(err) {
		record, err = s.recoverSessionLink(ctx, sessionRef)
	}
	if err != nil {
		return nil, err
	}

	if record.IsTerminal() {
		s.logger.Debug("Duplicate reconciliation delivery ignored", map[string]any{
			"donation_id": record.ID,
			"session_ref": sessionRef,
			"status":      record.Status,
		})
		return record, nil
	}

	if err := s.repo.Settle(ctx, record.ID, status); err != nil {
		s.logger.Error("Failed to settle donation", map[string]any{
			"donation_id": record.ID,
			"session_ref": sessionRef,
			"outcome":     outcome,
			"error":       err.Error(),
		})
		return nil, err
	}

	s.logger.Info("Donation reconciled", map[string]any{
		"donation_id": record.ID,
		"session_ref": sessionRef,
		"status":      status,
	})

	return s.repo.GetByID(ctx, record.ID)
}

// recoverSessionLink fetches the session from the processor and re-attaches
// it to the ledger row named in its metadata
func (s *Service) recoverSessionLink(ctx context.Context, sessionRef string) (*entity.DonationRecord, error) {
	tctx, cancel := s.timeProvider.WithTimeout(ctx, s.cfg.GatewayTimeout)
	defer cancel()

	session, err := s.gateway.GetCheckoutSession(tctx, sessionRef)
	if err != nil {
		return nil, err
	}

	donationID := session.Metadata[payment.MetadataDonationID]
	if donationID == "" {
		return nil, fmt.Errorf("%w: session %s carries no donation id", errs.ErrDonationNotFound, sessionRef)
	}

	record, err := s.repo.GetByID(ctx, donationID)
	if err != nil {
		return nil, err
	}

	if err := s.repo.AttachSessionRef(ctx, record.ID, sessionRef); err != nil {
		s.logger.Warn("Failed to re-attach session reference during reconciliation", map[string]any{
			"donation_id": record.ID,
			"session_ref": sessionRef,
			"error":       err.Error(),
		})
	} else {
		record.SessionRef = sessionRef
	}

	return record, nil
}

// GetDonation returns a single ledger record by id
func (s *Service) GetDonation(ctx context.Context, id string) (*entity.DonationRecord, error) {
	if id == "" {
		return nil, fmt.Errorf("%w: donation id is required", errs.ErrInvalidRequest)
	}
	return s.repo.GetByID(ctx, id)
}

// ListDonations returns recent records in the given status, newest first.
// The content-rendering collaborators only consume finalized records, so
// settled is the expected filter.
func (s *Service) ListDonations(ctx context.Context, status entity.DonationStatus, limit int) ([]*entity.DonationRecord, error) {
	if limit <= 0 || limit > 100 {
		limit = 50
	}
	return s.repo.ListByStatus(ctx, status, limit)
}
