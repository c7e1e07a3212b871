package entity

import (
	"time"

	coreport "github.com/donkey-king-kong/CTGHackathon-25-Team11-sub001/internal/domain/port/core"
	"github.com/google/uuid"
)

// DonationStatus defines the lifecycle states of a donation record
type DonationStatus string

// Donation lifecycle. Transitions are forward-only: a pending donation
// becomes settled or failed exactly once and never reverts.
const (
	StatusPending DonationStatus = "pending"
	StatusSettled DonationStatus = "settled"
	StatusFailed  DonationStatus = "failed"
)

// MinorUnitsPerChild is the fixed conversion ratio between donated minor
// units and the number of children the gift supports. HK$10 funds one
// child's reading session.
const MinorUnitsPerChild = 1000

// DonationRecord is the durable ledger entry for one donation attempt.
// Amount, currency, donor identity and the impact figure are immutable
// after insert; only SessionRef (set once) and Status (one terminal
// transition) change afterwards.
type DonationRecord struct {
	ID            string         // Generated at insert time, immutable
	DonorName     string         // Free-text donor identity, not account-verified
	DonorEmail    string         // Free-text donor email
	Amount        int64          // Positive amount in minor currency units
	Currency      string         // Lowercase ISO code from the supported set
	Status        DonationStatus // pending until reconciliation
	LivesImpacted int64          // Derived from Amount at insert time
	SessionRef    string         // External checkout session id, empty until attached
	Message       string         // Optional donor message
	CreatedAt     time.Time      // When the record was inserted
	SettledAt     *time.Time     // When the record reached a terminal status (nullable)
}

// NewDonationRecord creates a pending ledger entry for a validated request.
// The caller is expected to have validated the request already; this
// constructor only derives fields.
func NewDonationRecord(
	donorName string,
	donorEmail string,
	amount int64,
	currency string,
	message string,
	timeProvider coreport.TimeProvider,
) *DonationRecord {
	return &DonationRecord{
		ID:            uuid.NewString(),
		DonorName:     donorName,
		DonorEmail:    donorEmail,
		Amount:        amount,
		Currency:      currency,
		Status:        StatusPending,
		LivesImpacted: LivesImpactedFor(amount),
		Message:       message,
		CreatedAt:     timeProvider.Now(),
	}
}

// LivesImpactedFor converts a donation amount to the number of children it
// supports. Deterministic and monotonically non-decreasing in amount; any
// positive gift counts for at least one child.
func LivesImpactedFor(amount int64) int64 {
	if amount <= 0 {
		return 0
	}
	return (amount + MinorUnitsPerChild - 1) / MinorUnitsPerChild
}

// IsTerminal reports whether the record has reached a final status
func (d *DonationRecord) IsTerminal() bool {
	return d.Status == StatusSettled || d.Status == StatusFailed
}

// MarkSettled transitions a pending record to settled. Returns false
// without mutating when the record is already terminal, so duplicate
// reconciliation delivery is absorbed.
func (d *DonationRecord) MarkSettled(timeProvider coreport.TimeProvider) bool {
	if d.IsTerminal() {
		return false
	}
	now := timeProvider.Now()
	d.Status = StatusSettled
	d.SettledAt = &now
	return true
}

// MarkFailed transitions a pending record to failed. Same terminal guard
// as MarkSettled.
func (d *DonationRecord) MarkFailed(timeProvider coreport.TimeProvider) bool {
	if d.IsTerminal() {
		return false
	}
	now := timeProvider.Now()
	d.Status = StatusFailed
	d.SettledAt = &now
	return true
}

// HasSessionRef reports whether the external checkout session is linked
func (d *DonationRecord) HasSessionRef() bool {
	return d.SessionRef != ""
}
