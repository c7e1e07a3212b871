package persistence

import (
	"context"

	"github.com/donkey-king-kong/CTGHackathon-25-Team11-sub001/internal/domain/entity"
)

// DonationRepository defines the ledger store for donation records.
// Writes are restricted to the three lifecycle operations; records are
// never deleted (downstream reporting reads the finalized ledger).
type DonationRepository interface {
	// Insert persists a new pending donation record
	//
	// Possible errors:
	// - ErrPersistence: If the store rejects the write; the caller must not
	//   open a checkout session in that case
	Insert(ctx context.Context, donation *entity.DonationRecord) error

	// AttachSessionRef links the external checkout session to the record.
	// Single-field, idempotent-by-id update; set once shortly after insert.
	//
	// Possible errors:
	// - ErrDonationNotFound: If no record exists for the id
	// - ErrDuplicateSessionRef: If the session is already linked to another record
	// - ErrPersistence: If the store fails
	AttachSessionRef(ctx context.Context, id string, ref string) error

	// Settle moves a pending record to the given terminal status.
	// A record that is already terminal is left untouched and no error is
	// returned, so duplicate delivery of the payment outcome is harmless.
	//
	// Possible errors:
	// - ErrDonationNotFound: If no record exists for the id
	// - ErrPersistence: If the store fails
	Settle(ctx context.Context, id string, status entity.DonationStatus) error

	// GetByID retrieves a donation record by its ledger id
	//
	// Possible errors:
	// - ErrDonationNotFound: If no record exists for the id
	// - ErrPersistence: If the store fails
	GetByID(ctx context.Context, id string) (*entity.DonationRecord, error)

	// GetBySessionRef retrieves the record linked to a checkout session
	//
	// Possible errors:
	// - ErrDonationNotFound: If no record is linked to the session
	// - ErrPersistence: If the store fails
	GetBySessionRef(ctx context.Context, ref string) (*entity.DonationRecord, error)

	// ListByStatus returns the most recent records in the given status,
	// newest first. Used by the read-only reporting surface.
	//
	// Possible errors:
	// - ErrPersistence: If the store fails
	ListByStatus(ctx context.Context, status entity.DonationStatus, limit int) ([]*entity.DonationRecord, error)
}
