package repository

import (
	"context"
	"errors"

	"github.com/donkey-king-kong/CTGHackathon-25-Team11-sub001/internal/domain/entity"
	errs "github.com/donkey-king-kong/CTGHackathon-25-Team11-sub001/internal/domain/error"
	coreport "github.com/donkey-king-kong/CTGHackathon-25-Team11-sub001/internal/domain/port/core"
	"github.com/donkey-king-kong/CTGHackathon-25-Team11-sub001/internal/infrastructure/adapter/model"
	"gorm.io/gorm"
)

// DonationRepository implements the ledger store using GORM
type DonationRepository struct {
	db              *gorm.DB
	logger          coreport.Logger
	errorClassifier *ErrorClassifier
}

// NewDonationRepository creates a new DonationRepository instance
func NewDonationRepository(db *gorm.DB, logger coreport.Logger) *DonationRepository {
	return &DonationRepository{
		db:              db,
		logger:          logger,
		errorClassifier: NewErrorClassifier(),
	}
}

// entityToModel converts a donation entity to a database model
func (r *DonationRepository) entityToModel(donation *entity.DonationRecord) model.Donation {
	m := model.Donation{
		ID:            donation.ID,
		DonorName:     donation.DonorName,
		DonorEmail:    donation.DonorEmail,
		Amount:        donation.Amount,
		Currency:      donation.Currency,
		Status:        string(donation.Status),
		LivesImpacted: donation.LivesImpacted,
		Message:       donation.Message,
		CreatedAt:     donation.CreatedAt,
		SettledAt:     donation.SettledAt,
	}
	if donation.SessionRef != "" {
		ref := donation.SessionRef
		m.SessionRef = &ref
	}
	return m
}

// modelToEntity converts a database model to a donation entity
func (r *DonationRepository) modelToEntity(m *model.Donation) *entity.DonationRecord {
	donation := &entity.DonationRecord{
		ID:            m.ID,
		DonorName:     m.DonorName,
		DonorEmail:    m.DonorEmail,
		Amount:        m.Amount,
		Currency:      m.Currency,
		Status:        entity.DonationStatus(m.Status),
		LivesImpacted: m.LivesImpacted,
		Message:       m.Message,
		CreatedAt:     m.CreatedAt,
		SettledAt:     m.SettledAt,
	}
	if m.SessionRef != nil {
		donation.SessionRef = *m.SessionRef
	}
	return donation
}

// Insert persists a new pending donation record
func (r *DonationRepository) Insert(ctx context.Context, donation *entity.DonationRecord) error {
	r.logger.Debug("Inserting donation record", map[string]any{
		"donation_id": donation.ID,
		"amount":      donation.Amount,
		"currency":    donation.Currency,
	})

	donationModel := r.entityToModel(donation)

	result := r.db.WithContext(ctx).Create(&donationModel)
	if result.Error != nil {
		r.logger.Error("Failed to insert donation record", map[string]any{
			"donation_id": donation.ID,
			"error":       result.Error.Error(),
		})
		return errs.NewPersistenceError("insert", donation.ID, result.Error)
	}

	r.logger.Info("Donation record inserted", map[string]any{
		"donation_id": donation.ID,
		"status":      donation.Status,
	})
	return nil
}

// AttachSessionRef links the checkout session to the donation record.
// The unique index on session_ref enforces the one-to-one invariant.
func (r *DonationRepository) AttachSessionRef(ctx context.Context, id string, ref string) error {
	r.logger.Debug("Attaching session reference", map[string]any{
		"donation_id": id,
		"session_ref": ref,
	})

	result := r.db.WithContext(ctx).Model(&model.Donation{}).
		Where("id = ?", id).
		Update("session_ref", ref)

	if result.Error != nil {
		if r.errorClassifier.IsDuplicateKeyError(result.Error) {
			return errs.ErrDuplicateSessionRef
		}
		return errs.NewPersistenceError("attach_session_ref", id, result.Error)
	}
	if result.RowsAffected == 0 {
		return errs.ErrDonationNotFound
	}
	return nil
}

// Settle moves a pending record to the given terminal status. Already
// terminal rows are skipped by the WHERE clause and reported as a no-op.
func (r *DonationRepository) Settle(ctx context.Context, id string, status entity.DonationStatus) error {
	r.logger.Debug("Settling donation record", map[string]any{
		"donation_id": id,
		"status":      status,
	})

	result := r.db.WithContext(ctx).Model(&model.Donation{}).
		Where("id = ? AND status = ?", id, string(entity.StatusPending)).
		Updates(map[string]interface{}{
			"status":     string(status),
			"settled_at": r.db.NowFunc(),
		})

	if result.Error != nil {
		return errs.NewPersistenceError("settle", id, result.Error)
	}

	if result.RowsAffected == 0 {
		// Either the row doesn't exist or it is already terminal. The
		// latter is a duplicate delivery of the payment outcome and must
		// stay silent.
		existing, err := r.GetByID(ctx, id)
		if err != nil {
			return err
		}
		if existing.IsTerminal() {
			r.logger.Debug("Donation already terminal, settle is a no-op", map[string]any{
				"donation_id": id,
				"status":      existing.Status,
			})
			return nil
		}
		return errs.NewPersistenceError("settle", id, errors.New("no rows updated"))
	}

	r.logger.Info("Donation record settled", map[string]any{
		"donation_id": id,
		"status":      status,
	})
	return nil
}

// GetByID retrieves a donation record by its ledger id
func (r *DonationRepository) GetByID(ctx context.Context, id string) (*entity.DonationRecord, error) {
	var donationModel model.Donation
	result := r.db.WithContext(ctx).
		Where("id = ?", id).
		First(&donationModel)

	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, errs.ErrDonationNotFound
		}
		return nil, errs.NewPersistenceError("get_by_id", id, result.Error)
	}

	return r.modelToEntity(&donationModel), nil
}

// GetBySessionRef retrieves the record linked to a checkout session
func (r *DonationRepository) GetBySessionRef(ctx context.Context, ref string) (*entity.DonationRecord, error) {
	var donationModel model.Donation
	result := r.db.WithContext(ctx).
		Where("session_ref = ?", ref).
		First(&donationModel)

	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, errs.ErrDonationNotFound
		}
		return nil, errs.NewPersistenceError("get_by_session_ref", "", result.Error)
	}

	return r.modelToEntity(&donationModel), nil
}

// ListByStatus returns the most recent records in a status, newest first
func (r *DonationRepository) ListByStatus(ctx context.Context, status entity.DonationStatus, limit int) ([]*entity.DonationRecord, error) {
	var donationModels []model.Donation
	result := r.db.WithContext(ctx).
		Where("status = ?", string(status)).
		Order("created_at DESC").
		Limit(limit).
		Find(&donationModels)

	if result.Error != nil {
		return nil, errs.NewPersistenceError("list_by_status", "", result.Error)
	}

	donations := make([]*entity.DonationRecord, 0, len(donationModels))
	for i := range donationModels {
		donations = append(donations, r.modelToEntity(&donationModels[i]))
	}
	return donations, nil
}
