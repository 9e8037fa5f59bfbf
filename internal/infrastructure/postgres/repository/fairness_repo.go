package repository

import (
	"time"

	"github.com/fairwayops/lottery-service/internal/domain"
	"github.com/fairwayops/lottery-service/internal/infrastructure/postgres/mappers"
	"github.com/fairwayops/lottery-service/internal/infrastructure/postgres/models"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

type DefaultFairnessRepository struct {
	db *gorm.DB
}

func NewDefaultFairnessRepository(db *gorm.DB) *DefaultFairnessRepository {
	return &DefaultFairnessRepository{db: db}
}

// LoadFairnessRecord creates a zeroed record on first touch so the
// month's row always exists.
func (r *DefaultFairnessRepository) LoadFairnessRecord(memberID, month string) (*domain.FairnessRecord, error) {
	var model models.FairnessModel
	err := r.db.
		Where(models.FairnessModel{MemberID: memberID, Month: month}).
		Attrs(models.FairnessModel{ID: uuid.NewString(), UpdatedAt: time.Now().UTC()}).
		FirstOrCreate(&model).Error
	if err != nil {
		return nil, err
	}
	return mappers.ToDomainFairness(&model), nil
}

// ApplyDelta adjusts the rolling score, flooring at zero, and bumps the
// granted counter when a preference was honored.
func (r *DefaultFairnessRepository) ApplyDelta(memberID, month string, delta float64, preferenceGranted bool) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		var model models.FairnessModel
		if err := tx.
			Where(models.FairnessModel{MemberID: memberID, Month: month}).
			Attrs(models.FairnessModel{ID: uuid.NewString()}).
			FirstOrCreate(&model).Error; err != nil {
			return err
		}
		model.FairnessScore += delta
		if model.FairnessScore < 0 {
			model.FairnessScore = 0
		}
		if preferenceGranted {
			model.PreferencesGranted++
		}
		model.UpdatedAt = time.Now().UTC()
		return tx.Save(&model).Error
	})
}

func (r *DefaultFairnessRepository) RecordEntrySubmission(memberID, month string) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		var model models.FairnessModel
		if err := tx.
			Where(models.FairnessModel{MemberID: memberID, Month: month}).
			Attrs(models.FairnessModel{ID: uuid.NewString()}).
			FirstOrCreate(&model).Error; err != nil {
			return err
		}
		model.EntriesThisMonth++
		model.UpdatedAt = time.Now().UTC()
		return tx.Save(&model).Error
	})
}
