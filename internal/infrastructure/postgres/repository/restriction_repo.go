package repository

import (
	"fmt"

	"github.com/fairwayops/lottery-service/internal/domain"
	"github.com/fairwayops/lottery-service/internal/infrastructure/postgres/mappers"
	"github.com/fairwayops/lottery-service/internal/infrastructure/postgres/models"
	"gorm.io/gorm"
)

type DefaultRestrictionRepository struct {
	db *gorm.DB
}

func NewDefaultRestrictionRepository(db *gorm.DB) *DefaultRestrictionRepository {
	return &DefaultRestrictionRepository{db: db}
}

// LoadActiveRestrictions fails on a malformed row: a broken rule set is
// an input error that must abort a run before any reservation.
func (r *DefaultRestrictionRepository) LoadActiveRestrictions() ([]*domain.RestrictionRule, error) {
	var ruleModels []models.RestrictionModel
	if err := r.db.
		Where("active = ?", true).
		Order("priority DESC").
		Find(&ruleModels).Error; err != nil {
		return nil, err
	}
	rules := make([]*domain.RestrictionRule, 0, len(ruleModels))
	for i := range ruleModels {
		rule, err := mappers.ToDomainRestriction(&ruleModels[i])
		if err != nil {
			return nil, fmt.Errorf("loading rule %s: %w", ruleModels[i].ID, err)
		}
		rules = append(rules, rule)
	}
	return rules, nil
}
