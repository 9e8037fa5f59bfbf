package repository

import (
	"errors"
	"fmt"

	"github.com/fairwayops/lottery-service/internal/domain"
	"github.com/fairwayops/lottery-service/internal/infrastructure/postgres/mappers"
	"github.com/fairwayops/lottery-service/internal/infrastructure/postgres/models"
	"gorm.io/gorm"
)

// algorithmConfigRowID is the fixed id of the singleton config row.
const algorithmConfigRowID = 1

type DefaultAlgorithmConfigRepository struct {
	db *gorm.DB
}

func NewDefaultAlgorithmConfigRepository(db *gorm.DB) *DefaultAlgorithmConfigRepository {
	return &DefaultAlgorithmConfigRepository{db: db}
}

func (r *DefaultAlgorithmConfigRepository) LoadAlgorithmConfig() (*domain.AlgorithmConfig, error) {
	var model models.AlgorithmConfigModel
	if err := r.db.First(&model, algorithmConfigRowID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%w: config row %d missing", domain.ErrInvalidConfig, algorithmConfigRowID)
		}
		return nil, err
	}
	return mappers.ToDomainAlgorithmConfig(&model)
}
