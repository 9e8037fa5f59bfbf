package repository

import (
	"time"

	"github.com/fairwayops/lottery-service/internal/domain"
	"github.com/fairwayops/lottery-service/internal/infrastructure/postgres/mappers"
	"github.com/fairwayops/lottery-service/internal/infrastructure/postgres/models"
	"gorm.io/gorm"
)

type DefaultWindowRepository struct {
	db *gorm.DB
}

func NewDefaultWindowRepository(db *gorm.DB) *DefaultWindowRepository {
	return &DefaultWindowRepository{db: db}
}

func (r *DefaultWindowRepository) LoadWindows(date time.Time) ([]*domain.Window, error) {
	var windowModels []models.WindowModel
	if err := r.db.
		Where("lottery_date = ?", dateOnly(date)).
		Order("start_time ASC").
		Find(&windowModels).Error; err != nil {
		return nil, err
	}
	windows := make([]*domain.Window, len(windowModels))
	for i := range windowModels {
		windows[i] = mappers.ToDomainWindow(&windowModels[i])
	}
	return windows, nil
}

func (r *DefaultWindowRepository) GetWindowByID(windowID string) (*domain.Window, error) {
	var model models.WindowModel
	if err := r.db.First(&model, "id = ?", windowID).Error; err != nil {
		return nil, err
	}
	return mappers.ToDomainWindow(&model), nil
}
