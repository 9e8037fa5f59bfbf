package repository

import (
	"github.com/fairwayops/lottery-service/internal/domain"
	"github.com/fairwayops/lottery-service/internal/infrastructure/postgres/mappers"
	"github.com/fairwayops/lottery-service/internal/infrastructure/postgres/models"
	"gorm.io/gorm"
)

type DefaultSpeedRepository struct {
	db *gorm.DB
}

func NewDefaultSpeedRepository(db *gorm.DB) *DefaultSpeedRepository {
	return &DefaultSpeedRepository{db: db}
}

// LoadSpeedProfiles returns existing profiles keyed by member; members
// without rounds on record simply have no profile.
func (r *DefaultSpeedRepository) LoadSpeedProfiles(memberIDs []string) (map[string]*domain.SpeedProfile, error) {
	profiles := make(map[string]*domain.SpeedProfile, len(memberIDs))
	if len(memberIDs) == 0 {
		return profiles, nil
	}
	var speedModels []models.SpeedModel
	if err := r.db.Where("member_id IN ?", memberIDs).Find(&speedModels).Error; err != nil {
		return nil, err
	}
	for i := range speedModels {
		profile := mappers.ToDomainSpeed(&speedModels[i])
		profiles[profile.MemberID] = profile
	}
	return profiles, nil
}

type DefaultMemberDirectory struct {
	db *gorm.DB
}

func NewDefaultMemberDirectory(db *gorm.DB) *DefaultMemberDirectory {
	return &DefaultMemberDirectory{db: db}
}

func (r *DefaultMemberDirectory) LoadMemberClasses(memberIDs []string) (map[string]string, error) {
	classes := make(map[string]string, len(memberIDs))
	if len(memberIDs) == 0 {
		return classes, nil
	}
	var memberModels []models.MemberModel
	if err := r.db.Where("id IN ?", memberIDs).Find(&memberModels).Error; err != nil {
		return nil, err
	}
	for _, m := range memberModels {
		classes[m.ID] = m.ClassID
	}
	return classes, nil
}
