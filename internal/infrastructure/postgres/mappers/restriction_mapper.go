package mappers

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/fairwayops/lottery-service/internal/domain"
	"github.com/fairwayops/lottery-service/internal/infrastructure/postgres/models"
)

func ToDomainRestriction(model *models.RestrictionModel) (*domain.RestrictionRule, error) {
	var classes []string
	if model.AppliesToClasses != "" {
		if err := json.Unmarshal([]byte(model.AppliesToClasses), &classes); err != nil {
			return nil, fmt.Errorf("%w: rule %s classes: %v", domain.ErrMalformedRule, model.ID, err)
		}
	}
	var days []time.Weekday
	if model.DaysOfWeek != "" {
		if err := json.Unmarshal([]byte(model.DaysOfWeek), &days); err != nil {
			return nil, fmt.Errorf("%w: rule %s days: %v", domain.ErrMalformedRule, model.ID, err)
		}
	}
	return &domain.RestrictionRule{
		ID:               model.ID,
		Name:             model.Name,
		Category:         model.Category,
		Type:             model.Type,
		AppliesToClasses: classes,
		Active:           model.Active,
		OverrideAllowed:  model.OverrideAllowed,
		Priority:         model.Priority,
		StartMinute:      model.StartMinute,
		EndMinute:        model.EndMinute,
		DaysOfWeek:       days,
		MaxCount:         model.MaxCount,
		PeriodDays:       model.PeriodDays,
	}, nil
}

func ToGORMRestriction(rule *domain.RestrictionRule) (*models.RestrictionModel, error) {
	classes, err := json.Marshal(rule.AppliesToClasses)
	if err != nil {
		return nil, err
	}
	days, err := json.Marshal(rule.DaysOfWeek)
	if err != nil {
		return nil, err
	}
	return &models.RestrictionModel{
		ID:               rule.ID,
		Name:             rule.Name,
		Category:         rule.Category,
		Type:             rule.Type,
		AppliesToClasses: string(classes),
		Active:           rule.Active,
		OverrideAllowed:  rule.OverrideAllowed,
		Priority:         rule.Priority,
		StartMinute:      rule.StartMinute,
		EndMinute:        rule.EndMinute,
		DaysOfWeek:       string(days),
		MaxCount:         rule.MaxCount,
		PeriodDays:       rule.PeriodDays,
	}, nil
}

func ToDomainFairness(model *models.FairnessModel) *domain.FairnessRecord {
	return &domain.FairnessRecord{
		ID:                 model.ID,
		MemberID:           model.MemberID,
		Month:              model.Month,
		EntriesThisMonth:   model.EntriesThisMonth,
		PreferencesGranted: model.PreferencesGranted,
		FairnessScore:      model.FairnessScore,
		UpdatedAt:          model.UpdatedAt,
	}
}

func ToDomainSpeed(model *models.SpeedModel) *domain.SpeedProfile {
	return &domain.SpeedProfile{
		ID:              model.ID,
		MemberID:        model.MemberID,
		AvgRoundMinutes: model.AvgRoundMinutes,
		RoundCount:      model.RoundCount,
		Tier:            model.Tier,
		TierOverridden:  model.TierOverridden,
		CalculatedAt:    model.CalculatedAt,
	}
}
