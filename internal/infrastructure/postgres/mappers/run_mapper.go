package mappers

import (
	"encoding/json"
	"fmt"

	"github.com/fairwayops/lottery-service/internal/domain"
	"github.com/fairwayops/lottery-service/internal/infrastructure/postgres/models"
)

func ToDomainRun(model *models.RunModel) *domain.ProcessingRun {
	return &domain.ProcessingRun{
		ID:                model.ID,
		Code:              model.Code,
		LotteryDate:       model.LotteryDate,
		Status:            model.Status,
		StartedAt:         model.StartedAt,
		FinishedAt:        model.FinishedAt,
		EntriesProcessed:  model.EntriesProcessed,
		EntriesAssigned:   model.EntriesAssigned,
		EntriesUnassigned: model.EntriesUnassigned,
	}
}

func ToGORMRun(run *domain.ProcessingRun) *models.RunModel {
	return &models.RunModel{
		ID:                run.ID,
		Code:              run.Code,
		LotteryDate:       run.LotteryDate,
		Status:            run.Status,
		StartedAt:         run.StartedAt,
		FinishedAt:        run.FinishedAt,
		EntriesProcessed:  run.EntriesProcessed,
		EntriesAssigned:   run.EntriesAssigned,
		EntriesUnassigned: run.EntriesUnassigned,
	}
}

func ToDomainEntryLog(model *models.EntryLogModel) *domain.ProcessingEntryLog {
	return &domain.ProcessingEntryLog{
		ID:                  model.ID,
		RunID:               model.RunID,
		EntryID:             model.EntryID,
		OrganizerID:         model.OrganizerID,
		PreferredWindow:     model.PreferredWindow,
		AlternateWindow:     model.AlternateWindow,
		AutoWindowID:        model.AutoWindowID,
		FinalWindowID:       model.FinalWindowID,
		Reason:              model.Reason,
		RestrictionViolated: model.RestrictionViolated,
		ViolatedRuleID:      model.ViolatedRuleID,
		FairnessBefore:      model.FairnessBefore,
		FairnessAfter:       model.FairnessAfter,
		FairnessDelta:       model.FairnessDelta,
		CreatedAt:           model.CreatedAt,
	}
}

func ToGORMEntryLog(log *domain.ProcessingEntryLog) *models.EntryLogModel {
	return &models.EntryLogModel{
		ID:                  log.ID,
		RunID:               log.RunID,
		EntryID:             log.EntryID,
		OrganizerID:         log.OrganizerID,
		PreferredWindow:     log.PreferredWindow,
		AlternateWindow:     log.AlternateWindow,
		AutoWindowID:        log.AutoWindowID,
		FinalWindowID:       log.FinalWindowID,
		Reason:              log.Reason,
		RestrictionViolated: log.RestrictionViolated,
		ViolatedRuleID:      log.ViolatedRuleID,
		FairnessBefore:      log.FairnessBefore,
		FairnessAfter:       log.FairnessAfter,
		FairnessDelta:       log.FairnessDelta,
		CreatedAt:           log.CreatedAt,
	}
}

func ToDomainAlgorithmConfig(model *models.AlgorithmConfigModel) (*domain.AlgorithmConfig, error) {
	var bonuses []domain.SpeedBonus
	if len(model.SpeedBonuses) > 0 {
		if err := json.Unmarshal(model.SpeedBonuses, &bonuses); err != nil {
			return nil, fmt.Errorf("%w: speed bonuses: %v", domain.ErrInvalidConfig, err)
		}
	}
	return &domain.AlgorithmConfig{
		FastThresholdMinutes:       model.FastThresholdMinutes,
		AverageThresholdMinutes:    model.AverageThresholdMinutes,
		PreferenceGrantedDecrement: model.PreferenceGrantedDecrement,
		PreferenceMissedIncrement:  model.PreferenceMissedIncrement,
		SpeedBonuses:               bonuses,
	}, nil
}
