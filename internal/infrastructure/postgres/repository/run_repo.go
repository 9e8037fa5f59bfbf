package repository

import (
	"errors"
	"time"

	"github.com/fairwayops/lottery-service/internal/domain"
	"github.com/fairwayops/lottery-service/internal/infrastructure/postgres/mappers"
	"github.com/fairwayops/lottery-service/internal/infrastructure/postgres/models"
	"gorm.io/gorm"
)

type DefaultRunRepository struct {
	db *gorm.DB
}

func NewDefaultRunRepository(db *gorm.DB) *DefaultRunRepository {
	return &DefaultRunRepository{db: db}
}

// CommitRun writes the summary, the full audit trail, and the terminal
// entry statuses in one transaction, voiding any earlier committed run
// for the date. A failed commit rolls back everything, so the entries
// stay PROCESSING and the next run retries them. Log rows are
// append-only: superseded runs keep theirs.
func (r *DefaultRunRepository) CommitRun(run *domain.ProcessingRun, logs []*domain.ProcessingEntryLog) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(&models.RunModel{}).
			Where("lottery_date = ? AND status = ?", dateOnly(run.LotteryDate), domain.RunStatusCompleted).
			Update("status", domain.RunStatusSuperseded).Error; err != nil {
			return err
		}

		runModel := mappers.ToGORMRun(run)
		runModel.LotteryDate = dateOnly(run.LotteryDate)
		if err := tx.Create(runModel).Error; err != nil {
			return err
		}

		if len(logs) == 0 {
			return nil
		}
		logModels := make([]*models.EntryLogModel, len(logs))
		for i, l := range logs {
			logModels[i] = mappers.ToGORMEntryLog(l)
		}
		if err := tx.CreateInBatches(logModels, 100).Error; err != nil {
			return err
		}

		for _, l := range logs {
			if err := resolveEntry(tx, l); err != nil {
				return err
			}
		}
		return nil
	})
}

// resolveEntry moves the entry behind one log row to its terminal
// status for this run.
func resolveEntry(tx *gorm.DB, l *domain.ProcessingEntryLog) error {
	updates := map[string]interface{}{
		"status":             domain.EntryStatusUnassigned,
		"assigned_window_id": "",
		"unassigned_reason":  string(l.Reason),
	}
	if l.FinalWindowID != "" {
		updates = map[string]interface{}{
			"status":             domain.EntryStatusAssigned,
			"assigned_window_id": l.FinalWindowID,
			"unassigned_reason":  "",
		}
	}
	return tx.Model(&models.EntryModel{}).Where("id = ?", l.EntryID).Updates(updates).Error
}

func (r *DefaultRunRepository) GetRunByID(runID string) (*domain.ProcessingRun, error) {
	var model models.RunModel
	if err := r.db.First(&model, "id = ?", runID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrRunNotFound
		}
		return nil, err
	}
	return mappers.ToDomainRun(&model), nil
}

func (r *DefaultRunRepository) GetCommittedRun(date time.Time) (*domain.ProcessingRun, error) {
	var model models.RunModel
	err := r.db.
		Where("lottery_date = ? AND status = ?", dateOnly(date), domain.RunStatusCompleted).
		First(&model).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrRunNotFound
		}
		return nil, err
	}
	return mappers.ToDomainRun(&model), nil
}

func (r *DefaultRunRepository) GetRunEntryLogs(runID string) ([]*domain.ProcessingEntryLog, error) {
	var logModels []models.EntryLogModel
	if err := r.db.
		Where("run_id = ?", runID).
		Order("created_at ASC, id ASC").
		Find(&logModels).Error; err != nil {
		return nil, err
	}
	logs := make([]*domain.ProcessingEntryLog, len(logModels))
	for i := range logModels {
		logs[i] = mappers.ToDomainEntryLog(&logModels[i])
	}
	return logs, nil
}
