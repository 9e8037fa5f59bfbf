package repository

import (
	"errors"
	"fmt"
	"time"

	"github.com/fairwayops/lottery-service/internal/domain"
	"github.com/fairwayops/lottery-service/internal/infrastructure/postgres/mappers"
	"github.com/fairwayops/lottery-service/internal/infrastructure/postgres/models"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

type DefaultEntryRepository struct {
	db *gorm.DB
}

func NewDefaultEntryRepository(db *gorm.DB) *DefaultEntryRepository {
	return &DefaultEntryRepository{db: db}
}

// dateOnly normalizes a lottery date to midnight UTC so equality
// queries behave across drivers.
func dateOnly(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

func (r *DefaultEntryRepository) CreateEntry(entry *domain.LotteryEntry) error {
	if entry.ID == "" {
		entry.ID = uuid.NewString()
	}
	entry.LotteryDate = dateOnly(entry.LotteryDate)

	var existing int64
	if err := r.db.Model(&models.EntryModel{}).
		Where("organizer_id = ? AND lottery_date = ?", entry.OrganizerID, entry.LotteryDate).
		Count(&existing).Error; err != nil {
		return err
	}
	if existing > 0 {
		return domain.ErrDuplicateEntry
	}

	model, err := mappers.ToGORMEntry(entry)
	if err != nil {
		return err
	}
	return r.db.Create(model).Error
}

func (r *DefaultEntryRepository) GetEntryByID(entryID string) (*domain.LotteryEntry, error) {
	var model models.EntryModel
	if err := r.db.First(&model, "id = ?", entryID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrEntryNotFound
		}
		return nil, err
	}
	return mappers.ToDomainEntry(&model)
}

// LoadPendingEntries includes PROCESSING entries so a run whose commit
// failed is retried in full on the next pass.
func (r *DefaultEntryRepository) LoadPendingEntries(date time.Time) ([]*domain.LotteryEntry, error) {
	var entryModels []models.EntryModel
	if err := r.db.
		Where("lottery_date = ? AND status IN ?", dateOnly(date),
			[]domain.EntryStatus{domain.EntryStatusPending, domain.EntryStatusProcessing}).
		Order("submitted_at ASC").
		Find(&entryModels).Error; err != nil {
		return nil, err
	}
	entries := make([]*domain.LotteryEntry, 0, len(entryModels))
	for i := range entryModels {
		entry, err := mappers.ToDomainEntry(&entryModels[i])
		if err != nil {
			return nil, fmt.Errorf("entry %s: %w", entryModels[i].ID, err)
		}
		entries = append(entries, entry)
	}
	return entries, nil
}

func (r *DefaultEntryRepository) MarkEntriesProcessing(entryIDs []string) error {
	if len(entryIDs) == 0 {
		return nil
	}
	return r.db.Model(&models.EntryModel{}).
		Where("id IN ?", entryIDs).
		Update("status", domain.EntryStatusProcessing).Error
}

// CountRecentAssignments matches on the serialized member-id array; ids
// are stored as JSON strings, so the quoted LIKE pattern cannot hit a
// substring of another id.
func (r *DefaultEntryRepository) CountRecentAssignments(memberID string, from, to time.Time) (int, error) {
	var count int64
	err := r.db.Model(&models.EntryModel{}).
		Where("status = ?", domain.EntryStatusAssigned).
		Where("lottery_date >= ? AND lottery_date < ?", dateOnly(from), dateOnly(to)).
		Where("member_ids LIKE ?", fmt.Sprintf(`%%"%s"%%`, memberID)).
		Count(&count).Error
	if err != nil {
		return 0, err
	}
	return int(count), nil
}
