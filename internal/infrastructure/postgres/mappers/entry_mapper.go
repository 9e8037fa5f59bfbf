package mappers

import (
	"encoding/json"

	"github.com/fairwayops/lottery-service/internal/domain"
	"github.com/fairwayops/lottery-service/internal/infrastructure/postgres/models"
)

func ToDomainEntry(model *models.EntryModel) (*domain.LotteryEntry, error) {
	var ids []string
	if err := json.Unmarshal([]byte(model.MemberIDs), &ids); err != nil {
		return nil, err
	}
	members, err := domain.NewMemberSet(ids)
	if err != nil {
		return nil, err
	}
	return &domain.LotteryEntry{
		ID:               model.ID,
		LotteryDate:      model.LotteryDate,
		OrganizerID:      model.OrganizerID,
		MemberIDs:        members,
		PreferredWindow:  model.PreferredWindow,
		AlternateWindow:  model.AlternateWindow,
		Status:           model.Status,
		AssignedWindowID: model.AssignedWindowID,
		SubmittedAt:      model.SubmittedAt,
		CreatedAt:        model.CreatedAt,
		UpdatedAt:        model.UpdatedAt,
	}, nil
}

func ToGORMEntry(entry *domain.LotteryEntry) (*models.EntryModel, error) {
	ids, err := json.Marshal([]string(entry.MemberIDs))
	if err != nil {
		return nil, err
	}
	return &models.EntryModel{
		ID:               entry.ID,
		LotteryDate:      entry.LotteryDate,
		OrganizerID:      entry.OrganizerID,
		MemberIDs:        string(ids),
		PreferredWindow:  entry.PreferredWindow,
		AlternateWindow:  entry.AlternateWindow,
		Status:           entry.Status,
		AssignedWindowID: entry.AssignedWindowID,
		SubmittedAt:      entry.SubmittedAt,
		CreatedAt:        entry.CreatedAt,
		UpdatedAt:        entry.UpdatedAt,
	}, nil
}

func ToDomainWindow(model *models.WindowModel) *domain.Window {
	return &domain.Window{
		ID:          model.ID,
		LotteryDate: model.LotteryDate,
		Code:        model.Code,
		StartTime:   model.StartTime,
		MaxSeats:    model.MaxSeats,
	}
}

func ToGORMWindow(window *domain.Window) *models.WindowModel {
	return &models.WindowModel{
		ID:          window.ID,
		LotteryDate: window.LotteryDate,
		Code:        window.Code,
		StartTime:   window.StartTime,
		MaxSeats:    window.MaxSeats,
	}
}
