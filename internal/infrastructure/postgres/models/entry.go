package models

import (
	"time"

	"github.com/fairwayops/lottery-service/internal/domain"
)

type EntryModel struct {
	ID          string    `gorm:"primaryKey;type:uuid"`
	LotteryDate time.Time `gorm:"index:idx_entry_date;uniqueIndex:idx_organizer_date"`
	OrganizerID string    `gorm:"uniqueIndex:idx_organizer_date"`
	// MemberIDs is the ordered member-id set serialized as a JSON array.
	MemberIDs        string
	PreferredWindow  string
	AlternateWindow  string
	Status           domain.EntryStatus `gorm:"index:idx_entry_status"`
	AssignedWindowID string
	UnassignedReason string
	SubmittedAt      time.Time
	CreatedAt        time.Time
	UpdatedAt        time.Time
}

type WindowModel struct {
	ID          string    `gorm:"primaryKey;type:uuid"`
	LotteryDate time.Time `gorm:"index:idx_window_date"`
	Code        string    `gorm:"index:idx_window_code"`
	StartTime   time.Time
	MaxSeats    int
}

type MemberModel struct {
	ID      string `gorm:"primaryKey"`
	Name    string
	ClassID string
}
