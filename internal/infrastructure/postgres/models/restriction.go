package models

import (
	"time"

	"github.com/fairwayops/lottery-service/internal/domain"
)

type RestrictionModel struct {
	ID       string `gorm:"primaryKey;type:uuid"`
	Name     string
	Category domain.RestrictionCategory `gorm:"index:idx_restriction_active"`
	Type     domain.RestrictionType
	// AppliesToClasses and DaysOfWeek are JSON arrays; empty means all.
	AppliesToClasses string
	Active           bool `gorm:"index:idx_restriction_active"`
	OverrideAllowed  bool
	Priority         int
	StartMinute      int
	EndMinute        int
	DaysOfWeek       string
	MaxCount         int
	PeriodDays       int
	CreatedAt        time.Time
	UpdatedAt        time.Time
}

type FairnessModel struct {
	ID                 string `gorm:"primaryKey;type:uuid"`
	MemberID           string `gorm:"uniqueIndex:idx_fairness_member_month"`
	Month              string `gorm:"uniqueIndex:idx_fairness_member_month"`
	EntriesThisMonth   int
	PreferencesGranted int
	FairnessScore      float64
	UpdatedAt          time.Time
}

type SpeedModel struct {
	ID              string `gorm:"primaryKey;type:uuid"`
	MemberID        string `gorm:"uniqueIndex:idx_speed_member"`
	AvgRoundMinutes float64
	RoundCount      int
	Tier            domain.SpeedTier
	TierOverridden  bool
	CalculatedAt    time.Time
}
