package models

import (
	"time"

	"github.com/fairwayops/lottery-service/internal/domain"
	"gorm.io/datatypes"
)

type RunModel struct {
	ID                string           `gorm:"primaryKey;type:uuid"`
	Code              string           `gorm:"index:idx_run_code"`
	LotteryDate       time.Time        `gorm:"index:idx_run_date"`
	Status            domain.RunStatus `gorm:"index:idx_run_status"`
	StartedAt         time.Time
	FinishedAt        time.Time
	EntriesProcessed  int
	EntriesAssigned   int
	EntriesUnassigned int
}

type EntryLogModel struct {
	ID                  string `gorm:"primaryKey;type:uuid"`
	RunID               string `gorm:"type:uuid;index:idx_log_run"`
	EntryID             string `gorm:"type:uuid;index:idx_log_entry"`
	OrganizerID         string
	PreferredWindow     string
	AlternateWindow     string
	AutoWindowID        string
	FinalWindowID       string
	Reason              domain.AssignmentReason
	RestrictionViolated bool
	ViolatedRuleID      string
	FairnessBefore      float64
	FairnessAfter       float64
	FairnessDelta       float64
	CreatedAt           time.Time
}

// AlgorithmConfigModel is the singleton engine configuration row.
type AlgorithmConfigModel struct {
	ID                         int `gorm:"primaryKey"`
	FastThresholdMinutes       float64
	AverageThresholdMinutes    float64
	PreferenceGrantedDecrement float64
	PreferenceMissedIncrement  float64
	SpeedBonuses               datatypes.JSON
	UpdatedAt                  time.Time
}
