package domain

import "time"

type WindowRepository interface {
	LoadWindows(date time.Time) ([]*Window, error)
	GetWindowByID(windowID string) (*Window, error)
}

type RestrictionRepository interface {
	LoadActiveRestrictions() ([]*RestrictionRule, error)
}

type FairnessRepository interface {
	// LoadFairnessRecord returns the member's record for the month,
	// creating a zeroed one if none exists yet.
	LoadFairnessRecord(memberID, month string) (*FairnessRecord, error)
	ApplyDelta(memberID, month string, delta float64, preferenceGranted bool) error
	RecordEntrySubmission(memberID, month string) error
}

type SpeedRepository interface {
	LoadSpeedProfiles(memberIDs []string) (map[string]*SpeedProfile, error)
}

// MemberDirectory resolves member class IDs at the engine boundary;
// member identity itself is owned by the surrounding platform.
type MemberDirectory interface {
	LoadMemberClasses(memberIDs []string) (map[string]string, error)
}

type AlgorithmConfigRepository interface {
	LoadAlgorithmConfig() (*AlgorithmConfig, error)
}

type RunRepository interface {
	// CommitRun persists the summary, all entry logs, and the terminal
	// status of every logged entry atomically, and voids any previous
	// run for the same date to SUPERSEDED. Nothing is visible from a
	// failed commit.
	CommitRun(run *ProcessingRun, logs []*ProcessingEntryLog) error
	GetRunByID(runID string) (*ProcessingRun, error)
	GetRunEntryLogs(runID string) ([]*ProcessingEntryLog, error)
	GetCommittedRun(date time.Time) (*ProcessingRun, error)
}
