package domain

import "time"

type RunStatus string

const (
	RunStatusCompleted  RunStatus = "COMPLETED"
	RunStatusSuperseded RunStatus = "SUPERSEDED"
)

type AssignmentReason string

const (
	ReasonPreferredMatch       AssignmentReason = "PREFERRED_MATCH"
	ReasonAlternateMatch       AssignmentReason = "ALTERNATE_MATCH"
	ReasonAllowedFallback      AssignmentReason = "ALLOWED_FALLBACK"
	ReasonRestrictionViolation AssignmentReason = "RESTRICTION_VIOLATION"
	ReasonNoCapacity           AssignmentReason = "NO_CAPACITY"
	ReasonProcessingError      AssignmentReason = "PROCESSING_ERROR"
)

// ProcessingRun is the per-date run summary. At most one COMPLETED run
// exists per lottery date; earlier runs are voided to SUPERSEDED.
type ProcessingRun struct {
	ID                string
	Code              string
	LotteryDate       time.Time
	Status            RunStatus
	StartedAt         time.Time
	FinishedAt        time.Time
	EntriesProcessed  int
	EntriesAssigned   int
	EntriesUnassigned int
}

// ProcessingEntryLog is the append-only audit row for one entry in one
// run. AutoWindowID is what this pass assigned; FinalWindowID starts
// equal and is only ever changed by the out-of-band admin override.
type ProcessingEntryLog struct {
	ID                  string
	RunID               string
	EntryID             string
	OrganizerID         string
	PreferredWindow     string
	AlternateWindow     string
	AutoWindowID        string
	FinalWindowID       string
	Reason              AssignmentReason
	RestrictionViolated bool
	ViolatedRuleID      string
	FairnessBefore      float64
	FairnessAfter       float64
	FairnessDelta       float64
	CreatedAt           time.Time
}
