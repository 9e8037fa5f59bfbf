package lottery

import "time"

type RunOutput struct {
	RunID             string    `json:"run_id"`
	Code              string    `json:"code"`
	LotteryDate       string    `json:"lottery_date"`
	Status            string    `json:"status"`
	StartedAt         time.Time `json:"started_at"`
	FinishedAt        time.Time `json:"finished_at"`
	EntriesProcessed  int       `json:"entries_processed"`
	EntriesAssigned   int       `json:"entries_assigned"`
	EntriesUnassigned int       `json:"entries_unassigned"`
}

type EntryLogOutput struct {
	EntryID             string  `json:"entry_id"`
	OrganizerID         string  `json:"organizer_id"`
	PreferredWindow     string  `json:"preferred_window"`
	AlternateWindow     string  `json:"alternate_window,omitempty"`
	AutoWindowID        string  `json:"auto_window_id,omitempty"`
	FinalWindowID       string  `json:"final_window_id,omitempty"`
	Reason              string  `json:"reason"`
	RestrictionViolated bool    `json:"restriction_violated"`
	ViolatedRuleID      string  `json:"violated_rule_id,omitempty"`
	FairnessBefore      float64 `json:"fairness_before"`
	FairnessAfter       float64 `json:"fairness_after"`
	FairnessDelta       float64 `json:"fairness_delta"`
}

type EntryOutput struct {
	EntryID          string `json:"entry_id"`
	Status           string `json:"status"`
	AssignedWindowID string `json:"assigned_window_id,omitempty"`
}
