package kafka

type RunCompletedEvent struct {
	RunID             string `json:"run_id"`
	Code              string `json:"code"`
	LotteryDate       string `json:"lottery_date"`
	EntriesProcessed  int    `json:"entries_processed"`
	EntriesAssigned   int    `json:"entries_assigned"`
	EntriesUnassigned int    `json:"entries_unassigned"`
}

type EntryResultEvent struct {
	EntryID     string `json:"entry_id"`
	OrganizerID string `json:"organizer_id"`
	LotteryDate string `json:"lottery_date"`
	WindowID    string `json:"window_id,omitempty"`
	Status      string `json:"status"`
	Reason      string `json:"reason"`
}
