package domain

import "time"

type EntryRepository interface {
	CreateEntry(entry *LotteryEntry) error
	GetEntryByID(entryID string) (*LotteryEntry, error)
	// LoadPendingEntries returns the date's unresolved entries, PENDING
	// as well as PROCESSING: a run that failed to commit leaves its
	// entries PROCESSING, and the next run must pick them up again.
	LoadPendingEntries(date time.Time) ([]*LotteryEntry, error)
	MarkEntriesProcessing(entryIDs []string) error
	// CountRecentAssignments counts ASSIGNED entries whose member set
	// contains memberID with a lottery date in [from, to), feeding
	// FREQUENCY restriction checks.
	CountRecentAssignments(memberID string, from, to time.Time) (int, error)
}
