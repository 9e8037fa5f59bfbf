package domain

import (
	"time"
)

type EntryStatus string

const (
	EntryStatusPending    EntryStatus = "PENDING"
	EntryStatusProcessing EntryStatus = "PROCESSING"
	EntryStatusAssigned   EntryStatus = "ASSIGNED"
	EntryStatusUnassigned EntryStatus = "UNASSIGNED"
)

// MemberSet is the ordered, de-duplicated set of member IDs on an entry.
// Seats consumed by the entry equal its size.
type MemberSet []string

func NewMemberSet(ids []string) (MemberSet, error) {
	if len(ids) == 0 {
		return nil, ErrEmptyMemberSet
	}
	seen := make(map[string]struct{}, len(ids))
	set := make(MemberSet, 0, len(ids))
	for _, id := range ids {
		if id == "" {
			return nil, ErrEmptyMemberSet
		}
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		set = append(set, id)
	}
	return set, nil
}

func (s MemberSet) Contains(memberID string) bool {
	for _, id := range s {
		if id == memberID {
			return true
		}
	}
	return false
}

func (s MemberSet) Seats() int { return len(s) }

type LotteryEntry struct {
	ID               string
	LotteryDate      time.Time
	OrganizerID      string
	MemberIDs        MemberSet
	PreferredWindow  string
	AlternateWindow  string
	Status           EntryStatus
	AssignedWindowID string
	SubmittedAt      time.Time
	CreatedAt        time.Time
	UpdatedAt        time.Time
}

func (e *LotteryEntry) IsGroup() bool { return len(e.MemberIDs) > 1 }
