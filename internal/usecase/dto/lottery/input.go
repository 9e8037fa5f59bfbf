package lottery

import "time"

type SubmitEntryInput struct {
	OrganizerID     string
	MemberIDs       []string
	LotteryDate     time.Time
	PreferredWindow string
	AlternateWindow string
}
