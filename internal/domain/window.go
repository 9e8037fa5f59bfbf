package domain

import (
	"sort"
	"time"
)

// PositionBucket splits the day's windows into start-time quartiles.
type PositionBucket string

const (
	BucketEarly    PositionBucket = "EARLY"
	BucketMidEarly PositionBucket = "MID_EARLY"
	BucketMidLate  PositionBucket = "MID_LATE"
	BucketLate     PositionBucket = "LATE"
)

var AllBuckets = []PositionBucket{BucketEarly, BucketMidEarly, BucketMidLate, BucketLate}

type Window struct {
	ID          string
	LotteryDate time.Time
	// Code is the human slot label members pick, e.g. "0800".
	Code      string
	StartTime time.Time
	MaxSeats  int
	Bucket    PositionBucket
}

// AssignBuckets stamps each window with its quartile bucket and returns
// the windows sorted by start time.
func AssignBuckets(windows []*Window) []*Window {
	sorted := make([]*Window, len(windows))
	copy(sorted, windows)
	sort.Slice(sorted, func(i, j int) bool {
		return sorted[i].StartTime.Before(sorted[j].StartTime)
	})
	n := len(sorted)
	if n == 0 {
		return sorted
	}
	for i, w := range sorted {
		w.Bucket = AllBuckets[i*len(AllBuckets)/n]
	}
	return sorted
}

// MinuteOfDay is the window start expressed as minutes from midnight,
// used for time-range restriction checks.
func (w *Window) MinuteOfDay() int {
	return w.StartTime.Hour()*60 + w.StartTime.Minute()
}
