package domain

import "time"

// FairnessRecord tracks one member's monthly lottery history. Score grows
// while a member keeps missing preferred slots and is spent when a
// preference is granted; a maintenance job resets records at month end.
type FairnessRecord struct {
	ID                 string
	MemberID           string
	Month              string // "2006-01"
	EntriesThisMonth   int
	PreferencesGranted int
	FairnessScore      float64
	UpdatedAt          time.Time
}

type SpeedTier string

const (
	TierFast    SpeedTier = "FAST"
	TierAverage SpeedTier = "AVERAGE"
	TierSlow    SpeedTier = "SLOW"
)

// SpeedProfile is read-only input: round-completion ingestion lives in
// the teesheet service.
type SpeedProfile struct {
	ID              string
	MemberID        string
	AvgRoundMinutes float64
	RoundCount      int
	Tier            SpeedTier
	TierOverridden  bool
	CalculatedAt    time.Time
}

// EffectiveTier derives the tier from the rolling average unless an
// admin override is pinned on the profile.
func (p *SpeedProfile) EffectiveTier(fastThreshold, averageThreshold float64) SpeedTier {
	if p.TierOverridden {
		return p.Tier
	}
	if p.RoundCount == 0 {
		return TierAverage
	}
	switch {
	case p.AvgRoundMinutes <= fastThreshold:
		return TierFast
	case p.AvgRoundMinutes <= averageThreshold:
		return TierAverage
	default:
		return TierSlow
	}
}

// SlowerTier reports whether a is slower than b.
func SlowerTier(a, b SpeedTier) bool {
	rank := map[SpeedTier]int{TierFast: 0, TierAverage: 1, TierSlow: 2}
	return rank[a] > rank[b]
}
