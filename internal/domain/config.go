package domain

import "fmt"

// SpeedBonus is one cell of the config-driven bonus table: the points a
// tier earns on a position bucket.
type SpeedBonus struct {
	Bucket PositionBucket `json:"bucket"`
	Tier   SpeedTier      `json:"tier"`
	Bonus  float64        `json:"bonus"`
}

// AlgorithmConfig is the immutable engine configuration loaded once at
// run start from its singleton row.
type AlgorithmConfig struct {
	FastThresholdMinutes    float64
	AverageThresholdMinutes float64
	// Fairness delta applied when a preference is granted (consumes
	// credit) and when an entry misses its preference (accrues credit).
	PreferenceGrantedDecrement float64
	PreferenceMissedIncrement  float64
	SpeedBonuses               []SpeedBonus
}

// BonusTable indexes the configured bonuses by bucket and tier.
type BonusTable map[PositionBucket]map[SpeedTier]float64

// BuildBonusTable validates that every (bucket, tier) cell is configured
// and fails fast otherwise.
func (c *AlgorithmConfig) BuildBonusTable() (BonusTable, error) {
	if c.FastThresholdMinutes <= 0 || c.AverageThresholdMinutes <= c.FastThresholdMinutes {
		return nil, fmt.Errorf("%w: speed thresholds must satisfy 0 < fast < average", ErrInvalidConfig)
	}
	if c.PreferenceGrantedDecrement < 0 || c.PreferenceMissedIncrement < 0 {
		return nil, fmt.Errorf("%w: fairness deltas must be non-negative magnitudes", ErrInvalidConfig)
	}
	table := make(BonusTable, len(AllBuckets))
	for _, b := range c.SpeedBonuses {
		if table[b.Bucket] == nil {
			table[b.Bucket] = make(map[SpeedTier]float64, 3)
		}
		table[b.Bucket][b.Tier] = b.Bonus
	}
	for _, bucket := range AllBuckets {
		tiers := table[bucket]
		for _, tier := range []SpeedTier{TierFast, TierAverage, TierSlow} {
			if _, ok := tiers[tier]; !ok {
				return nil, fmt.Errorf("%w: missing speed bonus for bucket=%s tier=%s", ErrInvalidConfig, bucket, tier)
			}
		}
	}
	return table, nil
}
