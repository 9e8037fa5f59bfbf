package scoring

import (
	"github.com/fairwayops/lottery-service/internal/domain"
)

// Scorer computes entry priority: the organizer's rolling fairness score
// plus a speed bonus from the configured (bucket, tier) table.
type Scorer struct {
	bonuses          domain.BonusTable
	fastThreshold    float64
	averageThreshold float64
}

func NewScorer(cfg *domain.AlgorithmConfig) (*Scorer, error) {
	table, err := cfg.BuildBonusTable()
	if err != nil {
		return nil, err
	}
	return &Scorer{
		bonuses:          table,
		fastThreshold:    cfg.FastThresholdMinutes,
		averageThreshold: cfg.AverageThresholdMinutes,
	}, nil
}

// GroupTier is the slowest effective tier among the entry's members: a
// group is only as fast as its slowest player. Members without a profile
// count as AVERAGE.
func (s *Scorer) GroupTier(entry *domain.LotteryEntry, profiles map[string]*domain.SpeedProfile) domain.SpeedTier {
	tier := domain.TierFast
	for _, memberID := range entry.MemberIDs {
		memberTier := domain.TierAverage
		if p, ok := profiles[memberID]; ok {
			memberTier = p.EffectiveTier(s.fastThreshold, s.averageThreshold)
		}
		if domain.SlowerTier(memberTier, tier) {
			tier = memberTier
		}
	}
	return tier
}

// Score is deterministic given immutable snapshots of its inputs. Only
// the organizer accrues monthly fairness, so the organizer's record
// carries the whole entry.
func (s *Scorer) Score(entry *domain.LotteryEntry, fairness *domain.FairnessRecord, profiles map[string]*domain.SpeedProfile, bucket domain.PositionBucket) float64 {
	base := 0.0
	if fairness != nil {
		base = fairness.FairnessScore
	}
	return base + s.bonuses[bucket][s.GroupTier(entry, profiles)]
}
