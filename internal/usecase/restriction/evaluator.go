package restriction

import (
	"fmt"
	"sort"

	"github.com/fairwayops/lottery-service/internal/domain"
)

// MemberContext is the immutable per-member snapshot the evaluator needs:
// the member's class and their recent assignment counts keyed by the
// trailing period (days) of each FREQUENCY rule in play.
type MemberContext struct {
	MemberID         string
	ClassID          string
	AssignmentCounts map[int]int
}

type Evaluator struct{}

func NewEvaluator() *Evaluator {
	return &Evaluator{}
}

// Evaluate decides whether every member of an entry may take the window.
// It is a pure function over the supplied snapshots: the same inputs
// always produce the same verdict.
func (e *Evaluator) Evaluate(members []MemberContext, window *domain.Window, rules []*domain.RestrictionRule) (domain.Eligibility, error) {
	var blockers []*domain.RestrictionRule
	for _, rule := range rules {
		if !rule.Active || !e.matches(rule, members) {
			continue
		}
		blocked, err := e.blocks(rule, members, window)
		if err != nil {
			return domain.Eligibility{}, err
		}
		if blocked {
			blockers = append(blockers, rule)
		}
	}
	if len(blockers) == 0 {
		return domain.Eligibility{State: domain.Eligible}, nil
	}

	// Highest priority wins; on a priority tie fail closed unless every
	// tied rule permits override.
	sort.SliceStable(blockers, func(i, j int) bool {
		return blockers[i].Priority > blockers[j].Priority
	})
	top := blockers[0].Priority
	verdict := domain.Eligibility{State: domain.Overridable, RuleID: blockers[0].ID}
	for _, rule := range blockers {
		if rule.Priority != top {
			break
		}
		if !rule.OverrideAllowed {
			return domain.Eligibility{State: domain.Blocked, RuleID: rule.ID}, nil
		}
	}
	return verdict, nil
}

// matches filters rules to those applicable to the entry: lottery-category
// rules always apply, the rest must hit at least one member's class.
func (e *Evaluator) matches(rule *domain.RestrictionRule, members []MemberContext) bool {
	if rule.Category == domain.CategoryLottery {
		return true
	}
	for _, m := range members {
		if rule.AppliesToClass(m.ClassID) {
			return true
		}
	}
	return false
}

func (e *Evaluator) blocks(rule *domain.RestrictionRule, members []MemberContext, window *domain.Window) (bool, error) {
	switch rule.Type {
	case domain.RestrictionTimeWindow:
		if rule.EndMinute <= rule.StartMinute {
			return false, fmt.Errorf("%w: rule %s has empty time range", domain.ErrMalformedRule, rule.ID)
		}
		if !rule.MatchesDay(window.StartTime.Weekday()) {
			return false, nil
		}
		minute := window.MinuteOfDay()
		return minute >= rule.StartMinute && minute < rule.EndMinute, nil

	case domain.RestrictionFrequency:
		if rule.MaxCount <= 0 || rule.PeriodDays <= 0 {
			return false, fmt.Errorf("%w: rule %s has invalid frequency constraints", domain.ErrMalformedRule, rule.ID)
		}
		for _, m := range members {
			if !rule.AppliesToClass(m.ClassID) && rule.Category != domain.CategoryLottery {
				continue
			}
			if m.AssignmentCounts[rule.PeriodDays] >= rule.MaxCount {
				return true, nil
			}
		}
		return false, nil

	default:
		return false, fmt.Errorf("%w: rule %s has unknown type %q", domain.ErrMalformedRule, rule.ID, rule.Type)
	}
}
