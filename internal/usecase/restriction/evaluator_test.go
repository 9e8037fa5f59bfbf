package restriction

import (
	"errors"
	"testing"
	"time"

	"github.com/fairwayops/lottery-service/internal/domain"
)

func saturdayWindow(hour, minute int) *domain.Window {
	// 2025-06-07 is a Saturday.
	start := time.Date(2025, 6, 7, hour, minute, 0, 0, time.UTC)
	return &domain.Window{ID: "w-" + start.Format("1504"), Code: start.Format("1504"), StartTime: start}
}

func timeRule(id string, priority int, override bool, startMin, endMin int, days ...time.Weekday) *domain.RestrictionRule {
	return &domain.RestrictionRule{
		ID:              id,
		Category:        domain.CategoryMemberClass,
		Type:            domain.RestrictionTimeWindow,
		Active:          true,
		OverrideAllowed: override,
		Priority:        priority,
		StartMinute:     startMin,
		EndMinute:       endMin,
		DaysOfWeek:      days,
	}
}

func TestEvaluator_TimeWindowRules(t *testing.T) {
	ev := NewEvaluator()
	members := []MemberContext{{MemberID: "m1", ClassID: "SOCIAL"}}

	t.Run("window inside blocked range", func(t *testing.T) {
		rule := timeRule("r1", 10, false, 8*60, 10*60, time.Saturday)
		got, err := ev.Evaluate(members, saturdayWindow(8, 30), []*domain.RestrictionRule{rule})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if got.State != domain.Blocked || got.RuleID != "r1" {
			t.Errorf("expected BLOCKED by r1, got %+v", got)
		}
	})

	t.Run("window outside blocked range", func(t *testing.T) {
		rule := timeRule("r1", 10, false, 8*60, 10*60, time.Saturday)
		got, err := ev.Evaluate(members, saturdayWindow(10, 0), []*domain.RestrictionRule{rule})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if got.State != domain.Eligible {
			t.Errorf("expected ELIGIBLE, got %+v", got)
		}
	})

	t.Run("day of week does not match", func(t *testing.T) {
		rule := timeRule("r1", 10, false, 8*60, 10*60, time.Sunday)
		got, _ := ev.Evaluate(members, saturdayWindow(8, 30), []*domain.RestrictionRule{rule})
		if got.State != domain.Eligible {
			t.Errorf("expected ELIGIBLE on non-matching day, got %+v", got)
		}
	})

	t.Run("inactive rule is ignored", func(t *testing.T) {
		rule := timeRule("r1", 10, false, 8*60, 10*60, time.Saturday)
		rule.Active = false
		got, _ := ev.Evaluate(members, saturdayWindow(8, 30), []*domain.RestrictionRule{rule})
		if got.State != domain.Eligible {
			t.Errorf("expected ELIGIBLE for inactive rule, got %+v", got)
		}
	})

	t.Run("class applicability filters the rule", func(t *testing.T) {
		rule := timeRule("r1", 10, false, 8*60, 10*60, time.Saturday)
		rule.AppliesToClasses = []string{"JUNIOR"}
		got, _ := ev.Evaluate(members, saturdayWindow(8, 30), []*domain.RestrictionRule{rule})
		if got.State != domain.Eligible {
			t.Errorf("expected ELIGIBLE for non-applicable class, got %+v", got)
		}
	})

	t.Run("any member's class can trigger the rule", func(t *testing.T) {
		rule := timeRule("r1", 10, false, 8*60, 10*60, time.Saturday)
		rule.AppliesToClasses = []string{"JUNIOR"}
		group := []MemberContext{
			{MemberID: "m1", ClassID: "FULL"},
			{MemberID: "m2", ClassID: "JUNIOR"},
		}
		got, _ := ev.Evaluate(group, saturdayWindow(8, 30), []*domain.RestrictionRule{rule})
		if got.State != domain.Blocked {
			t.Errorf("expected BLOCKED via group member class, got %+v", got)
		}
	})
}

func TestEvaluator_FrequencyRules(t *testing.T) {
	ev := NewEvaluator()
	rule := &domain.RestrictionRule{
		ID:         "freq1",
		Category:   domain.CategoryLottery,
		Type:       domain.RestrictionFrequency,
		Active:     true,
		Priority:   5,
		MaxCount:   2,
		PeriodDays: 7,
	}

	t.Run("under the cap", func(t *testing.T) {
		members := []MemberContext{{MemberID: "m1", ClassID: "FULL", AssignmentCounts: map[int]int{7: 1}}}
		got, err := ev.Evaluate(members, saturdayWindow(9, 0), []*domain.RestrictionRule{rule})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if got.State != domain.Eligible {
			t.Errorf("expected ELIGIBLE under cap, got %+v", got)
		}
	})

	t.Run("at the cap blocks", func(t *testing.T) {
		members := []MemberContext{{MemberID: "m1", ClassID: "FULL", AssignmentCounts: map[int]int{7: 2}}}
		got, _ := ev.Evaluate(members, saturdayWindow(9, 0), []*domain.RestrictionRule{rule})
		if got.State != domain.Blocked || got.RuleID != "freq1" {
			t.Errorf("expected BLOCKED by freq1, got %+v", got)
		}
	})
}

func TestEvaluator_ConflictResolution(t *testing.T) {
	ev := NewEvaluator()
	members := []MemberContext{{MemberID: "m1", ClassID: "FULL"}}
	window := saturdayWindow(8, 0)

	t.Run("highest priority wins", func(t *testing.T) {
		low := timeRule("low", 1, true, 0, 24*60)
		high := timeRule("high", 9, false, 0, 24*60)
		got, _ := ev.Evaluate(members, window, []*domain.RestrictionRule{low, high})
		if got.State != domain.Blocked || got.RuleID != "high" {
			t.Errorf("expected BLOCKED by high-priority rule, got %+v", got)
		}
	})

	t.Run("tie fails closed when any rule forbids override", func(t *testing.T) {
		a := timeRule("a", 5, true, 0, 24*60)
		b := timeRule("b", 5, false, 0, 24*60)
		got, _ := ev.Evaluate(members, window, []*domain.RestrictionRule{a, b})
		if got.State != domain.Blocked {
			t.Errorf("expected BLOCKED on mixed tie, got %+v", got)
		}
	})

	t.Run("overridable when all matching blockers permit it", func(t *testing.T) {
		a := timeRule("a", 5, true, 0, 24*60)
		b := timeRule("b", 5, true, 0, 24*60)
		got, _ := ev.Evaluate(members, window, []*domain.RestrictionRule{a, b})
		if got.State != domain.Overridable {
			t.Errorf("expected OVERRIDABLE, got %+v", got)
		}
	})
}

func TestEvaluator_MalformedRules(t *testing.T) {
	ev := NewEvaluator()
	members := []MemberContext{{MemberID: "m1", ClassID: "FULL"}}

	rule := timeRule("bad", 1, false, 600, 600)
	_, err := ev.Evaluate(members, saturdayWindow(9, 0), []*domain.RestrictionRule{rule})
	if !errors.Is(err, domain.ErrMalformedRule) {
		t.Fatalf("expected ErrMalformedRule, got %v", err)
	}
}

func TestEvaluator_Deterministic(t *testing.T) {
	ev := NewEvaluator()
	members := []MemberContext{{MemberID: "m1", ClassID: "FULL", AssignmentCounts: map[int]int{7: 2}}}
	rules := []*domain.RestrictionRule{
		timeRule("t1", 3, false, 8*60, 10*60, time.Saturday),
		{ID: "f1", Category: domain.CategoryLottery, Type: domain.RestrictionFrequency, Active: true, Priority: 3, MaxCount: 2, PeriodDays: 7},
	}
	window := saturdayWindow(8, 15)

	first, err := ev.Evaluate(members, window, rules)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	for i := 0; i < 50; i++ {
		again, err := ev.Evaluate(members, window, rules)
		if err != nil {
			t.Fatalf("unexpected error on repeat: %v", err)
		}
		if again != first {
			t.Fatalf("verdict changed between evaluations: %+v vs %+v", first, again)
		}
	}
}
