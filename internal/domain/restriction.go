package domain

import "time"

type RestrictionCategory string

const (
	CategoryMemberClass  RestrictionCategory = "MEMBER_CLASS"
	CategoryGuestContent RestrictionCategory = "GUEST_CONTENT"
	CategoryLottery      RestrictionCategory = "LOTTERY"
)

type RestrictionType string

const (
	RestrictionTimeWindow RestrictionType = "TIME_WINDOW"
	RestrictionFrequency  RestrictionType = "FREQUENCY"
)

// RestrictionRule is a read-only eligibility constraint. Rules with an
// empty AppliesToClasses list apply to every member class.
type RestrictionRule struct {
	ID               string
	Name             string
	Category         RestrictionCategory
	Type             RestrictionType
	AppliesToClasses []string
	Active           bool
	OverrideAllowed  bool
	// Priority resolves conflicts between matching rules, higher wins.
	Priority int

	// TIME_WINDOW constraints, minutes from midnight.
	StartMinute int
	EndMinute   int
	DaysOfWeek  []time.Weekday

	// FREQUENCY constraints.
	MaxCount   int
	PeriodDays int
}

func (r *RestrictionRule) AppliesToClass(classID string) bool {
	if len(r.AppliesToClasses) == 0 {
		return true
	}
	for _, c := range r.AppliesToClasses {
		if c == classID {
			return true
		}
	}
	return false
}

func (r *RestrictionRule) MatchesDay(day time.Weekday) bool {
	if len(r.DaysOfWeek) == 0 {
		return true
	}
	for _, d := range r.DaysOfWeek {
		if d == day {
			return true
		}
	}
	return false
}

type EligibilityState string

const (
	Eligible    EligibilityState = "ELIGIBLE"
	Blocked     EligibilityState = "BLOCKED"
	Overridable EligibilityState = "OVERRIDABLE"
)

// Eligibility is the evaluator verdict for one (members, window) pair.
// RuleID names the winning rule for BLOCKED and OVERRIDABLE results.
type Eligibility struct {
	State  EligibilityState
	RuleID string
}
