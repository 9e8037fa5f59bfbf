package lottery

import (
	"fmt"
	"log/slog"
	"sort"

	"github.com/fairwayops/lottery-service/internal/domain"
	"github.com/fairwayops/lottery-service/internal/usecase/restriction"
	"github.com/fairwayops/lottery-service/internal/usecase/scoring"
)

// EntryOutcome is the solver's decision for one entry, later persisted
// as a ProcessingEntryLog row.
type EntryOutcome struct {
	Entry               *domain.LotteryEntry
	Priority            float64
	WindowID            string
	Reason              domain.AssignmentReason
	RestrictionViolated bool
	ViolatedRuleID      string
	FairnessBefore      float64
	FairnessDelta       float64
}

func (o *EntryOutcome) Assigned() bool { return o.WindowID != "" }

// SolveInput is the full immutable snapshot for one lottery date. The
// solver never touches persistence.
type SolveInput struct {
	Entries  []*domain.LotteryEntry
	Windows  []*domain.Window
	Rules    []*domain.RestrictionRule
	Fairness map[string]*domain.FairnessRecord      // by organizer ID
	Speeds   map[string]*domain.SpeedProfile        // by member ID
	Contexts map[string][]restriction.MemberContext // by entry ID
}

type Solver struct {
	evaluator *restriction.Evaluator
	scorer    *scoring.Scorer
	cfg       *domain.AlgorithmConfig
	logger    *slog.Logger
}

func NewSolver(evaluator *restriction.Evaluator, scorer *scoring.Scorer, cfg *domain.AlgorithmConfig, logger *slog.Logger) *Solver {
	return &Solver{evaluator: evaluator, scorer: scorer, cfg: cfg, logger: logger}
}

// Solve runs one allocation pass: score and order entries, then walk
// them in priority order trying preferred, alternate, and finally any
// eligible window in start-time order. Entries are processed strictly
// sequentially because each reservation changes what is left for the
// next entry.
func (s *Solver) Solve(in SolveInput) []*EntryOutcome {
	windows := domain.AssignBuckets(in.Windows)
	byCode := make(map[string]*domain.Window, len(windows))
	maxSeats := make(map[string]int, len(windows))
	for _, w := range windows {
		byCode[w.Code] = w
		maxSeats[w.ID] = w.MaxSeats
	}
	tracker := NewCapacityTracker(maxSeats)

	outcomes := make([]*EntryOutcome, 0, len(in.Entries))
	for _, entry := range in.Entries {
		outcome := &EntryOutcome{Entry: entry}
		if fairness := in.Fairness[entry.OrganizerID]; fairness != nil {
			outcome.FairnessBefore = fairness.FairnessScore
		}
		// Ordering priority is scored against the preferred window's
		// position bucket; an unknown code simply earns no bonus.
		var bucket domain.PositionBucket
		if w, ok := byCode[entry.PreferredWindow]; ok {
			bucket = w.Bucket
		}
		outcome.Priority = s.scorer.Score(entry, in.Fairness[entry.OrganizerID], in.Speeds, bucket)
		outcomes = append(outcomes, outcome)
	}

	sort.SliceStable(outcomes, func(i, j int) bool {
		if outcomes[i].Priority != outcomes[j].Priority {
			return outcomes[i].Priority > outcomes[j].Priority
		}
		if !outcomes[i].Entry.SubmittedAt.Equal(outcomes[j].Entry.SubmittedAt) {
			return outcomes[i].Entry.SubmittedAt.Before(outcomes[j].Entry.SubmittedAt)
		}
		return outcomes[i].Entry.ID < outcomes[j].Entry.ID
	})

	for _, outcome := range outcomes {
		if err := s.allocate(outcome, byCode, windows, in, tracker); err != nil {
			// One bad entry must never abort the batch.
			s.logger.Error("entry processing failed, continuing run",
				"entry_id", outcome.Entry.ID, "error", err.Error())
			outcome.WindowID = ""
			outcome.Reason = domain.ReasonProcessingError
			outcome.RestrictionViolated = false
			outcome.ViolatedRuleID = ""
		}
		outcome.FairnessDelta = s.fairnessDelta(outcome)
	}
	return outcomes
}

func (s *Solver) allocate(outcome *EntryOutcome, byCode map[string]*domain.Window, windows []*domain.Window, in SolveInput, tracker *CapacityTracker) error {
	entry := outcome.Entry
	contexts := in.Contexts[entry.ID]
	seats := entry.MemberIDs.Seats()

	tried := map[string]bool{}
	sawFullEligible := false

	try := func(w *domain.Window, reason domain.AssignmentReason) (bool, error) {
		tried[w.ID] = true
		verdict, err := s.evaluator.Evaluate(contexts, w, in.Rules)
		if err != nil {
			return false, fmt.Errorf("evaluating window %s: %w", w.Code, err)
		}
		if verdict.State == domain.Blocked {
			return false, nil
		}
		if !tracker.Reserve(w.ID, seats) {
			sawFullEligible = true
			return false, nil
		}
		outcome.WindowID = w.ID
		outcome.Reason = reason
		if verdict.State == domain.Overridable {
			outcome.RestrictionViolated = true
			outcome.ViolatedRuleID = verdict.RuleID
		}
		return true, nil
	}

	if w, ok := byCode[entry.PreferredWindow]; ok {
		if done, err := try(w, domain.ReasonPreferredMatch); done || err != nil {
			return err
		}
	}
	if entry.AlternateWindow != "" {
		if w, ok := byCode[entry.AlternateWindow]; ok {
			if done, err := try(w, domain.ReasonAlternateMatch); done || err != nil {
				return err
			}
		}
	}
	// Fallback scan in start-time order over windows not yet tried.
	for _, w := range windows {
		if tried[w.ID] {
			continue
		}
		if done, err := try(w, domain.ReasonAllowedFallback); done || err != nil {
			return err
		}
	}

	if sawFullEligible {
		outcome.Reason = domain.ReasonNoCapacity
	} else {
		outcome.Reason = domain.ReasonRestrictionViolation
	}
	return nil
}

// fairnessDelta consumes credit when a preference was granted and builds
// credit otherwise. The post-run update floors the score at zero, so the
// granted decrement is clamped to what the organizer actually has.
func (s *Solver) fairnessDelta(outcome *EntryOutcome) float64 {
	switch outcome.Reason {
	case domain.ReasonPreferredMatch, domain.ReasonAlternateMatch:
		decrement := s.cfg.PreferenceGrantedDecrement
		if decrement > outcome.FairnessBefore {
			decrement = outcome.FairnessBefore
		}
		return -decrement
	case domain.ReasonAllowedFallback, domain.ReasonRestrictionViolation, domain.ReasonNoCapacity:
		return s.cfg.PreferenceMissedIncrement
	default:
		return 0
	}
}
