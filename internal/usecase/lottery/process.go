package lottery

import (
	"context"
	"fmt"
	"time"

	"github.com/fairwayops/lottery-service/internal/domain"
	"github.com/fairwayops/lottery-service/internal/infrastructure/kafka"
	lotterydto "github.com/fairwayops/lottery-service/internal/usecase/dto/lottery"
	"github.com/fairwayops/lottery-service/internal/usecase/restriction"
	"github.com/fairwayops/lottery-service/internal/usecase/scoring"
	"github.com/google/uuid"
	"github.com/jaevor/go-nanoid"
)

// ProcessDate executes one allocation run for a lottery date: load
// everything up front, solve purely in memory, then commit entry
// state, logs, and the run summary in one transaction. A config or
// load failure aborts before any state changes; a failed commit leaves
// the entries PROCESSING for the next run to retry.
func (uc *DefaultLotteryUsecase) ProcessDate(ctx context.Context, date time.Time) (*lotterydto.RunOutput, error) {
	startedAt := time.Now().UTC()

	cfg, err := uc.ConfigRepo.LoadAlgorithmConfig()
	if err != nil {
		return nil, fmt.Errorf("loading algorithm config: %w", err)
	}
	scorer, err := scoring.NewScorer(cfg)
	if err != nil {
		return nil, fmt.Errorf("validating algorithm config: %w", err)
	}

	entries, err := uc.EntryRepo.LoadPendingEntries(date)
	if err != nil {
		return nil, fmt.Errorf("loading pending entries: %w", err)
	}
	windows, err := uc.WindowRepo.LoadWindows(date)
	if err != nil {
		return nil, fmt.Errorf("loading windows: %w", err)
	}
	if len(windows) == 0 && len(entries) > 0 {
		return nil, domain.ErrNoWindows
	}
	rules, err := uc.RestrictionRepo.LoadActiveRestrictions()
	if err != nil {
		return nil, fmt.Errorf("loading restrictions: %w", err)
	}

	input, err := uc.buildSnapshot(date, entries, windows, rules)
	if err != nil {
		return nil, err
	}

	entryIDs := make([]string, len(entries))
	for i, e := range entries {
		entryIDs[i] = e.ID
	}
	if err := uc.EntryRepo.MarkEntriesProcessing(entryIDs); err != nil {
		return nil, fmt.Errorf("marking entries processing: %w", err)
	}

	solver := NewSolver(restriction.NewEvaluator(), scorer, cfg, uc.Logger)
	outcomes := solver.Solve(input)

	run, logs := uc.buildRunRecords(date, startedAt, outcomes)
	if err := uc.RunRepo.CommitRun(run, logs); err != nil {
		uc.Metrics.RunsTotal.WithLabelValues("failed").Inc()
		return nil, fmt.Errorf("%w: %v", domain.ErrRunCommitFailed, err)
	}

	uc.applyFairnessDeltas(date, outcomes)
	uc.publishResults(run, outcomes)
	uc.observeRun(run, outcomes)

	uc.Logger.Info("lottery run committed",
		"run_id", run.ID,
		"lottery_date", date.Format("2006-01-02"),
		"processed", run.EntriesProcessed,
		"assigned", run.EntriesAssigned,
		"unassigned", run.EntriesUnassigned,
		"duration", run.FinishedAt.Sub(run.StartedAt).String(),
	)
	return runToOutput(run), nil
}

// buildSnapshot gathers the immutable per-run state: fairness records
// for organizers, speed profiles and member classes for every member,
// and trailing assignment counts for each FREQUENCY rule period.
func (uc *DefaultLotteryUsecase) buildSnapshot(date time.Time, entries []*domain.LotteryEntry, windows []*domain.Window, rules []*domain.RestrictionRule) (SolveInput, error) {
	month := date.Format("2006-01")

	memberSet := map[string]struct{}{}
	for _, e := range entries {
		for _, id := range e.MemberIDs {
			memberSet[id] = struct{}{}
		}
	}
	memberIDs := make([]string, 0, len(memberSet))
	for id := range memberSet {
		memberIDs = append(memberIDs, id)
	}

	fairness := make(map[string]*domain.FairnessRecord, len(entries))
	for _, e := range entries {
		if _, ok := fairness[e.OrganizerID]; ok {
			continue
		}
		record, err := uc.FairnessRepo.LoadFairnessRecord(e.OrganizerID, month)
		if err != nil {
			return SolveInput{}, fmt.Errorf("loading fairness record for %s: %w", e.OrganizerID, err)
		}
		fairness[e.OrganizerID] = record
	}

	speeds, err := uc.SpeedRepo.LoadSpeedProfiles(memberIDs)
	if err != nil {
		return SolveInput{}, fmt.Errorf("loading speed profiles: %w", err)
	}
	classes, err := uc.Members.LoadMemberClasses(memberIDs)
	if err != nil {
		return SolveInput{}, fmt.Errorf("loading member classes: %w", err)
	}

	periods := map[int]struct{}{}
	for _, r := range rules {
		if r.Type == domain.RestrictionFrequency && r.PeriodDays > 0 {
			periods[r.PeriodDays] = struct{}{}
		}
	}
	counts := make(map[string]map[int]int, len(memberIDs))
	for _, memberID := range memberIDs {
		counts[memberID] = map[int]int{}
		for period := range periods {
			n, err := uc.EntryRepo.CountRecentAssignments(memberID, date.AddDate(0, 0, -period), date)
			if err != nil {
				return SolveInput{}, fmt.Errorf("counting recent assignments for %s: %w", memberID, err)
			}
			counts[memberID][period] = n
		}
	}

	contexts := make(map[string][]restriction.MemberContext, len(entries))
	for _, e := range entries {
		mcs := make([]restriction.MemberContext, 0, len(e.MemberIDs))
		for _, id := range e.MemberIDs {
			mcs = append(mcs, restriction.MemberContext{
				MemberID:         id,
				ClassID:          classes[id],
				AssignmentCounts: counts[id],
			})
		}
		contexts[e.ID] = mcs
	}

	return SolveInput{
		Entries:  entries,
		Windows:  windows,
		Rules:    rules,
		Fairness: fairness,
		Speeds:   speeds,
		Contexts: contexts,
	}, nil
}

func (uc *DefaultLotteryUsecase) buildRunRecords(date, startedAt time.Time, outcomes []*EntryOutcome) (*domain.ProcessingRun, []*domain.ProcessingEntryLog) {
	run := &domain.ProcessingRun{
		ID:          uuid.NewString(),
		Code:        newRunCode(),
		LotteryDate: date,
		Status:      domain.RunStatusCompleted,
		StartedAt:   startedAt,
		FinishedAt:  time.Now().UTC(),
	}
	logs := make([]*domain.ProcessingEntryLog, 0, len(outcomes))
	for _, o := range outcomes {
		run.EntriesProcessed++
		if o.Assigned() {
			run.EntriesAssigned++
		} else {
			run.EntriesUnassigned++
		}
		logs = append(logs, &domain.ProcessingEntryLog{
			ID:                  uuid.NewString(),
			RunID:               run.ID,
			EntryID:             o.Entry.ID,
			OrganizerID:         o.Entry.OrganizerID,
			PreferredWindow:     o.Entry.PreferredWindow,
			AlternateWindow:     o.Entry.AlternateWindow,
			AutoWindowID:        o.WindowID,
			FinalWindowID:       o.WindowID,
			Reason:              o.Reason,
			RestrictionViolated: o.RestrictionViolated,
			ViolatedRuleID:      o.ViolatedRuleID,
			FairnessBefore:      o.FairnessBefore,
			FairnessAfter:       o.FairnessBefore + o.FairnessDelta,
			FairnessDelta:       o.FairnessDelta,
			CreatedAt:           run.FinishedAt,
		})
	}
	return run, logs
}

// applyFairnessDeltas is the post-run fairness update. The run is
// already committed: a failed update is logged and skipped, never
// unwinds the run.
func (uc *DefaultLotteryUsecase) applyFairnessDeltas(date time.Time, outcomes []*EntryOutcome) {
	month := date.Format("2006-01")
	for _, o := range outcomes {
		granted := o.Reason == domain.ReasonPreferredMatch || o.Reason == domain.ReasonAlternateMatch
		if err := uc.FairnessRepo.ApplyDelta(o.Entry.OrganizerID, month, o.FairnessDelta, granted); err != nil {
			uc.Logger.Error("fairness update failed",
				"organizer_id", o.Entry.OrganizerID, "month", month, "error", err.Error())
		}
	}
}

func (uc *DefaultLotteryUsecase) publishResults(run *domain.ProcessingRun, outcomes []*EntryOutcome) {
	if uc.Publisher == nil {
		return
	}
	events := make([]kafka.EntryResultEvent, 0, len(outcomes))
	for _, o := range outcomes {
		status := domain.EntryStatusAssigned
		if !o.Assigned() {
			status = domain.EntryStatusUnassigned
		}
		events = append(events, kafka.EntryResultEvent{
			EntryID:     o.Entry.ID,
			OrganizerID: o.Entry.OrganizerID,
			LotteryDate: run.LotteryDate.Format("2006-01-02"),
			WindowID:    o.WindowID,
			Status:      string(status),
			Reason:      string(o.Reason),
		})
	}
	runEvent := kafka.RunCompletedEvent{
		RunID:             run.ID,
		Code:              run.Code,
		LotteryDate:       run.LotteryDate.Format("2006-01-02"),
		EntriesProcessed:  run.EntriesProcessed,
		EntriesAssigned:   run.EntriesAssigned,
		EntriesUnassigned: run.EntriesUnassigned,
	}
	// Notification delivery is best-effort and off the hot path.
	go func() {
		if err := uc.Publisher.PublishRunCompleted(runEvent); err != nil {
			uc.Logger.Error("failed to publish run event", "run_id", run.ID, "error", err.Error())
		}
		if err := uc.Publisher.BatchPublishEntryResults(events); err != nil {
			uc.Logger.Error("failed to publish entry result events", "run_id", run.ID, "error", err.Error())
		}
	}()
}

func (uc *DefaultLotteryUsecase) observeRun(run *domain.ProcessingRun, outcomes []*EntryOutcome) {
	uc.Metrics.RunsTotal.WithLabelValues("completed").Inc()
	uc.Metrics.RunDuration.Observe(run.FinishedAt.Sub(run.StartedAt).Seconds())
	for _, o := range outcomes {
		uc.Metrics.EntriesProcessedTotal.WithLabelValues(string(o.Reason)).Inc()
	}
	uc.Metrics.LastRunAssigned.Set(float64(run.EntriesAssigned))
	uc.Metrics.LastRunUnassigned.Set(float64(run.EntriesUnassigned))
}

func newRunCode() string {
	gen, err := nanoid.Standard(15)
	if err != nil {
		return uuid.NewString()
	}
	return gen()
}

func runToOutput(run *domain.ProcessingRun) *lotterydto.RunOutput {
	return &lotterydto.RunOutput{
		RunID:             run.ID,
		Code:              run.Code,
		LotteryDate:       run.LotteryDate.Format("2006-01-02"),
		Status:            string(run.Status),
		StartedAt:         run.StartedAt,
		FinishedAt:        run.FinishedAt,
		EntriesProcessed:  run.EntriesProcessed,
		EntriesAssigned:   run.EntriesAssigned,
		EntriesUnassigned: run.EntriesUnassigned,
	}
}
