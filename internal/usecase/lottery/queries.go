package lottery

import (
	"time"

	lotterydto "github.com/fairwayops/lottery-service/internal/usecase/dto/lottery"
)

func (uc *DefaultLotteryUsecase) CountPendingEntries(date time.Time) (int, error) {
	entries, err := uc.EntryRepo.LoadPendingEntries(date)
	if err != nil {
		return 0, err
	}
	return len(entries), nil
}

func (uc *DefaultLotteryUsecase) GetEntry(entryID string) (*lotterydto.EntryOutput, error) {
	entry, err := uc.EntryRepo.GetEntryByID(entryID)
	if err != nil {
		return nil, err
	}
	return &lotterydto.EntryOutput{
		EntryID:          entry.ID,
		Status:           string(entry.Status),
		AssignedWindowID: entry.AssignedWindowID,
	}, nil
}

func (uc *DefaultLotteryUsecase) GetRun(runID string) (*lotterydto.RunOutput, error) {
	run, err := uc.RunRepo.GetRunByID(runID)
	if err != nil {
		return nil, err
	}
	return runToOutput(run), nil
}

func (uc *DefaultLotteryUsecase) GetCommittedRun(date time.Time) (*lotterydto.RunOutput, error) {
	run, err := uc.RunRepo.GetCommittedRun(date)
	if err != nil {
		return nil, err
	}
	return runToOutput(run), nil
}

func (uc *DefaultLotteryUsecase) GetRunEntries(runID string) ([]*lotterydto.EntryLogOutput, error) {
	logs, err := uc.RunRepo.GetRunEntryLogs(runID)
	if err != nil {
		return nil, err
	}
	out := make([]*lotterydto.EntryLogOutput, len(logs))
	for i, l := range logs {
		out[i] = &lotterydto.EntryLogOutput{
			EntryID:             l.EntryID,
			OrganizerID:         l.OrganizerID,
			PreferredWindow:     l.PreferredWindow,
			AlternateWindow:     l.AlternateWindow,
			AutoWindowID:        l.AutoWindowID,
			FinalWindowID:       l.FinalWindowID,
			Reason:              string(l.Reason),
			RestrictionViolated: l.RestrictionViolated,
			ViolatedRuleID:      l.ViolatedRuleID,
			FairnessBefore:      l.FairnessBefore,
			FairnessAfter:       l.FairnessAfter,
			FairnessDelta:       l.FairnessDelta,
		}
	}
	return out, nil
}
