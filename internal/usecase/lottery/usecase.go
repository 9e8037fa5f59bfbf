package lottery

import (
	"context"
	"log/slog"
	"time"

	"github.com/fairwayops/lottery-service/internal/domain"
	"github.com/fairwayops/lottery-service/internal/infrastructure/kafka"
	"github.com/fairwayops/lottery-service/internal/infrastructure/metrics"
	lotterydto "github.com/fairwayops/lottery-service/internal/usecase/dto/lottery"
)

type LotteryUsecase interface {
	SubmitEntry(input *lotterydto.SubmitEntryInput) (*domain.LotteryEntry, error)

	// ProcessDate runs the allocation batch for one lottery date. The
	// caller must serialize invocations per date; the run assumes
	// exclusive ownership of the date's entry and capacity state.
	ProcessDate(ctx context.Context, date time.Time) (*lotterydto.RunOutput, error)

	// CountPendingEntries reports how many entries still wait for a
	// run on the date. The scheduler skips dates with none.
	CountPendingEntries(date time.Time) (int, error)

	GetEntry(entryID string) (*lotterydto.EntryOutput, error)
	GetRun(runID string) (*lotterydto.RunOutput, error)
	GetRunEntries(runID string) ([]*lotterydto.EntryLogOutput, error)
	GetCommittedRun(date time.Time) (*lotterydto.RunOutput, error)
}

type DefaultLotteryUsecase struct {
	EntryRepo       domain.EntryRepository
	WindowRepo      domain.WindowRepository
	RestrictionRepo domain.RestrictionRepository
	FairnessRepo    domain.FairnessRepository
	SpeedRepo       domain.SpeedRepository
	Members         domain.MemberDirectory
	ConfigRepo      domain.AlgorithmConfigRepository
	RunRepo         domain.RunRepository
	Publisher       *kafka.ResultPublisher
	Metrics         *metrics.LotteryMetrics
	Logger          *slog.Logger
}

func NewDefaultLotteryUsecase(
	entryRepo domain.EntryRepository,
	windowRepo domain.WindowRepository,
	restrictionRepo domain.RestrictionRepository,
	fairnessRepo domain.FairnessRepository,
	speedRepo domain.SpeedRepository,
	members domain.MemberDirectory,
	configRepo domain.AlgorithmConfigRepository,
	runRepo domain.RunRepository,
	resultPublisher *kafka.ResultPublisher,
	lotteryMetrics *metrics.LotteryMetrics,
	logger *slog.Logger) *DefaultLotteryUsecase {

	return &DefaultLotteryUsecase{
		EntryRepo:       entryRepo,
		WindowRepo:      windowRepo,
		RestrictionRepo: restrictionRepo,
		FairnessRepo:    fairnessRepo,
		SpeedRepo:       speedRepo,
		Members:         members,
		ConfigRepo:      configRepo,
		RunRepo:         runRepo,
		Publisher:       resultPublisher,
		Metrics:         lotteryMetrics,
		Logger:          logger,
	}
}

// SubmitEntry validates and stores a member request before the run. The
// one-entry-per-organizer-per-date invariant is enforced by the repo's
// unique index.
func (uc *DefaultLotteryUsecase) SubmitEntry(input *lotterydto.SubmitEntryInput) (*domain.LotteryEntry, error) {
	members, err := domain.NewMemberSet(input.MemberIDs)
	if err != nil {
		return nil, err
	}
	if !members.Contains(input.OrganizerID) {
		members = append(MemberSetWithOrganizer(input.OrganizerID), members...)
	}
	entry := &domain.LotteryEntry{
		LotteryDate:     input.LotteryDate,
		OrganizerID:     input.OrganizerID,
		MemberIDs:       members,
		PreferredWindow: input.PreferredWindow,
		AlternateWindow: input.AlternateWindow,
		Status:          domain.EntryStatusPending,
		SubmittedAt:     time.Now().UTC(),
	}
	if err := uc.EntryRepo.CreateEntry(entry); err != nil {
		return nil, err
	}
	month := entry.LotteryDate.Format("2006-01")
	if err := uc.FairnessRepo.RecordEntrySubmission(entry.OrganizerID, month); err != nil {
		uc.Logger.Error("failed to record entry submission", "organizerID", entry.OrganizerID, "error", err.Error())
	}
	uc.Metrics.EntriesSubmittedTotal.Inc()
	return entry, nil
}

// MemberSetWithOrganizer is a tiny helper so the organizer always leads
// the ordered set.
func MemberSetWithOrganizer(organizerID string) domain.MemberSet {
	return domain.MemberSet{organizerID}
}
