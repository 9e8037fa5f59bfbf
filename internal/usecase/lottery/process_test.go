package lottery

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"sync"
	"testing"
	"time"

	"github.com/fairwayops/lottery-service/internal/domain"
	"github.com/fairwayops/lottery-service/internal/infrastructure/metrics"
	"github.com/fairwayops/lottery-service/internal/infrastructure/postgres/models"
	"github.com/fairwayops/lottery-service/internal/infrastructure/postgres/repository"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

// Metrics register against the global prometheus registry, so all
// process tests share one bundle.
var (
	procMetrics     *metrics.LotteryMetrics
	procMetricsOnce sync.Once
)

func testMetrics() *metrics.LotteryMetrics {
	procMetricsOnce.Do(func() {
		procMetrics = metrics.NewLotteryMetrics()
	})
	return procMetrics
}

type processFixture struct {
	db        *gorm.DB
	uc        *DefaultLotteryUsecase
	entryRepo *repository.DefaultEntryRepository
	runRepo   *repository.DefaultRunRepository
}

func newProcessFixture(t *testing.T) *processFixture {
	t.Helper()
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	if err != nil {
		t.Fatalf("failed to open test db: %v", err)
	}
	if err := db.AutoMigrate(
		&models.EntryModel{},
		&models.WindowModel{},
		&models.MemberModel{},
		&models.RestrictionModel{},
		&models.FairnessModel{},
		&models.SpeedModel{},
		&models.RunModel{},
		&models.EntryLogModel{},
		&models.AlgorithmConfigModel{},
	); err != nil {
		t.Fatalf("failed to migrate test db: %v", err)
	}

	entryRepo := repository.NewDefaultEntryRepository(db)
	runRepo := repository.NewDefaultRunRepository(db)
	uc := NewDefaultLotteryUsecase(
		entryRepo,
		repository.NewDefaultWindowRepository(db),
		repository.NewDefaultRestrictionRepository(db),
		repository.NewDefaultFairnessRepository(db),
		repository.NewDefaultSpeedRepository(db),
		repository.NewDefaultMemberDirectory(db),
		repository.NewDefaultAlgorithmConfigRepository(db),
		runRepo,
		nil,
		testMetrics(),
		slog.New(slog.NewTextHandler(io.Discard, nil)),
	)
	return &processFixture{db: db, uc: uc, entryRepo: entryRepo, runRepo: runRepo}
}

func (f *processFixture) seedConfig(t *testing.T) {
	t.Helper()
	bonuses, err := json.Marshal(flatConfig().SpeedBonuses)
	if err != nil {
		t.Fatalf("marshal bonuses: %v", err)
	}
	model := &models.AlgorithmConfigModel{
		ID:                         1,
		FastThresholdMinutes:       240,
		AverageThresholdMinutes:    270,
		PreferenceGrantedDecrement: 1,
		PreferenceMissedIncrement:  1,
		SpeedBonuses:               bonuses,
		UpdatedAt:                  time.Now().UTC(),
	}
	if err := f.db.Create(model).Error; err != nil {
		t.Fatalf("seed config: %v", err)
	}
}

func (f *processFixture) seedWindow(t *testing.T, id, code string, hour, seats int) {
	t.Helper()
	model := &models.WindowModel{
		ID:          id,
		LotteryDate: testDate,
		Code:        code,
		StartTime:   time.Date(testDate.Year(), testDate.Month(), testDate.Day(), hour, 0, 0, 0, time.UTC),
		MaxSeats:    seats,
	}
	if err := f.db.Create(model).Error; err != nil {
		t.Fatalf("seed window %s: %v", code, err)
	}
}

func (f *processFixture) seedEntry(t *testing.T, organizer string, members []string, preferred, alternate string, submitted time.Time) string {
	t.Helper()
	set := domain.MemberSet{organizer}
	set = append(set, members...)
	e := &domain.LotteryEntry{
		LotteryDate:     testDate,
		OrganizerID:     organizer,
		MemberIDs:       set,
		PreferredWindow: preferred,
		AlternateWindow: alternate,
		Status:          domain.EntryStatusPending,
		SubmittedAt:     submitted,
	}
	if err := f.entryRepo.CreateEntry(e); err != nil {
		t.Fatalf("seed entry for %s: %v", organizer, err)
	}
	return e.ID
}

func TestProcessDate_CommitsRunAndAuditTrail(t *testing.T) {
	f := newProcessFixture(t)
	f.seedConfig(t)
	f.seedWindow(t, "win-1", "W-0800", 8, 4)
	f.seedWindow(t, "win-2", "W-0900", 9, 4)

	base := time.Date(2025, 6, 1, 10, 0, 0, 0, time.UTC)
	e1 := f.seedEntry(t, "m-1", nil, "W-0800", "", base)
	e2 := f.seedEntry(t, "m-2", []string{"m-20", "m-21"}, "W-0800", "", base.Add(time.Minute))
	e3 := f.seedEntry(t, "m-3", nil, "W-0800", "W-0900", base.Add(2*time.Minute))

	run, err := f.uc.ProcessDate(context.Background(), testDate)
	if err != nil {
		t.Fatalf("process: %v", err)
	}
	if run.EntriesProcessed != 3 || run.EntriesAssigned != 3 || run.EntriesUnassigned != 0 {
		t.Fatalf("unexpected run counts: %+v", run)
	}
	if run.Status != string(domain.RunStatusCompleted) {
		t.Fatalf("expected COMPLETED run, got %s", run.Status)
	}

	// The first two fill the preferred window; the third overflows to
	// its alternate.
	for entryID, want := range map[string]string{e1: "win-1", e2: "win-1", e3: "win-2"} {
		got, err := f.entryRepo.GetEntryByID(entryID)
		if err != nil {
			t.Fatalf("get entry: %v", err)
		}
		if got.Status != domain.EntryStatusAssigned || got.AssignedWindowID != want {
			t.Fatalf("entry %s: expected ASSIGNED %s, got %s %q",
				entryID, want, got.Status, got.AssignedWindowID)
		}
	}

	logs, err := f.uc.GetRunEntries(run.RunID)
	if err != nil {
		t.Fatalf("get run entries: %v", err)
	}
	if len(logs) != 3 {
		t.Fatalf("expected 3 audit rows, got %d", len(logs))
	}
	reasons := map[string]string{}
	for _, l := range logs {
		reasons[l.EntryID] = l.Reason
		if l.FinalWindowID != l.AutoWindowID {
			t.Fatalf("final window must start equal to auto assignment: %+v", l)
		}
	}
	if reasons[e1] != string(domain.ReasonPreferredMatch) ||
		reasons[e2] != string(domain.ReasonPreferredMatch) ||
		reasons[e3] != string(domain.ReasonAlternateMatch) {
		t.Fatalf("unexpected reasons: %v", reasons)
	}

	got, err := f.uc.GetCommittedRun(testDate)
	if err != nil {
		t.Fatalf("get committed run: %v", err)
	}
	if got.RunID != run.RunID {
		t.Fatalf("expected committed run %s, got %s", run.RunID, got.RunID)
	}
}

func TestProcessDate_MissedPreferenceAccruesFairness(t *testing.T) {
	f := newProcessFixture(t)
	f.seedConfig(t)
	f.seedWindow(t, "win-1", "W-0800", 8, 1)
	f.seedWindow(t, "win-2", "W-0900", 9, 4)

	base := time.Date(2025, 6, 1, 10, 0, 0, 0, time.UTC)
	f.seedEntry(t, "m-1", nil, "W-0800", "", base)
	f.seedEntry(t, "m-2", nil, "W-0800", "", base.Add(time.Minute))

	if _, err := f.uc.ProcessDate(context.Background(), testDate); err != nil {
		t.Fatalf("process: %v", err)
	}

	fairnessRepo := repository.NewDefaultFairnessRepository(f.db)
	month := testDate.Format("2006-01")

	granted, _ := fairnessRepo.LoadFairnessRecord("m-1", month)
	if granted.FairnessScore != 0 || granted.PreferencesGranted != 1 {
		t.Fatalf("granted organizer: score=%f granted=%d", granted.FairnessScore, granted.PreferencesGranted)
	}

	// m-2 lands in the fallback window: credit accrues, no preference
	// granted.
	missed, _ := fairnessRepo.LoadFairnessRecord("m-2", month)
	if missed.FairnessScore != 1 || missed.PreferencesGranted != 0 {
		t.Fatalf("fallback organizer: score=%f granted=%d", missed.FairnessScore, missed.PreferencesGranted)
	}
}

func TestProcessDate_RerunSupersedesPriorRun(t *testing.T) {
	f := newProcessFixture(t)
	f.seedConfig(t)
	f.seedWindow(t, "win-1", "W-0800", 8, 4)

	base := time.Date(2025, 6, 1, 10, 0, 0, 0, time.UTC)
	f.seedEntry(t, "m-1", nil, "W-0800", "", base)

	first, err := f.uc.ProcessDate(context.Background(), testDate)
	if err != nil {
		t.Fatalf("first run: %v", err)
	}

	f.seedEntry(t, "m-2", nil, "W-0800", "", base.Add(time.Minute))
	second, err := f.uc.ProcessDate(context.Background(), testDate)
	if err != nil {
		t.Fatalf("second run: %v", err)
	}

	voided, err := f.runRepo.GetRunByID(first.RunID)
	if err != nil {
		t.Fatalf("get first run: %v", err)
	}
	if voided.Status != domain.RunStatusSuperseded {
		t.Fatalf("expected first run SUPERSEDED, got %s", voided.Status)
	}

	committed, err := f.uc.GetCommittedRun(testDate)
	if err != nil {
		t.Fatalf("get committed: %v", err)
	}
	if committed.RunID != second.RunID {
		t.Fatalf("expected second run authoritative, got %s", committed.RunID)
	}

	// Audit rows of the superseded run stay readable.
	oldLogs, err := f.uc.GetRunEntries(first.RunID)
	if err != nil {
		t.Fatalf("get superseded logs: %v", err)
	}
	if len(oldLogs) != 1 {
		t.Fatalf("expected 1 preserved audit row, got %d", len(oldLogs))
	}
}

func TestProcessDate_FailedCommitLeavesEntriesRetryable(t *testing.T) {
	f := newProcessFixture(t)
	f.seedConfig(t)
	f.seedWindow(t, "win-1", "W-0800", 8, 4)
	entryID := f.seedEntry(t, "m-1", nil, "W-0800", "", time.Now().UTC())

	if err := f.db.Migrator().DropTable(&models.RunModel{}); err != nil {
		t.Fatalf("drop run table: %v", err)
	}
	if _, err := f.uc.ProcessDate(context.Background(), testDate); !errors.Is(err, domain.ErrRunCommitFailed) {
		t.Fatalf("expected ErrRunCommitFailed, got %v", err)
	}

	// The commit rolled back: no terminal status, no stray window.
	got, err := f.entryRepo.GetEntryByID(entryID)
	if err != nil {
		t.Fatalf("get entry: %v", err)
	}
	if got.Status != domain.EntryStatusProcessing || got.AssignedWindowID != "" {
		t.Fatalf("expected PROCESSING with no window, got %s %q", got.Status, got.AssignedWindowID)
	}

	if err := f.db.AutoMigrate(&models.RunModel{}); err != nil {
		t.Fatalf("restore run table: %v", err)
	}
	run, err := f.uc.ProcessDate(context.Background(), testDate)
	if err != nil {
		t.Fatalf("retry: %v", err)
	}
	if run.EntriesProcessed != 1 || run.EntriesAssigned != 1 {
		t.Fatalf("retry must pick the entry up again, got %+v", run)
	}
	got, _ = f.entryRepo.GetEntryByID(entryID)
	if got.Status != domain.EntryStatusAssigned || got.AssignedWindowID != "win-1" {
		t.Fatalf("expected ASSIGNED win-1 after retry, got %s %q", got.Status, got.AssignedWindowID)
	}
}

func TestProcessDate_NoWindowsForDate(t *testing.T) {
	f := newProcessFixture(t)
	f.seedConfig(t)
	f.seedEntry(t, "m-1", nil, "W-0800", "", time.Now().UTC())

	if _, err := f.uc.ProcessDate(context.Background(), testDate); !errors.Is(err, domain.ErrNoWindows) {
		t.Fatalf("expected ErrNoWindows, got %v", err)
	}
}

func TestProcessDate_MissingConfigAborts(t *testing.T) {
	f := newProcessFixture(t)

	if _, err := f.uc.ProcessDate(context.Background(), testDate); !errors.Is(err, domain.ErrInvalidConfig) {
		t.Fatalf("expected ErrInvalidConfig, got %v", err)
	}
}
