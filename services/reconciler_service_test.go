package services

import (
	"context"
	"errors"
	"testing"

	"github.com/Dosada05/league-system/live"
	"github.com/Dosada05/league-system/models"
	"github.com/Dosada05/league-system/repositories"
)

type reconcilerFixture struct {
	service         ReconcilerService
	txRunner        *fakeTxRunner
	teamRepo        *fakeTeamRepo
	matchRepo       *fakeMatchRepo
	matchResultRepo *fakeMatchResultRepo
	home            *models.Team
	away            *models.Team
}

func newReconcilerFixture(t *testing.T) *reconcilerFixture {
	t.Helper()

	teamRepo := newFakeTeamRepo()
	f := &reconcilerFixture{
		txRunner:        &fakeTxRunner{},
		teamRepo:        teamRepo,
		matchRepo:       newFakeMatchRepo(teamRepo),
		matchResultRepo: newFakeMatchResultRepo(),
	}
	f.home = teamRepo.add("Rack City", "Premier")
	f.away = teamRepo.add("Chalk & Awe", "Premier")
	f.service = NewReconcilerService(f.txRunner, f.matchRepo, f.matchResultRepo, f.teamRepo, nil, nil)
	return f
}

// seedCorrupted создаёт завершённый матч, у которого записанный победитель
// противоречит счёту (как после ручной правки базы).
func (f *reconcilerFixture) seedCorrupted(t *testing.T, homeScore, awayScore int, storedWinner *int) *models.Match {
	t.Helper()
	match := &models.Match{
		HomeTeamID:   f.home.ID,
		AwayTeamID:   f.away.ID,
		Status:       models.MatchStatusCompleted,
		HomeScore:    homeScore,
		AwayScore:    awayScore,
		WinnerTeamID: storedWinner,
	}
	if err := f.matchRepo.Create(context.Background(), nil, match); err != nil {
		t.Fatalf("seed match: %v", err)
	}
	if err := f.matchResultRepo.Upsert(context.Background(), nil, &models.MatchResult{
		MatchID:      match.ID,
		HomeScore:    homeScore,
		AwayScore:    awayScore,
		WinnerTeamID: storedWinner,
	}); err != nil {
		t.Fatalf("seed result: %v", err)
	}
	return match
}

func TestFindInconsistenciesDetectsCorruptedWinner(t *testing.T) {
	f := newReconcilerFixture(t)

	// Счёт 15-10, а победителем записана гостевая команда.
	corrupted := f.seedCorrupted(t, 15, 10, &f.away.ID)

	// Согласованный матч для контраста.
	consistent := &models.Match{
		HomeTeamID:   f.home.ID,
		AwayTeamID:   f.away.ID,
		Status:       models.MatchStatusCompleted,
		HomeScore:    9,
		AwayScore:    16,
		WinnerTeamID: &f.away.ID,
	}
	if err := f.matchRepo.Create(context.Background(), nil, consistent); err != nil {
		t.Fatalf("seed consistent match: %v", err)
	}

	found, err := f.service.FindInconsistencies(context.Background())
	if err != nil {
		t.Fatalf("FindInconsistencies: %v", err)
	}
	if len(found) != 1 {
		t.Fatalf("expected 1 inconsistent match, got %d", len(found))
	}
	if found[0].ID != corrupted.ID {
		t.Errorf("found match %d, want %d", found[0].ID, corrupted.ID)
	}
}

func TestReconcileRepairsWinnerInBothTables(t *testing.T) {
	f := newReconcilerFixture(t)
	corrupted := f.seedCorrupted(t, 15, 10, &f.away.ID)

	if err := f.service.Reconcile(context.Background(), corrupted); err != nil {
		t.Fatalf("Reconcile: %v", err)
	}

	repaired, err := f.matchRepo.GetByID(context.Background(), corrupted.ID)
	if err != nil {
		t.Fatalf("GetByID: %v", err)
	}
	if repaired.WinnerTeamID == nil || *repaired.WinnerTeamID != f.home.ID {
		t.Errorf("match winner = %v, want home team %d", repaired.WinnerTeamID, f.home.ID)
	}

	result, err := f.matchResultRepo.GetByMatchID(context.Background(), corrupted.ID)
	if err != nil {
		t.Fatalf("GetByMatchID: %v", err)
	}
	if result.WinnerTeamID == nil || *result.WinnerTeamID != f.home.ID {
		t.Errorf("result winner = %v, want home team %d", result.WinnerTeamID, f.home.ID)
	}
	if f.txRunner.calls != 1 {
		t.Errorf("expected one transaction, got %d", f.txRunner.calls)
	}
}

func TestReconcileRepairsTieToNoWinner(t *testing.T) {
	f := newReconcilerFixture(t)
	corrupted := f.seedCorrupted(t, 12, 12, &f.home.ID)

	if err := f.service.Reconcile(context.Background(), corrupted); err != nil {
		t.Fatalf("Reconcile: %v", err)
	}

	repaired, err := f.matchRepo.GetByID(context.Background(), corrupted.ID)
	if err != nil {
		t.Fatalf("GetByID: %v", err)
	}
	if repaired.WinnerTeamID != nil {
		t.Errorf("tie must clear the winner, got %d", *repaired.WinnerTeamID)
	}
}

func TestReconcileIsIdempotent(t *testing.T) {
	f := newReconcilerFixture(t)
	corrupted := f.seedCorrupted(t, 15, 10, &f.away.ID)

	if err := f.service.Reconcile(context.Background(), corrupted); err != nil {
		t.Fatalf("first Reconcile: %v", err)
	}
	// Повторный прогон на уже починенном матче не трогает базу.
	repaired, err := f.matchRepo.GetByID(context.Background(), corrupted.ID)
	if err != nil {
		t.Fatalf("GetByID: %v", err)
	}
	if err := f.service.Reconcile(context.Background(), repaired); err != nil {
		t.Fatalf("second Reconcile: %v", err)
	}
	if f.txRunner.calls != 1 {
		t.Errorf("second run must be a no-op, got %d transactions", f.txRunner.calls)
	}
}

func TestReconcileSkipsScheduledMatches(t *testing.T) {
	f := newReconcilerFixture(t)

	scheduled := &models.Match{
		HomeTeamID: f.home.ID,
		AwayTeamID: f.away.ID,
		Status:     models.MatchStatusScheduled,
	}
	if err := f.matchRepo.Create(context.Background(), nil, scheduled); err != nil {
		t.Fatalf("seed match: %v", err)
	}

	if err := f.service.Reconcile(context.Background(), scheduled); err != nil {
		t.Fatalf("Reconcile: %v", err)
	}
	if f.txRunner.calls != 0 {
		t.Errorf("scheduled match must not start a transaction, got %d", f.txRunner.calls)
	}
}

func TestReconcileToleratesMissingResultRow(t *testing.T) {
	f := newReconcilerFixture(t)

	match := &models.Match{
		HomeTeamID:   f.home.ID,
		AwayTeamID:   f.away.ID,
		Status:       models.MatchStatusCompleted,
		HomeScore:    15,
		AwayScore:    10,
		WinnerTeamID: &f.away.ID,
	}
	if err := f.matchRepo.Create(context.Background(), nil, match); err != nil {
		t.Fatalf("seed match: %v", err)
	}

	if err := f.service.Reconcile(context.Background(), match); err != nil {
		t.Fatalf("Reconcile without result row: %v", err)
	}
	repaired, err := f.matchRepo.GetByID(context.Background(), match.ID)
	if err != nil {
		t.Fatalf("GetByID: %v", err)
	}
	if repaired.WinnerTeamID == nil || *repaired.WinnerTeamID != f.home.ID {
		t.Errorf("match winner = %v, want home team %d", repaired.WinnerTeamID, f.home.ID)
	}
}

// brokenWinnerMatchRepo ломает запись победителя для одного матча, имитируя
// сбой хранилища на отдельной строке.
type brokenWinnerMatchRepo struct {
	*fakeMatchRepo
	failID int
}

func (r *brokenWinnerMatchRepo) UpdateWinner(ctx context.Context, exec repositories.SQLExecutor, id int, winnerTeamID *int) error {
	if id == r.failID {
		return errors.New("connection reset by peer")
	}
	return r.fakeMatchRepo.UpdateWinner(ctx, exec, id, winnerTeamID)
}

func TestReconcileBroadcastsToHomeDivisionRoom(t *testing.T) {
	f := newReconcilerFixture(t)
	hub := &fakeHub{}
	service := NewReconcilerService(f.txRunner, f.matchRepo, f.matchResultRepo, f.teamRepo, hub, nil)

	corrupted := f.seedCorrupted(t, 15, 10, &f.away.ID)
	if err := service.Reconcile(context.Background(), corrupted); err != nil {
		t.Fatalf("Reconcile: %v", err)
	}

	if len(hub.rooms) != 1 {
		t.Fatalf("expected 1 broadcast, got %d", len(hub.rooms))
	}
	if want := live.DivisionRoom("Premier"); hub.rooms[0] != want {
		t.Errorf("broadcast room = %q, want home division room %q", hub.rooms[0], want)
	}
}

func TestReconcileAllContinuesPastRowFailure(t *testing.T) {
	f := newReconcilerFixture(t)

	broken := f.seedCorrupted(t, 15, 10, &f.away.ID)
	f.seedCorrupted(t, 8, 17, nil)
	f.seedCorrupted(t, 12, 12, &f.home.ID)

	service := NewReconcilerService(
		f.txRunner,
		&brokenWinnerMatchRepo{fakeMatchRepo: f.matchRepo, failID: broken.ID},
		f.matchResultRepo,
		f.teamRepo,
		nil,
		nil,
	)

	report, err := service.ReconcileAll(context.Background())
	if err != nil {
		t.Fatalf("ReconcileAll: %v", err)
	}
	if report.Checked != 3 || report.Repaired != 2 || report.Failed != 1 {
		t.Errorf("report = %+v, want 3 checked, 2 repaired, 1 failed", report)
	}

	// Уцелевшие строки починены, битая осталась рассинхронизированной.
	remaining, err := f.service.FindInconsistencies(context.Background())
	if err != nil {
		t.Fatalf("FindInconsistencies: %v", err)
	}
	if len(remaining) != 1 || remaining[0].ID != broken.ID {
		t.Errorf("remaining inconsistencies = %d, want only match %d", len(remaining), broken.ID)
	}
}

func TestReconcileAllRepairsEverythingAndReports(t *testing.T) {
	f := newReconcilerFixture(t)

	f.seedCorrupted(t, 15, 10, &f.away.ID)
	f.seedCorrupted(t, 8, 17, nil)
	f.seedCorrupted(t, 12, 12, &f.home.ID)

	report, err := f.service.ReconcileAll(context.Background())
	if err != nil {
		t.Fatalf("ReconcileAll: %v", err)
	}
	if report.Checked != 3 || report.Repaired != 3 || report.Failed != 0 {
		t.Errorf("report = %+v, want 3 checked, 3 repaired, 0 failed", report)
	}

	remaining, err := f.service.FindInconsistencies(context.Background())
	if err != nil {
		t.Fatalf("FindInconsistencies: %v", err)
	}
	if len(remaining) != 0 {
		t.Errorf("expected no inconsistencies after full run, got %d", len(remaining))
	}

	// Повторный полный прогон ничего не находит и ничего не чинит.
	report, err = f.service.ReconcileAll(context.Background())
	if err != nil {
		t.Fatalf("second ReconcileAll: %v", err)
	}
	if report.Checked != 0 || report.Repaired != 0 {
		t.Errorf("second report = %+v, want empty", report)
	}
}
