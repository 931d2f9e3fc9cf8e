package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/Dosada05/league-system/models"
)

type matchFixture struct {
	service         MatchService
	txRunner        *fakeTxRunner
	hub             *fakeHub
	teamRepo        *fakeTeamRepo
	matchRepo       *fakeMatchRepo
	matchResultRepo *fakeMatchResultRepo
	frameResultRepo *fakeFrameResultRepo
	home            *models.Team
	away            *models.Team
}

func newMatchFixture(t *testing.T) *matchFixture {
	t.Helper()

	teamRepo := newFakeTeamRepo()
	f := &matchFixture{
		txRunner:        &fakeTxRunner{},
		hub:             &fakeHub{},
		teamRepo:        teamRepo,
		matchRepo:       newFakeMatchRepo(teamRepo),
		matchResultRepo: newFakeMatchResultRepo(),
		frameResultRepo: newFakeFrameResultRepo(),
	}
	f.home = teamRepo.add("Rack City", "Premier")
	f.away = teamRepo.add("Chalk & Awe", "Premier")
	f.service = NewMatchService(
		f.txRunner,
		f.matchRepo,
		f.matchResultRepo,
		f.frameResultRepo,
		f.teamRepo,
		25,
		f.hub,
		nil,
	)
	return f
}

func (f *matchFixture) schedule(t *testing.T) *models.Match {
	t.Helper()
	match, err := f.service.ScheduleMatch(context.Background(), ScheduleMatchInput{
		HomeTeamID: f.home.ID,
		AwayTeamID: f.away.ID,
		MatchDate:  time.Date(2026, 9, 12, 19, 0, 0, 0, time.UTC),
	})
	if err != nil {
		t.Fatalf("ScheduleMatch: %v", err)
	}
	return match
}

func TestScheduleMatchRejectsSameTeam(t *testing.T) {
	f := newMatchFixture(t)

	_, err := f.service.ScheduleMatch(context.Background(), ScheduleMatchInput{
		HomeTeamID: f.home.ID,
		AwayTeamID: f.home.ID,
		MatchDate:  time.Now(),
	})
	if !errors.Is(err, ErrSameTeamMatch) {
		t.Fatalf("expected ErrSameTeamMatch, got %v", err)
	}
}

func TestScheduleMatchRejectsUnknownTeam(t *testing.T) {
	f := newMatchFixture(t)

	_, err := f.service.ScheduleMatch(context.Background(), ScheduleMatchInput{
		HomeTeamID: f.home.ID,
		AwayTeamID: 999,
		MatchDate:  time.Now(),
	})
	if !errors.Is(err, ErrTeamNotFound) {
		t.Fatalf("expected ErrTeamNotFound, got %v", err)
	}
}

func TestScheduleMatchStartsScheduledAndBroadcasts(t *testing.T) {
	f := newMatchFixture(t)

	match := f.schedule(t)

	if match.Status != models.MatchStatusScheduled {
		t.Errorf("status = %q, want %q", match.Status, models.MatchStatusScheduled)
	}
	if match.WinnerTeamID != nil {
		t.Errorf("new match must not have a winner, got %d", *match.WinnerTeamID)
	}
	if len(f.hub.messages) != 1 {
		t.Errorf("expected 1 broadcast, got %d", len(f.hub.messages))
	}
}

func TestSubmitResultCompletesMatchWithHomeWinner(t *testing.T) {
	f := newMatchFixture(t)
	match := f.schedule(t)

	updated, err := f.service.SubmitResult(context.Background(), match.ID, SubmitResultInput{
		HomeScore: 13,
		AwayScore: 12,
	})
	if err != nil {
		t.Fatalf("SubmitResult: %v", err)
	}

	if updated.Status != models.MatchStatusCompleted {
		t.Errorf("status = %q, want %q", updated.Status, models.MatchStatusCompleted)
	}
	if updated.WinnerTeamID == nil || *updated.WinnerTeamID != f.home.ID {
		t.Errorf("winner = %v, want home team %d", updated.WinnerTeamID, f.home.ID)
	}
	if f.txRunner.calls != 1 {
		t.Errorf("expected one transaction, got %d", f.txRunner.calls)
	}

	result, err := f.service.GetMatchResult(context.Background(), match.ID)
	if err != nil {
		t.Fatalf("GetMatchResult: %v", err)
	}
	if result.HomeScore != 13 || result.AwayScore != 12 {
		t.Errorf("result score = %d-%d, want 13-12", result.HomeScore, result.AwayScore)
	}
	if result.WinnerTeamID == nil || *result.WinnerTeamID != f.home.ID {
		t.Errorf("result winner = %v, want %d", result.WinnerTeamID, f.home.ID)
	}
}

func TestSubmitResultTieLeavesWinnerEmpty(t *testing.T) {
	f := newMatchFixture(t)
	match := f.schedule(t)

	updated, err := f.service.SubmitResult(context.Background(), match.ID, SubmitResultInput{
		HomeScore: 12,
		AwayScore: 12,
	})
	if err != nil {
		t.Fatalf("SubmitResult: %v", err)
	}

	if updated.Status != models.MatchStatusCompleted {
		t.Errorf("status = %q, want %q", updated.Status, models.MatchStatusCompleted)
	}
	if updated.WinnerTeamID != nil {
		t.Errorf("tie must leave winner empty, got %d", *updated.WinnerTeamID)
	}
}

func TestSubmitResultValidatesScores(t *testing.T) {
	f := newMatchFixture(t)
	match := f.schedule(t)

	if _, err := f.service.SubmitResult(context.Background(), match.ID, SubmitResultInput{HomeScore: -1, AwayScore: 5}); !errors.Is(err, ErrScoreNegative) {
		t.Errorf("negative score: expected ErrScoreNegative, got %v", err)
	}
	if _, err := f.service.SubmitResult(context.Background(), match.ID, SubmitResultInput{HomeScore: 20, AwayScore: 10}); !errors.Is(err, ErrScoreExceedsFrames) {
		t.Errorf("oversized score: expected ErrScoreExceedsFrames, got %v", err)
	}
}

func TestSubmitResultUnknownMatch(t *testing.T) {
	f := newMatchFixture(t)

	_, err := f.service.SubmitResult(context.Background(), 42, SubmitResultInput{HomeScore: 13, AwayScore: 12})
	if !errors.Is(err, ErrMatchNotFound) {
		t.Fatalf("expected ErrMatchNotFound, got %v", err)
	}
}

func TestSubmitResultOverwritesPreviousResult(t *testing.T) {
	f := newMatchFixture(t)
	match := f.schedule(t)

	if _, err := f.service.SubmitResult(context.Background(), match.ID, SubmitResultInput{HomeScore: 13, AwayScore: 12}); err != nil {
		t.Fatalf("first SubmitResult: %v", err)
	}
	updated, err := f.service.SubmitResult(context.Background(), match.ID, SubmitResultInput{HomeScore: 10, AwayScore: 15})
	if err != nil {
		t.Fatalf("second SubmitResult: %v", err)
	}

	if updated.WinnerTeamID == nil || *updated.WinnerTeamID != f.away.ID {
		t.Errorf("winner = %v, want away team %d", updated.WinnerTeamID, f.away.ID)
	}
	result, err := f.service.GetMatchResult(context.Background(), match.ID)
	if err != nil {
		t.Fatalf("GetMatchResult: %v", err)
	}
	if result.HomeScore != 10 || result.AwayScore != 15 {
		t.Errorf("result score = %d-%d, want 10-15", result.HomeScore, result.AwayScore)
	}
}

func TestResetMatchRoundTrip(t *testing.T) {
	f := newMatchFixture(t)
	match := f.schedule(t)

	if _, err := f.service.SubmitResult(context.Background(), match.ID, SubmitResultInput{HomeScore: 13, AwayScore: 12}); err != nil {
		t.Fatalf("SubmitResult: %v", err)
	}
	if err := f.frameResultRepo.Upsert(context.Background(), nil, &models.FrameResult{MatchID: match.ID, FrameNumber: 1, HomePlayerID: 1, AwayPlayerID: 2}); err != nil {
		t.Fatalf("seed frame: %v", err)
	}

	reset, err := f.service.ResetMatch(context.Background(), match.ID)
	if err != nil {
		t.Fatalf("ResetMatch: %v", err)
	}

	if reset.Status != models.MatchStatusScheduled {
		t.Errorf("status = %q, want %q", reset.Status, models.MatchStatusScheduled)
	}
	if reset.HomeScore != 0 || reset.AwayScore != 0 {
		t.Errorf("score = %d-%d, want 0-0", reset.HomeScore, reset.AwayScore)
	}
	if reset.WinnerTeamID != nil {
		t.Errorf("winner must be cleared, got %d", *reset.WinnerTeamID)
	}
	if _, err := f.service.GetMatchResult(context.Background(), match.ID); !errors.Is(err, ErrMatchResultNotFound) {
		t.Errorf("result row must be gone, got %v", err)
	}
	if frames, _ := f.frameResultRepo.ListByMatch(context.Background(), match.ID); len(frames) != 0 {
		t.Errorf("frame rows must be gone, got %d", len(frames))
	}

	// Повторная подача результата после сброса работает как в первый раз.
	resubmitted, err := f.service.SubmitResult(context.Background(), match.ID, SubmitResultInput{HomeScore: 14, AwayScore: 11})
	if err != nil {
		t.Fatalf("resubmit after reset: %v", err)
	}
	if resubmitted.Status != models.MatchStatusCompleted {
		t.Errorf("status after resubmit = %q, want %q", resubmitted.Status, models.MatchStatusCompleted)
	}
	if resubmitted.WinnerTeamID == nil || *resubmitted.WinnerTeamID != f.home.ID {
		t.Errorf("winner after resubmit = %v, want %d", resubmitted.WinnerTeamID, f.home.ID)
	}
}

func TestListMatchesFilters(t *testing.T) {
	f := newMatchFixture(t)
	first := f.schedule(t)
	second := f.schedule(t)

	if _, err := f.service.SubmitResult(context.Background(), first.ID, SubmitResultInput{HomeScore: 13, AwayScore: 12}); err != nil {
		t.Fatalf("SubmitResult: %v", err)
	}

	completed := models.MatchStatusCompleted
	matches, err := f.service.ListMatches(context.Background(), &completed, nil)
	if err != nil {
		t.Fatalf("ListMatches: %v", err)
	}
	if len(matches) != 1 || matches[0].ID != first.ID {
		t.Fatalf("completed filter returned %d matches, want only match %d", len(matches), first.ID)
	}

	scheduled := models.MatchStatusScheduled
	matches, err = f.service.ListMatches(context.Background(), &scheduled, nil)
	if err != nil {
		t.Fatalf("ListMatches: %v", err)
	}
	if len(matches) != 1 || matches[0].ID != second.ID {
		t.Fatalf("scheduled filter returned %d matches, want only match %d", len(matches), second.ID)
	}
}
