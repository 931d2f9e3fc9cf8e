package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/Dosada05/league-system/models"
	"github.com/Dosada05/league-system/services"
	"github.com/go-chi/chi/v5"
)

type stubStandingService struct {
	standings []*models.Standing
	err       error
}

func (s *stubStandingService) ComputeStandings(ctx context.Context, division string) ([]*models.Standing, error) {
	return s.standings, s.err
}

type stubReconcilerService struct {
	inconsistent []*models.Match
	report       *services.ReconcileReport
}

func (s *stubReconcilerService) FindInconsistencies(ctx context.Context) ([]*models.Match, error) {
	return s.inconsistent, nil
}

func (s *stubReconcilerService) Reconcile(ctx context.Context, match *models.Match) error {
	return nil
}

func (s *stubReconcilerService) ReconcileAll(ctx context.Context) (*services.ReconcileReport, error) {
	return s.report, nil
}

type stubMatchService struct {
	submitErr error
}

func (s *stubMatchService) ScheduleMatch(ctx context.Context, input services.ScheduleMatchInput) (*models.Match, error) {
	return nil, services.ErrSameTeamMatch
}

func (s *stubMatchService) SubmitResult(ctx context.Context, matchID int, input services.SubmitResultInput) (*models.Match, error) {
	return nil, s.submitErr
}

func (s *stubMatchService) ResetMatch(ctx context.Context, matchID int) (*models.Match, error) {
	return nil, nil
}

func (s *stubMatchService) GetMatch(ctx context.Context, matchID int) (*models.Match, error) {
	return nil, nil
}

func (s *stubMatchService) ListMatches(ctx context.Context, status *models.MatchStatus, teamID *int) ([]*models.Match, error) {
	return nil, nil
}

func (s *stubMatchService) GetMatchResult(ctx context.Context, matchID int) (*models.MatchResult, error) {
	return nil, nil
}

func TestGetStandingsReturnsTable(t *testing.T) {
	handler := NewStandingHandler(&stubStandingService{
		standings: []*models.Standing{
			{TeamID: 1, TeamName: "Rack City", Points: 6, Rank: 1},
			{TeamID: 2, TeamName: "Chalk & Awe", Points: 3, Rank: 2},
		},
	}, &stubReconcilerService{})

	req := httptest.NewRequest(http.MethodGet, "/standings?division=Premier", nil)
	rec := httptest.NewRecorder()
	handler.GetStandings(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want %d", rec.Code, http.StatusOK)
	}
	if ct := rec.Header().Get("Content-Type"); ct != "application/json" {
		t.Errorf("Content-Type = %q", ct)
	}

	var body struct {
		Standings []models.Standing `json:"standings"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if len(body.Standings) != 2 {
		t.Fatalf("expected 2 rows, got %d", len(body.Standings))
	}
	if body.Standings[0].TeamName != "Rack City" || body.Standings[0].Rank != 1 {
		t.Errorf("first row = %+v", body.Standings[0])
	}
}

func TestReconcileAllReturnsReport(t *testing.T) {
	handler := NewStandingHandler(&stubStandingService{}, &stubReconcilerService{
		report: &services.ReconcileReport{Checked: 3, Repaired: 2, Failed: 1},
	})

	req := httptest.NewRequest(http.MethodPost, "/admin/reconcile", nil)
	rec := httptest.NewRecorder()
	handler.ReconcileAll(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want %d", rec.Code, http.StatusOK)
	}
	var body struct {
		Report services.ReconcileReport `json:"report"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if body.Report.Checked != 3 || body.Report.Repaired != 2 || body.Report.Failed != 1 {
		t.Errorf("report = %+v", body.Report)
	}
}

func TestSubmitResultMapsServiceErrors(t *testing.T) {
	tests := []struct {
		name       string
		serviceErr error
		wantStatus int
	}{
		{"missing match", services.ErrMatchNotFound, http.StatusNotFound},
		{"negative score", services.ErrScoreNegative, http.StatusBadRequest},
		{"score above format", services.ErrScoreExceedsFrames, http.StatusBadRequest},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			handler := NewMatchHandler(&stubMatchService{submitErr: tc.serviceErr}, nil, nil)

			router := chi.NewRouter()
			router.Post("/matches/{matchID}/result", handler.SubmitResult)

			req := httptest.NewRequest(http.MethodPost, "/matches/7/result", strings.NewReader(`{"home_score":13,"away_score":12}`))
			rec := httptest.NewRecorder()
			router.ServeHTTP(rec, req)

			if rec.Code != tc.wantStatus {
				t.Errorf("status = %d, want %d", rec.Code, tc.wantStatus)
			}
		})
	}
}

func TestScheduleMatchRejectsSameTeam(t *testing.T) {
	handler := NewMatchHandler(&stubMatchService{}, nil, nil)

	router := chi.NewRouter()
	router.Post("/matches", handler.ScheduleMatch)

	req := httptest.NewRequest(http.MethodPost, "/matches", strings.NewReader(`{"home_team_id":1,"away_team_id":1,"match_date":"2026-09-12T19:00:00Z"}`))
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want %d", rec.Code, http.StatusBadRequest)
	}
}
