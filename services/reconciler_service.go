package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync/atomic"

	"github.com/Dosada05/league-system/live"
	"github.com/Dosada05/league-system/models"
	"github.com/Dosada05/league-system/repositories"
	"golang.org/x/sync/errgroup"
)

// reconcileConcurrency ограничивает число одновременных ремонтов в ReconcileAll.
const reconcileConcurrency = 4

type ReconcileReport struct {
	Checked  int `json:"checked"`
	Repaired int `json:"repaired"`
	Failed   int `json:"failed"`
}

type ReconcilerService interface {
	FindInconsistencies(ctx context.Context) ([]*models.Match, error)
	Reconcile(ctx context.Context, match *models.Match) error
	ReconcileAll(ctx context.Context) (*ReconcileReport, error)
}

type reconcilerService struct {
	txRunner        repositories.TxRunner
	matchRepo       repositories.MatchRepository
	matchResultRepo repositories.MatchResultRepository
	teamRepo        repositories.TeamRepository
	hub             LiveBroadcaster
	logger          *slog.Logger
}

func NewReconcilerService(
	txRunner repositories.TxRunner,
	matchRepo repositories.MatchRepository,
	matchResultRepo repositories.MatchResultRepository,
	teamRepo repositories.TeamRepository,
	hub LiveBroadcaster,
	logger *slog.Logger,
) ReconcilerService {
	return &reconcilerService{
		txRunner:        txRunner,
		matchRepo:       matchRepo,
		matchResultRepo: matchResultRepo,
		teamRepo:        teamRepo,
		hub:             hub,
		logger:          logger,
	}
}

// FindInconsistencies возвращает завершённые матчи, у которых сохранённый
// winner_team_id расходится с победителем по счёту. Список пересчитывается
// при каждом вызове.
func (s *reconcilerService) FindInconsistencies(ctx context.Context) ([]*models.Match, error) {
	matches, err := s.matchRepo.ListInconsistent(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list inconsistent matches: %w", err)
	}
	if matches == nil {
		return []*models.Match{}, nil
	}
	return matches, nil
}

// Reconcile пересчитывает победителя из счёта и записывает его в matches и
// match_results одной транзакцией. Идемпотентен: на уже согласованном матче
// ничего не меняет.
func (s *reconcilerService) Reconcile(ctx context.Context, match *models.Match) error {
	if match == nil {
		return ErrMatchNotFound
	}
	if match.Status != models.MatchStatusCompleted {
		return nil
	}
	if match.WinnerConsistent() {
		return nil
	}

	correct := match.ScoreImpliedWinner()

	err := s.txRunner.WithinTx(ctx, func(exec repositories.SQLExecutor) error {
		if err := s.matchRepo.UpdateWinner(ctx, exec, match.ID, correct); err != nil {
			return err
		}
		err := s.matchResultRepo.UpdateWinner(ctx, exec, match.ID, correct)
		if errors.Is(err, repositories.ErrMatchResultNotFound) {
			// Завершённый матч без строки результата — наследие ручных правок.
			// Матч всё равно чиним; строку результата восстановит следующий submit.
			return nil
		}
		return err
	})
	if err != nil {
		if errors.Is(err, repositories.ErrMatchNotFound) {
			return ErrMatchNotFound
		}
		return fmt.Errorf("failed to reconcile match %d: %w", match.ID, err)
	}

	match.WinnerTeamID = correct
	if s.logger != nil {
		s.logger.InfoContext(ctx, "reconciled match winner",
			slog.Int("match_id", match.ID),
			slog.Int("home_score", match.HomeScore),
			slog.Int("away_score", match.AwayScore),
			slog.Any("winner_team_id", correct),
		)
	}
	if s.hub != nil {
		// Комната дивизиона определяется по домашней команде, как и для
		// остальных событий матча.
		division := ""
		if team, tErr := s.teamRepo.GetByID(ctx, match.HomeTeamID); tErr == nil {
			division = team.Division
		} else if s.logger != nil {
			s.logger.WarnContext(ctx, "failed to resolve division for reconcile broadcast",
				slog.Int("match_id", match.ID), slog.Any("error", tErr))
		}
		room := live.DivisionRoom(division)
		s.hub.BroadcastToRoom(room, live.Message{Type: live.EventMatchUpdated, Payload: match, RoomID: room})
	}
	return nil
}

// ReconcileAll прогоняет ремонт по всем рассинхронизированным матчам.
// Ошибка на отдельной строке логируется, остальные строки обрабатываются.
func (s *reconcilerService) ReconcileAll(ctx context.Context) (*ReconcileReport, error) {
	matches, err := s.FindInconsistencies(ctx)
	if err != nil {
		return nil, err
	}

	report := &ReconcileReport{Checked: len(matches)}
	var repaired, failed atomic.Int64

	g, gCtx := errgroup.WithContext(ctx)
	g.SetLimit(reconcileConcurrency)

	for _, match := range matches {
		match := match
		g.Go(func() error {
			if err := s.Reconcile(gCtx, match); err != nil {
				failed.Add(1)
				if s.logger != nil {
					s.logger.ErrorContext(gCtx, "failed to reconcile match, continuing",
						slog.Int("match_id", match.ID), slog.Any("error", err))
				}
				// Не возвращаем ошибку: одна битая строка не должна ронять прогон.
				return nil
			}
			repaired.Add(1)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	report.Repaired = int(repaired.Load())
	report.Failed = int(failed.Load())
	return report, nil
}
