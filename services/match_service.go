package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/Dosada05/league-system/live"
	"github.com/Dosada05/league-system/models"
	"github.com/Dosada05/league-system/repositories"
)

// LiveBroadcaster публикует события матчей подписчикам WebSocket-комнат.
// *live.Hub реализует интерфейс; в тестах подставляется заглушка.
type LiveBroadcaster interface {
	BroadcastToRoom(roomID string, message interface{})
}

type ScheduleMatchInput struct {
	HomeTeamID int       `json:"home_team_id"`
	AwayTeamID int       `json:"away_team_id"`
	MatchDate  time.Time `json:"match_date"`
}

type SubmitResultInput struct {
	HomeScore   int  `json:"home_score"`
	AwayScore   int  `json:"away_score"`
	SubmittedBy *int `json:"submitted_by,omitempty"`
}

type MatchService interface {
	ScheduleMatch(ctx context.Context, input ScheduleMatchInput) (*models.Match, error)
	SubmitResult(ctx context.Context, matchID int, input SubmitResultInput) (*models.Match, error)
	ResetMatch(ctx context.Context, matchID int) (*models.Match, error)
	GetMatch(ctx context.Context, matchID int) (*models.Match, error)
	ListMatches(ctx context.Context, status *models.MatchStatus, teamID *int) ([]*models.Match, error)
	GetMatchResult(ctx context.Context, matchID int) (*models.MatchResult, error)
}

type matchService struct {
	txRunner        repositories.TxRunner
	matchRepo       repositories.MatchRepository
	matchResultRepo repositories.MatchResultRepository
	frameResultRepo repositories.FrameResultRepository
	teamRepo        repositories.TeamRepository
	framesPerMatch  int
	hub             LiveBroadcaster
	logger          *slog.Logger
}

func NewMatchService(
	txRunner repositories.TxRunner,
	matchRepo repositories.MatchRepository,
	matchResultRepo repositories.MatchResultRepository,
	frameResultRepo repositories.FrameResultRepository,
	teamRepo repositories.TeamRepository,
	framesPerMatch int,
	hub LiveBroadcaster,
	logger *slog.Logger,
) MatchService {
	return &matchService{
		txRunner:        txRunner,
		matchRepo:       matchRepo,
		matchResultRepo: matchResultRepo,
		frameResultRepo: frameResultRepo,
		teamRepo:        teamRepo,
		framesPerMatch:  framesPerMatch,
		hub:             hub,
		logger:          logger,
	}
}

func (s *matchService) ScheduleMatch(ctx context.Context, input ScheduleMatchInput) (*models.Match, error) {
	if input.HomeTeamID == input.AwayTeamID {
		return nil, ErrSameTeamMatch
	}
	if input.MatchDate.IsZero() {
		return nil, ErrMatchDateRequired
	}

	homeTeam, err := s.teamRepo.GetByID(ctx, input.HomeTeamID)
	if err != nil {
		return nil, s.mapTeamRepoError(err, input.HomeTeamID)
	}
	awayTeam, err := s.teamRepo.GetByID(ctx, input.AwayTeamID)
	if err != nil {
		return nil, s.mapTeamRepoError(err, input.AwayTeamID)
	}

	match := &models.Match{
		HomeTeamID: input.HomeTeamID,
		AwayTeamID: input.AwayTeamID,
		MatchDate:  input.MatchDate,
		Status:     models.MatchStatusScheduled,
	}

	if err := s.matchRepo.Create(ctx, nil, match); err != nil {
		if errors.Is(err, repositories.ErrMatchTeamInvalid) {
			return nil, ErrTeamNotFound
		}
		return nil, fmt.Errorf("failed to create match: %w", err)
	}

	match.HomeTeam = homeTeam
	match.AwayTeam = awayTeam

	s.broadcast(live.DivisionRoom(homeTeam.Division), live.EventMatchScheduled, match)
	return match, nil
}

// SubmitResult записывает счёт и победителя в matches и match_results
// одной транзакцией. Повторная отправка перезаписывает предыдущий
// результат (идемпотентный upsert).
func (s *matchService) SubmitResult(ctx context.Context, matchID int, input SubmitResultInput) (*models.Match, error) {
	if input.HomeScore < 0 || input.AwayScore < 0 {
		return nil, ErrScoreNegative
	}
	if s.framesPerMatch > 0 && input.HomeScore+input.AwayScore > s.framesPerMatch {
		return nil, fmt.Errorf("%w: %d+%d > %d", ErrScoreExceedsFrames, input.HomeScore, input.AwayScore, s.framesPerMatch)
	}

	match, err := s.matchRepo.GetByID(ctx, matchID)
	if err != nil {
		if errors.Is(err, repositories.ErrMatchNotFound) {
			return nil, ErrMatchNotFound
		}
		return nil, fmt.Errorf("failed to load match %d: %w", matchID, err)
	}

	match.HomeScore = input.HomeScore
	match.AwayScore = input.AwayScore
	match.Status = models.MatchStatusCompleted
	match.WinnerTeamID = match.ScoreImpliedWinner()

	err = s.txRunner.WithinTx(ctx, func(exec repositories.SQLExecutor) error {
		if err := s.matchRepo.UpdateScoreStatusWinner(ctx, exec, match.ID, match.HomeScore, match.AwayScore, match.Status, match.WinnerTeamID); err != nil {
			return err
		}
		result := &models.MatchResult{
			MatchID:      match.ID,
			HomeScore:    match.HomeScore,
			AwayScore:    match.AwayScore,
			WinnerTeamID: match.WinnerTeamID,
			IsApproved:   true,
			SubmittedBy:  input.SubmittedBy,
		}
		return s.matchResultRepo.Upsert(ctx, exec, result)
	})
	if err != nil {
		if errors.Is(err, repositories.ErrMatchNotFound) {
			return nil, ErrMatchNotFound
		}
		return nil, fmt.Errorf("failed to submit result for match %d: %w", matchID, err)
	}

	s.broadcastMatchEvent(ctx, match, live.EventMatchUpdated)
	return match, nil
}

// ResetMatch возвращает матч в состояние scheduled: удаляет покадровые
// результаты и строку результата, обнуляет счёт и победителя. Используется
// для исправления ошибочно загруженных данных.
func (s *matchService) ResetMatch(ctx context.Context, matchID int) (*models.Match, error) {
	match, err := s.matchRepo.GetByID(ctx, matchID)
	if err != nil {
		if errors.Is(err, repositories.ErrMatchNotFound) {
			return nil, ErrMatchNotFound
		}
		return nil, fmt.Errorf("failed to load match %d: %w", matchID, err)
	}

	match.HomeScore = 0
	match.AwayScore = 0
	match.Status = models.MatchStatusScheduled
	match.WinnerTeamID = nil

	err = s.txRunner.WithinTx(ctx, func(exec repositories.SQLExecutor) error {
		if err := s.frameResultRepo.DeleteByMatchID(ctx, exec, match.ID); err != nil {
			return err
		}
		if err := s.matchResultRepo.DeleteByMatchID(ctx, exec, match.ID); err != nil {
			return err
		}
		return s.matchRepo.UpdateScoreStatusWinner(ctx, exec, match.ID, 0, 0, models.MatchStatusScheduled, nil)
	})
	if err != nil {
		return nil, fmt.Errorf("failed to reset match %d: %w", matchID, err)
	}

	if s.logger != nil {
		s.logger.InfoContext(ctx, "match reset to scheduled", slog.Int("match_id", match.ID))
	}
	s.broadcastMatchEvent(ctx, match, live.EventMatchReset)
	return match, nil
}

func (s *matchService) GetMatch(ctx context.Context, matchID int) (*models.Match, error) {
	match, err := s.matchRepo.GetByID(ctx, matchID)
	if err != nil {
		if errors.Is(err, repositories.ErrMatchNotFound) {
			return nil, ErrMatchNotFound
		}
		return nil, fmt.Errorf("failed to load match %d: %w", matchID, err)
	}
	return match, nil
}

func (s *matchService) ListMatches(ctx context.Context, status *models.MatchStatus, teamID *int) ([]*models.Match, error) {
	matches, err := s.matchRepo.List(ctx, status, teamID)
	if err != nil {
		return nil, fmt.Errorf("failed to list matches: %w", err)
	}
	if matches == nil {
		return []*models.Match{}, nil
	}
	return matches, nil
}

func (s *matchService) GetMatchResult(ctx context.Context, matchID int) (*models.MatchResult, error) {
	result, err := s.matchResultRepo.GetByMatchID(ctx, matchID)
	if err != nil {
		if errors.Is(err, repositories.ErrMatchResultNotFound) {
			return nil, ErrMatchResultNotFound
		}
		return nil, fmt.Errorf("failed to load result for match %d: %w", matchID, err)
	}
	return result, nil
}

func (s *matchService) mapTeamRepoError(err error, teamID int) error {
	if errors.Is(err, repositories.ErrTeamNotFound) {
		return ErrTeamNotFound
	}
	return fmt.Errorf("failed to load team %d: %w", teamID, err)
}

func (s *matchService) broadcastMatchEvent(ctx context.Context, match *models.Match, event live.EventType) {
	if s.hub == nil {
		return
	}
	room := live.DivisionRoom("")
	if team, err := s.teamRepo.GetByID(ctx, match.HomeTeamID); err == nil {
		room = live.DivisionRoom(team.Division)
	} else if s.logger != nil {
		s.logger.WarnContext(ctx, "failed to resolve division for broadcast",
			slog.Int("match_id", match.ID), slog.Any("error", err))
	}
	s.broadcast(room, event, match)
	s.broadcast(room, live.EventStandingsChanged, map[string]int{"match_id": match.ID})
}

func (s *matchService) broadcast(room string, event live.EventType, payload interface{}) {
	if s.hub == nil {
		return
	}
	s.hub.BroadcastToRoom(room, live.Message{Type: event, Payload: payload, RoomID: room})
}
