package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/Dosada05/league-system/models"
	"github.com/Dosada05/league-system/repositories"
)

type RecordFrameInput struct {
	FrameNumber    int  `json:"frame_number"`
	HomePlayerID   int  `json:"home_player_id"`
	AwayPlayerID   int  `json:"away_player_id"`
	WinnerPlayerID *int `json:"winner_player_id,omitempty"`
}

type FrameService interface {
	RecordFrame(ctx context.Context, matchID int, input RecordFrameInput) (*models.FrameResult, error)
	ListFrames(ctx context.Context, matchID int) ([]*models.FrameResult, error)
}

type frameService struct {
	matchRepo       repositories.MatchRepository
	frameResultRepo repositories.FrameResultRepository
	playerRepo      repositories.PlayerRepository
	lineupRepo      repositories.LineupRepository
	framesPerMatch  int
}

func NewFrameService(
	matchRepo repositories.MatchRepository,
	frameResultRepo repositories.FrameResultRepository,
	playerRepo repositories.PlayerRepository,
	lineupRepo repositories.LineupRepository,
	framesPerMatch int,
) FrameService {
	return &frameService{
		matchRepo:       matchRepo,
		frameResultRepo: frameResultRepo,
		playerRepo:      playerRepo,
		lineupRepo:      lineupRepo,
		framesPerMatch:  framesPerMatch,
	}
}

// RecordFrame фиксирует победителя кадра. Повторная запись той же пары
// (матч, номер кадра) перезаписывает прежнего победителя — так исправляют
// ошибки при вводе счёта.
func (s *frameService) RecordFrame(ctx context.Context, matchID int, input RecordFrameInput) (*models.FrameResult, error) {
	if input.FrameNumber < 1 || input.FrameNumber > s.framesPerMatch {
		return nil, fmt.Errorf("%w: frame %d, format allows 1..%d", ErrFrameNumberOutOfRange, input.FrameNumber, s.framesPerMatch)
	}
	if input.HomePlayerID == input.AwayPlayerID {
		return nil, ErrFrameSamePlayer
	}
	if input.WinnerPlayerID != nil &&
		*input.WinnerPlayerID != input.HomePlayerID &&
		*input.WinnerPlayerID != input.AwayPlayerID {
		return nil, ErrFrameWinnerInvalid
	}

	if _, err := s.matchRepo.GetByID(ctx, matchID); err != nil {
		if errors.Is(err, repositories.ErrMatchNotFound) {
			return nil, ErrMatchNotFound
		}
		return nil, fmt.Errorf("failed to load match %d: %w", matchID, err)
	}

	if err := s.checkLineup(ctx, matchID, input); err != nil {
		return nil, err
	}

	frame := &models.FrameResult{
		MatchID:        matchID,
		FrameNumber:    input.FrameNumber,
		HomePlayerID:   input.HomePlayerID,
		AwayPlayerID:   input.AwayPlayerID,
		WinnerPlayerID: input.WinnerPlayerID,
	}

	if err := s.frameResultRepo.Upsert(ctx, nil, frame); err != nil {
		if errors.Is(err, repositories.ErrFrameResultPlayerInvalid) {
			return nil, ErrPlayerNotFound
		}
		if errors.Is(err, repositories.ErrFrameResultMatchInvalid) {
			return nil, ErrMatchNotFound
		}
		return nil, fmt.Errorf("failed to record frame %d for match %d: %w", input.FrameNumber, matchID, err)
	}
	return frame, nil
}

// checkLineup сверяет игроков кадра с заявкой на матч. Заявка опциональна:
// пока её нет, кадры принимаются от любых игроков.
func (s *frameService) checkLineup(ctx context.Context, matchID int, input RecordFrameInput) error {
	entries, err := s.lineupRepo.ListByMatch(ctx, matchID)
	if err != nil {
		return fmt.Errorf("failed to load lineup for match %d: %w", matchID, err)
	}
	if len(entries) == 0 {
		return nil
	}

	listed := make(map[int]bool, len(entries))
	for _, entry := range entries {
		listed[entry.PlayerID] = true
	}
	if !listed[input.HomePlayerID] || !listed[input.AwayPlayerID] {
		return ErrFramePlayerNotInLineup
	}
	return nil
}

func (s *frameService) ListFrames(ctx context.Context, matchID int) ([]*models.FrameResult, error) {
	if _, err := s.matchRepo.GetByID(ctx, matchID); err != nil {
		if errors.Is(err, repositories.ErrMatchNotFound) {
			return nil, ErrMatchNotFound
		}
		return nil, fmt.Errorf("failed to load match %d: %w", matchID, err)
	}

	frames, err := s.frameResultRepo.ListByMatch(ctx, matchID)
	if err != nil {
		return nil, fmt.Errorf("failed to list frames for match %d: %w", matchID, err)
	}
	if frames == nil {
		return []*models.FrameResult{}, nil
	}
	return frames, nil
}
