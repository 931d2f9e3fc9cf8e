package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/Dosada05/league-system/models"
	"github.com/Dosada05/league-system/repositories"
)

type LineupEntryInput struct {
	TeamID   int `json:"team_id"`
	PlayerID int `json:"player_id"`
	Position int `json:"position"`
}

type LineupService interface {
	SetLineupEntry(ctx context.Context, matchID int, input LineupEntryInput) (*models.MatchLineup, error)
	ListLineup(ctx context.Context, matchID int) ([]*models.MatchLineup, error)
}

type lineupService struct {
	lineupRepo     repositories.LineupRepository
	matchRepo      repositories.MatchRepository
	playerRepo     repositories.PlayerRepository
	framesPerMatch int
}

func NewLineupService(
	lineupRepo repositories.LineupRepository,
	matchRepo repositories.MatchRepository,
	playerRepo repositories.PlayerRepository,
	framesPerMatch int,
) LineupService {
	return &lineupService{
		lineupRepo:     lineupRepo,
		matchRepo:      matchRepo,
		playerRepo:     playerRepo,
		framesPerMatch: framesPerMatch,
	}
}

// SetLineupEntry ставит игрока на позицию в составе команды на матч.
// Повторная запись позиции заменяет игрока (upsert).
func (s *lineupService) SetLineupEntry(ctx context.Context, matchID int, input LineupEntryInput) (*models.MatchLineup, error) {
	if input.Position < 1 || input.Position > s.framesPerMatch {
		return nil, fmt.Errorf("%w: position %d, allowed 1..%d", ErrLineupPositionInvalid, input.Position, s.framesPerMatch)
	}

	match, err := s.matchRepo.GetByID(ctx, matchID)
	if err != nil {
		if errors.Is(err, repositories.ErrMatchNotFound) {
			return nil, ErrMatchNotFound
		}
		return nil, fmt.Errorf("failed to load match %d: %w", matchID, err)
	}
	if input.TeamID != match.HomeTeamID && input.TeamID != match.AwayTeamID {
		return nil, ErrLineupTeamInvalid
	}

	if _, err := s.playerRepo.GetByID(ctx, input.PlayerID); err != nil {
		if errors.Is(err, repositories.ErrPlayerNotFound) {
			return nil, ErrPlayerNotFound
		}
		return nil, fmt.Errorf("failed to load player %d: %w", input.PlayerID, err)
	}

	entry := &models.MatchLineup{
		MatchID:  matchID,
		TeamID:   input.TeamID,
		PlayerID: input.PlayerID,
		Position: input.Position,
	}
	if err := s.lineupRepo.SetEntry(ctx, nil, entry); err != nil {
		if errors.Is(err, repositories.ErrLineupPlayerInvalid) {
			return nil, ErrPlayerNotFound
		}
		if errors.Is(err, repositories.ErrLineupMatchInvalid) {
			return nil, ErrMatchNotFound
		}
		return nil, fmt.Errorf("failed to set lineup entry for match %d: %w", matchID, err)
	}
	return entry, nil
}

func (s *lineupService) ListLineup(ctx context.Context, matchID int) ([]*models.MatchLineup, error) {
	if _, err := s.matchRepo.GetByID(ctx, matchID); err != nil {
		if errors.Is(err, repositories.ErrMatchNotFound) {
			return nil, ErrMatchNotFound
		}
		return nil, fmt.Errorf("failed to load match %d: %w", matchID, err)
	}

	entries, err := s.lineupRepo.ListByMatch(ctx, matchID)
	if err != nil {
		return nil, fmt.Errorf("failed to list lineup for match %d: %w", matchID, err)
	}
	if entries == nil {
		return []*models.MatchLineup{}, nil
	}
	return entries, nil
}
