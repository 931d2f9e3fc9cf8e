package services

import (
	"context"
	"fmt"
	"sort"

	"github.com/Dosada05/league-system/models"
	"github.com/Dosada05/league-system/repositories"
)

// PointsPerWin — фиксированная стоимость победы в лиге. Ничья очков не даёт
// (победитель nil, политика зафиксирована в DESIGN.md).
const PointsPerWin = 3

type StandingService interface {
	ComputeStandings(ctx context.Context, division string) ([]*models.Standing, error)
}

type standingService struct {
	teamRepo  repositories.TeamRepository
	matchRepo repositories.MatchRepository
}

func NewStandingService(teamRepo repositories.TeamRepository, matchRepo repositories.MatchRepository) StandingService {
	return &standingService{
		teamRepo:  teamRepo,
		matchRepo: matchRepo,
	}
}

// ComputeStandings пересчитывает таблицу из завершённых матчей при каждом
// запросе. Кэша нет намеренно: на масштабе админки (десятки команд, сотни
// матчей) полный проход дешевле инвалидации.
func (s *standingService) ComputeStandings(ctx context.Context, division string) ([]*models.Standing, error) {
	teams, err := s.teamRepo.List(ctx, division)
	if err != nil {
		return nil, fmt.Errorf("failed to list teams for division %q: %w", division, err)
	}

	matches, err := s.matchRepo.ListCompletedByDivision(ctx, division)
	if err != nil {
		return nil, fmt.Errorf("failed to list completed matches for division %q: %w", division, err)
	}

	return BuildStandings(teams, matches), nil
}

// BuildStandings — чистая функция над строками команд и завершённых матчей.
// Порядок: очки по убыванию, затем разница кадров по убыванию, затем имя
// команды по возрастанию (детерминированный тай-брейк).
func BuildStandings(teams []*models.Team, matches []*models.Match) []*models.Standing {
	index := make(map[int]*models.Standing, len(teams))
	standings := make([]*models.Standing, 0, len(teams))
	for _, t := range teams {
		entry := &models.Standing{
			TeamID:   t.ID,
			TeamName: t.Name,
			Division: t.Division,
		}
		index[t.ID] = entry
		standings = append(standings, entry)
	}

	for _, m := range matches {
		if m.Status != models.MatchStatusCompleted {
			continue
		}
		home := index[m.HomeTeamID]
		away := index[m.AwayTeamID]
		if home == nil || away == nil {
			// Матч против команды вне выборки (другой дивизион) не учитывается.
			continue
		}

		home.Played++
		away.Played++
		home.FramesFor += m.HomeScore
		home.FramesAgainst += m.AwayScore
		away.FramesFor += m.AwayScore
		away.FramesAgainst += m.HomeScore

		switch {
		case m.HomeScore > m.AwayScore:
			home.Wins++
			away.Losses++
		case m.AwayScore > m.HomeScore:
			away.Wins++
			home.Losses++
		default:
			home.Draws++
			away.Draws++
		}
	}

	for _, entry := range standings {
		entry.Points = entry.Wins * PointsPerWin
	}

	sort.Slice(standings, func(i, j int) bool {
		if standings[i].Points != standings[j].Points {
			return standings[i].Points > standings[j].Points
		}
		if standings[i].FrameDifference() != standings[j].FrameDifference() {
			return standings[i].FrameDifference() > standings[j].FrameDifference()
		}
		return standings[i].TeamName < standings[j].TeamName
	})

	for i, entry := range standings {
		entry.Rank = i + 1
	}
	return standings
}
