package repositories

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/Dosada05/league-system/models"
	"github.com/lib/pq"
)

var (
	ErrMatchNotFound    = errors.New("match not found")
	ErrMatchTeamInvalid = errors.New("match team conflict or invalid")
)

type MatchRepository interface {
	Create(ctx context.Context, exec SQLExecutor, match *models.Match) error
	GetByID(ctx context.Context, id int) (*models.Match, error)
	List(ctx context.Context, status *models.MatchStatus, teamID *int) ([]*models.Match, error)
	ListCompletedByDivision(ctx context.Context, division string) ([]*models.Match, error)
	ListInconsistent(ctx context.Context) ([]*models.Match, error)
	UpdateScoreStatusWinner(ctx context.Context, exec SQLExecutor, id int, homeScore, awayScore int, status models.MatchStatus, winnerTeamID *int) error
	UpdateWinner(ctx context.Context, exec SQLExecutor, id int, winnerTeamID *int) error
	Delete(ctx context.Context, id int) error
}

type postgresMatchRepository struct {
	db *sql.DB
}

func NewPostgresMatchRepository(db *sql.DB) MatchRepository {
	return &postgresMatchRepository{db: db}
}

const matchColumns = `id, home_team_id, away_team_id, match_date, status, home_score, away_score, winner_team_id, created_at`

func (r *postgresMatchRepository) getExecutor(exec SQLExecutor) SQLExecutor {
	if exec != nil {
		return exec
	}
	return r.db
}

func (r *postgresMatchRepository) Create(ctx context.Context, exec SQLExecutor, match *models.Match) error {
	executor := r.getExecutor(exec)
	query := `
		INSERT INTO matches (home_team_id, away_team_id, match_date, status, home_score, away_score, winner_team_id)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING id, created_at`

	err := executor.QueryRowContext(ctx, query,
		match.HomeTeamID,
		match.AwayTeamID,
		match.MatchDate,
		match.Status,
		match.HomeScore,
		match.AwayScore,
		match.WinnerTeamID,
	).Scan(&match.ID, &match.CreatedAt)

	return r.handleMatchError(err)
}

func (r *postgresMatchRepository) scanMatch(rowScanner interface{ Scan(...interface{}) error }) (*models.Match, error) {
	var m models.Match
	err := rowScanner.Scan(
		&m.ID,
		&m.HomeTeamID,
		&m.AwayTeamID,
		&m.MatchDate,
		&m.Status,
		&m.HomeScore,
		&m.AwayScore,
		&m.WinnerTeamID,
		&m.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrMatchNotFound
		}
		return nil, err
	}
	return &m, nil
}

func (r *postgresMatchRepository) GetByID(ctx context.Context, id int) (*models.Match, error) {
	query := `SELECT ` + matchColumns + ` FROM matches WHERE id = $1`
	match, err := r.scanMatch(r.db.QueryRowContext(ctx, query, id))
	if err != nil {
		if errors.Is(err, ErrMatchNotFound) {
			return nil, err
		}
		return nil, fmt.Errorf("failed to scan match by id %d: %w", id, err)
	}
	return match, nil
}

func (r *postgresMatchRepository) List(ctx context.Context, statusFilter *models.MatchStatus, teamFilter *int) ([]*models.Match, error) {
	var queryBuilder strings.Builder
	queryBuilder.WriteString(`SELECT ` + matchColumns + ` FROM matches WHERE 1=1`)

	args := []interface{}{}
	placeholderIndex := 1

	if statusFilter != nil {
		queryBuilder.WriteString(" AND status = $")
		queryBuilder.WriteString(strconv.Itoa(placeholderIndex))
		args = append(args, *statusFilter)
		placeholderIndex++
	}

	if teamFilter != nil {
		queryBuilder.WriteString(" AND (home_team_id = $")
		queryBuilder.WriteString(strconv.Itoa(placeholderIndex))
		queryBuilder.WriteString(" OR away_team_id = $")
		queryBuilder.WriteString(strconv.Itoa(placeholderIndex))
		queryBuilder.WriteString(")")
		args = append(args, *teamFilter)
	}

	queryBuilder.WriteString(" ORDER BY match_date ASC, id ASC")

	return r.queryMatches(ctx, queryBuilder.String(), args...)
}

func (r *postgresMatchRepository) ListCompletedByDivision(ctx context.Context, division string) ([]*models.Match, error) {
	query := `
		SELECT m.id, m.home_team_id, m.away_team_id, m.match_date, m.status,
		       m.home_score, m.away_score, m.winner_team_id, m.created_at
		FROM matches m
		JOIN teams ht ON m.home_team_id = ht.id
		WHERE m.status = $1 AND ($2 = '' OR ht.division = $2)
		ORDER BY m.match_date ASC, m.id ASC`
	return r.queryMatches(ctx, query, models.MatchStatusCompleted, division)
}

// ListInconsistent returns completed matches whose stored winner disagrees
// with the winner implied by the scores. The result set is recomputed on
// every call; callers must not assume it is stable across invocations.
func (r *postgresMatchRepository) ListInconsistent(ctx context.Context) ([]*models.Match, error) {
	query := `
		SELECT ` + matchColumns + `
		FROM matches
		WHERE status = $1
		  AND winner_team_id IS DISTINCT FROM (
			CASE
				WHEN home_score > away_score THEN home_team_id
				WHEN away_score > home_score THEN away_team_id
				ELSE NULL
			END)
		ORDER BY id ASC`
	return r.queryMatches(ctx, query, models.MatchStatusCompleted)
}

func (r *postgresMatchRepository) queryMatches(ctx context.Context, query string, args ...interface{}) ([]*models.Match, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query matches: %w", err)
	}
	defer rows.Close()

	matches := make([]*models.Match, 0)
	for rows.Next() {
		match, scanErr := r.scanMatch(rows)
		if scanErr != nil {
			return nil, fmt.Errorf("failed to scan match row: %w", scanErr)
		}
		matches = append(matches, match)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error during match rows iteration: %w", err)
	}
	return matches, nil
}

func (r *postgresMatchRepository) UpdateScoreStatusWinner(ctx context.Context, exec SQLExecutor, id int, homeScore, awayScore int, status models.MatchStatus, winnerTeamID *int) error {
	executor := r.getExecutor(exec)
	query := `
		UPDATE matches
		SET home_score = $1, away_score = $2, status = $3, winner_team_id = $4
		WHERE id = $5`

	result, err := executor.ExecContext(ctx, query, homeScore, awayScore, status, winnerTeamID, id)
	if err != nil {
		return r.handleMatchError(err)
	}
	return checkAffectedRows(result, ErrMatchNotFound)
}

func (r *postgresMatchRepository) UpdateWinner(ctx context.Context, exec SQLExecutor, id int, winnerTeamID *int) error {
	executor := r.getExecutor(exec)
	query := `UPDATE matches SET winner_team_id = $1 WHERE id = $2`

	result, err := executor.ExecContext(ctx, query, winnerTeamID, id)
	if err != nil {
		return r.handleMatchError(err)
	}
	return checkAffectedRows(result, ErrMatchNotFound)
}

func (r *postgresMatchRepository) Delete(ctx context.Context, id int) error {
	query := `DELETE FROM matches WHERE id = $1`
	result, err := r.db.ExecContext(ctx, query, id)
	if err != nil {
		return err
	}
	return checkAffectedRows(result, ErrMatchNotFound)
}

func (r *postgresMatchRepository) handleMatchError(err error) error {
	if err == nil {
		return nil
	}
	if pqErr, ok := err.(*pq.Error); ok {
		switch pqErr.Constraint {
		case "matches_home_team_id_fkey", "matches_away_team_id_fkey", "matches_winner_team_id_fkey":
			return ErrMatchTeamInvalid
		}
	}
	return err
}
