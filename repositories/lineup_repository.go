package repositories

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/Dosada05/league-system/models"
	"github.com/lib/pq"
)

var (
	ErrLineupNotFound      = errors.New("match lineup not found")
	ErrLineupMatchInvalid  = errors.New("lineup match conflict or invalid")
	ErrLineupPlayerInvalid = errors.New("lineup player conflict or invalid")
	ErrLineupSlotConflict  = errors.New("lineup position already taken")
)

type LineupRepository interface {
	SetEntry(ctx context.Context, exec SQLExecutor, entry *models.MatchLineup) error
	ListByMatch(ctx context.Context, matchID int) ([]*models.MatchLineup, error)
	ListByMatchAndTeam(ctx context.Context, matchID, teamID int) ([]*models.MatchLineup, error)
	DeleteByMatchID(ctx context.Context, exec SQLExecutor, matchID int) error
}

type postgresLineupRepository struct {
	db *sql.DB
}

func NewPostgresLineupRepository(db *sql.DB) LineupRepository {
	return &postgresLineupRepository{db: db}
}

func (r *postgresLineupRepository) getExecutor(exec SQLExecutor) SQLExecutor {
	if exec != nil {
		return exec
	}
	return r.db
}

func (r *postgresLineupRepository) SetEntry(ctx context.Context, exec SQLExecutor, entry *models.MatchLineup) error {
	executor := r.getExecutor(exec)
	query := `
		INSERT INTO match_lineups (match_id, team_id, player_id, position)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (match_id, team_id, position) DO UPDATE
		SET player_id = EXCLUDED.player_id
		RETURNING id`

	err := executor.QueryRowContext(ctx, query,
		entry.MatchID, entry.TeamID, entry.PlayerID, entry.Position,
	).Scan(&entry.ID)

	return r.handleLineupError(err)
}

func (r *postgresLineupRepository) ListByMatch(ctx context.Context, matchID int) ([]*models.MatchLineup, error) {
	query := `
		SELECT id, match_id, team_id, player_id, position
		FROM match_lineups
		WHERE match_id = $1
		ORDER BY team_id ASC, position ASC`
	return r.queryLineups(ctx, query, matchID)
}

func (r *postgresLineupRepository) ListByMatchAndTeam(ctx context.Context, matchID, teamID int) ([]*models.MatchLineup, error) {
	query := `
		SELECT id, match_id, team_id, player_id, position
		FROM match_lineups
		WHERE match_id = $1 AND team_id = $2
		ORDER BY position ASC`
	return r.queryLineups(ctx, query, matchID, teamID)
}

func (r *postgresLineupRepository) queryLineups(ctx context.Context, query string, args ...interface{}) ([]*models.MatchLineup, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query match lineups: %w", err)
	}
	defer rows.Close()

	entries := make([]*models.MatchLineup, 0)
	for rows.Next() {
		var e models.MatchLineup
		if scanErr := rows.Scan(&e.ID, &e.MatchID, &e.TeamID, &e.PlayerID, &e.Position); scanErr != nil {
			return nil, fmt.Errorf("failed to scan lineup row: %w", scanErr)
		}
		entries = append(entries, &e)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error during lineup rows iteration: %w", err)
	}
	return entries, nil
}

func (r *postgresLineupRepository) DeleteByMatchID(ctx context.Context, exec SQLExecutor, matchID int) error {
	executor := r.getExecutor(exec)
	query := `DELETE FROM match_lineups WHERE match_id = $1`
	_, err := executor.ExecContext(ctx, query, matchID)
	return err
}

func (r *postgresLineupRepository) handleLineupError(err error) error {
	if err == nil {
		return nil
	}
	if pqErr, ok := err.(*pq.Error); ok {
		switch pqErr.Constraint {
		case "match_lineups_match_id_fkey":
			return ErrLineupMatchInvalid
		case "match_lineups_player_id_fkey", "match_lineups_team_id_fkey":
			return ErrLineupPlayerInvalid
		}
	}
	return err
}
