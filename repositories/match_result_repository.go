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
	ErrMatchResultNotFound     = errors.New("match result not found")
	ErrMatchResultMatchInvalid = errors.New("match result match conflict or invalid")
)

type MatchResultRepository interface {
	Upsert(ctx context.Context, exec SQLExecutor, result *models.MatchResult) error
	GetByMatchID(ctx context.Context, matchID int) (*models.MatchResult, error)
	UpdateWinner(ctx context.Context, exec SQLExecutor, matchID int, winnerTeamID *int) error
	DeleteByMatchID(ctx context.Context, exec SQLExecutor, matchID int) error
}

type postgresMatchResultRepository struct {
	db *sql.DB
}

func NewPostgresMatchResultRepository(db *sql.DB) MatchResultRepository {
	return &postgresMatchResultRepository{db: db}
}

func (r *postgresMatchResultRepository) getExecutor(exec SQLExecutor) SQLExecutor {
	if exec != nil {
		return exec
	}
	return r.db
}

// Upsert keeps result submission idempotent: re-submitting a match overwrites
// the previous score and winner instead of conflicting on match_id.
func (r *postgresMatchResultRepository) Upsert(ctx context.Context, exec SQLExecutor, result *models.MatchResult) error {
	executor := r.getExecutor(exec)
	query := `
		INSERT INTO match_results (match_id, home_score, away_score, winner_team_id, is_approved, submitted_by)
		VALUES ($1, $2, $3, $4, $5, $6)
		ON CONFLICT (match_id) DO UPDATE
		SET home_score = EXCLUDED.home_score,
		    away_score = EXCLUDED.away_score,
		    winner_team_id = EXCLUDED.winner_team_id,
		    is_approved = EXCLUDED.is_approved,
		    submitted_by = EXCLUDED.submitted_by
		RETURNING id, created_at`

	err := executor.QueryRowContext(ctx, query,
		result.MatchID,
		result.HomeScore,
		result.AwayScore,
		result.WinnerTeamID,
		result.IsApproved,
		result.SubmittedBy,
	).Scan(&result.ID, &result.CreatedAt)

	return r.handleMatchResultError(err)
}

func (r *postgresMatchResultRepository) GetByMatchID(ctx context.Context, matchID int) (*models.MatchResult, error) {
	query := `
		SELECT id, match_id, home_score, away_score, winner_team_id, is_approved, submitted_by, created_at
		FROM match_results
		WHERE match_id = $1`

	res := &models.MatchResult{}
	err := r.db.QueryRowContext(ctx, query, matchID).Scan(
		&res.ID,
		&res.MatchID,
		&res.HomeScore,
		&res.AwayScore,
		&res.WinnerTeamID,
		&res.IsApproved,
		&res.SubmittedBy,
		&res.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrMatchResultNotFound
		}
		return nil, fmt.Errorf("failed to scan match result for match %d: %w", matchID, err)
	}
	return res, nil
}

func (r *postgresMatchResultRepository) UpdateWinner(ctx context.Context, exec SQLExecutor, matchID int, winnerTeamID *int) error {
	executor := r.getExecutor(exec)
	query := `UPDATE match_results SET winner_team_id = $1 WHERE match_id = $2`

	result, err := executor.ExecContext(ctx, query, winnerTeamID, matchID)
	if err != nil {
		return r.handleMatchResultError(err)
	}
	return checkAffectedRows(result, ErrMatchResultNotFound)
}

func (r *postgresMatchResultRepository) DeleteByMatchID(ctx context.Context, exec SQLExecutor, matchID int) error {
	executor := r.getExecutor(exec)
	query := `DELETE FROM match_results WHERE match_id = $1`
	// Ноль затронутых строк — это нормально: у запланированного матча ещё нет результата.
	_, err := executor.ExecContext(ctx, query, matchID)
	return err
}

func (r *postgresMatchResultRepository) handleMatchResultError(err error) error {
	if err == nil {
		return nil
	}
	if pqErr, ok := err.(*pq.Error); ok {
		switch pqErr.Constraint {
		case "match_results_match_id_fkey":
			return ErrMatchResultMatchInvalid
		}
	}
	return err
}
