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
	ErrFrameResultNotFound      = errors.New("frame result not found")
	ErrFrameResultMatchInvalid  = errors.New("frame result match conflict or invalid")
	ErrFrameResultPlayerInvalid = errors.New("frame result player conflict or invalid")
)

type FrameResultRepository interface {
	Upsert(ctx context.Context, exec SQLExecutor, frame *models.FrameResult) error
	ListByMatch(ctx context.Context, matchID int) ([]*models.FrameResult, error)
	DeleteByMatchID(ctx context.Context, exec SQLExecutor, matchID int) error
}

type postgresFrameResultRepository struct {
	db *sql.DB
}

func NewPostgresFrameResultRepository(db *sql.DB) FrameResultRepository {
	return &postgresFrameResultRepository{db: db}
}

func (r *postgresFrameResultRepository) getExecutor(exec SQLExecutor) SQLExecutor {
	if exec != nil {
		return exec
	}
	return r.db
}

// Upsert overwrites a previously recorded frame for the same (match, frame
// number) pair. Корректировки счёта перезаписывают старого победителя.
func (r *postgresFrameResultRepository) Upsert(ctx context.Context, exec SQLExecutor, frame *models.FrameResult) error {
	executor := r.getExecutor(exec)
	query := `
		INSERT INTO frame_results (match_id, frame_number, home_player_id, away_player_id, winner_player_id)
		VALUES ($1, $2, $3, $4, $5)
		ON CONFLICT (match_id, frame_number) DO UPDATE
		SET home_player_id = EXCLUDED.home_player_id,
		    away_player_id = EXCLUDED.away_player_id,
		    winner_player_id = EXCLUDED.winner_player_id
		RETURNING id`

	err := executor.QueryRowContext(ctx, query,
		frame.MatchID,
		frame.FrameNumber,
		frame.HomePlayerID,
		frame.AwayPlayerID,
		frame.WinnerPlayerID,
	).Scan(&frame.ID)

	return r.handleFrameResultError(err)
}

func (r *postgresFrameResultRepository) ListByMatch(ctx context.Context, matchID int) ([]*models.FrameResult, error) {
	query := `
		SELECT id, match_id, frame_number, home_player_id, away_player_id, winner_player_id
		FROM frame_results
		WHERE match_id = $1
		ORDER BY frame_number ASC`

	rows, err := r.db.QueryContext(ctx, query, matchID)
	if err != nil {
		return nil, fmt.Errorf("failed to query frame results for match %d: %w", matchID, err)
	}
	defer rows.Close()

	frames := make([]*models.FrameResult, 0)
	for rows.Next() {
		var f models.FrameResult
		if scanErr := rows.Scan(
			&f.ID,
			&f.MatchID,
			&f.FrameNumber,
			&f.HomePlayerID,
			&f.AwayPlayerID,
			&f.WinnerPlayerID,
		); scanErr != nil {
			return nil, fmt.Errorf("failed to scan frame result row: %w", scanErr)
		}
		frames = append(frames, &f)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error during frame result rows iteration: %w", err)
	}
	return frames, nil
}

func (r *postgresFrameResultRepository) DeleteByMatchID(ctx context.Context, exec SQLExecutor, matchID int) error {
	executor := r.getExecutor(exec)
	query := `DELETE FROM frame_results WHERE match_id = $1`
	_, err := executor.ExecContext(ctx, query, matchID)
	return err
}

func (r *postgresFrameResultRepository) handleFrameResultError(err error) error {
	if err == nil {
		return nil
	}
	if pqErr, ok := err.(*pq.Error); ok {
		switch pqErr.Constraint {
		case "frame_results_match_id_fkey":
			return ErrFrameResultMatchInvalid
		case "frame_results_home_player_id_fkey", "frame_results_away_player_id_fkey", "frame_results_winner_player_id_fkey":
			return ErrFrameResultPlayerInvalid
		}
	}
	return err
}
