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
	ErrNotificationNotFound    = errors.New("notification not found")
	ErrNotificationUserInvalid = errors.New("notification user conflict or invalid")
)

type NotificationRepository interface {
	Create(ctx context.Context, notification *models.Notification) error
	ListByUser(ctx context.Context, userID int, limit int, unreadOnly bool) ([]*models.Notification, error)
	MarkAsRead(ctx context.Context, id, userID int) error
	MarkAllAsRead(ctx context.Context, userID int) (int64, error)
}

type postgresNotificationRepository struct {
	db *sql.DB
}

func NewPostgresNotificationRepository(db *sql.DB) NotificationRepository {
	return &postgresNotificationRepository{db: db}
}

func (r *postgresNotificationRepository) Create(ctx context.Context, notification *models.Notification) error {
	query := `
		INSERT INTO notifications (user_id, type, message, is_read)
		VALUES ($1, $2, $3, $4)
		RETURNING id, created_at`

	err := r.db.QueryRowContext(ctx, query,
		notification.UserID,
		notification.Type,
		notification.Message,
		notification.IsRead,
	).Scan(&notification.ID, &notification.CreatedAt)

	if err != nil {
		if pqErr, ok := err.(*pq.Error); ok && pqErr.Constraint == "notifications_user_id_fkey" {
			return ErrNotificationUserInvalid
		}
		return err
	}
	return nil
}

func (r *postgresNotificationRepository) ListByUser(ctx context.Context, userID int, limit int, unreadOnly bool) ([]*models.Notification, error) {
	var queryBuilder strings.Builder
	queryBuilder.WriteString(`
		SELECT id, user_id, type, message, is_read, created_at
		FROM notifications
		WHERE user_id = $1`)

	args := []interface{}{userID}
	placeholderIndex := 2

	if unreadOnly {
		queryBuilder.WriteString(" AND is_read = FALSE")
	}

	queryBuilder.WriteString(" ORDER BY created_at DESC, id DESC")

	if limit > 0 {
		queryBuilder.WriteString(" LIMIT $")
		queryBuilder.WriteString(strconv.Itoa(placeholderIndex))
		args = append(args, limit)
	}

	rows, err := r.db.QueryContext(ctx, queryBuilder.String(), args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query notifications for user %d: %w", userID, err)
	}
	defer rows.Close()

	notifications := make([]*models.Notification, 0)
	for rows.Next() {
		var n models.Notification
		if scanErr := rows.Scan(&n.ID, &n.UserID, &n.Type, &n.Message, &n.IsRead, &n.CreatedAt); scanErr != nil {
			return nil, fmt.Errorf("failed to scan notification row: %w", scanErr)
		}
		notifications = append(notifications, &n)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error during notification rows iteration: %w", err)
	}
	return notifications, nil
}

// MarkAsRead is scoped by user id so one user cannot acknowledge another's
// notifications.
func (r *postgresNotificationRepository) MarkAsRead(ctx context.Context, id, userID int) error {
	query := `UPDATE notifications SET is_read = TRUE WHERE id = $1 AND user_id = $2`

	result, err := r.db.ExecContext(ctx, query, id, userID)
	if err != nil {
		return err
	}
	return checkAffectedRows(result, ErrNotificationNotFound)
}

func (r *postgresNotificationRepository) MarkAllAsRead(ctx context.Context, userID int) (int64, error) {
	query := `UPDATE notifications SET is_read = TRUE WHERE user_id = $1 AND is_read = FALSE`

	result, err := r.db.ExecContext(ctx, query, userID)
	if err != nil {
		return 0, err
	}
	return result.RowsAffected()
}
