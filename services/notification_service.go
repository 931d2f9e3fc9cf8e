package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/Dosada05/league-system/models"
	"github.com/Dosada05/league-system/repositories"
)

const defaultNotificationLimit = 50

type CreateNotificationInput struct {
	UserID  int                     `json:"user_id"`
	Type    models.NotificationType `json:"type"`
	Message string                  `json:"message"`
}

// NotificationService живёт отдельно от матчевого домена: он ничего не
// читает из matches/standings, только таблицу notifications.
type NotificationService interface {
	GetNotifications(ctx context.Context, userID, limit int, unreadOnly bool) ([]*models.Notification, error)
	MarkAsRead(ctx context.Context, id, userID int) error
	MarkAllAsRead(ctx context.Context, userID int) (int64, error)
	Create(ctx context.Context, input CreateNotificationInput) (*models.Notification, error)
}

type notificationService struct {
	notificationRepo repositories.NotificationRepository
	userRepo         repositories.UserRepository
	emailService     *EmailService
	logger           *slog.Logger
}

func NewNotificationService(
	notificationRepo repositories.NotificationRepository,
	userRepo repositories.UserRepository,
	emailService *EmailService,
	logger *slog.Logger,
) NotificationService {
	return &notificationService{
		notificationRepo: notificationRepo,
		userRepo:         userRepo,
		emailService:     emailService,
		logger:           logger,
	}
}

func (s *notificationService) GetNotifications(ctx context.Context, userID, limit int, unreadOnly bool) ([]*models.Notification, error) {
	if limit <= 0 {
		limit = defaultNotificationLimit
	}
	notifications, err := s.notificationRepo.ListByUser(ctx, userID, limit, unreadOnly)
	if err != nil {
		return nil, fmt.Errorf("failed to list notifications for user %d: %w", userID, err)
	}
	if notifications == nil {
		return []*models.Notification{}, nil
	}
	return notifications, nil
}

func (s *notificationService) MarkAsRead(ctx context.Context, id, userID int) error {
	err := s.notificationRepo.MarkAsRead(ctx, id, userID)
	if err != nil {
		if errors.Is(err, repositories.ErrNotificationNotFound) {
			return ErrNotificationNotFound
		}
		return fmt.Errorf("failed to mark notification %d as read: %w", id, err)
	}
	return nil
}

func (s *notificationService) MarkAllAsRead(ctx context.Context, userID int) (int64, error) {
	count, err := s.notificationRepo.MarkAllAsRead(ctx, userID)
	if err != nil {
		return 0, fmt.Errorf("failed to mark notifications as read for user %d: %w", userID, err)
	}
	return count, nil
}

func (s *notificationService) Create(ctx context.Context, input CreateNotificationInput) (*models.Notification, error) {
	if input.Message == "" {
		return nil, fmt.Errorf("%w: message is required", ErrValidationFailed)
	}
	if input.Type == "" {
		input.Type = models.NotificationTypeInfo
	}

	user, err := s.userRepo.GetByID(ctx, input.UserID)
	if err != nil {
		if errors.Is(err, repositories.ErrUserNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("failed to load user %d: %w", input.UserID, err)
	}

	notification := &models.Notification{
		UserID:  input.UserID,
		Type:    input.Type,
		Message: input.Message,
	}
	if err := s.notificationRepo.Create(ctx, notification); err != nil {
		if errors.Is(err, repositories.ErrNotificationUserInvalid) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("failed to create notification: %w", err)
	}

	if s.emailService != nil {
		if err := s.emailService.SendNotificationEmail(user.Email, string(notification.Type), notification.Message); err != nil && s.logger != nil {
			// Письмо не критично: запись в notifications уже есть.
			s.logger.WarnContext(ctx, "failed to send notification email",
				slog.Int("user_id", user.ID), slog.Any("error", err))
		}
	}
	return notification, nil
}
