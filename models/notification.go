package models

import "time"

type NotificationType string

const (
	NotificationTypeInfo   NotificationType = "info"
	NotificationTypeResult NotificationType = "result"
	NotificationTypeSystem NotificationType = "system"
)

type Notification struct {
	ID        int              `json:"id" db:"id"`
	UserID    int              `json:"user_id" db:"user_id"`
	Type      NotificationType `json:"type" db:"type"`
	Message   string           `json:"message" db:"message"`
	IsRead    bool             `json:"is_read" db:"is_read"`
	CreatedAt time.Time        `json:"created_at" db:"created_at"`
}
