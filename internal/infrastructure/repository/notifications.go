package repository

import (
	"context"

	"agriconnect-backend/internal/domain"

	"github.com/google/uuid"
)

type NotificationRepository interface {
	Repository[domain.Notification]
	FindByUser(ctx context.Context, userID uuid.UUID) ([]domain.Notification, error)
	FindUnreadByUser(ctx context.Context, userID uuid.UUID) ([]domain.Notification, error)
	MarkRead(ctx context.Context, id uuid.UUID) (*domain.Notification, error)
}

type notificationRepo struct {
	crud[domain.Notification]
}

func (r *notificationRepo) FindByUser(ctx context.Context, userID uuid.UUID) ([]domain.Notification, error) {
	return r.FindAll(ctx, Filters{"user_id": userID})
}

func (r *notificationRepo) FindUnreadByUser(ctx context.Context, userID uuid.UUID) ([]domain.Notification, error) {
	return r.FindAll(ctx, Filters{"user_id": userID, "is_read": false})
}

func (r *notificationRepo) MarkRead(ctx context.Context, id uuid.UUID) (*domain.Notification, error) {
	return r.Update(ctx, id, map[string]interface{}{"is_read": true})
}
