package repository

import (
	"context"

	"agriconnect-backend/internal/domain"

	"github.com/google/uuid"
)

type MessageRepository interface {
	Repository[domain.Message]
	// FindConversation returns messages between a and b in both directions, oldest first.
	FindConversation(ctx context.Context, a, b uuid.UUID) ([]domain.Message, error)
	FindByUser(ctx context.Context, userID uuid.UUID) ([]domain.Message, error)
	FindUnreadByUser(ctx context.Context, userID uuid.UUID) ([]domain.Message, error)
	MarkRead(ctx context.Context, id uuid.UUID) (*domain.Message, error)
}

type messageRepo struct {
	crud[domain.Message]
}

func (r *messageRepo) FindConversation(ctx context.Context, a, b uuid.UUID) ([]domain.Message, error) {
	q := r.db.WithContext(ctx).
		Where("(sender_id = ? AND receiver_id = ?) OR (sender_id = ? AND receiver_id = ?)", a, b, b, a).
		Order(`"createdAt" ASC`)
	return r.find(q)
}

func (r *messageRepo) FindByUser(ctx context.Context, userID uuid.UUID) ([]domain.Message, error) {
	q := r.db.WithContext(ctx).Where("sender_id = ? OR receiver_id = ?", userID, userID).Order(newestFirst)
	return r.find(q)
}

func (r *messageRepo) FindUnreadByUser(ctx context.Context, userID uuid.UUID) ([]domain.Message, error) {
	q := r.db.WithContext(ctx).Where("receiver_id = ? AND is_read = ?", userID, false).Order(newestFirst)
	return r.find(q)
}

func (r *messageRepo) MarkRead(ctx context.Context, id uuid.UUID) (*domain.Message, error) {
	return r.Update(ctx, id, map[string]interface{}{"is_read": true})
}
