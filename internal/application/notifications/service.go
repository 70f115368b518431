package notifications

import (
	"context"
	"strings"
	"time"

	"agriconnect-backend/internal/application/emails"
	"agriconnect-backend/internal/domain"
	"agriconnect-backend/internal/infrastructure/repository"
	"agriconnect-backend/internal/pkg/apperror"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
)

var validTypes = map[string]bool{
	domain.NotificationNewInterest:      true,
	domain.NotificationInterestAccepted: true,
	domain.NotificationMessage:          true,
	domain.NotificationListingUpdate:    true,
	domain.NotificationSystem:           true,
}

type Service struct {
	Store  *repository.Store
	Mailer emails.Sender
}

// New builds an unsaved notification.
func New(userID uuid.UUID, typ, title, message string, relatedID *uuid.UUID) *domain.Notification {
	return &domain.Notification{UserID: userID, Type: typ, Title: title, Message: message, RelatedID: relatedID}
}

// Deliver e-mails committed notifications to their recipients in the
// background. It is a no-op without a mail sender.
func (s *Service) Deliver(ns ...*domain.Notification) {
	if s == nil || s.Mailer == nil || len(ns) == 0 {
		return
	}
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()
		for _, n := range ns {
			u, err := s.Store.Users.FindByID(ctx, n.UserID)
			if err != nil || u == nil {
				log.Warn().Err(err).Str("user_id", n.UserID.String()).Msg("notification recipient lookup failed")
				continue
			}
			if err := s.Mailer.SendNotification(ctx, u.Email, u.Name, n.Title, n.Message); err != nil {
				log.Warn().Err(err).Str("notification_id", n.ID.String()).Msg("notification e-mail failed")
			}
		}
	}()
}

// CreateInput accepts userId, or sellerId from older clients.
type CreateInput struct {
	UserID    string `json:"userId"`
	SellerID  string `json:"sellerId"`
	Type      string `json:"type"`
	Title     string `json:"title"`
	Message   string `json:"message"`
	RelatedID string `json:"relatedId"`
}

func (s *Service) Create(ctx context.Context, in CreateInput) (*domain.Notification, error) {
	recipient := in.UserID
	if recipient == "" {
		recipient = in.SellerID
	}
	if recipient == "" || strings.TrimSpace(in.Message) == "" {
		return nil, apperror.Invalid("Missing required fields: userId and message")
	}
	userID, err := uuid.Parse(recipient)
	if err != nil {
		return nil, apperror.NotFound("User not found")
	}
	typ := in.Type
	if typ == "" {
		typ = domain.NotificationSystem
	}
	if !validTypes[typ] {
		return nil, apperror.Invalid("Invalid notification type")
	}
	title := strings.TrimSpace(in.Title)
	if title == "" {
		title = "New Notification"
	}
	var related *uuid.UUID
	if in.RelatedID != "" {
		id, err := uuid.Parse(in.RelatedID)
		if err != nil {
			return nil, apperror.Invalid("Invalid relatedId")
		}
		related = &id
	}

	u, err := s.Store.Users.FindByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	if u == nil {
		return nil, apperror.NotFound("User not found")
	}
	n := New(userID, typ, title, strings.TrimSpace(in.Message), related)
	if err := s.Store.Notifications.Create(ctx, n); err != nil {
		return nil, err
	}
	s.Deliver(n)
	return n, nil
}

func (s *Service) ForUser(ctx context.Context, userID uuid.UUID, unreadOnly bool) ([]domain.Notification, error) {
	if unreadOnly {
		return s.Store.Notifications.FindUnreadByUser(ctx, userID)
	}
	return s.Store.Notifications.FindByUser(ctx, userID)
}

func (s *Service) MarkRead(ctx context.Context, id uuid.UUID) (*domain.Notification, error) {
	n, err := s.Store.Notifications.MarkRead(ctx, id)
	if err != nil {
		return nil, err
	}
	if n == nil {
		return nil, apperror.NotFound("Notification not found")
	}
	return n, nil
}
