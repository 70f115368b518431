package messages

import (
	"context"
	"strings"

	"agriconnect-backend/internal/application/notifications"
	"agriconnect-backend/internal/domain"
	"agriconnect-backend/internal/infrastructure/repository"
	"agriconnect-backend/internal/pkg/apperror"

	"github.com/google/uuid"
)

type Service struct {
	Store         *repository.Store
	Notifications *notifications.Service
}

// Query selects a conversation (User1 and User2) or one user's inbox.
type Query struct {
	User1      string
	User2      string
	User       string
	UnreadOnly bool
}

func (s *Service) List(ctx context.Context, q Query) ([]domain.Message, error) {
	switch {
	case q.User1 != "" && q.User2 != "":
		a, errA := uuid.Parse(q.User1)
		b, errB := uuid.Parse(q.User2)
		if errA != nil || errB != nil {
			return []domain.Message{}, nil
		}
		return s.Store.Messages.FindConversation(ctx, a, b)
	case q.User != "":
		u, err := uuid.Parse(q.User)
		if err != nil {
			return []domain.Message{}, nil
		}
		if q.UnreadOnly {
			return s.Store.Messages.FindUnreadByUser(ctx, u)
		}
		return s.Store.Messages.FindByUser(ctx, u)
	}
	return nil, apperror.Invalid("Please provide user IDs for conversation")
}

type SendInput struct {
	SenderID   string `json:"senderId"`
	ReceiverID string `json:"receiverId"`
	ListingID  string `json:"listingId"`
	Content    string `json:"content"`
}

// Send stores the message and notifies the receiver in one transaction.
func (s *Service) Send(ctx context.Context, in SendInput) (*domain.Message, error) {
	content := strings.TrimSpace(in.Content)
	if in.SenderID == "" || in.ReceiverID == "" || content == "" {
		return nil, apperror.Invalid("Missing required fields: senderId, receiverId and content")
	}
	senderID, err := uuid.Parse(in.SenderID)
	if err != nil {
		return nil, apperror.NotFound("Sender not found")
	}
	receiverID, err := uuid.Parse(in.ReceiverID)
	if err != nil {
		return nil, apperror.NotFound("Receiver not found")
	}
	if senderID == receiverID {
		return nil, apperror.Invalid("Cannot send a message to yourself")
	}
	if u, err := s.Store.Users.FindByID(ctx, senderID); err != nil {
		return nil, err
	} else if u == nil {
		return nil, apperror.NotFound("Sender not found")
	}
	if u, err := s.Store.Users.FindByID(ctx, receiverID); err != nil {
		return nil, err
	} else if u == nil {
		return nil, apperror.NotFound("Receiver not found")
	}

	msg := &domain.Message{SenderID: senderID, ReceiverID: receiverID, Content: content}
	if in.ListingID != "" {
		listingID, err := uuid.Parse(in.ListingID)
		if err != nil {
			return nil, apperror.NotFound("Listing not found")
		}
		if l, err := s.Store.Listings.FindByID(ctx, listingID); err != nil {
			return nil, err
		} else if l == nil {
			return nil, apperror.NotFound("Listing not found")
		}
		msg.ListingID = &listingID
	}

	var note *domain.Notification
	err = s.Store.Transaction(ctx, func(tx *repository.Store) error {
		if err := tx.Messages.Create(ctx, msg); err != nil {
			return err
		}
		note = notifications.New(receiverID, domain.NotificationMessage,
			"New Message", "You have received a new message", &msg.ID)
		return tx.Notifications.Create(ctx, note)
	})
	if err != nil {
		return nil, err
	}
	s.Notifications.Deliver(note)
	return msg, nil
}

func (s *Service) MarkRead(ctx context.Context, id uuid.UUID) (*domain.Message, error) {
	m, err := s.Store.Messages.MarkRead(ctx, id)
	if err != nil {
		return nil, err
	}
	if m == nil {
		return nil, apperror.NotFound("Message not found")
	}
	return m, nil
}
