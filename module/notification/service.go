package notification

import (
	"context"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"DevConnect/module/notification/model"
	usermodel "DevConnect/module/user/model"
	"DevConnect/service/chat"
)

type Service struct {
	store    Store
	delivery chat.Delivery
}

func NewService(store Store, delivery chat.Delivery) *Service {
	return &Service{store: store, delivery: delivery}
}

// CreateInput describes the action that triggered the fan-out. The sender is
// a profile snapshot because the caller always has the acting user loaded.
type CreateInput struct {
	RecipientID primitive.ObjectID
	Sender      usermodel.Summary
	Type        string
	PostID      string
	PostImage   string
}

// Create persists the notification and pushes it to the recipient if they are
// online. Self-directed actions are suppressed here so no caller has to
// remember the rule.
func (s *Service) Create(ctx context.Context, in CreateInput) error {
	if in.RecipientID.Hex() == in.Sender.ID {
		return nil
	}
	n := &model.Notification{
		RecipientID: in.RecipientID,
		Sender:      in.Sender,
		Type:        in.Type,
		PostID:      in.PostID,
		PostImage:   in.PostImage,
	}
	if err := s.store.Insert(ctx, n); err != nil {
		return err
	}
	s.delivery.DeliverNotification(in.RecipientID.Hex(), n)
	return nil
}

func (s *Service) List(ctx context.Context, recipientID primitive.ObjectID) ([]*model.Notification, error) {
	return s.store.ListByRecipient(ctx, recipientID)
}

// MarkAllRead flips every unread flag for the recipient and returns the
// refreshed list, matching what the client renders right after.
func (s *Service) MarkAllRead(ctx context.Context, recipientID primitive.ObjectID) ([]*model.Notification, error) {
	if err := s.store.MarkAllRead(ctx, recipientID); err != nil {
		return nil, err
	}
	return s.store.ListByRecipient(ctx, recipientID)
}
