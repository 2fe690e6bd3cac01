package message

import (
	"context"
	"strings"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"DevConnect/logger"
	"DevConnect/module/message/model"
	usermodel "DevConnect/module/user/model"
	"DevConnect/service/chat"
	"DevConnect/tools/errs"
)

const previewRunes = 80

// UserDirectory resolves participant snapshots. user.Store satisfies it.
type UserDirectory interface {
	GetManyByIDs(ctx context.Context, ids []primitive.ObjectID) (map[primitive.ObjectID]*usermodel.User, error)
}

type Service struct {
	store    Store
	users    UserDirectory
	delivery chat.Delivery
}

func NewService(store Store, users UserDirectory, delivery chat.Delivery) *Service {
	return &Service{store: store, users: users, delivery: delivery}
}

// MessageView is a message with its sender profile resolved.
type MessageView struct {
	ID             string            `json:"id"`
	ConversationID string            `json:"conversationId"`
	Sender         usermodel.Summary `json:"sender"`
	Text           string            `json:"text"`
	Read           bool              `json:"read"`
	CreatedAt      time.Time         `json:"createdAt"`
}

// ConversationView is a conversation list entry from one participant's
// perspective: the counterpart, the last message, and the unread count
// derived from unread message flags (the single source of unread truth).
type ConversationView struct {
	ID          string            `json:"id"`
	Participant usermodel.Summary `json:"participant"`
	LastMessage *MessageView      `json:"lastMessage,omitempty"`
	UnreadCount int64             `json:"unreadCount"`
	UpdatedAt   time.Time         `json:"updatedAt"`
}

// Send implements the send-message operation: validate, atomically
// find-or-create the conversation, append the message, update the last-message
// reference, then hand the delivery side effects to the gateway. The returned
// view does not depend on delivery succeeding.
func (s *Service) Send(ctx context.Context, sender *usermodel.User, receiverID, text string) (*MessageView, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return nil, errs.InvalidArg("message text is required")
	}
	rid, err := primitive.ObjectIDFromHex(receiverID)
	if err != nil {
		return nil, errs.InvalidArg("malformed receiver id")
	}
	if rid != sender.ID {
		resolved, err := s.users.GetManyByIDs(ctx, []primitive.ObjectID{rid})
		if err != nil {
			return nil, err
		}
		if _, ok := resolved[rid]; !ok {
			return nil, errs.NotFound("receiver not found")
		}
	}

	conv, created, err := s.store.FindOrCreateConversation(ctx, sender.ID, rid)
	if err != nil {
		return nil, err
	}

	msg := &model.Message{
		ConversationID: conv.ID,
		SenderID:       sender.ID,
		Text:           text,
		Read:           false,
	}
	if err := s.store.InsertMessage(ctx, msg); err != nil {
		// A first message that failed to land would otherwise leave an empty
		// conversation behind with no way to ever reference it.
		if created {
			if derr := s.store.DeleteEmptyConversation(ctx, conv.ID); derr != nil {
				logger.Errorf("compensating conversation cleanup failed conv=%s: %v", conv.ID.Hex(), derr)
			}
		}
		return nil, err
	}
	if err := s.store.SetLastMessage(ctx, conv.ID, msg.ID, msg.CreateTime); err != nil {
		return nil, err
	}

	view := &MessageView{
		ID:             msg.ID.Hex(),
		ConversationID: conv.ID.Hex(),
		Sender:         sender.Summary(),
		Text:           msg.Text,
		Read:           msg.Read,
		CreatedAt:      msg.CreateTime,
	}

	// Self-messaging produces no delivery side effects.
	if rid != sender.ID {
		s.delivery.DeliverMessage(rid.Hex(), view)
		s.delivery.DeliverAlert(rid.Hex(), chat.MessageAlert{
			ConversationID: view.ConversationID,
			SenderID:       view.Sender.ID,
			SenderHandle:   view.Sender.Handle,
			Preview:        preview(text),
		})
	}
	return view, nil
}

// ListConversations returns the caller's conversations sorted by most recent
// activity, counterpart and last message resolved.
func (s *Service) ListConversations(ctx context.Context, caller *usermodel.User) ([]ConversationView, error) {
	convs, err := s.store.ListConversations(ctx, caller.ID)
	if err != nil {
		return nil, err
	}

	var userIDs, msgIDs []primitive.ObjectID
	for _, c := range convs {
		userIDs = append(userIDs, c.Other(caller.ID))
		if c.LastMessageID != nil {
			msgIDs = append(msgIDs, *c.LastMessageID)
		}
	}
	users, err := s.users.GetManyByIDs(ctx, userIDs)
	if err != nil {
		return nil, err
	}
	lastMsgs, err := s.store.GetMessagesByIDs(ctx, msgIDs)
	if err != nil {
		return nil, err
	}

	out := make([]ConversationView, 0, len(convs))
	for _, c := range convs {
		v := ConversationView{
			ID:        c.ID.Hex(),
			UpdatedAt: c.UpdateTime,
		}
		other := c.Other(caller.ID)
		if u, ok := users[other]; ok {
			v.Participant = u.Summary()
		}
		if c.LastMessageID != nil {
			if m, ok := lastMsgs[*c.LastMessageID]; ok {
				v.LastMessage = s.renderMessage(m, users, caller)
			}
		}
		n, err := s.store.CountUnread(ctx, c.ID, caller.ID)
		if err != nil {
			return nil, err
		}
		v.UnreadCount = n
		out = append(out, v)
	}
	return out, nil
}

// ListMessages returns the ordered messages of a conversation the caller
// participates in. Fetching as the non-sender intentionally marks unread
// messages read: the read query is the acknowledgement protocol.
func (s *Service) ListMessages(ctx context.Context, caller *usermodel.User, convID string) ([]MessageView, error) {
	conv, err := s.loadOwnConversation(ctx, caller, convID)
	if err != nil {
		return nil, err
	}
	if _, err := s.store.MarkRead(ctx, conv.ID, caller.ID); err != nil {
		return nil, err
	}
	msgs, err := s.store.ListMessages(ctx, conv.ID)
	if err != nil {
		return nil, err
	}

	users, err := s.users.GetManyByIDs(ctx, conv.ParticipantIDs)
	if err != nil {
		return nil, err
	}
	out := make([]MessageView, 0, len(msgs))
	for _, m := range msgs {
		out = append(out, *s.renderMessage(m, users, caller))
	}
	return out, nil
}

// MarkRead is the explicit variant of the read transition ListMessages
// performs implicitly.
func (s *Service) MarkRead(ctx context.Context, caller *usermodel.User, convID string) (int64, error) {
	conv, err := s.loadOwnConversation(ctx, caller, convID)
	if err != nil {
		return 0, err
	}
	return s.store.MarkRead(ctx, conv.ID, caller.ID)
}

func (s *Service) loadOwnConversation(ctx context.Context, caller *usermodel.User, convID string) (*model.Conversation, error) {
	id, err := primitive.ObjectIDFromHex(convID)
	if err != nil {
		return nil, errs.InvalidArg("malformed conversation id")
	}
	conv, err := s.store.GetConversation(ctx, id)
	if err != nil {
		return nil, err
	}
	if !conv.HasParticipant(caller.ID) {
		return nil, errs.Forbidden("not a participant of this conversation")
	}
	return conv, nil
}

func (s *Service) renderMessage(m *model.Message, users map[primitive.ObjectID]*usermodel.User, caller *usermodel.User) *MessageView {
	v := &MessageView{
		ID:             m.ID.Hex(),
		ConversationID: m.ConversationID.Hex(),
		Text:           m.Text,
		Read:           m.Read,
		CreatedAt:      m.CreateTime,
	}
	if m.SenderID == caller.ID {
		v.Sender = caller.Summary()
	} else if u, ok := users[m.SenderID]; ok {
		v.Sender = u.Summary()
	}
	return v
}

func preview(text string) string {
	r := []rune(text)
	if len(r) <= previewRunes {
		return text
	}
	return string(r[:previewRunes])
}
