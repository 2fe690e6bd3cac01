package notification

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"DevConnect/module/notification/model"
	usermodel "DevConnect/module/user/model"
	"DevConnect/service/chat"
)

type memStore struct {
	items []*model.Notification
}

func (m *memStore) Insert(_ context.Context, n *model.Notification) error {
	if n.ID.IsZero() {
		n.ID = primitive.NewObjectID()
	}
	m.items = append(m.items, n)
	return nil
}

func (m *memStore) ListByRecipient(_ context.Context, recipientID primitive.ObjectID) ([]*model.Notification, error) {
	var out []*model.Notification
	for _, n := range m.items {
		if n.RecipientID == recipientID {
			out = append(out, n)
		}
	}
	return out, nil
}

func (m *memStore) MarkAllRead(_ context.Context, recipientID primitive.ObjectID) error {
	for _, n := range m.items {
		if n.RecipientID == recipientID {
			n.Read = true
		}
	}
	return nil
}

type pushRecorder struct {
	pushed []string
}

func (d *pushRecorder) DeliverMessage(string, any) {}

func (d *pushRecorder) DeliverAlert(string, chat.MessageAlert) {}

func (d *pushRecorder) DeliverNotification(recipientID string, _ any) {
	d.pushed = append(d.pushed, recipientID)
}

func sender(name string) usermodel.Summary {
	return usermodel.Summary{ID: primitive.NewObjectID().Hex(), Handle: name, Name: name}
}

func TestCreatePersistsAndPushes(t *testing.T) {
	store := &memStore{}
	delivery := &pushRecorder{}
	svc := NewService(store, delivery)

	recipient := primitive.NewObjectID()
	err := svc.Create(context.Background(), CreateInput{
		RecipientID: recipient,
		Sender:      sender("ada"),
		Type:        model.TypeLike,
		PostID:      "p1",
	})
	require.NoError(t, err)

	require.Len(t, store.items, 1)
	assert.Equal(t, model.TypeLike, store.items[0].Type)
	assert.False(t, store.items[0].Read)
	assert.Equal(t, []string{recipient.Hex()}, delivery.pushed)
}

func TestCreateSuppressesSelfActions(t *testing.T) {
	store := &memStore{}
	delivery := &pushRecorder{}
	svc := NewService(store, delivery)

	actor := primitive.NewObjectID()
	err := svc.Create(context.Background(), CreateInput{
		RecipientID: actor,
		Sender:      usermodel.Summary{ID: actor.Hex(), Handle: "ada"},
		Type:        model.TypeComment,
	})
	require.NoError(t, err)

	assert.Empty(t, store.items)
	assert.Empty(t, delivery.pushed)
}

func TestMarkAllReadReturnsRefreshedList(t *testing.T) {
	store := &memStore{}
	svc := NewService(store, &pushRecorder{})
	ctx := context.Background()

	recipient := primitive.NewObjectID()
	other := primitive.NewObjectID()
	for _, rid := range []primitive.ObjectID{recipient, recipient, other} {
		require.NoError(t, svc.Create(ctx, CreateInput{
			RecipientID: rid,
			Sender:      sender("grace"),
			Type:        model.TypeFollow,
		}))
	}

	items, err := svc.MarkAllRead(ctx, recipient)
	require.NoError(t, err)
	require.Len(t, items, 2)
	for _, n := range items {
		assert.True(t, n.Read)
	}

	// The other recipient's notification is untouched.
	items, err = svc.List(ctx, other)
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.False(t, items[0].Read)
}
