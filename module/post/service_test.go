package post

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"DevConnect/module/notification"
	notifmodel "DevConnect/module/notification/model"
	"DevConnect/module/post/model"
	usermodel "DevConnect/module/user/model"
	"DevConnect/service/chat"
	"DevConnect/tools/errs"
)

type fakeStore struct {
	posts map[primitive.ObjectID]*model.Post
	order []primitive.ObjectID
}

func newFakeStore() *fakeStore {
	return &fakeStore{posts: make(map[primitive.ObjectID]*model.Post)}
}

func (f *fakeStore) Insert(_ context.Context, p *model.Post) error {
	if p.ID.IsZero() {
		p.ID = primitive.NewObjectID()
	}
	now := time.Now()
	p.CreateTime = now
	p.UpdateTime = now
	f.posts[p.ID] = p
	f.order = append(f.order, p.ID)
	return nil
}

func (f *fakeStore) GetByID(_ context.Context, id primitive.ObjectID) (*model.Post, error) {
	if p, ok := f.posts[id]; ok {
		return p, nil
	}
	return nil, errs.NotFound("post not found")
}

func (f *fakeStore) Feed(_ context.Context) ([]*model.Post, error) {
	out := make([]*model.Post, 0, len(f.order))
	for i := len(f.order) - 1; i >= 0; i-- {
		if p, ok := f.posts[f.order[i]]; ok {
			out = append(out, p)
		}
	}
	return out, nil
}

func (f *fakeStore) ListByAuthor(_ context.Context, authorID primitive.ObjectID) ([]*model.Post, error) {
	all, _ := f.Feed(context.Background())
	out := make([]*model.Post, 0)
	for _, p := range all {
		if p.AuthorID == authorID {
			out = append(out, p)
		}
	}
	return out, nil
}

func (f *fakeStore) SetLike(_ context.Context, postID, userID primitive.ObjectID, like bool) error {
	p, ok := f.posts[postID]
	if !ok {
		return errs.NotFound("post not found")
	}
	if like {
		if !p.LikedBy(userID) {
			p.LikeIDs = append(p.LikeIDs, userID)
		}
		return nil
	}
	out := p.LikeIDs[:0]
	for _, id := range p.LikeIDs {
		if id != userID {
			out = append(out, id)
		}
	}
	p.LikeIDs = out
	return nil
}

func (f *fakeStore) AddComment(_ context.Context, postID primitive.ObjectID, c model.Comment) error {
	p, ok := f.posts[postID]
	if !ok {
		return errs.NotFound("post not found")
	}
	p.Comments = append(p.Comments, c)
	return nil
}

func (f *fakeStore) Delete(_ context.Context, postID primitive.ObjectID) error {
	if _, ok := f.posts[postID]; !ok {
		return errs.NotFound("post not found")
	}
	delete(f.posts, postID)
	return nil
}

type fakeDirectory struct {
	users map[primitive.ObjectID]*usermodel.User
}

func (f *fakeDirectory) GetManyByIDs(_ context.Context, ids []primitive.ObjectID) (map[primitive.ObjectID]*usermodel.User, error) {
	out := make(map[primitive.ObjectID]*usermodel.User)
	for _, id := range ids {
		if u, ok := f.users[id]; ok {
			out[id] = u
		}
	}
	return out, nil
}

type recordingNotifStore struct {
	inserted []*notifmodel.Notification
}

func (r *recordingNotifStore) Insert(_ context.Context, n *notifmodel.Notification) error {
	r.inserted = append(r.inserted, n)
	return nil
}

func (r *recordingNotifStore) ListByRecipient(context.Context, primitive.ObjectID) ([]*notifmodel.Notification, error) {
	return r.inserted, nil
}

func (r *recordingNotifStore) MarkAllRead(context.Context, primitive.ObjectID) error {
	return nil
}

func testUser(name string) *usermodel.User {
	return &usermodel.User{ID: primitive.NewObjectID(), Handle: name, Name: name}
}

func setup() (*Service, *fakeStore, *recordingNotifStore, *usermodel.User, *usermodel.User) {
	author := testUser("author")
	reader := testUser("reader")
	store := newFakeStore()
	dir := &fakeDirectory{users: map[primitive.ObjectID]*usermodel.User{
		author.ID: author,
		reader.ID: reader,
	}}
	notifStore := &recordingNotifStore{}
	svc := NewService(store, dir, notification.NewService(notifStore, chat.NopDelivery{}))
	return svc, store, notifStore, author, reader
}

func TestCreateAndFeed(t *testing.T) {
	svc, _, _, author, reader := setup()
	ctx := context.Background()

	_, err := svc.Create(ctx, author, "  ", "")
	assert.True(t, errs.Is(err, errs.CodeInvalidArgument))

	first, err := svc.Create(ctx, author, "hello world", "")
	require.NoError(t, err)
	assert.Equal(t, "author", first.Author.Handle)
	assert.Equal(t, 0, first.Likes)

	_, err = svc.Create(ctx, author, "second post", "http://img")
	require.NoError(t, err)

	feed, err := svc.Feed(ctx, reader)
	require.NoError(t, err)
	require.Len(t, feed, 2)
	assert.Equal(t, "second post", feed[0].Text, "newest first")
	assert.Equal(t, "hello world", feed[1].Text)
}

func TestToggleLike(t *testing.T) {
	svc, _, notifStore, author, reader := setup()
	ctx := context.Background()

	p, err := svc.Create(ctx, author, "likeable", "http://img")
	require.NoError(t, err)

	res, err := svc.ToggleLike(ctx, reader, p.ID)
	require.NoError(t, err)
	assert.True(t, res.Liked)
	assert.Equal(t, 1, res.Likes)

	require.Len(t, notifStore.inserted, 1)
	n := notifStore.inserted[0]
	assert.Equal(t, notifmodel.TypeLike, n.Type)
	assert.Equal(t, author.ID, n.RecipientID)
	assert.Equal(t, p.ID, n.PostID)
	assert.Equal(t, "http://img", n.PostImage)

	// Unlike: no new notification.
	res, err = svc.ToggleLike(ctx, reader, p.ID)
	require.NoError(t, err)
	assert.False(t, res.Liked)
	assert.Equal(t, 0, res.Likes)
	assert.Len(t, notifStore.inserted, 1)
}

func TestSelfLikeProducesNoNotification(t *testing.T) {
	svc, _, notifStore, author, _ := setup()
	ctx := context.Background()

	p, err := svc.Create(ctx, author, "own post", "")
	require.NoError(t, err)

	res, err := svc.ToggleLike(ctx, author, p.ID)
	require.NoError(t, err)
	assert.True(t, res.Liked)
	assert.Empty(t, notifStore.inserted)
}

func TestToggleLikeErrors(t *testing.T) {
	svc, _, _, _, reader := setup()
	ctx := context.Background()

	_, err := svc.ToggleLike(ctx, reader, "garbage")
	assert.True(t, errs.Is(err, errs.CodeInvalidArgument))

	_, err = svc.ToggleLike(ctx, reader, primitive.NewObjectID().Hex())
	assert.True(t, errs.Is(err, errs.CodeNotFound))
}

func TestAddComment(t *testing.T) {
	svc, store, notifStore, author, reader := setup()
	ctx := context.Background()

	p, err := svc.Create(ctx, author, "discuss", "")
	require.NoError(t, err)

	_, err = svc.AddComment(ctx, reader, p.ID, "   ")
	assert.True(t, errs.Is(err, errs.CodeInvalidArgument))

	comments, err := svc.AddComment(ctx, reader, p.ID, "nice one")
	require.NoError(t, err)
	require.Len(t, comments, 1)
	assert.Equal(t, "nice one", comments[0].Text)
	assert.Equal(t, "reader", comments[0].User.Handle)

	pid, _ := primitive.ObjectIDFromHex(p.ID)
	assert.Len(t, store.posts[pid].Comments, 1)

	require.Len(t, notifStore.inserted, 1)
	assert.Equal(t, notifmodel.TypeComment, notifStore.inserted[0].Type)
}

func TestDeleteOnlyByAuthor(t *testing.T) {
	svc, store, _, author, reader := setup()
	ctx := context.Background()

	p, err := svc.Create(ctx, author, "mine", "")
	require.NoError(t, err)

	err = svc.Delete(ctx, reader, p.ID)
	assert.True(t, errs.Is(err, errs.CodeForbidden))
	assert.Len(t, store.posts, 1)

	require.NoError(t, svc.Delete(ctx, author, p.ID))
	assert.Empty(t, store.posts)
}

func TestLikedFlagIsPerViewer(t *testing.T) {
	svc, _, _, author, reader := setup()
	ctx := context.Background()

	p, err := svc.Create(ctx, author, "viewpoint", "")
	require.NoError(t, err)
	_, err = svc.ToggleLike(ctx, reader, p.ID)
	require.NoError(t, err)

	feed, err := svc.Feed(ctx, reader)
	require.NoError(t, err)
	require.Len(t, feed, 1)
	assert.True(t, feed[0].Liked)

	feed, err = svc.Feed(ctx, author)
	require.NoError(t, err)
	assert.False(t, feed[0].Liked)
}
