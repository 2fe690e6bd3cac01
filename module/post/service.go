package post

import (
	"context"
	"strings"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"DevConnect/module/notification"
	notifmodel "DevConnect/module/notification/model"
	"DevConnect/module/post/model"
	usermodel "DevConnect/module/user/model"
	"DevConnect/tools/errs"
)

// UserDirectory resolves profile snapshots for authors and commenters.
// user.Store satisfies it.
type UserDirectory interface {
	GetManyByIDs(ctx context.Context, ids []primitive.ObjectID) (map[primitive.ObjectID]*usermodel.User, error)
}

type Service struct {
	store  Store
	users  UserDirectory
	notifs *notification.Service
}

func NewService(store Store, users UserDirectory, notifs *notification.Service) *Service {
	return &Service{store: store, users: users, notifs: notifs}
}

type CommentView struct {
	ID        string            `json:"id"`
	User      usermodel.Summary `json:"user"`
	Text      string            `json:"text"`
	CreatedAt time.Time         `json:"createdAt"`
}

// View is a feed entry with author and comment authors resolved and the
// like state computed for the viewer.
type View struct {
	ID        string            `json:"id"`
	Author    usermodel.Summary `json:"author"`
	Text      string            `json:"text"`
	Image     string            `json:"image,omitempty"`
	Likes     int               `json:"likes"`
	Liked     bool              `json:"liked"`
	Comments  []CommentView     `json:"comments"`
	CreatedAt time.Time         `json:"createdAt"`
}

type LikeResult struct {
	Liked bool `json:"liked"`
	Likes int  `json:"likes"`
}

func (s *Service) Create(ctx context.Context, author *usermodel.User, text, imageURL string) (*View, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return nil, errs.InvalidArg("post text is required")
	}
	p := &model.Post{
		AuthorID: author.ID,
		Text:     text,
		ImageURL: imageURL,
	}
	if err := s.store.Insert(ctx, p); err != nil {
		return nil, err
	}
	v := s.render(p, author.ID, map[primitive.ObjectID]*usermodel.User{author.ID: author})
	return &v, nil
}

func (s *Service) Feed(ctx context.Context, viewer *usermodel.User) ([]View, error) {
	posts, err := s.store.Feed(ctx)
	if err != nil {
		return nil, err
	}
	return s.renderAll(ctx, posts, viewer.ID)
}

func (s *Service) ListByAuthor(ctx context.Context, viewer *usermodel.User, authorID primitive.ObjectID) ([]View, error) {
	posts, err := s.store.ListByAuthor(ctx, authorID)
	if err != nil {
		return nil, err
	}
	return s.renderAll(ctx, posts, viewer.ID)
}

// ToggleLike flips the viewer's membership in the liker set. Only the
// transition into "liked" notifies the author, and never for self-likes.
func (s *Service) ToggleLike(ctx context.Context, actor *usermodel.User, postID string) (*LikeResult, error) {
	id, err := parseID(postID)
	if err != nil {
		return nil, err
	}
	p, err := s.store.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	liked := p.LikedBy(actor.ID)
	if err := s.store.SetLike(ctx, p.ID, actor.ID, !liked); err != nil {
		return nil, err
	}

	likes := len(p.LikeIDs)
	if liked {
		likes--
	} else {
		likes++
		if err := s.notifs.Create(ctx, notification.CreateInput{
			RecipientID: p.AuthorID,
			Sender:      actor.Summary(),
			Type:        notifmodel.TypeLike,
			PostID:      p.ID.Hex(),
			PostImage:   p.ImageURL,
		}); err != nil {
			return nil, err
		}
	}
	if likes < 0 {
		likes = 0
	}
	return &LikeResult{Liked: !liked, Likes: likes}, nil
}

// AddComment appends the comment and returns the resolved comment list.
func (s *Service) AddComment(ctx context.Context, actor *usermodel.User, postID, text string) ([]CommentView, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return nil, errs.InvalidArg("comment text is required")
	}
	id, err := parseID(postID)
	if err != nil {
		return nil, err
	}
	p, err := s.store.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	c := model.Comment{
		ID:         primitive.NewObjectID(),
		UserID:     actor.ID,
		Text:       text,
		CreateTime: time.Now(),
	}
	if err := s.store.AddComment(ctx, p.ID, c); err != nil {
		return nil, err
	}
	if err := s.notifs.Create(ctx, notification.CreateInput{
		RecipientID: p.AuthorID,
		Sender:      actor.Summary(),
		Type:        notifmodel.TypeComment,
		PostID:      p.ID.Hex(),
		PostImage:   p.ImageURL,
	}); err != nil {
		return nil, err
	}

	p.Comments = append(p.Comments, c)
	users, err := s.resolveUsers(ctx, p)
	if err != nil {
		return nil, err
	}
	return renderComments(p.Comments, users), nil
}

// Delete removes the post, but only for its author.
func (s *Service) Delete(ctx context.Context, actor *usermodel.User, postID string) error {
	id, err := parseID(postID)
	if err != nil {
		return err
	}
	p, err := s.store.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if p.AuthorID != actor.ID {
		return errs.Forbidden("you can delete only your own post")
	}
	return s.store.Delete(ctx, p.ID)
}

func parseID(hex string) (primitive.ObjectID, error) {
	id, err := primitive.ObjectIDFromHex(hex)
	if err != nil {
		return primitive.NilObjectID, errs.InvalidArg("malformed post id")
	}
	return id, nil
}

func (s *Service) resolveUsers(ctx context.Context, posts ...*model.Post) (map[primitive.ObjectID]*usermodel.User, error) {
	seen := make(map[primitive.ObjectID]struct{})
	var ids []primitive.ObjectID
	add := func(id primitive.ObjectID) {
		if _, ok := seen[id]; !ok {
			seen[id] = struct{}{}
			ids = append(ids, id)
		}
	}
	for _, p := range posts {
		add(p.AuthorID)
		for _, c := range p.Comments {
			add(c.UserID)
		}
	}
	return s.users.GetManyByIDs(ctx, ids)
}

func (s *Service) renderAll(ctx context.Context, posts []*model.Post, viewerID primitive.ObjectID) ([]View, error) {
	users, err := s.resolveUsers(ctx, posts...)
	if err != nil {
		return nil, err
	}
	out := make([]View, 0, len(posts))
	for _, p := range posts {
		out = append(out, s.render(p, viewerID, users))
	}
	return out, nil
}

func (s *Service) render(p *model.Post, viewerID primitive.ObjectID, users map[primitive.ObjectID]*usermodel.User) View {
	v := View{
		ID:        p.ID.Hex(),
		Text:      p.Text,
		Image:     p.ImageURL,
		Likes:     len(p.LikeIDs),
		Liked:     p.LikedBy(viewerID),
		Comments:  renderComments(p.Comments, users),
		CreatedAt: p.CreateTime,
	}
	if u, ok := users[p.AuthorID]; ok {
		v.Author = u.Summary()
	}
	return v
}

func renderComments(comments []model.Comment, users map[primitive.ObjectID]*usermodel.User) []CommentView {
	out := make([]CommentView, 0, len(comments))
	for _, c := range comments {
		cv := CommentView{
			ID:        c.ID.Hex(),
			Text:      c.Text,
			CreatedAt: c.CreateTime,
		}
		if u, ok := users[c.UserID]; ok {
			cv.User = u.Summary()
		}
		out = append(out, cv)
	}
	return out
}
