package user

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"golang.org/x/crypto/bcrypt"

	"DevConnect/module/notification"
	notifmodel "DevConnect/module/notification/model"
	"DevConnect/module/user/model"
	"DevConnect/service/storage"
	"DevConnect/tools/errs"
	"DevConnect/tools/security"
)

type Service struct {
	store    Store
	sessions storage.SessionStore
	notifs   *notification.Service
	jwtOpts  security.Options
}

func NewService(store Store, sessions storage.SessionStore, notifs *notification.Service, jwtOpts security.Options) *Service {
	return &Service{store: store, sessions: sessions, notifs: notifs, jwtOpts: jwtOpts}
}

type RegisterInput struct {
	Name     string `json:"name"`
	Handle   string `json:"handle"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

// AuthResult is what login/register hand back to the handler: the account
// plus a signed session token and its expiry for the cookie.
type AuthResult struct {
	User      *model.User
	Token     string
	ExpiresAt time.Time
}

func (s *Service) Register(ctx context.Context, in RegisterInput) (*AuthResult, error) {
	in.Name = strings.TrimSpace(in.Name)
	in.Handle = strings.ToLower(strings.TrimSpace(in.Handle))
	in.Email = strings.ToLower(strings.TrimSpace(in.Email))
	if in.Name == "" || in.Handle == "" || in.Email == "" || in.Password == "" {
		return nil, errs.InvalidArg("name, handle, email and password are required")
	}
	if len(in.Password) < 8 {
		return nil, errs.InvalidArg("password must be at least 8 characters")
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(in.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, errs.WrapMsg(err, "hash password")
	}

	u := &model.User{
		Handle:       in.Handle,
		Name:         in.Name,
		Email:        in.Email,
		PasswordHash: string(hash),
	}
	if err := s.store.Insert(ctx, u); err != nil {
		return nil, err
	}
	return s.issueSession(u)
}

func (s *Service) Login(ctx context.Context, email, password string) (*AuthResult, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	if email == "" || password == "" {
		return nil, errs.InvalidArg("email and password are required")
	}
	u, err := s.store.GetByEmail(ctx, email)
	if err != nil {
		if errs.Is(err, errs.CodeNotFound) {
			return nil, errs.Unauthenticated("invalid credentials")
		}
		return nil, err
	}
	if bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(password)) != nil {
		return nil, errs.Unauthenticated("invalid credentials")
	}
	return s.issueSession(u)
}

func (s *Service) issueSession(u *model.User) (*AuthResult, error) {
	token, exp, err := security.Generate(s.jwtOpts, u.ID.Hex(), uuid.NewString())
	if err != nil {
		return nil, errs.WrapMsg(err, "sign session token")
	}
	return &AuthResult{User: u, Token: token, ExpiresAt: exp}, nil
}

// Logout denylists the token for its remaining lifetime, so the session dies
// server-side even if the cookie was copied elsewhere.
func (s *Service) Logout(ctx context.Context, sess *security.Session) error {
	if sess == nil || sess.TokenID == "" {
		return nil
	}
	return s.sessions.Revoke(ctx, sess.TokenID, time.Until(sess.ExpiresAt))
}

// ProfileView is the profile page payload: the user, relationship flags from
// the viewer's perspective, and edge counts.
type ProfileView struct {
	User           *model.User     `json:"user"`
	Followers      []model.Summary `json:"followers"`
	Following      []model.Summary `json:"following"`
	FollowerCount  int             `json:"followersCount"`
	FollowingCount int             `json:"followingCount"`
	IsOwnProfile   bool            `json:"isOwnProfile"`
	IsFollowing    bool            `json:"isFollowing"`
}

func (s *Service) GetByID(ctx context.Context, id primitive.ObjectID) (*model.User, error) {
	return s.store.GetByID(ctx, id)
}

func (s *Service) GetProfile(ctx context.Context, viewer *model.User, handle string) (*ProfileView, error) {
	u, err := s.store.GetByHandle(ctx, strings.ToLower(handle))
	if err != nil {
		return nil, err
	}

	ids := append(append([]primitive.ObjectID{}, u.FollowerIDs...), u.FollowingIDs...)
	resolved, err := s.store.GetManyByIDs(ctx, ids)
	if err != nil {
		return nil, err
	}
	summaries := func(ids []primitive.ObjectID) []model.Summary {
		out := make([]model.Summary, 0, len(ids))
		for _, id := range ids {
			if ru, ok := resolved[id]; ok {
				out = append(out, ru.Summary())
			}
		}
		return out
	}

	view := &ProfileView{
		User:           u,
		Followers:      summaries(u.FollowerIDs),
		Following:      summaries(u.FollowingIDs),
		FollowerCount:  len(u.FollowerIDs),
		FollowingCount: len(u.FollowingIDs),
	}
	if viewer != nil {
		view.IsOwnProfile = viewer.ID == u.ID
		for _, f := range u.FollowerIDs {
			if f == viewer.ID {
				view.IsFollowing = true
				break
			}
		}
	}
	return view, nil
}

func (s *Service) UpdateProfile(ctx context.Context, id primitive.ObjectID, upd model.ProfileUpdate) (*model.User, error) {
	return s.store.UpdateProfile(ctx, id, upd)
}

// FollowResult reports the state after a toggle, mirroring what the client
// needs to update its button and counter.
type FollowResult struct {
	Following     bool `json:"following"`
	FollowerCount int  `json:"followersCount"`
}

// ToggleFollow flips the follow edge between actor and the target handle.
// Following yourself is a conflict, and only a toggle-on creates a
// notification.
func (s *Service) ToggleFollow(ctx context.Context, actor *model.User, handle string) (*FollowResult, error) {
	target, err := s.store.GetByHandle(ctx, strings.ToLower(handle))
	if err != nil {
		return nil, err
	}
	if target.ID == actor.ID {
		return nil, errs.Conflict("you cannot follow or unfollow yourself")
	}

	following := actor.Follows(target.ID)
	if err := s.store.SetFollow(ctx, actor.ID, target.ID, !following); err != nil {
		return nil, err
	}

	count := len(target.FollowerIDs)
	if following {
		count--
	} else {
		count++
		if err := s.notifs.Create(ctx, notification.CreateInput{
			RecipientID: target.ID,
			Sender:      actor.Summary(),
			Type:        notifmodel.TypeFollow,
		}); err != nil {
			return nil, err
		}
	}
	if count < 0 {
		count = 0
	}
	return &FollowResult{Following: !following, FollowerCount: count}, nil
}
