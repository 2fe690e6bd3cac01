package user

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"DevConnect/middleware"
	"DevConnect/module/post"
	"DevConnect/module/user/model"
	"DevConnect/tools/errs"
)

const sessionCookie = "token"

// Handler exposes the auth and profile surface. The profile page composes the
// user view with that user's posts, so it also talks to the post service.
type Handler struct {
	svc   *Service
	posts *post.Service
}

func NewHandler(svc *Service, posts *post.Service) *Handler {
	return &Handler{svc: svc, posts: posts}
}

// MountRoutes wires /api/auth (register/login open, logout behind auth) and
// /api/profile (all behind auth).
func (h *Handler) MountRoutes(r gin.IRouter, auth gin.HandlerFunc) {
	authGroup := r.Group("/api/auth")
	authGroup.POST("/register", h.register)
	authGroup.POST("/login", h.login)
	authGroup.POST("/logout", auth, h.logout)

	profile := r.Group("/api/profile", auth)
	profile.GET("/me", h.me)
	profile.GET("/:handle", h.getProfile)
	profile.PUT("", h.updateProfile)
	profile.POST("/:handle/follow", h.toggleFollow)
}

func (h *Handler) setSessionCookie(c *gin.Context, token string, exp time.Time) {
	maxAge := int(time.Until(exp).Seconds())
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(sessionCookie, token, maxAge, "/", "", false, true)
}

func (h *Handler) register(c *gin.Context) {
	var in RegisterInput
	if err := c.ShouldBindJSON(&in); err != nil {
		middleware.Fail(c, errs.InvalidArg("malformed request body"))
		return
	}
	res, err := h.svc.Register(c.Request.Context(), in)
	if err != nil {
		middleware.Fail(c, err)
		return
	}
	h.setSessionCookie(c, res.Token, res.ExpiresAt)
	middleware.Created(c, gin.H{"message": "user registered successfully", "user": res.User})
}

func (h *Handler) login(c *gin.Context) {
	var in struct {
		Email    string `json:"email"`
		Password string `json:"password"`
	}
	if err := c.ShouldBindJSON(&in); err != nil {
		middleware.Fail(c, errs.InvalidArg("malformed request body"))
		return
	}
	res, err := h.svc.Login(c.Request.Context(), in.Email, in.Password)
	if err != nil {
		middleware.Fail(c, err)
		return
	}
	h.setSessionCookie(c, res.Token, res.ExpiresAt)
	middleware.OK(c, gin.H{"message": "login successful", "user": res.User})
}

func (h *Handler) logout(c *gin.Context) {
	if err := h.svc.Logout(c.Request.Context(), middleware.CurrentSession(c)); err != nil {
		middleware.Fail(c, err)
		return
	}
	c.SetCookie(sessionCookie, "", -1, "/", "", false, true)
	middleware.OK(c, gin.H{"message": "logged out successfully"})
}

func (h *Handler) me(c *gin.Context) {
	u := middleware.CurrentUser(c)
	view, err := h.svc.GetProfile(c.Request.Context(), u, u.Handle)
	if err != nil {
		middleware.Fail(c, err)
		return
	}
	middleware.OK(c, view)
}

func (h *Handler) getProfile(c *gin.Context) {
	viewer := middleware.CurrentUser(c)
	view, err := h.svc.GetProfile(c.Request.Context(), viewer, c.Param("handle"))
	if err != nil {
		middleware.Fail(c, err)
		return
	}
	posts, err := h.posts.ListByAuthor(c.Request.Context(), viewer, view.User.ID)
	if err != nil {
		middleware.Fail(c, err)
		return
	}
	middleware.OK(c, gin.H{
		"user":           view.User,
		"followers":      view.Followers,
		"following":      view.Following,
		"followersCount": view.FollowerCount,
		"followingCount": view.FollowingCount,
		"isOwnProfile":   view.IsOwnProfile,
		"isFollowing":    view.IsFollowing,
		"posts":          posts,
	})
}

func (h *Handler) updateProfile(c *gin.Context) {
	var in struct {
		Name     *string  `json:"name"`
		Bio      *string  `json:"bio"`
		Avatar   *string  `json:"avatar"`
		Github   *string  `json:"github"`
		Linkedin *string  `json:"linkedin"`
		Skills   []string `json:"skills"`
	}
	if err := c.ShouldBindJSON(&in); err != nil {
		middleware.Fail(c, errs.InvalidArg("malformed request body"))
		return
	}
	u := middleware.CurrentUser(c)
	updated, err := h.svc.UpdateProfile(c.Request.Context(), u.ID, model.ProfileUpdate{
		Name:        in.Name,
		Bio:         in.Bio,
		AvatarURL:   in.Avatar,
		GithubURL:   in.Github,
		LinkedinURL: in.Linkedin,
		Skills:      in.Skills,
	})
	if err != nil {
		middleware.Fail(c, err)
		return
	}
	middleware.OK(c, gin.H{"message": "profile updated", "user": updated})
}

func (h *Handler) toggleFollow(c *gin.Context) {
	res, err := h.svc.ToggleFollow(c.Request.Context(), middleware.CurrentUser(c), c.Param("handle"))
	if err != nil {
		middleware.Fail(c, err)
		return
	}
	middleware.OK(c, res)
}
