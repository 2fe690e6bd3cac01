package post

import (
	"github.com/gin-gonic/gin"

	"DevConnect/middleware"
	"DevConnect/tools/errs"
)

type Handler struct {
	svc *Service
}

func NewHandler(svc *Service) *Handler {
	return &Handler{svc: svc}
}

func (h *Handler) MountRoutes(r gin.IRouter, auth gin.HandlerFunc) {
	posts := r.Group("/api/posts", auth)
	posts.POST("", h.create)
	posts.GET("/feed", h.feed)
	posts.PUT("/:id/like", h.toggleLike)
	posts.POST("/:id/comment", h.addComment)
	posts.DELETE("/:id", h.remove)
}

func (h *Handler) create(c *gin.Context) {
	var in struct {
		Text  string `json:"text"`
		Image string `json:"image"`
	}
	if err := c.ShouldBindJSON(&in); err != nil {
		middleware.Fail(c, errs.InvalidArg("malformed request body"))
		return
	}
	view, err := h.svc.Create(c.Request.Context(), middleware.CurrentUser(c), in.Text, in.Image)
	if err != nil {
		middleware.Fail(c, err)
		return
	}
	middleware.Created(c, view)
}

func (h *Handler) feed(c *gin.Context) {
	views, err := h.svc.Feed(c.Request.Context(), middleware.CurrentUser(c))
	if err != nil {
		middleware.Fail(c, err)
		return
	}
	middleware.OK(c, gin.H{"posts": views})
}

func (h *Handler) toggleLike(c *gin.Context) {
	res, err := h.svc.ToggleLike(c.Request.Context(), middleware.CurrentUser(c), c.Param("id"))
	if err != nil {
		middleware.Fail(c, err)
		return
	}
	middleware.OK(c, res)
}

func (h *Handler) addComment(c *gin.Context) {
	var in struct {
		Text string `json:"text"`
	}
	if err := c.ShouldBindJSON(&in); err != nil {
		middleware.Fail(c, errs.InvalidArg("malformed request body"))
		return
	}
	comments, err := h.svc.AddComment(c.Request.Context(), middleware.CurrentUser(c), c.Param("id"), in.Text)
	if err != nil {
		middleware.Fail(c, err)
		return
	}
	middleware.OK(c, gin.H{"comments": comments})
}

func (h *Handler) remove(c *gin.Context) {
	if err := h.svc.Delete(c.Request.Context(), middleware.CurrentUser(c), c.Param("id")); err != nil {
		middleware.Fail(c, err)
		return
	}
	middleware.OK(c, gin.H{"message": "post deleted"})
}
