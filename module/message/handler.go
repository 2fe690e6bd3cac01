package message

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
	msgs := r.Group("/api/messages", auth)
	msgs.GET("/conversations", h.listConversations)
	msgs.GET("/conversations/:id", h.listMessages)
	msgs.POST("/send", h.send)
	msgs.PUT("/mark-read/:id", h.markRead)
}

func (h *Handler) listConversations(c *gin.Context) {
	views, err := h.svc.ListConversations(c.Request.Context(), middleware.CurrentUser(c))
	if err != nil {
		middleware.Fail(c, err)
		return
	}
	middleware.OK(c, gin.H{"conversations": views})
}

func (h *Handler) listMessages(c *gin.Context) {
	views, err := h.svc.ListMessages(c.Request.Context(), middleware.CurrentUser(c), c.Param("id"))
	if err != nil {
		middleware.Fail(c, err)
		return
	}
	middleware.OK(c, gin.H{"messages": views})
}

func (h *Handler) send(c *gin.Context) {
	var in struct {
		ReceiverID string `json:"receiverId"`
		Text       string `json:"text"`
	}
	if err := c.ShouldBindJSON(&in); err != nil {
		middleware.Fail(c, errs.InvalidArg("malformed request body"))
		return
	}
	view, err := h.svc.Send(c.Request.Context(), middleware.CurrentUser(c), in.ReceiverID, in.Text)
	if err != nil {
		middleware.Fail(c, err)
		return
	}
	middleware.Created(c, view)
}

func (h *Handler) markRead(c *gin.Context) {
	n, err := h.svc.MarkRead(c.Request.Context(), middleware.CurrentUser(c), c.Param("id"))
	if err != nil {
		middleware.Fail(c, err)
		return
	}
	middleware.OK(c, gin.H{"markedRead": n})
}
