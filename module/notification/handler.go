package notification

import (
	"github.com/gin-gonic/gin"

	"DevConnect/middleware"
)

type Handler struct {
	svc *Service
}

func NewHandler(svc *Service) *Handler {
	return &Handler{svc: svc}
}

func (h *Handler) MountRoutes(r gin.IRouter, auth gin.HandlerFunc) {
	notifs := r.Group("/api/notifications", auth)
	notifs.GET("", h.list)
	notifs.PUT("/read", h.markAllRead)
}

func (h *Handler) list(c *gin.Context) {
	items, err := h.svc.List(c.Request.Context(), middleware.CurrentUser(c).ID)
	if err != nil {
		middleware.Fail(c, err)
		return
	}
	middleware.OK(c, gin.H{"notifications": items})
}

func (h *Handler) markAllRead(c *gin.Context) {
	items, err := h.svc.MarkAllRead(c.Request.Context(), middleware.CurrentUser(c).ID)
	if err != nil {
		middleware.Fail(c, err)
		return
	}
	middleware.OK(c, gin.H{"notifications": items})
}
