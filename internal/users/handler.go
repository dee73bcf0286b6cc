package users

import (
	"errors"

	"github.com/gin-gonic/gin"

	"resume-builder/internal/shared/server/middleware"
	"resume-builder/internal/shared/server/respond"
)

type Handler struct {
	Svc *Service
}

func NewHandler(svc *Service) *Handler {
	return &Handler{Svc: svc}
}

func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.GET("/me", h.me)
}

// me describes the caller. Guests get their principal back; signed-in users get
// the stored account, falling back to token claims when no row exists yet.
func (h *Handler) me(c *gin.Context) {
	userID := middleware.UserIDFromContext(c)
	if middleware.IsGuest(c) {
		respond.OK(c, gin.H{"userId": userID, "guest": true})
		return
	}

	resp := gin.H{
		"userId":  userID,
		"guest":   false,
		"email":   middleware.UserEmailFromContext(c),
		"name":    middleware.UserNameFromContext(c),
		"picture": middleware.UserPictureFromContext(c),
	}
	user, err := h.Svc.GetByID(c.Request.Context(), userID)
	switch {
	case err == nil:
		resp["email"] = user.Email
		resp["name"] = user.FullName
		resp["picture"] = user.PictureURL
		resp["createdAt"] = user.CreatedAt
	case !errors.Is(err, ErrNotFound):
		respond.Internal(c, err)
		return
	}
	respond.OK(c, resp)
}
