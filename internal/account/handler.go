package account

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"resume-builder/internal/shared/server/middleware"
	"resume-builder/internal/shared/server/respond"
	"resume-builder/internal/shared/validation"
)

type Handler struct {
	Svc *Service
}

func NewHandler(svc *Service) *Handler {
	return &Handler{Svc: svc}
}

func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.POST("/account/claim-guest", h.claimGuest)
}

func (h *Handler) claimGuest(c *gin.Context) {
	authedUserID := strings.TrimSpace(middleware.UserIDFromContext(c))
	if authedUserID == "" || middleware.IsGuest(c) {
		respond.Error(c, http.StatusUnauthorized, respond.CodeUnauthorized, "login required", nil)
		return
	}

	guestID := strings.TrimSpace(c.GetHeader("X-Guest-Id"))
	if guestID == "" {
		respond.Validation(c, "missing X-Guest-Id header", []validation.FieldError{{Field: "X-Guest-Id", Rule: "required"}})
		return
	}
	if _, err := uuid.Parse(guestID); err != nil {
		respond.Validation(c, "invalid guest id", []validation.FieldError{{Field: "X-Guest-Id", Rule: "uuid"}})
		return
	}

	result, err := h.Svc.ClaimGuest(c.Request.Context(), "guest:"+guestID, authedUserID)
	if err != nil {
		respond.Internal(c, err)
		return
	}
	respond.OK(c, result)
}
