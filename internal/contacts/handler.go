package contacts

import (
	"errors"
	"net/http"

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

// RegisterRoutes attaches contact routes to the router group.
func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.GET("/contacts", h.list)
	rg.POST("/contacts", h.create)
	rg.GET("/contacts/companies", h.companies)
	rg.PUT("/contacts/:id", h.update)
	rg.DELETE("/contacts/:id", h.delete)
}

func (h *Handler) list(c *gin.Context) {
	company := c.Query("company")
	userID := middleware.UserIDFromContext(c)
	var (
		list []Contact
		err  error
	)
	if company != "" {
		list, err = h.Svc.ContactsAtCompany(c.Request.Context(), userID, company)
	} else {
		list, err = h.Svc.List(c.Request.Context(), userID)
	}
	if err != nil {
		writeError(c, err)
		return
	}
	respond.OK(c, list)
}

func (h *Handler) create(c *gin.Context) {
	var in Input
	if err := c.ShouldBindJSON(&in); err != nil {
		respond.BadRequest(c, "invalid JSON body")
		return
	}
	contact, err := h.Svc.Create(c.Request.Context(), middleware.UserIDFromContext(c), in)
	if err != nil {
		writeError(c, err)
		return
	}
	respond.JSON(c, http.StatusCreated, contact)
}

func (h *Handler) update(c *gin.Context) {
	var in Input
	if err := c.ShouldBindJSON(&in); err != nil {
		respond.BadRequest(c, "invalid JSON body")
		return
	}
	contact, err := h.Svc.Update(c.Request.Context(), middleware.UserIDFromContext(c), c.Param("id"), in)
	if err != nil {
		writeError(c, err)
		return
	}
	respond.OK(c, contact)
}

func (h *Handler) delete(c *gin.Context) {
	if err := h.Svc.Delete(c.Request.Context(), middleware.UserIDFromContext(c), c.Param("id")); err != nil {
		writeError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *Handler) companies(c *gin.Context) {
	list, err := h.Svc.CompaniesWithConnections(c.Request.Context(), middleware.UserIDFromContext(c))
	if err != nil {
		writeError(c, err)
		return
	}
	respond.OK(c, gin.H{"companies": list})
}

func writeError(c *gin.Context, err error) {
	var verr *ValidationError
	switch {
	case errors.As(err, &verr):
		respond.Validation(c, "invalid contact", verr.Fields)
	case errors.Is(err, ErrNotFound):
		respond.NotFound(c, err.Error())
	default:
		respond.Internal(c, err)
	}
}
