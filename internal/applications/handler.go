package applications

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"resume-builder/internal/jobs"
	"resume-builder/internal/shared/server/middleware"
	"resume-builder/internal/shared/server/respond"
)

type Handler struct {
	Svc *Service
}

func NewHandler(svc *Service) *Handler {
	return &Handler{Svc: svc}
}

// RegisterRoutes attaches application tracker routes to the router group.
func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.GET("/applications", h.list)
	rg.POST("/applications", h.create)
	rg.POST("/applications/from-job", h.fromJob)
	rg.GET("/applications/stats", h.stats)
	rg.PUT("/applications/:id", h.update)
	rg.DELETE("/applications/:id", h.delete)
}

func (h *Handler) list(c *gin.Context) {
	list, err := h.Svc.List(c.Request.Context(), middleware.UserIDFromContext(c))
	if err != nil {
		writeError(c, err)
		return
	}
	if status := c.Query("status"); status != "" {
		filtered := make([]Application, 0, len(list))
		for _, a := range list {
			if a.Status == status {
				filtered = append(filtered, a)
			}
		}
		list = filtered
	}
	respond.OK(c, list)
}

func (h *Handler) create(c *gin.Context) {
	var in Input
	if err := c.ShouldBindJSON(&in); err != nil {
		respond.BadRequest(c, "invalid JSON body")
		return
	}
	a, err := h.Svc.Create(c.Request.Context(), middleware.UserIDFromContext(c), in)
	if err != nil {
		writeError(c, err)
		return
	}
	respond.JSON(c, http.StatusCreated, a)
}

func (h *Handler) update(c *gin.Context) {
	var in Input
	if err := c.ShouldBindJSON(&in); err != nil {
		respond.BadRequest(c, "invalid JSON body")
		return
	}
	a, err := h.Svc.Update(c.Request.Context(), middleware.UserIDFromContext(c), c.Param("id"), in)
	if err != nil {
		writeError(c, err)
		return
	}
	respond.OK(c, a)
}

func (h *Handler) delete(c *gin.Context) {
	if err := h.Svc.Delete(c.Request.Context(), middleware.UserIDFromContext(c), c.Param("id")); err != nil {
		writeError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *Handler) fromJob(c *gin.Context) {
	var job jobs.Job
	if err := c.ShouldBindJSON(&job); err != nil {
		respond.BadRequest(c, "invalid JSON body")
		return
	}
	a, err := h.Svc.AddFromJob(c.Request.Context(), middleware.UserIDFromContext(c), job)
	if err != nil {
		writeError(c, err)
		return
	}
	respond.JSON(c, http.StatusCreated, a)
}

func (h *Handler) stats(c *gin.Context) {
	st, err := h.Svc.Stats(c.Request.Context(), middleware.UserIDFromContext(c))
	if err != nil {
		writeError(c, err)
		return
	}
	respond.OK(c, st)
}

func writeError(c *gin.Context, err error) {
	var verr *ValidationError
	switch {
	case errors.As(err, &verr):
		respond.Validation(c, "invalid application", verr.Fields)
	case errors.Is(err, ErrDuplicate):
		respond.Error(c, http.StatusConflict, respond.CodeConflict, err.Error(), nil)
	case errors.Is(err, ErrNotFound):
		respond.NotFound(c, err.Error())
	default:
		respond.Internal(c, err)
	}
}
