package documents

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"resume-builder/internal/analyses"
	"resume-builder/internal/extract"
	"resume-builder/internal/profiles"
	"resume-builder/internal/shared/server/middleware"
	"resume-builder/internal/shared/server/respond"
)

const maxUploadSize = extract.MaxFileSize + 1<<20

// Handler wires HTTP handlers to the service.
type Handler struct {
	Svc      *Service
	Profiles *profiles.Service
}

// NewHandler constructs a Handler.
func NewHandler(svc *Service, profileSvc *profiles.Service) *Handler {
	return &Handler{Svc: svc, Profiles: profileSvc}
}

// RegisterRoutes attaches document routes to the router group.
func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.POST("/documents", h.upload)
	rg.GET("/documents", h.list)
	rg.GET("/documents/current", h.current)
	rg.POST("/documents/:id/parse", h.parse)
}

func (h *Handler) upload(c *gin.Context) {
	userID := middleware.UserIDFromContext(c)
	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, maxUploadSize)

	fileHeader, err := c.FormFile("file")
	if err != nil {
		respond.BadRequest(c, "file is required")
		return
	}
	if fileHeader.Size > extract.MaxFileSize {
		respond.Error(c, http.StatusRequestEntityTooLarge, respond.CodeValidation, ErrTooLarge.Error(), nil)
		return
	}

	file, err := fileHeader.Open()
	if err != nil {
		respond.BadRequest(c, "unable to read file")
		return
	}
	defer file.Close()

	doc, err := h.Svc.Upload(c.Request.Context(), userID, fileHeader.Filename, file)
	if err != nil {
		writeError(c, err)
		return
	}
	respond.JSON(c, http.StatusCreated, toResponse(doc))
}

func (h *Handler) current(c *gin.Context) {
	doc, err := h.Svc.Current(c.Request.Context(), middleware.UserIDFromContext(c))
	if err != nil {
		writeError(c, err)
		return
	}
	respond.OK(c, toResponse(doc))
}

func (h *Handler) list(c *gin.Context) {
	limit, offset := 20, 0
	if v, err := strconv.Atoi(c.Query("limit")); err == nil && v > 0 {
		limit = min(v, 50)
	}
	if v, err := strconv.Atoi(c.Query("offset")); err == nil && v > 0 {
		offset = v
	}

	docs, err := h.Svc.List(c.Request.Context(), middleware.UserIDFromContext(c), limit, offset)
	if err != nil {
		writeError(c, err)
		return
	}
	resp := make([]DocumentResponse, 0, len(docs))
	for _, doc := range docs {
		resp = append(resp, toResponse(doc))
	}
	respond.OK(c, resp)
}

func (h *Handler) parse(c *gin.Context) {
	userID := middleware.UserIDFromContext(c)
	p, err := h.Svc.Parse(c.Request.Context(), userID, c.Param("id"))
	if err != nil {
		writeError(c, err)
		return
	}
	analyses.RespondProfile(c, h.Profiles, userID, p, "document")
}

func writeError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, ErrNotFound):
		respond.NotFound(c, "document not found")
	case errors.Is(err, ErrTooLarge):
		respond.Error(c, http.StatusRequestEntityTooLarge, respond.CodeValidation, err.Error(), nil)
	case errors.Is(err, ErrInvalidInput):
		respond.BadRequest(c, err.Error())
	case errors.Is(err, ErrUnreadable):
		respond.Error(c, http.StatusUnprocessableEntity, respond.CodeValidation, ErrUnreadable.Error(), nil)
	default:
		analyses.RespondError(c, err)
	}
}
