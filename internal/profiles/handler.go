package profiles

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"resume-builder/internal/shared/server/middleware"
	"resume-builder/internal/shared/server/respond"
)

const maxImportSize = 5 << 20

// Handler exposes profile endpoints.
type Handler struct {
	Svc *Service
}

// NewHandler constructs a Handler.
func NewHandler(svc *Service) *Handler {
	return &Handler{Svc: svc}
}

// RegisterRoutes attaches profile routes to the router group.
func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.GET("/profile", h.get)
	rg.PUT("/profile", h.put)
	rg.DELETE("/profile", h.clear)
	rg.PATCH("/profile/fields", h.patchField)
	rg.GET("/profile/export", h.export)
	rg.POST("/profile/import", h.importProfile)
	rg.GET("/profile/backups", h.listBackups)
	rg.POST("/profile/backups/:timestamp/restore", h.restoreBackup)
	rg.GET("/profile/stats", h.stats)
	rg.GET("/profile/text", h.text)
	rg.POST("/profile/:section", h.addEntry)
	rg.DELETE("/profile/:section/:id", h.removeEntry)
}

func (h *Handler) get(c *gin.Context) {
	p, err := h.Svc.Load(c.Request.Context(), middleware.UserIDFromContext(c))
	if err != nil {
		writeError(c, err)
		return
	}
	respond.OK(c, p)
}

func (h *Handler) put(c *gin.Context) {
	var p ProfileData
	if err := c.ShouldBindJSON(&p); err != nil {
		respond.BadRequest(c, "invalid request body")
		return
	}
	saved, err := h.Svc.Save(c.Request.Context(), middleware.UserIDFromContext(c), p)
	if err != nil {
		writeError(c, err)
		return
	}
	respond.OK(c, saved)
}

func (h *Handler) clear(c *gin.Context) {
	if err := h.Svc.ClearAll(c.Request.Context(), middleware.UserIDFromContext(c)); err != nil {
		writeError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

type patchFieldRequest struct {
	Path  string          `json:"path"`
	Value json.RawMessage `json:"value"`
}

func (h *Handler) patchField(c *gin.Context) {
	var req patchFieldRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respond.BadRequest(c, "invalid request body")
		return
	}
	p, err := h.Svc.PatchField(c.Request.Context(), middleware.UserIDFromContext(c), req.Path, req.Value)
	if err != nil {
		writeError(c, err)
		return
	}
	respond.OK(c, p)
}

func (h *Handler) addEntry(c *gin.Context) {
	section := c.Param("section")
	if !IsSection(section) {
		respond.NotFound(c, "unknown profile section")
		return
	}
	body, err := io.ReadAll(io.LimitReader(c.Request.Body, maxImportSize))
	if err != nil || len(body) == 0 {
		respond.BadRequest(c, "entry body is required")
		return
	}
	p, id, err := h.Svc.AddEntry(c.Request.Context(), middleware.UserIDFromContext(c), section, body)
	if err != nil {
		writeError(c, err)
		return
	}
	respond.JSON(c, http.StatusCreated, gin.H{"id": id, "profile": p})
}

func (h *Handler) removeEntry(c *gin.Context) {
	p, err := h.Svc.RemoveEntry(c.Request.Context(), middleware.UserIDFromContext(c), c.Param("section"), c.Param("id"))
	if err != nil {
		writeError(c, err)
		return
	}
	respond.OK(c, p)
}

func (h *Handler) export(c *gin.Context) {
	name, data, err := h.Svc.Export(c.Request.Context(), middleware.UserIDFromContext(c))
	if err != nil {
		writeError(c, err)
		return
	}
	respond.Attachment(c, name, "application/json; charset=utf-8", data)
}

// importProfile accepts either a multipart "file" field or a raw JSON body.
func (h *Handler) importProfile(c *gin.Context) {
	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, maxImportSize)

	var data []byte
	if fileHeader, err := c.FormFile("file"); err == nil {
		f, err := fileHeader.Open()
		if err != nil {
			respond.BadRequest(c, "Failed to read file")
			return
		}
		defer f.Close()
		if data, err = io.ReadAll(f); err != nil {
			respond.BadRequest(c, "Failed to read file")
			return
		}
	} else {
		raw, err := io.ReadAll(c.Request.Body)
		if err != nil {
			respond.BadRequest(c, "Failed to read file")
			return
		}
		data = raw
	}

	p, err := h.Svc.Import(c.Request.Context(), middleware.UserIDFromContext(c), data)
	if err != nil {
		writeError(c, err)
		return
	}
	respond.OK(c, p)
}

func (h *Handler) listBackups(c *gin.Context) {
	backups, err := h.Svc.ListBackups(c.Request.Context(), middleware.UserIDFromContext(c))
	if err != nil {
		writeError(c, err)
		return
	}
	respond.OK(c, gin.H{"backups": backups})
}

func (h *Handler) restoreBackup(c *gin.Context) {
	ts, err := strconv.ParseInt(c.Param("timestamp"), 10, 64)
	if err != nil {
		respond.BadRequest(c, "timestamp must be unix milliseconds")
		return
	}
	p, err := h.Svc.RestoreBackup(c.Request.Context(), middleware.UserIDFromContext(c), ts)
	if err != nil {
		writeError(c, err)
		return
	}
	respond.OK(c, p)
}

func (h *Handler) stats(c *gin.Context) {
	st, err := h.Svc.Stats(c.Request.Context(), middleware.UserIDFromContext(c))
	if err != nil {
		writeError(c, err)
		return
	}
	respond.OK(c, st)
}

func (h *Handler) text(c *gin.Context) {
	p, err := h.Svc.Load(c.Request.Context(), middleware.UserIDFromContext(c))
	if err != nil {
		writeError(c, err)
		return
	}
	c.String(http.StatusOK, FormatAsText(p))
}

func writeError(c *gin.Context, err error) {
	var verr *ValidationError
	switch {
	case errors.As(err, &verr):
		respond.Validation(c, "invalid profile", verr.Fields)
	case errors.Is(err, ErrInvalidJSON), errors.Is(err, ErrInvalidStructure):
		respond.BadRequest(c, err.Error())
	case errors.Is(err, ErrInvalidInput):
		respond.BadRequest(c, err.Error())
	case errors.Is(err, ErrNotFound):
		respond.NotFound(c, err.Error())
	default:
		respond.Internal(c, err)
	}
}
