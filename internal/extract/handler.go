package extract

import (
	"errors"
	"io"
	"net/http"

	"github.com/gin-gonic/gin"

	"resume-builder/internal/shared/server/respond"
	"resume-builder/internal/shared/telemetry"
)

// Handler exposes stateless text extraction.
type Handler struct{}

// NewHandler constructs a Handler.
func NewHandler() *Handler {
	return &Handler{}
}

// RegisterRoutes attaches the extraction route to the router group.
func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.POST("/extract", h.extract)
}

func (h *Handler) extract(c *gin.Context) {
	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, MaxFileSize+1<<20)
	fh, err := c.FormFile("file")
	if err != nil {
		respond.BadRequest(c, "file is required")
		return
	}
	if fh.Size > MaxFileSize {
		respond.Error(c, http.StatusRequestEntityTooLarge, respond.CodeValidation, "file exceeds 10MB limit", nil)
		return
	}
	f, err := fh.Open()
	if err != nil {
		respond.Internal(c, err)
		return
	}
	defer f.Close()

	data, err := io.ReadAll(f)
	if err != nil {
		respond.Internal(c, err)
		return
	}

	res, err := Extract(c.Request.Context(), data, fh.Header.Get("Content-Type"), fh.Filename)
	if err != nil {
		if errors.Is(err, ErrUnsupported) {
			respond.Error(c, http.StatusUnsupportedMediaType, respond.CodeValidation, "only PDF, DOCX and text files are supported", nil)
			return
		}
		telemetry.Warn("extract.failed", map[string]any{"file_name": fh.Filename, "error": err})
		respond.Error(c, http.StatusUnprocessableEntity, respond.CodeValidation, "could not read text from file", nil)
		return
	}
	telemetry.Info("extract.ok", map[string]any{
		"file_name":  fh.Filename,
		"page_count": res.PageCount,
		"chars":      len(res.Text),
	})
	respond.OK(c, res)
}
