package pdfexport

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"resume-builder/internal/profiles"
	"resume-builder/internal/shared/server/middleware"
	"resume-builder/internal/shared/server/respond"
)

// Handler exposes PDF and HTML exports.
type Handler struct {
	Svc      *Service
	Profiles *profiles.Service
}

// NewHandler constructs a Handler.
func NewHandler(svc *Service, profileSvc *profiles.Service) *Handler {
	return &Handler{Svc: svc, Profiles: profileSvc}
}

// RegisterRoutes attaches export routes to the router group.
func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.GET("/profile/pdf", h.resumePDF)
	rg.GET("/profile/html", h.resumeHTML)
	rg.POST("/cover-letters/pdf", h.coverLetterPDF)
}

type coverLetterPDFRequest struct {
	CoverLetter string `json:"coverLetter"`
}

func (h *Handler) resumePDF(c *gin.Context) {
	userID := middleware.UserIDFromContext(c)
	p, err := h.Profiles.Load(c.Request.Context(), userID)
	if err != nil {
		respond.Internal(c, err)
		return
	}
	f, err := h.Svc.ResumePDF(c.Request.Context(), userID, p, c.Query("jobTitle"))
	if err != nil {
		respond.Error(c, http.StatusBadGateway, respond.CodeUpstream, "Failed to generate PDF", nil)
		return
	}
	respond.Attachment(c, f.Name, "application/pdf", f.Data)
}

func (h *Handler) resumeHTML(c *gin.Context) {
	p, err := h.Profiles.Load(c.Request.Context(), middleware.UserIDFromContext(c))
	if err != nil {
		respond.Internal(c, err)
		return
	}
	html, err := RenderResumeHTML(p)
	if err != nil {
		respond.Internal(c, err)
		return
	}
	c.Data(http.StatusOK, "text/html; charset=utf-8", html)
}

func (h *Handler) coverLetterPDF(c *gin.Context) {
	var req coverLetterPDFRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respond.BadRequest(c, "invalid request body")
		return
	}
	f, err := h.Svc.CoverLetterPDF(c.Request.Context(), middleware.UserIDFromContext(c), req.CoverLetter)
	if err != nil {
		if errors.Is(err, ErrEmptyLetter) {
			respond.BadRequest(c, err.Error())
			return
		}
		respond.Error(c, http.StatusBadGateway, respond.CodeUpstream, "Failed to generate cover letter PDF", nil)
		return
	}
	respond.Attachment(c, f.Name, "application/pdf", f.Data)
}
