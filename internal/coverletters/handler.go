package coverletters

import (
	"github.com/gin-gonic/gin"

	"resume-builder/internal/analyses"
	"resume-builder/internal/profiles"
	"resume-builder/internal/shared/server/middleware"
	"resume-builder/internal/shared/server/respond"
)

// Handler exposes cover-letter endpoints.
type Handler struct {
	Svc      *Service
	Profiles *profiles.Service
}

// NewHandler constructs a Handler.
func NewHandler(svc *Service, profileSvc *profiles.Service) *Handler {
	return &Handler{Svc: svc, Profiles: profileSvc}
}

// RegisterRoutes attaches cover-letter routes to the router group.
func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.POST("/cover-letters", h.generate)
	rg.POST("/cover-letters/analyze", h.analyze)
	rg.POST("/cover-letters/improve", h.improve)
}

type generateRequest struct {
	Profile        *profiles.ProfileData `json:"profile"`
	JobDescription string                `json:"jobDescription"`
	CompanyName    string                `json:"companyName"`
}

type letterRequest struct {
	Profile        *profiles.ProfileData `json:"profile"`
	CoverLetter    string                `json:"coverLetter"`
	JobDescription string                `json:"jobDescription"`
	Feedback       string                `json:"feedback"`
}

type letterResponse struct {
	CoverLetter string `json:"coverLetter"`
}

func (h *Handler) generate(c *gin.Context) {
	var req generateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respond.BadRequest(c, "invalid request body")
		return
	}
	p, ok := h.profileFor(c, req.Profile)
	if !ok {
		return
	}
	text, err := h.Svc.Generate(c.Request.Context(), middleware.UserIDFromContext(c), p, req.JobDescription, req.CompanyName)
	if err != nil {
		analyses.RespondError(c, err)
		return
	}
	respond.OK(c, letterResponse{CoverLetter: text})
}

func (h *Handler) analyze(c *gin.Context) {
	var req letterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respond.BadRequest(c, "invalid request body")
		return
	}
	p, ok := h.profileFor(c, req.Profile)
	if !ok {
		return
	}
	out, err := h.Svc.Analyze(c.Request.Context(), middleware.UserIDFromContext(c), req.CoverLetter, req.JobDescription, p)
	if err != nil {
		analyses.RespondError(c, err)
		return
	}
	respond.OK(c, out)
}

func (h *Handler) improve(c *gin.Context) {
	var req letterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respond.BadRequest(c, "invalid request body")
		return
	}
	p, ok := h.profileFor(c, req.Profile)
	if !ok {
		return
	}
	text, err := h.Svc.Improve(c.Request.Context(), middleware.UserIDFromContext(c), req.CoverLetter, req.JobDescription, p, req.Feedback)
	if err != nil {
		analyses.RespondError(c, err)
		return
	}
	respond.OK(c, letterResponse{CoverLetter: text})
}

func (h *Handler) profileFor(c *gin.Context, explicit *profiles.ProfileData) (profiles.ProfileData, bool) {
	if explicit != nil {
		return profiles.Normalize(*explicit), true
	}
	if h.Profiles == nil {
		return profiles.Empty(), true
	}
	p, err := h.Profiles.Load(c.Request.Context(), middleware.UserIDFromContext(c))
	if err != nil {
		respond.Internal(c, err)
		return profiles.ProfileData{}, false
	}
	return p, true
}
