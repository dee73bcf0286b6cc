package analyses

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"resume-builder/internal/profiles"
	"resume-builder/internal/shared/server/middleware"
	"resume-builder/internal/shared/server/respond"
)

// Handler wires HTTP handlers to the analyses service.
type Handler struct {
	Svc      *Service
	Profiles *profiles.Service
}

// NewHandler constructs a Handler.
func NewHandler(svc *Service, profileSvc *profiles.Service) *Handler {
	return &Handler{Svc: svc, Profiles: profileSvc}
}

// RegisterRoutes attaches analysis routes to the router group.
func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.POST("/analyses/improve", h.improve)
	rg.POST("/analyses/ats", h.ats)
	rg.POST("/analyses/compare", h.compare)
	rg.POST("/analyses/section", h.section)
	rg.POST("/analyses/tailor", h.tailor)
	rg.POST("/analyses/parse", h.parse)
	rg.GET("/analyses", h.list)
	rg.GET("/analyses/:id", h.get)
}

// jobRequest is shared by every operation that scores against a job. When
// Profile is omitted the stored profile is used.
type jobRequest struct {
	Profile        *profiles.ProfileData `json:"profile"`
	JobDescription string                `json:"jobDescription"`
	TargetJob      string                `json:"targetJob"`
}

type sectionRequest struct {
	Section   string                `json:"section" binding:"required"`
	Data      json.RawMessage       `json:"data" binding:"required"`
	Profile   *profiles.ProfileData `json:"profile"`
	TargetJob string                `json:"targetJob"`
}

type parseRequest struct {
	Text string `json:"text" binding:"required"`
}

func (h *Handler) improve(c *gin.Context) {
	req, p, ok := h.bindJob(c)
	if !ok {
		return
	}
	out, err := h.Svc.AnalyzeAndImprove(c.Request.Context(), middleware.UserIDFromContext(c), p, req.TargetJob)
	if err != nil {
		RespondError(c, err)
		return
	}
	respond.OK(c, out)
}

func (h *Handler) ats(c *gin.Context) {
	req, p, ok := h.bindJob(c)
	if !ok {
		return
	}
	out, err := h.Svc.AnalyzeDetailed(c.Request.Context(), middleware.UserIDFromContext(c), p, req.JobDescription)
	if err != nil {
		RespondError(c, err)
		return
	}
	respond.OK(c, out)
}

func (h *Handler) compare(c *gin.Context) {
	req, p, ok := h.bindJob(c)
	if !ok {
		return
	}
	out, err := h.Svc.CompareToJob(c.Request.Context(), middleware.UserIDFromContext(c), p, req.JobDescription)
	if err != nil {
		RespondError(c, err)
		return
	}
	respond.OK(c, out)
}

func (h *Handler) section(c *gin.Context) {
	var req sectionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respond.BadRequest(c, "section and data are required")
		return
	}
	p, ok := h.profileFor(c, req.Profile)
	if !ok {
		return
	}
	out, err := h.Svc.ImproveSection(c.Request.Context(), middleware.UserIDFromContext(c), req.Section, req.Data, p, req.TargetJob)
	if err != nil {
		RespondError(c, err)
		return
	}
	respond.OK(c, gin.H{"section": req.Section, "data": out})
}

func (h *Handler) tailor(c *gin.Context) {
	req, p, ok := h.bindJob(c)
	if !ok {
		return
	}
	userID := middleware.UserIDFromContext(c)
	out, err := h.Svc.TailorToJob(c.Request.Context(), userID, p, req.JobDescription)
	if err != nil {
		RespondError(c, err)
		return
	}
	h.maybeSave(c, userID, out, "tailor")
}

func (h *Handler) parse(c *gin.Context) {
	var req parseRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respond.BadRequest(c, "text is required")
		return
	}
	userID := middleware.UserIDFromContext(c)
	out, err := h.Svc.ParseResumeText(c.Request.Context(), userID, req.Text)
	if err != nil {
		RespondError(c, err)
		return
	}
	h.maybeSave(c, userID, out, "parse")
}

func (h *Handler) list(c *gin.Context) {
	limit, offset := 20, 0
	if v, err := strconv.Atoi(c.Query("limit")); err == nil && v > 0 && v <= 100 {
		limit = v
	}
	if v, err := strconv.Atoi(c.Query("offset")); err == nil && v >= 0 {
		offset = v
	}
	items, err := h.Svc.List(c.Request.Context(), middleware.UserIDFromContext(c), limit, offset)
	if err != nil {
		respond.Internal(c, err)
		return
	}
	respond.OK(c, gin.H{"items": items, "limit": limit, "offset": offset})
}

func (h *Handler) get(c *gin.Context) {
	a, err := h.Svc.Get(c.Request.Context(), middleware.UserIDFromContext(c), c.Param("id"))
	if err != nil {
		RespondError(c, err)
		return
	}
	respond.OK(c, a)
}

func (h *Handler) bindJob(c *gin.Context) (jobRequest, profiles.ProfileData, bool) {
	var req jobRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respond.BadRequest(c, "invalid request body")
		return jobRequest{}, profiles.ProfileData{}, false
	}
	p, ok := h.profileFor(c, req.Profile)
	return req, p, ok
}

func (h *Handler) profileFor(c *gin.Context, explicit *profiles.ProfileData) (profiles.ProfileData, bool) {
	if explicit != nil {
		return profiles.Normalize(*explicit), true
	}
	p, err := h.Profiles.Load(c.Request.Context(), middleware.UserIDFromContext(c))
	if err != nil {
		respond.Internal(c, err)
		return profiles.ProfileData{}, false
	}
	return p, true
}

func (h *Handler) maybeSave(c *gin.Context, userID string, p profiles.ProfileData, origin string) {
	RespondProfile(c, h.Profiles, userID, p, origin)
}

// RespondProfile writes a generated profile, storing it first when the
// request carries ?save=true.
func RespondProfile(c *gin.Context, profileSvc *profiles.Service, userID string, p profiles.ProfileData, origin string) {
	if save, _ := strconv.ParseBool(c.Query("save")); !save || profileSvc == nil {
		respond.OK(c, gin.H{"profile": p, "saved": false})
		return
	}
	saved, err := profileSvc.SaveFrom(c.Request.Context(), userID, p, origin)
	if err != nil {
		var verr *profiles.ValidationError
		if errors.As(err, &verr) {
			respond.Validation(c, "generated profile failed validation", verr.Fields)
			return
		}
		respond.Internal(c, err)
		return
	}
	respond.JSON(c, http.StatusOK, gin.H{"profile": saved, "saved": true})
}
