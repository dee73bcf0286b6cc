package jobs

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"resume-builder/internal/profiles"
	"resume-builder/internal/shared/server/middleware"
	"resume-builder/internal/shared/server/respond"
)

// Handler exposes job search endpoints.
type Handler struct {
	Svc      *Service
	Profiles *profiles.Service
}

// NewHandler constructs a Handler.
func NewHandler(svc *Service, profileSvc *profiles.Service) *Handler {
	return &Handler{Svc: svc, Profiles: profileSvc}
}

// RegisterRoutes attaches job routes to the router group.
func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.GET("/jobs/search", h.search)
	rg.GET("/jobs/recommendations", h.recommendations)
	rg.POST("/jobs/fetch-description", h.fetchDescription)
}

func (h *Handler) search(c *gin.Context) {
	network, _ := strconv.ParseBool(c.Query("network"))
	params := SearchParams{
		Query:    c.Query("q"),
		Location: c.Query("location"),
		Source:   c.DefaultQuery("source", SourceAll),
		Filter: Filter{
			Title:       c.Query("title"),
			Company:     c.Query("company"),
			Location:    c.Query("locationFilter"),
			NetworkOnly: network,
			Salary:      c.Query("salary"),
			Posted:      c.Query("posted"),
		},
	}
	results, err := h.Svc.Search(c.Request.Context(), middleware.UserIDFromContext(c), params)
	if err != nil {
		writeError(c, err)
		return
	}
	respond.OK(c, gin.H{"jobs": results, "count": len(results)})
}

func (h *Handler) recommendations(c *gin.Context) {
	userID := middleware.UserIDFromContext(c)
	p, err := h.Profiles.Load(c.Request.Context(), userID)
	if err != nil {
		respond.Internal(c, err)
		return
	}
	out, err := h.Svc.Recommend(c.Request.Context(), userID, p)
	if err != nil {
		writeError(c, err)
		return
	}
	respond.OK(c, out)
}

type fetchDescriptionRequest struct {
	URL string `json:"url" binding:"required"`
}

func (h *Handler) fetchDescription(c *gin.Context) {
	var req fetchDescriptionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respond.BadRequest(c, "url is required")
		return
	}
	text, err := h.Svc.FetchDescription(c.Request.Context(), req.URL)
	if err != nil {
		writeError(c, err)
		return
	}
	respond.OK(c, gin.H{"url": req.URL, "description": text})
}

func writeError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, ErrNoQuery):
		respond.Error(c, http.StatusBadRequest, respond.CodeValidation,
			"Unable to generate recommendations. Please add more information to your profile.", nil)
	case errors.Is(err, ErrQueryRequired), errors.Is(err, ErrInvalidSource), errors.Is(err, ErrInvalidURL):
		respond.BadRequest(c, err.Error())
	default:
		respond.Error(c, http.StatusBadGateway, respond.CodeUpstream, "Failed to fetch jobs. Please try again.", nil)
	}
}
