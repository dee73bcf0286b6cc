package applications

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"resume-builder/internal/jobs"
	"resume-builder/internal/shared/server/middleware"
)

type tick struct{ t time.Time }

func (c *tick) now() time.Time {
	c.t = c.t.Add(time.Minute)
	return c.t
}

func newTestService() *Service {
	clock := &tick{t: time.Date(2026, 5, 1, 9, 0, 0, 0, time.UTC)}
	svc := NewService(NewMemoryRepo())
	svc.Now = clock.now
	return svc
}

func TestCreateDefaultsAndValidation(t *testing.T) {
	svc := newTestService()
	ctx := context.Background()

	a, err := svc.Create(ctx, "guest:a", Input{Company: "Acme", Position: "Engineer"})
	require.NoError(t, err)
	assert.Equal(t, StatusApplied, a.Status)
	assert.Equal(t, "2026-05-01", a.DateApplied)

	_, err = svc.Create(ctx, "guest:a", Input{Company: "Acme", Position: "Engineer", Status: "ghosted", DateApplied: "May 1"})
	var verr *ValidationError
	require.True(t, errors.As(err, &verr), "got %v", err)
	rules := map[string]string{}
	for _, f := range verr.Fields {
		rules[f.Field] = f.Rule
	}
	assert.Equal(t, "oneof", rules["status"])
	assert.Equal(t, "iso_date", rules["dateApplied"])
}

func TestListNewestFirst(t *testing.T) {
	svc := newTestService()
	ctx := context.Background()
	for _, company := range []string{"First", "Second", "Third"} {
		_, err := svc.Create(ctx, "guest:a", Input{Company: company, Position: "Engineer"})
		require.NoError(t, err)
	}
	list, err := svc.List(ctx, "guest:a")
	require.NoError(t, err)
	require.Len(t, list, 3)
	assert.Equal(t, "Third", list[0].Company)
	assert.Equal(t, "First", list[2].Company)
}

func TestAddFromJob(t *testing.T) {
	svc := newTestService()
	ctx := context.Background()
	job := jobs.Job{
		Title:       "Go Engineer",
		Company:     "Acme",
		Location:    "Remote",
		Salary:      "$120k",
		URL:         "https://jobs.example.com/1",
		Description: strings.Repeat("a", 250),
		Source:      "Remotive",
	}

	a, err := svc.AddFromJob(ctx, "guest:a", job)
	require.NoError(t, err)
	assert.Equal(t, StatusPending, a.Status)
	assert.Equal(t, "Go Engineer", a.Position)
	assert.Equal(t, strings.Repeat("a", 200)+"...", a.Notes)
	assert.Equal(t, "2026-05-01", a.DateApplied)

	job.Company = "ACME"
	job.Title = "go engineer"
	_, err = svc.AddFromJob(ctx, "guest:a", job)
	assert.True(t, errors.Is(err, ErrDuplicate))

	short, err := svc.AddFromJob(ctx, "guest:a", jobs.Job{Title: "SRE", Company: "Globex", URL: "#", Description: "Short"})
	require.NoError(t, err)
	assert.Equal(t, "Short...", short.Notes)
	assert.Empty(t, short.JobURL)
}

func TestStatsCountsEveryStatus(t *testing.T) {
	svc := newTestService()
	ctx := context.Background()
	_, err := svc.Create(ctx, "guest:a", Input{Company: "A", Position: "P", Status: "interview"})
	require.NoError(t, err)
	_, err = svc.Create(ctx, "guest:a", Input{Company: "B", Position: "P"})
	require.NoError(t, err)
	_, err = svc.AddFromJob(ctx, "guest:a", jobs.Job{Title: "P", Company: "C"})
	require.NoError(t, err)

	st, err := svc.Stats(ctx, "guest:a")
	require.NoError(t, err)
	assert.Equal(t, 3, st.Total)
	assert.Equal(t, map[string]int{
		"pending": 1, "applied": 1, "interview": 1, "offer": 0, "rejected": 0, "withdrawn": 0,
	}, st.ByStatus)
}

func TestUpdateClearsReferralWhenUnset(t *testing.T) {
	svc := newTestService()
	ctx := context.Background()
	a, err := svc.Create(ctx, "guest:a", Input{Company: "A", Position: "P", HasReferral: true, ReferralName: "Ada"})
	require.NoError(t, err)
	assert.Equal(t, "Ada", a.ReferralName)

	updated, err := svc.Update(ctx, "guest:a", a.ID, Input{Company: "A", Position: "P", Status: "offer", ReferralName: "Ada"})
	require.NoError(t, err)
	assert.Equal(t, StatusOffer, updated.Status)
	assert.Empty(t, updated.ReferralName)
	assert.Equal(t, a.DateApplied, updated.DateApplied)
	assert.True(t, updated.UpdatedAt.After(a.UpdatedAt))
}

func TestHandlerRoutes(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	rg := r.Group("/api/v1")
	rg.Use(middleware.Auth())
	NewHandler(newTestService()).RegisterRoutes(rg)

	do := func(method, path, body string) *httptest.ResponseRecorder {
		req := httptest.NewRequest(method, path, bytes.NewBufferString(body))
		req.Header.Set("Content-Type", "application/json")
		req.Header.Set("X-Guest-Id", "g1")
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)
		return w
	}

	w := do(http.MethodPost, "/api/v1/applications", `{"company":"Acme","position":"Engineer","dateApplied":"2026-04-30"}`)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	var created Application
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &created))

	w = do(http.MethodPost, "/api/v1/applications/from-job", `{"title":"Engineer","company":"acme","description":"x"}`)
	assert.Equal(t, http.StatusConflict, w.Code)
	assert.Contains(t, w.Body.String(), `"code":"conflict"`)

	w = do(http.MethodPost, "/api/v1/applications/from-job", `{"title":"SRE","company":"Globex","description":"x"}`)
	require.Equal(t, http.StatusCreated, w.Code)
	assert.Contains(t, w.Body.String(), `"status":"pending"`)

	w = do(http.MethodGet, "/api/v1/applications?status=pending", "")
	require.Equal(t, http.StatusOK, w.Code)
	var pending []Application
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &pending))
	require.Len(t, pending, 1)
	assert.Equal(t, "Globex", pending[0].Company)

	w = do(http.MethodGet, "/api/v1/applications/stats", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"total":2`)

	w = do(http.MethodPut, "/api/v1/applications/"+created.ID, `{"company":"Acme","position":"Engineer","status":"interview"}`)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"status":"interview"`)

	w = do(http.MethodDelete, "/api/v1/applications/"+created.ID, "")
	assert.Equal(t, http.StatusNoContent, w.Code)
	w = do(http.MethodPut, "/api/v1/applications/"+created.ID, `{"company":"Acme","position":"Engineer"}`)
	assert.Equal(t, http.StatusNotFound, w.Code)
}
