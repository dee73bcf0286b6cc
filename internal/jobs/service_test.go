package jobs

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"resume-builder/internal/profiles"
	"resume-builder/internal/shared/server/middleware"
)

type fakeProvider struct {
	name    string
	enabled bool
	jobs    []Job
	err     error
	calls   int
}

func (f *fakeProvider) Name() string  { return f.name }
func (f *fakeProvider) Enabled() bool { return f.enabled }
func (f *fakeProvider) Search(context.Context, string, string) ([]Job, error) {
	f.calls++
	return f.jobs, f.err
}

type memoryCache struct {
	data map[string][]byte
}

func newMemoryCache() *memoryCache { return &memoryCache{data: map[string][]byte{}} }

func (m *memoryCache) Available() bool { return true }

func (m *memoryCache) GetJSON(_ context.Context, key string, out any) (bool, error) {
	b, ok := m.data[key]
	if !ok {
		return false, nil
	}
	return true, json.Unmarshal(b, out)
}

func (m *memoryCache) SetJSON(_ context.Context, key string, value any, _ time.Duration) error {
	b, err := json.Marshal(value)
	if err != nil {
		return err
	}
	m.data[key] = b
	return nil
}

type fakeConnections []string

func (f fakeConnections) CompaniesWithConnections(context.Context, string) ([]string, error) {
	return f, nil
}

func TestSearchMergesCachesAndAnnotates(t *testing.T) {
	remotive := &fakeProvider{name: SourceRemotive, enabled: true, jobs: []Job{{ID: "r1", Title: "Go dev", Company: "Acme"}}}
	theirstack := &fakeProvider{name: SourceTheirStack, enabled: true, jobs: []Job{{ID: "t1", Title: "Go dev", Company: "Beta"}}}
	cache := newMemoryCache()
	svc := &Service{
		Providers:   []Provider{remotive, theirstack},
		Cache:       cache,
		Connections: fakeConnections{" acme "},
	}

	jobs, err := svc.Search(context.Background(), "guest:a", SearchParams{Query: "Go"})
	require.NoError(t, err)
	require.Len(t, jobs, 2)
	assert.Equal(t, "r1", jobs[0].ID)
	assert.True(t, jobs[0].HasConnection)
	assert.False(t, jobs[1].HasConnection)

	_, err = svc.Search(context.Background(), "guest:a", SearchParams{Query: "go"})
	require.NoError(t, err)
	assert.Equal(t, 1, remotive.calls)
	assert.Equal(t, 1, theirstack.calls)
	assert.Len(t, cache.data, 1)

	only, err := svc.Search(context.Background(), "guest:a", SearchParams{Query: "go", Filter: Filter{NetworkOnly: true}})
	require.NoError(t, err)
	require.Len(t, only, 1)
	assert.Equal(t, "Acme", only[0].Company)
}

func TestSearchPartialAndTotalFailure(t *testing.T) {
	ok := &fakeProvider{name: SourceRemotive, enabled: true, jobs: []Job{{ID: "r1"}}}
	bad := &fakeProvider{name: SourceTheirStack, enabled: true, err: errors.New("boom")}
	svc := &Service{Providers: []Provider{ok, bad}}

	jobs, err := svc.Search(context.Background(), "u", SearchParams{Query: "go"})
	require.NoError(t, err)
	assert.Len(t, jobs, 1)

	_, err = svc.Search(context.Background(), "u", SearchParams{Query: "go", Source: "theirstack"})
	assert.True(t, errors.Is(err, ErrUpstream))
}

func TestSearchValidatesInput(t *testing.T) {
	svc := &Service{Providers: []Provider{
		&fakeProvider{name: SourceRemotive, enabled: true},
		&fakeProvider{name: SourceTheirStack, enabled: false},
	}}

	_, err := svc.Search(context.Background(), "u", SearchParams{Query: "  "})
	assert.True(t, errors.Is(err, ErrQueryRequired))

	_, err = svc.Search(context.Background(), "u", SearchParams{Query: "go", Source: "monster"})
	assert.True(t, errors.Is(err, ErrInvalidSource))

	_, err = svc.Search(context.Background(), "u", SearchParams{Query: "go", Source: "theirstack"})
	assert.True(t, errors.Is(err, ErrInvalidSource))
}

func TestRecommendRanksRemotiveResults(t *testing.T) {
	remotive := &fakeProvider{name: SourceRemotive, enabled: true, jobs: []Job{
		{ID: "1", Title: "Chef"},
		{ID: "2", Title: "Backend Engineer", Description: "Go"},
	}}
	theirstack := &fakeProvider{name: SourceTheirStack, enabled: true}
	svc := &Service{Providers: []Provider{remotive, theirstack}}

	out, err := svc.Recommend(context.Background(), "u", matchProfile())
	require.NoError(t, err)
	assert.Equal(t, "Backend Engineer", out.Query)
	require.Len(t, out.Jobs, 2)
	assert.Equal(t, "2", out.Jobs[0].ID)
	assert.Equal(t, 25, *out.Jobs[0].MatchScore)
	assert.Equal(t, 0, theirstack.calls)

	_, err = svc.Recommend(context.Background(), "u", profiles.Empty())
	assert.True(t, errors.Is(err, ErrNoQuery))
}

func TestFetchDescriptionPrefersMainContent(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		_, _ = io.WriteString(w, `<html><head><title>Go Engineer at Acme</title><style>.x{}</style></head>
<body><nav>Home Jobs</nav><main><h1>Go Engineer</h1>
<p>Build   services.</p><script>var tracking = 1;</script></main><footer>(c) Acme</footer></body></html>`)
	}))
	defer srv.Close()

	svc := &Service{}
	text, err := svc.FetchDescription(context.Background(), srv.URL+"/jobs/1")
	require.NoError(t, err)
	assert.Equal(t, "Go Engineer Build services.", text)

	_, err = svc.FetchDescription(context.Background(), "ftp://example.com/file")
	assert.True(t, errors.Is(err, ErrInvalidURL))
}

func TestHandlerRecommendationsNeedsProfile(t *testing.T) {
	gin.SetMode(gin.TestMode)
	svc := &Service{Providers: []Provider{&fakeProvider{name: SourceRemotive, enabled: true}}}
	r := gin.New()
	rg := r.Group("/api/v1")
	rg.Use(middleware.Auth())
	NewHandler(svc, profiles.NewService(profiles.NewMemoryRepo())).RegisterRoutes(rg)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/jobs/recommendations", nil)
	req.Header.Set("X-Guest-Id", "g1")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "add more information to your profile")

	req = httptest.NewRequest(http.MethodGet, "/api/v1/jobs/search?q=go&source=remotive", nil)
	req.Header.Set("X-Guest-Id", "g1")
	w = httptest.NewRecorder()
	r.ServeHTTP(w, req)
	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"jobs":[],"count":0}`, w.Body.String())

	req = httptest.NewRequest(http.MethodPost, "/api/v1/jobs/fetch-description", strings.NewReader(`{}`))
	req.Header.Set("X-Guest-Id", "g1")
	req.Header.Set("Content-Type", "application/json")
	w = httptest.NewRecorder()
	r.ServeHTTP(w, req)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}
