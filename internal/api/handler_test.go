package api

import (
	"bufio"
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
	"github.com/jonboulle/clockwork"
	"github.com/prometheus/client_golang/prometheus/testutil"

	"github.com/mr1hm/go-disaster-hub/internal/catalog"
	"github.com/mr1hm/go-disaster-hub/internal/models"
	"github.com/mr1hm/go-disaster-hub/internal/observability"
	"github.com/mr1hm/go-disaster-hub/internal/repository"
	"github.com/mr1hm/go-disaster-hub/internal/session"
)

// mockRepo implements repository.ReferenceRepository for testing
type mockRepo struct {
	cat *catalog.Catalog
	err error
}

func (m *mockRepo) SaveCatalog(ctx context.Context, cat *catalog.Catalog) error {
	m.cat = cat
	return nil
}

func (m *mockRepo) ListProfiles(ctx context.Context) ([]models.CategoryProfile, error) {
	return m.cat.Profiles[:], m.err
}

func (m *mockRepo) ListTimeSeries(ctx context.Context) ([]models.TimeSeriesPoint, error) {
	return m.cat.TimeSeries, m.err
}

func (m *mockRepo) ListEconomicImpact(ctx context.Context) ([]models.EconomicImpactEntry, error) {
	return m.cat.EconomicImpact, m.err
}

func (m *mockRepo) ListMarkers(ctx context.Context, opts repository.Filter) ([]models.EventMarker, error) {
	if m.err != nil {
		return nil, m.err
	}
	var results []models.EventMarker

	// Apply category filter
	for _, marker := range m.cat.Markers {
		if opts.Category == nil || marker.Category == *opts.Category {
			results = append(results, marker)
		}
	}

	// Apply offset, then limit
	if opts.Offset >= len(results) {
		results = nil
	} else {
		results = results[opts.Offset:]
	}
	if opts.Limit > 0 && len(results) > opts.Limit {
		results = results[:opts.Limit]
	}

	return results, nil
}

type testEnv struct {
	router   *gin.Engine
	repo     *mockRepo
	sessions *session.Registry
	metrics  *observability.Metrics
	clock    *clockwork.FakeClock
}

var testEpoch = time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

func setupTestRouter(t *testing.T) *testEnv {
	t.Helper()
	gin.SetMode(gin.TestMode)

	cat, err := catalog.Default()
	if err != nil {
		t.Fatalf("failed to load catalog: %v", err)
	}
	metrics := observability.NewMetricsForTesting()
	clock := clockwork.NewFakeClockAt(testEpoch)
	sessions, err := session.NewRegistry(8,
		session.WithClock(clock),
		session.WithEvictHook(SessionEnded(metrics)),
	)
	if err != nil {
		t.Fatalf("failed to create registry: %v", err)
	}
	t.Cleanup(sessions.Close)

	env := &testEnv{
		router:   gin.New(),
		repo:     &mockRepo{cat: cat},
		sessions: sessions,
		metrics:  metrics,
		clock:    clock,
	}
	handler := NewHandler(cat, env.repo, sessions, env.metrics)
	handler.RegisterRoutes(env.router)
	return env
}

func (e *testEnv) do(method, path, body string) *httptest.ResponseRecorder {
	var req *http.Request
	if body != "" {
		req, _ = http.NewRequest(method, path, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	} else {
		req, _ = http.NewRequest(method, path, nil)
	}
	w := httptest.NewRecorder()
	e.router.ServeHTTP(w, req)
	return w
}

// envelope mirrors models.Envelope with the content left undecoded.
type envelope struct {
	Kind    models.BundleKind `json:"kind"`
	Page    models.PageID     `json:"page"`
	Content json.RawMessage   `json:"content"`
}

type sessionResponse struct {
	ID        string        `json:"id"`
	Current   models.PageID `json:"current"`
	CreatedAt time.Time     `json:"created_at"`
	LastSeen  time.Time     `json:"last_seen"`
	Streams   int           `json:"streams"`
	Menu      []struct {
		ID       models.PageID `json:"id"`
		Label    string        `json:"label"`
		Selected bool          `json:"selected"`
	} `json:"menu"`
	Bundle envelope `json:"bundle"`
}

func createSession(t *testing.T, e *testEnv) sessionResponse {
	t.Helper()
	w := e.do("POST", "/api/sessions", "")
	if w.Code != http.StatusCreated {
		t.Fatalf("expected status 201, got %d", w.Code)
	}
	var resp sessionResponse
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("failed to parse response: %v", err)
	}
	return resp
}

func TestHealth(t *testing.T) {
	env := setupTestRouter(t)

	w := env.do("GET", "/health", "")

	if w.Code != http.StatusOK {
		t.Errorf("expected status 200, got %d", w.Code)
	}

	var resp map[string]string
	json.Unmarshal(w.Body.Bytes(), &resp)

	if resp["status"] != "ok" {
		t.Errorf("expected status ok, got %s", resp["status"])
	}
}

func TestGetNavigation(t *testing.T) {
	env := setupTestRouter(t)

	w := env.do("GET", "/api/navigation", "")
	if w.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d", w.Code)
	}

	var resp struct {
		Brand string           `json:"brand"`
		Items []models.NavItem `json:"items"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("failed to parse response: %v", err)
	}
	if resp.Brand != "DisasterHub" {
		t.Errorf("expected brand DisasterHub, got %s", resp.Brand)
	}
	if len(resp.Items) != len(models.Pages()) {
		t.Fatalf("expected %d items, got %d", len(models.Pages()), len(resp.Items))
	}
	for i, p := range models.Pages() {
		if resp.Items[i].ID != p {
			t.Errorf("item %d: expected %s, got %s", i, p, resp.Items[i].ID)
		}
	}
}

func TestGetPage(t *testing.T) {
	env := setupTestRouter(t)

	for _, p := range models.Pages() {
		w := env.do("GET", "/api/pages/"+p.String(), "")
		if w.Code != http.StatusOK {
			t.Errorf("%s: expected status 200, got %d", p, w.Code)
			continue
		}
		var resp envelope
		if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
			t.Fatalf("%s: failed to parse response: %v", p, err)
		}
		if resp.Page != p {
			t.Errorf("expected page %s, got %s", p, resp.Page)
		}
	}

	if got := testutil.ToFloat64(env.metrics.Resolutions.WithLabelValues("category")); got != 5 {
		t.Errorf("expected 5 category resolutions, got %v", got)
	}
}

func TestGetPage_Statistics(t *testing.T) {
	env := setupTestRouter(t)

	w := env.do("GET", "/api/pages/statistics", "")

	var resp envelope
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("failed to parse response: %v", err)
	}
	if resp.Kind != models.KindStatistics {
		t.Fatalf("expected statistics bundle, got %s", resp.Kind)
	}

	var stats models.StatisticsBundle
	if err := json.Unmarshal(resp.Content, &stats); err != nil {
		t.Fatalf("failed to parse content: %v", err)
	}
	if stats.Summary.TotalEvents != 58119 {
		t.Errorf("expected 58119 events, got %d", stats.Summary.TotalEvents)
	}
}

func TestGetPage_Unknown(t *testing.T) {
	env := setupTestRouter(t)

	w := env.do("GET", "/api/pages/volcano", "")

	if w.Code != http.StatusNotFound {
		t.Errorf("expected status 404, got %d", w.Code)
	}
}

func TestGetMarkers_ReturnsGeoJSON(t *testing.T) {
	env := setupTestRouter(t)

	w := env.do("GET", "/api/markers", "")

	if w.Code != http.StatusOK {
		t.Errorf("expected status 200, got %d", w.Code)
	}

	// Check content type
	contentType := w.Header().Get("Content-Type")
	if contentType != "application/geo+json" {
		t.Errorf("expected content-type application/geo+json, got %s", contentType)
	}

	// Parse response
	var fc FeatureCollection
	if err := json.Unmarshal(w.Body.Bytes(), &fc); err != nil {
		t.Fatalf("failed to parse response: %v", err)
	}

	if fc.Type != "FeatureCollection" {
		t.Errorf("expected type FeatureCollection, got %s", fc.Type)
	}

	if len(fc.Features) != 8 {
		t.Fatalf("expected 8 features, got %d", len(fc.Features))
	}

	turkey := fc.Features[0]
	if turkey.Properties["name"] != "Turkey earthquake" {
		t.Errorf("unexpected first feature %v", turkey.Properties)
	}
	if turkey.Geometry.Coordinates[0] != 37.0 || turkey.Geometry.Coordinates[1] != 37.0 {
		t.Errorf("unexpected coordinates %v", turkey.Geometry.Coordinates)
	}
}

func TestGetMarkers_TypeFilter(t *testing.T) {
	env := setupTestRouter(t)

	w := env.do("GET", "/api/markers?type=earthquake", "")

	var fc FeatureCollection
	json.Unmarshal(w.Body.Bytes(), &fc)

	if len(fc.Features) != 2 {
		t.Errorf("expected 2 earthquakes, got %d", len(fc.Features))
	}
}

func TestGetMarkers_LimitFilter(t *testing.T) {
	env := setupTestRouter(t)

	w := env.do("GET", "/api/markers?limit=3", "")

	var fc FeatureCollection
	json.Unmarshal(w.Body.Bytes(), &fc)

	if len(fc.Features) != 3 {
		t.Errorf("expected 3 markers, got %d", len(fc.Features))
	}
}

func TestGetMarkers_Offset(t *testing.T) {
	env := setupTestRouter(t)

	w := env.do("GET", "/api/markers?limit=3&offset=1", "")

	var fc FeatureCollection
	json.Unmarshal(w.Body.Bytes(), &fc)

	if len(fc.Features) != 3 {
		t.Fatalf("expected 3 markers, got %d", len(fc.Features))
	}
	if fc.Features[0].Properties["name"] != "Hurricane Idalia" {
		t.Errorf("expected offset to skip the first marker, got %v", fc.Features[0].Properties["name"])
	}

	for _, bad := range []string{"-1", "abc"} {
		w := env.do("GET", "/api/markers?offset="+bad, "")
		if w.Code != http.StatusBadRequest {
			t.Errorf("offset %s: expected status 400, got %d", bad, w.Code)
		}
	}
}

func TestGetMarkers_UnknownType(t *testing.T) {
	env := setupTestRouter(t)

	w := env.do("GET", "/api/markers?type=volcano", "")

	if w.Code != http.StatusBadRequest {
		t.Errorf("expected status 400, got %d", w.Code)
	}
}

func TestGetMarkers_RepositoryError(t *testing.T) {
	env := setupTestRouter(t)
	env.repo.err = errors.New("disk on fire")

	w := env.do("GET", "/api/markers", "")

	if w.Code != http.StatusInternalServerError {
		t.Errorf("expected status 500, got %d", w.Code)
	}
}

func TestCreateSession(t *testing.T) {
	env := setupTestRouter(t)

	resp := createSession(t, env)

	if resp.ID == "" {
		t.Error("expected session id")
	}
	if resp.Current != models.PageHome {
		t.Errorf("expected home, got %s", resp.Current)
	}
	if resp.Bundle.Kind != models.KindHome {
		t.Errorf("expected home bundle, got %s", resp.Bundle.Kind)
	}
	if len(resp.Menu) != 10 || !resp.Menu[0].Selected {
		t.Errorf("expected home selected in menu, got %+v", resp.Menu)
	}
	if got := testutil.ToFloat64(env.metrics.ActiveSessions); got != 1 {
		t.Errorf("expected 1 active session, got %v", got)
	}
	if !resp.CreatedAt.Equal(testEpoch) || !resp.LastSeen.Equal(testEpoch) {
		t.Errorf("expected timestamps at %v, got created %v, last seen %v", testEpoch, resp.CreatedAt, resp.LastSeen)
	}
	if resp.Streams != 0 {
		t.Errorf("expected no open streams, got %d", resp.Streams)
	}
}

func TestGetSession_TracksLastSeen(t *testing.T) {
	env := setupTestRouter(t)
	created := createSession(t, env)

	env.clock.Advance(5 * time.Minute)
	w := env.do("GET", "/api/sessions/"+created.ID, "")

	var resp sessionResponse
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("failed to parse response: %v", err)
	}
	if !resp.CreatedAt.Equal(testEpoch) {
		t.Errorf("expected created_at %v, got %v", testEpoch, resp.CreatedAt)
	}
	if want := testEpoch.Add(5 * time.Minute); !resp.LastSeen.Equal(want) {
		t.Errorf("expected last_seen %v, got %v", want, resp.LastSeen)
	}
}

func TestActiveSessions_FollowsEviction(t *testing.T) {
	env := setupTestRouter(t)

	var first sessionResponse
	for i := 0; i < 9; i++ {
		resp := createSession(t, env)
		if i == 0 {
			first = resp
		}
	}

	// The registry holds 8, so the first session was evicted.
	if got := testutil.ToFloat64(env.metrics.ActiveSessions); got != 8 {
		t.Errorf("expected 8 active sessions, got %v", got)
	}
	if w := env.do("GET", "/api/sessions/"+first.ID, ""); w.Code != http.StatusNotFound {
		t.Errorf("expected evicted session to be gone, got %d", w.Code)
	}
}

func TestNavigate(t *testing.T) {
	env := setupTestRouter(t)
	created := createSession(t, env)

	w := env.do("POST", "/api/sessions/"+created.ID+"/navigate", `{"page":"earthquake"}`)
	if w.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d: %s", w.Code, w.Body.String())
	}

	var resp sessionResponse
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("failed to parse response: %v", err)
	}
	if resp.Current != models.PageEarthquake {
		t.Errorf("expected earthquake, got %s", resp.Current)
	}

	selected := 0
	for _, entry := range resp.Menu {
		if entry.Selected {
			selected++
			if entry.ID != models.PageEarthquake {
				t.Errorf("expected earthquake selected, got %s", entry.ID)
			}
		}
	}
	if selected != 1 {
		t.Errorf("expected exactly one selected entry, got %d", selected)
	}

	var bundle models.CategoryBundle
	if err := json.Unmarshal(resp.Bundle.Content, &bundle); err != nil {
		t.Fatalf("failed to parse bundle: %v", err)
	}
	if bundle.Title != "Earthquakes" || len(bundle.Stats) != 4 {
		t.Errorf("unexpected bundle %+v", bundle)
	}

	// The session remembers the page.
	w = env.do("GET", "/api/sessions/"+created.ID, "")
	json.Unmarshal(w.Body.Bytes(), &resp)
	if resp.Current != models.PageEarthquake {
		t.Errorf("expected session to stay on earthquake, got %s", resp.Current)
	}

	if got := testutil.ToFloat64(env.metrics.Navigations.WithLabelValues("earthquake")); got != 1 {
		t.Errorf("expected 1 navigation, got %v", got)
	}
}

func TestNavigate_Errors(t *testing.T) {
	env := setupTestRouter(t)
	created := createSession(t, env)

	tests := []struct {
		name string
		id   string
		body string
		want int
	}{
		{"unknown page", created.ID, `{"page":"volcano"}`, http.StatusBadRequest},
		{"missing page", created.ID, `{}`, http.StatusBadRequest},
		{"malformed body", created.ID, `{"page":`, http.StatusBadRequest},
		{"missing session", "nope", `{"page":"flood"}`, http.StatusNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := env.do("POST", "/api/sessions/"+tt.id+"/navigate", tt.body)
			if w.Code != tt.want {
				t.Errorf("expected status %d, got %d", tt.want, w.Code)
			}
		})
	}

	// A rejected navigation leaves the session where it was.
	s, _ := env.sessions.Get(created.ID)
	if s.Current() != models.PageHome {
		t.Errorf("expected home after rejected navigation, got %s", s.Current())
	}
}

func TestDeleteSession(t *testing.T) {
	env := setupTestRouter(t)
	created := createSession(t, env)

	w := env.do("DELETE", "/api/sessions/"+created.ID, "")
	if w.Code != http.StatusNoContent {
		t.Errorf("expected status 204, got %d", w.Code)
	}

	w = env.do("GET", "/api/sessions/"+created.ID, "")
	if w.Code != http.StatusNotFound {
		t.Errorf("expected status 404, got %d", w.Code)
	}

	w = env.do("DELETE", "/api/sessions/"+created.ID, "")
	if w.Code != http.StatusNotFound {
		t.Errorf("expected status 404 on second delete, got %d", w.Code)
	}

	if got := testutil.ToFloat64(env.metrics.ActiveSessions); got != 0 {
		t.Errorf("expected 0 active sessions, got %v", got)
	}
}

func TestSessionEvents(t *testing.T) {
	env := setupTestRouter(t)
	srv := httptest.NewServer(env.router)
	defer srv.Close()

	created := createSession(t, env)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	req, _ := http.NewRequestWithContext(ctx, "GET", srv.URL+"/api/sessions/"+created.ID+"/events", nil)
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatalf("failed to open stream: %v", err)
	}
	defer resp.Body.Close()

	if ct := resp.Header.Get("Content-Type"); !strings.HasPrefix(ct, "text/event-stream") {
		t.Errorf("expected event stream, got %s", ct)
	}

	reader := bufio.NewReader(resp.Body)
	event, data := readEvent(t, reader)
	if event != "page" || !strings.Contains(data, `"home"`) {
		t.Fatalf("unexpected first event %s: %s", event, data)
	}

	var view sessionResponse
	json.Unmarshal(env.do("GET", "/api/sessions/"+created.ID, "").Body.Bytes(), &view)
	if view.Streams != 1 {
		t.Errorf("expected 1 open stream, got %d", view.Streams)
	}

	nav, err := http.Post(srv.URL+"/api/sessions/"+created.ID+"/navigate", "application/json",
		bytes.NewBufferString(`{"page":"wildfire"}`))
	if err != nil {
		t.Fatalf("navigate failed: %v", err)
	}
	nav.Body.Close()

	event, data = readEvent(t, reader)
	if event != "navigate" {
		t.Fatalf("expected navigate event, got %s", event)
	}

	var change struct {
		From models.PageID `json:"from"`
		To   models.PageID `json:"to"`
	}
	if err := json.Unmarshal([]byte(data), &change); err != nil {
		t.Fatalf("failed to parse change %q: %v", data, err)
	}
	if change.From != models.PageHome || change.To != models.PageWildfire {
		t.Errorf("unexpected change %+v", change)
	}
}

func TestSessionEvents_MissingSession(t *testing.T) {
	env := setupTestRouter(t)

	w := env.do("GET", "/api/sessions/nope/events", "")

	if w.Code != http.StatusNotFound {
		t.Errorf("expected status 404, got %d", w.Code)
	}
}

func TestRateLimitMiddleware(t *testing.T) {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	router.Use(RateLimitMiddleware(0.001))
	router.GET("/ping", func(c *gin.Context) { c.String(http.StatusOK, "pong") })

	first := httptest.NewRecorder()
	router.ServeHTTP(first, httptest.NewRequest("GET", "/ping", nil))
	if first.Code != http.StatusOK {
		t.Errorf("expected first request to pass, got %d", first.Code)
	}

	second := httptest.NewRecorder()
	router.ServeHTTP(second, httptest.NewRequest("GET", "/ping", nil))
	if second.Code != http.StatusTooManyRequests {
		t.Errorf("expected status 429, got %d", second.Code)
	}
}

// readEvent reads one server-sent event and returns its name and data.
func readEvent(t *testing.T, r *bufio.Reader) (event, data string) {
	t.Helper()
	for {
		line, err := r.ReadString('\n')
		if err != nil {
			t.Fatalf("stream ended: %v", err)
		}
		line = strings.TrimRight(line, "\r\n")
		switch {
		case line == "":
			if event != "" || data != "" {
				return event, data
			}
		case strings.HasPrefix(line, "event:"):
			event = strings.TrimSpace(strings.TrimPrefix(line, "event:"))
		case strings.HasPrefix(line, "data:"):
			data += strings.TrimSpace(strings.TrimPrefix(line, "data:"))
		}
	}
}
