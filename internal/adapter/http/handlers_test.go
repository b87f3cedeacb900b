package adapthttp_test

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
	"time"

	adapthttp "bodymetrics/internal/adapter/http"
	"bodymetrics/internal/adapter/memory"
	"bodymetrics/internal/app"
	"bodymetrics/internal/domain"
)

// ---------------------------------------------------------------------------
// Mock repositories (function-fields pattern)
// ---------------------------------------------------------------------------

type mockWeightRepo struct {
	addFn    func(ctx context.Context, rec domain.WeightRecord) (int64, error)
	deleteFn func(ctx context.Context, userID int64) (bool, error)
	latestFn func(ctx context.Context, userID int64, localDay string) (*domain.WeightRecord, error)
	recentFn func(ctx context.Context, userID int64, limit int) ([]domain.WeightRecord, error)
	listFn   func(ctx context.Context, userID int64) ([]domain.WeightRecord, error)
}

func (m *mockWeightRepo) AddWeight(ctx context.Context, rec domain.WeightRecord) (int64, error) {
	if m.addFn != nil {
		return m.addFn(ctx, rec)
	}
	return 1, nil
}

func (m *mockWeightRepo) DeleteLatestWeight(ctx context.Context, userID int64) (bool, error) {
	if m.deleteFn != nil {
		return m.deleteFn(ctx, userID)
	}
	return true, nil
}

func (m *mockWeightRepo) LatestWeightForLocalDay(ctx context.Context, userID int64, localDay string) (*domain.WeightRecord, error) {
	if m.latestFn != nil {
		return m.latestFn(ctx, userID, localDay)
	}
	return &domain.WeightRecord{ID: 1, UserID: userID, ValueKg: 80.0, Date: time.Now()}, nil
}

func (m *mockWeightRepo) ListRecentWeights(ctx context.Context, userID int64, limit int) ([]domain.WeightRecord, error) {
	if m.recentFn != nil {
		return m.recentFn(ctx, userID, limit)
	}
	return []domain.WeightRecord{{ID: 1, UserID: userID, ValueKg: 80.0, Date: time.Now()}}, nil
}

func (m *mockWeightRepo) ListWeights(ctx context.Context, userID int64) ([]domain.WeightRecord, error) {
	if m.listFn != nil {
		return m.listFn(ctx, userID)
	}
	return nil, nil
}

// ---------------------------------------------------------------------------
// Test-server helper
// ---------------------------------------------------------------------------

type testEnv struct {
	db      *memory.DB
	weights domain.WeightRepository
	auth    bool
}

func newTestServer(t *testing.T, env testEnv) *httptest.Server {
	t.Helper()

	if env.db == nil {
		env.db = memory.New()
	}
	if env.weights == nil {
		env.weights = env.db
	}
	db := env.db

	svc := adapthttp.Services{
		Auth:          app.NewAuthService(db, db.NewSessionRepo()),
		Weight:        app.NewWeightService(env.weights),
		Measurements:  app.NewMeasurementService(db),
		BloodPressure: app.NewBloodPressureService(db),
		Profile:       app.NewProfileService(db),
		Insights:      app.NewInsightsService(env.weights, db, db, db),
	}

	webDir := t.TempDir()
	if err := os.WriteFile(filepath.Join(webDir, "index.html"), []byte("<html></html>"), 0o600); err != nil {
		t.Fatal(err)
	}

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	srv := adapthttp.New(svc, webDir, adapthttp.WithLogger(logger))
	if !env.auth {
		srv = srv.WithoutAuth()
	}
	ts := httptest.NewServer(srv.Handler())
	t.Cleanup(ts.Close)
	return ts
}

func decodeBody(t *testing.T, resp *http.Response) map[string]any {
	t.Helper()
	var m map[string]any
	if err := json.NewDecoder(resp.Body).Decode(&m); err != nil {
		t.Fatalf("failed to decode response body: %v", err)
	}
	return m
}

func doJSON(t *testing.T, method, url string, payload any, cookies ...*http.Cookie) *http.Response {
	t.Helper()
	var body io.Reader
	if payload != nil {
		b, _ := json.Marshal(payload)
		body = bytes.NewReader(b)
	}
	req, err := http.NewRequest(method, url, body)
	if err != nil {
		t.Fatalf("new request: %v", err)
	}
	req.Header.Set("Content-Type", "application/json")
	for _, c := range cookies {
		req.AddCookie(c)
	}
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatalf("request failed: %v", err)
	}
	t.Cleanup(func() { _ = resp.Body.Close() })
	return resp
}

// ---------------------------------------------------------------------------
// Tests
// ---------------------------------------------------------------------------

func TestHealthEndpoint(t *testing.T) {
	ts := newTestServer(t, testEnv{})

	resp := doJSON(t, http.MethodGet, ts.URL+"/api/health", nil)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.StatusCode)
	}

	body := decodeBody(t, resp)
	if body["ok"] != true {
		t.Fatalf("expected ok=true, got %v", body["ok"])
	}
}

func TestWeightTodayGet(t *testing.T) {
	ts := newTestServer(t, testEnv{weights: &mockWeightRepo{
		latestFn: func(_ context.Context, _ int64, _ string) (*domain.WeightRecord, error) {
			return &domain.WeightRecord{ID: 1, ValueKg: 82.3, Date: time.Date(2026, 2, 8, 7, 0, 0, 0, time.UTC)}, nil
		},
	}})

	resp := doJSON(t, http.MethodGet, ts.URL+"/api/weight/today", nil)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.StatusCode)
	}

	body := decodeBody(t, resp)
	if _, ok := body["today"]; !ok {
		t.Fatal("response missing 'today' field")
	}
	if _, ok := body["entry"]; !ok {
		t.Fatal("response missing 'entry' field")
	}
}

func TestWeightTodayPut(t *testing.T) {
	tests := []struct {
		name       string
		payload    map[string]any
		wantStatus int
	}{
		{"valid kg", map[string]any{"value": 85.5, "unit": "kg"}, http.StatusOK},
		{"valid lb with note", map[string]any{"value": 190.0, "unit": "lb", "note": "morning"}, http.StatusOK},
		{"value zero", map[string]any{"value": 0, "unit": "kg"}, http.StatusBadRequest},
		{"value negative", map[string]any{"value": -5.0, "unit": "kg"}, http.StatusBadRequest},
		{"invalid unit", map[string]any{"value": 80.0, "unit": "stone"}, http.StatusBadRequest},
		{"unknown field", map[string]any{"value": 80.0, "unit": "kg", "bogus": 1}, http.StatusBadRequest},
	}

	ts := newTestServer(t, testEnv{})

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			resp := doJSON(t, http.MethodPut, ts.URL+"/api/weight/today", tc.payload)
			if resp.StatusCode != tc.wantStatus {
				body := decodeBody(t, resp)
				t.Fatalf("expected %d, got %d; body: %v", tc.wantStatus, resp.StatusCode, body)
			}

			body := decodeBody(t, resp)
			if tc.wantStatus == http.StatusOK {
				if _, ok := body["entry"]; !ok {
					t.Fatal("response missing 'entry' field")
				}
			} else if _, ok := body["error"]; !ok {
				t.Fatal("response missing 'error' field")
			}
		})
	}
}

func TestWeightRecent(t *testing.T) {
	items := []domain.WeightRecord{
		{ID: 1, ValueKg: 80.0, Date: time.Now()},
		{ID: 2, ValueKg: 81.0, Date: time.Now().Add(-24 * time.Hour)},
	}
	ts := newTestServer(t, testEnv{weights: &mockWeightRepo{
		recentFn: func(_ context.Context, _ int64, limit int) ([]domain.WeightRecord, error) {
			if limit < len(items) {
				return items[:limit], nil
			}
			return items, nil
		},
	}})

	resp := doJSON(t, http.MethodGet, ts.URL+"/api/weight/recent?limit=5", nil)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.StatusCode)
	}

	body := decodeBody(t, resp)
	arr, ok := body["items"].([]any)
	if !ok {
		t.Fatal("response missing 'items' array")
	}
	if len(arr) != 2 {
		t.Fatalf("expected 2 items, got %d", len(arr))
	}
}

func TestWeightRecent_RepoError(t *testing.T) {
	ts := newTestServer(t, testEnv{weights: &mockWeightRepo{
		recentFn: func(_ context.Context, _ int64, _ int) ([]domain.WeightRecord, error) {
			return nil, errors.New("db down")
		},
	}})

	resp := doJSON(t, http.MethodGet, ts.URL+"/api/weight/recent", nil)
	if resp.StatusCode != http.StatusInternalServerError {
		t.Fatalf("expected 500, got %d", resp.StatusCode)
	}
	body := decodeBody(t, resp)
	if body["error"] != "internal error" {
		t.Fatalf("expected masked error, got %v", body["error"])
	}
}

func TestWeightUndoLast(t *testing.T) {
	ts := newTestServer(t, testEnv{weights: &mockWeightRepo{
		deleteFn: func(_ context.Context, _ int64) (bool, error) {
			return true, nil
		},
	}})

	resp := doJSON(t, http.MethodPost, ts.URL+"/api/weight/undo-last", nil)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.StatusCode)
	}

	body := decodeBody(t, resp)
	if body["ok"] != true {
		t.Fatalf("expected ok=true, got %v", body["ok"])
	}
	if body["deleted"] != true {
		t.Fatalf("expected deleted=true, got %v", body["deleted"])
	}
}

func TestMeasurements(t *testing.T) {
	ts := newTestServer(t, testEnv{})

	resp := doJSON(t, http.MethodPost, ts.URL+"/api/measurements", map[string]any{"type": "waist", "value": 32, "unit": "in"})
	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("expected 201, got %d: %v", resp.StatusCode, decodeBody(t, resp))
	}

	resp = doJSON(t, http.MethodPost, ts.URL+"/api/measurements", map[string]any{"type": "elbow", "value": 30})
	if resp.StatusCode != http.StatusBadRequest {
		t.Fatalf("expected 400 for unknown type, got %d", resp.StatusCode)
	}

	resp = doJSON(t, http.MethodGet, ts.URL+"/api/measurements", nil)
	body := decodeBody(t, resp)
	arr, _ := body["items"].([]any)
	if len(arr) != 1 {
		t.Fatalf("expected 1 measurement, got %v", body["items"])
	}
	item := arr[0].(map[string]any)
	if v := item["valueCm"].(float64); v < 81.27 || v > 81.29 {
		t.Fatalf("expected 81.28 cm, got %v", v)
	}
}

func TestBloodPressure(t *testing.T) {
	ts := newTestServer(t, testEnv{})

	resp := doJSON(t, http.MethodPost, ts.URL+"/api/blood-pressure", map[string]any{"systolic": 135, "diastolic": 85, "pulse": 70})
	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("expected 201, got %d", resp.StatusCode)
	}
	body := decodeBody(t, resp)
	if body["category"] != "stage_1" || body["high"] != true {
		t.Fatalf("expected stage_1 high reading, got %v / %v", body["category"], body["high"])
	}

	resp = doJSON(t, http.MethodPost, ts.URL+"/api/blood-pressure", map[string]any{"systolic": 80, "diastolic": 90})
	if resp.StatusCode != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", resp.StatusCode)
	}
}

func TestProfile(t *testing.T) {
	ts := newTestServer(t, testEnv{})

	resp := doJSON(t, http.MethodGet, ts.URL+"/api/profile", nil)
	if resp.StatusCode != http.StatusNotFound {
		t.Fatalf("expected 404 before save, got %d", resp.StatusCode)
	}

	resp = doJSON(t, http.MethodPut, ts.URL+"/api/profile", map[string]any{"heightCm": 175, "birthDate": "1990-05-01", "activityLevel": "athletic"})
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected 200, got %d: %v", resp.StatusCode, decodeBody(t, resp))
	}

	resp = doJSON(t, http.MethodPut, ts.URL+"/api/profile", map[string]any{"heightCm": 175, "birthDate": "May 1st"})
	if resp.StatusCode != http.StatusBadRequest {
		t.Fatalf("expected 400 for bad birth date, got %d", resp.StatusCode)
	}

	resp = doJSON(t, http.MethodGet, ts.URL+"/api/profile", nil)
	body := decodeBody(t, resp)
	p, _ := body["profile"].(map[string]any)
	if p["activityLevel"] != "athletic" || p["medicalGuidelines"] != "us_aha" {
		t.Fatalf("unexpected profile: %v", p)
	}
}

func TestAnalyticsEndpoints(t *testing.T) {
	db := memory.New()
	ctx := context.Background()
	start := time.Now().AddDate(0, 0, -9)
	for i := range 10 {
		_, _ = db.AddWeight(ctx, domain.WeightRecord{UserID: 1, ValueKg: 90 - 0.3*float64(i), Date: start.AddDate(0, 0, i)})
	}
	target := 85.0
	_ = db.SaveProfile(ctx, domain.UserProfile{
		UserID: 1, HeightCm: 180, ActivityLevel: domain.ActivityActive,
		MeasurementSystem: domain.SystemMetric, MedicalGuidelines: domain.GuidelinesEUESC,
		TargetWeightKg: &target,
	})
	ts := newTestServer(t, testEnv{db: db})

	resp := doJSON(t, http.MethodGet, ts.URL+"/api/analytics/statistics", nil)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("statistics: expected 200, got %d", resp.StatusCode)
	}
	stats := decodeBody(t, resp)
	if stats["totalEntries"] != float64(10) {
		t.Fatalf("expected 10 entries, got %v", stats["totalEntries"])
	}

	resp = doJSON(t, http.MethodGet, ts.URL+"/api/analytics/insights", nil)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("insights: expected 200, got %d", resp.StatusCode)
	}
	cards, _ := decodeBody(t, resp)["cards"].([]any)
	if len(cards) == 0 {
		t.Fatal("expected insight cards")
	}
	first := cards[0].(map[string]any)
	if _, ok := first["id"]; !ok {
		t.Fatal("card missing id")
	}

	resp = doJSON(t, http.MethodGet, ts.URL+"/api/analytics/assessment", nil)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("assessment: expected 200, got %d", resp.StatusCode)
	}
	if decodeBody(t, resp)["promptWaist"] != true {
		t.Fatal("expected waist prompt for overweight user without waist")
	}

	resp = doJSON(t, http.MethodGet, ts.URL+"/api/analytics/daily?days=7&unit=kg", nil)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("daily: expected 200, got %d", resp.StatusCode)
	}
	items, _ := decodeBody(t, resp)["items"].([]any)
	if len(items) != 7 {
		t.Fatalf("expected 7 daily points, got %d", len(items))
	}

	resp = doJSON(t, http.MethodGet, ts.URL+"/api/analytics/daily?unit=stone", nil)
	if resp.StatusCode != http.StatusBadRequest {
		t.Fatalf("daily: expected 400 for bad unit, got %d", resp.StatusCode)
	}
}

func TestAssessment_NoProfile(t *testing.T) {
	ts := newTestServer(t, testEnv{})
	resp := doJSON(t, http.MethodGet, ts.URL+"/api/analytics/assessment", nil)
	if resp.StatusCode != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", resp.StatusCode)
	}
}

func TestAuthFlow(t *testing.T) {
	ts := newTestServer(t, testEnv{auth: true})

	resp := doJSON(t, http.MethodGet, ts.URL+"/api/weight/today", nil)
	if resp.StatusCode != http.StatusUnauthorized {
		t.Fatalf("expected 401 without session, got %d", resp.StatusCode)
	}

	resp = doJSON(t, http.MethodPost, ts.URL+"/api/auth/setup", map[string]any{"username": "admin", "password": "password123"})
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("setup: expected 200, got %d", resp.StatusCode)
	}
	resp = doJSON(t, http.MethodPost, ts.URL+"/api/auth/setup", map[string]any{"username": "again", "password": "password123"})
	if resp.StatusCode != http.StatusConflict {
		t.Fatalf("second setup: expected 409, got %d", resp.StatusCode)
	}

	resp = doJSON(t, http.MethodPost, ts.URL+"/api/auth/login", map[string]any{"username": "admin", "password": "wrong-password"})
	if resp.StatusCode != http.StatusUnauthorized {
		t.Fatalf("bad login: expected 401, got %d", resp.StatusCode)
	}

	resp = doJSON(t, http.MethodPost, ts.URL+"/api/auth/login", map[string]any{"username": "admin", "password": "password123"})
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("login: expected 200, got %d", resp.StatusCode)
	}
	var session *http.Cookie
	for _, c := range resp.Cookies() {
		if c.Name == "session" {
			session = c
		}
	}
	if session == nil {
		t.Fatal("login did not set a session cookie")
	}

	resp = doJSON(t, http.MethodGet, ts.URL+"/api/weight/today", nil, session)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected 200 with session, got %d", resp.StatusCode)
	}

	resp = doJSON(t, http.MethodPost, ts.URL+"/api/auth/logout", nil, session)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("logout: expected 200, got %d", resp.StatusCode)
	}
	resp = doJSON(t, http.MethodGet, ts.URL+"/api/weight/today", nil, session)
	if resp.StatusCode != http.StatusUnauthorized {
		t.Fatalf("expected 401 after logout, got %d", resp.StatusCode)
	}
}

func TestForwardAuth(t *testing.T) {
	ts := newTestServer(t, testEnv{auth: true})

	req, _ := http.NewRequest(http.MethodGet, ts.URL+"/api/profile", nil)
	req.Header.Set("Remote-User", "proxyuser")
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatalf("request failed: %v", err)
	}
	defer resp.Body.Close() //nolint:errcheck

	// Authenticated but no profile yet.
	if resp.StatusCode != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", resp.StatusCode)
	}
}

func TestAuthConfig(t *testing.T) {
	ts := newTestServer(t, testEnv{auth: true})
	resp := doJSON(t, http.MethodGet, ts.URL+"/api/auth/config", nil)
	body := decodeBody(t, resp)
	if body["sso_enabled"] != false || body["auth_enabled"] != true {
		t.Fatalf("unexpected config: %v", body)
	}

	resp = doJSON(t, http.MethodGet, ts.URL+"/api/auth/sso/login", nil)
	if resp.StatusCode != http.StatusNotFound {
		t.Fatalf("expected 404 with sso disabled, got %d", resp.StatusCode)
	}
}

func TestMethodNotAllowed(t *testing.T) {
	ts := newTestServer(t, testEnv{})

	tests := []struct {
		name   string
		method string
		path   string
	}{
		{"DELETE weight/today", http.MethodDelete, "/api/weight/today"},
		{"POST weight/recent", http.MethodPost, "/api/weight/recent"},
		{"GET weight/undo-last", http.MethodGet, "/api/weight/undo-last"},
		{"DELETE measurements", http.MethodDelete, "/api/measurements"},
		{"PUT blood-pressure", http.MethodPut, "/api/blood-pressure"},
		{"POST profile", http.MethodPost, "/api/profile"},
		{"POST analytics/statistics", http.MethodPost, "/api/analytics/statistics"},
		{"POST analytics/insights", http.MethodPost, "/api/analytics/insights"},
		{"GET auth/login", http.MethodGet, "/api/auth/login"},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			resp := doJSON(t, tc.method, ts.URL+tc.path, nil)
			if resp.StatusCode != http.StatusMethodNotAllowed {
				t.Fatalf("expected 405, got %d", resp.StatusCode)
			}
		})
	}
}
