package routes

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"strings"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"

	"staff-directory/application/overlay"
	"staff-directory/application/serviceimpl"
	"staff-directory/domain/directory"
	"staff-directory/domain/models"
	"staff-directory/domain/repositories"
	"staff-directory/interfaces/api/handlers"
	"staff-directory/interfaces/api/middleware"
	"staff-directory/pkg/config"
	"staff-directory/pkg/logger"
)

const adminToken = "s3cret"

func TestMain(m *testing.M) {
	dir, _ := os.MkdirTemp("", "routes-logs")
	logger.Init(dir, false)
	code := m.Run()
	os.RemoveAll(dir)
	os.Exit(code)
}

type stubRepo struct {
	people []models.Person
	err    error
}

func (r *stubRepo) ListRoster(ctx context.Context, query repositories.RosterQuery) ([]models.Person, error) {
	if r.err != nil {
		return nil, r.err
	}
	return r.people, nil
}

func (r *stubRepo) GetByID(ctx context.Context, id uint) (*models.Person, error) {
	return nil, directory.ErrPersonNotFound
}

func (r *stubRepo) Count(ctx context.Context) (int64, error) {
	return int64(len(r.people)), nil
}

type stubFetcher struct {
	err error
}

func (f *stubFetcher) FetchFloorMap(ctx context.Context, url string) ([]byte, error) {
	if f.err != nil {
		return nil, f.err
	}
	return []byte(`<svg xmlns="http://www.w3.org/2000/svg"><rect id="P3"/><rect id="P9"/></svg>`), nil
}

func testConfig() *config.Config {
	return &config.Config{
		App:       config.AppConfig{Name: "Staff Directory", Port: "3000", Env: "test", CorsOrigins: "*"},
		Admin:     config.AdminConfig{Token: adminToken},
		RateLimit: config.RateLimitConfig{Enabled: false, MaxRequests: 100, WindowSeconds: 60},
	}
}

func newTestApp(t *testing.T, repo *stubRepo, fetcher *stubFetcher) *fiber.App {
	t.Helper()

	resolver := directory.NewLocationResolver(map[models.LocationClass]string{
		models.LocationFloor4: "http://maps.test/floor4.svg",
	})
	rosterService := serviceimpl.NewRosterService(repo, nil, 250, time.Minute)
	directoryService := serviceimpl.NewDirectoryService(rosterService, resolver, overlay.NewDocumentCache(fetcher), overlay.HighlightOptions{})
	t.Cleanup(directoryService.Shutdown)

	h := handlers.NewHandlers(&handlers.Services{
		DirectoryService: directoryService,
		RosterService:    rosterService,
	}, nil, testConfig())

	app := fiber.New(fiber.Config{ErrorHandler: middleware.ErrorHandler()})
	SetupRoutes(app, h, testConfig())
	return app
}

func defaultRepo() *stubRepo {
	return &stubRepo{people: []models.Person{
		{ID: 1, DisplayName: "Ann Lee", Email: "a@x.com", LocationCode: "P3"},
		{ID: 2, DisplayName: "Bo Kim", Email: "b@x.com", LocationCode: "R1"},
	}}
}

func do(t *testing.T, app *fiber.App, req *http.Request) (*http.Response, []byte) {
	t.Helper()
	resp, err := app.Test(req)
	if err != nil {
		t.Fatalf("app.Test: %v", err)
	}
	body, _ := io.ReadAll(resp.Body)
	return resp, body
}

func TestSearchPeople(t *testing.T) {
	app := newTestApp(t, defaultRepo(), &stubFetcher{})

	resp, body := do(t, app, httptest.NewRequest("GET", "/api/v1/directory/people?q=ann", nil))
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d: %s", resp.StatusCode, body)
	}

	var out struct {
		Success bool `json:"success"`
		Data    struct {
			Total   int `json:"total"`
			Entries []struct {
				Person struct {
					DisplayName string `json:"display_name"`
				} `json:"person"`
				Location struct {
					Label      string `json:"label"`
					Actionable bool   `json:"actionable"`
				} `json:"location"`
			} `json:"entries"`
		} `json:"data"`
	}
	if err := json.Unmarshal(body, &out); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if out.Data.Total != 1 || out.Data.Entries[0].Person.DisplayName != "Ann Lee" {
		t.Fatalf("unexpected result: %s", body)
	}
	if !out.Data.Entries[0].Location.Actionable || out.Data.Entries[0].Location.Label != "Find on 4th floor" {
		t.Errorf("location = %+v", out.Data.Entries[0].Location)
	}
}

func TestGetPersonErrors(t *testing.T) {
	app := newTestApp(t, defaultRepo(), &stubFetcher{})

	tests := map[string]int{
		"/api/v1/directory/people/1":          http.StatusOK,
		"/api/v1/directory/people/404":        http.StatusNotFound,
		"/api/v1/directory/people/abc":        http.StatusBadRequest,
		"/api/v1/directory/people/0":          http.StatusBadRequest,
		"/api/v1/directory/people/2/location": http.StatusOK,
	}
	for path, want := range tests {
		resp, body := do(t, app, httptest.NewRequest("GET", path, nil))
		if resp.StatusCode != want {
			t.Errorf("%s: status = %d, want %d (%s)", path, resp.StatusCode, want, body)
		}
	}
}

func TestSeatMap(t *testing.T) {
	app := newTestApp(t, defaultRepo(), &stubFetcher{})

	resp, body := do(t, app, httptest.NewRequest("GET", "/api/v1/directory/people/1/seat-map", nil))
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d: %s", resp.StatusCode, body)
	}
	if ct := resp.Header.Get("Content-Type"); ct != "image/svg+xml" {
		t.Errorf("content type = %q", ct)
	}
	if resp.Header.Get("X-Seat-Highlighted") != "true" {
		t.Error("seat not reported as highlighted")
	}
	if !strings.Contains(string(body), overlay.DefaultHighlightClass) {
		t.Error("svg lacks the highlight class")
	}

	resp, _ = do(t, app, httptest.NewRequest("GET", "/api/v1/directory/people/2/seat-map", nil))
	if resp.StatusCode != http.StatusConflict {
		t.Errorf("remote person: status = %d, want 409", resp.StatusCode)
	}
}

func TestSeatMapFetchFailure(t *testing.T) {
	app := newTestApp(t, defaultRepo(), &stubFetcher{err: errors.New("404 Not Found")})

	resp, _ := do(t, app, httptest.NewRequest("GET", "/api/v1/directory/people/1/seat-map", nil))
	if resp.StatusCode != http.StatusBadGateway {
		t.Errorf("status = %d, want 502", resp.StatusCode)
	}
}

func TestRosterRefreshRequiresAdminToken(t *testing.T) {
	app := newTestApp(t, defaultRepo(), &stubFetcher{})

	resp, _ := do(t, app, httptest.NewRequest("POST", "/api/v1/directory/roster/refresh", nil))
	if resp.StatusCode != http.StatusUnauthorized {
		t.Errorf("without token: status = %d, want 401", resp.StatusCode)
	}

	req := httptest.NewRequest("POST", "/api/v1/directory/roster/refresh", nil)
	req.Header.Set("X-Admin-Token", adminToken)
	resp, body := do(t, app, req)
	if resp.StatusCode != http.StatusOK {
		t.Errorf("with token: status = %d: %s", resp.StatusCode, body)
	}
}

func TestRosterRefreshStoreFailure(t *testing.T) {
	app := newTestApp(t, &stubRepo{err: errors.New("connection refused")}, &stubFetcher{})

	req := httptest.NewRequest("POST", "/api/v1/directory/roster/refresh?token="+adminToken, nil)
	resp, _ := do(t, app, req)
	if resp.StatusCode != http.StatusBadGateway {
		t.Errorf("status = %d, want 502", resp.StatusCode)
	}

	// Searching still works on the empty roster.
	resp, body := do(t, app, httptest.NewRequest("GET", "/api/v1/directory/people", nil))
	if resp.StatusCode != http.StatusOK || !strings.Contains(string(body), `"total":0`) {
		t.Errorf("search after failure: %d %s", resp.StatusCode, body)
	}
}

func TestAdminLogsGuarded(t *testing.T) {
	app := newTestApp(t, defaultRepo(), &stubFetcher{})

	resp, _ := do(t, app, httptest.NewRequest("GET", "/api/v1/admin/logs/files", nil))
	if resp.StatusCode != http.StatusUnauthorized {
		t.Errorf("status = %d, want 401", resp.StatusCode)
	}

	req := httptest.NewRequest("GET", "/api/v1/admin/logs/files", nil)
	req.Header.Set("X-Admin-Token", adminToken)
	resp, body := do(t, app, req)
	if resp.StatusCode != http.StatusOK {
		t.Errorf("status = %d: %s", resp.StatusCode, body)
	}
}

func TestHealthAndFloors(t *testing.T) {
	app := newTestApp(t, defaultRepo(), &stubFetcher{})

	resp, _ := do(t, app, httptest.NewRequest("GET", "/health", nil))
	if resp.StatusCode != http.StatusOK {
		t.Errorf("/health status = %d", resp.StatusCode)
	}

	resp, body := do(t, app, httptest.NewRequest("GET", "/api/v1/directory/floors", nil))
	if resp.StatusCode != http.StatusOK || !strings.Contains(string(body), `"floor4"`) {
		t.Errorf("/floors: %d %s", resp.StatusCode, body)
	}

	resp, _ = do(t, app, httptest.NewRequest("GET", "/ws", nil))
	if resp.StatusCode != http.StatusUpgradeRequired {
		t.Errorf("/ws without upgrade: status = %d, want 426", resp.StatusCode)
	}
}
