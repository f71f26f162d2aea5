package app

import (
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"

	"checkit-dashboard/internal/config"
)

func testConfig(t *testing.T) *config.Config {
	t.Helper()
	gin.SetMode(gin.TestMode)
	return &config.Config{
		Port:              "0",
		Environment:       "test",
		TemplatesDir:      "../../templates",
		StaticDir:         "../../static",
		SessionCookie:     "dashboard_session",
		SessionTTL:        time.Hour,
		RateLimitRequests: 1000,
		RateLimitWindow:   60,
		EnableMetrics:     true,
		SiteTitle:         "Checkit",
		SiteUserName:      "Checkit",
		SiteUserRole:      "Admin",
	}
}

func newTestApplication(t *testing.T, cfg *config.Config) *Application {
	t.Helper()
	application, err := New(cfg, Options{})
	if err != nil {
		t.Fatalf("New returned error: %v", err)
	}
	t.Cleanup(func() {
		ctx, cancel := context.WithTimeout(context.Background(), time.Second)
		defer cancel()
		_ = application.Shutdown(ctx)
	})
	return application
}

func get(router http.Handler, path string) *httptest.ResponseRecorder {
	recorder := httptest.NewRecorder()
	router.ServeHTTP(recorder, httptest.NewRequest(http.MethodGet, path, nil))
	return recorder
}

func TestDefaultNavigationRoutes(t *testing.T) {
	application := newTestApplication(t, testConfig(t))
	router := application.Router()

	for _, path := range []string{"/", "/execution", "/workflow", "/training-certification", "/locations", "/sop-canvas", "/sensors", "/monitoring", "/compliance", "/asset-intelligence", "/inventory-intelligence", "/workforce-intelligence"} {
		recorder := get(router, path)
		if recorder.Code != http.StatusOK {
			t.Fatalf("GET %s: expected 200, got %d", path, recorder.Code)
		}
		if !strings.Contains(recorder.Body.String(), `href="`+path+`" class="nav-link`) {
			t.Fatalf("GET %s: expected sidebar link", path)
		}
		if strings.Count(recorder.Body.String(), `aria-current="page"`) != 1 {
			t.Fatalf("GET %s: expected exactly one active link", path)
		}
	}
}

func TestNotFoundResponses(t *testing.T) {
	application := newTestApplication(t, testConfig(t))
	router := application.Router()

	recorder := get(router, "/api/v1/unknown")
	if recorder.Code != http.StatusNotFound || !strings.Contains(recorder.Body.String(), "Route not found") {
		t.Fatalf("expected JSON 404, got %d: %s", recorder.Code, recorder.Body.String())
	}

	recorder = get(router, "/nowhere")
	if recorder.Code != http.StatusNotFound || !strings.Contains(recorder.Header().Get("Content-Type"), "text/html") {
		t.Fatalf("expected HTML 404, got %d %q", recorder.Code, recorder.Header().Get("Content-Type"))
	}
}

func TestHealthAndMetrics(t *testing.T) {
	application := newTestApplication(t, testConfig(t))
	router := application.Router()

	recorder := get(router, "/health")
	if recorder.Code != http.StatusOK || !strings.Contains(recorder.Body.String(), `"navigation":"builtin"`) {
		t.Fatalf("unexpected health response %d: %s", recorder.Code, recorder.Body.String())
	}

	get(router, "/execution")
	recorder = get(router, "/metrics")
	if recorder.Code != http.StatusOK || !strings.Contains(recorder.Body.String(), "checkit_dashboard_navigation_renders_total") {
		t.Fatalf("expected navigation metrics to be exported")
	}
}

func TestNavigationFileAddsPlaceholderPages(t *testing.T) {
	file := filepath.Join(t.TempDir(), "navigation.toml")
	content := `
[[navigation]]
name = "Home"
href = "/"

[[navigation]]
name = "Fleet"
isHeader = true

  [[navigation.children]]
  name = "Vehicles"
  href = "/vehicles"
`
	if err := os.WriteFile(file, []byte(content), 0o644); err != nil {
		t.Fatalf("failed to write navigation file: %v", err)
	}

	cfg := testConfig(t)
	cfg.NavConfigFile = file
	application := newTestApplication(t, cfg)

	recorder := get(application.Router(), "/vehicles")
	if recorder.Code != http.StatusOK {
		t.Fatalf("expected placeholder page for /vehicles, got %d", recorder.Code)
	}
	if !strings.Contains(recorder.Body.String(), "coming soon") {
		t.Fatalf("expected placeholder body")
	}
	if application.Navigation().Source() != file {
		t.Fatalf("expected navigation source %q, got %q", file, application.Navigation().Source())
	}
}

func TestNavigationReloaderRegistersNewPages(t *testing.T) {
	file := filepath.Join(t.TempDir(), "navigation.json")
	if err := os.WriteFile(file, []byte(`[{"name": "Home", "href": "/"}]`), 0o644); err != nil {
		t.Fatalf("failed to write navigation file: %v", err)
	}

	cfg := testConfig(t)
	cfg.NavConfigFile = file
	application := newTestApplication(t, cfg)

	if err := os.WriteFile(file, []byte(`[{"name": "Home", "href": "/"}, {"name": "Audits", "href": "/audits"}]`), 0o644); err != nil {
		t.Fatalf("failed to rewrite navigation file: %v", err)
	}

	reloader := navigationReloader{navigation: application.services.Navigation, pages: application.services.Page}
	if err := reloader.Reload(); err != nil {
		t.Fatalf("Reload returned error: %v", err)
	}

	recorder := get(application.Router(), "/audits")
	if recorder.Code != http.StatusOK {
		t.Fatalf("expected the reloaded link to be served, got %d", recorder.Code)
	}
}

func TestReservedRoutes(t *testing.T) {
	cases := map[string]bool{
		"/health":                true,
		"/metrics":               true,
		"/static/css/site.css":   true,
		"/api/v1/navigation":     true,
		"/nav/toggle/people":     true,
		"/execution":             false,
		"/":                      false,
		"/statistics":            false,
		"/navigation-playground": false,
	}
	for path, expected := range cases {
		if got := reservedRoute(path); got != expected {
			t.Errorf("reservedRoute(%q) = %v, expected %v", path, got, expected)
		}
	}
}

func TestNavigationFileCannotShadowBuiltInRoutes(t *testing.T) {
	file := filepath.Join(t.TempDir(), "navigation.yaml")
	content := "- name: Home\n  href: /\n- name: Health\n  href: /health\n"
	if err := os.WriteFile(file, []byte(content), 0o644); err != nil {
		t.Fatalf("failed to write navigation file: %v", err)
	}

	cfg := testConfig(t)
	cfg.NavConfigFile = file
	application := newTestApplication(t, cfg)

	recorder := get(application.Router(), "/health")
	if recorder.Code != http.StatusOK || !strings.Contains(recorder.Body.String(), "healthy") {
		t.Fatalf("expected the health endpoint to win, got %d %q", recorder.Code, recorder.Body.String())
	}
}
