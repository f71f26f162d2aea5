package handlers

import (
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"

	"checkit-dashboard/internal/config"
	"checkit-dashboard/internal/middleware"
	"checkit-dashboard/internal/models"
	"checkit-dashboard/internal/service"
	"checkit-dashboard/pkg/icons"
	"checkit-dashboard/pkg/navigation"
	"checkit-dashboard/pkg/utils"
	"checkit-dashboard/pkg/validator"
)

const sessionCookie = "dashboard_session"

func testNavigation() []navigation.Entry {
	return []navigation.Entry{
		{Name: "Dashboard", Href: "/", Icon: "gauge"},
		{
			Name:     "People",
			Icon:     "users",
			IsHeader: true,
			Children: []navigation.Entry{
				{Name: "Tasks", Href: "/execution", Icon: "list-checks"},
			},
		},
		{Name: "Reports", IsHeader: true},
	}
}

func newTestRouter(t *testing.T) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)
	validator.Init()

	iconSet := icons.NewSet()
	navService, err := service.NewNavigationService(testNavigation(), "", iconSet, service.NewMemoryToggleStore(time.Hour))
	if err != nil {
		t.Fatalf("NewNavigationService returned error: %v", err)
	}

	pages := service.NewPageService()
	for _, page := range []models.DashboardPage{
		{Path: "/", Title: "Dashboard"},
		{Path: "/execution", Title: "Tasks", Heading: "Execution", Description: "Scheduled tasks"},
	} {
		if _, err := pages.Register(page); err != nil {
			t.Fatalf("Register returned error: %v", err)
		}
	}

	templates, err := utils.LoadTemplates("../../templates", utils.GetTemplateFuncs(nil, iconSet.HTML))
	if err != nil {
		t.Fatalf("LoadTemplates returned error: %v", err)
	}

	cfg := &config.Config{SiteTitle: "Checkit", SiteUserName: "Checkit", SiteUserRole: "Admin"}
	templateHandler, err := NewTemplateHandler(navService, pages, cfg, templates)
	if err != nil {
		t.Fatalf("NewTemplateHandler returned error: %v", err)
	}
	navigationHandler := NewNavigationHandler(navService)

	router := gin.New()
	router.Use(middleware.SessionMiddleware(sessionCookie, time.Hour, false))
	for _, path := range pages.Paths() {
		router.GET(path, templateHandler.RenderPage)
	}
	router.POST("/nav/toggle/*key", templateHandler.ToggleNavigation)
	api := router.Group("/api/v1/navigation")
	api.GET("", navigationHandler.Tree)
	api.GET("/config", navigationHandler.Config)
	api.POST("/toggle", navigationHandler.Toggle)
	router.NoRoute(templateHandler.RenderNotFound)
	return router
}

func perform(router *gin.Engine, req *http.Request, session *http.Cookie) *httptest.ResponseRecorder {
	if session != nil {
		req.AddCookie(session)
	}
	recorder := httptest.NewRecorder()
	router.ServeHTTP(recorder, req)
	return recorder
}

func sessionFrom(t *testing.T, recorder *httptest.ResponseRecorder) *http.Cookie {
	t.Helper()
	for _, cookie := range recorder.Result().Cookies() {
		if cookie.Name == sessionCookie {
			return cookie
		}
	}
	t.Fatalf("expected a session cookie")
	return nil
}

func TestRenderPageMarksActiveLink(t *testing.T) {
	router := newTestRouter(t)

	recorder := perform(router, httptest.NewRequest(http.MethodGet, "/execution", nil), nil)
	if recorder.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", recorder.Code, recorder.Body.String())
	}

	body := recorder.Body.String()
	if !strings.Contains(body, `<h1 class="topnav-title">Execution</h1>`) {
		t.Fatalf("expected top nav title, body: %s", body)
	}
	if strings.Count(body, `aria-current="page"`) != 1 {
		t.Fatalf("expected exactly one active link, body: %s", body)
	}
	if !strings.Contains(body, `href="/execution" class="nav-link pl-4 active"`) {
		t.Fatalf("expected Tasks to be the active nested link, body: %s", body)
	}
	if !strings.Contains(body, `href="/" class="nav-link pl-2 nav-link-top"`) {
		t.Fatalf("expected Dashboard to be an inactive top-level link, body: %s", body)
	}
	if strings.Count(body, `class="nav-toggle-form"`) != 1 {
		t.Fatalf("expected one toggle for the People group, body: %s", body)
	}
	if !strings.Contains(body, `nav-section-label`) {
		t.Fatalf("expected the childless header to render as a label, body: %s", body)
	}
}

func TestToggleNavigationTwiceRestoresChildren(t *testing.T) {
	router := newTestRouter(t)

	first := perform(router, httptest.NewRequest(http.MethodGet, "/execution", nil), nil)
	session := sessionFrom(t, first)

	toggle := func() {
		form := url.Values{"return": {"/execution"}}
		req := httptest.NewRequest(http.MethodPost, "/nav/toggle/people", strings.NewReader(form.Encode()))
		req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
		recorder := perform(router, req, session)
		if recorder.Code != http.StatusSeeOther || recorder.Header().Get("Location") != "/execution" {
			t.Fatalf("expected redirect to /execution, got %d %q", recorder.Code, recorder.Header().Get("Location"))
		}
	}

	toggle()
	collapsed := perform(router, httptest.NewRequest(http.MethodGet, "/execution", nil), session).Body.String()
	if strings.Contains(collapsed, `href="/execution"`) {
		t.Fatalf("expected Tasks to be hidden while People is collapsed")
	}
	if !strings.Contains(collapsed, `aria-expanded="false"`) {
		t.Fatalf("expected the toggle to report the collapsed state")
	}

	toggle()
	expanded := perform(router, httptest.NewRequest(http.MethodGet, "/execution", nil), session).Body.String()
	if !strings.Contains(expanded, `href="/execution" class="nav-link pl-4 active"`) {
		t.Fatalf("expected Tasks to be visible and active again, body: %s", expanded)
	}
}

func TestToggleNavigationRejectsExternalReturn(t *testing.T) {
	router := newTestRouter(t)

	form := url.Values{"return": {"//evil.example/phish"}}
	req := httptest.NewRequest(http.MethodPost, "/nav/toggle/people", strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	recorder := perform(router, req, nil)

	if recorder.Code != http.StatusSeeOther || recorder.Header().Get("Location") != "/" {
		t.Fatalf("expected redirect to /, got %d %q", recorder.Code, recorder.Header().Get("Location"))
	}
}

func TestToggleNavigationUnknownKey(t *testing.T) {
	router := newTestRouter(t)

	req := httptest.NewRequest(http.MethodPost, "/nav/toggle/reports", nil)
	recorder := perform(router, req, nil)
	if recorder.Code != http.StatusNotFound {
		t.Fatalf("expected 404 for a label key, got %d", recorder.Code)
	}
}

func TestNotFoundRendersNavigation(t *testing.T) {
	router := newTestRouter(t)

	recorder := perform(router, httptest.NewRequest(http.MethodGet, "/missing", nil), nil)
	if recorder.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", recorder.Code)
	}
	body := recorder.Body.String()
	if !strings.Contains(body, "sidebar-nav") || strings.Contains(body, `aria-current="page"`) {
		t.Fatalf("expected navigation without an active link, body: %s", body)
	}
}

func TestNavigationAPI(t *testing.T) {
	router := newTestRouter(t)

	recorder := perform(router, httptest.NewRequest(http.MethodGet, "/api/v1/navigation?path=/execution/", nil), nil)
	if recorder.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", recorder.Code)
	}
	body := recorder.Body.String()
	if !strings.Contains(body, `"path":"/execution"`) || !strings.Contains(body, `"active":true`) {
		t.Fatalf("unexpected navigation payload: %s", body)
	}
	session := sessionFrom(t, recorder)

	req := httptest.NewRequest(http.MethodPost, "/api/v1/navigation/toggle", strings.NewReader(`{"key":"people"}`))
	req.Header.Set("Content-Type", "application/json")
	recorder = perform(router, req, session)
	if recorder.Code != http.StatusOK || !strings.Contains(recorder.Body.String(), `"open":false`) {
		t.Fatalf("unexpected toggle response %d: %s", recorder.Code, recorder.Body.String())
	}

	req = httptest.NewRequest(http.MethodPost, "/api/v1/navigation/toggle", strings.NewReader(`{"key":"Not A Key"}`))
	req.Header.Set("Content-Type", "application/json")
	if recorder = perform(router, req, session); recorder.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 for a malformed key, got %d", recorder.Code)
	}

	req = httptest.NewRequest(http.MethodPost, "/api/v1/navigation/toggle", strings.NewReader(`{"key":"dashboard"}`))
	req.Header.Set("Content-Type", "application/json")
	if recorder = perform(router, req, session); recorder.Code != http.StatusNotFound {
		t.Fatalf("expected 404 for a link key, got %d", recorder.Code)
	}

	recorder = perform(router, httptest.NewRequest(http.MethodGet, "/api/v1/navigation/config", nil), session)
	if recorder.Code != http.StatusOK || !strings.Contains(recorder.Body.String(), `"source":"builtin"`) {
		t.Fatalf("unexpected config response %d: %s", recorder.Code, recorder.Body.String())
	}
}

func TestReturnPath(t *testing.T) {
	cases := map[string]string{
		"/execution?x=1":    "/execution?x=1",
		"":                  "/",
		"https://evil.test": "/",
		"  /workflow  ":     "/workflow",
	}
	for input, expected := range cases {
		if got := returnPath(input); got != expected {
			t.Errorf("returnPath(%q) = %q, expected %q", input, got, expected)
		}
	}
}
