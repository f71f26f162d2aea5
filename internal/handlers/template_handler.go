package handlers

import (
	"errors"
	"fmt"
	"html/template"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"checkit-dashboard/internal/config"
	"checkit-dashboard/internal/middleware"
	"checkit-dashboard/internal/service"
	"checkit-dashboard/pkg/logger"
	"checkit-dashboard/pkg/utils"
)

type TemplateHandler struct {
	navigation service.NavigationUseCase
	pages      service.PageUseCase
	templates  *template.Template
	config     *config.Config
}

func NewTemplateHandler(navigation service.NavigationUseCase, pages service.PageUseCase, cfg *config.Config, templates *template.Template) (*TemplateHandler, error) {
	if templates == nil {
		return nil, fmt.Errorf("templates are required")
	}
	if navigation == nil || pages == nil {
		return nil, fmt.Errorf("navigation and page services are required")
	}
	if cfg == nil {
		cfg = &config.Config{}
	}

	return &TemplateHandler{
		navigation: navigation,
		pages:      pages,
		templates:  templates,
		config:     cfg,
	}, nil
}

// RenderPage serves the registered page for the request path.
func (h *TemplateHandler) RenderPage(c *gin.Context) {
	page, err := h.pages.GetByPath(c.Request.URL.Path)
	if err != nil {
		if errors.Is(err, service.ErrPageNotFound) {
			h.RenderNotFound(c)
			return
		}
		logger.FromContext(c.Request.Context()).WithError(err).Error("Failed to resolve page")
		h.renderError(c, http.StatusInternalServerError, "500 - Server Error", "Failed to load page")
		return
	}

	content := page.Template
	if !strings.HasSuffix(content, ".html") {
		content += ".html"
	}

	data := h.basePageData(page.TopNavTitle(), page.Description, gin.H{
		"Page": page,
	})
	h.renderWithLayout(c, "base.html", content, data)
}

func (h *TemplateHandler) RenderNotFound(c *gin.Context) {
	h.renderError(c, http.StatusNotFound, "404 - Page Not Found", "The page you are looking for does not exist.")
}

// ToggleNavigation is the form fallback for the sidebar toggles. It flips the
// group named by the path and sends the browser back to the page it came from.
func (h *TemplateHandler) ToggleNavigation(c *gin.Context) {
	key := strings.Trim(c.Param("key"), "/")

	if _, err := h.navigation.Toggle(middleware.SessionID(c), key); err != nil {
		status := toggleErrorStatus(err)
		if status == http.StatusInternalServerError || status == http.StatusServiceUnavailable {
			logger.FromContext(c.Request.Context()).WithError(err).Error("Failed to toggle navigation group")
		}
		if status == http.StatusNotFound {
			h.RenderNotFound(c)
			return
		}
		h.renderError(c, status, fmt.Sprintf("%d - %s", status, http.StatusText(status)), "The navigation could not be updated.")
		return
	}

	c.Redirect(http.StatusSeeOther, returnPath(c.PostForm("return")))
}

// returnPath only accepts same-site paths so the form cannot be used as an
// open redirect.
func returnPath(value string) string {
	value = strings.TrimSpace(value)
	if !utils.IsLocalPath(value) {
		return "/"
	}
	return value
}
