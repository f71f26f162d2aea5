package handlers

import (
	"bytes"
	"fmt"
	"html/template"
	"net/http"

	"github.com/gin-gonic/gin"

	"checkit-dashboard/internal/middleware"
	"checkit-dashboard/pkg/logger"
	"checkit-dashboard/pkg/navigation"
	"checkit-dashboard/pkg/utils"
)

func (h *TemplateHandler) basePageData(title, description string, extra gin.H) gin.H {
	siteTitle := h.config.SiteTitle
	if siteTitle == "" {
		siteTitle = "Checkit"
	}

	fullTitle := siteTitle
	if title != "" && title != siteTitle {
		fullTitle = fmt.Sprintf("%s - %s", title, siteTitle)
	}
	if description == "" {
		description = h.config.SiteDescription
	}

	data := gin.H{
		"Title":       fullTitle,
		"TopNavTitle": title,
		"Description": description,
		"Site": gin.H{
			"Title":       siteTitle,
			"Description": h.config.SiteDescription,
			"User": gin.H{
				"Name":     h.config.SiteUserName,
				"Role":     h.config.SiteUserRole,
				"Avatar":   h.config.SiteUserAvatar,
				"Initials": utils.Initials(h.config.SiteUserName),
			},
		},
	}

	for k, v := range extra {
		data[k] = v
	}

	return data
}

func (h *TemplateHandler) renderWithLayout(c *gin.Context, layout, content string, data gin.H) {
	h.setNavigationState(c, data)
	h.renderStatus(c, http.StatusOK, layout, content, data)
}

func (h *TemplateHandler) renderStatus(c *gin.Context, status int, layout, content string, data gin.H) {
	log := logger.FromContext(c.Request.Context())

	tmpl, err := h.templateClone()
	if err != nil {
		log.WithError(err).Error("Failed to clone templates")
		c.String(http.StatusInternalServerError, "Template error")
		return
	}

	contentTmpl := tmpl.Lookup(content)
	if contentTmpl == nil {
		log.WithField("template", content).Error("Content template not found")
		c.String(http.StatusInternalServerError, "Template not found")
		return
	}

	buf, err := h.executeTemplate(contentTmpl, data)
	if err != nil {
		log.WithError(err).WithField("template", content).Error("Failed to render content")
		c.String(http.StatusInternalServerError, "Failed to render content")
		return
	}

	data["Content"] = template.HTML(buf)

	layoutTmpl := tmpl.Lookup(layout)
	if layoutTmpl == nil {
		log.WithField("template", layout).Error("Layout template not found")
		c.String(http.StatusInternalServerError, "Template not found")
		return
	}

	output, err := h.executeTemplate(layoutTmpl, data)
	if err != nil {
		log.WithError(err).WithField("template", layout).Error("Failed to render layout")
		c.String(http.StatusInternalServerError, "Failed to render layout")
		return
	}

	c.Data(status, "text/html; charset=utf-8", output)
}

// setNavigationState builds the sidebar for the request. The path is
// normalised here so the tree itself can compare routes exactly.
func (h *TemplateHandler) setNavigationState(c *gin.Context, data gin.H) {
	cleanedPath := utils.NormalizePath(c.Request.URL.Path)
	data["ActivePath"] = cleanedPath

	if h.navigation == nil {
		return
	}

	nodes := h.navigation.BuildForSession(middleware.SessionID(c), cleanedPath)
	data["Navigation"] = gin.H{
		"Nodes":    nodes,
		"ReturnTo": c.Request.URL.RequestURI(),
	}
	data["Breadcrumbs"] = navigation.ActiveTrail(nodes)
}

func (h *TemplateHandler) renderError(c *gin.Context, status int, title, msg string) {
	data := h.basePageData(title, "", gin.H{
		"StatusCode": status,
		"error":      msg,
	})
	h.setNavigationState(c, data)
	h.renderStatus(c, status, "base.html", "error.html", data)
}

func (h *TemplateHandler) templateClone() (*template.Template, error) {
	if h.templates == nil {
		return nil, fmt.Errorf("templates are not loaded")
	}
	return h.templates.Clone()
}

func (h *TemplateHandler) executeTemplate(tmpl *template.Template, data interface{}) ([]byte, error) {
	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, data); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
