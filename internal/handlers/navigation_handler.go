package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"checkit-dashboard/internal/middleware"
	"checkit-dashboard/internal/service"
	"checkit-dashboard/pkg/logger"
	"checkit-dashboard/pkg/utils"
)

type NavigationHandler struct {
	service service.NavigationUseCase
}

func NewNavigationHandler(service service.NavigationUseCase) *NavigationHandler {
	return &NavigationHandler{service: service}
}

type toggleNavigationRequest struct {
	Key string `json:"key" binding:"required,nav_key"`
}

// Tree returns the navigation built for the caller's session. The path query
// parameter selects the active link and defaults to "/".
func (h *NavigationHandler) Tree(c *gin.Context) {
	if h.service == nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Service not configured"})
		return
	}

	path := utils.NormalizePath(c.Query("path"))
	nodes := h.service.BuildForSession(middleware.SessionID(c), path)

	c.JSON(http.StatusOK, gin.H{
		"path":       path,
		"navigation": nodes,
	})
}

// Config returns the active configuration together with its lint issues.
func (h *NavigationHandler) Config(c *gin.Context) {
	if h.service == nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Service not configured"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"source":     h.service.Source(),
		"loaded_at":  h.service.LoadedAt(),
		"navigation": h.service.Entries(),
		"issues":     h.service.Issues(),
	})
}

func (h *NavigationHandler) Toggle(c *gin.Context) {
	if h.service == nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Service not configured"})
		return
	}

	var req toggleNavigationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	open, err := h.service.Toggle(middleware.SessionID(c), req.Key)
	if err != nil {
		status := toggleErrorStatus(err)
		if status == http.StatusInternalServerError {
			logger.FromContext(c.Request.Context()).WithError(err).Error("Failed to toggle navigation group")
			c.JSON(status, gin.H{"error": "Failed to toggle navigation group"})
			return
		}
		c.JSON(status, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"key": req.Key, "open": open})
}

func toggleErrorStatus(err error) int {
	switch {
	case errors.Is(err, service.ErrUnknownNavigationKey):
		return http.StatusNotFound
	case errors.Is(err, service.ErrSessionRequired):
		return http.StatusBadRequest
	case errors.Is(err, service.ErrStateStoreUnavailable):
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}
