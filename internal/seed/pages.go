package seed

import (
	"bytes"
	"embed"
	"errors"
	"fmt"
	"io/fs"
	"sort"
	"strings"

	"github.com/goccy/go-json"

	"checkit-dashboard/internal/models"
	"checkit-dashboard/internal/service"
	"checkit-dashboard/pkg/logger"
	"checkit-dashboard/pkg/navigation"
)

//go:embed data/pages/*.json
var defaultPagesFS embed.FS

// EnsureDefaultPages loads embedded page definitions into the page registry.
// It returns the number of pages registered.
func EnsureDefaultPages(pageService *service.PageService) int {
	return ensurePagesFrom(pageService, defaultPagesFS, "data/pages")
}

func ensurePagesFrom(pageService *service.PageService, dataFS fs.FS, dir string) int {
	if pageService == nil {
		return 0
	}

	entries, err := fs.ReadDir(dataFS, dir)
	if err != nil {
		logger.Error(err, "Failed to read embedded page definitions", nil)
		return 0
	}

	sort.Slice(entries, func(i, j int) bool {
		return entries[i].Name() < entries[j].Name()
	})

	registered := 0
	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(strings.ToLower(entry.Name()), ".json") {
			continue
		}

		name := entry.Name()
		data, err := fs.ReadFile(dataFS, fmt.Sprintf("%s/%s", dir, name))
		if err != nil {
			logger.Error(err, "Failed to read embedded page file", map[string]interface{}{"file": name})
			continue
		}

		definitions, err := parsePageDefinitions(data)
		if err != nil {
			logger.Error(err, "Failed to parse embedded page file", map[string]interface{}{"file": name})
			continue
		}

		for _, definition := range definitions {
			if ensurePage(pageService, definition, name) {
				registered++
			}
		}
	}

	return registered
}

func ensurePage(pageService *service.PageService, definition models.DashboardPage, source string) bool {
	if _, err := pageService.Register(definition); err != nil {
		if errors.Is(err, service.ErrPageExists) {
			logger.Debug("Default page already present", map[string]interface{}{"path": definition.Path, "source": source})
			return false
		}
		logger.Error(err, "Failed to register default page", map[string]interface{}{"path": definition.Path, "source": source})
		return false
	}
	return true
}

// EnsureNavigationPages registers a placeholder page for every local
// navigation link that has no page definition, so no sidebar link 404s.
func EnsureNavigationPages(pageService *service.PageService, entries []navigation.Entry) int {
	if pageService == nil {
		return 0
	}

	registered := 0
	for _, link := range navigation.Links(entries) {
		if !routablePath(link.Href) {
			continue
		}
		if _, err := pageService.GetByPath(link.Href); err == nil {
			continue
		}
		page := models.DashboardPage{
			Path:        link.Href,
			Title:       link.Name,
			Heading:     link.Name,
			Placeholder: true,
		}
		if ensurePage(pageService, page, "navigation") {
			registered++
		}
	}
	return registered
}

// routablePath reports whether href is a plain local path that can back a
// static page route. Queries, fragments and route wildcards are skipped.
func routablePath(href string) bool {
	return strings.HasPrefix(href, "/") && !strings.HasPrefix(href, "//") && !strings.ContainsAny(href, "?#:*")
}

func parsePageDefinitions(data []byte) ([]models.DashboardPage, error) {
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) == 0 {
		return nil, nil
	}

	if trimmed[0] == '[' {
		var definitions []models.DashboardPage
		if err := json.Unmarshal(trimmed, &definitions); err != nil {
			return nil, err
		}
		return definitions, nil
	}

	var definition models.DashboardPage
	if err := json.Unmarshal(trimmed, &definition); err != nil {
		return nil, err
	}

	return []models.DashboardPage{definition}, nil
}
