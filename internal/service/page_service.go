package service

import (
	"errors"
	"sort"
	"strings"
	"sync"

	"checkit-dashboard/internal/models"
	"checkit-dashboard/pkg/utils"
	"checkit-dashboard/pkg/validator"
)

var (
	ErrPageNotFound = errors.New("page not found")
	ErrPageExists   = errors.New("page already registered")
)

// PageService is the in-memory registry of routed dashboard pages.
type PageService struct {
	mu    sync.RWMutex
	pages map[string]models.DashboardPage
}

func NewPageService() *PageService {
	return &PageService{pages: make(map[string]models.DashboardPage)}
}

func (s *PageService) Register(page models.DashboardPage) (*models.DashboardPage, error) {
	page.Path = utils.NormalizePath(page.Path)
	page.Title = strings.TrimSpace(page.Title)
	page.Heading = strings.TrimSpace(page.Heading)
	page.Description = strings.TrimSpace(page.Description)
	page.Template = strings.TrimSpace(page.Template)
	if page.Template == "" {
		page.Template = "page"
	}

	if err := validator.Validate(page); err != nil {
		return nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.pages[page.Path]; exists {
		return nil, ErrPageExists
	}
	s.pages[page.Path] = page
	return &page, nil
}

func (s *PageService) GetByPath(path string) (*models.DashboardPage, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	page, ok := s.pages[utils.NormalizePath(path)]
	if !ok {
		return nil, ErrPageNotFound
	}
	return &page, nil
}

func (s *PageService) List() []models.DashboardPage {
	s.mu.RLock()
	defer s.mu.RUnlock()

	pages := make([]models.DashboardPage, 0, len(s.pages))
	for _, page := range s.pages {
		pages = append(pages, page)
	}
	sort.Slice(pages, func(i, j int) bool {
		return pages[i].Path < pages[j].Path
	})
	return pages
}

func (s *PageService) Paths() []string {
	pages := s.List()
	paths := make([]string, 0, len(pages))
	for _, page := range pages {
		paths = append(paths, page.Path)
	}
	return paths
}
