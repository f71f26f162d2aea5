package icons

import (
	"fmt"
	"html/template"
	"sort"
	"strings"
	"sync"

	"github.com/microcosm-cc/bluemonday"
)

const svgOpen = `<svg xmlns="http://www.w3.org/2000/svg" width="16" height="16" viewBox="0 0 24 24" fill="none" stroke="currentColor" stroke-width="2" stroke-linecap="round" stroke-linejoin="round" aria-hidden="true">`

// Glyph bodies follow the lucide icon set used by the dashboard.
var builtin = map[string]string{
	"activity":        `<path d="M22 12h-4l-3 9L9 3l-3 9H2"/>`,
	"bar-chart-3":     `<path d="M3 3v18h18"/><path d="M18 17V9"/><path d="M13 17V5"/><path d="M8 17v-3"/>`,
	"box":             `<path d="M21 8a2 2 0 0 0-1-1.73l-7-4a2 2 0 0 0-2 0l-7 4A2 2 0 0 0 3 8v8a2 2 0 0 0 1 1.73l7 4a2 2 0 0 0 2 0l7-4A2 2 0 0 0 21 16Z"/><path d="m3.3 7 8.7 5 8.7-5"/><path d="M12 22V12"/>`,
	"building":        `<rect width="16" height="20" x="4" y="2" rx="2" ry="2"/><path d="M9 22v-4h6v4"/><path d="M8 6h.01"/><path d="M16 6h.01"/><path d="M12 6h.01"/><path d="M12 10h.01"/><path d="M12 14h.01"/><path d="M16 10h.01"/><path d="M16 14h.01"/><path d="M8 10h.01"/><path d="M8 14h.01"/>`,
	"chevron-down":    `<path d="m6 9 6 6 6-6"/>`,
	"chevron-right":   `<path d="m9 18 6-6-6-6"/>`,
	"clipboard-check": `<rect width="8" height="4" x="8" y="2" rx="1" ry="1"/><path d="M16 4h2a2 2 0 0 1 2 2v14a2 2 0 0 1-2 2H6a2 2 0 0 1-2-2V6a2 2 0 0 1 2-2h2"/><path d="m9 14 2 2 4-4"/>`,
	"gauge":           `<path d="m12 14 4-4"/><path d="M3.34 19a10 10 0 1 1 17.32 0"/>`,
	"graduation-cap":  `<path d="M22 10v6M2 10l10-5 10 5-10 5z"/><path d="M6 12v5c3 3 9 3 12 0v-5"/>`,
	"list-checks":     `<path d="m3 17 2 2 4-4"/><path d="m3 7 2 2 4-4"/><path d="M13 6h8"/><path d="M13 12h8"/><path d="M13 18h8"/>`,
	"map-pin":         `<path d="M20 10c0 6-8 12-8 12s-8-6-8-12a8 8 0 0 1 16 0Z"/><circle cx="12" cy="10" r="3"/>`,
	"network":         `<rect x="16" y="16" width="6" height="6" rx="1"/><rect x="2" y="16" width="6" height="6" rx="1"/><rect x="9" y="2" width="6" height="6" rx="1"/><path d="M5 16v-3a1 1 0 0 1 1-1h12a1 1 0 0 1 1 1v3"/><path d="M12 12V8"/>`,
	"package":         `<path d="m7.5 4.27 9 5.15"/><path d="M21 8a2 2 0 0 0-1-1.73l-7-4a2 2 0 0 0-2 0l-7 4A2 2 0 0 0 3 8v8a2 2 0 0 0 1 1.73l7 4a2 2 0 0 0 2 0l7-4A2 2 0 0 0 21 16Z"/><path d="m3.3 7 8.7 5 8.7-5"/><path d="M12 22V12"/>`,
	"shield-check":    `<path d="M12 22s8-4 8-10V5l-8-3-8 3v7c0 6 8 10 8 10"/><path d="m9 12 2 2 4-4"/>`,
	"signal":          `<path d="M2 20h.01"/><path d="M7 20v-4"/><path d="M12 20v-8"/><path d="M17 20V8"/><path d="M22 4v16"/>`,
	"users":           `<path d="M16 21v-2a4 4 0 0 0-4-4H6a4 4 0 0 0-4 4v2"/><circle cx="9" cy="7" r="4"/><path d="M22 21v-2a4 4 0 0 0-3-3.87"/><path d="M16 3.13a4 4 0 0 1 0 7.75"/>`,
}

// Set resolves symbolic icon names to inline SVG markup.
type Set struct {
	mu     sync.RWMutex
	glyphs map[string]string
	policy *bluemonday.Policy
}

func NewSet() *Set {
	s := &Set{
		glyphs: make(map[string]string, len(builtin)),
		policy: svgPolicy(),
	}
	for name, body := range builtin {
		s.glyphs[name] = svgOpen + body + "</svg>"
	}
	return s
}

func svgPolicy() *bluemonday.Policy {
	p := bluemonday.NewPolicy()
	p.AllowElements("svg", "path", "circle", "rect", "line", "polyline", "polygon", "ellipse", "g")
	p.AllowAttrs("xmlns", "width", "height", "viewBox", "fill", "stroke", "stroke-width", "stroke-linecap", "stroke-linejoin", "aria-hidden").OnElements("svg")
	p.AllowAttrs("d", "cx", "cy", "r", "rx", "ry", "x", "y", "x1", "y1", "x2", "y2", "width", "height", "points", "fill", "stroke", "stroke-width", "transform").OnElements("path", "circle", "rect", "line", "polyline", "polygon", "ellipse", "g")
	return p
}

// Register adds or replaces a glyph. The markup is sanitized and must still
// contain an svg element afterwards.
func (s *Set) Register(name, markup string) error {
	name = strings.ToLower(strings.TrimSpace(name))
	if name == "" {
		return fmt.Errorf("icon name is required")
	}

	cleaned := strings.TrimSpace(s.policy.Sanitize(markup))
	if !strings.HasPrefix(cleaned, "<svg") {
		return fmt.Errorf("icon %q: markup must be an svg element", name)
	}

	s.mu.Lock()
	s.glyphs[name] = cleaned
	s.mu.Unlock()
	return nil
}

// RegisterAll registers every glyph and returns the names that were rejected.
func (s *Set) RegisterAll(markup map[string]string) map[string]error {
	failed := make(map[string]error)
	for name, svg := range markup {
		if err := s.Register(name, svg); err != nil {
			failed[name] = err
		}
	}
	return failed
}

func (s *Set) Has(name string) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	_, ok := s.glyphs[strings.ToLower(name)]
	return ok
}

// HTML returns the glyph for name, or an empty string when it is unknown so
// templates can omit the icon.
func (s *Set) HTML(name string) template.HTML {
	if name == "" {
		return ""
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	return template.HTML(s.glyphs[strings.ToLower(name)])
}

func (s *Set) Names() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	names := make([]string, 0, len(s.glyphs))
	for name := range s.glyphs {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
