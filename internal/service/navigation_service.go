package service

import (
	"errors"
	"fmt"
	"strings"
	"sync/atomic"
	"time"

	"checkit-dashboard/internal/metrics"
	"checkit-dashboard/pkg/icons"
	"checkit-dashboard/pkg/logger"
	"checkit-dashboard/pkg/navigation"
	"checkit-dashboard/pkg/utils"
)

var (
	ErrUnknownNavigationKey = errors.New("unknown navigation group")
	ErrSessionRequired      = errors.New("session is required")
)

const defaultNavigationSource = "builtin"

// navigationSnapshot is one immutable configuration. Reloads replace the
// snapshot as a whole.
type navigationSnapshot struct {
	entries   []navigation.Entry
	groupKeys map[string]struct{}
	issues    []navigation.Issue
	source    string
	loadedAt  time.Time
}

type NavigationService struct {
	defaults []navigation.Entry
	file     string
	icons    *icons.Set
	store    ToggleStore

	current atomic.Pointer[navigationSnapshot]
}

// NewNavigationService loads the configuration file when one is given and
// falls back to the defaults otherwise.
func NewNavigationService(defaults []navigation.Entry, file string, iconSet *icons.Set, store ToggleStore) (*NavigationService, error) {
	if iconSet == nil {
		iconSet = icons.NewSet()
	}
	if store == nil {
		store = NewMemoryToggleStore(0)
	}

	s := &NavigationService{
		defaults: defaults,
		file:     strings.TrimSpace(file),
		icons:    iconSet,
		store:    store,
	}

	if s.file == "" {
		s.install(defaults, defaultNavigationSource)
		return s, nil
	}

	if err := s.Reload(); err != nil {
		return nil, err
	}
	return s, nil
}

// Reload re-reads the configuration file. On failure the active tree is kept.
func (s *NavigationService) Reload() error {
	if s.file == "" {
		return nil
	}

	doc, err := navigation.LoadFile(s.file)
	metrics.NavigationReloaded(err)
	if err != nil {
		return fmt.Errorf("failed to load navigation: %w", err)
	}

	for name, regErr := range s.icons.RegisterAll(doc.Icons) {
		logger.Error(regErr, "Rejected custom navigation icon", map[string]interface{}{"icon": name})
	}

	s.install(doc.Navigation, s.file)
	return nil
}

func (s *NavigationService) install(entries []navigation.Entry, source string) {
	entries = navigation.RewriteHrefs(entries, utils.CanonicalHref)
	snapshot := &navigationSnapshot{
		entries:   entries,
		groupKeys: make(map[string]struct{}),
		issues:    navigation.Lint(entries, s.icons.Has),
		source:    source,
		loadedAt:  time.Now(),
	}
	for _, key := range navigation.GroupKeys(entries) {
		snapshot.groupKeys[key] = struct{}{}
	}

	s.current.Store(snapshot)
	metrics.SetNavigationLinks(len(navigation.Links(entries)))

	for _, issue := range snapshot.issues {
		logger.Warn("Navigation configuration issue", map[string]interface{}{
			"key":      issue.Key,
			"severity": issue.Severity,
			"message":  issue.Message,
			"source":   source,
		})
	}

	logger.Info("Navigation configuration loaded", map[string]interface{}{
		"source": source,
		"groups": len(snapshot.groupKeys),
		"issues": len(snapshot.issues),
	})
}

// Entries returns the active configuration. Callers must treat it as read-only.
func (s *NavigationService) Entries() []navigation.Entry {
	return s.current.Load().entries
}

func (s *NavigationService) Issues() []navigation.Issue {
	return s.current.Load().issues
}

func (s *NavigationService) Source() string {
	return s.current.Load().source
}

func (s *NavigationService) LoadedAt() time.Time {
	return s.current.Load().loadedAt
}

func (s *NavigationService) File() string {
	return s.file
}

func (s *NavigationService) Icons() *icons.Set {
	return s.icons
}

func (s *NavigationService) Store() ToggleStore {
	return s.store
}

func (s *NavigationService) HasGroup(key string) bool {
	_, ok := s.current.Load().groupKeys[key]
	return ok
}

// Build renders the active tree for a route and an open/closed state.
func (s *NavigationService) Build(currentPath string, state navigation.StateReader) []navigation.Node {
	metrics.NavigationRendered()
	return navigation.BuildTree(s.Entries(), currentPath, state)
}

// State loads the toggle state of a session. A store failure degrades to the
// default state (everything open) so pages keep rendering.
func (s *NavigationService) State(session string) *navigation.ToggleState {
	if session == "" {
		return navigation.NewToggleState()
	}

	state, err := s.store.Load(session)
	if err != nil {
		logger.Error(err, "Failed to load navigation state", map[string]interface{}{"session": session})
		return navigation.NewToggleState()
	}

	snapshot := s.current.Load()
	known := make([]string, 0, len(snapshot.groupKeys))
	for key := range snapshot.groupKeys {
		known = append(known, key)
	}
	state.Retain(known)
	return state
}

// BuildForSession renders the tree with the session's toggle state.
func (s *NavigationService) BuildForSession(session, currentPath string) []navigation.Node {
	return s.Build(currentPath, s.State(session))
}

// Toggle flips a group for a session and returns whether it is now open.
func (s *NavigationService) Toggle(session, key string) (bool, error) {
	if session == "" {
		return false, ErrSessionRequired
	}

	key = strings.Trim(strings.TrimSpace(key), "/")
	if !s.HasGroup(key) {
		return false, fmt.Errorf("%w: %q", ErrUnknownNavigationKey, key)
	}

	open, err := s.store.Toggle(session, key)
	if err != nil {
		return false, err
	}

	metrics.NavigationToggled(open)
	return open, nil
}

// SweepStates prunes expired session state.
func (s *NavigationService) SweepStates() int {
	return s.store.Sweep()
}
