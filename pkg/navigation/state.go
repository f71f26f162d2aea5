package navigation

import (
	"sort"
	"sync"
)

// ToggleState holds the open/closed flags of collapsible nodes. Every key is
// open until toggled. The zero value is ready to use.
type ToggleState struct {
	mu        sync.RWMutex
	collapsed map[string]struct{}
}

func NewToggleState(collapsed ...string) *ToggleState {
	s := &ToggleState{}
	for _, key := range collapsed {
		s.SetOpen(key, false)
	}
	return s
}

func (s *ToggleState) IsOpen(key string) bool {
	if s == nil {
		return true
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	_, closed := s.collapsed[key]
	return !closed
}

// Toggle flips the flag for key and returns whether the node is now open.
func (s *ToggleState) Toggle(key string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, closed := s.collapsed[key]; closed {
		delete(s.collapsed, key)
		return true
	}
	if s.collapsed == nil {
		s.collapsed = make(map[string]struct{})
	}
	s.collapsed[key] = struct{}{}
	return false
}

func (s *ToggleState) SetOpen(key string, open bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if open {
		delete(s.collapsed, key)
		return
	}
	if s.collapsed == nil {
		s.collapsed = make(map[string]struct{})
	}
	s.collapsed[key] = struct{}{}
}

// Collapsed returns the sorted keys of closed nodes.
func (s *ToggleState) Collapsed() []string {
	if s == nil {
		return nil
	}
	s.mu.RLock()
	defer s.mu.RUnlock()

	keys := make([]string, 0, len(s.collapsed))
	for key := range s.collapsed {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	return keys
}

// Retain drops flags whose key is not in known, which happens after the
// configuration is reloaded and a group disappears.
func (s *ToggleState) Retain(known []string) int {
	allowed := make(map[string]struct{}, len(known))
	for _, key := range known {
		allowed[key] = struct{}{}
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	removed := 0
	for key := range s.collapsed {
		if _, ok := allowed[key]; !ok {
			delete(s.collapsed, key)
			removed++
		}
	}
	return removed
}
