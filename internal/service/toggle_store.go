package service

import (
	"errors"
	"fmt"
	"sync"
	"time"

	"checkit-dashboard/internal/metrics"
	"checkit-dashboard/pkg/cache"
	"checkit-dashboard/pkg/navigation"
)

var ErrStateStoreUnavailable = errors.New("navigation state store unavailable")

// ToggleStore keeps the per-session open/closed flags of navigation groups.
type ToggleStore interface {
	Load(session string) (*navigation.ToggleState, error)
	Save(session string, state *navigation.ToggleState) error
	// Toggle flips one group for a session as a single atomic step and
	// reports whether the group is open afterwards.
	Toggle(session, key string) (bool, error)
	Sweep() int
}

type memorySession struct {
	state    *navigation.ToggleState
	lastSeen time.Time
}

type MemoryToggleStore struct {
	mu       sync.Mutex
	ttl      time.Duration
	sessions map[string]*memorySession
	now      func() time.Time
}

func NewMemoryToggleStore(ttl time.Duration) *MemoryToggleStore {
	if ttl <= 0 {
		ttl = 24 * time.Hour
	}
	return &MemoryToggleStore{
		ttl:      ttl,
		sessions: make(map[string]*memorySession),
		now:      time.Now,
	}
}

func (s *MemoryToggleStore) Load(session string) (*navigation.ToggleState, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if entry, ok := s.sessions[session]; ok {
		entry.lastSeen = s.now()
		return entry.state, nil
	}
	return navigation.NewToggleState(), nil
}

func (s *MemoryToggleStore) Save(session string, state *navigation.ToggleState) error {
	if session == "" {
		return errors.New("session is required")
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	s.sessions[session] = &memorySession{state: state, lastSeen: s.now()}
	metrics.SetToggleSessions(len(s.sessions))
	return nil
}

func (s *MemoryToggleStore) Toggle(session, key string) (bool, error) {
	if session == "" {
		return false, errors.New("session is required")
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	entry, ok := s.sessions[session]
	if !ok {
		entry = &memorySession{state: navigation.NewToggleState()}
		s.sessions[session] = entry
		metrics.SetToggleSessions(len(s.sessions))
	}
	entry.lastSeen = s.now()
	return entry.state.Toggle(key), nil
}

// Sweep drops sessions not seen within the TTL and returns how many were removed.
func (s *MemoryToggleStore) Sweep() int {
	s.mu.Lock()
	defer s.mu.Unlock()

	removed := 0
	cutoff := s.now().Add(-s.ttl)
	for session, entry := range s.sessions {
		if entry.lastSeen.Before(cutoff) {
			delete(s.sessions, session)
			removed++
		}
	}
	metrics.SetToggleSessions(len(s.sessions))
	return removed
}

func (s *MemoryToggleStore) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.sessions)
}

type navigationStateCache interface {
	CacheNavigationState(session string, collapsed []string, ttl time.Duration) error
	GetNavigationState(session string) ([]string, error)
	TouchNavigationState(session string, ttl time.Duration) error
	ToggleNavigationState(session, key string, ttl time.Duration) (bool, error)
}

var _ navigationStateCache = (*cache.Cache)(nil)

// RedisToggleStore stores the collapsed keys of each session in Redis. Expiry
// is delegated to key TTLs, so Sweep has nothing to do.
type RedisToggleStore struct {
	cache navigationStateCache
	ttl   time.Duration
}

func NewRedisToggleStore(c navigationStateCache, ttl time.Duration) *RedisToggleStore {
	if ttl <= 0 {
		ttl = 24 * time.Hour
	}
	return &RedisToggleStore{cache: c, ttl: ttl}
}

func (s *RedisToggleStore) Load(session string) (*navigation.ToggleState, error) {
	collapsed, err := s.cache.GetNavigationState(session)
	if err != nil {
		if errors.Is(err, cache.ErrCacheMiss) {
			return navigation.NewToggleState(), nil
		}
		return nil, fmt.Errorf("%w: %v", ErrStateStoreUnavailable, err)
	}

	if err := s.cache.TouchNavigationState(session, s.ttl); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrStateStoreUnavailable, err)
	}
	return navigation.NewToggleState(collapsed...), nil
}

func (s *RedisToggleStore) Save(session string, state *navigation.ToggleState) error {
	if session == "" {
		return errors.New("session is required")
	}
	if err := s.cache.CacheNavigationState(session, state.Collapsed(), s.ttl); err != nil {
		return fmt.Errorf("%w: %v", ErrStateStoreUnavailable, err)
	}
	return nil
}

func (s *RedisToggleStore) Toggle(session, key string) (bool, error) {
	if session == "" {
		return false, errors.New("session is required")
	}
	open, err := s.cache.ToggleNavigationState(session, key, s.ttl)
	if err != nil {
		return false, fmt.Errorf("%w: %v", ErrStateStoreUnavailable, err)
	}
	return open, nil
}

func (s *RedisToggleStore) Sweep() int {
	return 0
}
