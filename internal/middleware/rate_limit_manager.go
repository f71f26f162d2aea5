package middleware

import (
	"context"
	"sync"
	"time"

	"golang.org/x/time/rate"
)

const visitorIdleTimeout = 3 * time.Minute

// RateLimitManager owns the per-IP limiters and evicts idle ones in the
// background until Shutdown is called.
type RateLimitManager struct {
	visitors   map[string]*visitor
	visitorsMu sync.Mutex
	now        func() time.Time
	ctx        context.Context
	cancel     context.CancelFunc
	wg         sync.WaitGroup
}

func NewRateLimitManager(ctx context.Context) *RateLimitManager {
	managerCtx, cancel := context.WithCancel(ctx)

	m := &RateLimitManager{
		visitors: make(map[string]*visitor),
		now:      time.Now,
		ctx:      managerCtx,
		cancel:   cancel,
	}

	m.wg.Add(1)
	go m.cleanupLoop()

	return m
}

// GetVisitor retrieves or creates the limiter for ip. A non-positive request
// budget disables limiting and returns nil.
func (m *RateLimitManager) GetVisitor(ip string, requestsPerWindow int, windowSeconds int, burst int) *rate.Limiter {
	if requestsPerWindow <= 0 {
		return nil
	}

	m.visitorsMu.Lock()
	defer m.visitorsMu.Unlock()

	if v, exists := m.visitors[ip]; exists {
		v.lastSeen = m.now()
		return v.limiter
	}

	if windowSeconds <= 0 {
		windowSeconds = 60
	}
	if burst < requestsPerWindow {
		burst = requestsPerWindow
	}

	limit := rate.Limit(float64(requestsPerWindow) / float64(windowSeconds))
	limiter := rate.NewLimiter(limit, burst)
	m.visitors[ip] = &visitor{limiter: limiter, lastSeen: m.now()}
	return limiter
}

func (m *RateLimitManager) cleanupLoop() {
	defer m.wg.Done()

	ticker := time.NewTicker(time.Minute)
	defer ticker.Stop()

	for {
		select {
		case <-m.ctx.Done():
			return
		case <-ticker.C:
			m.cleanup()
		}
	}
}

func (m *RateLimitManager) cleanup() int {
	m.visitorsMu.Lock()
	defer m.visitorsMu.Unlock()

	removed := 0
	for ip, v := range m.visitors {
		if m.now().Sub(v.lastSeen) > visitorIdleTimeout {
			delete(m.visitors, ip)
			removed++
		}
	}
	return removed
}

// Shutdown stops the cleanup goroutine and waits for it to finish.
func (m *RateLimitManager) Shutdown() error {
	m.cancel()
	m.wg.Wait()
	return nil
}
