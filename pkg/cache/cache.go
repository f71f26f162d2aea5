package cache

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/go-redis/redis/v8"
	"github.com/goccy/go-json"
)

const (
	// defaultOperationTimeout is the timeout for individual Redis operations
	defaultOperationTimeout = 5 * time.Second

	navigationStatePrefix = "nav:state:"
)

var (
	ErrCacheMiss     = errors.New("key not found")
	ErrCacheDisabled = errors.New("cache disabled")
)

type Cache struct {
	client  *redis.Client
	enabled bool
}

func NewCache(addr string, enable bool) (*Cache, error) {
	if !enable {
		return &Cache{enabled: false}, nil
	}

	client := redis.NewClient(&redis.Options{
		Addr:         addr,
		Password:     "",
		DB:           0,
		PoolSize:     10,
		MinIdleConns: 2,
		DialTimeout:  5 * time.Second,
		ReadTimeout:  3 * time.Second,
		WriteTimeout: 3 * time.Second,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if _, err := client.Ping(ctx).Result(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("failed to connect to Redis: %w", err)
	}

	return &Cache{
		client:  client,
		enabled: true,
	}, nil
}

func (c *Cache) Enabled() bool {
	return c != nil && c.enabled
}

// operationContext creates a context with timeout for Redis operations
func (c *Cache) operationContext() (context.Context, context.CancelFunc) {
	return context.WithTimeout(context.Background(), defaultOperationTimeout)
}

func (c *Cache) Set(key string, value interface{}, expiration time.Duration) error {
	if !c.Enabled() {
		return nil
	}

	ctx, cancel := c.operationContext()
	defer cancel()

	jsonData, err := json.Marshal(value)
	if err != nil {
		return err
	}
	return c.client.Set(ctx, key, jsonData, expiration).Err()
}

func (c *Cache) Get(key string, dest interface{}) error {
	if !c.Enabled() {
		return ErrCacheDisabled
	}

	ctx, cancel := c.operationContext()
	defer cancel()

	val, err := c.client.Get(ctx, key).Result()
	if err == redis.Nil {
		return ErrCacheMiss
	} else if err != nil {
		return err
	}
	return json.Unmarshal([]byte(val), dest)
}

func (c *Cache) Delete(key string) error {
	if !c.Enabled() {
		return nil
	}

	ctx, cancel := c.operationContext()
	defer cancel()

	return c.client.Del(ctx, key).Err()
}

func (c *Cache) DeletePattern(pattern string) error {
	if !c.Enabled() {
		return nil
	}

	ctx, cancel := c.operationContext()
	defer cancel()

	iter := c.client.Scan(ctx, 0, pattern, 0).Iterator()
	for iter.Next(ctx) {
		if err := c.client.Del(ctx, iter.Val()).Err(); err != nil {
			return err
		}
	}
	return iter.Err()
}

func (c *Cache) Expire(key string, expiration time.Duration) error {
	if !c.Enabled() {
		return nil
	}

	ctx, cancel := c.operationContext()
	defer cancel()

	return c.client.Expire(ctx, key, expiration).Err()
}

func (c *Cache) Ping() error {
	if !c.Enabled() {
		return ErrCacheDisabled
	}

	ctx, cancel := c.operationContext()
	defer cancel()

	return c.client.Ping(ctx).Err()
}

func (c *Cache) Close() error {
	if !c.Enabled() {
		return nil
	}
	return c.client.Close()
}

func NavigationStateKey(session string) string {
	return navigationStatePrefix + session
}

// toggleNavigationScript flips one collapsed key in a session's set and
// refreshes the TTL in a single round trip. It returns 1 when the group is
// open afterwards.
var toggleNavigationScript = redis.NewScript(`
if redis.call("SREM", KEYS[1], ARGV[1]) == 1 then
	redis.call("PEXPIRE", KEYS[1], ARGV[2])
	return 1
end
redis.call("SADD", KEYS[1], ARGV[1])
redis.call("PEXPIRE", KEYS[1], ARGV[2])
return 0
`)

// CacheNavigationState replaces the collapsed set of a session.
func (c *Cache) CacheNavigationState(session string, collapsed []string, ttl time.Duration) error {
	if !c.Enabled() {
		return nil
	}

	ctx, cancel := c.operationContext()
	defer cancel()

	key := NavigationStateKey(session)
	_, err := c.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.Del(ctx, key)
		if len(collapsed) > 0 {
			members := make([]interface{}, len(collapsed))
			for i, value := range collapsed {
				members[i] = value
			}
			pipe.SAdd(ctx, key, members...)
			pipe.Expire(ctx, key, ttl)
		}
		return nil
	})
	return err
}

// GetNavigationState returns the collapsed keys of a session. A session
// with nothing collapsed has no key, which reads as an empty list.
func (c *Cache) GetNavigationState(session string) ([]string, error) {
	if !c.Enabled() {
		return nil, ErrCacheDisabled
	}

	ctx, cancel := c.operationContext()
	defer cancel()

	return c.client.SMembers(ctx, NavigationStateKey(session)).Result()
}

func (c *Cache) TouchNavigationState(session string, ttl time.Duration) error {
	return c.Expire(NavigationStateKey(session), ttl)
}

// ToggleNavigationState atomically flips key for a session and reports
// whether the group is open afterwards.
func (c *Cache) ToggleNavigationState(session, key string, ttl time.Duration) (bool, error) {
	if !c.Enabled() {
		return false, ErrCacheDisabled
	}

	ctx, cancel := c.operationContext()
	defer cancel()

	open, err := toggleNavigationScript.Run(ctx, c.client, []string{NavigationStateKey(session)}, key, ttl.Milliseconds()).Int()
	if err != nil {
		return false, fmt.Errorf("failed to toggle navigation state: %w", err)
	}
	return open == 1, nil
}

func (c *Cache) InvalidateNavigationState(session string) error {
	return c.Delete(NavigationStateKey(session))
}

func (c *Cache) InvalidateNavigationStates() error {
	return c.DeletePattern(navigationStatePrefix + "*")
}
