package cache

import (
	"context"
	"fmt"
	"net/url"
	"strconv"
	"time"

	"github.com/valkey-io/valkey-go"
)

// KeyPrefix namespaces every key this service writes to a shared Valkey
const KeyPrefix = "jukejam:"

// valkeyCache implements Cache interface using Valkey
type valkeyCache struct {
	client valkey.Client
}

// NewValkeyCache connects to valkeyURL and verifies the connection with a PING
func NewValkeyCache(valkeyURL string) (Cache, error) {
	opt, err := parseValkeyURL(valkeyURL)
	if err != nil {
		return nil, fmt.Errorf("failed to parse Valkey URL: %w", err)
	}

	client, err := valkey.NewClient(opt)
	if err != nil {
		return nil, fmt.Errorf("failed to create Valkey client: %w", err)
	}

	c := &valkeyCache{client: client}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := c.Health(ctx); err != nil {
		client.Close()
		return nil, fmt.Errorf("failed to connect to Valkey: %w", err)
	}

	return c, nil
}

// Get retrieves a value from Valkey
func (c *valkeyCache) Get(ctx context.Context, key string) ([]byte, error) {
	result := c.client.Do(ctx, c.client.B().Get().Key(KeyPrefix+key).Build())
	data, err := result.AsBytes()
	if err != nil {
		if valkey.IsValkeyNil(err) {
			return nil, nil
		}
		return nil, &CacheError{Operation: "get", Key: key, Err: err}
	}
	return data, nil
}

// Set stores a value in Valkey with expiration
func (c *valkeyCache) Set(ctx context.Context, key string, value []byte, expiration time.Duration) error {
	var cmd valkey.Completed
	if expiration > 0 {
		cmd = c.client.B().Set().Key(KeyPrefix + key).Value(valkey.BinaryString(value)).Ex(expiration).Build()
	} else {
		cmd = c.client.B().Set().Key(KeyPrefix + key).Value(valkey.BinaryString(value)).Build()
	}

	if err := c.client.Do(ctx, cmd).Error(); err != nil {
		return &CacheError{Operation: "set", Key: key, Err: err}
	}
	return nil
}

// Delete removes a key from Valkey
func (c *valkeyCache) Delete(ctx context.Context, key string) error {
	if err := c.client.Do(ctx, c.client.B().Del().Key(KeyPrefix+key).Build()).Error(); err != nil {
		return &CacheError{Operation: "delete", Key: key, Err: err}
	}
	return nil
}

// Exists checks if a key exists in Valkey
func (c *valkeyCache) Exists(ctx context.Context, key string) (bool, error) {
	count, err := c.client.Do(ctx, c.client.B().Exists().Key(KeyPrefix+key).Build()).AsInt64()
	if err != nil {
		return false, &CacheError{Operation: "exists", Key: key, Err: err}
	}
	return count > 0, nil
}

// Close closes the Valkey connection
func (c *valkeyCache) Close() error {
	c.client.Close()
	return nil
}

// Health checks Valkey health
func (c *valkeyCache) Health(ctx context.Context) error {
	if err := c.client.Do(ctx, c.client.B().Ping().Build()).Error(); err != nil {
		return fmt.Errorf("valkey health check failed: %w", err)
	}
	return nil
}

// parseValkeyURL turns redis://[:password@]host:port[/db] into client options
func parseValkeyURL(valkeyURL string) (valkey.ClientOption, error) {
	u, err := url.Parse(valkeyURL)
	if err != nil {
		return valkey.ClientOption{}, fmt.Errorf("invalid URL format: %w", err)
	}
	if u.Host == "" {
		return valkey.ClientOption{}, fmt.Errorf("missing host in URL")
	}

	opt := valkey.ClientOption{InitAddress: []string{u.Host}}
	if u.User != nil {
		opt.Username = u.User.Username()
		opt.Password, _ = u.User.Password()
	}
	if db := u.Path; len(db) > 1 {
		n, err := strconv.Atoi(db[1:])
		if err != nil {
			return valkey.ClientOption{}, fmt.Errorf("invalid database index %q", db[1:])
		}
		opt.SelectDB = n
	}
	return opt, nil
}

// MultiLevelCache serves reads from an in-memory L1 before falling back to a shared L2
type MultiLevelCache struct {
	l1    *MemoryCache
	l2    Cache
	l1TTL time.Duration
}

// NewMultiLevelCache layers a bounded memory cache over l2.
// L1 entries live at most l1TTL so peers' writes become visible.
func NewMultiLevelCache(l2 Cache, l1MaxItems int, l1TTL time.Duration) *MultiLevelCache {
	return &MultiLevelCache{
		l1:    NewMemoryCache(l1MaxItems),
		l2:    l2,
		l1TTL: l1TTL,
	}
}

// New returns a memory-only cache when valkeyURL is empty, else Valkey behind an L1
func New(valkeyURL string, l1MaxItems int) (Cache, error) {
	if valkeyURL == "" {
		return NewMemoryCache(l1MaxItems), nil
	}
	l2, err := NewValkeyCache(valkeyURL)
	if err != nil {
		return nil, err
	}
	return NewMultiLevelCache(l2, l1MaxItems, time.Minute), nil
}

// Get retrieves from L1 first, then L2
func (c *MultiLevelCache) Get(ctx context.Context, key string) ([]byte, error) {
	if data, _ := c.l1.Get(ctx, key); data != nil {
		return data, nil
	}

	data, err := c.l2.Get(ctx, key)
	if err != nil {
		return nil, err
	}
	if data != nil {
		_ = c.l1.Set(ctx, key, data, c.l1TTL)
	}
	return data, nil
}

// Set stores in L2 and then L1
func (c *MultiLevelCache) Set(ctx context.Context, key string, value []byte, expiration time.Duration) error {
	if err := c.l2.Set(ctx, key, value, expiration); err != nil {
		return err
	}

	l1Expiration := c.l1TTL
	if expiration > 0 && expiration < l1Expiration {
		l1Expiration = expiration
	}
	return c.l1.Set(ctx, key, value, l1Expiration)
}

// Delete removes from both levels
func (c *MultiLevelCache) Delete(ctx context.Context, key string) error {
	_ = c.l1.Delete(ctx, key)
	return c.l2.Delete(ctx, key)
}

// Exists checks both levels
func (c *MultiLevelCache) Exists(ctx context.Context, key string) (bool, error) {
	if ok, _ := c.l1.Exists(ctx, key); ok {
		return true, nil
	}
	return c.l2.Exists(ctx, key)
}

// Close closes L2 connection
func (c *MultiLevelCache) Close() error {
	_ = c.l1.Close()
	return c.l2.Close()
}

// Health checks L2 health
func (c *MultiLevelCache) Health(ctx context.Context) error {
	return c.l2.Health(ctx)
}
