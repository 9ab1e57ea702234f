package redis

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"
)

var (
	client *redis.Client
	mu     sync.RWMutex

	pingClient = func(ctx context.Context, c *redis.Client) error {
		return c.Ping(ctx).Err()
	}
)

// ErrNotInitialized is returned by the helpers before Init or SetClient
var ErrNotInitialized = errors.New("redis client not initialized")

// Init initializes the Redis client
func Init(url, password string) error {
	opts, err := redis.ParseURL(url)
	if err != nil {
		return err
	}

	if password != "" {
		opts.Password = password
	}

	c := redis.NewClient(opts)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := pingClient(ctx, c); err != nil {
		_ = c.Close()
		return err
	}

	SetClient(c)
	return nil
}

// SetClient sets the Redis client (used for testing)
func SetClient(c *redis.Client) {
	mu.Lock()
	client = c
	mu.Unlock()
}

// GetClient returns the Redis client
func GetClient() *redis.Client {
	mu.RLock()
	defer mu.RUnlock()
	return client
}

// Close closes and forgets the client
func Close() error {
	mu.Lock()
	c := client
	client = nil
	mu.Unlock()
	if c == nil {
		return nil
	}
	return c.Close()
}

// IsMiss reports whether err is a missing-key reply
func IsMiss(err error) bool {
	return errors.Is(err, redis.Nil)
}

func current() (*redis.Client, error) {
	c := GetClient()
	if c == nil {
		return nil, ErrNotInitialized
	}
	return c, nil
}

// Set stores a key-value pair with expiration
func Set(ctx context.Context, key string, value interface{}, expiration time.Duration) error {
	c, err := current()
	if err != nil {
		return err
	}
	return c.Set(ctx, key, value, expiration).Err()
}

// Get retrieves a value by key
func Get(ctx context.Context, key string) (string, error) {
	c, err := current()
	if err != nil {
		return "", err
	}
	return c.Get(ctx, key).Result()
}

// Del removes a key
func Del(ctx context.Context, key string) error {
	c, err := current()
	if err != nil {
		return err
	}
	return c.Del(ctx, key).Err()
}

// SetNX sets a key only if it does not exist
func SetNX(ctx context.Context, key string, value interface{}, expiration time.Duration) (bool, error) {
	c, err := current()
	if err != nil {
		return false, err
	}
	return c.SetNX(ctx, key, value, expiration).Result()
}
