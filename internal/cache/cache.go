package cache

import (
	"context"
	"errors"
	"sync"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
)

var (
	ErrMiss    = errors.New("key not found in cache")
	ErrExpired = errors.New("key expired in cache")
)

type Cache interface {
	Get(ctx context.Context, key string) (string, error)
	Set(ctx context.Context, key string, value string, ttl time.Duration) error
	Delete(ctx context.Context, key string) error
}

type cacheItem struct {
	value    string
	expireAt time.Time
}

type InMemoryCache struct {
	mu     sync.RWMutex
	items  map[string]*cacheItem
	tracer trace.Tracer
	done   chan struct{}
	once   sync.Once
}

func NewInMemoryCache() *InMemoryCache {
	return newInMemoryCache(time.Minute)
}

func newInMemoryCache(cleanupInterval time.Duration) *InMemoryCache {
	cache := &InMemoryCache{
		items:  make(map[string]*cacheItem),
		tracer: otel.Tracer("cache"),
		done:   make(chan struct{}),
	}

	go cache.cleanup(cleanupInterval)
	return cache
}

func (c *InMemoryCache) Get(ctx context.Context, key string) (string, error) {
	_, span := c.tracer.Start(ctx, "cache.get",
		trace.WithAttributes(
			attribute.String("cache.key", key),
			attribute.String("operation", "cache.read"),
		))
	defer span.End()

	c.mu.RLock()
	defer c.mu.RUnlock()

	item, exists := c.items[key]
	if !exists {
		span.SetAttributes(
			attribute.Bool("cache.hit", false),
			attribute.String("cache.result", "miss"),
		)
		return "", ErrMiss
	}

	if time.Now().After(item.expireAt) {
		span.SetAttributes(
			attribute.Bool("cache.hit", false),
			attribute.String("cache.result", "expired"),
		)
		return "", ErrExpired
	}

	span.SetAttributes(
		attribute.Bool("cache.hit", true),
		attribute.String("cache.result", "hit"),
	)
	return item.value, nil
}

func (c *InMemoryCache) Set(ctx context.Context, key string, value string, ttl time.Duration) error {
	_, span := c.tracer.Start(ctx, "cache.set",
		trace.WithAttributes(
			attribute.String("cache.key", key),
			attribute.String("operation", "cache.write"),
			attribute.String("ttl", ttl.String()),
		))
	defer span.End()

	c.mu.Lock()
	defer c.mu.Unlock()

	c.items[key] = &cacheItem{
		value:    value,
		expireAt: time.Now().Add(ttl),
	}

	span.SetAttributes(attribute.Bool("success", true))
	return nil
}

func (c *InMemoryCache) Delete(ctx context.Context, key string) error {
	_, span := c.tracer.Start(ctx, "cache.delete",
		trace.WithAttributes(
			attribute.String("cache.key", key),
			attribute.String("operation", "cache.write"),
		))
	defer span.End()

	c.mu.Lock()
	defer c.mu.Unlock()

	_, exists := c.items[key]
	delete(c.items, key)

	span.SetAttributes(
		attribute.Bool("key.existed", exists),
		attribute.Bool("success", true),
	)
	return nil
}

// Len counts stored entries, expired ones included until the next sweep.
func (c *InMemoryCache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.items)
}

// Close stops the background sweep. It is safe to call more than once.
func (c *InMemoryCache) Close() {
	c.once.Do(func() { close(c.done) })
}

func (c *InMemoryCache) cleanup(interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-c.done:
			return
		case <-ticker.C:
			c.sweep(time.Now())
		}
	}
}

func (c *InMemoryCache) sweep(now time.Time) {
	c.mu.Lock()
	defer c.mu.Unlock()

	for key, item := range c.items {
		if now.After(item.expireAt) {
			delete(c.items, key)
		}
	}
}

func SheetTitleKey(spreadsheetID string) string {
	return "sheet-title:" + spreadsheetID
}
