// Package cache is a Redis read cache for the listings feed. It stores the
// serialized response per audience (public vs admin) and is invalidated by
// every mutation that can change what a feed returns.
package cache

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"
)

const (
	AudiencePublic = "public"
	AudienceAdmin  = "admin"
)

// Miss is returned by Get when the key is absent.
var Miss = redis.Nil

type ListingCache struct {
	client *redis.Client
	ttl    time.Duration
	logger *logrus.Logger
}

func New(addr string, ttl time.Duration, logger *logrus.Logger) (*ListingCache, error) {
	client := redis.NewClient(&redis.Options{Addr: addr})

	if _, err := client.Ping(context.Background()).Result(); err != nil {
		return nil, fmt.Errorf("redis unreachable at %s: %w", addr, err)
	}

	return &ListingCache{client: client, ttl: ttl, logger: logger}, nil
}

func listingsKey(audience string) string {
	return "listings:" + audience
}

// GetListings returns the cached feed for an audience, or Miss.
func (c *ListingCache) GetListings(ctx context.Context, audience string) ([]byte, error) {
	data, err := c.client.Get(ctx, listingsKey(audience)).Bytes()
	if err != nil {
		return nil, err
	}
	return data, nil
}

// PutListings stores a serialized feed with the configured TTL.
func (c *ListingCache) PutListings(ctx context.Context, audience string, payload []byte) error {
	err := c.client.Set(ctx, listingsKey(audience), payload, c.ttl).Err()
	if err != nil {
		c.logger.WithError(err).Warn("Failed to cache listings feed")
	}
	return err
}

// Invalidate drops every cached feed. Called after any listing or payment
// mutation.
func (c *ListingCache) Invalidate(ctx context.Context) {
	keys := []string{listingsKey(AudiencePublic), listingsKey(AudienceAdmin)}
	if err := c.client.Del(ctx, keys...).Err(); err != nil {
		c.logger.WithError(err).Warn("Failed to invalidate listings cache")
	}
}

func (c *ListingCache) Close() error {
	return c.client.Close()
}
