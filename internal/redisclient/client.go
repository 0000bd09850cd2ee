package redisclient

import (
	"context"
	_ "embed"
	"fmt"
	"time"

	"github.com/go-redis/redis/v8"
)

//go:embed scripts/apply_stock_delta.lua
var applyStockDeltaScript string

// Dashboard counters are kept for a few days; the durable numbers live in
// Postgres and are recomputed by the report queries.
const dashboardTTL = 72 * time.Hour

type Client struct {
	rdb         *redis.Client
	deltaScript *redis.Script
}

// NewClient creates a new Redis client with the stock delta script loaded
func NewClient(addr, password string, db int) (*Client, error) {
	rdb := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       db,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := rdb.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("redis ping failed: %w", err)
	}

	return &Client{
		rdb:         rdb,
		deltaScript: redis.NewScript(applyStockDeltaScript),
	}, nil
}

// GetClient returns the underlying Redis client
func (c *Client) GetClient() *redis.Client {
	return c.rdb
}

// Close closes the Redis connection
func (c *Client) Close() error {
	return c.rdb.Close()
}

func stockKey(locationID, variantID int64) string {
	return fmt.Sprintf("stock:%d:%d", locationID, variantID)
}

// InitStock seeds the cached available quantity for a (variant, location)
func (c *Client) InitStock(ctx context.Context, locationID, variantID int64, quantity int) error {
	return c.rdb.Set(ctx, stockKey(locationID, variantID), quantity, 0).Err()
}

// ApplyStockDelta atomically applies a signed delta to a cached quantity.
// Returns the new quantity and false when the pair is not cached yet, in
// which case the caller should reseed from the database.
func (c *Client) ApplyStockDelta(ctx context.Context, locationID, variantID int64, delta int) (int, bool, error) {
	result, err := c.deltaScript.Run(ctx, c.rdb, []string{stockKey(locationID, variantID)}, delta).Result()
	if err != nil {
		return 0, false, fmt.Errorf("stock delta script failed: %w", err)
	}

	qty, ok := result.(int64)
	if !ok {
		return 0, false, fmt.Errorf("unexpected script result type %T", result)
	}
	if qty < 0 {
		return 0, false, nil
	}
	return int(qty), true, nil
}

// GetStock reads the cached available quantity. The second return value is
// false on a cache miss.
func (c *Client) GetStock(ctx context.Context, locationID, variantID int64) (int, bool, error) {
	qty, err := c.rdb.Get(ctx, stockKey(locationID, variantID)).Int()
	if err == redis.Nil {
		return 0, false, nil
	}
	if err != nil {
		return 0, false, err
	}
	return qty, true, nil
}

func dashboardKey(tenantID, locationID int64, day string) string {
	return fmt.Sprintf("dash:%d:%d:%s", tenantID, locationID, day)
}

// IncrDashboard updates the live daily counters for a location. Negative
// deltas are applied when a sale is voided.
func (c *Client) IncrDashboard(ctx context.Context, tenantID, locationID int64, day string, saleDelta int64, revenueDeltaCents int64) error {
	key := dashboardKey(tenantID, locationID, day)

	pipe := c.rdb.Pipeline()
	pipe.HIncrBy(ctx, key, "sales", saleDelta)
	pipe.HIncrBy(ctx, key, "revenue_cents", revenueDeltaCents)
	pipe.Expire(ctx, key, dashboardTTL)

	_, err := pipe.Exec(ctx)
	return err
}

// GetDashboard reads the live daily counters for a location. Returns zeros
// when nothing has been recorded for the day.
func (c *Client) GetDashboard(ctx context.Context, tenantID, locationID int64, day string) (sales int64, revenueCents int64, err error) {
	result, err := c.rdb.HGetAll(ctx, dashboardKey(tenantID, locationID, day)).Result()
	if err != nil {
		return 0, 0, err
	}
	if len(result) == 0 {
		return 0, 0, nil
	}

	fmt.Sscanf(result["sales"], "%d", &sales)
	fmt.Sscanf(result["revenue_cents"], "%d", &revenueCents)
	return sales, revenueCents, nil
}
