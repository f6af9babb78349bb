package redis

import (
	"context"
	"encoding/json"
	"math/rand"
	"time"

	"github.com/redis/go-redis/v9"
	"golang.org/x/sync/singleflight"

	"transparency-service/internal/app"
	"transparency-service/internal/domain"
)

// ReportCache serves report reads from Redis and falls back to the store on
// a miss. A report is cached as its JSON payload under report:{productID}.
type ReportCache struct {
	client *redis.Client
	store  app.ReportReader
	ttl    time.Duration
	sf     singleflight.Group
	rnd    *rand.Rand
}

func NewReportCache(client *redis.Client, store app.ReportReader, ttl time.Duration) *ReportCache {
	return &ReportCache{
		client: client,
		store:  store,
		ttl:    ttl,
		rnd:    rand.New(rand.NewSource(time.Now().UnixNano())),
	}
}

func (c *ReportCache) GetReport(ctx context.Context, productID string) (domain.Report, error) {
	if report, ok := c.cached(ctx, productID); ok {
		return report, nil
	}

	result, err, _ := c.sf.Do(productID, func() (interface{}, error) {
		// Re-check in case another goroutine filled the cache.
		if report, ok := c.cached(ctx, productID); ok {
			return report, nil
		}

		report, err := c.store.GetReport(ctx, productID)
		if err != nil {
			return domain.Report{}, err
		}

		if data, err := json.Marshal(report); err == nil {
			_ = c.client.Set(ctx, c.key(productID), data, c.ttlWithJitter()).Err()
		}
		return report, nil
	})
	if err != nil {
		return domain.Report{}, err
	}
	return result.(domain.Report), nil
}

// Invalidate drops the cached report after a recompute supersedes it.
func (c *ReportCache) Invalidate(ctx context.Context, productID string) error {
	return c.client.Del(ctx, c.key(productID)).Err()
}

func (c *ReportCache) cached(ctx context.Context, productID string) (domain.Report, bool) {
	raw, err := c.client.Get(ctx, c.key(productID)).Bytes()
	if err != nil {
		return domain.Report{}, false
	}
	var report domain.Report
	if err := json.Unmarshal(raw, &report); err != nil {
		return domain.Report{}, false
	}
	return report, true
}

func (c *ReportCache) key(productID string) string {
	return "report:" + productID
}

// ttlWithJitter adds up to 10% jitter to spread expirations.
func (c *ReportCache) ttlWithJitter() time.Duration {
	if c.ttl <= 0 {
		return 0
	}
	jitterMax := int64(c.ttl) / 10
	return c.ttl + time.Duration(c.rnd.Int63n(jitterMax+1))
}
