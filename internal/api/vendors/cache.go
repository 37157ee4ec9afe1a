package vendors

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"jessica-sub/internal/common/errors"
	"jessica-sub/internal/common/logger"
	"jessica-sub/internal/common/metrics"

	"github.com/redis/go-redis/v9"
)

const (
	cacheKeyPrefix   = "vendors:"
	versionKeyPrefix = "vendors_version:"

	// versionTTL must outlive any single List read.
	versionTTL = time.Hour
)

func cacheKey(userID string) string {
	return cacheKeyPrefix + userID
}

func versionKey(userID string) string {
	return versionKeyPrefix + userID
}

// storeIfCurrentScript writes the list only when the user's version still
// matches the one seen before the database read.
const storeIfCurrentScript = `
local v = redis.call('GET', KEYS[2])
if (v or '') ~= ARGV[1] then
	return 0
end
redis.call('SET', KEYS[1], ARGV[2], 'PX', ARGV[3])
return 1`

const invalidateScript = `
redis.call('INCR', KEYS[2])
redis.call('PEXPIRE', KEYS[2], ARGV[1])
return redis.call('DEL', KEYS[1])`

// vendorCache keeps each user's vendor list in Redis. Every failure is
// logged and treated as a miss; the database stays the source of truth.
//
// Each invalidation bumps a per-user version, and a list read from the
// database is stored only if the version has not moved since the miss.
type vendorCache struct {
	client redis.Cmdable
	ttl    time.Duration
	logger logger.Logger
}

func newVendorCache(client redis.Cmdable, ttl time.Duration, log logger.Logger) *vendorCache {
	return &vendorCache{client: client, ttl: ttl, logger: log}
}

func (c *vendorCache) enabled() bool {
	return c != nil && c.client != nil && c.ttl > 0
}

// cacheVersion is the per-user version observed on a miss. A zero value
// never allows a store.
type cacheVersion struct {
	value string
	ok    bool
}

// get returns the cached list, or on a miss the version to pass to set.
func (c *vendorCache) get(ctx context.Context, userID string) ([]Vendor, cacheVersion, bool) {
	if !c.enabled() {
		return nil, cacheVersion{}, false
	}

	vals, err := c.client.MGet(ctx, cacheKey(userID), versionKey(userID)).Result()
	if err != nil {
		c.warn("Vendor cache read failed", userID, errors.NewCacheUnavailableError(err))
		return nil, cacheVersion{}, false
	}
	if len(vals) != 2 {
		c.warn("Vendor cache read failed", userID, fmt.Errorf("unexpected MGET reply of %d values", len(vals)))
		return nil, cacheVersion{}, false
	}

	version, _ := vals[1].(string)
	val, found := vals[0].(string)
	if !found {
		metrics.VendorCacheLookups.WithLabelValues("miss").Inc()
		return nil, cacheVersion{value: version, ok: true}, false
	}

	var list []Vendor
	if err := json.Unmarshal([]byte(val), &list); err != nil {
		c.warn("Vendor cache entry unreadable", userID, err)
		return nil, cacheVersion{value: version, ok: true}, false
	}

	metrics.VendorCacheLookups.WithLabelValues("hit").Inc()
	return list, cacheVersion{}, true
}

// set stores the list unless the user's vendors were invalidated after
// the miss that produced version.
func (c *vendorCache) set(ctx context.Context, userID string, version cacheVersion, list []Vendor) {
	if !c.enabled() || !version.ok {
		return
	}

	data, err := json.Marshal(list)
	if err != nil {
		c.warn("Vendor cache encode failed", userID, err)
		return
	}

	stored, err := c.client.Eval(ctx, storeIfCurrentScript,
		[]string{cacheKey(userID), versionKey(userID)},
		version.value, string(data), c.ttl.Milliseconds()).Int()
	if err != nil {
		c.warn("Vendor cache write failed", userID, errors.NewCacheUnavailableError(err))
		return
	}
	if stored == 0 {
		c.logger.Debug("Vendor list changed during read, not cached", map[string]interface{}{
			"userId": userID,
		})
	}
}

func (c *vendorCache) invalidate(ctx context.Context, userID string) {
	if !c.enabled() {
		return
	}
	err := c.client.Eval(ctx, invalidateScript,
		[]string{cacheKey(userID), versionKey(userID)},
		versionTTL.Milliseconds()).Err()
	if err != nil {
		c.warn("Vendor cache invalidation failed", userID, errors.NewCacheUnavailableError(err))
	}
}

func (c *vendorCache) warn(msg, userID string, err error) {
	metrics.VendorCacheLookups.WithLabelValues("error").Inc()
	c.logger.Warn(msg, map[string]interface{}{
		"userId": userID,
		"error":  err.Error(),
	})
}
