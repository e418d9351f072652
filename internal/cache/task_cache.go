package cache

import (
	"context"
	"encoding/json"
	"errors"
	"strconv"
	"strings"
	"time"

	dom "github.com/thinkeasyacademy/Dayplanner/internal/domain"

	"github.com/redis/go-redis/v9"
)

const (
	keyList   = "tasks:list:"
	keySearch = "tasks:search:"
)

// TaskCache caches per-user task lists and search results in Redis.
type TaskCache struct {
	rdb *redis.Client
	ttl time.Duration
}

// NewTaskCache returns a new TaskCache.
func NewTaskCache(rdb *redis.Client, ttl time.Duration) *TaskCache {
	return &TaskCache{rdb: rdb, ttl: ttl}
}

// GetList returns the cached task list of userID, or nil on a miss.
func (c *TaskCache) GetList(ctx context.Context, userID int64) ([]dom.Task, error) {
	return c.get(ctx, listKey(userID))
}

// SetList stores the task list of userID.
func (c *TaskCache) SetList(ctx context.Context, userID int64, list []dom.Task) error {
	return c.set(ctx, listKey(userID), list)
}

// GetSearch returns the cached result of query q, or nil on a miss.
func (c *TaskCache) GetSearch(ctx context.Context, userID int64, q string) ([]dom.Task, error) {
	return c.get(ctx, searchKey(userID, q))
}

// SetSearch stores the result of query q.
func (c *TaskCache) SetSearch(ctx context.Context, userID int64, q string, list []dom.Task) error {
	return c.set(ctx, searchKey(userID, q), list)
}

// InvalidateAll removes the list and every search key of userID.
func (c *TaskCache) InvalidateAll(ctx context.Context, userID int64) error {
	if err := c.rdb.Del(ctx, listKey(userID)).Err(); err != nil {
		return err
	}
	iter := c.rdb.Scan(ctx, 0, keySearch+strconv.FormatInt(userID, 10)+":*", 100).Iterator()
	for iter.Next(ctx) {
		if err := c.rdb.Del(ctx, iter.Val()).Err(); err != nil {
			return err
		}
	}
	return iter.Err()
}

func (c *TaskCache) get(ctx context.Context, key string) ([]dom.Task, error) {
	b, err := c.rdb.Get(ctx, key).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	list := []dom.Task{}
	if err := json.Unmarshal(b, &list); err != nil {
		return nil, err
	}
	return list, nil
}

func (c *TaskCache) set(ctx context.Context, key string, list []dom.Task) error {
	if list == nil {
		list = []dom.Task{}
	}
	b, err := json.Marshal(list)
	if err != nil {
		return err
	}
	return c.rdb.Set(ctx, key, b, c.ttl).Err()
}

func listKey(userID int64) string {
	return keyList + strconv.FormatInt(userID, 10)
}

func searchKey(userID int64, q string) string {
	return keySearch + strconv.FormatInt(userID, 10) + ":" + NormalizeQuery(q)
}

// NormalizeQuery is the cache identity of a search query.
func NormalizeQuery(q string) string {
	return strings.TrimSpace(strings.ToLower(q))
}
