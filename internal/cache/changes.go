package cache

import (
	"context"
	"strconv"

	"github.com/redis/go-redis/v9"
)

// ChangesChannel carries the ID of a user whose tasks changed.
const ChangesChannel = "tasks:changed"

// Changes publishes task mutations so every process holding a session of
// that user re-evaluates its reminders.
type Changes struct {
	rdb *redis.Client
}

func NewChanges(rdb *redis.Client) *Changes {
	return &Changes{rdb: rdb}
}

func (c *Changes) PublishChanged(ctx context.Context, userID int64) error {
	return c.rdb.Publish(ctx, ChangesChannel, strconv.FormatInt(userID, 10)).Err()
}

// Listen calls fn with the user ID of every change until ctx is done.
// Malformed messages are skipped.
func (c *Changes) Listen(ctx context.Context, fn func(userID int64)) error {
	sub := c.rdb.Subscribe(ctx, ChangesChannel)
	defer sub.Close()
	if _, err := sub.Receive(ctx); err != nil {
		return err
	}
	ch := sub.Channel()
	for {
		select {
		case <-ctx.Done():
			return nil
		case msg, ok := <-ch:
			if !ok {
				return nil
			}
			id, err := strconv.ParseInt(msg.Payload, 10, 64)
			if err != nil {
				continue
			}
			fn(id)
		}
	}
}
