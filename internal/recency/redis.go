package recency

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"
)

// Redis stores plays in one sorted set per channel, scored by unix seconds.
// The set is trimmed to the window on every write so it stays bounded.
type Redis struct {
	rdb    *redis.Client
	window time.Duration
}

var _ Store = (*Redis)(nil)

func NewRedis(address, username, password string, window time.Duration) *Redis {
	rdb := redis.NewClient(&redis.Options{
		Addr:     address,
		Username: username,
		Password: password,
		DB:       0,
	})
	return &Redis{rdb: rdb, window: window}
}

func key(channelID int) string {
	return fmt.Sprintf("recency:%d", channelID)
}

func (r *Redis) MarkPlayed(ctx context.Context, channelID int, itemIDs []string, at time.Time) error {
	if len(itemIDs) == 0 {
		return nil
	}
	members := make([]redis.Z, 0, len(itemIDs))
	for _, id := range itemIDs {
		members = append(members, redis.Z{Score: float64(at.Unix()), Member: id})
	}
	k := key(channelID)
	pipe := r.rdb.Pipeline()
	pipe.ZAdd(ctx, k, members...)
	pipe.ZRemRangeByScore(ctx, k, "0", fmt.Sprint(at.Add(-r.window).Unix()))
	pipe.Expire(ctx, k, r.window*2)
	if _, err := pipe.Exec(ctx); err != nil {
		log.Error().Err(err).Int("channel_id", channelID).Msg("recency: mark played failed")
		return err
	}
	return nil
}

func (r *Redis) RecentlyPlayed(ctx context.Context, channelID int, since time.Time) (map[string]bool, error) {
	ids, err := r.rdb.ZRangeByScore(ctx, key(channelID), &redis.ZRangeBy{
		Min: fmt.Sprint(since.Unix()),
		Max: "+inf",
	}).Result()
	if err != nil {
		log.Error().Err(err).Int("channel_id", channelID).Msg("recency: range query failed")
		return nil, err
	}
	out := make(map[string]bool, len(ids))
	for _, id := range ids {
		out[id] = true
	}
	return out, nil
}
