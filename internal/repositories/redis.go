package repositories

import (
	"context"
	"fmt"
	"time"

	"github.com/desertthunder/flicklog/internal/models"
	"github.com/desertthunder/flicklog/internal/shared"
	"github.com/redis/go-redis/v9"
)

// RedisStore implements [models.WatchlistStore] on Redis.
//
// Each watchlist is a sorted set scored by the time a title was added, so ZADD NX gives insert-or-ignore.
// Each profile link is a hash with "url" and "updated_at" fields.
type RedisStore struct {
	client *redis.Client
	prefix string
	now    func() time.Time
}

// NewRedisStore creates a new [RedisStore] using keys under prefix.
func NewRedisStore(client *redis.Client, prefix string) *RedisStore {
	if prefix == "" {
		prefix = "flicklog"
	}
	return &RedisStore{client: client, prefix: prefix, now: func() time.Time { return time.Now().UTC() }}
}

func (s *RedisStore) watchlistKey(userID string) string {
	return fmt.Sprintf("%s:watchlist:%s", s.prefix, userID)
}

func (s *RedisStore) profileKey(userID string) string {
	return fmt.Sprintf("%s:profile:%s", s.prefix, userID)
}

// AddEntry adds a title unless it is already a member of the user's set.
func (s *RedisStore) AddEntry(ctx context.Context, userID, title string) (bool, error) {
	member := redis.Z{Score: float64(s.now().UnixMicro()), Member: title}
	added, err := s.client.ZAddNX(ctx, s.watchlistKey(userID), member).Result()
	if err != nil {
		return false, fmt.Errorf("failed to add watchlist entry: %w", err)
	}
	return added > 0, nil
}

// AddEntries adds all titles in one MULTI/EXEC transaction.
func (s *RedisStore) AddEntries(ctx context.Context, userID string, titles []string) (int, error) {
	if len(titles) == 0 {
		return 0, nil
	}

	key := s.watchlistKey(userID)
	base := s.now().UnixMicro()
	cmds := make([]*redis.IntCmd, 0, len(titles))

	_, err := s.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		for i, title := range titles {
			cmds = append(cmds, pipe.ZAddNX(ctx, key, redis.Z{Score: float64(base + int64(i)), Member: title}))
		}
		return nil
	})
	if err != nil {
		return 0, fmt.Errorf("failed to add watchlist batch: %w", err)
	}

	added := 0
	for _, cmd := range cmds {
		added += int(cmd.Val())
	}
	return added, nil
}

// RemoveEntry removes the exact title from the user's set.
func (s *RedisStore) RemoveEntry(ctx context.Context, userID, title string) (bool, error) {
	removed, err := s.client.ZRem(ctx, s.watchlistKey(userID), title).Result()
	if err != nil {
		return false, fmt.Errorf("failed to remove watchlist entry: %w", err)
	}
	return removed > 0, nil
}

// ListEntries returns a user's entries ordered by time added.
func (s *RedisStore) ListEntries(ctx context.Context, userID string) ([]models.WatchlistEntry, error) {
	members, err := s.client.ZRangeWithScores(ctx, s.watchlistKey(userID), 0, -1).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to list watchlist: %w", err)
	}

	entries := make([]models.WatchlistEntry, 0, len(members))
	for _, m := range members {
		title, ok := m.Member.(string)
		if !ok {
			continue
		}
		entries = append(entries, models.WatchlistEntry{
			UserID:  userID,
			Title:   title,
			AddedAt: time.UnixMicro(int64(m.Score)).UTC(),
		})
	}
	return entries, nil
}

// UpsertLink overwrites the user's profile hash.
func (s *RedisStore) UpsertLink(ctx context.Context, userID, url string) error {
	err := s.client.HSet(ctx, s.profileKey(userID), map[string]any{
		"url":        url,
		"updated_at": s.now().Format(time.RFC3339Nano),
	}).Err()
	if err != nil {
		return fmt.Errorf("failed to upsert profile link: %w", err)
	}
	return nil
}

// GetLink reads the user's profile hash.
func (s *RedisStore) GetLink(ctx context.Context, userID string) (*models.ProfileLink, error) {
	fields, err := s.client.HGetAll(ctx, s.profileKey(userID)).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to read profile link: %w", err)
	}

	url := fields["url"]
	if url == "" {
		return nil, fmt.Errorf("%w: %s", shared.ErrNoLinkedProfile, userID)
	}

	link := &models.ProfileLink{UserID: userID, URL: url}
	if ts, err := time.Parse(time.RFC3339Nano, fields["updated_at"]); err == nil {
		link.UpdatedAt = ts
	}
	return link, nil
}

// Close closes the Redis client.
func (s *RedisStore) Close() error {
	return s.client.Close()
}
