// Package recent tracks a user's most recently active communities. The
// durable rows live in the store; a Redis sorted set per user keeps reads off
// the database. The cache is write-through and reads fall back to the table,
// so a cold or unavailable Redis only costs latency.
package recent

import (
	"context"
	"fmt"
	"sort"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/emilythestrangee/commune/backend/internal/models"
)

// MaxRecent is how many communities a user's recent list exposes. History
// beyond the cap is retained, just not returned.
const MaxRecent = 5

const keyPrefix = "recent:communities:"

type Store interface {
	// UpsertRecent sets last_activity_at for (userID, communityID),
	// inserting the row on first touch.
	UpsertRecent(ctx context.Context, r *models.RecentCommunity) error
	ListRecent(ctx context.Context, userID int64) ([]models.RecentCommunity, error)
}

type Tracker struct {
	store Store
	rdb   *redis.Client // optional; nil disables the cache
}

func NewTracker(store Store, rdb *redis.Client) *Tracker {
	return &Tracker{store: store, rdb: rdb}
}

func userKey(userID int64) string {
	return fmt.Sprintf("%s%d", keyPrefix, userID)
}

// Touch stamps now as the user's last activity in a community. Called on
// visit, post and join.
func (t *Tracker) Touch(ctx context.Context, userID, communityID int64, now time.Time) error {
	if err := t.store.UpsertRecent(ctx, &models.RecentCommunity{
		UserID:         userID,
		CommunityID:    communityID,
		LastActivityAt: now,
	}); err != nil {
		return err
	}

	if t.rdb != nil {
		// Cache write failures are not the caller's problem; the row
		// is already durable and reads fall back.
		_ = t.rdb.ZAdd(ctx, userKey(userID), redis.Z{
			Score:  float64(now.UnixNano()),
			Member: strconv.FormatInt(communityID, 10),
		}).Err()
	}
	return nil
}

// ListRecent returns at most MaxRecent community ids, most recent first,
// ties broken by community id descending.
func (t *Tracker) ListRecent(ctx context.Context, userID int64) ([]int64, error) {
	if t.rdb != nil {
		if ids, ok := t.fromCache(ctx, userID); ok {
			return ids, nil
		}
	}

	rows, err := t.store.ListRecent(ctx, userID)
	if err != nil {
		return nil, err
	}
	entries := make([]entry, 0, len(rows))
	for _, r := range rows {
		entries = append(entries, entry{id: r.CommunityID, at: r.LastActivityAt.UnixNano()})
	}
	ids := top(entries)

	if t.rdb != nil {
		t.warm(ctx, userID, rows)
	}
	return ids, nil
}

type entry struct {
	id int64
	at int64
}

func top(entries []entry) []int64 {
	sort.Slice(entries, func(i, j int) bool {
		if entries[i].at != entries[j].at {
			return entries[i].at > entries[j].at
		}
		return entries[i].id > entries[j].id
	})
	if len(entries) > MaxRecent {
		entries = entries[:MaxRecent]
	}
	ids := make([]int64, len(entries))
	for i, e := range entries {
		ids[i] = e.id
	}
	return ids
}

func (t *Tracker) fromCache(ctx context.Context, userID int64) ([]int64, bool) {
	// Over-fetch a little so equal scores can be re-tied locally; Redis
	// breaks score ties lexically, which is not the order we want.
	zs, err := t.rdb.ZRevRangeWithScores(ctx, userKey(userID), 0, MaxRecent*2).Result()
	if err != nil || len(zs) == 0 {
		return nil, false
	}
	entries := make([]entry, 0, len(zs))
	for _, z := range zs {
		id, err := strconv.ParseInt(fmt.Sprint(z.Member), 10, 64)
		if err != nil {
			return nil, false
		}
		entries = append(entries, entry{id: id, at: int64(z.Score)})
	}
	return top(entries), true
}

func (t *Tracker) warm(ctx context.Context, userID int64, rows []models.RecentCommunity) {
	if len(rows) == 0 {
		return
	}
	zs := make([]redis.Z, 0, len(rows))
	for _, r := range rows {
		zs = append(zs, redis.Z{
			Score:  float64(r.LastActivityAt.UnixNano()),
			Member: strconv.FormatInt(r.CommunityID, 10),
		})
	}
	_ = t.rdb.ZAdd(ctx, userKey(userID), zs...).Err()
}
