// Package ranking produces the deterministic total orders behind every
// listing and search endpoint. Each mode is one composite comparator; the
// tie-break chain always bottoms out at the row identifier, which is unique,
// so no two distinct rows ever compare equal.
package ranking

import (
	"sort"
	"strings"
	"time"

	"github.com/emilythestrangee/commune/backend/internal/errs"
)

type Mode int

const (
	// Newest orders by created_at desc, id desc.
	Newest Mode = iota
	// Top orders by score desc, then created_at desc, id desc. Scores are
	// read live from the vote ledger, never from a cached column.
	Top
	// NameMatch orders community search results by match tier, then
	// created_at desc, id desc.
	NameMatch
)

// ParseMode maps the wire-level sort parameter onto a Mode. Unknown or empty
// values fall back to Newest, matching the default feed.
func ParseMode(s string) Mode {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "top":
		return Top
	default:
		return Newest
	}
}

// Key carries the sortable fields of one candidate row.
type Key struct {
	ID        int64
	CreatedAt time.Time
	Score     int64
	Tier      int
}

// Compare returns -1 if a ranks before b under mode, 1 if after, 0 only when
// a and b are the same row. Implemented as a single comparator rather than
// chained sort passes to keep the order transitive.
func Compare(mode Mode, a, b Key) int {
	switch mode {
	case Top:
		if a.Score != b.Score {
			return cmpDesc(a.Score, b.Score)
		}
	case NameMatch:
		if a.Tier != b.Tier {
			// Lower tier is a better match.
			if a.Tier < b.Tier {
				return -1
			}
			return 1
		}
	}
	if !a.CreatedAt.Equal(b.CreatedAt) {
		if a.CreatedAt.After(b.CreatedAt) {
			return -1
		}
		return 1
	}
	return cmpDesc(a.ID, b.ID)
}

func cmpDesc(a, b int64) int {
	switch {
	case a > b:
		return -1
	case a < b:
		return 1
	default:
		return 0
	}
}

// Sort orders items in place under mode. keyOf extracts the sort key for an
// element; it is called O(n log n) times, so it should be cheap.
func Sort[T any](items []T, mode Mode, keyOf func(T) Key) {
	sort.Slice(items, func(i, j int) bool {
		return Compare(mode, keyOf(items[i]), keyOf(items[j])) < 0
	})
}

// Name-match tiers, best first.
const (
	TierExact    = 0
	TierPrefix   = 1
	TierContains = 2
	TierNone     = 3
)

// MatchTier ranks how well name matches query. An empty query puts
// everything in TierNone, which leaves the order to the time tie-break.
func MatchTier(name, query string) int {
	if query == "" {
		return TierNone
	}
	n := strings.ToLower(name)
	q := strings.ToLower(query)
	switch {
	case n == q:
		return TierExact
	case strings.HasPrefix(n, q):
		return TierPrefix
	case strings.Contains(n, q):
		return TierContains
	default:
		return TierNone
	}
}

// NormalizeQuery trims a free-text filter. Empty means no filter; a single
// character is rejected rather than silently ignored.
func NormalizeQuery(q string) (string, error) {
	q = strings.TrimSpace(q)
	if len([]rune(q)) == 1 {
		return "", errs.Validation("search query must be at least 2 characters")
	}
	return q, nil
}

// MatchesText reports whether any field contains query, case-insensitively.
// An empty query matches everything.
func MatchesText(query string, fields ...string) bool {
	if query == "" {
		return true
	}
	q := strings.ToLower(query)
	for _, f := range fields {
		if strings.Contains(strings.ToLower(f), q) {
			return true
		}
	}
	return false
}
