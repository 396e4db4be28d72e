// Package paging slices an already-ordered result set. Offset pages are
// 1-indexed everywhere; cursors are opaque base64 tokens carrying the
// last-seen (created_at, id) pair so pages stay stable while rows churn.
package paging

import (
	"encoding/base64"
	"encoding/json"
	"time"

	"github.com/emilythestrangee/commune/backend/internal/ranking"
)

const (
	DefaultLimit = 20
	MaxLimit     = 100
)

// ClampLimit silently pulls limit into [1, MaxLimit]; zero or negative means
// the default.
func ClampLimit(limit int) int {
	if limit <= 0 {
		return DefaultLimit
	}
	if limit > MaxLimit {
		return MaxLimit
	}
	return limit
}

// ClampPage treats anything below 1 as the first page.
func ClampPage(page int) int {
	if page < 1 {
		return 1
	}
	return page
}

// PageInfo is the offset-mode pagination block returned with listings.
type PageInfo struct {
	Current int `json:"current"`
	Limit   int `json:"limit"`
	Records int `json:"records"`
	Pages   int `json:"pages"`
}

// Info computes the pagination block for a total of records visible matches.
// records must be counted under the same visibility predicate that produced
// the rows.
func Info(page, limit, records int) PageInfo {
	page = ClampPage(page)
	limit = ClampLimit(limit)
	pages := (records + limit - 1) / limit
	return PageInfo{Current: page, Limit: limit, Records: records, Pages: pages}
}

// SlicePage returns the 1-indexed page of items. Pages past the end are
// empty, not an error.
func SlicePage[T any](items []T, page, limit int) []T {
	page = ClampPage(page)
	limit = ClampLimit(limit)
	start := (page - 1) * limit
	if start >= len(items) {
		return []T{}
	}
	end := start + limit
	if end > len(items) {
		end = len(items)
	}
	return items[start:end]
}

// Cursor is the decoded form of a cursor token: the sort key of the last row
// the client saw under the Newest order.
type Cursor struct {
	CreatedAt time.Time `json:"t"`
	ID        int64     `json:"id"`
}

// Encode renders the cursor as an opaque URL-safe token.
func (c Cursor) Encode() string {
	raw, err := json.Marshal(c)
	if err != nil {
		return ""
	}
	return base64.RawURLEncoding.EncodeToString(raw)
}

// DecodeCursor parses a client-held token. Anything malformed decodes to
// ok=false and is treated as "no cursor" so stale clients restart from the
// top instead of erroring.
func DecodeCursor(token string) (Cursor, bool) {
	if token == "" {
		return Cursor{}, false
	}
	raw, err := base64.RawURLEncoding.DecodeString(token)
	if err != nil {
		return Cursor{}, false
	}
	var c Cursor
	if err := json.Unmarshal(raw, &c); err != nil {
		return Cursor{}, false
	}
	if c.CreatedAt.IsZero() {
		return Cursor{}, false
	}
	return c, true
}

// After reports whether a row keyed by k comes strictly after the cursor in
// the Newest order: older timestamp, or same timestamp and smaller id.
func (c Cursor) After(k ranking.Key) bool {
	if k.CreatedAt.Before(c.CreatedAt) {
		return true
	}
	return k.CreatedAt.Equal(c.CreatedAt) && k.ID < c.ID
}

// ApplyCursor drops every row at or before the cursor position. items must
// already be in Newest order.
func ApplyCursor[T any](items []T, cur Cursor, keyOf func(T) ranking.Key) []T {
	for i, it := range items {
		if cur.After(keyOf(it)) {
			return items[i:]
		}
	}
	return []T{}
}

// NextCursor builds the token for the page after a full page of rows, or ""
// when the page came back short and there is nothing further.
func NextCursor[T any](pageRows []T, limit int, keyOf func(T) ranking.Key) string {
	if len(pageRows) < limit || len(pageRows) == 0 {
		return ""
	}
	last := keyOf(pageRows[len(pageRows)-1])
	return Cursor{CreatedAt: last.CreatedAt, ID: last.ID}.Encode()
}
