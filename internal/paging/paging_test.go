package paging

import (
	"testing"
	"time"

	"github.com/emilythestrangee/commune/backend/internal/ranking"
)

func TestClampLimit(t *testing.T) {
	tests := []struct{ in, want int }{
		{0, DefaultLimit},
		{-5, DefaultLimit},
		{1, 1},
		{42, 42},
		{100, 100},
		{101, 100},
		{100000, 100},
	}
	for _, tt := range tests {
		if got := ClampLimit(tt.in); got != tt.want {
			t.Errorf("ClampLimit(%d) = %d, want %d", tt.in, got, tt.want)
		}
	}
}

func TestInfo(t *testing.T) {
	info := Info(2, 20, 45)
	if info.Pages != 3 {
		t.Errorf("45 records at limit 20 should be 3 pages, got %d", info.Pages)
	}
	if info.Current != 2 || info.Limit != 20 || info.Records != 45 {
		t.Errorf("unexpected page info: %+v", info)
	}

	if got := Info(1, 20, 0).Pages; got != 0 {
		t.Errorf("no records should mean 0 pages, got %d", got)
	}
	if got := Info(1, 20, 20).Pages; got != 1 {
		t.Errorf("exact multiple should not add a page, got %d", got)
	}
}

func TestSlicePage(t *testing.T) {
	items := make([]int, 45)
	for i := range items {
		items[i] = i
	}

	first := SlicePage(items, 1, 20)
	if len(first) != 20 || first[0] != 0 {
		t.Errorf("page 1 wrong: len=%d first=%d", len(first), first[0])
	}
	last := SlicePage(items, 3, 20)
	if len(last) != 5 || last[0] != 40 {
		t.Errorf("page 3 wrong: len=%d first=%d", len(last), last[0])
	}
	if got := SlicePage(items, 4, 20); len(got) != 0 {
		t.Errorf("page past the end should be empty, got %d rows", len(got))
	}
	if got := SlicePage(items, 0, 20); len(got) != 20 || got[0] != 0 {
		t.Errorf("page 0 should clamp to page 1")
	}
}

// Concatenating every page must reproduce the full sequence with no
// duplicates and no gaps, for any limit.
func TestOffsetCompleteness(t *testing.T) {
	items := make([]int, 137)
	for i := range items {
		items[i] = i
	}

	for _, limit := range []int{1, 3, 20, 100} {
		var all []int
		for page := 1; ; page++ {
			chunk := SlicePage(items, page, limit)
			if len(chunk) == 0 {
				break
			}
			all = append(all, chunk...)
		}
		if len(all) != len(items) {
			t.Fatalf("limit %d: concatenated %d rows, want %d", limit, len(all), len(items))
		}
		for i := range all {
			if all[i] != i {
				t.Fatalf("limit %d: row %d out of place", limit, i)
			}
		}
	}
}

func TestCursorRoundTrip(t *testing.T) {
	at := time.Date(2026, 3, 1, 9, 30, 0, 0, time.UTC)
	token := Cursor{CreatedAt: at, ID: 77}.Encode()
	if token == "" {
		t.Fatal("expected non-empty token")
	}

	got, ok := DecodeCursor(token)
	if !ok {
		t.Fatal("round-trip decode failed")
	}
	if !got.CreatedAt.Equal(at) || got.ID != 77 {
		t.Errorf("decoded %+v, want created_at=%v id=77", got, at)
	}
}

func TestDecodeCursorMalformed(t *testing.T) {
	for _, token := range []string{"", "not base64!!", "bm90IGpzb24", "e30"} {
		if _, ok := DecodeCursor(token); ok {
			t.Errorf("token %q should decode as absent", token)
		}
	}
}

func TestApplyCursor(t *testing.T) {
	base := time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)
	// Newest order: ids 5,4,3 share a timestamp, then 2,1 older.
	keys := []ranking.Key{
		{ID: 5, CreatedAt: base.Add(time.Hour)},
		{ID: 4, CreatedAt: base.Add(time.Hour)},
		{ID: 3, CreatedAt: base.Add(time.Hour)},
		{ID: 2, CreatedAt: base},
		{ID: 1, CreatedAt: base},
	}
	self := func(k ranking.Key) ranking.Key { return k }

	// Cursor at id 4: the next page starts at id 3, not a duplicate of 4.
	rest := ApplyCursor(keys, Cursor{CreatedAt: base.Add(time.Hour), ID: 4}, self)
	if len(rest) != 3 || rest[0].ID != 3 {
		t.Fatalf("expected [3 2 1], got %v", rest)
	}

	// Cursor past everything yields an empty page, not an error.
	none := ApplyCursor(keys, Cursor{CreatedAt: base.Add(-time.Hour), ID: 1}, self)
	if len(none) != 0 {
		t.Errorf("expected empty tail, got %d rows", len(none))
	}
}

// Walking the whole set via cursors must agree with the underlying order
// even when timestamps collide at the page boundary.
func TestCursorCompleteness(t *testing.T) {
	base := time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)
	var keys []ranking.Key
	for i := 30; i >= 1; i-- {
		keys = append(keys, ranking.Key{ID: int64(i), CreatedAt: base.Add(time.Duration(i/3) * time.Second)})
	}
	ranking.Sort(keys, ranking.Newest, func(k ranking.Key) ranking.Key { return k })
	self := func(k ranking.Key) ranking.Key { return k }

	const limit = 4
	var walked []int64
	token := ""
	for {
		rows := keys
		if cur, ok := DecodeCursor(token); ok {
			rows = ApplyCursor(rows, cur, self)
		}
		if len(rows) > limit {
			rows = rows[:limit]
		}
		if len(rows) == 0 {
			break
		}
		for _, k := range rows {
			walked = append(walked, k.ID)
		}
		token = NextCursor(rows, limit, self)
		if token == "" {
			break
		}
	}

	if len(walked) != len(keys) {
		t.Fatalf("walked %d rows, want %d", len(walked), len(keys))
	}
	seen := map[int64]bool{}
	for i, id := range walked {
		if seen[id] {
			t.Fatalf("id %d appeared twice", id)
		}
		seen[id] = true
		if id != keys[i].ID {
			t.Fatalf("row %d: got id %d, want %d", i, id, keys[i].ID)
		}
	}
}
