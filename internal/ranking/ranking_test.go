package ranking

import (
	"math/rand"
	"testing"
	"time"

	"github.com/emilythestrangee/commune/backend/internal/errs"
)

func key(id int64, at time.Time, score int64, tier int) Key {
	return Key{ID: id, CreatedAt: at, Score: score, Tier: tier}
}

func TestCompareNewest(t *testing.T) {
	base := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

	newer := key(1, base.Add(time.Minute), 0, 0)
	older := key(2, base, 0, 0)
	if Compare(Newest, newer, older) != -1 {
		t.Errorf("newer row should rank first")
	}
	if Compare(Newest, older, newer) != 1 {
		t.Errorf("older row should rank last")
	}

	// Equal timestamps fall through to id desc.
	a := key(10, base, 0, 0)
	b := key(9, base, 0, 0)
	if Compare(Newest, a, b) != -1 {
		t.Errorf("higher id should win the timestamp tie")
	}
}

func TestCompareTop(t *testing.T) {
	base := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

	high := key(1, base, 5, 0)
	low := key(2, base.Add(time.Hour), 3, 0)
	if Compare(Top, high, low) != -1 {
		t.Errorf("score beats recency in Top mode")
	}

	// Equal scores fall through to created_at desc, then id desc.
	a := key(1, base.Add(time.Minute), 3, 0)
	b := key(2, base, 3, 0)
	if Compare(Top, a, b) != -1 {
		t.Errorf("equal scores should tie-break on created_at")
	}
	c := key(7, base, 3, 0)
	d := key(3, base, 3, 0)
	if Compare(Top, c, d) != -1 {
		t.Errorf("equal score and time should tie-break on id")
	}
}

func TestCompareNameMatch(t *testing.T) {
	base := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

	exact := key(1, base, 0, TierExact)
	prefix := key(2, base.Add(time.Hour), 0, TierPrefix)
	if Compare(NameMatch, exact, prefix) != -1 {
		t.Errorf("better tier beats recency")
	}
}

func TestCompareTotalOrder(t *testing.T) {
	// Distinct rows must never compare equal, whatever the mode.
	base := time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)
	for _, mode := range []Mode{Newest, Top, NameMatch} {
		a := key(1, base, 2, 1)
		b := key(2, base, 2, 1)
		if Compare(mode, a, b) == 0 {
			t.Errorf("mode %v: distinct ids compared equal", mode)
		}
		if Compare(mode, a, a) != 0 {
			t.Errorf("mode %v: row did not compare equal to itself", mode)
		}
	}
}

func TestSortDeterminism(t *testing.T) {
	base := time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)
	rng := rand.New(rand.NewSource(42))

	// Plenty of colliding timestamps and scores.
	make50 := func() []Key {
		keys := make([]Key, 50)
		for i := range keys {
			keys[i] = Key{
				ID:        int64(i + 1),
				CreatedAt: base.Add(time.Duration(rng.Intn(5)) * time.Second),
				Score:     int64(rng.Intn(3)),
			}
		}
		return keys
	}

	for _, mode := range []Mode{Newest, Top} {
		rng = rand.New(rand.NewSource(42))
		first := make50()
		rng = rand.New(rand.NewSource(42))
		second := make50()

		// Shuffle the second input so determinism comes from the
		// comparator, not input order.
		rand.New(rand.NewSource(7)).Shuffle(len(second), func(i, j int) {
			second[i], second[j] = second[j], second[i]
		})

		Sort(first, mode, func(k Key) Key { return k })
		Sort(second, mode, func(k Key) Key { return k })

		for i := range first {
			if first[i].ID != second[i].ID {
				t.Fatalf("mode %v: order diverged at %d: %d vs %d", mode, i, first[i].ID, second[i].ID)
			}
		}
	}
}

func TestMatchTier(t *testing.T) {
	tests := []struct {
		name, query string
		want        int
	}{
		{"golang", "golang", TierExact},
		{"Golang", "gOLANG", TierExact},
		{"golang-jobs", "golang", TierPrefix},
		{"learn-golang", "golang", TierContains},
		{"rustaceans", "golang", TierNone},
		{"anything", "", TierNone},
	}
	for _, tt := range tests {
		if got := MatchTier(tt.name, tt.query); got != tt.want {
			t.Errorf("MatchTier(%q, %q) = %d, want %d", tt.name, tt.query, got, tt.want)
		}
	}
}

func TestNormalizeQuery(t *testing.T) {
	if q, err := NormalizeQuery("  cats  "); err != nil || q != "cats" {
		t.Errorf("expected trimmed query, got %q, %v", q, err)
	}
	if q, err := NormalizeQuery("   "); err != nil || q != "" {
		t.Errorf("whitespace-only query should mean no filter, got %q, %v", q, err)
	}
	_, err := NormalizeQuery("x")
	if err == nil {
		t.Fatal("single-character query should be rejected")
	}
	if errs.KindOf(err) != errs.KindValidation {
		t.Errorf("expected validation error, got kind %v", errs.KindOf(err))
	}
}

func TestMatchesText(t *testing.T) {
	if !MatchesText("", "anything") {
		t.Error("empty query should match everything")
	}
	if !MatchesText("GOPHER", "a gopher forum", "") {
		t.Error("match should be case-insensitive across fields")
	}
	if MatchesText("zebra", "a gopher forum", "community backend") {
		t.Error("query absent from all fields should not match")
	}
}
