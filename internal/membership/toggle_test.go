package membership

import (
	"context"
	"testing"
	"time"

	"github.com/emilythestrangee/commune/backend/internal/errs"
	"github.com/emilythestrangee/commune/backend/internal/models"
)

type fakeStore struct {
	memberships map[[2]int64]*models.Membership
	communities map[int64]*models.Community
	nextID      int64
}

func newFakeStore(communityIDs ...int64) *fakeStore {
	s := &fakeStore{
		memberships: map[[2]int64]*models.Membership{},
		communities: map[int64]*models.Community{},
	}
	for _, id := range communityIDs {
		s.communities[id] = &models.Community{ID: id, Name: "c"}
	}
	return s
}

func (s *fakeStore) GetMembership(_ context.Context, userID, communityID int64) (*models.Membership, error) {
	m, ok := s.memberships[[2]int64{userID, communityID}]
	if !ok {
		return nil, nil
	}
	cp := *m
	return &cp, nil
}

func (s *fakeStore) SaveMembership(_ context.Context, m *models.Membership) error {
	if m.ID == 0 {
		s.nextID++
		m.ID = s.nextID
	}
	cp := *m
	s.memberships[[2]int64{m.UserID, m.CommunityID}] = &cp
	return nil
}

func (s *fakeStore) CountJoined(_ context.Context, communityID int64) (int64, error) {
	var n int64
	for _, m := range s.memberships {
		if m.CommunityID == communityID && m.Joined {
			n++
		}
	}
	return n, nil
}

func (s *fakeStore) SetMemberCount(_ context.Context, communityID, count int64) error {
	if c, ok := s.communities[communityID]; ok {
		c.MemberCount = count
	}
	return nil
}

func (s *fakeStore) GetCommunity(_ context.Context, communityID int64) (*models.Community, error) {
	c, ok := s.communities[communityID]
	if !ok {
		return nil, nil
	}
	cp := *c
	return &cp, nil
}

func (s *fakeStore) Atomically(ctx context.Context, fn func(Store) error) error {
	return fn(s)
}

const (
	userA = int64(1)
	userB = int64(2)
	commC = int64(10)
)

func at() time.Time { return time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC) }

// join, join, leave, leave must produce count deltas +1, 0, -1, 0.
func TestToggleIdempotency(t *testing.T) {
	ctx := context.Background()
	store := newFakeStore(commC)
	toggle := NewToggle(store, nil)

	steps := []struct {
		joined bool
		want   int64
	}{
		{true, 1},
		{true, 1},
		{false, 0},
		{false, 0},
	}
	for i, step := range steps {
		res, err := toggle.Set(ctx, userA, commC, step.joined, at())
		if err != nil {
			t.Fatalf("step %d: %v", i, err)
		}
		if res.MemberCount != step.want {
			t.Fatalf("step %d: member_count = %d, want %d", i, res.MemberCount, step.want)
		}
		if store.communities[commC].MemberCount != step.want {
			t.Fatalf("step %d: stored count = %d, want %d", i, store.communities[commC].MemberCount, step.want)
		}
	}
}

func TestRejoinReusesRow(t *testing.T) {
	ctx := context.Background()
	store := newFakeStore(commC)
	toggle := NewToggle(store, nil)

	toggle.Set(ctx, userA, commC, true, at())
	toggle.Set(ctx, userA, commC, false, at().Add(time.Hour))
	res, err := toggle.Set(ctx, userA, commC, true, at().Add(2*time.Hour))
	if err != nil {
		t.Fatal(err)
	}
	if res.MemberCount != 1 {
		t.Fatalf("member_count = %d, want 1", res.MemberCount)
	}
	if len(store.memberships) != 1 {
		t.Fatalf("expected one row, got %d", len(store.memberships))
	}
	m := store.memberships[[2]int64{userA, commC}]
	if !m.Joined || m.EndedAt != nil {
		t.Fatalf("rejoined row in wrong state: %+v", m)
	}
}

func TestCountAggregatesUsers(t *testing.T) {
	ctx := context.Background()
	store := newFakeStore(commC)
	toggle := NewToggle(store, nil)

	toggle.Set(ctx, userA, commC, true, at())
	res, _ := toggle.Set(ctx, userB, commC, true, at())
	if res.MemberCount != 2 {
		t.Fatalf("member_count = %d, want 2", res.MemberCount)
	}

	joined, err := toggle.IsJoined(ctx, userA, commC)
	if err != nil || !joined {
		t.Fatalf("IsJoined = %v, %v", joined, err)
	}
}

// A drifted counter gets corrected by the next mutation.
func TestCounterReconciliation(t *testing.T) {
	ctx := context.Background()
	store := newFakeStore(commC)
	toggle := NewToggle(store, nil)

	toggle.Set(ctx, userA, commC, true, at())
	store.communities[commC].MemberCount = 99 // drift

	res, err := toggle.Set(ctx, userB, commC, true, at())
	if err != nil {
		t.Fatal(err)
	}
	if res.MemberCount != 2 {
		t.Fatalf("reconciled count = %d, want 2", res.MemberCount)
	}
}

func TestLeaveNeverJoinedIsNoop(t *testing.T) {
	ctx := context.Background()
	store := newFakeStore(commC)
	toggle := NewToggle(store, nil)

	res, err := toggle.Set(ctx, userA, commC, false, at())
	if err != nil {
		t.Fatal(err)
	}
	if res.MemberCount != 0 || len(store.memberships) != 0 {
		t.Fatalf("no-op leave created state: %+v, %d rows", res, len(store.memberships))
	}
}

func TestErrors(t *testing.T) {
	ctx := context.Background()
	toggle := NewToggle(newFakeStore(commC), nil)

	if _, err := toggle.Set(ctx, 0, commC, true, at()); errs.KindOf(err) != errs.KindAuthRequired {
		t.Fatalf("anonymous join: expected auth error, got %v", err)
	}
	if _, err := toggle.Set(ctx, userA, 404, true, at()); errs.KindOf(err) != errs.KindNotFound {
		t.Fatalf("missing community: expected not-found, got %v", err)
	}
}
