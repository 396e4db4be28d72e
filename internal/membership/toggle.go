// Package membership handles idempotent join/leave state per (user,
// community) and keeps the community's denormalized member_count honest by
// recounting inside the same transaction as the change.
package membership

import (
	"context"
	"time"

	"github.com/emilythestrangee/commune/backend/internal/errs"
	"github.com/emilythestrangee/commune/backend/internal/models"
	"github.com/emilythestrangee/commune/backend/internal/recent"
)

type Store interface {
	// GetMembership returns the row for (userID, communityID), or nil.
	GetMembership(ctx context.Context, userID, communityID int64) (*models.Membership, error)
	SaveMembership(ctx context.Context, m *models.Membership) error
	// CountJoined counts rows with joined = true for the community.
	CountJoined(ctx context.Context, communityID int64) (int64, error)
	SetMemberCount(ctx context.Context, communityID, count int64) error
	GetCommunity(ctx context.Context, communityID int64) (*models.Community, error)
	Atomically(ctx context.Context, fn func(Store) error) error
}

// Result reports the state after a toggle.
type Result struct {
	Joined      bool  `json:"joined"`
	MemberCount int64 `json:"member_count"`
	Changed     bool  `json:"-"`
}

type Toggle struct {
	store   Store
	tracker *recent.Tracker
}

func NewToggle(store Store, tracker *recent.Tracker) *Toggle {
	return &Toggle{store: store, tracker: tracker}
}

// Set moves the user's membership to joined. Toggling to the state already
// held is a no-op that still reports the current count. Joining counts as
// community activity for the recency list.
func (t *Toggle) Set(ctx context.Context, userID, communityID int64, joined bool, now time.Time) (*Result, error) {
	if userID == 0 {
		return nil, errs.AuthRequired()
	}

	var res Result
	err := t.store.Atomically(ctx, func(s Store) error {
		community, err := s.GetCommunity(ctx, communityID)
		if err != nil {
			return err
		}
		if community == nil {
			return errs.NotFound("community")
		}

		m, err := s.GetMembership(ctx, userID, communityID)
		if err != nil {
			return err
		}

		switch {
		case m == nil && !joined:
			// Leaving a community never joined: no-op.
		case m == nil:
			m = &models.Membership{
				UserID:      userID,
				CommunityID: communityID,
				Joined:      true,
				CreatedAt:   now,
				UpdatedAt:   now,
			}
			if err := s.SaveMembership(ctx, m); err != nil {
				return err
			}
			res.Changed = true
		case m.Joined == joined:
			// Already in the requested state.
		default:
			m.Joined = joined
			m.UpdatedAt = now
			if joined {
				m.EndedAt = nil
			} else {
				ended := now
				m.EndedAt = &ended
			}
			if err := s.SaveMembership(ctx, m); err != nil {
				return err
			}
			res.Changed = true
		}

		// Recount rather than increment; the counter is a hint, the
		// rows are the truth.
		count, err := s.CountJoined(ctx, communityID)
		if err != nil {
			return err
		}
		if err := s.SetMemberCount(ctx, communityID, count); err != nil {
			return err
		}
		res.Joined = joined
		res.MemberCount = count
		return nil
	})
	if err != nil {
		return nil, err
	}

	if joined && res.Changed && t.tracker != nil {
		if err := t.tracker.Touch(ctx, userID, communityID, now); err != nil {
			return nil, err
		}
	}
	return &res, nil
}

// IsJoined reports whether the user currently belongs to the community.
func (t *Toggle) IsJoined(ctx context.Context, userID, communityID int64) (bool, error) {
	if userID == 0 {
		return false, nil
	}
	m, err := t.store.GetMembership(ctx, userID, communityID)
	if err != nil {
		return false, err
	}
	return m != nil && m.Joined, nil
}
