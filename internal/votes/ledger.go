// Package votes maintains per-user vote state on posts and comments and
// aggregates scores. One row per (voter, target); revoting flips the row in
// place, clearing removes it. Scores are always counted live from the rows.
package votes

import (
	"context"
	"time"

	"github.com/emilythestrangee/commune/backend/internal/errs"
	"github.com/emilythestrangee/commune/backend/internal/models"
)

// Store is the persistence the ledger needs. Implementations must make
// Atomically a real transaction so two racing votes on the same target
// cannot lose an update.
type Store interface {
	// GetVote returns the row for (voterID, targetID, kind), or nil when
	// no row exists.
	GetVote(ctx context.Context, voterID, targetID int64, kind string) (*models.Vote, error)
	SaveVote(ctx context.Context, v *models.Vote) error
	DeleteVote(ctx context.Context, voterID, targetID int64, kind string) error
	CountVotes(ctx context.Context, targetID int64, kind string, state int8) (int64, error)
	Atomically(ctx context.Context, fn func(Store) error) error
}

// Target is what the ledger needs to know about the thing being voted on.
type Target struct {
	Exists   bool
	AuthorID int64
	Deleted  bool
}

// TargetLookup resolves vote targets; backed by the post/comment tables.
type TargetLookup interface {
	LookupTarget(ctx context.Context, targetID int64, kind string) (Target, error)
}

type Ledger struct {
	store   Store
	targets TargetLookup
	now     func() time.Time
}

func NewLedger(store Store, targets TargetLookup) *Ledger {
	return &Ledger{store: store, targets: targets, now: time.Now}
}

// Set records voterID's vote on a target. Setting the state it already has
// is a no-op. Authors may not vote on their own content.
func (l *Ledger) Set(ctx context.Context, voterID, targetID int64, kind string, state int8) error {
	if voterID == 0 {
		return errs.AuthRequired()
	}
	if state != models.VoteUp && state != models.VoteDown && state != models.VoteNone {
		return errs.Validation("vote state must be -1, 0 or 1")
	}

	target, err := l.targets.LookupTarget(ctx, targetID, kind)
	if err != nil {
		return err
	}
	if !target.Exists || target.Deleted {
		return errs.NotFound(kind)
	}
	if target.AuthorID == voterID {
		return errs.SelfAction("you cannot vote on your own " + kind)
	}

	if state == models.VoteNone {
		return l.Clear(ctx, voterID, targetID, kind)
	}

	return l.store.Atomically(ctx, func(s Store) error {
		existing, err := s.GetVote(ctx, voterID, targetID, kind)
		if err != nil {
			return err
		}
		if existing != nil {
			if existing.State == state {
				return nil
			}
			existing.State = state
			existing.UpdatedAt = l.now()
			return s.SaveVote(ctx, existing)
		}
		return s.SaveVote(ctx, &models.Vote{
			UserID:     voterID,
			TargetID:   targetID,
			TargetKind: kind,
			State:      state,
			CreatedAt:  l.now(),
			UpdatedAt:  l.now(),
		})
	})
}

// Clear removes voterID's vote. Clearing a vote that does not exist is a
// no-op, never an error, so retries are always safe.
func (l *Ledger) Clear(ctx context.Context, voterID, targetID int64, kind string) error {
	if voterID == 0 {
		return errs.AuthRequired()
	}
	return l.store.Atomically(ctx, func(s Store) error {
		return s.DeleteVote(ctx, voterID, targetID, kind)
	})
}

// Score is count(up) - count(down) over live rows. Explicit NONE rows count
// for neither side.
func (l *Ledger) Score(ctx context.Context, targetID int64, kind string) (int64, error) {
	up, err := l.store.CountVotes(ctx, targetID, kind, models.VoteUp)
	if err != nil {
		return 0, err
	}
	down, err := l.store.CountVotes(ctx, targetID, kind, models.VoteDown)
	if err != nil {
		return 0, err
	}
	return up - down, nil
}

// Counts returns the up and down totals separately for response bodies.
func (l *Ledger) Counts(ctx context.Context, targetID int64, kind string) (up, down int64, err error) {
	if up, err = l.store.CountVotes(ctx, targetID, kind, models.VoteUp); err != nil {
		return 0, 0, err
	}
	if down, err = l.store.CountVotes(ctx, targetID, kind, models.VoteDown); err != nil {
		return 0, 0, err
	}
	return up, down, nil
}

// StateOf reports voterID's current vote on a target. Anonymous callers and
// explicit NONE rows both read as VoteNone.
func (l *Ledger) StateOf(ctx context.Context, voterID, targetID int64, kind string) (int8, error) {
	if voterID == 0 {
		return models.VoteNone, nil
	}
	v, err := l.store.GetVote(ctx, voterID, targetID, kind)
	if err != nil {
		return models.VoteNone, err
	}
	if v == nil {
		return models.VoteNone, nil
	}
	return v.State, nil
}
