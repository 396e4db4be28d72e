// Package store holds the GORM-backed implementations of the engine's
// persistence interfaces. Engine packages only see their own narrow
// interface; everything here shares one *gorm.DB so Atomically can hand out
// transaction-scoped copies.
package store

import (
	"context"

	"gorm.io/gorm"

	"github.com/emilythestrangee/commune/backend/internal/content"
	"github.com/emilythestrangee/commune/backend/internal/history"
	"github.com/emilythestrangee/commune/backend/internal/membership"
	"github.com/emilythestrangee/commune/backend/internal/recent"
)

type Stores struct {
	db *gorm.DB
}

var _ content.Stores = (*Stores)(nil)

func New(db *gorm.DB) *Stores {
	return &Stores{db: db}
}

func (s *Stores) Content() content.ContentStore { return &ContentStore{db: s.db} }
func (s *Stores) Votes() content.VoteStore      { return &VoteStore{db: s.db} }
func (s *Stores) History() history.Store        { return &HistoryStore{db: s.db} }
func (s *Stores) Memberships() membership.Store { return &MembershipStore{db: s.db} }
func (s *Stores) Recent() recent.Store          { return &RecentStore{db: s.db} }

// Atomically runs fn with a Stores bound to a single transaction. The edit
// path uses this to snapshot and overwrite in one commit.
func (s *Stores) Atomically(ctx context.Context, fn func(tx content.Stores) error) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(New(tx))
	})
}
