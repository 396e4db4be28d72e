package content

import (
	"context"

	"github.com/emilythestrangee/commune/backend/internal/history"
	"github.com/emilythestrangee/commune/backend/internal/membership"
	"github.com/emilythestrangee/commune/backend/internal/models"
	"github.com/emilythestrangee/commune/backend/internal/recent"
	"github.com/emilythestrangee/commune/backend/internal/votes"
)

// VoteStore is the ledger's store plus the batch reads listings use to
// decorate a page of items in two queries instead of 2n.
type VoteStore interface {
	votes.Store
	// CountsFor returns target id -> [up, down].
	CountsFor(ctx context.Context, targetIDs []int64, kind string) (map[int64][2]int64, error)
	// StatesFor returns target id -> the viewer's vote state; absent ids
	// have no vote.
	StatesFor(ctx context.Context, voterID int64, targetIDs []int64, kind string) (map[int64]int8, error)
}

// ContentStore loads and writes the live content rows. Listing methods
// exclude soft-deleted rows; parent-chain visibility stays with the service.
type ContentStore interface {
	votes.TargetLookup

	GetCommunity(ctx context.Context, id int64) (*models.Community, error)
	GetCommunityByName(ctx context.Context, name string) (*models.Community, error)
	ListCommunities(ctx context.Context) ([]models.Community, error)
	CreateCommunity(ctx context.Context, c *models.Community) error

	GetPost(ctx context.Context, id int64) (*models.Post, error)
	ListPostsByCommunity(ctx context.Context, communityID int64) ([]models.Post, error)
	CreatePost(ctx context.Context, p *models.Post) error
	SavePost(ctx context.Context, p *models.Post) error

	GetComment(ctx context.Context, id int64) (*models.Comment, error)
	ListCommentsByPost(ctx context.Context, postID int64) ([]models.Comment, error)
	CreateComment(ctx context.Context, c *models.Comment) error
	SaveComment(ctx context.Context, c *models.Comment) error
}

// Stores bundles every store the service needs. Atomically hands fn a copy
// bound to one transaction; the edit path relies on that to snapshot and
// overwrite in a single commit.
type Stores interface {
	Content() ContentStore
	Votes() VoteStore
	History() history.Store
	Memberships() membership.Store
	Recent() recent.Store
	Atomically(ctx context.Context, fn func(tx Stores) error) error
}
