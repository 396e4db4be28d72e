// Package visibility decides whether content rows qualify for listings.
// The same predicate must back both count queries and data queries, otherwise
// pagination totals drift from the rows actually returned.
package visibility

import "github.com/emilythestrangee/commune/backend/internal/models"

// Options tunes the parent-chain checks. The zero value is the strict
// default used by every public listing.
type Options struct {
	// IncludeDisabledCommunity keeps content whose community is disabled,
	// for moderation views that need to see into disabled communities.
	IncludeDisabledCommunity bool
}

// CommunityVisible reports whether the community itself may appear in
// search results and listings.
func CommunityVisible(c *models.Community) bool {
	return c != nil && !c.Disabled
}

// PostVisible reports whether a post qualifies for listings. The community
// may be nil when the caller already scoped the query to a known-live one.
func PostVisible(p *models.Post, c *models.Community, opts Options) bool {
	if p == nil || p.Deleted() {
		return false
	}
	if c != nil && c.Disabled && !opts.IncludeDisabledCommunity {
		return false
	}
	return true
}

// CommentVisible reports whether a comment qualifies for listings. A comment
// is only visible while its post is.
func CommentVisible(cm *models.Comment, p *models.Post, c *models.Community, opts Options) bool {
	if cm == nil || cm.Deleted() {
		return false
	}
	return PostVisible(p, c, opts)
}
