package content

import (
	"context"
	"strings"

	"github.com/emilythestrangee/commune/backend/internal/errs"
	"github.com/emilythestrangee/commune/backend/internal/membership"
	"github.com/emilythestrangee/commune/backend/internal/models"
	"github.com/emilythestrangee/commune/backend/internal/paging"
	"github.com/emilythestrangee/commune/backend/internal/ranking"
	"github.com/emilythestrangee/commune/backend/internal/visibility"
)

// CommunityItem is a community plus the viewer's membership state.
type CommunityItem struct {
	models.Community
	Joined bool `json:"joined"`
}

// SearchCommunities ranks visible communities by how well their name matches
// q: exact, then prefix, then contains; description-only matches trail as a
// catch-all. Without a query it degrades to a Newest listing.
func (s *Service) SearchCommunities(ctx context.Context, viewerID int64, q string, page, limit int) ([]CommunityItem, paging.PageInfo, error) {
	q, err := ranking.NormalizeQuery(q)
	if err != nil {
		return nil, paging.PageInfo{}, err
	}

	rows, err := s.stores.Content().ListCommunities(ctx)
	if err != nil {
		return nil, paging.PageInfo{}, err
	}

	type ranked struct {
		community models.Community
		tier      int
	}
	var candidates []ranked
	for _, c := range rows {
		if !visibility.CommunityVisible(&c) {
			continue
		}
		if !ranking.MatchesText(q, c.Name, c.Description) {
			continue
		}
		candidates = append(candidates, ranked{community: c, tier: ranking.MatchTier(c.Name, q)})
	}

	ranking.Sort(candidates, ranking.NameMatch, func(r ranked) ranking.Key {
		return ranking.Key{ID: r.community.ID, CreatedAt: r.community.CreatedAt, Tier: r.tier}
	})

	info := paging.Info(page, limit, len(candidates))
	pageRows := paging.SlicePage(candidates, page, limit)

	items := make([]CommunityItem, len(pageRows))
	for i, r := range pageRows {
		joined, err := s.toggle.IsJoined(ctx, viewerID, r.community.ID)
		if err != nil {
			return nil, paging.PageInfo{}, err
		}
		items[i] = CommunityItem{Community: r.community, Joined: joined}
	}
	return items, info, nil
}

// GetCommunity returns one visible community; viewing it counts as activity
// for the viewer's recent list.
func (s *Service) GetCommunity(ctx context.Context, viewerID, communityID int64) (*CommunityItem, error) {
	c, err := s.visibleCommunity(ctx, communityID)
	if err != nil {
		return nil, err
	}
	joined, err := s.toggle.IsJoined(ctx, viewerID, communityID)
	if err != nil {
		return nil, err
	}
	if viewerID != 0 {
		if err := s.tracker.Touch(ctx, viewerID, communityID, s.now()); err != nil {
			return nil, err
		}
	}
	return &CommunityItem{Community: *c, Joined: joined}, nil
}

func (s *Service) CreateCommunity(ctx context.Context, creatorID int64, req models.CreateCommunityRequest) (*models.Community, error) {
	if creatorID == 0 {
		return nil, errs.AuthRequired()
	}
	name := strings.TrimSpace(req.Name)
	if name == "" {
		return nil, errs.Validation("name is required")
	}
	existing, err := s.stores.Content().GetCommunityByName(ctx, name)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, errs.Conflict("a community with that name already exists")
	}

	community := &models.Community{
		Name:        name,
		Description: req.Description,
		CreatorID:   creatorID,
	}
	if err := s.stores.Content().CreateCommunity(ctx, community); err != nil {
		return nil, err
	}
	// The creator joins their own community.
	if _, err := s.toggle.Set(ctx, creatorID, community.ID, true, s.now()); err != nil {
		return nil, err
	}
	return s.stores.Content().GetCommunity(ctx, community.ID)
}

// SetMembership toggles the viewer's membership; both directions are
// idempotent.
func (s *Service) SetMembership(ctx context.Context, userID, communityID int64, joined bool) (*membership.Result, error) {
	return s.toggle.Set(ctx, userID, communityID, joined, s.now())
}

// ListRecentCommunities resolves the viewer's recent community ids into
// rows, preserving recency order and skipping anything since disabled.
func (s *Service) ListRecentCommunities(ctx context.Context, userID int64) ([]models.Community, error) {
	if userID == 0 {
		return nil, errs.AuthRequired()
	}
	ids, err := s.tracker.ListRecent(ctx, userID)
	if err != nil {
		return nil, err
	}
	out := make([]models.Community, 0, len(ids))
	for _, id := range ids {
		c, err := s.stores.Content().GetCommunity(ctx, id)
		if err != nil {
			return nil, err
		}
		if visibility.CommunityVisible(c) {
			out = append(out, *c)
		}
	}
	return out, nil
}
