package store

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"github.com/emilythestrangee/commune/backend/internal/models"
	"github.com/emilythestrangee/commune/backend/internal/votes"
)

// ContentStore loads and writes posts, comments and communities. Listing
// queries exclude soft-deleted rows at the SQL level; parent-chain visibility
// is the service's job on top.
type ContentStore struct {
	db *gorm.DB
}

var _ votes.TargetLookup = (*ContentStore)(nil)

func (s *ContentStore) GetCommunity(ctx context.Context, id int64) (*models.Community, error) {
	var c models.Community
	err := s.db.WithContext(ctx).First(&c, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &c, nil
}

func (s *ContentStore) GetCommunityByName(ctx context.Context, name string) (*models.Community, error) {
	var c models.Community
	err := s.db.WithContext(ctx).Where("LOWER(name) = LOWER(?)", name).First(&c).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &c, nil
}

func (s *ContentStore) ListCommunities(ctx context.Context) ([]models.Community, error) {
	var rows []models.Community
	err := s.db.WithContext(ctx).Find(&rows).Error
	return rows, err
}

func (s *ContentStore) CreateCommunity(ctx context.Context, c *models.Community) error {
	return s.db.WithContext(ctx).Create(c).Error
}

func (s *ContentStore) GetPost(ctx context.Context, id int64) (*models.Post, error) {
	var p models.Post
	err := s.db.WithContext(ctx).Preload("User").First(&p, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &p, nil
}

func (s *ContentStore) ListPostsByCommunity(ctx context.Context, communityID int64) ([]models.Post, error) {
	var rows []models.Post
	err := s.db.WithContext(ctx).Preload("User").
		Where("community_id = ? AND deleted_at IS NULL", communityID).
		Find(&rows).Error
	return rows, err
}

func (s *ContentStore) CreatePost(ctx context.Context, p *models.Post) error {
	return s.db.WithContext(ctx).Create(p).Error
}

func (s *ContentStore) SavePost(ctx context.Context, p *models.Post) error {
	return s.db.WithContext(ctx).Save(p).Error
}

func (s *ContentStore) GetComment(ctx context.Context, id int64) (*models.Comment, error) {
	var c models.Comment
	err := s.db.WithContext(ctx).Preload("User").First(&c, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &c, nil
}

func (s *ContentStore) ListCommentsByPost(ctx context.Context, postID int64) ([]models.Comment, error) {
	var rows []models.Comment
	err := s.db.WithContext(ctx).Preload("User").
		Where("post_id = ? AND deleted_at IS NULL", postID).
		Find(&rows).Error
	return rows, err
}

func (s *ContentStore) CreateComment(ctx context.Context, c *models.Comment) error {
	return s.db.WithContext(ctx).Create(c).Error
}

func (s *ContentStore) SaveComment(ctx context.Context, c *models.Comment) error {
	return s.db.WithContext(ctx).Save(c).Error
}

// LookupTarget resolves a vote target. A comment counts as deleted when its
// post is gone too, so votes on orphaned comments bounce the same way.
func (s *ContentStore) LookupTarget(ctx context.Context, targetID int64, kind string) (votes.Target, error) {
	switch kind {
	case models.TargetPost:
		p, err := s.GetPost(ctx, targetID)
		if err != nil || p == nil {
			return votes.Target{}, err
		}
		return votes.Target{Exists: true, AuthorID: p.AuthorID, Deleted: p.Deleted()}, nil
	case models.TargetComment:
		c, err := s.GetComment(ctx, targetID)
		if err != nil || c == nil {
			return votes.Target{}, err
		}
		target := votes.Target{Exists: true, AuthorID: c.AuthorID, Deleted: c.Deleted()}
		if !target.Deleted {
			p, err := s.GetPost(ctx, c.PostID)
			if err != nil {
				return votes.Target{}, err
			}
			if p == nil || p.Deleted() {
				target.Deleted = true
			}
		}
		return target, nil
	default:
		return votes.Target{}, nil
	}
}
