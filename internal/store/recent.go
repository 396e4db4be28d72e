package store

import (
	"context"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/emilythestrangee/commune/backend/internal/models"
	"github.com/emilythestrangee/commune/backend/internal/recent"
)

type RecentStore struct {
	db *gorm.DB
}

var _ recent.Store = (*RecentStore)(nil)

func (s *RecentStore) UpsertRecent(ctx context.Context, r *models.RecentCommunity) error {
	return s.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "user_id"}, {Name: "community_id"}},
			DoUpdates: clause.AssignmentColumns([]string{"last_activity_at"}),
		}).
		Create(r).Error
}

func (s *RecentStore) ListRecent(ctx context.Context, userID int64) ([]models.RecentCommunity, error) {
	var rows []models.RecentCommunity
	err := s.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("last_activity_at DESC, community_id DESC").
		Find(&rows).Error
	return rows, err
}
