package store

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"github.com/emilythestrangee/commune/backend/internal/history"
	"github.com/emilythestrangee/commune/backend/internal/models"
)

type HistoryStore struct {
	db *gorm.DB
}

var _ history.Store = (*HistoryStore)(nil)

func (s *HistoryStore) SaveVersion(ctx context.Context, v *models.ContentVersion) error {
	return s.db.WithContext(ctx).Create(v).Error
}

func (s *HistoryStore) ListVersions(ctx context.Context, parentID int64, kind string) ([]models.ContentVersion, error) {
	var rows []models.ContentVersion
	err := s.db.WithContext(ctx).
		Where("parent_id = ? AND parent_kind = ?", parentID, kind).
		Find(&rows).Error
	return rows, err
}

func (s *HistoryStore) GetVersion(ctx context.Context, versionID int64) (*models.ContentVersion, error) {
	var v models.ContentVersion
	err := s.db.WithContext(ctx).First(&v, versionID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &v, nil
}
