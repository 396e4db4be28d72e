package store

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"github.com/emilythestrangee/commune/backend/internal/membership"
	"github.com/emilythestrangee/commune/backend/internal/models"
)

type MembershipStore struct {
	db *gorm.DB
}

var _ membership.Store = (*MembershipStore)(nil)

func (s *MembershipStore) GetMembership(ctx context.Context, userID, communityID int64) (*models.Membership, error) {
	var m models.Membership
	err := s.db.WithContext(ctx).
		Where("user_id = ? AND community_id = ?", userID, communityID).
		First(&m).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &m, nil
}

func (s *MembershipStore) SaveMembership(ctx context.Context, m *models.Membership) error {
	return s.db.WithContext(ctx).Save(m).Error
}

func (s *MembershipStore) CountJoined(ctx context.Context, communityID int64) (int64, error) {
	var n int64
	err := s.db.WithContext(ctx).Model(&models.Membership{}).
		Where("community_id = ? AND joined = ?", communityID, true).
		Count(&n).Error
	return n, err
}

func (s *MembershipStore) SetMemberCount(ctx context.Context, communityID, count int64) error {
	return s.db.WithContext(ctx).Model(&models.Community{}).
		Where("id = ?", communityID).
		Update("member_count", count).Error
}

func (s *MembershipStore) GetCommunity(ctx context.Context, communityID int64) (*models.Community, error) {
	var c models.Community
	err := s.db.WithContext(ctx).First(&c, communityID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &c, nil
}

func (s *MembershipStore) Atomically(ctx context.Context, fn func(membership.Store) error) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(&MembershipStore{db: tx})
	})
}
