package store

import (
	"context"
	"errors"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/emilythestrangee/commune/backend/internal/models"
	"github.com/emilythestrangee/commune/backend/internal/votes"
)

type VoteStore struct {
	db *gorm.DB
}

var _ votes.Store = (*VoteStore)(nil)

func (s *VoteStore) GetVote(ctx context.Context, voterID, targetID int64, kind string) (*models.Vote, error) {
	var v models.Vote
	err := s.db.WithContext(ctx).
		Where("user_id = ? AND target_id = ? AND target_kind = ?", voterID, targetID, kind).
		First(&v).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &v, nil
}

// SaveVote upserts on the (user, target, kind) unique key so two racing
// votes collapse into one row instead of a uniqueness error.
func (s *VoteStore) SaveVote(ctx context.Context, v *models.Vote) error {
	return s.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "user_id"}, {Name: "target_id"}, {Name: "target_kind"}},
			DoUpdates: clause.AssignmentColumns([]string{"state", "updated_at"}),
		}).
		Create(v).Error
}

func (s *VoteStore) DeleteVote(ctx context.Context, voterID, targetID int64, kind string) error {
	return s.db.WithContext(ctx).
		Where("user_id = ? AND target_id = ? AND target_kind = ?", voterID, targetID, kind).
		Delete(&models.Vote{}).Error
}

func (s *VoteStore) CountVotes(ctx context.Context, targetID int64, kind string, state int8) (int64, error) {
	var n int64
	err := s.db.WithContext(ctx).Model(&models.Vote{}).
		Where("target_id = ? AND target_kind = ? AND state = ?", targetID, kind, state).
		Count(&n).Error
	return n, err
}

func (s *VoteStore) Atomically(ctx context.Context, fn func(votes.Store) error) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(&VoteStore{db: tx})
	})
}

// SumScores returns target id -> net score for a batch of targets. States
// sum to count(up) - count(down); explicit zero rows contribute nothing.
func (s *VoteStore) SumScores(ctx context.Context, targetIDs []int64, kind string) (map[int64]int64, error) {
	scores := make(map[int64]int64, len(targetIDs))
	if len(targetIDs) == 0 {
		return scores, nil
	}
	var rows []struct {
		TargetID int64
		Score    int64
	}
	err := s.db.WithContext(ctx).Model(&models.Vote{}).
		Select("target_id, COALESCE(SUM(state), 0) AS score").
		Where("target_id IN ? AND target_kind = ?", targetIDs, kind).
		Group("target_id").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}
	for _, r := range rows {
		scores[r.TargetID] = r.Score
	}
	return scores, nil
}

// CountsFor returns target id -> [up, down] for a batch of targets.
func (s *VoteStore) CountsFor(ctx context.Context, targetIDs []int64, kind string) (map[int64][2]int64, error) {
	counts := make(map[int64][2]int64, len(targetIDs))
	if len(targetIDs) == 0 {
		return counts, nil
	}
	var rows []struct {
		TargetID int64
		State    int8
		N        int64
	}
	err := s.db.WithContext(ctx).Model(&models.Vote{}).
		Select("target_id, state, COUNT(*) AS n").
		Where("target_id IN ? AND target_kind = ?", targetIDs, kind).
		Group("target_id, state").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}
	for _, r := range rows {
		c := counts[r.TargetID]
		switch r.State {
		case models.VoteUp:
			c[0] = r.N
		case models.VoteDown:
			c[1] = r.N
		}
		counts[r.TargetID] = c
	}
	return counts, nil
}

// StatesFor returns target id -> the viewer's vote state for a batch.
// Targets without a row are simply absent from the map.
func (s *VoteStore) StatesFor(ctx context.Context, voterID int64, targetIDs []int64, kind string) (map[int64]int8, error) {
	states := make(map[int64]int8, len(targetIDs))
	if voterID == 0 || len(targetIDs) == 0 {
		return states, nil
	}
	var rows []models.Vote
	err := s.db.WithContext(ctx).
		Where("user_id = ? AND target_id IN ? AND target_kind = ?", voterID, targetIDs, kind).
		Find(&rows).Error
	if err != nil {
		return nil, err
	}
	for _, v := range rows {
		states[v.TargetID] = v.State
	}
	return states, nil
}
