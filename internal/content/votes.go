package content

import (
	"context"

	"github.com/emilythestrangee/commune/backend/internal/errs"
	"github.com/emilythestrangee/commune/backend/internal/models"
	"github.com/emilythestrangee/commune/backend/internal/paging"
)

// VoteResult is the target's vote tallies after a mutation, so clients can
// render without a second round trip.
type VoteResult struct {
	Score     int64 `json:"score"`
	Upvotes   int64 `json:"upvotes"`
	Downvotes int64 `json:"downvotes"`
	MyVote    int8  `json:"my_vote"`
}

func (s *Service) voteResult(ctx context.Context, voterID, targetID int64, kind string) (*VoteResult, error) {
	up, down, err := s.ledger.Counts(ctx, targetID, kind)
	if err != nil {
		return nil, err
	}
	mine, err := s.ledger.StateOf(ctx, voterID, targetID, kind)
	if err != nil {
		return nil, err
	}
	return &VoteResult{Score: up - down, Upvotes: up, Downvotes: down, MyVote: mine}, nil
}

// SetVote applies a vote state to a post or comment.
func (s *Service) SetVote(ctx context.Context, voterID, targetID int64, kind string, state int8) (*VoteResult, error) {
	if err := s.ledger.Set(ctx, voterID, targetID, kind, state); err != nil {
		return nil, err
	}
	return s.voteResult(ctx, voterID, targetID, kind)
}

// ClearVote removes the caller's vote; clearing twice is fine.
func (s *Service) ClearVote(ctx context.Context, voterID, targetID int64, kind string) (*VoteResult, error) {
	if err := s.ledger.Clear(ctx, voterID, targetID, kind); err != nil {
		return nil, err
	}
	return s.voteResult(ctx, voterID, targetID, kind)
}

// ListPostVersions pages through a post's edit history, newest snapshot
// first. The post itself must be visible.
func (s *Service) ListPostVersions(ctx context.Context, postID int64, page, limit int) ([]models.ContentVersion, paging.PageInfo, error) {
	if _, _, err := s.visiblePost(ctx, postID); err != nil {
		return nil, paging.PageInfo{}, err
	}
	return s.recorder.List(ctx, postID, models.TargetPost, page, limit)
}

// GetPostVersion fetches one snapshot, scoped to the post it belongs to.
func (s *Service) GetPostVersion(ctx context.Context, postID, versionID int64) (*models.ContentVersion, error) {
	if _, _, err := s.visiblePost(ctx, postID); err != nil {
		return nil, err
	}
	return s.recorder.Get(ctx, postID, models.TargetPost, versionID)
}

// ListCommentVersions pages through a comment's edit history.
func (s *Service) ListCommentVersions(ctx context.Context, commentID int64, page, limit int) ([]models.ContentVersion, paging.PageInfo, error) {
	if err := s.commentVisible(ctx, commentID); err != nil {
		return nil, paging.PageInfo{}, err
	}
	return s.recorder.List(ctx, commentID, models.TargetComment, page, limit)
}

// GetCommentVersion fetches one comment snapshot, scoped to its comment.
func (s *Service) GetCommentVersion(ctx context.Context, commentID, versionID int64) (*models.ContentVersion, error) {
	if err := s.commentVisible(ctx, commentID); err != nil {
		return nil, err
	}
	return s.recorder.Get(ctx, commentID, models.TargetComment, versionID)
}

func (s *Service) commentVisible(ctx context.Context, commentID int64) error {
	c, err := s.stores.Content().GetComment(ctx, commentID)
	if err != nil {
		return err
	}
	if c == nil || c.Deleted() {
		return errs.NotFound("comment")
	}
	_, _, err = s.visiblePost(ctx, c.PostID)
	return err
}
