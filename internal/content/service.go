// Package content is the service layer behind the listing, search, edit and
// vote endpoints. Listings run one pipeline: load candidates, apply the
// visibility predicate, rank with a total-order comparator, then slice a
// page. Edits snapshot the pre-edit row inside the same transaction that
// overwrites it.
package content

import (
	"context"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/emilythestrangee/commune/backend/internal/errs"
	"github.com/emilythestrangee/commune/backend/internal/history"
	"github.com/emilythestrangee/commune/backend/internal/membership"
	"github.com/emilythestrangee/commune/backend/internal/models"
	"github.com/emilythestrangee/commune/backend/internal/paging"
	"github.com/emilythestrangee/commune/backend/internal/ranking"
	"github.com/emilythestrangee/commune/backend/internal/recent"
	"github.com/emilythestrangee/commune/backend/internal/visibility"
	"github.com/emilythestrangee/commune/backend/internal/votes"
)

type Service struct {
	stores   Stores
	ledger   *votes.Ledger
	recorder *history.Recorder
	toggle   *membership.Toggle
	tracker  *recent.Tracker
	now      func() time.Time
}

// NewService wires the engine components over one set of stores. rdb may be
// nil; the recency tracker then runs without its cache.
func NewService(stores Stores, rdb *redis.Client) *Service {
	tracker := recent.NewTracker(stores.Recent(), rdb)
	return &Service{
		stores:   stores,
		ledger:   votes.NewLedger(stores.Votes(), stores.Content()),
		recorder: history.NewRecorder(stores.History()),
		toggle:   membership.NewToggle(stores.Memberships(), tracker),
		tracker:  tracker,
		now:      time.Now,
	}
}

// PostItem is a post plus its viewer-dependent vote fields.
type PostItem struct {
	models.Post
	Score     int64 `json:"score"`
	Upvotes   int64 `json:"upvotes"`
	Downvotes int64 `json:"downvotes"`
	MyVote    int8  `json:"my_vote"`
}

type CommentItem struct {
	models.Comment
	Score     int64 `json:"score"`
	Upvotes   int64 `json:"upvotes"`
	Downvotes int64 `json:"downvotes"`
	MyVote    int8  `json:"my_vote"`
}

// visibleCommunity loads a community that may appear to callers, or
// not-found.
func (s *Service) visibleCommunity(ctx context.Context, id int64) (*models.Community, error) {
	c, err := s.stores.Content().GetCommunity(ctx, id)
	if err != nil {
		return nil, err
	}
	if !visibility.CommunityVisible(c) {
		return nil, errs.NotFound("community")
	}
	return c, nil
}

// visiblePost loads a post whose whole parent chain is live, or not-found.
func (s *Service) visiblePost(ctx context.Context, id int64) (*models.Post, *models.Community, error) {
	p, err := s.stores.Content().GetPost(ctx, id)
	if err != nil {
		return nil, nil, err
	}
	if p == nil {
		return nil, nil, errs.NotFound("post")
	}
	c, err := s.stores.Content().GetCommunity(ctx, p.CommunityID)
	if err != nil {
		return nil, nil, err
	}
	if !visibility.PostVisible(p, c, visibility.Options{}) {
		return nil, nil, errs.NotFound("post")
	}
	return p, c, nil
}

// postItems decorates posts with scores, counts and the viewer's votes.
func (s *Service) postItems(ctx context.Context, viewerID int64, posts []models.Post) ([]PostItem, error) {
	ids := make([]int64, len(posts))
	for i, p := range posts {
		ids[i] = p.ID
	}
	counts, err := s.stores.Votes().CountsFor(ctx, ids, models.TargetPost)
	if err != nil {
		return nil, err
	}
	mine, err := s.stores.Votes().StatesFor(ctx, viewerID, ids, models.TargetPost)
	if err != nil {
		return nil, err
	}
	items := make([]PostItem, len(posts))
	for i, p := range posts {
		c := counts[p.ID]
		items[i] = PostItem{
			Post:      p,
			Score:     c[0] - c[1],
			Upvotes:   c[0],
			Downvotes: c[1],
			MyVote:    mine[p.ID],
		}
	}
	return items, nil
}

func (s *Service) commentItems(ctx context.Context, viewerID int64, comments []models.Comment) ([]CommentItem, error) {
	ids := make([]int64, len(comments))
	for i, c := range comments {
		ids[i] = c.ID
	}
	counts, err := s.stores.Votes().CountsFor(ctx, ids, models.TargetComment)
	if err != nil {
		return nil, err
	}
	mine, err := s.stores.Votes().StatesFor(ctx, viewerID, ids, models.TargetComment)
	if err != nil {
		return nil, err
	}
	items := make([]CommentItem, len(comments))
	for i, c := range comments {
		n := counts[c.ID]
		items[i] = CommentItem{
			Comment:   c,
			Score:     n[0] - n[1],
			Upvotes:   n[0],
			Downvotes: n[1],
			MyVote:    mine[c.ID],
		}
	}
	return items, nil
}

// rankedPosts is the shared front half of both post listing modes: load,
// filter, decorate, rank.
func (s *Service) rankedPosts(ctx context.Context, viewerID, communityID int64, q string, mode ranking.Mode) ([]PostItem, error) {
	community, err := s.visibleCommunity(ctx, communityID)
	if err != nil {
		return nil, err
	}
	q, err = ranking.NormalizeQuery(q)
	if err != nil {
		return nil, err
	}

	rows, err := s.stores.Content().ListPostsByCommunity(ctx, communityID)
	if err != nil {
		return nil, err
	}
	candidates := rows[:0]
	for _, p := range rows {
		if !visibility.PostVisible(&p, community, visibility.Options{}) {
			continue
		}
		if !ranking.MatchesText(q, p.Title, p.Body) {
			continue
		}
		candidates = append(candidates, p)
	}

	items, err := s.postItems(ctx, viewerID, candidates)
	if err != nil {
		return nil, err
	}
	ranking.Sort(items, mode, func(it PostItem) ranking.Key {
		return ranking.Key{ID: it.ID, CreatedAt: it.CreatedAt, Score: it.Score}
	})
	return items, nil
}

// ListPosts is the offset-paged community feed.
func (s *Service) ListPosts(ctx context.Context, viewerID, communityID int64, q string, mode ranking.Mode, page, limit int) ([]PostItem, paging.PageInfo, error) {
	items, err := s.rankedPosts(ctx, viewerID, communityID, q, mode)
	if err != nil {
		return nil, paging.PageInfo{}, err
	}
	info := paging.Info(page, limit, len(items))
	return paging.SlicePage(items, page, limit), info, nil
}

// ListPostsCursor is the cursor-paged Newest feed. A malformed cursor token
// restarts from the top rather than erroring.
func (s *Service) ListPostsCursor(ctx context.Context, viewerID, communityID int64, q, cursorToken string, limit int) ([]PostItem, string, error) {
	items, err := s.rankedPosts(ctx, viewerID, communityID, q, ranking.Newest)
	if err != nil {
		return nil, "", err
	}
	keyOf := func(it PostItem) ranking.Key {
		return ranking.Key{ID: it.ID, CreatedAt: it.CreatedAt}
	}
	if cur, ok := paging.DecodeCursor(cursorToken); ok {
		items = paging.ApplyCursor(items, cur, keyOf)
	}
	limit = paging.ClampLimit(limit)
	if len(items) > limit {
		items = items[:limit]
	}
	return items, paging.NextCursor(items, limit, keyOf), nil
}

// GetPost returns one visible post; viewing it counts as community activity.
func (s *Service) GetPost(ctx context.Context, viewerID, postID int64) (*PostItem, error) {
	p, _, err := s.visiblePost(ctx, postID)
	if err != nil {
		return nil, err
	}
	items, err := s.postItems(ctx, viewerID, []models.Post{*p})
	if err != nil {
		return nil, err
	}
	if viewerID != 0 {
		if err := s.tracker.Touch(ctx, viewerID, p.CommunityID, s.now()); err != nil {
			return nil, err
		}
	}
	return &items[0], nil
}

func (s *Service) CreatePost(ctx context.Context, authorID int64, req models.CreatePostRequest) (*models.Post, error) {
	if authorID == 0 {
		return nil, errs.AuthRequired()
	}
	if strings.TrimSpace(req.Title) == "" {
		return nil, errs.Validation("title is required")
	}
	if _, err := s.visibleCommunity(ctx, req.CommunityID); err != nil {
		return nil, err
	}

	post := &models.Post{
		Title:       strings.TrimSpace(req.Title),
		Body:        req.Body,
		AuthorID:    authorID,
		CommunityID: req.CommunityID,
	}
	if err := s.stores.Content().CreatePost(ctx, post); err != nil {
		return nil, err
	}
	if err := s.tracker.Touch(ctx, authorID, req.CommunityID, s.now()); err != nil {
		return nil, err
	}
	return s.stores.Content().GetPost(ctx, post.ID)
}

// UpdatePost overwrites title/body after snapshotting the pre-edit state.
// Snapshot and overwrite commit together or not at all.
func (s *Service) UpdatePost(ctx context.Context, editorID, postID int64, title, body string) (*models.Post, error) {
	if editorID == 0 {
		return nil, errs.AuthRequired()
	}
	if strings.TrimSpace(title) == "" && strings.TrimSpace(body) == "" {
		return nil, errs.Validation("nothing to update")
	}

	var updated *models.Post
	err := s.stores.Atomically(ctx, func(tx Stores) error {
		p, err := tx.Content().GetPost(ctx, postID)
		if err != nil {
			return err
		}
		if p == nil || p.Deleted() {
			return errs.NotFound("post")
		}
		if p.AuthorID != editorID {
			return errs.SelfAction("you can only edit your own posts")
		}

		rec := history.NewRecorder(tx.History())
		if err := rec.RecordPost(ctx, p, editorID, s.now()); err != nil {
			return err
		}

		if strings.TrimSpace(title) != "" {
			p.Title = strings.TrimSpace(title)
		}
		if strings.TrimSpace(body) != "" {
			p.Body = body
		}
		p.UpdatedAt = s.now()
		if err := tx.Content().SavePost(ctx, p); err != nil {
			return err
		}
		updated = p
		return nil
	})
	if err != nil {
		return nil, err
	}
	return updated, nil
}

// DeletePost soft-deletes; the row stays, listings stop showing it.
// Deleting an already-deleted post is an idempotent success.
func (s *Service) DeletePost(ctx context.Context, editorID, postID int64) error {
	if editorID == 0 {
		return errs.AuthRequired()
	}
	return s.stores.Atomically(ctx, func(tx Stores) error {
		p, err := tx.Content().GetPost(ctx, postID)
		if err != nil {
			return err
		}
		if p == nil {
			return errs.NotFound("post")
		}
		if p.AuthorID != editorID {
			return errs.SelfAction("you can only delete your own posts")
		}
		if p.Deleted() {
			return nil
		}
		now := s.now()
		p.DeletedAt = &now
		return tx.Content().SavePost(ctx, p)
	})
}

// ListComments lists a post's visible comments, Newest or Top ordered,
// offset paged.
func (s *Service) ListComments(ctx context.Context, viewerID, postID int64, mode ranking.Mode, page, limit int) ([]CommentItem, paging.PageInfo, error) {
	if _, _, err := s.visiblePost(ctx, postID); err != nil {
		return nil, paging.PageInfo{}, err
	}
	rows, err := s.stores.Content().ListCommentsByPost(ctx, postID)
	if err != nil {
		return nil, paging.PageInfo{}, err
	}
	live := rows[:0]
	for _, c := range rows {
		if !c.Deleted() {
			live = append(live, c)
		}
	}

	items, err := s.commentItems(ctx, viewerID, live)
	if err != nil {
		return nil, paging.PageInfo{}, err
	}
	ranking.Sort(items, mode, func(it CommentItem) ranking.Key {
		return ranking.Key{ID: it.ID, CreatedAt: it.CreatedAt, Score: it.Score}
	})
	info := paging.Info(page, limit, len(items))
	return paging.SlicePage(items, page, limit), info, nil
}

func (s *Service) CreateComment(ctx context.Context, authorID, postID int64, req models.CreateCommentRequest) (*models.Comment, error) {
	if authorID == 0 {
		return nil, errs.AuthRequired()
	}
	if strings.TrimSpace(req.Body) == "" {
		return nil, errs.Validation("body is required")
	}
	if _, _, err := s.visiblePost(ctx, postID); err != nil {
		return nil, err
	}
	if req.ParentCommentID != nil {
		parent, err := s.stores.Content().GetComment(ctx, *req.ParentCommentID)
		if err != nil {
			return nil, err
		}
		if parent == nil || parent.Deleted() {
			return nil, errs.NotFound("parent comment")
		}
		if parent.PostID != postID {
			return nil, errs.Validation("parent comment belongs to a different post")
		}
	}

	comment := &models.Comment{
		Body:            req.Body,
		AuthorID:        authorID,
		PostID:          postID,
		ParentCommentID: req.ParentCommentID,
	}
	if err := s.stores.Content().CreateComment(ctx, comment); err != nil {
		return nil, err
	}
	return s.stores.Content().GetComment(ctx, comment.ID)
}

func (s *Service) UpdateComment(ctx context.Context, editorID, commentID int64, body string) (*models.Comment, error) {
	if editorID == 0 {
		return nil, errs.AuthRequired()
	}
	if strings.TrimSpace(body) == "" {
		return nil, errs.Validation("body is required")
	}

	var updated *models.Comment
	err := s.stores.Atomically(ctx, func(tx Stores) error {
		c, err := tx.Content().GetComment(ctx, commentID)
		if err != nil {
			return err
		}
		if c == nil || c.Deleted() {
			return errs.NotFound("comment")
		}
		if c.AuthorID != editorID {
			return errs.SelfAction("you can only edit your own comments")
		}

		rec := history.NewRecorder(tx.History())
		if err := rec.RecordComment(ctx, c, editorID, s.now()); err != nil {
			return err
		}

		c.Body = body
		c.UpdatedAt = s.now()
		if err := tx.Content().SaveComment(ctx, c); err != nil {
			return err
		}
		updated = c
		return nil
	})
	if err != nil {
		return nil, err
	}
	return updated, nil
}

func (s *Service) DeleteComment(ctx context.Context, editorID, commentID int64) error {
	if editorID == 0 {
		return errs.AuthRequired()
	}
	return s.stores.Atomically(ctx, func(tx Stores) error {
		c, err := tx.Content().GetComment(ctx, commentID)
		if err != nil {
			return err
		}
		if c == nil {
			return errs.NotFound("comment")
		}
		if c.AuthorID != editorID {
			return errs.SelfAction("you can only delete your own comments")
		}
		if c.Deleted() {
			return nil
		}
		now := s.now()
		c.DeletedAt = &now
		return tx.Content().SaveComment(ctx, c)
	})
}
