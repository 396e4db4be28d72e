// Package history keeps immutable edit snapshots of posts and comments.
// Every successful edit writes the pre-edit state here first; rows are
// append-only and retrieval is strictly scoped to the parent they belong to.
package history

import (
	"context"
	"time"

	"github.com/emilythestrangee/commune/backend/internal/errs"
	"github.com/emilythestrangee/commune/backend/internal/models"
	"github.com/emilythestrangee/commune/backend/internal/paging"
	"github.com/emilythestrangee/commune/backend/internal/ranking"
)

type Store interface {
	SaveVersion(ctx context.Context, v *models.ContentVersion) error
	// ListVersions returns every snapshot for a parent, order unspecified.
	ListVersions(ctx context.Context, parentID int64, kind string) ([]models.ContentVersion, error)
	// GetVersion returns the row by id alone, or nil when absent. Scope
	// checking against the parent happens here in the recorder.
	GetVersion(ctx context.Context, versionID int64) (*models.ContentVersion, error)
}

type Recorder struct {
	store Store
}

func NewRecorder(store Store) *Recorder {
	return &Recorder{store: store}
}

// RecordPost snapshots a post as it was before an edit. Callers must run it
// in the same transaction as the edit itself.
func (r *Recorder) RecordPost(ctx context.Context, before *models.Post, editorID int64, now time.Time) error {
	return r.store.SaveVersion(ctx, &models.ContentVersion{
		ParentID:   before.ID,
		ParentKind: models.TargetPost,
		Title:      before.Title,
		Body:       before.Body,
		EditedBy:   editorID,
		CreatedAt:  now,
	})
}

// RecordComment is the comment counterpart of RecordPost.
func (r *Recorder) RecordComment(ctx context.Context, before *models.Comment, editorID int64, now time.Time) error {
	return r.store.SaveVersion(ctx, &models.ContentVersion{
		ParentID:   before.ID,
		ParentKind: models.TargetComment,
		Body:       before.Body,
		EditedBy:   editorID,
		CreatedAt:  now,
	})
}

// Get fetches one snapshot, failing with not-found when the snapshot exists
// but belongs to a different parent. That keeps snapshot ids unguessable
// across parents.
func (r *Recorder) Get(ctx context.Context, parentID int64, kind string, versionID int64) (*models.ContentVersion, error) {
	v, err := r.store.GetVersion(ctx, versionID)
	if err != nil {
		return nil, err
	}
	if v == nil || v.ParentID != parentID || v.ParentKind != kind {
		return nil, errs.NotFound("version")
	}
	return v, nil
}

// List returns one page of a parent's snapshots, newest first.
func (r *Recorder) List(ctx context.Context, parentID int64, kind string, page, limit int) ([]models.ContentVersion, paging.PageInfo, error) {
	all, err := r.store.ListVersions(ctx, parentID, kind)
	if err != nil {
		return nil, paging.PageInfo{}, err
	}
	ranking.Sort(all, ranking.Newest, func(v models.ContentVersion) ranking.Key {
		return ranking.Key{ID: v.ID, CreatedAt: v.CreatedAt}
	})
	info := paging.Info(page, limit, len(all))
	return paging.SlicePage(all, page, limit), info, nil
}
