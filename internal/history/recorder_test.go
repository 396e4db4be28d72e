package history

import (
	"context"
	"testing"
	"time"

	"github.com/emilythestrangee/commune/backend/internal/errs"
	"github.com/emilythestrangee/commune/backend/internal/models"
)

type fakeStore struct {
	rows   []models.ContentVersion
	nextID int64
}

func (s *fakeStore) SaveVersion(_ context.Context, v *models.ContentVersion) error {
	s.nextID++
	v.ID = s.nextID
	s.rows = append(s.rows, *v)
	return nil
}

func (s *fakeStore) ListVersions(_ context.Context, parentID int64, kind string) ([]models.ContentVersion, error) {
	var out []models.ContentVersion
	for _, v := range s.rows {
		if v.ParentID == parentID && v.ParentKind == kind {
			out = append(out, v)
		}
	}
	return out, nil
}

func (s *fakeStore) GetVersion(_ context.Context, versionID int64) (*models.ContentVersion, error) {
	for _, v := range s.rows {
		if v.ID == versionID {
			cp := v
			return &cp, nil
		}
	}
	return nil, nil
}

func TestRecordAndListNewestFirst(t *testing.T) {
	ctx := context.Background()
	store := &fakeStore{}
	rec := NewRecorder(store)
	base := time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)

	post := &models.Post{ID: 7, Title: "v1", Body: "first"}
	if err := rec.RecordPost(ctx, post, 2, base); err != nil {
		t.Fatal(err)
	}
	post.Title = "v2"
	if err := rec.RecordPost(ctx, post, 2, base.Add(time.Minute)); err != nil {
		t.Fatal(err)
	}
	post.Title = "v3"
	if err := rec.RecordPost(ctx, post, 2, base.Add(2*time.Minute)); err != nil {
		t.Fatal(err)
	}

	got, info, err := rec.List(ctx, 7, models.TargetPost, 1, 20)
	if err != nil {
		t.Fatal(err)
	}
	if info.Records != 3 || info.Pages != 1 {
		t.Fatalf("page info: %+v", info)
	}
	want := []string{"v3", "v2", "v1"}
	for i, w := range want {
		if got[i].Title != w {
			t.Fatalf("row %d: title %q, want %q", i, got[i].Title, w)
		}
	}
}

func TestListTimestampCollisionBreaksOnID(t *testing.T) {
	ctx := context.Background()
	store := &fakeStore{}
	rec := NewRecorder(store)
	at := time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)

	post := &models.Post{ID: 7, Title: "a"}
	rec.RecordPost(ctx, post, 2, at)
	post.Title = "b"
	rec.RecordPost(ctx, post, 2, at)

	got, _, err := rec.List(ctx, 7, models.TargetPost, 1, 20)
	if err != nil {
		t.Fatal(err)
	}
	if got[0].ID <= got[1].ID {
		t.Fatalf("equal timestamps should order by id desc, got %d then %d", got[0].ID, got[1].ID)
	}
}

func TestGetScopedToParent(t *testing.T) {
	ctx := context.Background()
	store := &fakeStore{}
	rec := NewRecorder(store)
	at := time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)

	rec.RecordPost(ctx, &models.Post{ID: 7, Title: "of seven"}, 2, at)
	rec.RecordPost(ctx, &models.Post{ID: 8, Title: "of eight"}, 2, at)

	ours, _, _ := rec.List(ctx, 7, models.TargetPost, 1, 20)
	theirs, _, _ := rec.List(ctx, 8, models.TargetPost, 1, 20)
	if len(ours) != 1 || len(theirs) != 1 {
		t.Fatal("expected one snapshot per parent")
	}

	// Fetching 8's snapshot through parent 7 must 404 even though the id
	// exists.
	if _, err := rec.Get(ctx, 7, models.TargetPost, theirs[0].ID); errs.KindOf(err) != errs.KindNotFound {
		t.Fatalf("cross-parent fetch: expected not-found, got %v", err)
	}
	// Same id, wrong kind, same outcome.
	if _, err := rec.Get(ctx, 8, models.TargetComment, theirs[0].ID); errs.KindOf(err) != errs.KindNotFound {
		t.Fatalf("cross-kind fetch: expected not-found, got %v", err)
	}
	// Correctly scoped fetch works.
	v, err := rec.Get(ctx, 8, models.TargetPost, theirs[0].ID)
	if err != nil {
		t.Fatal(err)
	}
	if v.Title != "of eight" {
		t.Fatalf("got %q", v.Title)
	}
}

func TestGetMissingVersion(t *testing.T) {
	rec := NewRecorder(&fakeStore{})
	if _, err := rec.Get(context.Background(), 7, models.TargetPost, 999); errs.KindOf(err) != errs.KindNotFound {
		t.Fatalf("expected not-found, got %v", err)
	}
}
