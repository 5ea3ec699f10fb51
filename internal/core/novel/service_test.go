// Copyright (c) 2026 Novira. All rights reserved.
// Author: minh.ngvn.dev@gmail.com

package novel_test

import (
	"context"
	"errors"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/minhngvn/novira/internal/core/novel"
	"github.com/minhngvn/novira/internal/platform/apperr"
	"github.com/minhngvn/novira/internal/platform/storage"
	"github.com/minhngvn/novira/pkg/listing"
	"github.com/minhngvn/novira/pkg/pointer"
)

// # Test Fakes

type fakeNovelRepo struct {
	novels    map[string]*novel.Novel
	createErr error
	updateErr error
	viewErr   error
	updated   int
	deleted   []string
	views     []string
}

func newFakeNovelRepo(novels ...*novel.Novel) *fakeNovelRepo {
	repo := &fakeNovelRepo{novels: map[string]*novel.Novel{}}
	for _, n := range novels {
		repo.novels[n.ID] = n
	}
	return repo
}

func (f *fakeNovelRepo) Create(_ context.Context, n *novel.Novel) error {
	if f.createErr != nil {
		return f.createErr
	}
	stored := *n
	f.novels[n.ID] = &stored
	return nil
}

func (f *fakeNovelRepo) FindByID(_ context.Context, id string) (*novel.Novel, error) {
	if n, ok := f.novels[id]; ok {
		copied := *n
		return &copied, nil
	}
	return nil, apperr.NotFound("Novel")
}

func (f *fakeNovelRepo) FindBySlug(_ context.Context, slug string) (*novel.Novel, error) {
	for _, n := range f.novels {
		if n.Slug == slug {
			copied := *n
			return &copied, nil
		}
	}
	return nil, apperr.NotFound("Novel")
}

func (f *fakeNovelRepo) List(_ context.Context, _ listing.Params) ([]*novel.Novel, int, error) {
	return nil, 0, nil
}

func (f *fakeNovelRepo) ListByOwner(_ context.Context, _ string, _ listing.Params) ([]*novel.Novel, int, error) {
	return nil, 0, nil
}

func (f *fakeNovelRepo) Update(_ context.Context, n *novel.Novel) error {
	if f.updateErr != nil {
		return f.updateErr
	}
	f.updated++
	stored := *n
	f.novels[n.ID] = &stored
	return nil
}

func (f *fakeNovelRepo) Delete(_ context.Context, id string) error {
	f.deleted = append(f.deleted, id)
	delete(f.novels, id)
	return nil
}

func (f *fakeNovelRepo) IncrementView(_ context.Context, id string) error {
	if f.viewErr != nil {
		return f.viewErr
	}
	f.views = append(f.views, id)
	return nil
}

func newTestService(t *testing.T, repo *fakeNovelRepo) (*novel.Service, *storage.DiskStore, string) {
	t.Helper()
	root := t.TempDir()
	store, err := storage.NewDiskStore(root)
	require.NoError(t, err)
	coordinator := storage.NewCoordinator(store, slog.Default())
	return novel.NewService(repo, coordinator, "https://cdn.novira.app", slog.Default()), store, root
}

func seedCover(t *testing.T, store *storage.DiskStore) string {
	t.Helper()
	ref, err := store.Save("novel-covers", "old.jpg", strings.NewReader("old-bytes"))
	require.NoError(t, err)
	return ref
}

// # Creation

func TestCreateNovel_OwnerIsAlwaysTheActor(t *testing.T) {
	repo := newFakeNovelRepo()
	service, _, _ := newTestService(t, repo)

	created, err := service.CreateNovel(context.Background(), "author-1", novel.CreateNovelInput{
		Title: "The Silent Citadel",
	})

	require.NoError(t, err)
	assert.Equal(t, "author-1", created.OwnerID)
	assert.NotEmpty(t, created.ID)
	assert.Equal(t, "the-silent-citadel", created.Slug)
	assert.Equal(t, novel.StatusDraft, created.Status)
	assert.Contains(t, repo.novels, created.ID)
}

func TestCreateNovel_RejectsMissingTitle(t *testing.T) {
	repo := newFakeNovelRepo()
	service, _, _ := newTestService(t, repo)

	_, err := service.CreateNovel(context.Background(), "author-1", novel.CreateNovelInput{})

	require.Error(t, err)
	assert.True(t, apperr.HasCode(err, "VALIDATION_ERROR"))
	assert.Empty(t, repo.novels, "nothing persisted on validation failure")
}

func TestCreateNovel_RejectsUnknownStatus(t *testing.T) {
	repo := newFakeNovelRepo()
	service, _, _ := newTestService(t, repo)

	_, err := service.CreateNovel(context.Background(), "author-1", novel.CreateNovelInput{
		Title:  "Ashfall",
		Status: novel.Status("cancelled"),
	})

	require.Error(t, err)
	assert.True(t, apperr.HasCode(err, "VALIDATION_ERROR"))
}

func TestCreateNovel_FailedInsertRollsBackCoverFile(t *testing.T) {
	repo := newFakeNovelRepo()
	repo.createErr = errors.New("connection reset")
	service, _, root := newTestService(t, repo)

	_, err := service.CreateNovel(context.Background(), "author-1", novel.CreateNovelInput{
		Title: "Ashfall",
		Cover: &storage.Upload{Filename: "cover.jpg", Content: strings.NewReader("jpeg-bytes")},
	})

	require.Error(t, err)
	// The cover written before the failed insert must not survive.
	entries, readErr := os.ReadDir(filepath.Join(root, "novel-covers"))
	if readErr == nil {
		assert.Empty(t, entries, "no orphaned cover after a failed insert")
	}
}

func TestCreateNovel_CoverCommittedWithRecord(t *testing.T) {
	repo := newFakeNovelRepo()
	service, store, _ := newTestService(t, repo)

	created, err := service.CreateNovel(context.Background(), "author-1", novel.CreateNovelInput{
		Title: "Ashfall",
		Cover: &storage.Upload{Filename: "cover.jpg", Content: strings.NewReader("jpeg-bytes")},
	})

	require.NoError(t, err)
	assert.True(t, store.Exists(created.CoverRef))
	assert.Equal(t, "https://cdn.novira.app/"+created.CoverRef, created.CoverURL)
	assert.Equal(t, created.CoverRef, repo.novels[created.ID].CoverRef)
}

// # Ownership Enforcement

func TestUpdateNovel_NonOwnerIsForbiddenBeforeAnyWrite(t *testing.T) {
	repo := newFakeNovelRepo(&novel.Novel{ID: "n1", OwnerID: "author-1", Title: "Ashfall", Slug: "ashfall"})
	service, _, _ := newTestService(t, repo)

	_, err := service.UpdateNovel(context.Background(), "intruder", "n1", novel.UpdateNovelInput{
		Title: pointer.To("Hijacked"),
	})

	require.Error(t, err)
	assert.True(t, apperr.HasCode(err, "FORBIDDEN"))
	assert.Zero(t, repo.updated, "store must be untouched on denial")
	assert.Equal(t, "Ashfall", repo.novels["n1"].Title)
}

func TestDeleteNovel_NonOwnerIsForbidden(t *testing.T) {
	repo := newFakeNovelRepo(&novel.Novel{ID: "n1", OwnerID: "author-1"})
	service, _, _ := newTestService(t, repo)

	err := service.DeleteNovel(context.Background(), "intruder", "n1")

	require.Error(t, err)
	assert.True(t, apperr.HasCode(err, "FORBIDDEN"))
	assert.Contains(t, repo.novels, "n1")
}

// # Updates

func TestUpdateNovel_TitleChangeRegeneratesSlug(t *testing.T) {
	repo := newFakeNovelRepo(&novel.Novel{ID: "n1", OwnerID: "author-1", Title: "Ashfall", Slug: "ashfall"})
	service, _, _ := newTestService(t, repo)

	updated, err := service.UpdateNovel(context.Background(), "author-1", "n1", novel.UpdateNovelInput{
		Title: pointer.To("Ashfall: Rebirth"),
	})

	require.NoError(t, err)
	assert.Equal(t, "ashfall-rebirth", updated.Slug)
}

func TestUpdateNovel_PartialUpdateKeepsOtherFields(t *testing.T) {
	repo := newFakeNovelRepo(&novel.Novel{
		ID: "n1", OwnerID: "author-1", Title: "Ashfall", Slug: "ashfall",
		Status: novel.StatusOngoing, Description: "a city under ash",
	})
	service, _, _ := newTestService(t, repo)

	status := novel.StatusCompleted
	updated, err := service.UpdateNovel(context.Background(), "author-1", "n1", novel.UpdateNovelInput{
		Status: &status,
	})

	require.NoError(t, err)
	assert.Equal(t, novel.StatusCompleted, updated.Status)
	assert.Equal(t, "Ashfall", updated.Title)
	assert.Equal(t, "a city under ash", updated.Description)
}

func TestUpdateNovel_CoverReplaceReclaimsOldFile(t *testing.T) {
	repo := newFakeNovelRepo(&novel.Novel{ID: "n1", OwnerID: "author-1", Title: "Ashfall", Slug: "ashfall"})
	service, store, _ := newTestService(t, repo)

	oldRef := seedCover(t, store)
	repo.novels["n1"].CoverRef = oldRef

	updated, err := service.UpdateNovel(context.Background(), "author-1", "n1", novel.UpdateNovelInput{
		Cover: &storage.Upload{Filename: "new.jpg", Content: strings.NewReader("new-bytes")},
	})

	require.NoError(t, err)
	assert.NotEqual(t, oldRef, updated.CoverRef)
	assert.True(t, store.Exists(updated.CoverRef))
	assert.False(t, store.Exists(oldRef))
}

func TestUpdateNovel_FailedCommitKeepsOldCover(t *testing.T) {
	repo := newFakeNovelRepo(&novel.Novel{ID: "n1", OwnerID: "author-1", Title: "Ashfall", Slug: "ashfall"})
	service, store, _ := newTestService(t, repo)

	oldRef := seedCover(t, store)
	repo.novels["n1"].CoverRef = oldRef
	repo.updateErr = errors.New("deadlock detected")

	_, err := service.UpdateNovel(context.Background(), "author-1", "n1", novel.UpdateNovelInput{
		Cover: &storage.Upload{Filename: "new.jpg", Content: strings.NewReader("new-bytes")},
	})

	require.Error(t, err)
	assert.True(t, store.Exists(oldRef), "old cover survives a failed record write")
	assert.Equal(t, oldRef, repo.novels["n1"].CoverRef)
}

// # Deletion

func TestDeleteNovel_OwnerDeleteReclaimsCover(t *testing.T) {
	repo := newFakeNovelRepo(&novel.Novel{ID: "n1", OwnerID: "author-1"})
	service, store, _ := newTestService(t, repo)

	ref := seedCover(t, store)
	repo.novels["n1"].CoverRef = ref

	require.NoError(t, service.DeleteNovel(context.Background(), "author-1", "n1"))

	assert.Equal(t, []string{"n1"}, repo.deleted)
	assert.False(t, store.Exists(ref), "orphaned cover must be reclaimed")
}

// # Lookups

func TestGetNovel_ResolvesByUUIDOrSlug(t *testing.T) {
	stored := &novel.Novel{
		ID:      "0192c3a7-9f14-7abc-8def-0123456789ab",
		OwnerID: "author-1",
		Title:   "Ashfall",
		Slug:    "ashfall",
	}
	repo := newFakeNovelRepo(stored)
	service, _, _ := newTestService(t, repo)

	byID, err := service.GetNovel(context.Background(), stored.ID)
	require.NoError(t, err)
	assert.Equal(t, "ashfall", byID.Slug)

	bySlug, err := service.GetNovel(context.Background(), "ashfall")
	require.NoError(t, err)
	assert.Equal(t, stored.ID, bySlug.ID)

	assert.Len(t, repo.views, 2, "each read bumps the view counter")
}

func TestGetNovel_ViewCounterFailureIsNonFatal(t *testing.T) {
	stored := &novel.Novel{ID: "n1", OwnerID: "author-1", Slug: "ashfall"}
	repo := newFakeNovelRepo(stored)
	repo.viewErr = errors.New("statement timeout")
	service, _, _ := newTestService(t, repo)

	got, err := service.GetNovel(context.Background(), "ashfall")

	require.NoError(t, err)
	assert.Equal(t, "n1", got.ID)
}
