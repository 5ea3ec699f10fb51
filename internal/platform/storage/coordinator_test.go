// Copyright (c) 2026 Novira. All rights reserved.
// Author: minh.ngvn.dev@gmail.com

package storage_test

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/minhngvn/novira/internal/platform/apperr"
	"github.com/minhngvn/novira/internal/platform/storage"
)

func newTestCoordinator(t *testing.T) (*storage.Coordinator, *storage.DiskStore) {
	t.Helper()

	store, err := storage.NewDiskStore(t.TempDir())
	require.NoError(t, err)

	return storage.NewCoordinator(store, slog.Default()), store
}

/*
TestCoordinator_Replace_Success verifies the write → commit → delete-old
sequencing: after a successful commit the old file is gone and the new one is
present and referenced.
*/
func TestCoordinator_Replace_Success(t *testing.T) {
	coordinator, store := newTestCoordinator(t)

	// Seed an existing asset standing in for the record's current avatar.
	oldRef, err := store.Save("user-avatars", "before.png", strings.NewReader("old-bytes"))
	require.NoError(t, err)
	require.True(t, store.Exists(oldRef))

	var committedRef string
	newRef, err := coordinator.Replace(
		context.Background(),
		&storage.Upload{Filename: "after.png", Content: strings.NewReader("new-bytes")},
		"user-avatars",
		oldRef,
		func(ctx context.Context, ref string) error {
			committedRef = ref
			return nil
		},
	)

	require.NoError(t, err)
	assert.Equal(t, newRef, committedRef)
	assert.NotEqual(t, oldRef, newRef)
	assert.True(t, strings.HasPrefix(newRef, "user-avatars/"))
	assert.True(t, strings.HasSuffix(newRef, ".png"))

	assert.True(t, store.Exists(newRef), "new asset must be present after commit")
	assert.False(t, store.Exists(oldRef), "old asset must be reclaimed after commit")
}

/*
TestCoordinator_Replace_CommitFailure verifies the rollback path: when the
record write fails, the freshly written file is removed and the previous
asset stays intact.
*/
func TestCoordinator_Replace_CommitFailure(t *testing.T) {
	coordinator, store := newTestCoordinator(t)

	oldRef, err := store.Save("user-avatars", "before.png", strings.NewReader("old-bytes"))
	require.NoError(t, err)

	commitErr := errors.New("record update failed")
	var attemptedRef string

	_, err = coordinator.Replace(
		context.Background(),
		&storage.Upload{Filename: "after.png", Content: strings.NewReader("new-bytes")},
		"user-avatars",
		oldRef,
		func(ctx context.Context, ref string) error {
			attemptedRef = ref
			return commitErr
		},
	)

	// The commit's own error is re-surfaced unchanged.
	require.ErrorIs(t, err, commitErr)

	assert.False(t, store.Exists(attemptedRef), "new asset must be rolled back")
	assert.True(t, store.Exists(oldRef), "previous asset must survive a failed commit")
}

/*
TestCoordinator_Replace_NoUpload verifies that an absent file leaves the
existing reference untouched — the commit still runs, with the old reference.
*/
func TestCoordinator_Replace_NoUpload(t *testing.T) {
	coordinator, store := newTestCoordinator(t)

	oldRef, err := store.Save("novel-covers", "cover.jpg", strings.NewReader("cover-bytes"))
	require.NoError(t, err)

	var committedRef string
	ref, err := coordinator.Replace(
		context.Background(),
		nil,
		"novel-covers",
		oldRef,
		func(ctx context.Context, r string) error {
			committedRef = r
			return nil
		},
	)

	require.NoError(t, err)
	assert.Equal(t, oldRef, ref)
	assert.Equal(t, oldRef, committedRef)
	assert.True(t, store.Exists(oldRef))
}

/*
TestDiskStore_Save_Naming checks namespace partitioning and extension handling.
*/
func TestDiskStore_Save_Naming(t *testing.T) {
	_, store := newTestCoordinator(t)

	tests := []struct {
		name         string
		originalName string
		wantSuffix   string
	}{
		{"keeps_extension", "portrait.PNG", ".png"},
		{"no_extension", "README", ""},
		{"strange_extension_dropped", "x.tar.gz-something-very-long", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ref, err := store.Save("user-avatars", tt.originalName, strings.NewReader("data"))
			require.NoError(t, err)
			assert.True(t, strings.HasPrefix(ref, "user-avatars/"))
			if tt.wantSuffix != "" {
				assert.True(t, strings.HasSuffix(ref, tt.wantSuffix))
			}
			assert.True(t, store.Exists(ref))
		})
	}
}

/*
TestDiskStore_Remove_Idempotent ensures cleanup paths can run twice.
*/
func TestDiskStore_Remove_Idempotent(t *testing.T) {
	_, store := newTestCoordinator(t)

	ref, err := store.Save("novel-covers", "c.jpg", strings.NewReader("x"))
	require.NoError(t, err)

	require.NoError(t, store.Remove(ref))
	require.NoError(t, store.Remove(ref), "second removal must not error")
	assert.False(t, store.Exists(ref))
}

/*
TestPublicURL checks locator construction for present and absent references.
*/
func TestPublicURL(t *testing.T) {
	assert.Equal(t, "http://cdn.novira.app/public/a/b.png",
		storage.PublicURL("http://cdn.novira.app/public/", "a/b.png"))
	assert.Equal(t, "", storage.PublicURL("http://cdn.novira.app", ""))
}

/*
TestDiskStore_Save_NameFormat asserts the generated reference is
"namespace/<uuidv7><ext>": the id is a time-sortable version-7 UUID and the
vetted original extension is preserved.
*/
func TestDiskStore_Save_NameFormat(t *testing.T) {
	_, store := newTestCoordinator(t)

	ref, err := store.Save("novel-covers", "cover.JPG", strings.NewReader("x"))
	require.NoError(t, err)

	name := strings.TrimPrefix(ref, "novel-covers/")
	require.NotEqual(t, ref, name)
	assert.True(t, strings.HasSuffix(name, ".jpg"))

	id, err := uuid.Parse(strings.TrimSuffix(name, ".jpg"))
	require.NoError(t, err)
	assert.Equal(t, uuid.Version(7), id.Version())
}

/*
TestDiskStore_SaveError_Kind asserts storage failures carry the stable
STORAGE_ERROR code.
*/
func TestDiskStore_SaveError_Kind(t *testing.T) {
	_, err := storage.NewDiskStore("/dev/null/not-a-dir")
	require.Error(t, err)
	assert.Equal(t, "STORAGE_ERROR", apperr.As(err).Code)
}
