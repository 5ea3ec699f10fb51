// Copyright (c) 2026 Novira. All rights reserved.
// Author: minh.ngvn.dev@gmail.com

package account_test

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/minhngvn/novira/internal/platform/apperr"
	"github.com/minhngvn/novira/internal/platform/storage"
	"github.com/minhngvn/novira/internal/users/account"
	"github.com/minhngvn/novira/internal/users/auth"
	"github.com/minhngvn/novira/pkg/listing"
	"github.com/minhngvn/novira/pkg/pagination"
)

// # Test Fakes

type fakeAccountRepo struct {
	users     map[string]*auth.User
	updateErr error
	listUsers []*auth.User
	listTotal int
	gotParams listing.Params
	deleted   []string
}

func newFakeAccountRepo(users ...*auth.User) *fakeAccountRepo {
	repo := &fakeAccountRepo{users: map[string]*auth.User{}}
	for _, u := range users {
		repo.users[u.ID] = u
	}
	return repo
}

func (f *fakeAccountRepo) FindByID(_ context.Context, id string) (*auth.User, error) {
	if u, ok := f.users[id]; ok {
		copied := *u
		return &copied, nil
	}
	return nil, apperr.NotFound("User")
}

func (f *fakeAccountRepo) FindByUsername(_ context.Context, username string) (*auth.User, error) {
	for _, u := range f.users {
		if strings.EqualFold(u.Username, username) {
			copied := *u
			return &copied, nil
		}
	}
	return nil, apperr.NotFound("User")
}

func (f *fakeAccountRepo) Update(_ context.Context, user *auth.User) error {
	if f.updateErr != nil {
		return f.updateErr
	}
	stored := *user
	f.users[user.ID] = &stored
	return nil
}

func (f *fakeAccountRepo) SoftDelete(_ context.Context, id string) error {
	f.deleted = append(f.deleted, id)
	delete(f.users, id)
	return nil
}

func (f *fakeAccountRepo) List(_ context.Context, params listing.Params) ([]*auth.User, int, error) {
	f.gotParams = params
	return f.listUsers, f.listTotal, nil
}

type fakeSessions struct {
	revokedAll []string
}

func (f *fakeSessions) RevokeAll(_ context.Context, userID string) error {
	f.revokedAll = append(f.revokedAll, userID)
	return nil
}

func newTestService(t *testing.T, repo *fakeAccountRepo) (*account.Service, *storage.DiskStore, *fakeSessions) {
	t.Helper()
	store, err := storage.NewDiskStore(t.TempDir())
	require.NoError(t, err)
	sessions := &fakeSessions{}
	coordinator := storage.NewCoordinator(store, slog.Default())
	service := account.NewService(repo, sessions, coordinator, "https://cdn.novira.app", slog.Default())
	return service, store, sessions
}

func seedAvatar(t *testing.T, store *storage.DiskStore) string {
	t.Helper()
	ref, err := store.Save("user-avatars", "old.png", strings.NewReader("old-bytes"))
	require.NoError(t, err)
	return ref
}

func ptr(s string) *string { return &s }

// # Profile Updates

func TestUpdateProfile_PartialFieldsOnly(t *testing.T) {
	repo := newFakeAccountRepo(&auth.User{ID: "u1", Username: "minh", DisplayName: "Old Name", Bio: "old bio"})
	service, _, _ := newTestService(t, repo)

	user, err := service.UpdateProfile(context.Background(), "u1", account.UpdateProfileInput{
		DisplayName: ptr("New Name"),
	})

	require.NoError(t, err)
	assert.Equal(t, "New Name", user.DisplayName)
	// Untouched field survives.
	assert.Equal(t, "old bio", user.Bio)
}

func TestUpdateProfile_AvatarReplaceDeletesOldFile(t *testing.T) {
	repo := newFakeAccountRepo(&auth.User{ID: "u1", Username: "minh"})
	service, store, _ := newTestService(t, repo)

	oldRef := seedAvatar(t, store)
	repo.users["u1"].AvatarRef = oldRef

	user, err := service.UpdateProfile(context.Background(), "u1", account.UpdateProfileInput{
		Avatar: &storage.Upload{Filename: "new.png", Content: strings.NewReader("new-bytes")},
	})

	require.NoError(t, err)
	assert.NotEqual(t, oldRef, user.AvatarRef)
	assert.True(t, store.Exists(user.AvatarRef), "new avatar must be on disk")
	assert.False(t, store.Exists(oldRef), "old avatar must be reclaimed after commit")
	assert.Equal(t, user.AvatarRef, repo.users["u1"].AvatarRef, "record carries the new reference")
	assert.Equal(t, "https://cdn.novira.app/"+user.AvatarRef, user.AvatarURL)
}

func TestUpdateProfile_FailedCommitRollsBackNewAvatar(t *testing.T) {
	repo := newFakeAccountRepo(&auth.User{ID: "u1", Username: "minh"})
	service, store, _ := newTestService(t, repo)

	oldRef := seedAvatar(t, store)
	repo.users["u1"].AvatarRef = oldRef
	repo.updateErr = errors.New("deadlock detected")

	_, err := service.UpdateProfile(context.Background(), "u1", account.UpdateProfileInput{
		Avatar: &storage.Upload{Filename: "new.png", Content: strings.NewReader("new-bytes")},
	})

	require.Error(t, err)
	// The failed record write left the previous asset untouched.
	assert.True(t, store.Exists(oldRef), "old avatar must survive a failed commit")
	assert.Equal(t, oldRef, repo.users["u1"].AvatarRef)
}

func TestUpdateProfile_NoAvatarKeepsExistingReference(t *testing.T) {
	repo := newFakeAccountRepo(&auth.User{ID: "u1", Username: "minh"})
	service, store, _ := newTestService(t, repo)

	oldRef := seedAvatar(t, store)
	repo.users["u1"].AvatarRef = oldRef

	user, err := service.UpdateProfile(context.Background(), "u1", account.UpdateProfileInput{
		Bio: ptr("updated bio"),
	})

	require.NoError(t, err)
	assert.Equal(t, oldRef, user.AvatarRef)
	assert.True(t, store.Exists(oldRef))
}

// # Deletion

func TestDeleteAccount_RevokesSessionsAndReclaimsAvatar(t *testing.T) {
	repo := newFakeAccountRepo(&auth.User{ID: "u1", Username: "minh"})
	service, store, sessions := newTestService(t, repo)

	ref := seedAvatar(t, store)
	repo.users["u1"].AvatarRef = ref

	require.NoError(t, service.DeleteAccount(context.Background(), "u1"))

	assert.Equal(t, []string{"u1"}, repo.deleted)
	assert.Equal(t, []string{"u1"}, sessions.revokedAll)
	assert.False(t, store.Exists(ref), "orphaned avatar must be reclaimed")
}

// # Directory

func TestListUsers_ProjectsPublicFieldsOnly(t *testing.T) {
	repo := newFakeAccountRepo()
	repo.listUsers = []*auth.User{
		{ID: "u1", Username: "minh", Email: "secret@novira.app", PasswordHash: "hash", AvatarRef: "user-avatars/a.png"},
	}
	repo.listTotal = 1
	service, _, _ := newTestService(t, repo)

	profiles, total, err := service.ListUsers(context.Background(), listing.Params{
		Params: pagination.Params{Page: 1, Limit: 10},
	})

	require.NoError(t, err)
	assert.Equal(t, 1, total)
	require.Len(t, profiles, 1)
	assert.Equal(t, "minh", profiles[0].Username)
	assert.Equal(t, "https://cdn.novira.app/user-avatars/a.png", profiles[0].AvatarURL)
}

func TestListUsers_ParamsPassThroughToStore(t *testing.T) {
	repo := newFakeAccountRepo()
	service, _, _ := newTestService(t, repo)

	params := listing.Params{
		Params:    pagination.Params{Page: 3, Limit: 25},
		Search:    "mi",
		OrderBy:   "username",
		OrderType: listing.OrderAsc,
	}
	_, _, err := service.ListUsers(context.Background(), params)

	require.NoError(t, err)
	assert.Equal(t, params, repo.gotParams)
}
