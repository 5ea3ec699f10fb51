// Copyright (c) 2026 Novira. All rights reserved.
// Author: minh.ngvn.dev@gmail.com

package social_test

import (
	"context"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/minhngvn/novira/internal/core/novel"
	"github.com/minhngvn/novira/internal/platform/apperr"
	"github.com/minhngvn/novira/internal/social"
	"github.com/minhngvn/novira/internal/users/auth"
	"github.com/minhngvn/novira/pkg/listing"
)

// # Test Fakes

type edge struct{ from, to string }

// fakeRelationRepo mimics the constraint-backed store: inserts report
// whether a new edge was created, deletes report whether one was removed.
type fakeRelationRepo struct {
	follows       map[edge]bool
	favourites    map[edge]bool
	insertErr     error
	followerUsers []*auth.User
	favNovels     []*novel.Novel
}

func newFakeRelationRepo() *fakeRelationRepo {
	return &fakeRelationRepo{
		follows:    map[edge]bool{},
		favourites: map[edge]bool{},
	}
}

func (f *fakeRelationRepo) InsertFollow(_ context.Context, followerID, followingID string) (bool, error) {
	if f.insertErr != nil {
		return false, f.insertErr
	}
	key := edge{followerID, followingID}
	if f.follows[key] {
		return false, nil
	}
	f.follows[key] = true
	return true, nil
}

func (f *fakeRelationRepo) DeleteFollow(_ context.Context, followerID, followingID string) (bool, error) {
	key := edge{followerID, followingID}
	if !f.follows[key] {
		return false, nil
	}
	delete(f.follows, key)
	return true, nil
}

func (f *fakeRelationRepo) ListFollowers(_ context.Context, _ string, _ listing.Params) ([]*auth.User, int, error) {
	return f.followerUsers, len(f.followerUsers), nil
}

func (f *fakeRelationRepo) ListFollowing(_ context.Context, _ string, _ listing.Params) ([]*auth.User, int, error) {
	return f.followerUsers, len(f.followerUsers), nil
}

func (f *fakeRelationRepo) InsertFavourite(_ context.Context, userID, novelID string) (bool, error) {
	if f.insertErr != nil {
		return false, f.insertErr
	}
	key := edge{userID, novelID}
	if f.favourites[key] {
		return false, nil
	}
	f.favourites[key] = true
	return true, nil
}

func (f *fakeRelationRepo) DeleteFavourite(_ context.Context, userID, novelID string) (bool, error) {
	key := edge{userID, novelID}
	if !f.favourites[key] {
		return false, nil
	}
	delete(f.favourites, key)
	return true, nil
}

func (f *fakeRelationRepo) ListFavourites(_ context.Context, _ string, _ listing.Params) ([]*novel.Novel, int, error) {
	return f.favNovels, len(f.favNovels), nil
}

func newTestService(repo *fakeRelationRepo) *social.Service {
	return social.NewService(repo, "https://cdn.novira.app", slog.Default())
}

// # Follow Toggle

func TestToggleFollow_CreatesThenRemoves(t *testing.T) {
	repo := newFakeRelationRepo()
	service := newTestService(repo)

	first, err := service.ToggleFollow(context.Background(), "alice", "bob")
	require.NoError(t, err)
	assert.True(t, first.Following)
	assert.True(t, repo.follows[edge{"alice", "bob"}])

	second, err := service.ToggleFollow(context.Background(), "alice", "bob")
	require.NoError(t, err)
	assert.False(t, second.Following)
	assert.False(t, repo.follows[edge{"alice", "bob"}])
}

func TestToggleFollow_TogglePairIsANoOp(t *testing.T) {
	repo := newFakeRelationRepo()
	service := newTestService(repo)

	for i := 0; i < 4; i++ {
		_, err := service.ToggleFollow(context.Background(), "alice", "bob")
		require.NoError(t, err, "repeated toggles must never error")
	}

	// Even number of toggles leaves the graph empty.
	assert.Empty(t, repo.follows)
}

func TestToggleFollow_SelfEdgeRejectedBeforeStore(t *testing.T) {
	repo := newFakeRelationRepo()
	service := newTestService(repo)

	_, err := service.ToggleFollow(context.Background(), "alice", "alice")

	require.Error(t, err)
	assert.True(t, apperr.HasCode(err, "SELF_RELATION"))
	assert.Empty(t, repo.follows, "store must be untouched")

	appError := apperr.As(err)
	require.NotNil(t, appError)
	assert.Equal(t, 422, appError.HTTPStatus)
}

func TestToggleFollow_DirectionMatters(t *testing.T) {
	repo := newFakeRelationRepo()
	service := newTestService(repo)

	_, err := service.ToggleFollow(context.Background(), "alice", "bob")
	require.NoError(t, err)

	// The reverse edge is independent: bob following alice creates a new edge.
	result, err := service.ToggleFollow(context.Background(), "bob", "alice")
	require.NoError(t, err)
	assert.True(t, result.Following)
	assert.True(t, repo.follows[edge{"alice", "bob"}])
	assert.True(t, repo.follows[edge{"bob", "alice"}])
}

func TestToggleFollow_UnknownTargetSurfacesNotFound(t *testing.T) {
	repo := newFakeRelationRepo()
	repo.insertErr = apperr.NotFound("User")
	service := newTestService(repo)

	_, err := service.ToggleFollow(context.Background(), "alice", "ghost")

	require.Error(t, err)
	assert.True(t, apperr.IsNotFound(err))
}

// # Favourite Toggle

func TestToggleFavourite_CreatesThenRemoves(t *testing.T) {
	repo := newFakeRelationRepo()
	service := newTestService(repo)

	first, err := service.ToggleFavourite(context.Background(), "alice", "novel-1")
	require.NoError(t, err)
	assert.True(t, first.Favourited)

	second, err := service.ToggleFavourite(context.Background(), "alice", "novel-1")
	require.NoError(t, err)
	assert.False(t, second.Favourited)
	assert.Empty(t, repo.favourites)
}

func TestToggleFavourite_UnknownNovelSurfacesNotFound(t *testing.T) {
	repo := newFakeRelationRepo()
	repo.insertErr = apperr.NotFound("Novel")
	service := newTestService(repo)

	_, err := service.ToggleFavourite(context.Background(), "alice", "ghost")

	require.Error(t, err)
	assert.True(t, apperr.IsNotFound(err))
}

// # Edge Listings

func TestListFollowers_ProjectsPublicProfiles(t *testing.T) {
	repo := newFakeRelationRepo()
	repo.followerUsers = []*auth.User{
		{
			ID:           "u1",
			Username:     "bob",
			Email:        "bob@novira.app",
			PasswordHash: "hash",
			AvatarRef:    "user-avatars/b.png",
			CreatedAt:    time.Now(),
		},
	}
	service := newTestService(repo)

	profiles, total, err := service.ListFollowers(context.Background(), "alice", listing.Params{})

	require.NoError(t, err)
	assert.Equal(t, 1, total)
	require.Len(t, profiles, 1)
	assert.Equal(t, "bob", profiles[0].Username)
	assert.Equal(t, "https://cdn.novira.app/user-avatars/b.png", profiles[0].AvatarURL)
}

func TestListFavourites_ResolvesCoverURLs(t *testing.T) {
	repo := newFakeRelationRepo()
	repo.favNovels = []*novel.Novel{
		{ID: "n1", Title: "Ashfall", CoverRef: "novel-covers/a.jpg"},
		{ID: "n2", Title: "Bare"},
	}
	service := newTestService(repo)

	novels, total, err := service.ListFavourites(context.Background(), "alice", listing.Params{})

	require.NoError(t, err)
	assert.Equal(t, 2, total)
	assert.Equal(t, "https://cdn.novira.app/novel-covers/a.jpg", novels[0].CoverURL)
	assert.Empty(t, novels[1].CoverURL, "coverless novels serialize without a URL")
}
