// Copyright (c) 2026 Novira. All rights reserved.
// Author: minh.ngvn.dev@gmail.com

package social

import (
	"context"
	"log/slog"

	"github.com/minhngvn/novira/internal/core/novel"
	"github.com/minhngvn/novira/internal/platform/apperr"
	"github.com/minhngvn/novira/internal/platform/storage"
	"github.com/minhngvn/novira/internal/users/account"
	"github.com/minhngvn/novira/internal/users/auth"
	"github.com/minhngvn/novira/pkg/listing"
)

// # Service Layer

// Service orchestrates the business logic for the social graph.
type Service struct {
	relationRepository RelationRepository
	publicBaseURL      string
	logger             *slog.Logger
}

// NewService constructs a new [Service] with its dependencies.
func NewService(relationRepo RelationRepository, publicBaseURL string, logger *slog.Logger) *Service {
	return &Service{
		relationRepository: relationRepo,
		publicBaseURL:      publicBaseURL,
		logger:             logger,
	}
}

// # Follow Toggle

/*
ToggleFollow flips the follow edge between two users.

Description: Creating a self-edge is rejected before any store mutation.
Otherwise the insert is attempted first: if a new edge was created the
caller is now following; if the edge already existed it is removed instead.
The database primary key is the authority on uniqueness, so two concurrent
toggles collapse into one create and one remove rather than an error.

Parameters:
  - context: context.Context
  - followerID: string (the authenticated caller)
  - followingID: string (the target user)

Returns:
  - *FollowResult: The edge state after the toggle
  - error: apperr.SelfRelation for self-edges, apperr.NotFound for unknown
    targets, or execution failures
*/
func (service *Service) ToggleFollow(context context.Context, followerID, followingID string) (*FollowResult, error) {
	if followerID == followingID {
		return nil, apperr.SelfRelation("You cannot follow yourself")
	}

	created, err := service.relationRepository.InsertFollow(context, followerID, followingID)
	if err != nil {
		return nil, err
	}

	if created {
		service.logger.Info("user_followed",
			slog.String("follower_id", followerID),
			slog.String("following_id", followingID),
		)
		return &FollowResult{Following: true}, nil
	}

	// Edge already present: this toggle is an unfollow.
	if _, err := service.relationRepository.DeleteFollow(context, followerID, followingID); err != nil {
		return nil, err
	}

	service.logger.Info("user_unfollowed",
		slog.String("follower_id", followerID),
		slog.String("following_id", followingID),
	)
	return &FollowResult{Following: false}, nil
}

// # Favourite Toggle

/*
ToggleFavourite flips the favourite edge between a user and a novel.

Description: Symmetric to [ToggleFollow]: insert first, and when the edge
already exists the toggle becomes a removal. The novel's favourite counter
moves with the edge inside the store transaction.

Parameters:
  - context: context.Context
  - userID: string (the authenticated caller)
  - novelID: string (UUID)

Returns:
  - *FavouriteResult: The edge state after the toggle
  - error: apperr.NotFound for unknown novels, or execution failures
*/
func (service *Service) ToggleFavourite(context context.Context, userID, novelID string) (*FavouriteResult, error) {
	created, err := service.relationRepository.InsertFavourite(context, userID, novelID)
	if err != nil {
		return nil, err
	}

	if created {
		service.logger.Info("novel_favourited",
			slog.String("user_id", userID),
			slog.String("novel_id", novelID),
		)
		return &FavouriteResult{Favourited: true}, nil
	}

	if _, err := service.relationRepository.DeleteFavourite(context, userID, novelID); err != nil {
		return nil, err
	}

	service.logger.Info("novel_unfavourited",
		slog.String("user_id", userID),
		slog.String("novel_id", novelID),
	)
	return &FavouriteResult{Favourited: false}, nil
}

// # Edge Listings

/*
ListFollowers retrieves a page of a user's followers as public profiles.

Returns:
  - []*account.PublicProfile: Follower directory projections
  - int: Total followers before windowing
  - error: Execution failures
*/
func (service *Service) ListFollowers(context context.Context, userID string, params listing.Params) ([]*account.PublicProfile, int, error) {
	users, total, err := service.relationRepository.ListFollowers(context, userID, params)
	if err != nil {
		return nil, 0, err
	}
	return service.toPublicProfiles(users), total, nil
}

/*
ListFollowing retrieves a page of the users someone follows, as public
profiles.

Returns:
  - []*account.PublicProfile: Followed-user directory projections
  - int: Total matches before windowing
  - error: Execution failures
*/
func (service *Service) ListFollowing(context context.Context, userID string, params listing.Params) ([]*account.PublicProfile, int, error) {
	users, total, err := service.relationRepository.ListFollowing(context, userID, params)
	if err != nil {
		return nil, 0, err
	}
	return service.toPublicProfiles(users), total, nil
}

/*
ListFavourites retrieves a page of the novels a user has favourited, with
resolved cover URLs.

Returns:
  - []*novel.Novel: The favourited novels, newest favourite first
  - int: Total favourites before windowing
  - error: Execution failures
*/
func (service *Service) ListFavourites(context context.Context, userID string, params listing.Params) ([]*novel.Novel, int, error) {
	novels, total, err := service.relationRepository.ListFavourites(context, userID, params)
	if err != nil {
		return nil, 0, err
	}
	for _, item := range novels {
		item.CoverURL = storage.PublicURL(service.publicBaseURL, item.CoverRef)
	}
	return novels, total, nil
}

// # Internal Helpers

func (service *Service) toPublicProfiles(users []*auth.User) []*account.PublicProfile {
	profiles := make([]*account.PublicProfile, 0, len(users))
	for _, user := range users {
		profiles = append(profiles, account.PublicProfileOf(user, service.publicBaseURL))
	}
	return profiles
}
