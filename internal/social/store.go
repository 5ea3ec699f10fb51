// Copyright (c) 2026 Novira. All rights reserved.
// Author: minh.ngvn.dev@gmail.com

package social

import (
	"context"

	"github.com/minhngvn/novira/internal/core/novel"
	"github.com/minhngvn/novira/internal/users/auth"
	"github.com/minhngvn/novira/pkg/listing"
)

// # Repository Contracts

// RelationRepository defines the persistence contract for the social graph.
//
// Insert methods report whether a new edge was actually created: a false
// return means the edge already existed (the database constraint absorbed
// the duplicate). Delete methods symmetrically report whether an edge was
// actually removed. The service layers toggle semantics on top of these
// two primitives.
type RelationRepository interface {
	/*
		InsertFollow creates a follower→following edge if absent.

		Returns:
		  - bool: true when a new edge was created
		  - error: apperr.NotFound when the followed user does not exist,
		    or execution errors
	*/
	InsertFollow(context context.Context, followerID, followingID string) (bool, error)

	/*
		DeleteFollow removes a follower→following edge if present.

		Returns:
		  - bool: true when an edge was removed
		  - error: Execution errors
	*/
	DeleteFollow(context context.Context, followerID, followingID string) (bool, error)

	/*
		ListFollowers returns a page of accounts following the given user,
		with the total count before windowing.
	*/
	ListFollowers(context context.Context, userID string, params listing.Params) ([]*auth.User, int, error)

	/*
		ListFollowing returns a page of accounts the given user follows,
		with the total count before windowing.
	*/
	ListFollowing(context context.Context, userID string, params listing.Params) ([]*auth.User, int, error)

	/*
		InsertFavourite creates a user→novel edge if absent, keeping the
		novel's favourite counter in step within the same transaction.

		Returns:
		  - bool: true when a new edge was created
		  - error: apperr.NotFound when the novel does not exist, or
		    execution errors
	*/
	InsertFavourite(context context.Context, userID, novelID string) (bool, error)

	/*
		DeleteFavourite removes a user→novel edge if present, keeping the
		novel's favourite counter in step within the same transaction.

		Returns:
		  - bool: true when an edge was removed
		  - error: Execution errors
	*/
	DeleteFavourite(context context.Context, userID, novelID string) (bool, error)

	/*
		ListFavourites returns a page of the novels a user has favourited,
		newest favourite first, with the total count before windowing.
	*/
	ListFavourites(context context.Context, userID string, params listing.Params) ([]*novel.Novel, int, error)
}
