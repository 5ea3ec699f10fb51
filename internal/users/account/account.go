// Copyright (c) 2026 Novira. All rights reserved.
// Author: minh.ngvn.dev@gmail.com

/*
Package account handles user profile management and member discovery.

It provides functionalities for users to view and update their identity data
(including avatar assets) and exposes the public member directory with
search, sorting, and pagination.

# Architecture

  - Domain: This package depends on the auth package for the User entity.
  - Assets: Avatar replacement is sequenced through the storage coordinator
    so the database record and the file on disk never diverge.
  - Discovery: Listing is driven by the shared listing query plan.
*/
package account

import (
	"context"
	"time"

	"github.com/minhngvn/novira/internal/platform/storage"
	"github.com/minhngvn/novira/internal/users/auth"
	"github.com/minhngvn/novira/pkg/listing"
)

// # Domain Entities

// PublicProfile is the discovery-safe projection of a user account.
// It omits email, verification state, and any security-relevant fields.
type PublicProfile struct {
	ID          string    `json:"id"`
	Username    string    `json:"username"`
	DisplayName string    `json:"display_name"`
	AvatarURL   string    `json:"avatar_url,omitempty"`
	Bio         string    `json:"bio,omitempty"`
	Website     string    `json:"website,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
}

// PublicProfileOf maps a full account entity onto its public projection,
// resolving the stored avatar reference against the public base URL.
func PublicProfileOf(user *auth.User, publicBaseURL string) *PublicProfile {
	return &PublicProfile{
		ID:          user.ID,
		Username:    user.Username,
		DisplayName: user.DisplayName,
		AvatarURL:   storage.PublicURL(publicBaseURL, user.AvatarRef),
		Bio:         user.Bio,
		Website:     user.Website,
		CreatedAt:   user.CreatedAt,
	}
}

// UserSort is the sorting contract for the member directory.
// Requests naming any other field fall back to newest-first.
var UserSort = listing.SortSpec{
	Allowed: map[string]string{
		"username":     "username",
		"display_name": "displayname",
		"created_at":   "createdat",
	},
	Default:  "createdat",
	TieBreak: "id",
}

// # Repository Contracts

// AccountRepository defines the persistence contract for user accounts.
type AccountRepository interface {
	/*
		FindByID retrieves a user record by their unique ID.

		Parameters:
		  - context: context.Context
		  - id: string (UUID)

		Returns:
		  - *auth.User: Loaded account entity
		  - error: apperr.NotFound or storage failures
	*/
	FindByID(context context.Context, id string) (*auth.User, error)

	/*
		FindByUsername retrieves a user record by their username (case-insensitive).

		Parameters:
		  - context: context.Context
		  - username: string

		Returns:
		  - *auth.User: Loaded account entity
		  - error: apperr.NotFound or storage failures
	*/
	FindByUsername(context context.Context, username string) (*auth.User, error)

	/*
		Update modifies the mutable profile fields of an existing user,
		including the avatar asset reference.

		Parameters:
		  - context: context.Context
		  - user: *auth.User (Hydrated entity with changes)

		Returns:
		  - error: Storage or constraint failures
	*/
	Update(context context.Context, user *auth.User) error

	/*
		SoftDelete flags an account as logically deleted.

		Parameters:
		  - context: context.Context
		  - id: string

		Returns:
		  - error: Execution failures
	*/
	SoftDelete(context context.Context, id string) error

	/*
		List returns a page of the member directory plus the total match count.

		Description: The listing params drive search (substring match on
		username and display name), sorting via [UserSort], and windowing.
		With params.Unbounded set, every matching row is returned.

		Parameters:
		  - context: context.Context
		  - params: listing.Params

		Returns:
		  - []*auth.User: Matching accounts in requested order
		  - int: Total matches before windowing
		  - error: Execution failures
	*/
	List(context context.Context, params listing.Params) ([]*auth.User, int, error)
}
