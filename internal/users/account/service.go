// Copyright (c) 2026 Novira. All rights reserved.
// Author: minh.ngvn.dev@gmail.com

package account

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/minhngvn/novira/internal/platform/constants"
	"github.com/minhngvn/novira/internal/platform/storage"
	"github.com/minhngvn/novira/internal/users/auth"
	"github.com/minhngvn/novira/pkg/listing"
)

// # Service Layer

// SessionRevoker is the minimal session contract the account domain needs:
// terminating every session when an account is deleted.
type SessionRevoker interface {
	RevokeAll(context context.Context, userID string) error
}

// Service orchestrates business logic for user accounts and the member directory.
type Service struct {
	accountRepository AccountRepository
	sessions          SessionRevoker
	assets            *storage.Coordinator
	publicBaseURL     string
	logger            *slog.Logger
}

// NewService constructs a new [Service] with its dependencies.
func NewService(
	accountRepo AccountRepository,
	sessions SessionRevoker,
	assets *storage.Coordinator,
	publicBaseURL string,
	logger *slog.Logger,
) *Service {
	return &Service{
		accountRepository: accountRepo,
		sessions:          sessions,
		assets:            assets,
		publicBaseURL:     publicBaseURL,
		logger:            logger,
	}
}

// # Profile Management

/*
GetProfile retrieves the full private identity of a user.

Parameters:
  - context: context.Context
  - userID: string

Returns:
  - *auth.User: The hydrated user profile with a resolved avatar URL
  - error: Not found or execution failures
*/
func (service *Service) GetProfile(context context.Context, userID string) (*auth.User, error) {
	user, err := service.accountRepository.FindByID(context, userID)
	if err != nil {
		return nil, err
	}
	service.resolveAvatar(user)
	return user, nil
}

/*
GetPublicProfile retrieves the discovery-safe profile for a username.

Parameters:
  - context: context.Context
  - username: string

Returns:
  - *PublicProfile: Public projection of the account
  - error: Not found or execution failures
*/
func (service *Service) GetPublicProfile(context context.Context, username string) (*PublicProfile, error) {
	user, err := service.accountRepository.FindByUsername(context, username)
	if err != nil {
		return nil, err
	}
	return service.toPublicProfile(user), nil
}

// UpdateProfileInput defines the mutable subset of user profile fields.
// Nil pointers leave the existing value untouched; a nil Avatar keeps the
// current avatar asset.
type UpdateProfileInput struct {
	DisplayName *string
	Bio         *string
	Website     *string
	Avatar      *storage.Upload
}

/*
UpdateProfile applies a partial set of changes to a user's account metadata.

Description: Fetches the existing user state, overlays provided fields, and
synchronizes the change to persistent storage. When an avatar upload is
attached, the new file is written first, the record update is the commit
point, and only after a successful commit is the previous avatar file
deleted. A failed record update rolls the new file back and leaves the old
avatar in place.

Parameters:
  - context: context.Context
  - userID: string
  - input: UpdateProfileInput

Returns:
  - *auth.User: The updated user profile
  - error: Update or storage failures
*/
func (service *Service) UpdateProfile(ctx context.Context, userID string, input UpdateProfileInput) (*auth.User, error) {
	user, err := service.accountRepository.FindByID(ctx, userID)
	if err != nil {
		return nil, err
	}

	// Apply delta updates
	if input.DisplayName != nil {
		user.DisplayName = *input.DisplayName
	}
	if input.Bio != nil {
		user.Bio = *input.Bio
	}
	if input.Website != nil {
		user.Website = *input.Website
	}

	// The record write is the single commit point for both the field changes
	// and the avatar swap.
	newRef, err := service.assets.Replace(ctx, input.Avatar, constants.StorageNamespaceAvatars, user.AvatarRef,
		func(ctx context.Context, ref string) error {
			user.AvatarRef = ref
			return service.accountRepository.Update(ctx, user)
		})
	if err != nil {
		return nil, fmt.Errorf("account_service_update_failed: %w", err)
	}
	user.AvatarRef = newRef

	service.logger.Info("user_profile_updated", slog.String("user_id", userID))

	service.resolveAvatar(user)
	return user, nil
}

/*
DeleteAccount performs an idempotent soft-deletion of a user account.

Description: Flags the account as deleted, terminates all active security
sessions to force a global sign-out, and reclaims the orphaned avatar asset.

Parameters:
  - context: context.Context
  - userID: string

Returns:
  - error: Execution failures
*/
func (service *Service) DeleteAccount(context context.Context, userID string) error {
	user, err := service.accountRepository.FindByID(context, userID)
	if err != nil {
		return err
	}

	if err := service.accountRepository.SoftDelete(context, userID); err != nil {
		return fmt.Errorf("account_service_delete_failed: %w", err)
	}

	// Force global revocation of sessions for the deleted account.
	_ = service.sessions.RevokeAll(context, userID)

	// The avatar no longer has a live referencing record.
	service.assets.Reclaim(user.AvatarRef)

	service.logger.Warn("user_account_deleted", slog.String("user_id", userID))

	return nil
}

// # Member Directory

/*
ListUsers returns a page of the public member directory.

Description: Search text matches username and display name as a
case-insensitive substring. Sorting is restricted to the [UserSort]
allow-list; unknown fields fall back to newest-first. The total count
reflects all matches before paging.

Parameters:
  - context: context.Context
  - params: listing.Params

Returns:
  - []*PublicProfile: Matching accounts in requested order
  - int: Total matches before windowing
  - error: Execution failures
*/
func (service *Service) ListUsers(context context.Context, params listing.Params) ([]*PublicProfile, int, error) {
	users, total, err := service.accountRepository.List(context, params)
	if err != nil {
		return nil, 0, fmt.Errorf("account_service_list_failed: %w", err)
	}

	profiles := make([]*PublicProfile, 0, len(users))
	for _, user := range users {
		profiles = append(profiles, service.toPublicProfile(user))
	}

	return profiles, total, nil
}

// # Projection Helpers

// resolveAvatar derives the client-facing avatar URL from the stored reference.
func (service *Service) resolveAvatar(user *auth.User) {
	user.AvatarURL = storage.PublicURL(service.publicBaseURL, user.AvatarRef)
}

// toPublicProfile maps a full account entity onto its public projection.
func (service *Service) toPublicProfile(user *auth.User) *PublicProfile {
	return PublicProfileOf(user, service.publicBaseURL)
}
