// Copyright (c) 2026 Novira. All rights reserved.
// Author: minh.ngvn.dev@gmail.com

package sec

import "github.com/minhngvn/novira/internal/platform/apperr"

// # Ownership Authorization

// IsOwner reports whether the acting user owns the resource.
//
// # Policy
//
// Permitted iff the acting user ID equals the resource owner ID. There is no
// role hierarchy and no delegation: even admins do not mutate another user's
// content through this path.
func IsOwner(actingUserID, resourceOwnerID string) bool {
	return actingUserID != "" && actingUserID == resourceOwnerID
}

// AuthorizeOwner is the check-then-act guard used by every content mutation.
//
// It must be called BEFORE any store write; on denial it returns a FORBIDDEN
// [apperr.AppError] and the caller must leave the store untouched.
//
// # Parameters
//   - actingUserID: The authenticated caller.
//   - resourceOwnerID: The owner recorded on the loaded resource.
//   - resource: Client-facing resource name for the error message.
func AuthorizeOwner(actingUserID, resourceOwnerID, resource string) error {
	if !IsOwner(actingUserID, resourceOwnerID) {
		return apperr.Forbidden("You do not have permission to modify this " + resource)
	}
	return nil
}
