// Copyright (c) 2026 Novira. All rights reserved.
// Author: minh.ngvn.dev@gmail.com

/*
Package social maintains the relationship graph of the Novira community.

It manages two kinds of directed edges:

  - Follow: user→user, powering follower feeds and author subscriptions.
  - Favourite: user→novel, powering personal shelves and popularity metrics.

# Toggle Semantics

Both relations expose a single idempotent toggle instead of asymmetric
add/remove operations. If the edge is absent it is created; if present it is
removed. Calling the toggle twice is a no-op pair, never an error. Edge
uniqueness is enforced by the database primary keys, not by application
pre-checks: a concurrent duplicate insert surfaces as a conflict and is
treated as "already present", so races collapse into the idempotent case.
*/
package social

import "time"

// # Toggle Results

// FollowResult reports the state of a follow edge after a toggle.
type FollowResult struct {
	Following bool `json:"following"`
}

// FavouriteResult reports the state of a favourite edge after a toggle.
type FavouriteResult struct {
	Favourited bool `json:"favourited"`
}

// # Edge Entities

// Follow is a directed user→user edge.
type Follow struct {
	FollowerID  string    `json:"follower_id"`
	FollowingID string    `json:"following_id"`
	CreatedAt   time.Time `json:"created_at"`
}

// Favourite is a directed user→novel edge.
type Favourite struct {
	UserID    string    `json:"user_id"`
	NovelID   string    `json:"novel_id"`
	CreatedAt time.Time `json:"created_at"`
}
