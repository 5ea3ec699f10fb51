// Copyright (c) 2026 Novira. All rights reserved.
// Author: minh.ngvn.dev@gmail.com

/*
Package novel defines the core domain entities for the Novira library.

It manages the lifecycle of self-published web novels: creation, metadata
updates, cover assets, and discovery.

Core Responsibility:

  - Library: Defines publication statuses (Draft, Ongoing, Completed).
  - Discovery: Public browsing with search, sorting, and pagination.
  - Ownership: Every novel belongs to exactly one author; only that author
    may mutate it.

This package acts as the source of truth for all content-related data models.
*/
package novel

import (
	"time"

	"github.com/minhngvn/novira/pkg/listing"
)

// # Domain Enums

// Status represents the publication status of a novel.
type Status string

const (
	// StatusDraft indicates the novel is not yet visible in public discovery.
	StatusDraft Status = "draft"

	// StatusOngoing indicates the novel is actively updating.
	StatusOngoing Status = "ongoing"

	// StatusCompleted indicates no further chapters are expected.
	StatusCompleted Status = "completed"

	// StatusHiatus indicates the novel is paused indefinitely.
	StatusHiatus Status = "hiatus"
)

// IsValid reports whether s is a recognised [Status] value.
func (s Status) IsValid() bool {
	switch s {
	case StatusDraft, StatusOngoing, StatusCompleted, StatusHiatus:
		return true
	}
	return false
}

// # Core Entities

// Novel is the central aggregate of the Novira domain.
// It represents a single self-published work in the library.
type Novel struct {
	ID          string `json:"id"`
	OwnerID     string `json:"owner_id"` // Immutable after creation
	Title       string `json:"title"`
	Slug        string `json:"slug"` // URL-safe identifier
	Status      Status `json:"status"`
	Description string `json:"description"`

	// CoverRef is the raw storage reference; clients only see CoverURL.
	CoverRef string `json:"-"`
	CoverURL string `json:"cover_url,omitempty"`

	// # Computed Metrics
	ViewCount      int64 `json:"view_count"`
	FavouriteCount int64 `json:"favourite_count"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// # Search & Sorting

// NovelSort is the sorting contract for library discovery.
// Requests naming any other field fall back to newest-first.
var NovelSort = listing.SortSpec{
	Allowed: map[string]string{
		"title":           "title",
		"created_at":      "createdat",
		"updated_at":      "updatedat",
		"view_count":      "viewcount",
		"favourite_count": "favouritecount",
	},
	Default:  "createdat",
	TieBreak: "id",
}

// # Field Identifiers

// Global field names for validation and dynamic query mapping.
const (
	FieldID          = "id"
	FieldOwnerID     = "owner_id"
	FieldTitle       = "title"
	FieldSlug        = "slug"
	FieldStatus      = "status"
	FieldDescription = "description"
	FieldCover       = "cover"
)
