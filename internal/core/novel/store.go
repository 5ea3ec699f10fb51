// Copyright (c) 2026 Novira. All rights reserved.
// Author: minh.ngvn.dev@gmail.com

package novel

import (
	"context"

	"github.com/minhngvn/novira/pkg/listing"
)

// # Repository Contracts

// NovelRepository defines the persistence contract for the novel library.
type NovelRepository interface {
	/*
		Create persists a new novel record.

		Parameters:
		  - context: context.Context
		  - novel: *Novel (identity and slug already assigned)

		Returns:
		  - error: apperr.Conflict on a duplicate slug, or storage failures
	*/
	Create(context context.Context, novel *Novel) error

	/*
		FindByID retrieves a novel by its unique ID.

		Returns:
		  - *Novel: Loaded entity
		  - error: apperr.NotFound or storage failures
	*/
	FindByID(context context.Context, id string) (*Novel, error)

	/*
		FindBySlug retrieves a novel by its unique URL slug.

		Returns:
		  - *Novel: Loaded entity
		  - error: apperr.NotFound or storage failures
	*/
	FindBySlug(context context.Context, slug string) (*Novel, error)

	/*
		List retrieves a page of novels matching the listing parameters.
		Search matches title and description case-insensitively.

		Returns:
		  - []*Novel: The page of matching rows
		  - int: Total rows matching the search before pagination
		  - error: Storage failures
	*/
	List(context context.Context, params listing.Params) ([]*Novel, int, error)

	/*
		ListByOwner retrieves a page of novels belonging to one author.

		Returns:
		  - []*Novel: The page of matching rows
		  - int: Total rows matching before pagination
		  - error: Storage failures
	*/
	ListByOwner(context context.Context, ownerID string, params listing.Params) ([]*Novel, int, error)

	/*
		Update persists the mutable fields of an existing novel.

		Returns:
		  - error: apperr.NotFound when the row is gone, apperr.Conflict on
		    a duplicate slug, or storage failures
	*/
	Update(context context.Context, novel *Novel) error

	/*
		Delete removes a novel unconditionally. Favourite edges are removed
		by the database cascade.

		Returns:
		  - error: apperr.NotFound or storage failures
	*/
	Delete(context context.Context, id string) error

	/*
		IncrementView bumps the view counter. Callers treat failures as
		non-fatal; the read path never blocks on analytics.
	*/
	IncrementView(context context.Context, id string) error
}
