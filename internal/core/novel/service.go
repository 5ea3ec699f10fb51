// Copyright (c) 2026 Novira. All rights reserved.
// Author: minh.ngvn.dev@gmail.com

package novel

import (
	"context"
	"log/slog"

	"github.com/minhngvn/novira/internal/platform/constants"
	"github.com/minhngvn/novira/internal/platform/sec"
	"github.com/minhngvn/novira/internal/platform/storage"
	"github.com/minhngvn/novira/internal/platform/validate"
	"github.com/minhngvn/novira/pkg/listing"
	"github.com/minhngvn/novira/pkg/slug"
	"github.com/minhngvn/novira/pkg/uuidv7"
)

// # Service Layer

// Service orchestrates the business logic for the novel library.
//
// Every mutation runs the ownership check against the loaded record before
// any store write; cover replacement is sequenced through the storage
// coordinator so the record write remains the single commit point.
type Service struct {
	novelRepository NovelRepository
	assets          *storage.Coordinator
	publicBaseURL   string
	logger          *slog.Logger
}

// NewService constructs a new [Service] with its dependencies.
func NewService(
	novelRepo NovelRepository,
	assets *storage.Coordinator,
	publicBaseURL string,
	logger *slog.Logger,
) *Service {
	return &Service{
		novelRepository: novelRepo,
		assets:          assets,
		publicBaseURL:   publicBaseURL,
		logger:          logger,
	}
}

// # Novel Lookups

/*
ListNovels retrieves a paginated window of the public library.

Description: Passes the listing parameters straight to the repository for
database-level search, sorting, and windowing. Drafts never appear here.

Parameters:
  - context: context.Context
  - params: listing.Params

Returns:
  - []*Novel: The page of matching novels with resolved cover URLs
  - int: Total matches before windowing
  - error: Repository failures
*/
func (service *Service) ListNovels(context context.Context, params listing.Params) ([]*Novel, int, error) {
	novels, total, err := service.novelRepository.List(context, params)
	if err != nil {
		return nil, 0, err
	}
	service.resolveCovers(novels)
	return novels, total, nil
}

/*
ListMine retrieves a paginated window of the acting user's own novels,
drafts included.

Parameters:
  - context: context.Context
  - ownerID: string (the authenticated caller)
  - params: listing.Params

Returns:
  - []*Novel: The page of matching novels with resolved cover URLs
  - int: Total matches before windowing
  - error: Repository failures
*/
func (service *Service) ListMine(context context.Context, ownerID string, params listing.Params) ([]*Novel, int, error) {
	novels, total, err := service.novelRepository.ListByOwner(context, ownerID, params)
	if err != nil {
		return nil, 0, err
	}
	service.resolveCovers(novels)
	return novels, total, nil
}

/*
GetNovel fetches a single novel by UUID or SEO slug.

Description: If the identifier matches the UUID format a primary key lookup
is performed; otherwise it resolves via the unique URL slug. Each successful
read bumps the view counter; counter failures are logged, never surfaced.

Parameters:
  - context: context.Context
  - identifier: string (UUID or slug)

Returns:
  - *Novel: The hydrated entity with a resolved cover URL
  - error: apperr.NotFound if no match is found
*/
func (service *Service) GetNovel(context context.Context, identifier string) (*Novel, error) {
	var novel *Novel
	var err error

	if isUUID(identifier) {
		novel, err = service.novelRepository.FindByID(context, identifier)
	} else {
		novel, err = service.novelRepository.FindBySlug(context, identifier)
	}
	if err != nil {
		return nil, err
	}

	if viewErr := service.novelRepository.IncrementView(context, novel.ID); viewErr != nil {
		service.logger.Warn("novel_view_count_failed",
			slog.String("novel_id", novel.ID),
			slog.Any("error", viewErr),
		)
	}

	service.resolveCover(novel)
	return novel, nil
}

// # Novel Management

// CreateNovelInput carries the attributes for a new novel. The owner is
// never part of the input: it is always the acting user.
type CreateNovelInput struct {
	Title       string
	Description string
	Status      Status
	Cover       *storage.Upload
}

/*
CreateNovel initialises a new novel owned by the acting user.

Description: Validates the metadata, generates a UUID v7 identity and an
SEO-friendly slug, then persists. When a cover is attached, the file write
and the insert are sequenced by the asset coordinator: a failed insert rolls
the file back, so no orphan survives the request.

Parameters:
  - context: context.Context
  - actorID: string (the authenticated caller, becomes the owner)
  - input: CreateNovelInput

Returns:
  - *Novel: The persisted entity with a resolved cover URL
  - error: Validation, conflict, or persistence errors
*/
func (service *Service) CreateNovel(ctx context.Context, actorID string, input CreateNovelInput) (*Novel, error) {
	if input.Status == "" {
		input.Status = StatusDraft
	}

	validator := &validate.Validator{}
	validator.Required(FieldTitle, input.Title).MaxLen(FieldTitle, input.Title, 255)
	validator.MaxLen(FieldDescription, input.Description, 5000)
	validator.OneOf(FieldStatus, string(input.Status),
		string(StatusDraft),
		string(StatusOngoing),
		string(StatusCompleted),
		string(StatusHiatus),
	)
	if err := validator.Err(); err != nil {
		return nil, err
	}

	novel := &Novel{
		ID:          uuidv7.New(),
		OwnerID:     actorID,
		Title:       input.Title,
		Slug:        slug.From(input.Title),
		Status:      input.Status,
		Description: input.Description,
	}

	_, err := service.assets.Replace(ctx, input.Cover, constants.StorageNamespaceCovers, "", func(ctx context.Context, ref string) error {
		novel.CoverRef = ref
		return service.novelRepository.Create(ctx, novel)
	})
	if err != nil {
		return nil, err
	}

	service.logger.Info("novel_created",
		slog.String("novel_id", novel.ID),
		slog.String("owner_id", actorID),
		slog.String("title", novel.Title),
	)

	service.resolveCover(novel)
	return novel, nil
}

// UpdateNovelInput carries a partial update. Nil fields are left untouched;
// a nil Cover keeps the existing cover asset.
type UpdateNovelInput struct {
	Title       *string
	Description *string
	Status      *Status
	Cover       *storage.Upload
}

/*
UpdateNovel applies modifications to a novel the acting user owns.

Description: Loads the record, authorizes the actor against the recorded
owner, validates and overlays the changed fields, then commits. A changed
title regenerates the slug so URLs stay aligned with content. Cover
replacement follows the coordinator sequencing: write new file, commit
record, then reclaim the previous file — a failed commit rolls the new
file back and leaves the old cover live.

Parameters:
  - context: context.Context
  - actorID: string (the authenticated caller)
  - novelID: string (UUID)
  - input: UpdateNovelInput

Returns:
  - *Novel: The updated entity with a resolved cover URL
  - error: apperr.Forbidden for non-owners, validation or persistence errors
*/
func (service *Service) UpdateNovel(ctx context.Context, actorID, novelID string, input UpdateNovelInput) (*Novel, error) {
	novel, err := service.novelRepository.FindByID(ctx, novelID)
	if err != nil {
		return nil, err
	}

	if err := sec.AuthorizeOwner(actorID, novel.OwnerID, "novel"); err != nil {
		return nil, err
	}

	validator := &validate.Validator{}
	if input.Title != nil {
		validator.Required(FieldTitle, *input.Title).MaxLen(FieldTitle, *input.Title, 255)
	}
	if input.Description != nil {
		validator.MaxLen(FieldDescription, *input.Description, 5000)
	}
	if input.Status != nil {
		validator.OneOf(FieldStatus, string(*input.Status),
			string(StatusDraft),
			string(StatusOngoing),
			string(StatusCompleted),
			string(StatusHiatus),
		)
	}
	if err := validator.Err(); err != nil {
		return nil, err
	}

	if input.Title != nil {
		novel.Title = *input.Title
		novel.Slug = slug.From(*input.Title)
	}
	if input.Description != nil {
		novel.Description = *input.Description
	}
	if input.Status != nil {
		novel.Status = *input.Status
	}

	_, err = service.assets.Replace(ctx, input.Cover, constants.StorageNamespaceCovers, novel.CoverRef, func(ctx context.Context, ref string) error {
		novel.CoverRef = ref
		return service.novelRepository.Update(ctx, novel)
	})
	if err != nil {
		return nil, err
	}

	service.logger.Info("novel_updated", slog.String("novel_id", novel.ID))

	service.resolveCover(novel)
	return novel, nil
}

/*
DeleteNovel removes a novel the acting user owns.

Description: Loads the record, authorizes the actor against the recorded
owner, then deletes unconditionally. The orphaned cover asset is reclaimed
best-effort after the record is gone.

Parameters:
  - context: context.Context
  - actorID: string (the authenticated caller)
  - novelID: string (UUID)

Returns:
  - error: apperr.Forbidden for non-owners, apperr.NotFound, or persistence errors
*/
func (service *Service) DeleteNovel(context context.Context, actorID, novelID string) error {
	novel, err := service.novelRepository.FindByID(context, novelID)
	if err != nil {
		return err
	}

	if err := sec.AuthorizeOwner(actorID, novel.OwnerID, "novel"); err != nil {
		return err
	}

	if err := service.novelRepository.Delete(context, novelID); err != nil {
		return err
	}

	service.assets.Reclaim(novel.CoverRef)

	service.logger.Warn("novel_deleted",
		slog.String("novel_id", novelID),
		slog.String("owner_id", actorID),
	)

	return nil
}

// # Internal Helpers

// resolveCover derives the client-facing cover URL from the stored reference.
func (service *Service) resolveCover(novel *Novel) {
	novel.CoverURL = storage.PublicURL(service.publicBaseURL, novel.CoverRef)
}

func (service *Service) resolveCovers(novels []*Novel) {
	for _, novel := range novels {
		service.resolveCover(novel)
	}
}

// isUUID returns true if the string matches the standard UUID length.
func isUUID(s string) bool {
	return len(s) == 36
}
