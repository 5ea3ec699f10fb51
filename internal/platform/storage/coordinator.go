// Copyright (c) 2026 Novira. All rights reserved.
// Author: minh.ngvn.dev@gmail.com

package storage

import (
	"context"
	"io"
	"log/slog"
)

// Upload represents an incoming file from a multipart request.
//
// A nil *Upload means "no file was attached": the owning record's existing
// asset reference must be left untouched.
type Upload struct {
	// Filename is the client-supplied name; only its extension survives.
	Filename string
	// Content is the file body.
	Content io.Reader
}

// CommitFunc persists the record that owns the asset, with the new asset
// reference already applied. It is the single commit point of a replacement:
// if it returns an error, nothing is considered changed.
type CommitFunc func(ctx context.Context, ref string) error

// Coordinator sequences asset replacement around the record write so that
// storage and database never diverge.
//
// # Sequencing
//
//  1. Write the new file (failure aborts before any record mutation).
//  2. Commit the record with the new reference (the commit point).
//  3. Only after a successful commit, delete the previous file.
//
// A failed commit rolls the new file back; a failed cleanup is logged, never
// escalated — the record already points at the correct file.
type Coordinator struct {
	store  Store
	logger *slog.Logger
}

// NewCoordinator constructs a [Coordinator] over the given store.
func NewCoordinator(store Store, logger *slog.Logger) *Coordinator {
	return &Coordinator{store: store, logger: logger}
}

/*
Replace swaps a record's asset for an uploaded file.

Description: Writes the upload under a generated name in the namespace, runs
the commit callback with the new reference, then reclaims the previous file.
When the upload is nil the commit runs with the existing reference unchanged.

Parameters:
  - ctx: context.Context
  - upload: *Upload (nil when no file was attached)
  - namespace: Storage namespace for the generated filename
  - oldRef: The record's current asset reference ("" when none)
  - commit: CommitFunc persisting the owning record

Returns:
  - string: The reference the committed record now carries
  - error: apperr.Storage on write failure, or the commit's own error
*/
func (coordinator *Coordinator) Replace(ctx context.Context, upload *Upload, namespace, oldRef string, commit CommitFunc) (string, error) {

	// Absent upload: the asset reference field is a no-op, not a clear.
	if upload == nil {
		if err := commit(ctx, oldRef); err != nil {
			return "", err
		}
		return oldRef, nil
	}

	// 1. Write the new file. Failure aborts before any record mutation.
	newRef, err := coordinator.store.Save(namespace, upload.Filename, upload.Content)
	if err != nil {
		return "", err
	}

	// 2. Commit the record. On failure the new file must not outlive the
	// operation, and the previous reference stays intact.
	if err := commit(ctx, newRef); err != nil {
		if removeErr := coordinator.store.Remove(newRef); removeErr != nil {
			coordinator.logger.Error("asset_rollback_failed",
				slog.String("ref", newRef),
				slog.Any("error", removeErr),
			)
		}
		return "", err
	}

	// 3. Reclaim the previous file. Best-effort: the record is already
	// consistent, so a failure here is logged and absorbed.
	if oldRef != "" && oldRef != newRef {
		if removeErr := coordinator.store.Remove(oldRef); removeErr != nil {
			coordinator.logger.Warn("asset_cleanup_failed",
				slog.String("ref", oldRef),
				slog.Any("error", removeErr),
			)
		}
	}

	return newRef, nil
}

/*
Reclaim deletes an asset that no longer has a referencing record, e.g. the
cover of a deleted novel. Best-effort: failures are logged, never surfaced.
*/
func (coordinator *Coordinator) Reclaim(ref string) {
	if ref == "" {
		return
	}
	if err := coordinator.store.Remove(ref); err != nil {
		coordinator.logger.Warn("asset_reclaim_failed",
			slog.String("ref", ref),
			slog.Any("error", err),
		)
	}
}
