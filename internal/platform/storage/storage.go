// Copyright (c) 2026 Novira. All rights reserved.
// Author: minh.ngvn.dev@gmail.com

/*
Package storage provides the durable asset store for uploaded files
(user avatars, novel covers) and the coordinator that keeps filesystem
state and database state from diverging.

Architecture:

  - Store: Abstracted byte storage addressable by generated filename.
  - DiskStore: Local-filesystem implementation serving files under a
    public base URL.
  - Coordinator: Sequences write-file → commit-record → delete-old so the
    record write is the single commit point.

Every failure of the underlying filesystem surfaces as a STORAGE_ERROR
[apperr.AppError]; raw paths never reach the client.
*/
package storage

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/minhngvn/novira/internal/platform/apperr"
	"github.com/minhngvn/novira/pkg/uuidv7"
)

// # Contracts

// Store defines durable byte storage addressable by generated filename.
type Store interface {
	/*
		Save persists the content under a freshly generated,
		collision-resistant filename inside the given namespace.

		Parameters:
		  - namespace: Logical partition (e.g. "user-avatars").
		  - originalName: Client-supplied filename; only its extension is kept.
		  - content: File bytes.

		Returns:
		  - string: The generated asset reference ("namespace/uuid.ext").
		  - error: apperr.Storage on write failures
	*/
	Save(namespace, originalName string, content io.Reader) (string, error)

	/*
		Remove deletes a previously saved asset by its reference.

		Removing a reference that no longer exists is not an error: cleanup
		paths must stay idempotent.

		Returns:
		  - error: apperr.Storage on filesystem failures
	*/
	Remove(ref string) error

	/*
		Exists reports whether the asset reference currently resolves to a file.
	*/
	Exists(ref string) bool
}

// # Disk Implementation

// DiskStore is a local-filesystem [Store] rooted at a single directory.
type DiskStore struct {
	root string
}

// NewDiskStore creates the root directory if needed and returns a ready store.
func NewDiskStore(root string) (*DiskStore, error) {
	if err := os.MkdirAll(root, 0o755); err != nil {
		return nil, apperr.Storage(fmt.Errorf("storage: failed to create root %s: %w", root, err))
	}
	return &DiskStore{root: root}, nil
}

// Save writes the content to disk under a generated filename.
//
// # Naming
//
// The generated reference is "namespace/<uuid><ext>". A UUID per upload makes
// collisions practically impossible, and keeping the original extension
// preserves content-type resolution by the static file server.
func (store *DiskStore) Save(namespace, originalName string, content io.Reader) (string, error) {

	// Partition directory per namespace
	dir := filepath.Join(store.root, namespace)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", apperr.Storage(fmt.Errorf("storage: failed to create namespace dir: %w", err))
	}

	ref := path(namespace, uuidv7.New()+safeExtension(originalName))

	file, err := os.Create(filepath.Join(store.root, filepath.FromSlash(ref)))
	if err != nil {
		return "", apperr.Storage(fmt.Errorf("storage: failed to create asset file: %w", err))
	}

	if _, err := io.Copy(file, content); err != nil {
		_ = file.Close()
		// A half-written file is worse than no file.
		_ = os.Remove(file.Name())
		return "", apperr.Storage(fmt.Errorf("storage: failed to write asset file: %w", err))
	}

	if err := file.Close(); err != nil {
		_ = os.Remove(file.Name())
		return "", apperr.Storage(fmt.Errorf("storage: failed to flush asset file: %w", err))
	}

	return ref, nil
}

// Remove deletes the referenced file. A missing file is treated as success.
func (store *DiskStore) Remove(ref string) error {
	err := os.Remove(filepath.Join(store.root, filepath.FromSlash(ref)))
	if err != nil && !os.IsNotExist(err) {
		return apperr.Storage(fmt.Errorf("storage: failed to remove asset %s: %w", ref, err))
	}
	return nil
}

// Exists reports whether the referenced file is present on disk.
func (store *DiskStore) Exists(ref string) bool {
	_, err := os.Stat(filepath.Join(store.root, filepath.FromSlash(ref)))
	return err == nil
}

// # Helpers

// PublicURL joins the public base URL with an asset reference, producing a
// ready-to-use locator for API responses.
//
// An empty reference yields an empty locator so absent assets serialize as "".
func PublicURL(baseURL, ref string) string {
	if ref == "" {
		return ""
	}
	return strings.TrimRight(baseURL, "/") + "/" + ref
}

// path joins namespace and filename with a forward slash regardless of OS,
// since references are also used as URL path segments.
func path(namespace, filename string) string {
	return namespace + "/" + filename
}

// safeExtension extracts a lowercase file extension, discarding anything
// suspicious a client could smuggle into a filename.
func safeExtension(originalName string) string {
	ext := strings.ToLower(filepath.Ext(filepath.Base(originalName)))
	if len(ext) > 10 {
		return ""
	}
	for _, r := range ext[min(len(ext), 1):] {
		if (r < 'a' || r > 'z') && (r < '0' || r > '9') {
			return ""
		}
	}
	return ext
}
