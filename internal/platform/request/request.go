// Copyright (c) 2026 Novira. All rights reserved.
// Author: minh.ngvn.dev@gmail.com

/*
Package request provides utilities for extracting data from HTTP requests.

It abstracts away the underlying router's parameter extraction and common
body decoding patterns, ensuring consistent error handling and type safety.
*/
package requestutil

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/minhngvn/novira/internal/platform/apperr"
	"github.com/minhngvn/novira/internal/platform/constants"
	"github.com/minhngvn/novira/internal/platform/ctxutil"
	"github.com/minhngvn/novira/internal/platform/sec"
	"github.com/minhngvn/novira/internal/platform/storage"
	"github.com/minhngvn/novira/internal/platform/validate"
)

/*
DecodeJSON reads the request body and decodes it into the target structure.

Parameters:
  - request: *http.Request
  - target: interface{} (Pointer to the destination struct)

Returns:
  - error: validate.ErrInvalidJSON if decoding fails, otherwise nil
*/
func DecodeJSON(request *http.Request, target interface{}) error {
	if err := json.NewDecoder(request.Body).Decode(target); err != nil {
		return validate.ErrInvalidJSON
	}
	return nil
}

/*
Param retrieves a named URL parameter (UUID/Slug) from the request.
*/
func Param(request *http.Request, name string) string {
	return chi.URLParam(request, name)
}

/*
File extracts an optional uploaded file from a multipart form field.

Description: Parses the multipart body (bounded by constants.MaxUploadBytes)
and returns the named file as a [*storage.Upload]. A missing field is not an
error: the returned upload is nil, which downstream asset coordination treats
as "keep the existing asset".

Parameters:
  - request: *http.Request
  - field: Form field name (e.g. "avatar", "cover")

Returns:
  - *storage.Upload: The uploaded file, or nil when the field is absent
  - func(): Cleanup closure releasing the underlying file handle (nil-safe to defer)
  - error: apperr.ValidationError when the body is not valid multipart or exceeds the size cap
*/
func File(request *http.Request, field string) (*storage.Upload, func(), error) {
	noop := func() {}

	// Non-multipart bodies (e.g. plain JSON) simply carry no file.
	if !strings.HasPrefix(request.Header.Get("Content-Type"), "multipart/") {
		return nil, noop, nil
	}

	if err := request.ParseMultipartForm(constants.MaxUploadBytes); err != nil {
		return nil, noop, apperr.ValidationError("Invalid multipart form data")
	}

	file, header, err := request.FormFile(field)
	if err != nil {
		if errors.Is(err, http.ErrMissingFile) {
			return nil, noop, nil
		}
		return nil, noop, apperr.ValidationError("Invalid file upload")
	}

	upload := &storage.Upload{
		Filename: header.Filename,
		Content:  file,
	}
	cleanup := func() { _ = file.Close() }
	return upload, cleanup, nil
}

/*
Claims extracts the authenticated user claims from the request context.

Returns nil if the request is not authenticated.
*/
func Claims(request *http.Request) *sec.AuthClaims {
	return ctxutil.GetAuthUser(request.Context())
}

/*
RequiredClaims ensures the request is authenticated and returns the user claims.

Returns:
  - *sec.AuthClaims: The authenticated user claims
  - error: apperr.Unauthorized if the request is not authenticated
*/
func RequiredClaims(request *http.Request) (*sec.AuthClaims, error) {

	// Get user claims
	claims := ctxutil.GetAuthUser(request.Context())

	// If the user is not authenticated, return an error
	if claims == nil {
		return nil, apperr.Unauthorized("Authentication required")
	}

	return claims, nil
}

/*
RequiredUserID returns the User ID of the currently logged-in user.

Returns:
  - string: User UUID
  - error: apperr.Unauthorized if not authenticated
*/
func RequiredUserID(request *http.Request) (string, error) {

	// Get user claims
	claims, err := RequiredClaims(request)

	// If the user is not authenticated, return an error
	if err != nil {
		return "", err
	}

	return claims.UserID, nil
}
