// Copyright (c) 2026 Novira. All rights reserved.
// Author: minh.ngvn.dev@gmail.com

package account

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/minhngvn/novira/internal/platform/middleware"
	requestutil "github.com/minhngvn/novira/internal/platform/request"
	"github.com/minhngvn/novira/internal/platform/respond"
	"github.com/minhngvn/novira/internal/platform/validate"
	"github.com/minhngvn/novira/internal/users/auth"
	"github.com/minhngvn/novira/pkg/listing"
)

// Handler implements the HTTP layer for user account management and discovery.
type Handler struct {
	accountService *Service
}

// NewHandler constructs a new account [Handler].
func NewHandler(service *Service) *Handler {
	return &Handler{accountService: service}
}

// Routes returns a [chi.Router] configured with the account domain's endpoints.
func (handler *Handler) Routes() chi.Router {
	router := chi.NewRouter()

	// Public directory
	router.Get("/users", handler.listUsers)
	router.Get("/users/{username}", handler.getUserProfile)

	// Account management (requires authentication)
	router.Group(func(r chi.Router) {
		r.Use(middleware.RequireAuth)
		r.Get("/me", handler.getMe)
		r.Patch("/me", handler.updateMe)
		r.Delete("/me", handler.deleteMe)
	})

	return router
}

// # Member Directory Endpoints

/*
GET /api/v1/users.

Description: Lists the public member directory. Supports search (substring,
case-insensitive over username and display name), orderBy/orderType against
the allow-listed sort fields, page/limit windowing, and the unbounded flag
for full exports.

Query:
  - search, page, limit, orderBy, orderType, unbounded

Response:
  - 200: []PublicProfile + pagination meta
*/
func (handler *Handler) listUsers(writer http.ResponseWriter, request *http.Request) {
	params := listing.FromRequest(request)

	profiles, total, err := handler.accountService.ListUsers(request.Context(), params)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.Paginated(writer, profiles, params.Meta(total))
}

/*
GET /api/v1/users/{username}.

Description: Retrieves the public profile of a member by username.

Response:
  - 200: PublicProfile
  - 404: ErrNotFound: Unknown username
*/
func (handler *Handler) getUserProfile(writer http.ResponseWriter, request *http.Request) {
	username := requestutil.Param(request, "username")

	profile, err := handler.accountService.GetPublicProfile(request.Context(), username)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, profile)
}

// # Private Profile Endpoints

/*
GET /api/v1/me.

Description: Retrieves the full private profile of the authenticated user.

Response:
  - 200: User: Fully hydrated user profile
  - 401: ErrUnauthorized: Authentication required
*/
func (handler *Handler) getMe(writer http.ResponseWriter, request *http.Request) {
	userID, err := requestutil.RequiredUserID(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	user, err := handler.accountService.GetProfile(request.Context(), userID)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, user)
}

/*
PATCH /api/v1/me.

Description: Applies partial updates to the authenticated user's profile.
Accepts multipart form data so an avatar file can ride along with the field
changes; absent fields (and an absent file) leave existing values untouched.

Request:
  - multipart form: display_name, bio, website (optional), avatar (optional file)

Response:
  - 200: User: The updated profile
  - 400: ErrInvalidJSON/Validation: Invalid input data
  - 401: ErrUnauthorized: Authentication required
*/
func (handler *Handler) updateMe(writer http.ResponseWriter, request *http.Request) {
	userID, err := requestutil.RequiredUserID(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	avatar, cleanup, err := requestutil.File(request, "avatar")
	if err != nil {
		respond.Error(writer, request, err)
		return
	}
	defer cleanup()

	input := UpdateProfileInput{Avatar: avatar}
	if request.MultipartForm != nil {
		input.DisplayName = formField(request, auth.FieldDisplayName)
		input.Bio = formField(request, "bio")
		input.Website = formField(request, "website")
	}

	validator := &validate.Validator{}
	if input.DisplayName != nil {
		validator.MaxLen(auth.FieldDisplayName, *input.DisplayName, 100)
	}
	if input.Bio != nil {
		validator.MaxLen("bio", *input.Bio, 500)
	}
	if err := validator.Err(); err != nil {
		respond.Error(writer, request, err)
		return
	}

	user, err := handler.accountService.UpdateProfile(request.Context(), userID, input)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, user)
}

/*
DELETE /api/v1/me.

Description: Soft-deletes the authenticated account, signs out all devices,
and reclaims the avatar asset.

Response:
  - 204: No Content: Account deleted
  - 401: ErrUnauthorized: Authentication required
*/
func (handler *Handler) deleteMe(writer http.ResponseWriter, request *http.Request) {
	userID, err := requestutil.RequiredUserID(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	if err := handler.accountService.DeleteAccount(request.Context(), userID); err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.NoContent(writer)
}

// formField returns a pointer to the multipart form value, or nil when the
// field was not submitted at all (distinguishing "absent" from "empty").
func formField(request *http.Request, name string) *string {
	values, ok := request.MultipartForm.Value[name]
	if !ok || len(values) == 0 {
		return nil
	}
	return &values[0]
}
