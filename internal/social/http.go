// Copyright (c) 2026 Novira. All rights reserved.
// Author: minh.ngvn.dev@gmail.com

package social

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/minhngvn/novira/internal/platform/middleware"
	requestutil "github.com/minhngvn/novira/internal/platform/request"
	"github.com/minhngvn/novira/internal/platform/respond"
	"github.com/minhngvn/novira/pkg/listing"
)

// # Handler Implementation

// Handler implements the HTTP layer for the social graph.
type Handler struct {
	service *Service
}

// NewHandler constructs a new social [Handler] with its service dependency.
func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// Routes returns a [chi.Router] configured with the social graph endpoints.
//
// # Routing Strategy
//
//   - Graph browsing (Public): Anyone can inspect followers and following.
//   - Toggles and shelves (Authenticated): Edges are always anchored on the
//     caller; a toggle can never act on behalf of another user.
func (handler *Handler) Routes() chi.Router {
	router := chi.NewRouter()

	// ## Public Graph Endpoints
	router.Get("/followers/{userID}", handler.listFollowers)
	router.Get("/following/{userID}", handler.listFollowing)

	// ## Relationship Toggles
	router.Group(func(r chi.Router) {
		r.Use(middleware.RequireAuth)

		r.Post("/follow/{userID}", handler.toggleFollow)
		r.Post("/favourites/{novelID}", handler.toggleFavourite)
		r.Get("/favourites", handler.listFavourites)
	})

	return router
}

// # Follow Endpoints

/*
POST /api/v1/social/follow/{userID}.

Description: Toggles the follow edge from the authenticated user to the
target. First call follows, second call unfollows; the endpoint is
idempotent per state and never errors on repetition.

Response:
  - 200: FollowResult: {"following": true|false}
  - 401: ErrUnauthorized: Authentication required
  - 404: ErrNotFound: Target user does not exist
  - 422: ErrSelfRelation: Attempted to follow oneself
*/
func (handler *Handler) toggleFollow(writer http.ResponseWriter, request *http.Request) {
	followerID, err := requestutil.RequiredUserID(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	followingID := requestutil.Param(request, "userID")

	result, err := handler.service.ToggleFollow(request.Context(), followerID, followingID)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, result)
}

/*
GET /api/v1/social/followers/{userID}.

Description: Lists the public profiles of a user's followers, newest first.
Supports search over username and display name plus page/limit windowing.

Response:
  - 200: []PublicProfile + pagination meta
*/
func (handler *Handler) listFollowers(writer http.ResponseWriter, request *http.Request) {
	userID := requestutil.Param(request, "userID")
	params := listing.FromRequest(request)

	profiles, total, err := handler.service.ListFollowers(request.Context(), userID, params)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.Paginated(writer, profiles, params.Meta(total))
}

/*
GET /api/v1/social/following/{userID}.

Description: Lists the public profiles of the users someone follows,
newest first. Same listing parameters as the followers endpoint.

Response:
  - 200: []PublicProfile + pagination meta
*/
func (handler *Handler) listFollowing(writer http.ResponseWriter, request *http.Request) {
	userID := requestutil.Param(request, "userID")
	params := listing.FromRequest(request)

	profiles, total, err := handler.service.ListFollowing(request.Context(), userID, params)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.Paginated(writer, profiles, params.Meta(total))
}

// # Favourite Endpoints

/*
POST /api/v1/social/favourites/{novelID}.

Description: Toggles the favourite edge from the authenticated user to a
novel. First call favourites, second call removes the favourite.

Response:
  - 200: FavouriteResult: {"favourited": true|false}
  - 401: ErrUnauthorized: Authentication required
  - 404: ErrNotFound: Novel does not exist
*/
func (handler *Handler) toggleFavourite(writer http.ResponseWriter, request *http.Request) {
	userID, err := requestutil.RequiredUserID(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	novelID := requestutil.Param(request, "novelID")

	result, err := handler.service.ToggleFavourite(request.Context(), userID, novelID)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, result)
}

/*
GET /api/v1/social/favourites.

Description: Lists the authenticated user's favourited novels, newest
favourite first. Supports search over title and description plus
page/limit windowing.

Response:
  - 200: []Novel + pagination meta
  - 401: ErrUnauthorized: Authentication required
*/
func (handler *Handler) listFavourites(writer http.ResponseWriter, request *http.Request) {
	userID, err := requestutil.RequiredUserID(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	params := listing.FromRequest(request)

	novels, total, err := handler.service.ListFavourites(request.Context(), userID, params)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.Paginated(writer, novels, params.Meta(total))
}
