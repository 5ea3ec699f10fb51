// Copyright (c) 2026 Novira. All rights reserved.
// Author: minh.ngvn.dev@gmail.com

package novel

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/minhngvn/novira/internal/platform/middleware"
	requestutil "github.com/minhngvn/novira/internal/platform/request"
	"github.com/minhngvn/novira/internal/platform/respond"
	"github.com/minhngvn/novira/pkg/listing"
)

// # Handler Implementation

// Handler implements the HTTP layer for the novel library.
// It translates web requests into domain service calls.
type Handler struct {
	service *Service
}

// NewHandler constructs a new novel [Handler] with its service dependency.
func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// Routes returns a [chi.Router] configured with the novel domain's endpoints.
//
// # Routing Strategy
//
//   - Discovery (Public): Browsing and detail lookups for all visitors.
//   - Authorship (Authenticated): Creation and the author's own shelf.
//     Update and delete additionally require ownership, enforced by the
//     service against the loaded record.
func (handler *Handler) Routes() chi.Router {
	router := chi.NewRouter()

	// ## Public Discovery Endpoints
	router.Get("/", handler.listNovels)
	router.Get("/{identifier}", handler.getNovel)

	// ## Authorship Endpoints
	router.Group(func(r chi.Router) {
		r.Use(middleware.RequireAuth)

		r.Get("/mine", handler.listMine)
		r.Post("/", handler.createNovel)
		r.Patch("/{id}", handler.updateNovel)
		r.Delete("/{id}", handler.deleteNovel)
	})

	return router
}

// # Discovery Endpoints

/*
GET /api/v1/novels.

Description: Retrieves a paginated window of the public library. Supports
search (substring, case-insensitive over title and description),
orderBy/orderType against the allow-listed sort fields, page/limit
windowing, and the unbounded flag for full exports.

Query:
  - search, page, limit, orderBy, orderType, unbounded

Response:
  - 200: []Novel + pagination meta
*/
func (handler *Handler) listNovels(writer http.ResponseWriter, request *http.Request) {
	params := listing.FromRequest(request)

	novels, total, err := handler.service.ListNovels(request.Context(), params)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.Paginated(writer, novels, params.Meta(total))
}

/*
GET /api/v1/novels/{identifier}.

Description: Retrieves a novel using either its UUID or unique title slug.
UUID lookups take precedence.

Response:
  - 200: Novel
  - 404: ErrNotFound: Novel not found
*/
func (handler *Handler) getNovel(writer http.ResponseWriter, request *http.Request) {
	identifier := requestutil.Param(request, "identifier")

	novel, err := handler.service.GetNovel(request.Context(), identifier)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, novel)
}

/*
GET /api/v1/novels/mine.

Description: Retrieves the authenticated author's own shelf, drafts
included. Same listing parameters as public discovery.

Response:
  - 200: []Novel + pagination meta
  - 401: ErrUnauthorized: Authentication required
*/
func (handler *Handler) listMine(writer http.ResponseWriter, request *http.Request) {
	userID, err := requestutil.RequiredUserID(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	params := listing.FromRequest(request)

	novels, total, err := handler.service.ListMine(request.Context(), userID, params)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.Paginated(writer, novels, params.Meta(total))
}

// # Mutation Endpoints

/*
POST /api/v1/novels.

Description: Creates a new novel owned by the authenticated user. Accepts
multipart form data so a cover file can ride along with the metadata. The
owner is always the caller; any client-supplied owner field is ignored.

Request:
  - multipart form: title (required), description, status (optional), cover (optional file)

Response:
  - 201: Novel: The created entity
  - 400: Validation: Invalid input data
  - 401: ErrUnauthorized: Authentication required
  - 409: ErrConflict: Duplicate title slug
*/
func (handler *Handler) createNovel(writer http.ResponseWriter, request *http.Request) {
	userID, err := requestutil.RequiredUserID(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	cover, cleanup, err := requestutil.File(request, FieldCover)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}
	defer cleanup()

	input := CreateNovelInput{Cover: cover}
	if request.MultipartForm != nil {
		input.Title = formValue(request, FieldTitle)
		input.Description = formValue(request, FieldDescription)
		input.Status = Status(formValue(request, FieldStatus))
	}

	novel, err := handler.service.CreateNovel(request.Context(), userID, input)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.Created(writer, novel)
}

/*
PATCH /api/v1/novels/{id}.

Description: Applies partial updates to a novel the caller owns. Fields not
submitted (and an absent cover file) leave existing values untouched.

Request:
  - id: string (UUID)
  - multipart form: title, description, status (all optional), cover (optional file)

Response:
  - 200: Novel: The updated entity
  - 400: Validation: Invalid input data
  - 401: ErrUnauthorized: Authentication required
  - 403: ErrForbidden: Caller does not own the novel
  - 404: ErrNotFound: Novel not found
*/
func (handler *Handler) updateNovel(writer http.ResponseWriter, request *http.Request) {
	userID, err := requestutil.RequiredUserID(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	novelID := requestutil.Param(request, "id")

	cover, cleanup, err := requestutil.File(request, FieldCover)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}
	defer cleanup()

	input := UpdateNovelInput{Cover: cover}
	if request.MultipartForm != nil {
		input.Title = formField(request, FieldTitle)
		input.Description = formField(request, FieldDescription)
		if raw := formField(request, FieldStatus); raw != nil {
			status := Status(*raw)
			input.Status = &status
		}
	}

	novel, err := handler.service.UpdateNovel(request.Context(), userID, novelID, input)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, novel)
}

/*
DELETE /api/v1/novels/{id}.

Description: Unconditionally removes a novel the caller owns. The cover
asset is reclaimed best-effort after the record is gone.

Response:
  - 204: No Content: Success
  - 401: ErrUnauthorized: Authentication required
  - 403: ErrForbidden: Caller does not own the novel
  - 404: ErrNotFound: Novel not found
*/
func (handler *Handler) deleteNovel(writer http.ResponseWriter, request *http.Request) {
	userID, err := requestutil.RequiredUserID(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	novelID := requestutil.Param(request, "id")

	if err := handler.service.DeleteNovel(request.Context(), userID, novelID); err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.NoContent(writer)
}

// # Helpers

// formField returns a pointer to the multipart form value, or nil when the
// field was not submitted at all (distinguishing "absent" from "empty").
func formField(request *http.Request, name string) *string {
	values, ok := request.MultipartForm.Value[name]
	if !ok || len(values) == 0 {
		return nil
	}
	return &values[0]
}

// formValue returns the multipart form value, or "" when absent.
func formValue(request *http.Request, name string) string {
	if field := formField(request, name); field != nil {
		return *field
	}
	return ""
}
