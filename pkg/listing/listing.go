// Copyright (c) 2026 Novira. All rights reserved.
// Author: minh.ngvn.dev@gmail.com

/*
Package listing translates user-supplied list parameters (search text,
paging, sorting, the unbounded flag) into a deterministic, injection-safe
query plan.

# Coercion over rejection

Every input is coerced, never rejected: an unknown sort field falls back to
the entity's default, an unknown direction becomes descending, and paging
values below the minimum are clamped. Listing endpoints must stay available
in the face of sloppy clients.

# Determinism

The generated ORDER BY always appends the primary key as a tie-break after
the requested sort column, so pagination is stable across pages even when
the sort field has duplicate values.
*/
package listing

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/minhngvn/novira/pkg/pagination"
)

// Sort directions accepted on the wire.
const (
	OrderAsc  = "asc"
	OrderDesc = "desc"
)

// # Parameters

// Params holds the full, normalized set of listing parameters.
type Params struct {
	pagination.Params

	// Search is free text matched case-insensitively against the entity's
	// searchable fields. Empty matches all rows.
	Search string

	// OrderBy is the requested sort field as named by the API. It is only
	// trusted after passing through a [SortSpec] allow-list.
	OrderBy string

	// OrderType is "asc" or "desc"; anything else has been coerced to "desc".
	OrderType string

	// Unbounded disables paging entirely: all matching rows are returned.
	Unbounded bool
}

// FromRequest parses the standard listing query parameters:
// search, page, limit, orderBy, orderType, unbounded.
func FromRequest(r *http.Request) Params {
	q := r.URL.Query()

	unbounded, _ := strconv.ParseBool(q.Get("unbounded"))

	return Params{
		Params:    pagination.FromRequest(r),
		Search:    strings.TrimSpace(q.Get("search")),
		OrderBy:   q.Get("orderBy"),
		OrderType: normalizeDirection(q.Get("orderType")),
		Unbounded: unbounded,
	}
}

// Meta builds the pagination metadata for this query given the total number
// of matching rows (counted before pagination was applied).
//
// For unbounded queries the page collapses to a single window covering the
// whole result set.
func (p Params) Meta(total int) pagination.Meta {
	if p.Unbounded {
		return pagination.Meta{Page: 1, Limit: total, Total: total, TotalPages: 1}
	}
	return pagination.NewMeta(p.Page, p.Limit, total)
}

// # Sorting

// SortSpec is an entity's sorting contract: which API field names may be
// sorted on, which columns they map to, and what to do when the request
// names anything else.
type SortSpec struct {
	// Allowed maps API field names to SQL column expressions. Only values
	// from this map ever reach the query text.
	Allowed map[string]string

	// Default is the column expression used when OrderBy is absent or not
	// in the allow-list.
	Default string

	// TieBreak is the primary-key column appended after the sort column so
	// the ordering is a strict total order.
	TieBreak string
}

// Column resolves the requested sort field against the allow-list,
// falling back to the default column.
func (p Params) Column(spec SortSpec) string {
	if column, ok := spec.Allowed[p.OrderBy]; ok {
		return column
	}
	return spec.Default
}

// Direction returns the SQL sort direction keyword.
func (p Params) Direction() string {
	if p.OrderType == OrderAsc {
		return "ASC"
	}
	return "DESC"
}

// OrderBySQL renders the full ORDER BY clause, keyword included,
// e.g. "ORDER BY title ASC, id ASC".
//
// The tie-break follows the requested direction so that reversing the sort
// reverses the whole ordering, not just the primary column.
func (p Params) OrderBySQL(spec SortSpec) string {
	direction := p.Direction()
	return "ORDER BY " + p.Column(spec) + " " + direction + ", " + spec.TieBreak + " " + direction
}

// # Windowing

// Window returns the LIMIT/OFFSET pair for the query plan.
// The second return value is false for unbounded queries, in which case no
// LIMIT/OFFSET clause may be emitted at all.
func (p Params) Window() (limit, offset int, bounded bool) {
	if p.Unbounded {
		return 0, 0, false
	}
	return p.Limit, p.Offset(), true
}

// # Search helpers

// likeEscaper neutralizes the LIKE metacharacters so user text can never
// widen a pattern.
var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

// ContainsPattern converts free search text into a parameter value for a
// case-insensitive ILIKE contains match.
func ContainsPattern(search string) string {
	return "%" + likeEscaper.Replace(search) + "%"
}

// normalizeDirection coerces the wire value to a known direction.
func normalizeDirection(raw string) string {
	if strings.ToLower(raw) == OrderAsc {
		return OrderAsc
	}
	return OrderDesc
}
