// Copyright (c) 2026 Novira. All rights reserved.
// Author: minh.ngvn.dev@gmail.com

package listing_test

import (
	"fmt"
	"net/http/httptest"
	"sort"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/minhngvn/novira/pkg/listing"
)

var novelSort = listing.SortSpec{
	Allowed: map[string]string{
		"title":     "title",
		"createdAt": "createdat",
		"id":        "id",
	},
	Default:  "id",
	TieBreak: "id",
}

/*
TestFromRequest_Defaults checks that an empty query string yields the
documented defaults.
*/
func TestFromRequest_Defaults(t *testing.T) {
	r := httptest.NewRequest("GET", "/users", nil)

	p := listing.FromRequest(r)

	assert.Equal(t, "", p.Search)
	assert.Equal(t, 1, p.Page)
	assert.Equal(t, 10, p.Limit)
	assert.Equal(t, "", p.OrderBy)
	assert.Equal(t, listing.OrderDesc, p.OrderType)
	assert.False(t, p.Unbounded)
}

/*
TestFromRequest_Coercion verifies that bad paging and sorting input is
clamped or coerced, never rejected.
*/
func TestFromRequest_Coercion(t *testing.T) {
	tests := []struct {
		name      string
		query     string
		wantPage  int
		wantLimit int
		wantOrder string
	}{
		{"negative_page", "page=-3&limit=5", 1, 5, listing.OrderDesc},
		{"zero_limit", "page=2&limit=0", 2, 10, listing.OrderDesc},
		{"limit_over_max", "limit=100000", 1, 10, listing.OrderDesc},
		{"garbage_numbers", "page=abc&limit=xyz", 1, 10, listing.OrderDesc},
		{"asc_any_case", "orderType=ASC", 1, 10, listing.OrderAsc},
		{"unknown_direction", "orderType=sideways", 1, 10, listing.OrderDesc},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := httptest.NewRequest("GET", "/novels?"+tt.query, nil)

			p := listing.FromRequest(r)

			assert.Equal(t, tt.wantPage, p.Page)
			assert.Equal(t, tt.wantLimit, p.Limit)
			assert.Equal(t, tt.wantOrder, p.OrderType)
		})
	}
}

/*
TestOrderBySQL verifies allow-list resolution, default fallback, and the
primary-key tie-break.
*/
func TestOrderBySQL(t *testing.T) {
	tests := []struct {
		name      string
		orderBy   string
		orderType string
		want      string
	}{
		{"allowed_field_asc", "title", "asc", "ORDER BY title ASC, id ASC"},
		{"allowed_field_desc", "createdAt", "desc", "ORDER BY createdat DESC, id DESC"},
		{"unknown_field_falls_back", "passwordhash", "asc", "ORDER BY id ASC, id ASC"},
		{"empty_field_falls_back", "", "desc", "ORDER BY id DESC, id DESC"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := listing.Params{OrderBy: tt.orderBy, OrderType: tt.orderType}
			assert.Equal(t, tt.want, p.OrderBySQL(novelSort))
		})
	}
}

/*
TestWindow covers bounded and unbounded query plans.
*/
func TestWindow(t *testing.T) {
	r := httptest.NewRequest("GET", "/novels?page=3&limit=5", nil)
	p := listing.FromRequest(r)

	limit, offset, bounded := p.Window()
	assert.True(t, bounded)
	assert.Equal(t, 5, limit)
	assert.Equal(t, 10, offset)

	r = httptest.NewRequest("GET", "/novels?page=3&limit=5&unbounded=true", nil)
	p = listing.FromRequest(r)

	_, _, bounded = p.Window()
	assert.False(t, bounded, "unbounded listings must not emit LIMIT/OFFSET")
}

/*
TestMeta checks metadata construction for bounded and unbounded listings.
*/
func TestMeta(t *testing.T) {
	p := listing.Params{OrderType: listing.OrderDesc}
	p.Page, p.Limit = 2, 5

	meta := p.Meta(12)
	assert.Equal(t, 2, meta.Page)
	assert.Equal(t, 5, meta.Limit)
	assert.Equal(t, 12, meta.Total)
	assert.Equal(t, 3, meta.TotalPages)

	p.Unbounded = true
	meta = p.Meta(12)
	assert.Equal(t, 1, meta.Page)
	assert.Equal(t, 12, meta.Limit)
	assert.Equal(t, 1, meta.TotalPages)
}

/*
TestContainsPattern ensures LIKE metacharacters in search text are
neutralized.
*/
func TestContainsPattern(t *testing.T) {
	tests := []struct {
		name   string
		search string
		want   string
	}{
		{"plain_text", "dragon", "%dragon%"},
		{"percent_escaped", "50%", `%50\%%`},
		{"underscore_escaped", "a_b", `%a\_b%`},
		{"backslash_escaped", `a\b`, `%a\\b%`},
		{"empty_matches_all", "", "%%"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, listing.ContainsPattern(tt.search))
		})
	}
}

// # Contract-level behavior

// row is a minimal sortable entity for exercising the whole listing
// contract against an in-memory dataset.
type row struct {
	id    string
	title string
}

// applyPlan evaluates a query plan the way a store would: sort by the
// resolved column with the primary-key tie-break, then slice the window.
func applyPlan(p listing.Params, data []row) []row {
	sorted := make([]row, len(data))
	copy(sorted, data)

	asc := p.Direction() == "ASC"
	byTitle := p.Column(novelSort) == "title"
	sort.SliceStable(sorted, func(i, j int) bool {
		a, b := sorted[i], sorted[j]
		if byTitle && a.title != b.title {
			if asc {
				return a.title < b.title
			}
			return a.title > b.title
		}
		if asc {
			return a.id < b.id
		}
		return a.id > b.id
	})

	limit, offset, bounded := p.Window()
	if !bounded {
		return sorted
	}
	if offset >= len(sorted) {
		return nil
	}
	end := offset + limit
	if end > len(sorted) {
		end = len(sorted)
	}
	return sorted[offset:end]
}

func fixtureRows() []row {
	// Twelve rows with a duplicated title so only the tie-break keeps the
	// ordering strict. Built in reverse so insertion order never masks a
	// sort bug.
	rows := make([]row, 0, 12)
	for i := 12; i >= 1; i-- {
		title := fmt.Sprintf("novel-%02d", i)
		if i == 7 {
			title = "novel-06" // duplicate of row 6
		}
		rows = append(rows, row{id: fmt.Sprintf("id-%02d", i), title: title})
	}
	return rows
}

/*
TestPlan_MiddlePageOfTwelve walks the worked reference case: twelve matches,
page 2 with limit 5 sorted by title ascending returns exactly rows 6-10 of
the total ordering, with the duplicate title resolved by the id tie-break
and the metadata carrying the pre-pagination total.
*/
func TestPlan_MiddlePageOfTwelve(t *testing.T) {
	r := httptest.NewRequest("GET", "/novels?page=2&limit=5&orderBy=title&orderType=asc", nil)
	p := listing.FromRequest(r)

	got := applyPlan(p, fixtureRows())

	require.Len(t, got, 5)
	// Rows 6 and 7 share the title "novel-06"; id-06 sorts before id-07.
	assert.Equal(t, []string{"id-06", "id-07", "id-08", "id-09", "id-10"},
		[]string{got[0].id, got[1].id, got[2].id, got[3].id, got[4].id})

	meta := p.Meta(12)
	assert.Equal(t, 12, meta.Total)
	assert.Equal(t, 2, meta.Page)
	assert.Equal(t, 3, meta.TotalPages)
}

/*
TestPlan_PagesPartitionUnboundedResult asserts that walking every bounded
page and concatenating the slices reproduces the unbounded result exactly:
no duplicates, no gaps, same order. Holds in both directions.
*/
func TestPlan_PagesPartitionUnboundedResult(t *testing.T) {
	for _, direction := range []string{"asc", "desc"} {
		t.Run(direction, func(t *testing.T) {
			data := fixtureRows()

			r := httptest.NewRequest("GET", "/novels?orderBy=title&orderType="+direction+"&unbounded=true", nil)
			all := applyPlan(listing.FromRequest(r), data)
			require.Len(t, all, len(data))

			var walked []row
			for page := 1; page <= 3; page++ {
				r := httptest.NewRequest("GET",
					fmt.Sprintf("/novels?page=%d&limit=5&orderBy=title&orderType=%s", page, direction), nil)
				walked = append(walked, applyPlan(listing.FromRequest(r), data)...)
			}

			assert.Equal(t, all, walked)
		})
	}
}
