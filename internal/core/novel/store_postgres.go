// Copyright (c) 2026 Novira. All rights reserved.
// Author: minh.ngvn.dev@gmail.com

package novel

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/minhngvn/novira/internal/platform/apperr"
	"github.com/minhngvn/novira/internal/platform/database/schema"
	"github.com/minhngvn/novira/internal/platform/dberr"
	"github.com/minhngvn/novira/pkg/listing"
)

// PostgresNovelRepository implements [NovelRepository] using pgx.
type PostgresNovelRepository struct {
	pool *pgxpool.Pool
}

// NewNovelRepository constructs a PostgreSQL backed novel store.
func NewNovelRepository(pool *pgxpool.Pool) *PostgresNovelRepository {
	return &PostgresNovelRepository{pool: pool}
}

const novelColumns = "id, ownerid, title, slug, status, description, coverref, viewcount, favouritecount, createdat, updatedat"

/*
Create persists a new novel record.

Parameters:
  - context: context.Context
  - novel: *Novel

Returns:
  - error: apperr.Conflict when the slug is taken, or execution errors
*/
func (repository *PostgresNovelRepository) Create(context context.Context, novel *Novel) error {
	const query = `
		INSERT INTO core.novel (id, ownerid, title, slug, status, description, coverref, createdat, updatedat)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $8)`

	novel.CreatedAt = time.Now()
	novel.UpdatedAt = novel.CreatedAt

	_, err := repository.pool.Exec(context, query,
		novel.ID,
		novel.OwnerID,
		novel.Title,
		novel.Slug,
		novel.Status,
		novel.Description,
		novel.CoverRef,
		novel.CreatedAt,
	)

	if err != nil {
		if dberr.IsUniqueViolation(err) {
			return apperr.Conflict("A novel with this title already exists")
		}
		return fmt.Errorf("postgres_novel_repo_create_failed: %w", err)
	}

	return nil
}

/*
FindByID retrieves a novel by its primary key.

Returns:
  - *Novel: Hydrated entity
  - error: apperr.NotFound or execution errors
*/
func (repository *PostgresNovelRepository) FindByID(context context.Context, id string) (*Novel, error) {
	query := fmt.Sprintf("SELECT %s FROM core.novel WHERE id = $1", novelColumns)

	novel, err := scanNovel(repository.pool.QueryRow(context, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperr.NotFound("Novel")
		}
		return nil, fmt.Errorf("postgres_novel_repo_find_by_id_failed: %w", err)
	}

	return novel, nil
}

/*
FindBySlug retrieves a novel by its unique URL slug.

Returns:
  - *Novel: Hydrated entity
  - error: apperr.NotFound or execution errors
*/
func (repository *PostgresNovelRepository) FindBySlug(context context.Context, slug string) (*Novel, error) {
	query := fmt.Sprintf("SELECT %s FROM core.novel WHERE slug = $1", novelColumns)

	novel, err := scanNovel(repository.pool.QueryRow(context, query, slug))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperr.NotFound("Novel")
		}
		return nil, fmt.Errorf("postgres_novel_repo_find_by_slug_failed: %w", err)
	}

	return novel, nil
}

/*
List returns a window of the public library plus the total match count.

Description: Uses COUNT(*) OVER() to retrieve the total without a second
round-trip. Search text becomes an escaped ILIKE pattern against both title
and description. The ORDER BY clause is built exclusively from the
[NovelSort] allow-list with the primary key as tie-break, and LIMIT/OFFSET
are omitted entirely when the query is unbounded. Drafts are excluded from
public discovery.

Parameters:
  - context: context.Context
  - params: listing.Params

Returns:
  - []*Novel: Matching novels in requested order
  - int: Total matches before windowing
  - error: Execution failures
*/
func (repository *PostgresNovelRepository) List(context context.Context, params listing.Params) ([]*Novel, int, error) {
	where := fmt.Sprintf("%s <> '%s'", schema.CoreNovel.Status, StatusDraft)
	return repository.list(context, params, where, nil)
}

/*
ListByOwner returns a window of one author's novels plus the total count.
Drafts are included: authors always see their own work.

Parameters:
  - context: context.Context
  - ownerID: string (UUID)
  - params: listing.Params

Returns:
  - []*Novel: Matching novels in requested order
  - int: Total matches before windowing
  - error: Execution failures
*/
func (repository *PostgresNovelRepository) ListByOwner(context context.Context, ownerID string, params listing.Params) ([]*Novel, int, error) {
	where := fmt.Sprintf("%s = $1", schema.CoreNovel.OwnerID)
	return repository.list(context, params, where, []any{ownerID})
}

// list builds and executes the shared windowed listing query. The where
// fragment must reference only trusted schema constants; its placeholders
// come first in args.
func (repository *PostgresNovelRepository) list(context context.Context, params listing.Params, where string, args []any) ([]*Novel, int, error) {
	var queryBuilder strings.Builder
	argID := len(args) + 1

	queryBuilder.WriteString(fmt.Sprintf(`
		SELECT %s, COUNT(*) OVER() AS total_count
		FROM %s
		WHERE %s`,
		novelColumns,
		schema.CoreNovel.Table,
		where,
	))

	// Free-text filter over the two human-readable content columns.
	if params.Search != "" {
		queryBuilder.WriteString(fmt.Sprintf(" AND (%s ILIKE $%d OR %s ILIKE $%d)",
			schema.CoreNovel.Title, argID,
			schema.CoreNovel.Description, argID,
		))
		args = append(args, listing.ContainsPattern(params.Search))
		argID++
	}

	// Allow-listed sorting with a deterministic tie-break.
	queryBuilder.WriteString(" " + params.OrderBySQL(NovelSort))

	// Windowing, unless this is an unbounded export.
	if limit, offset, bounded := params.Window(); bounded {
		queryBuilder.WriteString(fmt.Sprintf(" LIMIT $%d OFFSET $%d", argID, argID+1))
		args = append(args, limit, offset)
	}

	rows, err := repository.pool.Query(context, queryBuilder.String(), args...)
	if err != nil {
		return nil, 0, fmt.Errorf("postgres_novel_repo_list_failed: %w", err)
	}
	defer rows.Close()

	var novels []*Novel
	var totalCount int

	for rows.Next() {
		novel := &Novel{}
		err := rows.Scan(
			&novel.ID,
			&novel.OwnerID,
			&novel.Title,
			&novel.Slug,
			&novel.Status,
			&novel.Description,
			&novel.CoverRef,
			&novel.ViewCount,
			&novel.FavouriteCount,
			&novel.CreatedAt,
			&novel.UpdatedAt,
			&totalCount,
		)
		if err != nil {
			return nil, 0, fmt.Errorf("postgres_novel_repo_scan_failed: %w", err)
		}
		novels = append(novels, novel)
	}

	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("postgres_novel_repo_rows_failed: %w", err)
	}

	return novels, totalCount, nil
}

/*
Update persists the mutable fields of an existing novel, including the cover
asset reference. The owner column is never written after creation.

Parameters:
  - context: context.Context
  - novel: *Novel

Returns:
  - error: apperr.NotFound when the row is gone, apperr.Conflict on a
    duplicate slug, or execution errors
*/
func (repository *PostgresNovelRepository) Update(context context.Context, novel *Novel) error {
	const query = `
		UPDATE core.novel
		SET title = $2, slug = $3, status = $4, description = $5, coverref = $6, updatedat = $7
		WHERE id = $1`

	novel.UpdatedAt = time.Now()
	tag, err := repository.pool.Exec(context, query,
		novel.ID,
		novel.Title,
		novel.Slug,
		novel.Status,
		novel.Description,
		novel.CoverRef,
		novel.UpdatedAt,
	)

	if err != nil {
		return dberr.Wrap(err, "Novel")
	}
	if tag.RowsAffected() == 0 {
		return apperr.NotFound("Novel")
	}

	return nil
}

/*
Delete removes a novel record unconditionally. Favourite edges referencing
it are removed by the ON DELETE CASCADE on core.favourite.

Parameters:
  - context: context.Context
  - id: string (UUID)

Returns:
  - error: apperr.NotFound or execution errors
*/
func (repository *PostgresNovelRepository) Delete(context context.Context, id string) error {
	const query = "DELETE FROM core.novel WHERE id = $1"

	tag, err := repository.pool.Exec(context, query, id)
	if err != nil {
		return fmt.Errorf("postgres_novel_repo_delete_failed: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return apperr.NotFound("Novel")
	}

	return nil
}

/*
IncrementView bumps the view counter by one.

Returns:
  - error: Execution errors; callers treat them as non-fatal
*/
func (repository *PostgresNovelRepository) IncrementView(context context.Context, id string) error {
	const query = "UPDATE core.novel SET viewcount = viewcount + 1 WHERE id = $1"
	_, err := repository.pool.Exec(context, query, id)
	if err != nil {
		return fmt.Errorf("postgres_novel_repo_increment_view_failed: %w", err)
	}
	return nil
}

// scanNovel hydrates a full novel row.
func scanNovel(row pgx.Row) (*Novel, error) {
	novel := &Novel{}
	err := row.Scan(
		&novel.ID,
		&novel.OwnerID,
		&novel.Title,
		&novel.Slug,
		&novel.Status,
		&novel.Description,
		&novel.CoverRef,
		&novel.ViewCount,
		&novel.FavouriteCount,
		&novel.CreatedAt,
		&novel.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return novel, nil
}
