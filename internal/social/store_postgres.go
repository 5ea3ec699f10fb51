// Copyright (c) 2026 Novira. All rights reserved.
// Author: minh.ngvn.dev@gmail.com

package social

import (
	"context"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/minhngvn/novira/internal/core/novel"
	"github.com/minhngvn/novira/internal/platform/apperr"
	"github.com/minhngvn/novira/internal/platform/database/schema"
	"github.com/minhngvn/novira/internal/platform/dberr"
	"github.com/minhngvn/novira/internal/users/auth"
	"github.com/minhngvn/novira/pkg/listing"
)

// PostgresRelationRepository implements [RelationRepository] using pgx.
//
// Edge uniqueness lives in the primary keys of users.follow and
// core.favourite; inserts use ON CONFLICT DO NOTHING and report creation
// through the affected row count, so two concurrent toggles can never
// produce a duplicate edge.
type PostgresRelationRepository struct {
	pool *pgxpool.Pool
}

// NewRelationRepository constructs a PostgreSQL backed social graph store.
func NewRelationRepository(pool *pgxpool.Pool) *PostgresRelationRepository {
	return &PostgresRelationRepository{pool: pool}
}

// # Follow Edges

/*
InsertFollow creates a follower→following edge if absent.

Parameters:
  - context: context.Context
  - followerID: string (UUID)
  - followingID: string (UUID)

Returns:
  - bool: true when a new edge was created, false when it already existed
  - error: apperr.NotFound when the followed user does not exist
*/
func (repository *PostgresRelationRepository) InsertFollow(context context.Context, followerID, followingID string) (bool, error) {
	const query = `
		INSERT INTO users.follow (followerid, followingid, createdat)
		VALUES ($1, $2, NOW())
		ON CONFLICT DO NOTHING`

	tag, err := repository.pool.Exec(context, query, followerID, followingID)
	if err != nil {
		if dberr.IsForeignKeyViolation(err) {
			return false, apperr.NotFound("User")
		}
		return false, fmt.Errorf("postgres_relation_repo_insert_follow_failed: %w", err)
	}

	return tag.RowsAffected() > 0, nil
}

/*
DeleteFollow removes a follower→following edge if present.

Returns:
  - bool: true when an edge was removed
  - error: Execution errors
*/
func (repository *PostgresRelationRepository) DeleteFollow(context context.Context, followerID, followingID string) (bool, error) {
	const query = "DELETE FROM users.follow WHERE followerid = $1 AND followingid = $2"

	tag, err := repository.pool.Exec(context, query, followerID, followingID)
	if err != nil {
		return false, fmt.Errorf("postgres_relation_repo_delete_follow_failed: %w", err)
	}

	return tag.RowsAffected() > 0, nil
}

/*
ListFollowers returns a page of the accounts following a user.

Description: Joins the edge table against live accounts, newest follower
first with the account ID as tie-break. Search filters over username and
display name with an escaped ILIKE pattern; COUNT(*) OVER() carries the
total without a second round-trip.

Returns:
  - []*auth.User: The page of follower accounts
  - int: Total followers matching before windowing
  - error: Execution failures
*/
func (repository *PostgresRelationRepository) ListFollowers(context context.Context, userID string, params listing.Params) ([]*auth.User, int, error) {
	return repository.listFollowEdges(context, userID, params, schema.UserFollow.FollowingID, schema.UserFollow.FollowerID)
}

/*
ListFollowing returns a page of the accounts a user follows.

Description: Symmetric to [ListFollowers] with the edge direction reversed.

Returns:
  - []*auth.User: The page of followed accounts
  - int: Total matches before windowing
  - error: Execution failures
*/
func (repository *PostgresRelationRepository) ListFollowing(context context.Context, userID string, params listing.Params) ([]*auth.User, int, error) {
	return repository.listFollowEdges(context, userID, params, schema.UserFollow.FollowerID, schema.UserFollow.FollowingID)
}

// listFollowEdges runs the shared follower/following query. anchorColumn is
// matched against userID and joinColumn resolves the account on the other
// end of the edge. Both are trusted schema constants.
func (repository *PostgresRelationRepository) listFollowEdges(context context.Context, userID string, params listing.Params, anchorColumn, joinColumn string) ([]*auth.User, int, error) {
	var queryBuilder strings.Builder
	args := []any{userID}
	argID := 2

	queryBuilder.WriteString(fmt.Sprintf(`
		SELECT a.%s, a.%s, a.%s, a.%s, a.%s, a.%s, a.%s, a.%s,
			COUNT(*) OVER() AS total_count
		FROM %s f
		JOIN %s a ON a.%s = f.%s
		WHERE f.%s = $1 AND a.%s IS NULL`,
		schema.UserAccount.ID,
		schema.UserAccount.Username,
		schema.UserAccount.DisplayName,
		schema.UserAccount.AvatarRef,
		schema.UserAccount.Bio,
		schema.UserAccount.Website,
		schema.UserAccount.CreatedAt,
		schema.UserFollow.CreatedAt,
		schema.UserFollow.Table,
		schema.UserAccount.Table, schema.UserAccount.ID, joinColumn,
		anchorColumn,
		schema.UserAccount.DeletedAt,
	))

	if params.Search != "" {
		queryBuilder.WriteString(fmt.Sprintf(" AND (a.%s ILIKE $%d OR a.%s ILIKE $%d)",
			schema.UserAccount.Username, argID,
			schema.UserAccount.DisplayName, argID,
		))
		args = append(args, listing.ContainsPattern(params.Search))
		argID++
	}

	// Newest edge first; account ID keeps the order total.
	queryBuilder.WriteString(fmt.Sprintf(" ORDER BY f.%s DESC, a.%s DESC",
		schema.UserFollow.CreatedAt, schema.UserAccount.ID))

	if limit, offset, bounded := params.Window(); bounded {
		queryBuilder.WriteString(fmt.Sprintf(" LIMIT $%d OFFSET $%d", argID, argID+1))
		args = append(args, limit, offset)
	}

	rows, err := repository.pool.Query(context, queryBuilder.String(), args...)
	if err != nil {
		return nil, 0, fmt.Errorf("postgres_relation_repo_list_follow_failed: %w", err)
	}
	defer rows.Close()

	return scanFollowAccounts(rows)
}

// # Favourite Edges

/*
InsertFavourite creates a user→novel edge if absent.

Description: The edge insert and the favourite counter bump run in one
transaction; the counter only moves when a new edge was actually created,
so repeated toggles never skew the metric.

Returns:
  - bool: true when a new edge was created, false when it already existed
  - error: apperr.NotFound when the novel does not exist
*/
func (repository *PostgresRelationRepository) InsertFavourite(context context.Context, userID, novelID string) (bool, error) {
	transaction, err := repository.pool.Begin(context)
	if err != nil {
		return false, fmt.Errorf("postgres_relation_repo_begin_failed: %w", err)
	}
	defer transaction.Rollback(context)

	const insertQuery = `
		INSERT INTO core.favourite (userid, novelid, createdat)
		VALUES ($1, $2, NOW())
		ON CONFLICT DO NOTHING`

	tag, err := transaction.Exec(context, insertQuery, userID, novelID)
	if err != nil {
		if dberr.IsForeignKeyViolation(err) {
			return false, apperr.NotFound("Novel")
		}
		return false, fmt.Errorf("postgres_relation_repo_insert_favourite_failed: %w", err)
	}

	created := tag.RowsAffected() > 0
	if created {
		const countQuery = "UPDATE core.novel SET favouritecount = favouritecount + 1 WHERE id = $1"
		if _, err := transaction.Exec(context, countQuery, novelID); err != nil {
			return false, fmt.Errorf("postgres_relation_repo_favourite_count_failed: %w", err)
		}
	}

	if err := transaction.Commit(context); err != nil {
		return false, fmt.Errorf("postgres_relation_repo_commit_failed: %w", err)
	}

	return created, nil
}

/*
DeleteFavourite removes a user→novel edge if present, decrementing the
novel's favourite counter in the same transaction.

Returns:
  - bool: true when an edge was removed
  - error: Execution errors
*/
func (repository *PostgresRelationRepository) DeleteFavourite(context context.Context, userID, novelID string) (bool, error) {
	transaction, err := repository.pool.Begin(context)
	if err != nil {
		return false, fmt.Errorf("postgres_relation_repo_begin_failed: %w", err)
	}
	defer transaction.Rollback(context)

	const deleteQuery = "DELETE FROM core.favourite WHERE userid = $1 AND novelid = $2"

	tag, err := transaction.Exec(context, deleteQuery, userID, novelID)
	if err != nil {
		return false, fmt.Errorf("postgres_relation_repo_delete_favourite_failed: %w", err)
	}

	removed := tag.RowsAffected() > 0
	if removed {
		const countQuery = "UPDATE core.novel SET favouritecount = GREATEST(favouritecount - 1, 0) WHERE id = $1"
		if _, err := transaction.Exec(context, countQuery, novelID); err != nil {
			return false, fmt.Errorf("postgres_relation_repo_favourite_count_failed: %w", err)
		}
	}

	if err := transaction.Commit(context); err != nil {
		return false, fmt.Errorf("postgres_relation_repo_commit_failed: %w", err)
	}

	return removed, nil
}

/*
ListFavourites returns a page of the novels a user has favourited.

Description: Joins the edge table against the novel library, newest
favourite first with the novel ID as tie-break. Search filters over title
and description with an escaped ILIKE pattern.

Returns:
  - []*novel.Novel: The page of favourited novels
  - int: Total favourites matching before windowing
  - error: Execution failures
*/
func (repository *PostgresRelationRepository) ListFavourites(context context.Context, userID string, params listing.Params) ([]*novel.Novel, int, error) {
	var queryBuilder strings.Builder
	args := []any{userID}
	argID := 2

	queryBuilder.WriteString(fmt.Sprintf(`
		SELECT n.%s, n.%s, n.%s, n.%s, n.%s, n.%s, n.%s, n.%s, n.%s, n.%s, n.%s,
			COUNT(*) OVER() AS total_count
		FROM %s fav
		JOIN %s n ON n.%s = fav.%s
		WHERE fav.%s = $1`,
		schema.CoreNovel.ID,
		schema.CoreNovel.OwnerID,
		schema.CoreNovel.Title,
		schema.CoreNovel.Slug,
		schema.CoreNovel.Status,
		schema.CoreNovel.Description,
		schema.CoreNovel.CoverRef,
		schema.CoreNovel.ViewCount,
		schema.CoreNovel.FavouriteCount,
		schema.CoreNovel.CreatedAt,
		schema.CoreNovel.UpdatedAt,
		schema.CoreFavourite.Table,
		schema.CoreNovel.Table, schema.CoreNovel.ID, schema.CoreFavourite.NovelID,
		schema.CoreFavourite.UserID,
	))

	if params.Search != "" {
		queryBuilder.WriteString(fmt.Sprintf(" AND (n.%s ILIKE $%d OR n.%s ILIKE $%d)",
			schema.CoreNovel.Title, argID,
			schema.CoreNovel.Description, argID,
		))
		args = append(args, listing.ContainsPattern(params.Search))
		argID++
	}

	// Newest favourite first; novel ID keeps the order total.
	queryBuilder.WriteString(fmt.Sprintf(" ORDER BY fav.%s DESC, n.%s DESC",
		schema.CoreFavourite.CreatedAt, schema.CoreNovel.ID))

	if limit, offset, bounded := params.Window(); bounded {
		queryBuilder.WriteString(fmt.Sprintf(" LIMIT $%d OFFSET $%d", argID, argID+1))
		args = append(args, limit, offset)
	}

	rows, err := repository.pool.Query(context, queryBuilder.String(), args...)
	if err != nil {
		return nil, 0, fmt.Errorf("postgres_relation_repo_list_favourites_failed: %w", err)
	}
	defer rows.Close()

	var novels []*novel.Novel
	var totalCount int

	for rows.Next() {
		item := &novel.Novel{}
		err := rows.Scan(
			&item.ID,
			&item.OwnerID,
			&item.Title,
			&item.Slug,
			&item.Status,
			&item.Description,
			&item.CoverRef,
			&item.ViewCount,
			&item.FavouriteCount,
			&item.CreatedAt,
			&item.UpdatedAt,
			&totalCount,
		)
		if err != nil {
			return nil, 0, fmt.Errorf("postgres_relation_repo_scan_failed: %w", err)
		}
		novels = append(novels, item)
	}

	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("postgres_relation_repo_rows_failed: %w", err)
	}

	return novels, totalCount, nil
}

// scanFollowAccounts hydrates the shared follower/following projection.
// The edge timestamp is scanned and discarded; it only drives ordering.
func scanFollowAccounts(rows pgx.Rows) ([]*auth.User, int, error) {
	var users []*auth.User
	var totalCount int

	for rows.Next() {
		user := &auth.User{}
		var edgeCreatedAt any
		err := rows.Scan(
			&user.ID,
			&user.Username,
			&user.DisplayName,
			&user.AvatarRef,
			&user.Bio,
			&user.Website,
			&user.CreatedAt,
			&edgeCreatedAt,
			&totalCount,
		)
		if err != nil {
			return nil, 0, fmt.Errorf("postgres_relation_repo_scan_failed: %w", err)
		}
		users = append(users, user)
	}

	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("postgres_relation_repo_rows_failed: %w", err)
	}

	return users, totalCount, nil
}
