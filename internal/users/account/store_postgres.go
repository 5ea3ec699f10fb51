// Copyright (c) 2026 Novira. All rights reserved.
// Author: minh.ngvn.dev@gmail.com

package account

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
	"github.com/minhngvn/novira/internal/users/auth"
	"github.com/minhngvn/novira/pkg/listing"
)

// PostgresAccountRepository implements [AccountRepository] using pgx.
type PostgresAccountRepository struct {
	pool *pgxpool.Pool
}

// NewAccountRepository constructs a PostgreSQL backed account store.
func NewAccountRepository(pool *pgxpool.Pool) *PostgresAccountRepository {
	return &PostgresAccountRepository{pool: pool}
}

/*
FindByID retrieves a user account by its primary key.

Parameters:
  - context: context.Context
  - id: string (UUID)

Returns:
  - *auth.User: Hydrated account entity
  - error: apperr.NotFound or execution errors
*/
func (repository *PostgresAccountRepository) FindByID(context context.Context, id string) (*auth.User, error) {
	const query = `
		SELECT id, username, email, passwordhash, displayname, avatarref, bio, website, role, isverified, createdat, updatedat
		FROM users.account
		WHERE id = $1 AND deletedat IS NULL`

	user, err := scanAccount(repository.pool.QueryRow(context, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperr.NotFound("User")
		}
		return nil, fmt.Errorf("postgres_account_repo_find_by_id_failed: %w", err)
	}

	return user, nil
}

/*
FindByUsername retrieves a user account by username, case-insensitively.

Parameters:
  - context: context.Context
  - username: string

Returns:
  - *auth.User: Hydrated account entity
  - error: apperr.NotFound or execution errors
*/
func (repository *PostgresAccountRepository) FindByUsername(context context.Context, username string) (*auth.User, error) {
	const query = `
		SELECT id, username, email, passwordhash, displayname, avatarref, bio, website, role, isverified, createdat, updatedat
		FROM users.account
		WHERE lower(username) = lower($1) AND deletedat IS NULL`

	user, err := scanAccount(repository.pool.QueryRow(context, query, username))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperr.NotFound("User")
		}
		return nil, fmt.Errorf("postgres_account_repo_find_by_username_failed: %w", err)
	}

	return user, nil
}

/*
Update persists changes to a user's mutable profile fields, including the
avatar asset reference.

Parameters:
  - context: context.Context
  - user: *auth.User

Returns:
  - error: apperr.Conflict on a duplicate username, or update failures
*/
func (repository *PostgresAccountRepository) Update(context context.Context, user *auth.User) error {
	const query = `
		UPDATE users.account
		SET displayname = $2, avatarref = $3, bio = $4, website = $5, updatedat = $6
		WHERE id = $1 AND deletedat IS NULL`

	user.UpdatedAt = time.Now()
	tag, err := repository.pool.Exec(context, query,
		user.ID,
		user.DisplayName,
		user.AvatarRef,
		user.Bio,
		user.Website,
		user.UpdatedAt,
	)

	if err != nil {
		return dberr.Wrap(err, "User")
	}
	if tag.RowsAffected() == 0 {
		return apperr.NotFound("User")
	}

	return nil
}

/*
SoftDelete marks a user account as deleted using their ID.

Description: Retention-friendly deletion by setting deletedat.

Parameters:
  - context: context.Context
  - id: string

Returns:
  - error: Execution failures
*/
func (repository *PostgresAccountRepository) SoftDelete(context context.Context, id string) error {
	const query = "UPDATE users.account SET deletedat = $2 WHERE id = $1 AND deletedat IS NULL"
	_, err := repository.pool.Exec(context, query, id, time.Now())
	if err != nil {
		return fmt.Errorf("postgres_account_repo_soft_delete_failed: %w", err)
	}
	return nil
}

/*
List returns a window of the member directory plus the total match count.

Description: Uses COUNT(*) OVER() to retrieve the total without a second
round-trip. Search text becomes an escaped ILIKE pattern against both
username and display name, so LIKE metacharacters in user input match
literally. The ORDER BY clause is built exclusively from the [UserSort]
allow-list with the primary key as tie-break, and the LIMIT/OFFSET pair is
omitted entirely when the query is unbounded.

Parameters:
  - context: context.Context
  - params: listing.Params

Returns:
  - []*auth.User: Matching accounts in requested order
  - int: Total matches before windowing
  - error: Execution failures
*/
func (repository *PostgresAccountRepository) List(context context.Context, params listing.Params) ([]*auth.User, int, error) {
	var queryBuilder strings.Builder
	var args []any
	argID := 1

	queryBuilder.WriteString(fmt.Sprintf(`
		SELECT %s, %s, %s, %s, %s, %s, %s, %s, %s, %s, %s, %s,
			COUNT(*) OVER() AS total_count
		FROM %s
		WHERE %s IS NULL`,
		schema.UserAccount.ID,
		schema.UserAccount.Username,
		schema.UserAccount.Email,
		schema.UserAccount.Password,
		schema.UserAccount.DisplayName,
		schema.UserAccount.AvatarRef,
		schema.UserAccount.Bio,
		schema.UserAccount.Website,
		schema.UserAccount.Role,
		schema.UserAccount.IsVerified,
		schema.UserAccount.CreatedAt,
		schema.UserAccount.UpdatedAt,
		schema.UserAccount.Table,
		schema.UserAccount.DeletedAt,
	))

	// Free-text filter over the two human-readable identity columns.
	if params.Search != "" {
		queryBuilder.WriteString(fmt.Sprintf(" AND (%s ILIKE $%d OR %s ILIKE $%d)",
			schema.UserAccount.Username, argID,
			schema.UserAccount.DisplayName, argID,
		))
		args = append(args, listing.ContainsPattern(params.Search))
		argID++
	}

	// Allow-listed sorting with a deterministic tie-break.
	queryBuilder.WriteString(" " + params.OrderBySQL(UserSort))

	// Windowing, unless this is an unbounded export.
	if limit, offset, bounded := params.Window(); bounded {
		queryBuilder.WriteString(fmt.Sprintf(" LIMIT $%d OFFSET $%d", argID, argID+1))
		args = append(args, limit, offset)
	}

	rows, err := repository.pool.Query(context, queryBuilder.String(), args...)
	if err != nil {
		return nil, 0, fmt.Errorf("postgres_account_repo_list_failed: %w", err)
	}
	defer rows.Close()

	var users []*auth.User
	var totalCount int

	for rows.Next() {
		user := &auth.User{}
		err := rows.Scan(
			&user.ID,
			&user.Username,
			&user.Email,
			&user.PasswordHash,
			&user.DisplayName,
			&user.AvatarRef,
			&user.Bio,
			&user.Website,
			&user.Role,
			&user.IsVerified,
			&user.CreatedAt,
			&user.UpdatedAt,
			&totalCount,
		)
		if err != nil {
			return nil, 0, fmt.Errorf("postgres_account_repo_scan_failed: %w", err)
		}
		users = append(users, user)
	}

	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("postgres_account_repo_rows_failed: %w", err)
	}

	return users, totalCount, nil
}

// scanAccount hydrates a full account row.
func scanAccount(row pgx.Row) (*auth.User, error) {
	user := &auth.User{}
	err := row.Scan(
		&user.ID,
		&user.Username,
		&user.Email,
		&user.PasswordHash,
		&user.DisplayName,
		&user.AvatarRef,
		&user.Bio,
		&user.Website,
		&user.Role,
		&user.IsVerified,
		&user.CreatedAt,
		&user.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return user, nil
}
