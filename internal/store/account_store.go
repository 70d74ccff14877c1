/**
 * @description
 * This file implements the polymorphic account operations of the `Repository`
 * interface. Callers address accounts by an integer model code (institution,
 * personal, institution user); each code is bound to a handler that knows the
 * target table and which payload fields apply to it. Unknown codes fail with
 * ErrUnknownAccountModel instead of being routed to a default table.
 */

package store

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/paydesk/deposit-service/internal/domain"
)

// accountHandler is the per-model capability set behind the polymorphic
// account operations.
type accountHandler struct {
	find   func(ctx context.Context, db *pgxpool.Pool, id uuid.UUID) (any, error)
	update func(ctx context.Context, db *pgxpool.Pool, id uuid.UUID, payload domain.UpdateAccountPayload) (any, error)
	table  string
}

var accountHandlers = map[domain.AccountModel]accountHandler{
	domain.AccountModelInstitution: {
		find:   findInstitutionAccount,
		update: updateInstitutionAccount,
		table:  "institutions",
	},
	domain.AccountModelPersonal: {
		find:   findPersonalAccount,
		update: updatePersonalAccount,
		table:  "personals",
	},
	domain.AccountModelInstitutionUser: {
		find:   findInstitutionUserAccount,
		update: updateInstitutionUserAccount,
		table:  "institution_users",
	},
}

// FindAccount retrieves one account from the collection named by the model
// code.
func (r *PostgresRepository) FindAccount(ctx context.Context, model domain.AccountModel, id uuid.UUID) (any, error) {
	handler, ok := accountHandlers[model]
	if !ok {
		return nil, ErrUnknownAccountModel
	}
	return handler.find(ctx, r.db, id)
}

// UpdateAccount merges the applicable payload fields into the addressed
// account and returns the updated record.
func (r *PostgresRepository) UpdateAccount(ctx context.Context, model domain.AccountModel, id uuid.UUID, payload domain.UpdateAccountPayload) (any, error) {
	handler, ok := accountHandlers[model]
	if !ok {
		return nil, ErrUnknownAccountModel
	}
	return handler.update(ctx, r.db, id, payload)
}

// DeleteAccount removes the addressed account and reports whether a row was
// deleted.
func (r *PostgresRepository) DeleteAccount(ctx context.Context, model domain.AccountModel, id uuid.UUID) (bool, error) {
	handler, ok := accountHandlers[model]
	if !ok {
		return false, ErrUnknownAccountModel
	}
	tag, err := r.db.Exec(ctx, fmt.Sprintf("DELETE FROM %s WHERE id = $1", handler.table), id)
	if err != nil {
		return false, err
	}
	return tag.RowsAffected() > 0, nil
}

func findInstitutionAccount(ctx context.Context, db *pgxpool.Pool, id uuid.UUID) (any, error) {
	var institution domain.Institution
	err := db.QueryRow(ctx,
		"SELECT id, user_id, name, created_at, updated_at FROM institutions WHERE id = $1", id,
	).Scan(&institution.ID, &institution.UserID, &institution.Name, &institution.CreatedAt, &institution.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrAccountNotFound
		}
		return nil, err
	}
	return &institution, nil
}

func findPersonalAccount(ctx context.Context, db *pgxpool.Pool, id uuid.UUID) (any, error) {
	var personal domain.Personal
	err := db.QueryRow(ctx,
		"SELECT id, user_id, name, type, personal_holder_id, created_at, updated_at FROM personals WHERE id = $1", id,
	).Scan(&personal.ID, &personal.UserID, &personal.Name, &personal.Type,
		&personal.PersonalHolderID, &personal.CreatedAt, &personal.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrAccountNotFound
		}
		return nil, err
	}
	return &personal, nil
}

func findInstitutionUserAccount(ctx context.Context, db *pgxpool.Pool, id uuid.UUID) (any, error) {
	var user domain.InstitutionUser
	err := db.QueryRow(ctx,
		"SELECT id, username, institution_id, type, is_blocked, created_at, updated_at FROM institution_users WHERE id = $1", id,
	).Scan(&user.ID, &user.Username, &user.InstitutionID, &user.Type,
		&user.IsBlocked, &user.CreatedAt, &user.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrAccountNotFound
		}
		return nil, err
	}
	return &user, nil
}

// accountSetClause builds the SET fragment for an account update from the
// subset of payload fields valid for the model's columns.
func accountSetClause(columns map[string]any) (string, []any) {
	var sets []string
	var args []any
	for column, value := range columns {
		args = append(args, value)
		sets = append(sets, fmt.Sprintf("%s = $%d", column, len(args)))
	}
	return strings.Join(sets, ", "), args
}

func updateInstitutionAccount(ctx context.Context, db *pgxpool.Pool, id uuid.UUID, payload domain.UpdateAccountPayload) (any, error) {
	columns := map[string]any{}
	if payload.Name != nil {
		columns["name"] = *payload.Name
	}
	if len(columns) == 0 {
		return findInstitutionAccount(ctx, db, id)
	}

	clause, args := accountSetClause(columns)
	args = append(args, id)
	query := fmt.Sprintf(
		"UPDATE institutions SET %s, updated_at = NOW() WHERE id = $%d RETURNING id, user_id, name, created_at, updated_at",
		clause, len(args),
	)

	var institution domain.Institution
	err := db.QueryRow(ctx, query, args...).Scan(
		&institution.ID, &institution.UserID, &institution.Name, &institution.CreatedAt, &institution.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrAccountNotFound
		}
		return nil, err
	}
	return &institution, nil
}

func updatePersonalAccount(ctx context.Context, db *pgxpool.Pool, id uuid.UUID, payload domain.UpdateAccountPayload) (any, error) {
	columns := map[string]any{}
	if payload.Name != nil {
		columns["name"] = *payload.Name
	}
	if payload.PersonalHolderID != nil {
		columns["personal_holder_id"] = *payload.PersonalHolderID
	}
	if len(columns) == 0 {
		return findPersonalAccount(ctx, db, id)
	}

	clause, args := accountSetClause(columns)
	args = append(args, id)
	query := fmt.Sprintf(
		"UPDATE personals SET %s, updated_at = NOW() WHERE id = $%d RETURNING id, user_id, name, type, personal_holder_id, created_at, updated_at",
		clause, len(args),
	)

	var personal domain.Personal
	err := db.QueryRow(ctx, query, args...).Scan(
		&personal.ID, &personal.UserID, &personal.Name, &personal.Type,
		&personal.PersonalHolderID, &personal.CreatedAt, &personal.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrAccountNotFound
		}
		return nil, err
	}
	return &personal, nil
}

func updateInstitutionUserAccount(ctx context.Context, db *pgxpool.Pool, id uuid.UUID, payload domain.UpdateAccountPayload) (any, error) {
	columns := map[string]any{}
	if payload.Username != nil {
		columns["username"] = *payload.Username
	}
	if payload.IsBlocked != nil {
		columns["is_blocked"] = *payload.IsBlocked
	}
	if len(columns) == 0 {
		return findInstitutionUserAccount(ctx, db, id)
	}

	clause, args := accountSetClause(columns)
	args = append(args, id)
	query := fmt.Sprintf(
		"UPDATE institution_users SET %s, updated_at = NOW() WHERE id = $%d RETURNING id, username, institution_id, type, is_blocked, created_at, updated_at",
		clause, len(args),
	)

	var user domain.InstitutionUser
	err := db.QueryRow(ctx, query, args...).Scan(
		&user.ID, &user.Username, &user.InstitutionID, &user.Type,
		&user.IsBlocked, &user.CreatedAt, &user.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrAccountNotFound
		}
		return nil, err
	}
	return &user, nil
}
