/**
 * @description
 * This file implements the payment-instrument side of the `Repository`
 * interface: payment method and payment method type CRUD, the tightest-fit
 * method selection used when assigning a deposit account, and the dealer
 * lookups backing the withdrawal-account flow.
 */

package store

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/paydesk/deposit-service/internal/domain"
)

const paymentMethodColumns = `id, user_id, type_id, name, iban, detail, payment_min_limit,
	payment_max_limit, total_limit, total_limit_left, currency, is_full,
	fast_transfer_status, bank_account_status, created_at, updated_at`

func scanPaymentMethod(row pgx.Row, m *domain.PaymentMethod) error {
	return row.Scan(
		&m.ID, &m.UserID, &m.TypeID, &m.Name, &m.IBAN, &m.Detail, &m.PaymentMinLimit,
		&m.PaymentMaxLimit, &m.TotalLimit, &m.TotalLimitLeft, &m.Currency, &m.IsFull,
		&m.FastTransferStatus, &m.BankAccountStatus, &m.CreatedAt, &m.UpdatedAt,
	)
}

const dealerColumns = `id, user_id, name, payment_range_min, payment_range_max,
	payment_method_type, classification, deposit_status, withdrawal_status,
	created_at, updated_at`

func scanDealer(row pgx.Row, d *domain.Dealer) error {
	return row.Scan(
		&d.ID, &d.UserID, &d.Name, &d.PaymentRangeMin, &d.PaymentRangeMax,
		&d.PaymentMethodType, &d.Classification, &d.DepositStatus, &d.WithdrawalStatus,
		&d.CreatedAt, &d.UpdatedAt,
	)
}

// FindTightestFitPaymentMethod selects the open payment method of the given
// type whose per-transaction range admits the amount and whose remaining limit
// covers it, preferring the method with the least remaining limit so nearly
// exhausted accounts drain first.
func (r *PostgresRepository) FindTightestFitPaymentMethod(ctx context.Context, amount float64, typeID uuid.UUID) (*domain.PaymentMethod, error) {
	query := "SELECT " + paymentMethodColumns + ` FROM payment_methods
		WHERE type_id = $1
		  AND is_full = FALSE
		  AND payment_min_limit <= $2
		  AND payment_max_limit >= $2
		  AND total_limit_left >= $2
		ORDER BY total_limit_left ASC
		LIMIT 1`

	var method domain.PaymentMethod
	if err := scanPaymentMethod(r.db.QueryRow(ctx, query, typeID, amount), &method); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrPaymentMethodNotFound
		}
		return nil, err
	}
	return &method, nil
}

// FindActiveWithdrawalDealer picks one dealer whose withdrawal availability is
// active. Ordering by name keeps the choice deterministic.
func (r *PostgresRepository) FindActiveWithdrawalDealer(ctx context.Context) (*domain.Dealer, error) {
	query := "SELECT " + dealerColumns + ` FROM dealers
		WHERE withdrawal_status = $1
		ORDER BY name ASC
		LIMIT 1`

	var dealer domain.Dealer
	if err := scanDealer(r.db.QueryRow(ctx, query, int(domain.StateActive)), &dealer); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNoWithdrawalDealerAvailable
		}
		return nil, err
	}
	return &dealer, nil
}

// FindFirstPaymentMethodByUserID returns the oldest payment method registered
// under the given owning user.
func (r *PostgresRepository) FindFirstPaymentMethodByUserID(ctx context.Context, userID uuid.UUID) (*domain.PaymentMethod, error) {
	query := "SELECT " + paymentMethodColumns + ` FROM payment_methods
		WHERE user_id = $1
		ORDER BY created_at ASC
		LIMIT 1`

	var method domain.PaymentMethod
	if err := scanPaymentMethod(r.db.QueryRow(ctx, query, userID), &method); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrPaymentMethodNotFound
		}
		return nil, err
	}
	return &method, nil
}

// FindDealerByUserID resolves a dealer by its owning user id.
func (r *PostgresRepository) FindDealerByUserID(ctx context.Context, userID uuid.UUID) (*domain.Dealer, error) {
	query := "SELECT " + dealerColumns + " FROM dealers WHERE user_id = $1"

	var dealer domain.Dealer
	if err := scanDealer(r.db.QueryRow(ctx, query, userID), &dealer); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrDealerNotFound
		}
		return nil, err
	}
	return &dealer, nil
}

// CreatePaymentMethod inserts a new payment method. The remaining limit is
// expected to be initialized to the total limit by the caller.
func (r *PostgresRepository) CreatePaymentMethod(ctx context.Context, method *domain.PaymentMethod) error {
	query := `
		INSERT INTO payment_methods (id, user_id, type_id, name, iban, detail,
			payment_min_limit, payment_max_limit, total_limit, total_limit_left,
			currency, is_full, fast_transfer_status, bank_account_status)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14)
		RETURNING created_at, updated_at
	`
	return r.db.QueryRow(ctx, query,
		method.ID, method.UserID, method.TypeID, method.Name, method.IBAN, method.Detail,
		method.PaymentMinLimit, method.PaymentMaxLimit, method.TotalLimit, method.TotalLimitLeft,
		method.Currency, method.IsFull, method.FastTransferStatus, method.BankAccountStatus,
	).Scan(&method.CreatedAt, &method.UpdatedAt)
}

// FindPaymentMethodByID retrieves one payment method by id.
func (r *PostgresRepository) FindPaymentMethodByID(ctx context.Context, id uuid.UUID) (*domain.PaymentMethod, error) {
	query := "SELECT " + paymentMethodColumns + " FROM payment_methods WHERE id = $1"

	var method domain.PaymentMethod
	if err := scanPaymentMethod(r.db.QueryRow(ctx, query, id), &method); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrPaymentMethodNotFound
		}
		return nil, err
	}
	return &method, nil
}

// ListPaymentMethods pages through payment methods, optionally restricted to a
// single owning user.
func (r *PostgresRepository) ListPaymentMethods(ctx context.Context, ownerID *uuid.UUID, opts domain.ListOptions) (domain.Page[domain.PaymentMethod], error) {
	page := domain.Page[domain.PaymentMethod]{Limit: opts.Limit, Page: opts.Page}
	if page.Limit <= 0 {
		page.Limit = 10
	}
	if page.Page <= 0 {
		page.Page = 1
	}

	var where string
	var args []any
	if ownerID != nil {
		where = "WHERE user_id = $1"
		args = append(args, *ownerID)
	}

	if err := r.db.QueryRow(ctx, "SELECT COUNT(*) FROM payment_methods "+where, args...).Scan(&page.TotalDocs); err != nil {
		return page, err
	}
	page.TotalPages = (page.TotalDocs + int64(page.Limit) - 1) / int64(page.Limit)

	query := fmt.Sprintf(
		"SELECT %s FROM payment_methods %s ORDER BY created_at DESC LIMIT $%d OFFSET $%d",
		paymentMethodColumns, where, len(args)+1, len(args)+2,
	)
	args = append(args, page.Limit, (page.Page-1)*page.Limit)

	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return page, err
	}
	defer rows.Close()

	for rows.Next() {
		var method domain.PaymentMethod
		if err := scanPaymentMethod(rows, &method); err != nil {
			return page, err
		}
		page.Docs = append(page.Docs, method)
	}
	return page, rows.Err()
}

// UpdatePaymentMethod merges the provided fields into the stored method. When
// the payload asks for a limit reset, the remaining limit is restored to the
// (possibly just-updated) total limit and the full flag cleared, in the same
// statement.
func (r *PostgresRepository) UpdatePaymentMethod(ctx context.Context, id uuid.UUID, payload domain.UpdatePaymentMethodPayload) (*domain.PaymentMethod, error) {
	var sets []string
	var args []any

	set := func(column string, value any) {
		args = append(args, value)
		sets = append(sets, fmt.Sprintf("%s = $%d", column, len(args)))
	}

	if payload.Name != nil {
		set("name", *payload.Name)
	}
	if payload.IBAN != nil {
		set("iban", *payload.IBAN)
	}
	if payload.Detail != nil {
		set("detail", *payload.Detail)
	}
	if payload.PaymentMinLimit != nil {
		set("payment_min_limit", *payload.PaymentMinLimit)
	}
	if payload.PaymentMaxLimit != nil {
		set("payment_max_limit", *payload.PaymentMaxLimit)
	}
	if payload.TotalLimit != nil {
		set("total_limit", *payload.TotalLimit)
	}
	if payload.Currency != nil {
		set("currency", *payload.Currency)
	}
	if payload.FastTransferStatus != nil {
		set("fast_transfer_status", *payload.FastTransferStatus)
	}
	if payload.BankAccountStatus != nil {
		set("bank_account_status", *payload.BankAccountStatus)
	}
	if payload.IsAccountLimitReset {
		sets = append(sets, "total_limit_left = total_limit", "is_full = FALSE")
	}

	if len(sets) == 0 {
		return r.FindPaymentMethodByID(ctx, id)
	}

	args = append(args, id)
	query := fmt.Sprintf(
		"UPDATE payment_methods SET %s, updated_at = NOW() WHERE id = $%d RETURNING "+paymentMethodColumns,
		strings.Join(sets, ", "), len(args),
	)

	var method domain.PaymentMethod
	if err := scanPaymentMethod(r.db.QueryRow(ctx, query, args...), &method); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrPaymentMethodNotFound
		}
		return nil, err
	}
	return &method, nil
}

// DeletePaymentMethod removes a payment method and reports whether a row was
// deleted.
func (r *PostgresRepository) DeletePaymentMethod(ctx context.Context, id uuid.UUID) (bool, error) {
	tag, err := r.db.Exec(ctx, "DELETE FROM payment_methods WHERE id = $1", id)
	if err != nil {
		return false, err
	}
	return tag.RowsAffected() > 0, nil
}

const paymentMethodTypeColumns = "id, name, description, status, is_parent, created_at, updated_at"

func scanPaymentMethodType(row pgx.Row, t *domain.PaymentMethodType) error {
	return row.Scan(&t.ID, &t.Name, &t.Description, &t.Status, &t.IsParent, &t.CreatedAt, &t.UpdatedAt)
}

// CreatePaymentMethodType inserts a new payment method type.
func (r *PostgresRepository) CreatePaymentMethodType(ctx context.Context, methodType *domain.PaymentMethodType) error {
	query := `
		INSERT INTO payment_method_types (id, name, description, status, is_parent)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING created_at, updated_at
	`
	return r.db.QueryRow(ctx, query,
		methodType.ID, methodType.Name, methodType.Description, methodType.Status, methodType.IsParent,
	).Scan(&methodType.CreatedAt, &methodType.UpdatedAt)
}

// FindPaymentMethodTypeByID retrieves one payment method type by id.
func (r *PostgresRepository) FindPaymentMethodTypeByID(ctx context.Context, id uuid.UUID) (*domain.PaymentMethodType, error) {
	query := "SELECT " + paymentMethodTypeColumns + " FROM payment_method_types WHERE id = $1"

	var methodType domain.PaymentMethodType
	if err := scanPaymentMethodType(r.db.QueryRow(ctx, query, id), &methodType); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrPaymentMethodTypeNotFound
		}
		return nil, err
	}
	return &methodType, nil
}

// ListPaymentMethodTypes pages through payment method types.
func (r *PostgresRepository) ListPaymentMethodTypes(ctx context.Context, opts domain.ListOptions) (domain.Page[domain.PaymentMethodType], error) {
	page := domain.Page[domain.PaymentMethodType]{Limit: opts.Limit, Page: opts.Page}
	if page.Limit <= 0 {
		page.Limit = 10
	}
	if page.Page <= 0 {
		page.Page = 1
	}

	if err := r.db.QueryRow(ctx, "SELECT COUNT(*) FROM payment_method_types").Scan(&page.TotalDocs); err != nil {
		return page, err
	}
	page.TotalPages = (page.TotalDocs + int64(page.Limit) - 1) / int64(page.Limit)

	query := "SELECT " + paymentMethodTypeColumns + ` FROM payment_method_types
		ORDER BY created_at DESC
		LIMIT $1 OFFSET $2`

	rows, err := r.db.Query(ctx, query, page.Limit, (page.Page-1)*page.Limit)
	if err != nil {
		return page, err
	}
	defer rows.Close()

	for rows.Next() {
		var methodType domain.PaymentMethodType
		if err := scanPaymentMethodType(rows, &methodType); err != nil {
			return page, err
		}
		page.Docs = append(page.Docs, methodType)
	}
	return page, rows.Err()
}

// DeletePaymentMethodType removes a payment method type and reports whether a
// row was deleted.
func (r *PostgresRepository) DeletePaymentMethodType(ctx context.Context, id uuid.UUID) (bool, error) {
	tag, err := r.db.Exec(ctx, "DELETE FROM payment_method_types WHERE id = $1", id)
	if err != nil {
		return false, err
	}
	return tag.RowsAffected() > 0, nil
}

// FindPersonalByID retrieves one personal account by id.
func (r *PostgresRepository) FindPersonalByID(ctx context.Context, id uuid.UUID) (*domain.Personal, error) {
	query := `SELECT id, user_id, name, type, personal_holder_id, created_at, updated_at
		FROM personals WHERE id = $1`

	var personal domain.Personal
	err := r.db.QueryRow(ctx, query, id).Scan(
		&personal.ID, &personal.UserID, &personal.Name, &personal.Type,
		&personal.PersonalHolderID, &personal.CreatedAt, &personal.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrPersonalNotFound
		}
		return nil, err
	}
	return &personal, nil
}

// FindDealerByID retrieves one dealer by id.
func (r *PostgresRepository) FindDealerByID(ctx context.Context, id uuid.UUID) (*domain.Dealer, error) {
	query := "SELECT " + dealerColumns + " FROM dealers WHERE id = $1"

	var dealer domain.Dealer
	if err := scanDealer(r.db.QueryRow(ctx, query, id), &dealer); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrDealerNotFound
		}
		return nil, err
	}
	return &dealer, nil
}

// FindInstitutionByID retrieves one institution by id.
func (r *PostgresRepository) FindInstitutionByID(ctx context.Context, id uuid.UUID) (*domain.Institution, error) {
	query := `SELECT id, user_id, name, created_at, updated_at FROM institutions WHERE id = $1`

	var institution domain.Institution
	err := r.db.QueryRow(ctx, query, id).Scan(
		&institution.ID, &institution.UserID, &institution.Name,
		&institution.CreatedAt, &institution.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrInstitutionNotFound
		}
		return nil, err
	}
	return &institution, nil
}
