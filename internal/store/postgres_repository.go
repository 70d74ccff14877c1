/**
 * @description
 * This file provides the PostgreSQL implementation of the `Repository`
 * interface for deposit records: creation with sequence-assigned transaction
 * numbers, the status/amount projection, the enriched paginated listing, and
 * updates/deletes.
 *
 * @dependencies
 * - context, errors, strings: Standard Go libraries.
 * - github.com/jackc/pgx/v5: The PostgreSQL driver for database operations.
 * - internal/domain: Contains the domain models used for data transfer.
 */

package store

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/paydesk/deposit-service/internal/domain"
)

// PostgresRepository is a concrete implementation of the Repository interface for PostgreSQL.
type PostgresRepository struct {
	db *pgxpool.Pool
}

// NewPostgresRepository creates a new instance of PostgresRepository.
func NewPostgresRepository(db *pgxpool.Pool) *PostgresRepository {
	return &PostgresRepository{db: db}
}

const depositColumns = `id, transaction_id, sender_id, service_provider_id, type_id, payment_method_id,
	institution_id, name, username, iban, amount, status, transaction_type,
	is_end_user_transaction, processed_by, created_at, updated_at`

func scanDeposit(row pgx.Row, d *domain.Deposit) error {
	return row.Scan(
		&d.ID, &d.TransactionID, &d.SenderID, &d.ServiceProviderID, &d.TypeID, &d.PaymentMethodID,
		&d.InstitutionID, &d.Name, &d.Username, &d.IBAN, &d.Amount, &d.Status, &d.TransactionType,
		&d.IsEndUserTransaction, &d.ProcessedBy, &d.CreatedAt, &d.UpdatedAt,
	)
}

// CreateDeposit inserts a deposit, drawing its transaction number from the
// deposit_transaction_seq sequence, and when applyLimit is set decrements the
// referenced payment method's remaining limit in the same database
// transaction. The decrement is a single conditional UPDATE guarded by
// total_limit_left >= amount, so two concurrent creates can never both consume
// the same remaining limit.
func (r *PostgresRepository) CreateDeposit(ctx context.Context, deposit *domain.Deposit, applyLimit bool) error {
	tx, err := r.db.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)

	insert := `
		INSERT INTO deposits (id, transaction_id, sender_id, service_provider_id, type_id,
			payment_method_id, institution_id, name, username, iban, amount, status,
			transaction_type, is_end_user_transaction, processed_by)
		VALUES ($1, nextval('deposit_transaction_seq'), $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14)
		RETURNING transaction_id, created_at, updated_at
	`
	err = tx.QueryRow(ctx, insert,
		deposit.ID, deposit.SenderID, deposit.ServiceProviderID, deposit.TypeID,
		deposit.PaymentMethodID, deposit.InstitutionID, deposit.Name, deposit.Username,
		deposit.IBAN, deposit.Amount, int(deposit.Status), int(deposit.TransactionType),
		deposit.IsEndUserTransaction, deposit.ProcessedBy,
	).Scan(&deposit.TransactionID, &deposit.CreatedAt, &deposit.UpdatedAt)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return ErrDuplicateTransactionSequence
		}
		return err
	}

	if applyLimit && deposit.PaymentMethodID != nil {
		tag, err := tx.Exec(ctx, `
			UPDATE payment_methods
			SET total_limit_left = total_limit_left - $2,
			    is_full = (total_limit_left - $2) < 1,
			    updated_at = NOW()
			WHERE id = $1 AND total_limit_left >= $2
		`, *deposit.PaymentMethodID, deposit.Amount)
		if err != nil {
			return err
		}
		if tag.RowsAffected() == 0 {
			var exists bool
			if err := tx.QueryRow(ctx,
				"SELECT EXISTS (SELECT 1 FROM payment_methods WHERE id = $1)",
				*deposit.PaymentMethodID,
			).Scan(&exists); err != nil {
				return err
			}
			if exists {
				return ErrPaymentMethodLimitExceeded
			}
			// A dangling payment method reference does not block the deposit.
		}
	}

	return tx.Commit(ctx)
}

// FindDepositByID retrieves one deposit by its id.
func (r *PostgresRepository) FindDepositByID(ctx context.Context, id uuid.UUID) (*domain.Deposit, error) {
	var deposit domain.Deposit
	query := "SELECT " + depositColumns + " FROM deposits WHERE id = $1"
	err := scanDeposit(r.db.QueryRow(ctx, query, id), &deposit)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrDepositNotFound
		}
		return nil, err
	}
	return &deposit, nil
}

// ProjectDepositStatusAmounts runs the lightweight projection query used by
// the status aggregator: only status and amount are selected, over exactly the
// records the listing query matches.
func (r *PostgresRepository) ProjectDepositStatusAmounts(ctx context.Context, filter domain.DepositFilter) ([]domain.StatusAmount, error) {
	where, args := buildDepositWhere(filter)
	query := "SELECT d.status, d.amount FROM deposits d " + where

	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var records []domain.StatusAmount
	for rows.Next() {
		var record domain.StatusAmount
		if err := rows.Scan(&record.Status, &record.Amount); err != nil {
			return nil, err
		}
		records = append(records, record)
	}
	return records, rows.Err()
}

// ListDeposits runs the enriched paginated listing: deposits joined with their
// sender personal, that personal's holder institution, the servicing dealer,
// the payment method type, and the payment method. Missing relations produce
// nil fields rather than dropping the row.
func (r *PostgresRepository) ListDeposits(ctx context.Context, filter domain.DepositFilter, opts domain.ListOptions) (domain.Page[domain.EnrichedDeposit], error) {
	page := domain.Page[domain.EnrichedDeposit]{Limit: opts.Limit, Page: opts.Page}
	if page.Limit <= 0 {
		page.Limit = 10
	}
	if page.Page <= 0 {
		page.Page = 1
	}

	where, args := buildDepositWhere(filter)

	countQuery := "SELECT COUNT(*) FROM deposits d " + where
	if err := r.db.QueryRow(ctx, countQuery, args...).Scan(&page.TotalDocs); err != nil {
		return page, err
	}
	page.TotalPages = (page.TotalDocs + int64(page.Limit) - 1) / int64(page.Limit)

	listArgs := append(args, page.Limit, (page.Page-1)*page.Limit)
	query := fmt.Sprintf(`
		SELECT d.id, d.transaction_id, d.sender_id, d.service_provider_id, d.type_id, d.payment_method_id,
		       d.institution_id, d.name, d.username, d.iban, d.amount, d.status, d.transaction_type,
		       d.is_end_user_transaction, d.processed_by, d.created_at, d.updated_at,
		       p.id, p.user_id, p.name, p.type, p.personal_holder_id, p.created_at, p.updated_at,
		       dl.id, dl.user_id, dl.name, dl.payment_range_min, dl.payment_range_max,
		       dl.payment_method_type, dl.classification, dl.deposit_status, dl.withdrawal_status,
		       dl.created_at, dl.updated_at,
		       i.id, i.user_id, i.name, i.created_at, i.updated_at,
		       t.id, t.name, t.description, t.status, t.is_parent, t.created_at, t.updated_at,
		       m.id, m.user_id, m.type_id, m.name, m.iban, m.detail, m.payment_min_limit,
		       m.payment_max_limit, m.total_limit, m.total_limit_left, m.currency, m.is_full,
		       m.fast_transfer_status, m.bank_account_status, m.created_at, m.updated_at
		FROM deposits d
		LEFT JOIN personals p ON p.id = d.sender_id
		LEFT JOIN dealers dl ON dl.id = d.service_provider_id
		LEFT JOIN institutions i ON i.id = p.personal_holder_id
		LEFT JOIN payment_method_types t ON t.id = d.type_id
		LEFT JOIN payment_methods m ON m.id = d.payment_method_id
		%s
		%s
		LIMIT $%d OFFSET $%d
	`, where, depositOrderBy(opts), len(args)+1, len(args)+2)

	rows, err := r.db.Query(ctx, query, listArgs...)
	if err != nil {
		return page, err
	}
	defer rows.Close()

	for rows.Next() {
		row, err := scanEnrichedDeposit(rows)
		if err != nil {
			return page, err
		}
		page.Docs = append(page.Docs, row)
	}
	return page, rows.Err()
}

// scanEnrichedDeposit scans one joined listing row. Joined entity columns are
// nullable; an entity is attached only when its id column is present.
func scanEnrichedDeposit(rows pgx.Rows) (domain.EnrichedDeposit, error) {
	var row domain.EnrichedDeposit

	var (
		pID       *uuid.UUID
		pUserID   *uuid.UUID
		pName     *string
		pType     *int
		pHolderID *uuid.UUID
		pCreated  *time.Time
		pUpdated  *time.Time

		dlID        *uuid.UUID
		dlUserID    *uuid.UUID
		dlName      *string
		dlRangeMin  *float64
		dlRangeMax  *float64
		dlPMType    *int
		dlClass     *int
		dlDepStatus *int
		dlWdrStatus *int
		dlCreated   *time.Time
		dlUpdated   *time.Time

		iID      *uuid.UUID
		iUserID  *uuid.UUID
		iName    *string
		iCreated *time.Time
		iUpdated *time.Time

		tID       *uuid.UUID
		tName     *string
		tDesc     *string
		tStatus   *int
		tIsParent *bool
		tCreated  *time.Time
		tUpdated  *time.Time

		mID        *uuid.UUID
		mUserID    *uuid.UUID
		mTypeID    *uuid.UUID
		mName      *string
		mIBAN      *string
		mDetail    *string
		mMinLimit  *float64
		mMaxLimit  *float64
		mTotal     *float64
		mTotalLeft *float64
		mCurrency  *string
		mIsFull    *bool
		mFast      *int
		mBank      *int
		mCreated   *time.Time
		mUpdated   *time.Time
	)

	err := rows.Scan(
		&row.ID, &row.TransactionID, &row.SenderID, &row.ServiceProviderID, &row.TypeID, &row.PaymentMethodID,
		&row.InstitutionID, &row.Name, &row.Username, &row.IBAN, &row.Amount, &row.Status, &row.TransactionType,
		&row.IsEndUserTransaction, &row.ProcessedBy, &row.CreatedAt, &row.UpdatedAt,
		&pID, &pUserID, &pName, &pType, &pHolderID, &pCreated, &pUpdated,
		&dlID, &dlUserID, &dlName, &dlRangeMin, &dlRangeMax,
		&dlPMType, &dlClass, &dlDepStatus, &dlWdrStatus, &dlCreated, &dlUpdated,
		&iID, &iUserID, &iName, &iCreated, &iUpdated,
		&tID, &tName, &tDesc, &tStatus, &tIsParent, &tCreated, &tUpdated,
		&mID, &mUserID, &mTypeID, &mName, &mIBAN, &mDetail, &mMinLimit,
		&mMaxLimit, &mTotal, &mTotalLeft, &mCurrency, &mIsFull,
		&mFast, &mBank, &mCreated, &mUpdated,
	)
	if err != nil {
		return row, err
	}

	if pID != nil {
		personal := domain.Personal{ID: *pID, UserID: pUserID, PersonalHolderID: pHolderID}
		if pName != nil {
			personal.Name = *pName
		}
		if pType != nil {
			personalType := domain.PersonalType(*pType)
			personal.Type = &personalType
		}
		if pCreated != nil {
			personal.CreatedAt = *pCreated
		}
		if pUpdated != nil {
			personal.UpdatedAt = *pUpdated
		}
		row.Personal = &personal
	}

	if dlID != nil {
		dealer := domain.Dealer{ID: *dlID, UserID: dlUserID}
		if dlName != nil {
			dealer.Name = *dlName
		}
		if dlRangeMin != nil {
			dealer.PaymentRangeMin = *dlRangeMin
		}
		if dlRangeMax != nil {
			dealer.PaymentRangeMax = *dlRangeMax
		}
		if dlPMType != nil {
			dealer.PaymentMethodType = *dlPMType
		}
		if dlClass != nil {
			dealer.Classification = domain.DealerClassification(*dlClass)
		}
		if dlDepStatus != nil {
			dealer.DepositStatus = domain.PassiveActive(*dlDepStatus)
		}
		if dlWdrStatus != nil {
			dealer.WithdrawalStatus = domain.PassiveActive(*dlWdrStatus)
		}
		if dlCreated != nil {
			dealer.CreatedAt = *dlCreated
		}
		if dlUpdated != nil {
			dealer.UpdatedAt = *dlUpdated
		}
		row.Dealer = &dealer
	}

	if iID != nil {
		institution := domain.Institution{ID: *iID, UserID: iUserID}
		if iName != nil {
			institution.Name = *iName
		}
		if iCreated != nil {
			institution.CreatedAt = *iCreated
		}
		if iUpdated != nil {
			institution.UpdatedAt = *iUpdated
		}
		row.Institution = &institution
	}

	if tID != nil {
		methodType := domain.PaymentMethodType{ID: *tID}
		if tName != nil {
			methodType.Name = *tName
		}
		if tDesc != nil {
			methodType.Description = *tDesc
		}
		if tStatus != nil {
			methodType.Status = *tStatus
		}
		if tIsParent != nil {
			methodType.IsParent = *tIsParent
		}
		if tCreated != nil {
			methodType.CreatedAt = *tCreated
		}
		if tUpdated != nil {
			methodType.UpdatedAt = *tUpdated
		}
		row.PaymentMethodType = &methodType
	}

	if mID != nil {
		method := domain.PaymentMethod{ID: *mID, UserID: mUserID, TypeID: mTypeID}
		if mName != nil {
			method.Name = *mName
		}
		if mIBAN != nil {
			method.IBAN = *mIBAN
		}
		if mDetail != nil {
			method.Detail = *mDetail
		}
		if mMinLimit != nil {
			method.PaymentMinLimit = *mMinLimit
		}
		if mMaxLimit != nil {
			method.PaymentMaxLimit = *mMaxLimit
		}
		if mTotal != nil {
			method.TotalLimit = *mTotal
		}
		if mTotalLeft != nil {
			method.TotalLimitLeft = *mTotalLeft
		}
		if mCurrency != nil {
			method.Currency = *mCurrency
		}
		if mIsFull != nil {
			method.IsFull = *mIsFull
		}
		if mFast != nil {
			method.FastTransferStatus = *mFast
		}
		if mBank != nil {
			method.BankAccountStatus = *mBank
		}
		if mCreated != nil {
			method.CreatedAt = *mCreated
		}
		if mUpdated != nil {
			method.UpdatedAt = *mUpdated
		}
		row.PaymentMethod = &method
	}

	return row, nil
}

// UpdateDeposit merges the provided fields into the stored record and returns
// the updated deposit. No field-level status transition validation happens
// here; the service layer logs undocumented transitions.
func (r *PostgresRepository) UpdateDeposit(ctx context.Context, id uuid.UUID, payload domain.UpdateDepositPayload) (*domain.Deposit, error) {
	var sets []string
	var args []any

	set := func(column string, value any) {
		args = append(args, value)
		sets = append(sets, fmt.Sprintf("%s = $%d", column, len(args)))
	}

	if payload.ServiceProviderID != nil {
		set("service_provider_id", *payload.ServiceProviderID)
	}
	if payload.SenderID != nil {
		set("sender_id", *payload.SenderID)
	}
	if payload.TypeID != nil {
		set("type_id", *payload.TypeID)
	}
	if payload.PaymentMethodID != nil {
		set("payment_method_id", *payload.PaymentMethodID)
	}
	if payload.InstitutionID != nil {
		set("institution_id", *payload.InstitutionID)
	}
	if payload.Name != nil {
		set("name", *payload.Name)
	}
	if payload.IBAN != nil {
		set("iban", *payload.IBAN)
	}
	if payload.Amount != nil {
		set("amount", *payload.Amount)
	}
	if payload.Status != nil {
		set("status", int(*payload.Status))
	}
	if payload.TransactionType != nil {
		set("transaction_type", int(*payload.TransactionType))
	}
	if payload.ProcessedBy != nil {
		set("processed_by", *payload.ProcessedBy)
	}

	if len(sets) == 0 {
		return r.FindDepositByID(ctx, id)
	}

	args = append(args, id)
	query := fmt.Sprintf(
		"UPDATE deposits SET %s, updated_at = NOW() WHERE id = $%d RETURNING "+depositColumns,
		strings.Join(sets, ", "), len(args),
	)

	var deposit domain.Deposit
	if err := scanDeposit(r.db.QueryRow(ctx, query, args...), &deposit); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrDepositNotFound
		}
		return nil, err
	}
	return &deposit, nil
}

// DeleteDeposit hard-deletes a deposit by id and reports whether a row was
// removed.
func (r *PostgresRepository) DeleteDeposit(ctx context.Context, id uuid.UUID) (bool, error) {
	tag, err := r.db.Exec(ctx, "DELETE FROM deposits WHERE id = $1", id)
	if err != nil {
		return false, err
	}
	return tag.RowsAffected() > 0, nil
}

// CreateInstitutionUser inserts the institution user minted for a deposit.
func (r *PostgresRepository) CreateInstitutionUser(ctx context.Context, user *domain.InstitutionUser) error {
	query := `
		INSERT INTO institution_users (id, username, institution_id, type, is_blocked)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING created_at, updated_at
	`
	return r.db.QueryRow(ctx, query,
		user.ID, user.Username, user.InstitutionID, int(user.Type), user.IsBlocked,
	).Scan(&user.CreatedAt, &user.UpdatedAt)
}
