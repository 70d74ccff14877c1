/**
 * @description
 * This file defines the `Repository` interface, the contract for all data
 * access the deposit back-office needs. Keeping an interface between the
 * business logic and PostgreSQL keeps the service testable with in-memory
 * fakes.
 *
 * @dependencies
 * - context: Standard Go library.
 * - github.com/google/uuid: For UUID handling.
 * - internal/domain: For the service's domain models.
 */

package store

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/paydesk/deposit-service/internal/domain"
)

var (
	ErrDepositNotFound              = errors.New("deposit not found")
	ErrPaymentMethodNotFound        = errors.New("payment method not found")
	ErrPaymentMethodTypeNotFound    = errors.New("payment method type not found")
	ErrPaymentMethodLimitExceeded   = errors.New("payment method remaining limit is insufficient")
	ErrDealerNotFound               = errors.New("dealer not found")
	ErrInstitutionNotFound          = errors.New("institution not found")
	ErrPersonalNotFound             = errors.New("personal not found")
	ErrAccountNotFound              = errors.New("account not found")
	ErrNoWithdrawalDealerAvailable  = errors.New("no dealer is available for withdrawal at this moment")
	ErrUnknownAccountModel          = errors.New("unknown account model")
	ErrDuplicateTransactionSequence = errors.New("duplicate transaction number")
)

// Repository defines the set of methods for interacting with the database.
type Repository interface {
	// Deposit lifecycle. CreateDeposit assigns the transaction number from the
	// store's sequence and, when applyLimit is set, decrements the referenced
	// payment method's remaining limit in the same transaction, guarded by a
	// remaining >= amount precondition.
	CreateDeposit(ctx context.Context, deposit *domain.Deposit, applyLimit bool) error
	FindDepositByID(ctx context.Context, id uuid.UUID) (*domain.Deposit, error)
	ListDeposits(ctx context.Context, filter domain.DepositFilter, opts domain.ListOptions) (domain.Page[domain.EnrichedDeposit], error)
	ProjectDepositStatusAmounts(ctx context.Context, filter domain.DepositFilter) ([]domain.StatusAmount, error)
	UpdateDeposit(ctx context.Context, id uuid.UUID, payload domain.UpdateDepositPayload) (*domain.Deposit, error)
	DeleteDeposit(ctx context.Context, id uuid.UUID) (bool, error)

	// Payment account lookups.
	FindTightestFitPaymentMethod(ctx context.Context, amount float64, typeID uuid.UUID) (*domain.PaymentMethod, error)
	FindActiveWithdrawalDealer(ctx context.Context) (*domain.Dealer, error)
	FindFirstPaymentMethodByUserID(ctx context.Context, userID uuid.UUID) (*domain.PaymentMethod, error)
	FindDealerByUserID(ctx context.Context, userID uuid.UUID) (*domain.Dealer, error)

	// Payment methods and types.
	CreatePaymentMethod(ctx context.Context, method *domain.PaymentMethod) error
	FindPaymentMethodByID(ctx context.Context, id uuid.UUID) (*domain.PaymentMethod, error)
	ListPaymentMethods(ctx context.Context, ownerID *uuid.UUID, opts domain.ListOptions) (domain.Page[domain.PaymentMethod], error)
	UpdatePaymentMethod(ctx context.Context, id uuid.UUID, payload domain.UpdatePaymentMethodPayload) (*domain.PaymentMethod, error)
	DeletePaymentMethod(ctx context.Context, id uuid.UUID) (bool, error)
	CreatePaymentMethodType(ctx context.Context, methodType *domain.PaymentMethodType) error
	FindPaymentMethodTypeByID(ctx context.Context, id uuid.UUID) (*domain.PaymentMethodType, error)
	ListPaymentMethodTypes(ctx context.Context, opts domain.ListOptions) (domain.Page[domain.PaymentMethodType], error)
	DeletePaymentMethodType(ctx context.Context, id uuid.UUID) (bool, error)

	// Related-entity lookups for the enrichment pipeline.
	FindPersonalByID(ctx context.Context, id uuid.UUID) (*domain.Personal, error)
	FindDealerByID(ctx context.Context, id uuid.UUID) (*domain.Dealer, error)
	FindInstitutionByID(ctx context.Context, id uuid.UUID) (*domain.Institution, error)

	// Institution users minted during deposit creation.
	CreateInstitutionUser(ctx context.Context, user *domain.InstitutionUser) error

	// Polymorphic account operations, indexed by account model.
	FindAccount(ctx context.Context, model domain.AccountModel, id uuid.UUID) (any, error)
	UpdateAccount(ctx context.Context, model domain.AccountModel, id uuid.UUID, payload domain.UpdateAccountPayload) (any, error)
	DeleteAccount(ctx context.Context, model domain.AccountModel, id uuid.UUID) (bool, error)
}
