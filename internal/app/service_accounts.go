/**
 * @description
 * This file holds the payment-instrument and account-management use cases of
 * the service: assigning a funding account to an incoming deposit, picking the
 * dealer account for a withdrawal, payment method and type administration, and
 * the polymorphic account operations.
 */

package app

import (
	"context"
	"errors"
	"fmt"
	"log"

	"github.com/google/uuid"
	"github.com/paydesk/deposit-service/internal/domain"
	"github.com/paydesk/deposit-service/internal/store"
)

// GetPaymentAccount selects the funding account for an incoming deposit of
// the given amount and payment method type: the open method whose limits admit
// the amount, with the least remaining total limit, paired with the dealer
// that holds it.
func (s *Service) GetPaymentAccount(ctx context.Context, amount float64, typeID uuid.UUID) (*domain.PaymentAccount, error) {
	method, err := s.repo.FindTightestFitPaymentMethod(ctx, amount, typeID)
	if err != nil {
		return nil, err
	}

	account := &domain.PaymentAccount{PaymentMethod: method}
	if method.UserID != nil {
		dealer, err := s.repo.FindDealerByUserID(ctx, *method.UserID)
		if err != nil {
			if !errors.Is(err, store.ErrDealerNotFound) {
				return nil, err
			}
			log.Printf("WARN: GetPaymentAccount: payment method %s has no resolvable dealer", method.ID)
		} else {
			account.AccountHolder = dealer
		}
	}
	return account, nil
}

// GetDealerWithdrawalAccount picks a withdrawal-active dealer and that
// dealer's oldest payment method as the account a withdrawal pays out from.
func (s *Service) GetDealerWithdrawalAccount(ctx context.Context) (*domain.PaymentAccount, error) {
	dealer, err := s.repo.FindActiveWithdrawalDealer(ctx)
	if err != nil {
		return nil, err
	}

	account := &domain.PaymentAccount{AccountHolder: dealer}
	if dealer.UserID != nil {
		method, err := s.repo.FindFirstPaymentMethodByUserID(ctx, *dealer.UserID)
		if err != nil {
			if !errors.Is(err, store.ErrPaymentMethodNotFound) {
				return nil, err
			}
			log.Printf("WARN: GetDealerWithdrawalAccount: dealer %s has no payment method registered", dealer.ID)
		} else {
			account.PaymentMethod = method
		}
	}
	return account, nil
}

// CreatePaymentMethod registers a payment method under a dealer. The
// remaining limit starts equal to the total limit.
func (s *Service) CreatePaymentMethod(ctx context.Context, payload domain.CreatePaymentMethodPayload) (*domain.PaymentMethod, error) {
	method := &domain.PaymentMethod{
		ID:                 uuid.New(),
		UserID:             payload.DealerID,
		TypeID:             payload.TypeID,
		Name:               payload.Name,
		IBAN:               payload.IBAN,
		Detail:             payload.Detail,
		PaymentMinLimit:    payload.PaymentMinLimit,
		PaymentMaxLimit:    payload.PaymentMaxLimit,
		TotalLimit:         payload.TotalLimit,
		TotalLimitLeft:     payload.TotalLimit,
		Currency:           payload.Currency,
		FastTransferStatus: payload.FastTransferStatus,
		BankAccountStatus:  payload.BankAccountStatus,
	}
	if err := s.repo.CreatePaymentMethod(ctx, method); err != nil {
		return nil, fmt.Errorf("failed to create payment method: %w", err)
	}
	return method, nil
}

// GetPaymentMethod retrieves one payment method by id.
func (s *Service) GetPaymentMethod(ctx context.Context, id uuid.UUID) (*domain.PaymentMethod, error) {
	return s.repo.FindPaymentMethodByID(ctx, id)
}

// ListPaymentMethods pages through payment methods, optionally restricted to
// one owning user.
func (s *Service) ListPaymentMethods(ctx context.Context, ownerID *uuid.UUID, opts domain.ListOptions) (domain.Page[domain.PaymentMethod], error) {
	return s.repo.ListPaymentMethods(ctx, ownerID, opts)
}

// UpdatePaymentMethod merges the payload into a stored payment method.
func (s *Service) UpdatePaymentMethod(ctx context.Context, id uuid.UUID, payload domain.UpdatePaymentMethodPayload) (*domain.PaymentMethod, error) {
	return s.repo.UpdatePaymentMethod(ctx, id, payload)
}

// DeletePaymentMethod removes a payment method.
func (s *Service) DeletePaymentMethod(ctx context.Context, id uuid.UUID) error {
	deleted, err := s.repo.DeletePaymentMethod(ctx, id)
	if err != nil {
		return fmt.Errorf("failed to delete payment method: %w", err)
	}
	if !deleted {
		return store.ErrPaymentMethodNotFound
	}
	return nil
}

// CreatePaymentMethodType registers a payment method type. Types created
// through this path are never parents.
func (s *Service) CreatePaymentMethodType(ctx context.Context, payload domain.CreatePaymentMethodTypePayload) (*domain.PaymentMethodType, error) {
	methodType := &domain.PaymentMethodType{
		ID:          uuid.New(),
		Name:        payload.Name,
		Description: payload.Description,
		Status:      payload.Status,
	}
	if err := s.repo.CreatePaymentMethodType(ctx, methodType); err != nil {
		return nil, fmt.Errorf("failed to create payment method type: %w", err)
	}
	return methodType, nil
}

// ListPaymentMethodTypes pages through payment method types.
func (s *Service) ListPaymentMethodTypes(ctx context.Context, opts domain.ListOptions) (domain.Page[domain.PaymentMethodType], error) {
	return s.repo.ListPaymentMethodTypes(ctx, opts)
}

// DeletePaymentMethodType removes a payment method type.
func (s *Service) DeletePaymentMethodType(ctx context.Context, id uuid.UUID) error {
	deleted, err := s.repo.DeletePaymentMethodType(ctx, id)
	if err != nil {
		return fmt.Errorf("failed to delete payment method type: %w", err)
	}
	if !deleted {
		return store.ErrPaymentMethodTypeNotFound
	}
	return nil
}

// GetAccount retrieves one account from the collection named by the model code.
func (s *Service) GetAccount(ctx context.Context, model domain.AccountModel, id uuid.UUID) (any, error) {
	if !model.Valid() {
		return nil, store.ErrUnknownAccountModel
	}
	return s.repo.FindAccount(ctx, model, id)
}

// UpdateAccount merges the applicable payload fields into the addressed account.
func (s *Service) UpdateAccount(ctx context.Context, model domain.AccountModel, id uuid.UUID, payload domain.UpdateAccountPayload) (any, error) {
	if !model.Valid() {
		return nil, store.ErrUnknownAccountModel
	}
	return s.repo.UpdateAccount(ctx, model, id, payload)
}

// DeleteAccount removes the addressed account.
func (s *Service) DeleteAccount(ctx context.Context, model domain.AccountModel, id uuid.UUID) error {
	if !model.Valid() {
		return store.ErrUnknownAccountModel
	}
	deleted, err := s.repo.DeleteAccount(ctx, model, id)
	if err != nil {
		return fmt.Errorf("failed to delete account: %w", err)
	}
	if !deleted {
		return store.ErrAccountNotFound
	}
	return nil
}
