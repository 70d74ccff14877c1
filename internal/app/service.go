/**
 * @description
 * This file contains the core business logic for the deposit-service. The
 * `Service` struct orchestrates the deposit lifecycle, coordinating between
 * the database repository and the message broker.
 *
 * Key features:
 * - Implements the main use cases: scoped deposit listing with status summary,
 *   creation with limit consumption, update, and deletion.
 * - Applies the initial-status rule for end-user vs. operator-created records.
 * - Publishes lifecycle events to RabbitMQ for dashboard consumers.
 *
 * @dependencies
 * - context, errors, fmt, log, time: Standard Go libraries.
 * - github.com/google/uuid: For UUID generation.
 * - internal/domain, internal/store: For domain models and data access.
 * - pkg/rabbitmq: For event publication.
 */

package app

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/paydesk/deposit-service/internal/domain"
	"github.com/paydesk/deposit-service/internal/store"
	"github.com/paydesk/deposit-service/pkg/rabbitmq"
)

// Service provides the core business logic for deposits.
type Service struct {
	repo          store.Repository
	eventProducer rabbitmq.Publisher
}

// NewService creates a new deposit service instance.
func NewService(repo store.Repository, producer rabbitmq.Publisher) *Service {
	return &Service{
		repo:          repo,
		eventProducer: producer,
	}
}

// ListDeposits runs the scoped deposit listing: the caller's query combined
// with the principal's visibility scope, the per-status summary over all
// matched records, and one page of enriched rows. The summary and the page are
// computed from the same effective filter.
func (s *Service) ListDeposits(ctx context.Context, principal domain.Principal, query DepositQuery, opts domain.ListOptions) (*domain.DepositListResult, error) {
	// 1. Build the effective filter; non-admins without a resolvable scope are rejected.
	filter, err := BuildDepositFilter(principal, query)
	if err != nil {
		return nil, err
	}

	// 2. Summarize every matched record, not just the requested page.
	projection, err := s.repo.ProjectDepositStatusAmounts(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("failed to project deposit statuses: %w", err)
	}
	counts, totalAmount := SummarizeStatuses(projection)

	// 3. Fetch the requested page with relations attached.
	page, err := s.repo.ListDeposits(ctx, filter, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to list deposits: %w", err)
	}

	return &domain.DepositListResult{
		Deposits:          page,
		TransactionCounts: counts,
		TotalAmount:       totalAmount,
	}, nil
}

// GetDeposit retrieves a single deposit by id.
func (s *Service) GetDeposit(ctx context.Context, id uuid.UUID) (*domain.Deposit, error) {
	return s.repo.FindDepositByID(ctx, id)
}

// CreateDeposit handles the logic for recording a new deposit.
func (s *Service) CreateDeposit(ctx context.Context, req domain.CreateDepositRequest) (*domain.Deposit, error) {
	// 1. Resolve defaults: transaction type falls back to DEPOSIT, and only a
	// request explicitly marked as NOT an end-user transaction starts approved.
	transactionType := domain.TransactionDeposit
	if req.TransactionType != nil {
		transactionType = *req.TransactionType
	}

	isEndUser := true
	if req.IsEndUserTransaction != nil {
		isEndUser = *req.IsEndUserTransaction
	}
	status := domain.StatusPending
	if !isEndUser {
		status = domain.StatusApproved
	}

	deposit := &domain.Deposit{
		ID:                   uuid.New(),
		SenderID:             req.SenderID,
		ServiceProviderID:    req.RecieverID,
		TypeID:               req.TypeID,
		PaymentMethodID:      req.PaymentMethodID,
		InstitutionID:        req.InstitutionID,
		Name:                 req.Name,
		Username:             generateUsername(),
		IBAN:                 req.IBAN,
		Amount:               req.Amount,
		Status:               status,
		TransactionType:      transactionType,
		IsEndUserTransaction: isEndUser,
	}

	// 2. Persist the record. Only DEPOSIT-type transactions consume the
	// referenced payment method's remaining limit; the decrement happens
	// atomically with the insert, so an insufficient limit fails the whole
	// creation.
	applyLimit := transactionType == domain.TransactionDeposit && req.PaymentMethodID != nil
	if err := s.repo.CreateDeposit(ctx, deposit, applyLimit); err != nil {
		if errors.Is(err, store.ErrPaymentMethodLimitExceeded) {
			log.Printf("CreateDeposit: payment method %v cannot cover amount %.2f", req.PaymentMethodID, req.Amount)
			return nil, err
		}
		return nil, fmt.Errorf("failed to create deposit record: %w", err)
	}

	// 3. Mint the institution user carrying the generated username.
	institutionUser := &domain.InstitutionUser{
		ID:            uuid.New(),
		Username:      deposit.Username,
		InstitutionID: req.InstitutionID,
		Type:          domain.InstitutionUserType,
	}
	if err := s.repo.CreateInstitutionUser(ctx, institutionUser); err != nil {
		log.Printf("WARN: CreateDeposit: failed to create institution user for deposit %s: %v", deposit.ID, err)
		// The deposit itself is already recorded; don't fail the creation.
	}

	// 4. Broadcast the new record to dashboard consumers.
	s.publishDepositEvent(ctx, "created", *deposit)

	return deposit, nil
}

// UpdateDeposit merges the payload into the stored record. Status changes
// taking an edge outside the documented lifecycle are applied anyway but
// logged for auditing.
func (s *Service) UpdateDeposit(ctx context.Context, id uuid.UUID, payload domain.UpdateDepositPayload) (*domain.Deposit, error) {
	// 1. Load the current record so the transition can be checked.
	existing, err := s.repo.FindDepositByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if payload.Status != nil && !domain.IsDocumentedTransition(existing.Status, *payload.Status) {
		log.Printf("WARN: UpdateDeposit: undocumented status transition %d -> %d on deposit %s", existing.Status, *payload.Status, id)
	}

	// 2. Apply the update.
	updated, err := s.repo.UpdateDeposit(ctx, id, payload)
	if err != nil {
		return nil, err
	}

	// 3. Broadcast the updated record.
	s.publishDepositEvent(ctx, "updated", *updated)

	return updated, nil
}

// DeleteDeposit removes a deposit and broadcasts the removal.
func (s *Service) DeleteDeposit(ctx context.Context, id uuid.UUID) error {
	existing, err := s.repo.FindDepositByID(ctx, id)
	if err != nil {
		return err
	}

	deleted, err := s.repo.DeleteDeposit(ctx, id)
	if err != nil {
		return fmt.Errorf("failed to delete deposit: %w", err)
	}
	if !deleted {
		return store.ErrDepositNotFound
	}

	if s.eventProducer != nil {
		event := rabbitmq.DepositEvent{
			DepositID:     existing.ID,
			TransactionID: existing.TransactionID,
			Action:        "deleted",
			Timestamp:     time.Now().UTC(),
		}
		if err := s.eventProducer.PublishDepositEvent(ctx, event); err != nil {
			log.Printf("WARN: DeleteDeposit: failed to publish deletion event for deposit %s: %v", existing.ID, err)
		}
	}

	return nil
}

// publishDepositEvent enriches a deposit and broadcasts it under the given
// action. Publication failures never fail the originating operation.
func (s *Service) publishDepositEvent(ctx context.Context, action string, deposit domain.Deposit) {
	if s.eventProducer == nil {
		return
	}

	var payload any = deposit
	enriched, err := s.enrichDeposit(ctx, deposit)
	if err != nil {
		log.Printf("WARN: publishDepositEvent: enrichment failed for deposit %s, broadcasting bare record: %v", deposit.ID, err)
	} else {
		payload = enriched
	}

	event := rabbitmq.DepositEvent{
		DepositID:     deposit.ID,
		TransactionID: deposit.TransactionID,
		Action:        action,
		Deposit:       payload,
		Timestamp:     time.Now().UTC(),
	}
	if err := s.eventProducer.PublishDepositEvent(ctx, event); err != nil {
		log.Printf("WARN: publishDepositEvent: failed to publish %s event for deposit %s: %v", action, deposit.ID, err)
	}
}

// generateUsername mints the random display username assigned to every
// deposit and its institution user.
func generateUsername() string {
	return "user_" + strings.ReplaceAll(uuid.NewString(), "-", "")[:12]
}
