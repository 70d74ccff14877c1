/**
 * @description
 * This file builds the effective deposit query filter for a request: caller
 * supplied criteria combined with the visibility scope of the authenticated
 * principal. The scope is always force-applied for non-admins, so a crafted
 * request parameter can never widen what a principal is allowed to see.
 */

package app

import (
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/paydesk/deposit-service/internal/domain"
)

// ErrScopeUnresolved is returned when a non-admin principal carries no user
// detail and therefore no visibility scope can be established.
var ErrScopeUnresolved = errors.New("no visibility scope could be established for this account")

// DepositQuery is the caller-supplied portion of a deposit listing request,
// decoded from query parameters before scoping is applied.
type DepositQuery struct {
	SenderID          *uuid.UUID
	ServiceProviderID *uuid.UUID
	Status            *domain.DepositStatus
	TransactionType   *domain.TransactionType
	TypeID            *uuid.UUID
	SearchTerm        string
	MinDate           *time.Time
	MaxDate           *time.Time
}

// BuildDepositFilter combines the caller's query with the principal's resolved
// visibility scope into the single filter used for both the status projection
// and the enriched listing. The scope overwrites any conflicting caller
// criteria rather than filling in absent ones.
func BuildDepositFilter(principal domain.Principal, query DepositQuery) (domain.DepositFilter, error) {
	filter := domain.DepositFilter{
		SenderID:          query.SenderID,
		ServiceProviderID: query.ServiceProviderID,
		Status:            query.Status,
		TransactionType:   query.TransactionType,
		TypeID:            query.TypeID,
		SearchTerm:        query.SearchTerm,
		MinDate:           query.MinDate,
		MaxDate:           query.MaxDate,
	}

	scope, ok := principal.ResolveScope()
	if !ok {
		return domain.DepositFilter{}, ErrScopeUnresolved
	}

	switch scope.Kind {
	case domain.ScopeAll:
		// Admins see everything the caller asked for.
	case domain.ScopeServiceProvider:
		id := scope.ID
		filter.ServiceProviderID = &id
		// Withdrawals are only assigned to a dealer once an operator picks
		// them up, so a dealer browsing withdrawals must not see pending ones.
		// An explicit status request takes precedence.
		if filter.Status == nil &&
			filter.TransactionType != nil && *filter.TransactionType == domain.TransactionWithdrawal {
			pending := domain.StatusPending
			filter.ExcludeStatus = &pending
		}
	case domain.ScopeInstitution:
		id := scope.ID
		filter.InstitutionID = &id
	case domain.ScopeSender:
		id := scope.ID
		filter.SenderID = &id
	}

	return filter, nil
}
