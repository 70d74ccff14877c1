package app

import (
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/paydesk/deposit-service/internal/domain"
)

func ptrStatus(value domain.DepositStatus) *domain.DepositStatus {
	return &value
}

func ptrTransactionType(value domain.TransactionType) *domain.TransactionType {
	return &value
}

func ptrPersonalType(value domain.PersonalType) *domain.PersonalType {
	return &value
}

func TestBuildDepositFilterAdminPassesQueryThrough(t *testing.T) {
	principal := domain.Principal{Role: domain.RoleAdmin}
	query := DepositQuery{
		Status:     ptrStatus(domain.StatusProcessing),
		SearchTerm: "acme",
	}

	filter, err := BuildDepositFilter(principal, query)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if filter.SenderID != nil || filter.ServiceProviderID != nil || filter.InstitutionID != nil {
		t.Fatal("expected no scoping fields for admin")
	}
	if filter.Status == nil || *filter.Status != domain.StatusProcessing {
		t.Fatal("expected caller status to survive")
	}
	if filter.SearchTerm != "acme" {
		t.Fatalf("expected search term to survive, got %q", filter.SearchTerm)
	}
}

func TestBuildDepositFilterForcesDealerScope(t *testing.T) {
	dealerID := uuid.New()
	principal := domain.Principal{
		Role:       domain.RoleDealer,
		UserDetail: &domain.UserDetail{ID: dealerID},
	}

	filter, err := BuildDepositFilter(principal, DepositQuery{})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if filter.ServiceProviderID == nil || *filter.ServiceProviderID != dealerID {
		t.Fatal("expected service provider scope to be forced")
	}
	if filter.ExcludeStatus != nil {
		t.Fatal("expected no status exclusion outside withdrawal listings")
	}
}

func TestBuildDepositFilterDealerWithdrawalsExcludePending(t *testing.T) {
	dealerID := uuid.New()
	principal := domain.Principal{
		Role:       domain.RoleDealer,
		UserDetail: &domain.UserDetail{ID: dealerID},
	}
	query := DepositQuery{TransactionType: ptrTransactionType(domain.TransactionWithdrawal)}

	filter, err := BuildDepositFilter(principal, query)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if filter.ExcludeStatus == nil || *filter.ExcludeStatus != domain.StatusPending {
		t.Fatal("expected pending withdrawals to be suppressed for dealers")
	}
}

func TestBuildDepositFilterExplicitStatusDisablesExclusion(t *testing.T) {
	dealerID := uuid.New()
	principal := domain.Principal{
		Role:       domain.RoleDealer,
		UserDetail: &domain.UserDetail{ID: dealerID},
	}
	query := DepositQuery{
		TransactionType: ptrTransactionType(domain.TransactionWithdrawal),
		Status:          ptrStatus(domain.StatusPending),
	}

	filter, err := BuildDepositFilter(principal, query)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if filter.ExcludeStatus != nil {
		t.Fatal("expected explicit status request to disable the pending exclusion")
	}
}

func TestBuildDepositFilterInstitutionPersonalUsesHolder(t *testing.T) {
	holderID := uuid.New()
	principal := domain.Principal{
		Role: domain.RolePersonal,
		UserDetail: &domain.UserDetail{
			ID:               uuid.New(),
			Type:             ptrPersonalType(domain.PersonalInstitution),
			PersonalHolderID: &holderID,
		},
	}

	filter, err := BuildDepositFilter(principal, DepositQuery{})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if filter.InstitutionID == nil || *filter.InstitutionID != holderID {
		t.Fatal("expected institution scope from the personal's holder")
	}
}

func TestBuildDepositFilterSenderScopeIgnoresCraftedQuery(t *testing.T) {
	senderID := uuid.New()
	principal := domain.Principal{
		Role:       domain.RoleEndUser,
		UserDetail: &domain.UserDetail{ID: senderID},
	}

	// A caller cannot widen visibility: the scope is written over whatever the
	// query carried.
	filter, err := BuildDepositFilter(principal, DepositQuery{SearchTerm: "everything"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if filter.SenderID == nil || *filter.SenderID != senderID {
		t.Fatal("expected sender scope to be forced")
	}
}

func TestBuildDepositFilterDealerCannotImpersonateAnother(t *testing.T) {
	dealerID := uuid.New()
	otherDealerID := uuid.New()
	principal := domain.Principal{
		Role:       domain.RoleDealer,
		UserDetail: &domain.UserDetail{ID: dealerID},
	}

	filter, err := BuildDepositFilter(principal, DepositQuery{ServiceProviderID: &otherDealerID})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if filter.ServiceProviderID == nil || *filter.ServiceProviderID != dealerID {
		t.Fatal("expected the crafted receiver id to be overwritten by the scope")
	}
}

func TestBuildDepositFilterAdminCanFilterByReceiver(t *testing.T) {
	receiverID := uuid.New()
	principal := domain.Principal{Role: domain.RoleAdmin}

	filter, err := BuildDepositFilter(principal, DepositQuery{ServiceProviderID: &receiverID})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if filter.ServiceProviderID == nil || *filter.ServiceProviderID != receiverID {
		t.Fatal("expected admin receiver filter to survive")
	}
}

func TestBuildDepositFilterRejectsUnresolvableScope(t *testing.T) {
	principal := domain.Principal{Role: domain.RoleInstitution}

	_, err := BuildDepositFilter(principal, DepositQuery{})
	if !errors.Is(err, ErrScopeUnresolved) {
		t.Fatalf("expected ErrScopeUnresolved, got %v", err)
	}
}
