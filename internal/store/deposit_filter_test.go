package store

import (
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/paydesk/deposit-service/internal/domain"
)

func TestBuildDepositWhereEmptyFilter(t *testing.T) {
	where, args := buildDepositWhere(domain.DepositFilter{})
	if where != "" {
		t.Fatalf("expected empty clause, got %q", where)
	}
	if len(args) != 0 {
		t.Fatalf("expected no args, got %d", len(args))
	}
}

func TestBuildDepositWhereCombinesConditions(t *testing.T) {
	senderID := uuid.New()
	status := domain.StatusPending
	excluded := domain.StatusDeclined
	transactionType := domain.TransactionDeposit

	where, args := buildDepositWhere(domain.DepositFilter{
		SenderID:        &senderID,
		Status:          &status,
		ExcludeStatus:   &excluded,
		TransactionType: &transactionType,
	})

	if !strings.HasPrefix(where, "WHERE ") {
		t.Fatalf("expected WHERE prefix, got %q", where)
	}
	for _, fragment := range []string{
		"d.sender_id = $1",
		"d.status = $2",
		"d.status <> $3",
		"d.transaction_type = $4",
	} {
		if !strings.Contains(where, fragment) {
			t.Fatalf("expected clause to contain %q, got %q", fragment, where)
		}
	}
	if strings.Count(where, " AND ") != 3 {
		t.Fatalf("expected 3 conjunctions, got %q", where)
	}
	if len(args) != 4 {
		t.Fatalf("expected 4 args, got %d", len(args))
	}
	if args[0] != senderID {
		t.Fatalf("expected sender id as first arg, got %v", args[0])
	}
}

func TestBuildDepositWhereSearchTerm(t *testing.T) {
	where, args := buildDepositWhere(domain.DepositFilter{SearchTerm: "acme"})

	if !strings.Contains(where, "d.name ILIKE $1") || !strings.Contains(where, "d.iban ILIKE $1") {
		t.Fatalf("expected name and iban search, got %q", where)
	}
	if strings.Contains(where, "d.amount") {
		t.Fatalf("expected no amount match for non-numeric term, got %q", where)
	}
	if len(args) != 1 || args[0] != "%acme%" {
		t.Fatalf("expected single pattern arg, got %v", args)
	}
}

func TestBuildDepositWhereNumericSearchTermMatchesAmount(t *testing.T) {
	where, args := buildDepositWhere(domain.DepositFilter{SearchTerm: "250"})

	if !strings.Contains(where, "d.amount = $2") {
		t.Fatalf("expected amount match for numeric term, got %q", where)
	}
	if len(args) != 2 {
		t.Fatalf("expected pattern and amount args, got %v", args)
	}
	if args[1] != float64(250) {
		t.Fatalf("expected parsed amount 250, got %v", args[1])
	}
}

func TestBuildDepositWhereDateRangeRequiresBothBounds(t *testing.T) {
	minDate := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	maxDate := minDate.AddDate(0, 1, 0)

	where, _ := buildDepositWhere(domain.DepositFilter{MinDate: &minDate})
	if where != "" {
		t.Fatalf("expected a lone bound to be ignored, got %q", where)
	}

	where, args := buildDepositWhere(domain.DepositFilter{MinDate: &minDate, MaxDate: &maxDate})
	if !strings.Contains(where, "d.created_at >= $1") || !strings.Contains(where, "d.created_at <= $2") {
		t.Fatalf("expected both bounds, got %q", where)
	}
	if len(args) != 2 {
		t.Fatalf("expected 2 args, got %d", len(args))
	}
}

func TestDepositOrderBy(t *testing.T) {
	tests := []struct {
		name string
		opts domain.ListOptions
		want string
	}{
		{"defaults to creation time", domain.ListOptions{}, "ORDER BY d.created_at ASC"},
		{"descending amount", domain.ListOptions{SortField: "amount", SortDesc: true}, "ORDER BY d.amount DESC"},
		{"transaction number", domain.ListOptions{SortField: "transactionId"}, "ORDER BY d.transaction_id ASC"},
		{"unknown field falls back", domain.ListOptions{SortField: "password"}, "ORDER BY d.created_at ASC"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := depositOrderBy(tt.opts)
			if got != tt.want {
				t.Fatalf("expected %q, got %q", tt.want, got)
			}
		})
	}
}
