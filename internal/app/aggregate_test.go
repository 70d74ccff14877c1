package app

import (
	"testing"

	"github.com/paydesk/deposit-service/internal/domain"
)

func TestSummarizeStatuses(t *testing.T) {
	records := []domain.StatusAmount{
		{Status: domain.StatusPending, Amount: 100},
		{Status: domain.StatusPending, Amount: 50},
		{Status: domain.StatusApproved, Amount: 200},
		{Status: domain.DepositStatus(42), Amount: 25},
	}

	counts, totalAmount := SummarizeStatuses(records)

	if got := counts.StatusCounts["TOTAL_RECORDS"]; got != 4 {
		t.Fatalf("expected TOTAL_RECORDS=4 including unknown statuses, got %d", got)
	}
	if got := counts.StatusCounts["PENDING"]; got != 2 {
		t.Fatalf("expected PENDING count 2, got %d", got)
	}
	if got := counts.AmountCounts["PENDING"]; got != 150 {
		t.Fatalf("expected PENDING amount 150, got %f", got)
	}
	if got := counts.StatusCounts["APPROVED"]; got != 1 {
		t.Fatalf("expected APPROVED count 1, got %d", got)
	}
	if totalAmount != 375 {
		t.Fatalf("expected total amount 375 including unknown statuses, got %f", totalAmount)
	}
}

func TestSummarizeStatusesEmptyProjection(t *testing.T) {
	counts, totalAmount := SummarizeStatuses(nil)

	if got := counts.StatusCounts["TOTAL_RECORDS"]; got != 0 {
		t.Fatalf("expected TOTAL_RECORDS=0, got %d", got)
	}
	if totalAmount != 0 {
		t.Fatalf("expected total amount 0, got %f", totalAmount)
	}

	// Every known status must be present even when no records match.
	for _, status := range domain.KnownStatuses() {
		key, _ := status.ReportKey()
		if _, ok := counts.StatusCounts[key]; !ok {
			t.Fatalf("expected zero entry for status key %q", key)
		}
		if _, ok := counts.AmountCounts[key]; !ok {
			t.Fatalf("expected zero amount entry for status key %q", key)
		}
	}
}

func TestSummarizeStatusesReportKeyQuirks(t *testing.T) {
	records := []domain.StatusAmount{
		{Status: domain.StatusAwaitDeposit, Amount: 10},
		{Status: domain.StatusMarkAsManual, Amount: 20},
	}

	counts, _ := SummarizeStatuses(records)

	if got := counts.StatusCounts["AWAITING_DEPOSIT"]; got != 1 {
		t.Fatalf("expected AWAITING_DEPOSIT count 1, got %d", got)
	}
	if got := counts.StatusCounts["MARKED_AS_MANUAL"]; got != 1 {
		t.Fatalf("expected MARKED_AS_MANUAL count 1, got %d", got)
	}
}
