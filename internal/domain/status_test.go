package domain

import "testing"

func TestReportKeys(t *testing.T) {
	tests := []struct {
		status DepositStatus
		want   string
	}{
		{StatusPending, "PENDING"},
		{StatusApproved, "APPROVED"},
		{StatusDeclined, "DECLINED"},
		{StatusAwaitDeposit, "AWAITING_DEPOSIT"},
		{StatusMarkAsManual, "MARKED_AS_MANUAL"},
		{StatusConfirmDeposit, "CONFIRM_DEPOSIT"},
		{StatusProcessing, "PROCESSING"},
		{StatusPaymentMade, "PAYMENT_MADE"},
		{StatusMissingInformation, "MISSING_INFORMATION"},
	}

	for _, tt := range tests {
		key, ok := tt.status.ReportKey()
		if !ok {
			t.Fatalf("expected status %d to be known", tt.status)
		}
		if key != tt.want {
			t.Fatalf("expected key %q for status %d, got %q", tt.want, tt.status, key)
		}
	}

	if _, ok := DepositStatus(42).ReportKey(); ok {
		t.Fatal("expected unknown status code to report as unknown")
	}
}

func TestIsDocumentedTransition(t *testing.T) {
	tests := []struct {
		name string
		from DepositStatus
		to   DepositStatus
		want bool
	}{
		{"pending to approved", StatusPending, StatusApproved, true},
		{"pending to awaiting deposit", StatusPending, StatusAwaitDeposit, true},
		{"awaiting deposit to confirm", StatusAwaitDeposit, StatusConfirmDeposit, true},
		{"processing to payment made", StatusProcessing, StatusPaymentMade, true},
		{"missing information back to pending", StatusMissingInformation, StatusPending, true},
		{"same status is documented", StatusApproved, StatusApproved, true},
		{"approved is terminal", StatusApproved, StatusPending, false},
		{"declined is terminal", StatusDeclined, StatusProcessing, false},
		{"pending cannot jump to payment made", StatusPending, StatusPaymentMade, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := IsDocumentedTransition(tt.from, tt.to)
			if got != tt.want {
				t.Fatalf("expected documented=%t for %d -> %d, got %t", tt.want, tt.from, tt.to, got)
			}
		})
	}
}
