package domain

// statusTransitions documents the expected lifecycle edges between deposit
// statuses. The upstream system never constrained transitions, and authorized
// callers may still set any status; the table exists so that updates taking an
// edge outside it can be surfaced in logs and audited later.
//
//	PENDING          -> APPROVED | DECLINED | AWAITING_DEPOSIT | MARKED_AS_MANUAL | MISSING_INFORMATION
//	AWAITING_DEPOSIT -> CONFIRM_DEPOSIT | DECLINED | MISSING_INFORMATION
//	CONFIRM_DEPOSIT  -> PROCESSING | DECLINED
//	MARKED_AS_MANUAL -> PROCESSING | DECLINED
//	PROCESSING       -> PAYMENT_MADE | APPROVED | DECLINED
//	MISSING_INFORMATION -> PENDING | DECLINED
//	APPROVED, DECLINED, PAYMENT_MADE are terminal.
var statusTransitions = map[DepositStatus][]DepositStatus{
	StatusPending:            {StatusApproved, StatusDeclined, StatusAwaitDeposit, StatusMarkAsManual, StatusMissingInformation},
	StatusAwaitDeposit:       {StatusConfirmDeposit, StatusDeclined, StatusMissingInformation},
	StatusConfirmDeposit:     {StatusProcessing, StatusDeclined},
	StatusMarkAsManual:       {StatusProcessing, StatusDeclined},
	StatusProcessing:         {StatusPaymentMade, StatusApproved, StatusDeclined},
	StatusMissingInformation: {StatusPending, StatusDeclined},
}

// IsDocumentedTransition reports whether moving from one status to another
// follows a documented lifecycle edge. Setting the same status again is
// treated as documented.
func IsDocumentedTransition(from, to DepositStatus) bool {
	if from == to {
		return true
	}
	for _, next := range statusTransitions[from] {
		if next == to {
			return true
		}
	}
	return false
}
