/**
 * @description
 * This file defines the core domain models for the deposit back-office. These
 * structs represent the main entities and data transfer objects (DTOs) used
 * throughout the service's business logic, database interactions, and API layers.
 *
 * @notes
 * - Status, transaction type, and role enumerations are small closed integer
 *   codes; the wire format carries the raw code and the display name is derived.
 * - Monetary amounts are float64 to match the upstream data, which records
 *   decimal amounts rather than minor units.
 */

package domain

import (
	"time"

	"github.com/google/uuid"
)

// DepositStatus is the processing state of a deposit transaction.
type DepositStatus int

const (
	StatusPending            DepositStatus = 0
	StatusApproved           DepositStatus = 1
	StatusDeclined           DepositStatus = 2
	StatusAwaitDeposit       DepositStatus = 3
	StatusMarkAsManual       DepositStatus = 4
	StatusConfirmDeposit     DepositStatus = 5
	StatusProcessing         DepositStatus = 6
	StatusPaymentMade        DepositStatus = 7
	StatusMissingInformation DepositStatus = 8
)

// statusReportKeys maps each status to the key used in listing summaries.
// The reporting keys for AWAIT_DEPOSIT and MARK_AS_MANUAL intentionally differ
// from the enum spelling; downstream dashboards depend on these exact labels.
var statusReportKeys = map[DepositStatus]string{
	StatusPending:            "PENDING",
	StatusApproved:           "APPROVED",
	StatusDeclined:           "DECLINED",
	StatusAwaitDeposit:       "AWAITING_DEPOSIT",
	StatusMarkAsManual:       "MARKED_AS_MANUAL",
	StatusConfirmDeposit:     "CONFIRM_DEPOSIT",
	StatusProcessing:         "PROCESSING",
	StatusPaymentMade:        "PAYMENT_MADE",
	StatusMissingInformation: "MISSING_INFORMATION",
}

// ReportKey returns the summary label for a status and whether the status is a
// known member of the enumeration.
func (s DepositStatus) ReportKey() (string, bool) {
	key, ok := statusReportKeys[s]
	return key, ok
}

// KnownStatuses returns every defined status, in code order.
func KnownStatuses() []DepositStatus {
	return []DepositStatus{
		StatusPending, StatusApproved, StatusDeclined, StatusAwaitDeposit,
		StatusMarkAsManual, StatusConfirmDeposit, StatusProcessing,
		StatusPaymentMade, StatusMissingInformation,
	}
}

// TransactionType distinguishes money moving into the platform from money
// moving out of it.
type TransactionType int

const (
	TransactionDeposit    TransactionType = 0
	TransactionWithdrawal TransactionType = 1
)

// Deposit represents one recorded money-movement transaction between a sender
// and a service provider. This struct maps directly to the `deposits` table.
type Deposit struct {
	ID                   uuid.UUID       `json:"id"`
	TransactionID        int64           `json:"transactionId"`
	SenderID             *uuid.UUID      `json:"senderId,omitempty"`
	ServiceProviderID    *uuid.UUID      `json:"serviceProviderId,omitempty"`
	TypeID               *uuid.UUID      `json:"typeId,omitempty"`
	PaymentMethodID      *uuid.UUID      `json:"paymentMethodId,omitempty"`
	InstitutionID        *uuid.UUID      `json:"institutionId,omitempty"`
	Name                 string          `json:"name"`
	Username             string          `json:"username"`
	IBAN                 string          `json:"iban"`
	Amount               float64         `json:"amount"`
	Status               DepositStatus   `json:"status"`
	TransactionType      TransactionType `json:"transactionType"`
	IsEndUserTransaction bool            `json:"isEndUserTransaction"`
	ProcessedBy          *uuid.UUID      `json:"processedBy,omitempty"`
	CreatedAt            time.Time       `json:"createdAt"`
	UpdatedAt            time.Time       `json:"updatedAt"`
}

// CreateDepositRequest is the DTO for incoming deposit creation API requests.
// The `recieverId` spelling is preserved for wire compatibility with existing
// clients.
type CreateDepositRequest struct {
	RecieverID           *uuid.UUID       `json:"recieverId,omitempty"`
	SenderID             *uuid.UUID       `json:"senderId,omitempty"`
	TypeID               *uuid.UUID       `json:"typeId,omitempty"`
	PaymentMethodID      *uuid.UUID       `json:"paymentMethodId,omitempty"`
	InstitutionID        *uuid.UUID       `json:"institutionId,omitempty"`
	Name                 string           `json:"name"`
	IBAN                 string           `json:"iban"`
	Amount               float64          `json:"amount"`
	IsEndUserTransaction *bool            `json:"isEndUserTransaction,omitempty"`
	TransactionType      *TransactionType `json:"transactionType,omitempty"`
}

// UpdateDepositPayload carries the mutable subset of deposit fields. Nil means
// "leave unchanged".
type UpdateDepositPayload struct {
	ServiceProviderID *uuid.UUID       `json:"recieverId,omitempty"`
	SenderID          *uuid.UUID       `json:"senderId,omitempty"`
	TypeID            *uuid.UUID       `json:"typeId,omitempty"`
	PaymentMethodID   *uuid.UUID       `json:"paymentMethodId,omitempty"`
	InstitutionID     *uuid.UUID       `json:"institutionId,omitempty"`
	Name              *string          `json:"name,omitempty"`
	IBAN              *string          `json:"iban,omitempty"`
	Amount            *float64         `json:"amount,omitempty"`
	Status            *DepositStatus   `json:"status,omitempty"`
	TransactionType   *TransactionType `json:"transactionType,omitempty"`
	ProcessedBy       *uuid.UUID       `json:"processedBy,omitempty"`
}

// DepositFilter is the concrete query filter run against the deposit store.
// The same filter value is used for both the status projection query and the
// enriched paginated listing so the two results always cover the same records.
type DepositFilter struct {
	SenderID          *uuid.UUID
	ServiceProviderID *uuid.UUID
	TypeID            *uuid.UUID
	InstitutionID     *uuid.UUID
	Status            *DepositStatus
	ExcludeStatus     *DepositStatus
	TransactionType   *TransactionType
	SearchTerm        string
	MinDate           *time.Time
	MaxDate           *time.Time
}

// ListOptions controls sorting and pagination for listing queries.
// SortField must be a member of the listing's sortable-column allow-list;
// unknown fields fall back to creation time.
type ListOptions struct {
	SortField string
	SortDesc  bool
	Limit     int
	Page      int
}

// Page is one page of listing results together with pagination bookkeeping.
type Page[T any] struct {
	Docs       []T   `json:"docs"`
	TotalDocs  int64 `json:"totalDocs"`
	Limit      int   `json:"limit"`
	Page       int   `json:"page"`
	TotalPages int64 `json:"totalPages"`
}

// EnrichedDeposit is the read-only composed view of a deposit with its related
// entities attached. A missing relation is a nil field, never a dropped row.
type EnrichedDeposit struct {
	Deposit
	Personal          *Personal          `json:"personal"`
	Dealer            *Dealer            `json:"dealer"`
	Institution       *Institution       `json:"institution"`
	PaymentMethodType *PaymentMethodType `json:"paymentMethodType"`
	PaymentMethod     *PaymentMethod     `json:"paymentMethod"`
}

// StatusAmount is the minimal projection the status aggregator consumes.
type StatusAmount struct {
	Status DepositStatus
	Amount float64
}

// TransactionCounts is the per-status summary attached to every deposit
// listing: parallel count and amount-sum maps keyed by status report key, with
// a TOTAL_RECORDS entry in the count map.
type TransactionCounts struct {
	StatusCounts map[string]int64   `json:"statusCounts"`
	AmountCounts map[string]float64 `json:"amountCounts"`
}

// DepositListResult bundles the paginated enriched listing with the status
// summary and the total amount of all matched records.
type DepositListResult struct {
	Deposits          Page[EnrichedDeposit] `json:"deposits"`
	TransactionCounts TransactionCounts     `json:"transactionCounts"`
	TotalAmount       float64               `json:"totalAmount"`
}
