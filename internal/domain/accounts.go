/**
 * @description
 * This file defines the account-side entities of the back-office: dealers,
 * institutions, personals, institution users, and the payment instruments
 * (payment methods and their types) dealers fund deposits with.
 */

package domain

import (
	"time"

	"github.com/google/uuid"
)

// PassiveActive is the two-state activation flag used by dealer deposit and
// withdrawal availability.
type PassiveActive int

const (
	StatePassive PassiveActive = 0
	StateActive  PassiveActive = 1
)

// DealerClassification tags a dealer by the payment network it operates on.
type DealerClassification int

const (
	ClassificationNetseller DealerClassification = 0
	ClassificationSkrill    DealerClassification = 1
	ClassificationBTC       DealerClassification = 2
)

// Dealer is an intermediary that services deposits and withdrawals, holding
// one or more payment methods.
type Dealer struct {
	ID                uuid.UUID            `json:"id"`
	UserID            *uuid.UUID           `json:"userId,omitempty"`
	Name              string               `json:"name"`
	PaymentRangeMin   float64              `json:"paymentRangeMin"`
	PaymentRangeMax   float64              `json:"paymentRangeMax"`
	PaymentMethodType int                  `json:"paymentMethodType"`
	Classification    DealerClassification `json:"classification"`
	DepositStatus     PassiveActive        `json:"depositStatus"`
	WithdrawalStatus  PassiveActive        `json:"withdrawalStatus"`
	CreatedAt         time.Time            `json:"createdAt"`
	UpdatedAt         time.Time            `json:"updatedAt"`
}

// Institution is an organizational principal owning institution users and
// personals.
type Institution struct {
	ID        uuid.UUID  `json:"id"`
	UserID    *uuid.UUID `json:"userId,omitempty"`
	Name      string     `json:"name"`
	CreatedAt time.Time  `json:"createdAt"`
	UpdatedAt time.Time  `json:"updatedAt"`
}

// Personal is an end-customer-facing account, optionally scoped under a dealer
// or institution holder.
type Personal struct {
	ID               uuid.UUID     `json:"id"`
	UserID           *uuid.UUID    `json:"userId,omitempty"`
	Name             string        `json:"name"`
	Type             *PersonalType `json:"type,omitempty"`
	PersonalHolderID *uuid.UUID    `json:"personalHolderId,omitempty"`
	CreatedAt        time.Time     `json:"createdAt"`
	UpdatedAt        time.Time     `json:"updatedAt"`
}

// InstitutionUser is an end user registered under an institution. One is
// minted automatically for every deposit created through the public flow.
type InstitutionUser struct {
	ID            uuid.UUID    `json:"id"`
	Username      string       `json:"username"`
	InstitutionID *uuid.UUID   `json:"institutionId,omitempty"`
	Type          PersonalType `json:"type"`
	IsBlocked     bool         `json:"isBlocked"`
	CreatedAt     time.Time    `json:"createdAt"`
	UpdatedAt     time.Time    `json:"updatedAt"`
}

// PaymentMethodType is a named category of funding instrument (bank account,
// Papara, Payfix, ...).
type PaymentMethodType struct {
	ID          uuid.UUID `json:"id"`
	Name        string    `json:"name"`
	Description string    `json:"description"`
	Status      int       `json:"status"`
	IsParent    bool      `json:"isParent"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

// PaymentMethod is a funding instrument owned by a dealer, carrying per
// transaction min/max limits and a total limit with a running remainder.
//
// Invariant: IsFull is true exactly when TotalLimitLeft has dropped below one
// unit after a deposit was applied; TotalLimitLeft only decreases for
// DEPOSIT-type transactions, never for withdrawals.
type PaymentMethod struct {
	ID                 uuid.UUID  `json:"id"`
	UserID             *uuid.UUID `json:"userId,omitempty"`
	TypeID             *uuid.UUID `json:"typeId,omitempty"`
	Name               string     `json:"name"`
	IBAN               string     `json:"iban"`
	Detail             string     `json:"detail"`
	PaymentMinLimit    float64    `json:"paymentMinLimit"`
	PaymentMaxLimit    float64    `json:"paymentMaxLimit"`
	TotalLimit         float64    `json:"totalLimit"`
	TotalLimitLeft     float64    `json:"totalLimitLeft"`
	Currency           string     `json:"currency"`
	IsFull             bool       `json:"isFull"`
	FastTransferStatus int        `json:"fastTransferStatus"`
	BankAccountStatus  int        `json:"bankAccountStatus"`
	CreatedAt          time.Time  `json:"createdAt"`
	UpdatedAt          time.Time  `json:"updatedAt"`
}

// CreatePaymentMethodPayload is the DTO for registering a payment method under
// a dealer. TotalLimitLeft starts equal to TotalLimit.
type CreatePaymentMethodPayload struct {
	DealerID           *uuid.UUID `json:"dealerId,omitempty"`
	TypeID             *uuid.UUID `json:"typeId,omitempty"`
	Name               string     `json:"name"`
	IBAN               string     `json:"iban"`
	Detail             string     `json:"detail"`
	PaymentMinLimit    float64    `json:"paymentMinLimit"`
	PaymentMaxLimit    float64    `json:"paymentMaxLimit"`
	TotalLimit         float64    `json:"totalLimit"`
	Currency           string     `json:"currency"`
	FastTransferStatus int        `json:"fastTransferStatus"`
	BankAccountStatus  int        `json:"bankAccountStatus"`
}

// UpdatePaymentMethodPayload carries the mutable subset of payment method
// fields. IsAccountLimitReset restores TotalLimitLeft to TotalLimit and clears
// the full flag.
type UpdatePaymentMethodPayload struct {
	Name                *string  `json:"name,omitempty"`
	IBAN                *string  `json:"iban,omitempty"`
	Detail              *string  `json:"detail,omitempty"`
	PaymentMinLimit     *float64 `json:"paymentMinLimit,omitempty"`
	PaymentMaxLimit     *float64 `json:"paymentMaxLimit,omitempty"`
	TotalLimit          *float64 `json:"totalLimit,omitempty"`
	Currency            *string  `json:"currency,omitempty"`
	FastTransferStatus  *int     `json:"fastTransferStatus,omitempty"`
	BankAccountStatus   *int     `json:"bankAccountStatus,omitempty"`
	IsAccountLimitReset bool     `json:"isAccountLimitReset,omitempty"`
}

// CreatePaymentMethodTypePayload is the DTO for registering a payment method
// type. Types created through the API are never parents; parents are seeded.
type CreatePaymentMethodTypePayload struct {
	Name        string `json:"name"`
	Description string `json:"description"`
	Status      int    `json:"status"`
}

// PaymentAccount pairs a payment method with the dealer that holds it, as
// returned by the payment-account and withdrawal-account lookups.
type PaymentAccount struct {
	PaymentMethod *PaymentMethod `json:"paymentMethod"`
	AccountHolder *Dealer        `json:"accountHolder"`
}

// AccountModel selects which account collection a polymorphic account
// operation targets. The integer codes are part of the public API.
type AccountModel int

const (
	AccountModelInstitution     AccountModel = 1
	AccountModelPersonal        AccountModel = 2
	AccountModelInstitutionUser AccountModel = 3
)

// Valid reports whether the code names a known account model.
func (m AccountModel) Valid() bool {
	switch m {
	case AccountModelInstitution, AccountModelPersonal, AccountModelInstitutionUser:
		return true
	}
	return false
}

// UpdateAccountPayload carries the mutable fields shared across the account
// models; fields that do not apply to the targeted model are ignored.
type UpdateAccountPayload struct {
	Name             *string    `json:"name,omitempty"`
	Username         *string    `json:"username,omitempty"`
	PersonalHolderID *uuid.UUID `json:"personalHolderId,omitempty"`
	IsBlocked        *bool      `json:"isBlocked,omitempty"`
}
