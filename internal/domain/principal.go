/**
 * @description
 * This file defines the authenticated principal and the visibility scope it
 * resolves to. The scope is a tagged union with one variant per (role,
 * personal sub-type) combination that actually changes deposit visibility,
 * replacing the double enumeration branch the upstream system used.
 */

package domain

import "github.com/google/uuid"

// Role is the top-level account role of an authenticated principal.
type Role int

const (
	RoleAdmin       Role = 0
	RoleDealer      Role = 1
	RoleInstitution Role = 2
	RolePersonal    Role = 3
	RoleEndUser     Role = 4
)

// PersonalType is the sub-type carried by PERSONAL principals, indicating
// which kind of holder the personal account is scoped under.
type PersonalType int

const (
	PersonalAdmin       PersonalType = 0
	PersonalDealer      PersonalType = 1
	PersonalInstitution PersonalType = 2
	PersonalPersonal    PersonalType = 3
	InstitutionUserType PersonalType = 4
)

// UserDetail is the per-principal record attached by the authentication layer.
// PersonalHolderID points at the dealer or institution the principal is scoped
// under, when the sub-type implies one.
type UserDetail struct {
	ID               uuid.UUID
	Type             *PersonalType
	PersonalHolderID *uuid.UUID
}

// Principal is the authenticated actor attached to every request before any
// filter-building logic runs. UserDetail is nil only for tokens that carry no
// detail record.
type Principal struct {
	Role       Role
	UserDetail *UserDetail
}

// ScopeKind discriminates the visibility scope variants.
type ScopeKind int

const (
	// ScopeAll grants unrestricted visibility (admins and admin-personals).
	ScopeAll ScopeKind = iota
	// ScopeServiceProvider restricts visibility to deposits serviced by one
	// dealer; pending withdrawals are additionally suppressed.
	ScopeServiceProvider
	// ScopeInstitution restricts visibility to one institution's deposits.
	ScopeInstitution
	// ScopeSender restricts visibility to deposits the principal sent.
	ScopeSender
)

// Scope is the resolved visibility scope of a principal. ID carries the single
// scoping id the variant needs; it is unset for ScopeAll.
type Scope struct {
	Kind ScopeKind
	ID   uuid.UUID
}

// IsAdmin reports whether the principal has unrestricted visibility: either
// the ADMIN role or a personal account with the admin-personal sub-type.
func (p Principal) IsAdmin() bool {
	if p.Role == RoleAdmin {
		return true
	}
	return p.UserDetail != nil && p.UserDetail.Type != nil && *p.UserDetail.Type == PersonalAdmin
}

// ResolveScope derives the visibility scope for the principal. The boolean is
// false when a non-admin principal carries no user detail, in which case no
// scope can be established and the caller must reject the request.
func (p Principal) ResolveScope() (Scope, bool) {
	if p.IsAdmin() {
		return Scope{Kind: ScopeAll}, true
	}
	if p.UserDetail == nil {
		return Scope{}, false
	}
	detail := p.UserDetail

	switch p.Role {
	case RoleDealer:
		return Scope{Kind: ScopeServiceProvider, ID: detail.ID}, true
	case RoleInstitution:
		return Scope{Kind: ScopeInstitution, ID: detail.ID}, true
	case RolePersonal:
		if detail.Type != nil {
			switch *detail.Type {
			case PersonalDealer:
				if detail.PersonalHolderID == nil {
					return Scope{}, false
				}
				return Scope{Kind: ScopeServiceProvider, ID: *detail.PersonalHolderID}, true
			case PersonalInstitution:
				if detail.PersonalHolderID == nil {
					return Scope{}, false
				}
				return Scope{Kind: ScopeInstitution, ID: *detail.PersonalHolderID}, true
			}
		}
		return Scope{Kind: ScopeSender, ID: detail.ID}, true
	default:
		// End users and anything unrecognized only ever see their own records.
		return Scope{Kind: ScopeSender, ID: detail.ID}, true
	}
}
