// Package authz holds the one place role and ownership checks live. Handlers
// and usecases ask the policy for a decision instead of comparing role flags
// inline.
package authz

import (
	"github.com/google/uuid"

	"skillsync/internal/domain/user"
)

type Action string

const (
	// ActionManageOwnInvitations covers a candidate reading and transitioning
	// their own invitations.
	ActionManageOwnInvitations Action = "invitations:manage_own"
	// ActionManageCandidates covers the employer dashboard: listing,
	// inviting, hiring, archiving candidates of the actor's company.
	ActionManageCandidates Action = "candidates:manage"
	// ActionManageAdminInvites covers sending/cancelling admin invitations.
	ActionManageAdminInvites Action = "admin_invites:manage"
	// ActionCompleteAssessment covers recording an assessment result for the
	// actor's own account.
	ActionCompleteAssessment Action = "assessments:complete"
)

// Actor is the authenticated identity a decision is made for.
type Actor struct {
	UserID    uuid.UUID
	Role      user.Role
	CompanyID *uuid.UUID
	SchoolID  *uuid.UUID
}

// Resource scopes a decision to an owner and/or organization.
type Resource struct {
	OwnerUserID *uuid.UUID
	CompanyID   *uuid.UUID
	SchoolID    *uuid.UUID
}

// OwnedBy builds a resource scoped to a single user.
func OwnedBy(userID uuid.UUID) Resource {
	return Resource{OwnerUserID: &userID}
}

// OfCompany builds a resource scoped to a company.
func OfCompany(companyID uuid.UUID) Resource {
	return Resource{CompanyID: &companyID}
}

// Allow evaluates (actor, action, resource) -> allow/deny. Super admins pass
// every check.
func Allow(actor Actor, action Action, res Resource) bool {
	if actor.UserID == uuid.Nil {
		return false
	}
	if actor.Role == user.RoleSuperAdmin {
		return true
	}

	switch action {
	case ActionManageOwnInvitations, ActionCompleteAssessment:
		return res.OwnerUserID != nil && *res.OwnerUserID == actor.UserID

	case ActionManageCandidates:
		if actor.Role != user.RoleEmployerAdmin || actor.CompanyID == nil {
			return false
		}
		return res.CompanyID != nil && *res.CompanyID == *actor.CompanyID

	case ActionManageAdminInvites:
		return false

	default:
		return false
	}
}
