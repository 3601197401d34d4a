package authz

import (
	"testing"

	"skillsync/internal/domain/user"

	"github.com/google/uuid"
)

func TestAllow_OwnInvitations(t *testing.T) {
	owner := uuid.New()
	actor := Actor{UserID: owner, Role: user.RoleUser}

	if !Allow(actor, ActionManageOwnInvitations, OwnedBy(owner)) {
		t.Fatalf("owner denied on own invitations")
	}
	if Allow(actor, ActionManageOwnInvitations, OwnedBy(uuid.New())) {
		t.Fatalf("actor allowed on someone else's invitations")
	}
}

func TestAllow_ManageCandidates(t *testing.T) {
	companyID := uuid.New()
	admin := Actor{UserID: uuid.New(), Role: user.RoleEmployerAdmin, CompanyID: &companyID}

	if !Allow(admin, ActionManageCandidates, OfCompany(companyID)) {
		t.Fatalf("employer admin denied on own company")
	}
	if Allow(admin, ActionManageCandidates, OfCompany(uuid.New())) {
		t.Fatalf("employer admin allowed on another company")
	}

	plain := Actor{UserID: uuid.New(), Role: user.RoleUser, CompanyID: &companyID}
	if Allow(plain, ActionManageCandidates, OfCompany(companyID)) {
		t.Fatalf("plain user allowed to manage candidates")
	}

	unbound := Actor{UserID: uuid.New(), Role: user.RoleEmployerAdmin}
	if Allow(unbound, ActionManageCandidates, OfCompany(companyID)) {
		t.Fatalf("company-less admin allowed to manage candidates")
	}
}

func TestAllow_AdminInvites(t *testing.T) {
	super := Actor{UserID: uuid.New(), Role: user.RoleSuperAdmin}
	if !Allow(super, ActionManageAdminInvites, Resource{}) {
		t.Fatalf("super admin denied admin invites")
	}

	for _, role := range []user.Role{user.RoleUser, user.RoleEmployerAdmin, user.RoleProviderAdmin} {
		actor := Actor{UserID: uuid.New(), Role: role}
		if Allow(actor, ActionManageAdminInvites, Resource{}) {
			t.Fatalf("%s allowed admin invites", role)
		}
	}
}

func TestAllow_SuperAdminPassesEverything(t *testing.T) {
	super := Actor{UserID: uuid.New(), Role: user.RoleSuperAdmin}
	if !Allow(super, ActionManageCandidates, OfCompany(uuid.New())) {
		t.Fatalf("super admin denied candidates of arbitrary company")
	}
	if !Allow(super, ActionManageOwnInvitations, OwnedBy(uuid.New())) {
		t.Fatalf("super admin denied foreign invitations")
	}
}

func TestAllow_AnonymousDenied(t *testing.T) {
	anon := Actor{}
	if Allow(anon, ActionManageOwnInvitations, OwnedBy(uuid.Nil)) {
		t.Fatalf("anonymous actor allowed")
	}
	if Allow(anon, ActionManageAdminInvites, Resource{}) {
		t.Fatalf("anonymous actor allowed admin invites")
	}
}

func TestAllow_UnknownActionDenied(t *testing.T) {
	actor := Actor{UserID: uuid.New(), Role: user.RoleUser}
	if Allow(actor, Action("jobs:delete"), Resource{}) {
		t.Fatalf("unknown action allowed")
	}
}
