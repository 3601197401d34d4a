package user

import (
	"strings"
	"time"

	"github.com/google/uuid"
)

type Role string

const (
	RoleUser          Role = "user"
	RoleEmployerAdmin Role = "employer_admin"
	RoleProviderAdmin Role = "provider_admin"
	RoleSuperAdmin    Role = "super_admin"
)

func ParseRole(raw string) (Role, bool) {
	r := Role(strings.ToLower(strings.TrimSpace(raw)))
	switch r {
	case RoleUser, RoleEmployerAdmin, RoleProviderAdmin, RoleSuperAdmin:
		return r, true
	}
	return "", false
}

type User struct {
	ID            uuid.UUID
	Email         string
	PasswordHash  string
	Role          Role
	FirstName     string
	LastName      string
	AvatarURL     *string
	CompanyID     *uuid.UUID
	SchoolID      *uuid.UUID
	AgreedToTerms bool
	CreatedAt     time.Time
	UpdatedAt     time.Time
}
