package valueobject

import (
	"fmt"
	"strings"

	"github.com/oksasatya/go-ddd-auth/internal/domain/errs"
)

// UserRole is a closed set of authorization roles. The zero value is invalid.
type UserRole uint8

const (
	RoleAdmin UserRole = iota + 1
	RoleUser
	RoleManager
	RoleTenantAdmin
	RoleTenantUser
)

var allRoles = []UserRole{RoleAdmin, RoleUser, RoleManager, RoleTenantAdmin, RoleTenantUser}

// AllRoles lists every role in declaration order.
func AllRoles() []UserRole {
	out := make([]UserRole, len(allRoles))
	copy(out, allRoles)
	return out
}

// UserRoleFromString matches the wire value exactly (case-sensitive).
func UserRoleFromString(raw string) (UserRole, error) {
	for _, r := range allRoles {
		if r.String() == raw {
			return r, nil
		}
	}
	valid := make([]string, 0, len(allRoles))
	for _, r := range allRoles {
		valid = append(valid, r.String())
	}
	return 0, errs.NewValidation("role", errs.ReasonInvalidRole,
		fmt.Sprintf("invalid user role: %s. Valid roles are: %s", raw, strings.Join(valid, ", ")))
}

// String returns the ROLE_* wire value.
func (r UserRole) String() string {
	switch r {
	case RoleAdmin:
		return "ROLE_ADMIN"
	case RoleUser:
		return "ROLE_USER"
	case RoleManager:
		return "ROLE_MANAGER"
	case RoleTenantAdmin:
		return "ROLE_TENANT_ADMIN"
	case RoleTenantUser:
		return "ROLE_TENANT_USER"
	default:
		return ""
	}
}

func (r UserRole) IsValid() bool { return r.String() != "" }

func (r UserRole) Equals(other UserRole) bool { return r == other }

func (r UserRole) IsAdmin() bool       { return r == RoleAdmin }
func (r UserRole) IsUser() bool        { return r == RoleUser }
func (r UserRole) IsManager() bool     { return r == RoleManager }
func (r UserRole) IsTenantAdmin() bool { return r == RoleTenantAdmin }
func (r UserRole) IsTenantUser() bool  { return r == RoleTenantUser }

func (r UserRole) HasAdminPrivileges() bool {
	switch r {
	case RoleAdmin, RoleTenantAdmin:
		return true
	default:
		return false
	}
}

func (r UserRole) HasManagerPrivileges() bool {
	switch r {
	case RoleAdmin, RoleManager, RoleTenantAdmin:
		return true
	default:
		return false
	}
}

func (r UserRole) CanManageTenant() bool {
	switch r {
	case RoleAdmin, RoleTenantAdmin:
		return true
	default:
		return false
	}
}

// HierarchyLevel orders roles for access checks; invalid roles rank 0.
func (r UserRole) HierarchyLevel() int {
	switch r {
	case RoleAdmin:
		return 5
	case RoleTenantAdmin:
		return 4
	case RoleManager:
		return 3
	case RoleTenantUser:
		return 2
	case RoleUser:
		return 1
	default:
		return 0
	}
}

// CanAccessRole holds exactly when r ranks at or above target.
func (r UserRole) CanAccessRole(target UserRole) bool {
	return r.HierarchyLevel() >= target.HierarchyLevel()
}

func (r UserRole) MarshalText() ([]byte, error) {
	if !r.IsValid() {
		return nil, errs.NewValidation("role", errs.ReasonInvalidRole, "cannot marshal invalid role")
	}
	return []byte(r.String()), nil
}

func (r *UserRole) UnmarshalText(b []byte) error {
	parsed, err := UserRoleFromString(string(b))
	if err != nil {
		return err
	}
	*r = parsed
	return nil
}
