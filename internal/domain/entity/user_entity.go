package entity

import (
	"fmt"
	"time"

	"github.com/oksasatya/go-ddd-auth/internal/domain/errs"
	vo "github.com/oksasatya/go-ddd-auth/internal/domain/valueobject"
)

var now = func() time.Time { return time.Now().UTC() }

// User is the aggregate root for the user domain.
// Password holds the hash only; all mutation goes through methods that touch UpdatedAt.
type User struct {
	id        vo.UserID
	email     vo.Email
	password  string
	roles     []vo.UserRole
	status    vo.UserStatus
	tenantID  string
	createdAt time.Time
	updatedAt time.Time
}

// NewUser creates a user. Empty roles default to ROLE_USER and a zero status defaults to pending.
func NewUser(id vo.UserID, email vo.Email, hashedPassword string, roles []vo.UserRole, status vo.UserStatus, tenantID string) (*User, error) {
	if id.IsZero() {
		return nil, errs.NewValidation("user_id", errs.ReasonEmpty, "user id is required")
	}
	if email.IsZero() {
		return nil, errs.NewValidation("email", errs.ReasonEmpty, "email is required")
	}
	if hashedPassword == "" {
		return nil, errs.NewValidation("password", errs.ReasonEmpty, "password cannot be empty")
	}
	if status == 0 {
		status = vo.StatusPending
	}
	if !status.IsValid() {
		return nil, errs.NewValidation("status", errs.ReasonInvalidStatus, "")
	}
	set, err := uniqueRoles(roles)
	if err != nil {
		return nil, err
	}
	if len(set) == 0 {
		set = []vo.UserRole{vo.RoleUser}
	}

	ts := now()
	return &User{
		id:        id,
		email:     email,
		password:  hashedPassword,
		roles:     set,
		status:    status,
		tenantID:  tenantID,
		createdAt: ts,
		updatedAt: ts,
	}, nil
}

// Reconstitute rebuilds a persisted user, re-validating every stored value.
func Reconstitute(s Snapshot, hashedPassword string) (*User, error) {
	id, err := vo.UserIDFromString(s.ID)
	if err != nil {
		return nil, err
	}
	email, err := vo.EmailFromString(s.Email)
	if err != nil {
		return nil, err
	}
	if hashedPassword == "" {
		return nil, errs.NewValidation("password", errs.ReasonEmpty, "password cannot be empty")
	}
	status, err := vo.UserStatusFromString(s.Status)
	if err != nil {
		return nil, err
	}
	roles := make([]vo.UserRole, 0, len(s.Roles))
	for _, raw := range s.Roles {
		r, err := vo.UserRoleFromString(raw)
		if err != nil {
			return nil, err
		}
		roles = append(roles, r)
	}
	set, err := uniqueRoles(roles)
	if err != nil {
		return nil, err
	}
	u := &User{
		id:        id,
		email:     email,
		password:  hashedPassword,
		roles:     set,
		status:    status,
		createdAt: s.CreatedAt,
		updatedAt: s.UpdatedAt,
	}
	if s.TenantID != nil {
		u.tenantID = *s.TenantID
	}
	return u, nil
}

func uniqueRoles(in []vo.UserRole) ([]vo.UserRole, error) {
	out := make([]vo.UserRole, 0, len(in))
	for _, r := range in {
		if !r.IsValid() {
			return nil, errs.NewValidation("role", errs.ReasonInvalidRole, fmt.Sprintf("invalid role type %d", r))
		}
		dup := false
		for _, existing := range out {
			if existing.Equals(r) {
				dup = true
				break
			}
		}
		if !dup {
			out = append(out, r)
		}
	}
	return out, nil
}

func (u *User) ID() vo.UserID         { return u.id }
func (u *User) Email() vo.Email       { return u.email }
func (u *User) PasswordHash() string  { return u.password }
func (u *User) Status() vo.UserStatus { return u.status }
func (u *User) TenantID() string      { return u.tenantID }
func (u *User) CreatedAt() time.Time  { return u.createdAt }
func (u *User) UpdatedAt() time.Time  { return u.updatedAt }
func (u *User) String() string        { return u.email.String() }

func (u *User) IsActive() bool    { return u.status.IsActive() }
func (u *User) CanLogin() bool    { return u.status.CanLogin() }
func (u *User) IsDeleted() bool   { return u.status.IsDeleted() }
func (u *User) IsSuspended() bool { return u.status.IsSuspended() }

func (u *User) touch() { u.updatedAt = now() }

// BelongsToTenant is false for users without a tenant, whatever t is.
func (u *User) BelongsToTenant(t string) bool {
	return u.tenantID != "" && u.tenantID == t
}

// Roles returns a copy of the role set.
func (u *User) Roles() []vo.UserRole {
	out := make([]vo.UserRole, len(u.roles))
	copy(out, u.roles)
	return out
}

// RoleNames returns the ROLE_* wire values.
func (u *User) RoleNames() []string {
	out := make([]string, 0, len(u.roles))
	for _, r := range u.roles {
		out = append(out, r.String())
	}
	return out
}

func (u *User) ChangeEmail(email vo.Email) error {
	if email.IsZero() {
		return errs.NewValidation("email", errs.ReasonEmpty, "email is required")
	}
	if u.email.Equals(email) {
		return nil
	}
	u.email = email
	u.touch()
	return nil
}

func (u *User) ChangePassword(hashedPassword string) error {
	if hashedPassword == "" {
		return errs.NewValidation("password", errs.ReasonEmpty, "password cannot be empty")
	}
	u.password = hashedPassword
	u.touch()
	return nil
}

// ChangeStatus sets status without lifecycle guards; equal status is a no-op.
func (u *User) ChangeStatus(status vo.UserStatus) error {
	if !status.IsValid() {
		return errs.NewValidation("status", errs.ReasonInvalidStatus, "")
	}
	if u.status.Equals(status) {
		return nil
	}
	u.status = status
	u.touch()
	return nil
}

func (u *User) Activate() error {
	if !u.status.CanBeActivated() {
		return &errs.TransitionError{Op: "activated", From: u.status.String()}
	}
	return u.ChangeStatus(vo.StatusActive)
}

func (u *User) Deactivate() error {
	if !u.status.CanBeDeactivated() {
		return &errs.TransitionError{Op: "deactivated", From: u.status.String()}
	}
	return u.ChangeStatus(vo.StatusInactive)
}

// Suspend is idempotent. It does not guard against deleted users; see DESIGN.md.
func (u *User) Suspend() {
	if u.status.IsSuspended() {
		return
	}
	_ = u.ChangeStatus(vo.StatusSuspended)
}

// MarkAsDeleted moves the user to the terminal deleted status. The row is kept.
func (u *User) MarkAsDeleted() {
	_ = u.ChangeStatus(vo.StatusDeleted)
}

func (u *User) AddRole(role vo.UserRole) error {
	if !role.IsValid() {
		return errs.NewValidation("role", errs.ReasonInvalidRole, "")
	}
	if u.HasRole(role) {
		return nil
	}
	u.roles = append(u.roles, role)
	u.touch()
	return nil
}

// RemoveRole always touches, and may leave the role set empty.
func (u *User) RemoveRole(role vo.UserRole) {
	kept := u.roles[:0]
	for _, r := range u.roles {
		if !r.Equals(role) {
			kept = append(kept, r)
		}
	}
	u.roles = kept
	u.touch()
}

func (u *User) HasRole(role vo.UserRole) bool {
	for _, r := range u.roles {
		if r.Equals(role) {
			return true
		}
	}
	return false
}

func (u *User) HasAnyRole(roles ...vo.UserRole) bool {
	for _, r := range roles {
		if u.HasRole(r) {
			return true
		}
	}
	return false
}

func (u *User) AssignToTenant(tenantID string) error {
	if tenantID == "" {
		return errs.NewValidation("tenant_id", errs.ReasonEmpty, "tenant id cannot be empty")
	}
	u.tenantID = tenantID
	u.touch()
	return nil
}

func (u *User) RemoveFromTenant() {
	u.tenantID = ""
	u.touch()
}

func (u *User) HasAdminPrivileges() bool {
	for _, r := range u.roles {
		if r.HasAdminPrivileges() {
			return true
		}
	}
	return false
}

func (u *User) HasManagerPrivileges() bool {
	for _, r := range u.roles {
		if r.HasManagerPrivileges() {
			return true
		}
	}
	return false
}

func (u *User) CanManageTenant() bool {
	for _, r := range u.roles {
		if r.CanManageTenant() {
			return true
		}
	}
	return false
}
