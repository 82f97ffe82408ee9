package event

import (
	"time"

	vo "github.com/oksasatya/go-ddd-auth/internal/domain/valueobject"
)

type UserCreated struct {
	userID     vo.UserID
	email      vo.Email
	status     vo.UserStatus
	roles      []vo.UserRole
	tenantID   string
	occurredAt time.Time
}

func NewUserCreated(id vo.UserID, email vo.Email, status vo.UserStatus, roles []vo.UserRole, tenantID string) UserCreated {
	rs := make([]vo.UserRole, len(roles))
	copy(rs, roles)
	return UserCreated{
		userID:     id,
		email:      email,
		status:     status,
		roles:      rs,
		tenantID:   tenantID,
		occurredAt: now(),
	}
}

func (e UserCreated) Name() string           { return NameUserCreated }
func (e UserCreated) AggregateID() vo.UserID { return e.userID }
func (e UserCreated) OccurredAt() time.Time  { return e.occurredAt }
func (e UserCreated) UserID() vo.UserID      { return e.userID }
func (e UserCreated) Email() vo.Email        { return e.email }
func (e UserCreated) Status() vo.UserStatus  { return e.status }
func (e UserCreated) TenantID() string       { return e.tenantID }

func (e UserCreated) Roles() []vo.UserRole {
	out := make([]vo.UserRole, len(e.roles))
	copy(out, e.roles)
	return out
}

func (e UserCreated) ToMap() map[string]any {
	roles := make([]any, 0, len(e.roles))
	for _, r := range e.roles {
		roles = append(roles, r.String())
	}
	var tenant any
	if e.tenantID != "" {
		tenant = e.tenantID
	}
	return map[string]any{
		"userId":     e.userID.String(),
		"email":      e.email.String(),
		"status":     e.status.String(),
		"roles":      roles,
		"tenantId":   tenant,
		"occurredAt": e.occurredAt.Format(timeLayout),
	}
}
