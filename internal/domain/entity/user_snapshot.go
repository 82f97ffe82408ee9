package entity

import "time"

// Snapshot is the read-only projection handed to persistence and transport layers.
// It never carries the password hash.
type Snapshot struct {
	ID        string    `json:"id"`
	Email     string    `json:"email"`
	Roles     []string  `json:"roles"`
	Status    string    `json:"status"`
	TenantID  *string   `json:"tenantId"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

func (u *User) Snapshot() Snapshot {
	s := Snapshot{
		ID:        u.id.String(),
		Email:     u.email.String(),
		Roles:     u.RoleNames(),
		Status:    u.status.String(),
		CreatedAt: u.createdAt,
		UpdatedAt: u.updatedAt,
	}
	if u.tenantID != "" {
		t := u.tenantID
		s.TenantID = &t
	}
	return s
}
