package event

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	vo "github.com/oksasatya/go-ddd-auth/internal/domain/valueobject"
)

func TestUserStatusChanged_Predicates(t *testing.T) {
	id := vo.GenerateUserID()
	tests := []struct {
		from, to                                  vo.UserStatus
		activation, deactivation, suspend, delete bool
	}{
		{vo.StatusPending, vo.StatusActive, true, false, false, false},
		{vo.StatusActive, vo.StatusInactive, false, true, false, false},
		{vo.StatusActive, vo.StatusSuspended, false, true, true, false},
		{vo.StatusSuspended, vo.StatusDeleted, false, false, false, true},
		{vo.StatusActive, vo.StatusDeleted, false, true, false, true},
		{vo.StatusSuspended, vo.StatusSuspended, false, false, false, false},
	}
	for _, tc := range tests {
		t.Run(tc.from.String()+"->"+tc.to.String(), func(t *testing.T) {
			e := NewUserStatusChanged(id, tc.from, tc.to)
			assert.Equal(t, tc.activation, e.IsActivation())
			assert.Equal(t, tc.deactivation, e.IsDeactivation())
			assert.Equal(t, tc.suspend, e.IsSuspension())
			assert.Equal(t, tc.delete, e.IsDeletion())
		})
	}
}

func TestUserCreated_ToMap(t *testing.T) {
	prev := now
	now = func() time.Time { return time.Date(2025, 1, 2, 3, 4, 5, 0, time.UTC) }
	defer func() { now = prev }()

	email, err := vo.EmailFromString("Jane@Example.com")
	require.NoError(t, err)
	id := vo.GenerateUserID()
	e := NewUserCreated(id, email, vo.StatusActive, []vo.UserRole{vo.RoleUser}, "")

	m := e.ToMap()
	assert.Equal(t, id.String(), m["userId"])
	assert.Equal(t, "jane@example.com", m["email"])
	assert.Equal(t, "active", m["status"])
	assert.Equal(t, []any{"ROLE_USER"}, m["roles"])
	assert.Nil(t, m["tenantId"])
	assert.Equal(t, "2025-01-02 03:04:05", m["occurredAt"])
	assert.Equal(t, NameUserCreated, e.Name())
}

func TestEnvelope_JSONRoundTrip(t *testing.T) {
	id := vo.GenerateUserID()
	env := NewEnvelope(NewUserStatusChanged(id, vo.StatusActive, vo.StatusSuspended))

	b, err := json.Marshal(env)
	require.NoError(t, err)

	var got Envelope
	require.NoError(t, json.Unmarshal(b, &got))
	assert.Equal(t, NameUserStatusChanged, got.Name)
	assert.Equal(t, id.String(), got.AggregateID)
	assert.Equal(t, "suspended", got.StringField("newStatus"))
	assert.True(t, got.BoolField("isSuspension"))
	assert.False(t, got.BoolField("missing"))
	assert.Equal(t, "", got.StringField("missing"))
}
