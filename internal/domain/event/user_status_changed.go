package event

import (
	"time"

	vo "github.com/oksasatya/go-ddd-auth/internal/domain/valueobject"
)

type UserStatusChanged struct {
	userID     vo.UserID
	previous   vo.UserStatus
	current    vo.UserStatus
	occurredAt time.Time
}

func NewUserStatusChanged(id vo.UserID, previous, current vo.UserStatus) UserStatusChanged {
	return UserStatusChanged{userID: id, previous: previous, current: current, occurredAt: now()}
}

func (e UserStatusChanged) Name() string                  { return NameUserStatusChanged }
func (e UserStatusChanged) AggregateID() vo.UserID        { return e.userID }
func (e UserStatusChanged) OccurredAt() time.Time         { return e.occurredAt }
func (e UserStatusChanged) UserID() vo.UserID             { return e.userID }
func (e UserStatusChanged) PreviousStatus() vo.UserStatus { return e.previous }
func (e UserStatusChanged) NewStatus() vo.UserStatus      { return e.current }

func (e UserStatusChanged) IsActivation() bool {
	return e.current.IsActive() && !e.previous.IsActive()
}

func (e UserStatusChanged) IsDeactivation() bool {
	return !e.current.IsActive() && e.previous.IsActive()
}

func (e UserStatusChanged) IsSuspension() bool {
	return e.current.IsSuspended() && !e.previous.IsSuspended()
}

func (e UserStatusChanged) IsDeletion() bool {
	return e.current.IsDeleted() && !e.previous.IsDeleted()
}

func (e UserStatusChanged) ToMap() map[string]any {
	return map[string]any{
		"userId":         e.userID.String(),
		"previousStatus": e.previous.String(),
		"newStatus":      e.current.String(),
		"occurredAt":     e.occurredAt.Format(timeLayout),
		"isActivation":   e.IsActivation(),
		"isDeactivation": e.IsDeactivation(),
		"isSuspension":   e.IsSuspension(),
		"isDeletion":     e.IsDeletion(),
	}
}
