package valueobject

import (
	"fmt"
	"strings"

	"github.com/oksasatya/go-ddd-auth/internal/domain/errs"
)

// UserStatus is the lifecycle state of an account. The zero value is invalid.
type UserStatus uint8

const (
	StatusActive UserStatus = iota + 1
	StatusInactive
	StatusPending
	StatusSuspended
	StatusDeleted
)

var allStatuses = []UserStatus{StatusActive, StatusInactive, StatusPending, StatusSuspended, StatusDeleted}

func AllStatuses() []UserStatus {
	out := make([]UserStatus, len(allStatuses))
	copy(out, allStatuses)
	return out
}

// UserStatusFromString matches the lowercase wire value exactly.
func UserStatusFromString(raw string) (UserStatus, error) {
	for _, s := range allStatuses {
		if s.String() == raw {
			return s, nil
		}
	}
	valid := make([]string, 0, len(allStatuses))
	for _, s := range allStatuses {
		valid = append(valid, s.String())
	}
	return 0, errs.NewValidation("status", errs.ReasonInvalidStatus,
		fmt.Sprintf("invalid user status: %s. Valid statuses are: %s", raw, strings.Join(valid, ", ")))
}

func (s UserStatus) String() string {
	switch s {
	case StatusActive:
		return "active"
	case StatusInactive:
		return "inactive"
	case StatusPending:
		return "pending"
	case StatusSuspended:
		return "suspended"
	case StatusDeleted:
		return "deleted"
	default:
		return ""
	}
}

func (s UserStatus) IsValid() bool { return s.String() != "" }

func (s UserStatus) Equals(other UserStatus) bool { return s == other }

func (s UserStatus) IsActive() bool    { return s == StatusActive }
func (s UserStatus) IsInactive() bool  { return s == StatusInactive }
func (s UserStatus) IsPending() bool   { return s == StatusPending }
func (s UserStatus) IsSuspended() bool { return s == StatusSuspended }
func (s UserStatus) IsDeleted() bool   { return s == StatusDeleted }

func (s UserStatus) CanLogin() bool {
	switch s {
	case StatusActive:
		return true
	default:
		return false
	}
}

func (s UserStatus) CanBeActivated() bool {
	switch s {
	case StatusInactive, StatusPending, StatusSuspended:
		return true
	default:
		return false
	}
}

func (s UserStatus) CanBeDeactivated() bool {
	switch s {
	case StatusActive:
		return true
	default:
		return false
	}
}

func (s UserStatus) MarshalText() ([]byte, error) {
	if !s.IsValid() {
		return nil, errs.NewValidation("status", errs.ReasonInvalidStatus, "cannot marshal invalid status")
	}
	return []byte(s.String()), nil
}

func (s *UserStatus) UnmarshalText(b []byte) error {
	parsed, err := UserStatusFromString(string(b))
	if err != nil {
		return err
	}
	*s = parsed
	return nil
}
