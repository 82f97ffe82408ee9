package valueobject

import (
	"strings"

	"github.com/google/uuid"

	"github.com/oksasatya/go-ddd-auth/internal/domain/errs"
)

// UserID is the UUID identity of a user.
type UserID struct {
	value uuid.UUID
}

// GenerateUserID returns a random version 4 id.
func GenerateUserID() UserID {
	return UserID{value: uuid.New()}
}

// UserIDFromString accepts any syntactically valid UUID in 8-4-4-4-12 form.
func UserIDFromString(raw string) (UserID, error) {
	v := strings.TrimSpace(raw)
	if v == "" {
		return UserID{}, errs.NewValidation("user_id", errs.ReasonEmpty, "user id cannot be empty")
	}
	// uuid.Parse also takes urn: and braced forms; only the hyphenated form is allowed here
	if len(v) != 36 {
		return UserID{}, errs.NewValidation("user_id", errs.ReasonInvalidFormat, "invalid UUID format")
	}
	id, err := uuid.Parse(v)
	if err != nil {
		return UserID{}, errs.NewValidation("user_id", errs.ReasonInvalidFormat, "invalid UUID format")
	}
	return UserID{value: id}, nil
}

// String returns the canonical lowercase form.
func (id UserID) String() string { return id.value.String() }

func (id UserID) Equals(other UserID) bool { return id.value == other.value }

func (id UserID) IsZero() bool { return id.value == uuid.Nil }

func (id UserID) UUID() uuid.UUID { return id.value }
