package errs

import (
	"errors"
	"fmt"
)

var (
	ErrValidation         = errors.New("validation failed")
	ErrInvalidTransition  = errors.New("invalid status transition")
	ErrDuplicateEmail     = errors.New("user with this email already exists")
	ErrUserNotFound       = errors.New("user not found")
	ErrInactiveUser       = errors.New("user account is not active")
	ErrInvalidToken       = errors.New("invalid or expired token")
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrForbidden          = errors.New("operation not permitted")
	ErrLogic              = errors.New("logic error")
)

// Validation reasons shared by value objects and the password policy.
const (
	ReasonEmpty            = "empty"
	ReasonTooLong          = "too long"
	ReasonTooShort         = "too short"
	ReasonInvalidFormat    = "invalid format"
	ReasonInvalidRole      = "invalid role"
	ReasonInvalidStatus    = "invalid status"
	ReasonNotPositive      = "not positive"
	ReasonMissingUppercase = "missing uppercase"
	ReasonMissingLowercase = "missing lowercase"
	ReasonMissingDigit     = "missing digit"
	ReasonMissingSpecial   = "missing special"
)

// ValidationError reports caller-fixable input. It matches ErrValidation.
type ValidationError struct {
	Field  string
	Reason string
	Detail string
}

func NewValidation(field, reason, detail string) *ValidationError {
	return &ValidationError{Field: field, Reason: reason, Detail: detail}
}

func (e *ValidationError) Error() string {
	if e.Detail != "" {
		return fmt.Sprintf("%s: %s (%s)", e.Field, e.Reason, e.Detail)
	}
	return fmt.Sprintf("%s: %s", e.Field, e.Reason)
}

func (e *ValidationError) Is(target error) bool { return target == ErrValidation }

// TransitionError is returned when a lifecycle guard rejects a status change.
type TransitionError struct {
	Op   string
	From string
}

func (e *TransitionError) Error() string {
	return fmt.Sprintf("user with status %q cannot be %s", e.From, e.Op)
}

func (e *TransitionError) Is(target error) bool { return target == ErrInvalidTransition }

// ReasonOf returns the validation reason carried by err, or "".
func ReasonOf(err error) string {
	var ve *ValidationError
	if errors.As(err, &ve) {
		return ve.Reason
	}
	return ""
}
