package service

import (
	"context"

	"github.com/oksasatya/go-ddd-auth/internal/domain/errs"
)

const (
	MinPasswordLength = 8
	MaxPasswordLength = 128
)

// PasswordHasher turns plaintext into an opaque hash and checks candidates against it.
type PasswordHasher interface {
	Hash(ctx context.Context, plain string) (string, error)
	Verify(ctx context.Context, hash, plain string) (bool, error)
}

// ValidatePassword applies the strength policy. Checks run in a fixed order
// and the first failure wins. Lengths are counted in bytes.
func ValidatePassword(p string) error {
	switch {
	case p == "":
		return errs.NewValidation("password", errs.ReasonEmpty, "password cannot be empty")
	case len(p) < MinPasswordLength:
		return errs.NewValidation("password", errs.ReasonTooShort, "password must be at least 8 characters long")
	case len(p) > MaxPasswordLength:
		return errs.NewValidation("password", errs.ReasonTooLong, "password cannot be longer than 128 characters")
	}

	var upper, lower, digit, special bool
	for i := 0; i < len(p); i++ {
		c := p[i]
		switch {
		case c >= 'A' && c <= 'Z':
			upper = true
		case c >= 'a' && c <= 'z':
			lower = true
		case c >= '0' && c <= '9':
			digit = true
		default:
			special = true
		}
	}

	switch {
	case !upper:
		return errs.NewValidation("password", errs.ReasonMissingUppercase, "password must contain at least one uppercase letter")
	case !lower:
		return errs.NewValidation("password", errs.ReasonMissingLowercase, "password must contain at least one lowercase letter")
	case !digit:
		return errs.NewValidation("password", errs.ReasonMissingDigit, "password must contain at least one digit")
	case !special:
		return errs.NewValidation("password", errs.ReasonMissingSpecial, "password must contain at least one special character")
	}
	return nil
}
