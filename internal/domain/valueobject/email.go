package valueobject

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/oksasatya/go-ddd-auth/internal/domain/errs"
)

const (
	maxEmailLength     = 254
	maxLocalPartLength = 64
)

// dot-atom local part, dotted domain of hyphen-safe labels
var emailPattern = regexp.MustCompile(
	"^[a-zA-Z0-9!#$%&'*+/=?^_`{|}~-]+(\\.[a-zA-Z0-9!#$%&'*+/=?^_`{|}~-]+)*" +
		"@([a-zA-Z0-9]([a-zA-Z0-9-]*[a-zA-Z0-9])?\\.)+[a-zA-Z0-9]([a-zA-Z0-9-]*[a-zA-Z0-9])?$",
)

// Email is a validated, lowercased address. The zero value is not a valid Email.
type Email struct {
	value string
}

// EmailFromString trims, validates and lowercases raw.
func EmailFromString(raw string) (Email, error) {
	v := strings.TrimSpace(raw)
	if v == "" {
		return Email{}, errs.NewValidation("email", errs.ReasonEmpty, "email cannot be empty")
	}
	if len(v) > maxEmailLength {
		return Email{}, errs.NewValidation("email", errs.ReasonTooLong, fmt.Sprintf("maximum %d characters", maxEmailLength))
	}
	if !emailPattern.MatchString(v) {
		return Email{}, errs.NewValidation("email", errs.ReasonInvalidFormat, "")
	}
	if at := strings.IndexByte(v, '@'); at > maxLocalPartLength {
		return Email{}, errs.NewValidation("email", errs.ReasonInvalidFormat, "local part too long")
	}
	return Email{value: strings.ToLower(v)}, nil
}

func (e Email) String() string { return e.value }

func (e Email) Equals(other Email) bool { return e.value == other.value }

func (e Email) IsZero() bool { return e.value == "" }

// Domain returns the part after '@'.
func (e Email) Domain() (string, error) {
	at := strings.IndexByte(e.value, '@')
	if at < 0 {
		return "", fmt.Errorf("%w: email %q has no @ symbol", errs.ErrLogic, e.value)
	}
	return e.value[at+1:], nil
}

// LocalPart returns the part before '@'.
func (e Email) LocalPart() (string, error) {
	at := strings.IndexByte(e.value, '@')
	if at < 0 {
		return "", fmt.Errorf("%w: email %q has no @ symbol", errs.ErrLogic, e.value)
	}
	return e.value[:at], nil
}
