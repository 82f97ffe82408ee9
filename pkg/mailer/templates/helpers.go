package templates

import (
	"time"
)

// Brand carries the sender-side fields every template shows.
type Brand struct {
	AppName        string
	CompanyName    string
	CompanyAddress string
	LogoURL        string
	SupportURL     string
	LoginURL       string
}

// Option pattern
type Option func(*EmailData)

func WithTime(t time.Time) Option {
	return func(d *EmailData) { d.Time = t.UTC().Format("02 January 2006, 15:04 MST") }
}

func WithRoles(roles []string) Option { return func(d *EmailData) { d.Roles = roles } }

func WithTenant(tenantID string) Option { return func(d *EmailData) { d.TenantID = tenantID } }

func WithStatus(previous, current string) Option {
	return func(d *EmailData) {
		d.PreviousStatus = previous
		d.Status = current
	}
}

// NewBaseEmailData fills the brand fields, then applies opts.
func NewBaseEmailData(b Brand, typ, email string, opts ...Option) EmailData {
	d := EmailData{
		Email:          email,
		Type:           typ,
		AppName:        b.AppName,
		CompanyName:    b.CompanyName,
		CompanyAddress: b.CompanyAddress,
		LogoURL:        b.LogoURL,
		SupportURL:     b.SupportURL,
		LoginURL:       b.LoginURL,
	}
	for _, opt := range opts {
		opt(&d)
	}
	return d
}

func NewWelcomeData(b Brand, email string, opts ...Option) map[string]any {
	return ToMap(NewBaseEmailData(b, Welcome, email, opts...))
}

func NewStatusChangedData(b Brand, email, previous, current string, opts ...Option) map[string]any {
	opts = append([]Option{WithStatus(previous, current)}, opts...)
	return ToMap(NewBaseEmailData(b, StatusChanged, email, opts...))
}
