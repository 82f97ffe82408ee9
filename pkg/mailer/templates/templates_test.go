package templates

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var brand = Brand{
	AppName:     "Acme ID",
	CompanyName: "Acme",
	SupportURL:  "https://acme.test/help",
	LoginURL:    "https://acme.test/login",
}

func TestRender_Welcome(t *testing.T) {
	data := NewWelcomeData(brand, "jo@co.com",
		WithRoles([]string{"ROLE_USER", "ROLE_MANAGER"}),
		WithTenant("tenant-9"),
		WithTime(time.Date(2025, 4, 1, 9, 30, 0, 0, time.UTC)))

	subject, text, html, err := Render(Welcome, data)
	require.NoError(t, err)
	assert.Equal(t, "Welcome to Acme ID", subject)
	assert.Contains(t, text, "Hi jo@co.com")
	assert.Contains(t, text, "Roles: ROLE_USER, ROLE_MANAGER")
	assert.Contains(t, text, "Organization: tenant-9")
	assert.Contains(t, text, "01 April 2025, 09:30 UTC")
	assert.Contains(t, html, `<a href="https://acme.test/login">Sign in</a>`)
}

func TestRender_WelcomeDefaults(t *testing.T) {
	subject, text, _, err := Render(Welcome, NewWelcomeData(Brand{}, "jo@co.com"))
	require.NoError(t, err)
	assert.Equal(t, "Welcome to our service", subject)
	assert.Contains(t, text, "Created: just now")
	assert.NotContains(t, text, "Roles:")
	assert.NotContains(t, text, "<no value>")
}

func TestRender_StatusChanged(t *testing.T) {
	tests := []struct {
		current string
		subject string
		line    string
	}{
		{"active", "Your account is active", "You can sign in again at https://acme.test/login."},
		{"suspended", "Your account has been suspended", "while your account is suspended"},
		{"deleted", "Your account has been deleted", "while your account is deleted"},
		{"inactive", "Your account status changed", "while your account is inactive"},
	}
	for _, tc := range tests {
		t.Run(tc.current, func(t *testing.T) {
			subject, text, html, err := Render(StatusChanged, NewStatusChangedData(brand, "jo@co.com", "pending", tc.current))
			require.NoError(t, err)
			assert.Equal(t, tc.subject, subject)
			assert.Contains(t, text, "from pending to "+tc.current)
			assert.Contains(t, text, tc.line)
			assert.Contains(t, html, "<b>"+tc.current+"</b>")
		})
	}
}

func TestRender_HTMLEscapes(t *testing.T) {
	_, _, html, err := Render(Welcome, NewWelcomeData(brand, "<script>@co.com"))
	require.NoError(t, err)
	assert.NotContains(t, html, "<script>")
	assert.Contains(t, html, "&lt;script&gt;")
}

func TestRender_UnknownTemplate(t *testing.T) {
	_, _, _, err := Render("password_reset", nil)
	assert.Error(t, err)
}

func TestDefaultFn(t *testing.T) {
	assert.Equal(t, "x", defaultFn("x", ""))
	assert.Equal(t, "x", defaultFn("x", "  "))
	assert.Equal(t, "x", defaultFn("x", nil))
	assert.Equal(t, "x", defaultFn("x", 0))
	assert.Equal(t, 3, defaultFn("x", 3))
	assert.Equal(t, "v", defaultFn("x", "v"))
}
