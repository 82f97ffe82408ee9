package application

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/oksasatya/go-ddd-auth/internal/domain/entity"
	"github.com/oksasatya/go-ddd-auth/internal/domain/service"
	vo "github.com/oksasatya/go-ddd-auth/internal/domain/valueobject"
	"github.com/oksasatya/go-ddd-auth/internal/infrastructure/memory"
)

const testPassword = "Str0ng!Pass"

// fakeSigner issues opaque "n.kind.email" tokens and remembers their claims.
type fakeSigner struct {
	mu     sync.Mutex
	n      int
	issued map[string]map[string]any
}

func newFakeSigner() *fakeSigner {
	return &fakeSigner{issued: make(map[string]map[string]any)}
}

func (f *fakeSigner) Issue(_ context.Context, u *entity.User, claims map[string]any) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.n++
	c := map[string]any{ClaimSubject: u.Email().String()}
	for k, v := range claims {
		c[k] = v
	}
	kind := "access"
	if isRefresh(c) {
		kind = "refresh"
	}
	tok := fmt.Sprintf("%d.%s.%s", f.n, kind, u.Email().String())
	f.issued[tok] = c
	return tok, nil
}

func (f *fakeSigner) Validate(_ context.Context, token string) (map[string]any, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	c, ok := f.issued[token]
	if !ok {
		return nil, errors.New("unknown token")
	}
	return c, nil
}

// forge registers arbitrary claims under token, as if a valid signature covered them.
func (f *fakeSigner) forge(token string, claims map[string]any) {
	f.mu.Lock()
	f.issued[token] = claims
	f.mu.Unlock()
}

type plainHasher struct{}

func (plainHasher) Hash(_ context.Context, p string) (string, error) { return "h:" + p, nil }

func (plainHasher) Verify(_ context.Context, h, p string) (bool, error) {
	return strings.TrimPrefix(h, "h:") == p, nil
}

type fixture struct {
	repo   *memory.UserRepository
	events *memory.EventRecorder
	signer *fakeSigner
	users  *service.UserService
	auth   *AuthenticationService
	uc     *AuthUseCase
	admin  *UserAdmin
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	f := &fixture{
		repo:   memory.NewUserRepository(),
		events: memory.NewEventRecorder(),
		signer: newFakeSigner(),
	}
	f.users = service.NewUserService(f.repo, plainHasher{}, f.events, nil)
	f.auth = NewAuthenticationService(f.signer, f.repo, nil)
	f.uc = NewAuthUseCase(f.users, f.repo, plainHasher{}, f.auth, nil)
	f.admin = NewUserAdmin(f.users, f.repo, nil, nil)
	return f
}

func (f *fixture) user(t *testing.T, raw string, status vo.UserStatus, tenant string, roles ...vo.UserRole) *entity.User {
	t.Helper()
	email, err := vo.EmailFromString(raw)
	require.NoError(t, err)
	u, err := f.users.CreateUser(context.Background(), service.CreateUserInput{
		Email:    email,
		Password: testPassword,
		Roles:    roles,
		TenantID: tenant,
		Status:   status,
	})
	require.NoError(t, err)
	return u
}
