package service

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/oksasatya/go-ddd-auth/internal/domain/entity"
	"github.com/oksasatya/go-ddd-auth/internal/domain/errs"
	"github.com/oksasatya/go-ddd-auth/internal/domain/event"
	vo "github.com/oksasatya/go-ddd-auth/internal/domain/valueobject"
	"github.com/oksasatya/go-ddd-auth/internal/infrastructure/memory"
)

const strongPassword = "Str0ng!Pass"

type prefixHasher struct{}

func (prefixHasher) Hash(_ context.Context, plain string) (string, error) { return "h:" + plain, nil }

func (prefixHasher) Verify(_ context.Context, hash, plain string) (bool, error) {
	return strings.TrimPrefix(hash, "h:") == plain, nil
}

type failingHasher struct{}

func (failingHasher) Hash(context.Context, string) (string, error) {
	return "", errors.New("hasher down")
}
func (failingHasher) Verify(context.Context, string, string) (bool, error) { return false, nil }

func newService(t *testing.T) (*UserService, *memory.UserRepository, *memory.EventRecorder) {
	t.Helper()
	repo := memory.NewUserRepository()
	rec := memory.NewEventRecorder()
	return NewUserService(repo, prefixHasher{}, rec, nil), repo, rec
}

func email(t *testing.T, raw string) vo.Email {
	t.Helper()
	e, err := vo.EmailFromString(raw)
	require.NoError(t, err)
	return e
}

func createUser(t *testing.T, s *UserService, raw string, status vo.UserStatus, roles ...vo.UserRole) *entity.User {
	t.Helper()
	u, err := s.CreateUser(context.Background(), CreateUserInput{
		Email:    email(t, raw),
		Password: strongPassword,
		Roles:    roles,
		Status:   status,
	})
	require.NoError(t, err)
	return u
}

func TestCreateUser(t *testing.T) {
	s, repo, rec := newService(t)
	ctx := context.Background()

	u := createUser(t, s, "Jane@Example.com", 0)
	assert.Equal(t, vo.StatusPending, u.Status())
	assert.Equal(t, []vo.UserRole{vo.RoleUser}, u.Roles())
	assert.Equal(t, "h:"+strongPassword, u.PasswordHash())

	stored, err := repo.FindByEmail(ctx, email(t, "jane@example.com"))
	require.NoError(t, err)
	assert.True(t, stored.ID().Equals(u.ID()))

	events := rec.Events()
	require.Len(t, events, 1)
	created, ok := events[0].(event.UserCreated)
	require.True(t, ok)
	assert.Equal(t, vo.StatusPending, created.Status())
	assert.True(t, created.UserID().Equals(u.ID()))
}

func TestCreateUser_Failures(t *testing.T) {
	s, repo, rec := newService(t)
	ctx := context.Background()
	createUser(t, s, "taken@example.com", vo.StatusActive)
	rec.Reset()

	_, err := s.CreateUser(ctx, CreateUserInput{Email: email(t, "TAKEN@example.com"), Password: strongPassword})
	assert.ErrorIs(t, err, errs.ErrDuplicateEmail)

	_, err = s.CreateUser(ctx, CreateUserInput{Email: email(t, "new@example.com"), Password: "password123"})
	assert.Equal(t, errs.ReasonMissingUppercase, errs.ReasonOf(err))

	ok, err := repo.ExistsByEmail(ctx, email(t, "new@example.com"))
	require.NoError(t, err)
	assert.False(t, ok)
	assert.Empty(t, rec.Events())

	s.Hasher = failingHasher{}
	_, err = s.CreateUser(ctx, CreateUserInput{Email: email(t, "new@example.com"), Password: strongPassword})
	assert.ErrorContains(t, err, "hasher down")
}

func TestChangeUserStatus(t *testing.T) {
	s, repo, rec := newService(t)
	ctx := context.Background()
	u := createUser(t, s, "a@example.com", vo.StatusActive)
	rec.Reset()

	require.NoError(t, s.ChangeUserStatus(ctx, u, vo.StatusActive))
	assert.Empty(t, rec.Events())

	// guards are bypassed: deleted -> active is allowed here
	require.NoError(t, s.ChangeUserStatus(ctx, u, vo.StatusDeleted))
	require.NoError(t, s.ChangeUserStatus(ctx, u, vo.StatusActive))

	events := rec.Events()
	require.Len(t, events, 2)
	last := events[1].(event.UserStatusChanged)
	assert.Equal(t, vo.StatusDeleted, last.PreviousStatus())
	assert.Equal(t, vo.StatusActive, last.NewStatus())

	stored, err := repo.FindByID(ctx, u.ID())
	require.NoError(t, err)
	assert.Equal(t, vo.StatusActive, stored.Status())
}

func TestActivateAndDeactivateUser_EmitNoEvent(t *testing.T) {
	s, repo, rec := newService(t)
	ctx := context.Background()
	u := createUser(t, s, "a@example.com", 0)
	rec.Reset()

	require.NoError(t, s.ActivateUser(ctx, u))
	require.NoError(t, s.DeactivateUser(ctx, u))
	assert.Empty(t, rec.Events())

	stored, err := repo.FindByID(ctx, u.ID())
	require.NoError(t, err)
	assert.Equal(t, vo.StatusInactive, stored.Status())

	err = s.DeactivateUser(ctx, u)
	assert.ErrorIs(t, err, errs.ErrInvalidTransition)
}

func TestSuspendAndDeleteUser_EmitOnlyOnChange(t *testing.T) {
	s, repo, rec := newService(t)
	ctx := context.Background()
	u := createUser(t, s, "a@example.com", vo.StatusActive)
	rec.Reset()

	require.NoError(t, s.SuspendUser(ctx, u))
	require.NoError(t, s.SuspendUser(ctx, u))
	require.NoError(t, s.DeleteUser(ctx, u))
	require.NoError(t, s.DeleteUser(ctx, u))

	events := rec.Events()
	require.Len(t, events, 2)
	first := events[0].(event.UserStatusChanged)
	assert.True(t, first.IsSuspension())
	assert.True(t, first.IsDeactivation())
	second := events[1].(event.UserStatusChanged)
	assert.True(t, second.IsDeletion())
	assert.Equal(t, vo.StatusSuspended, second.PreviousStatus())
	assert.True(t, u.IsDeleted())

	stored, err := repo.FindByID(ctx, u.ID())
	require.NoError(t, err)
	assert.Equal(t, vo.StatusDeleted, stored.Status())
}

func TestSuspendAndDeleteUser_RepeatIsSilent(t *testing.T) {
	tests := []struct {
		name   string
		status vo.UserStatus
		op     func(s *UserService, ctx context.Context, u *entity.User) error
	}{
		{"suspend suspended", vo.StatusSuspended, (*UserService).SuspendUser},
		{"delete deleted", vo.StatusDeleted, (*UserService).DeleteUser},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			s, _, rec := newService(t)
			u := createUser(t, s, "a@example.com", tc.status)
			rec.Reset()

			require.NoError(t, tc.op(s, context.Background(), u))
			assert.Len(t, rec.Events(), 0)
			assert.Equal(t, tc.status, u.Status())
		})
	}
}

func TestChangeUserPasswordAndVerify(t *testing.T) {
	s, _, _ := newService(t)
	ctx := context.Background()
	u := createUser(t, s, "a@example.com", vo.StatusActive)

	assert.Equal(t, errs.ReasonTooShort, errs.ReasonOf(s.ChangeUserPassword(ctx, u, "Ab1!")))
	ok, err := s.VerifyPassword(ctx, u, strongPassword)
	require.NoError(t, err)
	assert.True(t, ok)

	require.NoError(t, s.ChangeUserPassword(ctx, u, "N3w!Password"))
	ok, err = s.VerifyPassword(ctx, u, strongPassword)
	require.NoError(t, err)
	assert.False(t, ok)
	ok, err = s.VerifyPassword(ctx, u, "N3w!Password")
	require.NoError(t, err)
	assert.True(t, ok)

	assert.True(t, s.IsPasswordValid(strongPassword))
	assert.False(t, s.IsPasswordValid("weak"))
}

func TestChangeUserEmail(t *testing.T) {
	s, repo, _ := newService(t)
	ctx := context.Background()
	a := createUser(t, s, "a@example.com", vo.StatusActive)
	createUser(t, s, "b@example.com", vo.StatusActive)

	assert.ErrorIs(t, s.ChangeUserEmail(ctx, a, email(t, "b@example.com")), errs.ErrDuplicateEmail)
	assert.NoError(t, s.ChangeUserEmail(ctx, a, email(t, "A@EXAMPLE.COM")))

	require.NoError(t, s.ChangeUserEmail(ctx, a, email(t, "c@example.com")))
	stored, err := repo.FindByEmail(ctx, email(t, "c@example.com"))
	require.NoError(t, err)
	assert.True(t, stored.ID().Equals(a.ID()))
}

func TestTenantAndRoleOperations(t *testing.T) {
	s, repo, _ := newService(t)
	ctx := context.Background()
	u := createUser(t, s, "a@example.com", vo.StatusActive)

	assert.ErrorIs(t, s.AssignUserToTenant(ctx, u, ""), errs.ErrValidation)
	require.NoError(t, s.AssignUserToTenant(ctx, u, "t1"))
	require.NoError(t, s.AddRoleToUser(ctx, u, vo.RoleManager))
	require.NoError(t, s.RemoveRoleFromUser(ctx, u, vo.RoleUser))

	stored, err := repo.FindByID(ctx, u.ID())
	require.NoError(t, err)
	assert.Equal(t, "t1", stored.TenantID())
	assert.Equal(t, []vo.UserRole{vo.RoleManager}, stored.Roles())

	require.NoError(t, s.RemoveUserFromTenant(ctx, u))
	stored, err = repo.FindByID(ctx, u.ID())
	require.NoError(t, err)
	assert.Equal(t, "", stored.TenantID())
}

func TestCanUserAccessTenant(t *testing.T) {
	s, _, _ := newService(t)
	admin := createUser(t, s, "admin@example.com", vo.StatusActive, vo.RoleAdmin)
	member := createUser(t, s, "member@example.com", vo.StatusActive)
	require.NoError(t, member.AssignToTenant("t1"))

	assert.True(t, s.CanUserAccessTenant(admin, "anything"))
	assert.True(t, s.CanUserAccessTenant(member, "t1"))
	assert.False(t, s.CanUserAccessTenant(member, "t2"))
}

func TestCanUserManageUser(t *testing.T) {
	s, _, _ := newService(t)
	mk := func(raw, tenant string, roles ...vo.UserRole) *entity.User {
		u := createUser(t, s, raw, vo.StatusActive, roles...)
		if tenant != "" {
			require.NoError(t, u.AssignToTenant(tenant))
		}
		return u
	}

	admin := mk("admin@x.io", "", vo.RoleAdmin)
	tenantAdmin := mk("ta@x.io", "t1", vo.RoleTenantAdmin)
	orphanTenantAdmin := mk("ota@x.io", "", vo.RoleTenantAdmin)
	manager := mk("mgr@x.io", "t1", vo.RoleManager)
	plain := mk("plain@x.io", "t1")
	peerManager := mk("peer@x.io", "t1", vo.RoleManager)
	outsider := mk("out@x.io", "t2")

	tests := []struct {
		name            string
		manager, target *entity.User
		want            bool
	}{
		{"admin manages anyone", admin, outsider, true},
		{"tenant admin same tenant", tenantAdmin, peerManager, true},
		{"tenant admin other tenant", tenantAdmin, outsider, false},
		{"tenant admin without tenant", orphanTenantAdmin, plain, false},
		{"manager manages plain user", manager, plain, true},
		{"manager cannot manage manager", manager, peerManager, false},
		{"manager other tenant", manager, outsider, false},
		{"plain user manages nobody", plain, plain, false},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, s.CanUserManageUser(tc.manager, tc.target))
		})
	}
}
