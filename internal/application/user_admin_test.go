package application

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/oksasatya/go-ddd-auth/internal/domain/entity"
	"github.com/oksasatya/go-ddd-auth/internal/domain/errs"
	"github.com/oksasatya/go-ddd-auth/internal/domain/event"
	vo "github.com/oksasatya/go-ddd-auth/internal/domain/valueobject"
)

type stubSearcher struct {
	hits []entity.Snapshot
	err  error
}

func (s stubSearcher) Search(context.Context, string, int) ([]entity.Snapshot, error) {
	return s.hits, s.err
}

func TestUserAdmin_ChangeStatus(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	admin := f.user(t, "admin@x.io", vo.StatusActive, "", vo.RoleAdmin)
	target := f.user(t, "t@x.io", vo.StatusActive, "t1")
	f.events.Reset()

	snap, err := f.admin.ChangeStatus(ctx, admin, target.ID().String(), ActionSuspend)
	require.NoError(t, err)
	assert.Equal(t, "suspended", snap.Status)

	snap, err = f.admin.ChangeStatus(ctx, admin, target.ID().String(), ActionActivate)
	require.NoError(t, err)
	assert.Equal(t, "active", snap.Status)

	_, err = f.admin.ChangeStatus(ctx, admin, target.ID().String(), ActionActivate)
	assert.ErrorIs(t, err, errs.ErrInvalidTransition)

	_, err = f.admin.ChangeStatus(ctx, admin, target.ID().String(), "explode")
	assert.ErrorIs(t, err, errs.ErrValidation)

	_, err = f.admin.ChangeStatus(ctx, admin, vo.GenerateUserID().String(), ActionSuspend)
	assert.ErrorIs(t, err, errs.ErrUserNotFound)

	_, err = f.admin.ChangeStatus(ctx, admin, "not-an-id", ActionSuspend)
	assert.ErrorIs(t, err, errs.ErrValidation)

	events := f.events.Events()
	require.Len(t, events, 1, "only the suspension announces itself")
	assert.Equal(t, event.NameUserStatusChanged, events[0].Name())
}

func TestUserAdmin_Authorization(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	manager := f.user(t, "mgr@x.io", vo.StatusActive, "t1", vo.RoleManager)
	peer := f.user(t, "peer@x.io", vo.StatusActive, "t1", vo.RoleManager)
	plain := f.user(t, "plain@x.io", vo.StatusActive, "t1")
	outsider := f.user(t, "out@x.io", vo.StatusActive, "t2")

	_, err := f.admin.ChangeStatus(ctx, manager, plain.ID().String(), ActionSuspend)
	assert.NoError(t, err)

	_, err = f.admin.ChangeStatus(ctx, manager, peer.ID().String(), ActionSuspend)
	assert.ErrorIs(t, err, errs.ErrForbidden)

	_, err = f.admin.ChangeStatus(ctx, manager, outsider.ID().String(), ActionSuspend)
	assert.ErrorIs(t, err, errs.ErrForbidden)

	_, err = f.admin.ChangeStatus(ctx, plain, outsider.ID().String(), ActionSuspend)
	assert.ErrorIs(t, err, errs.ErrForbidden)

	_, err = f.admin.AddRole(ctx, manager, plain.ID().String(), "ROLE_TENANT_ADMIN")
	assert.ErrorIs(t, err, errs.ErrForbidden, "cannot grant above own level")

	snap, err := f.admin.AddRole(ctx, manager, plain.ID().String(), "ROLE_TENANT_USER")
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{"ROLE_USER", "ROLE_TENANT_USER"}, snap.Roles)

	_, err = f.admin.SetStatus(ctx, manager, plain.ID().String(), "active")
	assert.ErrorIs(t, err, errs.ErrForbidden)

	_, err = f.admin.AssignTenant(ctx, manager, plain.ID().String(), "t2")
	assert.ErrorIs(t, err, errs.ErrForbidden)
}

func TestUserAdmin_RolesAndTenants(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	admin := f.user(t, "admin@x.io", vo.StatusActive, "", vo.RoleAdmin)
	target := f.user(t, "t@x.io", vo.StatusActive, "")

	snap, err := f.admin.AddRole(ctx, admin, target.ID().String(), "ROLE_MANAGER")
	require.NoError(t, err)
	assert.Equal(t, []string{"ROLE_USER", "ROLE_MANAGER"}, snap.Roles)

	snap, err = f.admin.RemoveRole(ctx, admin, target.ID().String(), "ROLE_USER")
	require.NoError(t, err)
	assert.Equal(t, []string{"ROLE_MANAGER"}, snap.Roles)

	_, err = f.admin.AddRole(ctx, admin, target.ID().String(), "ROLE_ROOT")
	assert.Equal(t, errs.ReasonInvalidRole, errs.ReasonOf(err))

	snap, err = f.admin.AssignTenant(ctx, admin, target.ID().String(), "t9")
	require.NoError(t, err)
	require.NotNil(t, snap.TenantID)
	assert.Equal(t, "t9", *snap.TenantID)

	snap, err = f.admin.RemoveTenant(ctx, admin, target.ID().String())
	require.NoError(t, err)
	assert.Nil(t, snap.TenantID)

	snap, err = f.admin.SetStatus(ctx, admin, target.ID().String(), "pending")
	require.NoError(t, err)
	assert.Equal(t, "pending", snap.Status)
}

func TestUserAdmin_List(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	admin := f.user(t, "admin@x.io", vo.StatusActive, "", vo.RoleAdmin)
	tenantAdmin := f.user(t, "ta@x.io", vo.StatusActive, "t1", vo.RoleTenantAdmin)
	f.user(t, "a@x.io", vo.StatusPending, "t1")
	f.user(t, "b@y.io", vo.StatusActive, "t2")

	all, err := f.admin.List(ctx, admin, UserFilter{})
	require.NoError(t, err)
	assert.Len(t, all, 4)

	mine, err := f.admin.List(ctx, tenantAdmin, UserFilter{})
	require.NoError(t, err)
	assert.Len(t, mine, 2)

	pending, err := f.admin.List(ctx, tenantAdmin, UserFilter{Status: "pending"})
	require.NoError(t, err)
	require.Len(t, pending, 1)
	assert.Equal(t, "a@x.io", pending[0].Email)

	_, err = f.admin.List(ctx, tenantAdmin, UserFilter{TenantID: "t2"})
	assert.ErrorIs(t, err, errs.ErrForbidden)

	byRole, err := f.admin.List(ctx, admin, UserFilter{Role: "ROLE_ADMIN"})
	require.NoError(t, err)
	assert.Len(t, byRole, 1)

	_, err = f.admin.List(ctx, admin, UserFilter{Status: "archived"})
	assert.ErrorIs(t, err, errs.ErrValidation)

	plain := f.user(t, "plain@x.io", vo.StatusActive, "t1")
	_, err = f.admin.List(ctx, plain, UserFilter{})
	assert.ErrorIs(t, err, errs.ErrForbidden)
}

func TestUserAdmin_Search(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	admin := f.user(t, "admin@x.io", vo.StatusActive, "", vo.RoleAdmin)
	f.user(t, "jane@corp.io", vo.StatusActive, "")

	hits, err := f.admin.Search(ctx, admin, "corp", 0)
	require.NoError(t, err)
	require.Len(t, hits, 1)
	assert.Equal(t, "jane@corp.io", hits[0].Email)

	f.admin.Searcher = stubSearcher{hits: []entity.Snapshot{{Email: "indexed@corp.io"}}}
	hits, err = f.admin.Search(ctx, admin, "corp", 5)
	require.NoError(t, err)
	require.Len(t, hits, 1)
	assert.Equal(t, "indexed@corp.io", hits[0].Email)

	f.admin.Searcher = stubSearcher{err: errors.New("cluster red")}
	hits, err = f.admin.Search(ctx, admin, "corp", 5)
	require.NoError(t, err)
	assert.Len(t, hits, 1)

	plain := f.user(t, "plain@x.io", vo.StatusActive, "")
	_, err = f.admin.Search(ctx, plain, "corp", 5)
	assert.ErrorIs(t, err, errs.ErrForbidden)
}

func TestUserAdmin_SelfService(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	u := f.user(t, "me@x.io", vo.StatusActive, "")
	f.user(t, "taken@x.io", vo.StatusActive, "")

	assert.ErrorIs(t, f.admin.ChangeOwnPassword(ctx, u, "Wr0ng!Pass", "N3w!Password"), errs.ErrInvalidCredentials)
	require.NoError(t, f.admin.ChangeOwnPassword(ctx, u, testPassword, "N3w!Password"))

	_, err := f.uc.Login(ctx, LoginCommand{Email: "me@x.io", Password: "N3w!Password"})
	require.NoError(t, err)

	_, err = f.admin.ChangeOwnEmail(ctx, u, "taken@x.io")
	assert.ErrorIs(t, err, errs.ErrDuplicateEmail)

	snap, err := f.admin.ChangeOwnEmail(ctx, u, "Moved@X.io")
	require.NoError(t, err)
	assert.Equal(t, "moved@x.io", snap.Email)

	got, err := f.admin.Get(ctx, u, u.ID().String())
	require.NoError(t, err)
	assert.Equal(t, "moved@x.io", got.Email)
}
