package memory

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/oksasatya/go-ddd-auth/internal/domain/entity"
	"github.com/oksasatya/go-ddd-auth/internal/domain/errs"
	vo "github.com/oksasatya/go-ddd-auth/internal/domain/valueobject"
)

func mustUser(t *testing.T, email string, roles ...vo.UserRole) *entity.User {
	t.Helper()
	e, err := vo.EmailFromString(email)
	require.NoError(t, err)
	u, err := entity.NewUser(vo.GenerateUserID(), e, "hash", roles, vo.StatusActive, "")
	require.NoError(t, err)
	return u
}

func TestUserRepository_SaveAndFind(t *testing.T) {
	ctx := context.Background()
	repo := NewUserRepository()
	u := mustUser(t, "jane@example.com")
	require.NoError(t, repo.Save(ctx, u))

	byID, err := repo.FindByID(ctx, u.ID())
	require.NoError(t, err)
	assert.Equal(t, u.Email(), byID.Email())
	assert.Equal(t, "hash", byID.PasswordHash())

	byEmail, err := repo.FindByEmail(ctx, u.Email())
	require.NoError(t, err)
	assert.True(t, byEmail.ID().Equals(u.ID()))

	ok, err := repo.ExistsByEmail(ctx, u.Email())
	require.NoError(t, err)
	assert.True(t, ok)

	_, err = repo.FindByID(ctx, vo.GenerateUserID())
	assert.ErrorIs(t, err, errs.ErrUserNotFound)
}

func TestUserRepository_ReturnsDetachedCopies(t *testing.T) {
	ctx := context.Background()
	repo := NewUserRepository()
	u := mustUser(t, "jane@example.com")
	require.NoError(t, repo.Save(ctx, u))

	loaded, err := repo.FindByID(ctx, u.ID())
	require.NoError(t, err)
	loaded.Suspend()

	again, err := repo.FindByID(ctx, u.ID())
	require.NoError(t, err)
	assert.Equal(t, vo.StatusActive, again.Status())
}

func TestUserRepository_EmailChangeAndDuplicates(t *testing.T) {
	ctx := context.Background()
	repo := NewUserRepository()
	a := mustUser(t, "a@example.com")
	b := mustUser(t, "b@example.com")
	require.NoError(t, repo.Save(ctx, a))
	require.NoError(t, repo.Save(ctx, b))

	clash, err := vo.EmailFromString("a@example.com")
	require.NoError(t, err)
	require.NoError(t, b.ChangeEmail(clash))
	assert.ErrorIs(t, repo.Save(ctx, b), errs.ErrDuplicateEmail)

	fresh, err := vo.EmailFromString("c@example.com")
	require.NoError(t, err)
	require.NoError(t, a.ChangeEmail(fresh))
	require.NoError(t, repo.Save(ctx, a))

	old, err := vo.EmailFromString("a@example.com")
	require.NoError(t, err)
	ok, err := repo.ExistsByEmail(ctx, old)
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestUserRepository_ConcurrentInsertSameEmail(t *testing.T) {
	ctx := context.Background()
	repo := NewUserRepository()

	users := make([]*entity.User, 8)
	for i := range users {
		users[i] = mustUser(t, "race@example.com")
	}

	var wg sync.WaitGroup
	results := make(chan error, len(users))
	for _, u := range users {
		wg.Add(1)
		go func(u *entity.User) {
			defer wg.Done()
			results <- repo.Save(ctx, u)
		}(u)
	}
	wg.Wait()
	close(results)

	var ok, dup int
	for err := range results {
		if err == nil {
			ok++
			continue
		}
		require.ErrorIs(t, err, errs.ErrDuplicateEmail)
		dup++
	}
	assert.Equal(t, 1, ok)
	assert.Equal(t, 7, dup)
}

func TestUserRepository_Filters(t *testing.T) {
	ctx := context.Background()
	repo := NewUserRepository()
	admin := mustUser(t, "root@corp.io", vo.RoleAdmin)
	member := mustUser(t, "member@corp.io")
	require.NoError(t, member.AssignToTenant("t1"))
	suspended := mustUser(t, "gone@else.org")
	suspended.Suspend()
	for _, u := range []*entity.User{admin, member, suspended} {
		require.NoError(t, repo.Save(ctx, u))
	}

	got, err := repo.FindByTenant(ctx, "t1")
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "member@corp.io", got[0].Email().String())

	got, err = repo.FindByStatus(ctx, vo.StatusSuspended)
	require.NoError(t, err)
	require.Len(t, got, 1)

	got, err = repo.FindByRole(ctx, vo.RoleAdmin)
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.True(t, got[0].ID().Equals(admin.ID()))

	got, err = repo.FindByEmailPattern(ctx, "CORP")
	require.NoError(t, err)
	assert.Len(t, got, 2)

	got, err = repo.FindCreatedBetween(ctx, time.Now().Add(-time.Hour), time.Now().Add(time.Hour))
	require.NoError(t, err)
	assert.Len(t, got, 3)

	require.NoError(t, repo.Delete(ctx, admin))
	assert.ErrorIs(t, repo.Delete(ctx, admin), errs.ErrUserNotFound)
	_, err = repo.FindByEmail(ctx, admin.Email())
	assert.ErrorIs(t, err, errs.ErrUserNotFound)
}

func TestUserRepository_CanceledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	repo := NewUserRepository()
	_, err := repo.FindByID(ctx, vo.GenerateUserID())
	assert.ErrorIs(t, err, context.Canceled)
}
