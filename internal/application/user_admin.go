package application

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/oksasatya/go-ddd-auth/internal/domain/entity"
	"github.com/oksasatya/go-ddd-auth/internal/domain/errs"
	"github.com/oksasatya/go-ddd-auth/internal/domain/repository"
	"github.com/oksasatya/go-ddd-auth/internal/domain/service"
	vo "github.com/oksasatya/go-ddd-auth/internal/domain/valueobject"
)

// Status actions accepted by ChangeStatus.
const (
	ActionActivate   = "activate"
	ActionDeactivate = "deactivate"
	ActionSuspend    = "suspend"
	ActionDelete     = "delete"
)

const (
	defaultSearchSize = 10
	maxSearchSize     = 50
)

// UserFilter selects users for List. At most one criterion is applied, in
// field order; an empty filter lists the actor's tenant (or everything for admins).
type UserFilter struct {
	TenantID     string
	Status       string
	Role         string
	EmailPattern string
	From, To     time.Time
}

// UserAdmin backs the /api/users endpoints. Every call is made on behalf of
// an authenticated actor and checked against UserService's access rules.
type UserAdmin struct {
	Users    *service.UserService
	Repo     repository.UserRepository
	Searcher UserSearcher
	Logger   *logrus.Logger
}

func NewUserAdmin(users *service.UserService, repo repository.UserRepository, searcher UserSearcher, logger *logrus.Logger) *UserAdmin {
	return &UserAdmin{Users: users, Repo: repo, Searcher: searcher, Logger: logger}
}

func (a *UserAdmin) Get(ctx context.Context, actor *entity.User, id string) (entity.Snapshot, error) {
	target, err := a.target(ctx, actor, id)
	if err != nil {
		return entity.Snapshot{}, err
	}
	return target.Snapshot(), nil
}

func (a *UserAdmin) List(ctx context.Context, actor *entity.User, f UserFilter) ([]entity.Snapshot, error) {
	if !actor.HasManagerPrivileges() {
		return nil, errs.ErrForbidden
	}
	users, err := a.find(ctx, actor, f)
	if err != nil {
		return nil, err
	}
	out := make([]entity.Snapshot, 0, len(users))
	for _, u := range users {
		if a.visible(actor, u) {
			out = append(out, u.Snapshot())
		}
	}
	return out, nil
}

func (a *UserAdmin) find(ctx context.Context, actor *entity.User, f UserFilter) ([]*entity.User, error) {
	switch {
	case f.TenantID != "":
		if !a.Users.CanUserAccessTenant(actor, f.TenantID) {
			return nil, errs.ErrForbidden
		}
		return a.Repo.FindByTenant(ctx, f.TenantID)
	case f.Status != "":
		st, err := vo.UserStatusFromString(f.Status)
		if err != nil {
			return nil, err
		}
		return a.Repo.FindByStatus(ctx, st)
	case f.Role != "":
		r, err := vo.UserRoleFromString(f.Role)
		if err != nil {
			return nil, err
		}
		return a.Repo.FindByRole(ctx, r)
	case f.EmailPattern != "":
		return a.Repo.FindByEmailPattern(ctx, f.EmailPattern)
	case !f.From.IsZero() || !f.To.IsZero():
		to := f.To
		if to.IsZero() {
			to = time.Now().UTC()
		}
		if to.Before(f.From) {
			return nil, errs.NewValidation("to", errs.ReasonInvalidFormat, "range end is before its start")
		}
		return a.Repo.FindCreatedBetween(ctx, f.From, to)
	case actor.HasRole(vo.RoleAdmin):
		return a.Repo.FindByEmailPattern(ctx, "")
	default:
		if actor.TenantID() == "" {
			return nil, nil
		}
		return a.Repo.FindByTenant(ctx, actor.TenantID())
	}
}

// visible reports whether actor may see u in listings.
func (a *UserAdmin) visible(actor, u *entity.User) bool {
	if actor.HasRole(vo.RoleAdmin) || actor.ID().Equals(u.ID()) {
		return true
	}
	return u.BelongsToTenant(actor.TenantID())
}

// Search uses the search index when configured and falls back to an email
// substring match in the primary store.
func (a *UserAdmin) Search(ctx context.Context, actor *entity.User, q string, size int) ([]entity.Snapshot, error) {
	if !actor.HasAdminPrivileges() {
		return nil, errs.ErrForbidden
	}
	if size <= 0 || size > maxSearchSize {
		size = defaultSearchSize
	}
	q = strings.TrimSpace(q)

	var hits []entity.Snapshot
	if a.Searcher != nil {
		res, err := a.Searcher.Search(ctx, q, size)
		if err == nil {
			hits = res
		} else if a.Logger != nil {
			a.Logger.WithError(err).Warn("search index query failed, falling back to store")
		}
	}
	if hits == nil {
		users, err := a.Repo.FindByEmailPattern(ctx, q)
		if err != nil {
			return nil, err
		}
		for _, u := range users {
			hits = append(hits, u.Snapshot())
		}
	}

	out := make([]entity.Snapshot, 0, len(hits))
	for _, h := range hits {
		if actor.HasRole(vo.RoleAdmin) || (h.TenantID != nil && *h.TenantID == actor.TenantID()) {
			out = append(out, h)
		}
		if len(out) == size {
			break
		}
	}
	return out, nil
}

func (a *UserAdmin) ChangeStatus(ctx context.Context, actor *entity.User, id, action string) (entity.Snapshot, error) {
	if !actor.HasManagerPrivileges() {
		return entity.Snapshot{}, errs.ErrForbidden
	}
	target, err := a.target(ctx, actor, id)
	if err != nil {
		return entity.Snapshot{}, err
	}
	switch action {
	case ActionActivate:
		err = a.Users.ActivateUser(ctx, target)
	case ActionDeactivate:
		err = a.Users.DeactivateUser(ctx, target)
	case ActionSuspend:
		err = a.Users.SuspendUser(ctx, target)
	case ActionDelete:
		err = a.Users.DeleteUser(ctx, target)
	default:
		return entity.Snapshot{}, errs.NewValidation("action", errs.ReasonInvalidFormat,
			fmt.Sprintf("valid values: %s, %s, %s, %s", ActionActivate, ActionDeactivate, ActionSuspend, ActionDelete))
	}
	if err != nil {
		return entity.Snapshot{}, err
	}
	return target.Snapshot(), nil
}

// SetStatus forces a status without lifecycle guards. Admin only.
func (a *UserAdmin) SetStatus(ctx context.Context, actor *entity.User, id, status string) (entity.Snapshot, error) {
	if !actor.HasRole(vo.RoleAdmin) {
		return entity.Snapshot{}, errs.ErrForbidden
	}
	st, err := vo.UserStatusFromString(status)
	if err != nil {
		return entity.Snapshot{}, err
	}
	target, err := a.target(ctx, actor, id)
	if err != nil {
		return entity.Snapshot{}, err
	}
	if err := a.Users.ChangeUserStatus(ctx, target, st); err != nil {
		return entity.Snapshot{}, err
	}
	return target.Snapshot(), nil
}

// AddRole grants role to the target. Actors cannot grant roles above their own level.
func (a *UserAdmin) AddRole(ctx context.Context, actor *entity.User, id, role string) (entity.Snapshot, error) {
	r, target, err := a.roleTarget(ctx, actor, id, role)
	if err != nil {
		return entity.Snapshot{}, err
	}
	if err := a.Users.AddRoleToUser(ctx, target, r); err != nil {
		return entity.Snapshot{}, err
	}
	return target.Snapshot(), nil
}

func (a *UserAdmin) RemoveRole(ctx context.Context, actor *entity.User, id, role string) (entity.Snapshot, error) {
	r, target, err := a.roleTarget(ctx, actor, id, role)
	if err != nil {
		return entity.Snapshot{}, err
	}
	if err := a.Users.RemoveRoleFromUser(ctx, target, r); err != nil {
		return entity.Snapshot{}, err
	}
	return target.Snapshot(), nil
}

func (a *UserAdmin) AssignTenant(ctx context.Context, actor *entity.User, id, tenantID string) (entity.Snapshot, error) {
	if !actor.CanManageTenant() || !a.Users.CanUserAccessTenant(actor, tenantID) {
		return entity.Snapshot{}, errs.ErrForbidden
	}
	target, err := a.target(ctx, actor, id)
	if err != nil {
		return entity.Snapshot{}, err
	}
	if err := a.Users.AssignUserToTenant(ctx, target, tenantID); err != nil {
		return entity.Snapshot{}, err
	}
	return target.Snapshot(), nil
}

func (a *UserAdmin) RemoveTenant(ctx context.Context, actor *entity.User, id string) (entity.Snapshot, error) {
	if !actor.CanManageTenant() {
		return entity.Snapshot{}, errs.ErrForbidden
	}
	target, err := a.target(ctx, actor, id)
	if err != nil {
		return entity.Snapshot{}, err
	}
	if err := a.Users.RemoveUserFromTenant(ctx, target); err != nil {
		return entity.Snapshot{}, err
	}
	return target.Snapshot(), nil
}

// ChangeOwnPassword requires the current password.
func (a *UserAdmin) ChangeOwnPassword(ctx context.Context, actor *entity.User, current, next string) error {
	ok, err := a.Users.VerifyPassword(ctx, actor, current)
	if err != nil {
		return err
	}
	if !ok {
		return errs.ErrInvalidCredentials
	}
	return a.Users.ChangeUserPassword(ctx, actor, next)
}

func (a *UserAdmin) ChangeOwnEmail(ctx context.Context, actor *entity.User, raw string) (entity.Snapshot, error) {
	email, err := vo.EmailFromString(raw)
	if err != nil {
		return entity.Snapshot{}, err
	}
	if err := a.Users.ChangeUserEmail(ctx, actor, email); err != nil {
		return entity.Snapshot{}, err
	}
	return actor.Snapshot(), nil
}

func (a *UserAdmin) roleTarget(ctx context.Context, actor *entity.User, id, role string) (vo.UserRole, *entity.User, error) {
	r, err := vo.UserRoleFromString(role)
	if err != nil {
		return 0, nil, err
	}
	if !actor.HasManagerPrivileges() || !canGrant(actor, r) {
		return 0, nil, errs.ErrForbidden
	}
	target, err := a.target(ctx, actor, id)
	if err != nil {
		return 0, nil, err
	}
	return r, target, nil
}

// target loads id and checks that actor may manage it. Actors always reach themselves.
func (a *UserAdmin) target(ctx context.Context, actor *entity.User, id string) (*entity.User, error) {
	uid, err := vo.UserIDFromString(id)
	if err != nil {
		return nil, err
	}
	if actor.ID().Equals(uid) {
		return actor, nil
	}
	u, err := a.Repo.FindByID(ctx, uid)
	if err != nil {
		if errors.Is(err, errs.ErrUserNotFound) {
			return nil, errs.ErrUserNotFound
		}
		return nil, err
	}
	if !a.Users.CanUserManageUser(actor, u) {
		return nil, errs.ErrForbidden
	}
	return u, nil
}

func canGrant(actor *entity.User, r vo.UserRole) bool {
	for _, held := range actor.Roles() {
		if held.CanAccessRole(r) {
			return true
		}
	}
	return false
}
