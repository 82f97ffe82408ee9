package service

import (
	"context"
	"fmt"

	"github.com/sirupsen/logrus"

	"github.com/oksasatya/go-ddd-auth/internal/domain/entity"
	"github.com/oksasatya/go-ddd-auth/internal/domain/errs"
	"github.com/oksasatya/go-ddd-auth/internal/domain/event"
	"github.com/oksasatya/go-ddd-auth/internal/domain/repository"
	vo "github.com/oksasatya/go-ddd-auth/internal/domain/valueobject"
)

// UserService orchestrates user creation and lifecycle changes.
// Events is optional; when nil, events are built but not dispatched.
type UserService struct {
	Repo   repository.UserRepository
	Hasher PasswordHasher
	Events event.Publisher
	Logger *logrus.Logger
}

func NewUserService(repo repository.UserRepository, hasher PasswordHasher, events event.Publisher, logger *logrus.Logger) *UserService {
	return &UserService{Repo: repo, Hasher: hasher, Events: events, Logger: logger}
}

// CreateUserInput carries the arguments of CreateUser. A zero Status means pending.
type CreateUserInput struct {
	Email    vo.Email
	Password string
	Roles    []vo.UserRole
	TenantID string
	Status   vo.UserStatus
}

func (s *UserService) CreateUser(ctx context.Context, in CreateUserInput) (*entity.User, error) {
	exists, err := s.Repo.ExistsByEmail(ctx, in.Email)
	if err != nil {
		return nil, fmt.Errorf("check email: %w", err)
	}
	if exists {
		return nil, errs.ErrDuplicateEmail
	}
	if err := ValidatePassword(in.Password); err != nil {
		return nil, err
	}

	hash, err := s.Hasher.Hash(ctx, in.Password)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}
	status := in.Status
	if status == 0 {
		status = vo.StatusPending
	}
	u, err := entity.NewUser(vo.GenerateUserID(), in.Email, hash, in.Roles, status, in.TenantID)
	if err != nil {
		return nil, err
	}
	if err := s.Repo.Save(ctx, u); err != nil {
		return nil, err
	}

	if s.Logger != nil {
		s.Logger.WithFields(logrus.Fields{"user_id": u.ID().String(), "email": u.Email().String()}).Info("user created")
	}
	s.publish(ctx, event.NewUserCreated(u.ID(), u.Email(), status, u.Roles(), in.TenantID))
	return u, nil
}

// ChangeUserStatus bypasses lifecycle guards. An unchanged status is neither saved nor announced.
func (s *UserService) ChangeUserStatus(ctx context.Context, u *entity.User, status vo.UserStatus) error {
	previous := u.Status()
	if previous.Equals(status) {
		return nil
	}
	if err := u.ChangeStatus(status); err != nil {
		return err
	}
	if err := s.Repo.Save(ctx, u); err != nil {
		return err
	}
	s.publish(ctx, event.NewUserStatusChanged(u.ID(), previous, status))
	return nil
}

// ActivateUser compares the post-mutation status with the target, so a
// successful activation never produces an event.
func (s *UserService) ActivateUser(ctx context.Context, u *entity.User) error {
	if err := u.Activate(); err != nil {
		return err
	}
	if err := s.Repo.Save(ctx, u); err != nil {
		return err
	}
	if !u.Status().Equals(vo.StatusActive) {
		s.publish(ctx, event.NewUserStatusChanged(u.ID(), u.Status(), vo.StatusActive))
	}
	return nil
}

// DeactivateUser has the same post-mutation comparison as ActivateUser.
func (s *UserService) DeactivateUser(ctx context.Context, u *entity.User) error {
	if err := u.Deactivate(); err != nil {
		return err
	}
	if err := s.Repo.Save(ctx, u); err != nil {
		return err
	}
	if !u.Status().Equals(vo.StatusInactive) {
		s.publish(ctx, event.NewUserStatusChanged(u.ID(), u.Status(), vo.StatusInactive))
	}
	return nil
}

// SuspendUser announces the change only when the status moved; suspending a
// suspended user is saved but silent.
func (s *UserService) SuspendUser(ctx context.Context, u *entity.User) error {
	previous := u.Status()
	u.Suspend()
	if err := s.Repo.Save(ctx, u); err != nil {
		return err
	}
	if !previous.Equals(u.Status()) {
		s.publish(ctx, event.NewUserStatusChanged(u.ID(), previous, vo.StatusSuspended))
	}
	return nil
}

// DeleteUser follows SuspendUser: a repeated delete publishes nothing.
func (s *UserService) DeleteUser(ctx context.Context, u *entity.User) error {
	previous := u.Status()
	u.MarkAsDeleted()
	if err := s.Repo.Save(ctx, u); err != nil {
		return err
	}
	if !previous.Equals(u.Status()) {
		s.publish(ctx, event.NewUserStatusChanged(u.ID(), previous, vo.StatusDeleted))
	}
	return nil
}

func (s *UserService) ChangeUserPassword(ctx context.Context, u *entity.User, plain string) error {
	if err := ValidatePassword(plain); err != nil {
		return err
	}
	hash, err := s.Hasher.Hash(ctx, plain)
	if err != nil {
		return fmt.Errorf("hash password: %w", err)
	}
	if err := u.ChangePassword(hash); err != nil {
		return err
	}
	return s.Repo.Save(ctx, u)
}

// ChangeUserEmail fails with ErrDuplicateEmail when another user holds the address.
// Re-submitting the user's own address is a no-op.
func (s *UserService) ChangeUserEmail(ctx context.Context, u *entity.User, email vo.Email) error {
	if u.Email().Equals(email) {
		return nil
	}
	exists, err := s.Repo.ExistsByEmail(ctx, email)
	if err != nil {
		return fmt.Errorf("check email: %w", err)
	}
	if exists {
		return errs.ErrDuplicateEmail
	}
	if err := u.ChangeEmail(email); err != nil {
		return err
	}
	return s.Repo.Save(ctx, u)
}

func (s *UserService) AssignUserToTenant(ctx context.Context, u *entity.User, tenantID string) error {
	if err := u.AssignToTenant(tenantID); err != nil {
		return err
	}
	return s.Repo.Save(ctx, u)
}

func (s *UserService) RemoveUserFromTenant(ctx context.Context, u *entity.User) error {
	u.RemoveFromTenant()
	return s.Repo.Save(ctx, u)
}

func (s *UserService) AddRoleToUser(ctx context.Context, u *entity.User, role vo.UserRole) error {
	if err := u.AddRole(role); err != nil {
		return err
	}
	return s.Repo.Save(ctx, u)
}

func (s *UserService) RemoveRoleFromUser(ctx context.Context, u *entity.User, role vo.UserRole) error {
	u.RemoveRole(role)
	return s.Repo.Save(ctx, u)
}

func (s *UserService) VerifyPassword(ctx context.Context, u *entity.User, plain string) (bool, error) {
	return s.Hasher.Verify(ctx, u.PasswordHash(), plain)
}

func (s *UserService) IsPasswordValid(p string) bool {
	return ValidatePassword(p) == nil
}

// CanUserAccessTenant lets admins into every tenant and everyone else into their own.
func (s *UserService) CanUserAccessTenant(u *entity.User, tenantID string) bool {
	return u.HasRole(vo.RoleAdmin) || u.BelongsToTenant(tenantID)
}

func (s *UserService) CanUserManageUser(manager, target *entity.User) bool {
	if manager.HasRole(vo.RoleAdmin) {
		return true
	}
	tenant := manager.TenantID()
	if tenant == "" || !target.BelongsToTenant(tenant) {
		return false
	}
	if manager.HasRole(vo.RoleTenantAdmin) {
		return true
	}
	return manager.HasRole(vo.RoleManager) && !target.HasManagerPrivileges()
}

func (s *UserService) publish(ctx context.Context, e event.Event) {
	if s.Events == nil {
		return
	}
	if err := s.Events.Publish(ctx, e); err != nil && s.Logger != nil {
		s.Logger.WithError(err).WithFields(logrus.Fields{
			"event":   e.Name(),
			"user_id": e.AggregateID().String(),
		}).Warn("publish event failed")
	}
}
