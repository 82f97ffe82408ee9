package repository

import (
	"context"
	"time"

	"github.com/oksasatya/go-ddd-auth/internal/domain/entity"
	vo "github.com/oksasatya/go-ddd-auth/internal/domain/valueobject"
)

// UserRepository persists User aggregates.
// Lookups return errs.ErrUserNotFound when nothing matches; Save returns
// errs.ErrDuplicateEmail when the storage layer rejects the email as taken.
type UserRepository interface {
	FindByID(ctx context.Context, id vo.UserID) (*entity.User, error)
	FindByEmail(ctx context.Context, email vo.Email) (*entity.User, error)
	ExistsByEmail(ctx context.Context, email vo.Email) (bool, error)
	Save(ctx context.Context, u *entity.User) error
	// Delete removes the row. The service flow never calls it; deletion is a status.
	Delete(ctx context.Context, u *entity.User) error

	UserFinder
}

// UserFinder holds the read-only filter queries used by admin listings.
type UserFinder interface {
	FindByTenant(ctx context.Context, tenantID string) ([]*entity.User, error)
	FindByStatus(ctx context.Context, status vo.UserStatus) ([]*entity.User, error)
	FindByRole(ctx context.Context, role vo.UserRole) ([]*entity.User, error)
	FindCreatedBetween(ctx context.Context, from, to time.Time) ([]*entity.User, error)
	// FindByEmailPattern matches a case-insensitive substring of the email.
	FindByEmailPattern(ctx context.Context, pattern string) ([]*entity.User, error)
}
