package postgres

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/oksasatya/go-ddd-auth/internal/domain/entity"
	"github.com/oksasatya/go-ddd-auth/internal/domain/errs"
	"github.com/oksasatya/go-ddd-auth/internal/domain/repository"
	vo "github.com/oksasatya/go-ddd-auth/internal/domain/valueobject"
)

const uniqueViolation = "23505"

const selectUser = `
	SELECT id, email, password_hash, roles, status, tenant_id, created_at, updated_at
	FROM users
`

type UserRepository struct {
	pool *pgxpool.Pool
}

func NewUserRepository(pool *pgxpool.Pool) *UserRepository {
	return &UserRepository{pool: pool}
}

func (r *UserRepository) FindByID(ctx context.Context, id vo.UserID) (*entity.User, error) {
	return r.one(ctx, selectUser+`WHERE id = $1`, id.String())
}

func (r *UserRepository) FindByEmail(ctx context.Context, email vo.Email) (*entity.User, error) {
	return r.one(ctx, selectUser+`WHERE email = $1`, email.String())
}

func (r *UserRepository) ExistsByEmail(ctx context.Context, email vo.Email) (bool, error) {
	var exists bool
	err := r.pool.QueryRow(ctx, `SELECT EXISTS (SELECT 1 FROM users WHERE email = $1)`, email.String()).Scan(&exists)
	return exists, err
}

// Save upserts by id. The unique email constraint is the final arbiter when
// two requests race past ExistsByEmail.
func (r *UserRepository) Save(ctx context.Context, u *entity.User) error {
	s := u.Snapshot()
	_, err := r.pool.Exec(ctx, `
		INSERT INTO users (id, email, password_hash, roles, status, tenant_id, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		ON CONFLICT (id) DO UPDATE SET
			email = EXCLUDED.email,
			password_hash = EXCLUDED.password_hash,
			roles = EXCLUDED.roles,
			status = EXCLUDED.status,
			tenant_id = EXCLUDED.tenant_id,
			updated_at = EXCLUDED.updated_at
	`, s.ID, s.Email, u.PasswordHash(), s.Roles, s.Status, s.TenantID, s.CreatedAt, s.UpdatedAt)
	return mapError(err)
}

func (r *UserRepository) Delete(ctx context.Context, u *entity.User) error {
	tag, err := r.pool.Exec(ctx, `DELETE FROM users WHERE id = $1`, u.ID().String())
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return errs.ErrUserNotFound
	}
	return nil
}

func (r *UserRepository) FindByTenant(ctx context.Context, tenantID string) ([]*entity.User, error) {
	return r.many(ctx, selectUser+`WHERE tenant_id = $1 ORDER BY created_at, email`, tenantID)
}

func (r *UserRepository) FindByStatus(ctx context.Context, status vo.UserStatus) ([]*entity.User, error) {
	return r.many(ctx, selectUser+`WHERE status = $1 ORDER BY created_at, email`, status.String())
}

func (r *UserRepository) FindByRole(ctx context.Context, role vo.UserRole) ([]*entity.User, error) {
	return r.many(ctx, selectUser+`WHERE roles ? $1 ORDER BY created_at, email`, role.String())
}

func (r *UserRepository) FindCreatedBetween(ctx context.Context, from, to time.Time) ([]*entity.User, error) {
	return r.many(ctx, selectUser+`WHERE created_at BETWEEN $1 AND $2 ORDER BY created_at, email`, from, to)
}

func (r *UserRepository) FindByEmailPattern(ctx context.Context, pattern string) ([]*entity.User, error) {
	return r.many(ctx, selectUser+`WHERE email ILIKE $1 ESCAPE '\' ORDER BY created_at, email`, likeContains(pattern))
}

func (r *UserRepository) one(ctx context.Context, sql string, args ...any) (*entity.User, error) {
	u, err := scanUser(r.pool.QueryRow(ctx, sql, args...))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, errs.ErrUserNotFound
	}
	return u, err
}

func (r *UserRepository) many(ctx context.Context, sql string, args ...any) ([]*entity.User, error) {
	rows, err := r.pool.Query(ctx, sql, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []*entity.User
	for rows.Next() {
		u, err := scanUser(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, u)
	}
	return out, rows.Err()
}

func scanUser(row pgx.Row) (*entity.User, error) {
	var (
		s    entity.Snapshot
		hash string
	)
	if err := row.Scan(&s.ID, &s.Email, &hash, &s.Roles, &s.Status, &s.TenantID, &s.CreatedAt, &s.UpdatedAt); err != nil {
		return nil, err
	}
	u, err := entity.Reconstitute(s, hash)
	if err != nil {
		return nil, fmt.Errorf("corrupt user row %s: %w", s.ID, err)
	}
	return u, nil
}

func mapError(err error) error {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation {
		return errs.ErrDuplicateEmail
	}
	return err
}

// likeContains escapes LIKE metacharacters and wraps p for a substring match.
func likeContains(p string) string {
	r := strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)
	return "%" + r.Replace(strings.TrimSpace(p)) + "%"
}

var _ repository.UserRepository = (*UserRepository)(nil)
