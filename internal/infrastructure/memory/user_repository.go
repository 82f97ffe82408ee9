package memory

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/oksasatya/go-ddd-auth/internal/domain/entity"
	"github.com/oksasatya/go-ddd-auth/internal/domain/errs"
	"github.com/oksasatya/go-ddd-auth/internal/domain/repository"
	vo "github.com/oksasatya/go-ddd-auth/internal/domain/valueobject"
)

type record struct {
	snap entity.Snapshot
	hash string
}

// UserRepository keeps users in process memory. It stores snapshots, so
// callers never share a *entity.User with another request.
type UserRepository struct {
	mu      sync.RWMutex
	byID    map[string]record
	byEmail map[string]string
}

func NewUserRepository() *UserRepository {
	return &UserRepository{
		byID:    make(map[string]record),
		byEmail: make(map[string]string),
	}
}

func (r *UserRepository) FindByID(ctx context.Context, id vo.UserID) (*entity.User, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	r.mu.RLock()
	rec, ok := r.byID[id.String()]
	r.mu.RUnlock()
	if !ok {
		return nil, errs.ErrUserNotFound
	}
	return entity.Reconstitute(rec.snap, rec.hash)
}

func (r *UserRepository) FindByEmail(ctx context.Context, email vo.Email) (*entity.User, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	r.mu.RLock()
	id, ok := r.byEmail[email.String()]
	var rec record
	if ok {
		rec = r.byID[id]
	}
	r.mu.RUnlock()
	if !ok {
		return nil, errs.ErrUserNotFound
	}
	return entity.Reconstitute(rec.snap, rec.hash)
}

func (r *UserRepository) ExistsByEmail(ctx context.Context, email vo.Email) (bool, error) {
	if err := ctx.Err(); err != nil {
		return false, err
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	_, ok := r.byEmail[email.String()]
	return ok, nil
}

// Save upserts by id. The email index is checked under the write lock so a
// concurrent insert of the same address fails like a unique constraint would.
func (r *UserRepository) Save(ctx context.Context, u *entity.User) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	snap := u.Snapshot()

	r.mu.Lock()
	defer r.mu.Unlock()
	if owner, ok := r.byEmail[snap.Email]; ok && owner != snap.ID {
		return errs.ErrDuplicateEmail
	}
	if old, ok := r.byID[snap.ID]; ok && old.snap.Email != snap.Email {
		delete(r.byEmail, old.snap.Email)
	}
	r.byID[snap.ID] = record{snap: snap, hash: u.PasswordHash()}
	r.byEmail[snap.Email] = snap.ID
	return nil
}

func (r *UserRepository) Delete(ctx context.Context, u *entity.User) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	rec, ok := r.byID[u.ID().String()]
	if !ok {
		return errs.ErrUserNotFound
	}
	delete(r.byEmail, rec.snap.Email)
	delete(r.byID, rec.snap.ID)
	return nil
}

func (r *UserRepository) FindByTenant(ctx context.Context, tenantID string) ([]*entity.User, error) {
	return r.filter(ctx, func(s entity.Snapshot) bool {
		return s.TenantID != nil && *s.TenantID == tenantID
	})
}

func (r *UserRepository) FindByStatus(ctx context.Context, status vo.UserStatus) ([]*entity.User, error) {
	want := status.String()
	return r.filter(ctx, func(s entity.Snapshot) bool { return s.Status == want })
}

func (r *UserRepository) FindByRole(ctx context.Context, role vo.UserRole) ([]*entity.User, error) {
	want := role.String()
	return r.filter(ctx, func(s entity.Snapshot) bool {
		for _, r := range s.Roles {
			if r == want {
				return true
			}
		}
		return false
	})
}

func (r *UserRepository) FindCreatedBetween(ctx context.Context, from, to time.Time) ([]*entity.User, error) {
	return r.filter(ctx, func(s entity.Snapshot) bool {
		return !s.CreatedAt.Before(from) && !s.CreatedAt.After(to)
	})
}

func (r *UserRepository) FindByEmailPattern(ctx context.Context, pattern string) ([]*entity.User, error) {
	p := strings.ToLower(strings.TrimSpace(pattern))
	return r.filter(ctx, func(s entity.Snapshot) bool { return strings.Contains(s.Email, p) })
}

// filter returns matches ordered by creation time, oldest first.
func (r *UserRepository) filter(ctx context.Context, match func(entity.Snapshot) bool) ([]*entity.User, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	r.mu.RLock()
	recs := make([]record, 0)
	for _, rec := range r.byID {
		if match(rec.snap) {
			recs = append(recs, rec)
		}
	}
	r.mu.RUnlock()

	sort.Slice(recs, func(i, j int) bool {
		if recs[i].snap.CreatedAt.Equal(recs[j].snap.CreatedAt) {
			return recs[i].snap.Email < recs[j].snap.Email
		}
		return recs[i].snap.CreatedAt.Before(recs[j].snap.CreatedAt)
	})

	out := make([]*entity.User, 0, len(recs))
	for _, rec := range recs {
		u, err := entity.Reconstitute(rec.snap, rec.hash)
		if err != nil {
			return nil, err
		}
		out = append(out, u)
	}
	return out, nil
}

var _ repository.UserRepository = (*UserRepository)(nil)
