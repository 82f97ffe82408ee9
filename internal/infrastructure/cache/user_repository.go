package cache

import (
	"context"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"

	"github.com/oksasatya/go-ddd-auth/internal/domain/entity"
	"github.com/oksasatya/go-ddd-auth/internal/domain/repository"
	vo "github.com/oksasatya/go-ddd-auth/internal/domain/valueobject"
	"github.com/oksasatya/go-ddd-auth/pkg/helpers"
)

const (
	keyByID    = "user:id:"
	keyByEmail = "user:email:"
)

// entry is what lands in redis; the hash is needed to rebuild the aggregate.
type entry struct {
	User entity.Snapshot `json:"user"`
	Hash string          `json:"hash"`
}

// UserRepository is a read-through cache in front of another UserRepository.
// Only point lookups are cached; writes invalidate and filters pass through.
// Redis failures degrade to the underlying store.
type UserRepository struct {
	repository.UserRepository

	rdb    redis.Cmdable
	ttl    time.Duration
	logger *logrus.Logger
}

func NewUserRepository(next repository.UserRepository, rdb redis.Cmdable, ttl time.Duration, logger *logrus.Logger) *UserRepository {
	return &UserRepository{UserRepository: next, rdb: rdb, ttl: ttl, logger: logger}
}

func (r *UserRepository) FindByID(ctx context.Context, id vo.UserID) (*entity.User, error) {
	if u := r.get(ctx, keyByID+id.String()); u != nil {
		return u, nil
	}
	u, err := r.UserRepository.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	r.put(ctx, u)
	return u, nil
}

func (r *UserRepository) FindByEmail(ctx context.Context, email vo.Email) (*entity.User, error) {
	if u := r.get(ctx, keyByEmail+email.String()); u != nil {
		return u, nil
	}
	u, err := r.UserRepository.FindByEmail(ctx, email)
	if err != nil {
		return nil, err
	}
	r.put(ctx, u)
	return u, nil
}

// Save evicts on both sides of the write. The first pass still sees the
// previous email key; the second drops whatever a concurrent reader cached
// from the old row while the write was in flight.
func (r *UserRepository) Save(ctx context.Context, u *entity.User) error {
	r.evict(ctx, u)
	if err := r.UserRepository.Save(ctx, u); err != nil {
		return err
	}
	r.evict(ctx, u)
	return nil
}

func (r *UserRepository) Delete(ctx context.Context, u *entity.User) error {
	r.evict(ctx, u)
	if err := r.UserRepository.Delete(ctx, u); err != nil {
		return err
	}
	r.evict(ctx, u)
	return nil
}

func (r *UserRepository) get(ctx context.Context, key string) *entity.User {
	var e entry
	ok, err := helpers.RedisGetJSON(ctx, r.rdb, key, &e)
	if err != nil {
		r.warn(err, key, "user cache read failed")
		return nil
	}
	if !ok {
		return nil
	}
	u, err := entity.Reconstitute(e.User, e.Hash)
	if err != nil {
		r.warn(err, key, "dropping corrupt user cache entry")
		_ = helpers.RedisDel(ctx, r.rdb, key)
		return nil
	}
	return u
}

func (r *UserRepository) put(ctx context.Context, u *entity.User) {
	e := entry{User: u.Snapshot(), Hash: u.PasswordHash()}
	for _, key := range []string{keyByID + e.User.ID, keyByEmail + e.User.Email} {
		if err := helpers.RedisSetJSON(ctx, r.rdb, key, e, r.ttl); err != nil {
			r.warn(err, key, "user cache write failed")
			return
		}
	}
}

func (r *UserRepository) evict(ctx context.Context, u *entity.User) {
	keys := []string{keyByID + u.ID().String(), keyByEmail + u.Email().String()}
	// the cached copy may still point at the previous email
	var prev entry
	if ok, err := helpers.RedisGetJSON(ctx, r.rdb, keys[0], &prev); err == nil && ok && prev.User.Email != u.Email().String() {
		keys = append(keys, keyByEmail+prev.User.Email)
	}
	if err := helpers.RedisDel(ctx, r.rdb, keys...); err != nil {
		r.warn(err, keys[0], "user cache eviction failed")
	}
}

func (r *UserRepository) warn(err error, key, msg string) {
	if r.logger != nil {
		r.logger.WithError(err).WithField("key", key).Warn(msg)
	}
}

var _ repository.UserRepository = (*UserRepository)(nil)
