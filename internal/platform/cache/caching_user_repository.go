// Package cache provides caching implementations for repository interfaces.
package cache

import (
	"context"
	"encoding/json"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"

	"role_portal/internal/feature/auth/domain/entity"
	"role_portal/internal/feature/auth/usecase"
)

// Compile-time check to ensure CachingUserRepository implements UserRepository.
var _ usecase.UserRepository = (*CachingUserRepository)(nil)

// CachingUserRepository decorates a UserRepository with a Redis cache for
// FindByID, which runs on every authenticated request. Accounts are never
// modified after creation, so entries only expire.
//
// Users served from the cache carry no PasswordHash. Credential checks go
// through FindByUsername, which always reads the underlying store.
type CachingUserRepository struct {
	inner     usecase.UserRepository
	rdb       *redis.Client
	ttl       time.Duration
	namespace string
}

// cachedUser is the cached form of a user, without the password hash.
type cachedUser struct {
	ID        uint      `json:"id"`
	Username  string    `json:"username"`
	Role      string    `json:"role"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// NewCachingUserRepository decorates a UserRepository with Redis caching.
// If ttl is 0, it defaults to 5 minutes. If namespace is empty, it uses "user".
func NewCachingUserRepository(rdb *redis.Client, ttl time.Duration, inner usecase.UserRepository, namespace string) *CachingUserRepository {
	if ttl <= 0 {
		ttl = 5 * time.Minute
	}
	if namespace == "" {
		namespace = "user"
	}
	return &CachingUserRepository{
		inner:     inner,
		rdb:       rdb,
		ttl:       ttl,
		namespace: namespace,
	}
}

// Create writes through to the underlying repository.
func (c *CachingUserRepository) Create(ctx context.Context, user *entity.User) error {
	return c.inner.Create(ctx, user)
}

// FindByUsername is not cached.
func (c *CachingUserRepository) FindByUsername(ctx context.Context, username string) (*entity.User, error) {
	return c.inner.FindByUsername(ctx, username)
}

// FindByID checks the cache first, then falls back to the underlying repository.
func (c *CachingUserRepository) FindByID(ctx context.Context, id uint) (*entity.User, error) {
	// Bypass cache if Redis is not configured
	if c.rdb == nil {
		return c.inner.FindByID(ctx, id)
	}

	key := c.cacheKey(id)

	// 1) Check cache
	if b, err := c.rdb.Get(ctx, key).Bytes(); err == nil && len(b) > 0 {
		if user, ok := decode(b); ok {
			return user, nil
		}
		// Delete corrupted cache entry
		_ = c.rdb.Del(ctx, key).Err()
	}

	// 2) Fallback to database
	user, err := c.inner.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	// 3) Store in cache (best effort)
	if b, err := json.Marshal(cachedUser{
		ID:        user.ID,
		Username:  user.Username,
		Role:      string(user.Role),
		CreatedAt: user.CreatedAt,
		UpdatedAt: user.UpdatedAt,
	}); err == nil {
		_ = c.rdb.Set(ctx, key, b, c.ttl).Err()
	}

	return user, nil
}

func decode(b []byte) (*entity.User, bool) {
	var cu cachedUser
	if err := json.Unmarshal(b, &cu); err != nil || cu.ID == 0 {
		return nil, false
	}
	role, err := entity.ParseRole(cu.Role)
	if err != nil {
		return nil, false
	}
	return &entity.User{
		ID:        cu.ID,
		Username:  cu.Username,
		Role:      role,
		CreatedAt: cu.CreatedAt,
		UpdatedAt: cu.UpdatedAt,
	}, true
}

// cacheKey generates the cache key for a user ID.
func (c *CachingUserRepository) cacheKey(id uint) string {
	return c.namespace + ":" + strconv.FormatUint(uint64(id), 10)
}
