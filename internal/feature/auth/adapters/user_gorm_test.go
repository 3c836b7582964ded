package adapters

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"role_portal/internal/feature/auth/domain/entity"
	"role_portal/internal/feature/auth/usecase"
)

func TestNewUserGorm(t *testing.T) {
	db := setupTestDB(t)

	repo := NewUserGorm(db)

	assert.NotNil(t, repo, "repository is nil")
	assert.NotNil(t, repo.db, "database connection is nil")
}

func TestUserGorm_Create(t *testing.T) {
	t.Run("successful user creation", func(t *testing.T) {
		repo := NewUserGorm(setupTestDB(t))

		user := &entity.User{Username: "alice", PasswordHash: "hashed_password", Role: entity.RoleClient}
		err := repo.Create(context.Background(), user)

		assert.NoError(t, err, "failed to create user")
		assert.NotZero(t, user.ID, "ID is not set")
		assert.False(t, user.CreatedAt.IsZero(), "CreatedAt is not set")
	})

	t.Run("duplicate username error", func(t *testing.T) {
		db := setupTestDB(t)
		repo := NewUserGorm(db)

		err := repo.Create(context.Background(), &entity.User{Username: "alice", PasswordHash: "h1", Role: entity.RoleClient})
		require.NoError(t, err, "failed to create first user")

		err = repo.Create(context.Background(), &entity.User{Username: "alice", PasswordHash: "h2", Role: entity.RoleCreator})

		assert.ErrorIs(t, err, usecase.ErrDuplicateUsername)

		var count int64
		require.NoError(t, db.Model(&entity.User{}).Where("username = ?", "alice").Count(&count).Error)
		assert.Equal(t, int64(1), count)
	})

	t.Run("concurrent registrations of one name leave one row", func(t *testing.T) {
		db := setupTestDB(t)
		repo := NewUserGorm(db)

		const workers = 8
		var (
			wg        sync.WaitGroup
			mu        sync.Mutex
			succeeded int
		)
		for i := 0; i < workers; i++ {
			wg.Add(1)
			go func(i int) {
				defer wg.Done()
				err := repo.Create(context.Background(), &entity.User{
					Username:     "racer",
					PasswordHash: fmt.Sprintf("h%d", i),
					Role:         entity.RoleClient,
				})
				if err == nil {
					mu.Lock()
					succeeded++
					mu.Unlock()
				}
			}(i)
		}
		wg.Wait()

		var count int64
		require.NoError(t, db.Model(&entity.User{}).Where("username = ?", "racer").Count(&count).Error)
		assert.Equal(t, int64(1), count)
		assert.Equal(t, 1, succeeded)
	})

	t.Run("invalid role never reaches the table", func(t *testing.T) {
		repo := NewUserGorm(setupTestDB(t))

		err := repo.Create(context.Background(), &entity.User{Username: "mallory", PasswordHash: "h", Role: entity.Role("ADMIN")})

		assert.Error(t, err)
	})

	t.Run("check constraint rejects raw inserts with an unknown role", func(t *testing.T) {
		db := setupTestDB(t)

		err := db.Exec("INSERT INTO users (username, password_hash, role, created_at, updated_at) VALUES (?, ?, ?, CURRENT_TIMESTAMP, CURRENT_TIMESTAMP)",
			"mallory", "h", "ADMIN").Error

		assert.Error(t, err)
	})

	t.Run("nil user error", func(t *testing.T) {
		repo := NewUserGorm(setupTestDB(t))

		err := repo.Create(context.Background(), nil)

		assert.Error(t, err, "should return error for nil user")
	})
}

func TestUserGorm_FindByUsername(t *testing.T) {
	t.Run("find user by username successfully", func(t *testing.T) {
		repo := NewUserGorm(setupTestDB(t))

		expected := &entity.User{Username: "creator1", PasswordHash: "hashed_password", Role: entity.RoleCreator}
		require.NoError(t, repo.Create(context.Background(), expected), "failed to create test data")

		found, err := repo.FindByUsername(context.Background(), "creator1")

		require.NoError(t, err, "failed to find user")
		assert.Equal(t, expected.ID, found.ID, "ID does not match")
		assert.Equal(t, expected.PasswordHash, found.PasswordHash, "password hash does not match")
		assert.Equal(t, entity.RoleCreator, found.Role, "role does not match")
	})

	t.Run("username not found error", func(t *testing.T) {
		repo := NewUserGorm(setupTestDB(t))

		found, err := repo.FindByUsername(context.Background(), "nobody")

		assert.ErrorIs(t, err, usecase.ErrUserNotFound)
		assert.Nil(t, found, "user should be nil")
	})

	t.Run("lookup is exact", func(t *testing.T) {
		repo := NewUserGorm(setupTestDB(t))
		require.NoError(t, repo.Create(context.Background(), &entity.User{Username: "alice", PasswordHash: "h", Role: entity.RoleClient}))

		_, err := repo.FindByUsername(context.Background(), "alic")

		assert.ErrorIs(t, err, usecase.ErrUserNotFound)
	})
}

func TestUserGorm_FindByID(t *testing.T) {
	t.Run("find user by ID successfully", func(t *testing.T) {
		repo := NewUserGorm(setupTestDB(t))

		expected := &entity.User{Username: "alice", PasswordHash: "h", Role: entity.RoleClient}
		require.NoError(t, repo.Create(context.Background(), expected))

		found, err := repo.FindByID(context.Background(), expected.ID)

		require.NoError(t, err)
		assert.Equal(t, "alice", found.Username)
	})

	t.Run("ID not found error", func(t *testing.T) {
		repo := NewUserGorm(setupTestDB(t))

		found, err := repo.FindByID(context.Background(), 99999)

		assert.ErrorIs(t, err, usecase.ErrUserNotFound)
		assert.Nil(t, found)
	})

	t.Run("stored row with an unknown role fails to load", func(t *testing.T) {
		db := setupTestDB(t)
		repo := NewUserGorm(db)
		user := &entity.User{Username: "alice", PasswordHash: "h", Role: entity.RoleClient}
		require.NoError(t, repo.Create(context.Background(), user))

		// Bypass the check constraint on the test connection.
		require.NoError(t, db.Exec("PRAGMA ignore_check_constraints = ON").Error)
		require.NoError(t, db.Exec("UPDATE users SET role = 'ADMIN' WHERE id = ?", user.ID).Error)

		_, err := repo.FindByID(context.Background(), user.ID)

		assert.ErrorIs(t, err, entity.ErrInvalidRole)
	})
}

func TestIsUniqueViolation(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want bool
	}{
		{"gorm translated", gorm.ErrDuplicatedKey, true},
		{"wrapped gorm translated", fmt.Errorf("insert: %w", gorm.ErrDuplicatedKey), true},
		{"postgres unique violation", &pgconn.PgError{Code: "23505"}, true},
		{"postgres check violation", &pgconn.PgError{Code: "23514"}, false},
		{"other error", errors.New("disk full"), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, isUniqueViolation(tt.err))
		})
	}
}
