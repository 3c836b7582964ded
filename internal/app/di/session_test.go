package di

import (
	"context"
	"errors"
	"path/filepath"
	"sync/atomic"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"role_portal/internal/feature/auth/domain/entity"
	"role_portal/internal/platform/session"
)

type countingRepo struct {
	calls atomic.Int32
	err   error
}

func (r *countingRepo) Create(context.Context, *entity.Session) error { return nil }
func (r *countingRepo) FindByID(context.Context, string) (*entity.Session, error) {
	return nil, nil
}
func (r *countingRepo) Delete(context.Context, string) error { return nil }
func (r *countingRepo) DeleteExpired(context.Context) (int64, error) {
	r.calls.Add(1)
	return 1, r.err
}

func TestNewSessionRepository(t *testing.T) {
	t.Run("redis when configured", func(t *testing.T) {
		mr := miniredis.RunT(t)
		rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
		t.Cleanup(func() { _ = rdb.Close() })

		repo := NewSessionRepository(rdb, nil)
		_, ok := repo.(*session.SessionRedis)
		assert.True(t, ok)
	})

	t.Run("database otherwise", func(t *testing.T) {
		db, err := gorm.Open(sqlite.Open(filepath.Join(t.TempDir(), "test.db")), &gorm.Config{Logger: logger.Discard})
		require.NoError(t, err)

		repo := NewSessionRepository(nil, db)
		_, isRedis := repo.(*session.SessionRedis)
		assert.False(t, isRedis)
		assert.NotNil(t, repo)
	})
}

func TestRunSessionHousekeeping(t *testing.T) {
	for _, repoErr := range []error{nil, errors.New("database is locked")} {
		repo := &countingRepo{err: repoErr}
		ctx, cancel := context.WithCancel(context.Background())
		done := make(chan struct{})
		go func() {
			RunSessionHousekeeping(ctx, repo, 5*time.Millisecond, zerolog.Nop())
			close(done)
		}()

		assert.Eventually(t, func() bool { return repo.calls.Load() >= 2 }, time.Second, 5*time.Millisecond)
		cancel()

		select {
		case <-done:
		case <-time.After(time.Second):
			t.Fatal("housekeeping did not stop after cancel")
		}
	}
}

func TestRunSessionHousekeeping_Disabled(t *testing.T) {
	repo := &countingRepo{}
	RunSessionHousekeeping(context.Background(), repo, 0, zerolog.Nop())
	assert.Zero(t, repo.calls.Load())
}
