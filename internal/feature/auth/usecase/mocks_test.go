package usecase

import (
	"context"
	"time"

	"role_portal/internal/feature/auth/domain/entity"
)

// mockUserRepository is a mock implementation of the UserRepository interface.
type mockUserRepository struct {
	CreateFunc         func(ctx context.Context, user *entity.User) error
	FindByUsernameFunc func(ctx context.Context, username string) (*entity.User, error)
	FindByIDFunc       func(ctx context.Context, id uint) (*entity.User, error)
}

func (m *mockUserRepository) Create(ctx context.Context, user *entity.User) error {
	if m.CreateFunc != nil {
		return m.CreateFunc(ctx, user)
	}
	return nil // Default: success
}

func (m *mockUserRepository) FindByUsername(ctx context.Context, username string) (*entity.User, error) {
	if m.FindByUsernameFunc != nil {
		return m.FindByUsernameFunc(ctx, username)
	}
	return nil, ErrUserNotFound
}

func (m *mockUserRepository) FindByID(ctx context.Context, id uint) (*entity.User, error) {
	if m.FindByIDFunc != nil {
		return m.FindByIDFunc(ctx, id)
	}
	return nil, ErrUserNotFound
}

// fakeHasher "hashes" by prefixing, and records every digest it verified against.
type fakeHasher struct {
	HashErr  error
	verified []string
}

func (h *fakeHasher) Hash(plain string) (string, error) {
	if h.HashErr != nil {
		return "", h.HashErr
	}
	return "hashed:" + plain, nil
}

func (h *fakeHasher) Verify(plain, digest string) bool {
	h.verified = append(h.verified, digest)
	return digest == "hashed:"+plain
}

func (h *fakeHasher) DummyDigest() string { return "dummy" }

// mockSessionRepository is a mock implementation of the SessionRepository interface.
type mockSessionRepository struct {
	CreateFunc        func(ctx context.Context, s *entity.Session) error
	FindByIDFunc      func(ctx context.Context, id string) (*entity.Session, error)
	DeleteFunc        func(ctx context.Context, id string) error
	DeleteExpiredFunc func(ctx context.Context) (int64, error)
}

func (m *mockSessionRepository) Create(ctx context.Context, s *entity.Session) error {
	if m.CreateFunc != nil {
		return m.CreateFunc(ctx, s)
	}
	return nil
}

func (m *mockSessionRepository) FindByID(ctx context.Context, id string) (*entity.Session, error) {
	if m.FindByIDFunc != nil {
		return m.FindByIDFunc(ctx, id)
	}
	return nil, ErrSessionNotFound
}

func (m *mockSessionRepository) Delete(ctx context.Context, id string) error {
	if m.DeleteFunc != nil {
		return m.DeleteFunc(ctx, id)
	}
	return nil
}

func (m *mockSessionRepository) DeleteExpired(ctx context.Context) (int64, error) {
	if m.DeleteExpiredFunc != nil {
		return m.DeleteExpiredFunc(ctx)
	}
	return 0, nil
}

// mockSigner is a mock implementation of the TokenSigner interface.
type mockSigner struct {
	SignFunc  func(sessionID string, userID uint, expiresAt time.Time) (string, error)
	ParseFunc func(token string) (string, uint, error)
}

func (m *mockSigner) Sign(sessionID string, userID uint, expiresAt time.Time) (string, error) {
	if m.SignFunc != nil {
		return m.SignFunc(sessionID, userID, expiresAt)
	}
	return "signed-" + sessionID, nil
}

func (m *mockSigner) Parse(token string) (string, uint, error) {
	if m.ParseFunc != nil {
		return m.ParseFunc(token)
	}
	return "", 0, ErrNoSession
}
