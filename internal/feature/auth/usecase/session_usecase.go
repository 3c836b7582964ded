package usecase

import (
	"context"
	"errors"
	"fmt"
	"time"
	"unicode/utf8"

	"github.com/google/uuid"

	"role_portal/internal/feature/auth/domain/entity"
)

const maxUserAgentLength = 512

// SessionRepository abstracts the persistence layer for session entities.
type SessionRepository interface {
	// Create persists a new session to the storage.
	Create(ctx context.Context, session *entity.Session) error

	// FindByID returns ErrSessionNotFound if the session does not exist or has expired.
	FindByID(ctx context.Context, id string) (*entity.Session, error)

	// Delete removes a session. It returns ErrSessionNotFound if nothing was removed.
	Delete(ctx context.Context, id string) error

	// DeleteExpired removes all expired sessions from storage.
	// Returns the number of deleted sessions.
	DeleteExpired(ctx context.Context) (int64, error)
}

// TokenSigner turns a session reference into the tamper-proof value stored
// in the browser cookie, and back.
type TokenSigner interface {
	Sign(sessionID string, userID uint, expiresAt time.Time) (string, error)
	Parse(token string) (sessionID string, userID uint, err error)
}

// sessionUsecase starts, resolves and ends login sessions.
type sessionUsecase struct {
	sessions SessionRepository
	users    UserRepository
	signer   TokenSigner
	ttl      time.Duration

	newID func() string
	now   func() time.Time
}

// NewSessionUsecase creates a new instance of sessionUsecase.
func NewSessionUsecase(sessions SessionRepository, users UserRepository, signer TokenSigner, ttl time.Duration) *sessionUsecase {
	return &sessionUsecase{
		sessions: sessions,
		users:    users,
		signer:   signer,
		ttl:      ttl,
		newID:    uuid.NewString,
		now:      time.Now,
	}
}

// Start creates a session for userID and returns the signed cookie value
// together with its expiry.
func (u *sessionUsecase) Start(ctx context.Context, userID uint, userAgent, ip string) (string, time.Time, error) {
	userAgent = truncateUTF8(userAgent, maxUserAgentLength)

	now := u.now()
	session := &entity.Session{
		ID:        u.newID(),
		UserID:    userID,
		UserAgent: userAgent,
		IPAddress: ip,
		CreatedAt: now,
		ExpiresAt: now.Add(u.ttl),
	}
	if err := u.sessions.Create(ctx, session); err != nil {
		return "", time.Time{}, fmt.Errorf("failed to create session: %w", err)
	}

	token, err := u.signer.Sign(session.ID, userID, session.ExpiresAt)
	if err != nil {
		_ = u.sessions.Delete(ctx, session.ID)
		return "", time.Time{}, fmt.Errorf("failed to sign session token: %w", err)
	}
	return token, session.ExpiresAt, nil
}

// truncateUTF8 shortens s to at most n bytes without splitting a rune.
func truncateUTF8(s string, n int) string {
	if len(s) <= n {
		return s
	}
	for n > 0 && !utf8.RuneStart(s[n]) {
		n--
	}
	return s[:n]
}

// CurrentUser resolves a cookie value to its user. Every reason the value
// cannot be used is reported as ErrNoSession; only storage failures are
// returned as other errors.
func (u *sessionUsecase) CurrentUser(ctx context.Context, token string) (*entity.User, error) {
	if token == "" {
		return nil, ErrNoSession
	}
	sessionID, userID, err := u.signer.Parse(token)
	if err != nil {
		return nil, ErrNoSession
	}

	session, err := u.sessions.FindByID(ctx, sessionID)
	if err != nil {
		if errors.Is(err, ErrSessionNotFound) {
			return nil, ErrNoSession
		}
		return nil, fmt.Errorf("failed to load session: %w", err)
	}
	if session.UserID != userID || session.IsExpired(u.now()) {
		return nil, ErrNoSession
	}

	user, err := u.users.FindByID(ctx, session.UserID)
	if err != nil {
		if errors.Is(err, ErrUserNotFound) {
			return nil, ErrNoSession
		}
		return nil, fmt.Errorf("failed to load session user: %w", err)
	}
	return user, nil
}

// End deletes the session referenced by token. Ending an unknown or
// already-ended session is not an error.
func (u *sessionUsecase) End(ctx context.Context, token string) error {
	sessionID, _, err := u.signer.Parse(token)
	if err != nil {
		return nil
	}
	if err := u.sessions.Delete(ctx, sessionID); err != nil && !errors.Is(err, ErrSessionNotFound) {
		return fmt.Errorf("failed to delete session: %w", err)
	}
	return nil
}
