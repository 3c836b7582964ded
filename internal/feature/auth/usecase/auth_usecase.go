package usecase

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"unicode/utf8"

	"role_portal/internal/feature/auth/domain/entity"
)

const (
	minUsernameLength = 4
	maxUsernameLength = 25
	minPasswordLength = 6
	// bcrypt ignores everything past 72 bytes.
	maxPasswordBytes = 72

	msgRequired = "This field is required."
)

// UserRepository abstracts the persistence layer for user entities.
// Following Go convention: interfaces are defined by the consumer (usecase), not the provider (adapters).
type UserRepository interface {
	// Create persists a new user and fills in its ID.
	// It returns ErrDuplicateUsername if the username is already stored.
	Create(ctx context.Context, user *entity.User) error

	// FindByUsername returns ErrUserNotFound if no user has the given name.
	FindByUsername(ctx context.Context, username string) (*entity.User, error)

	// FindByID returns ErrUserNotFound if no user has the given ID.
	FindByID(ctx context.Context, id uint) (*entity.User, error)
}

// PasswordHasher is the one-way credential hashing primitive.
type PasswordHasher interface {
	Hash(plain string) (string, error)
	Verify(plain, digest string) bool
	// DummyDigest returns a digest no password matches. Login compares against
	// it when the user does not exist so both failure paths cost the same.
	DummyDigest() string
}

// authUsecase implements registration and credential checks.
type authUsecase struct {
	users  UserRepository
	hasher PasswordHasher
}

// NewAuthUsecase creates a new instance of authUsecase.
func NewAuthUsecase(users UserRepository, hasher PasswordHasher) *authUsecase {
	return &authUsecase{
		users:  users,
		hasher: hasher,
	}
}

func validateRegistration(username, password string, role entity.Role) error {
	fields := map[string]string{}

	if strings.TrimSpace(username) == "" {
		fields["username"] = msgRequired
	} else if n := utf8.RuneCountInString(username); n < minUsernameLength || n > maxUsernameLength {
		fields["username"] = fmt.Sprintf("Field must be between %d and %d characters long.", minUsernameLength, maxUsernameLength)
	}
	if strings.TrimSpace(password) == "" {
		fields["password"] = msgRequired
	} else if utf8.RuneCountInString(password) < minPasswordLength {
		fields["password"] = fmt.Sprintf("Field must be at least %d characters long.", minPasswordLength)
	} else if len(password) > maxPasswordBytes {
		fields["password"] = fmt.Sprintf("Field cannot be longer than %d bytes.", maxPasswordBytes)
	}
	if !role.Valid() {
		fields["role"] = "Not a valid choice."
	}

	if len(fields) > 0 {
		return &ValidationError{Fields: fields}
	}
	return nil
}

// Register creates a user with the given role and a hashed password.
// The lookup below only produces a friendlier error; the unique index on
// username decides concurrent registrations.
func (u *authUsecase) Register(ctx context.Context, username, password string, role entity.Role) (*entity.User, error) {
	if err := validateRegistration(username, password, role); err != nil {
		return nil, err
	}

	if _, err := u.users.FindByUsername(ctx, username); err == nil {
		return nil, ErrDuplicateUsername
	} else if !errors.Is(err, ErrUserNotFound) {
		return nil, fmt.Errorf("failed to look up username: %w", err)
	}

	hashed, err := u.hasher.Hash(password)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	user := &entity.User{Username: username, PasswordHash: hashed, Role: role}
	if err := u.users.Create(ctx, user); err != nil {
		if errors.Is(err, ErrDuplicateUsername) {
			return nil, ErrDuplicateUsername
		}
		return nil, fmt.Errorf("failed to create user: %w", err)
	}
	return user, nil
}

// Login checks the credentials and returns the matching user.
// An unknown username and a wrong password both yield ErrInvalidCredentials.
func (u *authUsecase) Login(ctx context.Context, username, password string) (*entity.User, error) {
	user, err := u.users.FindByUsername(ctx, username)
	if err != nil && !errors.Is(err, ErrUserNotFound) {
		return nil, fmt.Errorf("failed to look up user: %w", err)
	}

	digest := u.hasher.DummyDigest()
	if err == nil {
		digest = user.PasswordHash
	}

	// Always verify, even for unknown users.
	matched := u.hasher.Verify(password, digest)
	if err != nil || !matched {
		return nil, ErrInvalidCredentials
	}
	return user, nil
}
