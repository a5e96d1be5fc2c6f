package auth

import (
	"context"
	"errors"
	"fmt"

	"golang.org/x/crypto/bcrypt"

	"orgsite/m/domain"
	"orgsite/m/internal/repository"
)

// ErrInvalidCredentials covers both an unknown username and a wrong password.
var ErrInvalidCredentials = errors.New("invalid credentials")

// dummyHash is compared against when the username is unknown so a miss costs
// the same bcrypt work as a wrong password.
var dummyHash, _ = bcrypt.GenerateFromPassword([]byte("not-a-real-password"), bcrypt.DefaultCost)

// UserLookup finds an admin by username.
type UserLookup interface {
	GetByUsername(ctx context.Context, username string) (domain.AdminUser, error)
}

// Credentials verifies admin passwords against stored bcrypt hashes.
type Credentials struct {
	users UserLookup
}

func NewCredentials(users UserLookup) *Credentials {
	return &Credentials{users: users}
}

func (c *Credentials) Verify(ctx context.Context, username, password string) (domain.AdminUser, error) {
	user, err := c.users.GetByUsername(ctx, username)
	if errors.Is(err, repository.ErrNotFound) {
		_ = bcrypt.CompareHashAndPassword(dummyHash, []byte(password))
		return domain.AdminUser{}, ErrInvalidCredentials
	}
	if err != nil {
		return domain.AdminUser{}, fmt.Errorf("lookup admin: %w", err)
	}
	if bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)) != nil {
		return domain.AdminUser{}, ErrInvalidCredentials
	}
	return user, nil
}

// HashPassword returns the bcrypt hash stored for a new admin.
func HashPassword(password string) (string, error) {
	if password == "" {
		return "", errors.New("password must not be empty")
	}
	hashed, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", fmt.Errorf("hash password: %w", err)
	}
	return string(hashed), nil
}
