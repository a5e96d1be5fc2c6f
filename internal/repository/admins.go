package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/jmoiron/sqlx"

	"orgsite/m/domain"
)

// Admins stores admin credentials.
type Admins struct {
	db *sqlx.DB
}

func NewAdmins(db *sqlx.DB) *Admins {
	return &Admins{db: db}
}

// GetByUsername returns ErrNotFound when no admin has that username.
func (a *Admins) GetByUsername(ctx context.Context, username string) (domain.AdminUser, error) {
	var user domain.AdminUser
	err := a.db.GetContext(ctx, &user, a.db.Rebind(`SELECT id, username, password_hash FROM admin_users WHERE username = ?`), username)
	if errors.Is(err, sql.ErrNoRows) {
		return domain.AdminUser{}, ErrNotFound
	}
	if err != nil {
		return domain.AdminUser{}, fmt.Errorf("get admin: %w", err)
	}
	return user, nil
}

// Create inserts an admin with an already hashed password. A taken username
// gives ErrConflict, including when a concurrent insert wins the race.
func (a *Admins) Create(ctx context.Context, username, passwordHash string) (domain.AdminUser, error) {
	var user domain.AdminUser
	err := a.db.QueryRowxContext(ctx, a.db.Rebind(`INSERT INTO admin_users (username, password_hash) VALUES (?, ?)
		ON CONFLICT (username) DO NOTHING
		RETURNING id, username, password_hash`), username, passwordHash).StructScan(&user)
	if errors.Is(err, sql.ErrNoRows) {
		return domain.AdminUser{}, ErrConflict
	}
	if err != nil {
		return domain.AdminUser{}, fmt.Errorf("insert admin: %w", err)
	}
	return user, nil
}
