package migrations

import (
	"fmt"

	"github.com/jmoiron/sqlx"
)

// Run creates the database schema for the site backend. Statements are
// idempotent so Run is safe on every start.
func Run(db *sqlx.DB) error {
	schema := sqliteSchema
	if db.DriverName() == "pgx" {
		schema = postgresSchema
	}

	for _, stmt := range schema {
		if _, err := db.Exec(stmt); err != nil {
			return fmt.Errorf("migration failed: %w", err)
		}
	}
	return nil
}

var sqliteSchema = []string{
	`CREATE TABLE IF NOT EXISTS admin_users (
            id INTEGER PRIMARY KEY AUTOINCREMENT,
            username TEXT NOT NULL UNIQUE,
            password_hash TEXT NOT NULL
        );`,
	`CREATE TABLE IF NOT EXISTS members (
            id INTEGER PRIMARY KEY AUTOINCREMENT,
            name TEXT NOT NULL,
            position TEXT NOT NULL,
            photo_url TEXT,
            committee TEXT,
            about TEXT
        );`,
	`CREATE TABLE IF NOT EXISTS projects (
            id INTEGER PRIMARY KEY AUTOINCREMENT,
            title TEXT NOT NULL,
            description TEXT NOT NULL,
            status TEXT NOT NULL,
            budget TEXT NOT NULL,
            date TEXT NOT NULL,
            category TEXT NOT NULL,
            image_url TEXT
        );`,
	`CREATE INDEX IF NOT EXISTS idx_projects_category ON projects(category);`,
	`CREATE TABLE IF NOT EXISTS reports (
            id INTEGER PRIMARY KEY AUTOINCREMENT,
            title TEXT NOT NULL,
            file_path TEXT NOT NULL,
            uploaded_at DATETIME NOT NULL
        );`,
}

var postgresSchema = []string{
	`CREATE TABLE IF NOT EXISTS admin_users (
			id SERIAL PRIMARY KEY,
			username TEXT NOT NULL UNIQUE,
			password_hash TEXT NOT NULL
		);`,
	`CREATE TABLE IF NOT EXISTS members (
			id SERIAL PRIMARY KEY,
			name TEXT NOT NULL,
			position TEXT NOT NULL,
			photo_url TEXT,
			committee TEXT,
			about TEXT
		);`,
	`ALTER TABLE members ADD COLUMN IF NOT EXISTS committee TEXT;`,
	`ALTER TABLE members ADD COLUMN IF NOT EXISTS about TEXT;`,
	`CREATE TABLE IF NOT EXISTS projects (
			id SERIAL PRIMARY KEY,
			title TEXT NOT NULL,
			description TEXT NOT NULL,
			status TEXT NOT NULL,
			budget TEXT NOT NULL,
			date TEXT NOT NULL,
			category TEXT NOT NULL,
			image_url TEXT
		);`,
	`ALTER TABLE projects ADD COLUMN IF NOT EXISTS image_url TEXT;`,
	`CREATE INDEX IF NOT EXISTS idx_projects_category ON projects(category);`,
	`CREATE TABLE IF NOT EXISTS reports (
			id SERIAL PRIMARY KEY,
			title TEXT NOT NULL,
			file_path TEXT NOT NULL,
			uploaded_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
		);`,
}
