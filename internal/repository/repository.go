// Package repository holds the table gateways for admin users, committee
// members, projects and transparency reports. Queries are written with '?'
// placeholders and rebound for the connected driver.
package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/jmoiron/sqlx"
)

var (
	ErrNotFound = errors.New("not found")
	ErrConflict = errors.New("already exists")
)

// queryer is satisfied by both *sqlx.DB and *sqlx.Tx.
type queryer interface {
	sqlx.QueryerContext
	sqlx.ExecerContext
	Rebind(query string) string
}

// deleteByID removes one row from table and reports ErrNotFound when nothing
// matched. table is always a package constant, never request data.
func deleteByID(ctx context.Context, q queryer, table string, id int64) error {
	res, err := q.ExecContext(ctx, q.Rebind(`DELETE FROM `+table+` WHERE id = ?`), id)
	if err != nil {
		return fmt.Errorf("delete from %s: %w", table, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("delete from %s: %w", table, err)
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}
