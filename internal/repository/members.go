package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/jmoiron/sqlx"

	"orgsite/m/domain"
	"orgsite/m/internal/database"
)

const memberColumns = `id, name, position, photo_url, committee, about`

// MemberInput carries the writable member fields. A nil PhotoURL on update
// keeps the stored filename.
type MemberInput struct {
	Name      string
	Position  string
	Committee *string
	About     *string
	PhotoURL  *string
}

type Members struct {
	db *sqlx.DB
}

func NewMembers(db *sqlx.DB) *Members {
	return &Members{db: db}
}

func (m *Members) List(ctx context.Context) ([]domain.Member, error) {
	members := []domain.Member{}
	if err := m.db.SelectContext(ctx, &members, `SELECT `+memberColumns+` FROM members ORDER BY id`); err != nil {
		return nil, fmt.Errorf("list members: %w", err)
	}
	return members, nil
}

func (m *Members) Get(ctx context.Context, id int64) (domain.Member, error) {
	return getMember(ctx, m.db, id)
}

func (m *Members) Create(ctx context.Context, in MemberInput) (domain.Member, error) {
	var member domain.Member
	err := m.db.QueryRowxContext(ctx, m.db.Rebind(`INSERT INTO members (name, position, photo_url, committee, about) VALUES (?, ?, ?, ?, ?) RETURNING `+memberColumns),
		in.Name, in.Position, in.PhotoURL, in.Committee, in.About).StructScan(&member)
	if err != nil {
		return domain.Member{}, fmt.Errorf("insert member: %w", err)
	}
	return member, nil
}

// Update overwrites every scalar field. The photo is replaced only when
// in.PhotoURL is set; the previous file is left on disk.
func (m *Members) Update(ctx context.Context, id int64, in MemberInput) (domain.Member, error) {
	var member domain.Member
	err := database.WithTx(ctx, m.db, func(tx *sqlx.Tx) error {
		current, err := getMember(ctx, tx, id)
		if err != nil {
			return err
		}
		member = domain.Member{
			ID:        current.ID,
			Name:      in.Name,
			Position:  in.Position,
			PhotoURL:  current.PhotoURL,
			Committee: in.Committee,
			About:     in.About,
		}
		if in.PhotoURL != nil {
			member.PhotoURL = in.PhotoURL
		}
		_, err = tx.ExecContext(ctx, tx.Rebind(`UPDATE members SET name = ?, position = ?, photo_url = ?, committee = ?, about = ? WHERE id = ?`),
			member.Name, member.Position, member.PhotoURL, member.Committee, member.About, id)
		if err != nil {
			return fmt.Errorf("update member: %w", err)
		}
		return nil
	})
	if err != nil {
		return domain.Member{}, err
	}
	return member, nil
}

func (m *Members) Delete(ctx context.Context, id int64) error {
	return deleteByID(ctx, m.db, "members", id)
}

func getMember(ctx context.Context, q queryer, id int64) (domain.Member, error) {
	var member domain.Member
	err := sqlx.GetContext(ctx, q, &member, q.Rebind(`SELECT `+memberColumns+` FROM members WHERE id = ?`), id)
	if errors.Is(err, sql.ErrNoRows) {
		return domain.Member{}, ErrNotFound
	}
	if err != nil {
		return domain.Member{}, fmt.Errorf("get member: %w", err)
	}
	return member, nil
}
