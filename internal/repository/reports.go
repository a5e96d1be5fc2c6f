package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"

	"orgsite/m/domain"
	"orgsite/m/internal/database"
)

const reportColumns = `id, title, file_path, uploaded_at`

type Reports struct {
	db  *sqlx.DB
	now func() time.Time
}

func NewReports(db *sqlx.DB) *Reports {
	return &Reports{db: db, now: time.Now}
}

func (r *Reports) List(ctx context.Context) ([]domain.Report, error) {
	reports := []domain.Report{}
	if err := r.db.SelectContext(ctx, &reports, `SELECT `+reportColumns+` FROM reports ORDER BY id`); err != nil {
		return nil, fmt.Errorf("list reports: %w", err)
	}
	return reports, nil
}

func (r *Reports) Get(ctx context.Context, id int64) (domain.Report, error) {
	return getReport(ctx, r.db, id)
}

// Create stores a report row for an already saved file. uploaded_at is
// stamped here in UTC at microsecond precision so every driver round-trips it.
func (r *Reports) Create(ctx context.Context, title, filePath string) (domain.Report, error) {
	report := domain.Report{
		Title:      title,
		FilePath:   filePath,
		UploadedAt: r.now().UTC().Truncate(time.Microsecond),
	}
	err := r.db.QueryRowxContext(ctx, r.db.Rebind(`INSERT INTO reports (title, file_path, uploaded_at) VALUES (?, ?, ?) RETURNING id`),
		report.Title, report.FilePath, report.UploadedAt).Scan(&report.ID)
	if err != nil {
		return domain.Report{}, fmt.Errorf("insert report: %w", err)
	}
	return report, nil
}

// UpdateTitle changes the title only; the file is fixed at creation.
func (r *Reports) UpdateTitle(ctx context.Context, id int64, title string) (domain.Report, error) {
	var report domain.Report
	err := database.WithTx(ctx, r.db, func(tx *sqlx.Tx) error {
		var err error
		report, err = getReport(ctx, tx, id)
		if err != nil {
			return err
		}
		if _, err := tx.ExecContext(ctx, tx.Rebind(`UPDATE reports SET title = ? WHERE id = ?`), title, id); err != nil {
			return fmt.Errorf("update report: %w", err)
		}
		report.Title = title
		return nil
	})
	if err != nil {
		return domain.Report{}, err
	}
	return report, nil
}

// Delete removes the row and returns it so the caller can reclaim the file.
func (r *Reports) Delete(ctx context.Context, id int64) (domain.Report, error) {
	var report domain.Report
	err := database.WithTx(ctx, r.db, func(tx *sqlx.Tx) error {
		var err error
		report, err = getReport(ctx, tx, id)
		if err != nil {
			return err
		}
		return deleteByID(ctx, tx, "reports", id)
	})
	if err != nil {
		return domain.Report{}, err
	}
	return report, nil
}

func getReport(ctx context.Context, q queryer, id int64) (domain.Report, error) {
	var report domain.Report
	err := sqlx.GetContext(ctx, q, &report, q.Rebind(`SELECT `+reportColumns+` FROM reports WHERE id = ?`), id)
	if errors.Is(err, sql.ErrNoRows) {
		return domain.Report{}, ErrNotFound
	}
	if err != nil {
		return domain.Report{}, fmt.Errorf("get report: %w", err)
	}
	return report, nil
}
