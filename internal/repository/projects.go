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

const projectColumns = `id, title, description, status, budget, date, category, image_url`

// ProjectInput carries the writable project fields. A nil ImageURL on update
// keeps the stored filename.
type ProjectInput struct {
	Title       string
	Description string
	Status      string
	Budget      string
	Date        string
	Category    string
	ImageURL    *string
}

type Projects struct {
	db *sqlx.DB
}

func NewProjects(db *sqlx.DB) *Projects {
	return &Projects{db: db}
}

// List returns projects in id order. A non-empty category keeps only rows
// whose category matches exactly.
func (p *Projects) List(ctx context.Context, category string) ([]domain.Project, error) {
	query := `SELECT ` + projectColumns + ` FROM projects`
	var args []any
	if category != "" {
		query += ` WHERE category = ?`
		args = append(args, category)
	}
	query += ` ORDER BY id`

	projects := []domain.Project{}
	if err := p.db.SelectContext(ctx, &projects, p.db.Rebind(query), args...); err != nil {
		return nil, fmt.Errorf("list projects: %w", err)
	}
	return projects, nil
}

func (p *Projects) Get(ctx context.Context, id int64) (domain.Project, error) {
	return getProject(ctx, p.db, id)
}

func (p *Projects) Create(ctx context.Context, in ProjectInput) (domain.Project, error) {
	var project domain.Project
	err := p.db.QueryRowxContext(ctx, p.db.Rebind(`INSERT INTO projects (title, description, status, budget, date, category, image_url) VALUES (?, ?, ?, ?, ?, ?, ?) RETURNING `+projectColumns),
		in.Title, in.Description, in.Status, in.Budget, in.Date, in.Category, in.ImageURL).StructScan(&project)
	if err != nil {
		return domain.Project{}, fmt.Errorf("insert project: %w", err)
	}
	return project, nil
}

// Update overwrites every scalar field. The image is replaced only when
// in.ImageURL is set; the previous file is left on disk.
func (p *Projects) Update(ctx context.Context, id int64, in ProjectInput) (domain.Project, error) {
	var project domain.Project
	err := database.WithTx(ctx, p.db, func(tx *sqlx.Tx) error {
		current, err := getProject(ctx, tx, id)
		if err != nil {
			return err
		}
		project = domain.Project{
			ID:          current.ID,
			Title:       in.Title,
			Description: in.Description,
			Status:      in.Status,
			Budget:      in.Budget,
			Date:        in.Date,
			Category:    in.Category,
			ImageURL:    current.ImageURL,
		}
		if in.ImageURL != nil {
			project.ImageURL = in.ImageURL
		}
		_, err = tx.ExecContext(ctx, tx.Rebind(`UPDATE projects SET title = ?, description = ?, status = ?, budget = ?, date = ?, category = ?, image_url = ? WHERE id = ?`),
			project.Title, project.Description, project.Status, project.Budget, project.Date, project.Category, project.ImageURL, id)
		if err != nil {
			return fmt.Errorf("update project: %w", err)
		}
		return nil
	})
	if err != nil {
		return domain.Project{}, err
	}
	return project, nil
}

func (p *Projects) Delete(ctx context.Context, id int64) error {
	return deleteByID(ctx, p.db, "projects", id)
}

func getProject(ctx context.Context, q queryer, id int64) (domain.Project, error) {
	var project domain.Project
	err := sqlx.GetContext(ctx, q, &project, q.Rebind(`SELECT `+projectColumns+` FROM projects WHERE id = ?`), id)
	if errors.Is(err, sql.ErrNoRows) {
		return domain.Project{}, ErrNotFound
	}
	if err != nil {
		return domain.Project{}, fmt.Errorf("get project: %w", err)
	}
	return project, nil
}
