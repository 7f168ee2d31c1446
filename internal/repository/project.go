package repository

import (
	"context"
	"database/sql"
	"errors"

	"github.com/jmoiron/sqlx"
	"github.com/templui/portfolio/internal/model"
)

var ErrProjectNotFound = errors.New("project not found")

type ProjectRepository interface {
	Create(ctx context.Context, project *model.Project) error
	ByID(ctx context.Context, id string) (*model.Project, error)
	List(ctx context.Context) ([]*model.Project, error)
	ListByUser(ctx context.Context, userID string) ([]*model.Project, error)
	Update(ctx context.Context, project *model.Project) error
	Delete(ctx context.Context, id, userID string) error
}

type projectRepository struct {
	db *sqlx.DB
}

func NewProjectRepository(db *sqlx.DB) ProjectRepository {
	return &projectRepository{db: db}
}

func (r *projectRepository) Create(ctx context.Context, p *model.Project) error {
	query := `INSERT INTO projects (id, user_id, title, description, technologies, image_url, github_url, demo_url, created_at, updated_at)
	          VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)`

	_, err := r.db.ExecContext(ctx, query,
		p.ID, p.UserID, p.Title, p.Description, p.Technologies,
		p.ImageURL, p.GithubURL, p.DemoURL, p.CreatedAt, p.UpdatedAt)
	return err
}

func (r *projectRepository) ByID(ctx context.Context, id string) (*model.Project, error) {
	var project model.Project
	err := r.db.GetContext(ctx, &project, `SELECT * FROM projects WHERE id = $1`, id)

	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrProjectNotFound
	}
	if err != nil {
		return nil, err
	}

	return &project, nil
}

// List returns every project, newest first. Rows are publicly readable.
func (r *projectRepository) List(ctx context.Context) ([]*model.Project, error) {
	projects := []*model.Project{}
	err := r.db.SelectContext(ctx, &projects, `SELECT * FROM projects ORDER BY created_at DESC, id DESC`)
	return projects, err
}

func (r *projectRepository) ListByUser(ctx context.Context, userID string) ([]*model.Project, error) {
	projects := []*model.Project{}
	err := r.db.SelectContext(ctx, &projects,
		`SELECT * FROM projects WHERE user_id = $1 ORDER BY created_at DESC, id DESC`, userID)
	return projects, err
}

// Update writes the mutable columns of a row owned by p.UserID.
func (r *projectRepository) Update(ctx context.Context, p *model.Project) error {
	query := `UPDATE projects
	          SET title = $1, description = $2, technologies = $3, image_url = $4, github_url = $5, demo_url = $6, updated_at = $7
	          WHERE id = $8 AND user_id = $9`

	result, err := r.db.ExecContext(ctx, query,
		p.Title, p.Description, p.Technologies, p.ImageURL, p.GithubURL, p.DemoURL, p.UpdatedAt,
		p.ID, p.UserID)
	if err != nil {
		return err
	}

	return expectRow(result, ErrProjectNotFound)
}

func (r *projectRepository) Delete(ctx context.Context, id, userID string) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM projects WHERE id = $1 AND user_id = $2`, id, userID)
	if err != nil {
		return err
	}

	return expectRow(result, ErrProjectNotFound)
}
