package repository

import (
	"context"
	"database/sql"
	"errors"

	"github.com/jmoiron/sqlx"
	"github.com/templui/portfolio/internal/model"
)

var ErrDSAProblemNotFound = errors.New("dsa problem not found")

type DSAProblemRepository interface {
	Create(ctx context.Context, problem *model.DSAProblem) error
	ByID(ctx context.Context, id string) (*model.DSAProblem, error)
	List(ctx context.Context) ([]*model.DSAProblem, error)
	ListByUser(ctx context.Context, userID string) ([]*model.DSAProblem, error)
	Update(ctx context.Context, problem *model.DSAProblem) error
	Delete(ctx context.Context, id, userID string) error
}

type dsaProblemRepository struct {
	db *sqlx.DB
}

func NewDSAProblemRepository(db *sqlx.DB) DSAProblemRepository {
	return &dsaProblemRepository{db: db}
}

func (r *dsaProblemRepository) Create(ctx context.Context, p *model.DSAProblem) error {
	query := `INSERT INTO dsa_problems (
	              id, user_id, title, platform, difficulty, category, time_complexity, space_complexity,
	              problem_url, solution_url, notes, solved, created_at, updated_at)
	          VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14)`

	_, err := r.db.ExecContext(ctx, query,
		p.ID, p.UserID, p.Title, p.Platform, p.Difficulty, p.Category, p.TimeComplexity, p.SpaceComplexity,
		p.ProblemURL, p.SolutionURL, p.Notes, p.Solved, p.CreatedAt, p.UpdatedAt)
	return err
}

func (r *dsaProblemRepository) ByID(ctx context.Context, id string) (*model.DSAProblem, error) {
	var problem model.DSAProblem
	err := r.db.GetContext(ctx, &problem, `SELECT * FROM dsa_problems WHERE id = $1`, id)

	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrDSAProblemNotFound
	}
	if err != nil {
		return nil, err
	}

	return &problem, nil
}

func (r *dsaProblemRepository) List(ctx context.Context) ([]*model.DSAProblem, error) {
	problems := []*model.DSAProblem{}
	err := r.db.SelectContext(ctx, &problems, `SELECT * FROM dsa_problems ORDER BY created_at DESC, id DESC`)
	return problems, err
}

func (r *dsaProblemRepository) ListByUser(ctx context.Context, userID string) ([]*model.DSAProblem, error) {
	problems := []*model.DSAProblem{}
	err := r.db.SelectContext(ctx, &problems,
		`SELECT * FROM dsa_problems WHERE user_id = $1 ORDER BY created_at DESC, id DESC`, userID)
	return problems, err
}

func (r *dsaProblemRepository) Update(ctx context.Context, p *model.DSAProblem) error {
	query := `UPDATE dsa_problems
	          SET title = $1, platform = $2, difficulty = $3, category = $4, time_complexity = $5, space_complexity = $6,
	              problem_url = $7, solution_url = $8, notes = $9, solved = $10, updated_at = $11
	          WHERE id = $12 AND user_id = $13`

	result, err := r.db.ExecContext(ctx, query,
		p.Title, p.Platform, p.Difficulty, p.Category, p.TimeComplexity, p.SpaceComplexity,
		p.ProblemURL, p.SolutionURL, p.Notes, p.Solved, p.UpdatedAt,
		p.ID, p.UserID)
	if err != nil {
		return err
	}

	return expectRow(result, ErrDSAProblemNotFound)
}

func (r *dsaProblemRepository) Delete(ctx context.Context, id, userID string) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM dsa_problems WHERE id = $1 AND user_id = $2`, id, userID)
	if err != nil {
		return err
	}

	return expectRow(result, ErrDSAProblemNotFound)
}
