package repository

import (
	"context"
	"database/sql"
	"errors"

	"github.com/jmoiron/sqlx"
	"github.com/templui/portfolio/internal/model"
)

var ErrProfileNotFound = errors.New("profile not found")

type ProfileRepository interface {
	ByUserID(ctx context.Context, userID string) (*model.Profile, error)
	// Upsert inserts the profile or, when one exists for profile.UserID, overwrites
	// its editable columns. id and created_at of an existing row are kept.
	Upsert(ctx context.Context, profile *model.Profile) error
}

type profileRepository struct {
	db *sqlx.DB
}

func NewProfileRepository(db *sqlx.DB) ProfileRepository {
	return &profileRepository{db: db}
}

func (r *profileRepository) ByUserID(ctx context.Context, userID string) (*model.Profile, error) {
	var profile model.Profile
	err := r.db.GetContext(ctx, &profile, `SELECT * FROM profiles WHERE user_id = $1`, userID)

	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrProfileNotFound
	}
	if err != nil {
		return nil, err
	}

	return &profile, nil
}

func (r *profileRepository) Upsert(ctx context.Context, p *model.Profile) error {
	query := `INSERT INTO profiles (
	              id, user_id, display_name, bio, location, email, phone,
	              github_url, linkedin_url, leetcode_url, avatar_url,
	              frontend_skills, backend_skills, created_at, updated_at)
	          VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15)
	          ON CONFLICT (user_id) DO UPDATE SET
	              display_name = excluded.display_name,
	              bio = excluded.bio,
	              location = excluded.location,
	              email = excluded.email,
	              phone = excluded.phone,
	              github_url = excluded.github_url,
	              linkedin_url = excluded.linkedin_url,
	              leetcode_url = excluded.leetcode_url,
	              avatar_url = excluded.avatar_url,
	              frontend_skills = excluded.frontend_skills,
	              backend_skills = excluded.backend_skills,
	              updated_at = excluded.updated_at`

	_, err := r.db.ExecContext(ctx, query,
		p.ID,
		p.UserID,
		p.DisplayName,
		p.Bio,
		p.Location,
		p.Email,
		p.Phone,
		p.GithubURL,
		p.LinkedinURL,
		p.LeetcodeURL,
		p.AvatarURL,
		p.FrontendSkills,
		p.BackendSkills,
		p.CreatedAt,
		p.UpdatedAt,
	)

	return err
}
