package repository

import (
	"context"
	"database/sql"
	"errors"

	"github.com/jmoiron/sqlx"
	"github.com/templui/portfolio/internal/model"
)

var ErrCertificateNotFound = errors.New("certificate not found")

type CertificateRepository interface {
	Create(ctx context.Context, certificate *model.Certificate) error
	ByID(ctx context.Context, id string) (*model.Certificate, error)
	List(ctx context.Context) ([]*model.Certificate, error)
	ListByUser(ctx context.Context, userID string) ([]*model.Certificate, error)
	Update(ctx context.Context, certificate *model.Certificate) error
	Delete(ctx context.Context, id, userID string) error
}

type certificateRepository struct {
	db *sqlx.DB
}

func NewCertificateRepository(db *sqlx.DB) CertificateRepository {
	return &certificateRepository{db: db}
}

func (r *certificateRepository) Create(ctx context.Context, c *model.Certificate) error {
	query := `INSERT INTO certificates (id, user_id, title, issuer, date, credential_id, image_url, verification_url, created_at, updated_at)
	          VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)`

	_, err := r.db.ExecContext(ctx, query,
		c.ID, c.UserID, c.Title, c.Issuer, c.Date,
		c.CredentialID, c.ImageURL, c.VerificationURL, c.CreatedAt, c.UpdatedAt)
	return err
}

func (r *certificateRepository) ByID(ctx context.Context, id string) (*model.Certificate, error) {
	var certificate model.Certificate
	err := r.db.GetContext(ctx, &certificate, `SELECT * FROM certificates WHERE id = $1`, id)

	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrCertificateNotFound
	}
	if err != nil {
		return nil, err
	}

	return &certificate, nil
}

func (r *certificateRepository) List(ctx context.Context) ([]*model.Certificate, error) {
	certificates := []*model.Certificate{}
	err := r.db.SelectContext(ctx, &certificates, `SELECT * FROM certificates ORDER BY created_at DESC, id DESC`)
	return certificates, err
}

func (r *certificateRepository) ListByUser(ctx context.Context, userID string) ([]*model.Certificate, error) {
	certificates := []*model.Certificate{}
	err := r.db.SelectContext(ctx, &certificates,
		`SELECT * FROM certificates WHERE user_id = $1 ORDER BY created_at DESC, id DESC`, userID)
	return certificates, err
}

func (r *certificateRepository) Update(ctx context.Context, c *model.Certificate) error {
	query := `UPDATE certificates
	          SET title = $1, issuer = $2, date = $3, credential_id = $4, image_url = $5, verification_url = $6, updated_at = $7
	          WHERE id = $8 AND user_id = $9`

	result, err := r.db.ExecContext(ctx, query,
		c.Title, c.Issuer, c.Date, c.CredentialID, c.ImageURL, c.VerificationURL, c.UpdatedAt,
		c.ID, c.UserID)
	if err != nil {
		return err
	}

	return expectRow(result, ErrCertificateNotFound)
}

func (r *certificateRepository) Delete(ctx context.Context, id, userID string) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM certificates WHERE id = $1 AND user_id = $2`, id, userID)
	if err != nil {
		return err
	}

	return expectRow(result, ErrCertificateNotFound)
}
