package model

import "time"

type Certificate struct {
	ID              string    `db:"id" json:"id"`
	UserID          string    `db:"user_id" json:"user_id"`
	Title           string    `db:"title" json:"title"`
	Issuer          string    `db:"issuer" json:"issuer"`
	Date            string    `db:"date" json:"date"` // free text, e.g. "March 2024"
	CredentialID    *string   `db:"credential_id" json:"credential_id"`
	ImageURL        *string   `db:"image_url" json:"image_url"`
	VerificationURL *string   `db:"verification_url" json:"verification_url"`
	CreatedAt       time.Time `db:"created_at" json:"created_at"`
	UpdatedAt       time.Time `db:"updated_at" json:"updated_at"`
}

func (c *Certificate) OwnerID() string { return c.UserID }
func (c *Certificate) RowKey() string  { return c.ID }

type CertificateInput struct {
	Title           string `json:"title" validate:"required,max=200"`
	Issuer          string `json:"issuer" validate:"required"`
	Date            string `json:"date" validate:"required"`
	CredentialID    string `json:"credential_id"`
	ImageURL        string `json:"image_url" validate:"omitempty,url"`
	VerificationURL string `json:"verification_url" validate:"omitempty,url"`
}

type CertificatePatch struct {
	Title           *string `json:"title,omitempty"`
	Issuer          *string `json:"issuer,omitempty"`
	Date            *string `json:"date,omitempty"`
	CredentialID    *string `json:"credential_id,omitempty"`
	ImageURL        *string `json:"image_url,omitempty"`
	VerificationURL *string `json:"verification_url,omitempty"`
}

func (p CertificatePatch) Apply(c *Certificate) {
	if p.Title != nil {
		c.Title = *p.Title
	}
	if p.Issuer != nil {
		c.Issuer = *p.Issuer
	}
	if p.Date != nil {
		c.Date = *p.Date
	}
	setOptional(&c.CredentialID, p.CredentialID)
	setOptional(&c.ImageURL, p.ImageURL)
	setOptional(&c.VerificationURL, p.VerificationURL)
}
