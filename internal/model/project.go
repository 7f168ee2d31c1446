package model

import "time"

type Project struct {
	ID           string     `db:"id" json:"id"`
	UserID       string     `db:"user_id" json:"user_id"`
	Title        string     `db:"title" json:"title"`
	Description  string     `db:"description" json:"description"`
	Technologies StringList `db:"technologies" json:"technologies"`
	ImageURL     *string    `db:"image_url" json:"image_url"`
	GithubURL    *string    `db:"github_url" json:"github_url"`
	DemoURL      *string    `db:"demo_url" json:"demo_url"`
	CreatedAt    time.Time  `db:"created_at" json:"created_at"`
	UpdatedAt    time.Time  `db:"updated_at" json:"updated_at"`
}

func (p *Project) OwnerID() string { return p.UserID }
func (p *Project) RowKey() string  { return p.ID }

type ProjectInput struct {
	Title        string   `json:"title" validate:"required,max=200"`
	Description  string   `json:"description" validate:"required"`
	Technologies []string `json:"technologies" validate:"min=1,dive,required"`
	ImageURL     string   `json:"image_url" validate:"omitempty,url"`
	GithubURL    string   `json:"github_url" validate:"omitempty,url"`
	DemoURL      string   `json:"demo_url" validate:"omitempty,url"`
}

type ProjectPatch struct {
	Title        *string   `json:"title,omitempty"`
	Description  *string   `json:"description,omitempty"`
	Technologies *[]string `json:"technologies,omitempty"`
	ImageURL     *string   `json:"image_url,omitempty"`
	GithubURL    *string   `json:"github_url,omitempty"`
	DemoURL      *string   `json:"demo_url,omitempty"`
}

func (p ProjectPatch) Apply(project *Project) {
	if p.Title != nil {
		project.Title = *p.Title
	}
	if p.Description != nil {
		project.Description = *p.Description
	}
	if p.Technologies != nil {
		project.Technologies = StringList(*p.Technologies)
	}
	setOptional(&project.ImageURL, p.ImageURL)
	setOptional(&project.GithubURL, p.GithubURL)
	setOptional(&project.DemoURL, p.DemoURL)
}
