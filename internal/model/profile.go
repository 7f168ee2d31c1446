package model

import "time"

type Profile struct {
	ID             string     `db:"id" json:"id"`
	UserID         string     `db:"user_id" json:"user_id"`
	DisplayName    *string    `db:"display_name" json:"display_name"`
	Bio            *string    `db:"bio" json:"bio"`
	Location       *string    `db:"location" json:"location"`
	Email          *string    `db:"email" json:"email"`
	Phone          *string    `db:"phone" json:"phone"`
	GithubURL      *string    `db:"github_url" json:"github_url"`
	LinkedinURL    *string    `db:"linkedin_url" json:"linkedin_url"`
	LeetcodeURL    *string    `db:"leetcode_url" json:"leetcode_url"`
	AvatarURL      *string    `db:"avatar_url" json:"avatar_url"`
	FrontendSkills StringList `db:"frontend_skills" json:"frontend_skills"`
	BackendSkills  StringList `db:"backend_skills" json:"backend_skills"`
	CreatedAt      time.Time  `db:"created_at" json:"created_at"`
	UpdatedAt      time.Time  `db:"updated_at" json:"updated_at"`
}

func (p *Profile) OwnerID() string { return p.UserID }
func (p *Profile) RowKey() string  { return p.ID }

// ProfilePatch carries the fields an upsert should change. Nil fields are left alone;
// a pointer to an empty string clears the value.
type ProfilePatch struct {
	DisplayName    *string   `json:"display_name,omitempty"`
	Bio            *string   `json:"bio,omitempty"`
	Location       *string   `json:"location,omitempty"`
	Email          *string   `json:"email,omitempty"`
	Phone          *string   `json:"phone,omitempty"`
	GithubURL      *string   `json:"github_url,omitempty"`
	LinkedinURL    *string   `json:"linkedin_url,omitempty"`
	LeetcodeURL    *string   `json:"leetcode_url,omitempty"`
	AvatarURL      *string   `json:"avatar_url,omitempty"`
	FrontendSkills *[]string `json:"frontend_skills,omitempty"`
	BackendSkills  *[]string `json:"backend_skills,omitempty"`
}

// Apply copies the set fields of p onto profile.
func (p ProfilePatch) Apply(profile *Profile) {
	setOptional(&profile.DisplayName, p.DisplayName)
	setOptional(&profile.Bio, p.Bio)
	setOptional(&profile.Location, p.Location)
	setOptional(&profile.Email, p.Email)
	setOptional(&profile.Phone, p.Phone)
	setOptional(&profile.GithubURL, p.GithubURL)
	setOptional(&profile.LinkedinURL, p.LinkedinURL)
	setOptional(&profile.LeetcodeURL, p.LeetcodeURL)
	setOptional(&profile.AvatarURL, p.AvatarURL)
	if p.FrontendSkills != nil {
		profile.FrontendSkills = StringList(*p.FrontendSkills)
	}
	if p.BackendSkills != nil {
		profile.BackendSkills = StringList(*p.BackendSkills)
	}
}
