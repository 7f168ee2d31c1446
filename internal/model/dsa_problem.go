package model

import "time"

const (
	DifficultyEasy   = "Easy"
	DifficultyMedium = "Medium"
	DifficultyHard   = "Hard"
)

// Difficulties lists the allowed difficulty values in display order.
var Difficulties = []string{DifficultyEasy, DifficultyMedium, DifficultyHard}

type DSAProblem struct {
	ID              string    `db:"id" json:"id"`
	UserID          string    `db:"user_id" json:"user_id"`
	Title           string    `db:"title" json:"title"`
	Platform        string    `db:"platform" json:"platform"`
	Difficulty      string    `db:"difficulty" json:"difficulty"`
	Category        string    `db:"category" json:"category"`
	TimeComplexity  string    `db:"time_complexity" json:"time_complexity"`
	SpaceComplexity string    `db:"space_complexity" json:"space_complexity"`
	ProblemURL      *string   `db:"problem_url" json:"problem_url"`
	SolutionURL     *string   `db:"solution_url" json:"solution_url"`
	Notes           *string   `db:"notes" json:"notes"`
	Solved          bool      `db:"solved" json:"solved"`
	CreatedAt       time.Time `db:"created_at" json:"created_at"`
	UpdatedAt       time.Time `db:"updated_at" json:"updated_at"`
}

func (p *DSAProblem) OwnerID() string { return p.UserID }
func (p *DSAProblem) RowKey() string  { return p.ID }

type DSAProblemInput struct {
	Title           string `json:"title" validate:"required,max=200"`
	Platform        string `json:"platform" validate:"required"`
	Difficulty      string `json:"difficulty" validate:"required,difficulty"`
	Category        string `json:"category" validate:"required"`
	TimeComplexity  string `json:"time_complexity" validate:"required"`
	SpaceComplexity string `json:"space_complexity" validate:"required"`
	ProblemURL      string `json:"problem_url" validate:"omitempty,url"`
	SolutionURL     string `json:"solution_url" validate:"omitempty,url"`
	Notes           string `json:"notes"`
	Solved          bool   `json:"solved"`
}

type DSAProblemPatch struct {
	Title           *string `json:"title,omitempty"`
	Platform        *string `json:"platform,omitempty"`
	Difficulty      *string `json:"difficulty,omitempty"`
	Category        *string `json:"category,omitempty"`
	TimeComplexity  *string `json:"time_complexity,omitempty"`
	SpaceComplexity *string `json:"space_complexity,omitempty"`
	ProblemURL      *string `json:"problem_url,omitempty"`
	SolutionURL     *string `json:"solution_url,omitempty"`
	Notes           *string `json:"notes,omitempty"`
	Solved          *bool   `json:"solved,omitempty"`
}

func (p DSAProblemPatch) Apply(d *DSAProblem) {
	if p.Title != nil {
		d.Title = *p.Title
	}
	if p.Platform != nil {
		d.Platform = *p.Platform
	}
	if p.Difficulty != nil {
		d.Difficulty = *p.Difficulty
	}
	if p.Category != nil {
		d.Category = *p.Category
	}
	if p.TimeComplexity != nil {
		d.TimeComplexity = *p.TimeComplexity
	}
	if p.SpaceComplexity != nil {
		d.SpaceComplexity = *p.SpaceComplexity
	}
	setOptional(&d.ProblemURL, p.ProblemURL)
	setOptional(&d.SolutionURL, p.SolutionURL)
	setOptional(&d.Notes, p.Notes)
	if p.Solved != nil {
		d.Solved = *p.Solved
	}
}
