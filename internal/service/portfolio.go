package service

import (
	"context"
	"fmt"

	"github.com/templui/portfolio/internal/ctxkeys"
	"github.com/templui/portfolio/internal/markdown"
	"github.com/templui/portfolio/internal/model"
	"golang.org/x/sync/errgroup"
)

type ProfileView struct {
	*model.Profile
	BioHTML  *string `json:"bio_html"`
	Editable bool    `json:"editable"`
}

type ProjectView struct {
	*model.Project
	DescriptionHTML string `json:"description_html"`
	Editable        bool   `json:"editable"`
}

type CertificateView struct {
	*model.Certificate
	Editable bool `json:"editable"`
}

type DSAProblemView struct {
	*model.DSAProblem
	NotesHTML *string `json:"notes_html"`
	Editable  bool    `json:"editable"`
}

type DifficultyStats struct {
	Difficulty string `json:"difficulty"`
	Total      int    `json:"total"`
	Solved     int    `json:"solved"`
}

type DSAStats struct {
	Total        int               `json:"total"`
	Solved       int               `json:"solved"`
	ByDifficulty []DifficultyStats `json:"by_difficulty"`
}

// Portfolio is everything the public page shows in one response.
type Portfolio struct {
	Profile      *ProfileView      `json:"profile"`
	Projects     []ProjectView     `json:"projects"`
	Certificates []CertificateView `json:"certificates"`
	DSAProblems  []DSAProblemView  `json:"dsa_problems"`
	DSAStats     DSAStats          `json:"dsa_stats"`
	SignedIn     bool              `json:"signed_in"`
}

type PortfolioService struct {
	profiles     *ProfileService
	projects     *ProjectService
	certificates *CertificateService
	problems     *DSAProblemService
	md           *markdown.Parser
}

func NewPortfolioService(
	profiles *ProfileService,
	projects *ProjectService,
	certificates *CertificateService,
	problems *DSAProblemService,
	md *markdown.Parser,
) *PortfolioService {
	return &PortfolioService{
		profiles:     profiles,
		projects:     projects,
		certificates: certificates,
		problems:     problems,
		md:           md,
	}
}

// Get loads all sections concurrently. A row is editable when the signed-in
// identity owns it.
func (s *PortfolioService) Get(ctx context.Context, profileUserID string) (*Portfolio, error) {
	var (
		profile      *model.Profile
		projects     []*model.Project
		certificates []*model.Certificate
		problems     []*model.DSAProblem
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() (err error) {
		profile, err = s.profiles.Get(gctx, profileUserID)
		return err
	})
	g.Go(func() (err error) {
		projects, err = s.projects.List(gctx)
		return err
	})
	g.Go(func() (err error) {
		certificates, err = s.certificates.List(gctx)
		return err
	})
	g.Go(func() (err error) {
		problems, err = s.problems.List(gctx)
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("failed to load portfolio: %w", err)
	}

	viewer := ctxkeys.UserID(ctx)
	out := &Portfolio{
		Projects:     make([]ProjectView, 0, len(projects)),
		Certificates: make([]CertificateView, 0, len(certificates)),
		DSAProblems:  make([]DSAProblemView, 0, len(problems)),
		DSAStats:     Stats(problems),
		SignedIn:     viewer != "",
	}

	if profile != nil {
		bio, err := s.md.RenderOptional(profile.Bio)
		if err != nil {
			return nil, fmt.Errorf("failed to render bio: %w", err)
		}
		out.Profile = &ProfileView{Profile: profile, BioHTML: bio, Editable: owns(viewer, profile.UserID)}
	}

	for _, p := range projects {
		html, err := s.md.Render(p.Description)
		if err != nil {
			return nil, fmt.Errorf("failed to render project %s: %w", p.ID, err)
		}
		out.Projects = append(out.Projects, ProjectView{Project: p, DescriptionHTML: html, Editable: owns(viewer, p.UserID)})
	}

	for _, c := range certificates {
		out.Certificates = append(out.Certificates, CertificateView{Certificate: c, Editable: owns(viewer, c.UserID)})
	}

	for _, p := range problems {
		notes, err := s.md.RenderOptional(p.Notes)
		if err != nil {
			return nil, fmt.Errorf("failed to render notes for %s: %w", p.ID, err)
		}
		out.DSAProblems = append(out.DSAProblems, DSAProblemView{DSAProblem: p, NotesHTML: notes, Editable: owns(viewer, p.UserID)})
	}

	return out, nil
}

// Stats counts problems and solved problems, overall and per difficulty.
func Stats(problems []*model.DSAProblem) DSAStats {
	stats := DSAStats{ByDifficulty: make([]DifficultyStats, len(model.Difficulties))}
	index := make(map[string]int, len(model.Difficulties))
	for i, d := range model.Difficulties {
		stats.ByDifficulty[i].Difficulty = d
		index[d] = i
	}

	for _, p := range problems {
		stats.Total++
		if p.Solved {
			stats.Solved++
		}
		i, ok := index[p.Difficulty]
		if !ok {
			continue
		}
		stats.ByDifficulty[i].Total++
		if p.Solved {
			stats.ByDifficulty[i].Solved++
		}
	}

	return stats
}

func owns(viewer, owner string) bool {
	return viewer != "" && viewer == owner
}
