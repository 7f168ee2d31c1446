package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/templui/portfolio/internal/cache"
	"github.com/templui/portfolio/internal/model"
	"github.com/templui/portfolio/internal/realtime"
	"github.com/templui/portfolio/internal/repository"
	"github.com/templui/portfolio/internal/validation"
)

type ProjectService struct {
	projectRepo repository.ProjectRepository
	files       *FileService
	query       *cache.Query
	changes     changes
}

func NewProjectService(projectRepo repository.ProjectRepository, files *FileService, query *cache.Query, events Publisher) *ProjectService {
	return &ProjectService{
		projectRepo: projectRepo,
		files:       files,
		query:       query,
		changes:     changes{query: query, events: events},
	}
}

// List returns every project, newest first.
func (s *ProjectService) List(ctx context.Context) ([]*model.Project, error) {
	return cache.Fetch(ctx, s.query, cache.KeyProjects, s.projectRepo.List)
}

func (s *ProjectService) Create(ctx context.Context, in model.ProjectInput) (*model.Project, error) {
	user, err := currentUser(ctx)
	if err != nil {
		return nil, err
	}

	err = validation.Project(&in)
	if err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	project := &model.Project{
		ID:           uuid.New().String(),
		UserID:       user.ID,
		Title:        in.Title,
		Description:  in.Description,
		Technologies: model.StringList(in.Technologies),
		ImageURL:     model.Optional(in.ImageURL),
		GithubURL:    model.Optional(in.GithubURL),
		DemoURL:      model.Optional(in.DemoURL),
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	err = s.projectRepo.Create(ctx, project)
	if err != nil {
		return nil, fmt.Errorf("failed to create project: %w", err)
	}

	s.changes.record(ctx, realtime.TableProjects, realtime.EventInsert, project, cache.KeyProjects)
	return project, nil
}

// Update changes the set fields of a project the identity owns. Rows owned by
// someone else are reported as not found.
func (s *ProjectService) Update(ctx context.Context, id string, patch model.ProjectPatch) (*model.Project, error) {
	user, err := currentUser(ctx)
	if err != nil {
		return nil, err
	}

	err = validation.ProjectPatch(&patch)
	if err != nil {
		return nil, err
	}

	project, err := s.owned(ctx, id, user.ID)
	if err != nil {
		return nil, err
	}

	patch.Apply(project)
	project.UpdatedAt = time.Now().UTC()

	err = s.projectRepo.Update(ctx, project)
	if errors.Is(err, repository.ErrProjectNotFound) {
		return nil, notFound("project", id)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to update project: %w", err)
	}

	s.changes.record(ctx, realtime.TableProjects, realtime.EventUpdate, project, cache.KeyProjects)
	return project, nil
}

func (s *ProjectService) Delete(ctx context.Context, id string) error {
	user, err := currentUser(ctx)
	if err != nil {
		return err
	}

	project, err := s.owned(ctx, id, user.ID)
	if err != nil {
		return err
	}

	err = s.projectRepo.Delete(ctx, id, user.ID)
	if errors.Is(err, repository.ErrProjectNotFound) {
		return notFound("project", id)
	}
	if err != nil {
		return fmt.Errorf("failed to delete project: %w", err)
	}

	s.changes.record(ctx, realtime.TableProjects, realtime.EventDelete, project, cache.KeyProjects)
	return nil
}

func (s *ProjectService) UploadImage(ctx context.Context, up Upload) (string, error) {
	return s.files.UploadImage(ctx, BucketProjects, up)
}

func (s *ProjectService) owned(ctx context.Context, id, userID string) (*model.Project, error) {
	project, err := s.projectRepo.ByID(ctx, id)
	if errors.Is(err, repository.ErrProjectNotFound) {
		return nil, notFound("project", id)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get project: %w", err)
	}

	if project.UserID != userID {
		return nil, notFound("project", id)
	}

	return project, nil
}
