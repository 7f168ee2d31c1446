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

type DSAProblemService struct {
	problemRepo repository.DSAProblemRepository
	query       *cache.Query
	changes     changes
}

func NewDSAProblemService(problemRepo repository.DSAProblemRepository, query *cache.Query, events Publisher) *DSAProblemService {
	return &DSAProblemService{
		problemRepo: problemRepo,
		query:       query,
		changes:     changes{query: query, events: events},
	}
}

// List returns every problem, newest first.
func (s *DSAProblemService) List(ctx context.Context) ([]*model.DSAProblem, error) {
	return cache.Fetch(ctx, s.query, cache.KeyDSAProblems, s.problemRepo.List)
}

func (s *DSAProblemService) Create(ctx context.Context, in model.DSAProblemInput) (*model.DSAProblem, error) {
	user, err := currentUser(ctx)
	if err != nil {
		return nil, err
	}

	err = validation.DSAProblem(&in)
	if err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	problem := &model.DSAProblem{
		ID:              uuid.New().String(),
		UserID:          user.ID,
		Title:           in.Title,
		Platform:        in.Platform,
		Difficulty:      in.Difficulty,
		Category:        in.Category,
		TimeComplexity:  in.TimeComplexity,
		SpaceComplexity: in.SpaceComplexity,
		ProblemURL:      model.Optional(in.ProblemURL),
		SolutionURL:     model.Optional(in.SolutionURL),
		Notes:           model.Optional(in.Notes),
		Solved:          in.Solved,
		CreatedAt:       now,
		UpdatedAt:       now,
	}

	err = s.problemRepo.Create(ctx, problem)
	if err != nil {
		return nil, fmt.Errorf("failed to create problem: %w", err)
	}

	s.changes.record(ctx, realtime.TableDSAProblems, realtime.EventInsert, problem, cache.KeyDSAProblems)
	return problem, nil
}

// Update changes the set fields of a problem the identity owns. Rows owned by
// someone else are reported as not found.
func (s *DSAProblemService) Update(ctx context.Context, id string, patch model.DSAProblemPatch) (*model.DSAProblem, error) {
	user, err := currentUser(ctx)
	if err != nil {
		return nil, err
	}

	err = validation.DSAProblemPatch(&patch)
	if err != nil {
		return nil, err
	}

	problem, err := s.owned(ctx, id, user.ID)
	if err != nil {
		return nil, err
	}

	patch.Apply(problem)
	problem.UpdatedAt = time.Now().UTC()

	err = s.problemRepo.Update(ctx, problem)
	if errors.Is(err, repository.ErrDSAProblemNotFound) {
		return nil, notFound("dsa problem", id)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to update problem: %w", err)
	}

	s.changes.record(ctx, realtime.TableDSAProblems, realtime.EventUpdate, problem, cache.KeyDSAProblems)
	return problem, nil
}

func (s *DSAProblemService) Delete(ctx context.Context, id string) error {
	user, err := currentUser(ctx)
	if err != nil {
		return err
	}

	problem, err := s.owned(ctx, id, user.ID)
	if err != nil {
		return err
	}

	err = s.problemRepo.Delete(ctx, id, user.ID)
	if errors.Is(err, repository.ErrDSAProblemNotFound) {
		return notFound("dsa problem", id)
	}
	if err != nil {
		return fmt.Errorf("failed to delete problem: %w", err)
	}

	s.changes.record(ctx, realtime.TableDSAProblems, realtime.EventDelete, problem, cache.KeyDSAProblems)
	return nil
}

func (s *DSAProblemService) owned(ctx context.Context, id, userID string) (*model.DSAProblem, error) {
	problem, err := s.problemRepo.ByID(ctx, id)
	if errors.Is(err, repository.ErrDSAProblemNotFound) {
		return nil, notFound("dsa problem", id)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get problem: %w", err)
	}

	if problem.UserID != userID {
		return nil, notFound("dsa problem", id)
	}

	return problem, nil
}
