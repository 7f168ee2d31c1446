package service

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/templui/portfolio/internal/cache"
	"github.com/templui/portfolio/internal/ctxkeys"
	"github.com/templui/portfolio/internal/model"
	"github.com/templui/portfolio/internal/realtime"
	"github.com/templui/portfolio/internal/repository"
	"github.com/templui/portfolio/internal/validation"
)

type ProfileService struct {
	profileRepo repository.ProfileRepository
	files       *FileService
	query       *cache.Query
	changes     changes

	mu           sync.RWMutex
	defaultOwner string
}

func NewProfileService(profileRepo repository.ProfileRepository, files *FileService, query *cache.Query, events Publisher) *ProfileService {
	return &ProfileService{
		profileRepo: profileRepo,
		files:       files,
		query:       query,
		changes:     changes{query: query, events: events},
	}
}

// SetDefaultOwner sets whose profile anonymous visitors see.
func (s *ProfileService) SetDefaultOwner(userID string) {
	s.mu.Lock()
	s.defaultOwner = userID
	s.mu.Unlock()
}

func (s *ProfileService) DefaultOwner() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.defaultOwner
}

// Target resolves whose profile a request is about: an explicit id, else the
// signed-in identity, else the site owner.
func (s *ProfileService) Target(ctx context.Context, userID string) string {
	if userID != "" {
		return userID
	}
	if id := ctxkeys.UserID(ctx); id != "" {
		return id
	}
	return s.DefaultOwner()
}

// Get returns the profile for the resolved target. It returns nil without an
// error when the profile has not been created yet.
func (s *ProfileService) Get(ctx context.Context, userID string) (*model.Profile, error) {
	target := s.Target(ctx, userID)
	if target == "" {
		return nil, nil
	}

	return cache.Fetch(ctx, s.query, cache.KeyProfile(target), func(ctx context.Context) (*model.Profile, error) {
		profile, err := s.profileRepo.ByUserID(ctx, target)
		if errors.Is(err, repository.ErrProfileNotFound) {
			return nil, nil
		}
		return profile, err
	})
}

// Upsert creates the identity's profile on first edit and otherwise changes
// only the fields set in patch.
func (s *ProfileService) Upsert(ctx context.Context, patch model.ProfilePatch) (*model.Profile, error) {
	user, err := currentUser(ctx)
	if err != nil {
		return nil, err
	}

	err = validation.Profile(&patch)
	if err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	eventType := realtime.EventUpdate

	profile, err := s.profileRepo.ByUserID(ctx, user.ID)
	if errors.Is(err, repository.ErrProfileNotFound) {
		eventType = realtime.EventInsert
		profile = &model.Profile{
			ID:             uuid.New().String(),
			UserID:         user.ID,
			FrontendSkills: model.StringList{},
			BackendSkills:  model.StringList{},
			CreatedAt:      now,
		}
	} else if err != nil {
		return nil, fmt.Errorf("failed to get profile: %w", err)
	}

	patch.Apply(profile)
	profile.UpdatedAt = now

	err = s.profileRepo.Upsert(ctx, profile)
	if err != nil {
		return nil, fmt.Errorf("failed to save profile: %w", err)
	}

	s.changes.record(ctx, realtime.TableProfiles, eventType, profile, cache.KeyProfile(user.ID))
	return profile, nil
}

// UploadAvatar stores the image and points the profile's avatar_url at it.
func (s *ProfileService) UploadAvatar(ctx context.Context, up Upload) (*model.Profile, error) {
	url, err := s.files.UploadAvatar(ctx, up)
	if err != nil {
		return nil, err
	}

	return s.Upsert(ctx, model.ProfilePatch{AvatarURL: &url})
}
