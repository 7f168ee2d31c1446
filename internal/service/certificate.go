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

type CertificateService struct {
	certificateRepo repository.CertificateRepository
	files           *FileService
	query           *cache.Query
	changes         changes
}

func NewCertificateService(certificateRepo repository.CertificateRepository, files *FileService, query *cache.Query, events Publisher) *CertificateService {
	return &CertificateService{
		certificateRepo: certificateRepo,
		files:           files,
		query:           query,
		changes:         changes{query: query, events: events},
	}
}

// List returns every certificate, newest first. Titles need not be unique.
func (s *CertificateService) List(ctx context.Context) ([]*model.Certificate, error) {
	return cache.Fetch(ctx, s.query, cache.KeyCertificates, s.certificateRepo.List)
}

func (s *CertificateService) Create(ctx context.Context, in model.CertificateInput) (*model.Certificate, error) {
	user, err := currentUser(ctx)
	if err != nil {
		return nil, err
	}

	err = validation.Certificate(&in)
	if err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	certificate := &model.Certificate{
		ID:              uuid.New().String(),
		UserID:          user.ID,
		Title:           in.Title,
		Issuer:          in.Issuer,
		Date:            in.Date,
		CredentialID:    model.Optional(in.CredentialID),
		ImageURL:        model.Optional(in.ImageURL),
		VerificationURL: model.Optional(in.VerificationURL),
		CreatedAt:       now,
		UpdatedAt:       now,
	}

	err = s.certificateRepo.Create(ctx, certificate)
	if err != nil {
		return nil, fmt.Errorf("failed to create certificate: %w", err)
	}

	s.changes.record(ctx, realtime.TableCertificates, realtime.EventInsert, certificate, cache.KeyCertificates)
	return certificate, nil
}

// Update changes the set fields of a certificate the identity owns. Rows owned by
// someone else are reported as not found.
func (s *CertificateService) Update(ctx context.Context, id string, patch model.CertificatePatch) (*model.Certificate, error) {
	user, err := currentUser(ctx)
	if err != nil {
		return nil, err
	}

	err = validation.CertificatePatch(&patch)
	if err != nil {
		return nil, err
	}

	certificate, err := s.owned(ctx, id, user.ID)
	if err != nil {
		return nil, err
	}

	patch.Apply(certificate)
	certificate.UpdatedAt = time.Now().UTC()

	err = s.certificateRepo.Update(ctx, certificate)
	if errors.Is(err, repository.ErrCertificateNotFound) {
		return nil, notFound("certificate", id)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to update certificate: %w", err)
	}

	s.changes.record(ctx, realtime.TableCertificates, realtime.EventUpdate, certificate, cache.KeyCertificates)
	return certificate, nil
}

func (s *CertificateService) Delete(ctx context.Context, id string) error {
	user, err := currentUser(ctx)
	if err != nil {
		return err
	}

	certificate, err := s.owned(ctx, id, user.ID)
	if err != nil {
		return err
	}

	err = s.certificateRepo.Delete(ctx, id, user.ID)
	if errors.Is(err, repository.ErrCertificateNotFound) {
		return notFound("certificate", id)
	}
	if err != nil {
		return fmt.Errorf("failed to delete certificate: %w", err)
	}

	s.changes.record(ctx, realtime.TableCertificates, realtime.EventDelete, certificate, cache.KeyCertificates)
	return nil
}

func (s *CertificateService) UploadImage(ctx context.Context, up Upload) (string, error) {
	return s.files.UploadImage(ctx, BucketCertificates, up)
}

func (s *CertificateService) owned(ctx context.Context, id, userID string) (*model.Certificate, error) {
	certificate, err := s.certificateRepo.ByID(ctx, id)
	if errors.Is(err, repository.ErrCertificateNotFound) {
		return nil, notFound("certificate", id)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get certificate: %w", err)
	}

	if certificate.UserID != userID {
		return nil, notFound("certificate", id)
	}

	return certificate, nil
}
