package service

import (
	"context"
	"time"

	"github.com/rs/zerolog"

	"github.com/contactbook/contacts-api/internal/core/domain"
	"github.com/contactbook/contacts-api/internal/core/ports"
)

const (
	defaultListLimit      = 100
	defaultBirthdayWindow = 7
)

// ContactService implements the owner-scoped contact operations. It trusts
// the repository to enforce the ownership filter on every query; its own job
// is defaulting, owner assignment and logging.
type ContactService struct {
	repo   ports.ContactRepository
	logger zerolog.Logger
}

func NewContactService(repo ports.ContactRepository, logger zerolog.Logger) *ContactService {
	return &ContactService{repo: repo, logger: logger}
}

func (s *ContactService) List(ctx context.Context, user *domain.User, offset, limit int) ([]domain.Contact, error) {
	if offset < 0 {
		offset = 0
	}
	if limit <= 0 || limit > defaultListLimit {
		limit = defaultListLimit
	}
	return s.repo.List(ctx, user.ID, offset, limit)
}

func (s *ContactService) Get(ctx context.Context, id string, user *domain.User) (*domain.Contact, error) {
	return s.repo.Get(ctx, id, user.ID)
}

func (s *ContactService) Create(ctx context.Context, input ports.CreateContactInput, user *domain.User) (*domain.Contact, error) {
	now := time.Now().UTC()
	contact := &domain.Contact{
		UserID:    user.ID,
		FirstName: input.FirstName,
		LastName:  input.LastName,
		Email:     input.Email,
		Phone:     input.Phone,
		Birthday:  input.Birthday,
		ExtraInfo: input.ExtraInfo,
		CreatedAt: now,
		UpdatedAt: now,
	}

	created, err := s.repo.Create(ctx, contact)
	if err != nil {
		return nil, err
	}
	s.logger.Info().Str("contact_id", created.ID).Str("username", user.Username).Msg("contact created")
	return created, nil
}

func (s *ContactService) Update(ctx context.Context, id string, patch domain.ContactPatch, user *domain.User) (*domain.Contact, error) {
	return s.repo.Update(ctx, id, user.ID, patch)
}

func (s *ContactService) Delete(ctx context.Context, id string, user *domain.User) (*domain.Contact, error) {
	deleted, err := s.repo.Delete(ctx, id, user.ID)
	if err != nil {
		return nil, err
	}
	s.logger.Info().Str("contact_id", id).Str("username", user.Username).Msg("contact deleted")
	return deleted, nil
}

func (s *ContactService) Search(ctx context.Context, user *domain.User, query ports.ContactSearch) ([]domain.Contact, error) {
	return s.repo.Search(ctx, user.ID, query)
}

func (s *ContactService) UpcomingBirthdays(ctx context.Context, user *domain.User, horizonDays int) ([]domain.Contact, error) {
	if horizonDays <= 0 {
		horizonDays = defaultBirthdayWindow
	}
	return s.repo.BirthdaysWithin(ctx, user.ID, time.Now().UTC(), horizonDays)
}
