package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/josiahuma/ovipoint/internal/auth"
	"github.com/josiahuma/ovipoint/internal/models"
	"github.com/josiahuma/ovipoint/internal/repository"
	"github.com/rs/zerolog"
	"gorm.io/gorm"
)

type SignupInput struct {
	Name            string
	Slug            string
	AdminEmail      string
	Password        string
	SMSContactPhone string
}

type OrganisationService interface {
	Signup(ctx context.Context, in SignupInput) (*models.Organisation, error)
	Login(ctx context.Context, email, password string) (*models.Organisation, error)
	GetBySlug(ctx context.Context, slug string) (*models.Organisation, error)
	GetByID(ctx context.Context, id int64) (*models.Organisation, error)
	Search(ctx context.Context, query string) ([]models.Organisation, error)
	UpdateSMSPhone(ctx context.Context, orgID int64, phone string) error
}

type organisationService struct {
	repo   repository.OrganisationRepository
	logger *zerolog.Logger
}

func NewOrganisationService(repo repository.OrganisationRepository, logger *zerolog.Logger) OrganisationService {
	return &organisationService{repo: repo, logger: logger}
}

func (s *organisationService) Signup(ctx context.Context, in SignupInput) (*models.Organisation, error) {
	name := strings.TrimSpace(in.Name)
	slug := strings.ToLower(strings.TrimSpace(in.Slug))
	email := strings.ToLower(strings.TrimSpace(in.AdminEmail))

	if name == "" || slug == "" || email == "" || in.Password == "" {
		return nil, fmt.Errorf("name, slug, email and password are required")
	}

	if _, err := s.repo.FindBySlug(ctx, slug); err == nil {
		return nil, ErrSlugTaken
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	hash, err := auth.HashPassword(in.Password)
	if err != nil {
		return nil, err
	}

	org := &models.Organisation{
		Name:            name,
		Slug:            slug,
		AdminEmail:      email,
		PasswordHash:    hash,
		SMSContactPhone: strings.TrimSpace(in.SMSContactPhone),
	}
	if err := s.repo.Create(ctx, org); err != nil {
		return nil, err
	}

	s.logger.Info().Int64("organisation_id", org.ID).Str("slug", org.Slug).Msg("organisation created")
	return org, nil
}

func (s *organisationService) Login(ctx context.Context, email, password string) (*models.Organisation, error) {
	org, err := s.repo.FindByEmail(ctx, strings.ToLower(strings.TrimSpace(email)))
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrInvalidCredentials
		}
		return nil, err
	}
	if !auth.CheckPassword(org.PasswordHash, password) {
		return nil, ErrInvalidCredentials
	}
	return org, nil
}

func (s *organisationService) GetBySlug(ctx context.Context, slug string) (*models.Organisation, error) {
	org, err := s.repo.FindBySlug(ctx, strings.ToLower(strings.TrimSpace(slug)))
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrOrganisationNotFound
		}
		return nil, err
	}
	return org, nil
}

func (s *organisationService) GetByID(ctx context.Context, id int64) (*models.Organisation, error) {
	org, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrOrganisationNotFound
		}
		return nil, err
	}
	return org, nil
}

func (s *organisationService) Search(ctx context.Context, query string) ([]models.Organisation, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return nil, nil
	}
	return s.repo.Search(ctx, query, 20)
}

func (s *organisationService) UpdateSMSPhone(ctx context.Context, orgID int64, phone string) error {
	if _, err := s.GetByID(ctx, orgID); err != nil {
		return err
	}
	return s.repo.UpdateSMSPhone(ctx, orgID, strings.TrimSpace(phone))
}
