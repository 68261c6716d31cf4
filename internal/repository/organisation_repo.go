package repository

import (
	"context"

	"github.com/josiahuma/ovipoint/internal/models"
	"gorm.io/gorm"
)

type OrganisationRepository interface {
	Create(ctx context.Context, org *models.Organisation) error
	FindByID(ctx context.Context, id int64) (*models.Organisation, error)
	FindBySlug(ctx context.Context, slug string) (*models.Organisation, error)
	FindByEmail(ctx context.Context, email string) (*models.Organisation, error)
	Search(ctx context.Context, query string, limit int) ([]models.Organisation, error)
	UpdateSMSPhone(ctx context.Context, id int64, phone string) error
}

type organisationRepository struct {
	db *gorm.DB
}

func NewOrganisationRepository(db *gorm.DB) OrganisationRepository {
	return &organisationRepository{db: db}
}

func (r *organisationRepository) Create(ctx context.Context, org *models.Organisation) error {
	return r.db.WithContext(ctx).Create(org).Error
}

func (r *organisationRepository) FindByID(ctx context.Context, id int64) (*models.Organisation, error) {
	var org models.Organisation
	if err := r.db.WithContext(ctx).First(&org, id).Error; err != nil {
		return nil, err
	}
	return &org, nil
}

func (r *organisationRepository) FindBySlug(ctx context.Context, slug string) (*models.Organisation, error) {
	var org models.Organisation
	if err := r.db.WithContext(ctx).Where("slug = ?", slug).First(&org).Error; err != nil {
		return nil, err
	}
	return &org, nil
}

func (r *organisationRepository) FindByEmail(ctx context.Context, email string) (*models.Organisation, error) {
	var org models.Organisation
	if err := r.db.WithContext(ctx).Where("admin_email = ?", email).First(&org).Error; err != nil {
		return nil, err
	}
	return &org, nil
}

func (r *organisationRepository) Search(ctx context.Context, query string, limit int) ([]models.Organisation, error) {
	var orgs []models.Organisation
	like := "%" + query + "%"
	err := r.db.WithContext(ctx).
		Where("name ILIKE ? OR slug ILIKE ?", like, like).
		Order("name ASC").
		Limit(limit).
		Find(&orgs).Error
	if err != nil {
		return nil, err
	}
	return orgs, nil
}

func (r *organisationRepository) UpdateSMSPhone(ctx context.Context, id int64, phone string) error {
	return r.db.WithContext(ctx).
		Model(&models.Organisation{}).
		Where("id = ?", id).
		Update("sms_contact_phone", phone).Error
}
