package repository

import (
	"context"

	"github.com/josiahuma/ovipoint/internal/models"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type EventRepository interface {
	CreateBatch(ctx context.Context, events []*models.PickupEvent) error
	FindByID(ctx context.Context, id int64) (*models.PickupEvent, error)
	// FindByIDForUpdate locks the event row inside tx. Every writer that
	// touches an event's bookings takes this lock first, so concurrent
	// creates/edits on the same event are serialized by the database.
	FindByIDForUpdate(ctx context.Context, tx *gorm.DB, id int64) (*models.PickupEvent, error)
	FindByOrganisation(ctx context.Context, orgID int64) ([]models.PickupEvent, error)
	FindByOrganisationAndDate(ctx context.Context, orgID int64, date string) ([]models.PickupEvent, error)
	Update(ctx context.Context, event *models.PickupEvent) error
	UpdateBookingState(ctx context.Context, id int64, state models.BookingState) error
	Delete(ctx context.Context, tx *gorm.DB, id int64) error
}

type eventRepository struct {
	db *gorm.DB
}

func NewEventRepository(db *gorm.DB) EventRepository {
	return &eventRepository{db: db}
}

func (r *eventRepository) CreateBatch(ctx context.Context, events []*models.PickupEvent) error {
	return r.db.WithContext(ctx).Create(events).Error
}

func (r *eventRepository) FindByID(ctx context.Context, id int64) (*models.PickupEvent, error) {
	var event models.PickupEvent
	if err := r.db.WithContext(ctx).First(&event, id).Error; err != nil {
		return nil, err
	}
	return &event, nil
}

func (r *eventRepository) FindByIDForUpdate(ctx context.Context, tx *gorm.DB, id int64) (*models.PickupEvent, error) {
	var event models.PickupEvent
	if err := tx.WithContext(ctx).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		First(&event, id).Error; err != nil {
		return nil, err
	}
	return &event, nil
}

func (r *eventRepository) FindByOrganisation(ctx context.Context, orgID int64) ([]models.PickupEvent, error) {
	var events []models.PickupEvent
	err := r.db.WithContext(ctx).
		Where("organisation_id = ?", orgID).
		Order("pickup_date ASC, start_time ASC").
		Find(&events).Error
	if err != nil {
		return nil, err
	}
	return events, nil
}

func (r *eventRepository) FindByOrganisationAndDate(ctx context.Context, orgID int64, date string) ([]models.PickupEvent, error) {
	var events []models.PickupEvent
	err := r.db.WithContext(ctx).
		Where("organisation_id = ? AND pickup_date = ?", orgID, date).
		Order("start_time ASC").
		Find(&events).Error
	if err != nil {
		return nil, err
	}
	return events, nil
}

func (r *eventRepository) Update(ctx context.Context, event *models.PickupEvent) error {
	return r.db.WithContext(ctx).Save(event).Error
}

func (r *eventRepository) UpdateBookingState(ctx context.Context, id int64, state models.BookingState) error {
	return r.db.WithContext(ctx).
		Model(&models.PickupEvent{}).
		Where("id = ?", id).
		Update("booking_state", state).Error
}

func (r *eventRepository) Delete(ctx context.Context, tx *gorm.DB, id int64) error {
	return tx.WithContext(ctx).Delete(&models.PickupEvent{}, id).Error
}
