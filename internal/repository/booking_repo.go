package repository

import (
	"context"

	"github.com/josiahuma/ovipoint/internal/models"
	"gorm.io/gorm"
)

type BookingRepository interface {
	// Transaction runs fn inside a database transaction. The allocator's
	// whole check-then-write sequence lives inside one call.
	Transaction(ctx context.Context, fn func(tx *gorm.DB) error) error

	Create(ctx context.Context, tx *gorm.DB, booking *models.Booking) error
	Update(ctx context.Context, tx *gorm.DB, booking *models.Booking) error
	Delete(ctx context.Context, tx *gorm.DB, id int64) error
	DeleteByEvent(ctx context.Context, tx *gorm.DB, eventID int64) error

	FindByID(ctx context.Context, id int64) (*models.Booking, error)
	// FindByIDTx re-reads a booking inside tx, after the event lock is
	// held, so an edit never works from a stale row.
	FindByIDTx(ctx context.Context, tx *gorm.DB, id int64) (*models.Booking, error)
	FindByEvent(ctx context.Context, eventID int64) ([]models.Booking, error)
	// FindByEventTx reads the event's bookings inside tx so the capacity
	// ledger is computed from the transaction's own view.
	FindByEventTx(ctx context.Context, tx *gorm.DB, eventID int64) ([]models.Booking, error)
	// FindByPhone returns the active booking for (event, phone), skipping
	// excludeID (0 to skip nothing).
	FindByPhone(ctx context.Context, tx *gorm.DB, eventID int64, phone string, excludeID int64) (*models.Booking, error)
	FindByEventsAndPhone(ctx context.Context, eventIDs []int64, phone string) ([]models.Booking, error)
}

type bookingRepository struct {
	db *gorm.DB
}

func NewBookingRepository(db *gorm.DB) BookingRepository {
	return &bookingRepository{db: db}
}

func (r *bookingRepository) Transaction(ctx context.Context, fn func(tx *gorm.DB) error) error {
	return r.db.WithContext(ctx).Transaction(fn)
}

func (r *bookingRepository) Create(ctx context.Context, tx *gorm.DB, booking *models.Booking) error {
	return tx.WithContext(ctx).Create(booking).Error
}

func (r *bookingRepository) Update(ctx context.Context, tx *gorm.DB, booking *models.Booking) error {
	return tx.WithContext(ctx).Save(booking).Error
}

func (r *bookingRepository) Delete(ctx context.Context, tx *gorm.DB, id int64) error {
	return tx.WithContext(ctx).Delete(&models.Booking{}, id).Error
}

func (r *bookingRepository) DeleteByEvent(ctx context.Context, tx *gorm.DB, eventID int64) error {
	return tx.WithContext(ctx).
		Where("pickup_event_id = ?", eventID).
		Delete(&models.Booking{}).Error
}

func (r *bookingRepository) FindByID(ctx context.Context, id int64) (*models.Booking, error) {
	var booking models.Booking
	if err := r.db.WithContext(ctx).First(&booking, id).Error; err != nil {
		return nil, err
	}
	return &booking, nil
}

func (r *bookingRepository) FindByIDTx(ctx context.Context, tx *gorm.DB, id int64) (*models.Booking, error) {
	var booking models.Booking
	if err := tx.WithContext(ctx).First(&booking, id).Error; err != nil {
		return nil, err
	}
	return &booking, nil
}

func (r *bookingRepository) FindByEvent(ctx context.Context, eventID int64) ([]models.Booking, error) {
	var bookings []models.Booking
	err := r.db.WithContext(ctx).
		Where("pickup_event_id = ?", eventID).
		Order("pickup_time ASC, id ASC").
		Find(&bookings).Error
	if err != nil {
		return nil, err
	}
	return bookings, nil
}

func (r *bookingRepository) FindByEventTx(ctx context.Context, tx *gorm.DB, eventID int64) ([]models.Booking, error) {
	var bookings []models.Booking
	err := tx.WithContext(ctx).
		Where("pickup_event_id = ?", eventID).
		Order("pickup_time ASC, id ASC").
		Find(&bookings).Error
	if err != nil {
		return nil, err
	}
	return bookings, nil
}

func (r *bookingRepository) FindByPhone(ctx context.Context, tx *gorm.DB, eventID int64, phone string, excludeID int64) (*models.Booking, error) {
	var booking models.Booking
	q := tx.WithContext(ctx).Where("pickup_event_id = ? AND phone = ?", eventID, phone)
	if excludeID != 0 {
		q = q.Where("id <> ?", excludeID)
	}
	if err := q.First(&booking).Error; err != nil {
		return nil, err
	}
	return &booking, nil
}

func (r *bookingRepository) FindByEventsAndPhone(ctx context.Context, eventIDs []int64, phone string) ([]models.Booking, error) {
	var bookings []models.Booking
	err := r.db.WithContext(ctx).
		Where("pickup_event_id IN ? AND phone = ?", eventIDs, phone).
		Order("pickup_time ASC, id ASC").
		Find(&bookings).Error
	if err != nil {
		return nil, err
	}
	return bookings, nil
}
