package models

import "time"

// Organisation is a tenant: it owns pickup events and is identified
// publicly by its slug.
type Organisation struct {
	ID              int64     `gorm:"primaryKey" json:"id"`
	Name            string    `gorm:"not null" json:"name"`
	Slug            string    `gorm:"uniqueIndex;not null" json:"slug"`
	AdminEmail      string    `gorm:"uniqueIndex;not null" json:"admin_email"`
	PasswordHash    string    `gorm:"not null" json:"-"`
	SMSContactPhone string    `json:"sms_contact_phone,omitempty"`
	CreatedAt       time.Time `json:"created_at"`
	UpdatedAt       time.Time `json:"updated_at"`
}
