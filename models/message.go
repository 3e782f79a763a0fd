package models

import (
	"time"

	"gorm.io/gorm"
)

// Message is a contact-form submission.
type Message struct {
	ID        string    `gorm:"type:uuid;primaryKey" json:"id"`
	Name      string    `gorm:"not null" json:"name"`
	Email     string    `gorm:"not null" json:"email"`
	Subject   string    `json:"subject"`
	Message   string    `gorm:"type:text;not null" json:"message"`
	IsRead    bool      `gorm:"default:false" json:"is_read"`
	CreatedAt time.Time `gorm:"index" json:"created_at"`
}

func (m *Message) BeforeCreate(tx *gorm.DB) error {
	ensureID(&m.ID)
	return nil
}
