package entities

import (
	"github.com/google/uuid"
	"gorm.io/gorm"
)

type Publisher struct {
	ID            uuid.UUID `gorm:"type:uuid;primary_key" json:"id"`
	PublisherName string    `gorm:"size:100;uniqueIndex;not null" json:"publisher_name"`
	PublisherURL  string    `gorm:"size:255" json:"publisher_url"`

	Timestamp
}

func (p *Publisher) BeforeCreate(tx *gorm.DB) error {
	ensureID(&p.ID)
	return nil
}
