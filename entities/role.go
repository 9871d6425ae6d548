package entities

import (
	"github.com/google/uuid"
	"gorm.io/gorm"
)

type Role struct {
	ID       uuid.UUID `gorm:"type:uuid;primary_key" json:"id"`
	RoleName string    `gorm:"size:100;uniqueIndex;not null" json:"role_name"`

	Timestamp
}

func (r *Role) BeforeCreate(tx *gorm.DB) error {
	ensureID(&r.ID)
	return nil
}
