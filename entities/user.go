package entities

import (
	"github.com/google/uuid"
	"gorm.io/gorm"
)

type User struct {
	ID             uuid.UUID `gorm:"type:uuid;primary_key" json:"id"`
	Username       string    `gorm:"size:150;uniqueIndex;not null" json:"username"`
	Email          string    `gorm:"size:254;uniqueIndex;not null" json:"email"`
	Password       string    `json:"-"`
	FirstName      string    `gorm:"size:150" json:"first_name"`
	LastName       string    `gorm:"size:150" json:"last_name"`
	ProfilePicture string    `gorm:"size:255" json:"profile_picture,omitempty"`
	RoleID         uuid.UUID `gorm:"type:uuid;not null;index" json:"role_id"`

	Role *Role `gorm:"foreignKey:RoleID;constraint:OnUpdate:CASCADE,OnDelete:RESTRICT" json:"role,omitempty"`
	Timestamp
}

func (u *User) BeforeCreate(tx *gorm.DB) error {
	ensureID(&u.ID)
	return nil
}

// IsAdmin reports whether the loaded role is exactly "admin".
func (u *User) IsAdmin() bool {
	return u.Role != nil && u.Role.RoleName == "admin"
}
