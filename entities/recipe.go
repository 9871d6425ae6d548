package entities

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type Recipe struct {
	ID           uuid.UUID  `gorm:"type:uuid;primary_key" json:"id"`
	Title        string     `gorm:"size:100;not null" json:"title"`
	Description  string     `gorm:"type:text" json:"description"`
	SourceURL    string     `gorm:"size:255" json:"source_url"`
	ImageURL     string     `gorm:"size:255" json:"image_url,omitempty"`
	SocialRank   float64    `gorm:"index" json:"social_rank"`
	CookingTime  int        `json:"cooking_time"`
	ExternalID   string     `gorm:"column:recipe_id;size:100;index" json:"recipe_id"`
	IsVegetarian bool       `json:"is_vegetarian"`
	IsVegan      bool       `json:"is_vegan"`
	IsGlutenFree bool       `json:"is_gluten_free"`
	PublisherID  uuid.UUID  `gorm:"type:uuid;not null;index" json:"publisher_id"`
	CreatedByID  *uuid.UUID `gorm:"type:uuid;index" json:"created_by_id,omitempty"`

	Publisher *Publisher      `gorm:"foreignKey:PublisherID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE" json:"publisher,omitempty"`
	CreatedBy *User           `gorm:"foreignKey:CreatedByID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE" json:"created_by,omitempty"`
	Methods   []*RecipeMethod `gorm:"foreignKey:RecipeID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE" json:"methods,omitempty"`
	Timestamp
}

func (r *Recipe) BeforeCreate(tx *gorm.DB) error {
	ensureID(&r.ID)
	return nil
}

// RecipeMethod is one numbered instruction step. Step numbers start at 1 and
// are contiguous for a recipe.
type RecipeMethod struct {
	ID          uuid.UUID `gorm:"type:uuid;primary_key" json:"id"`
	RecipeID    uuid.UUID `gorm:"type:uuid;not null;index" json:"recipe_id"`
	StepNumber  int       `gorm:"not null" json:"step_number"`
	Instruction string    `gorm:"type:text;not null" json:"instruction"`
}

func (m *RecipeMethod) BeforeCreate(tx *gorm.DB) error {
	ensureID(&m.ID)
	return nil
}

// SavedRecipe links a user to a recipe in their saved set.
type SavedRecipe struct {
	UserID    uuid.UUID `gorm:"type:uuid;primaryKey" json:"user_id"`
	RecipeID  uuid.UUID `gorm:"type:uuid;primaryKey;index" json:"recipe_id"`
	CreatedAt time.Time `gorm:"type:timestamp" json:"created_at"`

	User   *User   `gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE"`
	Recipe *Recipe `gorm:"foreignKey:RecipeID;constraint:OnDelete:CASCADE"`
}
