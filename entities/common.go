package entities

import (
	"time"

	"github.com/google/uuid"
)

type Timestamp struct {
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func ensureID(id *uuid.UUID) {
	if *id == uuid.Nil {
		*id = uuid.New()
	}
}

// Models lists every table in dependency order for migrations.
func Models() []any {
	return []any{
		&Role{},
		&User{},
		&Publisher{},
		&Recipe{},
		&RecipeMethod{},
		&SavedRecipe{},
	}
}
