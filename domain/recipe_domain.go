package domain

import (
	"time"
)

const (
	FilterPopular    = "popular"
	FilterRecent     = "recent"
	FilterTrending   = "trending"
	FilterVegetarian = "vegetarian"
	FilterVegan      = "vegan"
	FilterGlutenFree = "gluten-free"

	// TrendingWindow bounds the "trending" filter to recently created recipes.
	TrendingWindow = 7 * 24 * time.Hour
)

var (
	MessageSuccessGetRecipes      = "success get recipes"
	MessageSuccessGetRecipeDetail = "success get recipe detail"
	MessageSuccessCreateRecipe    = "Recipe added successfully!"
	MessageSuccessUpdateRecipe    = "Recipe updated successfully!"
	MessageSuccessDeleteRecipe    = "Recipe deleted successfully!"
	MessageConfirmDeleteRecipe    = "Are you sure you want to delete this recipe? Submit again with confirm=true."
	MessageSuccessSaveRecipe      = "Recipe saved successfully!"
	MessageSuccessUnsaveRecipe    = "Recipe removed from saved recipes."
	MessageSuccessRecipeForm      = "success get recipe form"
	MessageSuccessImportRecipes   = "recipes imported"

	MessageFailedGetRecipes      = "failed to get recipes"
	MessageFailedGetRecipeDetail = "failed to get recipe detail"
	MessageFailedCreateRecipe    = "failed to add recipe"
	MessageFailedUpdateRecipe    = "failed to update recipe"
	MessageFailedDeleteRecipe    = "failed to delete recipe"
	MessageFailedSaveRecipe      = "failed to save recipe"

	ErrRecipeNotFound     = NewError(KindNotFound, "recipe not found")
	ErrUnknownFilter      = NewError(KindValidationConflict, "unknown filter")
	ErrTitleRequired      = NewError(KindValidationConflict, "a recipe title is required")
	ErrNoInstructions     = NewError(KindValidationConflict, "at least one instruction step is required")
	ErrPublisherRequired  = NewError(KindValidationConflict, "a publisher must be selected")
	ErrDeleteNotConfirmed = NewError(KindValidationConflict, "delete not confirmed")
)

type (
	ListRecipesRequest struct {
		Search string `query:"search"`
		Filter string `query:"filter" validate:"omitempty,oneof=popular recent trending vegetarian vegan gluten-free"`
	}

	// RecipeRequest carries the create and edit form. Instructions may arrive
	// as newline separated text, as a list of steps, or both (text first).
	RecipeRequest struct {
		Title         string   `json:"title" form:"title" validate:"required,max=100"`
		Description   string   `json:"description" form:"description"`
		SourceURL     string   `json:"source_url" form:"source_url" validate:"omitempty,url,max=255"`
		ImageURL      string   `json:"image_url" form:"image_url" validate:"omitempty,url,max=255"`
		CookingTime   int      `json:"cooking_time" form:"cooking_time" validate:"min=0"`
		SocialRank    float64  `json:"social_rank" form:"social_rank" validate:"min=0"`
		RecipeID      string   `json:"recipe_id" form:"recipe_id" validate:"max=100"`
		PublisherID   string   `json:"publisher_id" form:"publisher_id" validate:"omitempty,uuid"`
		PublisherName string   `json:"publisher_name" form:"publisher_name" validate:"max=100"`
		PublisherURL  string   `json:"publisher_url" form:"publisher_url" validate:"max=255"`
		IsVegetarian  bool     `json:"is_vegetarian" form:"is_vegetarian"`
		IsVegan       bool     `json:"is_vegan" form:"is_vegan"`
		IsGlutenFree  bool     `json:"is_gluten_free" form:"is_gluten_free"`
		Instructions  string   `json:"instructions" form:"instructions"`
		Steps         []string `json:"steps" form:"steps"`
	}

	DeleteRecipeRequest struct {
		Confirm bool `json:"confirm" form:"confirm"`
	}

	ImportRecipeRequest struct {
		RecipeID     string   `json:"recipe_id" validate:"required"`
		Title        string   `json:"title" validate:"required"`
		Description  string   `json:"description"`
		SourceURL    string   `json:"source_url"`
		ImageURL     string   `json:"image_url"`
		SocialRank   float64  `json:"social_rank"`
		CookingTime  int      `json:"cooking_time"`
		Publisher    string   `json:"publisher" validate:"required"`
		PublisherURL string   `json:"publisher_url"`
		IsVegetarian bool     `json:"is_vegetarian"`
		IsVegan      bool     `json:"is_vegan"`
		IsGlutenFree bool     `json:"is_gluten_free"`
		Steps        []string `json:"steps"`
	}

	ImportResult struct {
		Created int `json:"created"`
		Skipped int `json:"skipped"`
	}

	Recipe struct {
		ID            string    `json:"id"`
		Title         string    `json:"title"`
		Description   string    `json:"description"`
		SourceURL     string    `json:"source_url"`
		ImageURL      string    `json:"image_url,omitempty"`
		SocialRank    float64   `json:"social_rank"`
		CookingTime   int       `json:"cooking_time"`
		RecipeID      string    `json:"recipe_id,omitempty"`
		IsVegetarian  bool      `json:"is_vegetarian"`
		IsVegan       bool      `json:"is_vegan"`
		IsGlutenFree  bool      `json:"is_gluten_free"`
		PublisherID   string    `json:"publisher_id"`
		PublisherName string    `json:"publisher_name"`
		CreatedAt     time.Time `json:"created_at"`
	}

	RecipeMethod struct {
		StepNumber  int    `json:"step_number"`
		Instruction string `json:"instruction"`
	}

	RecipeDetail struct {
		Recipe
		PublisherURL string         `json:"publisher_url"`
		CreatedBy    string         `json:"created_by,omitempty"`
		Methods      []RecipeMethod `json:"methods"`
		IsSaved      bool           `json:"is_saved"`
	}

	ManagedRecipe struct {
		Recipe
		CreatedBy string `json:"created_by,omitempty"`
		StepCount int    `json:"step_count"`
	}

	RecipeListResponse struct {
		Recipes []Recipe `json:"recipes"`
		Search  string   `json:"search"`
		Filter  string   `json:"filter"`
		Total   int      `json:"total"`
	}

	RecipeFormResponse struct {
		Recipe     *RecipeDetail `json:"recipe,omitempty"`
		Publishers []Publisher   `json:"publishers"`
	}

	CreateRecipeResponse struct {
		ID string `json:"id"`
	}

	SaveRecipeResponse struct {
		RecipeID string `json:"recipe_id"`
		Saved    bool   `json:"saved"`
	}
)
