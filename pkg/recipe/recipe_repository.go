package recipe

import (
	"context"
	"errors"
	"strings"
	"time"

	"recipe-finder/domain"
	"recipe-finder/entities"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type (
	RecipeRepository interface {
		WithTx(tx *gorm.DB) RecipeRepository
		Transaction(ctx context.Context, fn func(tx *gorm.DB) error) error

		ListRecipes(ctx context.Context, search string, filter string, since time.Time) ([]*entities.Recipe, error)
		ManageRecipes(ctx context.Context) ([]*entities.Recipe, error)
		CountMethodsByRecipe(ctx context.Context) (map[string]int, error)
		GetRecipeByID(ctx context.Context, id string) (*entities.Recipe, error)
		ExistsByExternalID(ctx context.Context, externalID string) (bool, error)
		CreateRecipe(ctx context.Context, recipe *entities.Recipe) error
		UpdateRecipe(ctx context.Context, recipe *entities.Recipe) error
		DeleteRecipe(ctx context.Context, id string) error

		CreateMethods(ctx context.Context, methods []*entities.RecipeMethod) error
		DeleteMethods(ctx context.Context, recipeID string) error

		IsRecipeSaved(ctx context.Context, userID, recipeID string) (bool, error)
		SaveRecipe(ctx context.Context, userID, recipeID string) error
		UnsaveRecipe(ctx context.Context, userID, recipeID string) error
		GetSavedRecipes(ctx context.Context, userID string) ([]*entities.Recipe, error)
	}

	recipeRepository struct {
		db *gorm.DB
	}

	methodCount struct {
		RecipeID string
		Total    int
	}
)

func NewRecipeRepository(db *gorm.DB) RecipeRepository {
	return &recipeRepository{db: db}
}

func (r *recipeRepository) WithTx(tx *gorm.DB) RecipeRepository {
	if tx == nil {
		return r
	}
	return &recipeRepository{db: tx}
}

func (r *recipeRepository) Transaction(ctx context.Context, fn func(tx *gorm.DB) error) error {
	return r.db.WithContext(ctx).Transaction(fn)
}

// ListRecipes applies one filter mode. Every mode breaks ties by newest first.
func (r *recipeRepository) ListRecipes(ctx context.Context, search string, filter string, since time.Time) ([]*entities.Recipe, error) {
	query := r.db.WithContext(ctx).
		Model(&entities.Recipe{}).
		Joins("JOIN publishers ON publishers.id = recipes.publisher_id").
		Preload("Publisher")

	if search = strings.TrimSpace(search); search != "" {
		like := "%" + escapeLike(strings.ToLower(search)) + "%"
		query = query.Where(
			`LOWER(recipes.title) LIKE ? ESCAPE '\' OR LOWER(recipes.description) LIKE ? ESCAPE '\' OR LOWER(publishers.publisher_name) LIKE ? ESCAPE '\'`,
			like, like, like,
		)
	}

	switch filter {
	case domain.FilterRecent:
		query = query.Order("recipes.created_at DESC")
	case domain.FilterTrending:
		query = query.Where("recipes.created_at >= ?", since).Order("recipes.social_rank DESC")
	case domain.FilterVegetarian:
		query = query.Where("recipes.is_vegetarian = ?", true).Order("recipes.social_rank DESC")
	case domain.FilterVegan:
		query = query.Where("recipes.is_vegan = ?", true).Order("recipes.social_rank DESC")
	case domain.FilterGlutenFree:
		query = query.Where("recipes.is_gluten_free = ?", true).Order("recipes.social_rank DESC")
	default:
		query = query.Order("recipes.social_rank DESC")
	}

	var recipes []*entities.Recipe
	if err := query.Order("recipes.created_at DESC").Order("recipes.id").Find(&recipes).Error; err != nil {
		return nil, err
	}
	return recipes, nil
}

func (r *recipeRepository) ManageRecipes(ctx context.Context) ([]*entities.Recipe, error) {
	var recipes []*entities.Recipe
	if err := r.db.WithContext(ctx).
		Preload("Publisher").
		Preload("CreatedBy").
		Order("created_at DESC").
		Find(&recipes).Error; err != nil {
		return nil, err
	}
	return recipes, nil
}

func (r *recipeRepository) CountMethodsByRecipe(ctx context.Context) (map[string]int, error) {
	var rows []methodCount
	if err := r.db.WithContext(ctx).
		Model(&entities.RecipeMethod{}).
		Select("recipe_id, COUNT(*) AS total").
		Group("recipe_id").
		Scan(&rows).Error; err != nil {
		return nil, err
	}

	counts := make(map[string]int, len(rows))
	for _, row := range rows {
		counts[row.RecipeID] = row.Total
	}
	return counts, nil
}

func (r *recipeRepository) GetRecipeByID(ctx context.Context, id string) (*entities.Recipe, error) {
	var recipe entities.Recipe
	if err := r.db.WithContext(ctx).
		Preload("Publisher").
		Preload("CreatedBy").
		Preload("Methods", func(db *gorm.DB) *gorm.DB {
			return db.Order("step_number ASC")
		}).
		Where("id = ?", id).
		First(&recipe).Error; err != nil {
		return nil, err
	}
	return &recipe, nil
}

func (r *recipeRepository) ExistsByExternalID(ctx context.Context, externalID string) (bool, error) {
	var count int64
	if err := r.db.WithContext(ctx).
		Model(&entities.Recipe{}).
		Where("recipe_id = ?", externalID).
		Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

func (r *recipeRepository) CreateRecipe(ctx context.Context, recipe *entities.Recipe) error {
	return r.db.WithContext(ctx).Omit(clause.Associations).Create(recipe).Error
}

func (r *recipeRepository) UpdateRecipe(ctx context.Context, recipe *entities.Recipe) error {
	return r.db.WithContext(ctx).Omit(clause.Associations).Save(recipe).Error
}

// DeleteRecipe removes the recipe with its steps and saved links. Callers
// run it inside a transaction.
func (r *recipeRepository) DeleteRecipe(ctx context.Context, id string) error {
	db := r.db.WithContext(ctx)
	if err := db.Where("recipe_id = ?", id).Delete(&entities.SavedRecipe{}).Error; err != nil {
		return err
	}
	if err := db.Where("recipe_id = ?", id).Delete(&entities.RecipeMethod{}).Error; err != nil {
		return err
	}
	return db.Where("id = ?", id).Delete(&entities.Recipe{}).Error
}

func (r *recipeRepository) CreateMethods(ctx context.Context, methods []*entities.RecipeMethod) error {
	if len(methods) == 0 {
		return nil
	}
	return r.db.WithContext(ctx).Create(&methods).Error
}

func (r *recipeRepository) DeleteMethods(ctx context.Context, recipeID string) error {
	return r.db.WithContext(ctx).Where("recipe_id = ?", recipeID).Delete(&entities.RecipeMethod{}).Error
}

func (r *recipeRepository) IsRecipeSaved(ctx context.Context, userID, recipeID string) (bool, error) {
	var count int64
	if err := r.db.WithContext(ctx).
		Model(&entities.SavedRecipe{}).
		Where("user_id = ? AND recipe_id = ?", userID, recipeID).
		Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

func (r *recipeRepository) SaveRecipe(ctx context.Context, userID, recipeID string) error {
	uid, err := uuid.Parse(userID)
	if err != nil {
		return err
	}
	rid, err := uuid.Parse(recipeID)
	if err != nil {
		return err
	}

	saved := entities.SavedRecipe{UserID: uid, RecipeID: rid, CreatedAt: time.Now()}
	return r.db.WithContext(ctx).
		Omit(clause.Associations).
		Clauses(clause.OnConflict{DoNothing: true}).
		Create(&saved).Error
}

func (r *recipeRepository) UnsaveRecipe(ctx context.Context, userID, recipeID string) error {
	return r.db.WithContext(ctx).
		Where("user_id = ? AND recipe_id = ?", userID, recipeID).
		Delete(&entities.SavedRecipe{}).Error
}

func (r *recipeRepository) GetSavedRecipes(ctx context.Context, userID string) ([]*entities.Recipe, error) {
	var recipes []*entities.Recipe
	if err := r.db.WithContext(ctx).
		Joins("JOIN saved_recipes ON recipes.id = saved_recipes.recipe_id").
		Where("saved_recipes.user_id = ?", userID).
		Preload("Publisher").
		Order("saved_recipes.created_at DESC").
		Find(&recipes).Error; err != nil {
		return nil, err
	}
	return recipes, nil
}

// likeEscaper makes user text match literally inside a LIKE pattern.
var likeEscaper = strings.NewReplacer(`\`, `\\`, "%", `\%`, "_", `\_`)

func escapeLike(s string) string {
	return likeEscaper.Replace(s)
}

func isNotFound(err error) bool {
	return errors.Is(err, gorm.ErrRecordNotFound)
}
