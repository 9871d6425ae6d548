package recipe

import (
	"context"
	"strings"
	"time"

	"recipe-finder/domain"
	"recipe-finder/entities"
	"recipe-finder/pkg/publisher"

	"github.com/gofiber/fiber/v2/log"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

type (
	RecipeService interface {
		ListRecipes(ctx context.Context, req domain.ListRecipesRequest) (domain.RecipeListResponse, error)
		GetRecipeDetail(ctx context.Context, recipeID string, viewerID string) (domain.RecipeDetail, error)
		GetRecipeForm(ctx context.Context, recipeID string) (domain.RecipeFormResponse, error)
		CreateRecipe(ctx context.Context, req domain.RecipeRequest, creatorID string) (domain.CreateRecipeResponse, error)
		UpdateRecipe(ctx context.Context, recipeID string, req domain.RecipeRequest) error
		DeleteRecipe(ctx context.Context, recipeID string, confirm bool) error
		ManageRecipes(ctx context.Context) ([]domain.ManagedRecipe, error)
		ToggleSave(ctx context.Context, recipeID string, userID string) (domain.SaveRecipeResponse, error)
		GetSavedRecipes(ctx context.Context, userID string) ([]domain.Recipe, error)
		ImportRecipes(ctx context.Context, rows []domain.ImportRecipeRequest) (domain.ImportResult, error)
	}

	recipeService struct {
		recipeRepository    RecipeRepository
		publisherRepository publisher.PublisherRepository
		now                 func() time.Time
	}
)

func NewRecipeService(recipeRepository RecipeRepository, publisherRepository publisher.PublisherRepository) RecipeService {
	return &recipeService{
		recipeRepository:    recipeRepository,
		publisherRepository: publisherRepository,
		now:                 time.Now,
	}
}

func (s *recipeService) ListRecipes(ctx context.Context, req domain.ListRecipesRequest) (domain.RecipeListResponse, error) {
	filter := req.Filter
	if filter == "" {
		filter = domain.FilterPopular
	}
	if !validFilter(filter) {
		return domain.RecipeListResponse{}, domain.ErrUnknownFilter
	}

	recipes, err := s.recipeRepository.ListRecipes(ctx, req.Search, filter, s.now().Add(-domain.TrendingWindow))
	if err != nil {
		return domain.RecipeListResponse{}, err
	}

	res := domain.RecipeListResponse{
		Recipes: make([]domain.Recipe, 0, len(recipes)),
		Search:  req.Search,
		Filter:  filter,
	}
	for _, r := range recipes {
		res.Recipes = append(res.Recipes, ToRecipeResponse(r))
	}
	res.Total = len(res.Recipes)
	return res, nil
}

func (s *recipeService) GetRecipeDetail(ctx context.Context, recipeID string, viewerID string) (domain.RecipeDetail, error) {
	recipe, err := s.getRecipe(ctx, s.recipeRepository, recipeID)
	if err != nil {
		return domain.RecipeDetail{}, err
	}

	detail := toRecipeDetail(recipe)
	if viewerID != "" {
		saved, err := s.recipeRepository.IsRecipeSaved(ctx, viewerID, recipeID)
		if err != nil {
			return domain.RecipeDetail{}, err
		}
		detail.IsSaved = saved
	}
	return detail, nil
}

// GetRecipeForm returns the publisher choices, plus the current values when
// recipeID names an existing recipe.
func (s *recipeService) GetRecipeForm(ctx context.Context, recipeID string) (domain.RecipeFormResponse, error) {
	publishers, err := s.publisherRepository.GetPublishers(ctx)
	if err != nil {
		return domain.RecipeFormResponse{}, err
	}

	res := domain.RecipeFormResponse{Publishers: make([]domain.Publisher, 0, len(publishers))}
	for _, p := range publishers {
		res.Publishers = append(res.Publishers, publisher.ToPublisherResponse(p))
	}

	if recipeID != "" {
		recipe, err := s.getRecipe(ctx, s.recipeRepository, recipeID)
		if err != nil {
			return domain.RecipeFormResponse{}, err
		}
		detail := toRecipeDetail(recipe)
		res.Recipe = &detail
	}
	return res, nil
}

// CreateRecipe stores the recipe and its numbered steps in one transaction.
func (s *recipeService) CreateRecipe(ctx context.Context, req domain.RecipeRequest, creatorID string) (domain.CreateRecipeResponse, error) {
	steps, err := checkRecipeRequest(req)
	if err != nil {
		return domain.CreateRecipeResponse{}, err
	}

	var createdBy *uuid.UUID
	if creatorID != "" {
		id, err := uuid.Parse(creatorID)
		if err != nil {
			return domain.CreateRecipeResponse{}, domain.ErrUserNotFound
		}
		createdBy = &id
	}

	recipe := &entities.Recipe{CreatedByID: createdBy}
	applyRequest(recipe, req)

	err = s.recipeRepository.Transaction(ctx, func(tx *gorm.DB) error {
		recipes := s.recipeRepository.WithTx(tx)

		pub, err := s.resolvePublisher(ctx, s.publisherRepository.WithTx(tx), req)
		if err != nil {
			return err
		}
		recipe.PublisherID = pub.ID

		if err := recipes.CreateRecipe(ctx, recipe); err != nil {
			return err
		}
		return recipes.CreateMethods(ctx, buildMethods(recipe.ID, steps))
	})
	if err != nil {
		return domain.CreateRecipeResponse{}, err
	}

	return domain.CreateRecipeResponse{ID: recipe.ID.String()}, nil
}

// UpdateRecipe rewrites the recipe fields and replaces every step with a
// freshly numbered set. Steps are never merged.
func (s *recipeService) UpdateRecipe(ctx context.Context, recipeID string, req domain.RecipeRequest) error {
	steps, err := checkRecipeRequest(req)
	if err != nil {
		return err
	}

	return s.recipeRepository.Transaction(ctx, func(tx *gorm.DB) error {
		recipes := s.recipeRepository.WithTx(tx)

		recipe, err := s.getRecipe(ctx, recipes, recipeID)
		if err != nil {
			return err
		}

		pub, err := s.resolvePublisher(ctx, s.publisherRepository.WithTx(tx), req)
		if err != nil {
			return err
		}

		applyRequest(recipe, req)
		recipe.PublisherID = pub.ID
		if err := recipes.UpdateRecipe(ctx, recipe); err != nil {
			return err
		}

		if err := recipes.DeleteMethods(ctx, recipe.ID.String()); err != nil {
			return err
		}
		return recipes.CreateMethods(ctx, buildMethods(recipe.ID, steps))
	})
}

// DeleteRecipe only deletes once the caller has confirmed.
func (s *recipeService) DeleteRecipe(ctx context.Context, recipeID string, confirm bool) error {
	if _, err := s.getRecipe(ctx, s.recipeRepository, recipeID); err != nil {
		return err
	}
	if !confirm {
		return domain.ErrDeleteNotConfirmed
	}

	return s.recipeRepository.Transaction(ctx, func(tx *gorm.DB) error {
		return s.recipeRepository.WithTx(tx).DeleteRecipe(ctx, recipeID)
	})
}

func (s *recipeService) ManageRecipes(ctx context.Context) ([]domain.ManagedRecipe, error) {
	recipes, err := s.recipeRepository.ManageRecipes(ctx)
	if err != nil {
		return nil, err
	}

	counts, err := s.recipeRepository.CountMethodsByRecipe(ctx)
	if err != nil {
		return nil, err
	}

	res := make([]domain.ManagedRecipe, 0, len(recipes))
	for _, r := range recipes {
		item := domain.ManagedRecipe{
			Recipe:    ToRecipeResponse(r),
			StepCount: counts[r.ID.String()],
		}
		if r.CreatedBy != nil {
			item.CreatedBy = r.CreatedBy.Username
		}
		res = append(res, item)
	}
	return res, nil
}

// ToggleSave flips the recipe's membership in the user's saved set and
// reports the state after the flip.
func (s *recipeService) ToggleSave(ctx context.Context, recipeID string, userID string) (domain.SaveRecipeResponse, error) {
	if _, err := s.getRecipe(ctx, s.recipeRepository, recipeID); err != nil {
		return domain.SaveRecipeResponse{}, err
	}

	var saved bool
	err := s.recipeRepository.Transaction(ctx, func(tx *gorm.DB) error {
		recipes := s.recipeRepository.WithTx(tx)

		exists, err := recipes.IsRecipeSaved(ctx, userID, recipeID)
		if err != nil {
			return err
		}
		if exists {
			return recipes.UnsaveRecipe(ctx, userID, recipeID)
		}

		saved = true
		return recipes.SaveRecipe(ctx, userID, recipeID)
	})
	if err != nil {
		return domain.SaveRecipeResponse{}, err
	}

	return domain.SaveRecipeResponse{RecipeID: recipeID, Saved: saved}, nil
}

func (s *recipeService) GetSavedRecipes(ctx context.Context, userID string) ([]domain.Recipe, error) {
	recipes, err := s.recipeRepository.GetSavedRecipes(ctx, userID)
	if err != nil {
		return nil, err
	}

	res := make([]domain.Recipe, 0, len(recipes))
	for _, r := range recipes {
		res = append(res, ToRecipeResponse(r))
	}
	return res, nil
}

// ImportRecipes bulk loads rows, skipping any whose external recipe_id is
// already stored or repeated earlier in the batch.
func (s *recipeService) ImportRecipes(ctx context.Context, rows []domain.ImportRecipeRequest) (domain.ImportResult, error) {
	var result domain.ImportResult
	seen := make(map[string]bool, len(rows))

	for _, row := range rows {
		if seen[row.RecipeID] {
			result.Skipped++
			continue
		}
		seen[row.RecipeID] = true

		exists, err := s.recipeRepository.ExistsByExternalID(ctx, row.RecipeID)
		if err != nil {
			return result, err
		}
		if exists {
			result.Skipped++
			continue
		}

		req := domain.RecipeRequest{
			Title:         row.Title,
			Description:   row.Description,
			SourceURL:     row.SourceURL,
			ImageURL:      row.ImageURL,
			CookingTime:   row.CookingTime,
			SocialRank:    row.SocialRank,
			RecipeID:      row.RecipeID,
			PublisherName: row.Publisher,
			PublisherURL:  row.PublisherURL,
			IsVegetarian:  row.IsVegetarian,
			IsVegan:       row.IsVegan,
			IsGlutenFree:  row.IsGlutenFree,
			Steps:         row.Steps,
		}
		if _, err := s.CreateRecipe(ctx, req, ""); err != nil {
			log.Warnf("skipping recipe %s: %v", row.RecipeID, err)
			result.Skipped++
			continue
		}
		result.Created++
	}
	return result, nil
}

func (s *recipeService) getRecipe(ctx context.Context, repo RecipeRepository, recipeID string) (*entities.Recipe, error) {
	if _, err := uuid.Parse(recipeID); err != nil {
		return nil, domain.ErrRecipeNotFound
	}

	recipe, err := repo.GetRecipeByID(ctx, recipeID)
	if err != nil {
		if isNotFound(err) {
			return nil, domain.ErrRecipeNotFound
		}
		return nil, err
	}
	return recipe, nil
}

// resolvePublisher prefers an explicitly selected publisher and otherwise
// gets or creates one by name.
func (s *recipeService) resolvePublisher(ctx context.Context, repo publisher.PublisherRepository, req domain.RecipeRequest) (*entities.Publisher, error) {
	if req.PublisherID != "" {
		if _, err := uuid.Parse(req.PublisherID); err != nil {
			return nil, domain.ErrPublisherNotFound
		}
		pub, err := repo.GetPublisherByID(ctx, req.PublisherID)
		if err != nil {
			if isNotFound(err) {
				return nil, domain.ErrPublisherNotFound
			}
			return nil, err
		}
		return pub, nil
	}

	name := strings.TrimSpace(req.PublisherName)
	if name == "" {
		return nil, domain.ErrPublisherRequired
	}
	return repo.GetOrCreatePublisher(ctx, name, strings.TrimSpace(req.PublisherURL))
}

// checkRecipeRequest rejects a blank title and returns the parsed steps.
func checkRecipeRequest(req domain.RecipeRequest) ([]string, error) {
	if strings.TrimSpace(req.Title) == "" {
		return nil, domain.ErrTitleRequired
	}

	steps := ParseSteps(req.Instructions, req.Steps)
	if len(steps) == 0 {
		return nil, domain.ErrNoInstructions
	}
	return steps, nil
}

// ParseSteps splits newline separated text and appends list items, trimming
// each line and dropping blanks so numbering has no gaps.
func ParseSteps(instructions string, steps []string) []string {
	lines := strings.Split(strings.ReplaceAll(instructions, "\r\n", "\n"), "\n")
	lines = append(lines, steps...)

	res := make([]string, 0, len(lines))
	for _, line := range lines {
		if line = strings.TrimSpace(line); line != "" {
			res = append(res, line)
		}
	}
	return res
}

func buildMethods(recipeID uuid.UUID, steps []string) []*entities.RecipeMethod {
	methods := make([]*entities.RecipeMethod, 0, len(steps))
	for i, step := range steps {
		methods = append(methods, &entities.RecipeMethod{
			RecipeID:    recipeID,
			StepNumber:  i + 1,
			Instruction: step,
		})
	}
	return methods
}

func applyRequest(recipe *entities.Recipe, req domain.RecipeRequest) {
	recipe.Title = strings.TrimSpace(req.Title)
	recipe.Description = req.Description
	recipe.SourceURL = req.SourceURL
	recipe.ImageURL = req.ImageURL
	recipe.CookingTime = req.CookingTime
	recipe.SocialRank = req.SocialRank
	recipe.IsVegetarian = req.IsVegetarian
	recipe.IsVegan = req.IsVegan
	recipe.IsGlutenFree = req.IsGlutenFree
	if req.RecipeID != "" {
		recipe.ExternalID = req.RecipeID
	}
}

func validFilter(filter string) bool {
	switch filter {
	case domain.FilterPopular, domain.FilterRecent, domain.FilterTrending,
		domain.FilterVegetarian, domain.FilterVegan, domain.FilterGlutenFree:
		return true
	}
	return false
}

func ToRecipeResponse(r *entities.Recipe) domain.Recipe {
	res := domain.Recipe{
		ID:           r.ID.String(),
		Title:        r.Title,
		Description:  r.Description,
		SourceURL:    r.SourceURL,
		ImageURL:     r.ImageURL,
		SocialRank:   r.SocialRank,
		CookingTime:  r.CookingTime,
		RecipeID:     r.ExternalID,
		IsVegetarian: r.IsVegetarian,
		IsVegan:      r.IsVegan,
		IsGlutenFree: r.IsGlutenFree,
		PublisherID:  r.PublisherID.String(),
		CreatedAt:    r.CreatedAt,
	}
	if r.Publisher != nil {
		res.PublisherName = r.Publisher.PublisherName
	}
	return res
}

func toRecipeDetail(r *entities.Recipe) domain.RecipeDetail {
	detail := domain.RecipeDetail{
		Recipe:  ToRecipeResponse(r),
		Methods: make([]domain.RecipeMethod, 0, len(r.Methods)),
	}
	if r.Publisher != nil {
		detail.PublisherURL = r.Publisher.PublisherURL
	}
	if r.CreatedBy != nil {
		detail.CreatedBy = r.CreatedBy.Username
	}
	for _, m := range r.Methods {
		detail.Methods = append(detail.Methods, domain.RecipeMethod{
			StepNumber:  m.StepNumber,
			Instruction: m.Instruction,
		})
	}
	return detail
}
