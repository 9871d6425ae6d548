package handlers

import (
	"errors"

	"recipe-finder/domain"
	"recipe-finder/internal/api/presenters"
	"recipe-finder/internal/middleware"
	"recipe-finder/pkg/recipe"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
)

type (
	RecipeHandler interface {
		ListRecipes(c *fiber.Ctx) error
		GetRecipeDetail(c *fiber.Ctx) error
		ToggleSave(c *fiber.Ctx) error
		GetRecipeForm(c *fiber.Ctx) error
		CreateRecipe(c *fiber.Ctx) error
		GetEditForm(c *fiber.Ctx) error
		UpdateRecipe(c *fiber.Ctx) error
		ConfirmDelete(c *fiber.Ctx) error
		DeleteRecipe(c *fiber.Ctx) error
		ManageRecipes(c *fiber.Ctx) error
	}

	recipeHandler struct {
		recipeService recipe.RecipeService
		validator     *validator.Validate
	}
)

func NewRecipeHandler(recipeService recipe.RecipeService, validator *validator.Validate) RecipeHandler {
	return &recipeHandler{
		recipeService: recipeService,
		validator:     validator,
	}
}

func (h *recipeHandler) ListRecipes(c *fiber.Ctx) error {
	req := new(domain.ListRecipesRequest)
	if err := c.QueryParser(req); err != nil {
		return presenters.ErrorResponse(c, fiber.StatusBadRequest, domain.MessageFailedBodyRequest, err)
	}

	if err := h.validator.Struct(req); err != nil {
		return presenters.ErrorResponse(c, fiber.StatusBadRequest, domain.MessageFailedGetRecipes, err)
	}

	res, err := h.recipeService.ListRecipes(c.Context(), *req)
	if err != nil {
		return presenters.FromError(c, domain.MessageFailedGetRecipes, err)
	}

	return presenters.SuccessResponse(c, res, fiber.StatusOK, domain.MessageSuccessGetRecipes)
}

func (h *recipeHandler) GetRecipeDetail(c *fiber.Ctx) error {
	res, err := h.recipeService.GetRecipeDetail(c.Context(), c.Params("id"), middleware.UserID(c))
	if err != nil {
		return presenters.FromError(c, domain.MessageFailedGetRecipeDetail, err)
	}

	return presenters.SuccessResponse(c, res, fiber.StatusOK, domain.MessageSuccessGetRecipeDetail)
}

func (h *recipeHandler) ToggleSave(c *fiber.Ctx) error {
	userID := c.Locals("user_id").(string)

	res, err := h.recipeService.ToggleSave(c.Context(), c.Params("id"), userID)
	if err != nil {
		return presenters.FromError(c, domain.MessageFailedSaveRecipe, err)
	}

	message := domain.MessageSuccessUnsaveRecipe
	if res.Saved {
		message = domain.MessageSuccessSaveRecipe
	}
	return presenters.SuccessResponse(c, res, fiber.StatusOK, message)
}

func (h *recipeHandler) GetRecipeForm(c *fiber.Ctx) error {
	res, err := h.recipeService.GetRecipeForm(c.Context(), "")
	if err != nil {
		return presenters.FromError(c, domain.MessageFailedProcessRequest, err)
	}

	return presenters.SuccessResponse(c, res, fiber.StatusOK, domain.MessageSuccessRecipeForm)
}

func (h *recipeHandler) CreateRecipe(c *fiber.Ctx) error {
	userID := c.Locals("user_id").(string)
	req := new(domain.RecipeRequest)

	if err := c.BodyParser(req); err != nil {
		return presenters.ErrorResponse(c, fiber.StatusBadRequest, domain.MessageFailedBodyRequest, err)
	}

	if err := h.validator.Struct(req); err != nil {
		return presenters.ErrorResponse(c, fiber.StatusBadRequest, domain.MessageFailedCreateRecipe, err)
	}

	res, err := h.recipeService.CreateRecipe(c.Context(), *req, userID)
	if err != nil {
		return presenters.FromError(c, domain.MessageFailedCreateRecipe, err)
	}

	return presenters.SuccessResponse(c, res, fiber.StatusCreated, domain.MessageSuccessCreateRecipe)
}

func (h *recipeHandler) GetEditForm(c *fiber.Ctx) error {
	res, err := h.recipeService.GetRecipeForm(c.Context(), c.Params("id"))
	if err != nil {
		return presenters.FromError(c, domain.MessageFailedGetRecipeDetail, err)
	}

	return presenters.SuccessResponse(c, res, fiber.StatusOK, domain.MessageSuccessRecipeForm)
}

func (h *recipeHandler) UpdateRecipe(c *fiber.Ctx) error {
	recipeID := c.Params("id")
	req := new(domain.RecipeRequest)

	if err := c.BodyParser(req); err != nil {
		return presenters.ErrorResponse(c, fiber.StatusBadRequest, domain.MessageFailedBodyRequest, err)
	}

	if err := h.validator.Struct(req); err != nil {
		return presenters.ErrorResponse(c, fiber.StatusBadRequest, domain.MessageFailedUpdateRecipe, err)
	}

	if err := h.recipeService.UpdateRecipe(c.Context(), recipeID, *req); err != nil {
		return presenters.FromError(c, domain.MessageFailedUpdateRecipe, err)
	}

	return presenters.SuccessResponse(c, domain.CreateRecipeResponse{ID: recipeID}, fiber.StatusOK, domain.MessageSuccessUpdateRecipe)
}

// ConfirmDelete is the first half of the delete flow. Nothing is removed.
func (h *recipeHandler) ConfirmDelete(c *fiber.Ctx) error {
	res, err := h.recipeService.GetRecipeDetail(c.Context(), c.Params("id"), "")
	if err != nil {
		return presenters.FromError(c, domain.MessageFailedGetRecipeDetail, err)
	}

	return presenters.SuccessResponse(c, fiber.Map{
		"recipe":           res,
		"confirm_required": true,
	}, fiber.StatusOK, domain.MessageConfirmDeleteRecipe)
}

func (h *recipeHandler) DeleteRecipe(c *fiber.Ctx) error {
	req := new(domain.DeleteRecipeRequest)
	if len(c.Body()) > 0 {
		if err := c.BodyParser(req); err != nil {
			return presenters.ErrorResponse(c, fiber.StatusBadRequest, domain.MessageFailedBodyRequest, err)
		}
	}

	err := h.recipeService.DeleteRecipe(c.Context(), c.Params("id"), req.Confirm)
	if errors.Is(err, domain.ErrDeleteNotConfirmed) {
		return h.ConfirmDelete(c)
	}
	if err != nil {
		return presenters.FromError(c, domain.MessageFailedDeleteRecipe, err)
	}

	return presenters.SuccessResponse(c, nil, fiber.StatusOK, domain.MessageSuccessDeleteRecipe)
}

func (h *recipeHandler) ManageRecipes(c *fiber.Ctx) error {
	res, err := h.recipeService.ManageRecipes(c.Context())
	if err != nil {
		return presenters.FromError(c, domain.MessageFailedGetRecipes, err)
	}

	return presenters.SuccessResponse(c, res, fiber.StatusOK, domain.MessageSuccessGetRecipes)
}
