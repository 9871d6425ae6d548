package handlers

import (
	"recipe-finder/domain"
	"recipe-finder/internal/api/presenters"
	"recipe-finder/internal/middleware"
	"recipe-finder/pkg/jwt"
	"recipe-finder/pkg/oauth"
	"recipe-finder/pkg/recipe"
	"recipe-finder/pkg/session"
	"recipe-finder/pkg/user"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/log"
)

type (
	UserHandler interface {
		LoginForm(c *fiber.Ctx) error
		Login(c *fiber.Ctx) error
		Register(c *fiber.Ctx) error
		Logout(c *fiber.Ctx) error
		Profile(c *fiber.Ctx) error
		UpdateProfile(c *fiber.Ctx) error
		UpdatePicture(c *fiber.Ctx) error
		ChangePassword(c *fiber.Ctx) error
	}

	userHandler struct {
		userService   user.UserService
		recipeService recipe.RecipeService
		jwtService    jwt.JWTService
		revoker       session.Revoker
		google        oauth.GoogleProvider
		validator     *validator.Validate
	}
)

func NewUserHandler(
	userService user.UserService,
	recipeService recipe.RecipeService,
	jwtService jwt.JWTService,
	revoker session.Revoker,
	google oauth.GoogleProvider,
	validator *validator.Validate,
) UserHandler {
	return &userHandler{
		userService:   userService,
		recipeService: recipeService,
		jwtService:    jwtService,
		revoker:       revoker,
		google:        google,
		validator:     validator,
	}
}

func (h *userHandler) LoginForm(c *fiber.Ctx) error {
	res := domain.LoginFormResponse{}
	if h.google != nil && h.google.Enabled() {
		res.GoogleLoginURL = "/auth/google/login/"
	}
	return presenters.SuccessResponse(c, res, fiber.StatusOK, domain.MessageSuccessLoginForm)
}

func (h *userHandler) Login(c *fiber.Ctx) error {
	req := new(domain.LoginRequest)

	if err := c.BodyParser(req); err != nil {
		return presenters.ErrorResponse(c, fiber.StatusBadRequest, domain.MessageFailedBodyRequest, err)
	}

	if err := h.validator.Struct(req); err != nil {
		return presenters.ErrorResponse(c, fiber.StatusBadRequest, domain.MessageFailedLogin, err)
	}

	res, err := h.userService.Login(c.Context(), *req)
	if err != nil {
		return presenters.FromError(c, domain.MessageFailedLogin, err)
	}

	setSessionCookie(c, h.jwtService, res.Token)
	return presenters.SuccessResponse(c, res, fiber.StatusOK, domain.MessageSuccessLogin)
}

func (h *userHandler) Register(c *fiber.Ctx) error {
	req := new(domain.RegisterRequest)

	if err := c.BodyParser(req); err != nil {
		return presenters.ErrorResponse(c, fiber.StatusBadRequest, domain.MessageFailedBodyRequest, err)
	}

	if err := h.validator.Struct(req); err != nil {
		return presenters.ErrorResponse(c, fiber.StatusBadRequest, domain.MessageFailedRegister, err)
	}

	res, err := h.userService.Register(c.Context(), *req)
	if err != nil {
		return presenters.FromError(c, domain.MessageFailedRegister, err)
	}

	setSessionCookie(c, h.jwtService, res.Token)
	return presenters.SuccessResponse(c, res, fiber.StatusCreated, domain.MessageSuccessRegister)
}

// Logout revokes the presented token for the rest of its lifetime.
func (h *userHandler) Logout(c *fiber.Ctx) error {
	token, _ := c.Locals(middleware.LocalToken).(string)

	expires, err := h.jwtService.GetExpiry(token)
	if err != nil {
		return presenters.FromError(c, domain.MessageFailedLogout, err)
	}
	if err := h.revoker.Revoke(c.Context(), token, expires); err != nil {
		log.Errorf("revoking token: %v", err)
		return presenters.ErrorResponse(c, fiber.StatusInternalServerError, domain.MessageFailedLogout, err)
	}

	clearSessionCookie(c)
	return presenters.SuccessResponse(c, nil, fiber.StatusOK, domain.MessageSuccessLogout)
}

func (h *userHandler) Profile(c *fiber.Ctx) error {
	userID := c.Locals("user_id").(string)

	me, err := h.userService.Me(c.Context(), userID)
	if err != nil {
		return presenters.FromError(c, domain.MessageFailedGetProfile, err)
	}

	saved, err := h.recipeService.GetSavedRecipes(c.Context(), userID)
	if err != nil {
		return presenters.FromError(c, domain.MessageFailedGetProfile, err)
	}

	return presenters.SuccessResponse(c, domain.ProfileResponse{
		User:         me,
		SavedRecipes: saved,
	}, fiber.StatusOK, domain.MessageSuccessGetProfile)
}

func (h *userHandler) UpdateProfile(c *fiber.Ctx) error {
	userID := c.Locals("user_id").(string)
	req := new(domain.UpdateProfileRequest)

	if err := c.BodyParser(req); err != nil {
		return presenters.ErrorResponse(c, fiber.StatusBadRequest, domain.MessageFailedBodyRequest, err)
	}

	if err := h.validator.Struct(req); err != nil {
		return presenters.ErrorResponse(c, fiber.StatusBadRequest, domain.MessageFailedUpdateProfile, err)
	}

	res, err := h.userService.UpdateProfile(c.Context(), userID, *req)
	if err != nil {
		return presenters.FromError(c, domain.MessageFailedUpdateProfile, err)
	}

	return presenters.SuccessResponse(c, res, fiber.StatusOK, domain.MessageSuccessUpdateProfile)
}

func (h *userHandler) UpdatePicture(c *fiber.Ctx) error {
	userID := c.Locals("user_id").(string)

	file, err := c.FormFile("profile_picture")
	if err != nil {
		return presenters.FromError(c, domain.MessageFailedUpdatePicture, domain.ErrPictureRequired)
	}

	res, err := h.userService.UpdateProfilePicture(c.Context(), userID, file)
	if err != nil {
		return presenters.FromError(c, domain.MessageFailedUpdatePicture, err)
	}

	return presenters.SuccessResponse(c, res, fiber.StatusOK, domain.MessageSuccessUpdatePicture)
}

func (h *userHandler) ChangePassword(c *fiber.Ctx) error {
	userID := c.Locals("user_id").(string)
	req := new(domain.ChangePasswordRequest)

	if err := c.BodyParser(req); err != nil {
		return presenters.ErrorResponse(c, fiber.StatusBadRequest, domain.MessageFailedBodyRequest, err)
	}

	if err := h.validator.Struct(req); err != nil {
		return presenters.ErrorResponse(c, fiber.StatusBadRequest, domain.MessageFailedChangePassword, err)
	}

	if err := h.userService.ChangePassword(c.Context(), userID, *req); err != nil {
		return presenters.FromError(c, domain.MessageFailedChangePassword, err)
	}

	return presenters.SuccessResponse(c, nil, fiber.StatusOK, domain.MessageSuccessChangePassword)
}
