package handlers

import (
	"time"

	"recipe-finder/domain"
	"recipe-finder/internal/api/presenters"
	"recipe-finder/pkg/jwt"
	"recipe-finder/pkg/oauth"
	"recipe-finder/pkg/user"

	"github.com/gofiber/fiber/v2"
)

const oauthStateCookie = "oauth_state"

type (
	OAuthHandler interface {
		GoogleLogin(c *fiber.Ctx) error
		GoogleCallback(c *fiber.Ctx) error
	}

	oauthHandler struct {
		google      oauth.GoogleProvider
		userService user.UserService
		jwtService  jwt.JWTService
	}
)

func NewOAuthHandler(google oauth.GoogleProvider, userService user.UserService, jwtService jwt.JWTService) OAuthHandler {
	return &oauthHandler{
		google:      google,
		userService: userService,
		jwtService:  jwtService,
	}
}

func (h *oauthHandler) GoogleLogin(c *fiber.Ctx) error {
	if !h.google.Enabled() {
		return presenters.FromError(c, domain.MessageFailedOAuthLogin, domain.ErrOAuthNotConfigured)
	}

	state := h.google.NewState()
	c.Cookie(&fiber.Cookie{
		Name:     oauthStateCookie,
		Value:    state,
		Path:     "/auth/google/",
		Expires:  time.Now().Add(10 * time.Minute),
		HTTPOnly: true,
		SameSite: fiber.CookieSameSiteLaxMode,
	})
	return c.Redirect(h.google.AuthCodeURL(state), fiber.StatusFound)
}

// GoogleCallback completes the provider login, syncs the avatar and issues
// a local session.
func (h *oauthHandler) GoogleCallback(c *fiber.Ctx) error {
	state := c.Cookies(oauthStateCookie)
	c.ClearCookie(oauthStateCookie)
	if state == "" || c.Query("state") != state {
		return presenters.FromError(c, domain.MessageFailedOAuthLogin, domain.ErrOAuthStateMismatch)
	}

	profile, err := h.google.FetchProfile(c.Context(), c.Query("code"))
	if err != nil {
		if domain.KindOf(err) == "" {
			return presenters.ErrorResponse(c, fiber.StatusBadGateway, domain.MessageFailedOAuthLogin, err)
		}
		return presenters.FromError(c, domain.MessageFailedOAuthLogin, err)
	}

	res, err := h.userService.LoginWithProvider(c.Context(), profile)
	if err != nil {
		return presenters.FromError(c, domain.MessageFailedOAuthLogin, err)
	}

	setSessionCookie(c, h.jwtService, res.Token)
	return presenters.SuccessResponse(c, res, fiber.StatusOK, domain.MessageSuccessLogin)
}
