package middleware

import (
	"errors"
	"strings"

	"recipe-finder/domain"
	"recipe-finder/entities"
	"recipe-finder/internal/api/presenters"
	"recipe-finder/pkg/jwt"
	"recipe-finder/pkg/session"
	"recipe-finder/pkg/user"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/log"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

const (
	// TokenCookie holds the access token for browser clients.
	TokenCookie = "access_token"

	LocalUserID = "user_id"
	LocalRole   = "role"
	LocalToken  = "token"
	LocalUser   = "user"
)

type (
	Middleware interface {
		CORSMiddleware() fiber.Handler
		AuthMiddleware(jwtService jwt.JWTService) fiber.Handler
		OptionalAuth(jwtService jwt.JWTService) fiber.Handler
		AdminOnly() fiber.Handler
	}

	middleware struct {
		revoker        session.Revoker
		userRepository user.UserRepository
	}
)

func NewMiddleware(revoker session.Revoker, userRepository user.UserRepository) Middleware {
	if revoker == nil {
		revoker = session.NewNoopRevoker()
	}
	return &middleware{
		revoker:        revoker,
		userRepository: userRepository,
	}
}

func (m *middleware) CORSMiddleware() fiber.Handler {
	return cors.New(cors.Config{
		AllowOrigins: "*",
		AllowHeaders: "Origin, Content-Type, Accept, Authorization",
		AllowMethods: "GET, POST, OPTIONS",
	})
}

// AuthMiddleware rejects requests without a valid, unrevoked token.
func (m *middleware) AuthMiddleware(jwtService jwt.JWTService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		if err := m.authenticate(c, jwtService); err != nil {
			return presenters.ErrorResponse(c, fiber.StatusUnauthorized, domain.MessageLoginRequired, err)
		}
		return c.Next()
	}
}

// OptionalAuth identifies the caller when it can and never rejects.
func (m *middleware) OptionalAuth(jwtService jwt.JWTService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		if err := m.authenticate(c, jwtService); err != nil && !errors.Is(err, domain.ErrTokenNotFound) {
			log.Debugf("ignoring invalid token on public route: %v", err)
		}
		return c.Next()
	}
}

// AdminOnly must run after AuthMiddleware. It checks the role currently
// stored for the caller, not the one in the token, and the name has to be
// exactly "admin".
func (m *middleware) AdminOnly() fiber.Handler {
	return func(c *fiber.Ctx) error {
		caller, _ := c.Locals(LocalUser).(*entities.User)
		if caller == nil || !caller.IsAdmin() {
			return presenters.ErrorResponse(c, fiber.StatusForbidden, domain.MessagePermissionDenied, domain.ErrPermissionDenied)
		}
		return c.Next()
	}
}

func (m *middleware) authenticate(c *fiber.Ctx, jwtService jwt.JWTService) error {
	token := TokenFromRequest(c)
	if token == "" {
		return domain.ErrTokenNotFound
	}

	userID, _, err := jwtService.GetUserIDByToken(token)
	if err != nil {
		return err
	}

	revoked, err := m.revoker.IsRevoked(c.Context(), token)
	if err != nil {
		log.Errorf("checking token revocation: %v", err)
		return domain.ErrTokenInvalid
	}
	if revoked {
		return domain.ErrTokenRevoked
	}

	if _, err := uuid.Parse(userID); err != nil {
		return domain.ErrTokenInvalid
	}

	// The account may have been deleted or demoted since the token was issued.
	caller, err := m.userRepository.GetUserByID(c.Context(), userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return domain.ErrUserNotFound
		}
		log.Errorf("loading user %s: %v", userID, err)
		return domain.ErrTokenInvalid
	}

	role := ""
	if caller.Role != nil {
		role = caller.Role.RoleName
	}

	c.Locals(LocalUserID, userID)
	c.Locals(LocalRole, role)
	c.Locals(LocalToken, token)
	c.Locals(LocalUser, caller)
	return nil
}

// TokenFromRequest reads a bearer token, falling back to the session cookie.
func TokenFromRequest(c *fiber.Ctx) string {
	header := c.Get(fiber.HeaderAuthorization)
	if strings.HasPrefix(header, "Bearer ") {
		return strings.TrimSpace(strings.TrimPrefix(header, "Bearer "))
	}
	return c.Cookies(TokenCookie)
}

// UserID returns the authenticated caller, or "" on public routes.
func UserID(c *fiber.Ctx) string {
	userID, _ := c.Locals(LocalUserID).(string)
	return userID
}
