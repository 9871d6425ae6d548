package presenters

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http/httptest"
	"testing"

	"recipe-finder/domain"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStatusFor(t *testing.T) {
	cases := []struct {
		name string
		err  error
		want int
	}{
		{"not found", domain.ErrRecipeNotFound, fiber.StatusNotFound},
		{"wrapped not found", fmt.Errorf("load: %w", domain.ErrPublisherNotFound), fiber.StatusNotFound},
		{"conflict", domain.ErrPublisherInUse, fiber.StatusBadRequest},
		{"permission", domain.ErrPermissionDenied, fiber.StatusForbidden},
		{"unauthenticated", domain.ErrTokenInvalid, fiber.StatusUnauthorized},
		{"fiber error", fiber.ErrMethodNotAllowed, fiber.StatusMethodNotAllowed},
		{"plain", errors.New("boom"), fiber.StatusInternalServerError},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, StatusFor(tc.err))
		})
	}
}

func TestErrorHandlerEnvelope(t *testing.T) {
	app := fiber.New(fiber.Config{ErrorHandler: ErrorHandler})
	app.Get("/denied", func(c *fiber.Ctx) error {
		return domain.ErrPermissionDenied
	})

	resp, err := app.Test(httptest.NewRequest(fiber.MethodGet, "/denied", nil))
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusForbidden, resp.StatusCode)

	var body Response
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	assert.False(t, body.Status)
	assert.Equal(t, "/", body.Redirect)
	assert.Equal(t, domain.ErrPermissionDenied.Error(), body.Error)
}
