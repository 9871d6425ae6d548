package handlers

import (
	"fmt"

	"recipe-finder/domain"
	"recipe-finder/internal/api/presenters"
	"recipe-finder/internal/utils"
	"recipe-finder/internal/utils/mailing"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/log"
)

type (
	SiteHandler interface {
		Ping(c *fiber.Ctx) error
		About(c *fiber.Ctx) error
		Contact(c *fiber.Ctx) error
	}

	siteHandler struct {
		mailer    mailing.Mailer
		validator *validator.Validate
	}
)

func NewSiteHandler(mailer mailing.Mailer, validator *validator.Validate) SiteHandler {
	return &siteHandler{
		mailer:    mailer,
		validator: validator,
	}
}

func (h *siteHandler) Ping(c *fiber.Ctx) error {
	return presenters.SuccessResponse(c, nil, fiber.StatusOK, domain.MessageSuccessPing)
}

func (h *siteHandler) About(c *fiber.Ctx) error {
	return presenters.SuccessResponse(c, fiber.Map{
		"name":        "Recipe Finder",
		"description": "Find, share and save recipes from publishers around the web.",
		"contact":     utils.GetConfig("CONTACT_EMAIL"),
	}, fiber.StatusOK, "success get about")
}

// Contact forwards the message by mail. A mail failure is logged only, the
// visitor always gets the thank-you notice.
func (h *siteHandler) Contact(c *fiber.Ctx) error {
	req := new(domain.ContactRequest)

	if err := c.BodyParser(req); err != nil {
		return presenters.ErrorResponse(c, fiber.StatusBadRequest, domain.MessageFailedBodyRequest, err)
	}

	if err := h.validator.Struct(req); err != nil {
		return presenters.ErrorResponse(c, fiber.StatusBadRequest, domain.MessageFailedContact, err)
	}

	subject := fmt.Sprintf("Contact form: %s", req.Name)
	body := fmt.Sprintf("From: %s <%s>\n\n%s", req.Name, req.Email, req.Message)
	if err := h.mailer.SendMail(utils.GetConfig("CONTACT_EMAIL"), subject, body, req.Email); err != nil {
		log.Warnf("contact mail from %s not sent: %v", req.Email, err)
	}

	return presenters.SuccessResponse(c, nil, fiber.StatusOK, domain.MessageSuccessContact)
}
