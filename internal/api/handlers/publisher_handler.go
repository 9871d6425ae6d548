package handlers

import (
	"recipe-finder/domain"
	"recipe-finder/internal/api/presenters"
	"recipe-finder/pkg/publisher"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
)

type (
	PublisherHandler interface {
		GetPublishers(c *fiber.Ctx) error
		ManagePublisher(c *fiber.Ctx) error
	}

	publisherHandler struct {
		publisherService publisher.PublisherService
		validator        *validator.Validate
	}
)

func NewPublisherHandler(publisherService publisher.PublisherService, validator *validator.Validate) PublisherHandler {
	return &publisherHandler{
		publisherService: publisherService,
		validator:        validator,
	}
}

func (h *publisherHandler) GetPublishers(c *fiber.Ctx) error {
	res, err := h.publisherService.GetPublishers(c.Context())
	if err != nil {
		return presenters.FromError(c, domain.MessageFailedGetPublishers, err)
	}

	return presenters.SuccessResponse(c, res, fiber.StatusOK, domain.MessageSuccessGetPublishers)
}

// ManagePublisher dispatches on the submitted action field.
func (h *publisherHandler) ManagePublisher(c *fiber.Ctx) error {
	req := new(domain.PublisherActionRequest)

	if err := c.BodyParser(req); err != nil {
		return presenters.ErrorResponse(c, fiber.StatusBadRequest, domain.MessageFailedBodyRequest, err)
	}

	if err := h.validator.Struct(req); err != nil {
		return presenters.ErrorResponse(c, fiber.StatusBadRequest, domain.MessageFailedProcessRequest, err)
	}

	message, err := h.publisherService.ApplyAction(c.Context(), *req)
	if err != nil {
		return presenters.FromError(c, failedPublisherMessage(req.Action), err)
	}

	publishers, err := h.publisherService.GetPublishers(c.Context())
	if err != nil {
		return presenters.FromError(c, domain.MessageFailedGetPublishers, err)
	}

	return presenters.SuccessResponse(c, publishers, fiber.StatusOK, message)
}

func failedPublisherMessage(action string) string {
	switch action {
	case domain.PublisherActionAdd:
		return domain.MessageFailedCreatePublisher
	case domain.PublisherActionEdit:
		return domain.MessageFailedUpdatePublisher
	case domain.PublisherActionDelete:
		return domain.MessageFailedDeletePublisher
	default:
		return domain.MessageFailedProcessRequest
	}
}
