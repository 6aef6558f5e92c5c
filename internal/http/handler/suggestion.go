package handler

import (
	"errors"

	"github.com/gofiber/fiber/v2"

	"catalogapi/internal/service"
)

type suggestionRequest struct {
	Title       string `json:"title" validate:"required,min=3,max=200"`
	Description string `json:"description" validate:"required,min=10,max=2000"`
}

// SuggestContent handles POST /suggestions: AI title/description
// improvements for free-form input.
func SuggestContent(svc service.SuggestionService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var req suggestionRequest
		if err := c.BodyParser(&req); err != nil {
			return writeError(c, fiber.StatusBadRequest, "INVALID_BODY", "malformed request body")
		}
		if err := validate.Struct(req); err != nil {
			return writeError(c, fiber.StatusBadRequest, "VALIDATION_ERROR", validationMessage(err))
		}

		res, err := svc.ForInput(c.UserContext(), req.Title, req.Description)
		if err != nil {
			return writeError(c, fiber.StatusBadGateway, "UPSTREAM_ERROR", "suggestion provider unavailable")
		}
		return c.JSON(res)
	}
}

// SuggestForItem handles GET /suggestions/catalog/:id: improvements
// seeded from a stored item's current content.
func SuggestForItem(svc service.SuggestionService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, ok := itemID(c)
		if !ok {
			return writeError(c, fiber.StatusBadRequest, "INVALID_ID", "invalid id format")
		}

		res, err := svc.ForItem(c.UserContext(), id)
		if err != nil {
			if errors.Is(err, service.ErrNotFound) {
				return writeError(c, fiber.StatusNotFound, "NOT_FOUND", "catalog item not found")
			}
			return writeError(c, fiber.StatusBadGateway, "UPSTREAM_ERROR", "suggestion provider unavailable")
		}
		return c.JSON(res)
	}
}
