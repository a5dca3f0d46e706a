package handlers

import (
	"github.com/gofiber/fiber/v2"
	"github.com/postloop/postloop-api/internal/service"
	"github.com/postloop/postloop-api/internal/transfer"
)

type AIHandler struct {
	s service.AIService
}

func NewAIHandler(service service.AIService) *AIHandler {
	return &AIHandler{s: service}
}

func (h *AIHandler) GeneratePosts(c *fiber.Ctx) error {
	userID := GetUserID(c)

	var r transfer.GenerateRequest
	if err := c.BodyParser(&r); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Unable to parse request body",
		})
	}

	postIDs, err := h.s.GeneratePosts(c.Context(), userID, &r)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": err.Error(),
		})
	}

	return c.Status(fiber.StatusOK).JSON(fiber.Map{
		"success": true,
		"count":   len(postIDs),
		"posts":   postIDs,
	})
}
