package handlers

import (
	"github.com/gofiber/fiber/v2"
	"github.com/postloop/postloop-api/internal/service"
	"github.com/postloop/postloop-api/internal/transfer"
)

type BrandHandler struct {
	s service.BrandService
}

func NewBrandHandler(service service.BrandService) *BrandHandler {
	return &BrandHandler{s: service}
}

func (h *BrandHandler) GetBrandProfile(c *fiber.Ctx) error {
	userID := GetUserID(c)

	brand, err := h.s.Get(c.Context(), userID)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Unable to get brand profile",
		})
	}

	return c.JSON(brand)
}

func (h *BrandHandler) SaveBrandProfile(c *fiber.Ctx) error {
	userID := GetUserID(c)

	var bu transfer.BrandUpdate
	if err := c.BodyParser(&bu); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Unable to parse request body",
		})
	}

	if err := h.s.Save(c.Context(), userID, &bu); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": err.Error(),
		})
	}

	return c.SendStatus(fiber.StatusOK)
}
