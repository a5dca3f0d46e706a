package handlers

import (
	"github.com/gofiber/fiber/v2"
	"github.com/postloop/postloop-api/internal/service"
	"github.com/postloop/postloop-api/internal/transfer"
)

type SlotHandler struct {
	s service.SlotService
}

func NewSlotHandler(service service.SlotService) *SlotHandler {
	return &SlotHandler{s: service}
}

func (h *SlotHandler) CreateSlot(c *fiber.Ctx) error {
	userID := GetUserID(c)

	var sc transfer.SlotCreation
	if err := c.BodyParser(&sc); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Unable to parse request body",
		})
	}

	slotID, err := h.s.Create(c.Context(), userID, &sc)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": err.Error(),
		})
	}

	return c.Status(fiber.StatusOK).JSON(fiber.Map{
		"id": slotID,
	})
}

func (h *SlotHandler) ListSlots(c *fiber.Ctx) error {
	userID := GetUserID(c)

	slots, err := h.s.List(c.Context(), userID)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Unable to list slots",
		})
	}

	return c.Status(fiber.StatusOK).JSON(slots)
}

func (h *SlotHandler) RemoveSlot(c *fiber.Ctx) error {
	userID := GetUserID(c)
	slotId := c.QueryInt("id", 0)

	if err := h.s.Remove(c.Context(), userID, int64(slotId)); err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Unable to remove slot",
		})
	}

	return c.SendStatus(fiber.StatusOK)
}
