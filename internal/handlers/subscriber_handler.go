package handlers

import (
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/linkupapp/linkup-backend/internal/auth"
	"github.com/linkupapp/linkup-backend/internal/dto"
	"github.com/linkupapp/linkup-backend/internal/services"
)

type SubscriberHandler struct {
	subscriptionService *services.SubscriptionService
}

func NewSubscriberHandler(subscriptionService *services.SubscriptionService) *SubscriberHandler {
	return &SubscriberHandler{subscriptionService: subscriptionService}
}

func (h *SubscriberHandler) ReadAll(c *fiber.Ctx) error {
	viewerID, err := auth.UserID(c)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Error: true, Message: "Unauthorized"})
	}

	creatorID, err := uuid.Parse(c.Params("creatorId"))
	if err != nil {
		return badRequest(c, "Invalid creatorId parameter")
	}

	subs, err := h.subscriptionService.ListSubscribers(c.UserContext(), viewerID, creatorID)
	if err != nil {
		return fail(c, err)
	}

	return c.JSON(fiber.Map{"data": subs})
}

func (h *SubscriberHandler) ReadOne(c *fiber.Ctx) error {
	viewerID, err := auth.UserID(c)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Error: true, Message: "Unauthorized"})
	}

	creatorID, err := uuid.Parse(c.Params("creatorId"))
	if err != nil {
		return badRequest(c, "Invalid creatorId parameter")
	}
	subscriberID, err := uuid.Parse(c.Params("subscriberId"))
	if err != nil {
		return badRequest(c, "Invalid subscriberId parameter")
	}

	sub, err := h.subscriptionService.GetSubscriber(c.UserContext(), viewerID, creatorID, subscriberID)
	if err != nil {
		return fail(c, err)
	}

	return c.JSON(fiber.Map{"data": sub})
}

// Delete revokes a subscriber's access, owner only.
func (h *SubscriberHandler) Delete(c *fiber.Ctx) error {
	ownerID, err := auth.UserID(c)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Error: true, Message: "Unauthorized"})
	}

	creatorID, err := uuid.Parse(c.Params("creatorId"))
	if err != nil {
		return badRequest(c, "Invalid creatorId parameter")
	}
	subscriberID, err := uuid.Parse(c.Params("subscriberId"))
	if err != nil {
		return badRequest(c, "Invalid subscriberId parameter")
	}

	if err := h.subscriptionService.RemoveSubscriber(c.UserContext(), subscriberID, creatorID, ownerID); err != nil {
		return fail(c, err)
	}

	return c.JSON(fiber.Map{"message": "Subscriber removed successfully"})
}
