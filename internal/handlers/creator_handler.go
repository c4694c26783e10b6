package handlers

import (
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/linkupapp/linkup-backend/internal/auth"
	"github.com/linkupapp/linkup-backend/internal/dto"
	"github.com/linkupapp/linkup-backend/internal/services"
)

type CreatorHandler struct {
	creatorService *services.CreatorService
}

func NewCreatorHandler(creatorService *services.CreatorService) *CreatorHandler {
	return &CreatorHandler{creatorService: creatorService}
}

func (h *CreatorHandler) Create(c *fiber.Ctx) error {
	ownerID, err := auth.UserID(c)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Error: true, Message: "Unauthorized"})
	}

	var req dto.CreateCreatorRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "Invalid request body")
	}

	creator, err := h.creatorService.Create(c.UserContext(), ownerID, req.IsPublic)
	if err != nil {
		return fail(c, err)
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"message": "Creator created successfully",
		"data":    fiber.Map{"creator_id": creator.ID},
	})
}

func (h *CreatorHandler) ReadOne(c *fiber.Ctx) error {
	creatorID, err := uuid.Parse(c.Params("creatorId"))
	if err != nil {
		return badRequest(c, "Invalid creatorId parameter")
	}

	creator, err := h.creatorService.Get(c.UserContext(), creatorID)
	if err != nil {
		return fail(c, err)
	}

	return c.JSON(fiber.Map{"data": creator})
}

func (h *CreatorHandler) ReadAll(c *fiber.Ctx) error {
	creators, err := h.creatorService.ListPublic(c.UserContext())
	if err != nil {
		return fail(c, err)
	}

	return c.JSON(fiber.Map{"data": creators})
}

func (h *CreatorHandler) Update(c *fiber.Ctx) error {
	ownerID, err := auth.UserID(c)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Error: true, Message: "Unauthorized"})
	}

	creatorID, err := uuid.Parse(c.Params("creatorId"))
	if err != nil {
		return badRequest(c, "Invalid creatorId parameter")
	}

	var req dto.UpdateCreatorRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "Invalid request body")
	}
	if req.IsPublic == nil {
		return badRequest(c, "is_public is required")
	}

	if err := h.creatorService.Update(c.UserContext(), creatorID, ownerID, *req.IsPublic); err != nil {
		return fail(c, err)
	}

	return c.JSON(fiber.Map{"message": "Creator updated successfully"})
}

func (h *CreatorHandler) Delete(c *fiber.Ctx) error {
	ownerID, err := auth.UserID(c)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Error: true, Message: "Unauthorized"})
	}

	creatorID, err := uuid.Parse(c.Params("creatorId"))
	if err != nil {
		return badRequest(c, "Invalid creatorId parameter")
	}

	if err := h.creatorService.Delete(c.UserContext(), creatorID, ownerID); err != nil {
		return fail(c, err)
	}

	return c.JSON(fiber.Map{"message": "Creator deleted successfully"})
}
