package handlers

import (
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/linkupapp/linkup-backend/internal/auth"
	"github.com/linkupapp/linkup-backend/internal/dto"
	"github.com/linkupapp/linkup-backend/internal/services"
)

type SubRequestHandler struct {
	subscriptionService *services.SubscriptionService
}

func NewSubRequestHandler(subscriptionService *services.SubscriptionService) *SubRequestHandler {
	return &SubRequestHandler{subscriptionService: subscriptionService}
}

// Create asks to subscribe to a creator. For public creators the grant
// is immediate and no request row is left behind.
func (h *SubRequestHandler) Create(c *fiber.Ctx) error {
	requesterID, err := auth.UserID(c)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Error: true, Message: "Unauthorized"})
	}

	creatorID, err := uuid.Parse(c.Params("creatorId"))
	if err != nil {
		return badRequest(c, "Invalid creatorId parameter")
	}

	resp, err := h.subscriptionService.RequestAccess(c.UserContext(), requesterID, creatorID)
	if err != nil {
		return fail(c, err)
	}

	message := "Subscription request created"
	if resp.Granted {
		message = "Subscription granted"
	}
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"message": message,
		"data":    resp,
	})
}

func (h *SubRequestHandler) ReadAll(c *fiber.Ctx) error {
	ownerID, err := auth.UserID(c)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Error: true, Message: "Unauthorized"})
	}

	creatorID, err := uuid.Parse(c.Params("creatorId"))
	if err != nil {
		return badRequest(c, "Invalid creatorId parameter")
	}

	reqs, err := h.subscriptionService.ListRequests(c.UserContext(), creatorID, ownerID)
	if err != nil {
		return fail(c, err)
	}

	return c.JSON(fiber.Map{"data": reqs})
}

func (h *SubRequestHandler) ReadOne(c *fiber.Ctx) error {
	ownerID, err := auth.UserID(c)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Error: true, Message: "Unauthorized"})
	}

	creatorID, err := uuid.Parse(c.Params("creatorId"))
	if err != nil {
		return badRequest(c, "Invalid creatorId parameter")
	}
	subRequestID, err := uuid.Parse(c.Params("subRequestId"))
	if err != nil {
		return badRequest(c, "Invalid subRequestId parameter")
	}

	req, err := h.subscriptionService.GetRequest(c.UserContext(), subRequestID, creatorID, ownerID)
	if err != nil {
		return fail(c, err)
	}

	return c.JSON(fiber.Map{"data": req})
}

// Delete resolves a pending request. The body carries the verdict:
// has_accepted true grants access, false denies and simply drops the
// request.
func (h *SubRequestHandler) Delete(c *fiber.Ctx) error {
	ownerID, err := auth.UserID(c)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Error: true, Message: "Unauthorized"})
	}

	creatorID, err := uuid.Parse(c.Params("creatorId"))
	if err != nil {
		return badRequest(c, "Invalid creatorId parameter")
	}
	subRequestID, err := uuid.Parse(c.Params("subRequestId"))
	if err != nil {
		return badRequest(c, "Invalid subRequestId parameter")
	}

	var req dto.ResolveSubRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "Invalid request body")
	}
	if req.HasAccepted == nil {
		return badRequest(c, "has_accepted must be a boolean")
	}

	if err := h.subscriptionService.Resolve(c.UserContext(), subRequestID, creatorID, ownerID, *req.HasAccepted); err != nil {
		return fail(c, err)
	}

	message := "Subscription request denied"
	if *req.HasAccepted {
		message = "Subscription request accepted"
	}
	return c.JSON(fiber.Map{"message": message})
}
