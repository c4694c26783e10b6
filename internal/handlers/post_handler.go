package handlers

import (
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/linkupapp/linkup-backend/internal/auth"
	"github.com/linkupapp/linkup-backend/internal/dto"
	"github.com/linkupapp/linkup-backend/internal/services"
)

type PostHandler struct {
	postService *services.PostService
}

func NewPostHandler(postService *services.PostService) *PostHandler {
	return &PostHandler{postService: postService}
}

type createPostRequest struct {
	Type    string `json:"type"`
	Content string `json:"content"`
}

// Create publishes a post. Media posts arrive as multipart forms with a
// "media" file part; text posts may use either a form or a JSON body.
func (h *PostHandler) Create(c *fiber.Ctx) error {
	ownerID, err := auth.UserID(c)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Error: true, Message: "Unauthorized"})
	}

	creatorID, err := uuid.Parse(c.Params("creatorId"))
	if err != nil {
		return badRequest(c, "Invalid creatorId parameter")
	}

	postType := c.FormValue("type")
	content := c.FormValue("content")
	if postType == "" {
		var req createPostRequest
		if err := c.BodyParser(&req); err != nil {
			return badRequest(c, "Invalid request body")
		}
		postType = req.Type
		content = req.Content
	}

	var media *services.MediaUpload
	if fileHeader, err := c.FormFile("media"); err == nil && fileHeader != nil {
		f, err := fileHeader.Open()
		if err != nil {
			return badRequest(c, "Unable to read media file")
		}
		defer f.Close()
		media = &services.MediaUpload{
			Reader:      f,
			Size:        fileHeader.Size,
			ContentType: fileHeader.Header.Get("Content-Type"),
			Filename:    fileHeader.Filename,
		}
	}

	post, err := h.postService.Create(c.UserContext(), ownerID, creatorID, postType, content, media)
	if err != nil {
		return fail(c, err)
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"message": "Post created successfully",
		"data":    post,
	})
}

func (h *PostHandler) ReadOne(c *fiber.Ctx) error {
	viewerID, err := auth.UserID(c)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Error: true, Message: "Unauthorized"})
	}

	creatorID, err := uuid.Parse(c.Params("creatorId"))
	if err != nil {
		return badRequest(c, "Invalid creatorId parameter")
	}
	postID, err := uuid.Parse(c.Params("postId"))
	if err != nil {
		return badRequest(c, "Invalid postId parameter")
	}

	post, err := h.postService.Get(c.UserContext(), viewerID, creatorID, postID)
	if err != nil {
		return fail(c, err)
	}

	return c.JSON(fiber.Map{"data": post})
}

func (h *PostHandler) ReadAll(c *fiber.Ctx) error {
	viewerID, err := auth.UserID(c)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Error: true, Message: "Unauthorized"})
	}

	creatorID, err := uuid.Parse(c.Params("creatorId"))
	if err != nil {
		return badRequest(c, "Invalid creatorId parameter")
	}

	posts, err := h.postService.List(c.UserContext(), viewerID, creatorID)
	if err != nil {
		return fail(c, err)
	}

	return c.JSON(fiber.Map{"data": posts})
}

func (h *PostHandler) DeleteOne(c *fiber.Ctx) error {
	ownerID, err := auth.UserID(c)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Error: true, Message: "Unauthorized"})
	}

	creatorID, err := uuid.Parse(c.Params("creatorId"))
	if err != nil {
		return badRequest(c, "Invalid creatorId parameter")
	}
	postID, err := uuid.Parse(c.Params("postId"))
	if err != nil {
		return badRequest(c, "Invalid postId parameter")
	}

	if err := h.postService.Delete(c.UserContext(), ownerID, creatorID, postID); err != nil {
		return fail(c, err)
	}

	return c.JSON(fiber.Map{"message": "Post and associated media deleted successfully"})
}

func (h *PostHandler) DeleteAll(c *fiber.Ctx) error {
	ownerID, err := auth.UserID(c)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Error: true, Message: "Unauthorized"})
	}

	creatorID, err := uuid.Parse(c.Params("creatorId"))
	if err != nil {
		return badRequest(c, "Invalid creatorId parameter")
	}

	if err := h.postService.DeleteAll(c.UserContext(), ownerID, creatorID); err != nil {
		return fail(c, err)
	}

	return c.JSON(fiber.Map{"message": "Posts and associated media deleted successfully"})
}
