package dto

import "github.com/google/uuid"

type CreateCreatorRequest struct {
	IsPublic bool `json:"is_public"`
}

type UpdateCreatorRequest struct {
	IsPublic *bool `json:"is_public"`
}

type CreatorResponse struct {
	ID       uuid.UUID `json:"id"`
	UserName string    `json:"user_name"`
	IsPublic bool      `json:"is_public"`
}
