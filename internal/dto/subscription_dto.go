package dto

import "github.com/google/uuid"

// ResolveSubRequest carries the owner's decision on a pending request.
// A pointer distinguishes a missing field from an explicit false.
type ResolveSubRequest struct {
	HasAccepted *bool `json:"has_accepted"`
}

type SubRequestResponse struct {
	ID        uuid.UUID `json:"id"`
	UserID    uuid.UUID `json:"user_id"`
	CreatorID uuid.UUID `json:"creator_id"`
}

// RequestAccessResponse reports the outcome of a follow request: either
// an immediate grant (public creator) or the id of the pending request.
type RequestAccessResponse struct {
	Granted      bool       `json:"granted"`
	SubRequestID *uuid.UUID `json:"sub_request_id,omitempty"`
}

type SubscriberResponse struct {
	ID        uuid.UUID `json:"id"`
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	HasAccess bool      `json:"has_access"`
}
