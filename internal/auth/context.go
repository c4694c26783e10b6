package auth

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

// Locals key under which the authenticated user id is stored once the
// token subject has been resolved against the credential store.
const UserIDKey = "auth_user_id"

// TokenUserID extracts the user UUID from JWT claims in context.
func TokenUserID(c *fiber.Ctx) (uuid.UUID, error) {
	token, ok := c.Locals("user").(*jwt.Token)
	if !ok {
		return uuid.Nil, errors.New("invalid token in context")
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return uuid.Nil, errors.New("invalid claims")
	}

	sub, ok := claims["sub"].(string)
	if !ok {
		return uuid.Nil, errors.New("missing sub claim")
	}

	return uuid.Parse(sub)
}

// UserID returns the authenticated user id bound by the Authenticated
// middleware. Handlers behind that middleware can rely on it being set.
func UserID(c *fiber.Ctx) (uuid.UUID, error) {
	id, ok := c.Locals(UserIDKey).(uuid.UUID)
	if !ok {
		return uuid.Nil, errors.New("no authenticated user in context")
	}
	return id, nil
}
