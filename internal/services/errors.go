package services

import "errors"

// Sentinel errors shared across the service layer. Handlers translate
// these into HTTP status codes with errors.Is; raw storage errors never
// reach a client.
var (
	ErrValidation         = errors.New("validation failed")
	ErrEmailTaken         = errors.New("email already registered")
	ErrInvalidCredentials = errors.New("invalid email or password")
	ErrInvalidToken       = errors.New("invalid or expired refresh token")
	ErrUserNotFound       = errors.New("user not found")

	ErrCreatorExists = errors.New("user already has a creator profile")
	// ErrCreatorNotFound deliberately covers both "no such creator" and
	// "not your creator" so existence is never leaked cross-user.
	ErrCreatorNotFound = errors.New("creator not found")

	ErrSelfSubscription   = errors.New("a creator cannot subscribe to themselves")
	ErrDuplicatePending   = errors.New("a subscription request is already pending")
	ErrRequestNotFound    = errors.New("subscription request not found")
	ErrSubscriberNotFound = errors.New("subscriber not found")
	ErrNoAccess           = errors.New("no access to this creator's content")

	ErrPostNotFound = errors.New("post not found")
)
