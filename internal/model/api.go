package model

import (
	"context"
	"errors"
	"net"

	"github.com/google/uuid"
)

// ErrInvalidToken is returned for malformed, expired or foreign access tokens.
var ErrInvalidToken = errors.New("invalid access token")

// TokenManager signs and verifies backup API access tokens.
type TokenManager interface {
	GenerateAccessToken(userID uuid.UUID) (string, error)
	ParseAccessToken(token string) (uuid.UUID, error)
}

// ContextManager moves the caller's user id between the auth interceptor and
// the backup handlers.
type ContextManager interface {
	SetUserIDToContext(ctx context.Context, userID uuid.UUID) context.Context
	GetUserIDFromContext(ctx context.Context) (uuid.UUID, bool)
}

// SecurityLayer opens the listener the backup server accepts calls on.
type SecurityLayer interface {
	Listen(protocol, addr string) (net.Listener, error)
}

// Server is the long running backup API server.
type Server interface {
	Start(securityLayer SecurityLayer) error
	Stop(ctx context.Context) error
	Address() string
}
