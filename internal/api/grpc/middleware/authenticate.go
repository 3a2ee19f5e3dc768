package middleware

import (
	"context"
	"strings"

	"github.com/google/uuid"
	"github.com/grpc-ecosystem/go-grpc-middleware/v2/interceptors/auth"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"github.com/dtroode/senderkeys/internal/logger"
	"github.com/dtroode/senderkeys/internal/model"
)

// TokenService resolves user ID from bearer tokens.
type TokenService interface {
	GetUserID(ctx context.Context, token string) (uuid.UUID, error)
}

// Authenticate validates bearer tokens and injects user ID into context.
type Authenticate struct {
	tokenService   TokenService
	contextManager model.ContextManager
	logger         *logger.Logger
}

// NewAuthenticate creates a new Authenticate middleware instance.
func NewAuthenticate(tokenService TokenService, contextManager model.ContextManager, logger *logger.Logger) *Authenticate {
	return &Authenticate{tokenService: tokenService, contextManager: contextManager, logger: logger}
}

// AuthFunc validates the bearer token of the call and returns a context carrying its user ID.
func (m *Authenticate) AuthFunc(ctx context.Context) (context.Context, error) {
	token, err := auth.AuthFromMD(ctx, "bearer")
	if err != nil {
		return nil, err
	}
	token = strings.TrimSpace(token)
	if token == "" {
		return nil, status.Error(codes.Unauthenticated, "missing authorization token")
	}

	userID, err := m.tokenService.GetUserID(ctx, token)
	if err != nil || userID == uuid.Nil {
		m.logger.Debug("authentication failed", "error", err)
		return nil, status.Error(codes.Unauthenticated, "invalid authorization token")
	}

	return m.contextManager.SetUserIDToContext(ctx, userID), nil
}
