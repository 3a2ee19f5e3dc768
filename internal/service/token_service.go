package service

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/dtroode/senderkeys/internal/logger"
	"github.com/dtroode/senderkeys/internal/model"
)

// TokenService issues and resolves backup access tokens.
type TokenService struct {
	manager model.TokenManager
	logger  *logger.Logger
}

func NewTokenService(manager model.TokenManager, logger *logger.Logger) *TokenService {
	return &TokenService{manager: manager, logger: logger}
}

// Issue creates an access token for userID.
func (s *TokenService) Issue(_ context.Context, userID uuid.UUID) (string, error) {
	if userID == uuid.Nil {
		return "", fmt.Errorf("issue access: %w", model.ErrInvalidToken)
	}
	access, err := s.manager.GenerateAccessToken(userID)
	if err != nil {
		return "", fmt.Errorf("issue access: %w", err)
	}
	return access, nil
}

func (s *TokenService) GetUserID(_ context.Context, token string) (uuid.UUID, error) {
	userID, err := s.manager.ParseAccessToken(token)
	if err != nil {
		s.logger.Debug("rejected access token", "error", err)
		return uuid.Nil, err
	}
	return userID, nil
}
