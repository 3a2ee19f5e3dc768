package token

import (
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"github.com/dtroode/senderkeys/internal/model"
)

const (
	// DefaultTTL is the lifetime of an access token when none is configured.
	DefaultTTL = 15 * time.Minute

	issuer     = "senderkeys"
	typeAccess = "access"
)

// Claims represents JWT claims of a backup access token.
type Claims struct {
	jwt.RegisteredClaims
	UserID    uuid.UUID `json:"user_id"`
	TokenType string    `json:"typ"`
}

var _ model.TokenManager = (*JWT)(nil)

// JWT implements TokenManager backed by symmetric HMAC.
type JWT struct {
	secretKey []byte
	ttl       time.Duration
	now       func() time.Time
}

// NewJWT creates a token manager signing with secretKey.
func NewJWT(secretKey string, ttl time.Duration) *JWT {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	return &JWT{secretKey: []byte(secretKey), ttl: ttl, now: time.Now}
}

// GenerateAccessToken creates an access token for userID.
func (j *JWT) GenerateAccessToken(userID uuid.UUID) (string, error) {
	now := j.now()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    issuer,
			Subject:   userID.String(),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(j.ttl)),
		},
		UserID:    userID,
		TokenType: typeAccess,
	})

	signed, err := token.SignedString(j.secretKey)
	if err != nil {
		return "", fmt.Errorf("failed to sign access token: %w", err)
	}

	return signed, nil
}

// ParseAccessToken validates tokenString and returns its user id.
func (j *JWT) ParseAccessToken(tokenString string) (uuid.UUID, error) {
	claims := &Claims{}
	_, err := jwt.ParseWithClaims(tokenString, claims, func(*jwt.Token) (any, error) {
		return j.secretKey, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithIssuer(issuer),
		jwt.WithTimeFunc(j.now),
	)
	if err != nil {
		return uuid.Nil, fmt.Errorf("%w: %w", model.ErrInvalidToken, err)
	}
	if claims.TokenType != typeAccess {
		return uuid.Nil, fmt.Errorf("%w: unexpected token type %q", model.ErrInvalidToken, claims.TokenType)
	}
	if claims.UserID == uuid.Nil {
		return uuid.Nil, fmt.Errorf("%w: missing user id", model.ErrInvalidToken)
	}
	return claims.UserID, nil
}
