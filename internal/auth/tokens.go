// Package auth provides credential verification, password hashing, and id
// generation for the application.
package auth

import (
	"fmt"
	"time"

	"ripple/internal/models"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

const (
	tokenIssuer   = "ripple-api"
	tokenAudience = "ripple-client"
)

// TokenVerifier validates an opaque credential token and yields the caller
// identity, or an authentication error.
type TokenVerifier interface {
	Verify(token string) (*models.AuthPayload, error)
}

// TokenIssuer signs a credential token for the given identity.
type TokenIssuer interface {
	Issue(payload models.AuthPayload) (string, error)
}

// TokenManager issues and verifies HMAC-signed JWTs carrying the caller's
// id, display name, and role.
type TokenManager struct {
	secret []byte
	ttl    time.Duration
}

// NewTokenManager returns a TokenManager signing with the given secret.
func NewTokenManager(secret string, ttl time.Duration) *TokenManager {
	return &TokenManager{secret: []byte(secret), ttl: ttl}
}

// Issue creates a signed JWT for the given payload.
func (m *TokenManager) Issue(payload models.AuthPayload) (string, error) {
	if len(m.secret) == 0 {
		return "", fmt.Errorf("JWT secret not configured")
	}

	now := time.Now()
	claims := jwt.MapClaims{
		"sub":  payload.ID,
		"name": payload.Name,
		"role": string(payload.Role),
		"iss":  tokenIssuer,
		"aud":  tokenAudience,
		"exp":  now.Add(m.ttl).Unix(),
		"iat":  now.Unix(),
		"nbf":  now.Unix(),
		"jti":  generateJTI(),
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(m.secret)
}

// Verify parses and validates a token, returning the caller identity.
// Every failure surfaces as an authentication error.
func (m *TokenManager) Verify(tokenString string) (*models.AuthPayload, error) {
	if tokenString == "" {
		return nil, models.NewAuthenticationError("Credential token required")
	}

	token, err := jwt.Parse(tokenString, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method %q", token.Method.Alg())
		}
		return m.secret, nil
	})
	if err != nil || !token.Valid {
		return nil, models.NewAuthenticationError("Invalid or expired token")
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return nil, models.NewAuthenticationError("Invalid token claims")
	}

	sub, ok := claims["sub"].(string)
	if !ok || sub == "" {
		return nil, models.NewAuthenticationError("Invalid token structure - missing subject")
	}
	name, _ := claims["name"].(string)
	roleStr, _ := claims["role"].(string)

	role := models.Role(roleStr)
	if role != models.RoleNormal && role != models.RoleAdmin {
		return nil, models.NewAuthenticationError("Invalid role in token")
	}

	return &models.AuthPayload{ID: sub, Name: name, Role: role}, nil
}

// generateJTI creates a unique JWT ID to prevent replay attacks
func generateJTI() string {
	return fmt.Sprintf("%d-%s", time.Now().Unix(), uuid.New().String()[:8])
}
