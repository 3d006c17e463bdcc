package service

import (
	"context"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"invoicecheck/internal/config"
	"invoicecheck/internal/domain"
)

const accessAudience = "access"

// Claims represents the JWT claims of an API client.
type Claims struct {
	jwt.RegisteredClaims
	ClientID string `json:"client_id"`
}

// TokenInput is the DTO for client-credential token requests.
type TokenInput struct {
	ClientID     string `json:"client_id" binding:"required"`
	ClientSecret string `json:"client_secret" binding:"required"`
}

// Token is an issued access token.
type Token struct {
	AccessToken string    `json:"access_token"`
	TokenType   string    `json:"token_type"`
	ExpiresAt   time.Time `json:"expires_at"`
}

// AuthService defines the authentication contract.
type AuthService interface {
	IssueToken(ctx context.Context, input TokenInput) (*Token, error)
	ValidateToken(tokenString string) (*Claims, error)
}

type authService struct {
	clients map[string]string
	cfg     config.JWTConfig
}

// NewAuthService creates a new AuthService over bcrypt-hashed client
// secrets keyed by client id.
func NewAuthService(clients map[string]string, cfg config.JWTConfig) AuthService {
	return &authService{
		clients: clients,
		cfg:     cfg,
	}
}

func (s *authService) IssueToken(_ context.Context, input TokenInput) (*Token, error) {
	hash, ok := s.clients[input.ClientID]
	if !ok {
		return nil, domain.ErrInvalidCredentials
	}
	if err := bcrypt.CompareHashAndPassword([]byte(hash), []byte(input.ClientSecret)); err != nil {
		return nil, domain.ErrInvalidCredentials
	}

	now := time.Now()
	expiresAt := now.Add(s.cfg.AccessTokenExpiry)
	claims := &Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   input.ClientID,
			Issuer:    s.cfg.Issuer,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(expiresAt),
			ID:        uuid.New().String(),
			Audience:  jwt.ClaimStrings{accessAudience},
		},
		ClientID: input.ClientID,
	}

	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(s.cfg.Secret))
	if err != nil {
		return nil, fmt.Errorf("signing access token: %w", err)
	}
	return &Token{AccessToken: signed, TokenType: "Bearer", ExpiresAt: expiresAt}, nil
}

func (s *authService) ValidateToken(tokenString string) (*Claims, error) {
	claims := &Claims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return []byte(s.cfg.Secret), nil
	}, jwt.WithAudience(accessAudience))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrUnauthorized, err)
	}
	if !token.Valid {
		return nil, domain.ErrUnauthorized
	}
	if _, ok := s.clients[claims.ClientID]; !ok {
		return nil, domain.ErrUnauthorized
	}
	return claims, nil
}
