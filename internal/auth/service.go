package auth

import (
	"errors"
	"fmt"

	"github.com/google/uuid"
)

// ErrNoCredential is returned when a request carries no credential at all.
var ErrNoCredential = errors.New("no credential")

// Service is the identity resolver. Every downstream component receives a
// validated Identity from it and never re-validates.
type Service struct {
	jwtConfig *JWTConfig
}

// NewService creates an identity resolver with the given signing config.
func NewService(jwtConfig *JWTConfig) *Service {
	return &Service{jwtConfig: jwtConfig}
}

// Resolve validates a credential and returns the identity it binds.
// An empty token yields ErrNoCredential so callers can distinguish
// "nothing presented" from "presented and rejected".
func (s *Service) Resolve(token string) (Identity, error) {
	if token == "" {
		return Identity{}, ErrNoCredential
	}
	claims, err := ValidateToken(s.jwtConfig, token)
	if err != nil {
		return Identity{}, err
	}
	return Identity{ID: claims.UserID, Name: claims.Name}, nil
}

// Mint creates a fresh identity (random id, random display name) and a
// signed credential for it.
func (s *Service) Mint() (Identity, string, error) {
	identity := Identity{
		ID:   uuid.NewString(),
		Name: randomName(),
	}
	token, err := GenerateToken(s.jwtConfig, identity)
	if err != nil {
		return Identity{}, "", fmt.Errorf("generate token: %w", err)
	}
	return identity, token, nil
}

// TokenTTLSeconds reports the credential lifetime, for cookie max-age.
func (s *Service) TokenTTLSeconds() int {
	return int(s.jwtConfig.TTL.Seconds())
}
