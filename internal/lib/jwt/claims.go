// Package jwt implements generation and parsing of JWT tokens with the
// custom claim fields used across the service.
//
// Maker defines the interface for creating and verifying tokens carrying
// the user uid, phone, role and organization; MakerImpl is the concrete
// implementation backed by an HS256 secret key and a TTL.
package jwt

import (
	"time"
)

// Maker describes the interface for generating and parsing JWT tokens.
type Maker interface {
	// GenerateToken creates a signed token for the given user identity.
	GenerateToken(uid, phone, role, orgID string) (string, error)
	// ParseToken verifies a token and returns its custom claims.
	ParseToken(tokenStr string) (*CustomClaims, error)
}

// MakerImpl implements Maker using a secret key and a token TTL.
type MakerImpl struct {
	secretKey string        // Secret key used to sign tokens.
	tokenTTL  time.Duration // Token lifetime.
}

// NewJWTMaker creates a new MakerImpl from a secret key and TTL.
func NewJWTMaker(secretKey string, ttl time.Duration) *MakerImpl {
	return &MakerImpl{
		secretKey: secretKey,
		tokenTTL:  ttl,
	}
}
