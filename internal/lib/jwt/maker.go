package jwt

import (
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// CustomClaims describes the user data stored inside a token.
type CustomClaims struct {
	UID                  string `json:"uid"`   // User uid
	Phone                string `json:"phone"` // Login phone number
	Role                 string `json:"role"`  // "user" or "admin"
	OrgID                string `json:"org"`   // Organization id
	jwt.RegisteredClaims        // Standard JWT claims (ExpiresAt, IssuedAt, ...)
}

// GenerateToken creates a JWT with the given identity claims signed with
// the secret key. The token lifetime is the maker's tokenTTL.
func (j *MakerImpl) GenerateToken(uid, phone, role, orgID string) (string, error) {
	claims := CustomClaims{
		UID:   uid,
		Phone: phone,
		Role:  role,
		OrgID: orgID,
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt:  jwt.NewNumericDate(time.Now()),
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(j.tokenTTL)),
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(j.secretKey))
}

// ParseToken parses a JWT, checks its signature and validity and returns
// the CustomClaims when the token is correct.
func (j *MakerImpl) ParseToken(tokenStr string) (*CustomClaims, error) {
	const op = "jwt.ParseToken"
	token, err := jwt.ParseWithClaims(tokenStr, &CustomClaims{}, func(_ *jwt.Token) (any, error) {
		return []byte(j.secretKey), nil
	})
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	claims, ok := token.Claims.(*CustomClaims)
	if !ok || !token.Valid {
		return nil, fmt.Errorf("%s: invalid token", op)
	}
	return claims, nil
}
