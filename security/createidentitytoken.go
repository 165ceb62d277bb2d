package security

import (
	"encoding/base64"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

type GeoclockIdentity struct {
	Id      int
	Name    string
	Email   string
	IsAdmin bool
}

type Identity struct {
	ID    int    `json:"nameid"`
	Name  string `json:"unique_name"`
	Email string `json:"email"`
	Admin bool   `json:"admin"`
}

// IdentityClaims includes Identity and standard JWT claims
type IdentityClaims struct {
	Identity
	jwt.RegisteredClaims
}

func CreateIdentityToken(identity *GeoclockIdentity, base64Secret string, expiresInSeconds int64) (string, error) {
	secretBytes, err := base64.StdEncoding.DecodeString(base64Secret)
	if err != nil {
		return "", err
	}
	claims := IdentityClaims{
		Identity: Identity{
			ID:    identity.Id,
			Name:  identity.Name,
			Email: identity.Email,
			Admin: identity.IsAdmin,
		},
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    "geoclock",
			Audience:  []string{"geoclock"},
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Duration(expiresInSeconds) * time.Second)),
		},
	}

	// Use HS256 signing method (symmetric key)
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)

	return token.SignedString([]byte(secretBytes))
}
