package identity

import (
	"fmt"

	courier_errors "courier-chat/pkg/errors"

	"github.com/golang-jwt/jwt/v5"
)

// Verifier is the consuming edge of the identity provider: it turns a bearer
// token into the authenticated user id. Issuing tokens is not this system's
// job.
type Verifier interface {
	Verify(token string) (userID string, err error)
}

type Claims struct {
	UserID string `json:"user_id"`
	jwt.RegisteredClaims
}

type JWTVerifier struct {
	secret []byte
}

func NewJWTVerifier(secret string) *JWTVerifier {
	return &JWTVerifier{secret: []byte(secret)}
}

func (v *JWTVerifier) Verify(tokenString string) (string, error) {
	if tokenString == "" {
		return "", courier_errors.ErrUnauthenticated
	}

	claims := &Claims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return v.secret, nil
	})
	if err != nil || !token.Valid {
		return "", courier_errors.ErrUnauthenticated
	}

	userID := claims.UserID
	if userID == "" {
		userID = claims.Subject
	}
	if userID == "" {
		return "", courier_errors.ErrUnauthenticated
	}
	return userID, nil
}
