package session

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// ErrInvalidToken is returned when a bearer token fails parsing or validation.
var ErrInvalidToken = errors.New("session: invalid token")

// Claims are the JWT claims issued by the platform's user service.
type Claims struct {
	jwt.RegisteredClaims
	Role string `json:"role"`
}

// ParseToken validates an HMAC-signed bearer token and returns the session
// it represents. The raw token is kept on the session so gateway calls can
// forward it upstream unchanged.
func ParseToken(tokenString, secret string) (Session, error) {
	if secret == "" {
		return Session{}, ErrInvalidToken
	}
	claims := &Claims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (any, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, jwt.ErrSignatureInvalid
		}
		return []byte(secret), nil
	}, jwt.WithExpirationRequired())
	if err != nil || !token.Valid {
		return Session{}, ErrInvalidToken
	}
	if claims.Subject == "" {
		return Session{}, ErrInvalidToken
	}
	return Session{
		UserID: claims.Subject,
		Role:   Role(claims.Role),
		Token:  tokenString,
	}, nil
}

// IssueToken mints a session token. Used by tests and local tooling; real
// deployments receive tokens from the user service.
func IssueToken(userID string, role Role, secret string, ttl time.Duration) (string, error) {
	now := time.Now()
	claims := Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   userID,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		},
		Role: string(role),
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(secret))
}
