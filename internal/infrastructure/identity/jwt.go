package identity

import (
	"errors"

	"github.com/golang-jwt/jwt/v5"
)

type Claims struct {
	UserID string `json:"user_id"`
	jwt.RegisteredClaims
}

// JWTProvider verifies HS256 access tokens issued by the identity service.
type JWTProvider struct {
	secret []byte
}

func NewJWTProvider(secret string) *JWTProvider {
	return &JWTProvider{
		secret: []byte(secret),
	}
}

func (p *JWTProvider) Resolve(credential string) (string, error) {
	token, err := jwt.ParseWithClaims(credential, &Claims{}, func(t *jwt.Token) (any, error) {
		return p.secret, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
	if err != nil {
		switch {
		case errors.Is(err, jwt.ErrTokenNotValidYet):
			return "", ErrTokenInvalid
		case errors.Is(err, jwt.ErrTokenExpired):
			return "", ErrTokenExpired
		default:
			return "", ErrTokenParseFailure
		}
	}
	if !token.Valid {
		return "", ErrTokenParseFailure
	}

	claims := token.Claims.(*Claims)

	userID := claims.UserID
	if userID == "" {
		userID = claims.Subject
	}
	if userID == "" {
		return "", ErrTokenInvalid
	}

	return userID, nil
}

// StaticProvider maps credentials to user IDs directly. Used in tests and
// local development where no identity service is running.
type StaticProvider struct {
	users map[string]string
}

func NewStaticProvider(users map[string]string) *StaticProvider {
	return &StaticProvider{users: users}
}

func (p *StaticProvider) Resolve(credential string) (string, error) {
	userID, ok := p.users[credential]
	if !ok {
		return "", ErrTokenInvalid
	}
	return userID, nil
}
