package auth

import (
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/pkg/errors"
)

const issuer = "relay-server"

// Claims defines the data stored inside a relay auth token.
type Claims struct {
	Username string `json:"username"`
	jwt.RegisteredClaims
}

// TokenAuthenticator validates HS256 signed tokens issued for a username by an
// external login service sharing our secret.
type TokenAuthenticator struct {
	secret []byte
}

// NewTokenAuthenticator creates an authenticator around the passed in shared secret.
func NewTokenAuthenticator(secret string) *TokenAuthenticator {
	return &TokenAuthenticator{secret: []byte(secret)}
}

// Generate creates a signed token for the passed in username, used by tests and local
// tooling, issuing for real users is the login service's job.
func (a *TokenAuthenticator) Generate(username string, ttl time.Duration) (string, error) {
	claims := &Claims{
		Username: username,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(ttl)),
			IssuedAt:  jwt.NewNumericDate(time.Now()),
			Issuer:    issuer,
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(a.secret)
}

// Authenticate parses and validates the signature and expiration of a token, returning
// the username it was issued for.
func (a *TokenAuthenticator) Authenticate(tokenString string) (string, error) {
	token, err := jwt.ParseWithClaims(tokenString, &Claims{}, func(token *jwt.Token) (interface{}, error) {
		return a.secret, nil
	})
	if err != nil {
		return "", errors.Wrap(err, "unable to parse auth token")
	}

	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid {
		return "", errors.WithStack(jwt.ErrSignatureInvalid)
	}
	if claims.Username == "" {
		return "", errors.New("auth token has no username")
	}
	return claims.Username, nil
}
