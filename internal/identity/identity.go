// Package identity is the client side of the external identity provider.
// The provider authenticates users and issues signed tokens; this package
// only verifies tokens and extracts the actor. No credential handling
// happens anywhere in this codebase.
package identity

import (
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/golang-jwt/jwt/v5"

	"github.com/milad-sol/task-manager/internal/authz"
)

var (
	ErrMissingToken = errors.New("identity: missing bearer token")
	ErrInvalidToken = errors.New("identity: invalid token")
)

// Principal is an authenticated identity: the actor plus the profile claims
// the provider chose to share.
type Principal struct {
	Actor    authz.Actor
	Username string
	Email    string
}

// Authenticator resolves the principal behind a request.
type Authenticator interface {
	Authenticate(r *http.Request) (Principal, error)
}

// JWTAuthenticator verifies HMAC-signed bearer tokens minted by the
// identity service. The subject claim carries the user id; a "superuser"
// claim marks administrative principals.
type JWTAuthenticator struct {
	secret []byte
	issuer string
}

// NewJWTAuthenticator creates an authenticator for tokens signed with the
// shared secret by the given issuer.
func NewJWTAuthenticator(secret, issuer string) *JWTAuthenticator {
	return &JWTAuthenticator{secret: []byte(secret), issuer: issuer}
}

// Authenticate extracts and verifies the bearer token from the request.
func (a *JWTAuthenticator) Authenticate(r *http.Request) (Principal, error) {
	authHeader := r.Header.Get("Authorization")
	if authHeader == "" {
		return Principal{}, ErrMissingToken
	}
	if !strings.HasPrefix(authHeader, "Bearer ") {
		return Principal{}, ErrInvalidToken
	}
	tokenStr := strings.TrimPrefix(authHeader, "Bearer ")

	token, err := jwt.Parse(tokenStr, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, jwt.ErrSignatureInvalid
		}
		return a.secret, nil
	}, jwt.WithIssuer(a.issuer), jwt.WithExpirationRequired())
	if err != nil || !token.Valid {
		return Principal{}, ErrInvalidToken
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return Principal{}, ErrInvalidToken
	}

	sub, err := claims.GetSubject()
	if err != nil || sub == "" {
		return Principal{}, ErrInvalidToken
	}
	userID, err := strconv.ParseUint(sub, 10, 64)
	if err != nil || userID == 0 {
		return Principal{}, ErrInvalidToken
	}

	p := Principal{
		Actor: authz.Actor{ID: userID},
	}
	p.Actor.Superuser, _ = claims["superuser"].(bool)
	p.Username, _ = claims["username"].(string)
	p.Email, _ = claims["email"].(string)

	return p, nil
}
