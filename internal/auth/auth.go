// Package auth issues and verifies the session tokens that carry a
// user's identity across stateless requests.
package auth

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/devfolio/apiserver/internal/store"
	"github.com/devfolio/apiserver/types"
	"github.com/golang-jwt/jwt/v5"
)

// Verification failures, each mapped to a distinct error code at the
// HTTP boundary.
var (
	// ErrTokenMissing means no token was presented.
	ErrTokenMissing = errors.New("auth token missing")
	// ErrTokenInvalid means the token failed signature, format, or
	// expiry checks.
	ErrTokenInvalid = errors.New("auth token invalid")
	// ErrUserNotFound means the token verified but its subject no
	// longer exists in the store.
	ErrUserNotFound = errors.New("auth user not found")
)

// UserSource provides the minimal identity lookup the verifier needs.
type UserSource interface {
	GetByID(ctx context.Context, id string) (types.User, error)
}

// Authenticator binds identities to signed, time-limited bearer tokens.
// There is no refresh or revocation flow; expiry is the only lifecycle
// bound, and deletions/role changes take effect because Verify re-reads
// the user row instead of trusting the token body.
type Authenticator struct {
	users  UserSource
	secret []byte
	ttl    time.Duration
}

// DefaultTTL is the token lifetime used when config provides none.
const DefaultTTL = 7 * 24 * time.Hour

func NewAuthenticator(users UserSource, secret string, ttl time.Duration) *Authenticator {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	return &Authenticator{
		users:  users,
		secret: []byte(secret),
		ttl:    ttl,
	}
}

type claims struct {
	Email string `json:"email"`
	Role  string `json:"role"`
	jwt.RegisteredClaims
}

// Issue signs a token for the given user.
func (a *Authenticator) Issue(user types.User) (string, error) {
	now := time.Now()
	c := claims{
		Email: user.Email,
		Role:  user.Role,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   user.ID,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(a.ttl)),
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, c)
	return token.SignedString(a.secret)
}

// Verify checks the token and returns the acting identity. The email
// and role come from the store, not the token, so stale claims are
// never trusted.
func (a *Authenticator) Verify(ctx context.Context, tokenString string) (types.Actor, error) {
	c := claims{}
	token, err := jwt.ParseWithClaims(tokenString, &c, func(token *jwt.Token) (any, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errors.New("invalid signing method")
		}
		return a.secret, nil
	})
	if err != nil || !token.Valid {
		return types.Actor{}, ErrTokenInvalid
	}
	if strings.TrimSpace(c.Subject) == "" {
		return types.Actor{}, ErrTokenInvalid
	}

	user, err := a.users.GetByID(ctx, c.Subject)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return types.Actor{}, ErrUserNotFound
		}
		return types.Actor{}, err
	}

	return types.Actor{
		ID:    user.ID,
		Email: user.Email,
		Role:  user.Role,
	}, nil
}

type contextKey struct{}

// WithActor stores the verified actor on the context.
func WithActor(ctx context.Context, actor types.Actor) context.Context {
	return context.WithValue(ctx, contextKey{}, actor)
}

// ActorFromContext returns the actor placed on the context by the auth
// middleware.
func ActorFromContext(ctx context.Context) (types.Actor, bool) {
	actor, ok := ctx.Value(contextKey{}).(types.Actor)
	return actor, ok
}
