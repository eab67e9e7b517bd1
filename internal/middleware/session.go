package middleware

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/jwtauth/v5"
	"github.com/lestrrat-go/jwx/v2/jwt"

	"github.com/edu-maass/comissions-dashboard/internal/domain"
)

// Session token claims.
const (
	ClaimName    = "name"
	ClaimIsAdmin = "is_admin"
)

type actorKey struct{}

// NewTokenAuth returns the HS256 signer/verifier for session tokens.
func NewTokenAuth(secret string) *jwtauth.JWTAuth {
	return jwtauth.New("HS256", []byte(secret), nil, jwt.WithAcceptableSkew(30*time.Second))
}

// IssueToken mints a session token for actor that expires after ttl.
func IssueToken(ja *jwtauth.JWTAuth, actor domain.Actor, ttl time.Duration) (string, error) {
	claims := map[string]any{
		ClaimName:    actor.Name,
		ClaimIsAdmin: actor.IsAdmin,
	}
	jwtauth.SetIssuedNow(claims)
	jwtauth.SetExpiryIn(claims, ttl)
	_, token, err := ja.Encode(claims)
	return token, err
}

// NewSession returns a middleware that verifies the bearer token of every
// request and stores the session's domain.Actor in the request context.
// Requests without a valid token, or whose token names nobody, get 401.
func NewSession(ja *jwtauth.JWTAuth) func(http.Handler) http.Handler {
	verify := jwtauth.Verifier(ja)
	return func(next http.Handler) http.Handler {
		return verify(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			_, claims, err := jwtauth.FromContext(r.Context())
			if err != nil {
				msg := "invalid session token"
				if errors.Is(err, jwtauth.ErrNoTokenFound) {
					msg = "missing session token"
				}
				writeError(w, http.StatusUnauthorized, "unauthorized", msg)
				return
			}

			name, _ := claims[ClaimName].(string)
			name = strings.TrimSpace(name)
			if name == "" {
				writeError(w, http.StatusUnauthorized, "unauthorized", "session token has no name")
				return
			}
			isAdmin, _ := claims[ClaimIsAdmin].(bool)

			ctx := WithActor(r.Context(), domain.Actor{Name: name, IsAdmin: isAdmin})
			next.ServeHTTP(w, r.WithContext(ctx))
		}))
	}
}

// WithActor returns a copy of ctx carrying actor.
func WithActor(ctx context.Context, actor domain.Actor) context.Context {
	return context.WithValue(ctx, actorKey{}, actor)
}

// ActorFromContext returns the session actor, or the zero Actor when the
// request did not pass through NewSession.
func ActorFromContext(ctx context.Context) domain.Actor {
	a, _ := ctx.Value(actorKey{}).(domain.Actor)
	return a
}

// writeError writes the API's JSON error envelope.
func writeError(w http.ResponseWriter, status int, code, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	//nolint:errcheck // the status line is already out.
	json.NewEncoder(w).Encode(map[string]any{
		"error": map[string]string{"code": code, "message": message},
	})
}
