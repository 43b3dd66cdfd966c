package middleware

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"strings"

	h "campusconnect/internal/delivery/http/helpers"
	"campusconnect/internal/domain"
)

type contextKey string

const actorKey contextKey = "actor"

// ActorResolver loads the actor behind a verified user ID.
type ActorResolver interface {
	ResolveActor(ctx context.Context, userID string) (*domain.Actor, error)
}

// SetActor returns a context carrying the signed-in actor.
func SetActor(ctx context.Context, actor *domain.Actor) context.Context {
	return context.WithValue(ctx, actorKey, actor)
}

// ActorFromContext returns the signed-in actor, or nil when the request is anonymous.
func ActorFromContext(ctx context.Context) *domain.Actor {
	a, _ := ctx.Value(actorKey).(*domain.Actor)
	return a
}

var (
	errMissingHeader = errors.New("missing authorization header")
	errBadFormat     = errors.New("invalid authorization format")
	errMissingToken  = errors.New("missing token")
	errBadToken      = errors.New("invalid or expired token")
)

func bearerToken(r *http.Request) (string, error) {
	auth := r.Header.Get("Authorization")
	if auth == "" {
		return "", errMissingHeader
	}
	const prefix = "Bearer "
	if !strings.HasPrefix(auth, prefix) {
		return "", errBadFormat
	}
	token := strings.TrimSpace(auth[len(prefix):])
	if token == "" {
		return "", errMissingToken
	}
	return token, nil
}

func authenticate(r *http.Request, verifier domain.TokenVerifier, resolver ActorResolver) (*domain.Actor, error) {
	token, err := bearerToken(r)
	if err != nil {
		return nil, err
	}
	userID, err := verifier.Verify(token)
	if err != nil {
		return nil, errBadToken
	}
	return resolver.ResolveActor(r.Context(), userID)
}

// RequireAuth returns a wrapper that validates the Bearer token, loads the actor and
// stores it in the request context. If the token is missing or invalid, it responds
// with 401 and does not call next.
func RequireAuth(verifier domain.TokenVerifier, resolver ActorResolver, logger *slog.Logger) func(http.HandlerFunc) http.HandlerFunc {
	return func(next http.HandlerFunc) http.HandlerFunc {
		return func(w http.ResponseWriter, r *http.Request) {
			actor, err := authenticate(r, verifier, resolver)
			switch {
			case err == nil:
			case errors.Is(err, domain.ErrUnauthenticated),
				errors.Is(err, errMissingHeader), errors.Is(err, errBadFormat),
				errors.Is(err, errMissingToken), errors.Is(err, errBadToken):
				h.WriteJSONError(w, http.StatusUnauthorized, h.ErrCodeUnauthorized, err.Error())
				return
			default:
				logger.ErrorContext(r.Context(), "resolve actor", "path", r.URL.Path, "err", err)
				h.WriteJSONError(w, http.StatusInternalServerError, h.ErrCodeInternalError, "internal server error")
				return
			}
			next(w, r.WithContext(SetActor(r.Context(), actor)))
		}
	}
}

// OptionalAuth stores the actor when a valid token is present and otherwise lets the
// request through anonymously.
func OptionalAuth(verifier domain.TokenVerifier, resolver ActorResolver, logger *slog.Logger) func(http.HandlerFunc) http.HandlerFunc {
	return func(next http.HandlerFunc) http.HandlerFunc {
		return func(w http.ResponseWriter, r *http.Request) {
			if r.Header.Get("Authorization") == "" {
				next(w, r)
				return
			}
			actor, err := authenticate(r, verifier, resolver)
			if err != nil {
				logger.DebugContext(r.Context(), "ignoring credentials", "path", r.URL.Path, "err", err)
				next(w, r)
				return
			}
			next(w, r.WithContext(SetActor(r.Context(), actor)))
		}
	}
}
