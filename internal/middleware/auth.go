package middleware

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	jwtlib "github.com/golang-jwt/jwt/v5"
	"go.uber.org/zap"
)

type ctxKey int

const actorKey ctxKey = 0

// Actor is the authenticated caller identity resolved from a bearer token.
type Actor struct {
	ID   string
	Name string
}

type claims struct {
	jwtlib.RegisteredClaims
	Name string `json:"name"`
}

// Auth verifies HS256 bearer tokens and injects the caller identity into
// the request context. Token issuance lives elsewhere; this middleware only
// consumes tokens.
type Auth struct {
	secret []byte
	logger *zap.Logger
}

func NewAuth(secret string, logger *zap.Logger) *Auth {
	return &Auth{
		secret: []byte(secret),
		logger: logger,
	}
}

func (a *Auth) RequireAuth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		header := r.Header.Get("Authorization")
		token, ok := strings.CutPrefix(header, "Bearer ")
		if !ok || token == "" {
			a.unauthorized(w, "missing bearer token")
			return
		}

		actor, err := a.parseToken(token)
		if err != nil {
			a.logger.Debug("token rejected", zap.Error(err))
			a.unauthorized(w, "invalid or expired token")
			return
		}

		next.ServeHTTP(w, r.WithContext(WithActor(r.Context(), actor)))
	})
}

func (a *Auth) parseToken(tokenStr string) (Actor, error) {
	c := &claims{}
	token, err := jwtlib.ParseWithClaims(tokenStr, c, func(t *jwtlib.Token) (any, error) {
		if _, ok := t.Method.(*jwtlib.SigningMethodHMAC); !ok {
			return nil, errors.New("unexpected signing method")
		}
		return a.secret, nil
	}, jwtlib.WithValidMethods([]string{"HS256"}))
	if err != nil || !token.Valid {
		return Actor{}, errors.New("invalid or expired token")
	}

	sub, err := c.GetSubject()
	if err != nil || sub == "" {
		return Actor{}, errors.New("token has no subject")
	}

	return Actor{ID: sub, Name: c.Name}, nil
}

func (a *Auth) unauthorized(w http.ResponseWriter, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusUnauthorized)
	_ = json.NewEncoder(w).Encode(map[string]string{"message": message})
}

func WithActor(ctx context.Context, actor Actor) context.Context {
	return context.WithValue(ctx, actorKey, actor)
}

func ActorFromContext(ctx context.Context) (Actor, bool) {
	actor, ok := ctx.Value(actorKey).(Actor)
	return actor, ok
}
