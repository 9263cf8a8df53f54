package middleware

import (
	"context"
	"net/http"
	"strings"

	"github.com/sirupsen/logrus"

	"github.com/vancomm/minesweeper/internal/config"
)

type CtxKey int

const (
	CtxSessionClaims CtxKey = iota
)

// bearerToken reads the token from the Authorization header, or from the
// token query parameter for clients that cannot set headers (browsers opening
// a websocket).
func bearerToken(r *http.Request) (string, bool) {
	if header := r.Header.Get("Authorization"); header != "" {
		token, ok := strings.CutPrefix(header, "Bearer ")
		return strings.TrimSpace(token), ok
	}
	if token := r.URL.Query().Get("token"); token != "" {
		return token, true
	}
	return "", false
}

// Auth puts the session claims of a valid bearer token into the request
// context. Requests without a token pass through untouched; a malformed or
// invalid token is rejected.
func Auth(log *logrus.Logger, j *config.JWT) Middleware {
	return func(h http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token, ok := bearerToken(r)
			if !ok && r.Header.Get("Authorization") == "" {
				h.ServeHTTP(w, r)
				return
			}
			claims, err := j.Parse(token)
			if !ok || err != nil {
				log.WithError(err).Debug("rejected bearer token")
				w.Header().Set("WWW-Authenticate", "Bearer")
				w.WriteHeader(http.StatusUnauthorized)
				return
			}
			ctx := context.WithValue(r.Context(), CtxSessionClaims, claims)
			h.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

func SessionClaims(ctx context.Context) (*config.SessionClaims, bool) {
	claims, ok := ctx.Value(CtxSessionClaims).(*config.SessionClaims)
	return claims, ok
}
