package server

import (
	"context"
	"net"
	"net/http"

	"github.com/golang-jwt/jwt/v5"
	"github.com/julienschmidt/httprouter"
)

type contextKey string

const userIDKey contextKey = "userID"

// Claims are the JWT claims issued by the identity provider in front of
// this API.
type Claims struct {
	Username string `json:"username"`
	UserID   string `json:"userId"`
	jwt.RegisteredClaims
}

func (s *Server) parseToken(header string) (*Claims, bool) {
	if len(header) < 8 || header[:7] != "Bearer " {
		return nil, false
	}
	claims := &Claims{}
	token, err := jwt.ParseWithClaims(header[7:], claims, func(token *jwt.Token) (any, error) {
		return s.jwtSecret, nil
	})
	if err != nil || !token.Valid || claims.UserID == "" {
		return nil, false
	}
	return claims, true
}

// authenticate rejects requests without a valid bearer token and stores the
// user id in the request context.
func (s *Server) authenticate(next httprouter.Handle) httprouter.Handle {
	return func(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
		claims, ok := s.parseToken(r.Header.Get("Authorization"))
		if !ok {
			writeError(w, http.StatusUnauthorized, "autenticação necessária")
			return
		}
		ctx := context.WithValue(r.Context(), userIDKey, claims.UserID)
		next(w, r.WithContext(ctx), ps)
	}
}

// optionalAuth stores the user id when a valid token is present and proceeds
// either way.
func (s *Server) optionalAuth(next httprouter.Handle) httprouter.Handle {
	return func(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
		if claims, ok := s.parseToken(r.Header.Get("Authorization")); ok {
			r = r.WithContext(context.WithValue(r.Context(), userIDKey, claims.UserID))
		}
		next(w, r, ps)
	}
}

// userID returns the authenticated user id, if any.
func userID(ctx context.Context) (string, bool) {
	id, ok := ctx.Value(userIDKey).(string)
	return id, ok && id != ""
}

// clientID identifies the caller for per-client state: the user id when
// authenticated, the remote address otherwise.
func clientID(r *http.Request) string {
	if id, ok := userID(r.Context()); ok {
		return id
	}
	if host, _, err := net.SplitHostPort(r.RemoteAddr); err == nil {
		return "anon:" + host
	}
	return "anon:" + r.RemoteAddr
}
