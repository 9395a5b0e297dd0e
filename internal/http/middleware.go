package http

import (
	"context"
	"net/http"
	"strings"

	"github.com/AlvaroPereir4/FinScope/internal/auth"
)

type ctxKey string

const (
	requestIDKey ctxKey = "request_id"
	ownerKey     ctxKey = "owner"
)

// protect requires a valid bearer token and puts the authenticated
// owner into the request context.
func (s *Server) protect(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		header := r.Header.Get("Authorization")
		token, ok := strings.CutPrefix(header, "Bearer ")
		if !ok || token == "" {
			writeError(w, r, auth.ErrMissingToken)
			return
		}

		claims, err := s.auth.Authenticate(token)
		if err != nil {
			writeError(w, r, err)
			return
		}

		ctx := context.WithValue(r.Context(), ownerKey, claims.Owner)
		next(w, r.WithContext(ctx))
	}
}

// ownerFrom returns the authenticated owner set by protect. Handlers
// are only reachable through protect, so a missing value is a
// programming error and yields the empty owner, which matches nothing.
func ownerFrom(r *http.Request) string {
	owner, _ := r.Context().Value(ownerKey).(string)
	return owner
}
