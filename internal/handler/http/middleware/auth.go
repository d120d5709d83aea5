package middleware

import (
	"net/http"

	"github.com/cmlabs-hris/planilla-portal-go/internal/domain/auth"
	"github.com/cmlabs-hris/planilla-portal-go/internal/domain/session"
	"github.com/cmlabs-hris/planilla-portal-go/internal/handler/http/response"
	"github.com/cmlabs-hris/planilla-portal-go/internal/pkg/jwt"
	"github.com/go-chi/jwtauth/v5"
)

// AuthRequired accepts verified, unrevoked access tokens and puts the caller's
// session.Session in the request context. It must run after jwtauth.Verifier.
func AuthRequired(jwtService jwt.Service) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		hfn := func(w http.ResponseWriter, r *http.Request) {
			token, claims, err := jwtauth.FromContext(r.Context())

			if err != nil {
				response.Unauthorized(w, err.Error())
				return
			}

			if token == nil {
				response.HandleError(w, auth.ErrInvalidToken)
				return
			}

			tokenType, ok := claims["type"].(string)
			if tokenType != jwt.TokenTypeAccess || !ok {
				response.HandleError(w, auth.ErrInvalidToken)
				return
			}

			raw := jwtauth.TokenFromHeader(r)
			if raw == "" || jwtService.IsTokenRevoked(raw) {
				response.HandleError(w, auth.ErrTokenRevoked)
				return
			}

			s, err := session.FromClaims(raw, claims)
			if err != nil {
				response.HandleError(w, auth.ErrInvalidToken)
				return
			}

			next.ServeHTTP(w, r.WithContext(session.NewContext(r.Context(), s)))
		}
		return http.HandlerFunc(hfn)
	}
}

// SSETokenRequired authenticates the event stream from the token query
// parameter issued by jwt.Service.GenerateSSEToken.
func SSETokenRequired(jwtService jwt.Service) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			raw := r.URL.Query().Get("token")
			if raw == "" {
				response.HandleError(w, auth.ErrInvalidToken)
				return
			}

			s, err := jwtService.ValidateSSEToken(raw)
			if err != nil {
				response.HandleError(w, auth.ErrInvalidToken)
				return
			}

			next.ServeHTTP(w, r.WithContext(session.NewContext(r.Context(), s)))
		})
	}
}
