package middleware

import (
	"net/http"

	"github.com/cmlabs-hris/planilla-portal-go/internal/domain/auth"
	"github.com/cmlabs-hris/planilla-portal-go/internal/domain/session"
	"github.com/cmlabs-hris/planilla-portal-go/internal/handler/http/response"
)

// RequireManager requires manager or admin role. The upstream API still
// authorizes every call; this only keeps employees off the admin screens.
func RequireManager(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		s, err := session.FromContext(r.Context())
		if err != nil {
			response.HandleError(w, auth.ErrInvalidToken)
			return
		}

		if !s.IsAdmin() {
			response.HandleError(w, auth.ErrRoleRequired)
			return
		}

		next.ServeHTTP(w, r)
	})
}

// RequireEmployee requires a session linked to an employee record.
func RequireEmployee(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		s, err := session.FromContext(r.Context())
		if err != nil {
			response.HandleError(w, auth.ErrInvalidToken)
			return
		}

		if !s.HasEmployee() {
			response.HandleError(w, session.ErrMissingEmployeeID)
			return
		}

		next.ServeHTTP(w, r)
	})
}
