package http

import (
	"net/http"
	"time"

	"github.com/cmlabs-hris/planilla-portal-go/internal/domain/auth"
	"github.com/cmlabs-hris/planilla-portal-go/internal/domain/session"
	"github.com/cmlabs-hris/planilla-portal-go/internal/handler/http/response"
	"github.com/cmlabs-hris/planilla-portal-go/internal/pkg/jwt"
	"github.com/go-chi/jwtauth/v5"
)

type AuthHandler interface {
	Session(w http.ResponseWriter, r *http.Request)
	Logout(w http.ResponseWriter, r *http.Request)
}

type AuthHandlerImpl struct {
	jwtService jwt.Service
}

func NewAuthHandler(jwtService jwt.Service) AuthHandler {
	return &AuthHandlerImpl{jwtService: jwtService}
}

// Session implements AuthHandler.
func (a *AuthHandlerImpl) Session(w http.ResponseWriter, r *http.Request) {
	s, err := session.FromContext(r.Context())
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, auth.ToSessionResponse(s))
}

// Logout implements AuthHandler. The token is refused from now on.
func (a *AuthHandlerImpl) Logout(w http.ResponseWriter, r *http.Request) {
	s, err := session.FromContext(r.Context())
	if err != nil {
		response.HandleError(w, err)
		return
	}

	var expiresAt time.Time
	if token, _, err := jwtauth.FromContext(r.Context()); err == nil && token != nil {
		expiresAt = token.Expiration()
	}

	a.jwtService.RevokeToken(s.Token, expiresAt)

	response.SuccessWithMessage(w, "Logout successful", nil)
}
