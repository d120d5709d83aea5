package auth

import "github.com/cmlabs-hris/planilla-portal-go/internal/domain/session"

// SessionResponse describes the caller of the portal.
type SessionResponse struct {
	UserID     string       `json:"user_id"`
	EmployeeID *int64       `json:"employee_id,omitempty"`
	Role       session.Role `json:"role"`
	IsAdmin    bool         `json:"is_admin"`
}

func ToSessionResponse(s session.Session) SessionResponse {
	resp := SessionResponse{
		UserID:  s.UserID,
		Role:    s.Role,
		IsAdmin: s.IsAdmin(),
	}
	if s.HasEmployee() {
		id := s.EmployeeID
		resp.EmployeeID = &id
	}
	return resp
}

type SSETokenResponse struct {
	Token     string `json:"token"`
	ExpiresIn int    `json:"expires_in"`
}
