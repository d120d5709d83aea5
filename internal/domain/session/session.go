package session

import (
	"context"
	"errors"
	"fmt"
	"strconv"
)

var (
	ErrNoSession         = errors.New("no session in context")
	ErrMissingEmployeeID = errors.New("session has no employee_id")
)

type Role string

const (
	RoleAdmin    Role = "admin"
	RoleManager  Role = "manager"
	RoleEmployee Role = "employee"
)

// Session is the decoded bearer token of the caller. It is built once per
// request by the auth middleware and passed down explicitly through the
// context; nothing in the portal keeps a package-level copy.
type Session struct {
	Token      string
	UserID     string
	EmployeeID int64
	Role       Role
}

func (s Session) HasEmployee() bool {
	return s.EmployeeID > 0
}

func (s Session) IsAdmin() bool {
	return s.Role == RoleAdmin || s.Role == RoleManager
}

// FromClaims maps verified JWT claims onto a Session.
func FromClaims(token string, claims map[string]interface{}) (Session, error) {
	s := Session{Token: token}

	s.UserID, _ = claims["user_id"].(string)
	if role, ok := claims["role"].(string); ok {
		s.Role = Role(role)
	}

	switch v := claims["employee_id"].(type) {
	case nil:
	case float64:
		s.EmployeeID = int64(v)
	case int64:
		s.EmployeeID = v
	case string:
		if v != "" {
			id, err := strconv.ParseInt(v, 10, 64)
			if err != nil {
				return Session{}, fmt.Errorf("invalid employee_id claim %q: %w", v, err)
			}
			s.EmployeeID = id
		}
	default:
		return Session{}, fmt.Errorf("invalid employee_id claim type %T", v)
	}

	return s, nil
}

type ctxKey struct{}

func NewContext(ctx context.Context, s Session) context.Context {
	return context.WithValue(ctx, ctxKey{}, s)
}

func FromContext(ctx context.Context) (Session, error) {
	s, ok := ctx.Value(ctxKey{}).(Session)
	if !ok {
		return Session{}, ErrNoSession
	}
	return s, nil
}

// EmployeeIDFromContext returns the caller's own employee id.
func EmployeeIDFromContext(ctx context.Context) (int64, error) {
	s, err := FromContext(ctx)
	if err != nil {
		return 0, err
	}
	if !s.HasEmployee() {
		return 0, ErrMissingEmployeeID
	}
	return s.EmployeeID, nil
}
