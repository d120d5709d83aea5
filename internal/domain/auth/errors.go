package auth

import "errors"

var (
	ErrInvalidToken = errors.New("invalid or expired token")
	ErrTokenRevoked = errors.New("token has been revoked")
	ErrRoleRequired = errors.New("your role cannot access this resource")
)
