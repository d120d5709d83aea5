package jwt

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/cmlabs-hris/planilla-portal-go/internal/domain/session"
	"github.com/go-chi/jwtauth/v5"
	"github.com/lestrrat-go/jwx/v2/jwt"
)

const (
	TokenTypeAccess = "access"
	TokenTypeSSE    = "sse"
)

type Service interface {
	// GenerateAccessToken issues a token in the shape the HR auth service
	// signs. The portal only verifies these; issuing is for local tooling.
	GenerateAccessToken(userID string, employeeID int64, role session.Role) (token string, expiresAt int64, err error)
	GenerateSSEToken(s session.Session) (token string, expiresIn int, err error)
	ValidateSSEToken(tokenString string) (session.Session, error)
	JWTAuth() *jwtauth.JWTAuth
	RevokeToken(token string, expiresAt time.Time)
	IsTokenRevoked(token string) bool
	PruneRevokedTokens() int
}

type JWTService struct {
	accessTokenExpirationTime string
	sseTokenExpirationTime    string
	tokenAuth                 *jwtauth.JWTAuth
	revokedTokens             map[string]time.Time
	mu                        sync.RWMutex
	now                       func() time.Time
}

func (j *JWTService) JWTAuth() *jwtauth.JWTAuth {
	return j.tokenAuth
}

func NewJWTService(secretKey string, accessTokenExpirationTime string, sseTokenExpirationTime string) Service {
	return &JWTService{
		accessTokenExpirationTime: accessTokenExpirationTime,
		sseTokenExpirationTime:    sseTokenExpirationTime,
		tokenAuth:                 jwtauth.New("HS256", []byte(secretKey), nil, jwt.WithAcceptableSkew(30*time.Second)),
		revokedTokens:             make(map[string]time.Time),
		now:                       time.Now,
	}
}

func (j *JWTService) GenerateAccessToken(userID string, employeeID int64, role session.Role) (token string, expiresAt int64, err error) {
	expDuration, err := time.ParseDuration(j.accessTokenExpirationTime)
	if err != nil {
		return "", 0, err
	}
	expiresAt = j.now().Add(expDuration).Unix()

	claims := map[string]interface{}{
		"user_id": userID,
		"role":    string(role),
		"type":    TokenTypeAccess,
		"exp":     expiresAt,
	}
	if employeeID > 0 {
		claims["employee_id"] = employeeID
	}

	_, tokenString, err := j.tokenAuth.Encode(claims)
	return tokenString, expiresAt, err
}

// RevokeToken refuses token until it would have expired anyway. Expired
// entries are dropped on every call.
func (j *JWTService) RevokeToken(token string, expiresAt time.Time) {
	j.mu.Lock()
	defer j.mu.Unlock()

	j.pruneLocked()
	j.revokedTokens[token] = expiresAt
}

// PruneRevokedTokens drops revocations whose token has expired and returns
// how many were removed.
func (j *JWTService) PruneRevokedTokens() int {
	j.mu.Lock()
	defer j.mu.Unlock()
	return j.pruneLocked()
}

func (j *JWTService) pruneLocked() int {
	now := j.now()
	removed := 0
	for t, exp := range j.revokedTokens {
		if !exp.IsZero() && exp.Before(now) {
			delete(j.revokedTokens, t)
			removed++
		}
	}
	return removed
}

func (j *JWTService) IsTokenRevoked(token string) bool {
	j.mu.RLock()
	defer j.mu.RUnlock()
	_, revoked := j.revokedTokens[token]
	return revoked
}

// GenerateSSEToken generates a short-lived token for the attendance event
// stream, which browsers open without an Authorization header.
func (j *JWTService) GenerateSSEToken(s session.Session) (token string, expiresIn int, err error) {
	expDuration, err := time.ParseDuration(j.sseTokenExpirationTime)
	if err != nil {
		return "", 0, err
	}
	expiresIn = int(expDuration.Seconds())

	_, tokenString, err := j.tokenAuth.Encode(map[string]interface{}{
		"user_id":     s.UserID,
		"employee_id": s.EmployeeID,
		"role":        string(s.Role),
		"type":        TokenTypeSSE,
		"exp":         j.now().Add(expDuration).Unix(),
	})
	if err != nil {
		return "", 0, err
	}

	return tokenString, expiresIn, nil
}

// ValidateSSEToken validates an SSE token and returns the session it was
// issued for.
func (j *JWTService) ValidateSSEToken(tokenString string) (session.Session, error) {
	token, err := jwtauth.VerifyToken(j.tokenAuth, tokenString)
	if err != nil {
		return session.Session{}, err
	}

	claims, err := token.AsMap(context.Background())
	if err != nil {
		return session.Session{}, err
	}

	if tokenType, _ := claims["type"].(string); tokenType != TokenTypeSSE {
		return session.Session{}, jwt.ErrInvalidJWT()
	}

	s, err := session.FromClaims(tokenString, claims)
	if err != nil {
		return session.Session{}, fmt.Errorf("invalid sse token: %w", err)
	}
	if !s.HasEmployee() {
		return session.Session{}, session.ErrMissingEmployeeID
	}
	return s, nil
}
