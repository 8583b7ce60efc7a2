// Package session issues and verifies the signed session cookie and holds
// one-time flash messages against the session. The acting principal is
// always passed explicitly through the request context; nothing here is
// global state.
package session

import (
	"errors"
	"strconv"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

// CookieName is the name of the session cookie.
const CookieName = "agentdesk_session"

var (
	ErrInvalidToken = errors.New("invalid session token")
	ErrExpiredToken = errors.New("session expired")
)

// Session is the verified content of a session cookie.
type Session struct {
	AccountID int64
	Role      string
	// ID is a per-login identifier, used to key flash messages.
	ID string
}

// Manager signs and verifies session tokens (HS256 JWTs).
type Manager struct {
	secret []byte
	ttl    time.Duration
}

// NewManager creates a session manager. ttl bounds how long an issued
// session stays valid.
func NewManager(secret string, ttl time.Duration) *Manager {
	return &Manager{secret: []byte(secret), ttl: ttl}
}

// TTL returns the configured session lifetime.
func (m *Manager) TTL() time.Duration {
	return m.ttl
}

// Issue creates a signed session token for the given account.
func (m *Manager) Issue(accountID int64, role string) (string, error) {
	now := time.Now()

	claims := jwt.MapClaims{
		"sub":  strconv.FormatInt(accountID, 10),
		"role": role,
		"sid":  uuid.New().String(),
		"iat":  now.Unix(),
		"exp":  now.Add(m.ttl).Unix(),
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(m.secret)
}

// Parse verifies a session token and returns its content.
func (m *Manager) Parse(tokenString string) (Session, error) {
	token, err := jwt.Parse(tokenString, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errors.New("invalid signing method")
		}
		return m.secret, nil
	})

	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return Session{}, ErrExpiredToken
		}
		return Session{}, ErrInvalidToken
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok || !token.Valid {
		return Session{}, ErrInvalidToken
	}

	sub, ok := claims["sub"].(string)
	if !ok {
		return Session{}, ErrInvalidToken
	}
	accountID, err := strconv.ParseInt(sub, 10, 64)
	if err != nil || accountID <= 0 {
		return Session{}, ErrInvalidToken
	}

	role, _ := claims["role"].(string)
	sid, _ := claims["sid"].(string)
	if role == "" || sid == "" {
		return Session{}, ErrInvalidToken
	}

	return Session{AccountID: accountID, Role: role, ID: sid}, nil
}
