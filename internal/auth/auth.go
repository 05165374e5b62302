// Package auth issues and verifies the signed session tokens that gate the
// admin surface. Sessions are stateless: the role claim inside the token is
// the only thing the middleware consults.
package auth

import (
	"crypto/subtle"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v4"
	"golang.org/x/crypto/bcrypt"
)

const RoleAdmin = "admin"

// TokenTTL is the session lifetime.
const TokenTTL = 24 * time.Hour

var (
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrInvalidToken       = errors.New("invalid authorization token")
)

type Claims struct {
	Role string `json:"role"`
	Name string `json:"name"`
	jwt.RegisteredClaims
}

type Service struct {
	secret        []byte
	adminUsername string
	adminPassword string
}

func NewService(secret, adminUsername, adminPassword string) *Service {
	return &Service{
		secret:        []byte(secret),
		adminUsername: adminUsername,
		adminPassword: adminPassword,
	}
}

// Login checks the admin credentials and issues a session token. The
// configured password may be a bcrypt hash or a plain value; plain values
// are compared in constant time.
func (s *Service) Login(username, password string) (string, error) {
	if subtle.ConstantTimeCompare([]byte(username), []byte(s.adminUsername)) != 1 {
		return "", ErrInvalidCredentials
	}
	if s.adminPassword == "" {
		return "", ErrInvalidCredentials
	}

	if strings.HasPrefix(s.adminPassword, "$2") {
		if err := bcrypt.CompareHashAndPassword([]byte(s.adminPassword), []byte(password)); err != nil {
			return "", ErrInvalidCredentials
		}
	} else if subtle.ConstantTimeCompare([]byte(password), []byte(s.adminPassword)) != 1 {
		return "", ErrInvalidCredentials
	}

	return s.IssueToken(RoleAdmin, "Admin User")
}

// IssueToken signs a session token carrying the role claim.
func (s *Service) IssueToken(role, name string) (string, error) {
	claims := &Claims{
		Role: role,
		Name: name,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(TokenTTL)),
			IssuedAt:  jwt.NewNumericDate(time.Now()),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(s.secret)
}

// ParseToken verifies the signature and expiry and returns the claims.
func (s *Service) ParseToken(tokenStr string) (*Claims, error) {
	claims := &Claims{}
	token, err := jwt.ParseWithClaims(tokenStr, claims, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method %v", t.Header["alg"])
		}
		return s.secret, nil
	})
	if err != nil || !token.Valid {
		return nil, ErrInvalidToken
	}
	return claims, nil
}
