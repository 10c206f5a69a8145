package service

import (
	"context"
	"crypto/subtle"
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v4"
	"golang.org/x/crypto/bcrypt"

	"alcyxob/fitprogram/internal/domain"
)

// --- Error Definitions ---
var (
	ErrAuthenticationFailed = errors.New("authentication failed: invalid username or password")
	ErrTokenGeneration      = errors.New("failed to generate authentication token")
	ErrInvalidToken         = errors.New("invalid or expired token")
)

const tokenIssuer = "fitprogram"

// --- Service Interface ---
type AuthService interface {
	Login(ctx context.Context, username, password string) (token string, principal *domain.Principal, err error)
	ParseToken(token string) (*domain.Principal, error)
	GetJWTSecret() string
}

// --- Service Implementation ---

// authService authenticates the single configured administrator and
// issues HS256 tokens.
type authService struct {
	adminUser     string
	adminPassHash []byte
	jwtSecret     string
	jwtExpiration time.Duration
	now           func() time.Time
}

// NewAuthService creates a new auth service. An empty adminPassHash
// disables login entirely.
func NewAuthService(adminUser, adminPassHash, jwtSecret string, jwtExpiration time.Duration) AuthService {
	if jwtSecret == "" {
		panic("JWT secret cannot be empty")
	}
	if jwtExpiration <= 0 {
		jwtExpiration = time.Hour
	}
	return &authService{
		adminUser:     adminUser,
		adminPassHash: []byte(adminPassHash),
		jwtSecret:     jwtSecret,
		jwtExpiration: jwtExpiration,
		now:           time.Now,
	}
}

// Login checks the admin credentials and returns a signed token.
func (s *authService) Login(ctx context.Context, username, password string) (token string, principal *domain.Principal, err error) {
	if username == "" || password == "" {
		err = errors.New("username and password cannot be empty")
		return
	}
	if len(s.adminPassHash) == 0 || s.adminUser == "" {
		err = ErrAuthenticationFailed
		return
	}
	if subtle.ConstantTimeCompare([]byte(username), []byte(s.adminUser)) != 1 {
		err = ErrAuthenticationFailed
		return
	}
	if bcrypt.CompareHashAndPassword(s.adminPassHash, []byte(password)) != nil {
		err = ErrAuthenticationFailed
		return
	}

	principal = &domain.Principal{Subject: username, Role: domain.RoleAdmin}
	token, err = s.generateJWT(principal)
	if err != nil {
		return "", nil, ErrTokenGeneration
	}
	return token, principal, nil
}

// --- JWT Helper ---

// jwtClaims defines the structure of the JWT payload.
type jwtClaims struct {
	Role domain.Role `json:"role"`
	jwt.RegisteredClaims
}

func (s *authService) generateJWT(p *domain.Principal) (string, error) {
	now := s.now()
	claims := &jwtClaims{
		Role: p.Role,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   p.Subject,
			ExpiresAt: jwt.NewNumericDate(now.Add(s.jwtExpiration)),
			IssuedAt:  jwt.NewNumericDate(now),
			Issuer:    tokenIssuer,
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(s.jwtSecret))
}

// ParseToken validates a signed token and returns its principal.
func (s *authService) ParseToken(tokenString string) (*domain.Principal, error) {
	claims := &jwtClaims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return []byte(s.jwtSecret), nil
	})
	if err != nil || !token.Valid {
		return nil, fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}
	if claims.Issuer != tokenIssuer || claims.Subject == "" {
		return nil, ErrInvalidToken
	}
	role := claims.Role
	if role != domain.RoleAdmin {
		role = domain.RoleViewer
	}
	return &domain.Principal{Subject: claims.Subject, Role: role}, nil
}

// GetJWTSecret returns the JWT secret for middleware authentication
func (s *authService) GetJWTSecret() string {
	return s.jwtSecret
}
