package auth

import (
	"crypto/sha256"
	"crypto/subtle"
	"encoding/hex"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/golang-jwt/jwt"
	"go.uber.org/fx"

	"github.com/digideal/paygate/pkg/config"
)

var (
	ErrLoginDisabled      = errors.New("admin login is disabled")
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrInvalidToken       = errors.New("invalid token")
)

const (
	issuer       = "paygate"
	adminSubject = "admin"
)

type Claims struct {
	jwt.StandardClaims
}

type Service struct {
	cfg config.AdminConfig
	now func() time.Time
}

func New(cfg *config.Config) *Service {
	return &Service{cfg: cfg.Admin, now: time.Now}
}

func (s *Service) Enabled() bool { return s.cfg.Enabled() }

// HashPassword returns the lowercase hex SHA-256 stored in admin.password_hash.
func HashPassword(password string) string {
	sum := sha256.Sum256([]byte(password))
	return hex.EncodeToString(sum[:])
}

// Login checks password and issues an HS256 token.
func (s *Service) Login(password string) (string, time.Time, error) {
	if !s.Enabled() {
		return "", time.Time{}, ErrLoginDisabled
	}
	got := HashPassword(password)
	want := strings.ToLower(strings.TrimSpace(s.cfg.PasswordHash))
	if subtle.ConstantTimeCompare([]byte(got), []byte(want)) != 1 {
		return "", time.Time{}, ErrInvalidCredentials
	}

	now := s.now()
	expiresAt := now.Add(s.cfg.TokenTTL)
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, &Claims{StandardClaims: jwt.StandardClaims{
		Issuer:    issuer,
		Subject:   adminSubject,
		IssuedAt:  now.Unix(),
		ExpiresAt: expiresAt.Unix(),
	}})
	signed, err := token.SignedString([]byte(s.cfg.JWTSecret))
	if err != nil {
		return "", time.Time{}, fmt.Errorf("sign token: %w", err)
	}
	return signed, expiresAt, nil
}

// Verify parses and validates an admin token.
func (s *Service) Verify(raw string) (*Claims, error) {
	if !s.Enabled() {
		return nil, ErrLoginDisabled
	}
	claims := &Claims{}
	_, err := jwt.ParseWithClaims(raw, claims, func(t *jwt.Token) (interface{}, error) {
		if t.Method != jwt.SigningMethodHS256 {
			return nil, fmt.Errorf("unexpected signing method %v", t.Header["alg"])
		}
		return []byte(s.cfg.JWTSecret), nil
	})
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}
	if claims.Issuer != issuer || claims.Subject != adminSubject {
		return nil, fmt.Errorf("%w: unexpected claims", ErrInvalidToken)
	}
	return claims, nil
}

var Module = fx.Options(
	fx.Provide(New),
)
