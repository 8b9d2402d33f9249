package services

import (
	"context"
	"crypto/subtle"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/crypto/bcrypt"

	"github.com/vncsmyrnk/election/internal/core/domain"
	"github.com/vncsmyrnk/election/internal/core/ports"
)

const defaultTokenTTL = 8 * time.Hour

type AuthConfig struct {
	Username     string
	PasswordHash []byte
	Secret       []byte
	TokenTTL     time.Duration
}

type AuthService struct {
	cfg    AuthConfig
	clock  ports.Clock
	logger *slog.Logger
}

func NewAuthService(cfg AuthConfig, clock ports.Clock, logger *slog.Logger) (*AuthService, error) {
	if cfg.Username == "" || len(cfg.PasswordHash) == 0 {
		return nil, errors.New("admin username and password hash are required")
	}
	if len(cfg.Secret) == 0 {
		return nil, errors.New("jwt secret is required")
	}
	if _, err := bcrypt.Cost(cfg.PasswordHash); err != nil {
		return nil, fmt.Errorf("invalid admin password hash: %w", err)
	}
	if cfg.TokenTTL <= 0 {
		cfg.TokenTTL = defaultTokenTTL
	}
	return &AuthService{cfg: cfg, clock: clock, logger: resolveLogger(logger)}, nil
}

func (s *AuthService) Login(ctx context.Context, username, password string) (string, error) {
	userOK := subtle.ConstantTimeCompare([]byte(username), []byte(s.cfg.Username)) == 1
	passErr := bcrypt.CompareHashAndPassword(s.cfg.PasswordHash, []byte(password))
	if !userOK || passErr != nil {
		s.logger.WarnContext(ctx, "admin login rejected", "username", username)
		return "", domain.ErrUnauthorized
	}

	token, err := s.generateAccessToken(username)
	if err != nil {
		return "", fmt.Errorf("failed to generate access token: %w", err)
	}
	s.logger.InfoContext(ctx, "admin logged in", "username", username)
	return token, nil
}

func (s *AuthService) Verify(tokenString string) (string, error) {
	token, err := jwt.Parse(tokenString, func(token *jwt.Token) (any, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return s.cfg.Secret, nil
	}, jwt.WithTimeFunc(s.clock.Now))
	if err != nil || !token.Valid {
		return "", domain.ErrUnauthorized
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return "", domain.ErrUnauthorized
	}
	sub, err := claims.GetSubject()
	if err != nil || sub != s.cfg.Username {
		return "", domain.ErrUnauthorized
	}
	return sub, nil
}

func (s *AuthService) generateAccessToken(username string) (string, error) {
	now := s.clock.Now()
	claims := jwt.MapClaims{
		"sub": username,
		"exp": now.Add(s.cfg.TokenTTL).Unix(),
		"iat": now.Unix(),
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(s.cfg.Secret)
}

// TokenTTL is the lifetime of issued access tokens.
func (s *AuthService) TokenTTL() time.Duration {
	return s.cfg.TokenTTL
}
