package auth

import (
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/lshigami/ieltsprep/config"
	"github.com/lshigami/ieltsprep/internal/apperror"
	"github.com/lshigami/ieltsprep/internal/model"
)

type claims struct {
	Role string `json:"role"`
	jwt.RegisteredClaims
}

// TokenService verifies the HS256 tokens issued by the identity service.
type TokenService struct {
	secret []byte
	issuer string
}

func NewTokenService(cfg *config.Config) *TokenService {
	return &TokenService{secret: []byte(cfg.JWT.Secret), issuer: cfg.JWT.Issuer}
}

// Parse validates raw and returns the principal it names.
func (s *TokenService) Parse(raw string) (Principal, error) {
	if len(s.secret) == 0 {
		return Principal{}, fmt.Errorf("jwt secret not configured: %w", apperror.ErrUnauthorized)
	}
	var c claims
	_, err := jwt.ParseWithClaims(raw, &c, func(t *jwt.Token) (any, error) {
		return s.secret, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}), jwt.WithIssuer(s.issuer))
	if err != nil {
		return Principal{}, fmt.Errorf("invalid token: %w: %w", apperror.ErrUnauthorized, err)
	}
	id, err := strconv.ParseUint(c.Subject, 10, 64)
	if err != nil || id == 0 {
		return Principal{}, fmt.Errorf("invalid subject %q: %w", c.Subject, apperror.ErrUnauthorized)
	}
	if c.Role != model.RoleStudent && c.Role != model.RoleAdmin {
		return Principal{}, fmt.Errorf("unknown role %q: %w", c.Role, apperror.ErrUnauthorized)
	}
	return Principal{UserID: uint(id), Role: c.Role}, nil
}

// Issue signs a token for p. Used by the CLI to mint development tokens.
func (s *TokenService) Issue(p Principal, ttl time.Duration) (string, error) {
	if len(s.secret) == 0 {
		return "", errors.New("jwt secret not configured")
	}
	now := time.Now()
	c := claims{
		Role: p.Role,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   strconv.FormatUint(uint64(p.UserID), 10),
			Issuer:    s.issuer,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		},
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, c).SignedString(s.secret)
}
