package auth

import (
	"context"
	"errors"
	"time"

	"github.com/zuri-pay/zuri_pay/internal/config"
	"github.com/zuri-pay/zuri_pay/internal/identity"
)

// Service issues and refreshes JWT token pairs.
type Service struct {
	cfg    config.Config
	idRepo identity.Repository
}

// NewService builds the auth service.
func NewService(cfg config.Config, idRepo identity.Repository) *Service {
	return &Service{cfg: cfg, idRepo: idRepo}
}

// TokenPair bundles the issued access and refresh tokens.
type TokenPair struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
	ExpiresIn    int64  `json:"expires_in"`
}

// Login issues tokens for an already-authenticated user.
func (s *Service) Login(user identity.User) (TokenPair, error) {
	access, err := Sign(Claims{
		Phone:            user.Phone,
		Tier:             user.Tier,
		TokenVersion:     user.TokenVersion,
		RegisteredClaims: newRegisteredClaims(user.ID, s.cfg.AccessTokenTTL),
	}, []byte(s.cfg.JWTSecret))
	if err != nil {
		return TokenPair{}, err
	}

	refresh, err := Sign(Claims{
		TokenVersion:     user.TokenVersion,
		RegisteredClaims: newRegisteredClaims(user.ID, s.cfg.RefreshTokenTTL),
	}, []byte(s.cfg.RefreshSecret))
	if err != nil {
		return TokenPair{}, err
	}

	return TokenPair{
		AccessToken:  access,
		RefreshToken: refresh,
		ExpiresIn:    int64(s.cfg.AccessTokenTTL / time.Second),
	}, nil
}

// Refresh verifies the refresh token and returns a new access token if valid.
func (s *Service) Refresh(ctx context.Context, refreshToken string) (string, int64, error) {
	claims, err := ParseAndVerify(refreshToken, []byte(s.cfg.RefreshSecret))
	if err != nil {
		return "", 0, errors.New("invalid refresh token")
	}

	user, err := s.idRepo.FindByID(ctx, claims.Subject)
	if err != nil {
		return "", 0, errors.New("user not found")
	}
	if user.TokenVersion != claims.TokenVersion {
		return "", 0, errors.New("token version invalidated")
	}

	access, err := Sign(Claims{
		Phone:            user.Phone,
		Tier:             user.Tier,
		TokenVersion:     user.TokenVersion,
		RegisteredClaims: newRegisteredClaims(user.ID, s.cfg.AccessTokenTTL),
	}, []byte(s.cfg.JWTSecret))
	if err != nil {
		return "", 0, err
	}
	return access, int64(s.cfg.AccessTokenTTL / time.Second), nil
}

// Logout increments the token version so older tokens become invalid.
func (s *Service) Logout(ctx context.Context, userID string) error {
	user, err := s.idRepo.FindByID(ctx, userID)
	if err != nil {
		return err
	}
	return s.idRepo.UpdateTokenVersion(ctx, user.ID, user.TokenVersion+1)
}
