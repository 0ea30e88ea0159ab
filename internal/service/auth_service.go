package service

import (
	"context"
	"strings"

	"github.com/skynix/contact-service/internal/auth"
	"github.com/skynix/contact-service/internal/config"
	"github.com/skynix/contact-service/internal/domain"
	apperrors "github.com/skynix/contact-service/pkg/util/errorutil"
)

// AuthService issues admin tokens for the submission listing endpoints.
// There is a single admin account configured through the environment.
type AuthService struct {
	adminEmail string
	adminHash  string
	tokenMgr   *auth.TokenManager
}

// NewAuthService builds the service.
func NewAuthService(cfg config.AuthConfig, tokens *auth.TokenManager) *AuthService {
	return &AuthService{
		adminEmail: strings.TrimSpace(cfg.AdminEmail),
		adminHash:  cfg.AdminPasswordHash,
		tokenMgr:   tokens,
	}
}

// LoginAdmin authenticates the admin and returns a scoped token.
func (s *AuthService) LoginAdmin(_ context.Context, email, password string) (domain.Token, string, error) {
	if s.adminHash == "" {
		return domain.Token{}, "", apperrors.NewUnauthorized("admin login disabled")
	}
	if !strings.EqualFold(strings.TrimSpace(email), s.adminEmail) {
		return domain.Token{}, "", apperrors.NewUnauthorized("invalid credentials")
	}
	if err := auth.ComparePassword(s.adminHash, password); err != nil {
		return domain.Token{}, "", apperrors.NewUnauthorized("invalid credentials")
	}
	meta, token, err := s.tokenMgr.GenerateToken(s.adminEmail, domain.SubjectTypeAdmin, domain.ScopeSubmissionsRead)
	if err != nil {
		return domain.Token{}, "", apperrors.NewInternalError(err)
	}
	return meta, token, nil
}
