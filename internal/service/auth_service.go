package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"cohorts/internal/auth"
	apperrors "cohorts/internal/errors"
	"cohorts/internal/model"
	"cohorts/internal/repository"
)

// Auth error messages.
const (
	MsgSignupFieldsRequired = "email, password and name are required"
	MsgLoginFieldsRequired  = "email and password are required"
)

// AuthService handles authentication operations.
type AuthService interface {
	Signup(ctx context.Context, email, password, name string) (*model.PublicUser, error)
	Login(ctx context.Context, email, password string) (token string, user *model.PublicUser, err error)
	VerifyToken(ctx context.Context, token string) (*auth.Claims, error)
	Logout(ctx context.Context, claims *auth.Claims) error
}

type authService struct {
	userRepo   repository.UserRepository
	jwtService *auth.JWTService
	hasher     auth.PasswordHasher
	tokenStore auth.TokenStoreInterface
	now        func() time.Time
}

// NewAuthService creates a new authentication service.
func NewAuthService(userRepo repository.UserRepository, jwtService *auth.JWTService, hasher auth.PasswordHasher, tokenStore auth.TokenStoreInterface) AuthService {
	return &authService{
		userRepo:   userRepo,
		jwtService: jwtService,
		hasher:     hasher,
		tokenStore: tokenStore,
		now:        time.Now,
	}
}

// Signup creates a user with a hashed password.
func (s *authService) Signup(ctx context.Context, email, password, name string) (*model.PublicUser, error) {
	user := &model.User{Email: email, Name: name}
	user.Normalize()
	if user.Email == "" || password == "" || user.Name == "" {
		return nil, apperrors.MalformedInput(MsgSignupFieldsRequired)
	}

	existing, err := s.userRepo.FindByEmail(ctx, user.Email)
	if err == nil && existing != nil {
		return nil, apperrors.Conflict(MsgEmailExists)
	}
	if err != nil && !errors.Is(err, repository.ErrNotFound) {
		return nil, apperrors.Internal(fmt.Errorf("check user existence: %w", err))
	}

	user.PasswordHash, err = s.hasher.Hash(password)
	if err != nil {
		return nil, apperrors.Internal(err)
	}

	if err := s.userRepo.Create(ctx, user); err != nil {
		if errors.Is(err, repository.ErrDuplicateKey) {
			return nil, apperrors.Conflict(MsgEmailExists)
		}
		return nil, apperrors.Internal(fmt.Errorf("create user: %w", err))
	}

	public := user.Public()
	return &public, nil
}

// Login checks credentials and issues a token. Unknown emails and wrong
// passwords yield the same error.
func (s *authService) Login(ctx context.Context, email, password string) (string, *model.PublicUser, error) {
	email = model.NormalizeEmail(email)
	if email == "" || password == "" {
		return "", nil, apperrors.MalformedInput(MsgLoginFieldsRequired)
	}

	user, err := s.userRepo.FindByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return "", nil, apperrors.Unauthenticated(apperrors.MsgInvalidCredentials)
		}
		return "", nil, apperrors.Internal(fmt.Errorf("find user: %w", err))
	}

	if !s.hasher.Compare(user.PasswordHash, password) {
		return "", nil, apperrors.Unauthenticated(apperrors.MsgInvalidCredentials)
	}

	token, err := s.jwtService.GenerateToken(user.ID, user.Email, user.Name)
	if err != nil {
		return "", nil, apperrors.Internal(fmt.Errorf("generate token: %w", err))
	}

	public := user.Public()
	return token, &public, nil
}

// VerifyToken validates the signature and expiry and rejects revoked tokens.
func (s *authService) VerifyToken(ctx context.Context, token string) (*auth.Claims, error) {
	token = strings.TrimSpace(token)
	if token == "" {
		return nil, apperrors.Unauthenticated(apperrors.MsgInvalidToken)
	}
	claims, err := s.jwtService.ValidateToken(token)
	if err != nil {
		return nil, apperrors.Unauthenticated(apperrors.MsgInvalidToken)
	}
	revoked, err := s.tokenStore.IsTokenRevoked(ctx, claims.ID)
	if err != nil {
		return nil, apperrors.Internal(fmt.Errorf("check revocation: %w", err))
	}
	if revoked {
		return nil, apperrors.Unauthenticated(apperrors.MsgInvalidToken)
	}
	return claims, nil
}

// Logout revokes the token until its own expiry.
func (s *authService) Logout(ctx context.Context, claims *auth.Claims) error {
	if claims == nil {
		return apperrors.Unauthenticated(apperrors.MsgInvalidToken)
	}
	var ttl time.Duration
	if claims.ExpiresAt != nil {
		ttl = claims.ExpiresAt.Sub(s.now())
	}
	if err := s.tokenStore.RevokeToken(ctx, claims.ID, ttl); err != nil {
		return apperrors.Internal(fmt.Errorf("revoke token: %w", err))
	}
	return nil
}
