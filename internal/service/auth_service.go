package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"github.com/courtdesk/registry-api/internal/audit"
	"github.com/courtdesk/registry-api/internal/dto"
	"github.com/courtdesk/registry-api/internal/repository"
)

// ClientInfo carries request metadata attached to audit entries.
type ClientInfo struct {
	IP        string
	UserAgent string
}

// AuthService handles sign-in, sign-out and the password lifecycle.
type AuthService interface {
	Login(ctx context.Context, req dto.LoginRequest, client ClientInfo) (dto.LoginResponse, error)
	Logout(ctx context.Context, actor *Actor, client ClientInfo) error
	ChangePassword(ctx context.Context, actor *Actor, req dto.ChangePasswordRequest, client ClientInfo) error
	SendMagicLink(ctx context.Context, actor *Actor, req dto.MagicLinkRequest, client ClientInfo) (string, error)
	ResetPassword(ctx context.Context, actor *Actor, userID string, client ClientInfo) (string, error)
	SetInitialPassword(ctx context.Context, req dto.SetPasswordRequest, client ClientInfo) error
}

type authService struct {
	users     repository.UserRepository
	recorder  AuditRecorder
	validator *validator.Validate
	jwtSecret string
	tokenTTL  time.Duration
	resetTTL  time.Duration
	logger    zerolog.Logger
}

// NewAuthService constructs the auth service.
func NewAuthService(users repository.UserRepository, recorder AuditRecorder, validate *validator.Validate, jwtSecret string, tokenTTL, resetTTL time.Duration, logger zerolog.Logger) AuthService {
	return &authService{
		users:     users,
		recorder:  recorder,
		validator: validate,
		jwtSecret: jwtSecret,
		tokenTTL:  tokenTTL,
		resetTTL:  resetTTL,
		logger:    logger.With().Str("component", "auth_service").Logger(),
	}
}

// Login verifies credentials and issues a bearer token. Both outcomes are
// audited: failures with a null actor and the attempted email, successes
// attributed to the authenticated account.
func (s *authService) Login(ctx context.Context, req dto.LoginRequest, client ClientInfo) (dto.LoginResponse, error) {
	if err := s.validator.Struct(req); err != nil {
		return dto.LoginResponse{}, err
	}

	email := strings.ToLower(strings.TrimSpace(req.Email))

	user, err := s.users.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			s.recordLoginFailure(ctx, email, client)
			return dto.LoginResponse{}, ErrInvalidCredentials
		}
		s.logger.Error().Err(err).Msg("failed to look up account")
		return dto.LoginResponse{}, err
	}

	if bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(req.Password)) != nil {
		s.recordLoginFailure(ctx, email, client)
		return dto.LoginResponse{}, ErrInvalidCredentials
	}

	if !user.Active {
		s.recordLoginFailure(ctx, email, client)
		return dto.LoginResponse{}, ErrAccountInactive
	}

	token, err := s.signToken(user.ID, user.Role)
	if err != nil {
		s.logger.Error().Err(err).Msg("failed to sign token")
		return dto.LoginResponse{}, err
	}

	actor := &Actor{ID: user.ID, Role: user.Role}
	if err := s.recorder.Record(ctx, actor, AuditEntry{
		Action:    audit.ActionLoginSuccess,
		Details:   &audit.UserDetails{ID: user.ID},
		IPAddress: client.IP,
		UserAgent: client.UserAgent,
	}); err != nil {
		s.logger.Warn().Err(err).Msg("login succeeded but audit write failed")
	}

	return dto.NewLoginResponse(user, token), nil
}

func (s *authService) recordLoginFailure(ctx context.Context, email string, client ClientInfo) {
	err := s.recorder.Record(ctx, nil, AuditEntry{
		Action:    audit.ActionLoginFailed,
		Details:   &audit.EmailDetails{Email: email},
		IPAddress: client.IP,
		UserAgent: client.UserAgent,
	})
	if err != nil {
		s.logger.Warn().Err(err).Msg("failed to record login failure")
	}
}

// Logout records the sign-out; token invalidation is the client's concern.
func (s *authService) Logout(ctx context.Context, actor *Actor, client ClientInfo) error {
	return s.recorder.Record(ctx, actor, AuditEntry{
		Action:    audit.ActionLogout,
		IPAddress: client.IP,
		UserAgent: client.UserAgent,
	})
}

func (s *authService) ChangePassword(ctx context.Context, actor *Actor, req dto.ChangePasswordRequest, client ClientInfo) error {
	if actor == nil {
		return ErrUnauthorized
	}
	if err := s.validator.Struct(req); err != nil {
		return err
	}

	user, err := s.users.GetByID(ctx, actor.ID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrNotFound
		}
		return err
	}

	if bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(req.CurrentPassword)) != nil {
		return ErrInvalidCredentials
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.NewPassword), bcrypt.DefaultCost)
	if err != nil {
		return err
	}
	user.PasswordHash = string(hash)

	if err := s.users.Update(ctx, &user); err != nil {
		s.logger.Error().Err(err).Msg("failed to update password")
		return err
	}

	return s.recorder.Record(ctx, actor, AuditEntry{
		Action:    audit.ActionChangePassword,
		Details:   &audit.UserDetails{ID: user.ID},
		IPAddress: client.IP,
		UserAgent: client.UserAgent,
	})
}

// SendMagicLink issues a one-time sign-in token for the target account and
// returns it for delivery. Requested by an administrator, not the end user.
func (s *authService) SendMagicLink(ctx context.Context, actor *Actor, req dto.MagicLinkRequest, client ClientInfo) (string, error) {
	if actor == nil {
		return "", ErrUnauthorized
	}
	if err := s.validator.Struct(req); err != nil {
		return "", err
	}

	email := strings.ToLower(strings.TrimSpace(req.Email))
	user, err := s.users.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return "", ErrNotFound
		}
		return "", err
	}

	token := uuid.NewString()
	expires := time.Now().Add(s.resetTTL)
	user.ResetToken = token
	user.ResetExpiresAt = &expires

	if err := s.users.Update(ctx, &user); err != nil {
		s.logger.Error().Err(err).Msg("failed to store magic link token")
		return "", err
	}

	if err := s.recorder.Record(ctx, actor, AuditEntry{
		Action:    audit.ActionSendMagicLink,
		Details:   &audit.EmailDetails{Email: email},
		IPAddress: client.IP,
		UserAgent: client.UserAgent,
	}); err != nil {
		return "", err
	}

	return token, nil
}

// ResetPassword clears the account's password and issues a fresh set-password
// token; the account must pick a new password on next sign-in.
func (s *authService) ResetPassword(ctx context.Context, actor *Actor, userID string, client ClientInfo) (string, error) {
	if actor == nil {
		return "", ErrUnauthorized
	}

	user, err := s.users.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return "", ErrNotFound
		}
		return "", err
	}

	token := uuid.NewString()
	expires := time.Now().Add(s.resetTTL)
	user.ResetToken = token
	user.ResetExpiresAt = &expires
	user.MustSetPassword = true

	if err := s.users.Update(ctx, &user); err != nil {
		s.logger.Error().Err(err).Msg("failed to reset password")
		return "", err
	}

	if err := s.recorder.Record(ctx, actor, AuditEntry{
		Action:    audit.ActionResetPassword,
		Details:   &audit.UserDetails{ID: user.ID},
		IPAddress: client.IP,
		UserAgent: client.UserAgent,
	}); err != nil {
		return "", err
	}

	return token, nil
}

// SetInitialPassword consumes a magic-link/reset token and stores the
// account's chosen password. The token itself authenticates the actor, so the
// audit entry is attributed to the account being set up.
func (s *authService) SetInitialPassword(ctx context.Context, req dto.SetPasswordRequest, client ClientInfo) error {
	if err := s.validator.Struct(req); err != nil {
		return err
	}

	user, err := s.users.GetByResetToken(ctx, req.Token)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrTokenExpired
		}
		return err
	}

	if user.ResetExpiresAt == nil || time.Now().After(*user.ResetExpiresAt) {
		return ErrTokenExpired
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return err
	}

	user.PasswordHash = string(hash)
	user.MustSetPassword = false
	user.ResetToken = ""
	user.ResetExpiresAt = nil

	if err := s.users.Update(ctx, &user); err != nil {
		s.logger.Error().Err(err).Msg("failed to set password")
		return err
	}

	actor := &Actor{ID: user.ID, Role: user.Role}
	return s.recorder.Record(ctx, actor, AuditEntry{
		Action:    audit.ActionSetInitialPassword,
		Details:   &audit.UserDetails{ID: user.ID},
		IPAddress: client.IP,
		UserAgent: client.UserAgent,
	})
}

func (s *authService) signToken(userID, role string) (string, error) {
	claims := jwt.MapClaims{
		"sub":  userID,
		"role": role,
		"iat":  time.Now().Unix(),
		"exp":  time.Now().Add(s.tokenTTL).Unix(),
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(s.jwtSecret))
}
