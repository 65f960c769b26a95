package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/rs/zerolog"
	"gorm.io/gorm"

	"github.com/courtdesk/registry-api/internal/audit"
	"github.com/courtdesk/registry-api/internal/dto"
	"github.com/courtdesk/registry-api/internal/models"
	"github.com/courtdesk/registry-api/internal/repository"
)

// UserService manages registry staff accounts.
type UserService interface {
	Create(ctx context.Context, actor *Actor, req dto.CreateUserRequest, client ClientInfo) (dto.UserResponse, error)
	Deactivate(ctx context.Context, actor *Actor, id string, client ClientInfo) error
	Reactivate(ctx context.Context, actor *Actor, id string, client ClientInfo) error
	UpdateRole(ctx context.Context, actor *Actor, id string, req dto.UpdateRoleRequest, client ClientInfo) error
	Delete(ctx context.Context, actor *Actor, id string, client ClientInfo) error
	UpdateProfile(ctx context.Context, actor *Actor, req dto.UpdateProfileRequest, client ClientInfo) (dto.UserResponse, error)
	Get(ctx context.Context, id string) (dto.UserResponse, error)
	List(ctx context.Context) ([]dto.UserResponse, error)
}

type userService struct {
	repo      repository.UserRepository
	recorder  AuditRecorder
	validator *validator.Validate
	logger    zerolog.Logger
}

// NewUserService constructs the user service.
func NewUserService(repo repository.UserRepository, recorder AuditRecorder, validate *validator.Validate, logger zerolog.Logger) UserService {
	return &userService{
		repo:      repo,
		recorder:  recorder,
		validator: validate,
		logger:    logger.With().Str("component", "user_service").Logger(),
	}
}

func (s *userService) Create(ctx context.Context, actor *Actor, req dto.CreateUserRequest, client ClientInfo) (dto.UserResponse, error) {
	if err := s.validator.Struct(req); err != nil {
		return dto.UserResponse{}, err
	}
	if !models.IsValidRole(req.Role) {
		return dto.UserResponse{}, fmt.Errorf("unknown role %q", req.Role)
	}

	if _, err := s.repo.GetByEmail(ctx, req.Email); err == nil {
		return dto.UserResponse{}, ErrDuplicate
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return dto.UserResponse{}, err
	}

	user := models.User{
		Name:            strings.TrimSpace(req.Name),
		Email:           strings.ToLower(strings.TrimSpace(req.Email)),
		Role:            req.Role,
		Active:          true,
		MustSetPassword: true,
	}

	if err := s.repo.Create(ctx, &user); err != nil {
		s.logger.Error().Err(err).Msg("failed to create account")
		return dto.UserResponse{}, err
	}

	if err := s.recorder.Record(ctx, actor, AuditEntry{
		Action:    audit.ActionCreateUser,
		Details:   &audit.UserDetails{ID: user.ID},
		IPAddress: client.IP,
		UserAgent: client.UserAgent,
	}); err != nil {
		return dto.UserResponse{}, err
	}

	return dto.NewUserResponse(user), nil
}

func (s *userService) Deactivate(ctx context.Context, actor *Actor, id string, client ClientInfo) error {
	return s.setActive(ctx, actor, id, false, client)
}

func (s *userService) Reactivate(ctx context.Context, actor *Actor, id string, client ClientInfo) error {
	return s.setActive(ctx, actor, id, true, client)
}

func (s *userService) setActive(ctx context.Context, actor *Actor, id string, active bool, client ClientInfo) error {
	user, err := s.repo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrNotFound
		}
		return err
	}

	user.Active = active
	if err := s.repo.Update(ctx, &user); err != nil {
		s.logger.Error().Err(err).Msg("failed to update account state")
		return err
	}

	action := audit.ActionDeactivateUser
	if active {
		action = audit.ActionReactivateUser
	}
	return s.recorder.Record(ctx, actor, AuditEntry{
		Action:    action,
		Details:   &audit.UserDetails{ID: user.ID},
		IPAddress: client.IP,
		UserAgent: client.UserAgent,
	})
}

func (s *userService) UpdateRole(ctx context.Context, actor *Actor, id string, req dto.UpdateRoleRequest, client ClientInfo) error {
	if err := s.validator.Struct(req); err != nil {
		return err
	}
	if !models.IsValidRole(req.Role) {
		return fmt.Errorf("unknown role %q", req.Role)
	}

	user, err := s.repo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrNotFound
		}
		return err
	}

	previous := user.Role
	if previous == req.Role {
		return nil
	}

	user.Role = req.Role
	if err := s.repo.Update(ctx, &user); err != nil {
		s.logger.Error().Err(err).Msg("failed to update role")
		return err
	}

	return s.recorder.Record(ctx, actor, AuditEntry{
		Action:    audit.ActionUpdateRole,
		Details:   &audit.RoleChangeDetails{UserID: user.ID, From: previous, To: req.Role},
		IPAddress: client.IP,
		UserAgent: client.UserAgent,
	})
}

func (s *userService) Delete(ctx context.Context, actor *Actor, id string, client ClientInfo) error {
	if _, err := s.repo.GetByID(ctx, id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrNotFound
		}
		return err
	}

	if err := s.repo.Delete(ctx, id); err != nil {
		s.logger.Error().Err(err).Msg("failed to delete account")
		return err
	}

	return s.recorder.Record(ctx, actor, AuditEntry{
		Action:    audit.ActionDeleteUser,
		Details:   &audit.UserDetails{ID: id},
		IPAddress: client.IP,
		UserAgent: client.UserAgent,
	})
}

func (s *userService) UpdateProfile(ctx context.Context, actor *Actor, req dto.UpdateProfileRequest, client ClientInfo) (dto.UserResponse, error) {
	if actor == nil {
		return dto.UserResponse{}, ErrUnauthorized
	}
	if err := s.validator.Struct(req); err != nil {
		return dto.UserResponse{}, err
	}

	user, err := s.repo.GetByID(ctx, actor.ID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return dto.UserResponse{}, ErrNotFound
		}
		return dto.UserResponse{}, err
	}

	if req.Name != nil {
		user.Name = strings.TrimSpace(*req.Name)
	}
	if req.Email != nil {
		user.Email = strings.ToLower(strings.TrimSpace(*req.Email))
	}

	if err := s.repo.Update(ctx, &user); err != nil {
		s.logger.Error().Err(err).Msg("failed to update profile")
		return dto.UserResponse{}, err
	}

	if err := s.recorder.Record(ctx, actor, AuditEntry{
		Action:    audit.ActionUpdateProfile,
		Details:   &audit.UserDetails{ID: user.ID},
		IPAddress: client.IP,
		UserAgent: client.UserAgent,
	}); err != nil {
		return dto.UserResponse{}, err
	}

	return dto.NewUserResponse(user), nil
}

func (s *userService) Get(ctx context.Context, id string) (dto.UserResponse, error) {
	user, err := s.repo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return dto.UserResponse{}, ErrNotFound
		}
		return dto.UserResponse{}, err
	}
	return dto.NewUserResponse(user), nil
}

func (s *userService) List(ctx context.Context) ([]dto.UserResponse, error) {
	users, err := s.repo.List(ctx)
	if err != nil {
		return nil, err
	}

	responses := make([]dto.UserResponse, 0, len(users))
	for _, user := range users {
		responses = append(responses, dto.NewUserResponse(user))
	}
	return responses, nil
}
