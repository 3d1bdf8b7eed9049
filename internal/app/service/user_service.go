package service

import (
	"context"
	"fmt"
	"os"
	"time"

	"taskmanager/internal/common"
	"taskmanager/internal/common/security"
	"taskmanager/internal/domain/model"
	"taskmanager/internal/domain/repository"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

var logger = zerolog.New(os.Stdout).With().Timestamp().Logger()

// UserService backs the admin-only account endpoints plus the startup
// default-admin bootstrap.
type UserService struct {
	userRepo repository.UserRepository
}

func NewUserService(userRepo repository.UserRepository) *UserService {
	return &UserService{userRepo: userRepo}
}

type CreateUserRequest struct {
	Username    string `json:"username"`
	Email       string `json:"email"`
	Password    string `json:"password"`
	Role        string `json:"role"`
	Permissions string `json:"permissions"`
}

type UpdateUserRequest struct {
	Username    string `json:"username"`
	Email       string `json:"email"`
	Role        string `json:"role"`
	Permissions string `json:"permissions"`
}

func (s *UserService) ListUsers(ctx context.Context) ([]model.User, error) {
	users, err := s.userRepo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list users: %w", err)
	}
	for i := range users {
		users[i].HashedPassword = ""
	}
	return users, nil
}

func (s *UserService) CreateUser(ctx context.Context, req CreateUserRequest) (*model.User, error) {
	if req.Username == "" || req.Email == "" || req.Password == "" {
		return nil, fmt.Errorf("username, email and password are required: %w", common.ErrValidation)
	}
	role := req.Role
	if role == "" {
		role = model.RoleUser
	}
	permissions := req.Permissions
	if permissions == "" {
		permissions = model.PermissionRead
	}
	if !model.ValidRole(role) {
		return nil, fmt.Errorf("invalid role %q: %w", role, common.ErrValidation)
	}
	if !model.ValidPermission(permissions) {
		return nil, fmt.Errorf("invalid permissions %q: %w", permissions, common.ErrValidation)
	}

	exists, err := s.userRepo.ExistsByUsernameOrEmail(ctx, req.Username, req.Email)
	if err != nil {
		return nil, fmt.Errorf("failed to check existing user: %w", err)
	}
	if exists {
		return nil, fmt.Errorf("user already exists: %w", common.ErrConflict)
	}

	hashedPassword, err := security.HashPassword(req.Password)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	user := &model.User{
		ID:             uuid.NewString(),
		Username:       req.Username,
		Email:          req.Email,
		HashedPassword: hashedPassword,
		Role:           role,
		Permissions:    permissions,
		CreatedAt:      time.Now(),
	}
	if err := s.userRepo.Create(ctx, user); err != nil {
		return nil, fmt.Errorf("failed to create user: %w", err)
	}

	user.HashedPassword = ""
	return user, nil
}

// UpdateUser rewrites username/email/role/permissions. Empty fields keep their
// stored value; the password is never touched here.
func (s *UserService) UpdateUser(ctx context.Context, id string, req UpdateUserRequest) (*model.User, error) {
	user, err := s.userRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if req.Username != "" {
		user.Username = req.Username
	}
	if req.Email != "" {
		user.Email = req.Email
	}
	if req.Role != "" {
		if !model.ValidRole(req.Role) {
			return nil, fmt.Errorf("invalid role %q: %w", req.Role, common.ErrValidation)
		}
		user.Role = req.Role
	}
	if req.Permissions != "" {
		if !model.ValidPermission(req.Permissions) {
			return nil, fmt.Errorf("invalid permissions %q: %w", req.Permissions, common.ErrValidation)
		}
		user.Permissions = req.Permissions
	}

	if err := s.userRepo.Update(ctx, user); err != nil {
		return nil, err
	}

	user.HashedPassword = ""
	return user, nil
}

func (s *UserService) DeleteUser(ctx context.Context, id string) error {
	return s.userRepo.Delete(ctx, id)
}

// EnsureDefaultAdmin creates the fallback admin account when no admin exists.
// It runs on every startup and is a no-op once any admin is present.
func (s *UserService) EnsureDefaultAdmin(ctx context.Context, username, email, password string) error {
	exists, err := s.userRepo.AdminExists(ctx)
	if err != nil {
		return fmt.Errorf("failed to check for admin account: %w", err)
	}
	if exists {
		return nil
	}

	hashedPassword, err := security.HashPassword(password)
	if err != nil {
		return fmt.Errorf("failed to hash default admin password: %w", err)
	}

	admin := &model.User{
		ID:             uuid.NewString(),
		Username:       username,
		Email:          email,
		HashedPassword: hashedPassword,
		Role:           model.RoleAdmin,
		Permissions:    model.PermissionWrite,
		CreatedAt:      time.Now(),
	}
	if err := s.userRepo.Create(ctx, admin); err != nil {
		return fmt.Errorf("failed to create default admin: %w", err)
	}

	logger.Warn().
		Str("username", username).
		Str("password", password).
		Msg("Default admin user created; change the password immediately")
	return nil
}
