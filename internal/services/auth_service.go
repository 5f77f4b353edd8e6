package services

import (
	"context"
	"errors"
	"strings"
	"time"

	"jobboard_backend/internal/auth"
	"jobboard_backend/internal/dto"
	"jobboard_backend/internal/logger"
	"jobboard_backend/internal/models"
	"jobboard_backend/internal/repositories"
	"jobboard_backend/pkg/apperrors"
)

type AuthService interface {
	Register(ctx context.Context, req *dto.RegisterRequest) (*dto.AuthResponse, error)
	Login(ctx context.Context, req *dto.LoginRequest) (*dto.AuthResponse, error)
	Verify(token string) (*auth.Identity, error)
	GetProfile(ctx context.Context, identity *auth.Identity) (*models.User, error)
	UpdateProfile(ctx context.Context, identity *auth.Identity, req *dto.UpdateProfileRequest) (*models.User, error)
}

type AuthServiceImpl struct {
	userRepo repositories.UserRepository
	tokens   *auth.TokenManager
	now      func() time.Time
}

func NewAuthService(userRepo repositories.UserRepository, tokens *auth.TokenManager) AuthService {
	return &AuthServiceImpl{
		userRepo: userRepo,
		tokens:   tokens,
		now:      time.Now,
	}
}

// Register - регистрация нового пользователя
func (s *AuthServiceImpl) Register(ctx context.Context, req *dto.RegisterRequest) (*dto.AuthResponse, error) {
	email := normalizeEmail(req.Email)

	if !req.Role.IsValid() {
		return nil, apperrors.ValidationError(map[string]string{"role": "must be one of: employer, jobseeker"})
	}
	company := strings.TrimSpace(req.Company)
	if req.Role == models.UserRoleEmployer && company == "" {
		return nil, apperrors.ValidationError(map[string]string{"company": "This field is required"})
	}
	if req.Role != models.UserRoleEmployer {
		company = ""
	}

	// Быстрая проверка. Гонку закрывает уникальный индекс.
	if _, err := s.userRepo.FindByEmail(ctx, email); err == nil {
		return nil, apperrors.ErrDuplicateEmail
	} else if !errors.Is(err, repositories.ErrUserNotFound) {
		return nil, apperrors.DatabaseError(err)
	}

	hash, err := auth.HashPassword(req.Password)
	if err != nil {
		return nil, apperrors.InternalError(err)
	}

	now := s.now().UTC()
	user := &models.User{
		Email:        email,
		PasswordHash: hash,
		FirstName:    strings.TrimSpace(req.FirstName),
		LastName:     strings.TrimSpace(req.LastName),
		Role:         req.Role,
		Company:      company,
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	if err := s.userRepo.Create(ctx, user); err != nil {
		return nil, mapRepoError(err)
	}

	logger.CtxInfo(ctx, "✅ User registered", "user_id", user.ID.Hex(), "role", user.Role)

	return s.issue(user)
}

// Login - аутентификация пользователя
func (s *AuthServiceImpl) Login(ctx context.Context, req *dto.LoginRequest) (*dto.AuthResponse, error) {
	user, err := s.userRepo.FindByEmail(ctx, normalizeEmail(req.Email))
	if err != nil {
		if errors.Is(err, repositories.ErrUserNotFound) {
			auth.BurnCompare(req.Password)
			return nil, apperrors.ErrInvalidCredentials
		}
		return nil, apperrors.DatabaseError(err)
	}

	if !auth.CheckPasswordHash(req.Password, user.PasswordHash) {
		return nil, apperrors.ErrInvalidCredentials
	}

	return s.issue(user)
}

func (s *AuthServiceImpl) Verify(token string) (*auth.Identity, error) {
	return s.tokens.ParseToken(token)
}

func (s *AuthServiceImpl) GetProfile(ctx context.Context, identity *auth.Identity) (*models.User, error) {
	if identity == nil {
		return nil, apperrors.NewUnauthorizedError("User not authenticated")
	}
	user, err := s.userRepo.FindByID(ctx, identity.UserID)
	if err != nil {
		return nil, mapRepoError(err)
	}
	return user, nil
}

// UpdateProfile - частичное обновление. Роль, email и резюме здесь не меняются.
func (s *AuthServiceImpl) UpdateProfile(ctx context.Context, identity *auth.Identity, req *dto.UpdateProfileRequest) (*models.User, error) {
	user, err := s.GetProfile(ctx, identity)
	if err != nil {
		return nil, err
	}

	if req.FirstName != nil {
		user.FirstName = strings.TrimSpace(*req.FirstName)
	}
	if req.LastName != nil {
		user.LastName = strings.TrimSpace(*req.LastName)
	}
	if req.Company != nil {
		if user.Role != models.UserRoleEmployer {
			return nil, apperrors.ValidationError(map[string]string{"company": "Only employers have a company"})
		}
		user.Company = strings.TrimSpace(*req.Company)
	}
	if req.Phone != nil {
		user.Profile.Phone = strings.TrimSpace(*req.Phone)
	}
	if req.Location != nil {
		user.Profile.Location = strings.TrimSpace(*req.Location)
	}
	if req.Bio != nil {
		user.Profile.Bio = *req.Bio
	}
	if req.Skills != nil {
		user.Profile.Skills = req.Skills
	}
	if req.Experience != nil {
		user.Profile.Experience = req.Experience
	}
	user.UpdatedAt = s.now().UTC()

	if err := s.userRepo.UpdateProfile(ctx, user); err != nil {
		return nil, mapRepoError(err)
	}
	return user, nil
}

func (s *AuthServiceImpl) issue(user *models.User) (*dto.AuthResponse, error) {
	token, err := s.tokens.GenerateToken(user)
	if err != nil {
		return nil, apperrors.InternalError(err)
	}
	return &dto.AuthResponse{Token: token, User: user}, nil
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
