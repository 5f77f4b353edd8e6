package dto

import "jobboard_backend/internal/models"

type RegisterRequest struct {
	Email     string          `json:"email" validate:"required,email,max=254"`
	Password  string          `json:"password" validate:"required,max=72"`
	FirstName string          `json:"firstName" validate:"required,max=100"`
	LastName  string          `json:"lastName" validate:"required,max=100"`
	Role      models.UserRole `json:"role" validate:"required,is-user-role"`
	Company   string          `json:"company" validate:"required_if=Role employer,max=200"`
}

type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

type AuthResponse struct {
	Token string       `json:"token"`
	User  *models.User `json:"user"`
}

// UpdateProfileRequest - частичное обновление. nil-поля не трогаются.
// Роль и резюме здесь не меняются.
type UpdateProfileRequest struct {
	FirstName  *string             `json:"firstName" validate:"omitempty,min=1,max=100"`
	LastName   *string             `json:"lastName" validate:"omitempty,min=1,max=100"`
	Company    *string             `json:"company" validate:"omitempty,min=1,max=200"`
	Phone      *string             `json:"phone" validate:"omitempty,max=40"`
	Location   *string             `json:"location" validate:"omitempty,max=200"`
	Bio        *string             `json:"bio" validate:"omitempty,max=2000"`
	Skills     []string            `json:"skills" validate:"omitempty,max=50,dive,min=1,max=60"`
	Experience []models.Experience `json:"experience" validate:"omitempty,max=30"`
}
