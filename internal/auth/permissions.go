package auth

import (
	"jobboard_backend/internal/models"
	"jobboard_backend/pkg/apperrors"
)

type Permission string

const (
	PermJobsCreate         Permission = "jobs:create"
	PermJobsManage         Permission = "jobs:manage"
	PermApplicationsSubmit Permission = "applications:submit"
	PermApplicationsReview Permission = "applications:review"
	PermApplicationsOwn    Permission = "applications:read:self"
)

// Permissions - единственная таблица прав. Роли закрыты, см. models.UserRole.
var Permissions = map[models.UserRole][]Permission{
	models.UserRoleEmployer: {
		PermJobsCreate,
		PermJobsManage,
		PermApplicationsReview,
	},
	models.UserRoleJobseeker: {
		PermApplicationsSubmit,
		PermApplicationsOwn,
	},
}

// HasPermission проверяет есть ли у роли указанное разрешение
func HasPermission(role models.UserRole, permission Permission) bool {
	for _, p := range Permissions[role] {
		if p == permission {
			return true
		}
	}
	return false
}

// Authorize - общая проверка прав для middleware и сервисов.
func Authorize(identity *Identity, permission Permission) error {
	if identity == nil {
		return apperrors.NewUnauthorizedError("User not authenticated")
	}
	if !HasPermission(identity.Role, permission) {
		return apperrors.ErrForbiddenRole
	}
	return nil
}
