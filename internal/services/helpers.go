package services

import (
	"errors"

	"jobboard_backend/internal/repositories"
	"jobboard_backend/pkg/apperrors"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// parseObjectID - некорректный ID неотличим от отсутствующей записи.
func parseObjectID(id string, notFound *apperrors.AppError) (primitive.ObjectID, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return primitive.NilObjectID, notFound
	}
	return oid, nil
}

// mapRepoError переводит sentinel-ошибки репозиториев в ошибки API.
func mapRepoError(err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, repositories.ErrJobNotFound):
		return apperrors.ErrJobNotFound
	case errors.Is(err, repositories.ErrApplicationNotFound):
		return apperrors.ErrApplicationNotFound
	case errors.Is(err, repositories.ErrUserNotFound):
		return apperrors.ErrUserNotFound
	case errors.Is(err, repositories.ErrUserAlreadyExists):
		return apperrors.ErrDuplicateEmail
	case errors.Is(err, repositories.ErrInventoryItemNotFound):
		return apperrors.ErrInventoryItemNotFound
	}
	return apperrors.DatabaseError(err)
}
