package jobsearch

import (
	"context"

	"jobboard_backend/internal/models"
)

const SourceExternal = "external"

// Query - запрос к внешнему провайдеру
type Query struct {
	Text     string
	Location string
}

// Provider - внешний источник вакансий. Ошибка означает, что ветка external
// будет пустой, агрегатор её не пробрасывает.
type Provider interface {
	Name() string
	Search(ctx context.Context, q Query) ([]models.ExternalListing, error)
}
