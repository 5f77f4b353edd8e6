package services

import (
	"context"
	"encoding/json"
	"strings"
	"time"

	"jobboard_backend/internal/dto"
	"jobboard_backend/internal/models"
	"jobboard_backend/internal/repositories"
	"jobboard_backend/pkg/apperrors"

	"github.com/lib/pq"
	"gorm.io/datatypes"
)

type InventoryService interface {
	List(ctx context.Context) ([]models.InventoryItem, error)
	Get(ctx context.Context, id uint) (*models.InventoryItem, error)
	Create(ctx context.Context, req *dto.InventoryItemRequest) (*models.InventoryItem, error)
	Update(ctx context.Context, id uint, req *dto.InventoryItemRequest) (*models.InventoryItem, error)
	Delete(ctx context.Context, id uint) error
}

type InventoryServiceImpl struct {
	repo repositories.InventoryRepository
	now  func() time.Time
}

func NewInventoryService(repo repositories.InventoryRepository) InventoryService {
	return &InventoryServiceImpl{repo: repo, now: time.Now}
}

func (s *InventoryServiceImpl) List(ctx context.Context) ([]models.InventoryItem, error) {
	items, err := s.repo.List(ctx)
	if err != nil {
		return nil, mapRepoError(err)
	}
	return items, nil
}

func (s *InventoryServiceImpl) Get(ctx context.Context, id uint) (*models.InventoryItem, error) {
	item, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, mapRepoError(err)
	}
	return item, nil
}

func (s *InventoryServiceImpl) Create(ctx context.Context, req *dto.InventoryItemRequest) (*models.InventoryItem, error) {
	item := &models.InventoryItem{}
	if err := applyInventoryRequest(item, req); err != nil {
		return nil, err
	}

	if err := s.repo.Create(ctx, item); err != nil {
		return nil, mapRepoError(err)
	}
	return item, nil
}

func (s *InventoryServiceImpl) Update(ctx context.Context, id uint, req *dto.InventoryItemRequest) (*models.InventoryItem, error) {
	item, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := applyInventoryRequest(item, req); err != nil {
		return nil, err
	}
	item.UpdatedAt = s.now().UTC()

	if err := s.repo.Update(ctx, item); err != nil {
		return nil, mapRepoError(err)
	}
	return item, nil
}

func (s *InventoryServiceImpl) Delete(ctx context.Context, id uint) error {
	return mapRepoError(s.repo.Delete(ctx, id))
}

func applyInventoryRequest(item *models.InventoryItem, req *dto.InventoryItemRequest) error {
	name := strings.TrimSpace(req.Name)
	if name == "" {
		return apperrors.ValidationError(map[string]string{"name": "This field is required"})
	}
	if req.Quantity == nil || *req.Quantity < 0 {
		return apperrors.ValidationError(map[string]string{"quantity": "Value must be greater than or equal to 0"})
	}

	item.Name = name
	item.Quantity = *req.Quantity
	item.Tags = pq.StringArray(req.Tags)
	if item.Tags == nil {
		item.Tags = pq.StringArray{}
	}

	item.Attributes = nil
	if len(req.Attributes) > 0 {
		raw, err := json.Marshal(req.Attributes)
		if err != nil {
			return apperrors.ValidationError(map[string]string{"attributes": "must be a JSON object"})
		}
		item.Attributes = datatypes.JSON(raw)
	}
	return nil
}
