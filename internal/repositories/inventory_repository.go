package repositories

import (
	"context"
	"errors"
	"fmt"

	"jobboard_backend/internal/models"

	"gorm.io/gorm"
)

var ErrInventoryItemNotFound = errors.New("inventory item not found")

type InventoryRepository interface {
	List(ctx context.Context) ([]models.InventoryItem, error)
	FindByID(ctx context.Context, id uint) (*models.InventoryItem, error)
	Create(ctx context.Context, item *models.InventoryItem) error
	Update(ctx context.Context, item *models.InventoryItem) error
	Delete(ctx context.Context, id uint) error
}

type InventoryRepositoryImpl struct {
	db *gorm.DB
}

func NewInventoryRepository(db *gorm.DB) *InventoryRepositoryImpl {
	return &InventoryRepositoryImpl{db: db}
}

func (r *InventoryRepositoryImpl) List(ctx context.Context) ([]models.InventoryItem, error) {
	items := []models.InventoryItem{}
	if err := r.db.WithContext(ctx).Order("id ASC").Find(&items).Error; err != nil {
		return nil, fmt.Errorf("failed to list inventory items: %w", err)
	}
	return items, nil
}

func (r *InventoryRepositoryImpl) FindByID(ctx context.Context, id uint) (*models.InventoryItem, error) {
	var item models.InventoryItem
	if err := r.db.WithContext(ctx).First(&item, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrInventoryItemNotFound
		}
		return nil, fmt.Errorf("failed to find inventory item: %w", err)
	}
	return &item, nil
}

func (r *InventoryRepositoryImpl) Create(ctx context.Context, item *models.InventoryItem) error {
	if err := r.db.WithContext(ctx).Create(item).Error; err != nil {
		return fmt.Errorf("failed to create inventory item: %w", err)
	}
	return nil
}

// Update сохраняет все поля, включая нулевое количество.
func (r *InventoryRepositoryImpl) Update(ctx context.Context, item *models.InventoryItem) error {
	res := r.db.WithContext(ctx).Model(&models.InventoryItem{ID: item.ID}).
		Select("name", "quantity", "tags", "attributes", "updated_at").
		Updates(item)
	if res.Error != nil {
		return fmt.Errorf("failed to update inventory item: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return ErrInventoryItemNotFound
	}
	return nil
}

func (r *InventoryRepositoryImpl) Delete(ctx context.Context, id uint) error {
	res := r.db.WithContext(ctx).Delete(&models.InventoryItem{}, id)
	if res.Error != nil {
		return fmt.Errorf("failed to delete inventory item: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return ErrInventoryItemNotFound
	}
	return nil
}

var _ InventoryRepository = (*InventoryRepositoryImpl)(nil)
