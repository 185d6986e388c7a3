package instocks

import (
	"context"

	"github.com/angelmondragon/autosallon-backend/pkg/db/models"
	"github.com/angelmondragon/autosallon-backend/pkg/pagination"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Repository persists in-stock items.
type Repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

func (r *Repository) Create(ctx context.Context, item *models.InStockItem) error {
	return r.db.WithContext(ctx).Create(item).Error
}

func (r *Repository) Save(ctx context.Context, item *models.InStockItem) error {
	return r.db.WithContext(ctx).Save(item).Error
}

// Delete reports whether a row was removed.
func (r *Repository) Delete(ctx context.Context, id uuid.UUID) (bool, error) {
	res := r.db.WithContext(ctx).Where("id = ?", id).Delete(&models.InStockItem{})
	return res.RowsAffected > 0, res.Error
}

func (r *Repository) FindByID(ctx context.Context, id uuid.UUID) (*models.InStockItem, error) {
	var item models.InStockItem
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&item).Error; err != nil {
		return nil, err
	}
	return &item, nil
}

// ListLatest pages items newest first.
func (r *Repository) ListLatest(ctx context.Context, params pagination.Params) ([]models.InStockItem, int64, error) {
	params = pagination.Normalize(params)
	var total int64
	if err := r.db.WithContext(ctx).Model(&models.InStockItem{}).Count(&total).Error; err != nil {
		return nil, 0, err
	}
	items := []models.InStockItem{}
	if total == 0 {
		return items, 0, nil
	}
	err := r.db.WithContext(ctx).
		Order("created_at DESC, id DESC").
		Offset(params.Offset()).
		Limit(params.PerPage).
		Find(&items).Error
	return items, total, err
}
