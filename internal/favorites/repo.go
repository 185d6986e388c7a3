package favorites

import (
	"context"

	"github.com/angelmondragon/autosallon-backend/pkg/db/models"
	"github.com/angelmondragon/autosallon-backend/pkg/pagination"
	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// Repository encapsulates favorite persistence.
type Repository struct {
	db *gorm.DB
}

// NewRepository constructs a favorites repository bound to the provided gorm DB.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// WithTx returns a repository bound to the provided transaction.
func (r *Repository) WithTx(tx *gorm.DB) *Repository {
	return &Repository{db: tx}
}

// Add inserts the user-vehicle link and ignores duplicates.
func (r *Repository) Add(ctx context.Context, userID, vehicleID uuid.UUID) error {
	if userID == uuid.Nil || vehicleID == uuid.Nil {
		return gorm.ErrInvalidValue
	}
	return r.db.WithContext(ctx).
		Clauses(clause.OnConflict{DoNothing: true}).
		Create(&models.Favorite{UserID: userID, VehicleID: vehicleID}).
		Error
}

// Remove deletes the link if it exists and reports whether a row was removed.
func (r *Repository) Remove(ctx context.Context, userID, vehicleID uuid.UUID) (bool, error) {
	res := r.db.WithContext(ctx).
		Where("user_id = ? AND vehicle_id = ?", userID, vehicleID).
		Delete(&models.Favorite{})
	return res.RowsAffected > 0, res.Error
}

func (r *Repository) Exists(ctx context.Context, userID, vehicleID uuid.UUID) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&models.Favorite{}).
		Where("user_id = ? AND vehicle_id = ?", userID, vehicleID).
		Count(&count).Error
	return count > 0, err
}

// ListVehicles returns one page of a user's favorited vehicles, most recently
// favorited first, and the total number of favorites.
func (r *Repository) ListVehicles(ctx context.Context, userID uuid.UUID, params pagination.Params) ([]models.Vehicle, int64, error) {
	params = pagination.Normalize(params)
	var total int64
	if err := r.db.WithContext(ctx).
		Model(&models.Favorite{}).
		Joins("JOIN vehicles ON vehicles.id = favorites.vehicle_id").
		Where("favorites.user_id = ?", userID).
		Count(&total).Error; err != nil {
		return nil, 0, err
	}

	items := []models.Vehicle{}
	if total == 0 {
		return items, 0, nil
	}
	err := r.db.WithContext(ctx).
		Model(&models.Vehicle{}).
		Select("vehicles.*").
		Joins("JOIN favorites ON favorites.vehicle_id = vehicles.id").
		Where("favorites.user_id = ?", userID).
		Order("favorites.created_at DESC").
		Order("favorites.id DESC").
		Offset(params.Offset()).
		Limit(params.PerPage).
		Find(&items).Error
	return items, total, err
}
