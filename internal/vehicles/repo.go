package vehicles

import (
	"context"

	"github.com/angelmondragon/autosallon-backend/pkg/db/models"
	"github.com/angelmondragon/autosallon-backend/pkg/pagination"
	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// Repository persists vehicles.
type Repository struct {
	db *gorm.DB
}

// NewRepository builds a repository tied to the provided GORM DB.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// WithTx returns a repository bound to the provided transaction.
func (r *Repository) WithTx(tx *gorm.DB) *Repository {
	return &Repository{db: tx}
}

func (r *Repository) Create(ctx context.Context, v *models.Vehicle) error {
	return r.db.WithContext(ctx).Create(v).Error
}

// Save writes every column of an existing vehicle.
func (r *Repository) Save(ctx context.Context, v *models.Vehicle) error {
	return r.db.WithContext(ctx).Save(v).Error
}

// Delete removes the vehicle and reports whether a row existed.
func (r *Repository) Delete(ctx context.Context, id uuid.UUID) (bool, error) {
	res := r.db.WithContext(ctx).Where("id = ?", id).Delete(&models.Vehicle{})
	return res.RowsAffected > 0, res.Error
}

// FindByID returns gorm.ErrRecordNotFound when the vehicle is missing.
func (r *Repository) FindByID(ctx context.Context, id uuid.UUID) (*models.Vehicle, error) {
	var v models.Vehicle
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&v).Error; err != nil {
		return nil, err
	}
	return &v, nil
}

// Exists reports whether a vehicle with the id is stored.
func (r *Repository) Exists(ctx context.Context, id uuid.UUID) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&models.Vehicle{}).Where("id = ?", id).Count(&count).Error
	return count > 0, err
}

// ListLatest pages vehicles newest first.
func (r *Repository) ListLatest(ctx context.Context, params pagination.Params) ([]models.Vehicle, int64, error) {
	params = pagination.Normalize(params)
	var total int64
	if err := r.db.WithContext(ctx).Model(&models.Vehicle{}).Count(&total).Error; err != nil {
		return nil, 0, err
	}
	items := []models.Vehicle{}
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

// ListIDs returns every vehicle id in creation order.
func (r *Repository) ListIDs(ctx context.Context) ([]uuid.UUID, error) {
	var ids []uuid.UUID
	err := r.db.WithContext(ctx).Model(&models.Vehicle{}).Order("created_at ASC, id ASC").Pluck("id", &ids).Error
	return ids, err
}

// FindByIDs loads the vehicles with the given ids in arbitrary order.
func (r *Repository) FindByIDs(ctx context.Context, ids []uuid.UUID) ([]models.Vehicle, error) {
	items := []models.Vehicle{}
	if len(ids) == 0 {
		return items, nil
	}
	err := r.db.WithContext(ctx).Where("id IN ?", ids).Find(&items).Error
	return items, err
}

// UpsertByExternalKey inserts the vehicle or, when a row with the same
// (source, external_id) exists, overwrites its attributes. Reports whether a
// new row was created.
func (r *Repository) UpsertByExternalKey(ctx context.Context, v *models.Vehicle) (bool, error) {
	var existing models.Vehicle
	err := r.db.WithContext(ctx).
		Where("source = ? AND external_id = ?", v.Source, v.ExternalID).
		Limit(1).
		Find(&existing).Error
	if err != nil {
		return false, err
	}
	if existing.ID == uuid.Nil {
		return true, r.db.WithContext(ctx).Create(v).Error
	}

	v.ID = existing.ID
	v.CreatedAt = existing.CreatedAt
	err = r.db.WithContext(ctx).
		Model(&models.Vehicle{}).
		Where("id = ?", existing.ID).
		Select("*").
		Omit("id", "created_at").
		Updates(v).Error
	return false, err
}

// DeleteAll truncates the catalog and returns the number of removed rows.
func (r *Repository) DeleteAll(ctx context.Context) (int64, error) {
	res := r.db.WithContext(ctx).Session(&gorm.Session{AllowGlobalUpdate: true}).Delete(&models.Vehicle{})
	return res.RowsAffected, res.Error
}

// LockByID loads the vehicle with a row lock inside a transaction.
func (r *Repository) LockByID(ctx context.Context, id uuid.UUID) (*models.Vehicle, error) {
	var v models.Vehicle
	q := r.db.WithContext(ctx)
	if q.Dialector.Name() == "postgres" {
		q = q.Clauses(clause.Locking{Strength: "UPDATE"})
	}
	if err := q.Where("id = ?", id).First(&v).Error; err != nil {
		return nil, err
	}
	return &v, nil
}
