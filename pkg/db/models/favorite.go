package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Favorite links a user to a saved vehicle.
type Favorite struct {
	ID        uuid.UUID `gorm:"column:id;type:uuid;primaryKey"`
	UserID    uuid.UUID `gorm:"column:user_id;type:uuid;not null;index:favorites_user_id_idx;uniqueIndex:favorites_user_vehicle_key"`
	VehicleID uuid.UUID `gorm:"column:vehicle_id;type:uuid;not null;index:favorites_vehicle_id_idx;uniqueIndex:favorites_user_vehicle_key"`
	CreatedAt time.Time `gorm:"column:created_at;autoCreateTime"`
}

func (f *Favorite) BeforeCreate(*gorm.DB) error {
	if f.ID == uuid.Nil {
		f.ID = uuid.New()
	}
	return nil
}

// All lists every persisted model, in dependency order, for AutoMigrate.
func All() []any {
	return []any{&User{}, &Vehicle{}, &InStockItem{}, &Favorite{}}
}
