package models

import (
	"time"

	dbtypes "github.com/angelmondragon/autosallon-backend/pkg/db/types"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// InStockItem is a showroom item (parts, accessories) sold outside the vehicle catalog.
type InStockItem struct {
	ID          uuid.UUID          `gorm:"column:id;type:uuid;primaryKey"`
	Name        string             `gorm:"column:name;not null"`
	Description *string            `gorm:"column:description"`
	Price       *int               `gorm:"column:price"`
	Images      dbtypes.StringList `gorm:"column:images;not null"`
	CreatedAt   time.Time          `gorm:"column:created_at;autoCreateTime;index:instock_items_created_at_idx"`
	UpdatedAt   time.Time          `gorm:"column:updated_at;autoUpdateTime"`
}

func (InStockItem) TableName() string {
	return "instock_items"
}

func (i *InStockItem) BeforeCreate(*gorm.DB) error {
	if i.ID == uuid.Nil {
		i.ID = uuid.New()
	}
	if i.Images == nil {
		i.Images = dbtypes.StringList{}
	}
	return nil
}
