package models

import (
	"time"

	dbtypes "github.com/angelmondragon/autosallon-backend/pkg/db/types"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Vehicle is a catalog listing.
type Vehicle struct {
	ID           uuid.UUID          `gorm:"column:id;type:uuid;primaryKey"`
	Manufacturer string             `gorm:"column:manufacturer;not null;index:vehicles_manufacturer_model_idx,priority:1"`
	Model        string             `gorm:"column:model;not null;index:vehicles_manufacturer_model_idx,priority:2"`
	Trim         *string            `gorm:"column:trim"`
	Year         *int               `gorm:"column:year;index:vehicles_year_idx"`
	Price        *int               `gorm:"column:price;index:vehicles_price_idx"`
	Mileage      *int               `gorm:"column:mileage;index:vehicles_mileage_idx"`
	Fuel         *string            `gorm:"column:fuel;index:vehicles_fuel_idx"`
	Color        *string            `gorm:"column:color"`
	Transmission *string            `gorm:"column:transmission;index:vehicles_transmission_idx"`
	Seats        *int               `gorm:"column:seats"`
	VIN          *string            `gorm:"column:vin;index:vehicles_vin_idx"`
	EngineCC     *int               `gorm:"column:engine_cc"`
	Images       dbtypes.StringList `gorm:"column:images;not null"`
	ListingURL   *string            `gorm:"column:listing_url"`
	Features     *string            `gorm:"column:features"`
	ReportURLs   *string            `gorm:"column:report_urls"`
	Source       *string            `gorm:"column:source;uniqueIndex:vehicles_source_external_id_key,priority:1"`
	ExternalID   *string            `gorm:"column:external_id;uniqueIndex:vehicles_source_external_id_key,priority:2"`
	CreatedAt    time.Time          `gorm:"column:created_at;autoCreateTime;index:vehicles_created_at_idx"`
	UpdatedAt    time.Time          `gorm:"column:updated_at;autoUpdateTime"`
}

func (v *Vehicle) BeforeCreate(*gorm.DB) error {
	if v.ID == uuid.Nil {
		v.ID = uuid.New()
	}
	if v.Images == nil {
		v.Images = dbtypes.StringList{}
	}
	return nil
}
