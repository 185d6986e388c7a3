package vehicles

import (
	"strings"
	"time"

	"github.com/angelmondragon/autosallon-backend/pkg/db/models"
	"github.com/angelmondragon/autosallon-backend/pkg/imagelist"
)

// VehicleInput is the admin create/update payload. Updates replace every
// field; Images is the only field left untouched when omitted.
type VehicleInput struct {
	Manufacturer string          `json:"manufacturer" validate:"required,notblank,max=100"`
	Model        string          `json:"model" validate:"required,notblank,max=100"`
	Trim         *string         `json:"trim" validate:"omitempty,max=150"`
	Year         *int            `json:"year" validate:"omitempty,min=1900,max=2100"`
	Price        *int            `json:"price" validate:"omitempty,min=0"`
	Mileage      *int            `json:"mileage" validate:"omitempty,min=0"`
	Fuel         *string         `json:"fuel" validate:"omitempty,max=50"`
	Color        *string         `json:"color" validate:"omitempty,max=50"`
	Transmission *string         `json:"transmission" validate:"omitempty,max=50"`
	Seats        *int            `json:"seats" validate:"omitempty,min=1,max=9"`
	VIN          *string         `json:"vin" validate:"omitempty,max=64"`
	EngineCC     *int            `json:"engine_cc" validate:"omitempty,min=0,max=10000"`
	Images       *imagelist.List `json:"images"`
	ListingURL   *string         `json:"listing_url" validate:"omitempty,url,max=2048"`
	Features     *string         `json:"features" validate:"omitempty,max=5000"`
	ReportURLs   *string         `json:"report_urls" validate:"omitempty,max=5000"`
}

// Normalize trims strings and turns blanks into nil.
func (in VehicleInput) Normalize() VehicleInput {
	in.Manufacturer = strings.TrimSpace(in.Manufacturer)
	in.Model = strings.TrimSpace(in.Model)
	for _, field := range []**string{&in.Trim, &in.Fuel, &in.Color, &in.Transmission, &in.VIN, &in.ListingURL, &in.Features, &in.ReportURLs} {
		*field = blankToNil(*field)
	}
	return in
}

// apply copies the input onto the model, replacing every attribute.
func (in VehicleInput) apply(v *models.Vehicle) {
	v.Manufacturer = in.Manufacturer
	v.Model = in.Model
	v.Trim = in.Trim
	v.Year = in.Year
	v.Price = in.Price
	v.Mileage = in.Mileage
	v.Fuel = in.Fuel
	v.Color = in.Color
	v.Transmission = in.Transmission
	v.Seats = in.Seats
	v.VIN = in.VIN
	v.EngineCC = in.EngineCC
	v.ListingURL = in.ListingURL
	v.Features = in.Features
	v.ReportURLs = in.ReportURLs
	if in.Images != nil {
		v.Images = imagelist.Clean(*in.Images)
	}
}

// VehicleDTO is the admin representation, including the raw edit fields.
type VehicleDTO struct {
	VehicleView
	Features   *string   `json:"features,omitempty"`
	ReportURLs *string   `json:"report_urls,omitempty"`
	ImagesText string    `json:"images_text"`
	Source     *string   `json:"source,omitempty"`
	ExternalID *string   `json:"external_id,omitempty"`
	UpdatedAt  time.Time `json:"updated_at"`
}

// NewVehicleDTO maps a model to the admin DTO.
func NewVehicleDTO(v models.Vehicle, placeholder string) *VehicleDTO {
	return &VehicleDTO{
		VehicleView: NewVehicleView(v, placeholder),
		Features:    v.Features,
		ReportURLs:  v.ReportURLs,
		ImagesText:  imagelist.Join(v.Images),
		Source:      v.Source,
		ExternalID:  v.ExternalID,
		UpdatedAt:   v.UpdatedAt,
	}
}

// ListResult is one admin page of vehicles.
type ListResult struct {
	Items    []VehicleDTO `json:"items"`
	Total    int64        `json:"total"`
	Page     int          `json:"page"`
	PerPage  int          `json:"per_page"`
	LastPage int          `json:"last_page"`
}

func blankToNil(s *string) *string {
	if s == nil {
		return nil
	}
	trimmed := strings.TrimSpace(*s)
	if trimmed == "" {
		return nil
	}
	return &trimmed
}
