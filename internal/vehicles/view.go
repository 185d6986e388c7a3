package vehicles

import (
	"strconv"
	"strings"
	"time"

	"github.com/angelmondragon/autosallon-backend/pkg/db/models"
	"github.com/angelmondragon/autosallon-backend/pkg/imagelist"
	"github.com/google/uuid"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

const (
	emptyDisplay   = "—"
	maxDetailPerks = 24
)

// German grouping renders 12345 as "12.345", the way prices are quoted on the lot.
var numberPrinter = message.NewPrinter(language.German)

// VehicleView is the public card representation of a vehicle.
type VehicleView struct {
	ID               uuid.UUID `json:"id"`
	Manufacturer     string    `json:"manufacturer"`
	Model            string    `json:"model"`
	Trim             *string   `json:"trim,omitempty"`
	Year             *int      `json:"year,omitempty"`
	Price            *int      `json:"price,omitempty"`
	Mileage          *int      `json:"mileage,omitempty"`
	Fuel             *string   `json:"fuel,omitempty"`
	Color            *string   `json:"color,omitempty"`
	Transmission     *string   `json:"transmission,omitempty"`
	Seats            *int      `json:"seats,omitempty"`
	VIN              *string   `json:"vin,omitempty"`
	EngineCC         *int      `json:"engine_cc,omitempty"`
	Images           []string  `json:"images"`
	MainImage        string    `json:"main_image"`
	ListingURL       *string   `json:"listing_url,omitempty"`
	DisplayTitle     string    `json:"display_title"`
	PriceFormatted   string    `json:"price_formatted"`
	MileageFormatted string    `json:"mileage_formatted"`
	CreatedAt        time.Time `json:"created_at"`
}

// DetailView extends the card with the listing page extras.
type DetailView struct {
	VehicleView
	Features  []string `json:"features"`
	ReportURL string   `json:"report_url,omitempty"`
	Favorited bool     `json:"favorited"`
}

// NewVehicleView maps a persisted vehicle to its public card.
func NewVehicleView(v models.Vehicle, placeholder string) VehicleView {
	images := imagelist.Clean(v.Images)
	return VehicleView{
		ID:               v.ID,
		Manufacturer:     v.Manufacturer,
		Model:            v.Model,
		Trim:             v.Trim,
		Year:             v.Year,
		Price:            v.Price,
		Mileage:          v.Mileage,
		Fuel:             v.Fuel,
		Color:            v.Color,
		Transmission:     v.Transmission,
		Seats:            v.Seats,
		VIN:              v.VIN,
		EngineCC:         v.EngineCC,
		Images:           images,
		MainImage:        imagelist.Main(images, placeholder),
		ListingURL:       v.ListingURL,
		DisplayTitle:     DisplayTitle(v),
		PriceFormatted:   FormatPrice(v.Price),
		MileageFormatted: FormatMileage(v.Mileage),
		CreatedAt:        v.CreatedAt,
	}
}

// NewVehicleViews maps a page of vehicles.
func NewVehicleViews(list []models.Vehicle, placeholder string) []VehicleView {
	out := make([]VehicleView, 0, len(list))
	for _, v := range list {
		out = append(out, NewVehicleView(v, placeholder))
	}
	return out
}

// NewDetailView builds the listing page view.
func NewDetailView(v models.Vehicle, placeholder string, favorited bool) DetailView {
	view := DetailView{
		VehicleView: NewVehicleView(v, placeholder),
		Features:    []string{},
		Favorited:   favorited,
	}
	if v.Features != nil {
		view.Features = imagelist.SplitFeatures(*v.Features, maxDetailPerks)
	}
	if v.ReportURLs != nil {
		view.ReportURL = imagelist.FirstReport(*v.ReportURLs)
	}
	return view
}

// DisplayTitle renders "<year> <manufacturer> <model>", skipping blanks.
func DisplayTitle(v models.Vehicle) string {
	parts := make([]string, 0, 3)
	if v.Year != nil && *v.Year > 0 {
		parts = append(parts, strconv.Itoa(*v.Year))
	}
	for _, p := range []string{v.Manufacturer, v.Model} {
		if trimmed := strings.TrimSpace(p); trimmed != "" {
			parts = append(parts, trimmed)
		}
	}
	return strings.Join(parts, " ")
}

// FormatPrice renders "€12.345", or a dash when the price is unknown.
func FormatPrice(price *int) string {
	if price == nil || *price == 0 {
		return emptyDisplay
	}
	return "€" + numberPrinter.Sprintf("%d", *price)
}

// FormatMileage renders "12.345 km", or a dash when the mileage is unknown.
func FormatMileage(km *int) string {
	if km == nil || *km == 0 {
		return emptyDisplay
	}
	return numberPrinter.Sprintf("%d", *km) + " km"
}
