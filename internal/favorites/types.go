package favorites

import (
	"github.com/angelmondragon/autosallon-backend/internal/vehicles"
	"github.com/angelmondragon/autosallon-backend/pkg/enums"
	"github.com/angelmondragon/autosallon-backend/pkg/pagination"
	"github.com/google/uuid"
)

// ToggleResult is returned by the favorite toggle endpoint.
type ToggleResult struct {
	Status    enums.FavoriteStatus `json:"status"`
	Favorited bool                 `json:"favorited"`
	VehicleID uuid.UUID            `json:"vehicle_id"`
}

// Page is one page of a user's saved vehicles.
type Page struct {
	Items      []vehicles.VehicleView `json:"items"`
	Pagination pagination.Window      `json:"pagination"`
}
