package search

import (
	"io"
	"testing"
	"time"

	"github.com/angelmondragon/autosallon-backend/pkg/config"
	"github.com/angelmondragon/autosallon-backend/pkg/db"
	"github.com/angelmondragon/autosallon-backend/pkg/db/dbtest"
	"github.com/angelmondragon/autosallon-backend/pkg/db/models"
	"github.com/angelmondragon/autosallon-backend/pkg/logger"
	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
)

var baseTime = time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC)

func newTestClient(t *testing.T) *db.Client {
	t.Helper()
	return dbtest.Open(t)
}

func newTestService(t *testing.T, client *db.Client, pageSize int) Service {
	t.Helper()
	store, err := NewStore(client)
	require.NoError(t, err)
	cfg := config.DefaultSearchConfig()
	cfg.PageSize = pageSize
	svc, err := NewService(ServiceParams{
		Store:  store,
		Config: cfg,
		Logger: logger.New(logger.Options{ServiceName: "test", Level: logger.ParseLevel("debug"), Output: io.Discard}),
	})
	require.NoError(t, err)
	return svc
}

type vehicleOpt func(*models.Vehicle)

func withYear(y int) vehicleOpt { return func(v *models.Vehicle) { v.Year = &y } }
func withPrice(p int) vehicleOpt { return func(v *models.Vehicle) { v.Price = &p } }
func withMileage(km int) vehicleOpt { return func(v *models.Vehicle) { v.Mileage = &km } }
func withFuel(f string) vehicleOpt { return func(v *models.Vehicle) { v.Fuel = &f } }
func withColor(c string) vehicleOpt { return func(v *models.Vehicle) { v.Color = &c } }
func withSeats(n int) vehicleOpt { return func(v *models.Vehicle) { v.Seats = &n } }
func withTrim(s string) vehicleOpt { return func(v *models.Vehicle) { v.Trim = &s } }
func withVIN(s string) vehicleOpt { return func(v *models.Vehicle) { v.VIN = &s } }
func withGearbox(s string) vehicleOpt { return func(v *models.Vehicle) { v.Transmission = &s } }
func withImages(s ...string) vehicleOpt { return func(v *models.Vehicle) { v.Images = s } }

// seed inserts vehicles with strictly increasing creation times, so the last
// seeded vehicle is the newest.
func seed(t *testing.T, client *db.Client, manufacturer, model string, opts ...vehicleOpt) models.Vehicle {
	t.Helper()
	var count int64
	require.NoError(t, client.DB().Model(&models.Vehicle{}).Count(&count).Error)
	v := models.Vehicle{
		Manufacturer: manufacturer,
		Model:        model,
		CreatedAt:    baseTime.Add(time.Duration(count) * time.Minute),
	}
	for _, opt := range opts {
		opt(&v)
	}
	require.NoError(t, client.DB().Create(&v).Error)
	return v
}

func mustLoad(t *testing.T, client *db.Client, id uuid.UUID) models.Vehicle {
	t.Helper()
	var v models.Vehicle
	require.NoError(t, client.DB().First(&v, "id = ?", id).Error)
	return v
}
