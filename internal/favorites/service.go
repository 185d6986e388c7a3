package favorites

import (
	"context"
	"fmt"

	"github.com/angelmondragon/autosallon-backend/internal/vehicles"
	"github.com/angelmondragon/autosallon-backend/pkg/config"
	"github.com/angelmondragon/autosallon-backend/pkg/db"
	"github.com/angelmondragon/autosallon-backend/pkg/enums"
	pkgerrors "github.com/angelmondragon/autosallon-backend/pkg/errors"
	"github.com/angelmondragon/autosallon-backend/pkg/pagination"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Service defines the favorites business logic.
type Service interface {
	Toggle(ctx context.Context, userID, vehicleID uuid.UUID) (*ToggleResult, error)
	Remove(ctx context.Context, userID, vehicleID uuid.UUID) error
	List(ctx context.Context, userID uuid.UUID, page int) (*Page, error)
	IsFavorited(ctx context.Context, userID, vehicleID uuid.UUID) (bool, error)
}

type service struct {
	repo     *Repository
	vehicles *vehicles.Repository
	db       *db.Client
	cfg      config.SearchConfig
}

// NewService builds a favorites service.
func NewService(repo *Repository, vehicleRepo *vehicles.Repository, client *db.Client, cfg config.SearchConfig) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("favorites repository required")
	}
	if vehicleRepo == nil {
		return nil, fmt.Errorf("vehicle repository required")
	}
	if client == nil {
		return nil, fmt.Errorf("db client required")
	}
	return &service{repo: repo, vehicles: vehicleRepo, db: client, cfg: cfg}, nil
}

func (s *service) Toggle(ctx context.Context, userID, vehicleID uuid.UUID) (*ToggleResult, error) {
	result := &ToggleResult{VehicleID: vehicleID}
	err := s.db.WithTx(ctx, func(tx *gorm.DB) error {
		exists, err := s.vehicles.WithTx(tx).Exists(ctx, vehicleID)
		if err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: load vehicle")
		}
		if !exists {
			return pkgerrors.New(pkgerrors.CodeNotFound, "vehicle not found")
		}

		repo := s.repo.WithTx(tx)
		removed, err := repo.Remove(ctx, userID, vehicleID)
		if err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: remove favorite")
		}
		if removed {
			result.Status = enums.FavoriteStatusRemoved
			return nil
		}
		if err := repo.Add(ctx, userID, vehicleID); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: add favorite")
		}
		result.Status = enums.FavoriteStatusAdded
		result.Favorited = true
		return nil
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}

// Remove is idempotent: removing a missing favorite succeeds.
func (s *service) Remove(ctx context.Context, userID, vehicleID uuid.UUID) error {
	if _, err := s.repo.Remove(ctx, userID, vehicleID); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: remove favorite")
	}
	return nil
}

func (s *service) List(ctx context.Context, userID uuid.UUID, page int) (*Page, error) {
	params := pagination.Normalize(pagination.Params{Page: page, PerPage: s.cfg.FavoritesPageSize})
	list, total, err := s.repo.ListVehicles(ctx, userID, params)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: list favorites")
	}
	return &Page{
		Items:      vehicles.NewVehicleViews(list, s.cfg.PlaceholderImage),
		Pagination: pagination.NewWindow(params, total, len(list)),
	}, nil
}

func (s *service) IsFavorited(ctx context.Context, userID, vehicleID uuid.UUID) (bool, error) {
	ok, err := s.repo.Exists(ctx, userID, vehicleID)
	if err != nil {
		return false, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: check favorite")
	}
	return ok, nil
}
