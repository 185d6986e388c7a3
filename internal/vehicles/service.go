package vehicles

import (
	"context"
	"errors"
	"fmt"

	"github.com/angelmondragon/autosallon-backend/pkg/config"
	"github.com/angelmondragon/autosallon-backend/pkg/db"
	"github.com/angelmondragon/autosallon-backend/pkg/db/models"
	pkgerrors "github.com/angelmondragon/autosallon-backend/pkg/errors"
	"github.com/angelmondragon/autosallon-backend/pkg/pagination"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Service exposes catalog administration and the public listing pages.
type Service interface {
	List(ctx context.Context, page int) (*ListResult, error)
	Get(ctx context.Context, id uuid.UUID) (*VehicleDTO, error)
	Create(ctx context.Context, input VehicleInput) (*VehicleDTO, error)
	Update(ctx context.Context, id uuid.UUID, input VehicleInput) (*VehicleDTO, error)
	Delete(ctx context.Context, id uuid.UUID) error
	Detail(ctx context.Context, id uuid.UUID, viewerID *uuid.UUID) (*DetailView, error)
}

type favoriteChecker interface {
	IsFavorited(ctx context.Context, userID, vehicleID uuid.UUID) (bool, error)
}

// ServiceParams groups the vehicle service dependencies.
type ServiceParams struct {
	Repo      *Repository
	DB        *db.Client
	Favorites favoriteChecker
	Config    config.SearchConfig
}

type service struct {
	repo      *Repository
	dbClient  *db.Client
	favorites favoriteChecker
	cfg       config.SearchConfig
}

// NewService constructs the vehicle service.
func NewService(params ServiceParams) (Service, error) {
	if params.Repo == nil {
		return nil, fmt.Errorf("vehicle repository required")
	}
	if params.DB == nil {
		return nil, fmt.Errorf("db client required")
	}
	return &service{
		repo:      params.Repo,
		dbClient:  params.DB,
		favorites: params.Favorites,
		cfg:       params.Config,
	}, nil
}

func (s *service) List(ctx context.Context, page int) (*ListResult, error) {
	params := pagination.Normalize(pagination.Params{Page: page, PerPage: s.cfg.AdminPageSize})
	list, total, err := s.repo.ListLatest(ctx, params)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: list vehicles")
	}
	items := make([]VehicleDTO, 0, len(list))
	for _, v := range list {
		items = append(items, *NewVehicleDTO(v, s.cfg.PlaceholderImage))
	}
	return &ListResult{
		Items:    items,
		Total:    total,
		Page:     params.Page,
		PerPage:  params.PerPage,
		LastPage: pagination.LastPage(total, params.PerPage),
	}, nil
}

func (s *service) Get(ctx context.Context, id uuid.UUID) (*VehicleDTO, error) {
	v, err := s.load(ctx, id)
	if err != nil {
		return nil, err
	}
	return NewVehicleDTO(*v, s.cfg.PlaceholderImage), nil
}

func (s *service) Create(ctx context.Context, input VehicleInput) (*VehicleDTO, error) {
	input = input.Normalize()
	if err := validateInput(input); err != nil {
		return nil, err
	}

	v := &models.Vehicle{}
	input.apply(v)
	if err := s.repo.Create(ctx, v); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: insert vehicle")
	}
	return NewVehicleDTO(*v, s.cfg.PlaceholderImage), nil
}

func (s *service) Update(ctx context.Context, id uuid.UUID, input VehicleInput) (*VehicleDTO, error) {
	input = input.Normalize()
	if err := validateInput(input); err != nil {
		return nil, err
	}

	var updated models.Vehicle
	err := s.dbClient.WithTx(ctx, func(tx *gorm.DB) error {
		txRepo := s.repo.WithTx(tx)
		v, err := txRepo.LockByID(ctx, id)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return pkgerrors.New(pkgerrors.CodeNotFound, "vehicle not found")
			}
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: load vehicle")
		}
		input.apply(v)
		if err := txRepo.Save(ctx, v); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: update vehicle")
		}
		updated = *v
		return nil
	})
	if err != nil {
		if pkgerrors.As(err) != nil {
			return nil, err
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "update vehicle")
	}
	return NewVehicleDTO(updated, s.cfg.PlaceholderImage), nil
}

func (s *service) Delete(ctx context.Context, id uuid.UUID) error {
	deleted, err := s.repo.Delete(ctx, id)
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: delete vehicle")
	}
	if !deleted {
		return pkgerrors.New(pkgerrors.CodeNotFound, "vehicle not found")
	}
	return nil
}

// Detail builds the public listing page. viewerID is nil for anonymous visitors.
func (s *service) Detail(ctx context.Context, id uuid.UUID, viewerID *uuid.UUID) (*DetailView, error) {
	v, err := s.load(ctx, id)
	if err != nil {
		return nil, err
	}

	favorited := false
	if viewerID != nil && s.favorites != nil {
		favorited, err = s.favorites.IsFavorited(ctx, *viewerID, id)
		if err != nil {
			return nil, err
		}
	}

	view := NewDetailView(*v, s.cfg.PlaceholderImage, favorited)
	return &view, nil
}

func (s *service) load(ctx context.Context, id uuid.UUID) (*models.Vehicle, error) {
	v, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "vehicle not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: load vehicle")
	}
	return v, nil
}

func validateInput(input VehicleInput) error {
	if input.Manufacturer == "" || input.Model == "" {
		return pkgerrors.New(pkgerrors.CodeValidation, "manufacturer and model are required")
	}
	for field, value := range map[string]*int{"price": input.Price, "mileage": input.Mileage, "engine_cc": input.EngineCC} {
		if value != nil && *value < 0 {
			return pkgerrors.New(pkgerrors.CodeValidation, field+" cannot be negative").
				WithDetails(map[string]string{field: "must be zero or greater"})
		}
	}
	if input.Seats != nil && (*input.Seats < 1 || *input.Seats > 9) {
		return pkgerrors.New(pkgerrors.CodeValidation, "seats must be between 1 and 9").
			WithDetails(map[string]string{"seats": "must be between 1 and 9"})
	}
	return nil
}
