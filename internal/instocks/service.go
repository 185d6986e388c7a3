package instocks

import (
	"context"
	"errors"
	"fmt"

	"github.com/angelmondragon/autosallon-backend/pkg/config"
	"github.com/angelmondragon/autosallon-backend/pkg/db/models"
	pkgerrors "github.com/angelmondragon/autosallon-backend/pkg/errors"
	"github.com/angelmondragon/autosallon-backend/pkg/pagination"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// LatestLimit is how many items the public showroom strip shows.
const LatestLimit = 24

// Service manages showroom items.
type Service interface {
	List(ctx context.Context, page int) (*ListResult, error)
	Latest(ctx context.Context, limit int) ([]ItemView, error)
	Get(ctx context.Context, id uuid.UUID) (*ItemView, error)
	Create(ctx context.Context, input ItemInput) (*ItemView, error)
	Update(ctx context.Context, id uuid.UUID, input ItemInput) (*ItemView, error)
	Delete(ctx context.Context, id uuid.UUID) error
}

type service struct {
	repo *Repository
	cfg  config.SearchConfig
}

// NewService constructs the in-stock item service.
func NewService(repo *Repository, cfg config.SearchConfig) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("instock repository required")
	}
	return &service{repo: repo, cfg: cfg}, nil
}

func (s *service) List(ctx context.Context, page int) (*ListResult, error) {
	params := pagination.Normalize(pagination.Params{Page: page, PerPage: s.cfg.AdminPageSize})
	items, total, err := s.repo.ListLatest(ctx, params)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: list instock items")
	}
	return &ListResult{
		Items:    s.views(items),
		Total:    total,
		Page:     params.Page,
		PerPage:  params.PerPage,
		LastPage: pagination.LastPage(total, params.PerPage),
	}, nil
}

func (s *service) Latest(ctx context.Context, limit int) ([]ItemView, error) {
	if limit <= 0 {
		limit = LatestLimit
	}
	items, _, err := s.repo.ListLatest(ctx, pagination.Params{Page: 1, PerPage: limit})
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: list latest instock items")
	}
	return s.views(items), nil
}

func (s *service) Get(ctx context.Context, id uuid.UUID) (*ItemView, error) {
	item, err := s.load(ctx, id)
	if err != nil {
		return nil, err
	}
	view := NewItemView(*item, s.cfg.PlaceholderImage)
	return &view, nil
}

func (s *service) Create(ctx context.Context, input ItemInput) (*ItemView, error) {
	input = input.normalize()
	if err := validateInput(input); err != nil {
		return nil, err
	}
	item := &models.InStockItem{}
	input.apply(item)
	if err := s.repo.Create(ctx, item); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: insert instock item")
	}
	view := NewItemView(*item, s.cfg.PlaceholderImage)
	return &view, nil
}

func (s *service) Update(ctx context.Context, id uuid.UUID, input ItemInput) (*ItemView, error) {
	input = input.normalize()
	if err := validateInput(input); err != nil {
		return nil, err
	}
	item, err := s.load(ctx, id)
	if err != nil {
		return nil, err
	}
	input.apply(item)
	if err := s.repo.Save(ctx, item); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: update instock item")
	}
	view := NewItemView(*item, s.cfg.PlaceholderImage)
	return &view, nil
}

func (s *service) Delete(ctx context.Context, id uuid.UUID) error {
	deleted, err := s.repo.Delete(ctx, id)
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: delete instock item")
	}
	if !deleted {
		return pkgerrors.New(pkgerrors.CodeNotFound, "instock item not found")
	}
	return nil
}

func (s *service) load(ctx context.Context, id uuid.UUID) (*models.InStockItem, error) {
	item, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "instock item not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: load instock item")
	}
	return item, nil
}

func (s *service) views(items []models.InStockItem) []ItemView {
	out := make([]ItemView, 0, len(items))
	for _, item := range items {
		out = append(out, NewItemView(item, s.cfg.PlaceholderImage))
	}
	return out
}

func validateInput(input ItemInput) error {
	if input.Name == "" {
		return pkgerrors.New(pkgerrors.CodeValidation, "name is required").
			WithDetails(map[string]string{"name": "is required"})
	}
	if input.Price != nil && *input.Price < 0 {
		return pkgerrors.New(pkgerrors.CodeValidation, "price cannot be negative").
			WithDetails(map[string]string{"price": "must be zero or greater"})
	}
	return nil
}
