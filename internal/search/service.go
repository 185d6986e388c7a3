package search

import (
	"context"
	"errors"
	"net/url"
	"time"

	"github.com/angelmondragon/autosallon-backend/internal/vehicles"
	"github.com/angelmondragon/autosallon-backend/pkg/config"
	pkgerrors "github.com/angelmondragon/autosallon-backend/pkg/errors"
	"github.com/angelmondragon/autosallon-backend/pkg/logger"
	"github.com/angelmondragon/autosallon-backend/pkg/metrics"
	"github.com/angelmondragon/autosallon-backend/pkg/pagination"
)

const (
	operationSearch  = "search"
	operationSuggest = "suggest"
)

// Service exposes the catalog search pipeline.
type Service interface {
	Search(ctx context.Context, params url.Values) (*Result, error)
	Suggest(ctx context.Context, params url.Values) (*Result, error)
}

// Result is one catalog page plus the facet summary of the full filtered set.
type Result struct {
	Items    []vehicles.VehicleView `json:"items"`
	Facets   FacetSummary           `json:"facets"`
	Total    int64                  `json:"total"`
	From     int64                  `json:"from"`
	To       int64                  `json:"to"`
	Page     int                    `json:"page"`
	PerPage  int                    `json:"per_page"`
	LastPage int                    `json:"last_page"`
	Filters  FilterState            `json:"filters"`
}

// ServiceParams groups the search dependencies.
type ServiceParams struct {
	Store   RecordStore
	Config  config.SearchConfig
	Metrics *metrics.SearchMetrics
	Logger  *logger.Logger
}

type service struct {
	store   RecordStore
	cfg     config.SearchConfig
	facets  []FacetSpec
	metrics *metrics.SearchMetrics
	logg    *logger.Logger
}

// NewService builds the search service.
func NewService(params ServiceParams) (Service, error) {
	if params.Store == nil {
		return nil, errors.New("record store required")
	}
	if params.Logger == nil {
		return nil, errors.New("logger required")
	}
	cfg := params.Config
	if cfg.PageSize <= 0 {
		cfg.PageSize = pagination.DefaultPerPage
	}
	return &service{
		store:   params.Store,
		cfg:     cfg,
		facets:  FacetSpecs(cfg),
		metrics: params.Metrics,
		logg:    params.Logger,
	}, nil
}

func (s *service) Search(ctx context.Context, params url.Values) (*Result, error) {
	return s.run(ctx, operationSearch, ParseFilterState(params))
}

// Suggest runs the same pipeline for live, as-you-type result grids.
func (s *service) Suggest(ctx context.Context, params url.Values) (*Result, error) {
	return s.run(ctx, operationSuggest, ParseFilterState(params))
}

func (s *service) run(ctx context.Context, operation string, state FilterState) (*Result, error) {
	started := time.Now()
	defer func() {
		s.metrics.ObserveDuration(operation, time.Since(started))
	}()

	pred := Build(state)
	page := pagination.Normalize(pagination.Params{Page: state.Page, PerPage: s.cfg.PageSize})

	var (
		facets FacetSummary
		items  []vehicles.VehicleView
		total  int64
	)
	err := s.store.Snapshot(ctx, func(r Reader) error {
		var err error
		facets, err = Aggregate(ctx, r, pred, s.facets)
		if err != nil {
			return err
		}
		list, count, err := r.SortAndPaginate(ctx, r.Filter(pred), state.Sort, page)
		if err != nil {
			return err
		}
		items = vehicles.NewVehicleViews(list, s.cfg.PlaceholderImage)
		total = count
		return nil
	})
	if err != nil {
		s.metrics.IncFailure(operation)
		logCtx := s.logg.WithFields(ctx, map[string]any{"operation": operation, "query": state.Query})
		s.logg.Error(logCtx, "search.failed", err)
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "search vehicles")
	}

	window := pagination.NewWindow(page, total, len(items))
	s.metrics.ObserveSuccess(operation, total)
	s.logg.Debug(s.logg.WithFields(ctx, map[string]any{
		"operation": operation,
		"total":     total,
		"page":      window.Page,
		"sort":      state.Sort.String(),
		"duration":  time.Since(started).String(),
	}), "search.completed")

	return &Result{
		Items:    items,
		Facets:   facets,
		Total:    window.Total,
		From:     window.From,
		To:       window.To,
		Page:     window.Page,
		PerPage:  window.PerPage,
		LastPage: window.LastPage,
		Filters:  state,
	}, nil
}
