package controllers

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/angelmondragon/autosallon-backend/api/middleware"
	"github.com/angelmondragon/autosallon-backend/internal/favorites"
	"github.com/angelmondragon/autosallon-backend/internal/search"
	"github.com/angelmondragon/autosallon-backend/internal/vehicles"
	"github.com/angelmondragon/autosallon-backend/pkg/enums"
	pkgerrors "github.com/angelmondragon/autosallon-backend/pkg/errors"
)

type stubSearch struct {
	lastParams url.Values
	suggested  bool
	err        error
}

func (s *stubSearch) Search(ctx context.Context, params url.Values) (*search.Result, error) {
	s.lastParams = params
	if s.err != nil {
		return nil, s.err
	}
	return &search.Result{Items: []vehicles.VehicleView{}, Facets: search.FacetSummary{}, Page: 1, PerPage: 24}, nil
}

func (s *stubSearch) Suggest(ctx context.Context, params url.Values) (*search.Result, error) {
	s.suggested = true
	return s.Search(ctx, params)
}

type stubVehicles struct {
	vehicles.Service
	detailViewer *uuid.UUID
	detailErr    error
	created      *vehicles.VehicleInput
}

func (s *stubVehicles) Detail(ctx context.Context, id uuid.UUID, viewerID *uuid.UUID) (*vehicles.DetailView, error) {
	s.detailViewer = viewerID
	if s.detailErr != nil {
		return nil, s.detailErr
	}
	return &vehicles.DetailView{}, nil
}

func (s *stubVehicles) Create(ctx context.Context, input vehicles.VehicleInput) (*vehicles.VehicleDTO, error) {
	s.created = &input
	return &vehicles.VehicleDTO{VehicleView: vehicles.VehicleView{ID: uuid.New(), Manufacturer: input.Manufacturer, Model: input.Model}}, nil
}

type stubFavorites struct {
	favorites.Service
	toggled uuid.UUID
	removed uuid.UUID
}

func (s *stubFavorites) Toggle(ctx context.Context, userID, vehicleID uuid.UUID) (*favorites.ToggleResult, error) {
	s.toggled = vehicleID
	return &favorites.ToggleResult{Status: enums.FavoriteStatusAdded, Favorited: true, VehicleID: vehicleID}, nil
}

func (s *stubFavorites) Remove(ctx context.Context, userID, vehicleID uuid.UUID) error {
	s.removed = vehicleID
	return nil
}

type stubHome struct {
	at time.Time
}

func (s *stubHome) Home(ctx context.Context, now time.Time) (*vehicles.HomePage, error) {
	s.at = now
	return &vehicles.HomePage{TodayLabel: vehicles.DayLabel(now)}, nil
}

func withURLParam(req *http.Request, key, value string) *http.Request {
	rctx := chi.NewRouteContext()
	rctx.URLParams.Add(key, value)
	return req.WithContext(context.WithValue(req.Context(), chi.RouteCtxKey, rctx))
}

func decodeErrorCode(t *testing.T, rec *httptest.ResponseRecorder) string {
	t.Helper()
	var envelope struct {
		Error struct {
			Code string `json:"code"`
		} `json:"error"`
	}
	if err := json.NewDecoder(rec.Body).Decode(&envelope); err != nil {
		t.Fatalf("decode error envelope: %v", err)
	}
	return envelope.Error.Code
}

func TestSearchPassesQueryString(t *testing.T) {
	svc := &stubSearch{}
	req := httptest.NewRequest(http.MethodGet, "/api/v1/search?q=BMW&fuel=Diesel", nil)
	rec := httptest.NewRecorder()
	Search(svc, nil).ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d", rec.Code)
	}
	if svc.lastParams.Get("q") != "BMW" || svc.lastParams.Get("fuel") != "Diesel" {
		t.Fatalf("unexpected params %v", svc.lastParams)
	}
}

func TestSearchSurfacesDependencyErrors(t *testing.T) {
	svc := &stubSearch{err: pkgerrors.New(pkgerrors.CodeDependency, "db down")}
	rec := httptest.NewRecorder()
	Search(svc, nil).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/v1/search", nil))

	if rec.Code != http.StatusServiceUnavailable {
		t.Fatalf("expected 503 got %d", rec.Code)
	}
	if code := decodeErrorCode(t, rec); code != string(pkgerrors.CodeDependency) {
		t.Fatalf("unexpected code %s", code)
	}
}

func TestSearchSuggestRedirectsPlainNavigation(t *testing.T) {
	svc := &stubSearch{}
	req := httptest.NewRequest(http.MethodGet, "/api/v1/search/suggest?q=golf&page=2", nil)
	rec := httptest.NewRecorder()
	SearchSuggest(svc, nil).ServeHTTP(rec, req)

	if rec.Code != http.StatusFound {
		t.Fatalf("expected 302 got %d", rec.Code)
	}
	if loc := rec.Header().Get("Location"); loc != "/api/v1/search?q=golf&page=2" {
		t.Fatalf("unexpected redirect %q", loc)
	}
	if svc.suggested {
		t.Fatal("suggest should not run for plain navigation")
	}
}

func TestSearchSuggestServesXHR(t *testing.T) {
	svc := &stubSearch{}
	req := httptest.NewRequest(http.MethodGet, "/api/v1/search/suggest?q=golf", nil)
	req.Header.Set("X-Requested-With", "XMLHttpRequest")
	rec := httptest.NewRecorder()
	SearchSuggest(svc, nil).ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d", rec.Code)
	}
	if !svc.suggested {
		t.Fatal("expected suggest to run")
	}
}

func TestVehicleDetailPassesViewer(t *testing.T) {
	svc := &stubVehicles{}
	viewer := uuid.New()

	req := httptest.NewRequest(http.MethodGet, "/api/v1/vehicles/x", nil)
	req = withURLParam(req, "id", uuid.NewString())
	req = req.WithContext(middleware.WithUserID(req.Context(), viewer.String()))
	rec := httptest.NewRecorder()
	VehicleDetail(svc, nil).ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d", rec.Code)
	}
	if svc.detailViewer == nil || *svc.detailViewer != viewer {
		t.Fatalf("expected viewer %s got %v", viewer, svc.detailViewer)
	}
}

func TestVehicleDetailAnonymousAndMissing(t *testing.T) {
	svc := &stubVehicles{detailErr: pkgerrors.New(pkgerrors.CodeNotFound, "vehicle not found")}

	req := withURLParam(httptest.NewRequest(http.MethodGet, "/api/v1/vehicles/x", nil), "id", uuid.NewString())
	rec := httptest.NewRecorder()
	VehicleDetail(svc, nil).ServeHTTP(rec, req)

	if rec.Code != http.StatusNotFound {
		t.Fatalf("expected 404 got %d", rec.Code)
	}
	if svc.detailViewer != nil {
		t.Fatal("anonymous request should not carry a viewer")
	}

	req = withURLParam(httptest.NewRequest(http.MethodGet, "/api/v1/vehicles/nope", nil), "id", "nope")
	rec = httptest.NewRecorder()
	VehicleDetail(svc, nil).ServeHTTP(rec, req)
	if rec.Code != http.StatusNotFound {
		t.Fatalf("malformed id should read as missing, got %d", rec.Code)
	}
}

func TestAdminVehicleCreateValidatesBody(t *testing.T) {
	svc := &stubVehicles{}

	req := httptest.NewRequest(http.MethodPost, "/api/v1/admin/vehicles", strings.NewReader(`{"model":"Golf","seats":12}`))
	rec := httptest.NewRecorder()
	AdminVehicleCreate(svc, nil).ServeHTTP(rec, req)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 got %d", rec.Code)
	}
	if svc.created != nil {
		t.Fatal("service must not be called on invalid input")
	}

	req = httptest.NewRequest(http.MethodPost, "/api/v1/admin/vehicles", strings.NewReader(`{"manufacturer":"VW","model":"Golf","year":2019}`))
	rec = httptest.NewRecorder()
	AdminVehicleCreate(svc, nil).ServeHTTP(rec, req)
	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201 got %d", rec.Code)
	}
	if svc.created == nil || svc.created.Manufacturer != "VW" || *svc.created.Year != 2019 {
		t.Fatalf("unexpected input %+v", svc.created)
	}
}

func TestFavoriteToggleRequiresUser(t *testing.T) {
	svc := &stubFavorites{}
	vehicleID := uuid.New()

	req := withURLParam(httptest.NewRequest(http.MethodPost, "/", nil), "vehicleId", vehicleID.String())
	rec := httptest.NewRecorder()
	FavoriteToggle(svc, nil).ServeHTTP(rec, req)
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 got %d", rec.Code)
	}

	req = withURLParam(httptest.NewRequest(http.MethodPost, "/", nil), "vehicleId", vehicleID.String())
	req = req.WithContext(middleware.WithUserID(req.Context(), uuid.NewString()))
	rec = httptest.NewRecorder()
	FavoriteToggle(svc, nil).ServeHTTP(rec, req)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d", rec.Code)
	}
	if svc.toggled != vehicleID {
		t.Fatalf("expected toggle of %s got %s", vehicleID, svc.toggled)
	}
	var envelope struct {
		Data favorites.ToggleResult `json:"data"`
	}
	if err := json.NewDecoder(rec.Body).Decode(&envelope); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if envelope.Data.Status != enums.FavoriteStatusAdded || !envelope.Data.Favorited {
		t.Fatalf("unexpected toggle payload %+v", envelope.Data)
	}
}

func TestFavoriteRemoveReturnsNoContent(t *testing.T) {
	svc := &stubFavorites{}
	vehicleID := uuid.New()
	req := withURLParam(httptest.NewRequest(http.MethodDelete, "/", nil), "vehicleId", vehicleID.String())
	req = req.WithContext(middleware.WithUserID(req.Context(), uuid.NewString()))
	rec := httptest.NewRecorder()
	FavoriteRemove(svc, nil).ServeHTTP(rec, req)

	if rec.Code != http.StatusNoContent {
		t.Fatalf("expected 204 got %d", rec.Code)
	}
	if svc.removed != vehicleID {
		t.Fatalf("expected removal of %s", vehicleID)
	}
}

func TestHomeUsesInjectedClock(t *testing.T) {
	svc := &stubHome{}
	fixed := time.Date(2025, 10, 19, 12, 0, 0, 0, time.UTC)
	rec := httptest.NewRecorder()
	Home(svc, func() time.Time { return fixed }, nil).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/v1/home", nil))

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d", rec.Code)
	}
	if !svc.at.Equal(fixed) {
		t.Fatalf("expected clock %v got %v", fixed, svc.at)
	}
}
