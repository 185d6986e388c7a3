package routes

import (
	"context"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/angelmondragon/autosallon-backend/api/controllers"
	"github.com/angelmondragon/autosallon-backend/api/middleware"
	"github.com/angelmondragon/autosallon-backend/internal/auth"
	"github.com/angelmondragon/autosallon-backend/internal/favorites"
	"github.com/angelmondragon/autosallon-backend/internal/instocks"
	"github.com/angelmondragon/autosallon-backend/internal/search"
	"github.com/angelmondragon/autosallon-backend/internal/users"
	"github.com/angelmondragon/autosallon-backend/internal/vehicles"
	"github.com/angelmondragon/autosallon-backend/pkg/auth/session"
	"github.com/angelmondragon/autosallon-backend/pkg/config"
	"github.com/angelmondragon/autosallon-backend/pkg/enums"
	"github.com/angelmondragon/autosallon-backend/pkg/logger"
)

type sessionManager interface {
	session.AccessSessionChecker
	Rotate(ctx context.Context, oldAccessID string, userID uuid.UUID, provided string) (string, string, error)
	Revoke(context.Context, string) error
}

// RateLimiter is the counter store behind the auth throttles.
type RateLimiter interface {
	IncrWithTTL(ctx context.Context, key string, ttl time.Duration) (int64, error)
}

type requestObserver interface {
	ObserveRequest(method, route, status string, duration time.Duration)
}

type authService interface {
	Login(ctx context.Context, req auth.LoginRequest) (*auth.LoginResponse, error)
}

type registerService interface {
	Register(ctx context.Context, req auth.RegisterRequest) (*users.UserDTO, error)
}

type homeService interface {
	Home(ctx context.Context, now time.Time) (*vehicles.HomePage, error)
}

// Dependencies groups everything the HTTP surface needs. Nil services are
// reported as internal errors by their handlers.
type Dependencies struct {
	Pingers        map[string]controllers.Pinger
	RateLimiter    RateLimiter
	Sessions       sessionManager
	HTTPMetrics    requestObserver
	MetricsHandler http.Handler

	Auth      authService
	Register  registerService
	Search    search.Service
	Home      homeService
	Vehicles  vehicles.Service
	InStocks  instocks.Service
	Favorites favorites.Service
}

func NewRouter(cfg *config.Config, logg *logger.Logger, deps Dependencies) http.Handler {
	r := chi.NewRouter()
	r.Use(
		middleware.Recoverer(logg),
		middleware.RequestID(logg),
		middleware.Logging(logg),
		middleware.Metrics(deps.HTTPMetrics),
		middleware.CORS(cfg.App.AllowedOrigins()),
	)

	loginPolicy := middleware.LoginRateLimit(cfg.AuthRateLimit)
	registerPolicy := middleware.RegisterRateLimit(cfg.AuthRateLimit)

	r.Route("/api/v1", func(r chi.Router) {
		if deps.MetricsHandler != nil {
			r.Handle("/metrics", deps.MetricsHandler)
		}
		r.Route("/health", func(r chi.Router) {
			r.Get("/live", controllers.HealthLive(cfg))
			r.Get("/ready", controllers.HealthReady(cfg, deps.Pingers, logg))
		})

		r.Route("/auth", func(r chi.Router) {
			r.With(middleware.AuthRateLimit(loginPolicy, deps.RateLimiter, logg)).Post("/login", controllers.AuthLogin(deps.Auth, logg))
			r.With(middleware.AuthRateLimit(registerPolicy, deps.RateLimiter, logg)).Post("/register", controllers.AuthRegister(deps.Register, deps.Auth, logg))
			r.Post("/logout", controllers.AuthLogout(deps.Sessions, cfg.JWT, logg))
			r.Post("/refresh", controllers.AuthRefresh(deps.Sessions, cfg.JWT, logg))
		})

		r.Group(func(r chi.Router) {
			r.Use(middleware.OptionalAuth(cfg.JWT, deps.Sessions, logg))
			r.Get("/search", controllers.Search(deps.Search, logg))
			r.Get("/search/suggest", controllers.SearchSuggest(deps.Search, logg))
			r.Get("/home", controllers.Home(deps.Home, nil, logg))
			r.Get("/vehicles/{id}", controllers.VehicleDetail(deps.Vehicles, logg))
			r.Get("/instocks", controllers.InStockLatest(deps.InStocks, logg))
		})

		r.Route("/favorites", func(r chi.Router) {
			r.Use(middleware.Auth(cfg.JWT, deps.Sessions, logg))
			r.Get("/", controllers.FavoritesList(deps.Favorites, logg))
			r.Post("/{vehicleId}/toggle", controllers.FavoriteToggle(deps.Favorites, logg))
			r.Delete("/{vehicleId}", controllers.FavoriteRemove(deps.Favorites, logg))
		})

		r.Route("/admin", func(r chi.Router) {
			r.Use(middleware.Auth(cfg.JWT, deps.Sessions, logg))
			r.Use(middleware.RequireRole(logg, enums.UserRoleAdmin))

			r.Route("/vehicles", func(r chi.Router) {
				r.Get("/", controllers.AdminVehicleList(deps.Vehicles, logg))
				r.Post("/", controllers.AdminVehicleCreate(deps.Vehicles, logg))
				r.Get("/{id}", controllers.AdminVehicleGet(deps.Vehicles, logg))
				r.Put("/{id}", controllers.AdminVehicleUpdate(deps.Vehicles, logg))
				r.Delete("/{id}", controllers.AdminVehicleDelete(deps.Vehicles, logg))
			})
			r.Route("/instocks", func(r chi.Router) {
				r.Get("/", controllers.AdminInStockList(deps.InStocks, logg))
				r.Post("/", controllers.AdminInStockCreate(deps.InStocks, logg))
				r.Get("/{id}", controllers.AdminInStockGet(deps.InStocks, logg))
				r.Put("/{id}", controllers.AdminInStockUpdate(deps.InStocks, logg))
				r.Delete("/{id}", controllers.AdminInStockDelete(deps.InStocks, logg))
			})
		})
	})

	return r
}
