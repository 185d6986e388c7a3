package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/angelmondragon/autosallon-backend/api"
	"github.com/angelmondragon/autosallon-backend/api/controllers"
	"github.com/angelmondragon/autosallon-backend/api/routes"
	"github.com/angelmondragon/autosallon-backend/internal/auth"
	"github.com/angelmondragon/autosallon-backend/internal/favorites"
	"github.com/angelmondragon/autosallon-backend/internal/instocks"
	"github.com/angelmondragon/autosallon-backend/internal/search"
	"github.com/angelmondragon/autosallon-backend/internal/users"
	"github.com/angelmondragon/autosallon-backend/internal/vehicles"
	"github.com/angelmondragon/autosallon-backend/pkg/auth/session"
	"github.com/angelmondragon/autosallon-backend/pkg/config"
	"github.com/angelmondragon/autosallon-backend/pkg/db"
	"github.com/angelmondragon/autosallon-backend/pkg/logger"
	"github.com/angelmondragon/autosallon-backend/pkg/metrics"
	"github.com/angelmondragon/autosallon-backend/pkg/migrate"
	"github.com/angelmondragon/autosallon-backend/pkg/redis"
	"github.com/joho/godotenv"
)

func main() {
	logg := logger.New(logger.Options{ServiceName: "api"})

	if err := godotenv.Load(); err != nil {
		logg.Warn(context.Background(), ".env file not found, relying on environment")
	}

	cfg, err := config.Load()
	if err != nil {
		logg.Error(context.Background(), "failed to load config", err)
		os.Exit(1)
	}

	logg = logger.FromConfig("api", cfg.App)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, cfg, logg); err != nil {
		logg.Error(ctx, "api server stopped unexpectedly", err)
		os.Exit(1)
	}
}

func run(ctx context.Context, cfg *config.Config, logg *logger.Logger) error {
	dbClient, err := db.New(ctx, cfg.DB, logg)
	if err != nil {
		return err
	}
	defer func() {
		if err := dbClient.Close(); err != nil {
			logg.Error(context.Background(), "error closing database", err)
		}
	}()

	if err := migrate.MaybeRunDev(ctx, cfg, logg, dbClient); err != nil {
		return err
	}

	redisClient, err := redis.New(ctx, cfg.Redis, logg)
	if err != nil {
		return err
	}
	defer func() {
		if err := redisClient.Close(); err != nil {
			logg.Error(context.Background(), "error closing redis", err)
		}
	}()

	sessionManager, err := session.NewManager(redisClient, cfg.JWT)
	if err != nil {
		return err
	}

	registry := prometheus.NewRegistry()
	registry.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))

	authService, err := auth.NewService(auth.ServiceParams{
		UserRepo:       users.NewRepository(dbClient.DB()),
		SessionManager: sessionManager,
		JWTConfig:      cfg.JWT,
		PasswordConfig: cfg.Password,
	})
	if err != nil {
		return err
	}
	registerService, err := auth.NewRegisterService(auth.RegisterServiceParams{
		DB:             dbClient,
		PasswordConfig: cfg.Password,
	})
	if err != nil {
		return err
	}

	store, err := search.NewStore(dbClient)
	if err != nil {
		return err
	}
	searchService, err := search.NewService(search.ServiceParams{
		Store:   store,
		Config:  cfg.Search,
		Metrics: metrics.NewSearchMetrics(registry),
		Logger:  logg,
	})
	if err != nil {
		return err
	}

	vehicleRepo := vehicles.NewRepository(dbClient.DB())
	favoritesService, err := favorites.NewService(favorites.NewRepository(dbClient.DB()), vehicleRepo, dbClient, cfg.Search)
	if err != nil {
		return err
	}
	vehicleService, err := vehicles.NewService(vehicles.ServiceParams{
		Repo:      vehicleRepo,
		DB:        dbClient,
		Favorites: favoritesService,
		Config:    cfg.Search,
	})
	if err != nil {
		return err
	}
	instockService, err := instocks.NewService(instocks.NewRepository(dbClient.DB()), cfg.Search)
	if err != nil {
		return err
	}
	homeService, err := vehicles.NewHomeService(vehicleRepo, instockService, cfg.Search.HomePicks, cfg.Search.PageSize, cfg.Search.PlaceholderImage)
	if err != nil {
		return err
	}

	router := routes.NewRouter(cfg, logg, routes.Dependencies{
		Pingers: map[string]controllers.Pinger{
			"database": dbClient,
			"redis":    redisClient,
		},
		RateLimiter:    redisClient,
		Sessions:       sessionManager,
		HTTPMetrics:    metrics.NewHTTPMetrics(registry),
		MetricsHandler: promhttp.HandlerFor(registry, promhttp.HandlerOpts{}),
		Auth:           authService,
		Register:       registerService,
		Search:         searchService,
		Home:           homeService,
		Vehicles:       vehicleService,
		InStocks:       instockService,
		Favorites:      favoritesService,
	})

	port := os.Getenv("PORT")
	if port == "" {
		port = cfg.App.Port
	}
	addr := ":" + port
	ctx = logg.WithFields(ctx, map[string]any{
		"env":  cfg.App.Env,
		"addr": addr,
	})
	logg.Info(ctx, "starting api server")

	return api.NewServer(addr, router, logg).Run(ctx)
}
