package config

import (
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/kelseyhightower/envconfig"
)

type Config struct {
	App           AppConfig
	DB            DBConfig
	Redis         RedisConfig
	JWT           JWTConfig
	Password      PasswordConfig
	AuthRateLimit AuthRateLimitConfig
	FeatureFlags  FeatureFlagsConfig
	Search        SearchConfig
	Admin         AdminConfig
}

func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process(EnvPrefix, &cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}
	if cfg.FeatureFlags.UseSQLite {
		cfg.DB.Driver = DriverSQLite
	}
	if cfg.DB.IsSQLite() {
		if cfg.DB.DSN == "" {
			cfg.DB.DSN = cfg.FeatureFlags.SQLitePath
		}
	} else if err := cfg.DB.ensureDSN(); err != nil {
		return nil, err
	}
	if err := cfg.Search.validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

type AppConfig struct {
	Env          string `envconfig:"AUTOSALLON_APP_ENV" required:"true"`
	Port         string `envconfig:"AUTOSALLON_APP_PORT" required:"true"`
	LogLevel     string `envconfig:"AUTOSALLON_LOG_LEVEL" default:"info"`
	LogFormat    string `envconfig:"AUTOSALLON_LOG_FORMAT" default:"json"`
	LogWarnStack bool   `envconfig:"AUTOSALLON_LOG_WARN_STACK" default:"false"`
	CORSOrigins  string `envconfig:"AUTOSALLON_CORS_ORIGINS" default:"*"`
}

func (a AppConfig) IsDev() bool {
	return strings.EqualFold(a.Env, AppEnvDev)
}

func (a AppConfig) IsProd() bool {
	return strings.EqualFold(a.Env, AppEnvProd) || strings.EqualFold(a.Env, "production")
}

// AllowedOrigins splits the comma separated CORS origin list.
func (a AppConfig) AllowedOrigins() []string {
	out := []string{}
	for _, origin := range strings.Split(a.CORSOrigins, ",") {
		if trimmed := strings.TrimSpace(origin); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	if len(out) == 0 {
		return []string{"*"}
	}
	return out
}

type DBConfig struct {
	DSN    string `envconfig:"AUTOSALLON_DB_DSN"`
	Driver string `envconfig:"AUTOSALLON_DB_DRIVER" default:"postgres"`

	LegacyHost     string `envconfig:"AUTOSALLON_DB_HOST"`
	LegacyPort     int    `envconfig:"AUTOSALLON_DB_PORT" default:"5432"`
	LegacyUser     string `envconfig:"AUTOSALLON_DB_USER"`
	LegacyPassword string `envconfig:"AUTOSALLON_DB_PASSWORD"`
	LegacyName     string `envconfig:"AUTOSALLON_DB_NAME"`
	LegacySSLMode  string `envconfig:"AUTOSALLON_DB_SSLMODE" default:"disable"`

	MaxOpenConns    int           `envconfig:"AUTOSALLON_DB_MAX_OPEN_CONNS" default:"20"`
	MaxIdleConns    int           `envconfig:"AUTOSALLON_DB_MAX_IDLE_CONNS" default:"10"`
	ConnMaxLifetime time.Duration `envconfig:"AUTOSALLON_DB_CONN_MAX_LIFETIME" default:"1h"`
	ConnMaxIdleTime time.Duration `envconfig:"AUTOSALLON_DB_CONN_MAX_IDLE_TIME" default:"10m"`
}

// IsSQLite reports whether the sqlite driver is selected.
func (db DBConfig) IsSQLite() bool {
	return strings.EqualFold(strings.TrimSpace(db.Driver), DriverSQLite)
}

type RedisConfig struct {
	URL          string        `envconfig:"AUTOSALLON_REDIS_URL" required:"true"`
	Address      string        `envconfig:"AUTOSALLON_REDIS_ADDR"`
	Password     string        `envconfig:"AUTOSALLON_REDIS_PASSWORD"`
	DB           int           `envconfig:"AUTOSALLON_REDIS_DB" default:"0"`
	PoolSize     int           `envconfig:"AUTOSALLON_REDIS_POOL_SIZE" default:"10"`
	MinIdleConns int           `envconfig:"AUTOSALLON_REDIS_MIN_IDLE_CONNS" default:"2"`
	DialTimeout  time.Duration `envconfig:"AUTOSALLON_REDIS_DIAL_TIMEOUT" default:"5s"`
	ReadTimeout  time.Duration `envconfig:"AUTOSALLON_REDIS_READ_TIMEOUT" default:"5s"`
	WriteTimeout time.Duration `envconfig:"AUTOSALLON_REDIS_WRITE_TIMEOUT" default:"5s"`
}

type JWTConfig struct {
	Secret                 string `envconfig:"AUTOSALLON_JWT_SECRET" required:"true"`
	Issuer                 string `envconfig:"AUTOSALLON_JWT_ISSUER" required:"true"`
	ExpirationMinutes      int    `envconfig:"AUTOSALLON_JWT_EXPIRATION_MINUTES" required:"true"`
	RefreshTokenTTLMinutes int    `envconfig:"AUTOSALLON_REFRESH_TOKEN_TTL_MINUTES" default:"43200"`
}

// RefreshTokenTTL returns the refresh token TTL configured in minutes.
func (j JWTConfig) RefreshTokenTTL() time.Duration {
	if j.RefreshTokenTTLMinutes <= 0 {
		return 0
	}
	return time.Duration(j.RefreshTokenTTLMinutes) * time.Minute
}

type PasswordConfig struct {
	ArgonMemoryKB    int `envconfig:"AUTOSALLON_ARGON_MEMORY_KB" default:"65536"`
	ArgonTime        int `envconfig:"AUTOSALLON_ARGON_TIME" default:"3"`
	ArgonParallelism int `envconfig:"AUTOSALLON_ARGON_PARALLELISM" default:"2"`
	ArgonSaltLen     int `envconfig:"AUTOSALLON_ARGON_SALT_LEN" default:"16"`
	ArgonKeyLen      int `envconfig:"AUTOSALLON_ARGON_KEY_LEN" default:"32"`
}

type AuthRateLimitConfig struct {
	LoginWindow        time.Duration `envconfig:"AUTOSALLON_AUTH_RATE_LIMIT_LOGIN_WINDOW" default:"1m"`
	LoginEmailLimit    int           `envconfig:"AUTOSALLON_AUTH_RATE_LIMIT_LOGIN_EMAIL_LIMIT" default:"5"`
	LoginIPLimit       int           `envconfig:"AUTOSALLON_AUTH_RATE_LIMIT_LOGIN_IP_LIMIT" default:"20"`
	RegisterWindow     time.Duration `envconfig:"AUTOSALLON_AUTH_RATE_LIMIT_REGISTER_WINDOW" default:"5m"`
	RegisterEmailLimit int           `envconfig:"AUTOSALLON_AUTH_RATE_LIMIT_REGISTER_EMAIL_LIMIT" default:"3"`
	RegisterIPLimit    int           `envconfig:"AUTOSALLON_AUTH_RATE_LIMIT_REGISTER_IP_LIMIT" default:"20"`
}

type FeatureFlagsConfig struct {
	UseSQLite   bool   `envconfig:"AUTOSALLON_USE_SQLITE" default:"false"`
	SQLitePath  string `envconfig:"AUTOSALLON_SQLITE_PATH" default:"autosallon.db"`
	AutoMigrate bool   `envconfig:"AUTOSALLON_AUTO_MIGRATE" default:"false"`
}

// SearchConfig drives catalog page sizes and facet caps.
type SearchConfig struct {
	PageSize          int    `envconfig:"AUTOSALLON_SEARCH_PAGE_SIZE" default:"24"`
	AdminPageSize     int    `envconfig:"AUTOSALLON_ADMIN_PAGE_SIZE" default:"20"`
	FavoritesPageSize int    `envconfig:"AUTOSALLON_FAVORITES_PAGE_SIZE" default:"24"`
	HomePicks         int    `envconfig:"AUTOSALLON_HOME_PICKS" default:"24"`
	PlaceholderImage  string `envconfig:"AUTOSALLON_PLACEHOLDER_IMAGE" default:"https://via.placeholder.com/800x500?text=No+Image"`

	ManufacturerFacetLimit int `envconfig:"AUTOSALLON_FACET_MANUFACTURER_LIMIT" default:"12"`
	ModelFacetLimit        int `envconfig:"AUTOSALLON_FACET_MODEL_LIMIT" default:"12"`
	FuelFacetLimit         int `envconfig:"AUTOSALLON_FACET_FUEL_LIMIT" default:"8"`
	TransmissionFacetLimit int `envconfig:"AUTOSALLON_FACET_TRANSMISSION_LIMIT" default:"8"`
	ColorFacetLimit        int `envconfig:"AUTOSALLON_FACET_COLOR_LIMIT" default:"10"`
	SeatsFacetLimit        int `envconfig:"AUTOSALLON_FACET_SEATS_LIMIT" default:"6"`
	YearFacetLimit         int `envconfig:"AUTOSALLON_FACET_YEAR_LIMIT" default:"8"`
}

// DefaultSearchConfig mirrors the envconfig defaults for callers that build
// services without loading the environment.
func DefaultSearchConfig() SearchConfig {
	return SearchConfig{
		PageSize:               24,
		AdminPageSize:          20,
		FavoritesPageSize:      24,
		HomePicks:              24,
		PlaceholderImage:       "https://via.placeholder.com/800x500?text=No+Image",
		ManufacturerFacetLimit: 12,
		ModelFacetLimit:        12,
		FuelFacetLimit:         8,
		TransmissionFacetLimit: 8,
		ColorFacetLimit:        10,
		SeatsFacetLimit:        6,
		YearFacetLimit:         8,
	}
}

func (s SearchConfig) validate() error {
	sizes := map[string]int{
		EnvSearchPageSize:    s.PageSize,
		EnvAdminPageSize:     s.AdminPageSize,
		EnvFavoritesPageSize: s.FavoritesPageSize,
	}
	for env, size := range sizes {
		if size <= 0 {
			return fmt.Errorf("%s must be positive", env)
		}
	}
	return nil
}

// AdminConfig holds the credentials used by the admin seeder.
type AdminConfig struct {
	Email    string `envconfig:"AUTOSALLON_ADMIN_EMAIL" default:"admin@example.com"`
	Password string `envconfig:"AUTOSALLON_ADMIN_PASSWORD"`
}

func (db *DBConfig) ensureDSN() error {
	if db.DSN != "" {
		return nil
	}

	missing := []string{}
	legacyValues := map[string]string{
		EnvDBHost: db.LegacyHost,
		EnvDBUser: db.LegacyUser,
		EnvDBName: db.LegacyName,
	}
	for _, env := range legacyDBEnvVars {
		if legacyValues[env] == "" {
			missing = append(missing, env)
		}
	}

	if len(missing) > 0 {
		return fmt.Errorf("either %s or %s are required", EnvDBDSN, strings.Join(missing, ", "))
	}

	userInfo := url.User(db.LegacyUser)
	if db.LegacyPassword != "" {
		userInfo = url.UserPassword(db.LegacyUser, db.LegacyPassword)
	}

	u := &url.URL{
		Scheme: "postgres",
		User:   userInfo,
		Host:   fmt.Sprintf("%s:%d", db.LegacyHost, db.LegacyPort),
		Path:   db.LegacyName,
	}

	if db.LegacySSLMode != "" {
		q := u.Query()
		q.Set("sslmode", db.LegacySSLMode)
		u.RawQuery = q.Encode()
	}

	db.DSN = u.String()
	return nil
}
