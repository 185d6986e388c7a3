package config

const (
	EnvPrefix = "AUTOSALLON"

	AppEnvDev  = "dev"
	AppEnvProd = "prod"

	DriverPostgres = "postgres"
	DriverSQLite   = "sqlite"

	EnvAppEnv   = "AUTOSALLON_APP_ENV"
	EnvPort     = "AUTOSALLON_APP_PORT"
	EnvLogLevel = "AUTOSALLON_LOG_LEVEL"

	EnvDBDSN    = "AUTOSALLON_DB_DSN"
	EnvDBDriver = "AUTOSALLON_DB_DRIVER"
	EnvDBHost   = "AUTOSALLON_DB_HOST"
	EnvDBUser   = "AUTOSALLON_DB_USER"
	EnvDBName   = "AUTOSALLON_DB_NAME"

	EnvRedisURL = "AUTOSALLON_REDIS_URL"

	EnvJWTSecret              = "AUTOSALLON_JWT_SECRET"
	EnvJWTIssuer              = "AUTOSALLON_JWT_ISSUER"
	EnvJWTExpMins             = "AUTOSALLON_JWT_EXPIRATION_MINUTES"
	EnvRefreshTokenTTLMinutes = "AUTOSALLON_REFRESH_TOKEN_TTL_MINUTES"

	EnvUseSQLite  = "AUTOSALLON_USE_SQLITE"
	EnvSQLitePath = "AUTOSALLON_SQLITE_PATH"

	EnvSearchPageSize    = "AUTOSALLON_SEARCH_PAGE_SIZE"
	EnvAdminPageSize     = "AUTOSALLON_ADMIN_PAGE_SIZE"
	EnvFavoritesPageSize = "AUTOSALLON_FAVORITES_PAGE_SIZE"

	EnvAdminEmail    = "AUTOSALLON_ADMIN_EMAIL"
	EnvAdminPassword = "AUTOSALLON_ADMIN_PASSWORD"
)

var legacyDBEnvVars = []string{EnvDBHost, EnvDBUser, EnvDBName}
