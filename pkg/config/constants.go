package config

// EnvPrefix is intentionally empty: every variable names its full key in the
// envconfig tag so greps against deployment manifests stay exact.
const EnvPrefix = ""

const (
	AppEnvDev  = "development"
	AppEnvProd = "production"
)

const (
	EnvAppEnv = "BASKET_APP_ENV"
	EnvPort   = "BASKET_APP_PORT"

	EnvDBDSN  = "BASKET_DB_DSN"
	EnvDBHost = "BASKET_DB_HOST"
	EnvDBUser = "BASKET_DB_USER"
	EnvDBName = "BASKET_DB_NAME"

	EnvRedisURL = "BASKET_REDIS_URL"

	EnvJWTSecret = "BASKET_JWT_SECRET"
	EnvJWTIssuer = "BASKET_JWT_ISSUER"
)

var legacyDBEnvVars = []string{EnvDBHost, EnvDBUser, EnvDBName}
