package config

import (
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/kelseyhightower/envconfig"
)

type Config struct {
	App          AppConfig
	DB           DBConfig
	Redis        RedisConfig
	JWT          JWTConfig
	Basket       BasketConfig
	Session      SessionConfig
	FeatureFlags FeatureFlagsConfig
}

func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process(EnvPrefix, &cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}
	if err := cfg.DB.ensureDSN(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

type AppConfig struct {
	Env          string `envconfig:"BASKET_APP_ENV" required:"true"`
	Port         string `envconfig:"BASKET_APP_PORT" required:"true"`
	LogLevel     string `envconfig:"BASKET_LOG_LEVEL" default:"info"`
	LogWarnStack bool   `envconfig:"BASKET_LOG_WARN_STACK" default:"false"`
}

func (a AppConfig) IsDev() bool {
	return strings.EqualFold(a.Env, AppEnvDev)
}

func (a AppConfig) IsProd() bool {
	return strings.EqualFold(a.Env, AppEnvProd)
}

type DBConfig struct {
	DSN    string `envconfig:"BASKET_DB_DSN"`
	Driver string `envconfig:"BASKET_DB_DRIVER" default:"postgres"`

	LegacyHost     string `envconfig:"BASKET_DB_HOST"`
	LegacyPort     int    `envconfig:"BASKET_DB_PORT" default:"5432"`
	LegacyUser     string `envconfig:"BASKET_DB_USER"`
	LegacyPassword string `envconfig:"BASKET_DB_PASSWORD"`
	LegacyName     string `envconfig:"BASKET_DB_NAME"`
	LegacySSLMode  string `envconfig:"BASKET_DB_SSLMODE" default:"disable"`

	MaxOpenConns    int           `envconfig:"BASKET_DB_MAX_OPEN_CONNS" default:"20"`
	MaxIdleConns    int           `envconfig:"BASKET_DB_MAX_IDLE_CONNS" default:"10"`
	ConnMaxLifetime time.Duration `envconfig:"BASKET_DB_CONN_MAX_LIFETIME" default:"1h"`
	ConnMaxIdleTime time.Duration `envconfig:"BASKET_DB_CONN_MAX_IDLE_TIME" default:"10m"`
}

type RedisConfig struct {
	URL          string        `envconfig:"BASKET_REDIS_URL" required:"true"`
	Address      string        `envconfig:"BASKET_REDIS_ADDR"`
	Password     string        `envconfig:"BASKET_REDIS_PASSWORD"`
	DB           int           `envconfig:"BASKET_REDIS_DB" default:"0"`
	PoolSize     int           `envconfig:"BASKET_REDIS_POOL_SIZE" default:"10"`
	MinIdleConns int           `envconfig:"BASKET_REDIS_MIN_IDLE_CONNS" default:"2"`
	DialTimeout  time.Duration `envconfig:"BASKET_REDIS_DIAL_TIMEOUT" default:"5s"`
	ReadTimeout  time.Duration `envconfig:"BASKET_REDIS_READ_TIMEOUT" default:"5s"`
	WriteTimeout time.Duration `envconfig:"BASKET_REDIS_WRITE_TIMEOUT" default:"5s"`
}

type JWTConfig struct {
	Secret            string `envconfig:"BASKET_JWT_SECRET" required:"true"`
	Issuer            string `envconfig:"BASKET_JWT_ISSUER" required:"true"`
	ExpirationMinutes int    `envconfig:"BASKET_JWT_EXPIRATION_MINUTES" default:"60"`
}

// BasketConfig carries the behavioral knobs of the basket manager.
type BasketConfig struct {
	DefaultCurrency string `envconfig:"BASKET_DEFAULT_CURRENCY" default:"USD"`
	AutoDetect      bool   `envconfig:"BASKET_AUTO_DETECT" default:"true"`
}

type SessionConfig struct {
	CookieName        string        `envconfig:"BASKET_SESSION_COOKIE_NAME" default:"basket_session"`
	BasketCookieName  string        `envconfig:"BASKET_BASKET_COOKIE_NAME" default:"basket_id"`
	TTL               time.Duration `envconfig:"BASKET_SESSION_TTL" default:"720h"`
	CookieSecure      bool          `envconfig:"BASKET_SESSION_COOKIE_SECURE" default:"true"`
	ForeverCookieDays int           `envconfig:"BASKET_FOREVER_COOKIE_DAYS" default:"1825"`
}

type FeatureFlagsConfig struct {
	UseSQLite   bool `envconfig:"BASKET_USE_SQLITE" default:"false"`
	AutoMigrate bool `envconfig:"BASKET_AUTO_MIGRATE" default:"false"`
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
