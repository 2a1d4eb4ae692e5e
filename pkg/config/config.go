package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/kelseyhightower/envconfig"
)

type Config struct {
	App          AppConfig
	DB           DBConfig
	Redis        RedisConfig
	Assistant    AssistantConfig
	Sessions     SessionConfig
	Quality      QualityConfig
	CORS         CORSConfig
	FeatureFlags FeatureFlagsConfig
}

func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process(EnvPrefix, &cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}
	if err := cfg.DB.validate(); err != nil {
		return nil, err
	}
	if err := cfg.Quality.validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

type AppConfig struct {
	Env          string `envconfig:"GAONBAZAR_APP_ENV" required:"true"`
	Port         string `envconfig:"GAONBAZAR_APP_PORT" default:"8080"`
	LogLevel     string `envconfig:"GAONBAZAR_LOG_LEVEL" default:"info"`
	LogFormat    string `envconfig:"GAONBAZAR_LOG_FORMAT" default:"json"`
	LogWarnStack bool   `envconfig:"GAONBAZAR_LOG_WARN_STACK" default:"false"`
}

func (a AppConfig) IsDev() bool {
	return strings.EqualFold(a.Env, AppEnvDev)
}

func (a AppConfig) IsProd() bool {
	return strings.EqualFold(a.Env, AppEnvProd)
}

type DBConfig struct {
	Driver string `envconfig:"GAONBAZAR_DB_DRIVER" default:"postgres"`
	DSN    string `envconfig:"GAONBAZAR_DB_DSN" required:"true"`

	MaxOpenConns    int           `envconfig:"GAONBAZAR_DB_MAX_OPEN_CONNS" default:"20"`
	MaxIdleConns    int           `envconfig:"GAONBAZAR_DB_MAX_IDLE_CONNS" default:"10"`
	ConnMaxLifetime time.Duration `envconfig:"GAONBAZAR_DB_CONN_MAX_LIFETIME" default:"1h"`
	ConnMaxIdleTime time.Duration `envconfig:"GAONBAZAR_DB_CONN_MAX_IDLE_TIME" default:"10m"`
}

// UsesSQLite reports whether the sqlite driver was selected.
func (db DBConfig) UsesSQLite() bool {
	return strings.EqualFold(db.Driver, DBDriverSQLite)
}

func (db DBConfig) validate() error {
	switch strings.ToLower(db.Driver) {
	case DBDriverPostgres, DBDriverSQLite:
		return nil
	}
	return fmt.Errorf("%s must be %q or %q, got %q", EnvDBDriver, DBDriverPostgres, DBDriverSQLite, db.Driver)
}

// RedisConfig is optional. With neither URL nor address the API runs without
// idempotency replay and chat rate limiting.
type RedisConfig struct {
	URL          string        `envconfig:"GAONBAZAR_REDIS_URL"`
	Address      string        `envconfig:"GAONBAZAR_REDIS_ADDR"`
	Password     string        `envconfig:"GAONBAZAR_REDIS_PASSWORD"`
	DB           int           `envconfig:"GAONBAZAR_REDIS_DB" default:"0"`
	PoolSize     int           `envconfig:"GAONBAZAR_REDIS_POOL_SIZE" default:"10"`
	MinIdleConns int           `envconfig:"GAONBAZAR_REDIS_MIN_IDLE_CONNS" default:"2"`
	DialTimeout  time.Duration `envconfig:"GAONBAZAR_REDIS_DIAL_TIMEOUT" default:"5s"`
	ReadTimeout  time.Duration `envconfig:"GAONBAZAR_REDIS_READ_TIMEOUT" default:"5s"`
	WriteTimeout time.Duration `envconfig:"GAONBAZAR_REDIS_WRITE_TIMEOUT" default:"5s"`
}

func (r RedisConfig) Enabled() bool {
	return r.URL != "" || r.Address != ""
}

type AssistantConfig struct {
	RulesPath      string        `envconfig:"GAONBAZAR_ASSISTANT_RULES_PATH"`
	ChatRateWindow time.Duration `envconfig:"GAONBAZAR_ASSISTANT_RATE_WINDOW" default:"1m"`
	ChatRateLimit  int           `envconfig:"GAONBAZAR_ASSISTANT_RATE_LIMIT" default:"30"`
}

// SessionConfig controls how long an untouched cart or conversation is kept in memory.
type SessionConfig struct {
	IdleTTL       time.Duration `envconfig:"GAONBAZAR_SESSION_IDLE_TTL" default:"2h"`
	SweepInterval time.Duration `envconfig:"GAONBAZAR_SESSION_SWEEP_INTERVAL" default:"5m"`
}

// QualityConfig carries the storage bands that count as ideal for produce.
type QualityConfig struct {
	MinTemperature float64 `envconfig:"GAONBAZAR_QUALITY_MIN_TEMP" default:"15"`
	MaxTemperature float64 `envconfig:"GAONBAZAR_QUALITY_MAX_TEMP" default:"25"`
	MinHumidity    float64 `envconfig:"GAONBAZAR_QUALITY_MIN_HUMIDITY" default:"55"`
	MaxHumidity    float64 `envconfig:"GAONBAZAR_QUALITY_MAX_HUMIDITY" default:"75"`
}

func (q QualityConfig) validate() error {
	if q.MinTemperature > q.MaxTemperature {
		return fmt.Errorf("quality temperature band is inverted: %v > %v", q.MinTemperature, q.MaxTemperature)
	}
	if q.MinHumidity > q.MaxHumidity {
		return fmt.Errorf("quality humidity band is inverted: %v > %v", q.MinHumidity, q.MaxHumidity)
	}
	return nil
}

type CORSConfig struct {
	AllowedOrigins []string `envconfig:"GAONBAZAR_CORS_ORIGINS" default:"http://localhost:3000"`
}

type FeatureFlagsConfig struct {
	AutoMigrate bool `envconfig:"GAONBAZAR_AUTO_MIGRATE" default:"false"`
}
