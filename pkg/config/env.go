package config

const EnvPrefix = "GAONBAZAR"

const (
	AppEnvDev  = "dev"
	AppEnvProd = "prod"

	DBDriverPostgres = "postgres"
	DBDriverSQLite   = "sqlite"
)

const (
	EnvAppEnv      = "GAONBAZAR_APP_ENV"
	EnvPort        = "GAONBAZAR_APP_PORT"
	EnvDBDriver    = "GAONBAZAR_DB_DRIVER"
	EnvDBDSN       = "GAONBAZAR_DB_DSN"
	EnvRedisURL    = "GAONBAZAR_REDIS_URL"
	EnvRulesPath   = "GAONBAZAR_ASSISTANT_RULES_PATH"
	EnvQualityMinT = "GAONBAZAR_QUALITY_MIN_TEMP"
	EnvQualityMaxT = "GAONBAZAR_QUALITY_MAX_TEMP"
	EnvCORSOrigins = "GAONBAZAR_CORS_ORIGINS"
)
