package config

// EnvPrefix is passed to envconfig; individual fields carry explicit
// SME_-prefixed names so the prefix stays empty.
const EnvPrefix = ""

const (
	AppEnvDev  = "dev"
	AppEnvProd = "prod"
)

const (
	EnvAppEnv      = "SME_APP_ENV"
	EnvPort        = "SME_APP_PORT"
	EnvDBDSN       = "SME_DB_DSN"
	EnvDBHost      = "SME_DB_HOST"
	EnvDBUser      = "SME_DB_USER"
	EnvDBName      = "SME_DB_NAME"
	EnvRedisURL    = "SME_REDIS_URL"
	EnvJWTSecret   = "SME_JWT_SECRET"
	EnvJWTIssuer   = "SME_JWT_ISSUER"
	EnvJWTExpMins  = "SME_JWT_EXPIRATION_MINUTES"
	EnvRefreshTTL  = "SME_REFRESH_TOKEN_TTL_MINUTES"
	EnvAdminEmails = "SME_ADMIN_EMAILS"
)

var legacyDBEnvVars = []string{EnvDBHost, EnvDBUser, EnvDBName}
