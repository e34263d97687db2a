package config

// EnvPrefix is the envconfig prefix shared by every binary.
const EnvPrefix = "stockdeck"

const (
	AppEnvDev  = "dev"
	AppEnvProd = "prod"
)

const (
	EnvDBDSN  = "STOCKDECK_DB_DSN"
	EnvDBHost = "STOCKDECK_DB_HOST"
	EnvDBUser = "STOCKDECK_DB_USER"
	EnvDBName = "STOCKDECK_DB_NAME"
)

var legacyDBEnvVars = []string{EnvDBHost, EnvDBUser, EnvDBName}
