package config

const (
	// EnvPrefix is intentionally empty: every field carries a fully
	// qualified CARAPP_ envconfig tag.
	EnvPrefix = ""

	AppEnvDev  = "development"
	AppEnvProd = "production"

	DriverPostgres = "postgres"
	DriverSQLite   = "sqlite"

	SQLiteMemoryDSN = "file::memory:?cache=shared"

	EnvDBDSN  = "CARAPP_DB_DSN"
	EnvDBHost = "CARAPP_DB_HOST"
	EnvDBUser = "CARAPP_DB_USER"
	EnvDBName = "CARAPP_DB_NAME"
)

var legacyDBEnvVars = []string{EnvDBHost, EnvDBUser, EnvDBName}
