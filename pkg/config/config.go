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
	FeatureFlags FeatureFlagsConfig
	Gemini       GeminiConfig
	Rates        RatesConfig
	Learning     LearningConfig
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
	Env          string `envconfig:"CARAPP_APP_ENV" required:"true"`
	Port         string `envconfig:"CARAPP_APP_PORT" required:"true"`
	LogLevel     string `envconfig:"CARAPP_LOG_LEVEL" default:"info"`
	LogWarnStack bool   `envconfig:"CARAPP_LOG_WARN_STACK" default:"false"`
}

func (a AppConfig) IsDev() bool {
	return strings.EqualFold(a.Env, AppEnvDev)
}

func (a AppConfig) IsProd() bool {
	return strings.EqualFold(a.Env, AppEnvProd)
}

type DBConfig struct {
	DSN    string `envconfig:"CARAPP_DB_DSN"`
	Driver string `envconfig:"CARAPP_DB_DRIVER" default:"postgres"`

	LegacyHost     string `envconfig:"CARAPP_DB_HOST"`
	LegacyPort     int    `envconfig:"CARAPP_DB_PORT" default:"5432"`
	LegacyUser     string `envconfig:"CARAPP_DB_USER"`
	LegacyPassword string `envconfig:"CARAPP_DB_PASSWORD"`
	LegacyName     string `envconfig:"CARAPP_DB_NAME"`
	LegacySSLMode  string `envconfig:"CARAPP_DB_SSLMODE" default:"disable"`

	MaxOpenConns    int           `envconfig:"CARAPP_DB_MAX_OPEN_CONNS" default:"20"`
	MaxIdleConns    int           `envconfig:"CARAPP_DB_MAX_IDLE_CONNS" default:"10"`
	ConnMaxLifetime time.Duration `envconfig:"CARAPP_DB_CONN_MAX_LIFETIME" default:"1h"`
	ConnMaxIdleTime time.Duration `envconfig:"CARAPP_DB_CONN_MAX_IDLE_TIME" default:"10m"`
}

type RedisConfig struct {
	URL          string        `envconfig:"CARAPP_REDIS_URL"`
	Address      string        `envconfig:"CARAPP_REDIS_ADDR"`
	Password     string        `envconfig:"CARAPP_REDIS_PASSWORD"`
	DB           int           `envconfig:"CARAPP_REDIS_DB" default:"0"`
	PoolSize     int           `envconfig:"CARAPP_REDIS_POOL_SIZE" default:"10"`
	MinIdleConns int           `envconfig:"CARAPP_REDIS_MIN_IDLE_CONNS" default:"2"`
	DialTimeout  time.Duration `envconfig:"CARAPP_REDIS_DIAL_TIMEOUT" default:"5s"`
	ReadTimeout  time.Duration `envconfig:"CARAPP_REDIS_READ_TIMEOUT" default:"5s"`
	WriteTimeout time.Duration `envconfig:"CARAPP_REDIS_WRITE_TIMEOUT" default:"5s"`
}

// Enabled reports whether any Redis endpoint was configured. The rate cache
// is optional and the API boots without one.
func (r RedisConfig) Enabled() bool {
	return r.URL != "" || r.Address != ""
}

type FeatureFlagsConfig struct {
	UseSQLite   bool `envconfig:"CARAPP_USE_SQLITE" default:"false"`
	AutoMigrate bool `envconfig:"CARAPP_AUTO_MIGRATE" default:"false"`
}

type GeminiConfig struct {
	APIKey  string        `envconfig:"CARAPP_GEMINI_API_KEY"`
	Model   string        `envconfig:"CARAPP_GEMINI_MODEL" default:"gemini-1.5-flash"`
	Timeout time.Duration `envconfig:"CARAPP_GEMINI_TIMEOUT" default:"25s"`
}

// Configured reports whether the assessment provider has a credential. When
// false the compare/assess endpoints surface the AI_NOT_CONFIGURED signal.
func (g GeminiConfig) Configured() bool {
	return strings.TrimSpace(g.APIKey) != ""
}

type RatesConfig struct {
	CacheTTL        time.Duration `envconfig:"CARAPP_RATES_CACHE_TTL" default:"60s"`
	DefaultCurrency string        `envconfig:"CARAPP_RATES_DEFAULT_CURRENCY" default:"USD"`
}

type LearningConfig struct {
	DefaultRegion string `envconfig:"CARAPP_LEARNING_DEFAULT_REGION" default:"global"`
}

func (db *DBConfig) ensureDSN() error {
	if db.DSN != "" {
		return nil
	}
	if db.Driver == DriverSQLite {
		db.DSN = SQLiteMemoryDSN
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
