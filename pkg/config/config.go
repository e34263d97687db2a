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
	Env          string `envconfig:"STOCKDECK_APP_ENV" required:"true"`
	Port         string `envconfig:"STOCKDECK_APP_PORT" required:"true"`
	LogLevel     string `envconfig:"STOCKDECK_LOG_LEVEL" default:"info"`
	LogWarnStack bool   `envconfig:"STOCKDECK_LOG_WARN_STACK" default:"false"`
}

func (a AppConfig) IsDev() bool {
	return strings.EqualFold(a.Env, AppEnvDev)
}

func (a AppConfig) IsProd() bool {
	return strings.EqualFold(a.Env, AppEnvProd)
}

type DBConfig struct {
	DSN    string `envconfig:"STOCKDECK_DB_DSN"`
	Driver string `envconfig:"STOCKDECK_DB_DRIVER" default:"postgres"`

	LegacyHost     string `envconfig:"STOCKDECK_DB_HOST"`
	LegacyPort     int    `envconfig:"STOCKDECK_DB_PORT" default:"5432"`
	LegacyUser     string `envconfig:"STOCKDECK_DB_USER"`
	LegacyPassword string `envconfig:"STOCKDECK_DB_PASSWORD"`
	LegacyName     string `envconfig:"STOCKDECK_DB_NAME"`
	LegacySSLMode  string `envconfig:"STOCKDECK_DB_SSLMODE" default:"disable"`

	MaxOpenConns    int           `envconfig:"STOCKDECK_DB_MAX_OPEN_CONNS" default:"20"`
	MaxIdleConns    int           `envconfig:"STOCKDECK_DB_MAX_IDLE_CONNS" default:"10"`
	ConnMaxLifetime time.Duration `envconfig:"STOCKDECK_DB_CONN_MAX_LIFETIME" default:"1h"`
	ConnMaxIdleTime time.Duration `envconfig:"STOCKDECK_DB_CONN_MAX_IDLE_TIME" default:"10m"`
}

type RedisConfig struct {
	URL          string        `envconfig:"STOCKDECK_REDIS_URL"`
	Address      string        `envconfig:"STOCKDECK_REDIS_ADDR"`
	Password     string        `envconfig:"STOCKDECK_REDIS_PASSWORD"`
	DB           int           `envconfig:"STOCKDECK_REDIS_DB" default:"0"`
	PoolSize     int           `envconfig:"STOCKDECK_REDIS_POOL_SIZE" default:"10"`
	MinIdleConns int           `envconfig:"STOCKDECK_REDIS_MIN_IDLE_CONNS" default:"2"`
	DialTimeout  time.Duration `envconfig:"STOCKDECK_REDIS_DIAL_TIMEOUT" default:"5s"`
	ReadTimeout  time.Duration `envconfig:"STOCKDECK_REDIS_READ_TIMEOUT" default:"5s"`
	WriteTimeout time.Duration `envconfig:"STOCKDECK_REDIS_WRITE_TIMEOUT" default:"5s"`
}

// Configured reports whether any redis endpoint was provided. The API runs
// without redis; auth rate limiting is simply skipped.
func (r RedisConfig) Configured() bool {
	return r.URL != "" || r.Address != ""
}

type JWTConfig struct {
	Secret            string `envconfig:"STOCKDECK_JWT_SECRET" required:"true"`
	Issuer            string `envconfig:"STOCKDECK_JWT_ISSUER" required:"true"`
	ExpirationMinutes int    `envconfig:"STOCKDECK_JWT_EXPIRATION_MINUTES" default:"60"`
}

type PasswordConfig struct {
	ArgonMemoryKB    int `envconfig:"STOCKDECK_ARGON_MEMORY_KB" default:"65536"`
	ArgonTime        int `envconfig:"STOCKDECK_ARGON_TIME" default:"3"`
	ArgonParallelism int `envconfig:"STOCKDECK_ARGON_PARALLELISM" default:"2"`
	ArgonSaltLen     int `envconfig:"STOCKDECK_ARGON_SALT_LEN" default:"16"`
	ArgonKeyLen      int `envconfig:"STOCKDECK_ARGON_KEY_LEN" default:"32"`
}

type AuthRateLimitConfig struct {
	LoginWindow         time.Duration `envconfig:"STOCKDECK_AUTH_RATE_LIMIT_LOGIN_WINDOW" default:"1m"`
	LoginUsernameLimit  int           `envconfig:"STOCKDECK_AUTH_RATE_LIMIT_LOGIN_USERNAME_LIMIT" default:"5"`
	LoginIPLimit        int           `envconfig:"STOCKDECK_AUTH_RATE_LIMIT_LOGIN_IP_LIMIT" default:"20"`
	SignupWindow        time.Duration `envconfig:"STOCKDECK_AUTH_RATE_LIMIT_SIGNUP_WINDOW" default:"5m"`
	SignupUsernameLimit int           `envconfig:"STOCKDECK_AUTH_RATE_LIMIT_SIGNUP_USERNAME_LIMIT" default:"3"`
	SignupIPLimit       int           `envconfig:"STOCKDECK_AUTH_RATE_LIMIT_SIGNUP_IP_LIMIT" default:"20"`
}

type FeatureFlagsConfig struct {
	AutoMigrate bool `envconfig:"STOCKDECK_AUTO_MIGRATE" default:"false"`
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
