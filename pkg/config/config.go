package config

import (
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/kelseyhightower/envconfig"
)

const (
	EnvPrefix = ""

	AppEnvDev  = "dev"
	AppEnvProd = "prod"
)

type Config struct {
	App           AppConfig
	DB            DBConfig
	Redis         RedisConfig
	JWT           JWTConfig
	Password      PasswordConfig
	AuthRateLimit AuthRateLimitConfig
	FeatureFlags  FeatureFlagsConfig
	Webhook       WebhookConfig
	Email         EmailConfig
	Storage       StorageConfig
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
	Env          string `envconfig:"FASHIONSHOP_APP_ENV" required:"true"`
	Port         string `envconfig:"FASHIONSHOP_APP_PORT" default:"8080"`
	LogLevel     string `envconfig:"FASHIONSHOP_LOG_LEVEL" default:"info"`
	LogWarnStack bool   `envconfig:"FASHIONSHOP_LOG_WARN_STACK" default:"false"`
}

func (a AppConfig) IsDev() bool {
	return strings.EqualFold(a.Env, AppEnvDev)
}

func (a AppConfig) IsProd() bool {
	return strings.EqualFold(a.Env, AppEnvProd)
}

type DBConfig struct {
	DSN    string `envconfig:"FASHIONSHOP_DB_DSN"`
	Driver string `envconfig:"FASHIONSHOP_DB_DRIVER" default:"postgres"`

	Host     string `envconfig:"FASHIONSHOP_DB_HOST"`
	Port     int    `envconfig:"FASHIONSHOP_DB_PORT" default:"5432"`
	User     string `envconfig:"FASHIONSHOP_DB_USER"`
	Password string `envconfig:"FASHIONSHOP_DB_PASSWORD"`
	Name     string `envconfig:"FASHIONSHOP_DB_NAME"`
	SSLMode  string `envconfig:"FASHIONSHOP_DB_SSLMODE" default:"disable"`

	MaxOpenConns    int           `envconfig:"FASHIONSHOP_DB_MAX_OPEN_CONNS" default:"20"`
	MaxIdleConns    int           `envconfig:"FASHIONSHOP_DB_MAX_IDLE_CONNS" default:"10"`
	ConnMaxLifetime time.Duration `envconfig:"FASHIONSHOP_DB_CONN_MAX_LIFETIME" default:"1h"`
	ConnMaxIdleTime time.Duration `envconfig:"FASHIONSHOP_DB_CONN_MAX_IDLE_TIME" default:"10m"`
}

// ensureDSN derives a Postgres DSN from discrete host settings when no DSN
// was supplied. SQLite DSNs are passed through untouched.
func (d *DBConfig) ensureDSN() error {
	if d.DSN != "" || strings.EqualFold(d.Driver, "sqlite") {
		return nil
	}
	if d.Host == "" || d.User == "" || d.Name == "" {
		return fmt.Errorf("either FASHIONSHOP_DB_DSN or host/user/name settings are required")
	}
	u := url.URL{
		Scheme: "postgres",
		User:   url.UserPassword(d.User, d.Password),
		Host:   fmt.Sprintf("%s:%d", d.Host, d.Port),
		Path:   d.Name,
	}
	q := u.Query()
	q.Set("sslmode", d.SSLMode)
	u.RawQuery = q.Encode()
	d.DSN = u.String()
	return nil
}

type RedisConfig struct {
	URL          string        `envconfig:"FASHIONSHOP_REDIS_URL"`
	Address      string        `envconfig:"FASHIONSHOP_REDIS_ADDR"`
	Password     string        `envconfig:"FASHIONSHOP_REDIS_PASSWORD"`
	DB           int           `envconfig:"FASHIONSHOP_REDIS_DB" default:"0"`
	PoolSize     int           `envconfig:"FASHIONSHOP_REDIS_POOL_SIZE" default:"10"`
	MinIdleConns int           `envconfig:"FASHIONSHOP_REDIS_MIN_IDLE_CONNS" default:"2"`
	DialTimeout  time.Duration `envconfig:"FASHIONSHOP_REDIS_DIAL_TIMEOUT" default:"5s"`
	ReadTimeout  time.Duration `envconfig:"FASHIONSHOP_REDIS_READ_TIMEOUT" default:"5s"`
	WriteTimeout time.Duration `envconfig:"FASHIONSHOP_REDIS_WRITE_TIMEOUT" default:"5s"`
}

func (r RedisConfig) Enabled() bool {
	return r.URL != "" || r.Address != ""
}

type JWTConfig struct {
	Secret            string `envconfig:"FASHIONSHOP_JWT_SECRET" required:"true"`
	Issuer            string `envconfig:"FASHIONSHOP_JWT_ISSUER" default:"fashionshop"`
	ExpirationMinutes int    `envconfig:"FASHIONSHOP_JWT_EXPIRATION_MINUTES" default:"1440"`
}

// TokenTTL returns the access token lifetime.
func (j JWTConfig) TokenTTL() time.Duration {
	if j.ExpirationMinutes <= 0 {
		return 0
	}
	return time.Duration(j.ExpirationMinutes) * time.Minute
}

type PasswordConfig struct {
	ArgonMemoryKB    int `envconfig:"FASHIONSHOP_ARGON_MEMORY_KB" default:"65536"`
	ArgonTime        int `envconfig:"FASHIONSHOP_ARGON_TIME" default:"3"`
	ArgonParallelism int `envconfig:"FASHIONSHOP_ARGON_PARALLELISM" default:"2"`
	ArgonSaltLen     int `envconfig:"FASHIONSHOP_ARGON_SALT_LEN" default:"16"`
	ArgonKeyLen      int `envconfig:"FASHIONSHOP_ARGON_KEY_LEN" default:"32"`
}

type AuthRateLimitConfig struct {
	LoginWindow        time.Duration `envconfig:"FASHIONSHOP_AUTH_RATE_LIMIT_LOGIN_WINDOW" default:"1m"`
	LoginEmailLimit    int           `envconfig:"FASHIONSHOP_AUTH_RATE_LIMIT_LOGIN_EMAIL_LIMIT" default:"5"`
	LoginIPLimit       int           `envconfig:"FASHIONSHOP_AUTH_RATE_LIMIT_LOGIN_IP_LIMIT" default:"20"`
	RegisterWindow     time.Duration `envconfig:"FASHIONSHOP_AUTH_RATE_LIMIT_REGISTER_WINDOW" default:"5m"`
	RegisterEmailLimit int           `envconfig:"FASHIONSHOP_AUTH_RATE_LIMIT_REGISTER_EMAIL_LIMIT" default:"3"`
	RegisterIPLimit    int           `envconfig:"FASHIONSHOP_AUTH_RATE_LIMIT_REGISTER_IP_LIMIT" default:"20"`
}

type FeatureFlagsConfig struct {
	AutoMigrate bool `envconfig:"FASHIONSHOP_AUTO_MIGRATE" default:"false"`
	SeedRoles   bool `envconfig:"FASHIONSHOP_SEED_ROLES" default:"true"`
}

type WebhookConfig struct {
	AdminURL string        `envconfig:"FASHIONSHOP_WEBHOOK_ADMIN_URL"`
	Timeout  time.Duration `envconfig:"FASHIONSHOP_WEBHOOK_TIMEOUT" default:"5s"`
}

type EmailConfig struct {
	FromAddress string `envconfig:"FASHIONSHOP_EMAIL_FROM" default:"no-reply@fashionshop.local"`
	FromName    string `envconfig:"FASHIONSHOP_EMAIL_FROM_NAME" default:"Fashion Shop"`
}

type StorageConfig struct {
	RootDir string `envconfig:"FASHIONSHOP_STORAGE_ROOT" default:"./uploads"`
}
