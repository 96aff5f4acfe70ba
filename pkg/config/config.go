package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/kelseyhightower/envconfig"
)

const EnvPrefix = "POWERCORE"

const (
	AppEnvDev  = "dev"
	AppEnvProd = "prod"
)

// Storage backend identifiers.
const (
	StorageSQLite = "sqlite"
	StorageRedis  = "redis"
	StorageMemory = "memory"
)

type Config struct {
	App     AppConfig
	Backend BackendConfig
	Storage StorageConfig
	Redis   RedisConfig
	Poll    PollConfig
}

func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process(EnvPrefix, &cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}
	if err := cfg.Storage.validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

type AppConfig struct {
	Env          string `envconfig:"POWERCORE_APP_ENV" default:"dev"`
	Port         string `envconfig:"POWERCORE_APP_PORT" default:"3000"`
	LogLevel     string `envconfig:"POWERCORE_LOG_LEVEL" default:"info"`
	LogWarnStack bool   `envconfig:"POWERCORE_LOG_WARN_STACK" default:"false"`
}

func (a AppConfig) IsDev() bool {
	return strings.EqualFold(a.Env, AppEnvDev)
}

func (a AppConfig) IsProd() bool {
	return strings.EqualFold(a.Env, AppEnvProd)
}

// BackendConfig points the gateway at the storefront API. PublicURL is what a
// browser can reach; InternalURL may name a service-network host and is used
// when the client itself originates the request.
type BackendConfig struct {
	PublicURL   string        `envconfig:"POWERCORE_API_URL" default:"http://localhost:8000"`
	InternalURL string        `envconfig:"POWERCORE_API_INTERNAL_URL" default:"http://backend:8000"`
	Timeout     time.Duration `envconfig:"POWERCORE_API_TIMEOUT" default:"15s"`
}

// ResolveBaseURL picks the base URL for server-originated calls. A public URL
// that names an in-network host is useless from outside the service network,
// so loopback hosts stay on the public URL and anything else prefers internal.
func (b BackendConfig) ResolveBaseURL() string {
	public := strings.TrimRight(b.PublicURL, "/")
	internal := strings.TrimRight(b.InternalURL, "/")
	if internal == "" {
		return public
	}
	if strings.Contains(public, "localhost") || strings.Contains(public, "127.0.0.1") {
		return public
	}
	return internal
}

type StorageConfig struct {
	Backend    string `envconfig:"POWERCORE_STORAGE_BACKEND" default:"sqlite"`
	SQLitePath string `envconfig:"POWERCORE_STORAGE_SQLITE_PATH" default:"powercore.db"`
	Namespace  string `envconfig:"POWERCORE_STORAGE_NAMESPACE" default:"powercore"`
}

func (s StorageConfig) validate() error {
	switch s.Backend {
	case StorageSQLite, StorageRedis, StorageMemory:
		return nil
	}
	return fmt.Errorf("unknown storage backend %q", s.Backend)
}

type RedisConfig struct {
	URL          string        `envconfig:"POWERCORE_REDIS_URL"`
	Address      string        `envconfig:"POWERCORE_REDIS_ADDR"`
	Password     string        `envconfig:"POWERCORE_REDIS_PASSWORD"`
	DB           int           `envconfig:"POWERCORE_REDIS_DB" default:"0"`
	PoolSize     int           `envconfig:"POWERCORE_REDIS_POOL_SIZE" default:"10"`
	MinIdleConns int           `envconfig:"POWERCORE_REDIS_MIN_IDLE_CONNS" default:"2"`
	DialTimeout  time.Duration `envconfig:"POWERCORE_REDIS_DIAL_TIMEOUT" default:"5s"`
	ReadTimeout  time.Duration `envconfig:"POWERCORE_REDIS_READ_TIMEOUT" default:"5s"`
	WriteTimeout time.Duration `envconfig:"POWERCORE_REDIS_WRITE_TIMEOUT" default:"5s"`
}

type PollConfig struct {
	HealthInterval     time.Duration `envconfig:"POWERCORE_HEALTH_POLL_INTERVAL" default:"10s"`
	AdminStatsInterval time.Duration `envconfig:"POWERCORE_ADMIN_STATS_POLL_INTERVAL" default:"30s"`
}
