package configs

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Probe kinds understood by the composition root.
const (
	ProbeKindRelational = "relational"
	ProbeKindCache      = "cache"
)

type Config struct {
	Server   ServerConfig
	Database DatabaseConfig
	Redis    RedisConfig
	Log      LogConfig
	Status   StatusConfig
}

type ServerConfig struct {
	Host           string
	Port           string
	ReadTimeout    time.Duration
	WriteTimeout   time.Duration
	IdleTimeout    time.Duration
	TLSCertFile    string
	TLSKeyFile     string
	AllowedOrigins []string
	ServiceName    string
	Version        string
}

type DatabaseConfig struct {
	Driver   string // postgres or sqlite
	Host     string
	Port     string
	User     string
	Password string
	DBName   string
	SSLMode  string
	DSN      string
	// Connection pool settings
	MaxOpenConns    int
	MaxIdleConns    int
	ConnMaxLifetime time.Duration
	ConnMaxIdleTime time.Duration
}

type RedisConfig struct {
	Host     string
	Port     string
	Password string
	DB       int
	// ClusterAddrs switches the client to cluster mode when non-empty.
	ClusterAddrs []string
	// Pool and timeout settings
	PoolSize     int
	MinIdleConns int
	DialTimeout  time.Duration
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
	PoolTimeout  time.Duration
	IdleTimeout  time.Duration
}

type LogConfig struct {
	Level  string
	Format string // json or text
}

// StatusConfig holds the aggregation timing and the probe registry layout.
type StatusConfig struct {
	OverallDeadline time.Duration
	GracePeriod     time.Duration
	SlowThreshold   time.Duration
	ProbesFile      string
	Probes          []ProbeConfig
}

// ProbeConfig describes one probe registration.
type ProbeConfig struct {
	Name     string
	Kind     string
	Required bool
	Timeout  time.Duration
}

// NeedsKind reports whether any configured probe is of the given kind.
func (s StatusConfig) NeedsKind(kind string) bool {
	for _, p := range s.Probes {
		if p.Kind == kind {
			return true
		}
	}
	return false
}

func Load() (*Config, error) {
	// Load .env file if it exists
	_ = godotenv.Load()

	cfg := &Config{
		Server: ServerConfig{
			Host:           getEnv("SERVER_HOST", "0.0.0.0"),
			Port:           getEnv("SERVER_PORT", "8080"),
			ReadTimeout:    getDurationEnv("SERVER_READ_TIMEOUT", 10*time.Second),
			WriteTimeout:   getDurationEnv("SERVER_WRITE_TIMEOUT", 10*time.Second),
			IdleTimeout:    getDurationEnv("SERVER_IDLE_TIMEOUT", 120*time.Second),
			TLSCertFile:    getEnv("TLS_CERT_FILE", ""),
			TLSKeyFile:     getEnv("TLS_KEY_FILE", ""),
			AllowedOrigins: getListEnv("SERVER_ALLOWED_ORIGINS", nil),
			ServiceName:    getEnv("SERVICE_NAME", "status-service"),
			Version:        getEnv("SERVICE_VERSION", "dev"),
		},
		Database: DatabaseConfig{
			Driver:          getEnv("DB_DRIVER", "postgres"),
			Host:            getEnv("DB_HOST", "localhost"),
			Port:            getEnv("DB_PORT", "5432"),
			User:            getEnv("DB_USER", "postgres"),
			Password:        getEnv("DB_PASSWORD", "postgres"),
			DBName:          getEnv("DB_NAME", "postgres"),
			SSLMode:         getEnv("DB_SSL_MODE", "disable"),
			DSN:             getEnv("DB_DSN", ""),
			MaxOpenConns:    getIntEnv("DB_MAX_OPEN_CONNS", 4),
			MaxIdleConns:    getIntEnv("DB_MAX_IDLE_CONNS", 2),
			ConnMaxLifetime: getDurationEnv("DB_CONN_MAX_LIFETIME", 30*time.Minute),
			ConnMaxIdleTime: getDurationEnv("DB_CONN_MAX_IDLE_TIME", 5*time.Minute),
		},
		Redis: RedisConfig{
			Host:         getEnv("REDIS_HOST", "localhost"),
			Port:         getEnv("REDIS_PORT", "6379"),
			Password:     getEnv("REDIS_PASSWORD", ""),
			DB:           getIntEnv("REDIS_DB", 0),
			ClusterAddrs: getListEnv("REDIS_CLUSTER_ADDRS", nil),
			PoolSize:     getIntEnv("REDIS_POOL_SIZE", 4),
			MinIdleConns: getIntEnv("REDIS_MIN_IDLE_CONNS", 1),
			DialTimeout:  getDurationEnv("REDIS_DIAL_TIMEOUT", 2*time.Second),
			ReadTimeout:  getDurationEnv("REDIS_READ_TIMEOUT", time.Second),
			WriteTimeout: getDurationEnv("REDIS_WRITE_TIMEOUT", time.Second),
			PoolTimeout:  getDurationEnv("REDIS_POOL_TIMEOUT", 2*time.Second),
			IdleTimeout:  getDurationEnv("REDIS_IDLE_TIMEOUT", 5*time.Minute),
		},
		Log: LogConfig{
			Level:  getEnv("LOG_LEVEL", "info"),
			Format: getEnv("LOG_FORMAT", "json"),
		},
		Status: StatusConfig{
			OverallDeadline: getDurationEnv("STATUS_OVERALL_DEADLINE", 2*time.Second),
			GracePeriod:     getDurationEnv("STATUS_GRACE_PERIOD", 50*time.Millisecond),
			SlowThreshold:   getDurationEnv("STATUS_SLOW_THRESHOLD", 0),
			ProbesFile:      getEnv("STATUS_PROBES_FILE", ""),
			Probes: []ProbeConfig{
				{
					Name:     getEnv("DB_PROBE_NAME", "database"),
					Kind:     ProbeKindRelational,
					Required: getBoolEnv("DB_PROBE_REQUIRED", true),
					Timeout:  getDurationEnv("DB_PROBE_TIMEOUT", 0),
				},
				{
					Name:     getEnv("REDIS_PROBE_NAME", "cache"),
					Kind:     ProbeKindCache,
					Required: getBoolEnv("REDIS_PROBE_REQUIRED", false),
					Timeout:  getDurationEnv("REDIS_PROBE_TIMEOUT", 0),
				},
			},
		},
	}

	if cfg.Status.ProbesFile != "" {
		if err := cfg.Status.applyProbesFile(cfg.Status.ProbesFile); err != nil {
			return nil, err
		}
	}

	// Build database DSN
	if cfg.Database.DSN == "" && cfg.Database.Driver == "postgres" {
		cfg.Database.DSN = fmt.Sprintf(
			"host=%s port=%s user=%s password=%s dbname=%s sslmode=%s",
			cfg.Database.Host,
			cfg.Database.Port,
			cfg.Database.User,
			cfg.Database.Password,
			cfg.Database.DBName,
			cfg.Database.SSLMode,
		)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getIntEnv(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.Atoi(value); err == nil {
			return intValue
		}
	}
	return defaultValue
}

func getDurationEnv(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if duration, err := time.ParseDuration(value); err == nil {
			return duration
		}
	}
	return defaultValue
}

func getBoolEnv(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if b, err := strconv.ParseBool(value); err == nil {
			return b
		}
	}
	return defaultValue
}

// getListEnv splits a comma separated value, dropping empty items.
func getListEnv(key string, defaultValue []string) []string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	var out []string
	for _, item := range strings.Split(value, ",") {
		if item = strings.TrimSpace(item); item != "" {
			out = append(out, item)
		}
	}
	return out
}
