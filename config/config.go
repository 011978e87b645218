package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

const (
	StorageFile     = "file"
	StorageMemory   = "memory"
	StoragePostgres = "postgres"
	StorageRedis    = "redis"
)

type Config struct {
	Postgres    PostgresConfig
	Redis       RedisConfig
	HTTP        HTTPConfig
	Auth        AuthConfig
	Log         LogConfig
	StorageType string
	DataDir     string
	AuditBuffer int
}

type PostgresConfig struct {
	User     string
	Password string
	DB       string
	Host     string
	Port     int
	SSLMode  string
}

func (pc PostgresConfig) GetDSN() string {
	return fmt.Sprintf(
		"postgres://%s:%s@%s:%d/%s?sslmode=%s",
		pc.User,
		pc.Password,
		pc.Host,
		pc.Port,
		pc.DB,
		pc.SSLMode,
	)
}

type RedisConfig struct {
	Addr      string
	Password  string
	DB        int
	KeyPrefix string
}

type HTTPConfig struct {
	Port string
}

type AuthConfig struct {
	Secret   string
	TokenTTL time.Duration
}

type LogConfig struct {
	Level  string
	Format string
}

// LoadConfig reads the environment, after merging a .env file from the
// working directory if there is one. Variables already set win over the file.
func LoadConfig() Config {
	_ = godotenv.Load()

	storageType := getEnv("STORAGE_TYPE", StorageFile)

	cfg := Config{
		StorageType: storageType,
		DataDir:     getEnv("DATA_DIR", "data"),
		AuditBuffer: getInt("AUDIT_BUFFER", 256),
		HTTP: HTTPConfig{
			Port: getEnv("HTTP_PORT", "3001"),
		},
		Auth: AuthConfig{
			Secret:   mustGetEnv("JWT_SECRET"),
			TokenTTL: getDuration("TOKEN_TTL", time.Hour),
		},
		Log: LogConfig{
			Level:  getEnv("LOG_LEVEL", "info"),
			Format: getEnv("LOG_FORMAT", "console"),
		},
	}

	switch storageType {
	case StorageFile, StorageMemory:
	case StoragePostgres:
		cfg.Postgres = PostgresConfig{
			User:     mustGetEnv("POSTGRES_USER"),
			Password: mustGetEnv("POSTGRES_PASSWORD"),
			DB:       mustGetEnv("POSTGRES_DB"),
			Host:     mustGetEnv("POSTGRES_HOST"),
			Port:     mustGetInt("POSTGRES_PORT"),
			SSLMode:  getEnv("POSTGRES_SSLMODE", "disable"),
		}
	case StorageRedis:
		cfg.Redis = RedisConfig{
			Addr:      mustGetEnv("REDIS_ADDR"),
			Password:  os.Getenv("REDIS_PASSWORD"),
			DB:        getInt("REDIS_DB", 0),
			KeyPrefix: getEnv("REDIS_KEY_PREFIX", "postboard:"),
		}
	default:
		panic("unknown STORAGE_TYPE: " + storageType)
	}

	return cfg
}

func mustGetEnv(key string) string {
	val := os.Getenv(key)
	if val == "" {
		panic("missing required env var: " + key)
	}
	return val
}

func mustGetInt(key string) int {
	val := mustGetEnv(key)
	i, err := strconv.Atoi(val)
	if err != nil {
		panic("invalid int for env var " + key + ": " + val)
	}
	return i
}

func getEnv(key, def string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return def
}

func getInt(key string, def int) int {
	if os.Getenv(key) == "" {
		return def
	}
	return mustGetInt(key)
}

func getDuration(key string, def time.Duration) time.Duration {
	val := os.Getenv(key)
	if val == "" {
		return def
	}
	d, err := time.ParseDuration(val)
	if err != nil || d <= 0 {
		panic("invalid duration for env var " + key + ": " + val)
	}
	return d
}
