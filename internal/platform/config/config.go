// Pacote config centraliza o carregamento das variáveis de ambiente usadas pelo worker.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	PostgresHost     string
	PostgresPort     string
	PostgresUser     string
	PostgresPassword string
	PostgresDB       string
	PostgresSSLMode  string

	RedisAddr     string
	RedisPassword string
	RedisDB       int

	EventsKey      string
	EventsCoalesce time.Duration
	CacheKeyPrefix string
	CacheTTL       time.Duration

	AutoMigrate          bool
	ReadyMaxBacklog      int64
	ShutdownTimeout      time.Duration
	LogLevel             slog.Level
	WorkerMetricsAddress string
}

// Load lê um .env opcional (variáveis já exportadas têm precedência) e
// depois o ambiente.
func Load() (Config, error) {
	return LoadFile(".env")
}

func LoadFile(path string) (Config, error) {
	if err := godotenv.Load(path); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return Config{}, fmt.Errorf("config: ler %s: %w", path, err)
	}

	// Defaults priorizam execução local; variáveis permitem sobrescrever em Docker/K8s.
	cfg := Config{
		PostgresHost:         getEnv("POSTGRES_HOST", "localhost"),
		PostgresPort:         getEnv("POSTGRES_PORT", "5432"),
		PostgresUser:         getEnv("POSTGRES_USER", "apuracao"),
		PostgresPassword:     getEnv("POSTGRES_PASSWORD", "apuracao"),
		PostgresDB:           getEnv("POSTGRES_DB", "apuracao"),
		PostgresSSLMode:      getEnv("POSTGRES_SSLMODE", "disable"),
		RedisAddr:            getEnv("REDIS_ADDR", "localhost:6379"),
		RedisPassword:        os.Getenv("REDIS_PASSWORD"),
		EventsKey:            getEnv("REDIS_EVENTS_KEY", "apuracao:eventos"),
		EventsCoalesce:       time.Duration(getEnvAsInt("EVENTS_COALESCE_SECONDS", 300)) * time.Second,
		CacheKeyPrefix:       getEnv("REDIS_CACHE_PREFIX", "apuracao:resumo"),
		CacheTTL:             time.Duration(getEnvAsInt("CACHE_TTL_SECONDS", 600)) * time.Second,
		AutoMigrate:          getEnvAsBool("DB_AUTO_MIGRATE", true),
		ReadyMaxBacklog:      int64(getEnvAsInt("READY_MAX_BACKLOG", 10000)),
		ShutdownTimeout:      time.Duration(getEnvAsInt("SHUTDOWN_TIMEOUT_SECONDS", 10)) * time.Second,
		WorkerMetricsAddress: getEnv("WORKER_METRICS_ADDRESS", ":9090"),
	}

	dbInt, err := strconv.Atoi(getEnv("REDIS_DB", "0"))
	if err != nil {
		return Config{}, fmt.Errorf("config: REDIS_DB invalido: %w", err)
	}
	cfg.RedisDB = dbInt

	if err := cfg.LogLevel.UnmarshalText([]byte(getEnv("LOG_LEVEL", "info"))); err != nil {
		return Config{}, fmt.Errorf("config: LOG_LEVEL invalido: %w", err)
	}

	return cfg, nil
}

func (c Config) PostgresDSN() string {
	return fmt.Sprintf("postgres://%s:%s@%s:%s/%s?sslmode=%s",
		c.PostgresUser,
		c.PostgresPassword,
		c.PostgresHost,
		c.PostgresPort,
		c.PostgresDB,
		c.PostgresSSLMode,
	)
}

func getEnv(key, fallback string) string {
	value := os.Getenv(key)
	if value == "" {
		return fallback
	}
	return value
}

func getEnvAsInt(key string, fallback int) int {
	value := os.Getenv(key)
	if value == "" {
		return fallback
	}
	i, err := strconv.Atoi(value)
	if err != nil {
		return fallback
	}
	return i
}

func getEnvAsBool(key string, fallback bool) bool {
	value := os.Getenv(key)
	if value == "" {
		return fallback
	}
	switch value {
	case "0", "false", "FALSE", "no", "NO":
		return false
	default:
		return true
	}
}
