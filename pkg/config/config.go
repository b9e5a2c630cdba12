package config

import (
	"errors"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

const (
	EnvDevelopment = "development"
	EnvProduction  = "production"
)

type Config struct {
	Env       string
	Port      int
	APIPrefix string

	Database    DatabaseConfig
	Redis       RedisConfig
	CORS        CORSConfig
	Log         LogConfig
	Conflicts   ConflictsConfig
	Recommender RecommenderConfig
}

type DatabaseConfig struct {
	Host         string
	Port         int
	User         string
	Password     string
	Name         string
	SSLMode      string
	MaxOpenConns int
	MaxIdleConns int
}

type RedisConfig struct {
	Host     string
	Port     int
	Password string
	DB       int
}

type CORSConfig struct {
	AllowedOrigins []string
}

type LogConfig struct {
	Level  string
	Format string
}

// ConflictsConfig governs the conflict-report endpoints and cache tuning.
type ConflictsConfig struct {
	CacheTTL       time.Duration
	WarmOnMutation bool
	WarmWorkers    int
	WarmRetries    int
	WarmRetryDelay time.Duration
}

// RecommenderConfig governs the faculty recommendation endpoints.
type RecommenderConfig struct {
	CacheTTL   time.Duration
	DefaultTop int
	MaxTop     int
}

func Load() (*Config, error) {
	_ = godotenv.Load()

	v := viper.New()
	v.SetConfigFile(".env")
	v.SetConfigType("env")
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	setDefaults(v)

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, err
		}
	}

	cfg := &Config{}

	cfg.Env = v.GetString("ENV")
	cfg.Port = v.GetInt("PORT")
	cfg.APIPrefix = v.GetString("API_PREFIX")

	cfg.Database = DatabaseConfig{
		Host:         v.GetString("DB_HOST"),
		Port:         v.GetInt("DB_PORT"),
		User:         v.GetString("DB_USER"),
		Password:     v.GetString("DB_PASSWORD"),
		Name:         v.GetString("DB_NAME"),
		SSLMode:      v.GetString("DB_SSL_MODE"),
		MaxOpenConns: v.GetInt("DB_MAX_OPEN_CONNS"),
		MaxIdleConns: v.GetInt("DB_MAX_IDLE_CONNS"),
	}

	cfg.Redis = RedisConfig{
		Host:     v.GetString("REDIS_HOST"),
		Port:     v.GetInt("REDIS_PORT"),
		Password: v.GetString("REDIS_PASSWORD"),
		DB:       v.GetInt("REDIS_DB"),
	}

	cfg.CORS = CORSConfig{AllowedOrigins: splitAndTrim(v.GetString("ALLOWED_ORIGINS"))}

	cfg.Log = LogConfig{
		Level:  v.GetString("LOG_LEVEL"),
		Format: v.GetString("LOG_FORMAT"),
	}

	cfg.Conflicts = ConflictsConfig{
		CacheTTL:       parseDuration(v.GetString("CONFLICTS_CACHE_TTL"), 10*time.Minute),
		WarmOnMutation: v.GetBool("CONFLICTS_WARM_ON_MUTATION"),
		WarmWorkers:    v.GetInt("CONFLICTS_WARM_WORKERS"),
		WarmRetries:    v.GetInt("CONFLICTS_WARM_RETRIES"),
		WarmRetryDelay: parseDuration(v.GetString("CONFLICTS_WARM_RETRY_DELAY"), 2*time.Second),
	}

	cfg.Recommender = RecommenderConfig{
		CacheTTL:   parseDuration(v.GetString("RECOMMENDER_CACHE_TTL"), 5*time.Minute),
		DefaultTop: v.GetInt("RECOMMENDER_DEFAULT_TOP"),
		MaxTop:     v.GetInt("RECOMMENDER_MAX_TOP"),
	}

	return cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("ENV", EnvDevelopment)
	v.SetDefault("PORT", 8080)
	v.SetDefault("API_PREFIX", "/api/v1")

	v.SetDefault("DB_HOST", "localhost")
	v.SetDefault("DB_PORT", 5432)
	v.SetDefault("DB_USER", "postgres")
	v.SetDefault("DB_PASSWORD", "postgres")
	v.SetDefault("DB_NAME", "faculty_loading")
	v.SetDefault("DB_SSL_MODE", "disable")
	v.SetDefault("DB_MAX_OPEN_CONNS", 10)
	v.SetDefault("DB_MAX_IDLE_CONNS", 5)

	v.SetDefault("REDIS_HOST", "localhost")
	v.SetDefault("REDIS_PORT", 6379)
	v.SetDefault("REDIS_PASSWORD", "")
	v.SetDefault("REDIS_DB", 0)

	v.SetDefault("ALLOWED_ORIGINS", "")
	v.SetDefault("LOG_LEVEL", "info")
	v.SetDefault("LOG_FORMAT", "json")

	v.SetDefault("CONFLICTS_CACHE_TTL", "10m")
	v.SetDefault("CONFLICTS_WARM_ON_MUTATION", true)
	v.SetDefault("CONFLICTS_WARM_WORKERS", 1)
	v.SetDefault("CONFLICTS_WARM_RETRIES", 3)
	v.SetDefault("CONFLICTS_WARM_RETRY_DELAY", "2s")

	v.SetDefault("RECOMMENDER_CACHE_TTL", "5m")
	v.SetDefault("RECOMMENDER_DEFAULT_TOP", 10)
	v.SetDefault("RECOMMENDER_MAX_TOP", 50)
}

func parseDuration(raw string, fallback time.Duration) time.Duration {
	if raw == "" {
		return fallback
	}

	d, err := time.ParseDuration(raw)
	if err != nil {
		return fallback
	}

	return d
}

func splitAndTrim(raw string) []string {
	if raw == "" {
		return nil
	}

	parts := strings.Split(raw, ",")
	result := make([]string, 0, len(parts))
	for _, part := range parts {
		trimmed := strings.TrimSpace(part)
		if trimmed != "" {
			result = append(result, trimmed)
		}
	}

	return result
}
