package config

import (
	"errors"
	"strconv"
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

	Database       DatabaseConfig
	Redis          RedisConfig
	JWT            JWTConfig
	CORS           CORSConfig
	Log            LogConfig
	Plazos         PlazosConfig
	Notificaciones NotificacionesConfig
	Validacion     ValidacionConfig
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

type JWTConfig struct {
	Secret            string
	Expiration        time.Duration
	RefreshExpiration time.Duration
}

type CORSConfig struct {
	AllowedOrigins []string
}

type LogConfig struct {
	Level  string
	Format string
}

// PlazosConfig tunes the deadline engine: alert thresholds in business days
// (descending), the internal sweep cadence, and holiday cache behaviour.
type PlazosConfig struct {
	AlertThresholds []int
	SweepEnabled    bool
	SweepInterval   time.Duration
	FeriadosTTL     time.Duration
}

// NotificacionesConfig sizes the best-effort dispatch queue.
type NotificacionesConfig struct {
	Workers    int
	BufferSize int
	MaxRetries int
	RetryDelay time.Duration
}

// ValidacionConfig pins the Art. 110 checklist version reported in verdicts.
type ValidacionConfig struct {
	ChecklistVersion string
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

	cfg.JWT = JWTConfig{
		Secret:            v.GetString("JWT_SECRET"),
		Expiration:        parseDuration(v.GetString("JWT_EXPIRATION"), 24*time.Hour),
		RefreshExpiration: parseDuration(v.GetString("REFRESH_TOKEN_EXPIRATION"), 7*24*time.Hour),
	}

	cfg.CORS = CORSConfig{AllowedOrigins: splitAndTrim(v.GetString("ALLOWED_ORIGINS"))}

	cfg.Log = LogConfig{
		Level:  v.GetString("LOG_LEVEL"),
		Format: v.GetString("LOG_FORMAT"),
	}

	cfg.Plazos = PlazosConfig{
		AlertThresholds: parseThresholds(v.GetString("PLAZOS_ALERT_THRESHOLDS"), []int{5, 3, 1}),
		SweepEnabled:    v.GetBool("PLAZOS_SWEEP_ENABLED"),
		SweepInterval:   parseDuration(v.GetString("PLAZOS_SWEEP_INTERVAL"), 24*time.Hour),
		FeriadosTTL:     parseDuration(v.GetString("FERIADOS_CACHE_TTL"), time.Hour),
	}

	cfg.Notificaciones = NotificacionesConfig{
		Workers:    v.GetInt("NOTIFICACIONES_WORKERS"),
		BufferSize: v.GetInt("NOTIFICACIONES_BUFFER"),
		MaxRetries: v.GetInt("NOTIFICACIONES_RETRIES"),
		RetryDelay: parseDuration(v.GetString("NOTIFICACIONES_RETRY_DELAY"), 5*time.Second),
	}

	cfg.Validacion = ValidacionConfig{
		ChecklistVersion: v.GetString("VALIDACION_CHECKLIST_VERSION"),
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
	v.SetDefault("DB_NAME", "procesos_judiciales")
	v.SetDefault("DB_SSL_MODE", "disable")
	v.SetDefault("DB_MAX_OPEN_CONNS", 10)
	v.SetDefault("DB_MAX_IDLE_CONNS", 5)

	v.SetDefault("REDIS_HOST", "localhost")
	v.SetDefault("REDIS_PORT", 6379)
	v.SetDefault("REDIS_PASSWORD", "")
	v.SetDefault("REDIS_DB", 0)

	v.SetDefault("JWT_SECRET", "dev_secret")
	v.SetDefault("JWT_EXPIRATION", "24h")
	v.SetDefault("REFRESH_TOKEN_EXPIRATION", "168h")

	v.SetDefault("ALLOWED_ORIGINS", "")
	v.SetDefault("LOG_LEVEL", "info")
	v.SetDefault("LOG_FORMAT", "json")

	v.SetDefault("PLAZOS_ALERT_THRESHOLDS", "5,3,1")
	v.SetDefault("PLAZOS_SWEEP_ENABLED", true)
	v.SetDefault("PLAZOS_SWEEP_INTERVAL", "24h")
	v.SetDefault("FERIADOS_CACHE_TTL", "1h")

	v.SetDefault("NOTIFICACIONES_WORKERS", 2)
	v.SetDefault("NOTIFICACIONES_BUFFER", 64)
	v.SetDefault("NOTIFICACIONES_RETRIES", 3)
	v.SetDefault("NOTIFICACIONES_RETRY_DELAY", "5s")

	v.SetDefault("VALIDACION_CHECKLIST_VERSION", "art110-v1")
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

func parseThresholds(raw string, fallback []int) []int {
	parts := splitAndTrim(raw)
	if len(parts) == 0 {
		return fallback
	}
	out := make([]int, 0, len(parts))
	for _, p := range parts {
		n, err := strconv.Atoi(p)
		if err != nil || n <= 0 {
			return fallback
		}
		out = append(out, n)
	}
	return out
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
