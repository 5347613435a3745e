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

	Database  DatabaseConfig
	Redis     RedisConfig
	JWT       JWTConfig
	CORS      CORSConfig
	Log       LogConfig
	Engine    EngineConfig
	Generator GeneratorConfig
	Exports   ExportConfig
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
	Secret     string
	Expiration time.Duration
}

type CORSConfig struct {
	AllowedOrigins []string
}

type LogConfig struct {
	Level  string
	Format string
}

// EngineConfig carries the slot-assignment tunables. Defaults mirror the
// institution's long-standing parameters.
type EngineConfig struct {
	RestDay              string
	LabRetryBudget       int
	WeeklyCap            int
	MorningDensityTarget int
	WeeklyFillCeiling    int
	RegularSections      []string
	RegularSectionSize   int
	SmallSectionSize     int
}

// GeneratorConfig governs the generation service wrapped around the engine.
type GeneratorConfig struct {
	DefaultCourse   string
	DefaultSemester int
	CacheTTL        time.Duration
	AutoRegenerate  bool
	RegenerateAt    string
}

// ExportConfig configures timetable file exports.
type ExportConfig struct {
	StorageDir string
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
		Secret:     v.GetString("JWT_SECRET"),
		Expiration: parseDuration(v.GetString("JWT_EXPIRATION"), 24*time.Hour),
	}

	cfg.CORS = CORSConfig{AllowedOrigins: splitAndTrim(v.GetString("ALLOWED_ORIGINS"))}

	cfg.Log = LogConfig{
		Level:  v.GetString("LOG_LEVEL"),
		Format: v.GetString("LOG_FORMAT"),
	}

	cfg.Engine = EngineConfig{
		RestDay:              v.GetString("ENGINE_REST_DAY"),
		LabRetryBudget:       v.GetInt("ENGINE_LAB_RETRY_BUDGET"),
		WeeklyCap:            v.GetInt("ENGINE_WEEKLY_CAP"),
		MorningDensityTarget: v.GetInt("ENGINE_MORNING_DENSITY_TARGET"),
		WeeklyFillCeiling:    v.GetInt("ENGINE_WEEKLY_FILL_CEILING"),
		RegularSections:      splitAndTrim(v.GetString("ENGINE_REGULAR_SECTIONS")),
		RegularSectionSize:   v.GetInt("ENGINE_REGULAR_SECTION_SIZE"),
		SmallSectionSize:     v.GetInt("ENGINE_SMALL_SECTION_SIZE"),
	}

	cfg.Generator = GeneratorConfig{
		DefaultCourse:   v.GetString("GENERATOR_DEFAULT_COURSE"),
		DefaultSemester: v.GetInt("GENERATOR_DEFAULT_SEMESTER"),
		CacheTTL:        parseDuration(v.GetString("GENERATOR_CACHE_TTL"), 10*time.Minute),
		AutoRegenerate:  v.GetBool("GENERATOR_AUTO_REGENERATE"),
		RegenerateAt:    v.GetString("GENERATOR_REGENERATE_AT"),
	}

	cfg.Exports = ExportConfig{
		StorageDir: v.GetString("EXPORTS_STORAGE_DIR"),
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
	v.SetDefault("DB_NAME", "campus_timetable")
	v.SetDefault("DB_SSL_MODE", "disable")
	v.SetDefault("DB_MAX_OPEN_CONNS", 10)
	v.SetDefault("DB_MAX_IDLE_CONNS", 5)

	v.SetDefault("REDIS_HOST", "localhost")
	v.SetDefault("REDIS_PORT", 6379)
	v.SetDefault("REDIS_PASSWORD", "")
	v.SetDefault("REDIS_DB", 0)

	v.SetDefault("JWT_SECRET", "dev_secret")
	v.SetDefault("JWT_EXPIRATION", "24h")

	v.SetDefault("ALLOWED_ORIGINS", "")
	v.SetDefault("LOG_LEVEL", "info")
	v.SetDefault("LOG_FORMAT", "json")

	v.SetDefault("ENGINE_REST_DAY", "Sunday")
	v.SetDefault("ENGINE_LAB_RETRY_BUDGET", 50)
	v.SetDefault("ENGINE_WEEKLY_CAP", 15)
	v.SetDefault("ENGINE_MORNING_DENSITY_TARGET", 20)
	v.SetDefault("ENGINE_WEEKLY_FILL_CEILING", 25)
	v.SetDefault("ENGINE_REGULAR_SECTIONS", "A,B,C,D,E,F,G,H")
	v.SetDefault("ENGINE_REGULAR_SECTION_SIZE", 60)
	v.SetDefault("ENGINE_SMALL_SECTION_SIZE", 30)

	v.SetDefault("GENERATOR_DEFAULT_COURSE", "BTech")
	v.SetDefault("GENERATOR_DEFAULT_SEMESTER", 4)
	v.SetDefault("GENERATOR_CACHE_TTL", "10m")
	v.SetDefault("GENERATOR_AUTO_REGENERATE", false)
	v.SetDefault("GENERATOR_REGENERATE_AT", "00:00")

	v.SetDefault("EXPORTS_STORAGE_DIR", "./exports")
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
