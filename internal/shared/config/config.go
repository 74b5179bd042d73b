package config

import (
	"fmt"
	"strconv"
	"time"

	"system-exporter/internal/shared/utils"

	"github.com/joho/godotenv"
)

type Config struct {
	Server    ServerConfig
	Database  DatabaseConfig
	Redis     RedisConfig
	Auth      AuthConfig
	Frontend  FrontendConfig
	Logging   LoggingConfig
	RateLimit RateLimitConfig
	Exporter  ExporterConfig
	Host      HostConfig
	Scoring   ScoringConfig
}

type RedisConfig struct {
	Enabled   bool
	URL       string
	Host      string
	Port      string
	Password  string
	DB        int
	LatestTTL time.Duration
}

type ServerConfig struct {
	Port         string
	URL          string
	Environment  string
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
	IdleTimeout  time.Duration
}

type DatabaseConfig struct {
	Enabled         bool
	Driver          string
	Host            string
	Port            string
	User            string
	Password        string
	Name            string
	SSLMode         string
	Path            string
	MaxOpenConns    int
	MaxIdleConns    int
	ConnMaxLifetime time.Duration
}

type AuthConfig struct {
	JWTSecret       string
	TokenExpiration time.Duration
	Required        bool
	CookieSecure    bool
	CookieSameSite  string
}

type FrontendConfig struct {
	URL       string
	CORSDebug bool
}

type LoggingConfig struct {
	Level      string
	Format     string
	JSONFormat bool
}

type RateLimitConfig struct {
	Enabled           bool
	RequestsPerSecond float64
	BurstSize         int
	TrustProxy        bool
}

type ExporterConfig struct {
	OutputDir      string
	AutoExport     bool
	DebugMode      bool
	ResourceLocale string
}

type HostConfig struct {
	DumpPath     string
	PollInterval time.Duration
}

type ScoringConfig struct {
	MinScore          int
	PositionThreshold float64
	MaxPlanetIndex    int
}

const (
	DriverPostgres = "postgres"
	DriverSQLite   = "sqlite"
)

var GlobalConfig *Config

func Init() error {
	if err := godotenv.Load(); err != nil {
		fmt.Println("No .env file found, using system environment variables")
	}

	config, err := load()
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}

	if err := config.validate(); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}

	GlobalConfig = config
	return nil
}

func load() (*Config, error) {
	config := &Config{
		Server:    loadServerConfig(),
		Database:  loadDatabaseConfig(),
		Redis:     loadRedisConfig(),
		Auth:      loadAuthConfig(),
		Frontend:  loadFrontendConfig(),
		Logging:   loadLoggingConfig(),
		RateLimit: loadRateLimitConfig(),
		Exporter:  loadExporterConfig(),
		Host:      loadHostConfig(),
		Scoring:   loadScoringConfig(),
	}

	return config, nil
}

func loadRedisConfig() RedisConfig {
	enabled := utils.GetEnv("REDIS_ENABLED", "false") == "true"
	redisURL := utils.GetEnv("REDIS_URL", "")

	db, _ := strconv.Atoi(utils.GetEnv("REDIS_DB", "0"))

	return RedisConfig{
		Enabled:   enabled,
		URL:       redisURL,
		Host:      utils.GetEnv("REDIS_HOST", "localhost"),
		Port:      utils.GetEnv("REDIS_PORT", "6379"),
		Password:  utils.GetEnv("REDIS_PASSWORD", ""),
		DB:        db,
		LatestTTL: utils.GetEnvDuration("REDIS_LATEST_TTL", 24*time.Hour),
	}
}

func loadServerConfig() ServerConfig {
	readTimeout, _ := strconv.Atoi(utils.GetEnv("SERVER_READ_TIMEOUT_SECONDS", "15"))
	writeTimeout, _ := strconv.Atoi(utils.GetEnv("SERVER_WRITE_TIMEOUT_SECONDS", "15"))
	idleTimeout, _ := strconv.Atoi(utils.GetEnv("SERVER_IDLE_TIMEOUT_SECONDS", "60"))

	return ServerConfig{
		Port:         utils.GetEnv("SERVER_PORT", "8080"),
		URL:          utils.GetEnv("SERVER_URL", "http://localhost:8080"),
		Environment:  utils.GetEnv("ENVIRONMENT", "development"),
		ReadTimeout:  time.Duration(readTimeout) * time.Second,
		WriteTimeout: time.Duration(writeTimeout) * time.Second,
		IdleTimeout:  time.Duration(idleTimeout) * time.Second,
	}
}

func loadDatabaseConfig() DatabaseConfig {
	maxOpenConns, _ := strconv.Atoi(utils.GetEnv("DB_MAX_OPEN_CONNS", "10"))
	maxIdleConns, _ := strconv.Atoi(utils.GetEnv("DB_MAX_IDLE_CONNS", "2"))
	connMaxLifetime, _ := strconv.Atoi(utils.GetEnv("DB_CONN_MAX_LIFETIME_MINUTES", "5"))

	return DatabaseConfig{
		Enabled:         utils.GetEnv("DB_ENABLED", "true") == "true",
		Driver:          utils.GetEnv("DB_DRIVER", DriverSQLite),
		Host:            utils.GetEnv("DB_HOST", "localhost"),
		Port:            utils.GetEnv("DB_PORT", "5432"),
		User:            utils.GetEnv("DB_USER", "postgres"),
		Password:        utils.GetEnv("DB_PASSWORD", "postgres"),
		Name:            utils.GetEnv("DB_NAME", "snapshots"),
		SSLMode:         utils.GetEnv("DB_SSLMODE", "disable"),
		Path:            utils.GetEnv("DB_PATH", "SystemData/snapshots.db"),
		MaxOpenConns:    maxOpenConns,
		MaxIdleConns:    maxIdleConns,
		ConnMaxLifetime: time.Duration(connMaxLifetime) * time.Minute,
	}
}

func loadAuthConfig() AuthConfig {
	tokenExpiration, _ := strconv.Atoi(utils.GetEnv("JWT_EXPIRATION_HOURS", "24"))

	return AuthConfig{
		JWTSecret:       utils.GetEnv("JWT_SECRET", ""),
		TokenExpiration: time.Duration(tokenExpiration) * time.Hour,
		Required:        utils.GetEnv("AUTH_REQUIRED", "false") == "true",
		CookieSecure:    utils.GetEnvBool("COOKIE_SECURE", false),
		CookieSameSite:  utils.GetEnv("COOKIE_SAME_SITE", "lax"),
	}
}

func loadFrontendConfig() FrontendConfig {
	corsDebug := utils.GetEnv("CORS_DEBUG", "") == "true"

	return FrontendConfig{
		URL:       utils.GetEnv("FRONTEND_URL", "http://localhost:3000"),
		CORSDebug: corsDebug,
	}
}

func loadLoggingConfig() LoggingConfig {
	environment := utils.GetEnv("ENVIRONMENT", "development")
	format := utils.GetEnv("LOG_FORMAT", "text")

	return LoggingConfig{
		Level:      utils.GetEnv("LOG_LEVEL", "info"),
		Format:     format,
		JSONFormat: environment == "production" || format == "json",
	}
}

func loadRateLimitConfig() RateLimitConfig {
	enabled := utils.GetEnv("RATE_LIMIT_ENABLED", "true") == "true"
	requestsPerSecond, _ := strconv.ParseFloat(utils.GetEnv("RATE_LIMIT_REQUESTS_PER_SECOND", "2"), 64)
	burstSize, _ := strconv.Atoi(utils.GetEnv("RATE_LIMIT_BURST_SIZE", "5"))

	return RateLimitConfig{
		Enabled:           enabled,
		RequestsPerSecond: requestsPerSecond,
		BurstSize:         burstSize,
		TrustProxy:        utils.GetEnv("RATE_LIMIT_TRUST_PROXY", "false") == "true",
	}
}

func loadExporterConfig() ExporterConfig {
	return ExporterConfig{
		OutputDir:      utils.GetEnv("EXPORT_OUTPUT_DIR", "SystemData"),
		AutoExport:     utils.GetEnvBool("EXPORT_AUTO", false),
		DebugMode:      utils.GetEnvBool("EXPORT_DEBUG", false),
		ResourceLocale: utils.GetEnv("RESOURCE_LOCALE", "es"),
	}
}

func loadHostConfig() HostConfig {
	return HostConfig{
		DumpPath:     utils.GetEnv("HOST_DUMP_PATH", "SystemData/live_system.json"),
		PollInterval: utils.GetEnvDuration("HOST_POLL_INTERVAL", time.Second),
	}
}

// Scoring defaults are empirical; keep them overridable rather than derived.
func loadScoringConfig() ScoringConfig {
	threshold, err := strconv.ParseFloat(utils.GetEnv("PLANET_POSITION_THRESHOLD", "1000"), 64)
	if err != nil {
		threshold = 1000
	}

	return ScoringConfig{
		MinScore:          utils.GetEnvInt("PLANET_MIN_SCORE", 6),
		PositionThreshold: threshold,
		MaxPlanetIndex:    utils.GetEnvInt("PLANET_MAX_INDEX", 10),
	}
}

func (c *Config) validate() error {
	if c.Auth.Required && c.Auth.JWTSecret == "" {
		return fmt.Errorf("JWT_SECRET is required when AUTH_REQUIRED is set")
	}

	if c.Auth.JWTSecret != "" && len(c.Auth.JWTSecret) < 32 {
		return fmt.Errorf("JWT_SECRET must be at least 32 characters long")
	}

	if c.Server.Port == "" {
		return fmt.Errorf("SERVER_PORT is required")
	}

	if c.Database.Enabled {
		switch c.Database.Driver {
		case DriverPostgres:
			if c.Database.Host == "" {
				return fmt.Errorf("DB_HOST is required")
			}
			if c.Database.Name == "" {
				return fmt.Errorf("DB_NAME is required")
			}
		case DriverSQLite:
			if c.Database.Path == "" {
				return fmt.Errorf("DB_PATH is required")
			}
		default:
			return fmt.Errorf("unsupported DB_DRIVER %q", c.Database.Driver)
		}
	}

	if c.Exporter.OutputDir == "" {
		return fmt.Errorf("EXPORT_OUTPUT_DIR is required")
	}

	if c.Host.PollInterval <= 0 {
		return fmt.Errorf("HOST_POLL_INTERVAL must be positive")
	}

	if c.Scoring.MinScore < 0 || c.Scoring.MinScore > 11 {
		return fmt.Errorf("PLANET_MIN_SCORE must be between 0 and 11")
	}

	if c.Scoring.MaxPlanetIndex <= 0 {
		return fmt.Errorf("PLANET_MAX_INDEX must be positive")
	}

	return nil
}

func (c *Config) AuthConfigured() bool {
	return c.Auth.JWTSecret != ""
}

// ConnectionString is the driver DSN for the archive database.
func (c DatabaseConfig) ConnectionString() string {
	if c.Driver == DriverSQLite {
		return c.Path + "?_pragma=foreign_keys(1)&_pragma=busy_timeout(5000)"
	}

	return fmt.Sprintf("host=%s port=%s user=%s password=%s dbname=%s sslmode=%s",
		c.Host,
		c.Port,
		c.User,
		c.Password,
		c.Name,
		c.SSLMode,
	)
}
