package config

import (
	"errors"
	"fmt"
	"io/fs"
	"log"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/cmlabs-hris/payroll-transparency/internal/pkg/validator"
	"github.com/joho/godotenv"
)

const (
	StoreAzure    = "azure"
	StorePostgres = "postgres"
)

type Config struct {
	App          AppConfig
	Store        StoreConfig
	Database     DatabaseConfig
	Redis        RedisConfig
	Transparency TransparencyConfig
	Ingest       IngestConfig
}

// AppConfig holds application configuration
type AppConfig struct {
	Port               int
	Env                string
	LogLevel           string
	LogFormat          string
	CORSAllowedOrigins []string
	ReportRateLimit    int // requests per minute per IP, 0 disables
}

// StoreConfig selects where payroll records live.
type StoreConfig struct {
	Backend               string
	AzureConnectionString string
	AzureTableName        string
}

type DatabaseConfig struct {
	Host     string
	Port     int
	User     string
	Password string
	Name     string
	SSLMode  string
}

// RedisConfig enables the read-through record cache when Addr is set.
type RedisConfig struct {
	Addr     string
	Password string
	DB       int
	TTL      time.Duration
}

type TransparencyConfig struct {
	BaseURL        string
	InsecureTLS    bool
	Timeout        time.Duration
	ScrapeInterval time.Duration
}

type IngestConfig struct {
	SnapshotDir   string
	WriteRetries  int
	WriteInterval time.Duration
	FileInterval  time.Duration
}

func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("error loading .env file: %w", err)
	} else if err != nil {
		log.Println("no .env file found, using environment")
	}

	config := &Config{}

	// Application configuration
	appPort, err := getEnvInt("APP_PORT", 8080)
	if err != nil {
		return nil, err
	}
	rateLimit, err := getEnvInt("REPORT_RATE_LIMIT", 30)
	if err != nil {
		return nil, err
	}

	config.App = AppConfig{
		Port:               appPort,
		Env:                getEnv("APP_ENV", "development"),
		LogLevel:           getEnv("LOG_LEVEL", "info"),
		LogFormat:          getEnv("LOG_FORMAT", ""),
		CORSAllowedOrigins: getEnvSlice("CORS_ALLOWED_ORIGINS", []string{"*"}),
		ReportRateLimit:    rateLimit,
	}

	// Record store configuration
	config.Store = StoreConfig{
		Backend:               strings.ToLower(getEnv("STORE_BACKEND", StoreAzure)),
		AzureConnectionString: getEnv("AZURE_TABLE_CONNECTION_STRING", ""),
		AzureTableName:        getEnv("AZURE_TABLE_NAME", "RegistrosTabela"),
	}

	// Database configuration
	dbPort, err := getEnvInt("DB_PORT", 5432)
	if err != nil {
		return nil, err
	}

	config.Database = DatabaseConfig{
		Host:     getEnv("DB_HOST", "localhost"),
		Port:     dbPort,
		User:     getEnv("DB_USER", "postgres"),
		Password: getEnv("DB_PASSWORD", ""),
		Name:     getEnv("DB_NAME", "payroll_transparency"),
		SSLMode:  getEnv("DB_SSL_MODE", "disable"),
	}

	// Redis configuration
	redisDB, err := getEnvInt("REDIS_DB", 0)
	if err != nil {
		return nil, err
	}
	redisTTL, err := getEnvDuration("REDIS_TTL", 10*time.Minute)
	if err != nil {
		return nil, err
	}

	config.Redis = RedisConfig{
		Addr:     getEnv("REDIS_ADDR", ""),
		Password: getEnv("REDIS_PASSWORD", ""),
		DB:       redisDB,
		TTL:      redisTTL,
	}

	// Transparency portal configuration
	insecure, err := strconv.ParseBool(getEnv("TRANSPARENCY_INSECURE_TLS", "false"))
	if err != nil {
		return nil, fmt.Errorf("invalid TRANSPARENCY_INSECURE_TLS: %w", err)
	}
	timeout, err := getEnvDuration("TRANSPARENCY_TIMEOUT", 60*time.Second)
	if err != nil {
		return nil, err
	}
	scrapeInterval, err := getEnvDuration("SCRAPE_INTERVAL", time.Second)
	if err != nil {
		return nil, err
	}

	config.Transparency = TransparencyConfig{
		BaseURL:        getEnv("TRANSPARENCY_BASE_URL", "https://portaltransparencia.itajai.sc.gov.br:443"),
		InsecureTLS:    insecure,
		Timeout:        timeout,
		ScrapeInterval: scrapeInterval,
	}

	// Loader configuration
	retries, err := getEnvInt("WRITE_RETRIES", 3)
	if err != nil {
		return nil, err
	}
	writeInterval, err := getEnvDuration("WRITE_INTERVAL", time.Second)
	if err != nil {
		return nil, err
	}
	fileInterval, err := getEnvDuration("LOAD_INTERVAL", 500*time.Millisecond)
	if err != nil {
		return nil, err
	}

	config.Ingest = IngestConfig{
		SnapshotDir:   getEnv("SNAPSHOT_DIR", "dados_pessoal_itajai"),
		WriteRetries:  retries,
		WriteInterval: writeInterval,
		FileInterval:  fileInterval,
	}

	// Validate required fields
	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	return config, nil
}

// Validate validates the configuration
func (c *Config) Validate() error {
	if c.App.ReportRateLimit < 0 {
		return fmt.Errorf("REPORT_RATE_LIMIT must not be negative")
	}
	if c.Ingest.WriteRetries < 1 {
		return fmt.Errorf("WRITE_RETRIES must be at least 1")
	}
	if !validator.IsOneOf(c.Store.Backend, StoreAzure, StorePostgres) {
		return fmt.Errorf("unknown STORE_BACKEND %q", c.Store.Backend)
	}
	return nil
}

// ValidateStore checks the credentials of the selected record store. Only commands
// that open the store call it; the scraper never does.
func (c *Config) ValidateStore() error {
	switch c.Store.Backend {
	case StoreAzure:
		if c.Store.AzureConnectionString == "" {
			return fmt.Errorf("AZURE_TABLE_CONNECTION_STRING is required")
		}
		if c.Store.AzureTableName == "" {
			return fmt.Errorf("AZURE_TABLE_NAME is required")
		}
	case StorePostgres:
		if c.Database.Password == "" {
			return fmt.Errorf("DB_PASSWORD is required")
		}
	default:
		return fmt.Errorf("unknown STORE_BACKEND %q", c.Store.Backend)
	}
	return nil
}

// DatabaseURL returns the PostgreSQL connection string
func (c *Config) DatabaseURL() string {
	return fmt.Sprintf("postgres://%s:%s@%s:%d/%s?sslmode=%s",
		c.Database.User,
		c.Database.Password,
		c.Database.Host,
		c.Database.Port,
		c.Database.Name,
		c.Database.SSLMode,
	)
}

func getEnv(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}

func getEnvInt(key string, fallback int) (int, error) {
	value := getEnv(key, "")
	if value == "" {
		return fallback, nil
	}
	n, err := strconv.Atoi(value)
	if err != nil {
		return 0, fmt.Errorf("invalid %s: %w", key, err)
	}
	return n, nil
}

func getEnvDuration(key string, fallback time.Duration) (time.Duration, error) {
	value := getEnv(key, "")
	if value == "" {
		return fallback, nil
	}
	d, err := time.ParseDuration(value)
	if err != nil {
		return 0, fmt.Errorf("invalid %s: %w", key, err)
	}
	return d, nil
}

func getEnvSlice(env string, fallback []string) []string {
	value := getEnv(env, "")
	if value == "" {
		return fallback
	}
	var result []string
	for _, part := range strings.Split(value, ",") {
		if part = strings.TrimSpace(part); part != "" {
			result = append(result, part)
		}
	}
	return result
}
