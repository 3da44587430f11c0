package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

type Config struct {
	Server   ServerConfig
	Logger   LoggerConfig
	Database DatabaseConfig
	Supabase SupabaseConfig
	Session  SessionConfig
	Redis    RedisConfig
	Kafka    KafkaConfig
	Browser  BrowserConfig
	Receipt  ReceiptConfig
	Team     TeamConfig
}

// DefaultSessionSecret signs cookies when SESSION_SECRET is unset. Validate
// refuses it outside development.
const DefaultSessionSecret = "change-this-session-secret-in-prod"

type ServerConfig struct {
	AppEnv          string
	HTTPPort        string
	GRPCPort        string
	ShutdownTimeout time.Duration
}

type LoggerConfig struct {
	Level             string
	Encoding          string
	DisableCaller     bool
	DisableStacktrace bool
}

type DatabaseConfig struct {
	Driver          string
	Host            string
	Port            string
	User            string
	Password        string
	DBName          string
	SSLMode         string
	Path            string
	MaxOpenConns    int
	MaxIdleConns    int
	ConnMaxLifetime int
	ConnMaxIdleTime int
}

// DSN builds the connection string for the configured driver.
func (c DatabaseConfig) DSN() string {
	if c.Driver == "sqlite" {
		return c.Path
	}
	return fmt.Sprintf("host=%s port=%s user=%s password=%s dbname=%s sslmode=%s",
		c.Host, c.Port, c.User, c.Password, c.DBName, c.SSLMode)
}

type SupabaseConfig struct {
	URL            string
	AnonKey        string
	ServiceRoleKey string
	Bucket         string
	Timeout        time.Duration
}

type SessionConfig struct {
	Secret      string
	CookieName  string
	IdleTimeout time.Duration
	Secure      bool
}

type RedisConfig struct {
	Addr     string
	Password string
	DB       int
	TTL      time.Duration
}

// KafkaConfig with no brokers disables receipt event publishing.
type KafkaConfig struct {
	Brokers []string
	Topic   string
	GroupID string
}

type BrowserConfig struct {
	Bin        string
	ControlURL string
	Headless   bool
}

type ReceiptConfig struct {
	FirstPageItems  int
	OtherPageItems  int
	DownloadTTL     time.Duration
	BrandingFile    string
	CatalogPageSize int
	CacheControl    int
	PersistTimeout  time.Duration
}

type TeamConfig struct {
	HiddenEmail string
	// AdminEmail is the only account allowed into the admin routes.
	AdminEmail string
}

func LoadEnv() *Config {
	hiddenEmail := getEnv("TEAM_HIDDEN_EMAIL", "")
	return &Config{
		Server: ServerConfig{
			AppEnv:          getEnv("APP_ENV", "dev"),
			HTTPPort:        getEnv("HTTP_PORT", ":8080"),
			GRPCPort:        getEnv("GRPC_PORT", ":8082"),
			ShutdownTimeout: getEnvDuration("SHUTDOWN_TIMEOUT", 10*time.Second),
		},
		Logger: LoggerConfig{
			Level:             getEnv("LOGGER_LEVEL", "debug"),
			Encoding:          getEnv("LOGGER_ENCODING", "console"),
			DisableCaller:     getEnvBool("LOGGER_DISABLE_CALLER", false),
			DisableStacktrace: getEnvBool("LOGGER_DISABLE_STACKTRACE", true),
		},
		Database: DatabaseConfig{
			Driver:          getEnv("DB_DRIVER", "pgx"),
			Host:            getEnv("POSTGRES_HOST", "localhost"),
			Port:            getEnv("POSTGRES_PORT", "5432"),
			User:            getEnv("POSTGRES_USER", "postgres"),
			Password:        getEnv("POSTGRES_PASSWORD", "postgres"),
			DBName:          getEnv("POSTGRES_DB", "postgres"),
			SSLMode:         getEnv("POSTGRES_SSLMODE", "disable"),
			Path:            getEnv("SQLITE_PATH", "storefront.db"),
			MaxOpenConns:    getEnvInt("POSTGRES_MAX_OPEN_CONNS", 10),
			MaxIdleConns:    getEnvInt("POSTGRES_MAX_IDLE_CONNS", 5),
			ConnMaxLifetime: getEnvInt("POSTGRES_CONN_MAX_LIFETIME", 300),
			ConnMaxIdleTime: getEnvInt("POSTGRES_CONN_MAX_IDLE_TIME", 60),
		},
		Supabase: SupabaseConfig{
			URL:            getEnv("SUPABASE_URL", "http://localhost:54321"),
			AnonKey:        getEnv("SUPABASE_ANON_KEY", ""),
			ServiceRoleKey: getEnv("SUPABASE_SERVICE_ROLE_KEY", ""),
			Bucket:         getEnv("SUPABASE_RECEIPT_BUCKET", "reciepts"),
			Timeout:        getEnvDuration("SUPABASE_TIMEOUT", 30*time.Second),
		},
		Session: SessionConfig{
			Secret:      getEnv("SESSION_SECRET", DefaultSessionSecret),
			CookieName:  getEnv("SESSION_COOKIE", "storefront"),
			IdleTimeout: getEnvDuration("SESSION_IDLE_TIMEOUT", 12*time.Hour),
			Secure:      getEnvBool("SESSION_SECURE", false),
		},
		Redis: RedisConfig{
			Addr:     getEnv("REDIS_ADDR", ""),
			Password: getEnv("REDIS_PASSWORD", ""),
			DB:       getEnvInt("REDIS_DB", 0),
			TTL:      getEnvDuration("REDIS_CATALOG_TTL", 5*time.Minute),
		},
		Kafka: KafkaConfig{
			Brokers: getEnvSlice("KAFKA_BROKERS", nil),
			Topic:   getEnv("KAFKA_TOPIC_RECEIPTS", "receipts.events"),
			GroupID: getEnv("KAFKA_GROUP_ID", "storefront-receipts"),
		},
		Browser: BrowserConfig{
			Bin:        getEnv("BROWSER_BIN", ""),
			ControlURL: getEnv("BROWSER_CONTROL_URL", ""),
			Headless:   getEnvBool("BROWSER_HEADLESS", true),
		},
		Receipt: ReceiptConfig{
			FirstPageItems:  getEnvInt("RECEIPT_FIRST_PAGE_ITEMS", 10),
			OtherPageItems:  getEnvInt("RECEIPT_OTHER_PAGE_ITEMS", 10),
			DownloadTTL:     getEnvDuration("RECEIPT_DOWNLOAD_TTL", time.Minute),
			BrandingFile:    getEnv("RECEIPT_BRANDING_FILE", ""),
			CatalogPageSize: getEnvInt("CATALOG_PAGE_SIZE", 12),
			CacheControl:    getEnvInt("RECEIPT_CACHE_CONTROL", 3600),
			PersistTimeout:  getEnvDuration("RECEIPT_PERSIST_TIMEOUT", 30*time.Second),
		},
		Team: TeamConfig{
			HiddenEmail: hiddenEmail,
			AdminEmail:  getEnv("ADMIN_EMAIL", hiddenEmail),
		},
	}
}

// IsDev reports whether the process runs in a development environment.
func (c ServerConfig) IsDev() bool {
	return c.AppEnv == "dev" || c.AppEnv == "development"
}

// Validate rejects settings that are only safe in development.
func (c *Config) Validate() error {
	if c.Server.IsDev() {
		return nil
	}
	if c.Session.Secret == "" || c.Session.Secret == DefaultSessionSecret {
		return fmt.Errorf("SESSION_SECRET must be set when APP_ENV is %q", c.Server.AppEnv)
	}
	return nil
}

func getEnv(key, fallback string) string {
	if value, ok := os.LookupEnv(key); ok {
		return value
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	if value, ok := os.LookupEnv(key); ok {
		if i, err := strconv.Atoi(value); err == nil {
			return i
		}
	}
	return fallback
}

func getEnvBool(key string, fallback bool) bool {
	if value, ok := os.LookupEnv(key); ok {
		if b, err := strconv.ParseBool(value); err == nil {
			return b
		}
	}
	return fallback
}

func getEnvSlice(key string, fallback []string) []string {
	if value, ok := os.LookupEnv(key); ok {
		if strings.TrimSpace(value) == "" {
			return fallback
		}
		parts := strings.Split(value, ",")
		for i := range parts {
			parts[i] = strings.TrimSpace(parts[i])
		}
		return parts
	}
	return fallback
}

func getEnvDuration(key string, fallback time.Duration) time.Duration {
	if value, ok := os.LookupEnv(key); ok {
		if d, err := time.ParseDuration(value); err == nil {
			return d
		}
	}
	return fallback
}
