package config

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"os"
	"time"

	"github.com/joho/godotenv"
	"github.com/sethvargo/go-envconfig"
)

type Config struct {
	Port          string `env:"PORT,            default=8080"`
	Env           string `env:"ENV,             default=production"`
	LogLevel      string `env:"LOG_LEVEL,       default=info"`
	PublicBaseURL string `env:"PUBLIC_BASE_URL, default=http://localhost:8080"`
	// ClientBaseURL is the web client that mail links open. Empty means links
	// point at the API itself.
	ClientBaseURL string        `env:"CLIENT_BASE_URL"`
	CacheTTL      time.Duration `env:"CACHE_TTL,       default=5m"`

	Auth   AuthConfig
	Notify NotifyConfig
	Mongo  MongoConfig
	Redis  RedisConfig
	Media  MediaConfig
	Events EventsConfig
}

type AuthConfig struct {
	Issuer        string        `env:"TOKEN_ISSUER,   default=complaint-system"`
	SessionSecret string        `env:"SESSION_SECRET"`
	RefreshSecret string        `env:"REFRESH_SECRET"`
	SignupSecret  string        `env:"SIGNUP_SECRET"`
	CipherKey     string        `env:"CIPHER_KEY"`
	SessionTTL    time.Duration `env:"SESSION_TTL,    default=1h"`
	RefreshTTL    time.Duration `env:"REFRESH_TTL,    default=168h"`
	SignupTTL     time.Duration `env:"SIGNUP_TTL,     default=30m"`
}

type NotifyConfig struct {
	BaseURL string        `env:"NOTIFY_BASE_URL"`
	Timeout time.Duration `env:"NOTIFY_TIMEOUT, default=10s"`
}

type MongoConfig struct {
	URI      string `env:"MONGO_URI, default=mongodb://localhost:27017"`
	Database string `env:"MONGO_DB,  default=complaint_system"`
}

type RedisConfig struct {
	Addr     string `env:"REDIS_ADDR,     default=localhost:6379"`
	Password string `env:"REDIS_PASSWORD"`
	DB       int    `env:"REDIS_DB,       default=0"`
	Prefix   string `env:"REDIS_PREFIX,   default=tell:"`
}

type MediaConfig struct {
	Backend string `env:"MEDIA_BACKEND, default=gridfs"`
	Bucket  string `env:"MEDIA_BUCKET,  default=uploads"`

	MinioEndpoint  string `env:"MINIO_ENDPOINT"`
	MinioAccessKey string `env:"MINIO_ACCESS_KEY"`
	MinioSecretKey string `env:"MINIO_SECRET_KEY"`
	MinioUseSSL    bool   `env:"MINIO_USE_SSL, default=false"`

	GCSProjectID       string `env:"GCS_PROJECT_ID"`
	GCSCredentialsFile string `env:"GCS_CREDENTIALS_FILE"`
}

type EventsConfig struct {
	Backend      string   `env:"EVENTS_BACKEND,  default=none"`
	Topic        string   `env:"EVENTS_TOPIC,    default=complaint-events"`
	RabbitMQURL  string   `env:"RABBITMQ_URL"`
	KafkaBrokers []string `env:"KAFKA_BROKERS"`
	Workers      int      `env:"EVENT_WORKERS,   default=4"`
	QueueSize    int      `env:"EVENT_QUEUE_SIZE, default=256"`
}

func (c *Config) IsDevelopment() bool {
	return c.Env == "development"
}

// Load reads configuration from environment variables using go-envconfig.
// A .env file in the working directory is loaded first unless ENV names a
// non-development environment.
func Load() *Config {
	if env := os.Getenv("ENV"); env == "" || env == "development" {
		_ = godotenv.Load()
	}

	cfg, err := load(context.Background(), envconfig.OsLookuper())
	if err != nil {
		panic(fmt.Sprintf("config: %v", err))
	}
	return cfg
}

func load(ctx context.Context, l envconfig.Lookuper) (*Config, error) {
	var cfg Config
	if err := envconfig.ProcessWith(ctx, &envconfig.Config{Target: &cfg, Lookuper: l}); err != nil {
		return nil, fmt.Errorf("failed to load configuration: %w", err)
	}
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// FillDevelopmentSecrets replaces empty token secrets with random values that
// live only as long as the process. It returns the names it filled and does
// nothing outside development.
func (c *Config) FillDevelopmentSecrets() ([]string, error) {
	if !c.IsDevelopment() {
		return nil, nil
	}
	var filled []string
	for _, s := range []struct {
		name string
		v    *string
	}{
		{"SESSION_SECRET", &c.Auth.SessionSecret},
		{"REFRESH_SECRET", &c.Auth.RefreshSecret},
		{"SIGNUP_SECRET", &c.Auth.SignupSecret},
		{"CIPHER_KEY", &c.Auth.CipherKey},
	} {
		if *s.v != "" {
			continue
		}
		buf := make([]byte, 32)
		if _, err := rand.Read(buf); err != nil {
			return nil, fmt.Errorf("generate %s: %w", s.name, err)
		}
		*s.v = hex.EncodeToString(buf)
		filled = append(filled, s.name)
	}
	return filled, nil
}

func (c *Config) validate() error {
	switch c.Media.Backend {
	case "gridfs", "minio", "gcs":
	default:
		return fmt.Errorf("unknown MEDIA_BACKEND %q", c.Media.Backend)
	}
	switch c.Events.Backend {
	case "none", "rabbitmq", "kafka":
	default:
		return fmt.Errorf("unknown EVENTS_BACKEND %q", c.Events.Backend)
	}
	if !c.IsDevelopment() {
		if c.Auth.SessionSecret == "" || c.Auth.RefreshSecret == "" || c.Auth.SignupSecret == "" || c.Auth.CipherKey == "" {
			return fmt.Errorf("token secrets and CIPHER_KEY are required outside development")
		}
	}
	return nil
}
