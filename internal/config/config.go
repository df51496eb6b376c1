package config

import (
	"errors"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

type Config struct {
	Server    ServerConfig
	Database  DatabaseConfig
	Clerk     ClerkConfig
	RateLimit RateLimitConfig
}

type ServerConfig struct {
	Port         string
	Mode         string
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
	MaxBodyBytes int64
}

type DatabaseConfig struct {
	URL            string
	MaxConnections int
	MaxIdleConns   int
	AutoMigrate    bool
}

type ClerkConfig struct {
	// WebhookSecret is the Svix signing secret ("whsec_...") shown in the
	// Clerk dashboard for the webhook endpoint.
	WebhookSecret string
	SecretKey     string
	APIURL        string
}

type RateLimitConfig struct {
	RequestsPerSecond float64
	Burst             int
}

func Load() (*Config, error) {
	// A missing .env is fine, the environment may already be populated.
	_ = godotenv.Load()

	v := viper.New()
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")
	v.AddConfigPath("./config")
	v.SetEnvPrefix("CLERKSYNC")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// Set defaults
	v.SetDefault("server.port", "8080")
	v.SetDefault("server.mode", "release")
	v.SetDefault("server.readtimeout", "15s")
	v.SetDefault("server.writetimeout", "15s")
	v.SetDefault("server.maxbodybytes", 1<<20)
	v.SetDefault("database.url", "")
	v.SetDefault("database.maxconnections", 25)
	v.SetDefault("database.maxidleconns", 5)
	v.SetDefault("database.automigrate", true)
	v.SetDefault("clerk.webhooksecret", "")
	v.SetDefault("clerk.secretkey", "")
	v.SetDefault("clerk.apiurl", "")
	v.SetDefault("ratelimit.requestspersecond", 50)
	v.SetDefault("ratelimit.burst", 100)

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, err
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, err
	}

	// Override with the names Clerk's docs use
	if secret := os.Getenv("WEBHOOK_SECRET"); secret != "" {
		cfg.Clerk.WebhookSecret = secret
	}
	if key := os.Getenv("CLERK_SECRET_KEY"); key != "" {
		cfg.Clerk.SecretKey = key
	}
	if url := os.Getenv("DATABASE_URL"); url != "" {
		cfg.Database.URL = url
	}
	if port := os.Getenv("PORT"); port != "" {
		cfg.Server.Port = port
	}

	return &cfg, nil
}

// Validate reports settings the process cannot start without. The webhook
// signing secret is not among them: its absence fails each request instead.
func (c *Config) Validate() error {
	var errs []error
	if c.Database.URL == "" {
		errs = append(errs, errors.New("DATABASE_URL is required"))
	}
	if c.Clerk.SecretKey == "" {
		errs = append(errs, errors.New("CLERK_SECRET_KEY is required"))
	}
	if c.Server.MaxBodyBytes <= 0 {
		errs = append(errs, errors.New("server.maxbodybytes must be positive"))
	}
	return errors.Join(errs...)
}
