package config

import (
	"errors"
	"fmt"
	"net"
	"os"
	"strings"
	"time"

	"github.com/helpdesk/helpdesk/internal/storage"
	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Data source kinds
const (
	SourceFile  = "file"
	SourceMinIO = "minio"
	SourceMongo = "mongo"
)

// Auth modes for the write routes
const (
	AuthNone  = "none"
	AuthBasic = "basic"
	AuthJWT   = "jwt"
	AuthOIDC  = "oidc"
)

// Config holds application configuration
type Config struct {
	Server    ServerConfig
	Data      DataConfig
	MongoDB   MongoDBConfig
	MinIO     storage.MinIOConfig
	Redis     RedisConfig
	RateLimit RateLimitConfig
	Auth      AuthConfig
	LogLevel  string
}

type ServerConfig struct {
	Port         string
	Host         string
	Environment  string
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
}

// Addr is the listen address.
func (s ServerConfig) Addr() string { return net.JoinHostPort(s.Host, s.Port) }

type DataConfig struct {
	Source    string
	Path      string
	ObjectKey string
	IDLength  int
}

type MongoDBConfig struct {
	URI      string
	Database string
	Timeout  time.Duration
}

type RedisConfig struct {
	Host     string
	Port     string
	Password string
	DB       int
}

// Enabled reports whether a Redis host is configured.
func (r RedisConfig) Enabled() bool { return r.Host != "" }

func (r RedisConfig) Addr() string { return net.JoinHostPort(r.Host, r.Port) }

type RateLimitConfig struct {
	Enabled  bool
	RPS      float64
	Burst    int
	UseRedis bool
	Window   time.Duration
}

type AuthConfig struct {
	Mode         string
	Username     string
	Password     string
	JWTSecret    string
	OIDCIssuer   string
	OIDCClientID string
}

// LoadConfig loads configuration from environment variables and an optional .env file
func LoadConfig() (*Config, error) {
	_ = godotenv.Load(envFile())

	viper.AutomaticEnv()

	viper.SetDefault("SERVER_PORT", "5555")
	viper.SetDefault("SERVER_HOST", "0.0.0.0")
	viper.SetDefault("SERVER_ENVIRONMENT", "development")
	viper.SetDefault("DATA_SOURCE", SourceFile)
	viper.SetDefault("DATA_PATH", "data.jsonld")
	viper.SetDefault("DATA_OBJECT_KEY", "data.jsonld")
	viper.SetDefault("DATA_ID_LENGTH", 6)
	viper.SetDefault("MONGODB_DATABASE", "helpdesk")
	viper.SetDefault("MONGODB_TIMEOUT", 10)
	viper.SetDefault("MINIO_BUCKET", "helpdesk")
	viper.SetDefault("REDIS_PORT", "6379")
	viper.SetDefault("RATE_LIMIT_RPS", 10)
	viper.SetDefault("RATE_LIMIT_BURST", 20)
	viper.SetDefault("RATE_LIMIT_WINDOW_SECONDS", 1)
	viper.SetDefault("AUTH_MODE", AuthNone)
	viper.SetDefault("LOG_LEVEL", "info")

	cfg := &Config{
		Server: ServerConfig{
			Port:         viper.GetString("SERVER_PORT"),
			Host:         viper.GetString("SERVER_HOST"),
			Environment:  viper.GetString("SERVER_ENVIRONMENT"),
			ReadTimeout:  30 * time.Second,
			WriteTimeout: 30 * time.Second,
		},
		Data: DataConfig{
			Source:    strings.ToLower(viper.GetString("DATA_SOURCE")),
			Path:      viper.GetString("DATA_PATH"),
			ObjectKey: viper.GetString("DATA_OBJECT_KEY"),
			IDLength:  viper.GetInt("DATA_ID_LENGTH"),
		},
		MongoDB: MongoDBConfig{
			URI:      viper.GetString("MONGODB_URI"),
			Database: viper.GetString("MONGODB_DATABASE"),
			Timeout:  time.Duration(viper.GetInt("MONGODB_TIMEOUT")) * time.Second,
		},
		MinIO: storage.MinIOConfig{
			Endpoint:  viper.GetString("MINIO_ENDPOINT"),
			AccessKey: viper.GetString("MINIO_ACCESS_KEY"),
			SecretKey: os.Getenv("MINIO_SECRET_KEY"),
			UseSSL:    viper.GetBool("MINIO_USE_SSL"),
			Bucket:    viper.GetString("MINIO_BUCKET"),
		},
		Redis: RedisConfig{
			Host:     viper.GetString("REDIS_HOST"),
			Port:     viper.GetString("REDIS_PORT"),
			Password: os.Getenv("REDIS_PASSWORD"),
			DB:       0,
		},
		RateLimit: RateLimitConfig{
			Enabled:  viper.GetBool("RATE_LIMIT_ENABLED"),
			RPS:      viper.GetFloat64("RATE_LIMIT_RPS"),
			Burst:    viper.GetInt("RATE_LIMIT_BURST"),
			UseRedis: viper.GetBool("RATE_LIMIT_USE_REDIS"),
			Window:   time.Duration(viper.GetInt("RATE_LIMIT_WINDOW_SECONDS")) * time.Second,
		},
		Auth: AuthConfig{
			Mode:         strings.ToLower(viper.GetString("AUTH_MODE")),
			Username:     viper.GetString("AUTH_USERNAME"),
			Password:     os.Getenv("AUTH_PASSWORD"),
			JWTSecret:    os.Getenv("JWT_SECRET"),
			OIDCIssuer:   viper.GetString("OIDC_ISSUER"),
			OIDCClientID: viper.GetString("OIDC_CLIENT_ID"),
		},
		LogLevel: viper.GetString("LOG_LEVEL"),
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks that every selected component has what it needs.
func (c *Config) Validate() error {
	var errs []error
	switch c.Data.Source {
	case SourceFile:
		if c.Data.Path == "" {
			errs = append(errs, errors.New("DATA_PATH is required for the file source"))
		}
	case SourceMinIO:
		if c.MinIO.Endpoint == "" {
			errs = append(errs, errors.New("MINIO_ENDPOINT is required for the minio source"))
		}
		if c.Data.ObjectKey == "" {
			errs = append(errs, errors.New("DATA_OBJECT_KEY is required for the minio source"))
		}
	case SourceMongo:
		if c.MongoDB.URI == "" {
			errs = append(errs, errors.New("MONGODB_URI is required for the mongo source"))
		}
	default:
		errs = append(errs, fmt.Errorf("unknown DATA_SOURCE %q", c.Data.Source))
	}
	if c.Data.IDLength <= 0 {
		errs = append(errs, fmt.Errorf("DATA_ID_LENGTH must be positive, got %d", c.Data.IDLength))
	}

	switch c.Auth.Mode {
	case AuthNone:
	case AuthBasic:
		if c.Auth.Username == "" || c.Auth.Password == "" {
			errs = append(errs, errors.New("AUTH_USERNAME and AUTH_PASSWORD are required for basic auth"))
		}
	case AuthJWT:
		if c.Auth.JWTSecret == "" {
			errs = append(errs, errors.New("JWT_SECRET is required for jwt auth"))
		}
	case AuthOIDC:
		if c.Auth.OIDCIssuer == "" || c.Auth.OIDCClientID == "" {
			errs = append(errs, errors.New("OIDC_ISSUER and OIDC_CLIENT_ID are required for oidc auth"))
		}
	default:
		errs = append(errs, fmt.Errorf("unknown AUTH_MODE %q", c.Auth.Mode))
	}

	if c.RateLimit.Enabled {
		if c.RateLimit.RPS <= 0 {
			errs = append(errs, errors.New("RATE_LIMIT_RPS must be positive"))
		}
		if c.RateLimit.UseRedis && !c.Redis.Enabled() {
			errs = append(errs, errors.New("RATE_LIMIT_USE_REDIS requires REDIS_HOST"))
		}
	}
	return errors.Join(errs...)
}

func envFile() string {
	if p := os.Getenv("HELPDESK_ENV_FILE"); p != "" {
		return p
	}
	return ".env"
}
