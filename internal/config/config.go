package config

import (
	"fmt"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
)

// Config holds all configuration for the application.
type Config struct {
	Server ServerConfig
	DB     DBConfig
	Auth   AuthConfig
	Media  MediaConfig
	Log    LogConfig
}

// ServerConfig holds server-related configuration.
type ServerConfig struct {
	Port            string `envconfig:"SERVER_PORT" default:"3000"`
	ShutdownTimeout int    `envconfig:"SHUTDOWN_TIMEOUT" default:"30"` // seconds
	BodyLimit       int    `envconfig:"BODY_LIMIT" default:"10485760"` // bytes; uploads go through here
}

// DBConfig holds database-related configuration.
// WARNING: Default password is for local development only.
// In production, always set DB_PASSWORD via environment variable
// and set DB_SSLMODE to "require" or "verify-full".
type DBConfig struct {
	Host     string `envconfig:"DB_HOST" default:"localhost"`
	Port     int    `envconfig:"DB_PORT" default:"5432"`
	User     string `envconfig:"DB_USER" default:"postgres"`
	Password string `envconfig:"DB_PASSWORD" default:"postgres"` // CHANGE IN PRODUCTION
	Name     string `envconfig:"DB_NAME" default:"craftstore_db"`
	SSLMode  string `envconfig:"DB_SSLMODE" default:"disable"` // Use "require" in production
	MaxConns int    `envconfig:"DB_MAX_CONNS" default:"25"`
	MinConns int    `envconfig:"DB_MIN_CONNS" default:"5"`
}

// DSN returns the PostgreSQL connection string.
func (c DBConfig) DSN() string {
	return fmt.Sprintf("postgres://%s:%s@%s:%d/%s?sslmode=%s&pool_max_conns=%d&pool_min_conns=%d",
		c.User, c.Password, c.Host, c.Port, c.Name, c.SSLMode, c.MaxConns, c.MinConns)
}

// AuthConfig holds token signing configuration.
type AuthConfig struct {
	JWTSecret     string `envconfig:"JWT_SECRET" default:"change-me-in-production"`
	TokenTTLMin   int    `envconfig:"TOKEN_TTL_MINUTES" default:"30"`
	ResetTTLHours int    `envconfig:"RESET_TOKEN_TTL_HOURS" default:"1"`
	BcryptCost    int    `envconfig:"BCRYPT_COST" default:"10"`
}

// MediaConfig holds the image host (media delegate) configuration.
type MediaConfig struct {
	BaseURL       string `envconfig:"MEDIA_BASE_URL" default:"https://api.cloudinary.com/v1_1"`
	CloudName     string `envconfig:"MEDIA_CLOUD_NAME" default:""`
	APIKey        string `envconfig:"MEDIA_API_KEY" default:""`
	APISecret     string `envconfig:"MEDIA_API_SECRET" default:""`
	RootFolder    string `envconfig:"MEDIA_ROOT_FOLDER" default:"craftstore"`
	MaxUploadSize int64  `envconfig:"MEDIA_MAX_UPLOAD_SIZE" default:"5242880"` // 5MB
}

// LogConfig holds logging configuration.
type LogConfig struct {
	Level  string `envconfig:"LOG_LEVEL" default:"info"`
	Pretty bool   `envconfig:"LOG_PRETTY" default:"false"`
}

// Load reads an optional .env file and parses environment variables
// into the Config struct.
func Load() (*Config, error) {
	_ = godotenv.Load() // .env is optional

	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}
