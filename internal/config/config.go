package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
	"github.com/sirupsen/logrus"
)

const (
	DriverMongo  = "mongo"
	DriverMemory = "memory"
)

type Config struct {
	StoreDriver    string        `envconfig:"STORE_DRIVER" default:"mongo"`
	MongoURI       string        `envconfig:"MONGO_URI"`
	DBName         string        `envconfig:"DB_NAME" default:"backoffice"`
	JWTSecret      string        `envconfig:"JWT_SECRET" required:"true"`
	AccessTokenTTL time.Duration `envconfig:"ACCESS_TOKEN_TTL" default:"12h"`
	Port           string        `envconfig:"PORT" default:"4001"`
	APIPrefix      string        `envconfig:"API_PREFIX" default:"/api"`
	CORSOrigins    []string      `envconfig:"CORS_ORIGINS" default:"http://localhost:3000"`
	LogLevel       string        `envconfig:"LOG_LEVEL" default:"info"`
	AMQPURL        string        `envconfig:"AMQP_URL"`
	EventsQueue    string        `envconfig:"EVENTS_QUEUE" default:"backoffice.events"`
	StoreTimeout   time.Duration `envconfig:"STORE_TIMEOUT" default:"5s"`
	AdminUsername  string        `envconfig:"ADMIN_USERNAME" default:"admin"`
	AdminEmail     string        `envconfig:"ADMIN_EMAIL"`
	AdminPassword  string        `envconfig:"ADMIN_PASSWORD"`
}

// Load reads an optional .env file and decodes the environment into a Config.
func Load(logger *logrus.Logger) (*Config, error) {
	if err := godotenv.Load(); err != nil {
		if errors.Is(err, os.ErrNotExist) {
			logger.Debug(".env not found, using process environment")
		} else {
			logger.Warnf(".env not loaded: %v", err)
		}
	}

	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, fmt.Errorf("process env: %w", err)
	}
	if err := cfg.normalize(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (c *Config) normalize() error {
	c.StoreDriver = strings.ToLower(strings.TrimSpace(c.StoreDriver))
	c.MongoURI = strings.TrimSpace(c.MongoURI)
	c.JWTSecret = strings.TrimSpace(c.JWTSecret)
	switch c.StoreDriver {
	case DriverMongo:
		if c.MongoURI == "" {
			return errors.New("MONGO_URI is required")
		}
	case DriverMemory:
	default:
		return fmt.Errorf("STORE_DRIVER must be %q or %q, got %q", DriverMongo, DriverMemory, c.StoreDriver)
	}
	if c.JWTSecret == "" {
		return errors.New("JWT_SECRET is required")
	}
	if c.AccessTokenTTL <= 0 {
		return fmt.Errorf("ACCESS_TOKEN_TTL must be positive, got %s", c.AccessTokenTTL)
	}
	if c.StoreTimeout <= 0 {
		return fmt.Errorf("STORE_TIMEOUT must be positive, got %s", c.StoreTimeout)
	}

	prefix := strings.TrimSpace(c.APIPrefix)
	prefix = "/" + strings.Trim(prefix, "/")
	if prefix == "/" {
		prefix = ""
	}
	c.APIPrefix = prefix

	origins := make([]string, 0, len(c.CORSOrigins))
	for _, o := range c.CORSOrigins {
		if o = strings.TrimSpace(o); o != "" {
			origins = append(origins, o)
		}
	}
	c.CORSOrigins = origins

	c.AdminEmail = strings.TrimSpace(c.AdminEmail)
	if (c.AdminEmail == "") != (c.AdminPassword == "") {
		return errors.New("ADMIN_EMAIL and ADMIN_PASSWORD must be set together")
	}
	return nil
}

// Addr is the listen address for the HTTP server.
func (c *Config) Addr() string {
	return ":" + strings.TrimPrefix(c.Port, ":")
}

func (c *Config) Level() logrus.Level {
	lvl, err := logrus.ParseLevel(c.LogLevel)
	if err != nil {
		return logrus.InfoLevel
	}
	return lvl
}
