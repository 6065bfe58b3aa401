package config

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/viper"
)

type Config struct {
	GeneralVersion string `mapstructure:"GENERAL_VERSION"`
	Environment    string `mapstructure:"ENVIRONMENT"`
	ServerPort     int    `mapstructure:"SERVER_PORT"`
	LogLevel       string `mapstructure:"LOG_LEVEL"`
	LogFormat      string `mapstructure:"LOG_FORMAT"`

	DatabaseDriver   string `mapstructure:"DATABASE_DRIVER"`
	DatabaseDbPath   string `mapstructure:"DATABASE_DB_PATH"`
	DatabaseHost     string `mapstructure:"DATABASE_HOST"`
	DatabasePort     int    `mapstructure:"DATABASE_PORT"`
	DatabaseUser     string `mapstructure:"DATABASE_USER"`
	DatabasePassword string `mapstructure:"DATABASE_PASSWORD"`
	DatabaseName     string `mapstructure:"DATABASE_NAME"`

	DatabaseCacheAddress  string `mapstructure:"DATABASE_CACHE_ADDRESS"`
	DatabaseCachePort     int    `mapstructure:"DATABASE_CACHE_PORT"`
	CacheTrendsTTLSeconds int    `mapstructure:"CACHE_TRENDS_TTL_SECONDS"`

	EventsKafkaBrokers string `mapstructure:"EVENTS_KAFKA_BROKERS"`
	EventsKafkaTopic   string `mapstructure:"EVENTS_KAFKA_TOPIC"`

	DefaultWindowDays int    `mapstructure:"DEFAULT_WINDOW_DAYS"`
	CorsAllowOrigins  string `mapstructure:"CORS_ALLOW_ORIGINS"`
}

const (
	DriverSQLite   = "sqlite"
	DriverPostgres = "postgres"
)

var defaults = map[string]any{
	"GENERAL_VERSION":          "dev",
	"ENVIRONMENT":              "development",
	"SERVER_PORT":              8280,
	"LOG_LEVEL":                "info",
	"LOG_FORMAT":               "text",
	"DATABASE_DRIVER":          DriverSQLite,
	"DATABASE_DB_PATH":         "data/painlog.db",
	"DATABASE_HOST":            "localhost",
	"DATABASE_PORT":            5432,
	"DATABASE_USER":            "",
	"DATABASE_PASSWORD":        "",
	"DATABASE_NAME":            "painlog",
	"DATABASE_CACHE_ADDRESS":   "",
	"DATABASE_CACHE_PORT":      6379,
	"CACHE_TRENDS_TTL_SECONDS": 300,
	"EVENTS_KAFKA_BROKERS":     "",
	"EVENTS_KAFKA_TOPIC":       "painlog.events",
	"DEFAULT_WINDOW_DAYS":      30,
	"CORS_ALLOW_ORIGINS":       "*",
}

// InitConfig loads configuration from defaults, an optional .env file in the
// working directory, and the environment, in increasing priority.
func InitConfig() (Config, error) {
	return load(viper.New(), ".env")
}

func load(v *viper.Viper, file string) (Config, error) {
	for key, value := range defaults {
		v.SetDefault(key, value)
	}

	if _, err := os.Stat(file); file != "" && err == nil {
		v.SetConfigFile(file)
		v.SetConfigType("env")
		if err := v.ReadInConfig(); err != nil {
			return Config{}, fmt.Errorf("failed to read config file %s: %w", file, err)
		}
	}

	v.AutomaticEnv()

	var config Config
	if err := v.Unmarshal(&config); err != nil {
		return Config{}, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	if err := config.Validate(); err != nil {
		return Config{}, err
	}

	return config, nil
}

func (c Config) Validate() error {
	switch c.DatabaseDriver {
	case DriverSQLite:
		if c.DatabaseDbPath == "" {
			return errors.New("DATABASE_DB_PATH is required for the sqlite driver")
		}
	case DriverPostgres:
		if c.DatabaseHost == "" || c.DatabaseName == "" {
			return errors.New("DATABASE_HOST and DATABASE_NAME are required for the postgres driver")
		}
	default:
		return fmt.Errorf("unsupported DATABASE_DRIVER %q", c.DatabaseDriver)
	}

	if c.ServerPort <= 0 {
		return fmt.Errorf("invalid SERVER_PORT %d", c.ServerPort)
	}

	if c.DefaultWindowDays <= 0 {
		return fmt.Errorf("invalid DEFAULT_WINDOW_DAYS %d", c.DefaultWindowDays)
	}

	return nil
}

func (c Config) CacheEnabled() bool {
	return c.DatabaseCacheAddress != ""
}

func (c Config) KafkaBrokers() []string {
	if strings.TrimSpace(c.EventsKafkaBrokers) == "" {
		return nil
	}

	var brokers []string
	for _, broker := range strings.Split(c.EventsKafkaBrokers, ",") {
		if broker = strings.TrimSpace(broker); broker != "" {
			brokers = append(brokers, broker)
		}
	}
	return brokers
}

func (c Config) IsProduction() bool {
	return c.Environment == "production"
}
