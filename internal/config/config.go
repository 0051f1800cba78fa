package config

import (
	"fmt"
	"os"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Store drivers accepted by STORE_DRIVER.
const (
	DriverMongo  = "mongo"
	DriverMySQL  = "mysql"
	DriverSQLite = "sqlite"
	DriverMemory = "memory"
)

// Config holds application level configuration loaded from the environment.
type Config struct {
	ServerPort      string        `mapstructure:"SERVER_PORT" validate:"required,numeric"`
	ShutdownTimeout time.Duration `mapstructure:"SHUTDOWN_TIMEOUT" validate:"required"`

	StoreDriver   string `mapstructure:"STORE_DRIVER" validate:"required,oneof=mongo mysql sqlite memory"`
	MongoURI      string `mapstructure:"MONGO_URI" validate:"required_if=StoreDriver mongo"`
	MongoDatabase string `mapstructure:"MONGO_DATABASE" validate:"required_if=StoreDriver mongo"`
	MySQLDSN      string `mapstructure:"MYSQL_DSN" validate:"required_if=StoreDriver mysql"`
	SQLitePath    string `mapstructure:"SQLITE_PATH" validate:"required_if=StoreDriver sqlite"`

	RedisAddr string `mapstructure:"REDIS_ADDR"`
	RedisPass string `mapstructure:"REDIS_PASSWORD"`
	RedisDB   int    `mapstructure:"REDIS_DB" validate:"gte=0"`

	NATSURL string `mapstructure:"NATS_URL"`

	JWTSecret  string        `mapstructure:"JWT_SECRET" validate:"required"`
	JWTTTL     time.Duration `mapstructure:"JWT_TTL" validate:"required"`
	BcryptCost int           `mapstructure:"BCRYPT_COST" validate:"gte=4,lte=31"`

	LogLevel  string `mapstructure:"LOG_LEVEL" validate:"required,oneof=debug info warn error"`
	LogFormat string `mapstructure:"LOG_FORMAT" validate:"required,oneof=json console"`

	RateLimitRPS   float64 `mapstructure:"RATE_LIMIT_RPS" validate:"gte=0"`
	RateLimitBurst int     `mapstructure:"RATE_LIMIT_BURST" validate:"gte=0"`

	SwaggerHost string `mapstructure:"SWAGGER_HOST"`
}

var keys = []string{
	"SERVER_PORT", "SHUTDOWN_TIMEOUT",
	"STORE_DRIVER", "MONGO_URI", "MONGO_DATABASE", "MYSQL_DSN", "SQLITE_PATH",
	"REDIS_ADDR", "REDIS_PASSWORD", "REDIS_DB",
	"NATS_URL",
	"JWT_SECRET", "JWT_TTL", "BCRYPT_COST",
	"LOG_LEVEL", "LOG_FORMAT",
	"RATE_LIMIT_RPS", "RATE_LIMIT_BURST",
	"SWAGGER_HOST",
}

var validate = validator.New(validator.WithRequiredStructEnabled())

// Load builds Config from .env (if present) and the environment, applying
// defaults and validating the result.
func Load() (*Config, error) {
	_ = godotenv.Load()

	v := viper.New()
	v.AutomaticEnv()

	v.SetDefault("SERVER_PORT", "3000")
	v.SetDefault("SHUTDOWN_TIMEOUT", "10s")
	v.SetDefault("STORE_DRIVER", DriverMongo)
	v.SetDefault("MONGO_URI", "mongodb://localhost:27017")
	v.SetDefault("MONGO_DATABASE", "mestodb")
	v.SetDefault("MYSQL_DSN", "user:password@tcp(localhost:3306)/mesto?charset=utf8mb4&parseTime=True&loc=Local")
	v.SetDefault("SQLITE_PATH", "mesto.db")
	v.SetDefault("REDIS_ADDR", "localhost:6379")
	v.SetDefault("REDIS_DB", 0)
	v.SetDefault("JWT_SECRET", "some-secret-key")
	v.SetDefault("JWT_TTL", "168h")
	v.SetDefault("BCRYPT_COST", 10)
	v.SetDefault("LOG_LEVEL", "info")
	v.SetDefault("LOG_FORMAT", "json")
	v.SetDefault("RATE_LIMIT_RPS", 5)
	v.SetDefault("RATE_LIMIT_BURST", 10)

	for _, key := range keys {
		_ = v.BindEnv(key)
	}

	var c Config
	if err := v.Unmarshal(&c); err != nil {
		return nil, fmt.Errorf("config unmarshal: %w", err)
	}

	if err := validate.Struct(&c); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return &c, nil
}

// MustLoad loads configuration or exits the process on failure.
func MustLoad() *Config {
	c, err := Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load config: %v\n", err)
		os.Exit(1)
	}
	return c
}
