package config

import (
	"fmt"
	"time"

	"github.com/kelseyhightower/envconfig"
	"github.com/spf13/viper"
)

type Config struct {
	Server       ServerConfig
	Database     DatabaseConfig
	Redis        RedisConfig
	JWT          JWTConfig
	Availability AvailabilityConfig
	RateLimit    RateLimitConfig
}

type ServerConfig struct {
	Port           int `mapstructure:"port"`
	TimeoutSeconds int `mapstructure:"timeoutSeconds"`
}

type DatabaseConfig struct {
	Host     string `mapstructure:"host"`
	Port     int    `mapstructure:"port"`
	User     string `mapstructure:"user"`
	Password string `mapstructure:"password"`
	Name     string `mapstructure:"name"`
	SSLMode  string `mapstructure:"sslmode"`
}

type RedisConfig struct {
	URL          string        `mapstructure:"url"`
	MaxRetries   int           `mapstructure:"max_retries"`
	RetryBackoff time.Duration `mapstructure:"retry_backoff"`
	PoolSize     int           `mapstructure:"pool_size"`
	MinIdleConns int           `mapstructure:"min_idle_conns"`
}

type JWTConfig struct {
	Secret string `mapstructure:"secret"`
}

// AvailabilityConfig controls how "open now" maps wall-clock instants to
// local civil time. The deployment is single-region, so a fixed UTC
// offset stands in for a timezone database; tests override it freely.
type AvailabilityConfig struct {
	UTCOffsetHours int `mapstructure:"utc_offset_hours"`
}

type RateLimitConfig struct {
	RPS   float64 `mapstructure:"rps"`
	Burst int     `mapstructure:"burst"`
}

// envOverrides are applied on top of the config file so deployments can
// inject secrets without touching yaml.
type envOverrides struct {
	DatabasePassword string `envconfig:"DB_PASSWORD"`
	RedisURL         string `envconfig:"REDIS_URL"`
	JWTSecret        string `envconfig:"JWT_SECRET"`
}

func LoadConfig() (*Config, error) {
	viper.SetConfigName("config")
	viper.SetConfigType("yaml")
	viper.AddConfigPath(".")
	viper.AddConfigPath("./config")

	viper.SetDefault("server.port", 8080)
	viper.SetDefault("server.timeoutSeconds", 30)
	viper.SetDefault("database.sslmode", "disable")
	viper.SetDefault("availability.utc_offset_hours", -3)
	viper.SetDefault("ratelimit.rps", 50)
	viper.SetDefault("ratelimit.burst", 100)

	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	var config Config
	if err := viper.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	var env envOverrides
	if err := envconfig.Process("vets", &env); err != nil {
		return nil, fmt.Errorf("failed to process env overrides: %w", err)
	}
	if env.DatabasePassword != "" {
		config.Database.Password = env.DatabasePassword
	}
	if env.RedisURL != "" {
		config.Redis.URL = env.RedisURL
	}
	if env.JWTSecret != "" {
		config.JWT.Secret = env.JWTSecret
	}

	return &config, nil
}
