package config

import (
	"fmt"
	"strings"

	"github.com/spf13/viper"
)

// Config holds all configuration for the application
type Config struct {
	Server   ServerConfig   `mapstructure:"server"`
	Database DatabaseConfig `mapstructure:"database"`
	Redis    RedisConfig    `mapstructure:"redis"`
	Provider ProviderConfig `mapstructure:"provider"`
	Store    StoreConfig    `mapstructure:"store"`
}

// ServerConfig holds HTTP server configuration
type ServerConfig struct {
	Host        string   `mapstructure:"host"`
	Port        int      `mapstructure:"port"`
	CORSOrigins []string `mapstructure:"cors_origins"`
}

// DatabaseConfig holds database configuration
type DatabaseConfig struct {
	Host     string `mapstructure:"host"`
	Port     int    `mapstructure:"port"`
	Name     string `mapstructure:"name"`
	User     string `mapstructure:"user"`
	Password string `mapstructure:"password"`
}

// RedisConfig holds Redis connection details
type RedisConfig struct {
	Host             string `mapstructure:"host"`
	Port             int    `mapstructure:"port"`
	Password         string `mapstructure:"password"`
	Database         int    `mapstructure:"database"`
	ConsumerGroup    string `mapstructure:"consumer_group"`
	MinIdleTime      int    `mapstructure:"min_idle_time"`
	HighlightChannel string `mapstructure:"highlight_channel"`
}

// ProviderConfig holds catalog provider API configuration
type ProviderConfig struct {
	BaseURL              string   `mapstructure:"base_url"`
	Timeout              int      `mapstructure:"timeout"`
	MaxRetries           int      `mapstructure:"max_retries"`
	MaxWorkers           int      `mapstructure:"max_workers"`
	MaxRequestsPerSecond int      `mapstructure:"max_requests_per_second"`
	BatchSize            int      `mapstructure:"batch_size"`
	StoreIDs             []string `mapstructure:"store_ids"`
}

// StoreConfig holds per-deployment store layout settings
type StoreConfig struct {
	LayoutFile        string  `mapstructure:"layout_file"`
	EntranceX         float64 `mapstructure:"entrance_x"`
	EntranceY         float64 `mapstructure:"entrance_y"`
	SessionTTLMinutes int     `mapstructure:"session_ttl_minutes"`
}

// Load loads configuration from YAML file with environment variable overrides
func Load() (*Config, error) {
	viper.SetConfigName("config")
	viper.SetConfigType("yaml")
	viper.AddConfigPath(".")

	setDefaults()

	viper.AutomaticEnv()
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	if err := viper.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); ok {
			return nil, fmt.Errorf("config.yaml file not found in current directory")
		}
		return nil, fmt.Errorf("error reading config file: %w", err)
	}

	var config Config
	if err := viper.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("unable to decode config: %w", err)
	}

	return &config, nil
}

func setDefaults() {
	viper.SetDefault("server.host", "localhost")
	viper.SetDefault("server.port", 8080)
	viper.SetDefault("server.cors_origins", []string{"*"})

	viper.SetDefault("database.host", "localhost")
	viper.SetDefault("database.port", 5432)
	viper.SetDefault("database.name", "trolley")
	viper.SetDefault("database.user", "trolley_user")
	viper.SetDefault("database.password", "trolley_pass")

	viper.SetDefault("redis.host", "localhost")
	viper.SetDefault("redis.port", 6379)
	viper.SetDefault("redis.password", "")
	viper.SetDefault("redis.database", 0)
	viper.SetDefault("redis.consumer_group", "trolley_consumer")
	viper.SetDefault("redis.min_idle_time", 120)
	viper.SetDefault("redis.highlight_channel", "trolley:highlight")

	viper.SetDefault("provider.base_url", "")
	viper.SetDefault("provider.timeout", 30)
	viper.SetDefault("provider.max_retries", 3)
	viper.SetDefault("provider.max_workers", 10)
	viper.SetDefault("provider.max_requests_per_second", 5)
	viper.SetDefault("provider.batch_size", 50)

	viper.SetDefault("store.layout_file", "")
	viper.SetDefault("store.entrance_x", 600)
	viper.SetDefault("store.entrance_y", 775)
	viper.SetDefault("store.session_ttl_minutes", 120)
}
