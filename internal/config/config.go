package config

import (
	"errors"
	"log"
	"time"

	"github.com/spf13/viper"
)

type Config struct {
	DBDriver      string `mapstructure:"DB_DRIVER"`
	DBPath        string `mapstructure:"DB_PATH"`
	DBHost        string `mapstructure:"DB_HOST"`
	DBPort        string `mapstructure:"DB_PORT"`
	DBUser        string `mapstructure:"DB_USER"`
	DBPassword    string `mapstructure:"DB_PASSWORD"`
	DBName        string `mapstructure:"DB_NAME"`
	SessionStore  string `mapstructure:"SESSION_STORE"`
	RedisHost     string `mapstructure:"REDIS_HOST"`
	RedisPort     string `mapstructure:"REDIS_PORT"`
	SessionSecret string `mapstructure:"SESSION_SECRET"`
	GinMode       string `mapstructure:"GIN_MODE"`
	HTTPAddr      string `mapstructure:"HTTP_ADDR"`
	OpenAIAPIKey  string `mapstructure:"OPENAI_API_KEY"`
	LogLevel      string `mapstructure:"LOG_LEVEL"`
	LogFile       string `mapstructure:"LOG_FILE"`

	BadgeSweepInterval time.Duration `mapstructure:"BADGE_SWEEP_INTERVAL"`
	SweepWorkers       int           `mapstructure:"SWEEP_WORKERS"`
	HashPasswords      bool          `mapstructure:"HASH_PASSWORDS"`
}

var defaults = map[string]interface{}{
	"DB_DRIVER":            "sqlite",
	"DB_PATH":              "vcc.db",
	"DB_HOST":              "localhost",
	"DB_PORT":              "3306",
	"DB_USER":              "vccuser",
	"DB_PASSWORD":          "vccpassword",
	"DB_NAME":              "vcc",
	"SESSION_STORE":        "cookie",
	"REDIS_HOST":           "localhost",
	"REDIS_PORT":           "6379",
	"SESSION_SECRET":       "default-secret-key-change-me",
	"GIN_MODE":             "debug",
	"HTTP_ADDR":            ":8080",
	"OPENAI_API_KEY":       "",
	"LOG_LEVEL":            "info",
	"LOG_FILE":             "",
	"BADGE_SWEEP_INTERVAL": "15m",
	"SWEEP_WORKERS":        4,
	"HASH_PASSWORDS":       false,
}

// Load reads configuration from the environment, optionally merged with a
// config.yaml found in the working directory, ./config or /etc/vcc.
func Load() *Config {
	v := viper.New()
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")
	v.AddConfigPath("./config")
	v.AddConfigPath("/etc/vcc")

	for key, value := range defaults {
		v.SetDefault(key, value)
	}
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			log.Printf("Could not read config file: %v", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		log.Fatalf("Unable to decode config: %v", err)
	}
	if cfg.SweepWorkers <= 0 {
		cfg.SweepWorkers = 1
	}
	return &cfg
}
