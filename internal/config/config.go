package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

const (
	envPrefix             = "CIVICLENS"
	defaultHTTPAddress    = "0.0.0.0:8080"
	defaultAPIBaseURL     = "http://localhost:8080"
	defaultRequestTimeout = 5
	defaultDatabasePath   = "civiclens.db"
	defaultLogLevel       = "info"
)

// AppConfig captures runtime configuration for the CLI and demo server.
type AppConfig struct {
	HTTPAddress    string
	APIBaseURL     string
	RequestTimeout time.Duration
	DatabasePath   string
	LogLevel       string
	SessionSalt    string
	AllowedOrigins []string
}

// NewViper returns a viper instance with defaults and env bindings configured.
func NewViper() *viper.Viper {
	configViper := viper.New()
	ApplyDefaults(configViper)
	return configViper
}

// ApplyDefaults configures defaults and env bindings on the provided viper instance.
func ApplyDefaults(configViper *viper.Viper) {
	configViper.SetEnvPrefix(envPrefix)
	configViper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	configViper.AutomaticEnv()

	configViper.SetDefault("http.address", defaultHTTPAddress)
	configViper.SetDefault("api.base_url", defaultAPIBaseURL)
	configViper.SetDefault("api.timeout_seconds", defaultRequestTimeout)
	configViper.SetDefault("database.path", defaultDatabasePath)
	configViper.SetDefault("log.level", defaultLogLevel)
	configViper.SetDefault("session.salt", "")
	configViper.SetDefault("cors.allowed_origins", []string{"*"})
}

// Load parses runtime configuration from viper.
func Load(configViper *viper.Viper) (AppConfig, error) {
	cfg := AppConfig{
		HTTPAddress:    configViper.GetString("http.address"),
		APIBaseURL:     strings.TrimRight(configViper.GetString("api.base_url"), "/"),
		RequestTimeout: time.Duration(configViper.GetInt("api.timeout_seconds")) * time.Second,
		DatabasePath:   configViper.GetString("database.path"),
		LogLevel:       configViper.GetString("log.level"),
		SessionSalt:    configViper.GetString("session.salt"),
		AllowedOrigins: configViper.GetStringSlice("cors.allowed_origins"),
	}

	if err := cfg.validate(); err != nil {
		return AppConfig{}, err
	}

	return cfg, nil
}

func (c AppConfig) validate() error {
	if strings.TrimSpace(c.HTTPAddress) == "" {
		return fmt.Errorf("http.address is required")
	}
	if strings.TrimSpace(c.APIBaseURL) == "" {
		return fmt.Errorf("api.base_url is required")
	}
	if c.RequestTimeout <= 0 {
		return fmt.Errorf("api.timeout_seconds must be positive")
	}
	if strings.TrimSpace(c.DatabasePath) == "" {
		return fmt.Errorf("database.path is required")
	}
	return nil
}
