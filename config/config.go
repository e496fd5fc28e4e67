package config

import (
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	log "github.com/sirupsen/logrus"
	"github.com/spf13/viper"
)

// Config holds the storefront configuration
type Config struct {
	Env      string
	Port     string
	LogLevel string

	// Storefront backend, e.g. http://localhost:5000/api
	APIBaseURL      string
	OrderAPITimeout time.Duration

	RemoveBgAPIKey  string
	RemoveBgURL     string
	RemoveBgTimeout time.Duration

	OAuthAuthorizeURL string
	CookieSecure      bool

	// Idle customizers and old sessions are reclaimed every EvictionInterval
	CustomizerIdleTimeout time.Duration
	SessionTTL            time.Duration
	EvictionInterval      time.Duration

	// Optional Drive folder with garment mockups
	GoogleCredentialsPath string
	MockupDriveFolderID   string
}

// LoadEnvFile loads .env in development, .env values override the system environment
// In production, variables should be set directly
func LoadEnvFile(path string) {
	if os.Getenv("ENV") == "production" {
		return
	}
	if err := godotenv.Overload(path); err != nil {
		log.Printf("Warning: .env file not found at %s, using system environment variables", path)
		return
	}
	log.Printf("Successfully loaded environment variables from %s (overriding system variables)", path)
}

// NewViper returns a viper instance reading the environment with the storefront defaults
func NewViper() *viper.Viper {
	v := viper.New()
	v.AutomaticEnv()

	v.SetDefault("ENV", "development")
	v.SetDefault("PORT", "8080")
	v.SetDefault("LOG_LEVEL", "info")
	v.SetDefault("API_BASE_URL", "http://localhost:5000/api")
	v.SetDefault("ORDER_API_TIMEOUT", "10s")
	v.SetDefault("REMOVE_BG_URL", "https://api.remove.bg/v1.0/removebg")
	v.SetDefault("REMOVE_BG_TIMEOUT", "30s")
	v.SetDefault("OAUTH_AUTHORIZE_URL", "http://localhost:5000/api/auth/google")
	v.SetDefault("COOKIE_SECURE", false)
	v.SetDefault("CUSTOMIZER_IDLE_TIMEOUT", "30m")
	v.SetDefault("SESSION_TTL", "24h")
	v.SetDefault("EVICTION_INTERVAL", "1m")
	return v
}

// Parse builds the Config from a viper instance
func Parse(v *viper.Viper) *Config {
	port := v.GetString("PORT")
	// Remove leading colon if present
	port = strings.TrimPrefix(port, ":")

	return &Config{
		Env:                   v.GetString("ENV"),
		Port:                  port,
		LogLevel:              v.GetString("LOG_LEVEL"),
		APIBaseURL:            v.GetString("API_BASE_URL"),
		OrderAPITimeout:       v.GetDuration("ORDER_API_TIMEOUT"),
		RemoveBgAPIKey:        strings.TrimSpace(v.GetString("REMOVE_BG_API_KEY")),
		RemoveBgURL:           v.GetString("REMOVE_BG_URL"),
		RemoveBgTimeout:       v.GetDuration("REMOVE_BG_TIMEOUT"),
		OAuthAuthorizeURL:     v.GetString("OAUTH_AUTHORIZE_URL"),
		CookieSecure:          v.GetBool("COOKIE_SECURE"),
		CustomizerIdleTimeout: v.GetDuration("CUSTOMIZER_IDLE_TIMEOUT"),
		SessionTTL:            v.GetDuration("SESSION_TTL"),
		EvictionInterval:      v.GetDuration("EVICTION_INTERVAL"),
		GoogleCredentialsPath: v.GetString("GOOGLE_APPLICATION_CREDENTIALS"),
		MockupDriveFolderID:   v.GetString("MOCKUP_DRIVE_FOLDER_ID"),
	}
}

// Load reads the configuration from the environment
func Load() *Config {
	return Parse(NewViper())
}

// ConfigureLogging applies the configured log level
func (c *Config) ConfigureLogging() {
	level, err := log.ParseLevel(c.LogLevel)
	if err != nil {
		log.Printf("Warning: invalid LOG_LEVEL %q, using info", c.LogLevel)
		level = log.InfoLevel
	}
	log.SetLevel(level)
	if c.Env == "production" {
		log.SetFormatter(&log.JSONFormatter{})
	}
}
