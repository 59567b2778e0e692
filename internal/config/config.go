package config

import (
	"os"
	"strconv"
	"time"
)

// Config holds the application configuration
type Config struct {
	ListenAddr      string
	DatabasePath    string
	FontPath        string
	LogLevel        string
	DocumentTitle   string
	ReadTimeout     time.Duration
	WriteTimeout    time.Duration
	WhatsAppEnabled bool
	WhatsAppDataDir string
}

// LoadConfig loads configuration from environment variables or defaults
func LoadConfig() *Config {
	return &Config{
		ListenAddr:      getEnv("LISTEN_ADDR", ":8080"),
		DatabasePath:    getEnv("DATABASE_PATH", "data/guests.db"),
		FontPath:        getEnv("FONT_PATH", "assets/fonts/Amiri-Regular.ttf"),
		LogLevel:        getEnv("LOG_LEVEL", "info"),
		DocumentTitle:   getEnv("DOCUMENT_TITLE", "قائمة متابعة الحضور"),
		ReadTimeout:     getDuration("READ_TIMEOUT", 15*time.Second),
		WriteTimeout:    getDuration("WRITE_TIMEOUT", 60*time.Second),
		WhatsAppEnabled: getBool("WHATSAPP_ENABLED", false),
		WhatsAppDataDir: getEnv("WHATSAPP_DATA_DIR", "data"),
	}
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getBool(key string, defaultValue bool) bool {
	if value, err := strconv.ParseBool(os.Getenv(key)); err == nil {
		return value
	}
	return defaultValue
}

func getDuration(key string, defaultValue time.Duration) time.Duration {
	if value, err := time.ParseDuration(os.Getenv(key)); err == nil {
		return value
	}
	return defaultValue
}
