package config

import (
	"fmt"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/spf13/viper"
	"go.uber.org/zap"
)

// Config struct is the top-level configuration structure.
type Config struct {
	Server   ServerConfig   `mapstructure:"server"`
	Database DatabaseConfig `mapstructure:"database"`
	Logging  LoggingConfig  `mapstructure:"logging"`
	Entry    EntryConfig    `mapstructure:"entry"`
	Scoring  ScoringConfig  `mapstructure:"scoring"`
}

// ServerConfig holds server-related settings.
type ServerConfig struct {
	Port          string `mapstructure:"port"`
	SessionSecret string `mapstructure:"session_secret"`
	BaseURL       string `mapstructure:"base_url"`
	SecureCookies bool   `mapstructure:"secure_cookies"`
}

// DatabaseConfig holds database connection settings.
type DatabaseConfig struct {
	Host          string        `mapstructure:"host"`
	Port          string        `mapstructure:"port"`
	User          string        `mapstructure:"user"`
	Password      string        `mapstructure:"password"`
	DBName        string        `mapstructure:"dbname"`
	SSLMode       string        `mapstructure:"sslmode"`
	SlowThreshold time.Duration `mapstructure:"slow_threshold"`
}

// DSN renders the postgres connection string.
func (d DatabaseConfig) DSN() string {
	return fmt.Sprintf("host=%s user=%s password=%s dbname=%s port=%s sslmode=%s TimeZone=UTC",
		d.Host, d.User, d.Password, d.DBName, d.Port, d.SSLMode)
}

// LoggingConfig holds settings for the logger.
type LoggingConfig struct {
	Directory  string `mapstructure:"directory"`
	MaxSize    int    `mapstructure:"max_size"`
	MaxBackups int    `mapstructure:"max_backups"`
	MaxAge     int    `mapstructure:"max_age"`
	Compress   bool   `mapstructure:"compress"`
}

// EntryConfig controls the signed links printed on QR codes.
type EntryConfig struct {
	TokenSecret  string        `mapstructure:"token_secret"`
	TokenTTL     time.Duration `mapstructure:"token_ttl"`
	QRServiceURL string        `mapstructure:"qr_service_url"`
}

type ScoringConfig struct {
	DashboardWorkers int `mapstructure:"dashboard_workers"`
}

// setDefaults sets the default values for the configuration.
func setDefaults(v *viper.Viper) {
	// Server defaults
	v.SetDefault("server.port", "5050")
	v.SetDefault("server.session_secret", "change-me")
	v.SetDefault("server.base_url", "http://localhost:5050")
	v.SetDefault("server.secure_cookies", false)

	// Database defaults
	v.SetDefault("database.host", "db")
	v.SetDefault("database.port", "5432")
	v.SetDefault("database.user", "user")
	v.SetDefault("database.password", "password")
	v.SetDefault("database.dbname", "feedback-db")
	v.SetDefault("database.sslmode", "disable")
	v.SetDefault("database.slow_threshold", 200*time.Millisecond)

	// Logging defaults
	v.SetDefault("logging.directory", "logs")
	v.SetDefault("logging.max_size", 10)   // 10 MB
	v.SetDefault("logging.max_backups", 3) // Keep 3 backups
	v.SetDefault("logging.max_age", 7)     // 7 days
	v.SetDefault("logging.compress", true) // Compress old logs

	v.SetDefault("entry.token_secret", "change-me-too")
	v.SetDefault("entry.token_ttl", 90*24*time.Hour)
	v.SetDefault("entry.qr_service_url", "https://api.qrserver.com/v1/create-qr-code/")

	v.SetDefault("scoring.dashboard_workers", 4)
}

// Store holds the live configuration and swaps it when the file changes.
type Store struct {
	mu  sync.RWMutex
	cfg *Config
}

// NewStore wraps a fixed configuration, as used by tests and one-shot commands.
func NewStore(cfg *Config) *Store {
	return &Store{cfg: cfg}
}

// Get returns the current configuration snapshot.
func (s *Store) Get() *Config {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.cfg
}

func (s *Store) set(cfg *Config) {
	s.mu.Lock()
	s.cfg = cfg
	s.mu.Unlock()
}

// Load reads configuration with Viper and keeps watching the file for changes.
func Load(projectRoot string, log *zap.Logger) (*Store, error) {
	v := viper.New()

	// Set default values
	setDefaults(v)

	// --- File Configuration ---
	v.AddConfigPath(filepath.Join(projectRoot, "config"))
	v.SetConfigName("config")
	v.SetConfigType("yaml")

	// --- Environment Variable Binding ---
	v.SetEnvPrefix("FEEDBACK") // e.g., FEEDBACK_SERVER_PORT
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// It's okay if the file doesn't exist; defaults and env vars will be used.
	fileFound := true
	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
		fileFound = false
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unable to decode config into struct: %w", err)
	}
	store := &Store{cfg: &cfg}

	if fileFound {
		v.OnConfigChange(func(e fsnotify.Event) {
			log.Info("Configuration file changed, reloading.", zap.String("file", e.Name))
			var next Config
			if err := v.Unmarshal(&next); err != nil {
				log.Error("Error reloading configuration", zap.Error(err))
				return
			}
			store.set(&next)
		})
		v.WatchConfig()
	}

	log.Info("Configuration loaded successfully", zap.Bool("file", fileFound))
	return store, nil
}
