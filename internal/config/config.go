package config

import (
	"encoding/json"
	"fmt"
	"os"
	"strconv"
	"time"
)

// Config represents the application configuration
type Config struct {
	Server     ServerConfig     `json:"server"`
	Database   DatabaseConfig   `json:"database"`
	API        APIConfig        `json:"api"`
	Supabase   SupabaseConfig   `json:"supabase"`
	Security   SecurityConfig   `json:"security"`
	Onboarding OnboardingConfig `json:"onboarding"`
	Dashboard  DashboardConfig  `json:"dashboard"`
	Logging    LoggingConfig    `json:"logging"`
}

// ServerConfig represents server configuration
type ServerConfig struct {
	Host         string        `json:"host"`
	Port         int           `json:"port"`
	ReadTimeout  time.Duration `json:"read_timeout"`
	WriteTimeout time.Duration `json:"write_timeout"`
	IdleTimeout  time.Duration `json:"idle_timeout"`
}

// DatabaseConfig represents database configuration
type DatabaseConfig struct {
	Host           string        `json:"host"`
	Port           int           `json:"port"`
	User           string        `json:"user"`
	Password       string        `json:"password"`
	DBName         string        `json:"db_name"`
	SSLMode        string        `json:"ssl_mode"`
	MaxConnections int           `json:"max_connections"`
	MaxIdleConns   int           `json:"max_idle_conns"`
	MaxLifetime    time.Duration `json:"max_lifetime"`
}

// APIConfig configures the upstream portal API client
type APIConfig struct {
	BaseURL string        `json:"base_url"`
	Timeout time.Duration `json:"timeout"`
}

// SupabaseConfig holds the Supabase project credentials
type SupabaseConfig struct {
	URL        string `json:"url"`
	AnonKey    string `json:"anon_key"`
	ServiceKey string `json:"service_key"`
}

// SecurityConfig holds auth secrets
type SecurityConfig struct {
	JWTSecret      string        `json:"jwt_secret"`
	TokenLifetime  time.Duration `json:"token_lifetime"`
	BcryptCost     int           `json:"bcrypt_cost"`
}

// OnboardingConfig tunes the onboarding flow
type OnboardingConfig struct {
	// FinalizeThresholdPercent is the minimum progress percentage at which
	// a session may be finalized.
	FinalizeThresholdPercent int `json:"finalize_threshold_percent"`
	TotalSteps               int `json:"total_steps"`
}

// DashboardConfig tunes the dashboard snapshot cache
type DashboardConfig struct {
	CacheTTL        time.Duration `json:"cache_ttl"`
	RefreshSchedule string        `json:"refresh_schedule"`
}

// LoggingConfig
type LoggingConfig struct {
	Level string `json:"level"`
}

// LoadConfig loads configuration from file and environment variables
func LoadConfig(configPath string) (*Config, error) {
	// Default config
	config := &Config{
		Server: ServerConfig{
			Host: "0.0.0.0",
			Port: 8080,
		},
		Database: DatabaseConfig{
			Host:    "localhost",
			Port:    5432,
			User:    os.Getenv("USER"),
			DBName:  "launchpad_portal",
			SSLMode: "disable",
		},
		API: APIConfig{
			Timeout: 15 * time.Second,
		},
		Security: SecurityConfig{
			TokenLifetime: 24 * time.Hour,
			BcryptCost:    10,
		},
		Onboarding: OnboardingConfig{
			FinalizeThresholdPercent: 75,
			TotalSteps:               24,
		},
		Dashboard: DashboardConfig{
			CacheTTL:        5 * time.Minute,
			RefreshSchedule: "0 */5 * * * *",
		},
	}

	// Load from file if exists
	if configPath != "" {
		if data, err := os.ReadFile(configPath); err == nil {
			if err := json.Unmarshal(data, config); err != nil {
				return nil, fmt.Errorf("failed to parse config file: %w", err)
			}
		}
	}

	// Override with environment variables
	overrideWithEnv(config)

	return config, nil
}

func overrideWithEnv(config *Config) {
	if host := os.Getenv("SERVER_HOST"); host != "" {
		config.Server.Host = host
	}
	if port := os.Getenv("SERVER_PORT"); port != "" {
		if p, err := strconv.Atoi(port); err == nil {
			config.Server.Port = p
		}
	}
	if dbHost := os.Getenv("DATABASE_HOST"); dbHost != "" {
		config.Database.Host = dbHost
	}
	if dbUser := os.Getenv("DATABASE_USER"); dbUser != "" {
		config.Database.User = dbUser
	}
	if dbPass := os.Getenv("DATABASE_PASSWORD"); dbPass != "" {
		config.Database.Password = dbPass
	}
	if dbName := os.Getenv("DATABASE_DBNAME"); dbName != "" {
		config.Database.DBName = dbName
	}
	if baseURL := os.Getenv("API_BASE_URL"); baseURL != "" {
		config.API.BaseURL = baseURL
	}
	if url := os.Getenv("SUPABASE_URL"); url != "" {
		config.Supabase.URL = url
	}
	if key := os.Getenv("SUPABASE_ANON_KEY"); key != "" {
		config.Supabase.AnonKey = key
	}
	if key := os.Getenv("SUPABASE_SERVICE_KEY"); key != "" {
		config.Supabase.ServiceKey = key
	}
	if secret := os.Getenv("JWT_SECRET"); secret != "" {
		config.Security.JWTSecret = secret
	}
	if threshold := os.Getenv("ONBOARDING_FINALIZE_THRESHOLD"); threshold != "" {
		if t, err := strconv.Atoi(threshold); err == nil {
			config.Onboarding.FinalizeThresholdPercent = t
		}
	}
}

// Validate checks that required credentials are present. Missing credentials
// are a configuration error raised before any network call is attempted.
func (c *Config) Validate() error {
	if c.API.BaseURL == "" {
		return fmt.Errorf("missing API base URL (API_BASE_URL)")
	}
	if c.Supabase.URL == "" {
		return fmt.Errorf("missing Supabase URL (SUPABASE_URL)")
	}
	if c.Supabase.AnonKey == "" {
		return fmt.Errorf("missing Supabase anon key (SUPABASE_ANON_KEY)")
	}
	if c.Security.JWTSecret == "" {
		return fmt.Errorf("missing JWT secret (JWT_SECRET)")
	}
	if c.Onboarding.FinalizeThresholdPercent < 0 || c.Onboarding.FinalizeThresholdPercent > 100 {
		return fmt.Errorf("finalize threshold must be within [0,100], got %d", c.Onboarding.FinalizeThresholdPercent)
	}
	return nil
}

// GetDatabaseURL returns the database connection string
func (c *DatabaseConfig) GetDatabaseURL() string {
	return fmt.Sprintf("postgres://%s:%s@%s:%d/%s?sslmode=%s",
		c.User, c.Password, c.Host, c.Port, c.DBName, c.SSLMode)
}

// GetServerAddr returns the server address
func (c *ServerConfig) GetServerAddr() string {
	return fmt.Sprintf("%s:%d", c.Host, c.Port)
}
