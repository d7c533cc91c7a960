package config

import (
	"os"
	"path/filepath"
	"strconv"
	"time"
)

// Config holds all configuration options for the task sharing application
type Config struct {
	Server     ServerConfig
	Database   DatabaseConfig
	Session    SessionConfig
	Time       TimeConfig
	Validation ValidationConfig
}

// ServerConfig holds HTTP server configuration
type ServerConfig struct {
	Address      string        `env:"TF_SERVER_ADDRESS"`
	ReadTimeout  time.Duration `env:"TF_SERVER_READ_TIMEOUT"`
	WriteTimeout time.Duration `env:"TF_SERVER_WRITE_TIMEOUT"`
}

// DatabaseConfig holds database-related configuration
type DatabaseConfig struct {
	Dir            string        `env:"TF_DB_DIR"`
	Filename       string        `env:"TF_DB_FILENAME"`
	QueryTimeout   time.Duration `env:"TF_DB_QUERY_TIMEOUT"`
	DirPermissions uint32        `env:"TF_DB_DIR_PERMISSIONS"`
}

// SessionConfig holds login session configuration
type SessionConfig struct {
	CookieName string `env:"TF_SESSION_COOKIE_NAME"`
	Secret     string `env:"TF_SESSION_SECRET"`
	MaxAge     int    `env:"TF_SESSION_MAX_AGE"`
}

// TimeConfig holds timezone and display configuration. Deadlines submitted
// without an explicit zone are interpreted in Zone.
type TimeConfig struct {
	Zone          string `env:"TF_TIME_ZONE"`
	DisplayFormat string `env:"TF_TIME_DISPLAY_FORMAT"`
}

// ValidationConfig holds validation rules configuration
type ValidationConfig struct {
	TaskNameMaxLength int `env:"TF_VALIDATION_TASK_NAME_MAX"`
	PasswordMinLength int `env:"TF_VALIDATION_PASSWORD_MIN"`
}

// NewConfig creates a new configuration with sensible defaults
func NewConfig() *Config {
	homeDir, _ := os.UserHomeDir()
	defaultDBDir := filepath.Join(homeDir, ".taskfollow")

	return &Config{
		Server: ServerConfig{
			Address:      ":8080",
			ReadTimeout:  15 * time.Second,
			WriteTimeout: 15 * time.Second,
		},
		Database: DatabaseConfig{
			Dir:            defaultDBDir,
			Filename:       "taskfollow.db",
			QueryTimeout:   10 * time.Second,
			DirPermissions: 0755,
		},
		Session: SessionConfig{
			CookieName: "taskfollow_session",
			Secret:     "",
			MaxAge:     86400 * 7,
		},
		Time: TimeConfig{
			Zone:          "Asia/Tokyo",
			DisplayFormat: "2006-01-02 15:04",
		},
		Validation: ValidationConfig{
			TaskNameMaxLength: 255,
			PasswordMinLength: 1,
		},
	}
}

// GetDatabasePath returns the full path to the database file
func (c *Config) GetDatabasePath() string {
	return filepath.Join(c.Database.Dir, c.Database.Filename)
}

// GetQueryTimeout returns the database query timeout
func (c *Config) GetQueryTimeout() time.Duration {
	return c.Database.QueryTimeout
}

// Location loads the configured timezone
func (c *Config) Location() (*time.Location, error) {
	loc, err := time.LoadLocation(c.Time.Zone)
	if err != nil {
		return nil, &ConfigError{Field: "time.zone", Message: "unknown timezone: " + c.Time.Zone}
	}
	return loc, nil
}

// LoadFromEnvironment loads configuration from environment variables
func (c *Config) LoadFromEnvironment() error {
	// Server configuration
	if addr := os.Getenv("TF_SERVER_ADDRESS"); addr != "" {
		c.Server.Address = addr
	}
	if timeout := os.Getenv("TF_SERVER_READ_TIMEOUT"); timeout != "" {
		if d, err := time.ParseDuration(timeout); err == nil {
			c.Server.ReadTimeout = d
		}
	}
	if timeout := os.Getenv("TF_SERVER_WRITE_TIMEOUT"); timeout != "" {
		if d, err := time.ParseDuration(timeout); err == nil {
			c.Server.WriteTimeout = d
		}
	}

	// Database configuration
	if dir := os.Getenv("TF_DB_DIR"); dir != "" {
		c.Database.Dir = dir
	}
	if filename := os.Getenv("TF_DB_FILENAME"); filename != "" {
		c.Database.Filename = filename
	}
	if timeout := os.Getenv("TF_DB_QUERY_TIMEOUT"); timeout != "" {
		if d, err := time.ParseDuration(timeout); err == nil {
			c.Database.QueryTimeout = d
		}
	}
	if perms := os.Getenv("TF_DB_DIR_PERMISSIONS"); perms != "" {
		if p, err := strconv.ParseUint(perms, 8, 32); err == nil {
			c.Database.DirPermissions = uint32(p)
		}
	}

	// Session configuration
	if name := os.Getenv("TF_SESSION_COOKIE_NAME"); name != "" {
		c.Session.CookieName = name
	}
	if secret := os.Getenv("TF_SESSION_SECRET"); secret != "" {
		c.Session.Secret = secret
	}
	if maxAge := os.Getenv("TF_SESSION_MAX_AGE"); maxAge != "" {
		if n, err := strconv.Atoi(maxAge); err == nil {
			c.Session.MaxAge = n
		}
	}

	// Time configuration
	if zone := os.Getenv("TF_TIME_ZONE"); zone != "" {
		c.Time.Zone = zone
	}
	if format := os.Getenv("TF_TIME_DISPLAY_FORMAT"); format != "" {
		c.Time.DisplayFormat = format
	}

	// Validation configuration
	if maxLen := os.Getenv("TF_VALIDATION_TASK_NAME_MAX"); maxLen != "" {
		if n, err := strconv.Atoi(maxLen); err == nil {
			c.Validation.TaskNameMaxLength = n
		}
	}
	if minLen := os.Getenv("TF_VALIDATION_PASSWORD_MIN"); minLen != "" {
		if n, err := strconv.Atoi(minLen); err == nil {
			c.Validation.PasswordMinLength = n
		}
	}

	return nil
}

// Validate validates the configuration and returns any errors
func (c *Config) Validate() error {
	if c.Server.Address == "" {
		return &ConfigError{Field: "server.address", Message: "server address cannot be empty"}
	}
	if c.Server.ReadTimeout <= 0 {
		return &ConfigError{Field: "server.read_timeout", Message: "read timeout must be positive"}
	}
	if c.Server.WriteTimeout <= 0 {
		return &ConfigError{Field: "server.write_timeout", Message: "write timeout must be positive"}
	}

	if c.Database.Dir == "" {
		return &ConfigError{Field: "database.dir", Message: "database directory cannot be empty"}
	}
	if c.Database.Filename == "" {
		return &ConfigError{Field: "database.filename", Message: "database filename cannot be empty"}
	}
	if c.Database.QueryTimeout <= 0 {
		return &ConfigError{Field: "database.query_timeout", Message: "query timeout must be positive"}
	}

	if c.Session.CookieName == "" {
		return &ConfigError{Field: "session.cookie_name", Message: "session cookie name cannot be empty"}
	}
	if c.Session.Secret == "" {
		return &ConfigError{Field: "session.secret", Message: "session secret must be set (TF_SESSION_SECRET)"}
	}
	if c.Session.MaxAge <= 0 {
		return &ConfigError{Field: "session.max_age", Message: "session max age must be positive"}
	}

	if _, err := time.LoadLocation(c.Time.Zone); err != nil {
		return &ConfigError{Field: "time.zone", Message: "unknown timezone: " + c.Time.Zone}
	}
	if c.Time.DisplayFormat == "" {
		return &ConfigError{Field: "time.display_format", Message: "display format cannot be empty"}
	}

	if c.Validation.TaskNameMaxLength < 1 {
		return &ConfigError{Field: "validation.task_name_max_length", Message: "task name maximum length must be at least 1"}
	}
	if c.Validation.PasswordMinLength < 1 {
		return &ConfigError{Field: "validation.password_min_length", Message: "password minimum length must be at least 1"}
	}

	return nil
}

// ConfigError represents a configuration validation error
type ConfigError struct {
	Field   string
	Message string
}

func (e *ConfigError) Error() string {
	return e.Field + ": " + e.Message
}
