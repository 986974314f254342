package config

import (
	"fmt"
	"os"

	"github.com/spf13/viper"
)

type Config struct {
	// Required fields
	SessionSecret string `mapstructure:"session_secret"`

	// Optional server settings
	ListenHost string `mapstructure:"listen_host"`
	ListenPort int    `mapstructure:"listen_port"`

	// Optional SSL settings
	SSLCert string `mapstructure:"ssl_cert"`
	SSLKey  string `mapstructure:"ssl_key"`

	// Optional CORS settings
	CORSOrigins []string `mapstructure:"cors_origins"`

	// Optional logging settings
	LogLevel string `mapstructure:"log_level"`

	// Session settings
	SessionTTLHours int `mapstructure:"session_ttl_hours"`

	// Bootstrap admin password, used only when the admin account does not
	// exist yet
	AdminPassword string `mapstructure:"admin_password"`

	// Storage
	DBPath string `mapstructure:"db_path"`

	ConfigPath string
}

const (
	DefaultConfigPath      = "/etc/miniblog/config.yml"
	DefaultDBPath          = "/var/lib/miniblog/db.sqlite3"
	DefaultListenHost      = "0.0.0.0"
	DefaultListenPort      = 8292
	DefaultLogLevel        = "info"
	DefaultSessionTTLHours = 24
	DefaultAdminPassword   = "adminpass"
)

func Load(configPath string) (*Config, error) {
	if configPath == "" {
		configPath = DefaultConfigPath
	}

	viper.SetConfigFile(configPath)
	viper.SetConfigType("yaml")

	// Set defaults
	viper.SetDefault("listen_host", DefaultListenHost)
	viper.SetDefault("listen_port", DefaultListenPort)
	viper.SetDefault("log_level", DefaultLogLevel)
	viper.SetDefault("session_ttl_hours", DefaultSessionTTLHours)
	viper.SetDefault("admin_password", DefaultAdminPassword)
	viper.SetDefault("db_path", DefaultDBPath)

	// Allow environment variable overrides
	viper.AutomaticEnv()
	viper.SetEnvPrefix("MINIBLOG")

	if err := viper.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	var cfg Config
	if err := viper.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	cfg.ConfigPath = configPath

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

func (c *Config) Validate() error {
	if c.SessionSecret == "" {
		return fmt.Errorf("session_secret is required")
	}

	if c.SessionTTLHours <= 0 {
		return fmt.Errorf("session_ttl_hours must be positive")
	}

	// Validate SSL config if provided
	if c.SSLCert != "" || c.SSLKey != "" {
		if c.SSLCert == "" || c.SSLKey == "" {
			return fmt.Errorf("both ssl_cert and ssl_key must be provided")
		}
		if _, err := os.Stat(c.SSLCert); os.IsNotExist(err) {
			return fmt.Errorf("ssl_cert file does not exist: %s", c.SSLCert)
		}
		if _, err := os.Stat(c.SSLKey); os.IsNotExist(err) {
			return fmt.Errorf("ssl_key file does not exist: %s", c.SSLKey)
		}
	}

	return nil
}

func (c *Config) IsDevMode() bool {
	return os.Getenv("MINIBLOG_DEV_MODE") == "1"
}

// SecureCookies reports whether session cookies should carry the Secure
// flag. Enabled whenever the server itself terminates TLS.
func (c *Config) SecureCookies() bool {
	return c.SSLCert != "" && c.SSLKey != ""
}
