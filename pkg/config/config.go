package config

import (
	"fmt"
	"os"

	"github.com/spf13/viper"
)

// Config represents the application configuration
type Config struct {
	Module     ModuleConfig     `mapstructure:"module"`
	Standalone StandaloneConfig `mapstructure:"standalone"`
	Logging    LoggingConfig    `mapstructure:"logging"`
	Metrics    MetricsConfig    `mapstructure:"metrics"`
	Web        WebConfig        `mapstructure:"web"`
	Database   DatabaseConfig   `mapstructure:"database"`
}

// ModuleConfig holds interface-module settings
type ModuleConfig struct {
	Capacity   int    `mapstructure:"capacity"`     // Registry bound, module ids live in [0, capacity)
	ID         uint32 `mapstructure:"id"`           // Module id of this UE instance
	CCMask     uint32 `mapstructure:"cc_mask"`      // Configured component-carrier mask
	ULSlotMask uint64 `mapstructure:"ul_slot_mask"` // Uplink-capable slots, one bit per slot index
	PhysCellID uint16 `mapstructure:"phys_cell_id"`
}

// StandaloneConfig holds the remote-PHY proxy transport settings
type StandaloneConfig struct {
	Enabled   bool   `mapstructure:"enabled"`
	ProxyAddr string `mapstructure:"proxy_addr"` // Proxy host for both sockets
	TxPort    int    `mapstructure:"tx_port"`    // Proxy port the send socket connects to
	RxPort    int    `mapstructure:"rx_port"`    // Local port the receive socket binds
	PhyID     uint16 `mapstructure:"phy_id"`
}

// LoggingConfig holds logging configuration
type LoggingConfig struct {
	Level      string `mapstructure:"level"`
	File       string `mapstructure:"file"`
	MaxSize    int    `mapstructure:"max_size"`
	MaxBackups int    `mapstructure:"max_backups"`
	MaxAge     int    `mapstructure:"max_age"`
}

// MetricsConfig holds metrics configuration
type MetricsConfig struct {
	Enabled    bool             `mapstructure:"enabled"`
	Prometheus PrometheusConfig `mapstructure:"prometheus"`
}

// PrometheusConfig holds Prometheus metrics configuration
type PrometheusConfig struct {
	Enabled bool   `mapstructure:"enabled"`
	Port    int    `mapstructure:"port"`
	Path    string `mapstructure:"path"`
}

// WebConfig holds the dashboard feed configuration
type WebConfig struct {
	Enabled bool   `mapstructure:"enabled"`
	Host    string `mapstructure:"host"`
	Port    int    `mapstructure:"port"`
}

// DatabaseConfig holds the measurement store configuration
type DatabaseConfig struct {
	Enabled bool   `mapstructure:"enabled"`
	Path    string `mapstructure:"path"`
}

// Load loads configuration from file and environment variables
func Load(configFile string) (*Config, error) {
	// Set defaults
	setDefaults()

	// Set config file
	if configFile != "" {
		viper.SetConfigFile(configFile)
	} else {
		viper.SetConfigName("config")
		viper.SetConfigType("yaml")
		viper.AddConfigPath(".")
		viper.AddConfigPath("./configs")
		viper.AddConfigPath("/etc/nrue-if")
	}

	// Environment variables
	viper.SetEnvPrefix("NRUE")
	viper.AutomaticEnv()

	// Read config file
	if err := viper.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); ok {
			// Config file not found is OK, use defaults
		} else if os.IsNotExist(err) {
			// File explicitly specified but doesn't exist - that's also OK
		} else {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	// Unmarshal to struct
	var config Config
	if err := viper.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	// Validate configuration
	if err := validate(&config); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	return &config, nil
}

// setDefaults sets default configuration values
func setDefaults() {
	// Module defaults
	viper.SetDefault("module.capacity", 100)
	viper.SetDefault("module.id", 0)
	viper.SetDefault("module.cc_mask", 0)
	viper.SetDefault("module.ul_slot_mask", 0x000FF000)
	viper.SetDefault("module.phys_cell_id", 0)

	// Standalone defaults
	viper.SetDefault("standalone.enabled", false)
	viper.SetDefault("standalone.proxy_addr", "127.0.0.1")
	viper.SetDefault("standalone.tx_port", 3611)
	viper.SetDefault("standalone.rx_port", 3612)
	viper.SetDefault("standalone.phy_id", 0)

	// Logging defaults
	viper.SetDefault("logging.level", "info")
	viper.SetDefault("logging.max_size", 100)
	viper.SetDefault("logging.max_backups", 3)
	viper.SetDefault("logging.max_age", 7)

	// Metrics defaults
	viper.SetDefault("metrics.enabled", true)
	viper.SetDefault("metrics.prometheus.enabled", true)
	viper.SetDefault("metrics.prometheus.port", 9090)
	viper.SetDefault("metrics.prometheus.path", "/metrics")

	// Web defaults
	viper.SetDefault("web.enabled", true)
	viper.SetDefault("web.host", "0.0.0.0")
	viper.SetDefault("web.port", 8080)

	// Database defaults
	viper.SetDefault("database.enabled", false)
	viper.SetDefault("database.path", "nrue-if.db")
}
