package config

import (
	"fmt"
)

// validate validates the configuration
func validate(cfg *Config) error {
	// Validate module config
	if cfg.Module.Capacity <= 0 {
		return fmt.Errorf("module.capacity must be positive")
	}
	if cfg.Module.Capacity > 1024 {
		return fmt.Errorf("module.capacity must not exceed 1024")
	}
	if int(cfg.Module.ID) >= cfg.Module.Capacity {
		return fmt.Errorf("module.id %d out of range (capacity %d)", cfg.Module.ID, cfg.Module.Capacity)
	}

	// Validate standalone config
	if cfg.Standalone.Enabled {
		if cfg.Standalone.ProxyAddr == "" {
			return fmt.Errorf("standalone.proxy_addr is required when standalone is enabled")
		}
		if cfg.Standalone.TxPort <= 0 || cfg.Standalone.TxPort > 65535 {
			return fmt.Errorf("standalone.tx_port must be between 1 and 65535")
		}
		if cfg.Standalone.RxPort <= 0 || cfg.Standalone.RxPort > 65535 {
			return fmt.Errorf("standalone.rx_port must be between 1 and 65535")
		}
		if cfg.Standalone.TxPort == cfg.Standalone.RxPort {
			return fmt.Errorf("standalone.tx_port and standalone.rx_port must differ")
		}
	}

	// Validate metrics config
	if cfg.Metrics.Enabled && cfg.Metrics.Prometheus.Enabled {
		if cfg.Metrics.Prometheus.Port <= 0 || cfg.Metrics.Prometheus.Port > 65535 {
			return fmt.Errorf("metrics.prometheus.port must be between 1 and 65535")
		}
	}

	// Validate web config
	if cfg.Web.Enabled {
		if cfg.Web.Port <= 0 || cfg.Web.Port > 65535 {
			return fmt.Errorf("web.port must be between 1 and 65535")
		}
	}

	// Validate database config
	if cfg.Database.Enabled && cfg.Database.Path == "" {
		return fmt.Errorf("database.path is required when database is enabled")
	}

	return nil
}
