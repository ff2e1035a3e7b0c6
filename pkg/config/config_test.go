package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	if err != nil {
		t.Fatalf("Load with missing file failed: %v", err)
	}

	if cfg.Module.Capacity != 100 {
		t.Errorf("Expected default capacity 100, got %d", cfg.Module.Capacity)
	}
	if cfg.Standalone.Enabled {
		t.Error("Expected standalone disabled by default")
	}
	if cfg.Standalone.TxPort != 3611 || cfg.Standalone.RxPort != 3612 {
		t.Errorf("Unexpected default ports: tx %d rx %d", cfg.Standalone.TxPort, cfg.Standalone.RxPort)
	}
	if cfg.Logging.Level != "info" {
		t.Errorf("Expected default log level info, got %s", cfg.Logging.Level)
	}
}

func TestLoad_FromFile(t *testing.T) {
	content := `
module:
  capacity: 16
  id: 3
standalone:
  enabled: true
  proxy_addr: 192.168.1.50
  tx_port: 4000
  rx_port: 4001
logging:
  level: debug
`
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("Failed to write config: %v", err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	if cfg.Module.Capacity != 16 || cfg.Module.ID != 3 {
		t.Errorf("Module config not applied: %+v", cfg.Module)
	}
	if !cfg.Standalone.Enabled || cfg.Standalone.ProxyAddr != "192.168.1.50" {
		t.Errorf("Standalone config not applied: %+v", cfg.Standalone)
	}
	if cfg.Logging.Level != "debug" {
		t.Errorf("Expected log level debug, got %s", cfg.Logging.Level)
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr bool
	}{
		{"Valid defaults", func(c *Config) {}, false},
		{"Zero capacity", func(c *Config) { c.Module.Capacity = 0 }, true},
		{"Capacity too large", func(c *Config) { c.Module.Capacity = 2048 }, true},
		{"Module id at capacity", func(c *Config) { c.Module.ID = 100 }, true},
		{"Standalone without proxy addr", func(c *Config) {
			c.Standalone.Enabled = true
			c.Standalone.ProxyAddr = ""
		}, true},
		{"Standalone with equal ports", func(c *Config) {
			c.Standalone.Enabled = true
			c.Standalone.RxPort = c.Standalone.TxPort
		}, true},
		{"Bad web port", func(c *Config) { c.Web.Port = 70000 }, true},
		{"Database without path", func(c *Config) {
			c.Database.Enabled = true
			c.Database.Path = ""
		}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := &Config{
				Module:     ModuleConfig{Capacity: 100},
				Standalone: StandaloneConfig{ProxyAddr: "127.0.0.1", TxPort: 3611, RxPort: 3612},
				Metrics:    MetricsConfig{Enabled: true, Prometheus: PrometheusConfig{Enabled: true, Port: 9090}},
				Web:        WebConfig{Enabled: true, Port: 8080},
				Database:   DatabaseConfig{Path: "test.db"},
			}
			tt.mutate(cfg)

			err := validate(cfg)
			if (err != nil) != tt.wantErr {
				t.Errorf("validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}
