package config

import (
	"strings"
	"testing"
	"time"
)

func validConfig() *Config {
	return &Config{
		Port:            "8081",
		SQLiteDBPath:    "./data/tempo.db",
		AMQPExchange:    "tempo",
		AMQPQueue:       "entry_committed",
		SummaryInterval: 24 * time.Hour,
		RollupInterval:  5 * time.Minute,
	}
}

func TestLoadDefaults(t *testing.T) {
	for _, key := range []string{"PORT", "SQLITE_DB_PATH", "AMQP_URL", "SUMMARY_INTERVAL", "ROLLUP_INTERVAL"} {
		t.Setenv(key, "")
	}

	cfg := Load()
	if cfg.Port != "8081" {
		t.Errorf("Port = %s, want 8081", cfg.Port)
	}
	if cfg.SummaryInterval != 24*time.Hour {
		t.Errorf("SummaryInterval = %v, want 24h", cfg.SummaryInterval)
	}
	if cfg.RollupInterval != 5*time.Minute {
		t.Errorf("RollupInterval = %v, want 5m", cfg.RollupInterval)
	}
	if cfg.AMQPURL != "" {
		t.Errorf("AMQPURL = %s, want empty", cfg.AMQPURL)
	}
}

func TestLoadEnvOverrides(t *testing.T) {
	t.Setenv("PORT", "9090")
	t.Setenv("SUMMARY_INTERVAL", "1h")

	cfg := Load()
	if cfg.Port != "9090" {
		t.Errorf("Port = %s, want 9090", cfg.Port)
	}
	if cfg.SummaryInterval != time.Hour {
		t.Errorf("SummaryInterval = %v, want 1h", cfg.SummaryInterval)
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr string
	}{
		{"valid", func(c *Config) {}, ""},
		{"bad port", func(c *Config) { c.Port = "abc" }, "invalid port"},
		{"port out of range", func(c *Config) { c.Port = "70000" }, "invalid port"},
		{"empty db path", func(c *Config) { c.SQLiteDBPath = "" }, "database path"},
		{"bad amqp scheme", func(c *Config) { c.AMQPURL = "http://localhost" }, "AMQP URL scheme"},
		{"amqp without queue", func(c *Config) {
			c.AMQPURL = "amqp://localhost"
			c.AMQPQueue = ""
		}, "queue name"},
		{"summary interval too small", func(c *Config) { c.SummaryInterval = time.Second }, "summary interval"},
		{"rollup interval too large", func(c *Config) { c.RollupInterval = 48 * time.Hour }, "rollup interval"},
		{"sheet name missing", func(c *Config) {
			c.GoogleSpreadsheetID = "sheet-id"
			c.GoogleSummarySheet = ""
		}, "summary sheet name"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := validConfig()
			cfg.SQLiteDBPath = t.TempDir() + "/tempo.db"
			tt.mutate(cfg)

			err := cfg.Validate()
			if tt.wantErr == "" {
				if err != nil {
					t.Errorf("Validate() = %v, want nil", err)
				}
				return
			}
			if err == nil || !strings.Contains(err.Error(), tt.wantErr) {
				t.Errorf("Validate() = %v, want error containing %q", err, tt.wantErr)
			}
		})
	}
}
