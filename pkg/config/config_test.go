package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

const validYAML = `
environment: test
server:
  host: 127.0.0.1
  port: 8081
  read_timeout: 5s
  write_timeout: 5s
  shutdown_timeout: 5s
  cors: true
logger:
  level: debug
  format: json
  output: stdout
prices:
  tick_interval: 2s
ledger:
  start_balance: 10000
  fee_rate: 0.001
  order_history_limit: 20
prediction:
  cache_freshness: 3m
auto_trader:
  enabled: true
  interval: 10s
  stake: 250
  min_confidence: 75
  model: technical
`

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	return path
}

func TestLoad(t *testing.T) {
	cfg, err := Load(writeConfig(t, validYAML))
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Server.Port != 8081 {
		t.Errorf("port = %d", cfg.Server.Port)
	}
	if cfg.Prices.TickInterval != 2*time.Second {
		t.Errorf("tick_interval = %v", cfg.Prices.TickInterval)
	}
	if cfg.Prediction.CacheFreshness != 3*time.Minute {
		t.Errorf("cache_freshness = %v", cfg.Prediction.CacheFreshness)
	}
	if !cfg.AutoTrader.Enabled || cfg.AutoTrader.Model != "technical" {
		t.Errorf("auto_trader = %+v", cfg.AutoTrader)
	}
}

func TestValidateRejectsBadValues(t *testing.T) {
	cases := []struct {
		name   string
		mutate func(*Config)
	}{
		{"missing environment", func(c *Config) { c.Environment = "" }},
		{"zero port", func(c *Config) { c.Server.Port = 0 }},
		{"negative balance", func(c *Config) { c.Ledger.StartBalance = -1 }},
		{"fee rate out of range", func(c *Config) { c.Ledger.FeeRate = 1.5 }},
		{"kafka enabled without brokers", func(c *Config) { c.Kafka.Enabled = true }},
		{"unknown model", func(c *Config) { c.AutoTrader.Model = "oracle" }},
	}
	for _, tc := range cases {
		cfg, err := Load(writeConfig(t, validYAML))
		if err != nil {
			t.Fatalf("%s: Load: %v", tc.name, err)
		}
		tc.mutate(cfg)
		if err := cfg.Validate(); err == nil {
			t.Errorf("%s: Validate accepted invalid config", tc.name)
		}
	}
}

func TestLoadWithEnvOverrides(t *testing.T) {
	t.Setenv("KAFKA_BROKERS", "k1:9092,k2:9092")
	t.Setenv("KAFKA_TOPIC", "orders.test")
	t.Setenv("REDIS_ADDR", "redis:6379")
	t.Setenv("PORT", "9090")

	cfg, err := LoadWithEnv(writeConfig(t, validYAML))
	if err != nil {
		t.Fatalf("LoadWithEnv: %v", err)
	}
	if !cfg.Kafka.Enabled || len(cfg.Kafka.Brokers) != 2 {
		t.Errorf("kafka override not applied: %+v", cfg.Kafka)
	}
	if cfg.Kafka.Topic != "orders.test" {
		t.Errorf("topic = %q", cfg.Kafka.Topic)
	}
	if !cfg.Prediction.Redis.Enabled || cfg.Prediction.Redis.Addr != "redis:6379" {
		t.Errorf("redis override not applied: %+v", cfg.Prediction.Redis)
	}
	if cfg.Server.Port != 9090 {
		t.Errorf("port override not applied: %d", cfg.Server.Port)
	}
}
