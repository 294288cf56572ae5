package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

type Config struct {
	Environment string `yaml:"environment"`
	Server      struct {
		Host            string        `yaml:"host"`
		Port            int           `yaml:"port"`
		ReadTimeout     time.Duration `yaml:"read_timeout"`
		WriteTimeout    time.Duration `yaml:"write_timeout"`
		ShutdownTimeout time.Duration `yaml:"shutdown_timeout"`
		CORS            bool          `yaml:"cors"`
	} `yaml:"server"`
	Logger struct {
		Level  string `yaml:"level"`
		Format string `yaml:"format"`
		Output string `yaml:"output"`
	} `yaml:"logger"`
	Prices struct {
		TickInterval time.Duration `yaml:"tick_interval"`
		Seed         int64         `yaml:"seed"`
	} `yaml:"prices"`
	Ledger struct {
		StartBalance      float64 `yaml:"start_balance"`
		FeeRate           float64 `yaml:"fee_rate"`
		OrderHistoryLimit int     `yaml:"order_history_limit"`
	} `yaml:"ledger"`
	Prediction struct {
		CacheFreshness time.Duration `yaml:"cache_freshness"`
		Redis          struct {
			Enabled  bool   `yaml:"enabled"`
			Addr     string `yaml:"addr"`
			Password string `yaml:"password"`
			DB       int    `yaml:"db"`
			Prefix   string `yaml:"prefix"`
		} `yaml:"redis"`
	} `yaml:"prediction"`
	Kafka struct {
		Enabled      bool     `yaml:"enabled"`
		Brokers      []string `yaml:"brokers"`
		Topic        string   `yaml:"topic"`
		RequiredAcks int      `yaml:"required_acks"`
		Compression  string   `yaml:"compression"`
		MaxAttempts  int      `yaml:"max_attempts"`
		Async        bool     `yaml:"async"`
	} `yaml:"kafka"`
	AutoTrader struct {
		Enabled       bool          `yaml:"enabled"`
		Interval      time.Duration `yaml:"interval"`
		Stake         float64       `yaml:"stake"`
		MinConfidence int           `yaml:"min_confidence"`
		Model         string        `yaml:"model"`
	} `yaml:"auto_trader"`
}

// Load reads and parses a YAML configuration file.
func Load(path string) (*Config, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}

	var c Config
	if err := yaml.Unmarshal(b, &c); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}

	if err := c.Validate(); err != nil {
		return nil, fmt.Errorf("validate config: %w", err)
	}

	return &c, nil
}

// LoadWithEnv loads config from YAML and overrides with environment variables.
func LoadWithEnv(path string) (*Config, error) {
	c, err := Load(path)
	if err != nil {
		return nil, err
	}

	if v := os.Getenv("PORT"); v != "" {
		if p, err := strconv.Atoi(v); err == nil {
			c.Server.Port = p
		}
	}
	if v := os.Getenv("KAFKA_BROKERS"); v != "" {
		c.Kafka.Enabled = true
		c.Kafka.Brokers = strings.Split(v, ",")
	}
	if v := os.Getenv("KAFKA_TOPIC"); v != "" {
		c.Kafka.Topic = v
	}
	if v := os.Getenv("REDIS_ADDR"); v != "" {
		c.Prediction.Redis.Enabled = true
		c.Prediction.Redis.Addr = v
	}
	if v := os.Getenv("AUTO_TRADER"); v != "" {
		c.AutoTrader.Enabled = v == "1" || strings.EqualFold(v, "true")
	}

	return c, nil
}

// Validate checks if the configuration is valid.
func (c *Config) Validate() error {
	if c.Environment == "" {
		return fmt.Errorf("environment is required")
	}
	if c.Server.Port <= 0 || c.Server.Port > 65535 {
		return fmt.Errorf("server.port must be in 1..65535, got %d", c.Server.Port)
	}
	if c.Ledger.StartBalance <= 0 {
		return fmt.Errorf("ledger.start_balance must be positive")
	}
	if c.Ledger.FeeRate < 0 || c.Ledger.FeeRate >= 1 {
		return fmt.Errorf("ledger.fee_rate must be in [0,1), got %v", c.Ledger.FeeRate)
	}
	if c.Kafka.Enabled && len(c.Kafka.Brokers) == 0 {
		return fmt.Errorf("kafka.brokers cannot be empty when kafka is enabled")
	}
	if c.Kafka.Enabled && c.Kafka.Topic == "" {
		return fmt.Errorf("kafka.topic is required when kafka is enabled")
	}
	if c.Prediction.Redis.Enabled && c.Prediction.Redis.Addr == "" {
		return fmt.Errorf("prediction.redis.addr is required when redis is enabled")
	}
	switch c.AutoTrader.Model {
	case "", "technical", "ml", "ensemble":
	default:
		return fmt.Errorf("auto_trader.model must be technical, ml, or ensemble, got %q", c.AutoTrader.Model)
	}
	return nil
}
