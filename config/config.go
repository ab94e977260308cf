package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"github.com/spf13/viper"
)

type KafkaConfig struct {
	Enabled bool
	Brokers []string
	Topic   string
}

type Config struct {
	HTTPAddr string

	// TickSize is the instrument's minimum price increment.
	TickSize decimal.Decimal

	Kafka KafkaConfig

	OutboxDir         string
	BroadcastInterval time.Duration
}

// Load reads matchbook.yaml if present, then applies MATCHBOOK_* env
// overrides on top of the defaults.
func Load() (*Config, error) {
	v := viper.New()

	v.SetDefault("http_addr", ":8080")
	v.SetDefault("tick_size", "0.01")
	v.SetDefault("kafka.enabled", false)
	v.SetDefault("kafka.brokers", []string{"localhost:9092"})
	v.SetDefault("kafka.topic", "matchbook.trades")
	v.SetDefault("outbox_dir", "./outbox")
	v.SetDefault("broadcast_interval", "250ms")

	v.SetConfigName("matchbook")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")

	v.SetEnvPrefix("MATCHBOOK")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("read config: %w", err)
		}
	}

	tick, err := decimal.NewFromString(v.GetString("tick_size"))
	if err != nil {
		return nil, fmt.Errorf("parse tick_size: %w", err)
	}
	if tick.Sign() <= 0 {
		return nil, fmt.Errorf("tick_size must be positive, got %s", tick)
	}

	return &Config{
		HTTPAddr: v.GetString("http_addr"),
		TickSize: tick,
		Kafka: KafkaConfig{
			Enabled: v.GetBool("kafka.enabled"),
			Brokers: v.GetStringSlice("kafka.brokers"),
			Topic:   v.GetString("kafka.topic"),
		},
		OutboxDir:         v.GetString("outbox_dir"),
		BroadcastInterval: v.GetDuration("broadcast_interval"),
	}, nil
}
