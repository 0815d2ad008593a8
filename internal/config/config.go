package config

import (
	"time"
)

type Config struct {
	Stream  StreamConfig
	Geo     GeoConfig
	Sink    SinkConfig
	Server  ServerConfig
	Logging LoggingConfig
}

type StreamConfig struct {
	URL              string        `mapstructure:"url"`
	HandshakeTimeout time.Duration `mapstructure:"handshake_timeout"`
}

type GeoConfig struct {
	SearchURL string        `mapstructure:"search_url"`
	Timeout   time.Duration `mapstructure:"timeout"`
	Breaker   BreakerConfig `mapstructure:"breaker"`
}

type BreakerConfig struct {
	MaxRequests uint32        `mapstructure:"max_requests"`
	Interval    time.Duration `mapstructure:"interval"`
	Timeout     time.Duration `mapstructure:"timeout"`
}

type SinkConfig struct {
	Type  string      `mapstructure:"type"`
	Kafka KafkaConfig `mapstructure:"kafka"`
}

type KafkaConfig struct {
	Brokers []string `mapstructure:"brokers"`
	Topic   string   `mapstructure:"topic"`
}

// ServerConfig drives the optional diagnostics HTTP endpoint
// (/health, /metrics). Port 0 disables it.
type ServerConfig struct {
	Port int `mapstructure:"port"`
}

type LoggingConfig struct {
	Level string `mapstructure:"level"`
}

func Load(configFile string) (*Config, error) {
	return LoadConfig(configFile)
}
