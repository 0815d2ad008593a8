package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func validConfig() *Config {
	return &Config{
		Stream:  StreamConfig{URL: "wss://stream.example.com/feed"},
		Sink:    SinkConfig{Type: "stdout"},
		Server:  ServerConfig{Port: 9090},
		Logging: LoggingConfig{Level: "info"},
	}
}

func TestValidateStatic(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr bool
	}{
		{name: "valid", mutate: func(*Config) {}},
		{name: "missing stream url", mutate: func(c *Config) { c.Stream.URL = "" }, wantErr: true},
		{name: "http scheme rejected", mutate: func(c *Config) { c.Stream.URL = "http://example.com" }, wantErr: true},
		{name: "ws scheme accepted", mutate: func(c *Config) { c.Stream.URL = "ws://localhost:8080/feed" }},
		{name: "unknown sink", mutate: func(c *Config) { c.Sink.Type = "s3" }, wantErr: true},
		{name: "kafka sink needs brokers", mutate: func(c *Config) { c.Sink.Type = "kafka" }, wantErr: true},
		{
			name: "kafka sink complete",
			mutate: func(c *Config) {
				c.Sink.Type = "kafka"
				c.Sink.Kafka.Brokers = []string{"localhost:9092"}
				c.Sink.Kafka.Topic = "captured"
			},
		},
		{
			name: "kafka sink needs topic",
			mutate: func(c *Config) {
				c.Sink.Type = "kafka"
				c.Sink.Kafka.Brokers = []string{"localhost:9092"}
			},
			wantErr: true,
		},
		{name: "port out of range", mutate: func(c *Config) { c.Server.Port = 70000 }, wantErr: true},
		{name: "port zero disables server", mutate: func(c *Config) { c.Server.Port = 0 }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := validConfig()
			tt.mutate(cfg)
			err := ValidateStatic(cfg)
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}
