package config

import (
	"fmt"
	"strings"

	"github.com/spf13/viper"
)

func LoadConfig(configFile string) (*Config, error) {
	viper.Reset()

	viper.SetConfigType("yaml")
	viper.SetConfigFile(configFile)

	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AutomaticEnv()

	bindEnvVariables()

	if err := viper.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("failed to read config file %s: %w", configFile, err)
	}

	var cfg Config
	if err := viper.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	if err := applyEnvOverrides(&cfg); err != nil {
		return nil, fmt.Errorf("failed to apply environment overrides: %w", err)
	}

	if err := ValidateStatic(&cfg); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	return &cfg, nil
}

func bindEnvVariables() {
	viper.BindEnv("stream.url", "STREAM_URL")
	viper.BindEnv("stream.handshake_timeout", "STREAM_HANDSHAKE_TIMEOUT")

	viper.BindEnv("geo.search_url", "GEO_SEARCH_URL")
	viper.BindEnv("geo.timeout", "GEO_TIMEOUT")

	viper.BindEnv("sink.type", "SINK_TYPE")
	viper.BindEnv("sink.kafka.brokers", "SINK_KAFKA_BROKERS")
	viper.BindEnv("sink.kafka.topic", "SINK_KAFKA_TOPIC")

	viper.BindEnv("server.port", "SERVER_PORT")

	viper.BindEnv("logging.level", "LOGGING_LEVEL")
}

func applyEnvOverrides(cfg *Config) error {
	if brokersEnv := viper.GetString("SINK_KAFKA_BROKERS"); brokersEnv != "" {
		brokers := strings.Split(brokersEnv, ",")
		for i := range brokers {
			brokers[i] = strings.TrimSpace(brokers[i])
		}
		if len(brokers) > 0 && brokers[0] != "" {
			cfg.Sink.Kafka.Brokers = brokers
		}
	}

	return nil
}
