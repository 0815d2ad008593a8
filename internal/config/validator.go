package config

import (
	"fmt"
	"net/url"

	"streamcap/internal/constants"
)

type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("validation error for field '%s': %s", e.Field, e.Message)
}

func ValidateStatic(cfg *Config) error {
	var errors []error

	if err := validateStream(cfg.Stream); err != nil {
		errors = append(errors, err)
	}

	if err := validateSink(cfg.Sink); err != nil {
		errors = append(errors, err)
	}

	if err := validateServer(cfg.Server); err != nil {
		errors = append(errors, err)
	}

	if len(errors) > 0 {
		return fmt.Errorf("configuration validation failed: %v", errors)
	}

	return nil
}

func validateStream(cfg StreamConfig) error {
	if cfg.URL == "" {
		return &ValidationError{
			Field:   "stream.url",
			Message: "stream endpoint URL is required",
		}
	}

	u, err := url.Parse(cfg.URL)
	if err != nil {
		return &ValidationError{
			Field:   "stream.url",
			Message: fmt.Sprintf("malformed URL: %v", err),
		}
	}

	if u.Scheme != "ws" && u.Scheme != "wss" {
		return &ValidationError{
			Field:   "stream.url",
			Message: fmt.Sprintf("scheme must be ws or wss, got %q", u.Scheme),
		}
	}

	if cfg.HandshakeTimeout < 0 {
		return &ValidationError{
			Field:   "stream.handshake_timeout",
			Message: "handshake timeout must be non-negative",
		}
	}

	return nil
}

func validateSink(cfg SinkConfig) error {
	switch cfg.Type {
	case "", constants.SinkTypeStdout:
		return nil
	case constants.SinkTypeKafka:
		return validateKafka(cfg.Kafka)
	default:
		return &ValidationError{
			Field:   "sink.type",
			Message: fmt.Sprintf("unknown sink type: %s (supported: stdout, kafka)", cfg.Type),
		}
	}
}

func validateKafka(cfg KafkaConfig) error {
	if len(cfg.Brokers) == 0 {
		return &ValidationError{
			Field:   "sink.kafka.brokers",
			Message: "at least one Kafka broker is required",
		}
	}

	for i, broker := range cfg.Brokers {
		if broker == "" {
			return &ValidationError{
				Field:   fmt.Sprintf("sink.kafka.brokers[%d]", i),
				Message: "broker address cannot be empty",
			}
		}
	}

	if cfg.Topic == "" {
		return &ValidationError{
			Field:   "sink.kafka.topic",
			Message: "Kafka topic is required",
		}
	}

	return nil
}

func validateServer(cfg ServerConfig) error {
	if cfg.Port < 0 || cfg.Port > 65535 {
		return &ValidationError{
			Field:   "server.port",
			Message: fmt.Sprintf("port must be between 0 and 65535, got %d", cfg.Port),
		}
	}

	return nil
}
