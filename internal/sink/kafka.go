package sink

import (
	"bytes"
	"context"
	"encoding/csv"
	"fmt"
	"time"

	"github.com/segmentio/kafka-go"

	"streamcap/internal/config"
	"streamcap/internal/constants"
	"streamcap/internal/logger"
	"streamcap/pkg/metrics"
)

// Kafka publishes matched records to a topic instead of stdout.
type Kafka struct {
	writer *kafka.Writer
	topic  string
	logger logger.Logger
}

func NewKafka(cfg config.KafkaConfig, log logger.Logger) *Kafka {
	w := &kafka.Writer{
		Addr:         kafka.TCP(cfg.Brokers...),
		Balancer:     &kafka.LeastBytes{},
		BatchTimeout: constants.KafkaBatchTimeout,
		WriteTimeout: constants.KafkaWriteTimeout,
		Async:        false,
	}
	return &Kafka{writer: w, topic: cfg.Topic, logger: log}
}

func (k *Kafka) EmitRow(ctx context.Context, row []string) error {
	var buf bytes.Buffer
	w := csv.NewWriter(&buf)
	if err := w.Write(row); err != nil {
		return fmt.Errorf("encode csv row: %w", err)
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return fmt.Errorf("encode csv row: %w", err)
	}
	return k.publish(ctx, bytes.TrimRight(buf.Bytes(), "\n"))
}

func (k *Kafka) EmitRaw(ctx context.Context, raw []byte) error {
	return k.publish(ctx, raw)
}

func (k *Kafka) publish(ctx context.Context, value []byte) error {
	err := k.writer.WriteMessages(ctx,
		kafka.Message{
			Topic: k.topic,
			Value: value,
			Time:  time.Now(),
		},
	)
	if err != nil {
		metrics.SinkEmitFailuresTotal.WithLabelValues(constants.SinkTypeKafka).Inc()
		return fmt.Errorf("failed to write kafka message: %w", err)
	}
	return nil
}

func (k *Kafka) Close() error {
	return k.writer.Close()
}
