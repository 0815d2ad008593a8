// Package sink owns the primary output channel of the pipeline: matched
// records leave through a Sink, diagnostics never do.
package sink

import (
	"context"
	"fmt"
	"os"

	"streamcap/internal/config"
	"streamcap/internal/constants"
	"streamcap/internal/logger"
)

type Sink interface {
	// EmitRow writes one CSV row of extracted field values.
	EmitRow(ctx context.Context, row []string) error
	// EmitRaw writes the raw message text verbatim.
	EmitRaw(ctx context.Context, raw []byte) error
	Close() error
}

func New(cfg config.SinkConfig, log logger.Logger) (Sink, error) {
	switch cfg.Type {
	case "", constants.SinkTypeStdout:
		return NewStdout(os.Stdout), nil
	case constants.SinkTypeKafka:
		return NewKafka(cfg.Kafka, log), nil
	default:
		return nil, fmt.Errorf("unknown sink type: %s", cfg.Type)
	}
}
