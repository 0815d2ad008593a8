package constants

import "time"

const (
	// ReconnectBackoff is the fixed sleep between reconnect attempts after a
	// recoverable transport failure.
	ReconnectBackoff = 5 * time.Second
)

const (
	// MaxAliasDepth bounds recursive location alias indirection; deeper
	// chains are treated as configuration cycles.
	MaxAliasDepth = 10
)

const (
	// MissingFieldValue substitutes for a configured extraction path that
	// does not resolve on a record.
	MissingFieldValue = ""
)

const (
	// CreatedAtLayout is the timestamp format embedded in status records.
	CreatedAtLayout = "Mon Jan 02 15:04:05 -0700 2006"
)

const (
	DefaultHTTPTimeout = 10 * time.Second
	ShutdownTimeout    = 5 * time.Second
)

const (
	KafkaBatchTimeout = 10 * time.Millisecond
	KafkaWriteTimeout = 10 * time.Second
)

const (
	SinkTypeStdout = "stdout"
	SinkTypeKafka  = "kafka"
)

const (
	// LagWarningInterval throttles lag diagnostics on persistently lagging
	// streams.
	LagWarningInterval = 10 * time.Second
)

const (
	DefaultTruncateLen = 100
)
