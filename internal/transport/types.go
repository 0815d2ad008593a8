// Package transport abstracts the long-lived streaming connection that
// delivers newline-delimited JSON messages. The session loop treats it as a
// black box producing raw message bytes and connection-lifecycle errors.
package transport

import (
	"context"
	"fmt"
)

// Params are the subscription parameters for one connection attempt.
type Params struct {
	// Track is the list of keywords to follow.
	Track []string
	// Locations is a flat list of bounding-box coordinates, a multiple of
	// four (west, south, east, north).
	Locations []float64
	// Languages optionally narrows the stream server-side.
	Languages []string
	// StallWarnings asks the endpoint to emit stall warnings. Endpoints
	// that do not support the option reject the connection with
	// UnsupportedOptionError.
	StallWarnings bool
}

// Stream is one open connection. Next blocks until a message arrives; it
// returns io.EOF when the endpoint ends the stream normally.
type Stream interface {
	Next(ctx context.Context) ([]byte, error)
	Close() error
}

type Transport interface {
	Open(ctx context.Context, params Params) (Stream, error)
}

// UnsupportedOptionError reports a subscription option the endpoint
// rejected. The session loop retries the same attempt once with the option
// disabled instead of entering a back-off cycle.
type UnsupportedOptionError struct {
	Option string
}

func (e *UnsupportedOptionError) Error() string {
	return fmt.Sprintf("endpoint does not support option %q", e.Option)
}
