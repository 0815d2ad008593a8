// Package classify categorizes raw stream messages by cheap structural
// tests, without fully decoding them. An ordered recognizer chain pairs each
// predicate with the handler that owns that category; the first match wins.
package classify

import (
	"bytes"
	"context"
)

// Outcome is the tri-state result a handler reports back to the session
// loop.
type Outcome int

const (
	// Continue keeps the session streaming.
	Continue Outcome = iota
	// Stop terminates the session.
	Stop
	// FilteredOut means the message was a valid record that the filter
	// policy excluded from output.
	FilteredOut
)

func (o Outcome) String() string {
	switch o {
	case Continue:
		return "continue"
	case Stop:
		return "stop"
	case FilteredOut:
		return "filtered_out"
	default:
		return "unknown"
	}
}

type HandlerFunc func(ctx context.Context, raw []byte) Outcome

// Predicate is a cheap structural test on the raw, unparsed message text.
type Predicate func(raw []byte) bool

// Recognizer pairs a predicate with the handler for its category.
type Recognizer struct {
	Name   string
	Match  Predicate
	Handle HandlerFunc
}

// Contains matches messages containing the literal substring.
func Contains(substr string) Predicate {
	needle := []byte(substr)
	return func(raw []byte) bool {
		return bytes.Contains(raw, needle)
	}
}

// Any matches every message; it backs the mandatory catch-all recognizer at
// the end of a chain.
func Any() Predicate {
	return func([]byte) bool {
		return true
	}
}

// Chain is an ordered recognizer list evaluated in priority order.
type Chain []Recognizer

// Classify returns the first recognizer whose predicate matches. Chains end
// with a catch-all, so every message is classified exactly once; an empty
// chain degrades to a no-op recognizer rather than failing.
func (c Chain) Classify(raw []byte) Recognizer {
	for _, r := range c {
		if r.Match(raw) {
			return r
		}
	}
	return Recognizer{
		Name:  "none",
		Match: Any(),
		Handle: func(context.Context, []byte) Outcome {
			return Continue
		},
	}
}
