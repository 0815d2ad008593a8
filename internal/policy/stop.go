// Package policy holds the two per-record decisions of a capture session:
// whether a record is emitted (filter) and whether the session ends (stop).
package policy

import "time"

// StopPolicy ends a session once a wall-clock or record-count budget is
// spent. Zero values disable the corresponding limit; with both disabled the
// session runs until an external signal or transport failure.
type StopPolicy struct {
	// MaxDuration bounds elapsed time since the first received message.
	MaxDuration time.Duration
	// MaxRecords bounds the number of matched records.
	MaxRecords int
}

func (p StopPolicy) Enabled() bool {
	return p.MaxDuration > 0 || p.MaxRecords > 0
}

// ShouldStop evaluates both limits. The duration limit only engages once the
// first message has been received; the count limit triggers strictly after
// MaxRecords matched records.
func (p StopPolicy) ShouldStop(firstMessageAt time.Time, matchedCount int, now time.Time) bool {
	if p.MaxDuration > 0 && !firstMessageAt.IsZero() {
		if now.Sub(firstMessageAt) >= p.MaxDuration {
			return true
		}
	}
	if p.MaxRecords > 0 && matchedCount > p.MaxRecords {
		return true
	}
	return false
}
