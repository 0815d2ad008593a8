package session

import "time"

// Phase is the session lifecycle state.
type Phase int

const (
	PhaseIdle Phase = iota
	PhaseConnecting
	PhaseStreaming
	PhaseSleeping
	PhaseTerminated
)

func (p Phase) String() string {
	switch p {
	case PhaseIdle:
		return "idle"
	case PhaseConnecting:
		return "connecting"
	case PhaseStreaming:
		return "streaming"
	case PhaseSleeping:
		return "sleeping"
	case PhaseTerminated:
		return "terminated"
	default:
		return "unknown"
	}
}

// State is the mutable record threaded through one streaming session. It is
// owned exclusively by the session loop and the handlers it invokes
// synchronously, so no locking is needed.
type State struct {
	running        bool
	firstMessageAt time.Time
	matchedCount   int
}

func NewState() *State {
	return &State{running: true}
}

func (s *State) Running() bool {
	return s.running
}

// RequestStop flips the running flag; the loop consults it before the next
// read and before sleeping.
func (s *State) RequestStop() {
	s.running = false
}

// MarkFirstMessage records the receipt time of the first message of the
// session. Subsequent calls are no-ops, so the capture window is measured
// from first receipt rather than from process start.
func (s *State) MarkFirstMessage(now time.Time) {
	if s.firstMessageAt.IsZero() {
		s.firstMessageAt = now
	}
}

func (s *State) FirstMessageAt() time.Time {
	return s.firstMessageAt
}

func (s *State) MatchedCount() int {
	return s.matchedCount
}

// IncrementMatched bumps the matched-record counter and returns the new
// value.
func (s *State) IncrementMatched() int {
	s.matchedCount++
	return s.matchedCount
}
