// Package session owns the connection lifecycle of one capture run: it
// opens the stream, feeds raw messages through the classifier chain, and on
// recoverable failures sleeps and reconnects until a stop is requested.
package session

import (
	"context"
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/cenkalti/backoff/v4"
	"github.com/google/uuid"

	"streamcap/internal/classify"
	"streamcap/internal/constants"
	"streamcap/internal/logger"
	"streamcap/internal/policy"
	"streamcap/internal/transport"
	pkgerrors "streamcap/pkg/errors"
	"streamcap/pkg/metrics"
	"streamcap/pkg/retry"
)

// Config tunes one session loop.
type Config struct {
	// TerminateOnError makes recoverable transport failures fatal.
	TerminateOnError bool
	// Backoff is the sleep between reconnect attempts; defaults to the
	// fixed 5-second interval.
	Backoff time.Duration
	// Stop is consulted on every incoming message and by the status
	// handler on every matched record.
	Stop policy.StopPolicy
}

// Loop drives one streaming session through
// Idle -> Connecting -> Streaming -> (Sleeping -> Connecting)* -> Terminated.
type Loop struct {
	id        string
	transport transport.Transport
	chain     classify.Chain
	state     *State
	cfg       Config
	logger    logger.Logger
	phase     Phase
	now       func() time.Time
}

func New(t transport.Transport, chain classify.Chain, state *State, cfg Config, log logger.Logger) *Loop {
	if cfg.Backoff <= 0 {
		cfg.Backoff = constants.ReconnectBackoff
	}
	return &Loop{
		id:        uuid.NewString(),
		transport: t,
		chain:     chain,
		state:     state,
		cfg:       cfg,
		logger:    log,
		phase:     PhaseIdle,
		now:       time.Now,
	}
}

func (l *Loop) ID() string {
	return l.id
}

func (l *Loop) Phase() Phase {
	return l.phase
}

// Run executes the session until it terminates. A context cancellation is
// an operator interrupt and produces a clean stop, not an error.
func (l *Loop) Run(ctx context.Context, params transport.Params) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = pkgerrors.RecoverPanic(r)
			l.logger.Errorw("unexpected failure in session loop",
				"error", err,
				"session_id", l.id,
			)
			l.state.RequestStop()
		}
		l.setPhase(PhaseTerminated)
		l.logger.Infow("session terminated",
			"session_id", l.id,
			"matched_records", l.state.MatchedCount(),
		)
	}()

	bo := retry.Constant(l.cfg.Backoff)

	for l.state.Running() {
		if ctx.Err() != nil {
			l.state.RequestStop()
			break
		}

		l.setPhase(PhaseConnecting)
		stream, openErr := l.transport.Open(ctx, params)
		if openErr != nil {
			var unsupported *transport.UnsupportedOptionError
			if errors.As(openErr, &unsupported) && params.StallWarnings {
				// Downgrade and retry the same attempt, no back-off cycle.
				l.logger.Warnw("endpoint rejected option, retrying without it",
					"option", unsupported.Option,
					"session_id", l.id,
				)
				params.StallWarnings = false
				continue
			}

			if l.cfg.TerminateOnError {
				l.state.RequestStop()
				return fmt.Errorf("connect: %w", openErr)
			}

			l.logger.Errorw("connect failed",
				"error", openErr,
				"session_id", l.id,
			)
			if !l.sleep(ctx, bo) {
				l.state.RequestStop()
			}
			continue
		}

		l.setPhase(PhaseStreaming)
		l.logger.Infow("streaming",
			"session_id", l.id,
			"track", params.Track,
			"locations", params.Locations,
		)

		readErr := l.consume(ctx, stream)
		stream.Close()

		if readErr != nil {
			if ctx.Err() != nil {
				l.logger.Infow("interrupt received, shutting down", "session_id", l.id)
				l.state.RequestStop()
				break
			}
			if l.cfg.TerminateOnError {
				l.state.RequestStop()
				return fmt.Errorf("stream read: %w", readErr)
			}
			l.logger.Errorw("stream error",
				"error", readErr,
				"session_id", l.id,
			)
		}

		if l.state.Running() {
			metrics.ReconnectsTotal.Inc()
			if !l.sleep(ctx, bo) {
				l.state.RequestStop()
			}
		}
	}

	return nil
}

// consume feeds messages from one open stream through the classifier chain
// until the stream ends, an error occurs, or a stop is requested. A nil
// return with running still true means the endpoint ended the stream
// normally and a reconnect is due.
func (l *Loop) consume(ctx context.Context, stream transport.Stream) error {
	for l.state.Running() {
		raw, err := stream.Next(ctx)
		if err != nil {
			if errors.Is(err, io.EOF) {
				l.logger.Debugw("stream ended", "session_id", l.id)
				return nil
			}
			return err
		}

		l.state.MarkFirstMessage(l.now())

		// Entry stop-check, independent of what the message turns out to be.
		if l.cfg.Stop.ShouldStop(l.state.FirstMessageAt(), l.state.MatchedCount(), l.now()) {
			l.logger.Debugw("stop requested by policy",
				"session_id", l.id,
				"elapsed", l.now().Sub(l.state.FirstMessageAt()).String(),
				"matched_records", l.state.MatchedCount(),
			)
			l.state.RequestStop()
			return nil
		}

		recognizer := l.chain.Classify(raw)
		metrics.MessagesTotal.WithLabelValues(recognizer.Name).Inc()

		switch recognizer.Handle(ctx, raw) {
		case classify.Stop:
			l.state.RequestStop()
			return nil
		case classify.FilteredOut:
			metrics.RecordsFilteredTotal.Inc()
		}
	}
	return nil
}

// sleep blocks for the back-off interval; false means the context ended
// first.
func (l *Loop) sleep(ctx context.Context, bo backoff.BackOff) bool {
	l.setPhase(PhaseSleeping)
	l.logger.Debugw("sleeping before reconnect", "session_id", l.id)

	timer := time.NewTimer(bo.NextBackOff())
	defer timer.Stop()

	select {
	case <-ctx.Done():
		return false
	case <-timer.C:
		return true
	}
}

func (l *Loop) setPhase(p Phase) {
	l.phase = p
	metrics.SessionPhase.Set(float64(p))
}
