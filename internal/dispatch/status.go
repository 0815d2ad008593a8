package dispatch

import (
	"bytes"
	"context"
	"time"

	"golang.org/x/time/rate"

	"streamcap/internal/classify"
	"streamcap/internal/constants"
	"streamcap/internal/logger"
	"streamcap/internal/policy"
	"streamcap/internal/session"
	"streamcap/internal/sink"
	"streamcap/pkg/fieldpath"
	"streamcap/pkg/metrics"
)

// StatusConfig wires a StatusHandler.
type StatusConfig struct {
	Filter *policy.FilterPolicy
	Stop   policy.StopPolicy
	State  *session.State
	Sink   sink.Sink
	// Fields is the list of dotted paths extracted per matched record.
	// Empty means the raw message is emitted verbatim. Duplicate paths are
	// allowed and emit one column per occurrence.
	Fields []string
	// TerminateOnError escalates an unresolvable field path to a session
	// stop instead of substituting the missing-value marker.
	TerminateOnError bool
	// ReportLag enables lag diagnostics when > 0.
	ReportLag time.Duration
	Logger    logger.Logger
	// Now is injectable for tests; defaults to time.Now.
	Now func() time.Time
}

// StatusHandler processes status records: filter, stop-check, extract, emit.
type StatusHandler struct {
	cfg        StatusConfig
	lagLimiter *rate.Limiter
	now        func() time.Time
}

func NewStatusHandler(cfg StatusConfig) *StatusHandler {
	now := cfg.Now
	if now == nil {
		now = time.Now
	}
	return &StatusHandler{
		cfg:        cfg,
		lagLimiter: rate.NewLimiter(rate.Every(constants.LagWarningInterval), 1),
		now:        now,
	}
}

func (h *StatusHandler) Handle(ctx context.Context, raw []byte) classify.Outcome {
	record, err := ParseRecord(raw)
	if err != nil {
		metrics.ParseFailuresTotal.WithLabelValues("status").Inc()
		h.cfg.Logger.Errorw("failed to decode status message",
			"error", err,
			"excerpt", excerpt(raw),
		)
		return classify.Continue
	}

	outcome := classify.FilteredOut

	matched, err := h.cfg.Filter.Match(ctx, record)
	if err != nil {
		h.cfg.Logger.Errorw("filter evaluation failed, excluding record",
			"error", err,
			"id", record.IDStr(),
		)
		matched = false
	}

	if matched {
		h.cfg.State.IncrementMatched()
		if h.cfg.Stop.ShouldStop(h.cfg.State.FirstMessageAt(), h.cfg.State.MatchedCount(), h.now()) {
			// The record that trips the limit is not emitted.
			h.cfg.State.RequestStop()
			outcome = classify.Stop
		} else {
			outcome = h.emit(ctx, record, raw)
		}
	}

	// The lag check runs once per status, independent of filter outcome.
	h.checkLag(record)

	return outcome
}

func (h *StatusHandler) emit(ctx context.Context, record Record, raw []byte) classify.Outcome {
	if len(h.cfg.Fields) == 0 {
		if err := h.cfg.Sink.EmitRaw(ctx, bytes.TrimSpace(raw)); err != nil {
			h.cfg.Logger.Errorw("failed to emit raw record", "error", err, "id", record.IDStr())
			return classify.Continue
		}
		metrics.RecordsEmittedTotal.Inc()
		return classify.Continue
	}

	row := make([]string, 0, len(h.cfg.Fields))
	for _, field := range h.cfg.Fields {
		value, err := fieldpath.Resolve(record, field)
		if err != nil {
			if h.cfg.TerminateOnError {
				h.cfg.Logger.Errorw("field not found in record, terminating",
					"field", field,
					"id", record.IDStr(),
				)
				h.cfg.State.RequestStop()
				return classify.Stop
			}
			row = append(row, constants.MissingFieldValue)
			continue
		}

		text, err := fieldpath.Text(value)
		if err != nil {
			// Dropped, not re-raised: one bad value loses the record, not
			// the session.
			h.cfg.Logger.Warnw("dropping record: field value not representable",
				"field", field,
				"error", err,
				"id", record.IDStr(),
			)
			return classify.Continue
		}
		row = append(row, text)
	}

	if err := h.cfg.Sink.EmitRow(ctx, row); err != nil {
		h.cfg.Logger.Errorw("failed to emit record", "error", err, "id", record.IDStr())
		return classify.Continue
	}
	metrics.RecordsEmittedTotal.Inc()
	return classify.Continue
}

func (h *StatusHandler) checkLag(record Record) {
	if h.cfg.ReportLag <= 0 {
		return
	}

	createdAt, err := record.CreatedAt()
	if err != nil {
		h.cfg.Logger.Debugw("lag check skipped", "error", err)
		return
	}

	delta := h.now().UTC().Sub(createdAt)
	if delta < 0 {
		delta = -delta
	}
	if delta > h.cfg.ReportLag {
		metrics.LagReportsTotal.Inc()
		if h.lagLimiter.Allow() {
			h.cfg.Logger.Warnw("record time and local time differ",
				"lag_seconds", int64(delta.Seconds()),
				"threshold_seconds", int64(h.cfg.ReportLag.Seconds()),
			)
		}
	}
}
