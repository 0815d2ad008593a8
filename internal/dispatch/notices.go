package dispatch

import (
	"context"
	"encoding/json"

	"streamcap/internal/classify"
	"streamcap/internal/logger"
	"streamcap/pkg/fieldpath"
	"streamcap/pkg/metrics"
)

// LimitFunc observes rate-limit notices: track is the number of matching
// records the endpoint withheld.
type LimitFunc func(track int64)

// LimitHandler parses rate-limit notices and forwards the track count.
type LimitHandler struct {
	onLimit LimitFunc
	logger  logger.Logger
}

// NewLimitHandler builds the handler; a nil callback falls back to a logged
// warning.
func NewLimitHandler(onLimit LimitFunc, log logger.Logger) *LimitHandler {
	h := &LimitHandler{onLimit: onLimit, logger: log}
	if h.onLimit == nil {
		h.onLimit = func(track int64) {
			log.Warnw("rate limit notice", "track", track)
		}
	}
	return h
}

func (h *LimitHandler) Handle(ctx context.Context, raw []byte) classify.Outcome {
	var notice LimitNotice
	if err := json.Unmarshal(raw, &notice); err != nil {
		metrics.ParseFailuresTotal.WithLabelValues("limit").Inc()
		h.logger.Errorw("failed to decode limit notice",
			"error", err,
			"excerpt", excerpt(raw),
		)
		return classify.Continue
	}

	h.onLimit(notice.Limit.Track)
	return classify.Continue
}

// WarningFunc observes stall warnings from the endpoint. When the code is
// FALLING_BEHIND, percentFull carries the buffer state.
type WarningFunc func(code, message string, percentFull float64)

type WarningHandler struct {
	onWarning WarningFunc
	logger    logger.Logger
}

func NewWarningHandler(onWarning WarningFunc, log logger.Logger) *WarningHandler {
	h := &WarningHandler{onWarning: onWarning, logger: log}
	if h.onWarning == nil {
		h.onWarning = func(code, message string, percentFull float64) {
			log.Warnw("stall warning",
				"code", code,
				"message", message,
				"percent_full", percentFull,
			)
		}
	}
	return h
}

func (h *WarningHandler) Handle(ctx context.Context, raw []byte) classify.Outcome {
	var notice WarningNotice
	if err := json.Unmarshal(raw, &notice); err != nil {
		metrics.ParseFailuresTotal.WithLabelValues("warning").Inc()
		h.logger.Errorw("failed to decode warning notice",
			"error", err,
			"excerpt", excerpt(raw),
		)
		return classify.Continue
	}

	h.onWarning(notice.Warning.Code, notice.Warning.Message, notice.Warning.PercentFull)
	return classify.Continue
}

// DisconnectHandler logs endpoint-initiated disconnect notices. Each field
// has an independent default when absent.
type DisconnectHandler struct {
	logger logger.Logger
}

func NewDisconnectHandler(log logger.Logger) *DisconnectHandler {
	return &DisconnectHandler{logger: log}
}

func (h *DisconnectHandler) Handle(ctx context.Context, raw []byte) classify.Outcome {
	record, err := ParseRecord(raw)
	if err != nil {
		metrics.ParseFailuresTotal.WithLabelValues("disconnect").Inc()
		h.logger.Errorw("failed to decode disconnect notice",
			"error", err,
			"excerpt", excerpt(raw),
		)
		return classify.Continue
	}

	h.logger.Warnw("disconnect notice",
		"code", fieldpath.ResolveWithDefault(record, "disconnect.code", json.Number("0")),
		"stream_name", fieldpath.ResolveWithDefault(record, "disconnect.stream_name", "n/a"),
		"reason", fieldpath.ResolveWithDefault(record, "disconnect.reason", "n/a"),
	)
	return classify.Continue
}

// UnrecognizedHandler is the catch-all: it logs whatever nothing else
// claimed.
type UnrecognizedHandler struct {
	logger logger.Logger
}

func NewUnrecognizedHandler(log logger.Logger) *UnrecognizedHandler {
	return &UnrecognizedHandler{logger: log}
}

func (h *UnrecognizedHandler) Handle(ctx context.Context, raw []byte) classify.Outcome {
	h.logger.Warnw("unrecognized message", "excerpt", excerpt(raw))
	return classify.Continue
}
