package main

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	"golang.org/x/sync/errgroup"

	"streamcap/internal/config"
	"streamcap/internal/constants"
	"streamcap/internal/dispatch"
	"streamcap/internal/geo"
	"streamcap/internal/logger"
	"streamcap/internal/policy"
	"streamcap/internal/session"
	"streamcap/internal/sink"
	"streamcap/internal/transport"
	"streamcap/pkg/cel"
	"streamcap/pkg/health"
	"streamcap/pkg/metrics"
)

type App struct {
	cfg    *config.Config
	opts   *config.CaptureOptions
	logger logger.Logger

	out    sink.Sink
	state  *session.State
	loop   *session.Loop
	params transport.Params
	server *http.Server
}

func NewApp(cfg *config.Config, opts *config.CaptureOptions, log logger.Logger) *App {
	return &App{
		cfg:    cfg,
		opts:   opts,
		logger: log,
	}
}

func (a *App) Initialize(ctx context.Context) error {
	metrics.RegisterSessionMetrics()

	if err := a.resolveLocationQuery(ctx); err != nil {
		return fmt.Errorf("failed to resolve location query: %w", err)
	}

	if err := a.initSink(); err != nil {
		return fmt.Errorf("failed to initialize sink: %w", err)
	}

	if err := a.initSession(); err != nil {
		return fmt.Errorf("failed to initialize session: %w", err)
	}

	if a.cfg.Server.Port > 0 {
		a.initHTTPServer()
	}

	return nil
}

// resolveLocationQuery turns a named location into bounding-box coordinates
// appended to the explicit --locations list.
func (a *App) resolveLocationQuery(ctx context.Context) error {
	if a.opts.LocationQuery == "" {
		return nil
	}

	metrics.RegisterGeoMetrics()

	searcher := geo.NewHTTPPlaceSearcher(a.cfg.Geo, a.logger.Named("geo"))
	resolver := geo.NewResolver(searcher, a.logger.Named("geo"))

	box, err := resolver.Resolve(ctx, a.opts.LocationQuery)
	if err != nil {
		return err
	}

	a.opts.Locations = append(a.opts.Locations, box.Coords()...)
	return nil
}

func (a *App) initSink() error {
	out, err := sink.New(a.cfg.Sink, a.logger.Named("sink"))
	if err != nil {
		return err
	}
	a.out = out
	return nil
}

func (a *App) initSession() error {
	var filterExpr *cel.Filter
	if a.opts.FilterExpr != "" {
		evaluator, err := cel.NewEvaluator()
		if err != nil {
			return err
		}
		filterExpr, err = evaluator.CompileFilter(a.opts.FilterExpr)
		if err != nil {
			return err
		}
	}

	a.state = session.NewState()

	status := dispatch.NewStatusHandler(dispatch.StatusConfig{
		Filter:           policy.NewFilterPolicy(a.opts.Languages, a.opts.NoRetweets, filterExpr),
		Stop:             a.stopPolicy(),
		State:            a.state,
		Sink:             a.out,
		Fields:           a.opts.Fields,
		TerminateOnError: a.opts.TerminateOnError,
		ReportLag:        a.opts.ReportLag,
		Logger:           a.logger.Named("status"),
	})

	chain := dispatch.NewChain(
		status.Handle,
		dispatch.NewLimitHandler(nil, a.logger.Named("limit")).Handle,
		dispatch.NewWarningHandler(nil, a.logger.Named("warning")).Handle,
		dispatch.NewDisconnectHandler(a.logger.Named("disconnect")).Handle,
		dispatch.NewUnrecognizedHandler(a.logger).Handle,
	)

	a.params = transport.Params{
		Track:         a.opts.Track,
		Locations:     a.opts.Locations,
		Languages:     a.opts.Languages,
		StallWarnings: a.opts.StallWarnings,
	}

	ws := transport.NewWebsocket(a.cfg.Stream, a.logger.Named("transport"))
	a.loop = session.New(ws, chain, a.state, session.Config{
		TerminateOnError: a.opts.TerminateOnError,
		Stop:             a.stopPolicy(),
	}, a.logger.Named("session"))

	return nil
}

func (a *App) stopPolicy() policy.StopPolicy {
	return policy.StopPolicy{
		MaxDuration: a.opts.Duration,
		MaxRecords:  a.opts.MaxRecords,
	}
}

func (a *App) initHTTPServer() {
	mux := http.NewServeMux()

	healthRegistry := health.NewCheckerRegistry()
	healthRegistry.Register(health.CheckerFunc{
		CheckName: "session",
		Fn: func(ctx context.Context) error {
			if !a.state.Running() {
				return fmt.Errorf("session %s in phase %s", a.loop.ID(), a.loop.Phase())
			}
			return nil
		},
	})

	mux.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		h := healthRegistry.Check(r.Context())
		statusCode := http.StatusOK
		if h.Status == health.StatusUnhealthy {
			statusCode = http.StatusServiceUnavailable
		}
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(statusCode)
		fmt.Fprintf(w, `{"status":"%s","timestamp":"%s"}`, h.Status, h.Timestamp.Format(time.RFC3339))
	})

	mux.Handle("/metrics", promhttp.Handler())

	a.server = &http.Server{
		Addr:    fmt.Sprintf(":%d", a.cfg.Server.Port),
		Handler: mux,
	}
}

func (a *App) Run(ctx context.Context) error {
	g, gCtx := errgroup.WithContext(ctx)

	if a.server != nil {
		g.Go(func() error {
			a.logger.Infow("HTTP server starting", "port", a.cfg.Server.Port)
			if err := a.server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
				return fmt.Errorf("HTTP server error: %w", err)
			}
			return nil
		})
	}

	g.Go(func() error {
		defer a.shutdownServer()
		return a.loop.Run(gCtx, a.params)
	})

	err := g.Wait()

	if closeErr := a.out.Close(); closeErr != nil {
		a.logger.Errorw("failed to close sink", "error", closeErr)
		if err == nil {
			err = closeErr
		}
	}

	return err
}

func (a *App) shutdownServer() {
	if a.server == nil {
		return
	}
	shutdownCtx, cancel := context.WithTimeout(context.Background(), constants.ShutdownTimeout)
	defer cancel()
	if err := a.server.Shutdown(shutdownCtx); err != nil {
		a.logger.Errorw("HTTP server shutdown error", "error", err)
	}
}
