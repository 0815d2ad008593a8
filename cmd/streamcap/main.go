package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"streamcap/internal/config"
	"streamcap/internal/logger"
	"streamcap/pkg/durationspec"
	"streamcap/pkg/logging"
)

var (
	configFile string

	trackFlag         string
	locationsFlag     string
	locationQueryFlag string
	durationFlag      string
	maxRecordsFlag    int
	languagesFlag     string
	noRetweetsFlag    bool
	terminateFlag     bool
	reportLagFlag     string
	stallWarningsFlag bool
	fieldsFlag        string
	filterExprFlag    string
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "streamcap",
		Short: "Streaming record capture pipeline",
		Long:  "streamcap connects to a streaming NDJSON endpoint, filters matching records and writes them to stdout or Kafka",
		RunE:  captureCmd().RunE,
	}

	rootCmd.PersistentFlags().StringVar(&configFile, "config", "", "Path to config file (required)")

	rootCmd.AddCommand(captureCmd())

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func captureCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "capture [keywords...]",
		Short: "Start a capture session",
		RunE: func(cmd *cobra.Command, args []string) error {
			earlyLog := logging.NewEarlyLog()

			if configFile == "" {
				configFile = os.Getenv("CONFIG_FILE")
				if configFile == "" {
					earlyLog.Error("Config file is required. Use --config flag or CONFIG_FILE environment variable")
					return fmt.Errorf("config file is required")
				}
			}

			cfg, err := config.Load(configFile)
			if err != nil {
				earlyLog.Error("Failed to load config: %v", err)
				return err
			}

			opts, err := buildOptions(args)
			if err != nil {
				earlyLog.Error("Invalid capture options: %v", err)
				return err
			}

			log, err := logger.New(cfg.Logging.Level)
			if err != nil {
				earlyLog.Error("Failed to init logger: %v", err)
				return err
			}
			defer log.Sync()

			ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
			defer cancel()

			log.Infow("Starting capture session")

			app := NewApp(cfg, opts, log)
			if err := app.Initialize(ctx); err != nil {
				log.Fatalf("Failed to initialize application: %v", err)
			}

			if err := app.Run(ctx); err != nil && err != context.Canceled {
				log.Errorw("Capture stopped with error", "error", err)
				return err
			}
			log.Infow("Capture complete")
			return nil
		},
	}

	cmd.Flags().StringVar(&trackFlag, "track", "", "Comma-separated keywords to track (positional arguments are appended)")
	cmd.Flags().StringVar(&locationsFlag, "locations", "", "Comma-separated bounding-box coordinates, four per box (west,south,east,north)")
	cmd.Flags().StringVar(&locationQueryFlag, "location-query", "", "Named location resolved to a bounding box (alias table or remote place search)")
	cmd.Flags().StringVar(&durationFlag, "duration", "", "Capture window measured from the first message, e.g. 90, 15m, 2h, 1d")
	cmd.Flags().IntVar(&maxRecordsFlag, "max-records", 0, "Stop after this many matched records (0 = unlimited)")
	cmd.Flags().StringVar(&languagesFlag, "languages", "", "Comma-separated language codes to keep ('*' keeps all)")
	cmd.Flags().BoolVar(&noRetweetsFlag, "no-retweets", false, "Exclude retweets from the output")
	cmd.Flags().BoolVar(&terminateFlag, "terminate-on-error", false, "Treat recoverable errors and missing fields as fatal")
	cmd.Flags().StringVar(&reportLagFlag, "report-lag", "", "Warn when record time and local time differ by more than this, e.g. 5, 1m")
	cmd.Flags().BoolVar(&stallWarningsFlag, "stall-warnings", false, "Ask the endpoint for stall warnings")
	cmd.Flags().StringVar(&fieldsFlag, "fields", "", "Comma-separated dotted field paths to extract as CSV columns")
	cmd.Flags().StringVar(&filterExprFlag, "filter-expr", "", "CEL expression over 'record' that matched records must satisfy")

	return cmd
}

func buildOptions(args []string) (*config.CaptureOptions, error) {
	opts := &config.CaptureOptions{
		Track:            append(config.SplitCSV(trackFlag), args...),
		LocationQuery:    locationQueryFlag,
		MaxRecords:       maxRecordsFlag,
		Languages:        config.NormalizeLanguages(config.SplitCSV(languagesFlag)),
		NoRetweets:       noRetweetsFlag,
		TerminateOnError: terminateFlag,
		StallWarnings:    stallWarningsFlag,
		Fields:           config.SplitCSV(fieldsFlag),
		FilterExpr:       filterExprFlag,
	}

	locations, err := config.ParseLocations(locationsFlag)
	if err != nil {
		return nil, err
	}
	opts.Locations = locations

	if durationFlag != "" {
		d, err := durationspec.Parse(durationFlag)
		if err != nil {
			return nil, fmt.Errorf("invalid --duration: %w", err)
		}
		opts.Duration = d
	}

	if reportLagFlag != "" {
		d, err := durationspec.Parse(reportLagFlag)
		if err != nil {
			return nil, fmt.Errorf("invalid --report-lag: %w", err)
		}
		opts.ReportLag = d
	}

	if err := opts.Validate(); err != nil {
		return nil, err
	}
	return opts, nil
}
