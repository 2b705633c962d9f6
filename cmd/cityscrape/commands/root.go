package commands

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"cityscrape/lib/restyutil"
	"cityscrape/lib/telemetry"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
)

var (
	verbose    bool
	configPath string
	outDir     string
	dumpHttp   string

	cfg Config
	tel telemetry.Telemetry
)

var rootCmd = &cobra.Command{
	Use:   "cityscrape",
	Short: "cityscrape collects transit, shop and event data for the Quattropole cities.",
	// errors are already reported by Execute
	SilenceErrors: true,
	SilenceUsage:  true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		telemetry.InitSlog(verbose)

		err := godotenv.Load()
		if err != nil && !errors.Is(err, fs.ErrNotExist) {
			slog.Warn("failed to load .env", "err", err)
		}

		cfg, err = loadConfig(configPath)
		if err != nil {
			return fmt.Errorf("read config %s: %w", configPath, err)
		}
		if cmd.Flags().Changed("out") {
			cfg.Out = outDir
		}

		setupTelemetry(cmd.Context())
		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		ctx, cancel := context.WithTimeout(context.Background(), time.Second*5)
		defer cancel()
		err := tel.Shutdown(ctx)
		if err != nil {
			slog.Warn("failed to flush telemetry", "err", err)
		}
	},
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Log debug output.")
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "cityscrape.json5", "The config file to read.")
	rootCmd.PersistentFlags().StringVar(&outDir, "out", "data", "The directory output files are written to.")
	rootCmd.PersistentFlags().StringVar(&dumpHttp, "dump-http", "", "Write a transcript of every http request to this directory.")
}

func setupTelemetry(ctx context.Context) {
	var err error
	tel, err = telemetry.SetupFromEnv(ctx, "cityscrape")
	if errors.Is(err, fs.ErrNotExist) || errors.Is(err, telemetry.ErrNotConfigured) {
		slog.Debug("telemetry is not configured")
		return
	}
	if err != nil {
		slog.Warn("failed to setup telemetry", "err", err)
		return
	}
	telemetry.InstrumentPerfStats(ctx)
}

// httpOutput returns where request transcripts of the command go, or nil if
// --dump-http was not given.
func httpOutput(cmd *cobra.Command) restyutil.InstrumentOutput {
	if dumpHttp == "" {
		return nil
	}
	out, err := restyutil.NewFilesystemOutput(filepath.Join(dumpHttp, cmd.Name()))
	if err != nil {
		slog.Warn("failed to create http transcript directory", "err", err)
		return nil
	}
	return out
}

func newTable(cmd *cobra.Command) table.Writer {
	t := table.NewWriter()
	t.SetStyle(table.StyleRounded)
	t.SetOutputMirror(cmd.OutOrStdout())
	return t
}

func ExecuteContext(ctx context.Context) {
	if err := rootCmd.ExecuteContext(ctx); err != nil {
		slog.Error("command failed", "err", err)
		os.Exit(1)
	}
}
