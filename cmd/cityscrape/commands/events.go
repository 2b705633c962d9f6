package commands

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"cityscrape/lib/resultstore"
	"cityscrape/lib/scrapers/events"
	"cityscrape/lib/timezone"
	"cityscrape/lib/util/serviceutil"

	"github.com/spf13/cobra"
)

var (
	eventsMaxEvents int
	eventsIcs       bool
	eventsDb        string
)

func init() {
	eventsCmd.Flags().IntVar(&eventsMaxEvents, "max-events", -1, "Stop after this many events, 0 scrapes every event. Defaults to the configured limit.")
	eventsCmd.Flags().BoolVar(&eventsIcs, "ics", false, "Also write an iCalendar file next to the json output.")
	eventsCmd.Flags().StringVar(&eventsDb, "db", "", "Also store the events in this database (sqlite path or libsql url).")
	rootCmd.AddCommand(eventsCmd)
}

var eventsCmd = &cobra.Command{
	Use:   "events [--max-events <n>] [--ics] [--db <dsn>]",
	Short: "Scrapes the event calendar of tourismus.saarbruecken.de.",
	Args:  cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		ctx := cmd.Context()

		maxEvents := cfg.Events.MaxEvents
		if eventsMaxEvents >= 0 {
			maxEvents = eventsMaxEvents
		}
		scraper, err := events.NewScraper(events.Options{
			BaseUrl:          cfg.Events.BaseUrl,
			MaxEvents:        maxEvents,
			Interval:         millis(cfg.Events.IntervalMs),
			BrowserTransport: cfg.BrowserTransport,
			Output:           httpOutput(cmd),
		})
		if err != nil {
			serviceutil.Fatal("failed to create event scraper", err)
		}

		started := timezone.Now()
		list, err := scraper.Run(ctx, started)
		if err != nil {
			slog.Warn("scrape interrupted, saving the events found so far", "err", err)
		}

		dir := filepath.Join(cfg.Out, "scraped_data")
		err = os.MkdirAll(dir, 0755)
		if err != nil {
			serviceutil.Fatal("failed to create output directory", err)
		}
		path := filepath.Join(dir, events.FileName(maxEvents, started))
		err = serviceutil.CreateFile(path, func(w io.Writer) error {
			return events.WriteJSON(w, list)
		})
		if err != nil {
			serviceutil.Fatal("failed to write events", err)
		}
		slog.Info("wrote file", "path", path)

		if eventsIcs {
			icsPath := strings.TrimSuffix(path, ".json") + ".ics"
			var written int
			err = serviceutil.CreateFile(icsPath, func(w io.Writer) error {
				written, err = events.WriteICS(w, list, started)
				return err
			})
			if err != nil {
				serviceutil.Fatal("failed to write calendar", err)
			}
			slog.Info("wrote file", "path", icsPath, "calendar_events", written)
		}

		run := resultstore.NewRun(resultstore.KindEvents, started)
		saveRun(ctx, eventsDb, run, func(ctx context.Context, store resultstore.Store) error {
			return store.SaveEvents(ctx, run, list)
		})

		fmt.Fprintf(cmd.OutOrStdout(), "scraped %d events into %s\n", len(list), path)
	},
}
