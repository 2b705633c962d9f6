package commands

import (
	"context"
	"fmt"
	"log/slog"
	"slices"

	"cityscrape/lib/resultstore"
	"cityscrape/lib/scrapers/overpass"
	"cityscrape/lib/timezone"
	"cityscrape/lib/transport"
	"cityscrape/lib/util/serviceutil"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"
)

var (
	transportCities       []string
	transportCitiesConfig string
	transportDb           string
)

func init() {
	transportCmd.Flags().StringSliceVar(&transportCities, "cities", nil, "The cities to download, \"all\" or nothing downloads every city.")
	transportCmd.Flags().StringVar(&transportCitiesConfig, "cities-config", "", "A json5 file with additional cities.")
	transportCmd.Flags().StringVar(&transportDb, "db", "", "Also store the features in this database (sqlite path or libsql url).")
	rootCmd.AddCommand(transportCmd)
}

var transportCmd = &cobra.Command{
	Use:   "transport [--cities trier,metz|all] [--cities-config <file>] [--db <dsn>]",
	Short: "Downloads public transport infrastructure of the Quattropole cities from OpenStreetMap.",
	Run: func(cmd *cobra.Command, args []string) {
		ctx := cmd.Context()

		cities, err := transport.LoadCities(transportCitiesConfig)
		if err != nil {
			serviceutil.Fatal("failed to load cities", err)
		}
		keys, err := cities.ResolveCities(slices.Concat(transportCities, args))
		if err != nil {
			serviceutil.Fatal("invalid cities", err)
		}

		client, err := overpass.NewClient(overpass.ClientOptions{
			Endpoint: cfg.Overpass.Endpoint,
			Output:   httpOutput(cmd),
		})
		if err != nil {
			serviceutil.Fatal("failed to create overpass client", err)
		}
		downloader := transport.NewDownloader(client, cities)
		downloader.Pause = millis(cfg.Overpass.PauseMs)

		started := timezone.Now()
		collection, err := downloader.Run(ctx, keys)
		if err != nil {
			serviceutil.Fatal("failed to download transport data", err)
		}
		paths, err := transport.Save(cfg.Out, keys, collection, started)
		if err != nil {
			serviceutil.Fatal("failed to save transport data", err)
		}
		for _, path := range paths {
			slog.Info("wrote file", "path", path)
		}

		run := resultstore.NewRun(resultstore.KindTransport, started)
		saveRun(ctx, transportDb, run, func(ctx context.Context, store resultstore.Store) error {
			return store.SaveFeatures(ctx, run, collection.Features)
		})

		printTransportStats(cmd, collection.Metadata)
	},
}

func printTransportStats(cmd *cobra.Command, meta transport.Metadata) {
	t := newTable(cmd)
	t.SetTitle(fmt.Sprintf("%d features", meta.TotalFeatures))
	t.AppendHeader(table.Row{"City", "Type", "Count"})
	for _, city := range meta.Cities {
		stats := meta.StatsByCity[city]
		kinds := make([]string, 0, len(stats))
		for kind := range stats {
			kinds = append(kinds, kind)
		}
		slices.Sort(kinds)
		for _, kind := range kinds {
			t.AppendRow(table.Row{city, kind, stats[kind]})
		}
	}
	t.AppendSeparator()

	kinds := make([]string, 0, len(meta.StatsByType))
	for kind := range meta.StatsByType {
		kinds = append(kinds, kind)
	}
	slices.Sort(kinds)
	for _, kind := range kinds {
		t.AppendRow(table.Row{"", kind, meta.StatsByType[kind]})
	}
	t.Render()
}
