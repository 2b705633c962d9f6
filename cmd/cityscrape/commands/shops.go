package commands

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"

	"cityscrape/lib/resultstore"
	"cityscrape/lib/scrapers/shops"
	"cityscrape/lib/timezone"
	"cityscrape/lib/util/serviceutil"

	"github.com/spf13/cobra"
)

const shopsFileName = "saarbruecken_shops.csv"

var (
	shopsPages int
	shopsDb    string
)

func init() {
	shopsScrapeCmd.Flags().IntVar(&shopsPages, "pages", 0, "The number of listing pages to scrape, defaults to the configured page count.")
	shopsScrapeCmd.Flags().StringVar(&shopsDb, "db", "", "Also store the shops in this database (sqlite path or libsql url).")
	shopsCmd.AddCommand(shopsScrapeCmd)
	shopsCmd.AddCommand(shopsTransformCmd)
	rootCmd.AddCommand(shopsCmd)
}

var shopsCmd = &cobra.Command{
	Use:   "shops",
	Short: "Scrapes the shop directory of einkaufen.saarbruecken.de.",
}

var shopsScrapeCmd = &cobra.Command{
	Use:   "scrape [--pages <n>] [--db <dsn>]",
	Short: "Scrapes every shop of the directory into a csv file.",
	Args:  cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		ctx := cmd.Context()

		pages := cfg.Shops.Pages
		if shopsPages > 0 {
			pages = shopsPages
		}
		scraper, err := shops.NewScraper(shops.Options{
			BaseUrl:          cfg.Shops.BaseUrl,
			Pages:            pages,
			Interval:         millis(cfg.Shops.IntervalMs),
			BrowserTransport: cfg.BrowserTransport,
			Output:           httpOutput(cmd),
		})
		if err != nil {
			serviceutil.Fatal("failed to create shop scraper", err)
		}

		started := timezone.Now()
		list, err := scraper.ScrapeAll(ctx)
		if err != nil {
			slog.Warn("scrape interrupted, saving the shops found so far", "err", err)
		}
		if len(list) == 0 {
			slog.Warn("no shops were scraped, nothing to save")
			return
		}

		err = os.MkdirAll(cfg.Out, 0755)
		if err != nil {
			serviceutil.Fatal("failed to create output directory", err)
		}
		path := filepath.Join(cfg.Out, shopsFileName)
		err = serviceutil.CreateFile(path, func(w io.Writer) error {
			return shops.WriteCSV(w, list)
		})
		if err != nil {
			serviceutil.Fatal("failed to write shops", err)
		}

		run := resultstore.NewRun(resultstore.KindShops, started)
		saveRun(ctx, shopsDb, run, func(ctx context.Context, store resultstore.Store) error {
			return store.SaveShops(ctx, run, list)
		})

		fmt.Fprintf(cmd.OutOrStdout(), "scraped %d shops into %s\n", len(list), path)
	},
}

var shopsTransformCmd = &cobra.Command{
	Use:   "transform <input.csv> [output.csv]",
	Short: "Re-normalizes the opening hours and missing values of a shop csv.",
	Args:  cobra.RangeArgs(1, 2),
	RunE: func(cmd *cobra.Command, args []string) error {
		input := args[0]
		output := shops.TransformOutputName(input)
		if len(args) == 2 {
			output = args[1]
		}

		in, err := os.Open(input)
		if err != nil {
			return err
		}
		defer in.Close()

		var rows int
		err = serviceutil.CreateFile(output, func(w io.Writer) error {
			rows, err = shops.TransformCSV(in, w)
			return err
		})
		if err != nil {
			return fmt.Errorf("transform %s: %w", input, err)
		}

		fmt.Fprintf(cmd.OutOrStdout(), "transformed %d rows into %s\n", rows, output)
		return nil
	},
}
