package commands

import (
	"time"

	"cityscrape/lib/resultstore"
	"cityscrape/lib/util/serviceutil"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"
)

var runsDb string

func init() {
	runsCmd.Flags().StringVar(&runsDb, "db", "results.db", "The result database to read (sqlite path or libsql url).")
	rootCmd.AddCommand(runsCmd)
}

var runsCmd = &cobra.Command{
	Use:   "runs [--db <dsn>]",
	Short: "Lists the runs stored in a result database.",
	Args:  cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		ctx := cmd.Context()

		store, err := resultstore.Open(ctx, runsDb)
		if err != nil {
			serviceutil.Fatal("failed to open result database", err)
		}
		defer store.Close()

		runs, err := store.Runs(ctx)
		if err != nil {
			serviceutil.Fatal("failed to list runs", err)
		}

		t := newTable(cmd)
		t.AppendHeader(table.Row{"ID", "Kind", "Started", "Duration", "Items"})
		for _, run := range runs {
			t.AppendRow(table.Row{
				run.ID,
				run.Kind,
				run.StartedAt.Format(time.DateTime),
				run.FinishedAt.Sub(run.StartedAt).Round(time.Second),
				run.Items,
			})
		}
		t.Render()
	},
}
