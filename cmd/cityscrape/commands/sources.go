package commands

import (
	"cityscrape/lib/transport"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"
)

func init() {
	rootCmd.AddCommand(sourcesCmd)
}

var sourcesCmd = &cobra.Command{
	Use:   "sources",
	Short: "Lists known open data and GTFS sources for the region.",
	Args:  cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		t := newTable(cmd)
		t.AppendHeader(table.Row{"Name", "Kind", "URL", "Description"})
		for _, source := range transport.Sources {
			t.AppendRow(table.Row{source.Name, source.Kind, source.URL, source.Description})
		}
		t.AppendFooter(table.Row{"", "", "Total", len(transport.Sources)})
		t.Render()
	},
}
