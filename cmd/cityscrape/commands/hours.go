package commands

import (
	"bufio"
	"fmt"
	"strings"

	"cityscrape/lib/openinghours"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"
)

var hoursExplain bool

const hoursExample = "Montag-Freitag: 9-18 Uhr; Samstag: 10 bis 14 Uhr"

func init() {
	hoursCmd.Flags().BoolVar(&hoursExplain, "explain", false, "Print a table with the value and status of every weekday.")
	rootCmd.AddCommand(hoursCmd)
}

var hoursCmd = &cobra.Command{
	Use:   "hours [text...]",
	Short: "Normalizes free-form opening hours into a weekday schedule.",
	Long: "Normalizes free-form opening hours into a weekday schedule. The arguments are joined " +
		"with spaces, without arguments every line of stdin is normalized.",
	Example: `  cityscrape hours "` + hoursExample + `"`,
	RunE: func(cmd *cobra.Command, args []string) error {
		if len(args) > 0 {
			return printHours(cmd, strings.Join(args, " "))
		}

		scanner := bufio.NewScanner(cmd.InOrStdin())
		for scanner.Scan() {
			line := strings.TrimSpace(scanner.Text())
			if line == "" {
				continue
			}
			err := printHours(cmd, line)
			if err != nil {
				return err
			}
		}
		return scanner.Err()
	},
}

func printHours(cmd *cobra.Command, raw string) error {
	if !hoursExplain {
		_, err := fmt.Fprintln(cmd.OutOrStdout(), openinghours.Normalize(raw))
		return err
	}

	result := openinghours.ParseDetailed(raw)
	t := newTable(cmd)
	t.SetTitle(raw)
	t.AppendHeader(table.Row{"Weekday", "Value", "Status"})
	for _, day := range openinghours.Weekdays {
		t.AppendRow(table.Row{day, result.Schedule.Get(day), result.Status[day]})
	}
	t.Render()

	_, err := fmt.Fprintln(cmd.OutOrStdout(), result.Schedule.String())
	return err
}
