package commands

import (
	"os"
	"strings"
	"timetable-backend/lib/serviceutil"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"
)

var searchLimit *int

func init() {
	searchLimit = searchCmd.Flags().Int("limit", 20, "Maximum number of results to display.")
	rootCmd.AddCommand(searchCmd)
}

var searchCmd = &cobra.Command{
	Use:   "search <query>",
	Short: "Searches groups and professors matching a query.",
	Args:  cobra.MinimumNArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		cfg := loadConfig()
		resolver := createResolver(createClients(cfg))

		handles, err := resolver.Resolve(cmd.Context(), strings.Join(args, " "))
		if err != nil {
			serviceutil.Fatal("search failed", err)
		}
		if len(handles) > *searchLimit {
			handles = handles[:*searchLimit]
		}

		t := table.NewWriter()
		t.SetOutputMirror(os.Stdout)
		t.AppendHeader(table.Row{"name", "source", "url"})
		for _, h := range handles {
			t.AppendRow(table.Row{h.Name, h.Source, h.URL})
		}
		t.SetStyle(table.StyleRounded)
		t.Render()
	},
}
