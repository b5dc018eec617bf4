package commands

import (
	"fmt"
	"os"
	"strings"
	"timetable-backend/lib/schedule"
	"timetable-backend/lib/serviceutil"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"
)

var fetchSource *string

func init() {
	fetchSource = fetchCmd.Flags().String(
		"source", "group",
		"Source kind of the schedule: group, person, room or other.",
	)
	rootCmd.AddCommand(fetchCmd)
}

func parseSource(s string) (schedule.SourceKind, error) {
	switch strings.ToLower(s) {
	case "group":
		return schedule.SourceGroup, nil
	case "person":
		return schedule.SourcePerson, nil
	case "room":
		return schedule.SourceRoom, nil
	case "other":
		return schedule.SourceOther, nil
	}
	return schedule.SourceOther, fmt.Errorf("unknown source kind %q", s)
}

func joinRefs(refs []schedule.EntryRef) string {
	names := make([]string, len(refs))
	for i, r := range refs {
		names[i] = r.Name
	}
	return strings.Join(names, ", ")
}

func renderLessons(lessons []schedule.Lesson) {
	t := table.NewWriter()
	t.SetOutputMirror(os.Stdout)
	t.AppendHeader(table.Row{"start", "min", "kind", "name", "groups", "persons", "rooms", "note"})
	for _, l := range lessons {
		t.AppendRow(table.Row{
			l.StartTime.Format("02.01.2006 15:04"),
			l.DurationMinutes,
			l.Kind.Short(),
			l.Name,
			joinRefs(l.Groups),
			joinRefs(l.Persons),
			joinRefs(l.Classrooms),
			l.Note,
		})
	}
	t.SetStyle(table.StyleRounded)
	t.Render()
}

var fetchCmd = &cobra.Command{
	Use:   "fetch [--source <kind>] <url>",
	Short: "Fetches and prints the schedule behind a timetable page url.",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		source, err := parseSource(*fetchSource)
		if err != nil {
			serviceutil.Fatal("invalid source kind", err)
		}

		cfg := loadConfig()
		fetcher := createFetcher(createClients(cfg))

		lessons, err := fetcher.Fetch(cmd.Context(), schedule.Handle{
			Source: source,
			URL:    args[0],
		})
		if err != nil {
			serviceutil.Fatal("failed to fetch schedule", err)
		}
		renderLessons(lessons)
	},
}
