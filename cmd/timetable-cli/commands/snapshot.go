package commands

import (
	"log/slog"
	"timetable-backend/lib/schedule"
	"timetable-backend/lib/schedulestore"
	"timetable-backend/lib/serviceutil"
	"timetable-backend/lib/sqliteutil"
	"timetable-backend/lib/timezone"

	"github.com/spf13/cobra"
)

var snapshotSource *string

func init() {
	snapshotSource = snapshotPushCmd.Flags().String(
		"source", "group",
		"Source kind of the schedule: group, person, room or other.",
	)
	snapshotCmd.AddCommand(snapshotPushCmd)
	snapshotCmd.AddCommand(snapshotShowCmd)
	rootCmd.AddCommand(snapshotCmd)
}

var snapshotCmd = &cobra.Command{
	Use:   "snapshot",
	Short: "Stores and inspects offline copies of fetched schedules.",
}

func openStore(cfg Config) schedulestore.Store {
	db, err := sqliteutil.OpenDB(schedulestore.Schema, cfg.Database)
	if err != nil {
		serviceutil.Fatal("failed to open snapshot db", err)
	}
	return schedulestore.NewStore(db)
}

var snapshotPushCmd = &cobra.Command{
	Use:   "push [--source <kind>] <url>",
	Short: "Fetches a schedule and stores it as today's snapshot.",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		source, err := parseSource(*snapshotSource)
		if err != nil {
			serviceutil.Fatal("invalid source kind", err)
		}

		cfg := loadConfig()
		fetcher := createFetcher(createClients(cfg))
		store := openStore(cfg)

		lessons, err := fetcher.Fetch(cmd.Context(), schedule.Handle{
			Source: source,
			URL:    args[0],
		})
		if err != nil {
			serviceutil.Fatal("failed to fetch schedule", err)
		}

		err = store.Push(cmd.Context(), args[0], timezone.Now(), lessons)
		if err != nil {
			serviceutil.Fatal("failed to store snapshot", err)
		}
		slog.Info("stored snapshot", "locator", args[0], "lessons", len(lessons))
	},
}

var snapshotShowCmd = &cobra.Command{
	Use:   "show <url>",
	Short: "Prints the latest stored snapshot of a schedule.",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		cfg := loadConfig()
		store := openStore(cfg)

		snapshot, err := store.Pull(cmd.Context(), args[0])
		if err != nil {
			serviceutil.Fatal("failed to read snapshot", err)
		}
		if snapshot.Time.IsZero() {
			slog.Info("no snapshot stored for locator", "locator", args[0])
			return
		}

		slog.Info("snapshot", "locator", args[0], "taken", snapshot.Time.Format("02.01.2006 15:04"))
		renderLessons(snapshot.Lessons)
	},
}
