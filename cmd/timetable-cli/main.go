package main

import (
	"timetable-backend/cmd/timetable-cli/commands"
	"timetable-backend/lib/serviceutil"
	"timetable-backend/lib/telemetry"
)

func main() {
	ctx := serviceutil.SignalContext()
	telemetry.SetupFromEnv(ctx, "timetable-cli")
	telemetry.InitSlog(true)
	telemetry.InstrumentPerfStats(ctx)
	commands.ExecuteContext(ctx)
}
