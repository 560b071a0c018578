package main

import (
	"context"
	"ytcharts-backend/cmd/ytcharts/commands"
	"ytcharts-backend/lib/telemetry"
	"ytcharts-backend/lib/util/serviceutil"
)

func main() {
	ctx := serviceutil.SignalContext()
	telemetry.SetupFromEnv(context.Background(), "ytcharts")
	telemetry.InitSlog(true)
	telemetry.InstrumentPerfStats(ctx)
	commands.ExecuteContext(ctx)
}
