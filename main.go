package main

import (
	"context"
	"fmt"
	"log"
	"log/slog"
	"os"
	"os/signal"

	"github.com/spf13/pflag"

	"mlfq-simulator/api"
	"mlfq-simulator/config"
	"mlfq-simulator/internal/core"
	"mlfq-simulator/internal/logging"
	"mlfq-simulator/internal/playback"
	"mlfq-simulator/internal/report"
	"mlfq-simulator/internal/responses"
	"mlfq-simulator/internal/schedulers"
	"mlfq-simulator/internal/tracing"
	"mlfq-simulator/internal/workload"
	"mlfq-simulator/pkg/client"
)

const version = "0.1.0"

func main() {
	flags := pflag.NewFlagSet(os.Args[0], pflag.ExitOnError)
	configPath := flags.String("config", "", "path to the config file (default ./config.yaml)")
	workloadPath := flags.String("workload", "", "simulate a CSV, YAML or JSON workload file and print the report")
	server := flags.String("server", "", "simulator service URL; with --workload the run happens remotely")
	replay := flags.Bool("playback", false, "replay executed segments at the configured pace before the report")
	flags.Int("port", 9095, "http port")
	_ = flags.Parse(os.Args[1:])

	cfg, err := config.Load(*configPath, flags)
	if err != nil {
		log.Fatalln(err)
	}
	logger := logging.BuildLogger(cfg.LogLevel, cfg.LogFormat, os.Stderr)
	if cfg.TracingEnabled {
		if err := tracing.Init("mlfq-simulator", version, cfg.TracingOutput); err != nil {
			logger.Warn("tracing disabled", logging.ErrAttr(err))
		}
	}
	levels, err := cfg.Levels()
	if err != nil {
		log.Fatalln(err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	if *workloadPath != "" {
		if err := simulate(ctx, *workloadPath, *server, *replay, cfg, levels, logger); err != nil {
			logger.Error("simulation failed", logging.ErrAttr(err))
			os.Exit(1)
		}
		return
	}

	handler, err := api.NewSchedulerHandlerImpl(levels, logger, schedulers.WithMaxHorizon(cfg.MaxHorizon))
	if err != nil {
		log.Fatalln(err)
	}
	app := api.NewApp(handler)
	go func() {
		<-ctx.Done()
		_ = app.Shutdown()
	}()
	log.Fatalln(app.Listen(fmt.Sprintf(":%d", cfg.Port)))
}

// simulate runs a workload file locally, or on server when one is given, and
// prints the report to stdout.
func simulate(ctx context.Context, path, server string, replay bool, cfg *config.SchedulerConfig, levels []core.QueueLevel, logger *slog.Logger) error {
	request, err := workload.Load(path)
	if err != nil {
		return err
	}

	var response responses.ScheduleResponse
	if server != "" {
		remote, err := client.New(server, logger).Simulate(ctx, request)
		if err != nil {
			return err
		}
		response = *remote
	} else if response, err = schedulers.ScheduleMultilevelFeedbackQueue(ctx, request, levels, logger, schedulers.WithMaxHorizon(cfg.MaxHorizon)); err != nil {
		return err
	}

	if replay {
		for segment := range playback.New(cfg.PlaybackTick).Replay(ctx, response.Segments) {
			fmt.Println(report.SegmentLine(segment))
		}
		if err := ctx.Err(); err != nil {
			return err
		}
	}
	return report.Write(os.Stdout, response)
}

