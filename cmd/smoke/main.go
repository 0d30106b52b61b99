package main

import (
	"context"
	"fmt"
	"log/slog"
	"math"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/fatih/color"
	"github.com/lmittmann/tint"
	"github.com/programme-lv/smoke/internal/environment"
	"github.com/programme-lv/smoke/internal/harness"
	"github.com/urfave/cli/v3"
)

const appName = "smoke"

// exit status for configuration and usage errors
const exitConfig = 2

func main() {
	env, err := environment.ReadEnvConfig()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(exitConfig)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := newCommand(env).Run(ctx, os.Args); err != nil {
		slog.Error("smoke failed", tint.Err(err))
		stop()
		os.Exit(exitConfig)
	}
}

func newCommand(env *environment.EnvConfig) *cli.Command {
	defaults := harness.DefaultConfig()
	return &cli.Command{
		Name:  appName,
		Usage: "smoke test a Piston-compatible code execution API",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:  "url",
				Usage: "execution API base URL",
				Value: env.PistonUrl,
			},
			&cli.BoolFlag{
				Name:    "verbose",
				Aliases: []string{"v"},
				Usage:   "log debug messages",
			},
			&cli.BoolFlag{
				Name:  "no-color",
				Usage: "disable colored output",
			},
			&cli.StringFlag{
				Name:  "battery",
				Usage: "battery TOML file; defaults to $XDG_CONFIG_HOME/smoke/battery.toml or the built-in battery",
				Value: env.BatteryPath,
			},
			&cli.FloatFlag{
				Name:  "threshold",
				Usage: "minimal pass rate for a zero exit code",
				Value: env.Threshold,
			},
			&cli.DurationFlag{
				Name:  "delay",
				Usage: "pause between checks",
				Value: defaults.Delay,
			},
			&cli.DurationFlag{
				Name:  "connect-timeout",
				Usage: "timeout of runtimes listing requests",
				Value: defaults.ConnectTimeout,
			},
			&cli.DurationFlag{
				Name:  "exec-timeout",
				Usage: "timeout of execute requests",
				Value: defaults.ExecTimeout,
			},
			&cli.DurationFlag{
				Name:  "burst-timeout",
				Usage: "timeout of each rate limit burst request",
				Value: defaults.BurstTimeout,
			},
			&cli.StringFlag{
				Name:  "report",
				Usage: "write a JSON run report to this path (zstd-compressed if it ends in .zst)",
			},
			&cli.StringFlag{
				Name:  "nats-url",
				Usage: "publish run events to this NATS server",
				Value: env.NatsUrl,
			},
			&cli.StringFlag{
				Name:  "nats-subject",
				Usage: "NATS subject for run events",
				Value: env.NatsSubject,
			},
			&cli.StringFlag{
				Name:  "sqs-queue-url",
				Usage: "send run events to this SQS queue",
				Value: env.SqsQueueUrl,
			},
			&cli.StringFlag{
				Name:  "aws-region",
				Value: env.AwsRegion,
			},
			&cli.StringFlag{
				Name:  "aws-profile",
				Value: env.AwsProfile,
			},
		},
		Before: setup,
		Action: runAction,
		Commands: []*cli.Command{
			{
				Name:   "run",
				Usage:  "run the smoke battery (default)",
				Action: runAction,
			},
			{
				Name:   "runtimes",
				Usage:  "list installed runtimes and check the battery's pinned versions",
				Action: runtimesAction,
			},
			{
				Name:      "report",
				Usage:     "print a saved run report",
				ArgsUsage: "<report.json[.zst]>",
				Action:    reportAction,
			},
		},
	}
}

func setup(ctx context.Context, cmd *cli.Command) (context.Context, error) {
	level := slog.LevelInfo
	if cmd.Bool("verbose") {
		level = slog.LevelDebug
	}
	noColor := cmd.Bool("no-color") || os.Getenv("NO_COLOR") != ""
	if noColor {
		color.NoColor = true
	}
	slog.SetDefault(slog.New(tint.NewHandler(os.Stderr, &tint.Options{
		Level:      level,
		TimeFormat: time.TimeOnly,
		NoColor:    noColor,
	})))

	threshold := cmd.Float("threshold")
	if math.IsNaN(threshold) || threshold < 0 || threshold > 1 {
		return ctx, cli.Exit(fmt.Sprintf("threshold must be in [0, 1], got %v", threshold), exitConfig)
	}
	return ctx, nil
}
