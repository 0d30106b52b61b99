package main

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/lmittmann/tint"
	"github.com/nats-io/nats.go"
	"github.com/programme-lv/smoke/internal/behave"
	"github.com/programme-lv/smoke/internal/gatherer"
	"github.com/programme-lv/smoke/internal/gatherer/natsgath"
	"github.com/programme-lv/smoke/internal/gatherer/respbuilder"
	"github.com/programme-lv/smoke/internal/gatherer/sqsgath"
	"github.com/programme-lv/smoke/internal/gatherer/termgath"
	"github.com/programme-lv/smoke/internal/harness"
	"github.com/programme-lv/smoke/internal/piston"
	"github.com/programme-lv/smoke/internal/report"
	"github.com/programme-lv/smoke/internal/xdg"
	"github.com/urfave/cli/v3"
)

const batteryFileName = "battery.toml"

func runAction(ctx context.Context, cmd *cli.Command) error {
	battery, err := loadBattery(cmd.String("battery"))
	if err != nil {
		return cli.Exit(err.Error(), exitConfig)
	}

	threshold := cmd.Float("threshold")
	runUuid := uuid.NewString()
	slog.Debug("starting run", "run", runUuid, "checks", len(battery.Checks))

	builder := respbuilder.New(runUuid, threshold)
	gaths := gatherer.Multi{termgath.New(nil, threshold), builder}

	if url := cmd.String("nats-url"); url != "" {
		nc, err := nats.Connect(url, nats.Name(appName), nats.Timeout(5*time.Second))
		if err != nil {
			return cli.Exit(fmt.Sprintf("failed to connect to NATS: %v", err), exitConfig)
		}
		defer nc.Close()
		gaths = append(gaths, natsgath.New(nc, cmd.String("nats-subject"), runUuid, threshold))
	}

	if queue := cmd.String("sqs-queue-url"); queue != "" {
		g, err := sqsgath.NewFromEnv(ctx, queue, cmd.String("aws-region"), cmd.String("aws-profile"), runUuid, threshold)
		if err != nil {
			return cli.Exit(err.Error(), exitConfig)
		}
		gaths = append(gaths, g)
	}

	cfg := harness.Config{
		Delay:          cmd.Duration("delay"),
		ConnectTimeout: cmd.Duration("connect-timeout"),
		ExecTimeout:    cmd.Duration("exec-timeout"),
		BurstTimeout:   cmd.Duration("burst-timeout"),
		Sleep:          harness.SleepCtx,
		Logger:         slog.Default().With("run", runUuid),
	}
	client := piston.New(cmd.String("url"))
	sum := harness.New(client, battery, gaths, cfg).Run(ctx)

	flushCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := gaths.Flush(flushCtx); err != nil {
		slog.Warn("failed to flush run events", tint.Err(err))
	}

	if path := cmd.String("report"); path != "" {
		if err := report.Write(path, builder.Report()); err != nil {
			slog.Error("failed to write report", "path", path, tint.Err(err))
		} else {
			slog.Info("report written", "path", path)
		}
	}

	if code := sum.ExitCode(threshold); code != 0 {
		return cli.Exit("", code)
	}
	return nil
}

// loadBattery resolves the battery from an explicit path, the XDG config dirs,
// or falls back to the built-in one.
func loadBattery(path string) (harness.Battery, error) {
	if path != "" {
		return behave.Load(path)
	}
	if found, ok := xdg.NewXDGDirs().FindConfigFile(appName, batteryFileName); ok {
		slog.Debug("using battery from config dir", "path", found)
		return behave.Load(found)
	}
	return behave.Default(), nil
}
