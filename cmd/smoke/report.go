package main

import (
	"context"
	"fmt"
	"os"

	pretty_table "github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"
	"github.com/programme-lv/smoke/api"
	"github.com/programme-lv/smoke/internal/report"
	"github.com/urfave/cli/v3"
)

func reportAction(ctx context.Context, cmd *cli.Command) error {
	path := cmd.Args().First()
	if path == "" {
		return cli.Exit("report path is required", exitConfig)
	}
	rep, err := report.Read(path)
	if err != nil {
		return cli.Exit(err.Error(), exitConfig)
	}
	outputReport(rep)
	return nil
}

func outputReport(rep api.RunReport) {
	t := pretty_table.NewWriter()
	t.SetOutputMirror(os.Stdout)
	t.SetTitle("run %s against %s", rep.RunUuid, rep.BaseUrl)
	t.AppendHeader(pretty_table.Row{"#", "Check", "Result", "HTTP", "Detail", "Time"})
	for _, c := range rep.Checks {
		result := "FAILED"
		switch {
		case c.Outcome == "rate_limited":
			result = "RATE LIMITED"
		case c.Passed:
			result = "PASSED"
		}
		status := ""
		if c.HttpStatus != nil {
			status = fmt.Sprint(*c.HttpStatus)
		}
		detail := ""
		if c.Detail != nil {
			detail = *c.Detail
		}
		t.AppendRow(pretty_table.Row{c.Index + 1, c.Name, result, status, detail, fmt.Sprintf("%dms", c.DurationMs)})
	}

	overall := "ISSUES"
	if rep.Status == api.Working {
		overall = "WORKING"
	}
	t.AppendFooter(pretty_table.Row{"", fmt.Sprintf("%d/%d passed (%.1f%%)", rep.TestsPassed, rep.TestsRun, rep.SuccessRate*100), overall})

	t.SetStyle(pretty_table.StyleColoredDark)
	t.SetColumnConfigs([]pretty_table.ColumnConfig{
		{
			Name:        "Result",
			Transformer: healthColor,
			Align:       text.AlignCenter,
		},
		{
			Name:     "Detail",
			WidthMax: 60,
		},
	})
	t.Render()
}
