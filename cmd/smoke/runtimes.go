package main

import (
	"context"
	"fmt"
	"os"
	"slices"
	"strings"

	pretty_table "github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"
	"github.com/programme-lv/smoke/api"
	"github.com/programme-lv/smoke/internal/piston"
	"github.com/urfave/cli/v3"
)

func runtimesAction(ctx context.Context, cmd *cli.Command) error {
	battery, err := loadBattery(cmd.String("battery"))
	if err != nil {
		return cli.Exit(err.Error(), exitConfig)
	}

	ctx, cancel := context.WithTimeout(ctx, cmd.Duration("connect-timeout"))
	defer cancel()

	runtimes, err := piston.New(cmd.String("url")).Runtimes(ctx)
	if err != nil {
		return cli.Exit(fmt.Sprintf("failed to list runtimes: %v", err), 1)
	}

	missing := piston.MissingRuntimes(runtimes, battery.Versions)
	outputRuntimes(runtimes, battery.Versions, missing)

	if len(missing) > 0 {
		return cli.Exit(fmt.Sprintf("missing runtimes: %s", strings.Join(missing, ", ")), 1)
	}
	return nil
}

func outputRuntimes(runtimes []api.Runtime, pinned map[string]string, missing []string) {
	t := pretty_table.NewWriter()
	t.SetOutputMirror(os.Stdout)
	t.AppendHeader(pretty_table.Row{"Language", "Version", "Aliases", "Battery"})

	slices.SortFunc(runtimes, func(a, b api.Runtime) int {
		return strings.Compare(a.Language+"@"+a.Version, b.Language+"@"+b.Version)
	})
	for _, rt := range runtimes {
		used := ""
		if v, ok := pinned[rt.Language]; ok && v == rt.Version {
			used = "OKAY"
		}
		t.AppendRow(pretty_table.Row{rt.Language, rt.Version, strings.Join(rt.Aliases, ", "), used})
	}
	for _, m := range missing {
		lang, version, _ := strings.Cut(m, "@")
		t.AppendRow(pretty_table.Row{lang, version, "", "MISSING"})
	}

	t.SetStyle(pretty_table.StyleColoredDark)
	t.SetColumnConfigs([]pretty_table.ColumnConfig{
		{
			Name:        "Battery",
			Transformer: healthColor,
			Align:       text.AlignCenter,
		},
	})
	t.Render()
}

var healthColor = text.Transformer(func(s interface{}) string {
	switch s.(string) {
	case "OKAY", "WORKING", "PASSED":
		return text.FgHiGreen.Sprint(s)
	case "WARN", "RATE LIMITED":
		return text.FgHiYellow.Sprint(s)
	case "MISSING", "ERROR", "ISSUES", "FAILED":
		return text.FgHiRed.Sprint(s)
	}
	return fmt.Sprint(s)
})
