package main

import (
	"fmt"

	"github.com/JustinKnueppel/go-result"
	"github.com/urfave/cli/v2"
)

type args struct {
	scenario string
	dataDir  string
	logLevel string
	tree     bool
}

var (
	ErrScenarioRequired = fmt.Errorf("scenario required")
)

var flags = []cli.Flag{
	&cli.StringFlag{
		Name:    "scenario",
		Aliases: []string{"s"},
		Usage:   "JSON file listing the steps to run",
	},
	&cli.StringFlag{
		Name:  "data-dir",
		Value: "data",
		Usage: "directory holding config/Config.json",
	},
	&cli.StringFlag{
		Name:  "log-level",
		Usage: "overrides the configured log level",
	},
	&cli.BoolFlag{
		Name:  "tree",
		Usage: "print the resolved call tree of every call",
	},
}

func parseArgs(ctx *cli.Context) result.Result[args] {
	scenario := ctx.String("scenario")
	if scenario == "" && ctx.Args().Len() > 0 {
		scenario = ctx.Args().First()
	}
	if scenario == "" {
		return result.Err[args](ErrScenarioRequired)
	}
	return result.Ok(args{
		scenario: scenario,
		dataDir:  ctx.String("data-dir"),
		logLevel: ctx.String("log-level"),
		tree:     ctx.Bool("tree"),
	})
}
