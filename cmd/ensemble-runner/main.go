package main

import (
	"fmt"
	"os"

	"github.com/urfave/cli/v2"

	"fadroma/modules/aggregate"
	"fadroma/modules/ensemble"
)

func main() {
	app := &cli.App{
		Name:      "ensemble-runner",
		Usage:     "runs a scenario of contract calls against an emulated chain",
		ArgsUsage: "[scenario]",
		Flags:     flags,
		Action:    run,
	}
	if err := app.Run(os.Args); err != nil {
		fmt.Println("error:", err)
		os.Exit(1)
	}
}

func run(ctx *cli.Context) error {
	parsed := parseArgs(ctx)
	if parsed.IsErr() {
		return parsed.UnwrapErr()
	}
	a := parsed.Unwrap()

	conf := ensemble.NewConfig(&a.dataDir)
	plugins := []aggregate.Plugin{
		conf,
		newRunner(a, conf, os.Stdout),
	}
	return aggregate.New(plugins).Run()
}
