package main

import (
	"context"

	"github.com/urfave/cli/v2"
	"gopkg.in/yaml.v3"

	"github.com/mklimuk/opt4001/adapter"
	"github.com/mklimuk/opt4001/cmd/opt4001/console"
)

var adapterCmd = cli.Command{
	Name: "adapter",
	Subcommands: []*cli.Command{
		&adapterStatusCmd,
		&adapterReleaseCmd,
	},
}

var adapterStatusCmd = cli.Command{
	Name:  "status",
	Usage: "print the MCP2221 I2C engine status",
	Flags: []cli.Flag{
		&cli.BoolFlag{Name: "verbose", Aliases: []string{"v"}},
	},
	Action: func(c *cli.Context) error {
		ctx := console.SetVerbose(context.Background(), c.Bool("verbose"))
		a := adapter.NewMCP2221()
		if err := a.Init(); err != nil {
			return console.Exit(1, "adapter initialization error: %s", console.Red(err))
		}
		status, err := a.Status(ctx)
		if err != nil {
			return console.Exit(1, "status request error: %s", console.Red(err))
		}
		out, err := yaml.Marshal(status)
		if err != nil {
			return console.Exit(1, "error encoding status: %s", console.Red(err))
		}
		console.Print(string(out))
		return nil
	},
}

var adapterReleaseCmd = cli.Command{
	Name:  "release",
	Usage: "cancel any pending transfer and free the I2C engine",
	Flags: []cli.Flag{
		&cli.BoolFlag{Name: "verbose", Aliases: []string{"v"}},
	},
	Action: func(c *cli.Context) error {
		ctx := console.SetVerbose(context.Background(), c.Bool("verbose"))
		a := adapter.NewMCP2221()
		if err := a.Init(); err != nil {
			return console.Exit(1, "adapter initialization error: %s", console.Red(err))
		}
		status, err := a.ReleaseBus(ctx)
		if err != nil {
			return console.Exit(1, "release error: %s", console.Red(err))
		}
		console.Infof("bus released, read pending: %d", status.ReadPending)
		return nil
	},
}
