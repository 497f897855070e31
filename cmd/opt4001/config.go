package main

import (
	"context"
	"os"

	"github.com/urfave/cli/v2"
	"gopkg.in/yaml.v3"

	"github.com/mklimuk/opt4001"
	"github.com/mklimuk/opt4001/cmd/opt4001/console"
)

var configCmd = cli.Command{
	Name: "config",
	Subcommands: []*cli.Command{
		&configShowCmd,
		&configWriteCmd,
	},
}

var configShowCmd = cli.Command{
	Name:  "show",
	Usage: "read the configuration register and print it as yaml",
	Flags: busFlags,
	Action: func(c *cli.Context) error {
		ctx := console.SetVerbose(context.Background(), c.Bool("verbose"))
		s, err := newSensor(c)
		if err != nil {
			return err
		}
		cfg, err := s.ReadConfig(ctx)
		if err != nil {
			return console.Exit(1, "error reading configuration: %s", console.Red(err))
		}
		out, err := yaml.Marshal(cfg)
		if err != nil {
			return console.Exit(1, "error encoding configuration: %s", console.Red(err))
		}
		console.Print(string(out))
		return nil
	},
}

var configWriteCmd = cli.Command{
	Name:  "write",
	Usage: "write the configuration register from a yaml file",
	Flags: append([]cli.Flag{
		&cli.StringFlag{
			Name:    "file",
			Aliases: []string{"f"},
			Usage:   "yaml file with the configuration to program",
		},
		&cli.BoolFlag{
			Name:  "yes",
			Usage: "skip the confirmation prompt",
		},
	}, busFlags...),
	Action: func(c *cli.Context) error {
		ctx := console.SetVerbose(context.Background(), c.Bool("verbose"))
		cfg := opt4001.DefaultConfig()
		if file := c.String("file"); file != "" {
			raw, err := os.ReadFile(file)
			if err != nil {
				return console.Exit(1, "could not read %s: %s", file, console.Red(err))
			}
			if err := yaml.Unmarshal(raw, &cfg); err != nil {
				return console.Exit(1, "could not parse %s: %s", file, console.Red(err))
			}
		}
		if !c.Bool("yes") {
			answer, err := console.YesOrNo("write configuration to the sensor?")
			if err != nil {
				return err
			}
			if answer != console.Yes {
				console.Info("aborted")
				return nil
			}
		}
		s, err := newSensor(c)
		if err != nil {
			return err
		}
		if err := s.Configure(ctx, cfg); err != nil {
			return console.Exit(1, "error writing configuration: %s", console.Red(err))
		}
		console.PInfof(console.PictoBulb, "configuration written")
		return nil
	},
}
