package main

import (
	"context"
	"fmt"

	"github.com/urfave/cli/v2"

	"github.com/mklimuk/opt4001/cmd/opt4001/console"
)

var readCmd = cli.Command{
	Name: "read",
	Subcommands: []*cli.Command{
		&readLuxCmd,
		&readResultCmd,
		&readFIFOCmd,
	},
}

var readLuxCmd = cli.Command{
	Name:    "lux",
	Aliases: []string{"lx"},
	Usage:   "read the calibrated illuminance from the result register",
	Flags:   busFlags,
	Action: func(c *cli.Context) error {
		ctx := console.SetVerbose(context.Background(), c.Bool("verbose"))
		s, err := newSensor(c)
		if err != nil {
			return err
		}
		if err := s.CheckID(ctx); err != nil {
			return console.Exit(1, "device check failed: %s", console.Red(err))
		}
		lux, err := s.Lux(ctx)
		if err != nil {
			return console.Exit(1, "error getting light sensor read: %s", console.Red(err))
		}
		console.Printf("%s lux\n", console.White(fmt.Sprintf("%.4f", lux)))
		return nil
	},
}

var readResultCmd = cli.Command{
	Name:   "result",
	Usage:  "read illuminance plus sample counter and checksum",
	Flags:  busFlags,
	Action: func(c *cli.Context) error {
		ctx := console.SetVerbose(context.Background(), c.Bool("verbose"))
		s, err := newSensor(c)
		if err != nil {
			return err
		}
		res, err := s.Result(ctx)
		if err != nil {
			return console.Exit(1, "error getting light sensor read: %s", console.Red(err))
		}
		console.Printf("%s lux (counter %d, crc %#x)\n", console.White(fmt.Sprintf("%.4f", res.Lux)), res.Counter, res.CRC)
		if !res.Valid() {
			console.Warn("sample checksum mismatch")
		}
		return nil
	},
}

var readFIFOCmd = cli.Command{
	Name:  "fifo",
	Usage: "read a latched sample from FIFO slot 0-2",
	Flags: append([]cli.Flag{
		&cli.IntFlag{
			Name:    "slot",
			Aliases: []string{"s"},
			Value:   0,
		},
	}, busFlags...),
	Action: func(c *cli.Context) error {
		ctx := console.SetVerbose(context.Background(), c.Bool("verbose"))
		s, err := newSensor(c)
		if err != nil {
			return err
		}
		res, err := s.ResultFIFO(ctx, c.Int("slot"))
		if err != nil {
			return console.Exit(1, "error getting FIFO read: %s", console.Red(err))
		}
		console.Printf("%s lux (counter %d, crc %#x)\n", console.White(fmt.Sprintf("%.4f", res.Lux)), res.Counter, res.CRC)
		return nil
	},
}
