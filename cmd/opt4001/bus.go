package main

import (
	"strconv"

	"github.com/urfave/cli/v2"

	"github.com/mklimuk/opt4001"
	"github.com/mklimuk/opt4001/adapter"
	"github.com/mklimuk/opt4001/cmd/opt4001/console"
	"github.com/mklimuk/opt4001/i2c"
)

var busFlags = []cli.Flag{
	&cli.StringFlag{
		Name:    "adapter",
		Aliases: []string{"a"},
		Usage:   "bus adapter: mcp2221 or i2c",
		Value:   "mcp2221",
	},
	&cli.StringFlag{
		Name:    "device",
		Aliases: []string{"d"},
		Usage:   "i2c device (with -a i2c)",
		Value:   "/dev/i2c-1",
	},
	&cli.StringFlag{
		Name:  "addr",
		Usage: "7-bit sensor address",
		Value: "0x44",
	},
	&cli.BoolFlag{Name: "verbose", Aliases: []string{"v"}},
}

// openBus builds the transport selected on the command line.
func openBus(c *cli.Context) (opt4001.I2CBus, error) {
	switch c.String("adapter") {
	case "i2c":
		bus, err := i2c.NewGenericBus(c.String("device"))
		if err != nil {
			return nil, console.Exit(1, "bus initialization error: %s", console.Red(err))
		}
		return bus, nil
	default:
		a := adapter.NewMCP2221()
		if err := a.Init(); err != nil {
			return nil, console.Exit(1, "adapter initialization error: %s", console.Red(err))
		}
		return a, nil
	}
}

func sensorAddress(c *cli.Context) (byte, error) {
	addr, err := strconv.ParseUint(c.String("addr"), 0, 8)
	if err != nil {
		return 0, console.Exit(1, "invalid sensor address %s", console.Red(c.String("addr")))
	}
	return byte(addr), nil
}

func newSensor(c *cli.Context) (*opt4001.OPT4001, error) {
	bus, err := openBus(c)
	if err != nil {
		return nil, err
	}
	addr, err := sensorAddress(c)
	if err != nil {
		return nil, err
	}
	return opt4001.New(bus, opt4001.WithAddress(addr)), nil
}
