package main

import (
	"github.com/alecthomas/kong"

	"github.com/romeopuiu/scratch-game/config"
	"github.com/romeopuiu/scratch-game/logger"
)

// version is set by ldflags during build
var version = "dev"

type CLI struct {
	Version  kong.VersionFlag `short:"v" help:"Show version"`
	LogLevel string           `default:"warn" enum:"debug,info,warn,error" help:"Log level (logs go to stderr)"`

	Play     PlayCmd     `cmd:"" help:"Play one scratch card and print the result as JSON"`
	Simulate SimulateCmd `cmd:"" help:"Play many cards and print aggregate statistics"`
}

func main() {
	var cli CLI
	ctx := kong.Parse(&cli,
		kong.Name("scratch"),
		kong.Description("Grid scratch card game"),
		kong.UsageOnError(),
		kong.ConfigureHelp(kong.HelpOptions{
			Compact: true,
		}),
		kong.Vars{
			"version": version,
		},
	)
	err := logger.Init(config.LogConfig{Level: cli.LogLevel, Format: "console", Output: "stderr"})
	ctx.FatalIfErrorf(err)
	defer logger.Sync()

	err = ctx.Run(logger.L())
	ctx.FatalIfErrorf(err)
}
