package main

import (
	"github.com/alecthomas/kong"
	"github.com/sirupsen/logrus"
)

var version = "dev"

type CLI struct {
	Version kong.VersionFlag `short:"v" help:"Show version"`
	Serve   ServeCmd         `cmd:"" help:"Run the HTTP and WebSocket game server"`
	Migrate MigrateCmd       `cmd:"" help:"Apply or roll back database migrations"`
	Play    PlayCmd          `cmd:"" help:"Play a game in the terminal"`
}

func main() {
	log := logrus.New()

	var cli CLI
	ctx := kong.Parse(&cli,
		kong.Name("mines"),
		kong.Description("Minesweeper server and terminal client"),
		kong.UsageOnError(),
		kong.ConfigureHelp(kong.HelpOptions{
			Compact: true,
		}),
		kong.Vars{
			"version": version,
		},
		kong.Bind(log),
	)
	err := ctx.Run()
	ctx.FatalIfErrorf(err)
}
