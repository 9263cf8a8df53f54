package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/sirupsen/logrus"

	"github.com/vancomm/minesweeper/internal/app"
	"github.com/vancomm/minesweeper/internal/config"
)

type ServeCmd struct {
	Config string `short:"c" type:"path" help:"Config file path; the environment is used when omitted"`
}

func (c *ServeCmd) Run(log *logrus.Logger) error {
	ctx, stop := signal.NotifyContext(
		context.Background(),
		os.Interrupt, syscall.SIGTERM,
	)
	defer stop()

	cfg, err := config.Load(c.Config)
	if err != nil {
		return err
	}
	if err := config.SetupLogging(log, cfg); err != nil {
		return err
	}

	log.Info("starting up, mode = ", cfg.Mode)
	log.WithFields(cfg.Fields()).Debug("config")

	err = app.New(log, cfg).Start(ctx)
	if err != nil {
		log.Error("exit reason: ", err)
	}
	return err
}
