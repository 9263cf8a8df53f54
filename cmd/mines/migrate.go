package main

import (
	"errors"
	"fmt"

	"github.com/golang-migrate/migrate/v4"
	"github.com/sirupsen/logrus"

	"github.com/vancomm/minesweeper/internal/config"
	"github.com/vancomm/minesweeper/internal/database"
)

type MigrateCmd struct {
	Config string `short:"c" type:"path" help:"Config file path; the environment is used when omitted"`
	Down   bool   `help:"Roll back every migration instead of applying them"`
}

func (c *MigrateCmd) Run(log *logrus.Logger) error {
	cfg, err := config.Load(c.Config)
	if err != nil {
		return err
	}
	url, ok := cfg.DbURL()
	if !ok {
		return errors.New("no database configured")
	}

	m, err := database.NewMigrator(url)
	if err != nil {
		return err
	}
	defer m.Close()

	if c.Down {
		err = m.Down()
	} else {
		err = m.Up()
	}
	if errors.Is(err, migrate.ErrNoChange) {
		log.Info("no change")
		return nil
	}
	if err != nil {
		return fmt.Errorf("unable to migrate: %w", err)
	}

	version, dirty, err := m.Version()
	if errors.Is(err, migrate.ErrNilVersion) {
		log.Info("all migrations rolled back")
		return nil
	}
	if err != nil {
		return err
	}
	log.WithFields(logrus.Fields{"version": version, "dirty": dirty}).Info("migrated")
	return nil
}
