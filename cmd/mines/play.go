package main

import (
	"errors"
	"fmt"
	"io"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/coder/quartz"
	"github.com/sirupsen/logrus"

	"github.com/vancomm/minesweeper/internal/mines"
	"github.com/vancomm/minesweeper/internal/records"
	"github.com/vancomm/minesweeper/internal/tui"
)

type PlayCmd struct {
	Difficulty string `short:"d" default:"easy" enum:"easy,medium,hard" help:"Preset difficulty (${enum})"`
	Seed       string `short:"s" help:"Custom board as size:mines, overrides --difficulty"`
}

func (c *PlayCmd) params() (mines.GameParams, error) {
	if c.Seed != "" {
		return mines.ParseSeed(c.Seed)
	}
	params, ok := mines.Preset(c.Difficulty)
	if !ok {
		return mines.GameParams{}, fmt.Errorf("unknown difficulty %q", c.Difficulty)
	}
	return params, nil
}

func (c *PlayCmd) Run(log *logrus.Logger) error {
	params, err := c.params()
	if err != nil {
		return err
	}
	// the alt screen owns the terminal
	log.SetOutput(io.Discard)

	m, err := tui.NewModel(log, params, records.NewMemory(quartz.NewReal()))
	if err != nil {
		return err
	}
	if _, err := tea.NewProgram(m, tea.WithAltScreen()).Run(); err != nil &&
		!errors.Is(err, tea.ErrProgramKilled) {
		return err
	}
	return nil
}
