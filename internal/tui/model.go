// Package tui plays a local game in the terminal.
package tui

import (
	"context"
	"errors"
	"fmt"
	"hash/maphash"
	"math/rand/v2"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/coder/quartz"
	"github.com/sirupsen/logrus"

	"github.com/vancomm/minesweeper/internal/mines"
	"github.com/vancomm/minesweeper/internal/records"
)

type tickMsg time.Time

type Option func(*Model)

func WithClock(clock quartz.Clock) Option {
	return func(m *Model) {
		m.clock = clock
	}
}

func WithRand(newRand func() *rand.Rand) Option {
	return func(m *Model) {
		m.newRand = newRand
	}
}

func createRand() *rand.Rand {
	return rand.New(rand.NewPCG(
		new(maphash.Hash).Sum64(), new(maphash.Hash).Sum64(),
	))
}

type Model struct {
	log     *logrus.Logger
	params  mines.GameParams
	records records.Store
	clock   quartz.Clock
	newRand func() *rand.Rand

	keys keyMap
	help help.Model

	game      *mines.GameSession
	row, col  int
	startedAt time.Time
	elapsed   time.Duration
	newRecord bool
	best      time.Duration
	status    string
	err       error
}

func NewModel(
	log *logrus.Logger, params mines.GameParams, recs records.Store, opts ...Option,
) (*Model, error) {
	m := &Model{
		log:     log,
		params:  params,
		records: recs,
		clock:   quartz.NewReal(),
		newRand: createRand,
		keys:    keys,
		help:    help.New(),
	}
	for _, opt := range opts {
		opt(m)
	}
	if err := m.reset(); err != nil {
		return nil, err
	}
	return m, nil
}

func (m *Model) reset() error {
	game, err := mines.NewGame(m.params, m.newRand())
	if err != nil {
		return err
	}
	m.game = game
	m.row, m.col = m.params.Size/2, m.params.Size/2
	m.startedAt = time.Time{}
	m.elapsed = 0
	m.newRecord = false
	m.status = ""
	m.err = nil
	m.best = 0
	if m.params.Ranked() {
		best, err := m.records.Get(context.Background(), m.params.Difficulty)
		if err == nil {
			m.best = best
		} else if !errors.Is(err, records.ErrNoRecord) {
			m.log.WithError(err).Warn("unable to load best time")
		}
	}
	return nil
}

func tick() tea.Cmd {
	return tea.Tick(time.Second, func(t time.Time) tea.Msg {
		return tickMsg(t)
	})
}

func (m *Model) Init() tea.Cmd {
	return tick()
}

func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tickMsg:
		return m, tick()

	case tea.WindowSizeMsg:
		m.help.Width = msg.Width

	case tea.KeyMsg:
		last := m.params.Size - 1
		switch {
		case key.Matches(msg, m.keys.Quit):
			return m, tea.Quit
		case key.Matches(msg, m.keys.Help):
			m.help.ShowAll = !m.help.ShowAll
		case key.Matches(msg, m.keys.Up):
			m.row = max(m.row-1, 0)
		case key.Matches(msg, m.keys.Down):
			m.row = min(m.row+1, last)
		case key.Matches(msg, m.keys.Left):
			m.col = max(m.col-1, 0)
		case key.Matches(msg, m.keys.Right):
			m.col = min(m.col+1, last)
		case key.Matches(msg, m.keys.NewGame):
			if err := m.reset(); err != nil {
				m.err = err
			}
		case key.Matches(msg, m.keys.Reveal):
			m.move(m.game.Reveal)
		case key.Matches(msg, m.keys.Chord):
			m.move(m.game.Chord)
		case key.Matches(msg, m.keys.Flag):
			_, err := m.game.ToggleFlag(m.row, m.col)
			m.err = err
		}
	}
	return m, nil
}

func (m *Model) move(apply func(row, col int) (mines.Move, error)) {
	started := m.game.Started()
	move, err := apply(m.row, m.col)
	m.err = err
	if err != nil {
		return
	}
	if !started && m.game.Started() {
		m.startedAt = m.clock.Now()
	}
	if move.Outcome != mines.InProgress {
		m.finish(move.Outcome)
	}
}

func (m *Model) finish(outcome mines.Outcome) {
	m.elapsed = m.clock.Since(m.startedAt)
	log := m.log.WithFields(logrus.Fields{
		"seed":    m.params.Seed(),
		"outcome": outcome,
		"elapsed": m.elapsed,
	})
	log.Debug("game over")

	if outcome == mines.Lost {
		m.status = "Boom! You lost."
		return
	}
	m.status = "You won!"
	if !m.params.Ranked() {
		return
	}
	ok, err := m.records.Submit(context.Background(), m.params.Difficulty, m.elapsed)
	if err != nil {
		log.WithError(err).Error("unable to submit best time")
		return
	}
	if ok {
		m.newRecord = true
		m.best = m.elapsed
		m.status = "You won! New best time."
	}
}

// Elapsed is the time spent on the current game so far.
func (m *Model) Elapsed() time.Duration {
	switch {
	case !m.game.Started():
		return 0
	case m.game.Over():
		return m.elapsed
	default:
		return m.clock.Since(m.startedAt)
	}
}

func (m *Model) header(snap mines.Snapshot) string {
	name := string(m.params.Difficulty)
	if !m.params.Ranked() {
		name = m.params.Seed()
	}
	parts := []string{
		name,
		fmt.Sprintf("mines %d", snap.MinesLeft),
		fmt.Sprintf("time %03d", int(m.Elapsed().Seconds())),
	}
	if m.best > 0 {
		parts = append(parts, fmt.Sprintf("best %.1fs", m.best.Seconds()))
	}
	return HeaderStyle.Render(strings.Join(parts, "  "))
}

func (m *Model) board(snap mines.Snapshot) string {
	var b strings.Builder
	for row := range snap.Size {
		for col := range snap.Size {
			state := snap.Grid[row*snap.Size+col]
			style := cellStyle(state)
			if row == m.row && col == m.col && snap.Outcome == mines.InProgress {
				style = style.Inherit(CursorStyle)
			}
			if col > 0 {
				b.WriteByte(' ')
			}
			b.WriteString(style.Render(state.String()))
		}
		if row < snap.Size-1 {
			b.WriteByte('\n')
		}
	}
	return BoardStyle.Render(b.String())
}

func (m *Model) View() string {
	snap := m.game.Snapshot()

	var status string
	switch {
	case m.err != nil:
		status = ErrorStyle.Render(m.err.Error())
	case snap.Outcome == mines.Won:
		status = SuccessStyle.Render(m.status)
	case snap.Outcome == mines.Lost:
		status = MineStyle.Render(m.status)
	default:
		status = InfoStyle.Render(fmt.Sprintf("%d:%d", m.row, m.col))
	}

	return lipgloss.JoinVertical(lipgloss.Left,
		m.header(snap),
		m.board(snap),
		status,
		m.help.View(m.keys),
	) + "\n"
}
