package main

import (
	"testing"

	"github.com/alecthomas/kong"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vancomm/minesweeper/internal/mines"
)

func TestPlayParams(t *testing.T) {
	tests := []struct {
		name  string
		args  []string
		want  mines.GameParams
		valid bool
	}{
		{"default", []string{"play"}, mines.Presets[mines.Easy], true},
		{"preset", []string{"play", "-d", "hard"}, mines.Presets[mines.Hard], true},
		{"seed", []string{"play", "--seed", "5:3"}, mines.CustomParams(5, 3), true},
		{"seed wins over preset", []string{"play", "-d", "easy", "-s", "12:30"}, mines.Presets[mines.Medium], true},
		{"custom seed wins over preset", []string{"play", "-d", "hard", "-s", "6:4"}, mines.CustomParams(6, 4), true},
		{"bad seed", []string{"play", "-s", "3:9"}, mines.GameParams{}, false},
	}
	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			var cli CLI
			parser, err := kong.New(&cli, kong.Vars{"version": version})
			require.NoError(t, err)
			_, err = parser.Parse(test.args)
			require.NoError(t, err)

			got, err := cli.Play.params()
			if !test.valid {
				assert.ErrorIs(t, err, mines.ErrInvalidConfiguration)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, test.want, got)
		})
	}
}

func TestPlayRejectsUnknownDifficulty(t *testing.T) {
	var cli CLI
	parser, err := kong.New(&cli, kong.Vars{"version": version})
	require.NoError(t, err)
	_, err = parser.Parse([]string{"play", "-d", "insane"})
	assert.Error(t, err)
}

func TestMigrateFlags(t *testing.T) {
	var cli CLI
	parser, err := kong.New(&cli, kong.Vars{"version": version})
	require.NoError(t, err)
	ctx, err := parser.Parse([]string{"migrate", "--down", "-c", "config.json"})
	require.NoError(t, err)
	assert.Equal(t, "migrate", ctx.Command())
	assert.True(t, cli.Migrate.Down)
	assert.Contains(t, cli.Migrate.Config, "config.json")
}
