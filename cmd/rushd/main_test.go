package main

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vancomm/minesweeper-rush/internal/levels"
	"github.com/vancomm/minesweeper-rush/internal/mines"
)

func run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetErr(&out)
	rootCmd.SetArgs(args)
	if len(rootCmd.Commands()) == 0 {
		rootCmd.AddCommand(serveCmd, trackCmd, replayCmd, migrateCmd)
	}
	err := rootCmd.Execute()
	return out.String(), err
}

func TestTrackCommand(t *testing.T) {
	trackFile = ""
	out, err := run(t, "track")
	require.NoError(t, err)
	track, err := levels.ParseTrack([]byte(out))
	require.NoError(t, err)
	assert.Equal(t, levels.DefaultTrack().Levels(), track.Levels())

	path := filepath.Join(t.TempDir(), "track.yaml")
	require.NoError(t, os.WriteFile(path, []byte(out), 0o644))
	out, err = run(t, "track", "-f", path)
	require.NoError(t, err)
	lines := strings.Split(strings.TrimSpace(out), "\n")
	assert.Len(t, lines, levels.DefaultTrack().Len())
	assert.True(t, strings.HasPrefix(lines[levels.DefaultTrack().StartIndex()], ">"))
}

func TestReplayCommand(t *testing.T) {
	b, err := mines.ParseBoard("*o\n..", nil)
	require.NoError(t, err)
	out, err := b.Snapshot().Serialize()
	require.NoError(t, err)
	path := filepath.Join(t.TempDir(), "board.yaml")
	require.NoError(t, os.WriteFile(path, []byte(out), 0o644))

	printed, err := run(t, "replay", path)
	require.NoError(t, err)
	assert.Contains(t, printed, "2x2, 1 mines, active")
	assert.Contains(t, printed, "# 1\n# #\n")

	_, err = run(t, "replay", filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)
}
