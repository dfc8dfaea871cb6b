package app

import (
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dori/tallyboard/internal/config"
	"github.com/dori/tallyboard/internal/tracker"
)

func testConfig(t *testing.T) *config.Config {
	t.Helper()
	t.Setenv("TALLY_DATA_DIR", t.TempDir())
	t.Setenv("TALLY_NOTIFY", "false")
	cfg, err := config.Load("")
	require.NoError(t, err)
	return cfg
}

func TestNewLoadsSeedState(t *testing.T) {
	a, err := New(testConfig(t))
	require.NoError(t, err)
	defer a.Close()

	assert.Len(t, a.State.Boards, 2)
	assert.Len(t, a.State.Teams, 1)
	assert.Equal(t, 0, a.State.Rewards.Points)
	assert.False(t, a.Notifier.IsEnabled())
}

func TestSingleInstanceLock(t *testing.T) {
	cfg := testConfig(t)

	first, err := New(cfg)
	require.NoError(t, err)

	_, err = New(cfg)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "already running")

	require.NoError(t, first.Close())

	second, err := New(cfg)
	require.NoError(t, err)
	second.Close()
}

func TestCommitPersists(t *testing.T) {
	cfg := testConfig(t)

	a, err := New(cfg)
	require.NoError(t, err)

	s, eff, err := tracker.CreateBoard(a.State, "Sprint 1", "Core", "", a.Now())
	require.NoError(t, err)
	require.NoError(t, a.Commit(s, eff))
	assert.Equal(t, "Sprint 1", a.State.Boards[0].Name)
	require.NoError(t, a.Close())

	reopened, err := New(cfg)
	require.NoError(t, err)
	defer reopened.Close()
	require.Len(t, reopened.State.Boards, 3)
	assert.Equal(t, "Sprint 1", reopened.State.Boards[0].Name)
}

func TestDebugLogFile(t *testing.T) {
	cfg := testConfig(t)
	cfg.Debug = true

	a, err := New(cfg)
	require.NoError(t, err)
	require.NoError(t, a.Close())

	data, err := os.ReadFile(cfg.LogPath())
	require.NoError(t, err)
	assert.Contains(t, string(data), "state loaded")
}
