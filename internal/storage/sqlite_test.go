package storage

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/dhiksjf/serverstat-hub/internal/models"
)

func newTestRepo(t *testing.T) *Repository {
	t.Helper()

	repo, err := New(filepath.Join(t.TempDir(), "test.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = repo.Close() })

	return repo
}

func sampleConfig(id string) models.WidgetConfig {
	cfg := models.WidgetConfig{
		ID:         id,
		ServerHost: "203.0.113.5",
		ServerPort: 27015,
		Theme:      "terminal",
		DarkMode:   true,
		CreatedAt:  time.Now().UTC().Truncate(time.Second),
	}
	cfg.ApplyDefaults()

	return cfg
}

func TestSaveAndGetConfig(t *testing.T) {
	repo := newTestRepo(t)

	want := sampleConfig("cfg-1")
	require.NoError(t, repo.SaveConfig(want))

	got, err := repo.GetConfig("cfg-1")
	require.NoError(t, err)
	require.NotNil(t, got)
	require.Equal(t, want.ID, got.ID)
	require.Equal(t, want.ServerHost, got.ServerHost)
	require.Equal(t, want.ServerPort, got.ServerPort)
	require.Equal(t, want.Theme, got.Theme)
	require.Equal(t, want.EnabledFields, got.EnabledFields)
	require.True(t, got.DarkMode)
}

func TestGetConfigMissing(t *testing.T) {
	repo := newTestRepo(t)

	got, err := repo.GetConfig("nope")
	require.NoError(t, err)
	require.Nil(t, got)
}

func TestGetConfigsNewestFirst(t *testing.T) {
	repo := newTestRepo(t)

	older := sampleConfig("older")
	older.CreatedAt = time.Now().UTC().Add(-time.Hour)
	newer := sampleConfig("newer")

	require.NoError(t, repo.SaveConfig(older))
	require.NoError(t, repo.SaveConfig(newer))

	configs, err := repo.GetConfigs()
	require.NoError(t, err)
	require.Len(t, configs, 2)
	require.Equal(t, "newer", configs[0].ID)
	require.Equal(t, "older", configs[1].ID)
}

func TestDeleteConfig(t *testing.T) {
	repo := newTestRepo(t)

	require.NoError(t, repo.SaveConfig(sampleConfig("gone")))
	require.NoError(t, repo.DeleteConfig("gone"))

	got, err := repo.GetConfig("gone")
	require.NoError(t, err)
	require.Nil(t, got)

	// Deleting a missing config is not an error
	require.NoError(t, repo.DeleteConfig("gone"))
}

func TestDuplicateIDRejected(t *testing.T) {
	repo := newTestRepo(t)

	require.NoError(t, repo.SaveConfig(sampleConfig("dup")))
	require.Error(t, repo.SaveConfig(sampleConfig("dup")))
}
