package app

import (
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, content string) string {
	path := t.TempDir() + "/config.toml"
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestLoadConfig(t *testing.T) {
	path := writeConfig(t, `
[server]
port = ":8080"

[database]
dsn = "registrar.db"
migrations_dir = "./migrations"

[reconcile]
schedule = "0 3 * * *"
`)

	config, err := LoadConfig(path)
	require.NoError(t, err)

	assert.Equal(t, ":8080", config.Server.Port)
	assert.Equal(t, "0 3 * * *", config.Reconcile.Schedule)
	// Defaults kick in for omitted sections.
	assert.Equal(t, "YMS", config.Registry.SchoolPrefix)
	assert.Equal(t, 100.0, config.Scoring.MaxScorePerSubject)
}

func TestLoadConfigRequiresPort(t *testing.T) {
	path := writeConfig(t, `
[database]
dsn = "registrar.db"
`)

	_, err := LoadConfig(path)
	assert.Error(t, err)
}

func TestLoadConfigScheduleOptional(t *testing.T) {
	path := writeConfig(t, `
[server]
port = ":8080"
`)

	config, err := LoadConfig(path)
	require.NoError(t, err)
	assert.Empty(t, config.Reconcile.Schedule)
}
