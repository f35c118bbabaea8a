package main

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRootCmd_Subcommands(t *testing.T) {
	root := newRootCmd()
	names := []string{}
	for _, c := range root.Commands() {
		names = append(names, c.Name())
	}
	assert.ElementsMatch(t, []string{"serve", "migrate"}, names)
}

func TestMigrateCmd_SQLite(t *testing.T) {
	t.Setenv("DB_DRIVER", "sqlite")
	t.Setenv("DB_CONN", filepath.Join(t.TempDir(), "places.db"))
	t.Setenv("LOG_LEVEL", "error")

	root := newRootCmd()
	root.SetArgs([]string{"migrate"})
	require.NoError(t, root.Execute())

	// a second run finds nothing to do
	root = newRootCmd()
	root.SetArgs([]string{"migrate"})
	assert.NoError(t, root.Execute())
}

func TestServeCmd_RequiresKey(t *testing.T) {
	t.Setenv("JWT_KEY", "")
	t.Setenv("DB_DRIVER", "sqlite")
	t.Setenv("DB_CONN", filepath.Join(t.TempDir(), "places.db"))

	root := newRootCmd()
	root.SetArgs([]string{"serve"})
	assert.ErrorContains(t, root.Execute(), "JWT_KEY is required")
}
