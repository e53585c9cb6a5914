package migrations

import (
	"io/fs"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEmbeddedMigrations(t *testing.T) {
	entries, err := fs.ReadDir(files, dir)
	require.NoError(t, err)
	require.NotEmpty(t, entries)

	for _, e := range entries {
		data, err := fs.ReadFile(files, dir+"/"+e.Name())
		require.NoError(t, err)

		body := string(data)
		assert.True(t, strings.HasPrefix(body, "-- +goose Up"), e.Name())
		assert.Contains(t, body, "-- +goose Down", e.Name())
	}
}

func TestSchemaGuardsOverlaps(t *testing.T) {
	data, err := fs.ReadFile(files, dir+"/00001_init_schema.sql")
	require.NoError(t, err)

	assert.Contains(t, string(data), "EXCLUDE USING gist")
	assert.Contains(t, string(data), "WHERE (status IN ('pending', 'confirmed'))")
}
