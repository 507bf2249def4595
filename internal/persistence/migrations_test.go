package persistence

import (
	"strings"
	"testing"
	"testing/fstest"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMigrationNamesSorted(t *testing.T) {
	fsys := fstest.MapFS{
		"migrations/0002_b.sql": {Data: []byte("SELECT 2;")},
		"migrations/0001_a.sql": {Data: []byte("SELECT 1;")},
		"migrations/nested/x":   {Data: []byte("ignored")},
	}

	names, err := migrationNames(fsys)
	require.NoError(t, err)
	assert.Equal(t, []string{"0001_a.sql", "0002_b.sql"}, names)
}

func TestEmbeddedMigrationsDefineSchema(t *testing.T) {
	names, err := migrationNames(migrationFiles)
	require.NoError(t, err)
	require.NotEmpty(t, names)

	var all strings.Builder
	for _, name := range names {
		data, err := migrationFiles.ReadFile(migrationsDir + "/" + name)
		require.NoError(t, err)
		all.Write(data)
	}
	schema := all.String()

	assert.Contains(t, schema, "CONSTRAINT users_email_key UNIQUE (email)")
	assert.Contains(t, schema, "REFERENCES users (id)")
	assert.Contains(t, schema, "status      TEXT NOT NULL DEFAULT 'Open'")
}
