package database

import (
	"testing"
	"testing/fstest"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"scaffold-backend/migrations"
)

func TestPendingMigrations(t *testing.T) {
	files := fstest.MapFS{
		"002_contracts.sql":  {Data: []byte("SELECT 1")},
		"001_customers.sql":  {Data: []byte("SELECT 1")},
		"003_payments.sql":   {Data: []byte("SELECT 1")},
		"099_reset_all.sql":  {Data: []byte("DROP TABLE x")},
		"README.md":          {Data: []byte("docs")},
		"old/001_legacy.sql": {Data: []byte("SELECT 1")},
	}

	pending, err := PendingMigrations(files, map[string]bool{"002_contracts.sql": true})
	require.NoError(t, err)
	assert.Equal(t, []string{"001_customers.sql", "003_payments.sql"}, pending)
}

func TestEmbeddedMigrationsAreOrdered(t *testing.T) {
	pending, err := PendingMigrations(migrations.FS, nil)
	require.NoError(t, err)
	require.NotEmpty(t, pending)
	assert.Equal(t, "001_create_users.sql", pending[0])
}
