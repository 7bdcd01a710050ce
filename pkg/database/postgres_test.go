package database

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/noah-isme/dept-routine-api/pkg/config"
)

func TestDSN(t *testing.T) {
	dsn := DSN(config.DatabaseConfig{
		Host:     "db",
		Port:     5433,
		User:     "routine",
		Password: "secret",
		Name:     "dept_routine",
		SSLMode:  "disable",
	})

	assert.Equal(t, "host=db port=5433 user=routine password=secret dbname=dept_routine sslmode=disable", dsn)
}

func TestMigrationsEmbedded(t *testing.T) {
	entries, err := migrationsFS.ReadDir("migrations")
	assert.NoError(t, err)

	var names []string
	for _, entry := range entries {
		names = append(names, entry.Name())
	}
	assert.Contains(t, names, "000001_create_routine_tables.up.sql")
	assert.Contains(t, names, "000001_create_routine_tables.down.sql")
}
