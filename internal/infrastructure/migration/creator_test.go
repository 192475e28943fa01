package migration

import (
	"os"
	"path/filepath"
	"runtime"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSanitizeName(t *testing.T) {
	tests := []struct {
		input    string
		expected string
	}{
		{"add customers table", "add_customers_table"},
		{"Add-Customers-Table", "add_customers_table"},
		{"ADD__SALE__ITEMS", "add_sale_items"},
		{"Index 2 products", "index_2_products"},
		{"   spaces   ", "spaces"},
		{"special!@#$chars", "specialchars"},
		{"trailing_", "trailing"},
		{"_leading", "leading"},
		{"", ""},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			assert.Equal(t, tt.expected, sanitizeName(tt.input))
		})
	}
}

func TestCreateMigration(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "nested", "migrations")
	now := time.Date(2024, 7, 1, 9, 30, 5, 0, time.UTC)

	mf, err := createMigrationAt(dir, "Add customer notes", "Free-text notes on customers", now)
	require.NoError(t, err)

	assert.Equal(t, "20240701093005", mf.Version)
	assert.Equal(t, filepath.Join(dir, "20240701093005_add_customer_notes.up.sql"), mf.UpPath)
	assert.Equal(t, filepath.Join(dir, "20240701093005_add_customer_notes.down.sql"), mf.DownPath)

	up, err := os.ReadFile(mf.UpPath)
	require.NoError(t, err)
	assert.Contains(t, string(up), "-- Migration: add_customer_notes")
	assert.Contains(t, string(up), "Free-text notes on customers")

	down, err := os.ReadFile(mf.DownPath)
	require.NoError(t, err)
	assert.Contains(t, string(down), "(Rollback)")

	t.Run("refuses to overwrite", func(t *testing.T) {
		_, err := createMigrationAt(dir, "add customer notes", "", now)
		assert.Error(t, err)
	})

	t.Run("rejects empty name", func(t *testing.T) {
		_, err := createMigrationAt(dir, "!!!", "", now)
		assert.Error(t, err)
	})
}

func TestListMigrations(t *testing.T) {
	dir := t.TempDir()
	for _, f := range []string{
		"20240601000002_create_catalog.up.sql",
		"20240601000002_create_catalog.down.sql",
		"20240601000001_create_users.up.sql",
		"20240601000001_create_users.down.sql",
		"README.md",
		".gitkeep",
	} {
		require.NoError(t, os.WriteFile(filepath.Join(dir, f), []byte("-- test"), 0o644))
	}
	require.NoError(t, os.Mkdir(filepath.Join(dir, "old.up.sql"), 0o755))

	names, err := ListMigrations(dir)
	require.NoError(t, err)
	assert.Equal(t, []string{"20240601000001_create_users", "20240601000002_create_catalog"}, names)

	t.Run("missing directory", func(t *testing.T) {
		names, err := ListMigrations(filepath.Join(dir, "absent"))
		require.NoError(t, err)
		assert.Empty(t, names)
	})
}

func TestPendingMigrations(t *testing.T) {
	available := []string{
		"20240601000001_create_users",
		"20240601000002_create_catalog",
		"20240601000003_create_sales",
	}

	pending, err := PendingMigrations(available, 0)
	require.NoError(t, err)
	assert.Equal(t, available, pending)

	pending, err = PendingMigrations(available, 20240601000002)
	require.NoError(t, err)
	assert.Equal(t, []string{"20240601000003_create_sales"}, pending)

	_, err = PendingMigrations([]string{"init_schema"}, 0)
	assert.Error(t, err)
}

// The shipped migrations must pair up and carry numeric versions.
func TestRepositoryMigrations(t *testing.T) {
	_, file, _, ok := runtime.Caller(0)
	require.True(t, ok)
	dir := filepath.Join(filepath.Dir(file), "..", "..", "..", "migrations")

	names, err := ListMigrations(dir)
	require.NoError(t, err)
	require.NotEmpty(t, names)

	_, err = PendingMigrations(names, 0)
	require.NoError(t, err)
	for _, name := range names {
		_, err := os.Stat(filepath.Join(dir, name+".down.sql"))
		assert.NoError(t, err, "missing down migration for %s", name)
	}
}
