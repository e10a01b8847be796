package sqlforge_test

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"

	"github.com/syssam/sqlforge"
	"github.com/syssam/sqlforge/compiler/gen"
)

const definition = `{
  "dialect": "oracle",
  "tables": [
    {
      "name": "orders",
      "fields": [
        {"name": "id", "type": "NUMBER", "nullable": false, "is_primary_key": true},
        {"name": "customer_id", "type": "NUMBER", "nullable": false, "foreign_key": {"referenced_table": "customers", "referenced_column": "id"}},
        {"name": "total", "type": "NUMBER(10,2)", "nullable": false},
        {"name": "placed_on", "type": "DATE"}
      ]
    },
    {
      "name": "customers",
      "fields": [
        {"name": "id", "type": "NUMBER", "nullable": false, "is_primary_key": true},
        {"name": "name", "type": "VARCHAR2(100)", "nullable": false, "comment": "Customer name"},
        {"name": "email", "type": "VARCHAR2(150)", "unique": true},
        {"name": "status", "type": "VARCHAR2(20)", "allowed_values": ["ACTIVE", "INACTIVE"]},
        {"name": "created_at", "type": "DATE", "default": "current timestamp"}
      ]
    }
  ]
}`

func TestGenerate(t *testing.T) {
	require := require.New(t)
	dir := t.TempDir()
	defPath := filepath.Join(dir, "schema.json")
	require.NoError(os.WriteFile(defPath, []byte(definition), 0o644))
	outDir := filepath.Join(dir, "output")

	result, err := sqlforge.Generate(context.Background(), defPath, outDir,
		gen.WithAuthor("dba-team"),
		gen.WithRunID(uuid.MustParse("a2c8e1ce-9c2b-4b11-8f61-000000000003")),
		gen.WithClock(func() time.Time {
			return time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
		}),
	)
	require.NoError(err)
	require.Empty(result.Diagnostics)

	// Customers precede orders even though the definition lists them second.
	require.Contains(result.Explanation, "1. customers")
	require.Contains(result.Explanation, "2. orders (after customers)")

	// Four scripts per table, under one directory per category.
	require.Equal(8, result.Metrics.FilesWritten)
	for _, name := range []string{
		"tables/001_customers.sql",
		"tables/002_orders.sql",
		"views/001_customers_view.sql",
		"views/002_orders_view.sql",
		"data/001_customers_data.sql",
		"data/002_orders_data.sql",
		"packages/001_customers_pkg.sql",
		"packages/002_orders_pkg.sql",
	} {
		_, err := os.Stat(filepath.Join(outDir, name))
		require.NoError(err, name)
	}

	table, err := os.ReadFile(filepath.Join(outDir, "tables", "001_customers.sql"))
	require.NoError(err)
	content := string(table)
	require.Contains(content, "-- Author:     dba-team")
	require.Contains(content, "-- Generated:  2025-06-01T12:00:00Z")
	require.Contains(content, "CREATE TABLE customers (")
	require.Contains(content, "ALTER TABLE customers ADD CONSTRAINT customers_pk PRIMARY KEY (id);")
	require.Contains(content, "CHECK (status IN ('ACTIVE', 'INACTIVE'))")

	fk, err := os.ReadFile(filepath.Join(outDir, "tables", "002_orders.sql"))
	require.NoError(err)
	require.Contains(string(fk),
		"ADD CONSTRAINT orders_customers_fk FOREIGN KEY (customer_id) REFERENCES customers (id);")
}

func TestGenerateBrokenReferenceStillSucceeds(t *testing.T) {
	require := require.New(t)
	dir := t.TempDir()
	defPath := filepath.Join(dir, "schema.json")
	def := `{"tables": [
		{"name": "orders", "fields": [
			{"name": "id", "type": "NUMBER", "nullable": false, "is_primary_key": true},
			{"name": "ghost_id", "type": "NUMBER", "foreign_key": {"referenced_table": "ghosts", "referenced_column": "id"}}
		]}
	]}`
	require.NoError(os.WriteFile(defPath, []byte(def), 0o644))

	result, err := sqlforge.Generate(context.Background(), defPath, filepath.Join(dir, "out"))
	require.NoError(err)
	require.NotEmpty(result.Diagnostics)
	for _, d := range result.Diagnostics {
		require.Equal(gen.SeverityWarning, d.Severity)
	}
}

func TestGenerateRejectsUnsupportedDialect(t *testing.T) {
	require := require.New(t)
	dir := t.TempDir()
	defPath := filepath.Join(dir, "schema.json")
	def := `{"dialect": "cobol", "tables": [
		{"name": "t", "fields": [{"name": "id", "type": "NUMBER"}]}
	]}`
	require.NoError(os.WriteFile(defPath, []byte(def), 0o644))

	_, err := sqlforge.Generate(context.Background(), defPath, filepath.Join(dir, "out"))
	require.Error(err)
	require.Contains(err.Error(), `unsupported dialect "cobol"`)
}

func TestValidate(t *testing.T) {
	require := require.New(t)
	dir := t.TempDir()
	defPath := filepath.Join(dir, "schema.json")
	require.NoError(os.WriteFile(defPath, []byte(definition), 0o644))

	sc, err := sqlforge.Validate(defPath)
	require.NoError(err)
	require.Len(sc.Tables, 2)

	_, err = sqlforge.Validate(filepath.Join(dir, "missing.json"))
	require.Error(err)
}
