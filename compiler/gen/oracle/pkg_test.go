package oracle

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/syssam/sqlforge/schema"
)

func TestPackageGeneratorSpec(t *testing.T) {
	require := require.New(t)
	sc := testSchema()

	s, err := (&PackageGenerator{schema: sc}).Generate(sc.Table("customers"))
	require.NoError(err)
	require.NotNil(s)

	body := s.Body
	require.Contains(body, "CREATE OR REPLACE PACKAGE customers_pkg AS")
	require.Contains(body, "CREATE OR REPLACE PACKAGE BODY customers_pkg AS")
	require.Contains(body, "PROCEDURE create_customer(")
	require.Contains(body, "PROCEDURE update_customer(")
	require.Contains(body, "PROCEDURE delete_customer(")
	require.Contains(body, "PROCEDURE get_customer(")
	require.Contains(body, "PROCEDURE get_customers(")

	// Parameters anchor to the column types.
	require.Contains(body, "p_name IN customers.name%TYPE")
	// System-managed columns never appear as input parameters.
	require.NotContains(body, "p_created_at")
	require.NotContains(body, "p_updated_at")
}

func TestPackageGeneratorValidation(t *testing.T) {
	require := require.New(t)
	sc := testSchema()

	s, err := (&PackageGenerator{schema: sc}).Generate(sc.Table("customers"))
	require.NoError(err)

	body := s.Body
	require.Contains(body, "PROCEDURE validate_customer(")
	// Required check for the non-nullable name.
	require.Contains(body, "IF p_name IS NULL THEN")
	require.Contains(body, "RAISE_APPLICATION_ERROR(-20001, 'name is required');")
	// Declared maximum length check.
	require.Contains(body, "IF LENGTH(p_name) > 100 THEN")
	require.Contains(body, "'name exceeds maximum length of 100'")
	// Nullable fields get no required check.
	require.NotContains(body, "IF p_email IS NULL THEN")
}

func TestPackageGeneratorForeignKeyChecks(t *testing.T) {
	require := require.New(t)
	sc := testSchema()

	s, err := (&PackageGenerator{schema: sc}).Generate(sc.Table("orders"))
	require.NoError(err)

	body := s.Body
	// FK existence check guards non-null references.
	require.Contains(body, "IF p_customer_id IS NOT NULL THEN")
	require.Contains(body, "SELECT COUNT(*) INTO v_count FROM customers WHERE id = p_customer_id;")
	require.Contains(body, "'customer_id references a missing row in customers'")

	// The single-record read joins in the referenced display columns.
	require.Contains(body, "LEFT JOIN customers r1 ON r1.id = t.customer_id")
	require.Contains(body, "r1.name AS customer_name")
	require.Contains(body, "r1.email AS customer_email")
	// Key and audit columns of the referenced table are not projected.
	require.NotContains(body, "r1.id AS")
	require.NotContains(body, "r1.created_at")
}

func TestPackageGeneratorGetMany(t *testing.T) {
	require := require.New(t)
	sc := testSchema()

	s, err := (&PackageGenerator{schema: sc}).Generate(sc.Table("customers"))
	require.NoError(err)

	body := s.Body
	// Sort column must be one of the table's own columns.
	require.Contains(body, "IF v_sort_by NOT IN ('id', 'name', 'email', 'status', 'created_at', 'updated_at') THEN")
	require.Contains(body, "RAISE_APPLICATION_ERROR(-20004, 'invalid sort column: ' || v_sort_by);")
	// Page and page size are clamped to a valid positive range.
	require.Contains(body, "v_page NUMBER := GREATEST(NVL(p_page, 1), 1);")
	require.Contains(body, "v_page_size NUMBER := LEAST(GREATEST(NVL(p_page_size, 10), 1), 100);")
	// Total pages come from a count query sharing the filter.
	require.Contains(body, "SELECT COUNT(*) FROM customers WHERE")
	require.Contains(body, "o_total_pages := CEIL(v_total / v_page_size);")
	// Pagination clauses.
	require.Contains(body, "OFFSET :off ROWS FETCH NEXT :lim ROWS ONLY")
	// Text columns are searchable.
	require.Contains(body, "LOWER(name) LIKE :pattern")
	require.Contains(body, "LOWER(email) LIKE :pattern")
}

func TestPackageGeneratorSingularTableName(t *testing.T) {
	require := require.New(t)
	tbl := &schema.Table{Name: "status", Fields: []*schema.Field{
		{Name: "id", Type: "NUMBER", PrimaryKey: true},
		{Name: "label", Type: "VARCHAR2(50)", Nullable: true},
	}}
	sc := &schema.Schema{Tables: []*schema.Table{tbl}}

	s, err := (&PackageGenerator{schema: sc}).Generate(tbl)
	require.NoError(err)
	// An already-singular table name cannot produce two identical read
	// procedures; the list read gets a suffix.
	require.Contains(s.Body, "PROCEDURE get_status(")
	require.Contains(s.Body, "PROCEDURE get_status_list(")
}

func TestPackageGeneratorOnlySystemManagedColumns(t *testing.T) {
	require := require.New(t)
	tbl := &schema.Table{Name: "heartbeats", Fields: []*schema.Field{
		{Name: "id", Type: "NUMBER", PrimaryKey: true},
		{Name: "created_at", Type: "DATE", Default: "current timestamp"},
		{Name: "updated_at", Type: "DATE", Trigger: &schema.Trigger{Enabled: true, Event: schema.BeforeUpdate}},
	}}
	sc := &schema.Schema{Tables: []*schema.Table{tbl}}

	s, err := (&PackageGenerator{schema: sc}).Generate(tbl)
	require.NoError(err)
	require.NotNil(s)

	// With the primary key as the only input there is nothing to update;
	// an UPDATE with an empty SET list would not compile.
	require.NotContains(s.Body, "PROCEDURE update_heartbeat")
	require.NotContains(s.Body, "SET \n")
	require.Contains(s.Body, "PROCEDURE create_heartbeat(")
	require.Contains(s.Body, "PROCEDURE delete_heartbeat(")
	require.Contains(s.Body, "PROCEDURE get_heartbeat(")
}

func TestPackageGeneratorNotApplicable(t *testing.T) {
	require := require.New(t)
	tbl := &schema.Table{Name: "nokey", Fields: []*schema.Field{
		{Name: "note", Type: "VARCHAR2(50)", Nullable: true},
	}}
	sc := &schema.Schema{Tables: []*schema.Table{tbl}}

	s, err := (&PackageGenerator{schema: sc}).Generate(tbl)
	require.NoError(err)
	require.Nil(s)
}

func TestPackageGeneratorBrokenReferenceWarns(t *testing.T) {
	require := require.New(t)
	sc := testSchema()
	sc.Table("orders").Field("customer_id").ForeignKey.ReferencedTable = "ghosts"

	s, err := (&PackageGenerator{schema: sc}).Generate(sc.Table("orders"))
	require.NoError(err)
	require.NotNil(s)
	require.Len(s.Warnings, 1)
	require.Contains(s.Warnings[0], `referenced table "ghosts" does not exist`)
	require.NotContains(s.Body, "LEFT JOIN")
}
