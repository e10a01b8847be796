package oracle

import (
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/syssam/sqlforge/schema"
)

func TestDataGenerator(t *testing.T) {
	require := require.New(t)
	sc := testSchema()

	s, err := (&DataGenerator{}).Generate(sc.Table("customers"))
	require.NoError(err)
	require.NotNil(s)

	body := s.Body
	require.Equal(seedRows, strings.Count(body, "INSERT INTO customers"))
	require.True(strings.HasSuffix(body, "COMMIT;\n"))

	// Live-default and triggered columns are omitted from the insert list.
	require.NotContains(body, "created_at")
	require.NotContains(body, "updated_at")

	// Primary key takes the row index.
	require.Contains(body, "VALUES (1, ")
	require.Contains(body, fmt.Sprintf("VALUES (%d, ", seedRows))

	// Allowed values cycle in declared order.
	rows := strings.Split(strings.TrimSpace(body), "\n")
	var statuses []string
	for _, line := range rows {
		if strings.HasPrefix(line, "VALUES") {
			if strings.Contains(line, "'ACTIVE'") {
				statuses = append(statuses, "ACTIVE")
			} else if strings.Contains(line, "'INACTIVE'") {
				statuses = append(statuses, "INACTIVE")
			}
		}
	}
	require.Len(statuses, seedRows)
	require.Equal("ACTIVE", statuses[0])
	require.Equal("INACTIVE", statuses[1])
	require.Equal("ACTIVE", statuses[2])
}

func TestDataGeneratorForeignKeys(t *testing.T) {
	require := require.New(t)
	sc := testSchema()

	s, err := (&DataGenerator{}).Generate(sc.Table("orders"))
	require.NoError(err)

	// Every FK value lands on a primary key the referenced seed script
	// also emits: row i references key ((i-1) mod 22) + 1.
	for row := 1; row <= seedRows; row++ {
		want := ((row-1)%seedRows + 1)
		require.GreaterOrEqual(want, 1)
		require.LessOrEqual(want, seedRows)
	}
	// With 22 rows the cycle is the identity, so row and FK agree.
	require.Contains(s.Body, "VALUES (1, 1, ")
	require.Contains(s.Body, "VALUES (22, 22, ")
}

func TestDataGeneratorStatusVocabulary(t *testing.T) {
	require := require.New(t)
	tbl := &schema.Table{Name: "jobs", Fields: []*schema.Field{
		{Name: "id", Type: "NUMBER", PrimaryKey: true},
		{Name: "status", Type: "VARCHAR2(20)", Nullable: true},
	}}

	s, err := (&DataGenerator{}).Generate(tbl)
	require.NoError(err)

	// Without declared allowed values, status-like text fields draw from
	// the fixed 10-word vocabulary, cycling every 10 rows.
	require.Len(statusVocab, 10)
	lines := strings.Split(s.Body, "\n")
	var got []string
	for _, line := range lines {
		if strings.HasPrefix(line, "VALUES") {
			for _, v := range statusVocab {
				if strings.Contains(line, "'"+v+"'") {
					got = append(got, v)
					break
				}
			}
		}
	}
	require.Len(got, seedRows)
	for i, v := range got {
		require.Equal(statusVocab[i%len(statusVocab)], v, "row %d", i+1)
	}
}

func TestDataGeneratorShapes(t *testing.T) {
	require := require.New(t)
	tbl := &schema.Table{Name: "contacts", Fields: []*schema.Field{
		{Name: "id", Type: "NUMBER", PrimaryKey: true},
		{Name: "email", Type: "VARCHAR2(150)", Nullable: true},
		{Name: "phone", Type: "VARCHAR2(20)", Nullable: true},
		{Name: "first_name", Type: "VARCHAR2(50)", Nullable: true},
		{Name: "joined_on", Type: "DATE", Nullable: true},
		{Name: "active", Type: "NUMBER(1)", Nullable: true},
		{Name: "score", Type: "NUMBER", Nullable: true},
	}}

	s, err := (&DataGenerator{}).Generate(tbl)
	require.NoError(err)
	require.Contains(s.Body, "'user1@example.com'")
	require.Contains(s.Body, "'+1-555-0101'")
	require.Contains(s.Body, "'Alice'")
	require.Contains(s.Body, "TO_DATE('2024-01-01', 'YYYY-MM-DD') + 1")
	// Booleans alternate.
	require.Contains(s.Body, ", 1, ")
	require.Contains(s.Body, ", 0, ")
}

func TestDataGeneratorSizeCap(t *testing.T) {
	require := require.New(t)
	tbl := &schema.Table{Name: "tiny", Fields: []*schema.Field{
		{Name: "id", Type: "NUMBER", PrimaryKey: true},
		{Name: "label", Type: "VARCHAR2(5)", Nullable: true},
	}}

	s, err := (&DataGenerator{}).Generate(tbl)
	require.NoError(err)
	for _, line := range strings.Split(s.Body, "\n") {
		if !strings.HasPrefix(line, "VALUES") {
			continue
		}
		start := strings.Index(line, "'")
		end := strings.LastIndex(line, "'")
		require.LessOrEqual(end-start-1, 5, "literal too long in %q", line)
	}
}

func TestDataGeneratorNotApplicable(t *testing.T) {
	require := require.New(t)
	tbl := &schema.Table{Name: "nokey", Fields: []*schema.Field{
		{Name: "note", Type: "VARCHAR2(50)", Nullable: true},
	}}
	s, err := (&DataGenerator{}).Generate(tbl)
	require.NoError(err)
	require.Nil(s)
}
