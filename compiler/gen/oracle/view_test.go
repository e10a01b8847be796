package oracle

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestViewGenerator(t *testing.T) {
	require := require.New(t)
	sc := testSchema()

	s, err := (&ViewGenerator{}).Generate(sc.Table("customers"))
	require.NoError(err)
	require.NotNil(s)

	body := s.Body
	require.Contains(body, "CREATE OR REPLACE VIEW customers_v AS")
	// Plain columns pass through unchanged.
	require.Contains(body, "    name,\n")
	require.Contains(body, "    email,\n")
	// Date-typed and _at columns render through the formatting expression.
	require.Contains(body, "TO_CHAR(created_at, 'YYYY-MM-DD HH24:MI:SS') AS created_at")
	require.Contains(body, "TO_CHAR(updated_at, 'YYYY-MM-DD HH24:MI:SS') AS updated_at")
	require.Contains(body, "FROM customers;")

	// View and column comments are always emitted.
	require.Contains(body, "COMMENT ON TABLE customers_v IS 'Read view over customers';")
	require.Contains(body, "COMMENT ON COLUMN customers_v.name IS 'Customer name';")
	require.Contains(body, "COMMENT ON COLUMN customers_v.email IS 'Column email of customers';")
	require.Contains(body, "COMMENT ON COLUMN customers_v.created_at IS 'Column created_at of customers (formatted as YYYY-MM-DD HH24:MI:SS)';")
}

func TestViewGeneratorNamePattern(t *testing.T) {
	require := require.New(t)
	sc := testSchema()

	s, err := (&ViewGenerator{}).Generate(sc.Table("orders"))
	require.NoError(err)
	// placed_on matches the _on naming convention even though the column
	// type alone would already qualify; total does not.
	require.Contains(s.Body, "TO_CHAR(placed_on, 'YYYY-MM-DD HH24:MI:SS') AS placed_on")
	require.False(strings.Contains(s.Body, "TO_CHAR(total"))
}
