// Package dialect names the target SQL/procedural syntax families the
// generators can emit. The reference dialect is Oracle-style SQL with
// PL/SQL stored procedures; the constant here is what definition files
// declare and what artifact headers report.
package dialect

const (
	// Oracle is Oracle-style SQL and PL/SQL.
	Oracle = "oracle"
)

// Supported reports if the named dialect has a generator set.
func Supported(name string) bool {
	return name == Oracle
}
