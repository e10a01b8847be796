// Package oracle implements the section generator set for Oracle-style SQL
// and PL/SQL: table DDL, constraints, triggers, column comments, read views,
// seed data and the per-table CRUD package.
package oracle

import (
	"fmt"
	"hash/fnv"
	"strconv"
	"strings"

	"github.com/go-openapi/inflect"
)

// maxIdent is Oracle's classic identifier length limit. Every synthesized
// name (constraints, triggers, packages) is capped to it deterministically.
const maxIdent = 30

// reserved are Oracle reserved words that cannot name a column unquoted.
var reserved = map[string]struct{}{
	"access": {}, "add": {}, "all": {}, "alter": {}, "and": {}, "any": {},
	"as": {}, "asc": {}, "audit": {}, "between": {}, "by": {}, "char": {},
	"check": {}, "cluster": {}, "column": {}, "comment": {}, "compress": {},
	"connect": {}, "create": {}, "current": {}, "date": {}, "decimal": {},
	"default": {}, "delete": {}, "desc": {}, "distinct": {}, "drop": {},
	"else": {}, "exclusive": {}, "exists": {}, "file": {}, "float": {},
	"for": {}, "from": {}, "grant": {}, "group": {}, "having": {},
	"identified": {}, "immediate": {}, "in": {}, "increment": {}, "index": {},
	"initial": {}, "insert": {}, "integer": {}, "intersect": {}, "into": {},
	"is": {}, "level": {}, "like": {}, "lock": {}, "long": {}, "maxextents": {},
	"minus": {}, "mlslabel": {}, "mode": {}, "modify": {}, "noaudit": {},
	"nocompress": {}, "not": {}, "nowait": {}, "null": {}, "number": {},
	"of": {}, "offline": {}, "on": {}, "online": {}, "option": {}, "or": {},
	"order": {}, "pctfree": {}, "prior": {}, "public": {}, "raw": {},
	"rename": {}, "resource": {}, "revoke": {}, "row": {}, "rowid": {},
	"rownum": {}, "rows": {}, "select": {}, "session": {}, "set": {},
	"share": {}, "size": {}, "smallint": {}, "start": {}, "successful": {},
	"synonym": {}, "sysdate": {}, "table": {}, "then": {}, "to": {},
	"trigger": {}, "uid": {}, "union": {}, "unique": {}, "update": {},
	"user": {}, "validate": {}, "values": {}, "varchar": {}, "varchar2": {},
	"view": {}, "whenever": {}, "where": {}, "with": {},
}

// ident normalizes a schema name to a safe lowercase Oracle identifier.
// Reserved words get a trailing underscore so generated scripts never need
// quoted identifiers.
func ident(name string) string {
	id := inflect.Underscore(strings.TrimSpace(name))
	if _, ok := reserved[id]; ok {
		id += "_"
	}
	if len(id) > maxIdent {
		id = id[:maxIdent]
	}
	return id
}

// synthName builds a deterministic derived identifier `<base>_<qualifier>_<kind>`
// capped at maxIdent. The kind suffix always survives truncation so the name
// still says what the object is.
func synthName(base, qualifier, kind string) string {
	parts := ident(base)
	if qualifier != "" {
		parts += "_" + ident(qualifier)
	}
	suffix := "_" + kind
	if len(parts)+len(suffix) > maxIdent {
		parts = parts[:maxIdent-len(suffix)]
		parts = strings.TrimRight(parts, "_")
	}
	return parts + suffix
}

// constraintName synthesizes the constraint identifier for a table. The
// qualifier is the referenced table for foreign keys and the field name for
// unique and check constraints; primary keys use none. Identical input
// always yields the identical name, which keeps script diffs reproducible.
func constraintName(table, qualifier, kind string) string {
	return synthName(table, qualifier, kind)
}

// quoteString wraps s in single quotes, doubling embedded quotes.
func quoteString(s string) string {
	return "'" + strings.ReplaceAll(s, "'", "''") + "'"
}

// isNumeric reports if s parses as a SQL numeric literal.
func isNumeric(s string) bool {
	_, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	return err == nil
}

// isQuoted reports if s is already a quoted SQL string literal.
func isQuoted(s string) bool {
	return len(s) >= 2 && strings.HasPrefix(s, "'") && strings.HasSuffix(s, "'")
}

// keywordExpr maps dialect keyword spellings to their Oracle expression.
// The second return is false when s is not a recognized keyword.
func keywordExpr(s string) (string, bool) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "current timestamp", "current_timestamp", "now":
		return "CURRENT_TIMESTAMP", true
	case "sysdate":
		return "SYSDATE", true
	case "current user", "current_user", "user":
		return "USER", true
	}
	return "", false
}

// defaultLiteral renders a field default for the DEFAULT clause: dialect
// keywords pass through unquoted and case-normalized, pre-quoted strings
// pass verbatim, and anything else is treated as a bare string and quoted.
func defaultLiteral(s string) string {
	if expr, ok := keywordExpr(s); ok {
		return expr
	}
	if isQuoted(s) {
		return s
	}
	return quoteString(s)
}

// actionExpr renders a trigger action as the assigned expression: a dialect
// keyword, a quoted string, a bare number, or, as a fallback, the action
// text verbatim as a PL/SQL expression.
func actionExpr(s string) string {
	if expr, ok := keywordExpr(s); ok {
		return expr
	}
	if isQuoted(s) {
		return s
	}
	if isNumeric(s) {
		return strings.TrimSpace(s)
	}
	return strings.TrimSpace(s)
}

// checkLiteral renders one allowed value inside a CHECK constraint or an
// insert list: numbers stay bare, everything else is quoted.
func checkLiteral(s string) string {
	if isNumeric(s) {
		return s
	}
	return quoteString(s)
}

// condSuffix derives a short stable suffix from a trigger condition so two
// trigger groups with the same event but different conditions never collide.
func condSuffix(condition string) string {
	h := fnv.New32a()
	h.Write([]byte(condition))
	return fmt.Sprintf("%04x", h.Sum32()&0xffff)
}

// typeCategory is the coarse value family of a dialect type string.
type typeCategory int

const (
	categoryText typeCategory = iota
	categoryNumber
	categoryDate
	categoryBoolean
)

// typeCategoryOf parses a dialect type string into its category. Unknown
// types fall back to text, the safest shape to synthesize.
func typeCategoryOf(typ string) typeCategory {
	upper := strings.ToUpper(strings.TrimSpace(typ))
	switch {
	case upper == "NUMBER(1)" || strings.HasPrefix(upper, "BOOLEAN"):
		return categoryBoolean
	case strings.HasPrefix(upper, "DATE") || strings.HasPrefix(upper, "TIMESTAMP"):
		return categoryDate
	case strings.HasPrefix(upper, "NUMBER") || strings.HasPrefix(upper, "INT") ||
		strings.HasPrefix(upper, "FLOAT") || strings.HasPrefix(upper, "DECIMAL") ||
		strings.HasPrefix(upper, "BINARY_"):
		return categoryNumber
	}
	return categoryText
}

// typeSize extracts the declared size of a size-qualified type string such
// as VARCHAR2(100). It returns 0 when the type declares none.
func typeSize(typ string) int {
	open := strings.IndexByte(typ, '(')
	end := strings.IndexByte(typ, ')')
	if open < 0 || end <= open {
		return 0
	}
	inner := typ[open+1 : end]
	if comma := strings.IndexByte(inner, ','); comma >= 0 {
		inner = inner[:comma]
	}
	n, err := strconv.Atoi(strings.TrimSpace(inner))
	if err != nil {
		return 0
	}
	return n
}

// dateish reports if a field renders through a date formatting expression in
// views: date/timestamp types plus the _on/_at naming convention.
func dateish(name, typ string) bool {
	if typeCategoryOf(typ) == categoryDate {
		return true
	}
	lower := strings.ToLower(name)
	return strings.HasSuffix(lower, "_on") || strings.HasSuffix(lower, "_at")
}

// singular returns the singular form of a table name for procedure naming.
func singular(table string) string {
	return inflect.Singularize(ident(table))
}
