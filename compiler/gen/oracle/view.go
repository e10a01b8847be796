package oracle

import (
	"fmt"
	"strings"

	"github.com/syssam/sqlforge/compiler/gen"
	"github.com/syssam/sqlforge/schema"
)

// dateFormat is the human-readable rendering applied to date-ish columns.
const dateFormat = "YYYY-MM-DD HH24:MI:SS"

// ViewGenerator emits one read-oriented view per table exposing every field.
// Date and timestamp columns, and columns following the _on/_at naming
// convention, render through TO_CHAR; everything else passes through. The
// view and each of its columns always get documentation comments.
type ViewGenerator struct{}

// SectionName returns the section header label.
func (g *ViewGenerator) SectionName() string { return "VIEW" }

// SectionDescription returns the one-line header description.
func (g *ViewGenerator) SectionDescription() string {
	return "Read view with human-readable date columns"
}

// Generate renders the view and its comments for t.
func (g *ViewGenerator) Generate(t *schema.Table) (*gen.Section, error) {
	table := ident(t.Name)
	view := synthName(t.Name, "", "v")

	var b strings.Builder
	fmt.Fprintf(&b, "CREATE OR REPLACE VIEW %s AS\nSELECT\n", view)
	for i, f := range t.Fields {
		col := ident(f.Name)
		if dateish(f.Name, f.Type) {
			fmt.Fprintf(&b, "    TO_CHAR(%s, '%s') AS %s", col, dateFormat, col)
		} else {
			fmt.Fprintf(&b, "    %s", col)
		}
		if i < len(t.Fields)-1 {
			b.WriteString(",")
		}
		b.WriteString("\n")
	}
	fmt.Fprintf(&b, "FROM %s;\n\n", table)

	fmt.Fprintf(&b, "COMMENT ON TABLE %s IS %s;\n",
		view, quoteString(fmt.Sprintf("Read view over %s", table)))
	for _, f := range t.Fields {
		comment := f.Comment
		if strings.TrimSpace(comment) == "" {
			comment = fmt.Sprintf("Column %s of %s", ident(f.Name), table)
		}
		if dateish(f.Name, f.Type) {
			comment += fmt.Sprintf(" (formatted as %s)", dateFormat)
		}
		fmt.Fprintf(&b, "COMMENT ON COLUMN %s.%s IS %s;\n", view, ident(f.Name), quoteString(comment))
	}

	return &gen.Section{
		Name:        g.SectionName(),
		Description: g.SectionDescription(),
		Body:        b.String(),
	}, nil
}
