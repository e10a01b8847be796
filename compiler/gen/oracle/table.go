package oracle

import (
	"fmt"
	"strings"

	"github.com/syssam/sqlforge/compiler/gen"
	"github.com/syssam/sqlforge/schema"
)

// TableGenerator emits the canonical CREATE TABLE statement. Field order is
// declaration order; nullable is the assumed default and never rendered.
type TableGenerator struct{}

// SectionName returns the section header label.
func (g *TableGenerator) SectionName() string { return "TABLE DEFINITION" }

// SectionDescription returns the one-line header description.
func (g *TableGenerator) SectionDescription() string { return "Table creation statement" }

// Generate renders the CREATE TABLE statement for t.
func (g *TableGenerator) Generate(t *schema.Table) (*gen.Section, error) {
	var b strings.Builder
	fmt.Fprintf(&b, "CREATE TABLE %s (\n", ident(t.Name))
	for i, f := range t.Fields {
		fmt.Fprintf(&b, "    %s %s", ident(f.Name), strings.ToUpper(f.Type))
		if f.HasDefault() {
			fmt.Fprintf(&b, " DEFAULT %s", defaultLiteral(f.Default))
		}
		if !f.Nullable {
			b.WriteString(" NOT NULL")
		}
		if i < len(t.Fields)-1 {
			b.WriteString(",")
		}
		b.WriteString("\n")
	}
	b.WriteString(");\n")
	return &gen.Section{
		Name:        g.SectionName(),
		Description: g.SectionDescription(),
		Body:        b.String(),
	}, nil
}
