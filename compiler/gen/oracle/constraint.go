package oracle

import (
	"fmt"
	"strings"

	"github.com/syssam/sqlforge/compiler/gen"
	"github.com/syssam/sqlforge/schema"
)

// ConstraintGenerator emits, in fixed order, the primary-key constraint, one
// foreign-key constraint per resolvable foreign-key field, one unique
// constraint per unique field and one check constraint per field with an
// allowed-value set. Constraint names are a pure function of (table, kind,
// qualifier) so identical input yields identical scripts.
type ConstraintGenerator struct {
	schema *schema.Schema
}

// SectionName returns the section header label.
func (g *ConstraintGenerator) SectionName() string { return "CONSTRAINTS" }

// SectionDescription returns the one-line header description.
func (g *ConstraintGenerator) SectionDescription() string {
	return "Primary, foreign, unique and check constraints"
}

// Generate renders the ALTER TABLE statements for t. Foreign keys that do
// not resolve to an existing table and column are skipped with a warning,
// never fatally, so partially-correct input still produces usable output.
func (g *ConstraintGenerator) Generate(t *schema.Table) (*gen.Section, error) {
	var (
		stmts    []string
		warnings []string
	)
	table := ident(t.Name)

	if pk := t.PrimaryKey(); len(pk) > 0 {
		cols := make([]string, len(pk))
		for i, f := range pk {
			cols[i] = ident(f.Name)
		}
		stmts = append(stmts, fmt.Sprintf("ALTER TABLE %s ADD CONSTRAINT %s PRIMARY KEY (%s);",
			table, constraintName(t.Name, "", "pk"), strings.Join(cols, ", ")))
	}

	for _, f := range t.ForeignKeys() {
		ref, refCol, why := g.resolve(f)
		if why != "" {
			warnings = append(warnings, fmt.Sprintf("foreign key on %s.%s skipped: %s", t.Name, f.Name, why))
			continue
		}
		stmts = append(stmts, fmt.Sprintf("ALTER TABLE %s ADD CONSTRAINT %s FOREIGN KEY (%s) REFERENCES %s (%s);",
			table, constraintName(t.Name, ref.Name, "fk"), ident(f.Name), ident(ref.Name), ident(refCol.Name)))
	}

	for _, f := range t.Fields {
		if !f.Unique {
			continue
		}
		stmts = append(stmts, fmt.Sprintf("ALTER TABLE %s ADD CONSTRAINT %s UNIQUE (%s);",
			table, constraintName(t.Name, f.Name, "uq"), ident(f.Name)))
	}

	for _, f := range t.Fields {
		if !f.HasAllowedValues() {
			continue
		}
		lits := make([]string, len(f.AllowedValues))
		for i, v := range f.AllowedValues {
			lits[i] = checkLiteral(v)
		}
		stmts = append(stmts, fmt.Sprintf("ALTER TABLE %s ADD CONSTRAINT %s CHECK (%s IN (%s));",
			table, constraintName(t.Name, f.Name, "ck"), ident(f.Name), strings.Join(lits, ", ")))
	}

	if len(stmts) == 0 && len(warnings) == 0 {
		return nil, nil
	}
	return &gen.Section{
		Name:        g.SectionName(),
		Description: g.SectionDescription(),
		Body:        strings.Join(stmts, "\n") + "\n",
		Warnings:    warnings,
	}, nil
}

// resolve checks a foreign-key field against the schema. The returned reason
// is empty on success.
func (g *ConstraintGenerator) resolve(f *schema.Field) (*schema.Table, *schema.Field, string) {
	if f.ForeignKey == nil || f.ForeignKey.ReferencedTable == "" {
		return nil, nil, "field is marked as a foreign key but carries no reference"
	}
	ref := g.schema.Table(f.ForeignKey.ReferencedTable)
	if ref == nil {
		return nil, nil, fmt.Sprintf("referenced table %q does not exist", f.ForeignKey.ReferencedTable)
	}
	col := ref.Field(f.ForeignKey.ReferencedColumn)
	if col == nil {
		return nil, nil, fmt.Sprintf("referenced column %q does not exist on %q",
			f.ForeignKey.ReferencedColumn, ref.Name)
	}
	return ref, col, ""
}
